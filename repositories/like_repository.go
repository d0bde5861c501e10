package repositories

import (
	"context"

	"formify.app/configs"
	"formify.app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ILikeRepository interface {
	Exists(ctx context.Context, userID, templateID uint) (bool, error)
	Create(ctx context.Context, userID, templateID uint) error
	Delete(ctx context.Context, userID, templateID uint) (bool, error)
	Increment(ctx context.Context, templateID uint) error
	Decrement(ctx context.Context, templateID uint) error
	TemplateIDsLikedBy(ctx context.Context, userIDs []uint) ([]uint, error)
	Recount(ctx context.Context, templateIDs []uint) error
}

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository() ILikeRepository {
	return &LikeRepository{db: configs.GetDB()}
}

func NewLikeRepositoryTx(tx *gorm.DB) ILikeRepository {
	return &LikeRepository{db: tx}
}

func (r *LikeRepository) Exists(ctx context.Context, userID, templateID uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.TemplateLike{}).
		Where("user_id = ? AND template_id = ?", userID, templateID).Count(&count).Error
	return count > 0, err
}

// Create returns ErrDuplicate when the like already exists.
func (r *LikeRepository) Create(ctx context.Context, userID, templateID uint) error {
	like := models.TemplateLike{UserID: userID, TemplateID: templateID}
	return translate(getDB(ctx, r.db).Omit(clause.Associations).Create(&like).Error)
}

// Delete reports whether a row was removed.
func (r *LikeRepository) Delete(ctx context.Context, userID, templateID uint) (bool, error) {
	result := getDB(ctx, r.db).Where("user_id = ? AND template_id = ?", userID, templateID).Delete(&models.TemplateLike{})
	return result.RowsAffected > 0, result.Error
}

func (r *LikeRepository) Increment(ctx context.Context, templateID uint) error {
	return r.adjust(ctx, templateID, gorm.Expr("likes_count + 1"))
}

// Decrement never takes the counter below zero.
func (r *LikeRepository) Decrement(ctx context.Context, templateID uint) error {
	return r.adjust(ctx, templateID, gorm.Expr("GREATEST(likes_count - 1, 0)"))
}

func (r *LikeRepository) adjust(ctx context.Context, templateID uint, expr interface{}) error {
	result := getDB(ctx, r.db).Model(&models.Template{}).Where("id = ?", templateID).
		UpdateColumn("likes_count", expr)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LikeRepository) TemplateIDsLikedBy(ctx context.Context, userIDs []uint) ([]uint, error) {
	var ids []uint
	if len(userIDs) == 0 {
		return ids, nil
	}
	err := getDB(ctx, r.db).Model(&models.TemplateLike{}).
		Distinct("template_id").Where("user_id IN ?", userIDs).Pluck("template_id", &ids).Error
	return ids, err
}

// Recount resets likes_count from the like rows for the given templates.
func (r *LikeRepository) Recount(ctx context.Context, templateIDs []uint) error {
	if len(templateIDs) == 0 {
		return nil
	}
	return getDB(ctx, r.db).Exec(
		"UPDATE templates SET likes_count = (SELECT COUNT(*) FROM template_likes WHERE template_likes.template_id = templates.id) WHERE id IN ?",
		templateIDs,
	).Error
}

var _ ILikeRepository = (*LikeRepository)(nil)
