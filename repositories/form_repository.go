package repositories

import (
	"context"
	"time"

	"formify.app/configs"
	"formify.app/configs/configslog"
	"formify.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IFormRepository interface {
	FindOrCreate(ctx context.Context, templateID, userID uint) (*models.Form, error)
	FindByTemplateAndUser(ctx context.Context, templateID, userID uint) (*models.Form, error)
	FindByID(ctx context.Context, id uint) (*models.Form, error)
	FindByUserID(ctx context.Context, userID uint) ([]models.Form, error)
	FindByTemplateID(ctx context.Context, templateID uint) ([]models.Form, error)
	FindWithAnswersByTemplateID(ctx context.Context, templateID uint) ([]models.Form, error)
	Touch(ctx context.Context, id uint) error
	DeleteWithAnswers(ctx context.Context, id uint) error
}

type FormRepository struct {
	db *gorm.DB
}

func NewFormRepository() IFormRepository {
	return &FormRepository{db: configs.GetDB()}
}

func NewFormRepositoryTx(tx *gorm.DB) IFormRepository {
	return &FormRepository{db: tx}
}

// FindOrCreate relies on the (template_id, user_id) unique index, so concurrent calls for
// the same pair end up with the same row.
func (r *FormRepository) FindOrCreate(ctx context.Context, templateID, userID uint) (*models.Form, error) {
	db := getDB(ctx, r.db)
	form := models.Form{TemplateID: templateID, UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "template_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&form).Error
	if err != nil {
		configslog.Log.Error("FormRepository.FindOrCreate: insert failed",
			zap.Uint("template_id", templateID), zap.Uint("user_id", userID), zap.Error(err))
		return nil, translate(err)
	}
	if form.ID != 0 {
		return &form, nil
	}
	if err := db.Where("template_id = ? AND user_id = ?", templateID, userID).First(&form).Error; err != nil {
		return nil, translate(err)
	}
	return &form, nil
}

func (r *FormRepository) FindByTemplateAndUser(ctx context.Context, templateID, userID uint) (*models.Form, error) {
	var form models.Form
	err := getDB(ctx, r.db).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.id ASC") }).
		Where("template_id = ? AND user_id = ?", templateID, userID).
		First(&form).Error
	if err != nil {
		return nil, translate(err)
	}
	return &form, nil
}

func (r *FormRepository) FindByID(ctx context.Context, id uint) (*models.Form, error) {
	var form models.Form
	err := getDB(ctx, r.db).
		Preload("User", ownerColumns).
		Preload("Template").
		Preload("Template.Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.position ASC, questions.id ASC") }).
		Preload("Template.Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("options.position ASC, options.id ASC") }).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.id ASC") }).
		Preload("Answers.Option").
		First(&form, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &form, nil
}

func (r *FormRepository) FindByUserID(ctx context.Context, userID uint) ([]models.Form, error) {
	var forms []models.Form
	err := getDB(ctx, r.db).Preload("Template").
		Where("user_id = ?", userID).Order("updated_at DESC, id DESC").Find(&forms).Error
	return forms, err
}

func (r *FormRepository) FindByTemplateID(ctx context.Context, templateID uint) ([]models.Form, error) {
	var forms []models.Form
	err := getDB(ctx, r.db).Preload("User", ownerColumns).
		Where("template_id = ?", templateID).Order("updated_at DESC, id DESC").Find(&forms).Error
	return forms, err
}

// FindWithAnswersByTemplateID loads every submission of a template for aggregation.
func (r *FormRepository) FindWithAnswersByTemplateID(ctx context.Context, templateID uint) ([]models.Form, error) {
	var forms []models.Form
	err := getDB(ctx, r.db).Preload("Answers").
		Where("template_id = ?", templateID).Order("id ASC").Find(&forms).Error
	return forms, err
}

func (r *FormRepository) Touch(ctx context.Context, id uint) error {
	return getDB(ctx, r.db).Model(&models.Form{}).Where("id = ?", id).
		Update("updated_at", time.Now().UTC()).Error
}

func (r *FormRepository) DeleteWithAnswers(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)
	if err := db.Where("form_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Form{}, id)
	if result.Error != nil {
		configslog.Log.Error("FormRepository.DeleteWithAnswers: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IFormRepository = (*FormRepository)(nil)
