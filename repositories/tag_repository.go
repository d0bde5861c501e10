package repositories

import (
	"context"

	"formify.app/configs"
	"formify.app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ITagRepository interface {
	FindAll(ctx context.Context) ([]models.Tag, error)
	FindByID(ctx context.Context, id uint) (*models.Tag, error)
	FindOrCreateByLabel(ctx context.Context, label string) (*models.Tag, error)
}

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository() ITagRepository {
	return &TagRepository{db: configs.GetDB()}
}

func NewTagRepositoryTx(tx *gorm.DB) ITagRepository {
	return &TagRepository{db: tx}
}

func (r *TagRepository) FindAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := getDB(ctx, r.db).Order("label ASC").Find(&tags).Error
	return tags, err
}

func (r *TagRepository) FindByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := getDB(ctx, r.db).First(&tag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

// FindOrCreateByLabel is safe against concurrent creation of the same label.
func (r *TagRepository) FindOrCreateByLabel(ctx context.Context, label string) (*models.Tag, error) {
	db := getDB(ctx, r.db)
	tag := models.Tag{Label: label}
	if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "label"}}, DoNothing: true}).Create(&tag).Error; err != nil {
		return nil, err
	}
	if tag.ID != 0 {
		return &tag, nil
	}
	if err := db.Where("label = ?", label).First(&tag).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

var _ ITagRepository = (*TagRepository)(nil)
