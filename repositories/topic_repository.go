package repositories

import (
	"context"

	"formify.app/configs"
	"formify.app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ITopicRepository interface {
	FindAll(ctx context.Context) ([]models.Topic, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Upsert(ctx context.Context, topic *models.Topic) error
}

type TopicRepository struct {
	db *gorm.DB
}

func NewTopicRepository() ITopicRepository {
	return &TopicRepository{db: configs.GetDB()}
}

func NewTopicRepositoryTx(tx *gorm.DB) ITopicRepository {
	return &TopicRepository{db: tx}
}

func (r *TopicRepository) FindAll(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	err := getDB(ctx, r.db).Order("id ASC").Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Topic{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// Upsert keeps the description of an existing topic in sync.
func (r *TopicRepository) Upsert(ctx context.Context, topic *models.Topic) error {
	return getDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
	}).Create(topic).Error
}

var _ ITopicRepository = (*TopicRepository)(nil)
