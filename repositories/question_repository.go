package repositories

import (
	"context"

	"formify.app/configs"
	"formify.app/models"

	"gorm.io/gorm"
)

// IQuestionRepository writes the question and option levels of a template tree.
type IQuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, ids []uint) error
	DeleteAnswers(ctx context.Context, questionID uint) error
	CreateOption(ctx context.Context, option *models.Option) error
	UpdateOption(ctx context.Context, option *models.Option) error
	DeleteOptions(ctx context.Context, ids []uint) error
}

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository() IQuestionRepository {
	return &QuestionRepository{db: configs.GetDB()}
}

func NewQuestionRepositoryTx(tx *gorm.DB) IQuestionRepository {
	return &QuestionRepository{db: tx}
}

// Create inserts the question together with its Options.
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	return getDB(ctx, r.db).Create(question).Error
}

func (r *QuestionRepository) Update(ctx context.Context, question *models.Question) error {
	return getDB(ctx, r.db).Model(&models.Question{}).Where("id = ?", question.ID).
		Select("title", "type", "required", "position").
		Updates(map[string]interface{}{
			"title":    question.Title,
			"type":     question.Type,
			"required": question.Required,
			"position": question.Position,
		}).Error
}

// Delete removes the questions with their options and answers.
func (r *QuestionRepository) Delete(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	db := getDB(ctx, r.db)
	if err := db.Where("question_id IN ?", ids).Delete(&models.Answer{}).Error; err != nil {
		return err
	}
	if err := db.Where("question_id IN ?", ids).Delete(&models.Option{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", ids).Delete(&models.Question{}).Error
}

func (r *QuestionRepository) DeleteAnswers(ctx context.Context, questionID uint) error {
	return getDB(ctx, r.db).Where("question_id = ?", questionID).Delete(&models.Answer{}).Error
}

func (r *QuestionRepository) CreateOption(ctx context.Context, option *models.Option) error {
	return getDB(ctx, r.db).Create(option).Error
}

func (r *QuestionRepository) UpdateOption(ctx context.Context, option *models.Option) error {
	return getDB(ctx, r.db).Model(&models.Option{}).Where("id = ?", option.ID).
		Select("value", "position").
		Updates(map[string]interface{}{"value": option.Value, "position": option.Position}).Error
}

// DeleteOptions removes the options and the answers that selected them.
func (r *QuestionRepository) DeleteOptions(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	db := getDB(ctx, r.db)
	if err := db.Where("option_id IN ?", ids).Delete(&models.Answer{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", ids).Delete(&models.Option{}).Error
}

var _ IQuestionRepository = (*QuestionRepository)(nil)
