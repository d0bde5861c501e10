package repositories

import (
	"context"

	"formify.app/configs"
	"formify.app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IAnswerRepository interface {
	FindByFormAndQuestion(ctx context.Context, formID, questionID uint) ([]models.Answer, error)
	FindByFormID(ctx context.Context, formID uint) ([]models.Answer, error)
	Create(ctx context.Context, answer *models.Answer) error
	UpdateValue(ctx context.Context, answer *models.Answer) error
	Delete(ctx context.Context, ids []uint) error
}

type AnswerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository() IAnswerRepository {
	return &AnswerRepository{db: configs.GetDB()}
}

func NewAnswerRepositoryTx(tx *gorm.DB) IAnswerRepository {
	return &AnswerRepository{db: tx}
}

func (r *AnswerRepository) FindByFormAndQuestion(ctx context.Context, formID, questionID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := getDB(ctx, r.db).Where("form_id = ? AND question_id = ?", formID, questionID).Order("id ASC").Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) FindByFormID(ctx context.Context, formID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := getDB(ctx, r.db).Where("form_id = ?", formID).Order("id ASC").Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) Create(ctx context.Context, answer *models.Answer) error {
	return getDB(ctx, r.db).Omit(clause.Associations).Create(answer).Error
}

// UpdateValue writes all three value columns so the unused ones are cleared.
func (r *AnswerRepository) UpdateValue(ctx context.Context, answer *models.Answer) error {
	return getDB(ctx, r.db).Model(&models.Answer{}).Where("id = ?", answer.ID).
		Select("option_id", "text_value", "int_value").
		Updates(map[string]interface{}{
			"option_id":  answer.OptionID,
			"text_value": answer.TextValue,
			"int_value":  answer.IntValue,
		}).Error
}

func (r *AnswerRepository) Delete(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return getDB(ctx, r.db).Where("id IN ?", ids).Delete(&models.Answer{}).Error
}

var _ IAnswerRepository = (*AnswerRepository)(nil)
