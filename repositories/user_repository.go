package repositories

import (
	"context"

	"formify.app/configs"
	"formify.app/configs/configslog"
	"formify.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id uint, data map[string]interface{}) error
	DeleteWithContent(ctx context.Context, ids []uint) error
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository() IUserRepository {
	return &UserRepository{db: configs.GetDB()}
}

func NewUserRepositoryTx(tx *gorm.DB) IUserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(getDB(ctx, r.db).Create(user).Error)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := getDB(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := getDB(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := getDB(ctx, r.db).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	result := getDB(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		configslog.Log.Error("UserRepository.Update: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWithContent removes the users and everything that depends on them, deepest rows
// first. Call it inside a transaction.
func (r *UserRepository) DeleteWithContent(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	db := getDB(ctx, r.db)
	owned := db.Model(&models.Template{}).Select("id").Where("user_id IN ?", ids)
	forms := db.Model(&models.Form{}).Select("id").Where("user_id IN ? OR template_id IN (?)", ids, owned)
	questions := db.Model(&models.Question{}).Select("id").Where("template_id IN (?)", owned)

	steps := []struct {
		name string
		run  func() error
	}{
		{"answers", func() error {
			return db.Where("form_id IN (?) OR question_id IN (?)", forms, questions).Delete(&models.Answer{}).Error
		}},
		{"likes", func() error {
			return db.Where("user_id IN ? OR template_id IN (?)", ids, owned).Delete(&models.TemplateLike{}).Error
		}},
		{"forms", func() error {
			return db.Where("user_id IN ? OR template_id IN (?)", ids, owned).Delete(&models.Form{}).Error
		}},
		{"options", func() error {
			return db.Where("question_id IN (?)", questions).Delete(&models.Option{}).Error
		}},
		{"questions", func() error {
			return db.Where("template_id IN (?)", owned).Delete(&models.Question{}).Error
		}},
		{"template tags", func() error {
			return db.Exec("DELETE FROM template_tags WHERE template_id IN (?)", owned).Error
		}},
		{"templates", func() error {
			return db.Where("user_id IN ?", ids).Delete(&models.Template{}).Error
		}},
		{"users", func() error {
			return db.Where("id IN ?", ids).Delete(&models.User{}).Error
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			configslog.Log.Error("UserRepository.DeleteWithContent failed", zap.String("step", step.name), zap.Uints("ids", ids), zap.Error(err))
			return err
		}
	}
	return nil
}

var _ IUserRepository = (*UserRepository)(nil)
