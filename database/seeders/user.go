package seeders

import (
	"context"
	"errors"

	"formify.app/configs/configslog"
	"formify.app/models"
	"formify.app/repositories"
	"formify.app/services"

	"gorm.io/gorm"
)

// AdminAccount describes the administrator created by the seed step.
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

// SeedAdmin creates the account when missing and makes sure it holds the admin role.
// An existing account keeps its password.
func SeedAdmin(ctx context.Context, db *gorm.DB, admin AdminAccount) (*models.User, error) {
	users := repositories.NewUserRepositoryTx(db)

	user, err := users.FindByEmail(ctx, admin.Email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		user, err = services.NewAuthServiceWith(users).Signup(ctx, services.SignupInput{
			Name:     admin.Name,
			Email:    admin.Email,
			Password: admin.Password,
		})
		if err != nil {
			return nil, err
		}
		configslog.SLog.Infof("Admin account created: %s", user.Email)
	case err != nil:
		return nil, err
	default:
		configslog.SLog.Infof("Admin account already exists: %s", user.Email)
	}

	if !user.IsAdmin || user.IsBlocked {
		if err := users.Update(ctx, user.ID, map[string]interface{}{"is_admin": true, "is_blocked": false}); err != nil {
			return nil, err
		}
		user.IsAdmin, user.IsBlocked = true, false
	}
	return user, nil
}
