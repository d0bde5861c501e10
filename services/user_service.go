package services

import (
	"context"
	"errors"
	"sort"

	"formify.app/configs/configslog"
	"formify.app/models"
	"formify.app/repositories"

	"go.uber.org/zap"
)

// IUserService is the admin view over user accounts.
type IUserService interface {
	ListUsers(ctx context.Context, actor Actor) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ToggleBlock(ctx context.Context, actor Actor, targetID uint) (*models.User, error)
	ToggleAdmin(ctx context.Context, actor Actor, targetID uint) (*models.User, error)
	DeleteUsers(ctx context.Context, actor Actor, ids []uint) (int, error)
}

// UserService is the repository backed IUserService.
type UserService struct {
	users repositories.IUserRepository
	likes repositories.ILikeRepository
	tx    repositories.ITransactor
}

// NewUserService wires the service to the default database.
func NewUserService() IUserService {
	return &UserService{
		users: repositories.NewUserRepository(),
		likes: repositories.NewLikeRepository(),
		tx:    repositories.NewTransactor(),
	}
}

// NewUserServiceWith builds the service over explicit repositories.
func NewUserServiceWith(users repositories.IUserRepository, likes repositories.ILikeRepository, tx repositories.ITransactor) IUserService {
	return &UserService{users: users, likes: likes, tx: tx}
}

func requireAdmin(actor Actor) error {
	if !actor.IsAdmin {
		return newError(ErrForbidden, "admin access required")
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, actor Actor) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.FindAll(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ToggleBlock(ctx context.Context, actor Actor, targetID uint) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if targetID == actor.ID {
		return nil, newError(ErrInvalidInput, "you cannot block yourself")
	}
	return s.toggle(ctx, actor, targetID, "is_blocked", func(u *models.User) *bool { return &u.IsBlocked })
}

func (s *UserService) ToggleAdmin(ctx context.Context, actor Actor, targetID uint) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if targetID == actor.ID {
		return nil, newError(ErrInvalidInput, "you cannot change your own role")
	}
	return s.toggle(ctx, actor, targetID, "is_admin", func(u *models.User) *bool { return &u.IsAdmin })
}

func (s *UserService) toggle(ctx context.Context, actor Actor, targetID uint, column string, field func(*models.User) *bool) (*models.User, error) {
	var updated *models.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.GetUser(ctx, targetID)
		if err != nil {
			return err
		}
		flag := field(user)
		*flag = !*flag
		if err := s.users.Update(ctx, user.ID, map[string]interface{}{column: *flag}); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	configslog.Log.Info("User flag toggled",
		zap.Uint("actor", actor.ID), zap.Uint("target", targetID), zap.String("column", column), zap.Bool("value", *field(updated)))
	return updated, nil
}

// DeleteUsers removes users with all their templates, forms, answers and likes in one
// transaction. Like counters of other templates the users liked are recomputed.
func (s *UserService) DeleteUsers(ctx context.Context, actor Actor, ids []uint) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, newError(ErrInvalidInput, "no user ids given")
	}
	for _, id := range ids {
		if id == actor.ID {
			return 0, newError(ErrInvalidInput, "you cannot delete yourself")
		}
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		liked, err := s.likes.TemplateIDsLikedBy(ctx, ids)
		if err != nil {
			return err
		}
		if err := s.users.DeleteWithContent(ctx, ids); err != nil {
			return err
		}
		return s.likes.Recount(ctx, liked)
	})
	if err != nil {
		configslog.Log.Error("Bulk user delete failed", zap.Uints("ids", ids), zap.Error(err))
		return 0, err
	}
	configslog.Log.Info("Users deleted", zap.Uint("actor", actor.ID), zap.Uints("ids", ids))
	return len(ids), nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
