package services

import (
	"context"
	"errors"

	"formify.app/configs/configslog"
	"formify.app/repositories"

	"go.uber.org/zap"
)

// LikeStatus is the like count of a template and whether the caller liked it.
type LikeStatus struct {
	LikesCount   int  `json:"likesCount"`
	UserHasLiked bool `json:"userHasLiked"`
}

// ILikeService records and removes template likes.
type ILikeService interface {
	Status(ctx context.Context, userID, templateID uint) (*LikeStatus, error)
	Like(ctx context.Context, userID, templateID uint) (*LikeStatus, error)
	Unlike(ctx context.Context, userID, templateID uint) (*LikeStatus, error)
}

// LikeService is the repository backed ILikeService.
type LikeService struct {
	likes     repositories.ILikeRepository
	templates repositories.ITemplateRepository
	tx        repositories.ITransactor
}

// NewLikeService wires the service to the default database.
func NewLikeService() ILikeService {
	return &LikeService{
		likes:     repositories.NewLikeRepository(),
		templates: repositories.NewTemplateRepository(),
		tx:        repositories.NewTransactor(),
	}
}

// NewLikeServiceWith builds the service over explicit repositories.
func NewLikeServiceWith(likes repositories.ILikeRepository, templates repositories.ITemplateRepository, tx repositories.ITransactor) ILikeService {
	return &LikeService{likes: likes, templates: templates, tx: tx}
}

// Status is available to guests; userID 0 never has a like.
func (s *LikeService) Status(ctx context.Context, userID, templateID uint) (*LikeStatus, error) {
	count, err := s.templates.LikesCount(ctx, templateID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrNotFound, "template not found")
		}
		return nil, err
	}
	status := &LikeStatus{LikesCount: count}
	if userID != 0 {
		if status.UserHasLiked, err = s.likes.Exists(ctx, userID, templateID); err != nil {
			return nil, err
		}
	}
	return status, nil
}

// Like adds the like and bumps the counter in one transaction.
func (s *LikeService) Like(ctx context.Context, userID, templateID uint) (*LikeStatus, error) {
	if userID == 0 {
		return nil, newError(ErrUnauthorized, "login required")
	}
	var status *LikeStatus
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireTemplate(ctx, templateID); err != nil {
			return err
		}
		liked, err := s.likes.Exists(ctx, userID, templateID)
		if err != nil {
			return err
		}
		if liked {
			return newError(ErrConflict, "template already liked")
		}
		if err := s.likes.Create(ctx, userID, templateID); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return newError(ErrConflict, "template already liked")
			}
			return err
		}
		if err := s.likes.Increment(ctx, templateID); err != nil {
			return err
		}
		status, err = s.Status(ctx, userID, templateID)
		return err
	})
	if err != nil {
		s.logFailure("like", userID, templateID, err)
		return nil, err
	}
	return status, nil
}

// Unlike removes the like and decrements the counter, never below zero.
func (s *LikeService) Unlike(ctx context.Context, userID, templateID uint) (*LikeStatus, error) {
	if userID == 0 {
		return nil, newError(ErrUnauthorized, "login required")
	}
	var status *LikeStatus
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireTemplate(ctx, templateID); err != nil {
			return err
		}
		removed, err := s.likes.Delete(ctx, userID, templateID)
		if err != nil {
			return err
		}
		if !removed {
			return newError(ErrConflict, "template is not liked")
		}
		if err := s.likes.Decrement(ctx, templateID); err != nil {
			return err
		}
		status, err = s.Status(ctx, userID, templateID)
		return err
	})
	if err != nil {
		s.logFailure("unlike", userID, templateID, err)
		return nil, err
	}
	return status, nil
}

func (s *LikeService) requireTemplate(ctx context.Context, templateID uint) error {
	exists, err := s.templates.Exists(ctx, templateID)
	if err != nil {
		return err
	}
	if !exists {
		return newError(ErrNotFound, "template not found")
	}
	return nil
}

func (s *LikeService) logFailure(action string, userID, templateID uint, err error) {
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
		return
	}
	configslog.Log.Error("Like operation failed",
		zap.String("action", action), zap.Uint("user", userID), zap.Uint("template", templateID), zap.Error(err))
}
