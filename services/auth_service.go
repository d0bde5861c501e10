package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"formify.app/configs/configslog"
	"formify.app/models"
	"formify.app/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// SignupInput carries the registration form fields.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IAuthService registers users and resolves sessions to accounts.
type IAuthService interface {
	Signup(ctx context.Context, in SignupInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	CurrentUser(ctx context.Context, id uint) (*models.User, error)
}

// AuthService is the repository backed IAuthService.
type AuthService struct {
	users repositories.IUserRepository
}

// NewAuthService wires the service to the default database.
func NewAuthService() IAuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// NewAuthServiceWith builds the service over the given repository.
func NewAuthServiceWith(users repositories.IUserRepository) IAuthService {
	return &AuthService{users: users}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(in SignupInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return newError(ErrInvalidInput, "name must be between 1 and 100 characters")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil || !strings.Contains(in.Email, "@") {
		return newError(ErrInvalidInput, "invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return newError(ErrInvalidInput, "password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateSignup(in); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, newError(ErrConflict, "user with this email already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Password hashing failed", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, newError(ErrConflict, "user with this email already exists")
		}
		return nil, err
	}
	configslog.SLog.Infof("User signed up: id=%d", user.ID)
	return user, nil
}

// Login checks the credentials. A blocked account is refused even with a correct password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, newError(ErrInvalidInput, "email and password are required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrUnauthorized, "invalid email or password")
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, newError(ErrUnauthorized, "invalid email or password")
	}
	if user.IsBlocked {
		return nil, newError(ErrForbidden, "account blocked")
	}
	return user, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrUnauthorized, "session user no longer exists")
		}
		return nil, err
	}
	return user, nil
}
