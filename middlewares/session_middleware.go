package middlewares

import (
	"context"
	"errors"

	"formify.app/configs/configslog"
	"formify.app/models"
	"formify.app/pkg/session"
	"formify.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const localsSession = "session"

// UserLoader reloads the account behind a session.
type UserLoader interface {
	CurrentUser(ctx context.Context, id uint) (*models.User, error)
}

// SessionLoader resolves the cookie into claims on every request. A session whose user
// is gone is cleared; one whose role or block flag changed is reissued.
func SessionLoader(m *session.Manager, users UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := m.Read(c)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				configslog.Log.Debug("Invalid session cookie", zap.Error(err))
				m.Clear(c)
			}
			return c.Next()
		}

		user, err := users.CurrentUser(c.UserContext(), claims.ID)
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			configslog.SLog.Infof("Session of deleted user %d cleared", claims.ID)
			m.Clear(c)
			return c.Next()
		case err != nil:
			configslog.Log.Warn("Session refresh failed, using cookie claims", zap.Uint("user", claims.ID), zap.Error(err))
		case claims.Stale(user):
			if err := m.Save(c, user); err != nil {
				configslog.Log.Error("Session reissue failed", zap.Uint("user", user.ID), zap.Error(err))
			}
			claims = session.ClaimsFor(user)
		}

		c.Locals(localsSession, claims)
		return c.Next()
	}
}

// Claims returns the request's session claims or nil for guests.
func Claims(c *fiber.Ctx) *session.Claims {
	claims, _ := c.Locals(localsSession).(*session.Claims)
	return claims
}

// Actor is the service-level identity of the request; the zero Actor for guests.
func Actor(c *fiber.Ctx) services.Actor {
	claims := Claims(c)
	if claims == nil {
		return services.Actor{}
	}
	return services.Actor{ID: claims.ID, IsAdmin: claims.IsAdmin}
}
