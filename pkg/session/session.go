// Package session issues and reads the signed session cookie.
package session

import (
	"errors"
	"fmt"
	"time"

	"formify.app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrNoSession = errors.New("no session")

// Claims is the identity carried by the cookie.
type Claims struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
	IsBlocked bool   `json:"isBlocked"`
	jwt.RegisteredClaims
}

// ClaimsFor describes u without registered claims.
func ClaimsFor(u *models.User) *Claims {
	return &Claims{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, IsBlocked: u.IsBlocked}
}

// Stale reports whether the claims no longer describe u.
func (c *Claims) Stale(u *models.User) bool {
	return c.IsAdmin != u.IsAdmin || c.IsBlocked != u.IsBlocked || c.Name != u.Name || c.Email != u.Email
}

type Options struct {
	Secret     string
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

type Manager struct {
	secret     []byte
	cookieName string
	maxAge     time.Duration
	secure     bool
	now        func() time.Time
}

// NewManager builds a manager. An empty secret gets a random one, which invalidates every
// cookie on restart.
func NewManager(opts Options) *Manager {
	secret := opts.Secret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	if opts.CookieName == "" {
		opts.CookieName = "formify_session"
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 30 * 24 * time.Hour
	}
	return &Manager{
		secret:     []byte(secret),
		cookieName: opts.CookieName,
		maxAge:     opts.MaxAge,
		secure:     opts.Secure,
		now:        time.Now,
	}
}

func (m *Manager) CookieName() string { return m.cookieName }

// Issue signs a token for u.
func (m *Manager) Issue(u *models.User) (string, error) {
	now := m.now()
	claims := ClaimsFor(u)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   fmt.Sprint(u.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates the signature, algorithm and expiry.
func (m *Manager) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	if claims.ID == 0 {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}

// Read returns the claims of the request cookie.
func (m *Manager) Read(c *fiber.Ctx) (*Claims, error) {
	token := c.Cookies(m.cookieName)
	if token == "" {
		return nil, ErrNoSession
	}
	return m.Parse(token)
}

// Save issues a token for u and sets it as an HttpOnly cookie.
func (m *Manager) Save(c *fiber.Ctx, u *models.User) error {
	token, err := m.Issue(u)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		Expires:  m.now().Add(m.maxAge),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (m *Manager) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
