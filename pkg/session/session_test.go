package session

import (
	"net/http/httptest"
	"testing"
	"time"

	"formify.app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	u := &models.User{Name: "Ann", Email: "ann@example.com", IsAdmin: true}
	u.ID = 7
	return u
}

func TestIssueAndParse(t *testing.T) {
	m := NewManager(Options{Secret: "s3cret", MaxAge: time.Hour})
	token, err := m.Issue(testUser())
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.ID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.False(t, claims.IsBlocked)
}

func TestParseRejects(t *testing.T) {
	m := NewManager(Options{Secret: "s3cret", MaxAge: time.Hour})
	token, err := m.Issue(testUser())
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewManager(Options{Secret: "other"}).Parse(token)
		assert.Error(t, err)
	})
	t.Run("expired", func(t *testing.T) {
		later := NewManager(Options{Secret: "s3cret"})
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})
	t.Run("none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: 7}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Parse(unsigned)
		assert.Error(t, err)
	})
}

func TestStale(t *testing.T) {
	u := testUser()
	claims := &Claims{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
	assert.False(t, claims.Stale(u))
	u.IsBlocked = true
	assert.True(t, claims.Stale(u))
}

func TestCookieRoundTrip(t *testing.T) {
	m := NewManager(Options{Secret: "s3cret", CookieName: "sid"})
	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error { return m.Save(c, testUser()) })
	app.Get("/me", func(c *fiber.Ctx) error {
		claims, err := m.Read(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(claims)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(cookies[0])
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
