package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"formify.app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	services.IUserService
	deleted []uint
}

func (s *stubUsers) DeleteUsers(_ context.Context, _ services.Actor, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, services.ErrInvalidInput
	}
	s.deleted = append(s.deleted, ids...)
	return len(ids), nil
}

func newDashboardApp() (*fiber.App, *stubUsers) {
	users := &stubUsers{}
	h := NewDashboardUserHandlerWith(users)
	app := fiber.New()
	app.Delete("/api/users/delete", h.DeleteUsers)
	app.Delete("/api/user/:id", h.DeleteUser)
	return app, users
}

func TestDeleteUsers(t *testing.T) {
	app, users := newDashboardApp()

	req := httptest.NewRequest("DELETE", "/api/users/delete", strings.NewReader(`{"userIds":[4,5]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []uint{4, 5}, users.deleted)

	req = httptest.NewRequest("DELETE", "/api/users/delete", strings.NewReader(`{"userIds":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteUserUsesBulkPath(t *testing.T) {
	app, users := newDashboardApp()

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/user/9", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []uint{9}, users.deleted)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/user/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
