package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"formify.app/middlewares"
	"formify.app/models"
	"formify.app/pkg/queryparams"
	"formify.app/pkg/session"
	"formify.app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTemplates struct {
	services.ITemplateService
	search services.SearchInput
}

func (s *stubTemplates) SearchTemplates(_ context.Context, in services.SearchInput) (*queryparams.PaginatedResult, error) {
	s.search = in
	return &queryparams.PaginatedResult{Data: []models.Template{}}, nil
}

func (s *stubTemplates) GetTemplate(_ context.Context, id uint) (*models.Template, error) {
	if id != 1 {
		return nil, services.ErrNotFound
	}
	t := &models.Template{Title: "Survey"}
	t.ID = id
	return t, nil
}

type stubLikes struct {
	services.ILikeService
	userID uint
}

func (s *stubLikes) Status(_ context.Context, userID, _ uint) (*services.LikeStatus, error) {
	s.userID = userID
	return &services.LikeStatus{LikesCount: 3, UserHasLiked: userID != 0}, nil
}

type stubStats struct{ services.IStatisticsService }

func (stubStats) RenderChart(_ context.Context, w io.Writer, _, questionID uint) error {
	if questionID != 2 {
		return services.ErrNotFound
	}
	_, err := io.WriteString(w, "<html>chart</html>")
	return err
}

type nobody struct{}

func (nobody) CurrentUser(context.Context, uint) (*models.User, error) {
	return nil, services.ErrUnauthorized
}

func newPublicApp() (*fiber.App, *stubTemplates, *stubLikes) {
	templates, likes := &stubTemplates{}, &stubLikes{}
	h := NewTemplateHandlerWith(templates, likes, stubStats{}, nil)
	m := session.NewManager(session.Options{Secret: "test"})

	app := fiber.New()
	app.Use(middlewares.SessionLoader(m, nobody{}))
	app.Get("/api/template/search", h.Search)
	app.Get("/api/template/:id", h.Get)
	app.Get("/api/template/:id/likes", h.LikeStatus)
	app.Get("/api/template/statistics/:templateId/chart/:questionId", h.Chart)
	return app, templates, likes
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	return resp
}

func TestSearchParsesQuery(t *testing.T) {
	app, templates, _ := newPublicApp()

	resp := get(t, app, "/api/template/search?query=coffee&topic=quiz&page=2")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "coffee", templates.search.Query)
	assert.Equal(t, "quiz", templates.search.Topic)
	assert.Equal(t, 2, templates.search.Page)
	assert.Equal(t, queryparams.DefaultPerPage, templates.search.PerPage)
}

func TestGetTemplate(t *testing.T) {
	app, _, _ := newPublicApp()

	resp := get(t, app, "/api/template/1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Survey", body["title"])

	assert.Equal(t, fiber.StatusNotFound, get(t, app, "/api/template/2").StatusCode)
	assert.Equal(t, fiber.StatusBadRequest, get(t, app, "/api/template/0").StatusCode)
}

func TestLikeStatusForGuest(t *testing.T) {
	app, _, likes := newPublicApp()

	resp := get(t, app, "/api/template/1/likes")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Zero(t, likes.userID)
	var body services.LikeStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.LikesCount)
	assert.False(t, body.UserHasLiked)
}

func TestChartIsHTML(t *testing.T) {
	app, _, _ := newPublicApp()

	resp := get(t, app, "/api/template/statistics/1/chart/2")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<html>chart</html>", string(body))

	assert.Equal(t, fiber.StatusNotFound, get(t, app, "/api/template/statistics/1/chart/3").StatusCode)
}
