package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"formify.app/middlewares"
	"formify.app/models"
	"formify.app/pkg/session"
	"formify.app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userLoader struct{ user *models.User }

func (l userLoader) CurrentUser(context.Context, uint) (*models.User, error) { return l.user, nil }

type stubForms struct {
	services.IFormService
	got    services.SubmitInput
	gotFor services.Actor
}

func (s *stubForms) SubmitForm(_ context.Context, actor services.Actor, in services.SubmitInput) (*services.SubmitResult, error) {
	s.got, s.gotFor = in, actor
	form := &models.Form{TemplateID: in.TemplateID, UserID: actor.ID}
	form.ID = 5
	return &services.SubmitResult{Form: form}, nil
}

func (s *stubForms) DeleteForm(_ context.Context, _ services.Actor, id uint) error {
	if id != 5 {
		return services.ErrNotFound
	}
	return nil
}

type stubLikes struct{ services.ILikeService }

func (stubLikes) Like(context.Context, uint, uint) (*services.LikeStatus, error) {
	return nil, services.ErrConflict
}

type stubJira struct {
	services.IJiraService
	reporter services.Reporter
}

func (s *stubJira) CreateTicket(_ context.Context, reporter services.Reporter, in services.TicketInput) (*services.Ticket, error) {
	s.reporter = reporter
	return &services.Ticket{JiraKey: "FRM-1", Summary: in.Summary}, nil
}

type stubSalesforce struct{ services.ISalesforceService }

func (stubSalesforce) Status(context.Context, services.Actor, uint) (*services.SalesforceStatus, error) {
	return nil, services.ErrConfig
}

type testEnv struct {
	app    *fiber.App
	cookie *http.Cookie
	forms  *stubForms
	jira   *stubJira
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	user := &models.User{Name: "Ann", Email: "ann@example.com"}
	user.ID = 3
	m := session.NewManager(session.Options{Secret: "test"})
	token, err := m.Issue(user)
	require.NoError(t, err)

	env := &testEnv{forms: &stubForms{}, jira: &stubJira{}}
	templates := NewPanelTemplateHandlerWith(nil, env.forms, stubLikes{})
	forms := NewPanelFormHandlerWith(env.forms)
	integrations := NewPanelIntegrationHandlerWith(env.jira, stubSalesforce{})

	app := fiber.New()
	app.Use(middlewares.SessionLoader(m, userLoader{user}))
	api := app.Group("/api", middlewares.AuthMiddleware)
	api.Post("/form/submit", forms.Submit)
	api.Delete("/form/:id", forms.Delete)
	api.Post("/template/:id/likes", templates.Like)
	api.Delete("/template/:id", templates.DeleteTemplate)
	api.Post("/jira", integrations.CreateTicket)
	api.Get("/salesforce", integrations.SalesforceStatus)

	env.app = app
	env.cookie = &http.Cookie{Name: m.CookieName(), Value: token}
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(e.cookie)
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestSubmitDecodesAnswers(t *testing.T) {
	env := newEnv(t)
	resp := env.do(t, "POST", "/api/form/submit", `{"templateId":4,"answers":[{"questionId":1,"answer":"Good"},{"questionId":2,"answer":[7,8]}]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, uint(3), env.forms.gotFor.ID)
	assert.Equal(t, uint(4), env.forms.got.TemplateID)
	require.Len(t, env.forms.got.Answers, 2)
	assert.Equal(t, "Good", env.forms.got.Answers[0].Answer)
	assert.Equal(t, []interface{}{float64(7), float64(8)}, env.forms.got.Answers[1].Answer)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Form submitted successfully", body["message"])
}

func TestPanelStatusCodes(t *testing.T) {
	env := newEnv(t)
	tests := []struct {
		name, method, path, body string
		want                     int
	}{
		{"double like", "POST", "/api/template/1/likes", "", fiber.StatusConflict},
		{"bad template id", "DELETE", "/api/template/abc", "", fiber.StatusBadRequest},
		{"delete own form", "DELETE", "/api/form/5", "", fiber.StatusOK},
		{"delete missing form", "DELETE", "/api/form/6", "", fiber.StatusNotFound},
		{"crm not configured", "GET", "/api/salesforce", "", fiber.StatusInternalServerError},
		{"bad crm user id", "GET", "/api/salesforce?userId=x", "", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, env.do(t, tt.method, tt.path, tt.body).StatusCode)
		})
	}
}

func TestCreateTicketUsesSessionIdentity(t *testing.T) {
	env := newEnv(t)
	resp := env.do(t, "POST", "/api/jira", `{"summary":"Broken","priority":"High"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, services.Reporter{Name: "Ann", Email: "ann@example.com"}, env.jira.reporter)
}

func TestPanelRequiresSession(t *testing.T) {
	env := newEnv(t)
	req := httptest.NewRequest("POST", "/api/form/submit", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
