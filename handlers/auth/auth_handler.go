package handlers

import (
	"formify.app/configs/configslog"
	"formify.app/middlewares"
	"formify.app/pkg/renderer"
	"formify.app/pkg/session"
	"formify.app/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	service  services.IAuthService
	sessions *session.Manager
}

// NewAuthHandler uses the default auth service.
func NewAuthHandler(sessions *session.Manager) *AuthHandler {
	return &AuthHandler{service: services.NewAuthService(), sessions: sessions}
}

// NewAuthHandlerWith is NewAuthHandler with an explicit service, for tests.
func NewAuthHandlerWith(service services.IAuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{service: service, sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates an account. The caller logs in separately.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return renderer.BadRequest(c, "Invalid request body")
	}
	user, err := h.service.Signup(c.UserContext(), in)
	if err != nil {
		return renderer.Error(c, err)
	}
	return renderer.Created(c, fiber.Map{"user": user, "message": "User created successfully"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return renderer.BadRequest(c, "Invalid request body")
	}
	user, err := h.service.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return renderer.Error(c, err)
	}
	if err := h.sessions.Save(c, user); err != nil {
		return renderer.Error(c, err)
	}
	configslog.SLog.Infof("User logged in: id=%d", user.ID)
	return c.JSON(fiber.Map{"user": session.ClaimsFor(user)})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Clear(c)
	return renderer.Message(c, "Logged out")
}

// Session returns the refreshed claims of the current cookie.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	claims := middlewares.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return c.JSON(fiber.Map{"user": claims})
}
