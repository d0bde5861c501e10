package handlers

import (
	"formify.app/middlewares"
	"formify.app/pkg/queryparams"
	"formify.app/pkg/renderer"
	"formify.app/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardUserHandler is the admin moderation surface.
type DashboardUserHandler struct {
	service services.IUserService
}

// NewDashboardUserHandler uses the default user service.
func NewDashboardUserHandler() *DashboardUserHandler {
	return &DashboardUserHandler{service: services.NewUserService()}
}

// NewDashboardUserHandlerWith is NewDashboardUserHandler with an explicit service.
func NewDashboardUserHandlerWith(service services.IUserService) *DashboardUserHandler {
	return &DashboardUserHandler{service: service}
}

type deleteUsersRequest struct {
	UserIDs []uint `json:"userIds"`
}

func (h *DashboardUserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext(), middlewares.Actor(c))
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(users)
}

func (h *DashboardUserHandler) ToggleBlock(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "id")
	if !ok {
		return renderer.BadRequest(c, "Invalid user ID")
	}
	user, err := h.service.ToggleBlock(c.UserContext(), middlewares.Actor(c), id)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(user)
}

func (h *DashboardUserHandler) ToggleRole(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "id")
	if !ok {
		return renderer.BadRequest(c, "Invalid user ID")
	}
	user, err := h.service.ToggleAdmin(c.UserContext(), middlewares.Actor(c), id)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(user)
}

func (h *DashboardUserHandler) DeleteUsers(c *fiber.Ctx) error {
	var in deleteUsersRequest
	if err := c.BodyParser(&in); err != nil {
		return renderer.BadRequest(c, "Invalid request body")
	}
	n, err := h.service.DeleteUsers(c.UserContext(), middlewares.Actor(c), in.UserIDs)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(fiber.Map{"message": "Users deleted successfully", "deleted": n})
}

func (h *DashboardUserHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "id")
	if !ok {
		return renderer.BadRequest(c, "Invalid user ID")
	}
	if _, err := h.service.DeleteUsers(c.UserContext(), middlewares.Actor(c), []uint{id}); err != nil {
		return renderer.Error(c, err)
	}
	return renderer.Message(c, "User deleted successfully")
}
