package routes

import (
	dashboard_handlers "formify.app/handlers/dashboard"
	"formify.app/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerDashboardRoutes: user moderation, admins only.
func registerDashboardRoutes(api fiber.Router) {
	userHandler := dashboard_handlers.NewDashboardUserHandler()
	admin := middlewares.RequireAdmin()

	api.Get("/users", admin, userHandler.ListUsers)
	api.Delete("/users/delete", admin, userHandler.DeleteUsers)
	api.Post("/user/:id/block", admin, userHandler.ToggleBlock)
	api.Post("/user/:id/role", admin, userHandler.ToggleRole)
	api.Delete("/user/:id", admin, userHandler.DeleteUser)
}
