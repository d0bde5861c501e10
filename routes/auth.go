package routes

import (
	auth_handlers "formify.app/handlers/auth"
	"formify.app/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(api fiber.Router, deps Deps) {
	authHandler := auth_handlers.NewAuthHandler(deps.Sessions)
	limited := ratelimit.New(ratelimit.Config{Storage: deps.LimiterStorage})

	api.Post("/user", limited, authHandler.Signup)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", limited, authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/session", authHandler.Session)
}
