package routes

import (
	public_handlers "formify.app/handlers/public"

	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes: read-only endpoints open to guests. The session, when present,
// only personalises like status.
func registerPublicRoutes(api fiber.Router) {
	templateHandler := public_handlers.NewTemplateHandler()

	api.Get("/template", templateHandler.List)
	api.Get("/template/latest", templateHandler.Latest)
	api.Get("/template/popular", templateHandler.Popular)
	api.Get("/template/search", templateHandler.Search)
	api.Get("/template/user/:userId", templateHandler.ByUser)
	api.Get("/template/statistics/:templateId", templateHandler.Statistics)
	api.Get("/template/statistics/:templateId/chart/:questionId", templateHandler.Chart)
	api.Get("/template/:id/likes", templateHandler.LikeStatus)
	api.Get("/template/:id", templateHandler.Get)

	api.Get("/tags", templateHandler.Tags)
	api.Get("/topics", templateHandler.Topics)
	api.Get("/user/:id", templateHandler.User)
}
