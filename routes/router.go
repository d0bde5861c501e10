package routes

import (
	"net/http"

	"formify.app/configs"
	"formify.app/configs/configslog"
	"formify.app/middlewares"
	"formify.app/pkg/session"
	"formify.app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/unrolled/secure"
)

// Deps are the shared collaborators of the route tree. Nil fields get production defaults.
type Deps struct {
	Sessions *session.Manager
	Users    middlewares.UserLoader
	// LimiterStorage backs the login and signup limiter; nil keeps counters in memory.
	LimiterStorage fiber.Storage
}

// SetupRoutes installs the global middleware chain and every route group.
func SetupRoutes(app *fiber.App, deps Deps) {
	conf := configs.Conf()
	if deps.Sessions == nil {
		deps.Sessions = session.NewManager(session.Options{
			Secret:     conf.Session.Secret,
			CookieName: conf.Session.CookieName,
			MaxAge:     conf.Session.MaxAge,
			Secure:     conf.Session.Secure,
		})
	}
	if deps.Users == nil {
		deps.Users = services.NewAuthService()
	}

	app.Use(recoverMiddleware.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(adaptor.HTTPMiddleware(securityHeaders()))
	app.Use(middlewares.RequestLogger(configslog.Log))
	app.Use(middlewares.SessionLoader(deps.Sessions, deps.Users))
	app.Use(middlewares.StatusMiddleware(conf.Server.BlockedPath))

	app.Get(conf.Server.BlockedPath, blockedPage)

	api := app.Group("/api")
	registerAuthRoutes(api, deps)
	registerPublicRoutes(api)
	registerPanelRoutes(api)
	registerDashboardRoutes(api)

	app.Use(notFoundHandler)
}

func securityHeaders() func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}).Handler
}

func blockedPage(c *fiber.Ctx) error {
	return c.Render("blocked", fiber.Map{"Title": "Account blocked"}, "layouts/main")
}

func notFoundHandler(c *fiber.Ctx) error {
	switch c.Accepts("application/json", "text/html") {
	case "text/html":
		return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Page not found"}, "layouts/main")
	default:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	}
}
