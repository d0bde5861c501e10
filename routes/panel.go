package routes

import (
	panel_handlers "formify.app/handlers/panel"
	"formify.app/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerPanelRoutes: everything a signed-in user does with their own templates and forms.
func registerPanelRoutes(api fiber.Router) {
	templateHandler := panel_handlers.NewPanelTemplateHandler()
	formHandler := panel_handlers.NewPanelFormHandler()
	integrationHandler := panel_handlers.NewPanelIntegrationHandler()

	authed := middlewares.AuthMiddleware

	// --- Templates ---
	api.Post("/templates", authed, templateHandler.CreateTemplate)
	api.Put("/templates/update/:templateId", authed, templateHandler.UpdateTemplate)
	api.Delete("/templates/delete/:templateId", authed, templateHandler.DeleteTemplate)
	api.Delete("/template/delete/:templateId", authed, templateHandler.DeleteTemplate)
	api.Delete("/template/:id", authed, templateHandler.DeleteTemplate)
	api.Get("/template/:id/forms", authed, templateHandler.TemplateForms)
	api.Post("/template/:id/likes", authed, templateHandler.Like)
	api.Delete("/template/:id/likes", authed, templateHandler.Unlike)

	// --- Forms ---
	api.Post("/template/submit", authed, formHandler.Submit)
	api.Post("/form/submit", authed, formHandler.Submit)
	api.Get("/form/answers/:formId", authed, formHandler.Answers)
	api.Get("/form/user/:userId", authed, formHandler.ByUser)
	api.Get("/form/:templateId", authed, formHandler.ForTemplate)
	api.Delete("/form/delete/:id", authed, formHandler.Delete)
	api.Delete("/form/:id", authed, formHandler.Delete)

	// --- Integrations ---
	api.Post("/jira", authed, integrationHandler.CreateTicket)
	api.Get("/jira", authed, integrationHandler.ListTickets)
	api.Post("/salesforce", authed, integrationHandler.LinkSalesforce)
	api.Get("/salesforce", authed, integrationHandler.SalesforceStatus)
	api.Delete("/salesforce/unlink", authed, integrationHandler.UnlinkSalesforce)
}
