package handlers

import (
	"formify.app/middlewares"
	"formify.app/pkg/queryparams"
	"formify.app/pkg/renderer"
	"formify.app/services"

	"github.com/gofiber/fiber/v2"
)

// PanelIntegrationHandler exposes the issue tracker and CRM integrations.
type PanelIntegrationHandler struct {
	jira       services.IJiraService
	salesforce services.ISalesforceService
}

// NewPanelIntegrationHandler uses the Jira and Salesforce services from config.
func NewPanelIntegrationHandler() *PanelIntegrationHandler {
	return &PanelIntegrationHandler{
		jira:       services.NewJiraService(),
		salesforce: services.NewSalesforceService(),
	}
}

// NewPanelIntegrationHandlerWith takes explicit integration services.
func NewPanelIntegrationHandlerWith(jira services.IJiraService, salesforce services.ISalesforceService) *PanelIntegrationHandler {
	return &PanelIntegrationHandler{jira: jira, salesforce: salesforce}
}

func (h *PanelIntegrationHandler) CreateTicket(c *fiber.Ctx) error {
	var in services.TicketInput
	if err := c.BodyParser(&in); err != nil {
		return renderer.BadRequest(c, "Invalid request body")
	}
	claims := middlewares.Claims(c)
	ticket, err := h.jira.CreateTicket(c.UserContext(), services.Reporter{Name: claims.Name, Email: claims.Email}, in)
	if err != nil {
		return renderer.Error(c, err)
	}
	return renderer.Created(c, fiber.Map{"success": true, "ticket": ticket})
}

func (h *PanelIntegrationHandler) ListTickets(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	result, err := h.jira.ListTickets(c.UserContext(), middlewares.Claims(c).Email, page, limit)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(result)
}

func (h *PanelIntegrationHandler) LinkSalesforce(c *fiber.Ctx) error {
	var in services.SalesforceLinkInput
	if err := c.BodyParser(&in); err != nil {
		return renderer.BadRequest(c, "Invalid request body")
	}
	link, err := h.salesforce.Link(c.UserContext(), middlewares.Actor(c), in)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "account": link.Account, "contact": link.Contact})
}

func (h *PanelIntegrationHandler) SalesforceStatus(c *fiber.Ctx) error {
	userID, ok := queryparams.QueryID(c, "userId")
	if !ok {
		return renderer.BadRequest(c, "Invalid user ID")
	}
	status, err := h.salesforce.Status(c.UserContext(), middlewares.Actor(c), userID)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(status)
}

func (h *PanelIntegrationHandler) UnlinkSalesforce(c *fiber.Ctx) error {
	userID, ok := queryparams.QueryID(c, "userId")
	if !ok {
		return renderer.BadRequest(c, "Invalid user ID")
	}
	if err := h.salesforce.Unlink(c.UserContext(), middlewares.Actor(c), userID); err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Successfully unlinked from Salesforce"})
}
