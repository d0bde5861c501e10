package handlers

import (
	"formify.app/middlewares"
	"formify.app/pkg/queryparams"
	"formify.app/pkg/renderer"
	"formify.app/services"

	"github.com/gofiber/fiber/v2"
)

// PanelTemplateHandler covers template authoring and likes for signed-in users.
type PanelTemplateHandler struct {
	templates services.ITemplateService
	forms     services.IFormService
	likes     services.ILikeService
}

// NewPanelTemplateHandler uses the default template, form and like services.
func NewPanelTemplateHandler() *PanelTemplateHandler {
	return &PanelTemplateHandler{
		templates: services.NewTemplateService(),
		forms:     services.NewFormService(),
		likes:     services.NewLikeService(),
	}
}

// NewPanelTemplateHandlerWith takes explicit services.
func NewPanelTemplateHandlerWith(templates services.ITemplateService, forms services.IFormService, likes services.ILikeService) *PanelTemplateHandler {
	return &PanelTemplateHandler{templates: templates, forms: forms, likes: likes}
}

func (h *PanelTemplateHandler) CreateTemplate(c *fiber.Ctx) error {
	var in services.TemplateInput
	if err := c.BodyParser(&in); err != nil {
		return renderer.BadRequest(c, "Invalid request body")
	}
	template, err := h.templates.CreateTemplate(c.UserContext(), middlewares.Actor(c), in)
	if err != nil {
		return renderer.Error(c, err)
	}
	return renderer.Created(c, template)
}

func (h *PanelTemplateHandler) UpdateTemplate(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "templateId")
	if !ok {
		return renderer.BadRequest(c, "Invalid template ID")
	}
	var in services.TemplateInput
	if err := c.BodyParser(&in); err != nil {
		return renderer.BadRequest(c, "Invalid request body")
	}
	template, err := h.templates.UpdateTemplate(c.UserContext(), middlewares.Actor(c), id, in)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(template)
}

// DeleteTemplate accepts the id as :id or :templateId.
func (h *PanelTemplateHandler) DeleteTemplate(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "id")
	if !ok {
		id, ok = queryparams.PathID(c, "templateId")
	}
	if !ok {
		return renderer.BadRequest(c, "Invalid template ID")
	}
	if err := h.templates.DeleteTemplate(c.UserContext(), middlewares.Actor(c), id); err != nil {
		return renderer.Error(c, err)
	}
	return renderer.Message(c, "Template deleted successfully")
}

func (h *PanelTemplateHandler) TemplateForms(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "id")
	if !ok {
		return renderer.BadRequest(c, "Invalid template ID")
	}
	forms, err := h.forms.FormsForTemplate(c.UserContext(), middlewares.Actor(c), id)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(forms)
}

func (h *PanelTemplateHandler) Like(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "id")
	if !ok {
		return renderer.BadRequest(c, "Invalid template ID")
	}
	status, err := h.likes.Like(c.UserContext(), middlewares.Actor(c).ID, id)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(status)
}

func (h *PanelTemplateHandler) Unlike(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "id")
	if !ok {
		return renderer.BadRequest(c, "Invalid template ID")
	}
	status, err := h.likes.Unlike(c.UserContext(), middlewares.Actor(c).ID, id)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(status)
}
