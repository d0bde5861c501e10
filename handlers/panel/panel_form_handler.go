package handlers

import (
	"formify.app/middlewares"
	"formify.app/pkg/queryparams"
	"formify.app/pkg/renderer"
	"formify.app/services"

	"github.com/gofiber/fiber/v2"
)

// PanelFormHandler handles filling in templates and reading the resulting forms.
type PanelFormHandler struct {
	service services.IFormService
}

// NewPanelFormHandler uses the default form service.
func NewPanelFormHandler() *PanelFormHandler {
	return &PanelFormHandler{service: services.NewFormService()}
}

// NewPanelFormHandlerWith is NewPanelFormHandler with an explicit service.
func NewPanelFormHandlerWith(service services.IFormService) *PanelFormHandler {
	return &PanelFormHandler{service: service}
}

func (h *PanelFormHandler) Submit(c *fiber.Ctx) error {
	var in services.SubmitInput
	if err := c.BodyParser(&in); err != nil {
		return renderer.BadRequest(c, "Invalid request body")
	}
	result, err := h.service.SubmitForm(c.UserContext(), middlewares.Actor(c), in)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Form submitted successfully",
		"form":    result.Form,
		"answers": result.Answers,
	})
}

// ForTemplate returns the caller's own form for a template.
func (h *PanelFormHandler) ForTemplate(c *fiber.Ctx) error {
	templateID, ok := queryparams.PathID(c, "templateId")
	if !ok {
		return renderer.BadRequest(c, "Invalid template ID")
	}
	form, err := h.service.GetFormForTemplate(c.UserContext(), middlewares.Actor(c), templateID)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(form)
}

func (h *PanelFormHandler) Answers(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "formId")
	if !ok {
		return renderer.BadRequest(c, "Invalid form ID")
	}
	form, err := h.service.GetForm(c.UserContext(), middlewares.Actor(c), id)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(form)
}

func (h *PanelFormHandler) ByUser(c *fiber.Ctx) error {
	userID, ok := queryparams.PathID(c, "userId")
	if !ok {
		return renderer.BadRequest(c, "Invalid user ID")
	}
	forms, err := h.service.FormsByUser(c.UserContext(), middlewares.Actor(c), userID)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(forms)
}

func (h *PanelFormHandler) Delete(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "id")
	if !ok {
		return renderer.BadRequest(c, "Invalid form ID")
	}
	if err := h.service.DeleteForm(c.UserContext(), middlewares.Actor(c), id); err != nil {
		return renderer.Error(c, err)
	}
	return renderer.Message(c, "Form deleted successfully")
}
