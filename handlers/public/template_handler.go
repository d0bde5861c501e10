package handlers

import (
	"bytes"

	"formify.app/middlewares"
	"formify.app/pkg/queryparams"
	"formify.app/pkg/renderer"
	"formify.app/services"

	"github.com/gofiber/fiber/v2"
)

// TemplateHandler serves the read side of templates to guests and users alike.
type TemplateHandler struct {
	templates services.ITemplateService
	likes     services.ILikeService
	stats     services.IStatisticsService
	users     services.IUserService
}

// NewTemplateHandler uses the default template, form and statistics services.
func NewTemplateHandler() *TemplateHandler {
	return &TemplateHandler{
		templates: services.NewTemplateService(),
		likes:     services.NewLikeService(),
		stats:     services.NewStatisticsService(),
		users:     services.NewUserService(),
	}
}

// NewTemplateHandlerWith takes explicit services.
func NewTemplateHandlerWith(
	templates services.ITemplateService,
	likes services.ILikeService,
	stats services.IStatisticsService,
	users services.IUserService,
) *TemplateHandler {
	return &TemplateHandler{templates: templates, likes: likes, stats: stats, users: users}
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	templates, err := h.templates.ListTemplates(c.UserContext())
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(templates)
}

func (h *TemplateHandler) Latest(c *fiber.Ctx) error {
	templates, err := h.templates.LatestTemplates(c.UserContext())
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(templates)
}

func (h *TemplateHandler) Popular(c *fiber.Ctx) error {
	templates, err := h.templates.PopularTemplates(c.UserContext())
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(templates)
}

func (h *TemplateHandler) Search(c *fiber.Ctx) error {
	in := services.SearchInput{ListParams: queryparams.DefaultListParams()}
	if err := c.QueryParser(&in); err != nil {
		return renderer.BadRequest(c, "Invalid query parameters")
	}
	result, err := h.templates.SearchTemplates(c.UserContext(), in)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(result)
}

func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "id")
	if !ok {
		return renderer.BadRequest(c, "Invalid template ID")
	}
	template, err := h.templates.GetTemplate(c.UserContext(), id)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(template)
}

func (h *TemplateHandler) ByUser(c *fiber.Ctx) error {
	userID, ok := queryparams.PathID(c, "userId")
	if !ok {
		return renderer.BadRequest(c, "Invalid user ID")
	}
	templates, err := h.templates.TemplatesByUser(c.UserContext(), userID)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(templates)
}

func (h *TemplateHandler) Tags(c *fiber.Ctx) error {
	tags, err := h.templates.ListTags(c.UserContext())
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(tags)
}

func (h *TemplateHandler) Topics(c *fiber.Ctx) error {
	topics, err := h.templates.ListTopics(c.UserContext())
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(topics)
}

// LikeStatus is open to guests, who never have a like.
func (h *TemplateHandler) LikeStatus(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "id")
	if !ok {
		return renderer.BadRequest(c, "Invalid template ID")
	}
	status, err := h.likes.Status(c.UserContext(), middlewares.Actor(c).ID, id)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(status)
}

func (h *TemplateHandler) Statistics(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "templateId")
	if !ok {
		return renderer.BadRequest(c, "Invalid template ID")
	}
	stats, err := h.stats.TemplateStatistics(c.UserContext(), id)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(stats)
}

// Chart renders one question's statistics as a standalone HTML chart.
func (h *TemplateHandler) Chart(c *fiber.Ctx) error {
	templateID, ok := queryparams.PathID(c, "templateId")
	if !ok {
		return renderer.BadRequest(c, "Invalid template ID")
	}
	questionID, ok := queryparams.PathID(c, "questionId")
	if !ok {
		return renderer.BadRequest(c, "Invalid question ID")
	}
	var buf bytes.Buffer
	if err := h.stats.RenderChart(c.UserContext(), &buf, templateID, questionID); err != nil {
		return renderer.Error(c, err)
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// User returns a public profile; the password hash is never serialised.
func (h *TemplateHandler) User(c *fiber.Ctx) error {
	id, ok := queryparams.PathID(c, "id")
	if !ok {
		return renderer.BadRequest(c, "Invalid user ID")
	}
	user, err := h.users.GetUser(c.UserContext(), id)
	if err != nil {
		return renderer.Error(c, err)
	}
	return c.JSON(user)
}
