// Package renderer turns service results and errors into HTTP responses.
package renderer

import (
	"errors"

	"formify.app/configs/configslog"
	"formify.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Status maps an error of the service taxonomy onto an HTTP status.
func Status(err error) int {
	var upstream *services.UpstreamError
	switch {
	case errors.As(err, &upstream):
		if upstream.Status >= 400 {
			return upstream.Status
		}
		return fiber.StatusBadGateway
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrUpstream):
		return fiber.StatusBadGateway
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// Error writes {error: message}. Unexpected errors are logged and hidden from the client.
func Error(c *fiber.Ctx, err error) error {
	status := Status(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError && !errors.Is(err, services.ErrConfig) {
		message = "Internal Server Error"
	}

	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if rid, ok := c.Locals("requestid").(string); ok {
		fields = append(fields, zap.String("request_id", rid))
	}
	if status >= fiber.StatusInternalServerError {
		configslog.Log.Error("Request failed", fields...)
	} else {
		configslog.Log.Debug("Request rejected", fields...)
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// BadRequest is a shortcut for malformed bodies and path parameters.
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// Created answers 201 with data.
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// Message answers 200 with {message}.
func Message(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{"message": message})
}
