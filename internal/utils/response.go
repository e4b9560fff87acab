package utils

import (
	domainerrors "orus-wallet/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusForbidden, fiber.Map{"error": message})
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusNotFound, fiber.Map{"error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": message})
}

// StatusFor maps a domain error kind to an HTTP status.
func StatusFor(err error) int {
	kind, ok := domainerrors.KindOf(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch kind {
	case domainerrors.KindValidation:
		return fiber.StatusBadRequest
	case domainerrors.KindNotFound:
		return fiber.StatusNotFound
	case domainerrors.KindInsufficientFunds:
		return fiber.StatusUnprocessableEntity
	case domainerrors.KindInvalidState, domainerrors.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Error writes err using its domain kind and code. Errors outside the
// domain taxonomy are reported as a generic 500 so internals do not leak.
func Error(c *fiber.Ctx, err error) error {
	var de *domainerrors.DomainError
	if !domainerrors.As(err, &de) {
		return InternalError(c, "internal server error")
	}
	body := fiber.Map{"error": de.Message}
	if de.Code != "" {
		body["code"] = de.Code
	}
	return Respond(c, StatusFor(err), body)
}
