package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gadhub/internal/auth"
	"github.com/yourorg/gadhub/internal/models"
)

// serviceError is the single mapping from the service error taxonomy to
// HTTP responses. Every route handler funnels service failures through here
// so no endpoint re-derives its own status codes.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrAlreadyExists):
		return c.Status(fiber.StatusBadRequest).JSON(models.MsgResponse{Msg: "already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(models.MsgResponse{Msg: "invalid credentials"})
	case errors.Is(err, auth.ErrInvalidInput):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.MsgResponse{Msg: "invalid input"})
	default:
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.MsgResponse{Msg: "internal server error"})
	}
}

// badRequest rejects an unparseable body.
func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
}

// validationError rejects a body that parsed but failed field validation.
func validationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{Error: err.Error()})
}
