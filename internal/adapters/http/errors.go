package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hurryup/express/internal/core/usecases"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, conflict, internal_error
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID := RequestIDFromCtx(c.UserContext())
	if reqID == "" {
		reqID, _ = c.Locals("requestid").(string)
	}
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, 409, "conflict", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// serviceError maps a use-case error onto the right status code. Unrecognized
// errors become opaque 500s so store internals never leak to clients.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case usecases.IsValidation(err):
		return errBadRequest(c, err.Error())
	case usecases.IsConflict(err):
		return errConflict(c, err.Error())
	case errors.Is(err, usecases.ErrNotFound):
		return errNotFound(c, "resource not found")
	default:
		LoggerFromCtx(c.UserContext()).Error("unhandled service error",
			"method", c.Method(), "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}
