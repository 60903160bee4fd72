package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/daytour/planner/internal/core/domain"
	"github.com/daytour/planner/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, unprocessable, etc.
	Message   string `json:"message"` // Human-readable message
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return writeError(c, APIError{Status: status, Code: code, Message: message})
}

func writeError(c *fiber.Ctx, e APIError) error {
	e.RequestID, _ = c.Locals("requestid").(string)
	return c.Status(e.Status).JSON(e)
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errUnprocessable returns a 422 error.
func errUnprocessable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusUnprocessableEntity, "unprocessable", msg)
}

// errBadGateway returns a 502 error.
func errBadGateway(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadGateway, "bad_gateway", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errFromService maps trip service errors onto HTTP responses.
func errFromService(c *fiber.Ctx, err error) error {
	var locErr *domain.LocationError
	var backendErr *domain.BackendError

	switch {
	case errors.As(err, &locErr):
		return writeError(c, APIError{
			Status:  fiber.StatusUnprocessableEntity,
			Code:    "invalid_location",
			Message: locErr.Result.Message(),
			Field:   locErr.Field,
		})
	case errors.Is(err, domain.ErrUnknownCity):
		return errNotFound(c, "unknown city")
	case errors.Is(err, domain.ErrUnsupportedMode):
		return errUnprocessable(c, err.Error())
	case errors.As(err, &backendErr) && errors.Is(err, domain.ErrBackendRejected):
		return errUnprocessable(c, backendErr.Message)
	case errors.Is(err, domain.ErrBackendUnavailable):
		return errBadGateway(c, "route planner unavailable")
	default:
		logging.FromContext(c.UserContext()).Error("unhandled service error", "error", err)
		return errInternal(c, "internal error")
	}
}
