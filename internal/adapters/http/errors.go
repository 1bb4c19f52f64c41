package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errTooManyRequests returns a 429 error.
func errTooManyRequests(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusTooManyRequests, "rate_limited", msg)
}

// searchError maps a search failure onto the API error envelope.
func searchError(c *fiber.Ctx, err error) error {
	var invalid *domain.InvalidCoordinateError
	var retrieval *domain.RetrievalError
	switch {
	case errors.As(err, &invalid):
		return errBadRequest(c, invalid.Error())
	case errors.Is(err, domain.ErrInvalidRadius):
		return errBadRequest(c, err.Error())
	case errors.As(err, &retrieval):
		return errInternal(c, retrieval.Error())
	default:
		return errInternal(c, (&domain.RetrievalError{Err: err}).Error())
	}
}
