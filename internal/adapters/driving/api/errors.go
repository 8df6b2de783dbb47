package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Client-facing error messages.
const (
	msgNotReady     = "LLM not initialized."
	msgNoQuestion   = "No question provided."
	msgInvalidJSON  = "Invalid JSON body."
	msgTooMany      = "Too many requests."
	msgTimeout      = "Answer generation timed out."
	msgInference    = "Failed to generate an answer."
	msgInternal     = "Internal server error."
	msgNegativeTopK = "top_k must not be negative."
	msgInvalid      = "Invalid request."
)

// errorStatus maps a service error to an HTTP status and client message.
// Unknown errors are reported as 500 without leaking their text.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotReady), errors.Is(err, domain.ErrLLMUnavailable):
		return fiber.StatusServiceUnavailable, msgNotReady
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, msgInvalid
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests, msgTooMany
	case errors.Is(err, domain.ErrGenerationTimeout):
		return fiber.StatusGatewayTimeout, msgTimeout
	case errors.Is(err, domain.ErrInference):
		return fiber.StatusInternalServerError, msgInference
	default:
		return fiber.StatusInternalServerError, msgInternal
	}
}

// errorJSON writes {"error": msg} with status.
func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// fiberErrorHandler renders framework errors such as unknown routes as JSON.
func fiberErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := msgInternal
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	}
	return errorJSON(c, status, msg)
}
