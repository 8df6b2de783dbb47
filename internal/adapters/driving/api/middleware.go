package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

const localRequestID = "requestid"

// requestID assigns every request an ID, reusing the caller's when present.
func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Locals(localRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// requestLogger logs one line per request once the handler has run.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler set the final status before logging.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		id, _ := c.Locals(localRequestID).(string)
		logger.Info("%s %s %d %s rid=%s", c.Method(), c.Path(), c.Response().StatusCode(),
			time.Since(start).Round(time.Microsecond), id)
		return nil
	}
}

// rateLimit rejects requests beyond the token bucket with 429. It never queues.
func rateLimit(limiter *rate.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			return errorJSON(c, fiber.StatusTooManyRequests, msgTooMany)
		}
		return c.Next()
	}
}
