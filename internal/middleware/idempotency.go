package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/sirupsen/logrus"
)

// IdempotencyMiddleware replays the cached 2xx response of a mutating request
// whose X-Correlation-ID was already seen within ttl. Keys are scoped per user.
func IdempotencyMiddleware(store domain.KVStore, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Only apply to mutating methods
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPatch && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		correlationID := c.Get("X-Correlation-ID")
		if correlationID == "" {
			return c.Next()
		}

		key := fmt.Sprintf("idempotency:%s:%s:%s", UserID(c), c.Path(), correlationID)

		cached, err := store.Get(c.UserContext(), key)
		if err == nil && cached != "" {
			c.Set("X-Idempotent-Replay", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}

		statusCode := c.Response().StatusCode()
		if statusCode >= 200 && statusCode < 300 {
			// copy: fasthttp reuses the response buffer after the handler returns
			body := string(c.Response().Body())
			if body != "" {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := store.Set(ctx, key, body, ttl); err != nil {
					logrus.WithError(err).Warn("failed to cache idempotent response")
				}
			}
		}

		return nil
	}
}
