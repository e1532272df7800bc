package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/repflow/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyMiddleware_ReplaysSuccessfulResponse(t *testing.T) {
	calls := 0
	app := fiber.New()
	app.Use(IdempotencyMiddleware(repository.NewMemoryKVStore(), time.Minute))
	app.Post("/submit", func(c *fiber.Ctx) error {
		calls++
		return c.JSON(fiber.Map{"call": calls})
	})

	send := func(correlationID string) (*http.Response, string) {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		if correlationID != "" {
			req.Header.Set("X-Correlation-ID", correlationID)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, string(body)
	}

	first, firstBody := send("abc")
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Empty(t, first.Header.Get("X-Idempotent-Replay"))

	second, secondBody := send("abc")
	assert.Equal(t, "true", second.Header.Get("X-Idempotent-Replay"))
	assert.Equal(t, firstBody, secondBody)
	assert.Equal(t, 1, calls)

	_, _ = send("other")
	_, _ = send("")
	assert.Equal(t, 3, calls, "calls="+strconv.Itoa(calls))
}

func TestIdempotencyMiddleware_DoesNotCacheFailures(t *testing.T) {
	calls := 0
	app := fiber.New()
	app.Use(IdempotencyMiddleware(repository.NewMemoryKVStore(), time.Minute))
	app.Post("/submit", func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream"})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("X-Correlation-ID", "abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	}
	assert.Equal(t, 2, calls)
}
