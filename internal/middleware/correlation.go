package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type correlationIDKey struct{}

var correlationKey = correlationIDKey{}

// CorrelationID tags every request with a correlation identifier, honoring
// one supplied by the gate device or an upstream proxy.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get("X-Correlation-ID"))
		if id == "" {
			id = strings.TrimSpace(c.Get("X-Request-ID"))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("correlation_id", id)
		c.Set("X-Correlation-ID", id)
		c.SetUserContext(context.WithValue(c.Context(), correlationKey, id))

		return c.Next()
	}
}

// CorrelationIDFromContext extracts the correlation identifier, if present.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationKey).(string); ok {
		return id
	}
	return ""
}

// GetCorrelationID returns the correlation identifier bound to the request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals("correlation_id").(string); ok {
		return id
	}
	return CorrelationIDFromContext(c.Context())
}

// ContextWithCorrelation attaches a correlation identifier to the context for
// work that outlives the request, such as reconciliation logging.
func ContextWithCorrelation(ctx context.Context, correlationID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	correlationID = strings.TrimSpace(correlationID)
	if correlationID == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey, correlationID)
}
