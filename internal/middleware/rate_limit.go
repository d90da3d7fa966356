package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit throttles a route group per caller. Authenticated callers are
// keyed by their token subject, anonymous ones by IP, so one misbehaving
// gate device cannot starve the rest.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			caller := fmt.Sprintf("%v", c.Locals("user_id"))
			if caller == "" || caller == "0" || caller == "<nil>" {
				caller = c.IP()
			}
			return identifier + ":" + caller
		},
	})
}
