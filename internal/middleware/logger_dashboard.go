package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gadhub/internal/debug"
)

// DashboardLogger streams per-request logs to the live debug dashboard.
func DashboardLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		level := "info"
		if status >= 500 {
			level = "error"
		} else if status >= 400 {
			level = "warn"
		}

		source := "backend"
		path := c.Path()
		if strings.HasPrefix(path, "/api/chatbot") {
			source = "chatbot"
		}

		debug.SendLog(source, level, fmt.Sprintf("%s %s", c.Method(), path), map[string]interface{}{
			"method":      c.Method(),
			"path":        path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"ip":          c.IP(),
		})

		return err
	}
}
