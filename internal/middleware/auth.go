package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gadhub/internal/token"
)

// Locals keys set by RequireAuth for downstream handlers.
const (
	LocalsUserID = "userID"
	LocalsClaim  = "claim"
)

// RequireAuth gates protected routes behind a valid bearer token. A missing
// header and a failed verification produce different messages, but a failed
// verification never reveals whether the token was malformed, forged, or
// expired.
func RequireAuth(tokens *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "No token, authorization denied",
			})
		}

		// Tolerate a missing "Bearer " prefix rather than rejecting on
		// formatting alone.
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claim, err := tokens.Verify(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(LocalsUserID, claim.UserID)
		c.Locals(LocalsClaim, claim)
		return c.Next()
	}
}

// UserID extracts the authenticated user ID placed by RequireAuth.
// The second result is false on routes that skipped the gate.
func UserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(LocalsUserID).(int64)
	return id, ok
}
