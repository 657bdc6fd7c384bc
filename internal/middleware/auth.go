package middleware

import (
	"context"
	"strings"

	"memoir/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the HttpOnly cookie the browser carries sessions in.
// API clients may send the same token as a Bearer header instead.
const SessionCookie = "memoir_session"

// TokenFromRequest extracts the session token from the cookie or the
// Authorization header. Returns "" when neither is present.
func TokenFromRequest(c *fiber.Ctx) string {
	if tok := c.Cookies(SessionCookie); tok != "" {
		return tok
	}
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// AuthRequired enforces a valid session on protected routes. Every rejection
// looks the same to the client; the reason only shows up server-side.
func AuthRequired(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		userID, err := sessions.Verify(c.UserContext(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		c.Locals("userID", userID)
		// Re-derive the logging context now that the user is known.
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))

		return c.Next()
	}
}
