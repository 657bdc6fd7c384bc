package server

import (
	"errors"
	"strings"
	"time"

	"memoir/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const dateLayout = "2006-01-02"

// parseID extracts the :id route parameter as a positive uint. On failure it
// writes a 400 JSON response and returns errResponseWritten; callers should
// check: if err != nil { return nil }.
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's id set by the auth
// middleware. Routes under the protected group always have it.
func currentUserID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

// respondError maps an application error onto the right HTTP status.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

// trimmedRequired strips surrounding whitespace from a text field. Fields
// that end up empty fail with a validation error carrying msg.
func trimmedRequired(value, msg string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", models.NewValidationError(msg)
	}
	return value, nil
}

// parseDate parses an ISO date (YYYY-MM-DD) into a UTC midnight time.
func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, time.UTC)
}

// parseOptionalDate parses a date query parameter, returning nil when absent.
func parseOptionalDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, models.NewValidationError("Invalid " + name + ", expected YYYY-MM-DD")
	}
	return &t, nil
}

func todayUTC() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
