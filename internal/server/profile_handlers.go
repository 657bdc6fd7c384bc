package server

import (
	"memoir/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profile
// @Summary Get profile
// @Description Return the authenticated user's account details
// @Tags profile
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.users.GetByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// DeleteProfile handles DELETE /api/profile
// @Summary Delete account
// @Description Delete the account and every record it owns
// @Tags profile
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /profile [delete]
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	if err := s.users.Delete(c.UserContext(), currentUserID(c)); err != nil {
		return respondError(c, err)
	}

	// The account is gone; so is the session it was using.
	if token := middleware.TokenFromRequest(c); token != "" {
		_ = s.sessions.Revoke(c.UserContext(), token)
	}
	s.clearSessionCookie(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Account deleted",
	})
}
