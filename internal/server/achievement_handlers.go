package server

import (
	"memoir/internal/models"
	"memoir/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// ListAchievements handles GET /api/achievements
// @Summary List achievements
// @Description List the authenticated user's achievements, newest first
// @Tags achievements
// @Produce json
// @Param q query string false "Case-insensitive search over title and description"
// @Success 200 {array} models.Achievement
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /achievements [get]
func (s *Server) ListAchievements(c *fiber.Ctx) error {
	records, err := s.achievements.List(c.UserContext(), currentUserID(c),
		repository.TextSearch(c.Query("q"), "title", "description"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(records)
}

// CreateAchievement handles POST /api/achievements
// @Summary Create achievement
// @Tags achievements
// @Accept json
// @Produce json
// @Param request body object{title=string,description=string,achieved_on=string} true "Achievement"
// @Success 201 {object} models.Achievement
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /achievements [post]
func (s *Server) CreateAchievement(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		AchievedOn  string `json:"achieved_on"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	title, err := trimmedRequired(req.Title, "Title is required")
	if err != nil {
		return respondError(c, err)
	}
	description, err := trimmedRequired(req.Description, "Description is required")
	if err != nil {
		return respondError(c, err)
	}

	record := models.Achievement{
		Title:       title,
		Description: description,
		UserID:      currentUserID(c),
	}
	if req.AchievedOn != "" {
		t, err := parseDate(req.AchievedOn)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid achieved_on, expected YYYY-MM-DD"))
		}
		record.AchievedOn = &t
	}

	if err := s.achievements.Create(c.UserContext(), &record); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// GetAchievement handles GET /api/achievements/:id
// @Summary Get achievement
// @Tags achievements
// @Produce json
// @Param id path int true "Achievement ID"
// @Success 200 {object} models.Achievement
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /achievements/{id} [get]
func (s *Server) GetAchievement(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	record, err := s.achievements.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// UpdateAchievement handles PUT /api/achievements/:id
// @Summary Update achievement
// @Tags achievements
// @Accept json
// @Produce json
// @Param id path int true "Achievement ID"
// @Param request body object{title=string,description=string,achieved_on=string} true "Fields to update"
// @Success 200 {object} models.Achievement
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /achievements/{id} [put]
func (s *Server) UpdateAchievement(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		AchievedOn  *string `json:"achieved_on"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	record, err := s.achievements.Update(c.UserContext(), currentUserID(c), id,
		func(a *models.Achievement) error {
			if req.Title != nil {
				title, terr := trimmedRequired(*req.Title, "Title cannot be empty")
				if terr != nil {
					return terr
				}
				a.Title = title
			}
			if req.Description != nil {
				description, derr := trimmedRequired(*req.Description, "Description cannot be empty")
				if derr != nil {
					return derr
				}
				a.Description = description
			}
			if req.AchievedOn != nil {
				if *req.AchievedOn == "" {
					a.AchievedOn = nil
				} else {
					t, perr := parseDate(*req.AchievedOn)
					if perr != nil {
						return models.NewValidationError("Invalid achieved_on, expected YYYY-MM-DD")
					}
					a.AchievedOn = &t
				}
			}
			return nil
		})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// DeleteAchievement handles DELETE /api/achievements/:id
// @Summary Delete achievement
// @Tags achievements
// @Produce json
// @Param id path int true "Achievement ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /achievements/{id} [delete]
func (s *Server) DeleteAchievement(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	if err := s.achievements.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Achievement deleted"})
}
