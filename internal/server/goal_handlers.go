package server

import (
	"memoir/internal/models"
	"memoir/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// ListGoals handles GET /api/goals
// @Summary List goals
// @Description List the authenticated user's goals, newest first
// @Tags goals
// @Produce json
// @Param q query string false "Case-insensitive search over title and description"
// @Param status query string false "Filter by status (planned, in progress, complete)"
// @Success 200 {array} models.Goal
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /goals [get]
func (s *Server) ListGoals(c *fiber.Ctx) error {
	if status := c.Query("status"); status != "" && !models.ValidGoalStatus(status) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid status, expected planned, in progress or complete"))
	}

	records, err := s.goals.List(c.UserContext(), currentUserID(c),
		repository.TextSearch(c.Query("q"), "title", "description"),
		repository.Equals("status", c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(records)
}

// CreateGoal handles POST /api/goals
// @Summary Create goal
// @Tags goals
// @Accept json
// @Produce json
// @Param request body object{title=string,description=string,status=string,target_date=string} true "Goal"
// @Success 201 {object} models.Goal
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /goals [post]
func (s *Server) CreateGoal(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
		TargetDate  string `json:"target_date"`
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
	if req.Status == "" {
		req.Status = models.GoalStatusPlanned
	}
	if !models.ValidGoalStatus(req.Status) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid status, expected planned, in progress or complete"))
	}

	record := models.Goal{
		Title:       title,
		Description: description,
		Status:      req.Status,
		UserID:      currentUserID(c),
	}
	if req.TargetDate != "" {
		t, err := parseDate(req.TargetDate)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid target_date, expected YYYY-MM-DD"))
		}
		record.TargetDate = &t
	}

	if err := s.goals.Create(c.UserContext(), &record); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// GetGoal handles GET /api/goals/:id
// @Summary Get goal
// @Tags goals
// @Produce json
// @Param id path int true "Goal ID"
// @Success 200 {object} models.Goal
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /goals/{id} [get]
func (s *Server) GetGoal(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	record, err := s.goals.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// UpdateGoal handles PUT /api/goals/:id
// @Summary Update goal
// @Tags goals
// @Accept json
// @Produce json
// @Param id path int true "Goal ID"
// @Param request body object{title=string,description=string,status=string,target_date=string} true "Fields to update"
// @Success 200 {object} models.Goal
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /goals/{id} [put]
func (s *Server) UpdateGoal(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		TargetDate  *string `json:"target_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	record, err := s.goals.Update(c.UserContext(), currentUserID(c), id,
		func(g *models.Goal) error {
			if req.Title != nil {
				title, terr := trimmedRequired(*req.Title, "Title cannot be empty")
				if terr != nil {
					return terr
				}
				g.Title = title
			}
			if req.Description != nil {
				description, derr := trimmedRequired(*req.Description, "Description cannot be empty")
				if derr != nil {
					return derr
				}
				g.Description = description
			}
			if req.Status != nil {
				if !models.ValidGoalStatus(*req.Status) {
					return models.NewValidationError("Invalid status, expected planned, in progress or complete")
				}
				g.Status = *req.Status
			}
			if req.TargetDate != nil {
				if *req.TargetDate == "" {
					g.TargetDate = nil
				} else {
					t, perr := parseDate(*req.TargetDate)
					if perr != nil {
						return models.NewValidationError("Invalid target_date, expected YYYY-MM-DD")
					}
					g.TargetDate = &t
				}
			}
			return nil
		})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// DeleteGoal handles DELETE /api/goals/:id
// @Summary Delete goal
// @Tags goals
// @Produce json
// @Param id path int true "Goal ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /goals/{id} [delete]
func (s *Server) DeleteGoal(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	if err := s.goals.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Goal deleted"})
}
