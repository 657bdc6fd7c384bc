package server

import (
	"strings"

	"memoir/internal/models"
	"memoir/internal/money"
	"memoir/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// parseOptionalAmount parses an amount query parameter, returning nil when absent.
func parseOptionalAmount(c *fiber.Ctx, name string) (*money.Cents, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	amount, err := money.Parse(raw)
	if err != nil {
		return nil, models.NewValidationError("Invalid " + name + ", expected a decimal amount")
	}
	return &amount, nil
}

// ListExpenses handles GET /api/expenses
// @Summary List expenses
// @Description List the authenticated user's expenses, newest first
// @Tags expenses
// @Produce json
// @Param q query string false "Case-insensitive search over notes"
// @Param category query string false "Exact category match"
// @Param start_date query string false "Earliest date, inclusive (YYYY-MM-DD)"
// @Param end_date query string false "Latest date, inclusive (YYYY-MM-DD)"
// @Param min_amount query string false "Minimum amount, inclusive"
// @Param max_amount query string false "Maximum amount, inclusive"
// @Success 200 {array} models.Expense
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /expenses [get]
func (s *Server) ListExpenses(c *fiber.Ctx) error {
	startDate, err := parseOptionalDate(c, "start_date")
	if err != nil {
		return respondError(c, err)
	}
	endDate, err := parseOptionalDate(c, "end_date")
	if err != nil {
		return respondError(c, err)
	}
	minAmount, err := parseOptionalAmount(c, "min_amount")
	if err != nil {
		return respondError(c, err)
	}
	maxAmount, err := parseOptionalAmount(c, "max_amount")
	if err != nil {
		return respondError(c, err)
	}

	records, err := s.expenses.List(c.UserContext(), currentUserID(c),
		repository.TextSearch(c.Query("q"), "notes"),
		repository.Equals("category", c.Query("category")),
		repository.DateFrom("date", startDate),
		repository.DateTo("date", endDate),
		repository.MinAmount(minAmount),
		repository.MaxAmount(maxAmount))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(records)
}

// CreateExpense handles POST /api/expenses
// @Summary Create expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body object{amount=string,date=string,category=string,notes=string} true "Expense"
// @Success 201 {object} models.Expense
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /expenses [post]
func (s *Server) CreateExpense(c *fiber.Ctx) error {
	var req struct {
		Amount   money.Cents `json:"amount"`
		Date     string      `json:"date"`
		Category string      `json:"category"`
		Notes    string      `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body, amount must be a decimal string"))
	}
	if req.Amount <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Amount must be greater than zero"))
	}
	category, err := trimmedRequired(req.Category, "Category is required")
	if err != nil {
		return respondError(c, err)
	}

	record := models.Expense{
		Amount:   req.Amount,
		Date:     todayUTC(),
		Category: category,
		Notes:    strings.TrimSpace(req.Notes),
		UserID:   currentUserID(c),
	}
	if req.Date != "" {
		t, err := parseDate(req.Date)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid date, expected YYYY-MM-DD"))
		}
		record.Date = t
	}

	if err := s.expenses.Create(c.UserContext(), &record); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// GetExpense handles GET /api/expenses/:id
// @Summary Get expense
// @Tags expenses
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} models.Expense
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /expenses/{id} [get]
func (s *Server) GetExpense(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	record, err := s.expenses.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// UpdateExpense handles PUT /api/expenses/:id
// @Summary Update expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param request body object{amount=string,date=string,category=string,notes=string} true "Fields to update"
// @Success 200 {object} models.Expense
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /expenses/{id} [put]
func (s *Server) UpdateExpense(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Amount   *money.Cents `json:"amount"`
		Date     *string      `json:"date"`
		Category *string      `json:"category"`
		Notes    *string      `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body, amount must be a decimal string"))
	}

	record, err := s.expenses.Update(c.UserContext(), currentUserID(c), id,
		func(e *models.Expense) error {
			if req.Amount != nil {
				if *req.Amount <= 0 {
					return models.NewValidationError("Amount must be greater than zero")
				}
				e.Amount = *req.Amount
			}
			if req.Date != nil {
				t, perr := parseDate(*req.Date)
				if perr != nil {
					return models.NewValidationError("Invalid date, expected YYYY-MM-DD")
				}
				e.Date = t
			}
			if req.Category != nil {
				category, cerr := trimmedRequired(*req.Category, "Category cannot be empty")
				if cerr != nil {
					return cerr
				}
				e.Category = category
			}
			if req.Notes != nil {
				e.Notes = *req.Notes
			}
			return nil
		})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// DeleteExpense handles DELETE /api/expenses/:id
// @Summary Delete expense
// @Tags expenses
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /expenses/{id} [delete]
func (s *Server) DeleteExpense(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	if err := s.expenses.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Expense deleted"})
}
