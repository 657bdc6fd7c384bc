package server

import (
	"memoir/internal/models"
	"memoir/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// ListNotes handles GET /api/notes
// @Summary List notes
// @Description List the authenticated user's notes, newest first
// @Tags notes
// @Produce json
// @Param q query string false "Case-insensitive search over title and content"
// @Success 200 {array} models.Note
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /notes [get]
func (s *Server) ListNotes(c *fiber.Ctx) error {
	records, err := s.notes.List(c.UserContext(), currentUserID(c),
		repository.TextSearch(c.Query("q"), "title", "content"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(records)
}

// CreateNote handles POST /api/notes
// @Summary Create note
// @Tags notes
// @Accept json
// @Produce json
// @Param request body object{title=string,content=string} true "Note"
// @Success 201 {object} models.Note
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /notes [post]
func (s *Server) CreateNote(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	title, err := trimmedRequired(req.Title, "Title is required")
	if err != nil {
		return respondError(c, err)
	}
	content, err := trimmedRequired(req.Content, "Content is required")
	if err != nil {
		return respondError(c, err)
	}

	record := models.Note{
		Title:   title,
		Content: content,
		UserID:  currentUserID(c),
	}
	if err := s.notes.Create(c.UserContext(), &record); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// GetNote handles GET /api/notes/:id
// @Summary Get note
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} models.Note
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /notes/{id} [get]
func (s *Server) GetNote(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	record, err := s.notes.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// UpdateNote handles PUT /api/notes/:id
// @Summary Update note
// @Tags notes
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param request body object{title=string,content=string} true "Fields to update"
// @Success 200 {object} models.Note
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /notes/{id} [put]
func (s *Server) UpdateNote(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	record, err := s.notes.Update(c.UserContext(), currentUserID(c), id,
		func(n *models.Note) error {
			if req.Title != nil {
				title, terr := trimmedRequired(*req.Title, "Title cannot be empty")
				if terr != nil {
					return terr
				}
				n.Title = title
			}
			if req.Content != nil {
				content, cerr := trimmedRequired(*req.Content, "Content cannot be empty")
				if cerr != nil {
					return cerr
				}
				n.Content = content
			}
			return nil
		})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// DeleteNote handles DELETE /api/notes/:id
// @Summary Delete note
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /notes/{id} [delete]
func (s *Server) DeleteNote(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	if err := s.notes.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Note deleted"})
}
