package server

import (
	"time"

	"memoir/internal/middleware"
	"memoir/internal/models"
	"memoir/internal/observability"
	"memoir/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// decryptionFailedSentinel replaces a confidential value whose stored token
// cannot be decrypted, typically after the encryption key changed. The row
// itself is never an error; the client sees the placeholder.
const decryptionFailedSentinel = "[decryption failed: invalid key]"

// confidentialResponse is the wire shape of a confidential detail with its
// value decrypted. Plaintext never touches the model or the database.
type confidentialResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) renderConfidential(c *fiber.Ctx, record *models.ConfidentialDetail) confidentialResponse {
	value, err := s.cipher.Decrypt(record.EncryptedValue)
	if err != nil {
		value = decryptionFailedSentinel
		observability.DecryptionFailures.Inc()
		middleware.Logger.WarnContext(c.UserContext(), "confidential value could not be decrypted",
			"record_id", record.ID)
	}
	return confidentialResponse{
		ID:        record.ID,
		Title:     record.Title,
		Value:     value,
		CreatedAt: record.CreatedAt,
	}
}

// ListConfidentialDetails handles GET /api/confidential-details
// @Summary List confidential details
// @Description List the authenticated user's confidential details with values decrypted
// @Tags confidential-details
// @Produce json
// @Param q query string false "Case-insensitive search over title"
// @Success 200 {array} object{id=int,title=string,value=string,created_at=string}
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /confidential-details [get]
func (s *Server) ListConfidentialDetails(c *fiber.Ctx) error {
	// The search predicate only ever sees titles; values are ciphertext in
	// the database and unsearchable.
	records, err := s.confidentials.List(c.UserContext(), currentUserID(c),
		repository.TextSearch(c.Query("q"), "title"))
	if err != nil {
		return respondError(c, err)
	}

	out := make([]confidentialResponse, 0, len(records))
	for i := range records {
		out = append(out, s.renderConfidential(c, &records[i]))
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// CreateConfidentialDetail handles POST /api/confidential-details
// @Summary Create confidential detail
// @Tags confidential-details
// @Accept json
// @Produce json
// @Param request body object{title=string,value=string} true "Confidential detail"
// @Success 201 {object} object{id=int,title=string,value=string,created_at=string}
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /confidential-details [post]
func (s *Server) CreateConfidentialDetail(c *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
		Value string `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	title, err := trimmedRequired(req.Title, "Title is required")
	if err != nil {
		return respondError(c, err)
	}
	// The value is secret payload; it is stored byte-for-byte, never trimmed.
	if req.Value == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Value is required"))
	}

	encrypted, err := s.cipher.Encrypt(req.Value)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	record := models.ConfidentialDetail{
		Title:          title,
		EncryptedValue: encrypted,
		UserID:         currentUserID(c),
	}
	if err := s.confidentials.Create(c.UserContext(), &record); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(confidentialResponse{
		ID:        record.ID,
		Title:     record.Title,
		Value:     req.Value,
		CreatedAt: record.CreatedAt,
	})
}

// GetConfidentialDetail handles GET /api/confidential-details/:id
// @Summary Get confidential detail
// @Tags confidential-details
// @Produce json
// @Param id path int true "Confidential detail ID"
// @Success 200 {object} object{id=int,title=string,value=string,created_at=string}
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /confidential-details/{id} [get]
func (s *Server) GetConfidentialDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	record, err := s.confidentials.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(s.renderConfidential(c, record))
}

// UpdateConfidentialDetail handles PUT /api/confidential-details/:id
// @Summary Update confidential detail
// @Tags confidential-details
// @Accept json
// @Produce json
// @Param id path int true "Confidential detail ID"
// @Param request body object{title=string,value=string} true "Fields to update"
// @Success 200 {object} object{id=int,title=string,value=string,created_at=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /confidential-details/{id} [put]
func (s *Server) UpdateConfidentialDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title *string `json:"title"`
		Value *string `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	record, err := s.confidentials.Update(c.UserContext(), currentUserID(c), id,
		func(d *models.ConfidentialDetail) error {
			if req.Title != nil {
				title, terr := trimmedRequired(*req.Title, "Title cannot be empty")
				if terr != nil {
					return terr
				}
				d.Title = title
			}
			if req.Value != nil {
				if *req.Value == "" {
					return models.NewValidationError("Value cannot be empty")
				}
				encrypted, encErr := s.cipher.Encrypt(*req.Value)
				if encErr != nil {
					return models.NewInternalError(encErr)
				}
				d.EncryptedValue = encrypted
			}
			return nil
		})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(s.renderConfidential(c, record))
}

// DeleteConfidentialDetail handles DELETE /api/confidential-details/:id
// @Summary Delete confidential detail
// @Tags confidential-details
// @Produce json
// @Param id path int true "Confidential detail ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /confidential-details/{id} [delete]
func (s *Server) DeleteConfidentialDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	if err := s.confidentials.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Confidential detail deleted"})
}
