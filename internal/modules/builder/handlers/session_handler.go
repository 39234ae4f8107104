package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/doveable-ai/doveable-backend/internal/core/auth"
	"github.com/doveable-ai/doveable-backend/internal/core/llm"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/services"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type openSessionRequest struct {
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
}

type generateRequest struct {
	Prompt     string             `json:"prompt"`
	Attachment *models.Attachment `json:"attachment,omitempty"`
}

// OpenSession godoc
// @Summary Open a builder session
// @Description Opens a fresh session, or one loaded from an existing project
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body openSessionRequest false "Optional project to load"
// @Success 201 {object} services.SessionView
// @Router /api/sessions [post]
func (h *SessionHandler) OpenSession(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user"})
	}

	var req openSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	view, err := h.sessions.Open(userID, req.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}

	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetSession godoc
// @Summary Session state
// @Description Returns messages, current code and save status
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionView
// @Router /api/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	userID, sessionID, err := sessionScope(c)
	if err != nil {
		return err
	}

	view, err := h.sessions.Get(sessionID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	return c.JSON(view)
}

// Generate godoc
// @Summary Generate or edit website code
// @Description Runs one generation request against the AI backend
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body generateRequest true "Prompt and optional attachment"
// @Success 200 {object} services.GenerateResult
// @Failure 402 {object} map[string]string "insufficient credits"
// @Failure 409 {object} map[string]string "generation already in progress"
// @Router /api/sessions/{id}/generate [post]
func (h *SessionHandler) Generate(c *fiber.Ctx) error {
	userID, sessionID, err := sessionScope(c)
	if err != nil {
		return err
	}

	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.sessions.Generate(c.Context(), sessionID, userID, auth.CurrentEmail(c), req.Prompt, req.Attachment)
	if err != nil {
		return generateErrorResponse(c, err)
	}

	return c.JSON(result)
}

// UpdateCode godoc
// @Summary Apply a manual code edit
// @Description Replaces the session's code bundle from the editor
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body models.GeneratedCode true "Updated code bundle"
// @Success 200 {object} services.SessionView
// @Router /api/sessions/{id}/code [put]
func (h *SessionHandler) UpdateCode(c *fiber.Ctx) error {
	userID, sessionID, err := sessionScope(c)
	if err != nil {
		return err
	}

	var code models.GeneratedCode
	if err := c.BodyParser(&code); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	view, err := h.sessions.UpdateCode(sessionID, userID, &code)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	return c.JSON(view)
}

// CloseSession godoc
// @Summary Close a session
// @Description Flushes unsaved changes and discards the session
// @Tags Sessions
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204
// @Router /api/sessions/{id} [delete]
func (h *SessionHandler) CloseSession(c *fiber.Ctx) error {
	userID, sessionID, err := sessionScope(c)
	if err != nil {
		return err
	}

	if err := h.sessions.Close(sessionID, userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func sessionScope(c *fiber.Ctx) (userID, sessionID uuid.UUID, err error) {
	userID, err = auth.CurrentUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user")
	}

	sessionID, err = uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	return userID, sessionID, nil
}

// generateErrorResponse maps the generation failure taxonomy onto HTTP
// statuses. Insufficient credits and configuration problems get dedicated
// surfaces; everything else is already recorded as an inline error entry in
// the conversation.
func generateErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInsufficientCredits):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":   "insufficient credits",
			"upgrade": true,
		})
	case errors.Is(err, services.ErrGenerationInFlight):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrEmptyPrompt):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, llm.ErrNotConfigured):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "generation backend credentials are not configured",
		})
	case errors.Is(err, llm.ErrMalformedResponse), errors.Is(err, llm.ErrSchemaViolation):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
