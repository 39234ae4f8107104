package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/repositories"
	"github.com/doveable-ai/doveable-backend/internal/shared/utils"
)

type ContactHandler struct {
	contacts repositories.ContactRepo
}

func NewContactHandler(contacts repositories.ContactRepo) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// SubmitContact godoc
// @Summary Submit a contact form message
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body contactRequest true "Contact message"
// @Success 201 {object} models.ContactMessage
// @Failure 400 {object} map[string]string
// @Router /api/contact [post]
func (h *ContactHandler) SubmitContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and message are required"})
	}

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   strings.TrimSpace(req.Email),
		Message: req.Message,
	}

	if err := h.contacts.Create(msg); err != nil {
		utils.LogError("failed to store contact message", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to submit message"})
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}
