package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/doveable-ai/doveable-backend/internal/core/auth"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/repositories"
)

type AdminHandler struct {
	profiles repositories.ProfileRepo
}

func NewAdminHandler(profiles repositories.ProfileRepo) *AdminHandler {
	return &AdminHandler{profiles: profiles}
}

// ListProfiles godoc
// @Summary List all user profiles
// @Description Admin only
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Profile
// @Failure 403 {object} map[string]string
// @Router /api/admin/profiles [get]
func (h *AdminHandler) ListProfiles(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user"})
	}

	caller, err := h.profiles.GetByID(userID)
	if err != nil || !caller.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
	}

	profiles, err := h.profiles.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list profiles"})
	}

	return c.JSON(profiles)
}
