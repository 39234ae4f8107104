package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/doveable-ai/doveable-backend/internal/core/auth"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/repositories"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/services"
)

type ProfileHandler struct {
	profiles repositories.ProfileRepo
	credits  *services.CreditService
}

func NewProfileHandler(profiles repositories.ProfileRepo, credits *services.CreditService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, credits: credits}
}

type preferencesRequest struct {
	PreferredTechStack []string `json:"preferred_tech_stack"`
	ProjectTypes       []string `json:"project_types"`
	LearningFocus      []string `json:"learning_focus"`
}

type linkStorageRequest struct {
	Linked bool `json:"linked"`
}

type purchaseRequest struct {
	PlanID int `json:"plan_id"`
}

// GetProfile godoc
// @Summary Current profile
// @Description Returns the profile, creating it on first access and applying the daily free credit grant
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Router /api/profile [get]
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user"})
	}

	profile, err := h.credits.LoadProfile(userID, auth.CurrentEmail(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile"})
	}

	return c.JSON(profile)
}

// UpdatePreferences godoc
// @Summary Update personalization preferences
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body preferencesRequest true "Preferences"
// @Success 200 {object} models.Profile
// @Router /api/profile/preferences [put]
func (h *ProfileHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user"})
	}

	var req preferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	profile, err := h.profiles.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
	}

	profile.PreferredTechStack = req.PreferredTechStack
	profile.ProjectTypes = req.ProjectTypes
	profile.LearningFocus = req.LearningFocus

	if err := h.profiles.Save(profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save preferences"})
	}

	return c.JSON(profile)
}

// LinkStorage godoc
// @Summary Link or unlink durable storage
// @Description Linked users get permanent projects; unlinked projects expire
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body linkStorageRequest true "Link flag"
// @Success 200 {object} models.Profile
// @Router /api/profile/storage [post]
func (h *ProfileHandler) LinkStorage(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user"})
	}

	var req linkStorageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	profile, err := h.profiles.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
	}

	profile.HasLinkedStorage = req.Linked
	if err := h.profiles.Save(profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update storage link"})
	}

	return c.JSON(profile)
}

// ListPlans godoc
// @Summary Purchasable coin bundles
// @Tags Profile
// @Produce json
// @Success 200 {array} models.CoinPlan
// @Router /api/plans [get]
func (h *ProfileHandler) ListPlans(c *fiber.Ctx) error {
	return c.JSON(models.CoinPlans)
}

// PurchaseCredits godoc
// @Summary Credit a purchased coin bundle
// @Description Applies a completed purchase to the balance. Purchased coins never expire.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body purchaseRequest true "Plan ID"
// @Success 200 {object} models.Profile
// @Router /api/profile/credits/purchase [post]
func (h *ProfileHandler) PurchaseCredits(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user"})
	}

	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var plan *models.CoinPlan
	for i := range models.CoinPlans {
		if models.CoinPlans[i].ID == req.PlanID {
			plan = &models.CoinPlans[i]
			break
		}
	}
	if plan == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown plan"})
	}

	profile, err := h.profiles.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
	}

	if err := h.credits.Purchase(profile, plan.Coins); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to credit purchase"})
	}

	return c.JSON(profile)
}
