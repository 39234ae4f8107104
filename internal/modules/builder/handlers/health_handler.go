package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/doveable-ai/doveable-backend/internal/core/llm"
)

type HealthHandler struct {
	provider llm.LLMProvider
}

func NewHealthHandler(provider llm.LLMProvider) *HealthHandler {
	return &HealthHandler{provider: provider}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	providerName := "none"
	if h.provider != nil {
		providerName = h.provider.GetProviderName()
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "doveable-api",
		"provider": providerName,
	})
}
