package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doveable-ai/doveable-backend/internal/core/llm"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
	"github.com/doveable-ai/doveable-backend/internal/shared/utils"
)

// GenerationService issues one generation request against the configured
// LLM provider and returns a validated code bundle or a typed failure. No
// retries, no state mutation on failure.
type GenerationService struct {
	provider llm.LLMProvider
	timeout  time.Duration
}

// NewGenerationService wires the provider. A nil provider is allowed and
// makes every call fail with ErrNotConfigured, so the server can run
// without credentials and report the condition per request.
func NewGenerationService(provider llm.LLMProvider, timeout time.Duration) *GenerationService {
	return &GenerationService{
		provider: provider,
		timeout:  timeout,
	}
}

// Generate composes the prompt, calls the backend and parses the structured
// reply. A hung backend is cut off by the configured timeout.
func (s *GenerationService) Generate(ctx context.Context, req *llm.GenerationRequest) (*models.GeneratedCode, error) {
	if s.provider == nil {
		return nil, llm.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	systemPrompt := llm.BuildSystemPrompt()
	userPrompt := llm.BuildUserPrompt(req)

	started := time.Now()
	raw, err := s.provider.GenerateJSON(ctx, systemPrompt, userPrompt, req.Attachment)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", llm.ErrTransport, err)
	}

	code, err := llm.ParseGeneratedCode(raw)
	if err != nil {
		utils.LogWarn("unusable generation reply", map[string]interface{}{
			"provider": s.provider.GetProviderName(),
			"error":    err.Error(),
		})
		return nil, err
	}

	utils.LogInfo("code generated", map[string]interface{}{
		"provider": s.provider.GetProviderName(),
		"title":    code.Title,
		"took":     time.Since(started).String(),
	})
	return code, nil
}

// PlanSteps splits a bulleted plan string into display steps, dropping
// bullet markers and blank lines.
func PlanSteps(plan string) []string {
	var steps []string
	for _, line := range strings.Split(plan, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, "-")
		line = strings.TrimSpace(line)
		if line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}
