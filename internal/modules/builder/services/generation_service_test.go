package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/doveable-ai/doveable-backend/internal/core/llm"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

func TestPlanSteps(t *testing.T) {
	steps := PlanSteps("* Add a navbar\n- Style the footer\n\n  *   Wire up the form  \n")
	assert.Equal(t, []string{"Add a navbar", "Style the footer", "Wire up the form"}, steps)

	assert.Nil(t, PlanSteps(""))
	assert.Equal(t, []string{"plain sentence"}, PlanSteps("plain sentence"))
}

func TestGenerateWithoutProvider(t *testing.T) {
	svc := NewGenerationService(nil, time.Second)

	_, err := svc.Generate(context.Background(), &llm.GenerationRequest{Prompt: "anything"})
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestBuildPersonalContext(t *testing.T) {
	assert.Empty(t, BuildPersonalContext(nil))
	assert.Empty(t, BuildPersonalContext(&models.Profile{}))

	ctx := BuildPersonalContext(&models.Profile{
		PreferredTechStack: []string{"vanilla JS", "CSS grid"},
		LearningFocus:      []string{"animations"},
	})
	assert.Contains(t, ctx, "vanilla JS, CSS grid")
	assert.Contains(t, ctx, "animations")
}
