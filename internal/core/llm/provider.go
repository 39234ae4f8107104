package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
	"github.com/doveable-ai/doveable-backend/internal/shared/config"
)

// Generation failure taxonomy. Callers branch on these with errors.Is; the
// wrapped message carries the human-readable cause.
var (
	// ErrNotConfigured means no backend credentials are available. Raised
	// before any network call is made.
	ErrNotConfigured = errors.New("generation backend is not configured")

	// ErrTransport means the backend call failed or returned a non-success
	// status.
	ErrTransport = errors.New("generation backend request failed")

	// ErrMalformedResponse means the backend replied with text that is not
	// parseable as JSON, even after stripping markdown fences.
	ErrMalformedResponse = errors.New("generation backend returned invalid JSON")

	// ErrSchemaViolation means the parsed reply is missing required fields.
	ErrSchemaViolation = errors.New("generation backend reply violates the response schema")
)

// LLMProvider is a generation backend that answers a prompt with raw text,
// expected to be a single JSON object. An optional image attachment is sent
// inline as a visual reference.
type LLMProvider interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, image *models.Attachment) (string, error)
	GetProviderName() string
}

// ProviderType selects the backend implementation.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
)

// NewProvider builds the LLM provider selected in the configuration. A
// missing API key for the selected provider yields ErrNotConfigured so the
// server can start and surface the condition per request.
func NewProvider(cfg *config.Config) (LLMProvider, error) {
	switch ProviderType(cfg.LLMProvider) {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is empty", ErrNotConfigured)
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIAPIURL, cfg.LLMModel), nil

	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is empty", ErrNotConfigured)
		}
		return NewGeminiProvider(cfg.GeminiKey, cfg.LLMModel), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.LLMProvider)
	}
}
