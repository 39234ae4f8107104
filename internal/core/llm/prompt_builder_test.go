package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

func TestSystemPromptStatesContract(t *testing.T) {
	prompt := BuildSystemPrompt()

	assert.Contains(t, prompt, "single, valid JSON object")
	for _, field := range []string{"title", "plan", "html_code", "css_code", "js_code", "external_css_files", "external_js_files"} {
		assert.Contains(t, prompt, field)
	}
}

func TestCreateModePrompt(t *testing.T) {
	prompt := BuildUserPrompt(&GenerationRequest{Prompt: "a bakery site"})

	assert.Contains(t, prompt, "from scratch")
	assert.Contains(t, prompt, `"a bakery site"`)
	assert.NotContains(t, prompt, "existing website")
	assert.NotContains(t, prompt, "image as a visual reference")
}

func TestEditModeEmbedsCodeVerbatim(t *testing.T) {
	existing := &models.GeneratedCode{
		Title:      "Bakery",
		HTML:       "<section id=\"menu\">\n  <h2>Menu</h2>\n</section>",
		CSS:        "#menu { padding: 2rem; }",
		JavaScript: "document.querySelector('#menu');",
	}
	prompt := BuildUserPrompt(&GenerationRequest{
		Prompt:       "add a contact form",
		ExistingCode: existing,
	})

	assert.Contains(t, prompt, "edit an existing website")
	assert.Contains(t, prompt, "Title: Bakery")
	assert.Contains(t, prompt, "```html\n"+existing.HTML+"\n```")
	assert.Contains(t, prompt, "```css\n"+existing.CSS+"\n```")
	assert.Contains(t, prompt, "```javascript\n"+existing.JavaScript+"\n```")
}

func TestImageNote(t *testing.T) {
	prompt := BuildUserPrompt(&GenerationRequest{
		Prompt:     "match this design",
		Attachment: &models.Attachment{Name: "mock.png", DataURL: "data:image/png;base64,AAAA", MimeType: "image/png"},
	})

	assert.Contains(t, prompt, "image as a visual reference")
}

func TestPersonalContextComesFirst(t *testing.T) {
	prompt := BuildUserPrompt(&GenerationRequest{
		Prompt:          "a blog",
		PersonalContext: "The user prefers the following technologies: vanilla JS.\n",
	})

	assert.True(t, strings.HasPrefix(prompt, "The user prefers"))
}
