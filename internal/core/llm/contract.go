package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

// codeReply is the raw wire shape of a generation reply. String fields are
// pointers so an absent field is distinguishable from an empty one.
type codeReply struct {
	Title            *string  `json:"title"`
	Plan             *string  `json:"plan"`
	HTMLCode         *string  `json:"html_code"`
	CSSCode          *string  `json:"css_code"`
	JSCode           *string  `json:"js_code"`
	ExternalCSSFiles []string `json:"external_css_files"`
	ExternalJSFiles  []string `json:"external_js_files"`
}

// ParseGeneratedCode validates the backend's raw reply against the response
// contract and converts it into the typed internal form. The untyped JSON
// never leaves this function.
func ParseGeneratedCode(raw string) (*models.GeneratedCode, error) {
	cleaned := stripCodeFences(raw)

	var reply codeReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var missing []string
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"title", reply.Title},
		{"plan", reply.Plan},
		{"html_code", reply.HTMLCode},
		{"css_code", reply.CSSCode},
		{"js_code", reply.JSCode},
	} {
		if f.value == nil {
			missing = append(missing, f.name)
		}
	}
	if missing != nil {
		return nil, fmt.Errorf("%w: missing %s", ErrSchemaViolation, strings.Join(missing, ", "))
	}

	code := &models.GeneratedCode{
		Title:       *reply.Title,
		Plan:        *reply.Plan,
		HTML:        *reply.HTMLCode,
		CSS:         *reply.CSSCode,
		JavaScript:  *reply.JSCode,
		ExternalCSS: reply.ExternalCSSFiles,
		ExternalJS:  reply.ExternalJSFiles,
	}
	if code.ExternalCSS == nil {
		code.ExternalCSS = []string{}
	}
	if code.ExternalJS == nil {
		code.ExternalJS = []string{}
	}

	return code, nil
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag. Some backends wrap JSON replies this way despite being
// asked not to.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx != -1 {
		// Drop the language tag line (e.g. "json").
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
