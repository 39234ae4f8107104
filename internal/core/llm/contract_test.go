package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedCode(t *testing.T) {
	code, err := ParseGeneratedCode(`{
		"title": "Portfolio",
		"plan": "* Lay out sections",
		"html_code": "<main></main>",
		"css_code": "main { display: grid; }",
		"js_code": "",
		"external_css_files": ["https://fonts.googleapis.com/css2?family=Inter"],
		"external_js_files": []
	}`)
	require.NoError(t, err)

	assert.Equal(t, "Portfolio", code.Title)
	assert.Equal(t, "<main></main>", code.HTML)
	assert.Equal(t, []string{"https://fonts.googleapis.com/css2?family=Inter"}, code.ExternalCSS)
	assert.Equal(t, []string{}, code.ExternalJS)
}

func TestParseStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"title\":\"T\",\"plan\":\"p\",\"html_code\":\"h\",\"css_code\":\"c\",\"js_code\":\"j\"}\n```"
	code, err := ParseGeneratedCode(raw)
	require.NoError(t, err)
	assert.Equal(t, "T", code.Title)
}

func TestParseNotJSON(t *testing.T) {
	_, err := ParseGeneratedCode("I'm sorry, I can't build that website.")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseMissingRequiredField(t *testing.T) {
	_, err := ParseGeneratedCode(`{
		"title": "No Plan",
		"html_code": "<p></p>",
		"css_code": "",
		"js_code": ""
	}`)
	require.ErrorIs(t, err, ErrSchemaViolation)
	assert.Contains(t, err.Error(), "plan")
}

func TestParseEmptyFieldsAreValid(t *testing.T) {
	code, err := ParseGeneratedCode(`{"title":"","plan":"","html_code":"","css_code":"","js_code":""}`)
	require.NoError(t, err)
	assert.NotNil(t, code.ExternalCSS, "absent list fields default to empty")
	assert.NotNil(t, code.ExternalJS)
}
