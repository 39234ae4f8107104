package llm

import (
	"fmt"
	"strings"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

// GenerationRequest carries everything the prompt builder needs for one
// generation call.
type GenerationRequest struct {
	// Prompt is the user's free-text request. May be empty when an
	// attachment substitutes for it; callers gate the empty-both case.
	Prompt string

	// Attachment is an optional image used as a visual reference.
	Attachment *models.Attachment

	// ExistingCode switches the builder into edit mode when non-nil.
	ExistingCode *models.GeneratedCode

	// PersonalContext is a free-text personalization preamble derived from
	// the user's stored preferences. Possibly empty.
	PersonalContext string
}

// jsonResponseFormat describes the reply structure the model must follow.
// Field names here are the wire contract; parsing lives in contract.go.
const jsonResponseFormat = `{
  "title": "A short, descriptive title for the web page.",
  "plan": "A step-by-step plan for the changes or creation, formatted as a bulleted list string (e.g., '* Item 1\n* Item 2').",
  "html_code": "The complete, updated HTML code for the body of the page.",
  "css_code": "The complete, updated CSS code for the styling. Use modern design principles and ensure it is responsive.",
  "js_code": "The complete, updated JavaScript code for interactivity. Can be empty if not needed.",
  "external_css_files": "An array of CDN URLs for any external CSS libraries to include (e.g., Google Fonts, Font Awesome). Can be empty.",
  "external_js_files": "An array of CDN URLs for any external JavaScript libraries to include (e.g., jQuery, GSAP). Can be empty."
}`

// BuildSystemPrompt returns the fixed instruction establishing the model's
// role and the required reply shape.
func BuildSystemPrompt() string {
	return fmt.Sprintf(`You are an expert full-stack web developer. Your task is to build or modify a single-page website based on user requests.
Your response MUST be a single, valid JSON object, without any surrounding text, comments, or markdown formatting.
The JSON object must strictly follow this structure:
%s`, jsonResponseFormat)
}

// BuildUserPrompt composes the user-turn instruction text. Edit mode embeds
// the existing code verbatim; create mode asks for a site from scratch.
func BuildUserPrompt(req *GenerationRequest) string {
	var sb strings.Builder

	if req.PersonalContext != "" {
		sb.WriteString(req.PersonalContext)
		sb.WriteString("\n")
	}

	imageNote := ""
	if req.Attachment != nil {
		imageNote = "The user has also provided an image as a visual reference. Incorporate the style, colors, and content from the image into your changes.\n"
	}

	if req.ExistingCode != nil {
		code := req.ExistingCode
		sb.WriteString("The user wants to edit an existing website.\n")
		fmt.Fprintf(&sb, "Their request is: %q.\n", req.Prompt)
		sb.WriteString(imageNote)
		sb.WriteString("\nHere is the current code for the website:\n")
		fmt.Fprintf(&sb, "Title: %s\n", code.Title)
		fmt.Fprintf(&sb, "HTML:\n```html\n%s\n```\n\n", code.HTML)
		fmt.Fprintf(&sb, "CSS:\n```css\n%s\n```\n\n", code.CSS)
		fmt.Fprintf(&sb, "JavaScript:\n```javascript\n%s\n```\n\n", code.JavaScript)
		sb.WriteString("Your task is to modify the existing code to implement the user's request.\n")
		sb.WriteString("First, provide a step-by-step plan. Then, provide the complete, updated code in the required JSON format.")
	} else {
		sb.WriteString("The user wants to build a new single-page website from scratch.\n")
		fmt.Fprintf(&sb, "Their request is: %q.\n", req.Prompt)
		sb.WriteString(imageNote)
		sb.WriteString("\nYour goal is to generate a complete, visually appealing, and functional website.\n")
		sb.WriteString("First, create a title. Second, provide a step-by-step plan. Then, provide the complete code for HTML, CSS, and JavaScript in the required JSON format.")
	}

	return sb.String()
}
