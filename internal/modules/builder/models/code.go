package models

// GeneratedCode is the artifact produced by one generation call. It is
// replaced wholesale on every successful generation and snapshotted into a
// project on autosave.
type GeneratedCode struct {
	Title       string   `json:"title"`
	Plan        string   `json:"plan"`
	HTML        string   `json:"html"`
	CSS         string   `json:"css"`
	JavaScript  string   `json:"javascript"`
	ExternalCSS []string `json:"externalCss"`
	ExternalJS  []string `json:"externalJs"`
}

// FileNames lists the virtual files this bundle consists of, external
// libraries included. Shown in the chat history next to a response.
func (c *GeneratedCode) FileNames() []string {
	files := []string{"index.html", "style.css", "script.js"}
	files = append(files, c.ExternalCSS...)
	files = append(files, c.ExternalJS...)
	return files
}

// Attachment is a user-supplied binary (typically an image) included as a
// visual reference for generation. DataURL carries the base64 payload in
// data-URL form, exactly as submitted by the client.
type Attachment struct {
	Name     string `json:"name"`
	DataURL  string `json:"dataUrl"`
	MimeType string `json:"mimeType"`
}
