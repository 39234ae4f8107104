// Package preview assembles a generated code bundle into a single
// standalone HTML document for rendering inside a sandboxed frame.
package preview

import (
	"fmt"
	"strings"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

// BuildDocument concatenates external stylesheet links, the inline style
// block, the body markup, external script tags and the inline script block
// into a complete document. Pure string templating, no escaping of the
// generated code itself: the document is served into an isolated frame.
func BuildDocument(code *models.GeneratedCode) string {
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"UTF-8\" />\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\" />\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", code.Title)

	for _, url := range code.ExternalCSS {
		fmt.Fprintf(&sb, "<link rel=\"stylesheet\" href=%q>\n", url)
	}
	fmt.Fprintf(&sb, "<style>%s</style>\n", code.CSS)

	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(code.HTML)
	sb.WriteString("\n")

	for _, url := range code.ExternalJS {
		fmt.Fprintf(&sb, "<script src=%q></script>\n", url)
	}
	fmt.Fprintf(&sb, "<script>%s</script>\n", code.JavaScript)

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}
