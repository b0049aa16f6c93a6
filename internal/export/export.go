package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
)

// Formats accepted by the export operation.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatText     = "text"
)

// ErrUnsupportedFormat is returned for formats the renderer cannot produce
// yet (docx, pdf).
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Render converts a draft document to the requested format. Markdown and text
// pass through unchanged, html renders through goldmark.
func Render(format, document string) (string, error) {
	switch format {
	case FormatMarkdown, FormatText:
		return document, nil
	case FormatHTML:
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(document), &buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
