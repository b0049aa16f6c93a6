package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	document := "# Title\n\nA paragraph with **bold** text."

	md, err := Render(FormatMarkdown, document)
	assert.NoError(t, err)
	assert.Equal(t, document, md)

	text, err := Render(FormatText, document)
	assert.NoError(t, err)
	assert.Equal(t, document, text)

	html, err := Render(FormatHTML, document)
	assert.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderUnsupported(t *testing.T) {
	for _, format := range []string{"docx", "pdf", ""} {
		_, err := Render(format, "content")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	}
}
