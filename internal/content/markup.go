package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	// Page bodies carry their presentation inline, so style attributes survive.
	htmlSanitizer = bluemonday.UGCPolicy()
	htmlSanitizer.AllowAttrs("style").Globally()
}

// Sanitize strips active content (scripts, event handlers, javascript: URLs)
// from a page body while keeping its inline styling.
func Sanitize(src string) string {
	return strings.TrimSpace(htmlSanitizer.Sanitize(src))
}

// RenderMarkdown converts a Markdown page body to sanitized HTML wrapped in a
// raw HTML block.
func RenderMarkdown(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return WrapBlock(Sanitize(buf.String())), nil
}

// WrapBlock wraps markup in a block-editor raw HTML block so the CMS editor
// keeps it verbatim instead of splitting it into paragraphs.
func WrapBlock(body string) string {
	if body == "" {
		return ""
	}
	return "<!-- wp:html -->\n" + body + "\n<!-- /wp:html -->"
}
