package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML passthrough stays off (no html.WithUnsafe), so output is safe to
// mark as template.HTML.
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
)

// renderMarkdownHTML converts chapter summaries. On failure the escaped
// source is returned with the error so the caller can log it.
func renderMarkdownHTML(src string) (template.HTML, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>"), err
	}
	return template.HTML(b.String()), nil
}
