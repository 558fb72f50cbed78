// Package manual renders the markdown manual into an HTML page.
package manual

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/xll-gen/assetgen/internal/atomicfile"
	"github.com/xll-gen/assetgen/internal/templates"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Placeholder is replaced by the rendered manual in the page template.
const Placeholder = "@MANUAL_HTML@"

// Render converts markdown to HTML. Bare URLs become links.
func Render(markdown []byte) (string, error) {
	var buf bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.Linkify))
	if err := md.Convert(markdown, &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Substitute replaces every placeholder in tmpl with html.
func Substitute(tmpl, html string) string {
	return strings.ReplaceAll(tmpl, Placeholder, html)
}

// Generate renders markdownPath into templatePath and writes the page to
// outputPath. An empty templatePath selects the built-in page template.
func Generate(markdownPath, templatePath, outputPath string) error {
	src, err := os.ReadFile(markdownPath)
	if err != nil {
		return fmt.Errorf("failed to read manual: %w", err)
	}

	var tmpl string
	if templatePath == "" {
		tmpl, err = templates.Get("manual.html.tmpl")
	} else {
		var b []byte
		b, err = os.ReadFile(templatePath)
		tmpl = string(b)
	}
	if err != nil {
		return fmt.Errorf("failed to read manual template: %w", err)
	}
	if !strings.Contains(tmpl, Placeholder) {
		return fmt.Errorf("manual template has no %s placeholder", Placeholder)
	}

	html, err := Render(src)
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(outputPath, []byte(Substitute(tmpl, html)))
}
