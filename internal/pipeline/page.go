package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// Sentinel errors for page rendering.
var (
	// ErrPageTemplate reports a page template that does not parse.
	ErrPageTemplate = errors.New("invalid page template")

	// ErrPageRender reports a failure to execute the page template.
	ErrPageRender = errors.New("page template rendering failed")
)

// PageRenderer defines the contract for wrapping display markup in a page.
type PageRenderer interface {
	RenderPage(ctx context.Context, data PageData) (string, error)
}

// PageData holds the page template fields. Body is display markup and is
// inserted without escaping.
type PageData struct {
	Title string
	Body  string
	CSS   string
}

// PageTemplate renders display markup into a standalone HTML page.
type PageTemplate struct {
	tmpl *template.Template
}

// NewPageTemplate creates a PageTemplate from template content.
// Returns error if the template cannot be parsed.
func NewPageTemplate(tmplContent string) (*PageTemplate, error) {
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageTemplate, err)
	}
	return &PageTemplate{tmpl: tmpl}, nil
}

// RenderPage executes the template.
// CSS is escaped so it cannot close the <style> block.
func (p *PageTemplate) RenderPage(ctx context.Context, data PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err := p.tmpl.Execute(&buf, struct {
		Title string
		Body  template.HTML
		CSS   template.CSS
	}{
		Title: data.Title,
		Body:  template.HTML(data.Body), // #nosec G203 -- display markup produced by the render pipeline
		CSS:   template.CSS(sanitizeCSS(data.CSS)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
