// Package ui renders view models to HTML.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/grillz/web/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Page writes the full document for m.
func Page(w io.Writer, m view.Model) error {
	if err := templates.ExecuteTemplate(w, "page", m); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// Panel renders only the button and result block, the part that changes
// when state does. It is what the websocket pushes to open pages.
func Panel(m view.Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "panel", m); err != nil {
		return nil, fmt.Errorf("render panel: %w", err)
	}
	return buf.Bytes(), nil
}
