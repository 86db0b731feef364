package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

const invoiceTemplate = "invoice.html"

// HTMLRenderer renders the invoice preview page. The template is parsed once.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded invoice template.
func NewHTMLRenderer(f Formatter) (*HTMLRenderer, error) {
	tmpl, err := template.New(invoiceTemplate).
		Funcs(template.FuncMap{
			"money": f.Money,
			"qty":   f.Quantity,
			"inc":   func(i int) int { return i + 1 },
		}).
		ParseFS(templateFS, "templates/"+invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render executes the template into w.
func (r *HTMLRenderer) Render(w io.Writer, v View) error {
	if err := r.tmpl.ExecuteTemplate(w, invoiceTemplate, v); err != nil {
		return fmt.Errorf("%w: html: %v", ErrRender, err)
	}
	return nil
}

// ContentType implements Renderer.
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }
