// Package services – RenderService
//
// RenderService renders a posted invoice mapping in one of the supported
// formats. Rendering is synchronous and CPU-bound; the context is only used
// for tracing.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/tbourn/go-invoice-backend/internal/extract"
	"github.com/tbourn/go-invoice-backend/internal/render"
)

// Format names an output document type.
type Format string

// Supported formats.
const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Document is a rendered invoice.
type Document struct {
	ContentType string
	// Filename is the attachment name; empty for inline documents.
	Filename string
	Body     []byte
}

// RenderService renders invoices with one Renderer per format.
type RenderService struct {
	renderers map[Format]render.Renderer
}

// NewRenderService builds HTML, PDF and XLSX renderers for locale.
func NewRenderService(locale language.Tag) (*RenderService, error) {
	f := render.NewFormatter(locale)
	html, err := render.NewHTMLRenderer(f)
	if err != nil {
		return nil, err
	}
	return &RenderService{renderers: map[Format]render.Renderer{
		FormatHTML: html,
		FormatPDF:  render.NewPDFRenderer(f),
		FormatXLSX: render.NewXLSXRenderer(),
	}}, nil
}

// Render builds a view from data and renders it as format.
//
// Errors:
//   - ErrUnknownFormat for an unsupported format
//   - ErrInvalidInvoice when data cannot be normalized
//   - render.ErrRender when document generation fails
func (s *RenderService) Render(ctx context.Context, format Format, data map[string]any) (Document, error) {
	tr := otel.Tracer("services/RenderService")
	_, span := tr.Start(ctx, "Render",
		trace.WithAttributes(attribute.String("format", string(format))),
	)
	defer span.End()

	r, ok := s.renderers[format]
	if !ok {
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	view, err := render.NewView(data)
	if err != nil {
		renders.WithLabelValues(string(format), "invalid").Inc()
		if errors.Is(err, extract.ErrMalformedResponse) || errors.Is(err, extract.ErrInvalidRecord) {
			return Document{}, fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
		}
		return Document{}, err
	}
	span.SetAttributes(attribute.Int("items", len(view.Lines)))

	var buf bytes.Buffer
	if err := r.Render(&buf, view); err != nil {
		renders.WithLabelValues(string(format), "error").Inc()
		span.RecordError(err)
		return Document{}, err
	}
	renders.WithLabelValues(string(format), "ok").Inc()

	doc := Document{ContentType: r.ContentType(), Body: buf.Bytes()}
	switch format {
	case FormatPDF:
		doc.Filename = "invoice.pdf"
	case FormatXLSX:
		doc.Filename = "invoice.xlsx"
	}
	return doc, nil
}
