package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func newRenderSvc(t *testing.T) *RenderService {
	t.Helper()
	svc, err := NewRenderService(language.English)
	if err != nil {
		t.Fatalf("NewRenderService: %v", err)
	}
	return svc
}

func invoiceData() map[string]any {
	return map[string]any{
		"companyName": "Acme",
		"clientName":  "Bob",
		"items": []any{
			map[string]any{"description": "Design", "quantity": 2.0, "rate": 50.0},
		},
	}
}

func TestRender_Formats(t *testing.T) {
	svc := newRenderSvc(t)
	ctx := context.Background()

	html, err := svc.Render(ctx, FormatHTML, invoiceData())
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if html.Filename != "" || !strings.HasPrefix(html.ContentType, "text/html") || !bytes.Contains(html.Body, []byte("Design")) {
		t.Fatalf("unexpected html doc: %s %q", html.ContentType, html.Filename)
	}

	pdf, err := svc.Render(ctx, FormatPDF, invoiceData())
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if pdf.Filename != "invoice.pdf" || pdf.ContentType != "application/pdf" || !bytes.HasPrefix(pdf.Body, []byte("%PDF")) {
		t.Fatalf("unexpected pdf doc: %s %q", pdf.ContentType, pdf.Filename)
	}

	xlsx, err := svc.Render(ctx, FormatXLSX, invoiceData())
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	// XLSX is a zip container.
	if xlsx.Filename != "invoice.xlsx" || !bytes.HasPrefix(xlsx.Body, []byte("PK")) {
		t.Fatalf("unexpected xlsx doc: %s %q", xlsx.ContentType, xlsx.Filename)
	}
}

func TestRender_InvalidInvoice(t *testing.T) {
	svc := newRenderSvc(t)
	data := map[string]any{"items": []any{map[string]any{"rate": "free"}}}
	if _, err := svc.Render(context.Background(), FormatHTML, data); !errors.Is(err, ErrInvalidInvoice) {
		t.Fatalf("want ErrInvalidInvoice, got %v", err)
	}
	data = map[string]any{"date": []any{"2024"}}
	if _, err := svc.Render(context.Background(), FormatPDF, data); !errors.Is(err, ErrInvalidInvoice) {
		t.Fatalf("want ErrInvalidInvoice for structured scalar, got %v", err)
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if _, err := newRenderSvc(t).Render(context.Background(), Format("docx"), invoiceData()); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("want ErrUnknownFormat, got %v", err)
	}
}
