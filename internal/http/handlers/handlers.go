// Package handlers exposes the invoice API:
//   - POST /upload                  (screenshots → InvoiceRecord)
//   - POST /generate-invoice        (mapping → PDF attachment)
//   - POST /generate-invoice/xlsx   (mapping → spreadsheet attachment)
//   - POST /invoice-preview         (mapping → HTML)
//   - POST /support                 (ticket → upstream helpdesk)
//
// Handlers are transport-thin: they decode input, call application services,
// and translate results and errors into HTTP responses.
package handlers

import (
	"context"

	"github.com/tbourn/go-invoice-backend/internal/domain"
	"github.com/tbourn/go-invoice-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// ExtractionService turns screenshots into a validated record.
type ExtractionService interface {
	Extract(ctx context.Context, images [][]byte) (domain.InvoiceRecord, error)
}

// RenderService renders an invoice mapping into a document.
type RenderService interface {
	Render(ctx context.Context, format services.Format, data map[string]any) (services.Document, error)
}

// SupportService forwards a support ticket upstream.
type SupportService interface {
	Forward(ctx context.Context, t services.SupportTicket) (services.SupportResult, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. It depends on service interfaces to
// keep transport concerns separate from the pipeline.
type Handlers struct {
	extractSvc ExtractionService
	renderSvc  RenderService
	supportSvc SupportService

	// maxImages bounds the number of files accepted by /upload.
	maxImages int
}

// DefaultMaxImages is the /upload file-count cap used by New.
const DefaultMaxImages = 10

// New constructs a Handlers instance bound to the given services.
func New(extractSvc ExtractionService, renderSvc RenderService, supportSvc SupportService) *Handlers {
	return &Handlers{
		extractSvc: extractSvc,
		renderSvc:  renderSvc,
		supportSvc: supportSvc,
		maxImages:  DefaultMaxImages,
	}
}
