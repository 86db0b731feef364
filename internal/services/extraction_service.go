// Package services – ExtractionService
//
// ExtractionService runs the invoice pipeline for one request: the vision
// provider reads the screenshots, the response is normalized and validated
// into an InvoiceRecord. There is no partial result: any failure fails the
// whole request and nothing is retried.
//
// Admission (rate limiting) happens in front of this service, at the HTTP
// layer, so that quota is consumed before the provider is called.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-invoice-backend/internal/domain"
	"github.com/tbourn/go-invoice-backend/internal/extract"
	"github.com/tbourn/go-invoice-backend/internal/vision"
)

// Vision is the provider boundary: a fixed instruction plus ordered images in,
// raw model text out.
type Vision interface {
	Generate(ctx context.Context, instruction string, images [][]byte) (string, error)
}

// ExtractionService turns screenshots into a validated InvoiceRecord.
type ExtractionService struct {
	Vision Vision
	// Prompt defaults to vision.InvoicePrompt when empty.
	Prompt string
}

// NewExtractionService returns a service using the default prompt.
func NewExtractionService(v Vision) *ExtractionService {
	return &ExtractionService{Vision: v, Prompt: vision.InvoicePrompt}
}

// Extract sends images to the provider and validates the answer.
//
// Errors:
//   - ErrNoImages when images is empty
//   - the provider error (vision.ErrProvider for the production client)
//   - extract.ErrMalformedResponse when the text is not JSON or a number
//     cannot be coerced
//   - extract.ErrInvalidRecord when a field has a structured value
func (s *ExtractionService) Extract(ctx context.Context, images [][]byte) (domain.InvoiceRecord, error) {
	tr := otel.Tracer("services/ExtractionService")
	ctx, span := tr.Start(ctx, "Extract",
		trace.WithAttributes(attribute.Int("images", len(images))),
	)
	defer span.End()

	if len(images) == 0 {
		extractions.WithLabelValues(outcomeNoImages).Inc()
		return domain.InvoiceRecord{}, ErrNoImages
	}

	prompt := s.Prompt
	if prompt == "" {
		prompt = vision.InvoicePrompt
	}

	start := time.Now()
	defer func() { extractionLat.Observe(time.Since(start).Seconds()) }()

	raw, err := s.Vision.Generate(ctx, prompt, images)
	if err != nil {
		extractions.WithLabelValues(outcomeProvider).Inc()
		span.SetStatus(codes.Error, "provider")
		return domain.InvoiceRecord{}, err
	}

	rec, err := extract.Parse(raw)
	if err != nil {
		outcome := outcomeInvalid
		if errors.Is(err, extract.ErrMalformedResponse) {
			outcome = outcomeMalformed
		}
		extractions.WithLabelValues(outcome).Inc()
		span.SetStatus(codes.Error, outcome)
		return domain.InvoiceRecord{}, fmt.Errorf("parse extraction: %w", err)
	}

	span.SetAttributes(attribute.Int("items", len(rec.Items())))
	extractions.WithLabelValues(outcomeOK).Inc()
	return rec, nil
}
