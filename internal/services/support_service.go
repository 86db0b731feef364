// Package services – SupportService
//
// SupportService forwards support tickets to an external endpoint. The call is
// authenticated with a shared secret header and tagged with a generated
// reference id. Responses are not interpreted beyond their status: 2xx bodies
// are returned as-is, non-2xx responses come back as *UpstreamError so the
// HTTP layer can pass them through.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SharedSecretHeader authenticates this service to the support upstream.
const SharedSecretHeader = "X-Shared-Secret"

// maxUpstreamBody caps how much of an upstream response is read.
const maxUpstreamBody = 1 << 20

// SupportTicket is the payload accepted from clients.
type SupportTicket struct {
	Product   string         `json:"product"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	UserEmail string         `json:"user_email"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// forwardedTicket is what the upstream receives.
type forwardedTicket struct {
	SupportTicket
	Reference string `json:"reference"`
}

// SupportResult is a successful (2xx) upstream response.
type SupportResult struct {
	Reference   string
	Status      int
	ContentType string
	Body        []byte
}

// SupportService forwards tickets to URL. A zero URL disables forwarding.
type SupportService struct {
	URL    string
	Secret string
	Client *http.Client

	// newRef generates ticket references; uuid.NewString by default.
	newRef func() string
}

// NewSupportService builds a SupportService with its own HTTP client.
func NewSupportService(url, secret string, timeout time.Duration) *SupportService {
	return &SupportService{
		URL:    strings.TrimSpace(url),
		Secret: secret,
		Client: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a forward URL is configured.
func (s *SupportService) Enabled() bool { return s.URL != "" }

// Forward posts t to the upstream.
//
// Errors:
//   - ErrSupportDisabled when no URL is configured
//   - ErrUpstreamUnavailable (wrapped) on transport failure
//   - *UpstreamError for any non-2xx status; 429 matches ErrUpstreamRateLimited
func (s *SupportService) Forward(ctx context.Context, t SupportTicket) (SupportResult, error) {
	if !s.Enabled() {
		return SupportResult{}, ErrSupportDisabled
	}

	ref := uuid.NewString()
	if s.newRef != nil {
		ref = s.newRef()
	}

	tr := otel.Tracer("services/SupportService")
	ctx, span := tr.Start(ctx, "Forward",
		trace.WithAttributes(
			attribute.String("support.reference", ref),
			attribute.String("support.category", t.Category),
		),
	)
	defer span.End()

	body, err := json.Marshal(forwardedTicket{SupportTicket: t, Reference: ref})
	if err != nil {
		return SupportResult{}, fmt.Errorf("encode ticket: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return SupportResult{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.Secret != "" {
		req.Header.Set(SharedSecretHeader, s.Secret)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		supportForwards.WithLabelValues("error").Inc()
		span.RecordError(err)
		return SupportResult{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		supportForwards.WithLabelValues("error").Inc()
		return SupportResult{}, fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	supportForwards.WithLabelValues(statusLabel(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SupportResult{}, &UpstreamError{
			Status:      resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        respBody,
		}
	}
	return SupportResult{
		Reference:   ref,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}
