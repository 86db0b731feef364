// Package services defines the application use-cases: invoice extraction,
// invoice rendering and support-ticket forwarding.
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"
)

// Extraction errors.
var (
	// ErrNoImages is returned when an extraction request carries no images.
	ErrNoImages = errors.New("at least one image is required")
)

// Rendering errors.
var (
	// ErrInvalidInvoice is returned when the posted invoice mapping cannot be
	// normalized (e.g. a quantity that is not a number).
	ErrInvalidInvoice = errors.New("invalid invoice data")

	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("unknown render format")
)

// Support forwarding errors.
var (
	// ErrSupportDisabled is returned when no forward URL is configured.
	ErrSupportDisabled = errors.New("support forwarding is not configured")

	// ErrUpstream marks every failure of the forwarding call.
	ErrUpstream = errors.New("support upstream failure")

	// ErrUpstreamRateLimited marks an upstream 429.
	ErrUpstreamRateLimited = fmt.Errorf("%w: rate limited", ErrUpstream)

	// ErrUpstreamUnavailable marks a transport failure (no response).
	ErrUpstreamUnavailable = fmt.Errorf("%w: unavailable", ErrUpstream)
)

// UpstreamError carries a non-2xx response from the support upstream so the
// handler can pass its status and body through unchanged.
type UpstreamError struct {
	Status      int
	ContentType string
	Body        []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("support upstream returned status %d", e.Status)
}

// Unwrap classifies the failure: 429 unwraps to ErrUpstreamRateLimited,
// everything else to ErrUpstream.
func (e *UpstreamError) Unwrap() error {
	if e.Status == 429 {
		return ErrUpstreamRateLimited
	}
	return ErrUpstream
}
