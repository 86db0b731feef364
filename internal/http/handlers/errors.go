// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on messages. Generic codes mirror HTTP status semantics, domain codes
// name the pipeline stage that failed.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "rate_limited",
//	  "message": "Too many requests. Please try again in 15 minutes."
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeUnavailable      = "service_unavailable"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeExtractionFailed = "extraction_failed"
	ErrCodeRenderFailed     = "render_failed"
	ErrCodeUpstream         = "upstream_error"
)
