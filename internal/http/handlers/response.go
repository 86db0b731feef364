// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response helpers shared by every endpoint: the error
// envelope, JSON success writes and binary document writes. Every failure goes
// through fail() so clients always see the same shape and 5xx responses are
// logged with the request-scoped logger.
//
// Example error response:
//
//	HTTP/1.1 500 Internal Server Error
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "extraction_failed",
//	  "message": "could not extract invoice data"
//	}
package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-invoice-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"bad_request"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"at least one image is required"`
}

// fail aborts the request with a structured error. Server errors (>=500) are
// logged; err, when non-nil, is attached to the log line but never sent to the
// client.
func fail(c *gin.Context, status int, code, msg string, err ...error) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg)
		if len(err) > 0 && err[0] != nil {
			ev = ev.Err(err[0])
		}
		ev.Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// document writes a rendered file. A non-empty filename adds an attachment
// Content-Disposition; otherwise the body is served inline.
func document(c *gin.Context, contentType, filename string, body []byte) {
	if filename != "" {
		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	}
	c.Data(http.StatusOK, contentType, body)
}
