// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders. The API mostly serves JSON and binary
// documents, but /invoice-preview returns HTML built from client-supplied
// values, so a restrictive Content-Security-Policy is set as well: inline
// styles only, no scripts, no framing.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultCSP allows the preview's inline stylesheet and nothing else.
const DefaultCSP = "default-src 'none'; style-src 'unsafe-inline'; img-src data:; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"

// SecurityOptions configures headers emitted by SecurityHeaders.
type SecurityOptions struct {
	EnableHSTS bool          // set true only when traffic is HTTPS end-to-end
	HSTSMaxAge time.Duration // defaults to 180 days
	NoStore    bool          // add Cache-Control: no-store
	// CSP is sent as Content-Security-Policy when non-empty.
	CSP string
	// SkipCSPPrefixes lists path prefixes (e.g. /swagger) served without CSP.
	SkipCSPPrefixes []string
}

// SecurityHeaders returns a Gin middleware that hardens every response:
//
//	X-Content-Type-Options: nosniff
//	X-Frame-Options: DENY
//	Referrer-Policy: no-referrer
//	Permissions-Policy: camera=(), microphone=(), geolocation=(), payment=()
//	Content-Security-Policy: <opt.CSP>                   (unless skipped)
//	Cache-Control: no-store                              (when NoStore)
//	Strict-Transport-Security: max-age=...; includeSubDomains (HTTPS + EnableHSTS)
//
// X-Request-ID is added to Access-Control-Expose-Headers so browser clients
// can report it.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int64(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int64((180 * 24 * time.Hour).Seconds())
	}
	hsts := "max-age=" + strconv.FormatInt(maxAge, 10) + "; includeSubDomains"

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

		if opt.CSP != "" && !hasAnyPrefix(c.Request.URL.Path, opt.SkipCSPPrefixes) {
			h.Set("Content-Security-Policy", opt.CSP)
		}
		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		const expose = "Access-Control-Expose-Headers"
		if cur := h.Get(expose); cur == "" {
			h.Set(expose, requestIDHeader)
		} else if !strings.Contains(cur, requestIDHeader) {
			h.Set(expose, cur+", "+requestIDHeader)
		}

		c.Next()
	}
}

// isHTTPS reports whether the request arrived over TLS, directly or via a
// proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, pre := range prefixes {
		if strings.HasPrefix(p, pre) {
			return true
		}
	}
	return false
}
