// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file adapts the sliding-window limiter in internal/ratelimit to Gin.
// It gates the extraction endpoint before any expensive work: the request is
// admitted (and counted) or rejected with 429 before the body is read.
//
// Notes:
//   - The limiter is process-local. Identity is the TCP peer address; proxy
//     headers are ignored, so clients behind a shared NAT share one quota.
//   - Rejected requests are not recorded and never extend the window.
package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-invoice-backend/internal/ratelimit"
)

// keyFunc selects the identity used to key a rate-limit window.
type keyFunc func(*gin.Context) string

// KeyByRemoteIP keys requests by the connecting peer's address as seen by
// the server (c.RemoteIP), without consulting X-Forwarded-For.
func KeyByRemoteIP() keyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.RemoteIP()
	}
}

// Admitter is the limiter contract; *ratelimit.Limiter satisfies it.
type Admitter interface {
	Admit(identity string) ratelimit.Decision
	Window() time.Duration
}

// RateLimiter gates requests through a sliding-window Admitter.
type RateLimiter struct {
	lim   Admitter
	keyFn keyFunc
	msg   string
}

// NewRateLimiter wraps lim, keyed by keyFn. The rejection message names the
// window length, e.g. "Too many requests. Please try again in 15 minutes.".
func NewRateLimiter(lim Admitter, keyFn keyFunc) *RateLimiter {
	if keyFn == nil {
		keyFn = KeyByRemoteIP()
	}
	return &RateLimiter{
		lim:   lim,
		keyFn: keyFn,
		msg:   fmt.Sprintf("Too many requests. Please try again in %s.", humanizeWindow(lim.Window())),
	}
}

// Handler returns a Gin middleware that enforces the window.
//
// On rejection it emits:
//
//	HTTP/1.1 429 Too Many Requests
//	Retry-After: <seconds until the oldest admitted request expires>
//	{
//	  "request_id": "<uuid>",
//	  "code":       "rate_limited",
//	  "message":    "Too many requests. Please try again in 15 minutes."
//	}
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.keyFn(c)
		d := rl.lim.Admit(key)

		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if d.Allowed {
			c.Next()
			return
		}

		rateLimitRejections.Inc()
		LoggerFrom(c).Warn().
			Str("identity", key).
			Dur("retry_after", d.RetryAfter).
			Msg("rate limited")

		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(d.RetryAfter)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    rl.msg,
		})
	}
}

// retryAfterSeconds rounds up to whole seconds, minimum 1.
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// humanizeWindow renders a window as "15 minutes", "1 hour", "30 seconds".
func humanizeWindow(d time.Duration) string {
	unit := func(n int64, name string) string {
		if n == 1 {
			return "1 " + name
		}
		return strconv.FormatInt(n, 10) + " " + name + "s"
	}
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return unit(int64(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return unit(int64(d/time.Minute), "minute")
	default:
		return unit(int64(math.Ceil(d.Seconds())), "second")
	}
}
