// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, body limits and the upload rate limit.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/tbourn/go-invoice-backend/docs"
	"github.com/tbourn/go-invoice-backend/internal/config"
	"github.com/tbourn/go-invoice-backend/internal/http/handlers"
	"github.com/tbourn/go-invoice-backend/internal/http/middleware"
)

// Deps are the application services and the upload limiter behind the API.
type Deps struct {
	Extraction handlers.ExtractionService
	Render     handlers.RenderService
	Support    handlers.SupportService
	Limiter    middleware.Admitter
}

var (
	corsMethods       = []string{"GET", "POST", "OPTIONS"}
	corsAllowHeaders  = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	corsExposeHeaders = []string{
		"X-Request-ID", "Content-Length", "Content-Disposition",
		"Retry-After", "X-RateLimit-Remaining", handlers.SupportReferenceHeader,
	}
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Metrics
//  6. Compression (JSON/HTML only)
//  7. CORS and security headers
//
// Per route, /upload is gated by the rate limiter before its body cap so that
// a rejected client never has its upload read.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-Api-Key"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 6) Compress JSON and HTML; binary documents are already compressed
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/metrics", "/generate-invoice"}),
	))

	// 7) CORS posture
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsAllowHeaders,
			ExposeHeaders:    corsExposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsAllowHeaders,
			ExposeHeaders:    corsExposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		NoStore:         true,
		CSP:             middleware.DefaultCSP,
		SkipCSPPrefixes: []string{"/swagger"},
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(deps.Extraction, deps.Render, deps.Support)
	rl := middleware.NewRateLimiter(deps.Limiter, middleware.KeyByRemoteIP())
	jsonCap := limitBody(cfg.MaxBodyBytes)

	r.POST("/upload", rl.Handler(), limitBody(cfg.MaxUploadBytes), h.Upload)
	r.POST("/generate-invoice", jsonCap, h.GenerateInvoice)
	r.POST("/generate-invoice/xlsx", jsonCap, h.GenerateInvoiceXLSX)
	r.POST("/invoice-preview", jsonCap, h.InvoicePreview)
	r.POST("/support", jsonCap, h.Support)
}

// limitBody returns a Gin middleware that caps the request body size to
// maxBytes using http.MaxBytesReader. Requests exceeding the cap cause
// downstream body reads to fail with *http.MaxBytesError.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
