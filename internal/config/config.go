// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server limits,
// logging, the vision provider, the upload rate limit, support forwarding,
// rendering and observability settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/tbourn/go-invoice-backend/internal/sysutil"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// VisionConfig configures the multimodal extraction provider.
type VisionConfig struct {
	APIKey       string        // GEMINI_API_KEY (GOOGLE_API_KEY accepted)
	BaseURL      string        // VISION_BASE_URL
	Model        string        // VISION_MODEL
	Temperature  float64       // VISION_TEMPERATURE
	Timeout      time.Duration // VISION_TIMEOUT
	MaxDimension int           // VISION_MAX_DIMENSION, 0 disables downscaling
	RPS          float64       // VISION_RPS, 0 disables pacing
}

// RateLimitConfig sizes the sliding window in front of /upload.
type RateLimitConfig struct {
	MaxRequests int           // RATE_LIMIT_MAX_REQUESTS
	Window      time.Duration // RATE_LIMIT_WINDOW
}

// SupportConfig configures the support-ticket forwarder.
type SupportConfig struct {
	ForwardURL   string        // SUPPORT_FORWARD_URL, empty disables /support
	SharedSecret string        // SUPPORT_SHARED_SECRET
	Timeout      time.Duration // SUPPORT_TIMEOUT
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 60s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	MaxUploadBytes    int64         // multipart cap for /upload
	MaxBodyBytes      int64         // JSON cap for every other route
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	Vision    VisionConfig
	RateLimit RateLimitConfig
	Support   SupportConfig

	// RenderLocale drives number formatting in rendered invoices.
	RenderLocale language.Tag

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// ErrNoAPIKey is returned by RequireVision when no provider key is set.
var ErrNoAPIKey = errors.New("GEMINI_API_KEY must be set")

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		MaxUploadBytes:    getint64("MAX_UPLOAD_BYTES", 20<<20),
		MaxBodyBytes:      getint64("MAX_BODY_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		Vision: VisionConfig{
			APIKey:       sysutil.FirstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
			BaseURL:      getenv("VISION_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			Model:        getenv("VISION_MODEL", "gemini-2.5-flash-lite"),
			Temperature:  getfloat("VISION_TEMPERATURE", 0.1),
			Timeout:      getdur("VISION_TIMEOUT", 60*time.Second),
			MaxDimension: getint("VISION_MAX_DIMENSION", 2048),
			RPS:          getfloat("VISION_RPS", 0),
		},

		RateLimit: RateLimitConfig{
			MaxRequests: getint("RATE_LIMIT_MAX_REQUESTS", 5),
			Window:      getdur("RATE_LIMIT_WINDOW", 15*time.Minute),
		},

		Support: SupportConfig{
			ForwardURL:   strings.TrimSpace(getenv("SUPPORT_FORWARD_URL", "")),
			SharedSecret: getenv("SUPPORT_SHARED_SECRET", ""),
			Timeout:      getdur("SUPPORT_TIMEOUT", 10*time.Second),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-invoice-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	cfg.Vision.BaseURL = ensureTrailingSlash(strings.TrimSpace(cfg.Vision.BaseURL))

	tag, err := language.Parse(getenv("RENDER_LOCALE", "en"))
	if err != nil {
		return cfg, fmt.Errorf("RENDER_LOCALE: %w", err)
	}
	cfg.RenderLocale = tag

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MaxUploadBytes <= 0 || cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_UPLOAD_BYTES and MAX_BODY_BYTES must be > 0")
	}
	if cfg.Vision.BaseURL == "/" {
		return cfg, errors.New("VISION_BASE_URL must not be empty")
	}
	if cfg.Vision.Temperature < 0 || cfg.Vision.Temperature > 2 {
		return cfg, errors.New("VISION_TEMPERATURE must be in [0,2]")
	}
	if cfg.Vision.Timeout <= 0 {
		return cfg, errors.New("VISION_TIMEOUT must be > 0")
	}
	if cfg.Vision.MaxDimension < 0 {
		return cfg, errors.New("VISION_MAX_DIMENSION must be >= 0")
	}
	if cfg.Vision.RPS < 0 {
		return cfg, errors.New("VISION_RPS must be >= 0")
	}
	if cfg.RateLimit.MaxRequests < 1 {
		return cfg, errors.New("RATE_LIMIT_MAX_REQUESTS must be >= 1")
	}
	if cfg.RateLimit.Window <= 0 {
		return cfg, errors.New("RATE_LIMIT_WINDOW must be > 0")
	}
	if cfg.Support.Timeout <= 0 {
		return cfg, errors.New("SUPPORT_TIMEOUT must be > 0")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// RequireVision reports ErrNoAPIKey when the provider credential is missing.
// Commands that call the provider check it before starting.
func (c Config) RequireVision() error {
	if strings.TrimSpace(c.Vision.APIKey) == "" {
		return ErrNoAPIKey
	}
	return nil
}

// Addr returns the listen address for Port.
func (c Config) Addr() string { return ":" + c.Port }

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getint64(k string, def int64) int64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ensureTrailingSlash appends '/' so relative API paths resolve under the base.
func ensureTrailingSlash(u string) string {
	if !strings.HasSuffix(u, "/") {
		return u + "/"
	}
	return u
}
