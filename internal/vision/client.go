// Package vision is the boundary to the external multimodal model.
//
// Client sends a fixed instruction followed by the uploaded images and returns
// the model's raw text. It adds no interpretation of its own: provider errors
// of any kind (transport, auth, quota) come back wrapped in ErrProvider and
// are never retried.
package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	// DefaultModel is the multimodal model used for extraction.
	DefaultModel = "gemini-2.5-flash-lite"

	defaultTemperature = 0.1
	defaultTimeout     = 60 * time.Second
)

// ErrProvider wraps every failure of the extraction call.
var ErrProvider = errors.New("vision provider failure")

// Config holds settings for Client.
type Config struct {
	APIKey      string
	BaseURL     string        // defaults to DefaultBaseURL
	Model       string        // defaults to DefaultModel
	Temperature float64       // defaults to 0.1 when <= 0
	Timeout     time.Duration // HTTP client timeout
	// MaxDimension bounds the longest image edge sent upstream; 0 disables.
	MaxDimension int
	// RequestsPerSecond paces outbound calls; 0 disables pacing.
	RequestsPerSecond float64
	HTTPClient        *http.Client // optional (tests)
}

// Client calls a chat-completions endpoint with image inputs.
// It is safe for concurrent use.
type Client struct {
	client      openai.Client
	model       string
	temperature float64
	maxDim      int
	limiter     *rate.Limiter
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithHTTPClient(httpClient),
			option.WithMaxRetries(0),
		),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxDim:      cfg.MaxDimension,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Generate sends instruction followed by images, in order, and returns the
// text of the first choice.
func (c *Client) Generate(ctx context.Context, instruction string, images [][]byte) (string, error) {
	tr := otel.Tracer("vision/Client")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("vision.model", c.model),
			attribute.Int("vision.images", len(images)),
		),
	)
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", ErrProvider, err)
		}
	}

	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(images)+1)
	parts = append(parts, openai.TextContentPart(instruction))
	for _, img := range images {
		data, mime := Prepare(img, c.maxDim)
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL(mime, data),
		}))
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrProvider)
	}
	return resp.Choices[0].Message.Content, nil
}
