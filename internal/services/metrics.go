package services

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Extraction outcomes.
const (
	outcomeOK        = "ok"
	outcomeNoImages  = "no_images"
	outcomeProvider  = "provider_error"
	outcomeMalformed = "malformed"
	outcomeInvalid   = "invalid"
)

var (
	// extractions counts pipeline runs by outcome.
	extractions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_extractions_total",
			Help: "Invoice extraction attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// extractionLat records the provider round trip plus normalization.
	extractionLat = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "invoice_extraction_duration_seconds",
			Help:    "Duration of invoice extractions in seconds.",
			Buckets: []float64{0.5, 1, 2, 4, 8, 15, 30, 60},
		},
	)

	// renders counts rendered documents by format and outcome.
	renders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_renders_total",
			Help: "Rendered invoice documents by format and outcome.",
		},
		[]string{"format", "outcome"},
	)

	// supportForwards counts forwarded support tickets by upstream status class.
	supportForwards = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_forwards_total",
			Help: "Support tickets forwarded upstream by response status.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(extractions, extractionLat, renders, supportForwards)
}

// statusLabel buckets an upstream status: 429 is kept exact, others by class.
func statusLabel(code int) string {
	if code == 429 {
		return "429"
	}
	return strconv.Itoa(code/100) + "xx"
}
