package tldr

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Invocation outcomes.
const (
	OutcomeOK              = "ok"
	OutcomeUsage           = "usage"
	OutcomeEmpty           = "empty"
	OutcomeStorageError    = "storage_error"
	OutcomeGenerationError = "generation_error"
)

var (
	invocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wtldr_invocations_total",
			Help: "Summarize invocations by outcome.",
		},
		[]string{"outcome"},
	)

	generationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wtldr_generation_duration_seconds",
			Help:    "Latency of the generation call.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)

	windowMessages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wtldr_window_messages",
			Help:    "Number of messages selected per invocation.",
			Buckets: []float64{1, 8, 16, 32, 64, 128, 256, 512},
		},
	)
)
