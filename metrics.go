package boundary

import (
	"crypto/sha1" //nolint:gosec // SHA1 used for non-cryptographic metric label hashing, not security
	"encoding/hex"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess  = "success"
	outcomeCaught   = "caught"
	outcomeFallback = "fallback"

	kindError = "error"
	kindPanic = "panic"

	maxLabelLength = 32
)

// Metric definitions with appropriate labels.
var (
	// rendersTotal counts renders by outcome: success (inner output
	// returned), caught (a failure latched during this render), fallback
	// (rendered while already failed).
	rendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boundary_renders_total",
		Help: "Total number of renders by boundary and outcome (success, caught, or fallback)",
	}, []string{"boundary", "outcome"})

	// tripsTotal counts Normal to Failed transitions.
	tripsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boundary_trips_total",
		Help: "Total number of failure latches by boundary and kind (error or panic)",
	}, []string{"boundary", "kind"})

	// resetsTotal counts Failed to Normal transitions.
	resetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boundary_resets_total",
		Help: "Total number of resets by boundary",
	}, []string{"boundary"})

	// renderDuration tracks how long the inner component takes to render.
	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "boundary_render_duration_seconds",
		Help:    "Duration of component renders by boundary",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"boundary"})
)

// sanitizeName keeps the boundary label short: long names (generated ones
// carry a uuid) collapse to a short hash.
func sanitizeName(name string) string {
	if name == "" {
		return "unknown"
	}

	if len(name) <= maxLabelLength {
		return name
	}

	hash := sha1.Sum([]byte(name)) //nolint:gosec // SHA1 used for non-cryptographic metric label hashing

	return hex.EncodeToString(hash[:])[:8]
}
