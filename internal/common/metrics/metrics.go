// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResearchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_runs_total",
			Help: "Total number of completed research runs",
		},
		[]string{"workflow"},
	)

	StageFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_stage_failures_total",
			Help: "Total number of stage failures that triggered a degrade transition",
		},
		[]string{"stage", "error_code"},
	)

	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_calls_total",
			Help: "Total number of text-completion provider calls",
		},
		[]string{"outcome"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "research_run_duration_seconds",
			Help: "Duration of a full research run in seconds",
		},
		[]string{"workflow"},
	)

	InterviewsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "research_interviews_active",
			Help: "Number of interview simulations currently in flight",
		},
	)
)
