// Package metrics provides Prometheus metrics for conversions, checks,
// harness runs and exports.
//
// # Basic Usage
//
//	timer := metrics.NewTimer()
//	out, err := convert(obj)
//	metrics.ObserveConversion("pd_DataFrame_Table", "numpy2D", timer.Stop(), err)
//
// Metrics are registered on the default Prometheus registry. WriteTextfile
// dumps them in the text exposition format, which suits short-lived CLI runs
// scraped through a node exporter textfile directory.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// StatusSuccess labels successful operations
	StatusSuccess = "success"
	// StatusFailure labels failed operations
	StatusFailure = "failure"
)

var (
	// ConversionsTotal counts conversions between mtypes.
	// Labels: from (mtype), to (mtype), status (success/failure)
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datatypes_conversions_total",
			Help: "Total number of conversions between mtypes",
		},
		[]string{"from", "to", "status"},
	)

	// ConversionLatency tracks conversion latencies in seconds
	ConversionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "datatypes_conversion_latency_seconds",
			Help: "Conversion latency in seconds",
			Buckets: []float64{
				1e-6, // 1μs - slice copies
				1e-5, // 10μs
				1e-4, // 100μs - arrow builders
				1e-3, // 1ms
				1e-2, // 10ms
				1e-1, // 100ms
			},
		},
		[]string{"from", "to"},
	)

	// ChecksTotal counts type checks.
	// Labels: mtype, status (success/failure)
	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datatypes_checks_total",
			Help: "Total number of mtype checks",
		},
		[]string{"mtype", "status"},
	)

	// HarnessCases counts harness cases by kind and outcome
	HarnessCases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datatypes_harness_cases_total",
			Help: "Total number of conversion harness cases run",
		},
		[]string{"kind", "status"},
	)

	// ExportedBytes counts bytes written by exports, by format
	ExportedBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datatypes_exported_bytes_total",
			Help: "Bytes written by fixture exports",
		},
		[]string{"format", "compression"},
	)

	// ExportedFiles counts files written by exports, by format
	ExportedFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datatypes_exported_files_total",
			Help: "Files written by fixture exports",
		},
		[]string{"format", "compression"},
	)
)

// Status maps an error to a status label
func Status(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}

// ObserveConversion records a conversion's outcome and duration
func ObserveConversion(from, to string, d time.Duration, err error) {
	ConversionsTotal.WithLabelValues(from, to, Status(err)).Inc()
	ConversionLatency.WithLabelValues(from, to).Observe(d.Seconds())
}

// ObserveCheck records a type check's outcome
func ObserveCheck(mtype string, err error) {
	ChecksTotal.WithLabelValues(mtype, Status(err)).Inc()
}

// Timer measures an operation's duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer and starts timing immediately
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation. It may be called more than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// WriteTextfile writes all metrics of the default registry to path in the
// Prometheus text format
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
