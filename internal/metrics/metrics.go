// Package metrics records conversion outcomes as Prometheus metrics and
// writes them in the text exposition format for a node_exporter textfile
// collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "uesave"

// Outcome labels.
const (
	OutcomeConverted = "converted"
	OutcomeFailed    = "failed"
)

// Recorder owns a private registry so separate runs and tests do not share
// state.
type Recorder struct {
	registry *prometheus.Registry

	files        *prometheus.CounterVec
	fileDuration *prometheus.HistogramVec
	runResult    *prometheus.GaugeVec
	runFailures  prometheus.Gauge
	runTimestamp prometheus.Gauge
}

// NewRecorder creates a Recorder with every metric registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files processed, by direction and outcome",
		}, []string{"mode", "outcome"}),

		fileDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Time to convert one file in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}, []string{"mode"}),

		runResult: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_result",
			Help:      "1 for the result of the most recent run, 0 for the others",
		}, []string{"result"}),

		runFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_failures",
			Help:      "Files that failed in the most recent run",
		}),

		runTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the most recent run finished",
		}),
	}

	r.registry.MustRegister(r.files, r.fileDuration, r.runResult, r.runFailures, r.runTimestamp)
	return r
}

// RecordFile records one file conversion.
func (r *Recorder) RecordFile(mode string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	outcome := OutcomeConverted
	if err != nil {
		outcome = OutcomeFailed
	}
	r.files.WithLabelValues(mode, outcome).Inc()
	r.fileDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordRun records the classification of a finished run. results lists
// every possible result label so stale ones are reset to 0.
func (r *Recorder) RecordRun(result string, results []string, failures int, finished time.Time) {
	if r == nil {
		return
	}

	for _, label := range results {
		r.runResult.WithLabelValues(label).Set(0)
	}
	r.runResult.WithLabelValues(result).Set(1)
	r.runFailures.Set(float64(failures))
	r.runTimestamp.Set(float64(finished.Unix()))
}

// Gatherer exposes the registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile atomically writes all metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s; %w", path, err)
	}
	return nil
}
