// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// =============================================================================
// Prometheus Metrics for Algorithm Runs
// =============================================================================

const namespace = "algolab"

// Run status label values.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Metrics holds the run and action collectors.
//
// # Description
//
// Metrics implements algorithms.Observer, so it can be handed to the
// harness and every run is counted without the core importing Prometheus.
//
// # Thread Safety
//
// Safe for concurrent use.
type Metrics struct {
	gatherer prometheus.Gatherer

	// runsTotal counts finished runs.
	// Labels: algorithm, status (completed, failed)
	runsTotal *prometheus.CounterVec

	// runDuration measures Execute time of completed runs.
	// Labels: algorithm
	runDuration *prometheus.HistogramVec

	// collectionSize tracks input sizes seen per algorithm.
	// Labels: algorithm
	collectionSize *prometheus.HistogramVec

	// actionsTotal counts API and CLI actions.
	// Labels: action (run, test, compare), status (ok, client_error, server_error)
	actionsTotal *prometheus.CounterVec

	// sweepRuns counts runs requested by sweeps.
	// Labels: algorithm
	sweepRuns *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
//
// # Inputs
//
//   - reg: Registry receiving the collectors. It must not already hold
//     algolab collectors or registration panics.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total algorithm runs by outcome",
		}, []string{"algorithm", "status"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Algorithm execution time in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"algorithm"}),
		collectionSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collection_size",
			Help:      "Input collection sizes",
			Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"algorithm"}),
		actionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Total actions by type and result",
		}, []string{"action", "status"}),
		sweepRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Runs scheduled by sweeps",
		}, []string{"algorithm"}),
	}
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(algorithm string, size int, elapsed time.Duration, completed bool) {
	status := StatusFailed
	if completed {
		status = StatusCompleted
		m.runDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	}
	m.runsTotal.WithLabelValues(algorithm, status).Inc()
	m.collectionSize.WithLabelValues(algorithm).Observe(float64(size))
}

// RecordAction counts an action by its HTTP status class.
func (m *Metrics) RecordAction(action string, httpStatus int) {
	m.actionsTotal.WithLabelValues(action, statusClass(httpStatus)).Inc()
}

// RecordSweep counts the runs a sweep schedules.
func (m *Metrics) RecordSweep(algorithm string, runs int) {
	m.sweepRuns.WithLabelValues(algorithm).Add(float64(runs))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "server_error"
	case code >= 400:
		return "client_error"
	default:
		return "ok"
	}
}
