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
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
)

var _ algorithms.Observer = (*Metrics)(nil)

func TestMetrics_ObserveRun(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveRun("heap-sort", 10, time.Millisecond, true)
	m.ObserveRun("heap-sort", 12, 2*time.Millisecond, true)
	m.ObserveRun("heap-sort", 5, 0, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("heap-sort", StatusCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("heap-sort", StatusFailed)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.runDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.collectionSize))
}

func TestMetrics_RecordAction(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordAction("run", http.StatusOK)
	m.RecordAction("run", http.StatusBadRequest)
	m.RecordAction("run", http.StatusNotFound)
	m.RecordAction("compare", http.StatusInternalServerError)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("run", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("run", "client_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("compare", "server_error")))
}

func TestMetrics_RecordSweep(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordSweep("merge-sort", 18)
	m.RecordSweep("merge-sort", 2)
	assert.Equal(t, 20.0, testutil.ToFloat64(m.sweepRuns.WithLabelValues("merge-sort")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveRun("bubble-sort", 3, time.Microsecond, true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `algolab_runs_total{algorithm="bubble-sort",status="completed"} 1`)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}
