// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
	"github.com/AleutianAI/AlgoLab/services/algolab/charts"
	"github.com/AleutianAI/AlgoLab/services/algolab/config"
	"github.com/AleutianAI/AlgoLab/services/algolab/harness"
	"github.com/AleutianAI/AlgoLab/services/algolab/middleware"
	"github.com/AleutianAI/AlgoLab/services/algolab/observability"
	"github.com/AleutianAI/AlgoLab/services/algolab/storage"
)

// ============================================================================
// Test Setup
// ============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

// mysterySort sorts correctly but publishes no metadata.
type mysterySort struct{ algorithms.InsertionSort }

func (mysterySort) Metadata() (algorithms.Metadata, error) {
	return algorithms.Metadata{}, algorithms.ErrNotImplemented
}

// maxSearch belongs to another family so it cannot be compared with sorts.
type maxSearch struct{ algorithms.InsertionSort }

func (maxSearch) Family() algorithms.Family { return algorithms.Family("searching") }

type recordingSink struct {
	mu      sync.Mutex
	actions []string
	runs    int
}

func (s *recordingSink) WriteRuns(_ context.Context, action string, projections []algorithms.Projection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	s.runs += len(projections)
	return nil
}

func (s *recordingSink) Close() error { return nil }

type testEnv struct {
	router  *gin.Engine
	deps    *Deps
	sink    *recordingSink
	metrics *observability.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	registry := algorithms.NewSortRegistry()
	registry.MustRegister("mystery-sort", func() algorithms.Strategy { return mysterySort{} })
	registry.MustRegister("max-search", func() algorithms.Strategy { return maxSearch{} })

	gen, err := algorithms.NewGenerator(algorithms.GeneratorConfig{Seed: 3})
	require.NoError(t, err)

	store, err := storage.OpenBadger(storage.InMemoryBadgerConfig())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	sink := &recordingSink{}
	cfg := config.Default()
	cfg.Limits.MaxCollectionSize = 100
	cfg.Limits.MaxRunsPerRequest = 200

	deps := &Deps{
		Registry: registry,
		Harness:  harness.New(registry, harness.WithGenerator(gen), harness.WithObserver(metrics)),
		Charts:   charts.NewGenerator(nil),
		Store:    store,
		Sink:     sink,
		Metrics:  metrics,
		Settings: NewSettingsStore(cfg),
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/health", HealthCheck(deps))
	api := router.Group("/api")
	api.GET("/algorithms", ListAlgorithms(deps))
	api.GET("/algorithmType/:type", ListAlgorithmType(deps))
	api.GET("/algorithms/:name", GetAlgorithmMetadata(deps))
	api.POST("/algorithms/:name", HandleAction(deps))
	api.GET("/graphs/:id", GetGraph(deps))

	return &testEnv{router: router, deps: deps, sink: sink, metrics: metrics}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	msg, _ := decode(t, rec)["message"].(string)
	return msg
}

// ============================================================================
// Listing and metadata
// ============================================================================

func TestListAlgorithms(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/algorithms", "")
	require.Equal(t, http.StatusOK, rec.Code)

	ids := decode(t, rec)["available_algorithms"].([]any)
	require.Len(t, ids, 14)
	assert.Equal(t, "insertion-sort", ids[0])
	assert.Equal(t, "bucket-sort", ids[11])
}

func TestListAlgorithmType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/algorithmType/sorting", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body, 13)
	assert.Equal(t, "mystery-sort", body["mystery-sort"], "name falls back to the id")

	rec = env.do(http.MethodGet, "/api/algorithmType/searching", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec), 1)

	rec = env.do(http.MethodGet, "/api/algorithmType/graph", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Algorithm type 'graph' does not exist within the API.", message(t, rec))

	rec = env.do(http.MethodGet, "/api/algorithmType", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAlgorithmMetadata(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/algorithms/heap-sort", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.NotEmpty(t, body["name"])
	assert.NotEmpty(t, body["steps"])

	rec = env.do(http.MethodGet, "/api/algorithms/bogo-sort", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Algorithm 'bogo-sort' doesn't exist.", message(t, rec))

	rec = env.do(http.MethodGet, "/api/algorithms/mystery-sort", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "There is no metadata available for the mystery-sort algorithm.", message(t, rec))
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(14), body["algorithms"])
}

// ============================================================================
// Action validation
// ============================================================================

func TestHandleAction_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		path    string
		body    string
		status  int
		message string
	}{
		{"unknown algorithm", "/api/algorithms/bogo-sort", `{"action":"run"}`, http.StatusNotFound, "Algorithm 'bogo-sort' doesn't exist."},
		{"empty body", "/api/algorithms/heap-sort", "", http.StatusBadRequest, "No action specified."},
		{"empty action", "/api/algorithms/heap-sort", `{"action":""}`, http.StatusBadRequest, NoActionMessage},
		{"invalid action", "/api/algorithms/heap-sort", `{"action":"dance"}`, http.StatusBadRequest, "Invalid action 'dance'"},
		{"malformed", "/api/algorithms/heap-sort", `{"action":`, http.StatusBadRequest, "Malformed request body."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, message(t, rec))
		})
	}
}

func TestHandleAction_BadCollections(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{"action":"run","collection":{"a":1}}`,
		`{"action":"run","collection":[[1,2]]}`,
		`{"action":"run","collection":["1"]}`,
	} {
		rec := env.do(http.MethodPost, "/api/algorithms/heap-sort", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := env.do(http.MethodPost, "/api/algorithms/counting-sort", `{"action":"run","collection":[3,-1,2]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, message(t, rec), algorithms.ErrInvalidCollection.Error())

	rec = env.do(http.MethodPost, "/api/algorithms/counting-sort", `{"action":"run","collection":[1099511627776,3]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, message(t, rec), algorithms.ErrInvalidCollection.Error())
}

// ============================================================================
// Run
// ============================================================================

func TestHandleAction_Run(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/algorithms/heap-sort", `{"action":"run","collection":[5,3,1,4,2]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["successful_execution"])
	assert.Equal(t, []any{5.0, 3.0, 1.0, 4.0, 2.0}, body["input"])
	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0, 5.0}, body["output"])
	assert.NotEmpty(t, body["execution_start"])
	assert.NotContains(t, body, "error")

	assert.Equal(t, []string{"run"}, env.sink.actions)
	assert.Equal(t, 1, env.sink.runs)
}

func TestHandleAction_RunGenerated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/algorithms/shell-sort", `{"action":"run"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["input"], 10)

	rec = env.do(http.MethodPost, "/api/algorithms/shell-sort", `{"action":"run","collection":{},"size":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["input"], 4)

	rec = env.do(http.MethodPost, "/api/algorithms/shell-sort", `{"action":"run","size":1000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// Test (sweep)
// ============================================================================

func TestHandleAction_Test(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/algorithms/insertion-sort",
		`{"action":"test","options":{"min_size":5,"max_size":7,"repeats":2}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Len(t, body, 4)
	for _, size := range []string{"5", "6", "7"} {
		runs := body[size].([]any)
		require.Len(t, runs, 2, size)
		assert.Equal(t, true, runs[0].(map[string]any)["successful_execution"])
	}
	assert.Contains(t, body, "graph")
	assert.Nil(t, body["graph"])
	assert.Equal(t, 6, env.sink.runs)
}

func TestHandleAction_TestDefaults(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/algorithms/heap-sort", `{"action":"test"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body, 17, "sizes 5..20 plus graph")
	assert.Len(t, body["20"], 5)
}

func TestHandleAction_TestWithGraph(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/algorithms/merge-sort-does-not-exist", `{"action":"test"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPost, "/api/algorithms/top-down-merge-sort",
		`{"action":"test","makegraph":true,"options":{"min_size":5,"max_size":8}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	graph, ok := decode(t, rec)["graph"].(string)
	require.True(t, ok)

	rec = env.do(http.MethodGet, "/api/graphs/"+graph, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, charts.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestHandleAction_TestInvalidOptions(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{"action":"test","options":{"min_size":30,"max_size":10}}`,
		`{"action":"test","options":{"jump":-2}}`,
		`{"action":"test","options":{"max_size":150}}`,
		`{"action":"test","options":{"min_size":1,"max_size":100,"repeats":5}}`,
		`{"action":"test","options":{"min_size":1,"max_size":4,"repeats":4611686018427387904}}`,
	} {
		rec := env.do(http.MethodPost, "/api/algorithms/heap-sort", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

// ============================================================================
// Compare
// ============================================================================

func TestHandleAction_Compare(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/algorithms/insertion-sort",
		`{"action":"compare","first_algorithm":"insertion-sort","second_algorithm":"heap-sort",
		  "collection":[3,1,2],"options":{"repeats":3}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	first := body["first_algorithm"].(map[string]any)
	second := body["second_algorithm"].(map[string]any)
	assert.Equal(t, "insertion-sort", first["name"])
	assert.Equal(t, "heap-sort", second["name"])
	require.Len(t, first["result"], 3)
	require.Len(t, second["result"], 3)
	for _, side := range []map[string]any{first, second} {
		for _, run := range side["result"].([]any) {
			assert.Equal(t, []any{3.0, 1.0, 2.0}, run.(map[string]any)["input"])
		}
	}
	assert.Nil(t, body["graph"])
	assert.Equal(t, 6, env.sink.runs)
}

func TestHandleAction_CompareDefaults(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/algorithms/selection-sort",
		`{"action":"compare","second_algorithm":"shell-sort","makegraph":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	first := body["first_algorithm"].(map[string]any)
	assert.Equal(t, "selection-sort", first["name"])
	assert.Len(t, first["result"], 10)
	assert.IsType(t, "", body["graph"])
}

func TestHandleAction_CompareErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/algorithms/heap-sort", `{"action":"compare"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/algorithms/heap-sort", `{"action":"compare","second_algorithm":"bogo-sort"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Algorithm 'bogo-sort' doesn't exist.", message(t, rec))

	rec = env.do(http.MethodPost, "/api/algorithms/heap-sort", `{"action":"compare","second_algorithm":"max-search"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, IncompatibleMessage, message(t, rec))
	assert.Zero(t, env.sink.runs, "no run happens for incompatible algorithms")

	rec = env.do(http.MethodPost, "/api/algorithms/heap-sort",
		`{"action":"compare","second_algorithm":"counting-sort","collection":[2,-5]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/algorithms/heap-sort",
		`{"action":"compare","second_algorithm":"shell-sort","options":{"repeats":101}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/algorithms/heap-sort",
		`{"action":"compare","second_algorithm":"shell-sort","options":{"repeats":4611686018427387905}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, message(t, rec), "invalid options")
}

// ============================================================================
// Graphs and metrics
// ============================================================================

func TestGetGraph_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/graphs/"+storage.NewID(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/api/graphs/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Graph 'not-a-uuid' doesn't exist.", message(t, rec))
}

func TestHandleAction_RecordsMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/algorithms/heap-sort", `{"action":"run","collection":[2,1]}`)
	env.do(http.MethodPost, "/api/algorithms/heap-sort", `{"action":"dance"}`)

	rec := httptest.NewRecorder()
	env.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	text := rec.Body.String()

	assert.Contains(t, text, `algolab_actions_total{action="run",status="ok"} 1`)
	assert.Contains(t, text, `algolab_actions_total{action="invalid",status="client_error"} 1`)
	assert.Contains(t, text, `algolab_runs_total{algorithm="heap-sort",status="completed"} 1`)
}

func TestSettingsStore_Update(t *testing.T) {
	cfg := config.Default()
	store := NewSettingsStore(cfg)
	assert.Equal(t, 5, store.Load().Defaults.Repeats)

	cfg.Defaults.Repeats = 2
	store.Update(cfg)
	assert.Equal(t, 2, store.Load().Defaults.Repeats)
}
