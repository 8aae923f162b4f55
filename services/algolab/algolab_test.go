// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package algolab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AlgoLab/services/algolab/config"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage.Backend = "memory"
	cfg.Metrics.Exporter = "none"
	cfg.Generator.Seed = 11
	return &cfg
}

func newTestService(t *testing.T, cfg *config.Config) Service {
	t.Helper()
	svc, err := New(context.Background(), cfg, Options{Version: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	return svc
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNew_NilConfig(t *testing.T) {
	_, err := New(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestNew_BadGenerator(t *testing.T) {
	cfg := testConfig()
	cfg.Generator.Shuffle = "riffle"
	_, err := New(context.Background(), cfg, Options{})
	assert.Error(t, err)
}

func TestNew_UnknownStorageBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Backend = "s3"
	_, err := New(context.Background(), cfg, Options{})
	assert.Error(t, err)
}

func TestNew_ServesAPI(t *testing.T) {
	svc := newTestService(t, testConfig())
	router := svc.Router()

	rec := serve(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","algorithms":12}`, rec.Body.String())

	rec = serve(router, http.MethodGet, "/api/algorithms", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		AvailableAlgorithms []string `json:"available_algorithms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.AvailableAlgorithms, 12)

	rec = serve(router, http.MethodPost, "/api/algorithms/bucket-sort",
		`{"action":"test","makegraph":true,"options":{"min_size":3,"max_size":6,"repeats":2}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var sweep map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sweep))
	graph, ok := sweep["graph"].(string)
	require.True(t, ok)

	rec = serve(router, http.MethodGet, "/api/graphs/"+graph, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
}

func TestNew_PrometheusExporterSharesRegistry(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Exporter = "prometheus"
	svc := newTestService(t, cfg)

	serve(svc.Router(), http.MethodGet, "/api/algorithms", "")

	rec := serve(svc.Router(), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "algolab_http_requests_total")
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestShutdown_Idempotent(t *testing.T) {
	svc, err := New(context.Background(), testConfig(), Options{})
	require.NoError(t, err)

	assert.NoError(t, svc.Shutdown(context.Background()))
	assert.NoError(t, svc.Shutdown(context.Background()))
}

func TestReload_UpdatesLimitsAndDefaults(t *testing.T) {
	svc := newTestService(t, testConfig())
	router := svc.Router()

	body := `{"action":"run","size":50}`
	require.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/api/algorithms/heap-sort", body).Code)

	next := testConfig()
	next.Limits.MaxCollectionSize = 20
	next.Defaults.RunSize = 7
	svc.(*service).reload(next)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/api/algorithms/heap-sort", body).Code)

	rec := serve(router, http.MethodPost, "/api/algorithms/heap-sort", `{"action":"run"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var run map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Len(t, run["input"], 7)
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Port = freePort(t)
	cfg.Server.ShutdownTimeout = 2 * time.Second

	svc, err := New(context.Background(), cfg, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewGenerator(t *testing.T) {
	gen, err := NewGenerator(config.GeneratorConfig{Min: 1, Max: 3, Passes: 1, Shuffle: "legacy", Seed: 5})
	require.NoError(t, err)
	for _, v := range gen.Ints(20) {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 3)
	}

	_, err = NewGenerator(config.GeneratorConfig{Min: 5, Max: 1})
	assert.Error(t, err)
}
