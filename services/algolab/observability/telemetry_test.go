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
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/AlgoLab/services/algolab/config"
)

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Tracing.ServiceName = ""
	reg := prometheus.NewRegistry()

	tc := FromConfig(cfg, "1.2.3", reg)
	assert.Equal(t, "algolab", tc.ServiceName)
	assert.Equal(t, "1.2.3", tc.ServiceVersion)
	assert.Equal(t, "none", tc.TraceExporter)
	assert.Equal(t, "prometheus", tc.MetricExporter)
	assert.Equal(t, 1.0, tc.SampleRatio)
	assert.Same(t, reg, tc.Registerer)
}

func TestInit_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	_, err := Init(nil, Config{TraceExporter: "none", MetricExporter: "none"})
	assert.Equal(t, ErrNilContext, err)
}

func TestInit_Noop(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{
		ServiceName:    "algolab-test",
		TraceExporter:  "none",
		MetricExporter: "none",
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_StdoutTracer(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{
		ServiceName:    "algolab-test",
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    1,
	})
	require.NoError(t, err)
	defer shutdown(context.Background())

	_, span := otel.Tracer("algolab.test").Start(context.Background(), "probe")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestInit_UnknownExporters(t *testing.T) {
	_, err := Init(context.Background(), Config{TraceExporter: "jaeger", MetricExporter: "none"})
	assert.True(t, errors.Is(err, ErrUnknownExporter))

	_, err = Init(context.Background(), Config{TraceExporter: "none", MetricExporter: "statsd"})
	assert.True(t, errors.Is(err, ErrUnknownExporter))
}

func TestInit_PrometheusMeterUsesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	shutdown, err := Init(context.Background(), Config{
		ServiceName:    "algolab-test",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		Registerer:     reg,
	})
	require.NoError(t, err)
	defer shutdown(context.Background())

	counter, err := otel.Meter("algolab.test").Int64Counter("algolab_probe")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "algolab_probe") {
			found = true
		}
	}
	assert.True(t, found, "otel counter should be exported through the registry")
}
