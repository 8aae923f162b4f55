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
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics holds the OTel instruments recorded per request.
type HTTPMetrics struct {
	// RequestsTotal counts requests by method, route and status.
	RequestsTotal metric.Int64Counter

	// RequestDuration records request duration in seconds.
	RequestDuration metric.Float64Histogram

	// ActiveRequests tracks requests in flight.
	ActiveRequests metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the request instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	m := &HTTPMetrics{}
	var err error

	m.RequestsTotal, err = meter.Int64Counter(
		"algolab_http_requests_total",
		metric.WithDescription("Total HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_requests_total: %w", err)
	}

	m.RequestDuration, err = meter.Float64Histogram(
		"algolab_http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_request_duration_seconds: %w", err)
	}

	m.ActiveRequests, err = meter.Int64UpDownCounter(
		"algolab_http_active_requests",
		metric.WithDescription("HTTP requests in flight"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_active_requests: %w", err)
	}

	return m, nil
}

// Middleware records request count, duration and in-flight requests.
//
// # Description
//
// The route label is the gin route template (for example
// "/api/algorithms/:name") so paths with ids do not explode cardinality.
// Unmatched routes are labelled "unmatched".
//
// # Thread Safety
//
// Safe for concurrent use.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		m.ActiveRequests.Add(ctx, 1)
		defer m.ActiveRequests.Add(ctx, -1)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
			attribute.Int("status", c.Writer.Status()),
		)
		m.RequestsTotal.Add(ctx, 1, attrs)
		m.RequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
