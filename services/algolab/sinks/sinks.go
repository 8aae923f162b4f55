// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package sinks forwards run results to time-series storage.
package sinks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
	"github.com/AleutianAI/AlgoLab/services/algolab/config"
)

// Measurement is the InfluxDB measurement run points are written to.
const Measurement = "algorithm_runs"

// ResultSink receives the projections of every run an action performs.
//
// # Thread Safety
//
// Implementations are safe for concurrent use.
type ResultSink interface {
	// WriteRuns records projections produced by action.
	WriteRuns(ctx context.Context, action string, projections []algorithms.Projection) error

	// Close flushes and releases the sink.
	Close() error
}

// New returns an InfluxDB sink when cfg is enabled and a NopSink otherwise.
func New(cfg config.InfluxConfig) ResultSink {
	if !cfg.Enabled() {
		return NopSink{}
	}
	return NewInfluxSink(cfg)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) WriteRuns(context.Context, string, []algorithms.Projection) error { return nil }

func (NopSink) Close() error { return nil }

// InfluxSink writes one point per run.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

// NewInfluxSink connects to the configured InfluxDB. The client connects
// lazily, so an unreachable server surfaces on the first write.
func NewInfluxSink(cfg config.InfluxConfig) *InfluxSink {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
	}
}

// NewInfluxSinkWithAPI wraps an existing write API.
func NewInfluxSinkWithAPI(writeAPI api.WriteAPIBlocking) *InfluxSink {
	return &InfluxSink{writeAPI: writeAPI}
}

// WriteRuns writes projections as Measurement points.
func (s *InfluxSink) WriteRuns(ctx context.Context, action string, projections []algorithms.Projection) error {
	if len(projections) == 0 {
		return nil
	}
	if err := s.writeAPI.WritePoint(ctx, Points(action, projections)...); err != nil {
		return fmt.Errorf("write %d run points: %w", len(projections), err)
	}
	return nil
}

// Close releases the client.
func (s *InfluxSink) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

// Points converts projections to line-protocol points. Runs that never
// finished are stamped with the current time.
func Points(action string, projections []algorithms.Projection) []*write.Point {
	now := time.Now()
	points := make([]*write.Point, 0, len(projections))
	for _, p := range projections {
		ts := p.End
		if ts.IsZero() {
			ts = now
		}
		points = append(points, influxdb2.NewPoint(
			Measurement,
			map[string]string{
				"algorithm": p.Algorithm,
				"action":    action,
				"size":      strconv.Itoa(len(p.Input)),
			},
			map[string]interface{}{
				"elapsed_ns": p.Elapsed.Nanoseconds(),
				"successful": p.SuccessfulExecution,
			},
			ts,
		))
	}
	return points
}
