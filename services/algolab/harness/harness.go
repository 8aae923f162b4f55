// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package harness drives repeated algorithm runs: size sweeps for a single
// algorithm and head-to-head comparisons of two algorithms on shared input.
//
// # Description
//
// The harness resolves identifiers through an algorithms.Registry, builds a
// fresh Algorithm instance per run and collects projections. A failed run is
// recorded and aggregation continues; only identity and configuration errors
// abort an operation.
//
// # Thread Safety
//
// A Harness is safe for concurrent use. Result sets are owned by the caller.
package harness

import (
	"errors"
	"log/slog"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
)

// ErrInvalidSweep is returned when a sweep or comparison range is malformed.
var ErrInvalidSweep = errors.New("invalid sweep configuration")

// Harness runs sweeps and comparisons against a registry.
type Harness struct {
	registry    *algorithms.Registry
	generator   *algorithms.Generator
	logger      *slog.Logger
	observer    algorithms.Observer
	parallelism int
}

// Option configures a Harness.
type Option func(*Harness)

// WithGenerator sets the generator used for sweep inputs and random
// comparison sizes.
func WithGenerator(gen *algorithms.Generator) Option {
	return func(h *Harness) {
		if gen != nil {
			h.generator = gen
		}
	}
}

// WithLogger sets the logger passed to every instance.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithObserver sets the observer passed to every instance.
func WithObserver(observer algorithms.Observer) Option {
	return func(h *Harness) {
		h.observer = observer
	}
}

// WithParallelism sets how many sweep repeats may run at once.
// Default: 1 (sequential). Values below 1 are ignored.
func WithParallelism(n int) Option {
	return func(h *Harness) {
		if n >= 1 {
			h.parallelism = n
		}
	}
}

// New creates a Harness over registry.
func New(registry *algorithms.Registry, opts ...Option) *Harness {
	h := &Harness{
		registry:    registry,
		generator:   algorithms.DefaultGenerator(),
		logger:      slog.Default(),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Registry returns the registry the harness resolves identifiers against.
func (h *Harness) Registry() *algorithms.Registry {
	return h.registry
}

// Parallelism returns the configured sweep parallelism.
func (h *Harness) Parallelism() int {
	return h.parallelism
}

// instanceOptions returns the per-instance options derived from the harness.
func (h *Harness) instanceOptions() []algorithms.Option {
	opts := []algorithms.Option{
		algorithms.WithLogger(h.logger),
		algorithms.WithGenerator(h.generator),
	}
	if h.observer != nil {
		opts = append(opts, algorithms.WithObserver(h.observer))
	}
	return opts
}
