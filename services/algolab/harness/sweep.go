// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package harness

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
)

var tracer = otel.Tracer("algolab.harness")

// SweepConfig describes a benchmark sweep.
type SweepConfig struct {
	// Algorithm is the registry identifier to benchmark.
	Algorithm string

	// MinSize is the first input size. Must be >= 0.
	MinSize int

	// MaxSize is the last input size, included when reachable from MinSize.
	MaxSize int

	// Step is the size increment. Must be >= 1.
	Step int

	// Repeats is the number of runs per size. Must be >= 1.
	Repeats int
}

// Validate checks the sweep range.
func (c SweepConfig) Validate() error {
	switch {
	case c.MinSize < 0:
		return fmt.Errorf("%w: min size %d is negative", ErrInvalidSweep, c.MinSize)
	case c.MinSize > c.MaxSize:
		return fmt.Errorf("%w: min size %d exceeds max size %d", ErrInvalidSweep, c.MinSize, c.MaxSize)
	case c.Step < 1:
		return fmt.Errorf("%w: step must be at least 1, got %d", ErrInvalidSweep, c.Step)
	case c.Repeats < 1:
		return fmt.Errorf("%w: repeats must be at least 1, got %d", ErrInvalidSweep, c.Repeats)
	}
	return nil
}

// Sizes returns the input sizes the sweep visits, in ascending order.
func (c SweepConfig) Sizes() []int {
	if c.Step < 1 {
		return nil
	}
	var sizes []int
	for size := c.MinSize; size <= c.MaxSize; size += c.Step {
		sizes = append(sizes, size)
	}
	return sizes
}

// TotalRuns returns the number of instances the sweep runs.
func (c SweepConfig) TotalRuns() int {
	return len(c.Sizes()) * c.Repeats
}

// BenchmarkResultSet maps each swept size to its projections in run order.
type BenchmarkResultSet struct {
	Algorithm string
	Sizes     []int
	Results   map[int][]algorithms.Projection
}

// Projections returns every projection, ordered by size then repeat.
func (b *BenchmarkResultSet) Projections() []algorithms.Projection {
	var all []algorithms.Projection
	for _, size := range b.Sizes {
		all = append(all, b.Results[size]...)
	}
	return all
}

// Sweep benchmarks one algorithm across a range of input sizes.
//
// # Description
//
// For each size from MinSize to MaxSize by Step, Sweep constructs Repeats
// fresh instances, each with an independently generated collection, and runs
// them. Failed runs are recorded with SuccessfulExecution=false and the sweep
// carries on. With parallelism above 1 repeats run concurrently but results
// keep their run-order slot.
//
// # Inputs
//
//   - ctx: Checked between runs. Cancellation aborts with ctx.Err().
//   - cfg: The sweep to perform.
//
// # Outputs
//
//   - *BenchmarkResultSet: One entry per size, each with Repeats projections.
//   - error: Wraps algorithms.ErrUnknownAlgorithm or ErrInvalidSweep, or
//     ctx.Err().
func (h *Harness) Sweep(ctx context.Context, cfg SweepConfig) (*BenchmarkResultSet, error) {
	strategy, err := h.registry.Strategy(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "harness.sweep")
	defer span.End()
	span.SetAttributes(
		attribute.String("algorithm.id", cfg.Algorithm),
		attribute.Int("sweep.min_size", cfg.MinSize),
		attribute.Int("sweep.max_size", cfg.MaxSize),
		attribute.Int("sweep.step", cfg.Step),
		attribute.Int("sweep.repeats", cfg.Repeats),
	)

	sizes := cfg.Sizes()
	slots := make([][]algorithms.Projection, len(sizes))
	for i := range slots {
		slots[i] = make([]algorithms.Projection, cfg.Repeats)
	}

	start := time.Now()
	runOne := func(ctx context.Context, i, r int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		alg, err := algorithms.New(cfg.Algorithm, strategy, nil, sizes[i], h.instanceOptions()...)
		if err != nil {
			return err
		}
		alg.Run(ctx)
		slots[i][r] = alg.Projection()
		return nil
	}

	if h.parallelism <= 1 {
		for i := range sizes {
			for r := 0; r < cfg.Repeats; r++ {
				if err := runOne(ctx, i, r); err != nil {
					return nil, err
				}
			}
		}
	} else {
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(h.parallelism)
		for i := range sizes {
			for r := 0; r < cfg.Repeats; r++ {
				g.Go(func() error { return runOne(gCtx, i, r) })
			}
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	result := &BenchmarkResultSet{
		Algorithm: cfg.Algorithm,
		Sizes:     sizes,
		Results:   make(map[int][]algorithms.Projection, len(sizes)),
	}
	for i, size := range sizes {
		result.Results[size] = slots[i]
	}

	h.logger.Info("sweep completed",
		"algorithm", cfg.Algorithm,
		"sizes", len(sizes),
		"runs", cfg.TotalRuns(),
		"parallelism", h.parallelism,
		"duration", time.Since(start))
	return result, nil
}
