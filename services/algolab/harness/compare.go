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

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
)

// CompareConfig describes a head-to-head comparison.
type CompareConfig struct {
	// First and Second are registry identifiers. They must share a family.
	First  string
	Second string

	// Collection is the shared input. When empty, one is generated.
	Collection []int

	// Repeats is the number of paired trials. Must be >= 1.
	Repeats int

	// MinSize and MaxSize bound the random size of a generated input.
	MinSize int
	MaxSize int
}

// NamedResults is the projection list of one side of a comparison.
type NamedResults struct {
	Name    string
	Results []algorithms.Projection
}

// ComparisonResultSet holds two same-length projection lists built in
// lockstep on identical input.
type ComparisonResultSet struct {
	First  NamedResults
	Second NamedResults
}

// Input returns the shared collection both sides ran on.
func (c *ComparisonResultSet) Input() []int {
	if len(c.First.Results) == 0 {
		return nil
	}
	return c.First.Results[0].Input
}

// Compare races two algorithms on the same input.
//
// # Description
//
// Both identifiers are resolved and their families checked before anything
// runs. Without an explicit collection a size is drawn uniformly from
// [MinSize, MaxSize] and one instance of the first algorithm generates the
// shared input, which every trial then reuses verbatim. Each trial runs the
// first algorithm and then the second, appending both projections.
//
// # Outputs
//
//   - *ComparisonResultSet: Repeats projections per side.
//   - error: Wraps algorithms.ErrUnknownAlgorithm,
//     algorithms.ErrIncompatibleAlgorithms, algorithms.ErrInvalidCollection
//     or ErrInvalidSweep, or ctx.Err().
func (h *Harness) Compare(ctx context.Context, cfg CompareConfig) (*ComparisonResultSet, error) {
	first, err := h.registry.Strategy(cfg.First)
	if err != nil {
		return nil, err
	}
	second, err := h.registry.Strategy(cfg.Second)
	if err != nil {
		return nil, err
	}
	if first.Family() != second.Family() {
		return nil, fmt.Errorf("%w: %s is %s, %s is %s", algorithms.ErrIncompatibleAlgorithms,
			cfg.First, first.Family(), cfg.Second, second.Family())
	}
	if cfg.Repeats < 1 {
		return nil, fmt.Errorf("%w: repeats must be at least 1, got %d", ErrInvalidSweep, cfg.Repeats)
	}

	ctx, span := tracer.Start(ctx, "harness.compare")
	defer span.End()

	shared, err := h.sharedInput(cfg, first, second)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("compare.first", cfg.First),
		attribute.String("compare.second", cfg.Second),
		attribute.Int("compare.size", len(shared)),
		attribute.Int("compare.repeats", cfg.Repeats),
	)

	result := &ComparisonResultSet{
		First:  NamedResults{Name: cfg.First, Results: make([]algorithms.Projection, 0, cfg.Repeats)},
		Second: NamedResults{Name: cfg.Second, Results: make([]algorithms.Projection, 0, cfg.Repeats)},
	}

	for trial := 0; trial < cfg.Repeats; trial++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p1, err := h.runOn(ctx, cfg.First, first, shared)
		if err != nil {
			return nil, err
		}
		p2, err := h.runOn(ctx, cfg.Second, second, shared)
		if err != nil {
			return nil, err
		}
		result.First.Results = append(result.First.Results, p1)
		result.Second.Results = append(result.Second.Results, p2)
	}

	h.logger.Info("comparison completed",
		"first", cfg.First,
		"second", cfg.Second,
		"size", len(shared),
		"repeats", cfg.Repeats)
	return result, nil
}

// sharedInput returns the collection every trial runs on. An explicit
// collection must satisfy both strategies; a generated one comes from the
// first strategy and is checked against the second.
func (h *Harness) sharedInput(cfg CompareConfig, first, second algorithms.Strategy) ([]int, error) {
	if len(cfg.Collection) > 0 {
		if err := first.ValidateCollection(cfg.Collection); err != nil {
			return nil, err
		}
		if err := second.ValidateCollection(cfg.Collection); err != nil {
			return nil, err
		}
		return append([]int(nil), cfg.Collection...), nil
	}

	if cfg.MinSize < 0 || cfg.MinSize > cfg.MaxSize {
		return nil, fmt.Errorf("%w: size bounds [%d, %d]", ErrInvalidSweep, cfg.MinSize, cfg.MaxSize)
	}
	size := h.generator.IntBetween(cfg.MinSize, cfg.MaxSize)

	seed, err := algorithms.New(cfg.First, first, nil, size, h.instanceOptions()...)
	if err != nil {
		return nil, err
	}
	if err := second.ValidateCollection(seed.Input()); err != nil {
		return nil, err
	}
	return seed.Input(), nil
}

func (h *Harness) runOn(ctx context.Context, id string, s algorithms.Strategy, input []int) (algorithms.Projection, error) {
	alg, err := algorithms.New(id, s, input, 0, h.instanceOptions()...)
	if err != nil {
		return algorithms.Projection{}, err
	}
	alg.Run(ctx)
	return alg.Projection(), nil
}
