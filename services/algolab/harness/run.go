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

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
)

// RunConfig describes a single run.
type RunConfig struct {
	Algorithm string

	// Collection is the input. When empty, Size elements are generated.
	Collection []int
	Size       int
}

// Run executes one algorithm once and returns its projection. A failed
// run is not an error; it is reported through the projection.
//
// # Outputs
//
//   - algorithms.Projection: The projection of the finished instance.
//   - error: Wraps algorithms.ErrUnknownAlgorithm or
//     algorithms.ErrInvalidCollection, or ctx.Err().
func (h *Harness) Run(ctx context.Context, cfg RunConfig) (algorithms.Projection, error) {
	strategy, err := h.registry.Strategy(cfg.Algorithm)
	if err != nil {
		return algorithms.Projection{}, err
	}
	if err := ctx.Err(); err != nil {
		return algorithms.Projection{}, err
	}

	ctx, span := tracer.Start(ctx, "harness.run")
	defer span.End()

	alg, err := algorithms.New(cfg.Algorithm, strategy, cfg.Collection, cfg.Size, h.instanceOptions()...)
	if err != nil {
		return algorithms.Projection{}, err
	}
	span.SetAttributes(
		attribute.String("algorithm.id", cfg.Algorithm),
		attribute.Int("algorithm.size", len(alg.Input())),
	)
	alg.Run(ctx)
	return alg.Projection(), nil
}
