// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package algorithms

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// ShuffleMode selects the shuffle applied to generated collections.
type ShuffleMode string

const (
	// ShuffleFisherYates is the textbook unbiased shuffle.
	ShuffleFisherYates ShuffleMode = "fisher-yates"

	// ShuffleLegacy reproduces the partner formula floor(random()*i) - 1,
	// clamped to 0. It over-selects index 0 and never pairs an index with
	// itself.
	ShuffleLegacy ShuffleMode = "legacy"
)

const (
	// DefaultMinValue is the smallest generated value.
	DefaultMinValue = 1

	// DefaultMaxValue is the largest generated value.
	DefaultMaxValue = 1000

	// DefaultShufflePasses is the number of shuffle passes per collection.
	DefaultShufflePasses = 5
)

// GeneratorConfig configures a Generator. Zero fields take defaults.
type GeneratorConfig struct {
	// Min is the inclusive lower bound of generated values. Default: 1
	Min int

	// Max is the inclusive upper bound of generated values. Default: 1000
	Max int

	// Passes is the number of shuffle passes. Default: 5
	Passes int

	// Shuffle selects the shuffle algorithm. Default: ShuffleFisherYates
	Shuffle ShuffleMode

	// Seed seeds the random source. Zero uses the current time.
	Seed int64
}

// Generator produces pseudo-random integer collections.
//
// # Thread Safety
//
// Safe for concurrent use. The random source is guarded by a mutex.
type Generator struct {
	cfg GeneratorConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator, applying defaults to zero fields.
//
// # Outputs
//
//   - *Generator: Never nil on success.
//   - error: Non-nil if Min > Max, Passes is negative or Shuffle is unknown.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.Min == 0 && cfg.Max == 0 {
		cfg.Min, cfg.Max = DefaultMinValue, DefaultMaxValue
	}
	if cfg.Min > cfg.Max {
		return nil, fmt.Errorf("generator min %d exceeds max %d", cfg.Min, cfg.Max)
	}
	if cfg.Passes < 0 {
		return nil, fmt.Errorf("generator passes must be non-negative, got %d", cfg.Passes)
	}
	if cfg.Passes == 0 {
		cfg.Passes = DefaultShufflePasses
	}
	switch cfg.Shuffle {
	case "":
		cfg.Shuffle = ShuffleFisherYates
	case ShuffleFisherYates, ShuffleLegacy:
	default:
		return nil, fmt.Errorf("unknown shuffle mode %q", cfg.Shuffle)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

// DefaultGenerator returns the shared generator with default settings.
func DefaultGenerator() *Generator {
	defaultGeneratorOnce.Do(func() {
		defaultGenerator, _ = NewGenerator(GeneratorConfig{})
	})
	return defaultGenerator
}

// Config returns the effective configuration.
func (g *Generator) Config() GeneratorConfig {
	return g.cfg
}

// Ints draws size values with replacement from [Min, Max] and shuffles
// them Passes times.
func (g *Generator) Ints(size int) []int {
	if size <= 0 {
		return []int{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	span := g.cfg.Max - g.cfg.Min + 1
	coll := make([]int, size)
	for i := range coll {
		coll[i] = g.cfg.Min + g.rng.Intn(span)
	}

	for pass := 0; pass < g.cfg.Passes; pass++ {
		switch g.cfg.Shuffle {
		case ShuffleLegacy:
			g.legacyShuffle(coll)
		default:
			g.fisherYates(coll)
		}
	}
	return coll
}

// IntBetween returns a uniformly chosen value in [lo, hi].
func (g *Generator) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) fisherYates(coll []int) {
	for i := len(coll) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		coll[i], coll[j] = coll[j], coll[i]
	}
}

func (g *Generator) legacyShuffle(coll []int) {
	for s := len(coll) - 1; s >= 0; s-- {
		i := legacyPartner(g.rng.Float64(), s)
		coll[s], coll[i] = coll[i], coll[s]
	}
}

// legacyPartner maps a uniform sample r in [0, 1) to a swap partner for
// index s.
func legacyPartner(r float64, s int) int {
	i := int(math.Floor(r*float64(s))) - 1
	if i < 0 {
		i = 0
	}
	return i
}
