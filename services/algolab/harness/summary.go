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
	"slices"
	"time"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
)

// Summary aggregates the elapsed times of a group of runs.
type Summary struct {
	Size       int           `json:"size"`
	Runs       int           `json:"runs"`
	Successful int           `json:"successful"`
	Min        time.Duration `json:"min_ns"`
	Max        time.Duration `json:"max_ns"`
	Mean       time.Duration `json:"mean_ns"`
	Median     time.Duration `json:"median_ns"`
}

// Summarize computes elapsed statistics over projections. Failed runs count
// towards Runs and the timing statistics; Successful counts only passes.
func Summarize(size int, projections []algorithms.Projection) Summary {
	s := Summary{Size: size, Runs: len(projections)}
	if len(projections) == 0 {
		return s
	}

	elapsed := make([]time.Duration, len(projections))
	var total time.Duration
	for i, p := range projections {
		elapsed[i] = p.Elapsed
		total += p.Elapsed
		if p.SuccessfulExecution {
			s.Successful++
		}
	}
	slices.Sort(elapsed)

	s.Min = elapsed[0]
	s.Max = elapsed[len(elapsed)-1]
	s.Mean = total / time.Duration(len(elapsed))
	mid := len(elapsed) / 2
	if len(elapsed)%2 == 0 {
		s.Median = (elapsed[mid-1] + elapsed[mid]) / 2
	} else {
		s.Median = elapsed[mid]
	}
	return s
}

// Summaries returns one Summary per swept size, in ascending size order.
func (b *BenchmarkResultSet) Summaries() []Summary {
	out := make([]Summary, 0, len(b.Sizes))
	for _, size := range b.Sizes {
		out = append(out, Summarize(size, b.Results[size]))
	}
	return out
}

// Summaries returns the summary of each side of the comparison.
func (c *ComparisonResultSet) Summaries() (first, second Summary) {
	size := len(c.Input())
	return Summarize(size, c.First.Results), Summarize(size, c.Second.Results)
}
