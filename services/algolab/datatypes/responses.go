// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"encoding/json"
	"strconv"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
	"github.com/AleutianAI/AlgoLab/services/algolab/harness"
)

// AlgorithmListResponse is the body of GET /api/algorithms.
type AlgorithmListResponse struct {
	AvailableAlgorithms []string `json:"available_algorithms"`
}

// ErrorResponse carries a client-facing failure message.
type ErrorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	Algorithms int    `json:"algorithms"`
}

// SweepResponse is the body of a test action: one key per size holding
// the projections for that size, plus "graph" with the chart id or null.
type SweepResponse struct {
	Result *harness.BenchmarkResultSet
	Graph  *string
}

// MarshalJSON flattens the sizes into top-level keys.
func (r SweepResponse) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Result.Sizes)+1)
	for _, size := range r.Result.Sizes {
		runs := r.Result.Results[size]
		if runs == nil {
			runs = []algorithms.Projection{}
		}
		out[strconv.Itoa(size)] = runs
	}
	out["graph"] = r.Graph
	return json.Marshal(out)
}

// NamedResult is one side of a comparison.
type NamedResult struct {
	Name   string                  `json:"name"`
	Result []algorithms.Projection `json:"result"`
}

// CompareResponse is the body of a compare action.
type CompareResponse struct {
	FirstAlgorithm  NamedResult `json:"first_algorithm"`
	SecondAlgorithm NamedResult `json:"second_algorithm"`
	Graph           *string     `json:"graph"`
}

// NewCompareResponse converts a comparison result set.
func NewCompareResponse(result *harness.ComparisonResultSet, graph *string) CompareResponse {
	return CompareResponse{
		FirstAlgorithm:  NamedResult{Name: result.First.Name, Result: result.First.Results},
		SecondAlgorithm: NamedResult{Name: result.Second.Name, Result: result.Second.Results},
		Graph:           graph,
	}
}
