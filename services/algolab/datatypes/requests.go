// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the request and response bodies of the AlgoLab
// HTTP API.
package datatypes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
	"github.com/AleutianAI/AlgoLab/services/algolab/config"
)

// Actions accepted by POST /api/algorithms/:name.
const (
	ActionRun     = "run"
	ActionTest    = "test"
	ActionCompare = "compare"
)

// ValidActions lists the accepted actions in documentation order.
var ValidActions = []string{ActionRun, ActionTest, ActionCompare}

var (
	// ErrNoAction is returned when the action field is empty.
	ErrNoAction = errors.New("no action specified")

	// ErrInvalidAction is returned for an action outside ValidActions.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidOptions is returned when merged options fail validation or
	// exceed the configured limits.
	ErrInvalidOptions = errors.New("invalid options")

	// ErrMissingAlgorithm is returned when compare has no second algorithm.
	ErrMissingAlgorithm = errors.New("compare requires second_algorithm")
)

var requestValidate = validator.New()

// =============================================================================
// Action Request
// =============================================================================

// ActionOptions tunes a test or compare action. Zero fields take the
// configured defaults.
type ActionOptions struct {
	MinSize int `json:"min_size,omitempty" validate:"gte=1"`
	MaxSize int `json:"max_size,omitempty" validate:"gtefield=MinSize"`
	Jump    int `json:"jump,omitempty" validate:"gte=1"`
	Repeats int `json:"repeats,omitempty" validate:"gte=1"`
}

// ActionRequest is the body of POST /api/algorithms/:name.
//
// # Fields
//
//   - Action: Required. One of run, test, compare.
//   - MakeGraph: Render a chart for test and compare.
//   - Options: Sweep and comparison tuning, merged over defaults.
//   - Collection: Optional flat JSON array of integers.
//   - Size: Generated input size for run when no collection is given.
//   - FirstAlgorithm, SecondAlgorithm: Compare participants. First falls
//     back to the path algorithm.
//   - RequestID: Optional client id. Generated when missing.
type ActionRequest struct {
	Action          string          `json:"action"`
	MakeGraph       bool            `json:"makegraph"`
	Options         *ActionOptions  `json:"options,omitempty" validate:"-"`
	Collection      json.RawMessage `json:"collection,omitempty"`
	Size            int             `json:"size,omitempty" validate:"gte=0"`
	FirstAlgorithm  string          `json:"first_algorithm,omitempty"`
	SecondAlgorithm string          `json:"second_algorithm,omitempty"`
	RequestID       string          `json:"request_id,omitempty" validate:"omitempty,uuid"`
}

// EnsureDefaults generates a RequestID when the client did not send one.
func (r *ActionRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
}

// ValidateAction checks the action and request id.
//
// # Outputs
//
//   - error: ErrNoAction, a wrapped ErrInvalidAction whose message is
//     "Invalid action '<a>'", or a validator error for the request id.
func (r *ActionRequest) ValidateAction() error {
	if r.Action == "" {
		return ErrNoAction
	}
	valid := false
	for _, a := range ValidActions {
		if r.Action == a {
			valid = true
			break
		}
	}
	if !valid {
		return &actionError{action: r.Action}
	}
	return requestValidate.Struct(r)
}

type actionError struct{ action string }

func (e *actionError) Error() string { return fmt.Sprintf("Invalid action '%s'", e.action) }

func (e *actionError) Unwrap() error { return ErrInvalidAction }

// ResolveOptions merges the request options over defaults and validates
// the result.
//
// # Inputs
//
//   - defaults: Configured action defaults.
//   - compare: When true Repeats defaults to CompareRepeats.
func (r *ActionRequest) ResolveOptions(defaults config.ActionDefaults, compare bool) (ActionOptions, error) {
	opts := ActionOptions{
		MinSize: defaults.MinSize,
		MaxSize: defaults.MaxSize,
		Jump:    defaults.Jump,
		Repeats: defaults.Repeats,
	}
	if compare {
		opts.Repeats = defaults.CompareRepeats
	}
	if r.Options != nil {
		if r.Options.MinSize != 0 {
			opts.MinSize = r.Options.MinSize
		}
		if r.Options.MaxSize != 0 {
			opts.MaxSize = r.Options.MaxSize
		}
		if r.Options.Jump != 0 {
			opts.Jump = r.Options.Jump
		}
		if r.Options.Repeats != 0 {
			opts.Repeats = r.Options.Repeats
		}
	}
	if err := requestValidate.Struct(opts); err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return opts, nil
}

// CheckLimits rejects option sets that would exceed the configured caps for
// a sweep. The run count is compared by division so huge repeats cannot
// wrap around.
func (o ActionOptions) CheckLimits(limits config.LimitsConfig) error {
	if o.MaxSize > limits.MaxCollectionSize {
		return fmt.Errorf("%w: max_size %d exceeds the limit of %d", ErrInvalidOptions, o.MaxSize, limits.MaxCollectionSize)
	}
	sizes := o.sizeCount()
	if sizes > 0 && o.Repeats > limits.MaxRunsPerRequest/sizes {
		return fmt.Errorf("%w: %d sizes x %d repeats exceeds the limit of %d runs",
			ErrInvalidOptions, sizes, o.Repeats, limits.MaxRunsPerRequest)
	}
	return nil
}

// CheckCompareLimits rejects comparisons that would exceed the configured
// caps. Each trial runs both algorithms once.
func (o ActionOptions) CheckCompareLimits(limits config.LimitsConfig) error {
	if o.MaxSize > limits.MaxCollectionSize {
		return fmt.Errorf("%w: max_size %d exceeds the limit of %d", ErrInvalidOptions, o.MaxSize, limits.MaxCollectionSize)
	}
	if o.Repeats > limits.MaxRunsPerRequest/2 {
		return fmt.Errorf("%w: %d repeats of two algorithms exceeds the limit of %d runs",
			ErrInvalidOptions, o.Repeats, limits.MaxRunsPerRequest)
	}
	return nil
}

// TotalRuns returns the number of runs a sweep over these options performs,
// saturating at math.MaxInt.
func (o ActionOptions) TotalRuns() int {
	sizes := o.sizeCount()
	if sizes == 0 || o.Repeats < 1 {
		return 0
	}
	if o.Repeats > math.MaxInt/sizes {
		return math.MaxInt
	}
	return sizes * o.Repeats
}

func (o ActionOptions) sizeCount() int {
	if o.Jump < 1 || o.MinSize > o.MaxSize {
		return 0
	}
	return (o.MaxSize-o.MinSize)/o.Jump + 1
}

// =============================================================================
// Collections
// =============================================================================

// ParseCollection decodes a collection field.
//
// # Description
//
// Absent, null, empty-array and empty-object values mean "no collection"
// and return nil. Anything other than a flat array of integers is rejected.
//
// # Outputs
//
//   - []int: The collection, nil when absent.
//   - error: Wraps algorithms.ErrInvalidCollection.
func ParseCollection(raw json.RawMessage, maxLen int) ([]int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: collection must be a JSON array of integers", algorithms.ErrInvalidCollection)
	}

	var values []any
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("%w: collection must be a flat array of integers", algorithms.ErrInvalidCollection)
	}
	if maxLen > 0 && len(values) > maxLen {
		return nil, fmt.Errorf("%w: collection has %d elements, the limit is %d",
			algorithms.ErrInvalidCollection, len(values), maxLen)
	}

	out := make([]int, len(values))
	for i, v := range values {
		num, ok := v.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not a number", algorithms.ErrInvalidCollection, i)
		}
		n, err := num.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: element %d (%s) is not an integer", algorithms.ErrInvalidCollection, i, num)
		}
		out[i] = int(n)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
