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

import "errors"

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidCollection is returned when a supplied collection is rejected
	// by the strategy's validator. Surfaced to clients as a bad request.
	ErrInvalidCollection = errors.New("invalid collection for this algorithm")

	// ErrAlgorithmRuntime marks a run whose execute step failed or whose
	// output did not pass verification. It is recorded on the instance and
	// never returned from Run.
	ErrAlgorithmRuntime = errors.New("algorithm runtime error")

	// ErrIncompatibleAlgorithms is returned when two algorithms from
	// different problem families are compared.
	ErrIncompatibleAlgorithms = errors.New("the two algorithms do not solve the same computational problem")

	// ErrNotImplemented is returned when a strategy has not supplied a hook,
	// currently only metadata. Distinct from ErrUnknownAlgorithm.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnknownAlgorithm is returned when an identifier is not registered.
	ErrUnknownAlgorithm = errors.New("algorithm not found")

	// ErrAlreadyRegistered is returned when an identifier is registered twice.
	ErrAlreadyRegistered = errors.New("algorithm already registered")

	// ErrNilFactory is returned when a nil factory is registered.
	ErrNilFactory = errors.New("factory must not be nil")
)
