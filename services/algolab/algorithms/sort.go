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

import "fmt"

// sortFamily provides the hooks shared by every sorting strategy. Concrete
// sorts embed it and supply Execute and Metadata.
type sortFamily struct{}

func (sortFamily) Family() Family { return FamilySort }

func (sortFamily) GenerateCollection(gen *Generator, size int) []int {
	return gen.Ints(size)
}

// ValidateCollection accepts any flat integer sequence.
func (sortFamily) ValidateCollection([]int) error { return nil }

func (sortFamily) Verify(working []int) Verdict {
	if !IsSorted(working, false) {
		i := firstInversion(working)
		return Fail(fmt.Sprintf("the algorithm did not sort the collection correctly: index %d (%d) > index %d (%d)",
			i, working[i], i+1, working[i+1]))
	}
	return Pass()
}

func (sortFamily) Metadata() (Metadata, error) {
	return Metadata{}, fmt.Errorf("%w: no metadata available", ErrNotImplemented)
}

// nonNegativeSort is the sort family restricted to inputs >= 0, used by the
// distribution sorts which index arrays by value.
type nonNegativeSort struct{ sortFamily }

func (nonNegativeSort) ValidateCollection(data []int) error {
	for i, v := range data {
		if v < 0 {
			return fmt.Errorf("%w: value %d at index %d is negative", ErrInvalidCollection, v, i)
		}
	}
	return nil
}

// GenerateCollection folds negative draws onto their absolute value so a
// generator configured with a negative minimum still honours the contract.
func (nonNegativeSort) GenerateCollection(gen *Generator, size int) []int {
	coll := gen.Ints(size)
	for i, v := range coll {
		if v < 0 {
			coll[i] = -v
		}
	}
	return coll
}

func identity(v int) int { return v }

func maxOf(seq []int) int {
	m := seq[0]
	for _, v := range seq[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
