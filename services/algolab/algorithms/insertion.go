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

// InsertionSort shifts each element left until it meets a smaller or equal
// value. Stable and in place.
type InsertionSort struct{ sortFamily }

func (InsertionSort) Execute(working []int) ([]int, error) {
	insertionSortBy(working, identity)
	return working, nil
}

// insertionSortBy sorts c in place by key(c[i]).
func insertionSortBy[T any](c []T, key func(T) int) {
	for i := 1; i < len(c); i++ {
		item := c[i]
		j := i - 1
		for j >= 0 && key(item) < key(c[j]) {
			c[j+1] = c[j]
			j--
		}
		c[j+1] = item
	}
}

func (InsertionSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Insertion Sort",
		Description: "An in-place, comparison-based sorting algorithm. It sorts the array by shifting " +
			"elements one by one and inserting each element at its correct position in the sorted prefix.",
		Steps: []string{
			"Treat the first element as a sorted prefix of length one.",
			"Take the next element as the key.",
			"Shift every larger element of the sorted prefix one place to the right.",
			"Insert the key into the gap and repeat until no elements remain.",
		},
		BestCase:    "O(n) comparisons, O(1) swaps",
		AverageCase: "O(n<sup>2</sup>) comparisons, O(n<sup>2</sup>) swaps",
		WorstCase:   "O(n<sup>2</sup>) comparisons, O(n<sup>2</sup>) swaps",
	}, nil
}

// ShellSort runs gapped insertion sorts with gaps n/2, n/4, ..., 1.
type ShellSort struct{ sortFamily }

func (ShellSort) Execute(working []int) ([]int, error) {
	n := len(working)
	for gap := n / 2; gap > 0; gap /= 2 {
		for i := gap; i < n; i++ {
			temp := working[i]
			j := i
			// shift earlier gap-sorted elements up until temp fits
			for j >= gap && working[j-gap] > temp {
				working[j] = working[j-gap]
				j -= gap
			}
			working[j] = temp
		}
	}
	return working, nil
}

func (ShellSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Shell Sort",
		Description: "A generalisation of insertion sort that first sorts elements far apart and " +
			"progressively shrinks the gap, so that the final insertion pass has little work to do.",
		Steps: []string{
			"Start with a gap of half the collection size.",
			"Run an insertion sort on each gap-separated subsequence.",
			"Halve the gap.",
			"Repeat until a pass with gap 1 has completed.",
		},
		BestCase:    "O(n log n)",
		AverageCase: "O(n<sup>1.5</sup>) with halving gaps (depends on the gap sequence)",
		WorstCase:   "O(n<sup>2</sup>) with halving gaps",
	}, nil
}
