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

// TraditionalBubbleSort always runs the full double loop.
type TraditionalBubbleSort struct{ sortFamily }

func (TraditionalBubbleSort) Execute(working []int) ([]int, error) {
	n := len(working)
	for i := 0; i < n; i++ {
		for j := 0; j < n-i-1; j++ {
			if working[j] > working[j+1] {
				working[j], working[j+1] = working[j+1], working[j]
			}
		}
	}
	return working, nil
}

func (TraditionalBubbleSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Traditional Bubble Sort",
		Description: "Repeatedly steps through the collection comparing adjacent pairs and swapping " +
			"them when out of order. This variant always performs every pass.",
		Steps: []string{
			"Compare each adjacent pair from the start of the collection.",
			"Swap the pair when the left value is larger.",
			"After each pass the largest unsorted value has bubbled to the end.",
			"Repeat for n passes.",
		},
		BestCase:    "O(n<sup>2</sup>) comparisons, O(1) swaps",
		AverageCase: "O(n<sup>2</sup>) comparisons, O(n<sup>2</sup>) swaps",
		WorstCase:   "O(n<sup>2</sup>) comparisons, O(n<sup>2</sup>) swaps",
	}, nil
}

// OptimisedBubbleSort stops as soon as a pass makes no swap.
type OptimisedBubbleSort struct{ sortFamily }

func (OptimisedBubbleSort) Execute(working []int) ([]int, error) {
	n := len(working)
	for i := 0; i < n; i++ {
		swapped := false
		for j := 0; j < n-i-1; j++ {
			if working[j] > working[j+1] {
				working[j], working[j+1] = working[j+1], working[j]
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
	return working, nil
}

func (OptimisedBubbleSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Optimised Bubble Sort",
		Description: "Bubble sort that tracks whether a pass swapped anything and stops early once " +
			"the collection is already in order.",
		Steps: []string{
			"Compare each adjacent pair from the start of the collection.",
			"Swap the pair when the left value is larger and remember that a swap happened.",
			"If a full pass made no swap, the collection is sorted.",
			"Otherwise repeat with one fewer element to inspect.",
		},
		BestCase:    "O(n) comparisons, O(1) swaps",
		AverageCase: "O(n<sup>2</sup>) comparisons, O(n<sup>2</sup>) swaps",
		WorstCase:   "O(n<sup>2</sup>) comparisons, O(n<sup>2</sup>) swaps",
	}, nil
}

// SelectionSort repeatedly swaps the minimum of the unsorted suffix into
// place.
type SelectionSort struct{ sortFamily }

func (SelectionSort) Execute(working []int) ([]int, error) {
	n := len(working)
	for i := 0; i < n; i++ {
		first := i
		for j := i + 1; j < n; j++ {
			if working[first] > working[j] {
				first = j
			}
		}
		working[i], working[first] = working[first], working[i]
	}
	return working, nil
}

func (SelectionSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Selection Sort",
		Description: "Divides the collection into a sorted prefix and an unsorted suffix, and " +
			"repeatedly moves the smallest remaining value to the end of the prefix.",
		Steps: []string{
			"Scan the unsorted suffix, tracking the index of its minimum.",
			"Swap the minimum with the first unsorted element.",
			"Grow the sorted prefix by one.",
			"Repeat until the suffix is empty.",
		},
		BestCase:    "O(n<sup>2</sup>) comparisons, O(1) swaps",
		AverageCase: "O(n<sup>2</sup>) comparisons, O(n) swaps",
		WorstCase:   "O(n<sup>2</sup>) comparisons, O(n) swaps",
	}, nil
}
