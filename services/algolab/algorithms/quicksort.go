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

// partition is the Lomuto scheme with the last element as pivot. It returns
// the pivot's final index; everything left of it is <= pivot.
func partition(c []int, low, high int) int {
	pivot := c[high]
	index := low - 1
	for i := low; i < high; i++ {
		if c[i] <= pivot {
			index++
			c[index], c[i] = c[i], c[index]
		}
	}
	c[index+1], c[high] = c[high], c[index+1]
	return index + 1
}

var quickSortSteps = []string{
	"Pick the last element of the range as the pivot.",
	"Move every value <= pivot to the front of the range.",
	"Place the pivot directly after those values; it is now in its final position.",
	"Sort the ranges left and right of the pivot the same way.",
}

// RecursiveQuickSort recurses on both sides of each partition.
type RecursiveQuickSort struct{ sortFamily }

func (RecursiveQuickSort) Execute(working []int) ([]int, error) {
	quickSort(working, 0, len(working)-1)
	return working, nil
}

func quickSort(c []int, low, high int) {
	if low < high {
		p := partition(c, low, high)
		quickSort(c, low, p-1)
		quickSort(c, p+1, high)
	}
}

func (RecursiveQuickSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Recursive Quick Sort",
		Description: "A divide-and-conquer sort that partitions the collection around a pivot and " +
			"recursively sorts both partitions.",
		Steps:       quickSortSteps,
		BestCase:    "O(n log n)",
		AverageCase: "O(n log n)",
		WorstCase:   "O(n<sup>2</sup>) (already sorted input with a last-element pivot)",
	}, nil
}

// indexRange is a pending (low, high) range of the iterative quicksort.
type indexRange struct {
	low, high int
}

// IterativeQuickSort replaces recursion with an explicit stack of ranges.
type IterativeQuickSort struct{ sortFamily }

func (IterativeQuickSort) Execute(working []int) ([]int, error) {
	if len(working) < 2 {
		return working, nil
	}

	stack := []indexRange{{0, len(working) - 1}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p := partition(working, top.low, top.high)

		// only non-trivial ranges are pushed
		if p-1 > top.low {
			stack = append(stack, indexRange{top.low, p - 1})
		}
		if p+1 < top.high {
			stack = append(stack, indexRange{p + 1, top.high})
		}
	}
	return working, nil
}

func (IterativeQuickSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Iterative Quick Sort",
		Description: "Quick sort driven by an explicit stack of index ranges instead of recursion. " +
			"It performs the same partitions as the recursive version.",
		Steps: append(quickSortSteps[:3:3],
			"Push the ranges left and right of the pivot onto the stack when they hold more than one value.",
			"Pop the next range and repeat until the stack is empty."),
		BestCase:    "O(n log n)",
		AverageCase: "O(n log n)",
		WorstCase:   "O(n<sup>2</sup>)",
	}, nil
}
