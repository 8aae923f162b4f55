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

var mergeSortCases = struct{ best, average, worst string }{
	best:    "O(n log n)",
	average: "O(n log n)",
	worst:   "O(n log n)",
}

// TopDownMergeSort splits at the midpoint, sorts each half recursively and
// merges. The working buffer is replaced by the merged result.
type TopDownMergeSort struct{ sortFamily }

func (TopDownMergeSort) Execute(working []int) ([]int, error) {
	return topDownBy(working, identity), nil
}

// topDownBy returns a sorted copy of c. The left half holds the extra
// element when len(c) is odd.
func topDownBy[T any](c []T, key func(T) int) []T {
	if len(c) <= 1 {
		return append(make([]T, 0, len(c)), c...)
	}
	mid := (len(c) + 1) / 2
	left := topDownBy(c[:mid], key)
	right := topDownBy(c[mid:], key)
	return mergeLeftBiased(left, right, key)
}

// mergeLeftBiased merges two sorted slices, taking from left on ties.
func mergeLeftBiased[T any](left, right []T, key func(T) int) []T {
	result := make([]T, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if key(left[i]) <= key(right[j]) {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}
	result = append(result, left[i:]...)
	return append(result, right[j:]...)
}

func (TopDownMergeSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Top-down Merge Sort",
		Description: "A recursive divide-and-conquer sort: split the collection in half, sort each " +
			"half, then merge the two sorted halves into one.",
		Steps: []string{
			"Split the collection at its midpoint.",
			"Recursively sort the left half, then the right half.",
			"Merge the halves by repeatedly taking the smaller front value, preferring the left on ties.",
			"Append whatever remains of either half.",
		},
		BestCase:    mergeSortCases.best,
		AverageCase: mergeSortCases.average,
		WorstCase:   mergeSortCases.worst,
	}, nil
}

// BottomUpMergeSort merges runs of width 1, 2, 4, ... in place using
// temporary buffers.
type BottomUpMergeSort struct{ sortFamily }

func (BottomUpMergeSort) Execute(working []int) ([]int, error) {
	bottomUpBy(working, identity)
	return working, nil
}

func bottomUpBy[T any](c []T, key func(T) int) {
	n := len(c)
	for width := 1; width < n; width *= 2 {
		for left := 0; left < n-1; left += 2 * width {
			mid := min(left+width-1, n-1)
			right := min(left+2*width-1, n-1)
			if mid < right {
				mergeRuns(c, left, mid, right, key)
			}
		}
	}
}

// mergeRuns merges c[left..mid] and c[mid+1..right]. The right run is taken
// only when L[i] > R[j], so ties keep the left element first.
func mergeRuns[T any](c []T, left, mid, right int, key func(T) int) {
	L := append([]T(nil), c[left:mid+1]...)
	R := append([]T(nil), c[mid+1:right+1]...)

	i, j, k := 0, 0, left
	for i < len(L) && j < len(R) {
		if key(L[i]) > key(R[j]) {
			c[k] = R[j]
			j++
		} else {
			c[k] = L[i]
			i++
		}
		k++
	}
	for ; i < len(L); i, k = i+1, k+1 {
		c[k] = L[i]
	}
	for ; j < len(R); j, k = j+1, k+1 {
		c[k] = R[j]
	}
}

func (BottomUpMergeSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Bottom-up Merge Sort",
		Description: "An iterative merge sort: treat every element as a sorted run of length one, " +
			"then repeatedly merge adjacent runs, doubling the run width each pass.",
		Steps: []string{
			"Start with a run width of one.",
			"Merge each pair of adjacent runs through temporary buffers.",
			"Double the run width.",
			"Stop once a single run covers the whole collection.",
		},
		BestCase:    mergeSortCases.best,
		AverageCase: mergeSortCases.average,
		WorstCase:   mergeSortCases.worst,
	}, nil
}
