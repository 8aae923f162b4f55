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

// HeapSort builds a max-heap and repeatedly moves the root to the end.
type HeapSort struct{ sortFamily }

func (HeapSort) Execute(working []int) ([]int, error) {
	n := len(working)

	// nodes past n/2-1 are leaves and already heaps
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(working, n, i)
	}

	for end := n - 1; end > 0; end-- {
		working[0], working[end] = working[end], working[0]
		siftDown(working, end, 0)
	}
	return working, nil
}

// siftDown restores the max-heap property for the subtree rooted at root,
// considering only the first size elements.
func siftDown(c []int, size, root int) {
	for {
		largest := root
		left, right := 2*root+1, 2*root+2

		if left < size && c[largest] < c[left] {
			largest = left
		}
		if right < size && c[largest] < c[right] {
			largest = right
		}
		if largest == root {
			return
		}
		c[root], c[largest] = c[largest], c[root]
		root = largest
	}
}

func (HeapSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Heap Sort",
		Description: "Arranges the collection into a binary max-heap, then repeatedly swaps the " +
			"largest value (the root) to the end and restores the heap over the remaining prefix.",
		Steps: []string{
			"Heapify every internal node from the last parent up to the root.",
			"Swap the root with the last element of the heap.",
			"Shrink the heap by one and sift the new root down.",
			"Repeat until the heap holds a single element.",
		},
		BestCase:    "O(n log n)",
		AverageCase: "O(n log n)",
		WorstCase:   "O(n log n)",
	}, nil
}
