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

// MaxCountingValue is the largest value CountingSort accepts. The count
// array is sized by the maximum value, so it must stay bounded.
const MaxCountingValue = 1 << 20

// CountingSort is a stable counting sort over the domain [0, max]. Inputs
// containing negative values or values above MaxCountingValue are rejected
// by ValidateCollection.
type CountingSort struct{ nonNegativeSort }

func (c CountingSort) ValidateCollection(data []int) error {
	if err := c.nonNegativeSort.ValidateCollection(data); err != nil {
		return err
	}
	for i, v := range data {
		if v > MaxCountingValue {
			return fmt.Errorf("%w: value %d at index %d exceeds the counting sort limit of %d",
				ErrInvalidCollection, v, i, MaxCountingValue)
		}
	}
	return nil
}

func (CountingSort) Execute(working []int) ([]int, error) {
	if len(working) == 0 {
		return working, nil
	}

	// generated inputs skip validation, so the bound is checked again here
	k := maxOf(working) + 1
	if k > MaxCountingValue+1 {
		return nil, fmt.Errorf("counting sort value %d exceeds the limit of %d", k-1, MaxCountingValue)
	}
	count := make([]int, k)
	for _, v := range working {
		if v < 0 {
			return nil, fmt.Errorf("counting sort requires non-negative values, got %d", v)
		}
		count[v]++
	}

	// prefix sums turn counts into starting offsets
	total := 0
	for i := range count {
		count[i], total = total, total+count[i]
	}

	output := make([]int, len(working))
	for _, v := range working {
		output[count[v]] = v
		count[v]++
	}
	return output, nil
}

func (CountingSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Counting Sort",
		Description: "A non-comparison sort for small non-negative integers. It counts occurrences of " +
			"each value and uses prefix sums to place every element directly at its final position.",
		Steps: []string{
			"Find the maximum value k.",
			"Count the occurrences of each value in an array of size k + 1.",
			"Convert counts to starting offsets with a running total.",
			"Place each element at its offset, in input order, and advance that offset.",
		},
		BestCase:    "O(n + k)",
		AverageCase: "O(n + k)",
		WorstCase:   "O(n + k)",
	}, nil
}

// BucketSort scatters values into buckets of width max/size spanning
// [0, max], sorts each bucket with insertion sort and concatenates them.
// Inputs containing negative values are rejected by ValidateCollection.
type BucketSort struct{ nonNegativeSort }

func (BucketSort) Execute(working []int) ([]int, error) {
	n := len(working)
	if n == 0 {
		return working, nil
	}

	maxVal := maxOf(working)
	width := maxVal / n
	if width < 1 {
		width = 1
	}

	buckets := make([][]int, maxVal/width+1)
	for _, v := range working {
		if v < 0 {
			return nil, fmt.Errorf("bucket sort requires non-negative values, got %d", v)
		}
		b := v / width
		buckets[b] = append(buckets[b], v)
	}

	output := working[:0]
	for _, bucket := range buckets {
		insertionSortBy(bucket, identity)
		output = append(output, bucket...)
	}
	return output, nil
}

func (BucketSort) Metadata() (Metadata, error) {
	return Metadata{
		Name: "Bucket Sort",
		Description: "Distributes values into equal-width buckets covering [0, max], sorts each " +
			"bucket independently and concatenates the buckets in order.",
		Steps: []string{
			"Compute the bucket width as max / n (at least 1).",
			"Scatter each value into the bucket covering it.",
			"Sort each bucket with insertion sort.",
			"Concatenate the buckets from lowest to highest.",
		},
		BestCase:    "O(n + k)",
		AverageCase: "O(n + n<sup>2</sup>/k + k)",
		WorstCase:   "O(n<sup>2</sup>)",
	}, nil
}
