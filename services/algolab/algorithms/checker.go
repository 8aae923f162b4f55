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

// IsSorted reports whether every adjacent pair of seq is ordered: <= when
// ascending, >= when descending. Empty and single-element sequences are
// sorted in both directions.
func IsSorted(seq []int, descending bool) bool {
	for i := 0; i+1 < len(seq); i++ {
		if descending {
			if seq[i] < seq[i+1] {
				return false
			}
		} else if seq[i] > seq[i+1] {
			return false
		}
	}
	return true
}

// firstInversion returns the first index i with seq[i] > seq[i+1], or -1.
func firstInversion(seq []int) int {
	for i := 0; i+1 < len(seq); i++ {
		if seq[i] > seq[i+1] {
			return i
		}
	}
	return -1
}
