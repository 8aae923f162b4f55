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

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededGenerator returns a deterministic generator for tests.
func seededGenerator(t *testing.T, seed int64) *Generator {
	t.Helper()
	gen, err := NewGenerator(GeneratorConfig{Seed: seed})
	require.NoError(t, err)
	return gen
}

// sortedCopy returns an ascending copy of seq using the standard library.
func sortedCopy(seq []int) []int {
	out := make([]int, len(seq))
	copy(out, seq)
	sort.Ints(out)
	return out
}

func TestSortStrategies_GeneratedInputs(t *testing.T) {
	registry := NewSortRegistry()
	gen := seededGenerator(t, 42)

	sizes := []int{0, 1, 2, 3, 7, 16, 33, 100, 200}

	for _, id := range registry.IDs() {
		t.Run(id, func(t *testing.T) {
			for _, size := range sizes {
				s, err := registry.Strategy(id)
				require.NoError(t, err)

				alg, err := New(id, s, nil, size, WithGenerator(gen))
				require.NoError(t, err)
				require.Len(t, alg.Input(), size)

				alg.Run(context.Background())

				require.True(t, alg.Completed(), "size %d: %v", size, alg.Failure())
				assert.NoError(t, alg.Failure())
				assert.True(t, IsSorted(alg.Working(), false), "size %d", size)
				assert.Equal(t, sortedCopy(alg.Input()), alg.Working(), "size %d: output must be a permutation of input", size)
			}
		})
	}
}

func TestSortStrategies_EdgeCases(t *testing.T) {
	registry := NewSortRegistry()

	cases := []struct {
		name  string
		input []int
	}{
		{"single", []int{7}},
		{"two descending", []int{2, 1}},
		{"all equal", []int{4, 4, 4, 4, 4, 4}},
		{"already sorted", []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{"reversed", []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}},
		{"with zeros", []int{0, 3, 0, 2, 0, 1}},
		{"duplicates", []int{5, 1, 5, 1, 3, 3, 2}},
		{"sparse large values", []int{1000, 1, 500, 999, 2}},
	}

	for _, id := range registry.IDs() {
		for _, tc := range cases {
			t.Run(id+"/"+tc.name, func(t *testing.T) {
				s, err := registry.Strategy(id)
				require.NoError(t, err)

				alg, err := New(id, s, tc.input, 0)
				require.NoError(t, err)

				alg.Run(context.Background())

				require.True(t, alg.Completed(), "%v", alg.Failure())
				assert.Equal(t, sortedCopy(tc.input), alg.Working())
			})
		}
	}
}

func TestSortStrategies_EmptyInputStaysEmpty(t *testing.T) {
	registry := NewSortRegistry()
	for _, id := range registry.IDs() {
		t.Run(id, func(t *testing.T) {
			s, err := registry.Strategy(id)
			require.NoError(t, err)

			alg, err := New(id, s, nil, 0)
			require.NoError(t, err)
			alg.Run(context.Background())

			assert.True(t, alg.Completed())
			assert.NotNil(t, alg.Working())
			assert.Empty(t, alg.Working())
		})
	}
}

func TestSortStrategies_NegativeValues(t *testing.T) {
	registry := NewSortRegistry()
	input := []int{3, -1, 0, -7, 12, -1, 5}

	nonNegativeOnly := map[string]bool{
		"counting-sort": true,
		"bucket-sort":   true,
	}

	for _, id := range registry.IDs() {
		t.Run(id, func(t *testing.T) {
			s, err := registry.Strategy(id)
			require.NoError(t, err)

			alg, err := New(id, s, input, 0)
			if nonNegativeOnly[id] {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCollection))
				assert.Nil(t, alg)
				return
			}
			require.NoError(t, err)

			alg.Run(context.Background())
			require.True(t, alg.Completed(), "%v", alg.Failure())
			assert.Equal(t, sortedCopy(input), alg.Working())
		})
	}
}

func TestNonNegativeSort_GenerateCollectionFoldsNegatives(t *testing.T) {
	gen, err := NewGenerator(GeneratorConfig{Min: -50, Max: 50, Seed: 3})
	require.NoError(t, err)

	coll := CountingSort{}.GenerateCollection(gen, 200)
	require.Len(t, coll, 200)
	for _, v := range coll {
		assert.GreaterOrEqual(t, v, 0)
	}
}

func TestCountingSort_ExecuteRejectsNegativeDirectly(t *testing.T) {
	_, err := CountingSort{}.Execute([]int{1, -2})
	assert.Error(t, err)

	_, err = BucketSort{}.Execute([]int{1, -2})
	assert.Error(t, err)
}

func TestCountingSort_RejectsValuesAboveLimit(t *testing.T) {
	s := CountingSort{}

	err := s.ValidateCollection([]int{1 << 40, 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCollection))

	_, err = New("counting-sort", s, []int{1 << 40, 3}, 0)
	assert.True(t, errors.Is(err, ErrInvalidCollection))

	assert.NoError(t, s.ValidateCollection([]int{MaxCountingValue, 0}))
	assert.Error(t, s.ValidateCollection([]int{MaxCountingValue + 1}))
}

func TestCountingSort_ExecuteRejectsValuesAboveLimit(t *testing.T) {
	_, err := CountingSort{}.Execute([]int{3, MaxCountingValue + 1})
	assert.Error(t, err)

	out, err := CountingSort{}.Execute([]int{MaxCountingValue, 2, 0})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, MaxCountingValue}, out)
}

func TestCountingSort_OversizedGeneratedInputFailsRun(t *testing.T) {
	gen, err := NewGenerator(GeneratorConfig{Min: 1 << 30, Max: 1 << 31, Seed: 9})
	require.NoError(t, err)

	alg, err := New("counting-sort", CountingSort{}, nil, 4, WithGenerator(gen))
	require.NoError(t, err)
	alg.Run(context.Background())

	assert.False(t, alg.Completed())
	assert.True(t, errors.Is(alg.Failure(), ErrAlgorithmRuntime))
}

func TestBucketSort_KeepsDuplicatesAcrossBuckets(t *testing.T) {
	out, err := BucketSort{}.Execute([]int{9, 0, 4, 9, 4, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 4, 4, 9, 9}, out)
}

func TestPartition_Lomuto(t *testing.T) {
	c := []int{5, 3, 1, 4, 2}
	p := partition(c, 0, len(c)-1)

	// pivot 2 lands at index 1
	assert.Equal(t, 1, p)
	assert.Equal(t, 2, c[p])
	for i := 0; i < p; i++ {
		assert.LessOrEqual(t, c[i], c[p])
	}
	for i := p + 1; i < len(c); i++ {
		assert.Greater(t, c[i], c[p])
	}
}

func TestHeapSort_SiftDownBuildsMaxHeap(t *testing.T) {
	c := []int{1, 5, 3, 9, 2, 8}
	for i := len(c)/2 - 1; i >= 0; i-- {
		siftDown(c, len(c), i)
	}
	for i := range c {
		l, r := 2*i+1, 2*i+2
		if l < len(c) {
			assert.GreaterOrEqual(t, c[i], c[l])
		}
		if r < len(c) {
			assert.GreaterOrEqual(t, c[i], c[r])
		}
	}
	assert.Equal(t, 9, c[0])
}

// =============================================================================
// Stability
// =============================================================================

type keyed struct {
	key int
	idx int
}

func keyOf(k keyed) int { return k.key }

// stableInput returns records with many equal keys, each tagged with its
// original position.
func stableInput() []keyed {
	keys := []int{3, 1, 3, 2, 1, 3, 2, 2, 1, 0, 3, 0}
	out := make([]keyed, len(keys))
	for i, k := range keys {
		out[i] = keyed{key: k, idx: i}
	}
	return out
}

func assertStable(t *testing.T, got []keyed) {
	t.Helper()
	require.Len(t, got, len(stableInput()))
	for i := 0; i+1 < len(got); i++ {
		require.LessOrEqual(t, got[i].key, got[i+1].key, "not sorted at %d", i)
		if got[i].key == got[i+1].key {
			assert.Less(t, got[i].idx, got[i+1].idx, "equal keys reordered at %d", i)
		}
	}
}

func TestInsertionSort_Stable(t *testing.T) {
	c := stableInput()
	insertionSortBy(c, keyOf)
	assertStable(t, c)
}

func TestTopDownMergeSort_Stable(t *testing.T) {
	assertStable(t, topDownBy(stableInput(), keyOf))
}

func TestBottomUpMergeSort_Stable(t *testing.T) {
	c := stableInput()
	bottomUpBy(c, keyOf)
	assertStable(t, c)
}

func TestTopDownMergeSort_DoesNotModifyWorkingArgument(t *testing.T) {
	in := []int{4, 2, 3, 1}
	out, err := TopDownMergeSort{}.Execute(in)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, out)
	assert.Equal(t, []int{4, 2, 3, 1}, in)
}

// =============================================================================
// Metadata
// =============================================================================

func TestSortStrategies_Metadata(t *testing.T) {
	registry := NewSortRegistry()
	names := make(map[string]string)

	for _, id := range registry.IDs() {
		s, err := registry.Strategy(id)
		require.NoError(t, err)

		md, err := s.Metadata()
		require.NoError(t, err, id)
		assert.NotEmpty(t, md.Name, id)
		assert.NotEmpty(t, md.Description, id)
		assert.NotEmpty(t, md.Steps, id)
		assert.NotEmpty(t, md.BestCase, id)
		assert.NotEmpty(t, md.AverageCase, id)
		assert.NotEmpty(t, md.WorstCase, id)

		if other, dup := names[md.Name]; dup {
			t.Errorf("%s and %s share the display name %q", id, other, md.Name)
		}
		names[md.Name] = id
	}
}

func TestSortFamily_DefaultMetadataNotImplemented(t *testing.T) {
	_, err := sortFamily{}.Metadata()
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestSortFamily_VerifyReportsInversion(t *testing.T) {
	v := sortFamily{}.Verify([]int{1, 3, 2})
	assert.False(t, v.OK)
	assert.Contains(t, v.Reason, "index 1 (3) > index 2 (2)")

	assert.True(t, sortFamily{}.Verify([]int{1, 2, 2}).OK)
	assert.True(t, sortFamily{}.Verify(nil).OK)
}

func TestIsSorted(t *testing.T) {
	assert.True(t, IsSorted(nil, false))
	assert.True(t, IsSorted([]int{1}, true))
	assert.True(t, IsSorted([]int{1, 1, 2}, false))
	assert.False(t, IsSorted([]int{2, 1}, false))
	assert.True(t, IsSorted([]int{3, 3, 1}, true))
	assert.False(t, IsSorted([]int{1, 2}, true))
}
