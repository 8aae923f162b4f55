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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSortRegistry_Order(t *testing.T) {
	registry := NewSortRegistry()

	assert.Equal(t, []string{
		"insertion-sort",
		"selection-sort",
		"optimised-bubble-sort",
		"traditional-bubble-sort",
		"recursive-quick-sort",
		"iterative-quick-sort",
		"top-down-merge-sort",
		"bottom-up-merge-sort",
		"heap-sort",
		"shell-sort",
		"counting-sort",
		"bucket-sort",
	}, registry.IDs())
	assert.Equal(t, 12, registry.Count())
}

func TestRegistry_RegisterErrors(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("a", func() Strategy { return InsertionSort{} }))

	err := registry.Register("a", func() Strategy { return HeapSort{} })
	assert.True(t, errors.Is(err, ErrAlreadyRegistered))

	err = registry.Register("b", nil)
	assert.True(t, errors.Is(err, ErrNilFactory))

	assert.Equal(t, []string{"a"}, registry.IDs())
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister("a", func() Strategy { return InsertionSort{} })
	assert.Panics(t, func() {
		registry.MustRegister("a", func() Strategy { return InsertionSort{} })
	})
}

func TestRegistry_Lookup(t *testing.T) {
	registry := NewSortRegistry()

	s, err := registry.Strategy("heap-sort")
	require.NoError(t, err)
	assert.IsType(t, HeapSort{}, s)
	assert.True(t, registry.Has("heap-sort"))

	_, err = registry.Strategy("bogo-sort")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAlgorithm))
	assert.Contains(t, err.Error(), "bogo-sort")
	assert.False(t, registry.Has("bogo-sort"))
}

func TestRegistry_IDsReturnsCopy(t *testing.T) {
	registry := NewSortRegistry()
	ids := registry.IDs()
	ids[0] = "mutated"
	assert.Equal(t, "insertion-sort", registry.IDs()[0])
}

func TestRegistry_Families(t *testing.T) {
	registry := NewSortRegistry()
	assert.Equal(t, []Family{FamilySort}, registry.Families())

	registry.MustRegister("max-search", func() Strategy { return maxSearch{} })
	assert.Equal(t, []Family{FamilySort, Family("searching")}, registry.Families())
}

func TestRegistry_ByFamily(t *testing.T) {
	registry := NewSortRegistry()
	registry.MustRegister("max-search", func() Strategy { return maxSearch{} })
	registry.MustRegister("unnamed-sort", func() Strategy { return brokenSort{} })

	sorts := registry.ByFamily(FamilySort)
	assert.Len(t, sorts, 13)
	assert.Equal(t, "Insertion Sort", sorts["insertion-sort"])
	assert.Equal(t, "unnamed-sort", sorts["unnamed-sort"], "falls back to id without metadata")
	assert.NotContains(t, sorts, "max-search")

	assert.Equal(t, map[string]string{"max-search": "Max Search"}, registry.ByFamily(Family("searching")))
	assert.Empty(t, registry.ByFamily(Family("graph")))
}
