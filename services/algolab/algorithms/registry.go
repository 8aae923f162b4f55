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
	"fmt"
	"sync"
)

// Factory constructs a Strategy for one instance.
type Factory func() Strategy

// Registry maps algorithm identifiers to strategy factories.
//
// # Description
//
// The Registry is the only way identifiers are resolved to strategies; the
// boundary layer looks identifiers up here and reports unknown ones as "not
// found" before the core is involved. Identifiers are listed in registration
// order.
//
// Thread Safety: Safe for concurrent use via read-write mutex.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
}

// NewRegistry creates a new empty registry.
//
// Example:
//
//	registry := algorithms.NewRegistry()
//	registry.MustRegister("insertion-sort", func() algorithms.Strategy { return algorithms.InsertionSort{} })
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// NewSortRegistry returns a registry holding the twelve sorting strategies.
func NewSortRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("insertion-sort", func() Strategy { return InsertionSort{} })
	r.MustRegister("selection-sort", func() Strategy { return SelectionSort{} })
	r.MustRegister("optimised-bubble-sort", func() Strategy { return OptimisedBubbleSort{} })
	r.MustRegister("traditional-bubble-sort", func() Strategy { return TraditionalBubbleSort{} })
	r.MustRegister("recursive-quick-sort", func() Strategy { return RecursiveQuickSort{} })
	r.MustRegister("iterative-quick-sort", func() Strategy { return IterativeQuickSort{} })
	r.MustRegister("top-down-merge-sort", func() Strategy { return TopDownMergeSort{} })
	r.MustRegister("bottom-up-merge-sort", func() Strategy { return BottomUpMergeSort{} })
	r.MustRegister("heap-sort", func() Strategy { return HeapSort{} })
	r.MustRegister("shell-sort", func() Strategy { return ShellSort{} })
	r.MustRegister("counting-sort", func() Strategy { return CountingSort{} })
	r.MustRegister("bucket-sort", func() Strategy { return BucketSort{} })
	return r
}

// Register adds a factory under id.
//
// # Outputs
//
//   - error: ErrNilFactory if factory is nil, ErrAlreadyRegistered if id is
//     already taken.
func (r *Registry) Register(id string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("%w: %s", ErrNilFactory, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, id)
	}
	r.factories[id] = factory
	r.order = append(r.order, id)
	return nil
}

// MustRegister registers a factory and panics on error. Only for use during
// initialization.
func (r *Registry) MustRegister(id string, factory Factory) {
	if err := r.Register(id, factory); err != nil {
		panic(fmt.Sprintf("algorithms: failed to register %s: %v", id, err))
	}
}

// Lookup returns the factory registered under id.
//
// # Outputs
//
//   - Factory: The factory. Nil on error.
//   - error: Wraps ErrUnknownAlgorithm if id is not registered.
func (r *Registry) Lookup(id string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, id)
	}
	return factory, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, err := r.Lookup(id)
	return err == nil
}

// Strategy resolves id and constructs its strategy.
func (r *Registry) Strategy(id string) (Strategy, error) {
	factory, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	return factory(), nil
}

// IDs returns all identifiers in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Families returns the distinct families of all registered strategies, in
// order of first registration.
func (r *Registry) Families() []Family {
	seen := make(map[Family]bool)
	var families []Family
	for _, id := range r.IDs() {
		s, err := r.Strategy(id)
		if err != nil {
			continue
		}
		if f := s.Family(); !seen[f] {
			seen[f] = true
			families = append(families, f)
		}
	}
	return families
}

// ByFamily returns id -> display name for every strategy in family. The
// display name falls back to the id when metadata is not implemented.
func (r *Registry) ByFamily(family Family) map[string]string {
	result := make(map[string]string)
	for _, id := range r.IDs() {
		s, err := r.Strategy(id)
		if err != nil || s.Family() != family {
			continue
		}
		name := id
		if md, err := s.Metadata(); err == nil && md.Name != "" {
			name = md.Name
		}
		result[id] = name
	}
	return result
}

// Count returns the number of registered identifiers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
