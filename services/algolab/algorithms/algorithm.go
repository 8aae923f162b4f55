// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package algorithms implements the algorithm execution framework for AlgoLab.
//
// # Description
//
// Every runnable algorithm is a Strategy: a set of hooks (generate, validate,
// execute, verify, metadata) driven by a shared lifecycle owned by Algorithm.
// The lifecycle copies the input into a private working buffer, times the
// execute step, verifies the result and records the outcome. A failed run is
// a normal, reportable outcome and never escapes Run.
//
// # Lifecycle
//
//	New(id, strategy, data, size) -> generate or validate input
//	Run(ctx)                      -> copy, time execute, verify
//	Projection()                  -> transport-neutral record
//
// # Thread Safety
//
// An Algorithm instance is owned by one goroutine for its whole life.
// Strategies are stateless and may be shared.
package algorithms

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("algolab.algorithms")

// =============================================================================
// Strategy Contract
// =============================================================================

// Family identifies the computational problem a strategy solves. Two
// strategies may only be compared when their families are equal.
type Family string

const (
	// FamilySort is the family of algorithms that sort a flat integer sequence
	// into ascending order.
	FamilySort Family = "sorting"
)

// String returns the family name.
func (f Family) String() string {
	return string(f)
}

// Verdict is the result of a strategy's correctness check.
//
// # Description
//
// Verify returns a Verdict instead of raising, so the lifecycle driver can
// record a wrong answer the same way it records an execution error.
type Verdict struct {
	// OK is true when the working collection is a correct answer.
	OK bool

	// Reason explains a failed verdict. Empty when OK.
	Reason string
}

// Pass returns a successful verdict.
func Pass() Verdict {
	return Verdict{OK: true}
}

// Fail returns a failed verdict carrying reason.
func Fail(reason string) Verdict {
	return Verdict{OK: false, Reason: reason}
}

// Metadata is the static descriptive record of a strategy.
type Metadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	BestCase    string   `json:"best_case"`
	AverageCase string   `json:"average_case"`
	WorstCase   string   `json:"worst_case"`
}

// Strategy is the contract every concrete algorithm implements.
//
// # Description
//
// The lifecycle owns timing and state; a Strategy only provides the hooks.
// Execute receives the instance's private working buffer. It may sort the
// buffer in place and return it, or return a freshly built slice.
//
// # Thread Safety
//
// Implementations must not keep per-run state; one value may serve many
// concurrent instances.
type Strategy interface {
	// Family returns the problem family this strategy belongs to.
	Family() Family

	// GenerateCollection builds an input of the requested size.
	GenerateCollection(gen *Generator, size int) []int

	// ValidateCollection rejects inputs outside the strategy's contract.
	// Rejections wrap ErrInvalidCollection.
	ValidateCollection(data []int) error

	// Execute runs the algorithm over working.
	Execute(working []int) ([]int, error)

	// Verify checks the output of Execute.
	Verify(working []int) Verdict

	// Metadata returns the descriptive record, or ErrNotImplemented.
	Metadata() (Metadata, error)
}

// AuxiliaryOutputter is implemented by strategies whose answer is not the
// working sequence itself, such as a search returning an index. When present,
// the projection reports AuxiliaryOutput instead of the working collection.
type AuxiliaryOutputter interface {
	AuxiliaryOutput(working []int) any
}

// Observer receives one callback per finished run. The metrics layer
// implements it so the core does not depend on a metrics backend.
type Observer interface {
	ObserveRun(algorithm string, size int, elapsed time.Duration, completed bool)
}

type nopObserver struct{}

func (nopObserver) ObserveRun(string, int, time.Duration, bool) {}

// =============================================================================
// Options
// =============================================================================

type options struct {
	logger    *slog.Logger
	observer  Observer
	generator *Generator
}

// Option configures an Algorithm.
type Option func(*options)

// WithLogger sets the logger used to report failed runs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver registers an observer notified after each run.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithGenerator sets the generator used when no input collection is given.
func WithGenerator(gen *Generator) Option {
	return func(o *options) {
		if gen != nil {
			o.generator = gen
		}
	}
}

// =============================================================================
// Algorithm
// =============================================================================

// Algorithm is one execution of a Strategy.
//
// # Description
//
// Algorithm holds the immutable input, the private working copy, timing of
// the execute step and the completion flag. Construct with New.
//
// # Invariants
//
//   - working is only ever produced by copying input; the two never alias.
//   - start, end and elapsed bracket Execute only.
//   - completed is true only if Execute returned no error and Verify passed.
type Algorithm struct {
	id       string
	strategy Strategy

	input   []int
	working []int
	output  any

	start   time.Time
	end     time.Time
	elapsed time.Duration

	started   bool
	completed bool
	failure   error

	logger   *slog.Logger
	observer Observer
}

// New constructs an Algorithm instance.
//
// # Description
//
// When data is nil or empty the strategy generates a collection of the given
// size. Otherwise data is validated by the strategy and copied, so callers may
// reuse their slice for other instances.
//
// # Inputs
//
//   - id: Registry identifier, used in logs, metrics and projections.
//   - s: The strategy to run. Must not be nil.
//   - data: Optional explicit input.
//   - size: Size of the generated input when data is empty.
//   - opts: Logger, observer and generator overrides.
//
// # Outputs
//
//   - *Algorithm: Ready to Run. Nil on error.
//   - error: Wraps ErrInvalidCollection if the input is rejected.
func New(id string, s Strategy, data []int, size int, opts ...Option) (*Algorithm, error) {
	if s == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNilFactory)
	}

	o := options{
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.generator == nil {
		o.generator = DefaultGenerator()
	}

	var input []int
	if len(data) == 0 {
		if size < 0 {
			return nil, fmt.Errorf("%w: size must be non-negative, got %d", ErrInvalidCollection, size)
		}
		input = s.GenerateCollection(o.generator, size)
	} else {
		if err := s.ValidateCollection(data); err != nil {
			return nil, err
		}
		input = append([]int(nil), data...)
	}

	return &Algorithm{
		id:       id,
		strategy: s,
		input:    input,
		logger:   o.logger.With("algorithm", id),
		observer: o.observer,
	}, nil
}

// Run executes the strategy once.
//
// # Description
//
// Run is a no-op once the instance has completed. Otherwise it copies the
// input into a fresh working buffer, times Execute, and verifies the result.
// Execution errors, panics raised by Execute and failed verdicts are recorded
// as a failure wrapping ErrAlgorithmRuntime and logged; they are never
// returned or re-panicked. A failed instance may be run again.
//
// # Inputs
//
//   - ctx: Carries the trace span. Execute itself is not interruptible.
func (a *Algorithm) Run(ctx context.Context) {
	if a.completed {
		return
	}

	_, span := tracer.Start(ctx, "algorithm.run")
	defer span.End()

	a.working = append(make([]int, 0, len(a.input)), a.input...)
	a.output = nil
	a.failure = nil
	a.started = true

	a.start = time.Now()
	result, err := a.execute()
	a.end = time.Now()
	a.elapsed = a.end.Sub(a.start)

	if err == nil {
		if result == nil {
			result = []int{}
		}
		a.working = result
		if verdict := a.strategy.Verify(a.working); !verdict.OK {
			err = fmt.Errorf("%w: %s", ErrAlgorithmRuntime, verdict.Reason)
		}
	}

	if err != nil {
		a.failure = err
		a.completed = false
		a.logger.Warn("algorithm run failed",
			"size", len(a.input),
			"elapsed", a.elapsed,
			"error", err)
	} else {
		a.completed = true
		if aux, ok := a.strategy.(AuxiliaryOutputter); ok {
			a.output = aux.AuxiliaryOutput(a.working)
		}
		a.logger.Debug("algorithm run completed", "size", len(a.input), "elapsed", a.elapsed)
	}

	span.SetAttributes(
		attribute.String("algorithm.id", a.id),
		attribute.Int("algorithm.size", len(a.input)),
		attribute.Bool("algorithm.completed", a.completed),
	)
	a.observer.ObserveRun(a.id, len(a.input), a.elapsed, a.completed)
}

// execute calls the strategy and converts panics into runtime errors.
func (a *Algorithm) execute() (result []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: execute panicked: %v", ErrAlgorithmRuntime, r)
		}
	}()

	result, err = a.strategy.Execute(a.working)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAlgorithmRuntime, err)
	}
	return result, nil
}

// ID returns the registry identifier the instance was created with.
func (a *Algorithm) ID() string { return a.id }

// Strategy returns the strategy driven by this instance.
func (a *Algorithm) Strategy() Strategy { return a.strategy }

// Input returns the input collection. Callers must not modify it.
func (a *Algorithm) Input() []int { return a.input }

// Working returns the working collection, nil before the first Run.
func (a *Algorithm) Working() []int { return a.working }

// Output returns the auxiliary output, nil for sorts.
func (a *Algorithm) Output() any { return a.output }

// Completed reports whether the last Run executed and verified cleanly.
func (a *Algorithm) Completed() bool { return a.completed }

// Started reports whether Run has been called at least once.
func (a *Algorithm) Started() bool { return a.started }

// Elapsed returns the duration of the last execute step.
func (a *Algorithm) Elapsed() time.Duration { return a.elapsed }

// StartTime returns when the last execute step began.
func (a *Algorithm) StartTime() time.Time { return a.start }

// EndTime returns when the last execute step finished.
func (a *Algorithm) EndTime() time.Time { return a.end }

// Failure returns the recorded failure of the last Run, nil on success.
func (a *Algorithm) Failure() error { return a.failure }

// Metadata returns the strategy's descriptive record.
func (a *Algorithm) Metadata() (Metadata, error) { return a.strategy.Metadata() }
