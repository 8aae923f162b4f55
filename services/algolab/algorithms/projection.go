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
	"encoding/json"
	"time"
)

// TimestampLayout is the wire format of execution_start and execution_end.
const TimestampLayout = "2006-01-02 15:04:05"

// Projection is the transport-neutral record of one run.
//
// # Description
//
// A Projection snapshots an Algorithm after Run: its input, its output (the
// working collection, or the auxiliary output when the strategy has one),
// timing of the execute step and the success flag. It shares no memory with
// the instance it was taken from.
type Projection struct {
	Algorithm           string
	SuccessfulExecution bool
	Input               []int
	Output              any
	Start               time.Time
	End                 time.Time
	Elapsed             time.Duration
	Error               string
}

// Projection snapshots the instance.
func (a *Algorithm) Projection() Projection {
	p := Projection{
		Algorithm:           a.id,
		SuccessfulExecution: a.completed,
		Input:               append(make([]int, 0, len(a.input)), a.input...),
		Start:               a.start,
		End:                 a.end,
		Elapsed:             a.elapsed,
	}
	if a.output != nil {
		p.Output = a.output
	} else if a.working != nil {
		p.Output = append(make([]int, 0, len(a.working)), a.working...)
	}
	if a.failure != nil {
		p.Error = a.failure.Error()
	}
	return p
}

// Size returns the length of the input collection.
func (p Projection) Size() int {
	return len(p.Input)
}

// OutputInts returns the output as a sequence, or nil when the output is an
// auxiliary scalar or the run never started.
func (p Projection) OutputInts() []int {
	ints, _ := p.Output.([]int)
	return ints
}

type projectionJSON struct {
	SuccessfulExecution bool   `json:"successful_execution"`
	Input               []int  `json:"input"`
	Output              any    `json:"output"`
	ExecutionStart      string `json:"execution_start"`
	ExecutionEnd        string `json:"execution_end"`
	ExecutionTime       string `json:"execution_time"`
	ExecutionTimeNanos  int64  `json:"execution_time_ns"`
	Error               string `json:"error,omitempty"`
}

// MarshalJSON renders the wire shape used by the HTTP API and the CLI.
// Unset timestamps render as empty strings.
func (p Projection) MarshalJSON() ([]byte, error) {
	out := projectionJSON{
		SuccessfulExecution: p.SuccessfulExecution,
		Input:               p.Input,
		Output:              p.Output,
		ExecutionTime:       p.Elapsed.String(),
		ExecutionTimeNanos:  p.Elapsed.Nanoseconds(),
		Error:               p.Error,
	}
	if out.Input == nil {
		out.Input = []int{}
	}
	if !p.Start.IsZero() {
		out.ExecutionStart = p.Start.Format(TimestampLayout)
	}
	if !p.End.IsZero() {
		out.ExecutionEnd = p.End.Format(TimestampLayout)
	}
	return json.Marshal(out)
}
