// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrinter(mode Mode) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewPrinter(&out, &errOut, mode), &out, &errOut
}

// =============================================================================
// Icon.Render Tests
// =============================================================================

func TestIcon_Render(t *testing.T) {
	for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconArrow, IconBullet} {
		assert.Contains(t, icon.Render(), string(icon))
	}
}

// =============================================================================
// Printer Tests
// =============================================================================

func TestPrinter_PlainMessages(t *testing.T) {
	p, out, errOut := newTestPrinter(ModePlain)

	p.Title("ignored")
	p.Success("done")
	p.Info("note")
	p.KeyValue("name", "Heap sort")
	p.Warning("careful")
	p.Error("broken")

	assert.Equal(t, "OK: done\nnote\nname\tHeap sort\n", out.String())
	assert.Equal(t, "WARN: careful\nERROR: broken\n", errOut.String())
}

func TestPrinter_RichMessages(t *testing.T) {
	p, out, errOut := newTestPrinter(ModeRich)

	p.Title("AlgoLab")
	p.Success("done")
	p.Error("broken")

	assert.Contains(t, out.String(), "AlgoLab")
	assert.Contains(t, out.String(), "done")
	assert.Contains(t, errOut.String(), "broken")
}

func TestPrinter_PlainTable(t *testing.T) {
	p, out, _ := newTestPrinter(ModePlain)
	p.Table([]string{"id", "name"}, [][]string{{"heap-sort", "Heap sort"}, {"shell-sort", "Shell sort"}})

	assert.Equal(t, "id\tname\nheap-sort\tHeap sort\nshell-sort\tShell sort\n", out.String())
}

func TestPrinter_RichTableAlignsColumns(t *testing.T) {
	p, out, _ := newTestPrinter(ModeRich)
	p.Table([]string{"id", "runs"}, [][]string{{"insertion-sort", "5"}, {"heap-sort", "12"}})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "insertion-sort  5"))
	assert.True(t, strings.HasPrefix(lines[2], "heap-sort       12"))
}

func TestPrinter_Bar(t *testing.T) {
	rich, _, _ := newTestPrinter(ModeRich)
	assert.NotEmpty(t, rich.Bar(5, 10, 10))
	assert.Empty(t, rich.Bar(5, 0, 10))

	plain, _, _ := newTestPrinter(ModePlain)
	assert.Empty(t, plain.Bar(5, 10, 10))
}

func TestNewPrinter_DefaultsWriters(t *testing.T) {
	p := NewPrinter(nil, nil, ModePlain)
	assert.Equal(t, os.Stdout, p.Out())
	assert.Equal(t, ModePlain, p.Mode())
}

func TestDetectMode_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, ModePlain, DetectMode(os.Stdout))
}

func TestRepeatChar(t *testing.T) {
	assert.Equal(t, "", repeatChar('x', 0))
	assert.Equal(t, "xxx", repeatChar('x', 3))
}
