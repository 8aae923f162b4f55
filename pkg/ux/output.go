// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux provides terminal output styling for the AlgoLab CLI.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// AlgoLab color palette
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7") // highlights, success
	ColorTealPrimary = lipgloss.Color("#20B9B4") // headings
	ColorTealDeep    = lipgloss.Color("#16858E") // borders
	ColorSlate       = lipgloss.Color("#2C4A54") // muted text

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Header    lipgloss.Style
	Box       lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorTealPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorTealBright).Bold(true),
	Header:    lipgloss.NewStyle().Bold(true).Foreground(ColorTealPrimary),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// =============================================================================
// Modes
// =============================================================================

// Mode selects how a Printer renders.
type Mode int

const (
	// ModeRich uses colors, icons and padded tables.
	ModeRich Mode = iota

	// ModePlain writes undecorated text with tab-separated tables, suitable
	// for pipes and scripts.
	ModePlain
)

// DetectMode returns ModeRich when f is a terminal and NO_COLOR is unset.
func DetectMode(f *os.File) Mode {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return ModePlain
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return ModeRich
	}
	return ModePlain
}

// =============================================================================
// Printer
// =============================================================================

// Printer writes styled output. Errors and warnings go to the error stream.
//
// # Thread Safety
//
// Not safe for concurrent use.
type Printer struct {
	out  io.Writer
	err  io.Writer
	mode Mode
}

// NewPrinter creates a Printer. Nil writers default to stdout and stderr.
func NewPrinter(out, errOut io.Writer, mode Mode) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{out: out, err: errOut, mode: mode}
}

// Mode returns the render mode.
func (p *Printer) Mode() Mode { return p.mode }

// Out returns the standard output stream.
func (p *Printer) Out() io.Writer { return p.out }

// Title prints a styled title. Plain mode prints nothing.
func (p *Printer) Title(text string) {
	if p.mode == ModePlain {
		return
	}
	fmt.Fprintln(p.out, Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func (p *Printer) Success(text string) {
	if p.mode == ModePlain {
		fmt.Fprintf(p.out, "OK: %s\n", text)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
}

// Warning prints a warning message
func (p *Printer) Warning(text string) {
	if p.mode == ModePlain {
		fmt.Fprintf(p.err, "WARN: %s\n", text)
		return
	}
	fmt.Fprintf(p.err, "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
}

// Error prints an error message
func (p *Printer) Error(text string) {
	if p.mode == ModePlain {
		fmt.Fprintf(p.err, "ERROR: %s\n", text)
		return
	}
	fmt.Fprintf(p.err, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
}

// Info prints an informational message
func (p *Printer) Info(text string) {
	if p.mode == ModePlain {
		fmt.Fprintln(p.out, text)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", Styles.Muted.Render("│"), text)
}

// KeyValue prints an aligned "key: value" line.
func (p *Printer) KeyValue(key, value string) {
	if p.mode == ModePlain {
		fmt.Fprintf(p.out, "%s\t%s\n", key, value)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", Styles.Bold.Render(fmt.Sprintf("%-14s", key+":")), value)
}

// Box prints text in a rounded box
func (p *Printer) Box(title, content string) {
	if p.mode == ModePlain {
		fmt.Fprintf(p.out, "%s: %s\n", title, content)
		return
	}
	fmt.Fprintln(p.out, Styles.Box.Width(72).Render(Styles.Title.Render(title)+"\n"+content))
}

// Table prints rows under headers. Rich mode pads columns to the widest
// cell; plain mode joins cells with tabs.
func (p *Printer) Table(headers []string, rows [][]string) {
	if p.mode == ModePlain {
		fmt.Fprintln(p.out, strings.Join(headers, "\t"))
		for _, row := range rows {
			fmt.Fprintln(p.out, strings.Join(row, "\t"))
		}
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			if style != nil {
				cell = style.Render(cell)
			}
			parts[i] = cell + strings.Repeat(" ", pad)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(p.out, line(headers, &Styles.Header))
	for _, row := range rows {
		fmt.Fprintln(p.out, line(row, nil))
	}
}

// Bar renders value as a horizontal bar relative to max. Plain mode returns
// an empty string.
func (p *Printer) Bar(value, max float64, width int) string {
	if p.mode == ModePlain || max <= 0 || width <= 0 {
		return ""
	}
	filled := int(value / max * float64(width))
	if filled > width {
		filled = width
	}
	return Styles.Success.Render(repeatChar('█', filled)) +
		Styles.Muted.Render(repeatChar('░', width-filled))
}

func repeatChar(c rune, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(c), n)
}
