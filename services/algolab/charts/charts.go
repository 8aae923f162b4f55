// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package charts renders benchmark results as SVG line charts.
package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/AleutianAI/AlgoLab/services/algolab/harness"
)

// ContentType is the media type of rendered charts.
const ContentType = "image/svg+xml"

// FailedSeriesName labels the markers drawn over runs that did not verify.
const FailedSeriesName = "failed runs"

var (
	// ErrNilResult is returned when no result set is given.
	ErrNilResult = errors.New("result set is required")

	// ErrNoData is returned when a result set holds no runs to plot.
	ErrNoData = errors.New("result set has no runs to plot")
)

// noStroke hides the connecting line of a series; go-chart only strokes
// positive widths.
const noStroke = -1

var (
	palette = []drawing.Color{
		drawing.ColorFromHex("1f77b4"),
		drawing.ColorFromHex("ff7f0e"),
		drawing.ColorFromHex("2ca02c"),
		drawing.ColorFromHex("9467bd"),
	}
	failedColor = drawing.ColorFromHex("d62728")
)

// labelReplacer keeps names plain text inside the SVG.
var labelReplacer = strings.NewReplacer("<", "‹", ">", "›", "&", "+", `"`, "'")

// Options configures chart rendering.
type Options struct {
	// Width and Height of the SVG in pixels.
	// Default: 800 x 480
	Width  int
	Height int

	// Padding around the canvas in pixels.
	// Default: 40
	Padding int

	// Unit is the time unit of the y axis.
	// Default: time.Microsecond
	Unit time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Width:   800,
		Height:  480,
		Padding: 40,
		Unit:    time.Microsecond,
	}
}

// Generator renders sweep and comparison charts.
//
// # Thread Safety
//
// Safe for concurrent use.
type Generator struct {
	options Options
}

// NewGenerator creates a chart generator. A nil opts uses DefaultOptions.
func NewGenerator(opts *Options) *Generator {
	defaults := DefaultOptions()
	if opts == nil {
		return &Generator{options: defaults}
	}
	o := *opts
	if o.Width <= 0 {
		o.Width = defaults.Width
	}
	if o.Height <= 0 {
		o.Height = defaults.Height
	}
	if o.Padding <= 0 {
		o.Padding = defaults.Padding
	}
	if o.Unit <= 0 {
		o.Unit = defaults.Unit
	}
	return &Generator{options: o}
}

// plot is one chart before it is handed to go-chart.
type plot struct {
	title  string
	xLabel string
	yLabel string
	series []line
}

type line struct {
	name   string
	x, y   []float64
	failed []int // indexes into x and y
}

func (l *line) add(x, y float64, failed bool) {
	if failed {
		l.failed = append(l.failed, len(l.x))
	}
	l.x = append(l.x, x)
	l.y = append(l.y, y)
}

// Sweep renders mean execution time against collection size.
//
// # Inputs
//
//   - ctx: Context for cancellation.
//   - result: A completed sweep.
//
// # Outputs
//
//   - []byte: The SVG document.
//   - error: ErrNilResult, ErrNoData, the context error, or a render failure.
func (g *Generator) Sweep(ctx context.Context, result *harness.BenchmarkResultSet) ([]byte, error) {
	if result == nil {
		return nil, ErrNilResult
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := line{name: result.Algorithm}
	for _, summary := range result.Summaries() {
		if summary.Runs == 0 {
			continue
		}
		l.add(float64(summary.Size), g.scale(summary.Mean), summary.Successful < summary.Runs)
	}
	if len(l.x) == 0 {
		return nil, ErrNoData
	}

	return g.render(plot{
		title:  fmt.Sprintf("%s: mean execution time by collection size", result.Algorithm),
		xLabel: "collection size",
		yLabel: "mean time (" + unitName(g.options.Unit) + ")",
		series: []line{l},
	})
}

// Comparison renders execution time per trial, one series per algorithm.
func (g *Generator) Comparison(ctx context.Context, result *harness.ComparisonResultSet) ([]byte, error) {
	if result == nil {
		return nil, ErrNilResult
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lines []line
	for _, side := range []harness.NamedResults{result.First, result.Second} {
		l := line{name: side.Name}
		for i, p := range side.Results {
			l.add(float64(i+1), g.scale(p.Elapsed), !p.SuccessfulExecution)
		}
		if len(l.x) > 0 {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil, ErrNoData
	}

	return g.render(plot{
		title: fmt.Sprintf("%s vs %s on %d elements",
			result.First.Name, result.Second.Name, len(result.Input())),
		xLabel: "trial",
		yLabel: "time (" + unitName(g.options.Unit) + ")",
		series: lines,
	})
}

func (g *Generator) scale(d time.Duration) float64 {
	return float64(d) / float64(g.options.Unit)
}

// =============================================================================
// Rendering
// =============================================================================

func (g *Generator) render(p plot) ([]byte, error) {
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMax := 0.0
	var failedX, failedY []float64

	series := make([]chart.Series, 0, len(p.series)+1)
	for i, l := range p.series {
		for j := range l.x {
			xMin = math.Min(xMin, l.x[j])
			xMax = math.Max(xMax, l.x[j])
			yMax = math.Max(yMax, l.y[j])
		}
		for _, j := range l.failed {
			failedX = append(failedX, l.x[j])
			failedY = append(failedY, l.y[j])
		}
		color := palette[i%len(palette)]
		series = append(series, chart.ContinuousSeries{
			Name: label(l.name),
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
			XValues: l.x,
			YValues: l.y,
		})
	}
	if len(failedX) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name: FailedSeriesName,
			Style: chart.Style{
				StrokeWidth: noStroke,
				DotColor:    failedColor,
				DotWidth:    6,
			},
			XValues: failedX,
			YValues: failedY,
		})
	}

	// go-chart rejects zero-width ranges, which a single size or all-zero
	// timings would produce
	if xMin == xMax {
		xMin, xMax = xMin-1, xMax+1
	}
	if yMax <= 0 {
		yMax = 1
	}

	pad := g.options.Padding
	c := chart.Chart{
		Title:  label(p.title),
		Width:  g.options.Width,
		Height: g.options.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: pad, Left: pad / 2, Right: pad / 2, Bottom: pad / 2},
		},
		XAxis: chart.XAxis{
			Name:           p.xLabel,
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			ValueFormatter: tickFormatter,
		},
		YAxis: chart.YAxis{
			Name:  p.yLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.1},
		},
		Series: series,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}

	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func label(s string) string {
	return labelReplacer.Replace(s)
}

func tickFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func unitName(unit time.Duration) string {
	switch unit {
	case time.Nanosecond:
		return "ns"
	case time.Microsecond:
		return "µs"
	case time.Millisecond:
		return "ms"
	case time.Second:
		return "s"
	default:
		return unit.String()
	}
}
