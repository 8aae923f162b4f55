// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
	"github.com/AleutianAI/AlgoLab/services/algolab/charts"
	"github.com/AleutianAI/AlgoLab/services/algolab/datatypes"
	"github.com/AleutianAI/AlgoLab/services/algolab/harness"
)

// =============================================================================
// run
// =============================================================================

func newRunCmd(a *app) *cobra.Command {
	var (
		collection string
		size       int
	)
	cmd := &cobra.Command{
		Use:   "run <algorithm>",
		Short: "Run an algorithm once and verify its output",
		Example: `  algolab run heap-sort --collection 5,3,1,4,2
  algolab run counting-sort --size 25 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := parseCollection(collection)
			if err != nil {
				return err
			}
			if size == 0 {
				size = a.cfg.Defaults.RunSize
			}
			h, err := a.newHarness()
			if err != nil {
				return err
			}

			p, err := h.Run(cmd.Context(), harness.RunConfig{Algorithm: args[0], Collection: coll, Size: size})
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.writeJSON(p)
			}

			a.printer.Title(args[0])
			a.printer.KeyValue("input", formatInts(p.Input))
			if out := p.OutputInts(); out != nil {
				a.printer.KeyValue("output", formatInts(out))
			}
			a.printer.KeyValue("elapsed", p.Elapsed.String())
			if p.SuccessfulExecution {
				a.printer.Success("output verified")
				return nil
			}
			a.printer.Error(p.Error)
			return fmt.Errorf("%s failed verification", args[0])
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "", "Comma-separated integers to run on")
	cmd.Flags().IntVarP(&size, "size", "n", 0, "Generated input size when no collection is given")
	return cmd
}

// =============================================================================
// bench
// =============================================================================

func newBenchCmd(a *app) *cobra.Command {
	var (
		minSize, maxSize, step, repeats int
		chartPath                       string
	)
	cmd := &cobra.Command{
		Use:     "bench <algorithm>",
		Aliases: []string{"test"},
		Short:   "Benchmark an algorithm across a range of input sizes",
		Example: `  algolab bench insertion-sort --min 10 --max 500 --step 10 --repeats 3 --chart insertion.svg`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := datatypes.ActionRequest{Options: &datatypes.ActionOptions{
				MinSize: minSize, MaxSize: maxSize, Jump: step, Repeats: repeats,
			}}
			opts, err := req.ResolveOptions(a.cfg.Defaults, false)
			if err != nil {
				return err
			}
			if err := opts.CheckLimits(a.cfg.Limits); err != nil {
				return err
			}
			h, err := a.newHarness()
			if err != nil {
				return err
			}

			sweep := harness.SweepConfig{
				Algorithm: args[0],
				MinSize:   opts.MinSize,
				MaxSize:   opts.MaxSize,
				Step:      opts.Jump,
				Repeats:   opts.Repeats,
			}
			spinner := a.printer.Spinner(fmt.Sprintf("benchmarking %s (%d runs)", args[0], sweep.TotalRuns()))
			spinner.Start()
			result, err := h.Sweep(cmd.Context(), sweep)
			spinner.Stop()
			if err != nil {
				return err
			}
			if chartPath != "" {
				if err := a.writeChart(cmd.Context(), chartPath, func(g *charts.Generator) ([]byte, error) {
					return g.Sweep(cmd.Context(), result)
				}); err != nil {
					return err
				}
			}
			if a.jsonOutput {
				return a.writeJSON(datatypes.SweepResponse{Result: result})
			}

			summaries := result.Summaries()
			var slowest time.Duration
			for _, s := range summaries {
				slowest = max(slowest, s.Mean)
			}
			rows := make([][]string, len(summaries))
			for i, s := range summaries {
				rows[i] = []string{
					strconv.Itoa(s.Size),
					fmt.Sprintf("%d/%d", s.Successful, s.Runs),
					s.Mean.String(),
					s.Median.String(),
					s.Min.String(),
					s.Max.String(),
					a.printer.Bar(float64(s.Mean), float64(slowest), 20),
				}
			}
			a.printer.Title(fmt.Sprintf("%s: %d runs", args[0], len(result.Projections())))
			a.printer.Table([]string{"SIZE", "OK", "MEAN", "MEDIAN", "MIN", "MAX", ""}, rows)
			if chartPath != "" {
				a.printer.Success("chart written to " + chartPath)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&minSize, "min", 0, "Smallest input size (default from config)")
	cmd.Flags().IntVar(&maxSize, "max", 0, "Largest input size (default from config)")
	cmd.Flags().IntVar(&step, "step", 0, "Size increment (default from config)")
	cmd.Flags().IntVarP(&repeats, "repeats", "r", 0, "Runs per size (default from config)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Write an SVG chart of mean time by size to this file")
	return cmd
}

// =============================================================================
// compare
// =============================================================================

func newCompareCmd(a *app) *cobra.Command {
	var (
		collection                string
		repeats, minSize, maxSize int
		chartPath                 string
	)
	cmd := &cobra.Command{
		Use:     "compare <first> <second>",
		Short:   "Race two algorithms on the same input",
		Example: `  algolab compare insertion-sort heap-sort --min 50 --max 200 --repeats 20`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := parseCollection(collection)
			if err != nil {
				return err
			}
			req := datatypes.ActionRequest{Options: &datatypes.ActionOptions{
				MinSize: minSize, MaxSize: maxSize, Repeats: repeats,
			}}
			opts, err := req.ResolveOptions(a.cfg.Defaults, true)
			if err != nil {
				return err
			}
			if err := opts.CheckCompareLimits(a.cfg.Limits); err != nil {
				return err
			}
			h, err := a.newHarness()
			if err != nil {
				return err
			}

			spinner := a.printer.Spinner(fmt.Sprintf("comparing %s and %s", args[0], args[1]))
			spinner.Start()
			result, err := h.Compare(cmd.Context(), harness.CompareConfig{
				First:      args[0],
				Second:     args[1],
				Collection: coll,
				Repeats:    opts.Repeats,
				MinSize:    opts.MinSize,
				MaxSize:    opts.MaxSize,
			})
			spinner.Stop()
			if err != nil {
				return err
			}
			if chartPath != "" {
				if err := a.writeChart(cmd.Context(), chartPath, func(g *charts.Generator) ([]byte, error) {
					return g.Comparison(cmd.Context(), result)
				}); err != nil {
					return err
				}
			}
			if a.jsonOutput {
				return a.writeJSON(datatypes.NewCompareResponse(result, nil))
			}

			first, second := result.Summaries()
			row := func(name string, s harness.Summary) []string {
				return []string{name, fmt.Sprintf("%d/%d", s.Successful, s.Runs),
					s.Mean.String(), s.Median.String(), s.Min.String(), s.Max.String()}
			}
			a.printer.Title(fmt.Sprintf("%s vs %s on %d elements", args[0], args[1], first.Size))
			a.printer.Table([]string{"ALGORITHM", "OK", "MEAN", "MEDIAN", "MIN", "MAX"},
				[][]string{row(args[0], first), row(args[1], second)})

			switch {
			case first.Mean < second.Mean:
				a.printer.Info(fmt.Sprintf("%s was faster on average", args[0]))
			case second.Mean < first.Mean:
				a.printer.Info(fmt.Sprintf("%s was faster on average", args[1]))
			}
			if chartPath != "" {
				a.printer.Success("chart written to " + chartPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "", "Comma-separated integers shared by both runs")
	cmd.Flags().IntVarP(&repeats, "repeats", "r", 0, "Paired trials (default from config)")
	cmd.Flags().IntVar(&minSize, "min", 0, "Smallest generated input size")
	cmd.Flags().IntVar(&maxSize, "max", 0, "Largest generated input size")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Write an SVG chart of per-trial times to this file")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

func (a *app) writeChart(ctx context.Context, path string, render func(*charts.Generator) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	svg, err := render(charts.NewGenerator(nil))
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := os.WriteFile(path, svg, 0644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	a.logger.Debug("chart written", "path", path, "bytes", len(svg))
	return nil
}

// parseCollection reads "5,3,1" style input. Empty means none.
func parseCollection(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", algorithms.ErrInvalidCollection, f)
		}
		out = append(out, n)
	}
	return out, nil
}

func formatInts(values []int) string {
	const limit = 20
	parts := make([]string, 0, min(len(values), limit))
	for i, v := range values {
		if i == limit {
			parts = append(parts, fmt.Sprintf("... (%d more)", len(values)-limit))
			break
		}
		parts = append(parts, strconv.Itoa(v))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
