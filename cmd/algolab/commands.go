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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AlgoLab/pkg/logging"
	"github.com/AleutianAI/AlgoLab/pkg/ux"
	"github.com/AleutianAI/AlgoLab/services/algolab"
	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
	"github.com/AleutianAI/AlgoLab/services/algolab/config"
	"github.com/AleutianAI/AlgoLab/services/algolab/harness"
)

// app holds the state shared by every command after flag parsing.
type app struct {
	configPath string
	logLevel   string
	jsonOutput bool

	out    io.Writer
	errOut io.Writer

	cfg     *config.Config
	logger  *logging.Logger
	printer *ux.Printer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "algolab",
		Short: "Run, benchmark and compare algorithm implementations",
		Long: `AlgoLab executes registered algorithms on generated or supplied
collections, checks their output, and benchmarks them across input sizes.
Use "algolab serve" to expose the same operations over HTTP.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.teardown() },
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", os.Getenv("ALGOLAB_CONFIG"),
		"Path to the YAML config file (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"Override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false,
		"Print results as JSON instead of tables")

	rootCmd.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newDescribeCmd(a),
		newRunCmd(a),
		newBenchCmd(a),
		newCompareCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

// setup loads configuration and builds the logger and printer.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "algolab",
		JSON:    cfg.Logging.JSON,
		Output:  a.errOut,
	})

	mode := ux.ModePlain
	if f, ok := a.out.(*os.File); ok {
		mode = ux.DetectMode(f)
	}
	a.printer = ux.NewPrinter(a.out, a.errOut, mode)
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

// newHarness builds a harness over the sort registry using the loaded
// generator and benchmark settings.
func (a *app) newHarness() (*harness.Harness, error) {
	return algolab.NewHarness(a.cfg, algorithms.NewSortRegistry(), nil, a.logger.Slog())
}

// writeJSON prints v as indented JSON.
func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
