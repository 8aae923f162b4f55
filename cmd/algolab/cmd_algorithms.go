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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
	"github.com/AleutianAI/AlgoLab/services/algolab/datatypes"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the registered algorithms",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			registry := algorithms.NewSortRegistry()
			if a.jsonOutput {
				return a.writeJSON(datatypes.AlgorithmListResponse{AvailableAlgorithms: registry.IDs()})
			}

			var rows [][]string
			for _, family := range registry.Families() {
				names := registry.ByFamily(family)
				for _, id := range registry.IDs() {
					if name, ok := names[id]; ok {
						rows = append(rows, []string{id, string(family), name})
					}
				}
			}
			a.printer.Title(fmt.Sprintf("%d algorithms", registry.Count()))
			a.printer.Table([]string{"ID", "FAMILY", "NAME"}, rows)
			return nil
		},
	}
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <algorithm>",
		Short: "Show the description, steps and complexity of an algorithm",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id := args[0]
			strategy, err := algorithms.NewSortRegistry().Strategy(id)
			if err != nil {
				return fmt.Errorf("Algorithm '%s' doesn't exist.", id)
			}
			md, err := strategy.Metadata()
			if errors.Is(err, algorithms.ErrNotImplemented) {
				return fmt.Errorf("There is no metadata available for the %s algorithm.", id)
			}
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.writeJSON(md)
			}

			a.printer.Title(md.Name)
			a.printer.KeyValue("id", id)
			a.printer.KeyValue("family", string(strategy.Family()))
			a.printer.KeyValue("best case", md.BestCase)
			a.printer.KeyValue("average case", md.AverageCase)
			a.printer.KeyValue("worst case", md.WorstCase)
			a.printer.Box("Description", md.Description)
			steps := make([]string, len(md.Steps))
			for i, step := range md.Steps {
				steps[i] = fmt.Sprintf("%d. %s", i+1, step)
			}
			a.printer.Box("Steps", strings.Join(steps, "\n"))
			return nil
		},
	}
}
