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
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AlgoLab/services/algolab/config"
)

const redacted = "[REDACTED]"

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init <path>",
		Short: "Write the default configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := config.WriteDefault(args[0]); err != nil {
				return err
			}
			a.printer.Success("wrote default configuration to " + args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after file and environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			shown := *a.cfg
			if shown.Influx.Token != "" {
				shown.Influx.Token = redacted
			}
			if a.jsonOutput {
				return a.writeJSON(shown)
			}
			enc := yaml.NewEncoder(a.out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(shown)
		},
	})
	return cmd
}
