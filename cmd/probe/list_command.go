// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(global *globalOptions) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored quality reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(global.server, global.timeout)
			if err != nil {
				return err
			}
			reports, err := client.listReports(cmd.Context())
			if err != nil {
				return fmt.Errorf("list reports: %w", err)
			}
			if limit > 0 && len(reports) > limit {
				reports = reports[:limit]
			}

			if jsonOutput {
				return writeJSON(cmd, reports)
			}
			if len(reports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No quality reports stored")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderReportList(reports))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n reports (0 = all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the reports as JSON")
	return cmd
}
