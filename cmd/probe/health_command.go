// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// errNotReady is returned when the server answers but is not ready.
var errNotReady = errors.New("server is not ready")

func newHealthCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check liveness and readiness of the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(global.server, global.timeout)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			colorize := shouldColorize(w)

			live, err := client.health(cmd.Context())
			if err != nil {
				fmt.Fprintf(w, "Liveness:  %s (%v)\n", colorMarker("down", colorize), err)
				return fmt.Errorf("health check: %w", err)
			}
			fmt.Fprintf(w, "Liveness:  %s %s\n", colorMarker("ok", colorize), live.Message)

			ready, err := client.ready(cmd.Context())
			if err != nil {
				fmt.Fprintf(w, "Readiness: %s (%v)\n", colorMarker("not ready", colorize), err)
				if isAPIError(err) {
					return errNotReady
				}
				return fmt.Errorf("readiness check: %w", err)
			}
			uptime := time.Duration(ready.Uptime * float64(time.Second)).Truncate(time.Second)
			fmt.Fprintf(w, "Readiness: %s database=%s subscribers=%d uptime=%s\n",
				colorMarker("ready", colorize),
				strconv.FormatBool(ready.DatabaseConnected),
				ready.LiveSubscribers,
				uptime)
			return nil
		},
	}
}
