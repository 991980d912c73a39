// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/streamgauge/internal/analyzer"
	"github.com/tomtom215/streamgauge/internal/models"
	"github.com/tomtom215/streamgauge/internal/submitter"
)

type replayOptions struct {
	name       string
	mediaURL   string
	window     time.Duration
	fallback   string
	dryRun     bool
	jsonOutput bool
}

// replayOutput is the --json document.
type replayOutput struct {
	Report     *models.QualityReport `json:"report"`
	Result     string                `json:"result"`
	Submission *submissionOutput     `json:"submission,omitempty"`
}

type submissionOutput struct {
	Marker        string     `json:"marker"`
	ID            int64      `json:"id,omitempty"`
	TestTimestamp *time.Time `json:"test_timestamp,omitempty"`
	Error         string     `json:"error,omitempty"`
}

func newReplayCommand(global *globalOptions) *cobra.Command {
	opts := &replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay <trace.jsonl|->",
		Short: "Analyze a recorded player trace and submit the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, global, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.name, "name", "", "Video name (default: derived from --url)")
	flags.StringVar(&opts.mediaURL, "url", "", "Media URL the trace was recorded from")
	flags.DurationVar(&opts.window, "window", analyzer.DefaultOptions().Window, "Analysis window measured from the play request")
	flags.StringVar(&opts.fallback, "fallback-resolution", analyzer.DefaultOptions().FallbackResolution, "Resolution reported when the trace has no height")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Analyze only, do not submit")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")

	return cmd
}

func runReplay(cmd *cobra.Command, global *globalOptions, opts *replayOptions, path string) error {
	records, err := readTraceFile(cmd, path)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(opts.name)
	if name == "" && opts.mediaURL != "" {
		name = analyzer.VideoNameFromURL(opts.mediaURL)
	}

	aopts := analyzer.DefaultOptions()
	aopts.Window = opts.window
	aopts.FallbackResolution = opts.fallback

	outcome, err := replayTrace(cmd.Context(), records, name, aopts)
	if err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}

	out := replayOutput{Report: outcome.Report, Result: outcome.Result}
	if !opts.dryRun {
		out.Submission = submit(cmd, global, outcome.Report)
	}

	if opts.jsonOutput {
		if err := writeJSON(cmd, out); err != nil {
			return err
		}
	} else {
		printReplay(cmd.OutOrStdout(), out, shouldColorize(cmd.OutOrStdout()))
	}

	if out.Submission != nil && out.Submission.Marker != "success" {
		return fmt.Errorf("submission failed: %s", out.Submission.Error)
	}
	return nil
}

func readTraceFile(cmd *cobra.Command, path string) ([]traceRecord, error) {
	if path == "-" {
		return parseTrace(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()
	return parseTrace(f)
}

func submit(cmd *cobra.Command, global *globalOptions, report *models.QualityReport) *submissionOutput {
	sub, err := submitter.NewHTTPSubmitter(submitter.HTTPConfig{
		BaseURL: global.server,
		Timeout: global.timeout,
	})
	if err != nil {
		return &submissionOutput{Marker: "error", Error: err.Error()}
	}

	result := sub.Submit(cmd.Context(), report)
	out := &submissionOutput{Marker: result.Marker()}
	if result.OK() {
		ts := result.Timestamp
		out.ID = result.ID
		out.TestTimestamp = &ts
	} else if result.Err != nil {
		out.Error = result.Err.Error()
	}
	return out
}

func printReplay(w io.Writer, out replayOutput, colorize bool) {
	fmt.Fprintln(w, renderReport(out.Report))
	fmt.Fprintf(w, "Session: %s\n", out.Result)

	switch {
	case out.Submission == nil:
		fmt.Fprintf(w, "Submission: %s (dry run)\n", colorMarker("skipped", colorize))
	case out.Submission.Marker == "success":
		fmt.Fprintf(w, "Submission: %s (id %d)\n", colorMarker("success", colorize), out.Submission.ID)
	default:
		fmt.Fprintf(w, "Submission: %s (%s)\n", colorMarker("error", colorize), out.Submission.Error)
	}
}
