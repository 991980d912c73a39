// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tomtom215/streamgauge/internal/models"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// renderReport lays out one report as a two-column table.
func renderReport(r *models.QualityReport) string {
	rows := [][]string{
		{"Video", r.VideoName},
		{"Startup time", formatSeconds(r.StartupTime)},
		{"Buffering events", strconv.Itoa(r.BufferingCount)},
		{"Buffering duration", formatSeconds(r.BufferingDuration)},
		{"Resolution", r.AvgResolution},
		{"Freeze", formatPercent(r.FreezePercent)},
	}
	return renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

// renderReportList lays out stored reports, one per row.
func renderReportList(reports []models.QualityReport) string {
	headers := []string{"ID", "Video", "Startup", "Stalls", "Stalled", "Resolution", "Freeze", "Tested"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignRight, alignLeft}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.VideoName,
			formatSeconds(r.StartupTime),
			strconv.Itoa(r.BufferingCount),
			formatSeconds(r.BufferingDuration),
			r.AvgResolution,
			formatPercent(r.FreezePercent),
			r.TestTimestamp.Local().Format("2006-01-02 15:04:05"),
		})
	}
	return renderTable(headers, rows, aligns)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "s"
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// colorMarker renders a submission marker or health state.
func colorMarker(marker string, colorize bool) string {
	if !colorize {
		return marker
	}
	switch marker {
	case "success", "ok", "ready":
		return ansiGreen + marker + ansiReset
	case "skipped":
		return ansiYellow + marker + ansiReset
	default:
		return ansiRed + marker + ansiReset
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
