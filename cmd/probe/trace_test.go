// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"strings"
	"testing"

	"github.com/tomtom215/streamgauge/internal/analyzer"
)

// sampleTrace has startup 0.6s, one 0.5s stall, 1080p and one frozen
// interval out of four samples intervals.
const sampleTrace = `# recorded in a test player
{"event":"play","at_ms":0}
{"event":"timeupdate","at_ms":600,"position":0.02,"height":1080}
{"event":"playing","at_ms":600,"position":0.02}
{"event":"timeupdate","at_ms":1000,"position":0.4}
{"event":"waiting","at_ms":2000}
{"event":"timeupdate","at_ms":2100,"position":1.0}

{"event":"canplay","at_ms":2500}
{"event":"timeupdate","at_ms":3200,"position":1.05}
{"event":"timeupdate","at_ms":3400,"position":1.3}
{"event":"ended","at_ms":4000}
`

func TestParseTrace(t *testing.T) {
	records, err := parseTrace(strings.NewReader(sampleTrace))
	if err != nil {
		t.Fatalf("parseTrace() error = %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("records = %d, want 10", len(records))
	}
	if records[0].kind != analyzer.EventPlayIntent {
		t.Errorf("first kind = %v, want play", records[0].kind)
	}
	if records[1].Height != 1080 || records[1].Position != 0.02 {
		t.Errorf("second record = %+v", records[1])
	}
	if records[9].kind != analyzer.EventEnded || records[9].AtMs != 4000 {
		t.Errorf("last record = %+v", records[9])
	}
}

func TestParseTrace_Errors(t *testing.T) {
	tests := []struct {
		name  string
		trace string
		want  string
	}{
		{"empty", "\n# nothing\n", "no events"},
		{"bad json", "{\"event\":", "line 1"},
		{"unknown event", `{"event":"seeking","at_ms":0}`, "unknown player event"},
		{"negative time", `{"event":"play","at_ms":-5}`, "at_ms must be >= 0"},
		{"time goes backwards", "{\"event\":\"play\",\"at_ms\":100}\n{\"event\":\"ended\",\"at_ms\":50}", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTrace(strings.NewReader(tt.trace))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("parseTrace() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestTraceMedia_Apply(t *testing.T) {
	m := &traceMedia{}
	m.apply(traceRecord{kind: analyzer.EventTimeUpdate, Position: 1.5, Height: 720, Duration: 60})
	m.apply(traceRecord{kind: analyzer.EventWaiting, Position: 9})

	if m.CurrentTime() != 1.5 {
		t.Errorf("CurrentTime() = %v, want 1.5 (waiting carries no position)", m.CurrentTime())
	}
	if m.VideoHeight() != 720 || m.Duration() != 60 {
		t.Errorf("height/duration = %d/%v, want 720/60", m.VideoHeight(), m.Duration())
	}
}
