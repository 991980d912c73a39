// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamgauge/internal/analyzer"
)

// maxTraceLine bounds one trace line.
const maxTraceLine = 64 * 1024

// traceRecord is one line of a recorded trace.
type traceRecord struct {
	Event    string  `json:"event"`
	AtMs     int64   `json:"at_ms"`
	Position float64 `json:"position"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"`
	Message  string  `json:"message"`

	kind analyzer.EventKind
}

// offset is the record time relative to the start of the recording.
func (r traceRecord) offset() time.Duration {
	return time.Duration(r.AtMs) * time.Millisecond
}

// parseTrace reads a JSON-lines trace. Timestamps must not go backwards.
func parseTrace(r io.Reader) ([]traceRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxTraceLine)

	var (
		records []traceRecord
		lastAt  int64
		lineNo  int
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var rec traceRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("trace line %d: %w", lineNo, err)
		}
		kind, err := analyzer.ParseEventKind(rec.Event)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", lineNo, err)
		}
		if rec.AtMs < 0 {
			return nil, fmt.Errorf("trace line %d: at_ms must be >= 0, got %d", lineNo, rec.AtMs)
		}
		if rec.AtMs < lastAt {
			return nil, fmt.Errorf("trace line %d: at_ms %d is before the previous event (%d)", lineNo, rec.AtMs, lastAt)
		}
		lastAt = rec.AtMs
		rec.kind = kind
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("trace contains no events")
	}
	return records, nil
}

// traceMedia replays the element properties carried by trace records. The
// session reads it from its own goroutine.
type traceMedia struct {
	mu       sync.Mutex
	position float64
	duration float64
	height   int
}

func (m *traceMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *traceMedia) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *traceMedia) VideoHeight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.height
}

func (m *traceMedia) apply(rec traceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.Height > 0 {
		m.height = rec.Height
	}
	if rec.Duration > 0 {
		m.duration = rec.Duration
	}
	if rec.kind == analyzer.EventTimeUpdate || rec.kind == analyzer.EventPlaying {
		m.position = rec.Position
	}
}
