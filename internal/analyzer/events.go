// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package analyzer

import (
	"fmt"
	"strings"
	"time"
)

// State is the lifecycle position of one analysis session.
type State int

const (
	StateIdle State = iota
	StateArmed
	StateMeasuring
	StateFinalizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateMeasuring:
		return "measuring"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EventKind is a player lifecycle signal.
type EventKind int

const (
	EventPlayIntent EventKind = iota + 1
	EventPlaying
	EventWaiting
	EventCanPlay
	EventTimeUpdate
	EventEnded
	EventError
)

var eventKindNames = map[EventKind]string{
	EventPlayIntent: "play",
	EventPlaying:    "playing",
	EventWaiting:    "waiting",
	EventCanPlay:    "canplay",
	EventTimeUpdate: "timeupdate",
	EventEnded:      "ended",
	EventError:      "error",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// ParseEventKind accepts the media element event names (play, playing,
// waiting, canplay, timeupdate, ended, error), case-insensitively.
func ParseEventKind(s string) (EventKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for kind, n := range eventKindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown player event %q", s)
}

// Event is one signal from the playback source.
type Event struct {
	Kind EventKind

	// At is when the signal was observed. Zero means "now" on the
	// analyzer's clock.
	At time.Time

	// Position is the playback position in seconds. Meaningful for
	// EventTimeUpdate and EventPlaying.
	Position float64

	// Err carries the source error for EventError.
	Err error
}

// MediaElement exposes the readable properties of the element being
// measured.
type MediaElement interface {
	CurrentTime() float64
	Duration() float64
	VideoHeight() int
}

// StallEpisode is one buffering interval. EndedAt is zero while open.
type StallEpisode struct {
	StartedAt time.Time
	EndedAt   time.Time
}

// Open reports whether the episode has not been closed yet.
func (e StallEpisode) Open() bool {
	return e.EndedAt.IsZero()
}

// Duration is zero while the episode is open.
func (e StallEpisode) Duration() time.Duration {
	if e.Open() {
		return 0
	}
	return e.EndedAt.Sub(e.StartedAt)
}

// ProgressSample is one time-progress observation.
type ProgressSample struct {
	WallClock time.Time
	Position  float64
}
