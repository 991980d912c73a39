// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package analyzer

import (
	"errors"
	"fmt"
)

// ErrAnalysisAborted is returned when the player reports an error mid-session.
// No report is produced and nothing is submitted.
var ErrAnalysisAborted = errors.New("analysis aborted")

// ErrSessionClosed is returned for signals delivered after finalization.
var ErrSessionClosed = errors.New("analysis session already finalized")

// ErrSessionActive is returned when a second session is started on an
// element that is still being measured.
var ErrSessionActive = errors.New("an analysis session is already active on this element")

func abortedError(cause error) error {
	if cause == nil {
		return ErrAnalysisAborted
	}
	return fmt.Errorf("%w: %w", ErrAnalysisAborted, cause)
}
