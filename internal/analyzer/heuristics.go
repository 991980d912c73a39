// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package analyzer

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

// DefaultVideoName is used when no name can be derived for a session.
const DefaultVideoName = "Web Video"

// FreezePercent returns the share of adjacent sample intervals in which wall
// time advanced past the wall threshold while playback moved less than the
// position threshold, as a percentage. With fewer than opts.MinFreezeSamples
// samples the result is 0.
func FreezePercent(samples []ProgressSample, opts Options) float64 {
	opts = opts.withDefaults()
	if len(samples) < opts.MinFreezeSamples || len(samples) < 2 {
		return 0
	}

	frozen := 0
	intervals := len(samples) - 1
	for i := 1; i < len(samples); i++ {
		wallDelta := samples[i].WallClock.Sub(samples[i-1].WallClock)
		positionDelta := samples[i].Position - samples[i-1].Position
		if wallDelta > opts.FreezeWallThreshold && positionDelta < opts.FreezePositionThreshold {
			frozen++
		}
	}
	return 100 * float64(frozen) / float64(intervals)
}

// ResolutionLabel maps a pixel height to "<height>p".
func ResolutionLabel(height int, fallback string) string {
	if height <= 0 {
		return fallback
	}
	return strconv.Itoa(height) + "p"
}

// VideoNameFromURL derives a display name from the last path segment of a
// media URL, without query string or extension.
//
//	VideoNameFromURL("https://cdn.example/v/big_buck_bunny.mp4?t=3") == "big_buck_bunny"
func VideoNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultVideoName
	}

	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(raw, "?#"); i >= 0 {
		p = raw[:i]
	}

	base := path.Base(strings.TrimRight(p, "/"))
	if base == "." || base == "/" || base == "" {
		return DefaultVideoName
	}
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	if strings.TrimSpace(base) == "" {
		return DefaultVideoName
	}
	return base
}
