// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

/*
Command probe measures playback quality outside a browser and talks to a
StreamGauge ingestion server.

	probe replay trace.jsonl --url https://cdn.example/v/big_buck_bunny.mp4
	probe replay trace.jsonl --dry-run --json
	probe list --server http://localhost:5000
	probe health

A trace is a JSON-lines recording of media element events, one per line:

	{"event":"play","at_ms":0}
	{"event":"timeupdate","at_ms":600,"position":0.02,"height":1080}
	{"event":"waiting","at_ms":2000}
	{"event":"canplay","at_ms":2500}
	{"event":"ended","at_ms":4000}

at_ms is milliseconds since the start of the recording. Replay runs the
same analyzer the player uses on a fake clock, so recorded timings are
reproduced exactly, then submits the report once unless --dry-run is set.
Blank lines and lines starting with # are ignored.
*/
package main
