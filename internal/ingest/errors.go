// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package ingest

import (
	"errors"
	"fmt"

	"github.com/tomtom215/streamgauge/internal/validation"
)

var (
	// ErrValidation marks reports rejected before persistence.
	ErrValidation = errors.New("invalid quality report")

	// ErrStorage marks failures of the result store. Nothing was persisted
	// and nothing was broadcast.
	ErrStorage = errors.New("result store failure")
)

// ValidationError carries the per-field failures of a rejected report.
type ValidationError struct {
	Fields *validation.RequestValidationError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrValidation, e.Fields)
}

// Unwrap exposes ErrValidation and the field failures.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Fields}
}

// StorageError wraps a failed store operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrStorage, e.Op, e.Err)
}

// Unwrap exposes ErrStorage and the driver error.
func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}
