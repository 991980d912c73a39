// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamgauge/internal/validation"
)

// maxRequestBodyBytes bounds a submission body. A report is a few hundred
// bytes.
const maxRequestBodyBytes = 64 * 1024

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// errBodyTooLarge is returned by decodeJSONBody for oversized bodies.
var errBodyTooLarge = errors.New("request body too large")

// decodeJSONBody decodes the request body into v. An empty body decodes as
// an empty object, so missing fields surface as validation errors. A JSON
// value of the wrong type for a field is returned as a
// *validation.RequestValidationError naming that field.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	err := json.NewDecoder(body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errBodyTooLarge
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		want := "valid value"
		if typeErr.Type != nil {
			want = typeName(typeErr.Type.String())
		}
		return validation.NewRequestValidationError(field, "type", fmt.Sprintf("%s must be a %s", field, want))
	}
	return err
}

// typeName turns a Go type into the word a client would expect.
func typeName(goType string) string {
	goType = strings.TrimPrefix(goType, "*")
	switch {
	case strings.HasPrefix(goType, "float"):
		return "number"
	case strings.HasPrefix(goType, "int"), strings.HasPrefix(goType, "uint"):
		return "integer"
	case goType == "string":
		return "string"
	default:
		return "valid value"
	}
}
