// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package diag implements the diagnostic record, its stable codes,
// deterministic ordering, and the three rendering channels (text, JSON,
// CI-annotation). Diagnostics are data, never Go errors: only
// infrastructure failure (a file that can't be opened, a corrupt index)
// is reported as a Go error; everything the analyzer finds is a
// Diagnostic.
package diag

import "sort"

// Severity is one of "error", "warning" or "info" (the last is used only
// by the `internal` code).
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// Code is a stable diagnostic code; consumers key suppressions and CI
// rules off these strings, so existing values never change meaning.
type Code string

const (
	CodeUnknownColumn        Code = "unknown-column"
	CodeDroppedUnknownColumn Code = "dropped-unknown-column"
	CodeUntrackedDataframe   Code = "untracked-dataframe"
	CodeReservedMethodName   Code = "reserved-method-name"
	CodeSchemaConflict       Code = "schema-conflict"
	CodeInternal             Code = "internal"
)

// severityOf is the fixed code -> severity table.
var severityOf = map[Code]Severity{
	CodeUnknownColumn:        Error,
	CodeDroppedUnknownColumn: Warning,
	CodeUntrackedDataframe:   Warning,
	CodeReservedMethodName:   Error,
	CodeSchemaConflict:       Error,
	CodeInternal:             Info,
}

// SeverityFor returns the fixed severity for a stable code.
func SeverityFor(c Code) Severity { return severityOf[c] }

// Diagnostic is one finding, carrying the file path and a 1-based
// position.
type Diagnostic struct {
	Path       string   `json:"path"`
	Line       int      `json:"line"`
	Col        int      `json:"col"`
	Severity   Severity `json:"severity"`
	Code       Code     `json:"code"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// New constructs a Diagnostic with the code's fixed severity.
func New(path string, line, col int, code Code, message string) Diagnostic {
	return Diagnostic{Path: path, Line: line, Col: col, Severity: SeverityFor(code), Code: code, Message: message}
}

// WithSuggestion returns a copy of d with Suggestion set.
func (d Diagnostic) WithSuggestion(s string) Diagnostic {
	d.Suggestion = s
	return d
}

// Sort orders diagnostics by (path, line, col, code) so output is a
// total order regardless of discovery order.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.Code < b.Code
	})
}

// FilterWarnings drops every warning-severity diagnostic, implementing
// the no-warnings config input.
func FilterWarnings(diags []Diagnostic) []Diagnostic {
	out := diags[:0:0]
	for _, d := range diags {
		if d.Severity != Warning {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether diags contains at least one error-severity
// diagnostic, used to compute the CLI's exit code.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
