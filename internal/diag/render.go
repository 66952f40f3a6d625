// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package diag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/fatih/color"
)

// ColorTemplateFuncs is a FuncMap exposing color helpers to a
// text/template so the human-mode renderer never concatenates ANSI
// codes by hand.
var ColorTemplateFuncs = template.FuncMap{
	"red":    color.HiRedString,
	"yellow": color.YellowString,
	"cyan":   color.CyanString,
	"gray":   func(s string) string { return color.New(color.Attribute(90)).Sprint(s) },
}

var textTemplate = template.Must(template.New("diagnostic").Funcs(ColorTemplateFuncs).Parse(
	`{{- if eq .Severity "error"}}{{ cyan .Path }}:{{ .Line }}:{{ .Col }}: {{ red "error" }}[{{ .Code }}]: {{ .Message }}` +
		`{{- else if eq .Severity "warning" }}{{ cyan .Path }}:{{ .Line }}:{{ .Col }}: {{ yellow "warning" }}[{{ .Code }}]: {{ .Message }}` +
		`{{- else }}{{ cyan .Path }}:{{ .Line }}:{{ .Col }}: {{ gray "info" }}[{{ .Code }}]: {{ .Message }}` +
		`{{- end }}{{ if .Suggestion }} (did you mean "{{ .Suggestion }}"?){{ end }}` + "\n"))

// RenderText writes one colored line per diagnostic to w, in the order
// given (callers sort first via Sort).
func RenderText(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if err := textTemplate.Execute(w, d); err != nil {
			return err
		}
	}
	return nil
}

// RenderJSON writes diags as a JSON array. A nil slice renders as an
// empty array, never as `null`, so machine consumers can index blindly.
func RenderJSON(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// RenderCI writes diags as GitHub Actions workflow-command annotations
// (`::error file=...,line=...,col=...::message`), the CI-facing sibling
// of the human and JSON renderers.
func RenderCI(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		cmd := "notice"
		switch d.Severity {
		case Error:
			cmd = "error"
		case Warning:
			cmd = "warning"
		}
		msg := d.Message
		if d.Suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", d.Suggestion)
		}
		line := fmt.Sprintf("::%s file=%s,line=%d,col=%d,title=%s::%s\n",
			cmd, d.Path, d.Line, d.Col, d.Code, escapeAnnotation(msg))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// escapeAnnotation applies the percent-encoding GitHub's workflow-command
// format requires for message text.
func escapeAnnotation(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '%':
			buf.WriteString("%25")
		case '\r':
			buf.WriteString("%0D")
		case '\n':
			buf.WriteString("%0A")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// Format names one of the three supported output channels.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCI   Format = "ci"
)

// Render dispatches to the renderer named by format.
func Render(w io.Writer, format Format, diags []Diagnostic) error {
	switch format {
	case FormatJSON:
		return RenderJSON(w, diags)
	case FormatCI:
		return RenderCI(w, diags)
	default:
		return RenderText(w, diags)
	}
}
