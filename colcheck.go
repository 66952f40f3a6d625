// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package colcheck exposes the two external entry points a CLI or other
// collaborator calls into the core analyzer: CheckFile (parse and
// interpret one file) and BuildProjectIndex (walk a tree and index its
// schemas and exported function signatures).
package colcheck

import (
	"fmt"
	"os"
	"strings"

	"ariga.io/colcheck/internal/diag"
	"ariga.io/colcheck/internal/index"
	"ariga.io/colcheck/internal/interp"
	"ariga.io/colcheck/internal/parser"
	"ariga.io/colcheck/internal/schemaspec"
)

// Options carries the configuration inputs the analyzer honors.
// Format selects the diagnostic rendering channel.
type Options struct {
	StrictIngest bool
	NoWarnings   bool
	UseIndex     bool
	Format       diag.Format
}

// CheckFile analyzes a single source file and renders the result
// through the requested Format. It is a thin wrapper over Diagnostics
// for callers that only need the rendered text.
func CheckFile(path string, indexBytes []byte, opts Options) (string, error) {
	diags, err := Diagnostics(path, indexBytes, opts)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := diag.Render(&sb, opts.Format, diags); err != nil {
		return "", fmt.Errorf("colcheck: rendering diagnostics: %w", err)
	}
	return sb.String(), nil
}

// Diagnostics analyzes a single source file and returns the
// resulting diagnostics unrendered, for collaborators (like the CLI)
// that need the diagnostic set itself, e.g. to compute an exit code.
// indexBytes may be nil; when UseIndex is set and indexBytes
// deserializes successfully, cross-file calls resolve through it,
// otherwise they resolve to Unknown. A version-mismatched or corrupt
// index is never a Go error; it surfaces as one `internal` diagnostic
// alongside whatever the file itself produced.
func Diagnostics(path string, indexBytes []byte, opts Options) ([]diag.Diagnostic, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("colcheck: reading %s: %w", path, err)
	}

	var diags []diag.Diagnostic
	file, perr := parser.ParseFile(path, string(src))
	if perr != nil {
		diags = append(diags, diag.New(path, 1, 1, diag.CodeInternal, perr.Error()))
	}

	descriptors, schemaDiags := schemaspec.Extract(file)
	for _, d := range schemaDiags {
		d.Path = path
		diags = append(diags, d)
	}
	if sidecar, ok := loadSidecarSchemas(path); ok {
		descriptors = append(descriptors, sidecar...)
	}

	interpOpts := interp.Options{
		StrictIngest: opts.StrictIngest,
		UseIndex:     opts.UseIndex,
	}
	if opts.UseIndex && len(indexBytes) > 0 {
		idx, ok, mismatch := index.Deserialize(indexBytes)
		if ok {
			interpOpts.Index = idx
		} else if mismatch != nil {
			mismatch.Path = path
			diags = append(diags, *mismatch)
		}
	}

	diags = append(diags, interp.Run(file, descriptors, interpOpts)...)

	if opts.NoWarnings {
		diags = diag.FilterWarnings(diags)
	}
	diag.Sort(diags)
	return diags, nil
}

// loadSidecarSchemas reads the `<path-without-.py>.schema.yaml` file next
// to path, if one exists. A missing sidecar is not an error.
func loadSidecarSchemas(path string) ([]schemaspec.Descriptor, bool) {
	sidecar := strings.TrimSuffix(path, ".py") + ".schema.yaml"
	data, err := os.ReadFile(sidecar)
	if err != nil {
		return nil, false
	}
	descs, err := schemaspec.ParseYAML(data)
	if err != nil {
		return nil, false
	}
	return descs, true
}

// BuildProjectIndex walks root and returns the serialized,
// opaque index buffer a later CheckFile call can pass back in.
func BuildProjectIndex(root string) ([]byte, []diag.Diagnostic, error) {
	idx, diags, err := index.Build(root)
	if err != nil {
		return nil, diags, err
	}
	buf, err := index.Serialize(idx)
	if err != nil {
		return nil, diags, err
	}
	return buf, diags, nil
}
