// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package index implements the project-wide cross-file index. It
// walks a project root, extracts every file's linearized schemas and
// exported function return signatures, and serializes the result to a
// content-addressed, byte-stable wire format so a later single-file
// check can resolve names that cross file boundaries without re-walking
// the whole tree.
package index

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"ariga.io/colcheck/internal/ast"
	"ariga.io/colcheck/internal/csf"
	"ariga.io/colcheck/internal/diag"
	"ariga.io/colcheck/internal/frameann"
	"ariga.io/colcheck/internal/parser"
	"ariga.io/colcheck/internal/schemaspec"
)

// CurrentVersion is bumped whenever the wire payload shape changes.
// Deserialize refuses to trust a mismatched version rather than guess at
// forward/backward compatibility.
const CurrentVersion uint32 = 1

// ReturnKind is the resolved shape of an exported function's return
// annotation.
type ReturnKind string

const (
	ReturnUnknown ReturnKind = "unknown"
	ReturnSchema  ReturnKind = "schema"
)

// ReturnInfo is the recorded return signature of one exported function.
type ReturnInfo struct {
	Kind   ReturnKind `json:"kind"`
	Schema string     `json:"schema,omitempty"`
}

// FunctionEntry is one exported function's indexed signature.
type FunctionEntry struct {
	Returns ReturnInfo `json:"returns"`
}

// FileEntry is everything the index retains about a single source file:
// its locally declared schemas (name -> ordered columns) and its
// exported function signatures.
type FileEntry struct {
	Schemas   map[string][]string      `json:"schemas"`
	Functions map[string]FunctionEntry `json:"functions"`
}

// payload is the JSON body written after the version header. Index
// embeds it directly so callers see one flat type.
type payload struct {
	Files         map[string]FileEntry `json:"files"`
	SchemaColumns map[string][]string  `json:"schema_columns"`
}

// Index is the built, in-memory project index.
type Index struct {
	Version uint32
	// BuildID identifies the snapshot's content. It is derived from the
	// serialized payload (a v5 UUID over the payload bytes), never from a
	// clock or RNG, so re-running over an unchanged tree reproduces the
	// same id and the same bytes. It carries no lookup semantics; it only
	// gives a version-mismatch diagnostic something concrete to name when
	// a stale index is fed into a later check.
	BuildID uuid.UUID
	payload
}

// Build walks root, parsing every ".py" file and every "*.schema.yaml"
// sidecar it finds, and returns the resulting Index plus any diagnostics
// raised along the way (parse failures, reserved-name/schema-conflict
// findings from schemaspec). A single bad file never aborts the walk,
// mirroring the per-file failure isolation the check phase provides.
func Build(root string) (*Index, []diag.Diagnostic, error) {
	idx := &Index{
		Version: CurrentVersion,
		payload: payload{
			Files:         map[string]FileEntry{},
			SchemaColumns: map[string][]string{},
		},
	}
	var diags []diag.Diagnostic

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		switch {
		case strings.HasSuffix(path, ".schema.yaml"):
			buildYAMLEntry(idx, rel, path, &diags)
		case strings.HasSuffix(path, ".py"):
			buildPyEntry(idx, rel, path, &diags)
		}
		return nil
	})
	if err != nil {
		return nil, diags, fmt.Errorf("index: walking %s: %w", root, err)
	}
	return idx, diags, nil
}

func buildYAMLEntry(idx *Index, rel, path string, diags *[]diag.Diagnostic) {
	data, err := os.ReadFile(path)
	if err != nil {
		*diags = append(*diags, diag.New(rel, 1, 1, diag.CodeInternal, err.Error()))
		return
	}
	descs, err := schemaspec.ParseYAML(data)
	if err != nil {
		*diags = append(*diags, diag.New(rel, 1, 1, diag.CodeInternal, err.Error()))
		return
	}
	entry := FileEntry{Schemas: map[string][]string{}, Functions: map[string]FunctionEntry{}}
	for _, d := range descs {
		entry.Schemas[d.Name] = d.Columns
		idx.SchemaColumns[qualify(rel, d.Name)] = d.Columns
	}
	idx.Files[rel] = entry
}

func buildPyEntry(idx *Index, rel, path string, diags *[]diag.Diagnostic) {
	src, err := os.ReadFile(path)
	if err != nil {
		*diags = append(*diags, diag.New(rel, 1, 1, diag.CodeInternal, err.Error()))
		return
	}
	file, err := parser.ParseFile(rel, string(src))
	if err != nil {
		*diags = append(*diags, diag.New(rel, 1, 1, diag.CodeInternal, err.Error()))
		return
	}

	descs, schemaDiags := schemaspec.Extract(file)
	for _, d := range schemaDiags {
		d.Path = rel
		*diags = append(*diags, d)
	}

	entry := FileEntry{Schemas: map[string][]string{}, Functions: map[string]FunctionEntry{}}
	localSchema := map[string]bool{}
	for _, d := range descs {
		entry.Schemas[d.Name] = d.Columns
		idx.SchemaColumns[qualify(rel, d.Name)] = d.Columns
		localSchema[d.Name] = true
	}

	for _, s := range file.Stmts {
		fn, ok := s.(*ast.FunctionDef)
		if !ok || !fn.Exported {
			continue
		}
		info := ReturnInfo{Kind: ReturnUnknown}
		if fn.Returns != nil {
			if name, ok := frameann.Resolve(fn.Returns, frameann.DefaultFrameTypeNames); ok && localSchema[name] {
				info = ReturnInfo{Kind: ReturnSchema, Schema: qualify(rel, name)}
			}
		}
		entry.Functions[fn.Name] = FunctionEntry{Returns: info}
	}
	idx.Files[rel] = entry
}

func qualify(relPath, schemaName string) string {
	return relPath + "." + schemaName
}

// headerLen is 4 bytes of big-endian version plus a 16-byte raw UUID.
const headerLen = 4 + 16

// Serialize writes the version-and-build-id-prefixed, byte-stable wire
// format: `{version uint32}{build_id [16]byte}{json payload}`. Map keys
// serialize in sorted order (encoding/json's standard behavior for
// map[string]T) and the build id is content-addressed from the payload
// bytes, so two builds over identical input produce byte-identical
// buffers end to end.
func Serialize(idx *Index) ([]byte, error) {
	body, err := json.Marshal(idx.payload)
	if err != nil {
		return nil, fmt.Errorf("index: marshaling payload: %w", err)
	}
	idx.BuildID = uuid.NewSHA1(uuid.NameSpaceOID, body)
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, idx.Version); err != nil {
		return nil, err
	}
	buf.Write(idx.BuildID[:])
	buf.Write(body)
	return buf.Bytes(), nil
}

// Deserialize parses a Serialize'd index. A version mismatch is not a Go
// error; a stale or foreign index is reported as a single informational
// diagnostic by the caller and otherwise ignored (ok is false).
func Deserialize(data []byte) (idx *Index, ok bool, diagOut *diag.Diagnostic) {
	if len(data) < headerLen {
		d := diag.New("", 1, 1, diag.CodeInternal, "project index: truncated header")
		return nil, false, &d
	}
	version := binary.BigEndian.Uint32(data[:4])
	buildID, err := uuid.FromBytes(data[4:headerLen])
	if err != nil {
		d := diag.New("", 1, 1, diag.CodeInternal, fmt.Sprintf("project index: malformed build id: %s, ignoring index", err))
		return nil, false, &d
	}
	if version != CurrentVersion {
		d := diag.New("", 1, 1, diag.CodeInternal,
			fmt.Sprintf("project index: stale index from build %s (version %d, want %d), ignoring index", buildID, version, CurrentVersion))
		return nil, false, &d
	}
	var p payload
	if err := json.Unmarshal(data[headerLen:], &p); err != nil {
		d := diag.New("", 1, 1, diag.CodeInternal, fmt.Sprintf("project index: %s, ignoring index", err))
		return nil, false, &d
	}
	return &Index{Version: version, BuildID: buildID, payload: p}, true, nil
}

// ResolveModulePath finds the index-relative file path a dotted import
// module string names, relative to fromFile's directory first and
// falling back to a root-relative (package-style) lookup.
func (idx *Index) ResolveModulePath(fromFile, module string) (string, bool) {
	rel := strings.ReplaceAll(module, ".", "/") + ".py"
	candidates := []string{
		filepath.ToSlash(filepath.Join(filepath.Dir(fromFile), rel)),
		rel,
	}
	for _, c := range candidates {
		if _, ok := idx.Files[c]; ok {
			return c, true
		}
	}
	return "", false
}

// LookupFunction resolves an exported function's return fact, given the
// already-resolved file path it lives in.
func (idx *Index) LookupFunction(filePath, symbol string) (csf.Fact, bool) {
	entry, ok := idx.Files[filePath]
	if !ok {
		return csf.Fact{}, false
	}
	fn, ok := entry.Functions[symbol]
	if !ok {
		return csf.Fact{}, false
	}
	if fn.Returns.Kind != ReturnSchema {
		return csf.Unknown, true
	}
	cols := idx.SchemaColumns[fn.Returns.Schema]
	return csf.NewSchema(fn.Returns.Schema, cols), true
}

// SortedFilePaths is a small convenience for deterministic iteration
// (tests, CLI summaries).
func (idx *Index) SortedFilePaths() []string {
	out := make([]string, 0, len(idx.Files))
	for p := range idx.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
