// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package recognize holds the compile-time loader-call and method-call
// registries. Both are plain tables (extending either is a table edit
// only), so the interpreter (internal/interp) never hard-codes a call
// path; it always goes through LoaderKeywords or MethodEffect.
package recognize

// MethodKind is the effect a recognized method call has on a fact.
type MethodKind int

const (
	// Unrecognized means the call is not in the table; the interpreter
	// produces Unknown and emits no diagnostic.
	Unrecognized MethodKind = iota
	Narrow
	Passthrough
	Rename
	Drop
	Extend
)

// methodTable is the fixed method -> effect mapping, merged across both
// frame libraries; the table does not distinguish pandas from polars
// because the same method name always has the same lattice effect
// regardless of which library produced the frame.
var methodTable = map[string]MethodKind{
	"rename": Rename,
	"drop":   Drop,
	"assign": Extend,
	"select": Narrow,

	"filter":      Passthrough,
	"query":       Passthrough,
	"head":        Passthrough,
	"tail":        Passthrough,
	"sort_values": Passthrough,
	"dropna":      Passthrough,
	"fillna":      Passthrough,
	"ffill":       Passthrough,
	"bfill":       Passthrough,
	"reset_index": Passthrough,
	"merge":       Passthrough,
	"join":        Passthrough,
}

// MethodEffect looks up the lattice effect of calling `.name(...)` on a
// frame-valued base. Unrecognized names return (Unrecognized, false).
func MethodEffect(name string) (MethodKind, bool) {
	k, ok := methodTable[name]
	return k, ok
}

// loaderTable is the loader call-path registry: the reader functions
// recognized as producing a frame, mapped to their column-carrying
// keyword arguments (pandas read_csv takes usecols/dtype, polars
// read_csv takes columns/schema, and so on). Keys are the callee's
// terminal (attribute) name rather than a fully dotted module path:
// both libraries expose readers under the same conventional names, and
// the kwargs a lint pass cares about never collide in meaning between
// them, so a single merged entry per reader name keeps the table a true
// table-edit-only extension point instead of needing one row per import
// alias a project happens to use.
var loaderTable = map[string][]string{
	"read_csv":     {"usecols", "columns", "dtype", "schema"},
	"read_parquet": {"columns", "schema"},
	"read_feather": {"columns"},
	"read_table":   {"usecols", "columns", "dtype"},
}

// LoaderKeywords reports the column-carrying keyword argument names for a
// recognized loader callee, keyed by its terminal call name (e.g.
// "read_csv" out of `pd.read_csv(...)` or `pl.read_csv(...)`).
func LoaderKeywords(calleeName string) ([]string, bool) {
	kws, ok := loaderTable[calleeName]
	return kws, ok
}
