// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package csf implements the column-set-fact lattice. A Fact is the
// analyzer's per-binding belief about a frame's columns: one of Schema,
// Inferred, Unknown, or Error. The lattice operations (Narrow, Drop,
// Rename, Extend, Members) and the schema-algebra pair (Union,
// Intersect) are the only ways the interpreter
// (internal/interp) is allowed to transform a Fact; keeping them here,
// independent of AST or scope concerns, is what makes the invariant "a
// binding's fact is always exactly one lattice variant" checkable in
// isolation.
package csf

// Variant identifies which of the four lattice members a Fact holds.
type Variant int

const (
	// VUnknown is the lattice top: column set not known at lint time.
	// Further operations on it produce no diagnostics and propagate
	// Unknown.
	VUnknown Variant = iota
	// VSchema is a named schema with a known ordered column list.
	VSchema
	// VInferred is an unnamed, concrete ordered column set derived from
	// a literal at a specific source location.
	VInferred
	// VError is the lattice bottom: a prior operation invalidated the
	// fact; diagnostics never chain off it.
	VError
)

// Fact is an immutable column-set fact. Callers must treat a Fact as a
// value type: all lattice operations return a new Fact rather than
// mutating the receiver, mirroring the invariant that a binding's fact is
// always exactly one lattice variant.
type Fact struct {
	Variant Variant
	// Name is set only when Variant == VSchema.
	Name string
	// Columns is the ordered, deduplicated-on-read column list for
	// VSchema and VInferred. Duplicates may appear (a user may declare
	// ["a","a"]); Members lazily dedupes for membership checks while
	// Columns preserves source order for diagnostic determinism.
	Columns []string
	// Origin records where an Inferred fact's literal came from, for
	// diagnostic provenance only; it never affects lattice semantics.
	Origin string
}

// Unknown is the shared Unknown fact.
var Unknown = Fact{Variant: VUnknown}

// Error is the shared Error fact (lattice bottom).
var Error = Fact{Variant: VError}

// NewSchema returns a Schema(name) fact over the given columns.
func NewSchema(name string, columns []string) Fact {
	return Fact{Variant: VSchema, Name: name, Columns: columns}
}

// NewInferred returns an Inferred fact over the given columns.
func NewInferred(columns []string, origin string) Fact {
	return Fact{Variant: VInferred, Columns: columns, Origin: origin}
}

// Members enumerates known column names, or (nil, false) for Unknown/Error.
// The returned set is deduplicated; membership, not order, is what callers
// of Members care about.
func (f Fact) Members() (map[string]bool, bool) {
	if f.Variant != VSchema && f.Variant != VInferred {
		return nil, false
	}
	set := make(map[string]bool, len(f.Columns))
	for _, c := range f.Columns {
		set[c] = true
	}
	return set, true
}

// Has reports whether column is a known member of f. It is always false
// for Unknown and Error, matching "further operations on [Unknown]
// produce no diagnostics."
func (f Fact) Has(column string) bool {
	members, ok := f.Members()
	if !ok {
		return false
	}
	return members[column]
}

// Narrow restricts f to the given column subset: Schema becomes
// Inferred of the subset; Inferred becomes Inferred of the
// intersection; Unknown stays Unknown. cols that are not members of f are
// dropped silently; callers that need to diagnose an unknown name in
// cols do so themselves before calling Narrow (see internal/interp),
// since Narrow is a pure lattice operation with no diagnostic side
// effects.
func Narrow(f Fact, cols []string) Fact {
	switch f.Variant {
	case VUnknown:
		return Unknown
	case VError:
		return Error
	default:
		members, _ := f.Members()
		out := make([]string, 0, len(cols))
		for _, c := range cols {
			if members[c] {
				out = append(out, c)
			}
		}
		return NewInferred(out, "narrow")
	}
}

// Drop removes named columns from f.
func Drop(f Fact, cols []string) Fact {
	switch f.Variant {
	case VUnknown:
		return Unknown
	case VError:
		return Error
	default:
		drop := make(map[string]bool, len(cols))
		for _, c := range cols {
			drop[c] = true
		}
		out := make([]string, 0, len(f.Columns))
		seen := make(map[string]bool, len(f.Columns))
		for _, c := range f.Columns {
			if drop[c] || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
		return NewInferred(out, "drop")
	}
}

// Rename substitutes names according to mapping (old -> new).
func Rename(f Fact, mapping map[string]string) Fact {
	switch f.Variant {
	case VUnknown:
		return Unknown
	case VError:
		return Error
	default:
		out := make([]string, 0, len(f.Columns))
		seen := make(map[string]bool, len(f.Columns))
		for _, c := range f.Columns {
			n := c
			if to, ok := mapping[c]; ok {
				n = to
			}
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
		return NewInferred(out, "rename")
	}
}

// Extend adds new columns to f; Unknown stays Unknown.
func Extend(f Fact, cols []string) Fact {
	switch f.Variant {
	case VUnknown:
		return Unknown
	case VError:
		return Error
	default:
		seen := make(map[string]bool, len(f.Columns)+len(cols))
		out := make([]string, 0, len(f.Columns)+len(cols))
		for _, c := range f.Columns {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
		for _, c := range cols {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
		return NewInferred(out, "extend")
	}
}

// Union computes the set union of two facts' columns, backing the
// `SchemaA | SchemaB` combinator form. Unknown/Error propagate per the
// usual rule: if either side is Unknown the result is Unknown; if either
// is Error the result is Error (Error dominates since it must suppress
// downstream diagnostics).
func Union(a, b Fact) Fact {
	if a.Variant == VError || b.Variant == VError {
		return Error
	}
	if a.Variant == VUnknown || b.Variant == VUnknown {
		return Unknown
	}
	return Extend(a, b.Columns)
}

// Intersect computes the set intersection of two facts' columns.
func Intersect(a, b Fact) Fact {
	if a.Variant == VError || b.Variant == VError {
		return Error
	}
	if a.Variant == VUnknown || b.Variant == VUnknown {
		return Unknown
	}
	bm, _ := b.Members()
	out := make([]string, 0, len(a.Columns))
	seen := make(map[string]bool, len(a.Columns))
	for _, c := range a.Columns {
		if bm[c] && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return NewInferred(out, "intersect")
}
