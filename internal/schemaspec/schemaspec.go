// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package schemaspec implements the schema extractor. It walks class
// declarations whose base resolves (directly or transitively, within the
// file) to a recognized schema base-name, extracts the declared columns,
// linearizes multiple inheritance, and flags reserved-name collisions
// with the host ecosystem's own method vocabulary.
package schemaspec

import (
	"fmt"

	"ariga.io/colcheck/internal/ast"
	"ariga.io/colcheck/internal/diag"
)

// baseNames are the class bases the extractor recognizes as introducing
// a schema. "Schema" and "PolarsSchema" are the native pandas/polars
// bases; "DataFrameModel" covers pandera-style declarations.
var baseNames = map[string]bool{
	"Schema":         true,
	"PolarsSchema":   true,
	"DataFrameModel": true,
}

// reservedMethodNames is the compile-time table of frame-library method
// names a declared column must not shadow (a column named "filter"
// makes `df.filter` ambiguous at runtime). It deliberately mirrors the
// method-effects table in internal/recognize so the two tables can't
// drift silently out of sync with each other's intent, even though they
// serve different components.
var reservedMethodNames = map[string]bool{
	"mean": true, "sum": true, "min": true, "max": true, "std": true, "var": true,
	"filter": true, "select": true, "rename": true, "drop": true, "assign": true,
	"merge": true, "join": true, "query": true, "head": true, "tail": true,
	"sort_values": true, "dropna": true, "fillna": true, "ffill": true, "bfill": true,
	"reset_index": true, "columns": true, "index": true, "loc": true, "iloc": true,
}

// Descriptor is the linearized, ready-to-use column set for one declared
// schema.
type Descriptor struct {
	Name       string
	Columns    []string
	Parents    []string
	Aliases    map[string]string
	AllowExtra bool
	Position   ast.Position
	// Origin records where the descriptor came from for diagnostic
	// provenance: "class" for a Python-class declaration, "yaml" for the
	// sidecar form.
	Origin string
	// Broken is true when this descriptor's own linearization (or a
	// parent's) raised a reserved-name or schema-conflict diagnostic.
	// The interpreter (internal/interp) consults this to taint any
	// binding typed by this schema to the Error fact, so one root cause
	// doesn't keep re-triggering unrelated diagnostics downstream.
	Broken bool
}

// classDecl is the raw, pre-linearization view of one `class X(Bases):`
// that resolved to a schema base.
type classDecl struct {
	name       string
	baseNames  []string
	fields     []fieldDecl
	allowExtra bool
	hasAllow   bool
	pos        ast.Position
}

type fieldDecl struct {
	attr     string
	alias    string
	declType string
	pos      ast.Position
}

// Extract walks a file's top-level class declarations and returns one
// Descriptor per recognized schema class, plus any reserved-name
// diagnostics raised during extraction. Unresolved or computed field
// values are simply omitted from the descriptor rather than rejected.
func Extract(file *ast.File) ([]Descriptor, []diag.Diagnostic) {
	classes := collectClasses(file.Stmts)
	schemaOf := resolveSchemaClasses(classes)

	byName := make(map[string]*classDecl, len(classes))
	for i := range classes {
		byName[classes[i].name] = &classes[i]
	}

	var descriptors []Descriptor
	var diags []diag.Diagnostic
	var order []string
	for _, c := range classes {
		if schemaOf[c.name] {
			order = append(order, c.name)
		}
	}
	for _, name := range order {
		c := byName[name]
		desc, _, ds := linearize(c, byName, schemaOf, make(map[string]bool))
		descriptors = append(descriptors, desc)
		diags = append(diags, ds...)
	}
	return descriptors, diags
}

func collectClasses(stmts []ast.Stmt) []classDecl {
	var out []classDecl
	for _, s := range stmts {
		cd, ok := s.(*ast.ClassDef)
		if !ok {
			continue
		}
		decl := classDecl{name: cd.Name, pos: cd.Position, allowExtra: true}
		for _, b := range cd.Bases {
			if n := terminalName(b); n != "" {
				decl.baseNames = append(decl.baseNames, n)
			}
		}
		for _, bs := range cd.Body {
			switch st := bs.(type) {
			case *ast.AssignStmt:
				if len(st.Targets) != 1 {
					continue
				}
				name, ok := st.Targets[0].(*ast.NameExpr)
				if !ok {
					continue
				}
				if name.Id == "allow_extra_columns" {
					if b, ok := st.Value.(*ast.BoolLit); ok {
						decl.allowExtra = b.Value
						decl.hasAllow = true
					}
					continue
				}
				if f, ok := parseFieldDecl(name.Id, st.Value, st.Position); ok {
					decl.fields = append(decl.fields, f)
				}
			case *ast.AnnAssignStmt:
				name, ok := st.Target.(*ast.NameExpr)
				if !ok || st.Value == nil {
					continue
				}
				if f, ok := parseFieldDecl(name.Id, st.Value, st.Position); ok {
					decl.fields = append(decl.fields, f)
				}
			}
		}
		out = append(out, decl)
	}
	return out
}

// parseFieldDecl recognizes `name = Column(...)` / `name = ColumnSet(...)`
// class-body assignments and extracts the alias/type literal keyword
// values.
func parseFieldDecl(attr string, value ast.Expr, pos ast.Position) (fieldDecl, bool) {
	call, ok := value.(*ast.CallExpr)
	if !ok {
		return fieldDecl{}, false
	}
	callee := terminalName(call.Func)
	if callee != "Column" && callee != "ColumnSet" {
		return fieldDecl{}, false
	}
	f := fieldDecl{attr: attr, pos: pos}
	for _, kw := range call.Keywords {
		switch kw.Name {
		case "alias":
			if s, ok := kw.Value.(*ast.StringLit); ok {
				f.alias = s.Value
			}
		case "type":
			if s, ok := kw.Value.(*ast.StringLit); ok {
				f.declType = s.Value
			} else if n, ok := kw.Value.(*ast.NameExpr); ok {
				f.declType = n.Id
			}
		}
	}
	return f, true
}

// terminalName returns the rightmost identifier of a (possibly dotted)
// base expression, e.g. "pandera.DataFrameModel" -> "DataFrameModel".
func terminalName(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.NameExpr:
		return n.Id
	case *ast.AttributeExpr:
		return n.Attr
	default:
		return ""
	}
}

// resolveSchemaClasses computes, for classes declared in this file, the
// fixed point of "this class's base resolves (directly or transitively)
// to a recognized schema base-name."
func resolveSchemaClasses(classes []classDecl) map[string]bool {
	schemaOf := make(map[string]bool, len(classes))
	localNames := make(map[string]bool, len(classes))
	for _, c := range classes {
		localNames[c.name] = true
	}
	changed := true
	for changed {
		changed = false
		for _, c := range classes {
			if schemaOf[c.name] {
				continue
			}
			for _, b := range c.baseNames {
				if baseNames[b] || (localNames[b] && schemaOf[b]) {
					schemaOf[c.name] = true
					changed = true
					break
				}
			}
		}
	}
	return schemaOf
}

// linearize computes a Descriptor's columns by left-to-right parent
// linearization (own columns appended last): multiple inheritance
// unions parent columns in method-resolution order, with later
// declarations shadowing earlier ones on name collision. Shadowing a
// parent column in the class body is allowed; two *parents* declaring
// the same physical column with incompatible types is a schema-conflict
// at the combining class's site. The returned physical-name -> declared
// type map carries each column's type up the recursion so a grandparent
// conflict still surfaces. visiting guards against cyclic parent
// declarations; a pathological local cycle must not hang the extractor.
func linearize(c *classDecl, byName map[string]*classDecl, schemaOf map[string]bool, visiting map[string]bool) (Descriptor, map[string]string, []diag.Diagnostic) {
	desc := Descriptor{
		Name:       c.name,
		AllowExtra: c.allowExtra,
		Position:   c.pos,
		Aliases:    map[string]string{},
		Origin:     "class",
	}
	var diags []diag.Diagnostic
	parentType := map[string]string{}
	ownType := map[string]string{}
	var ordered []string
	seen := map[string]bool{}

	add := func(name string) {
		if seen[name] {
			for i, n := range ordered {
				if n == name {
					ordered = append(ordered[:i], ordered[i+1:]...)
					break
				}
			}
		}
		seen[name] = true
		ordered = append(ordered, name)
	}

	if !visiting[c.name] {
		visiting[c.name] = true
		for _, bn := range c.baseNames {
			desc.Parents = append(desc.Parents, bn)
			parent, ok := byName[bn]
			if !ok || !schemaOf[bn] {
				continue
			}
			pd, ptypes, pdiags := linearize(parent, byName, schemaOf, visiting)
			diags = append(diags, pdiags...)
			for _, col := range pd.Columns {
				add(col)
				typ := ptypes[col]
				if typ == "" {
					continue
				}
				if prev, ok := parentType[col]; ok && prev != typ {
					diags = append(diags, diag.New(
						"", c.pos.Line, c.pos.Col, diag.CodeSchemaConflict,
						fmt.Sprintf("column %q declared with incompatible types %q and %q by parents of %q", col, prev, typ, c.name),
					))
				}
				parentType[col] = typ
			}
			for k, v := range pd.Aliases {
				desc.Aliases[k] = v
			}
		}
	}

	for _, f := range c.fields {
		physical := f.attr
		if f.alias != "" {
			physical = f.alias
			desc.Aliases[f.attr] = physical
		}
		if reservedMethodNames[physical] {
			diags = append(diags, diag.New(
				"", f.pos.Line, f.pos.Col, diag.CodeReservedMethodName,
				fmt.Sprintf("column %q conflicts with a dataframe method", physical),
			))
		}
		if prev, ok := ownType[physical]; ok && f.declType != "" && prev != "" && prev != f.declType {
			diags = append(diags, diag.New(
				"", c.pos.Line, c.pos.Col, diag.CodeSchemaConflict,
				fmt.Sprintf("column %q declared with incompatible types %q and %q", physical, prev, f.declType),
			))
		}
		if f.declType != "" {
			ownType[physical] = f.declType
		}
		add(physical)
	}
	desc.Columns = ordered
	desc.Broken = len(diags) > 0

	colTypes := make(map[string]string, len(parentType)+len(ownType))
	for k, v := range parentType {
		colTypes[k] = v
	}
	for k, v := range ownType {
		colTypes[k] = v
	}
	return desc, colTypes, diags
}
