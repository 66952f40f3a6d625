// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package interp implements the abstract interpreter, the single
// component that actually walks a file's statements and turns them into
// diagnostics. It is deliberately simple in its control-flow handling
// (linear over statements, no CFG join; see walkBody) and deliberately
// careful in its column-set handling, since that precision is the whole
// point of the analyzer.
package interp

import (
	"ariga.io/colcheck/internal/ast"
	"ariga.io/colcheck/internal/csf"
	"ariga.io/colcheck/internal/diag"
	"ariga.io/colcheck/internal/frameann"
	"ariga.io/colcheck/internal/index"
	"ariga.io/colcheck/internal/schemaspec"
	"ariga.io/colcheck/internal/suggest"
)

// Options carries the per-run configuration inputs.
type Options struct {
	// StrictIngest gates the untracked-dataframe warning: a loader call
	// whose schema-carrying keyword couldn't be resolved to a literal.
	// Warning suppression (no-warnings) is deliberately not an
	// interpreter concern: Run always computes the full diagnostic set
	// and the caller filters via diag.FilterWarnings.
	StrictIngest bool
	// UseIndex gates cross-file call resolution.
	UseIndex bool
	// Index is the project index consulted when UseIndex is set and a
	// call crosses a file boundary. May be nil even when UseIndex is
	// true (e.g. the caller has no index yet); cross-file calls then
	// simply resolve to Unknown.
	Index *index.Index
}

// importRef is one `from <module> import <symbol> [as <alias>]` binding.
type importRef struct {
	module string
	symbol string
}

// interp holds the per-file state threaded through statement and
// expression evaluation. It is not safe for concurrent use; the driver
// runs one interp per file.
type interp struct {
	file    string
	opts    Options
	schemas map[string]schemaspec.Descriptor
	broken  map[string]bool // schema name -> had a reserved-name/schema-conflict diagnostic
	// fromImports maps a local name (alias or bare symbol) introduced by
	// `from X import Y as Z` to its origin module + original symbol.
	fromImports map[string]importRef
	// moduleImports maps a local alias introduced by `import X as Y` (or
	// bare `import X`, keyed by its own dotted name) to the module path.
	moduleImports map[string]string

	diags []diag.Diagnostic
}

// Run interprets file's top-level statements and returns the
// diagnostics raised. descriptors is the set of schema class
// descriptors already extracted from this same file (the caller runs
// schemaspec.Extract once and reuses the result for both its own
// diagnostics and this call, to avoid re-walking the class bodies).
func Run(file *ast.File, descriptors []schemaspec.Descriptor, opts Options) []diag.Diagnostic {
	it := &interp{
		file:          file.Path,
		opts:          opts,
		schemas:       make(map[string]schemaspec.Descriptor, len(descriptors)),
		broken:        map[string]bool{},
		fromImports:   map[string]importRef{},
		moduleImports: map[string]string{},
	}
	for _, d := range descriptors {
		it.schemas[d.Name] = d
		it.broken[d.Name] = d.Broken
	}

	root := newScope(nil)
	for _, s := range file.Stmts {
		it.collectImport(s)
	}
	it.walkBody(root, file.Stmts)

	diag.Sort(it.diags)
	return it.diags
}

func (it *interp) collectImport(s ast.Stmt) {
	imp, ok := s.(*ast.ImportStmt)
	if !ok {
		return
	}
	if imp.Module == "" {
		// `import a.b[, c.d as e]`: each Name is itself a dotted module.
		for _, n := range imp.Names {
			local := n.Alias
			if local == "" {
				local = n.Name
			}
			it.moduleImports[local] = n.Name
		}
		return
	}
	// `from a.b import c[, d as e]`
	for _, n := range imp.Names {
		local := n.Alias
		if local == "" {
			local = n.Name
		}
		it.fromImports[local] = importRef{module: imp.Module, symbol: n.Name}
	}
}

func (it *interp) report(pos ast.Position, code diag.Code, msg string) {
	it.diags = append(it.diags, diag.New(it.file, pos.Line, pos.Col, code, msg))
}

func (it *interp) reportWithSuggestion(pos ast.Position, code diag.Code, msg string, name string, candidates []string) {
	d := diag.New(it.file, pos.Line, pos.Col, code, msg)
	if sugg := suggest.For(name, candidates); len(sugg) > 0 {
		d = d.WithSuggestion(sugg[0])
	}
	it.diags = append(it.diags, d)
}

// walkBody processes stmts in source order against scope. Branching
// constructs (CompoundStmt) are flattened into the same linear walk
// with no CFG join: each branch body is processed independently, in order,
// and whichever one runs last wins any reassigned binding. This is a
// known, accepted imprecision, not an oversight.
func (it *interp) walkBody(sc *scope, stmts []ast.Stmt) {
	for _, s := range stmts {
		it.walkStmt(sc, s)
	}
}

func (it *interp) walkStmt(sc *scope, s ast.Stmt) {
	switch st := s.(type) {
	case *ast.AssignStmt:
		val := it.evalExpr(sc, st.Value)
		for _, t := range st.Targets {
			if n, ok := t.(*ast.NameExpr); ok {
				sc.bind(n.Id, val)
			}
		}
	case *ast.AnnAssignStmt:
		it.walkAnnAssign(sc, st)
	case *ast.AugAssignStmt:
		if n, ok := st.Target.(*ast.NameExpr); ok {
			sc.bind(n.Id, csf.Unknown)
		}
	case *ast.ExprStmt:
		it.evalExpr(sc, st.X)
	case *ast.ImportStmt:
		// already collected in a pre-pass; nothing to do per-statement.
	case *ast.FunctionDef:
		it.walkFunction(sc, st)
	case *ast.ClassDef:
		// class bodies were already handled by schemaspec.Extract.
	case *ast.CompoundStmt:
		for _, body := range st.Bodies {
			it.walkBody(sc, body)
		}
	case *ast.ReturnStmt:
		if st.Value != nil {
			it.evalExpr(sc, st.Value) // a return value can still contain a bad access
		}
	case *ast.PassStmt:
		// no analysis meaning here.
	}
}

func (it *interp) walkAnnAssign(sc *scope, st *ast.AnnAssignStmt) {
	name, ok := st.Target.(*ast.NameExpr)
	if !ok {
		if st.Value != nil {
			it.evalExpr(sc, st.Value)
		}
		return
	}
	if schemaName, ok := frameann.Resolve(st.Annotation, frameann.DefaultFrameTypeNames); ok {
		sc.bind(name.Id, it.resolveSchema(schemaName))
		if st.Value != nil {
			it.evalExpr(sc, st.Value) // evaluated for side effects/nested diagnostics only
		}
		return
	}
	if st.Value != nil {
		sc.bind(name.Id, it.evalExpr(sc, st.Value))
		return
	}
	sc.bind(name.Id, csf.Unknown)
}

func (it *interp) walkFunction(sc *scope, fn *ast.FunctionDef) {
	inner := newScope(sc)
	for _, p := range fn.Params {
		if p.Annotation != nil {
			if schemaName, ok := frameann.Resolve(p.Annotation, frameann.DefaultFrameTypeNames); ok {
				inner.bind(p.Name, it.resolveSchema(schemaName))
				continue
			}
		}
		inner.bind(p.Name, csf.Unknown)
	}
	it.walkBody(inner, fn.Body)
}

// resolveSchema looks up a schema name declared in this file and taints
// the result to Error if that declaration itself carried a reserved-name
// or schema-conflict diagnostic, so one root cause does not keep
// re-triggering downstream diagnostics.
func (it *interp) resolveSchema(name string) csf.Fact {
	if it.broken[name] {
		return csf.Error
	}
	desc, ok := it.schemas[name]
	if !ok {
		return csf.Unknown
	}
	return csf.NewSchema(desc.Name, desc.Columns)
}
