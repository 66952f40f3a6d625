// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package interp

import (
	"fmt"
	"sort"

	"ariga.io/colcheck/internal/ast"
	"ariga.io/colcheck/internal/csf"
	"ariga.io/colcheck/internal/diag"
	"ariga.io/colcheck/internal/recognize"
)

// evalExpr computes the column-set fact an expression evaluates to,
// emitting diagnostics along the way for the handful of forms the
// analyzer assigns meaning to. Every other expression shape is opaque
// and evaluates to Unknown: it is not a frame, or its shape isn't one
// the analyzer understands, and either way no diagnostic should follow
// from it.
func (it *interp) evalExpr(sc *scope, e ast.Expr) csf.Fact {
	if e == nil {
		return csf.Unknown
	}
	switch x := e.(type) {
	case *ast.NameExpr:
		if f, ok := sc.lookup(x.Id); ok {
			return f
		}
		return csf.Unknown
	case *ast.SubscriptExpr:
		return it.evalSubscript(sc, x)
	case *ast.CallExpr:
		return it.evalCall(sc, x)
	case *ast.BinOpExpr:
		switch x.Op {
		case "|":
			return csf.Union(it.evalExpr(sc, x.Left), it.evalExpr(sc, x.Right))
		case "&":
			return csf.Intersect(it.evalExpr(sc, x.Left), it.evalExpr(sc, x.Right))
		}
		it.evalExpr(sc, x.Left)
		it.evalExpr(sc, x.Right)
		return csf.Unknown
	case *ast.AttributeExpr:
		it.evalExpr(sc, x.Value) // descend for nested diagnostics; the access itself is opaque
		return csf.Unknown
	case *ast.TupleExpr:
		for _, elt := range x.Elts {
			it.evalExpr(sc, elt)
		}
		return csf.Unknown
	default:
		return csf.Unknown
	}
}

// evalSubscript implements the subscript-read rules: a string-literal
// key is a column membership check, a list-literal key narrows, a
// boolean-valued key passes the fact through (row filter), and anything
// else (a non-literal expression) resolves to Unknown.
func (it *interp) evalSubscript(sc *scope, sub *ast.SubscriptExpr) csf.Fact {
	base := it.evalExpr(sc, sub.Value)
	if base.Variant == csf.VError {
		return csf.Error
	}

	switch key := sub.Slice.(type) {
	case *ast.StringLit:
		if base.Variant == csf.VUnknown {
			return csf.Unknown
		}
		if !base.Has(key.Value) {
			it.reportUnknownColumn(key.Position, key.Value, base)
		}
		// A single-key subscript yields a column/series, not a frame;
		// the bound result carries no frame fact of its own.
		return csf.Unknown
	case *ast.ListExpr:
		names, ok := ast.StringsOf(key)
		if !ok {
			return csf.Unknown
		}
		if base.Variant == csf.VUnknown {
			return csf.Unknown
		}
		for i, name := range names {
			if !base.Has(name) {
				it.reportUnknownColumn(key.Elts[i].Pos(), name, base)
			}
		}
		return csf.Narrow(base, names)
	default:
		if it.isBoolLike(sub.Slice, sub.Value) {
			return base
		}
		return csf.Unknown
	}
}

// isBoolLike recognizes the row-filter subscript shapes: a comparison,
// a boolean combination of comparisons, a handful of well-known
// boolean-returning methods (`.isna()`, `.isin()`, ...), or a bare
// boolean attribute access on the same base frame (`df[df.active]`).
func (it *interp) isBoolLike(key ast.Expr, base ast.Expr) bool {
	switch k := key.(type) {
	case *ast.CompareExpr, *ast.BoolOpExpr:
		return true
	case *ast.UnaryOpExpr:
		return k.Op == "not"
	case *ast.CallExpr:
		attr, ok := k.Func.(*ast.AttributeExpr)
		if !ok {
			return false
		}
		return boolReturningMethods[attr.Attr]
	case *ast.AttributeExpr:
		return sameBase(k.Value, base)
	default:
		return false
	}
}

var boolReturningMethods = map[string]bool{
	"isna": true, "notna": true, "isnull": true, "notnull": true,
	"duplicated": true, "between": true, "isin": true,
}

// sameBase is a shallow structural comparison used only to recognize
// `df[df.<attr>]` as a mask on the same frame named by the subscript's
// own base; it deliberately does not try to prove deep expression
// equality.
func sameBase(a, b ast.Expr) bool {
	an, aok := a.(*ast.NameExpr)
	bn, bok := b.(*ast.NameExpr)
	return aok && bok && an.Id == bn.Id
}

func (it *interp) reportUnknownColumn(pos ast.Position, name string, base csf.Fact) {
	msg := fmt.Sprintf("unknown column %q", name)
	it.reportWithSuggestion(pos, diag.CodeUnknownColumn, msg, name, sortedMembers(base))
}

func sortedMembers(f csf.Fact) []string {
	members, ok := f.Members()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(members))
	for m := range members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// evalCall dispatches a call expression to one of: a recognized
// frame method call on a frame-valued receiver, a recognized loader
// call, a cross-file call resolved through the project index, or an
// opaque call that evaluates to Unknown.
func (it *interp) evalCall(sc *scope, call *ast.CallExpr) csf.Fact {
	switch fn := call.Func.(type) {
	case *ast.AttributeExpr:
		if kws, ok := recognize.LoaderKeywords(fn.Attr); ok {
			return it.evalLoaderCall(call, kws)
		}
		if kind, ok := recognize.MethodEffect(fn.Attr); ok {
			base := it.evalExpr(sc, fn.Value)
			return it.applyMethod(call, kind, base)
		}
		if mod, ok := it.moduleImports[rootName(fn.Value)]; ok {
			return it.evalCrossFileCall(mod, fn.Attr)
		}
		it.evalExpr(sc, fn.Value)
		return csf.Unknown
	case *ast.NameExpr:
		if kws, ok := recognize.LoaderKeywords(fn.Id); ok {
			return it.evalLoaderCall(call, kws)
		}
		if ref, ok := it.fromImports[fn.Id]; ok {
			return it.evalCrossFileCall(ref.module, ref.symbol)
		}
		return csf.Unknown
	default:
		return csf.Unknown
	}
}

// rootName returns a bare identifier's name, or "" for anything else
// (used to recognize `<module_alias>.func(...)` call shapes).
func rootName(e ast.Expr) string {
	if n, ok := e.(*ast.NameExpr); ok {
		return n.Id
	}
	return ""
}

func (it *interp) evalCrossFileCall(module, symbol string) csf.Fact {
	if !it.opts.UseIndex || it.opts.Index == nil {
		return csf.Unknown
	}
	filePath, ok := it.opts.Index.ResolveModulePath(it.file, module)
	if !ok {
		return csf.Unknown
	}
	fact, ok := it.opts.Index.LookupFunction(filePath, symbol)
	if !ok {
		return csf.Unknown
	}
	return fact
}

func (it *interp) evalLoaderCall(call *ast.CallExpr, kwNames []string) csf.Fact {
	for _, kwName := range kwNames {
		for _, kw := range call.Keywords {
			if kw.Name != kwName {
				continue
			}
			switch v := kw.Value.(type) {
			case *ast.ListExpr:
				if names, ok := ast.StringsOf(v); ok {
					return csf.NewInferred(names, "loader:"+kwName)
				}
			case *ast.DictExpr:
				if names, ok := dictKeyNames(v); ok {
					return csf.NewInferred(names, "loader:"+kwName)
				}
			}
		}
	}
	if it.opts.StrictIngest {
		it.report(call.Position, diag.CodeUntrackedDataframe, "loader call does not pin a known column set")
	}
	return csf.Unknown
}

func (it *interp) applyMethod(call *ast.CallExpr, kind recognize.MethodKind, base csf.Fact) csf.Fact {
	switch kind {
	case recognize.Rename:
		mapping, ok := extractStringDictKwarg(call, "columns")
		if !ok {
			return csf.Unknown
		}
		if base.Variant == csf.VSchema || base.Variant == csf.VInferred {
			olds := make([]string, 0, len(mapping))
			for old := range mapping {
				olds = append(olds, old)
			}
			sort.Strings(olds)
			for _, old := range olds {
				if !base.Has(old) {
					it.report(call.Position, diag.CodeDroppedUnknownColumn,
						fmt.Sprintf("renaming unknown column %q", old))
				}
			}
		}
		return csf.Rename(base, mapping)
	case recognize.Drop:
		cols, ok := extractDropColumns(call)
		if !ok {
			return csf.Unknown
		}
		if base.Variant == csf.VSchema || base.Variant == csf.VInferred {
			for _, c := range cols {
				if !base.Has(c) {
					it.report(call.Position, diag.CodeDroppedUnknownColumn,
						fmt.Sprintf("dropping unknown column %q", c))
				}
			}
		}
		return csf.Drop(base, cols)
	case recognize.Narrow:
		cols, ok := extractListArg(call)
		if !ok {
			return csf.Unknown
		}
		// Unlike a list subscript (a hard membership check), unknown names
		// in a method's input list only warn.
		if base.Variant == csf.VSchema || base.Variant == csf.VInferred {
			for _, c := range cols {
				if !base.Has(c) {
					it.report(call.Position, diag.CodeDroppedUnknownColumn,
						fmt.Sprintf("selecting unknown column %q", c))
				}
			}
		}
		return csf.Narrow(base, cols)
	case recognize.Extend:
		var cols []string
		for _, kw := range call.Keywords {
			if kw.Name != "" {
				cols = append(cols, kw.Name)
			}
		}
		return csf.Extend(base, cols)
	case recognize.Passthrough:
		return base
	default:
		return csf.Unknown
	}
}

// extractStringDictKwarg reads a `name={...}` keyword whose dict values
// are all string literals, mapping each dict key's own literal text to
// its value's literal text (used for `rename(columns={...})`).
func extractStringDictKwarg(call *ast.CallExpr, name string) (map[string]string, bool) {
	for _, kw := range call.Keywords {
		if kw.Name != name {
			continue
		}
		d, ok := kw.Value.(*ast.DictExpr)
		if !ok {
			return nil, false
		}
		out := make(map[string]string, len(d.Keys))
		for i, k := range d.Keys {
			ks, ok := k.(*ast.StringLit)
			if !ok {
				return nil, false
			}
			vs, ok := d.Values[i].(*ast.StringLit)
			if !ok {
				return nil, false
			}
			out[ks.Value] = vs.Value
		}
		return out, true
	}
	return nil, false
}

// extractDropColumns reads drop's column argument, either the
// `columns=[...]` keyword (pandas) or the first positional list
// argument (polars' `.drop([...])`).
func extractDropColumns(call *ast.CallExpr) ([]string, bool) {
	for _, kw := range call.Keywords {
		if kw.Name == "columns" {
			if l, ok := kw.Value.(*ast.ListExpr); ok {
				return ast.StringsOf(l)
			}
			if s, ok := kw.Value.(*ast.StringLit); ok {
				return []string{s.Value}, true
			}
			return nil, false
		}
	}
	return extractListArg(call)
}

// extractListArg reads the first positional argument when it is a list
// of string literals (`select([...])`, `.drop([...])`).
func extractListArg(call *ast.CallExpr) ([]string, bool) {
	if len(call.Args) == 0 {
		return nil, false
	}
	l, ok := call.Args[0].(*ast.ListExpr)
	if !ok {
		return nil, false
	}
	return ast.StringsOf(l)
}

// dictKeyNames returns a DictExpr's string-literal keys, used for a
// loader's schema-as-dict keyword (`dtype={"a": "int64", ...}`).
func dictKeyNames(d *ast.DictExpr) ([]string, bool) {
	out := make([]string, 0, len(d.Keys))
	for _, k := range d.Keys {
		s, ok := k.(*ast.StringLit)
		if !ok {
			return nil, false
		}
		out = append(out, s.Value)
	}
	return out, true
}
