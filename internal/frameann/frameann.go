// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package frameann recognizes the two "frame with a known column set"
// annotation shapes: `Frame[Schema]` and `Annotated[FrameType, Schema]`.
// Both the project indexer (function return annotations) and the
// interpreter (local annotated assignment) need the same recognizer, so
// it lives in its own leaf package to avoid a cycle between
// internal/index and internal/interp.
package frameann

import "ariga.io/colcheck/internal/ast"

// Resolve reports the schema name an annotation expression names, if it
// is one of the two recognized parametric forms. frameTypeNames is the
// set of generic names treated as "frame" (e.g. "Frame", "DataFrame",
// "LazyFrame"); callers pass the project-wide convention so the
// recognizer stays a plain name check, not a hard-coded string.
func Resolve(e ast.Expr, frameTypeNames map[string]bool) (schema string, ok bool) {
	sub, isSub := e.(*ast.SubscriptExpr)
	if !isSub {
		return "", false
	}
	head := terminalName(sub.Value)
	switch {
	case frameTypeNames[head]:
		if name, ok := terminalNameExpr(sub.Slice); ok {
			return name, true
		}
	case head == "Annotated":
		tup, ok := sub.Slice.(*ast.TupleExpr)
		if ok && len(tup.Elts) == 2 {
			if name, ok := terminalNameExpr(tup.Elts[1]); ok {
				return name, true
			}
		}
	}
	return "", false
}

// DefaultFrameTypeNames is the compile-time table of generic names the
// analyzer treats as a parametric frame type, mirroring the loader
// registry's table-edit-only extensibility.
var DefaultFrameTypeNames = map[string]bool{
	"Frame":       true,
	"DataFrame":   true,
	"LazyFrame":   true,
	"PolarsFrame": true,
}

func terminalNameExpr(e ast.Expr) (string, bool) {
	n, ok := e.(*ast.NameExpr)
	if !ok {
		return "", false
	}
	return n.Id, true
}

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
