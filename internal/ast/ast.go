// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package ast defines the concrete syntax tree produced by internal/parser
// for the pandas/polars-shaped host language subset this analyzer reads.
// Every node carries a 1-based Position so diagnostics can report exact
// spans; the tree is intentionally shallow: it exists to let the
// interpreter (internal/interp) and the schema extractor (internal/schemaspec)
// answer "what does this expression look like" without re-parsing.
package ast

// Position is a 1-based source location.
type Position struct {
	Line, Col int
}

// Node is implemented by every statement and expression.
type Node interface {
	Pos() Position
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// File is the parsed view of a single source file. A file whose source
// failed to scan or parse still produces a non-nil File with an empty
// Stmts list, per the parser's tolerant-failure contract.
type File struct {
	Path  string
	Stmts []Stmt
}

type (
	// Param is a function parameter, optionally annotated.
	Param struct {
		Name       string
		Annotation Expr // nil if unannotated
		Position   Position
	}

	// ImportName is one imported symbol, optionally aliased.
	ImportName struct {
		Name     string
		Alias    string // empty if no "as" clause
		Position Position
	}
)

// ---- statements ----

type (
	// AssignStmt is `t1 = t2 = ... = Value`. Non-name targets (e.g. a
	// subscript or attribute target) are retained for completeness but
	// the interpreter ignores them per the "non-single-name targets are
	// ignored" rule.
	AssignStmt struct {
		Targets  []Expr
		Value    Expr
		Position Position
	}

	// AnnAssignStmt is `Target: Annotation = Value` (Value may be nil for
	// a bare declaration, e.g. `df: Frame[S]`).
	AnnAssignStmt struct {
		Target     Expr
		Annotation Expr
		Value      Expr // nil if there is no initializer
		Position   Position
	}

	// AugAssignStmt is `target OP= value` (e.g. `+=`). The analyzer
	// treats the result as opaque; see interp's handling.
	AugAssignStmt struct {
		Target   Expr
		Op       string
		Value    Expr
		Position Position
	}

	// ExprStmt is a bare expression used as a statement (e.g. a call
	// with no assignment, such as `df.drop(columns=["x"], inplace=True)`).
	ExprStmt struct {
		X        Expr
		Position Position
	}

	// ImportStmt covers both `import a.b` and `from a.b import c, d as e`.
	ImportStmt struct {
		Module   string // dotted module path; empty for a bare `import X`
		Names    []ImportName
		Position Position
	}

	// FunctionDef introduces a new lexical scope for the interpreter
	// and, when its Returns annotation names a schema-carrying frame
	// type, a function signature of interest for the project index.
	FunctionDef struct {
		Name     string
		Params   []Param
		Returns  Expr // nil if unannotated
		Body     []Stmt
		Exported bool // true unless Name starts with "_"
		Position Position
	}

	// ClassDef is walked by the schema extractor (internal/schemaspec);
	// the interpreter does not execute statements inside a class body.
	ClassDef struct {
		Name     string
		Bases    []Expr
		Body     []Stmt
		Position Position
	}

	// CompoundStmt models every branching/looping construct (if/elif/else,
	// for, while, with, try/except/finally) uniformly: the analyzer is
	// linear over statements (no CFG join), so each Body is simply
	// processed in source order against the same scope. Keyword records
	// the originating construct only for diagnostics/debugging.
	CompoundStmt struct {
		Keyword  string
		Bodies   [][]Stmt
		Position Position
	}

	// ReturnStmt carries the returned expression, which the interpreter
	// evaluates so a bad column access inside it is still reported. The
	// indexer (internal/index) never reads return statements; it uses only
	// the enclosing FunctionDef's Returns annotation.
	ReturnStmt struct {
		Value    Expr // nil for a bare `return`
		Position Position
	}

	// PassStmt and other no-ops the grammar must still recognize to stay
	// tolerant of real source; they carry no analysis meaning.
	PassStmt struct {
		Position Position
	}
)

func (*AssignStmt) stmtNode()    {}
func (*AnnAssignStmt) stmtNode() {}
func (*AugAssignStmt) stmtNode() {}
func (*ExprStmt) stmtNode()      {}
func (*ImportStmt) stmtNode()    {}
func (*FunctionDef) stmtNode()   {}
func (*ClassDef) stmtNode()      {}
func (*CompoundStmt) stmtNode()  {}
func (*ReturnStmt) stmtNode()    {}
func (*PassStmt) stmtNode()      {}

func (n *AssignStmt) Pos() Position    { return n.Position }
func (n *AnnAssignStmt) Pos() Position { return n.Position }
func (n *AugAssignStmt) Pos() Position { return n.Position }
func (n *ExprStmt) Pos() Position      { return n.Position }
func (n *ImportStmt) Pos() Position    { return n.Position }
func (n *FunctionDef) Pos() Position   { return n.Position }
func (n *ClassDef) Pos() Position      { return n.Position }
func (n *CompoundStmt) Pos() Position  { return n.Position }
func (n *ReturnStmt) Pos() Position    { return n.Position }
func (n *PassStmt) Pos() Position      { return n.Position }

// ---- expressions ----

type (
	// NameExpr is a bare identifier reference.
	NameExpr struct {
		Id       string
		Position Position
	}

	// AttributeExpr is `Value.Attr`.
	AttributeExpr struct {
		Value    Expr
		Attr     string
		Position Position
	}

	// SubscriptExpr is `Value[Slice]`. It is reused both for runtime
	// subscript reads (`df["a"]`) and for parametric type annotations
	// (`Frame[S]`, `Annotated[X, Y]`), since the host grammar uses the
	// same syntax for both.
	SubscriptExpr struct {
		Value    Expr
		Slice    Expr
		Position Position
	}

	// CallExpr is `Func(Args..., Keywords...)`.
	CallExpr struct {
		Func     Expr
		Args     []Expr
		Keywords []Keyword
		Position Position
	}

	// Keyword is one `name=value` call argument.
	Keyword struct {
		Name     string // empty for a **kwargs spread
		Value    Expr
		Position Position
	}

	// StringLit is a single- or double-quoted string literal.
	StringLit struct {
		Value    string
		Position Position
	}

	// NumberLit is an integer or float literal, kept as source text.
	NumberLit struct {
		Value    string
		Position Position
	}

	// BoolLit is True/False.
	BoolLit struct {
		Value    bool
		Position Position
	}

	// NoneLit is None.
	NoneLit struct {
		Position Position
	}

	// ListExpr is `[e1, e2, ...]`.
	ListExpr struct {
		Elts     []Expr
		Position Position
	}

	// TupleExpr is `(e1, e2, ...)`, also used for the two-argument form
	// of `Annotated[X, Y]` and multi-target assignment.
	TupleExpr struct {
		Elts     []Expr
		Position Position
	}

	// DictExpr is `{k1: v1, ...}`.
	DictExpr struct {
		Keys     []Expr
		Values   []Expr
		Position Position
	}

	// CompareExpr is a chained comparison, `Left OP1 Comparators[0] OP2 ...`.
	CompareExpr struct {
		Left        Expr
		Ops         []string
		Comparators []Expr
		Position    Position
	}

	// BoolOpExpr is `a and b`, `a or b`.
	BoolOpExpr struct {
		Op       string
		Values   []Expr
		Position Position
	}

	// UnaryOpExpr is `not x`, `-x`, `~x`.
	UnaryOpExpr struct {
		Op       string
		Operand  Expr
		Position Position
	}

	// BinOpExpr is a binary operator expression, notably `SchemaA | SchemaB`
	// (the schema-algebra combinator, evaluated by internal/interp through
	// csf.Union / csf.Intersect).
	BinOpExpr struct {
		Left, Right Expr
		Op          string
		Position    Position
	}

	// StarExpr is a `*args` positional spread (a `**kwargs` spread is a
	// Keyword with an empty Name). The analyzer never inspects its value;
	// the rest of the surrounding call is analyzed as usual.
	StarExpr struct {
		Value    Expr
		Double   bool
		Position Position
	}

	// OpaqueExpr is a syntactic placeholder for expression forms the
	// grammar recognizes but the analyzer assigns no special meaning to
	// (lambdas, f-strings, slice-with-step, etc.).
	OpaqueExpr struct {
		Position Position
	}
)

func (*NameExpr) exprNode()      {}
func (*AttributeExpr) exprNode() {}
func (*SubscriptExpr) exprNode() {}
func (*CallExpr) exprNode()      {}
func (*StringLit) exprNode()     {}
func (*NumberLit) exprNode()     {}
func (*BoolLit) exprNode()       {}
func (*NoneLit) exprNode()       {}
func (*ListExpr) exprNode()      {}
func (*TupleExpr) exprNode()     {}
func (*DictExpr) exprNode()      {}
func (*CompareExpr) exprNode()   {}
func (*BoolOpExpr) exprNode()    {}
func (*UnaryOpExpr) exprNode()   {}
func (*BinOpExpr) exprNode()     {}
func (*StarExpr) exprNode()      {}
func (*OpaqueExpr) exprNode()    {}

func (n *NameExpr) Pos() Position      { return n.Position }
func (n *AttributeExpr) Pos() Position { return n.Position }
func (n *SubscriptExpr) Pos() Position { return n.Position }
func (n *CallExpr) Pos() Position      { return n.Position }
func (n *StringLit) Pos() Position     { return n.Position }
func (n *NumberLit) Pos() Position     { return n.Position }
func (n *BoolLit) Pos() Position       { return n.Position }
func (n *NoneLit) Pos() Position       { return n.Position }
func (n *ListExpr) Pos() Position      { return n.Position }
func (n *TupleExpr) Pos() Position     { return n.Position }
func (n *DictExpr) Pos() Position      { return n.Position }
func (n *CompareExpr) Pos() Position   { return n.Position }
func (n *BoolOpExpr) Pos() Position    { return n.Position }
func (n *UnaryOpExpr) Pos() Position   { return n.Position }
func (n *BinOpExpr) Pos() Position     { return n.Position }
func (n *StarExpr) Pos() Position      { return n.Position }
func (n *OpaqueExpr) Pos() Position    { return n.Position }

// StringsOf returns the literal string values of a ListExpr, plus whether
// every element was in fact a string literal (false if any element was
// something else, in which case the caller should fall back to Unknown).
func StringsOf(l *ListExpr) (vals []string, ok bool) {
	vals = make([]string, 0, len(l.Elts))
	for _, e := range l.Elts {
		s, isStr := e.(*StringLit)
		if !isStr {
			return nil, false
		}
		vals = append(vals, s.Value)
	}
	return vals, true
}
