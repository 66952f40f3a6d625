// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ariga.io/colcheck/internal/ast"
	"ariga.io/colcheck/internal/parser"
)

func TestParseAssignment(t *testing.T) {
	file, err := parser.ParseFile("t.py", "x = 1\n")
	require.NoError(t, err)
	require.Len(t, file.Stmts, 1)
	assign, ok := file.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	require.Len(t, assign.Targets, 1)
	name, ok := assign.Targets[0].(*ast.NameExpr)
	require.True(t, ok)
	require.Equal(t, "x", name.Id)
}

func TestParseChainedAssignment(t *testing.T) {
	file, err := parser.ParseFile("t.py", "x = y = 1\n")
	require.NoError(t, err)
	assign := file.Stmts[0].(*ast.AssignStmt)
	require.Len(t, assign.Targets, 2)
}

func TestParseAnnAssign(t *testing.T) {
	file, err := parser.ParseFile("t.py", "df: Frame[S] = load()\n")
	require.NoError(t, err)
	ann := file.Stmts[0].(*ast.AnnAssignStmt)
	name := ann.Target.(*ast.NameExpr)
	require.Equal(t, "df", name.Id)
	sub := ann.Annotation.(*ast.SubscriptExpr)
	head := sub.Value.(*ast.NameExpr)
	require.Equal(t, "Frame", head.Id)
}

func TestParseSubscriptList(t *testing.T) {
	file, err := parser.ParseFile("t.py", `a = df[["foo", "bar"]]` + "\n")
	require.NoError(t, err)
	assign := file.Stmts[0].(*ast.AssignStmt)
	sub := assign.Value.(*ast.SubscriptExpr)
	lst := sub.Slice.(*ast.ListExpr)
	vals, ok := ast.StringsOf(lst)
	require.True(t, ok)
	require.Equal(t, []string{"foo", "bar"}, vals)
}

func TestParseCallKeywords(t *testing.T) {
	file, err := parser.ParseFile("t.py", `df = pd.read_csv("x.csv", usecols=["a", "b"])`+"\n")
	require.NoError(t, err)
	assign := file.Stmts[0].(*ast.AssignStmt)
	call := assign.Value.(*ast.CallExpr)
	require.Len(t, call.Args, 1)
	require.Len(t, call.Keywords, 1)
	require.Equal(t, "usecols", call.Keywords[0].Name)
}

func TestParseClassDef(t *testing.T) {
	src := "class S(Schema):\n    foo = Column(type=\"int\")\n    bar = Column(alias=\"b\")\n"
	file, err := parser.ParseFile("t.py", src)
	require.NoError(t, err)
	cls := file.Stmts[0].(*ast.ClassDef)
	require.Equal(t, "S", cls.Name)
	require.Len(t, cls.Body, 2)
}

func TestParseFunctionDef(t *testing.T) {
	src := "def load() -> Frame[S]:\n    return pd.read_csv(\"x.csv\")\n"
	file, err := parser.ParseFile("t.py", src)
	require.NoError(t, err)
	fn := file.Stmts[0].(*ast.FunctionDef)
	require.Equal(t, "load", fn.Name)
	require.True(t, fn.Exported)
	require.NotNil(t, fn.Returns)
}

func TestParseToleratesSyntaxError(t *testing.T) {
	file, err := parser.ParseFile("t.py", "def (((\n")
	require.Error(t, err)
	require.NotNil(t, file)
	require.Empty(t, file.Stmts)
}

func TestParseIfElifElse(t *testing.T) {
	src := "if x:\n    a = 1\nelif y:\n    a = 2\nelse:\n    a = 3\n"
	file, err := parser.ParseFile("t.py", src)
	require.NoError(t, err)
	comp := file.Stmts[0].(*ast.CompoundStmt)
	require.Equal(t, "if", comp.Keyword)
	require.Len(t, comp.Bodies, 3)
}

func TestParseForLoop(t *testing.T) {
	src := "for i in range(3):\n    x = i\n"
	file, err := parser.ParseFile("t.py", src)
	require.NoError(t, err)
	comp := file.Stmts[0].(*ast.CompoundStmt)
	require.Equal(t, "for", comp.Keyword)
	require.Len(t, comp.Bodies, 1)
}

func TestParseForTupleTarget(t *testing.T) {
	src := "for k, v in items:\n    x = k\n"
	file, err := parser.ParseFile("t.py", src)
	require.NoError(t, err)
	comp := file.Stmts[0].(*ast.CompoundStmt)
	require.Equal(t, "for", comp.Keyword)
}

func TestParseConditionalExpression(t *testing.T) {
	file, err := parser.ParseFile("t.py", "a = b if c else d\n")
	require.NoError(t, err)
	assign := file.Stmts[0].(*ast.AssignStmt)
	_, ok := assign.Value.(*ast.OpaqueExpr)
	require.True(t, ok, "a conditional expression is opaque to the analyzer")
}

func TestParseReturnExpression(t *testing.T) {
	src := "def f(df):\n    return df[\"a\"]\n"
	file, err := parser.ParseFile("t.py", src)
	require.NoError(t, err)
	fn := file.Stmts[0].(*ast.FunctionDef)
	ret := fn.Body[0].(*ast.ReturnStmt)
	require.NotNil(t, ret.Value)
}

func TestParseBooleanMaskSubscript(t *testing.T) {
	file, err := parser.ParseFile("t.py", "b = df[df.active]\n")
	require.NoError(t, err)
	assign := file.Stmts[0].(*ast.AssignStmt)
	sub := assign.Value.(*ast.SubscriptExpr)
	_, ok := sub.Slice.(*ast.AttributeExpr)
	require.True(t, ok)
}
