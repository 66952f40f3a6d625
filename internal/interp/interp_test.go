// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package interp_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"ariga.io/colcheck/internal/diag"
	"ariga.io/colcheck/internal/index"
	"ariga.io/colcheck/internal/interp"
	"ariga.io/colcheck/internal/parser"
	"ariga.io/colcheck/internal/schemaspec"
)

func run(t *testing.T, src string, opts interp.Options) []diag.Diagnostic {
	t.Helper()
	file, err := parser.ParseFile("t.py", src)
	require.NoError(t, err)
	descs, _ := schemaspec.Extract(file)
	return interp.Run(file, descs, opts)
}

func codes(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

// TestLoaderThenUnknownAccess: a loader pinned to two columns, then an
// access to a third, reports exactly one unknown-column error.
func TestLoaderThenUnknownAccess(t *testing.T) {
	src := "df = pd.read_csv(\"x.csv\", usecols=[\"alpha\", \"bravo\"])\nv = df[\"charlie\"]\n"
	diags := run(t, src, interp.Options{})
	require.Equal(t, []diag.Code{diag.CodeUnknownColumn}, codes(diags))
	require.Empty(t, diags[0].Suggestion)
}

// TestUntrackedLoader: a loader call with no column kwarg warns only
// under strict ingest.
func TestUntrackedLoader(t *testing.T) {
	src := "df = pd.read_csv(\"x.csv\")\n"
	diags := run(t, src, interp.Options{StrictIngest: true})
	require.Equal(t, []diag.Code{diag.CodeUntrackedDataframe}, codes(diags))

	diagsOff := run(t, src, interp.Options{StrictIngest: false})
	require.Empty(t, diagsOff)
}

// TestSchemaNarrowThenUnknownAccess: narrowing a schema-typed frame via
// a list subscript drops the unselected columns from the new binding.
func TestSchemaNarrowThenUnknownAccess(t *testing.T) {
	src := "" +
		"class S(Schema):\n    foo = Column()\n    bar = Column()\n    baz = Column()\n" +
		"def use(df: Frame[S]):\n" +
		"    a = df[[\"foo\", \"bar\"]]\n" +
		"    _ = a[\"baz\"]\n"
	diags := run(t, src, interp.Options{})
	require.Equal(t, []diag.Code{diag.CodeUnknownColumn}, codes(diags))
}

// TestRenameThenStaleAccess: after a rename the old column name is gone
// and the new one is present.
func TestRenameThenStaleAccess(t *testing.T) {
	src := "" +
		"class S(Schema):\n    foo = Column()\n" +
		"def use(df: Frame[S]):\n" +
		"    df2 = df.rename(columns={\"foo\": \"qux\"})\n" +
		"    _ = df2[\"foo\"]\n" +
		"    _ = df2[\"qux\"]\n"
	diags := run(t, src, interp.Options{})
	require.Equal(t, []diag.Code{diag.CodeUnknownColumn}, codes(diags))
}

// TestDropUnknownColumn: dropping a column the schema never had warns.
func TestDropUnknownColumn(t *testing.T) {
	src := "" +
		"class S(Schema):\n    foo = Column()\n" +
		"def use(df: Frame[S]):\n" +
		"    df.drop(columns=[\"nonexistent\"])\n"
	diags := run(t, src, interp.Options{})
	require.Equal(t, []diag.Code{diag.CodeDroppedUnknownColumn}, codes(diags))
}

// TestCrossFileSchemaResolution: a call to an imported function whose
// return annotation names a schema resolves through the project index.
func TestCrossFileSchemaResolution(t *testing.T) {
	aSrc := "class S(Schema):\n    id = Column()\n    name = Column()\n" +
		"def load() -> Frame[S]:\n    return pd.read_csv(\"x.csv\")\n"
	bSrc := "from a import load\n" +
		"x = load()\n" +
		"_ = x[\"revenue\"]\n"

	idx, diags, buildErr := buildIndexFromSource(t, map[string]string{"a.py": aSrc, "b.py": bSrc})
	require.NoError(t, buildErr)
	require.Empty(t, diags)

	bfile, err := parser.ParseFile("b.py", bSrc)
	require.NoError(t, err)
	bdescs, _ := schemaspec.Extract(bfile)
	got := interp.Run(bfile, bdescs, interp.Options{UseIndex: true, Index: idx})
	require.Equal(t, []diag.Code{diag.CodeUnknownColumn}, codes(got))
}

func buildIndexFromSource(t *testing.T, files map[string]string) (*index.Index, []diag.Diagnostic, error) {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		require.NoError(t, os.WriteFile(dir+"/"+name, []byte(src), 0o644))
	}
	return index.Build(dir)
}

func TestErrorFactSuppressesCascade(t *testing.T) {
	src := "" +
		"class S(Schema):\n    filter = Column()\n" +
		"def use(df: Frame[S]):\n" +
		"    _ = df[\"anything\"]\n"
	diags := run(t, src, interp.Options{})
	// The reserved-name diagnostic itself is schemaspec.Extract's job
	// (exercised in schemaspec_test.go); here only the interpreter's
	// diagnostics are collected, and the tainted Error fact must
	// suppress the downstream access check rather than double-report.
	require.Empty(t, diags)
}

func TestBooleanMaskPassesThrough(t *testing.T) {
	src := "" +
		"class S(Schema):\n    foo = Column()\n" +
		"def use(df: Frame[S]):\n" +
		"    masked = df[df.foo == 1]\n" +
		"    _ = masked[\"foo\"]\n"
	diags := run(t, src, interp.Options{})
	require.Empty(t, diags)
}

// TestSchemaAlgebraUnionAndIntersect exercises the `|`/`&` schema
// combinator forms.
func TestSchemaAlgebraUnionAndIntersect(t *testing.T) {
	src := "" +
		"class A(Schema):\n    foo = Column()\n    bar = Column()\n" +
		"class B(Schema):\n    bar = Column()\n    baz = Column()\n" +
		"def use(x: Frame[A], y: Frame[B]):\n" +
		"    u = x | y\n" +
		"    _ = u[\"baz\"]\n" +
		"    i = x & y\n" +
		"    _ = i[\"bar\"]\n" +
		"    _ = i[\"foo\"]\n"
	diags := run(t, src, interp.Options{})
	require.Equal(t, []diag.Code{diag.CodeUnknownColumn}, codes(diags))
}

// TestSelectUnknownColumnWarns: unknown names in a method's input list
// warn rather than error, unlike a list subscript's hard membership check.
func TestSelectUnknownColumnWarns(t *testing.T) {
	src := "" +
		"class S(Schema):\n    foo = Column()\n" +
		"def use(df: Frame[S]):\n" +
		"    df.select([\"foo\", \"oops\"])\n"
	diags := run(t, src, interp.Options{})
	require.Equal(t, []diag.Code{diag.CodeDroppedUnknownColumn}, codes(diags))
	require.Equal(t, diag.Warning, diags[0].Severity)
}

func TestRenameUnknownSourceWarns(t *testing.T) {
	src := "" +
		"class S(Schema):\n    foo = Column()\n" +
		"def use(df: Frame[S]):\n" +
		"    df.rename(columns={\"nope\": \"x\"})\n"
	diags := run(t, src, interp.Options{})
	require.Equal(t, []diag.Code{diag.CodeDroppedUnknownColumn}, codes(diags))
}

func TestReturnExpressionIsChecked(t *testing.T) {
	src := "" +
		"class S(Schema):\n    foo = Column()\n" +
		"def use(df: Frame[S]):\n" +
		"    return df[\"oops\"]\n"
	diags := run(t, src, interp.Options{})
	require.Equal(t, []diag.Code{diag.CodeUnknownColumn}, codes(diags))
}

func TestNonLiteralSubscriptIsUnknown(t *testing.T) {
	src := "" +
		"class S(Schema):\n    foo = Column()\n" +
		"def use(df: Frame[S], key):\n" +
		"    _ = df[key]\n"
	diags := run(t, src, interp.Options{})
	require.Empty(t, diags)
}
