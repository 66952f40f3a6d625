// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package colcheck_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ariga.io/colcheck"
	"ariga.io/colcheck/internal/diag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiagnosticsSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "use.py", "df = pd.read_csv(\"x.csv\", usecols=[\"alpha\", \"bravo\"])\nv = df[\"charlie\"]\n")

	diags, err := colcheck.Diagnostics(path, nil, colcheck.Options{})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeUnknownColumn, diags[0].Code)
	require.Equal(t, diag.Error, diags[0].Severity)
}

func TestCheckFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "use.py", "df = pd.read_csv(\"x.csv\")\n")

	out, err := colcheck.CheckFile(path, nil, colcheck.Options{StrictIngest: true, Format: diag.FormatJSON})
	require.NoError(t, err)
	require.Contains(t, out, "untracked-dataframe")
}

func TestBuildProjectIndexAndCrossFileCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", ""+
		"class S(Schema):\n    id = Column()\n    name = Column()\n"+
		"def load() -> Frame[S]:\n    return pd.read_csv(\"x.csv\")\n")
	bPath := writeFile(t, dir, "b.py", ""+
		"from a import load\n"+
		"x = load()\n"+
		"_ = x[\"revenue\"]\n")

	idxBytes, diags, err := colcheck.BuildProjectIndex(dir)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.NotEmpty(t, idxBytes)

	got, err := colcheck.Diagnostics(bPath, idxBytes, colcheck.Options{UseIndex: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, diag.CodeUnknownColumn, got[0].Code)
}

func TestDiagnosticsNoWarningsFilter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "use.py", "df = pd.read_csv(\"x.csv\")\n")

	diags, err := colcheck.Diagnostics(path, nil, colcheck.Options{StrictIngest: true, NoWarnings: true})
	require.NoError(t, err)
	require.Empty(t, diags)
}

func TestDiagnosticsParseFailureYieldsInternal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.py", "def (((\n")

	diags, err := colcheck.Diagnostics(path, nil, colcheck.Options{})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeInternal, diags[0].Code)
	require.Equal(t, 1, diags[0].Line)
	require.Equal(t, 1, diags[0].Col)
}

func TestDiagnosticsYAMLSidecar(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "use.schema.yaml", "schemas:\n  - name: S\n    columns: [a, b]\n")
	path := writeFile(t, dir, "use.py", ""+
		"def f(df: Frame[S]):\n"+
		"    _ = df[\"z\"]\n")

	diags, err := colcheck.Diagnostics(path, nil, colcheck.Options{})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeUnknownColumn, diags[0].Code)
}
