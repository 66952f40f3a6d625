// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package index_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ariga.io/colcheck/internal/diag"
	"ariga.io/colcheck/internal/index"
)

func TestBuildIndexesSchemasAndExportedFunctions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte(
		"class S(Schema):\n    id = Column()\n    name = Column()\n"+
			"def load() -> Frame[S]:\n    return pd.read_csv(\"x.csv\")\n"+
			"def _private() -> Frame[S]:\n    return pd.read_csv(\"x.csv\")\n",
	), 0o644))

	idx, diags, err := index.Build(dir)
	require.NoError(t, err)
	require.Empty(t, diags)

	entry, ok := idx.Files["a.py"]
	require.True(t, ok)
	require.Equal(t, []string{"id", "name"}, entry.Schemas["S"])
	_, ok = entry.Functions["load"]
	require.True(t, ok)
	_, ok = entry.Functions["_private"]
	require.False(t, ok, "unexported functions are not indexed")
}

// TestRoundTrip: build -> serialize -> deserialize -> lookup yields the
// same schema column lists as the in-memory index.
func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte(
		"class S(Schema):\n    id = Column()\n    name = Column()\n"+
			"def load() -> Frame[S]:\n    return pd.read_csv(\"x.csv\")\n",
	), 0o644))

	idx, _, err := index.Build(dir)
	require.NoError(t, err)

	buf, err := index.Serialize(idx)
	require.NoError(t, err)

	got, ok, mismatch := index.Deserialize(buf)
	require.True(t, ok)
	require.Nil(t, mismatch)

	fact, ok := got.LookupFunction("a.py", "load")
	require.True(t, ok)
	require.Equal(t, []string{"id", "name"}, fact.Columns)

	wantFact, _ := idx.LookupFunction("a.py", "load")
	require.Equal(t, wantFact, fact)
}

// TestSerializeByteStable: re-running over an unchanged tree must produce
// a byte-identical index buffer.
func TestSerializeByteStable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte(
		"class S(Schema):\n    id = Column()\n"+
			"def load() -> Frame[S]:\n    return pd.read_csv(\"x.csv\")\n",
	), 0o644))

	first, _, err := index.Build(dir)
	require.NoError(t, err)
	second, _, err := index.Build(dir)
	require.NoError(t, err)

	b1, err := index.Serialize(first)
	require.NoError(t, err)
	b2, err := index.Serialize(second)
	require.NoError(t, err)
	require.Equal(t, b1, b2)
}

func TestDeserializeVersionMismatch(t *testing.T) {
	_, ok, mismatch := index.Deserialize([]byte{0, 0, 0, 99,
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
		'{', '}'})
	require.False(t, ok)
	require.NotNil(t, mismatch)
	require.Equal(t, diag.CodeInternal, mismatch.Code)
}

func TestResolveModulePathFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o644))
	idx, _, err := index.Build(dir)
	require.NoError(t, err)

	rel, ok := idx.ResolveModulePath("sub/b.py", "a")
	require.True(t, ok)
	require.Equal(t, "a.py", rel)
}
