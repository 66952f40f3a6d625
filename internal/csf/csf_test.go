// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package csf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ariga.io/colcheck/internal/csf"
)

func TestNarrow(t *testing.T) {
	for _, tt := range []struct {
		name string
		f    csf.Fact
		cols []string
		want []string
	}{
		{"schema subset", csf.NewSchema("S", []string{"a", "b", "c"}), []string{"a", "c"}, []string{"a", "c"}},
		{"schema with unknown name dropped silently", csf.NewSchema("S", []string{"a", "b"}), []string{"a", "z"}, []string{"a"}},
		{"inferred intersection", csf.NewInferred([]string{"a", "b"}, "x"), []string{"b", "c"}, []string{"b"}},
		{"unknown stays unknown", csf.Unknown, []string{"a"}, nil},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := csf.Narrow(tt.f, tt.cols)
			if tt.f.Variant == csf.VUnknown {
				require.Equal(t, csf.Unknown, got)
				return
			}
			require.Equal(t, csf.VInferred, got.Variant)
			require.Equal(t, tt.want, got.Columns)
		})
	}
}

func TestDrop(t *testing.T) {
	got := csf.Drop(csf.NewSchema("S", []string{"a", "b", "c"}), []string{"b"})
	require.Equal(t, []string{"a", "c"}, got.Columns)

	require.Equal(t, csf.Unknown, csf.Drop(csf.Unknown, []string{"a"}))
	require.Equal(t, csf.Error, csf.Drop(csf.Error, []string{"a"}))
}

func TestRename(t *testing.T) {
	got := csf.Rename(csf.NewSchema("S", []string{"foo", "bar"}), map[string]string{"foo": "qux"})
	require.ElementsMatch(t, []string{"qux", "bar"}, got.Columns)
	require.True(t, got.Has("qux"))
	require.False(t, got.Has("foo"))
}

func TestExtend(t *testing.T) {
	got := csf.Extend(csf.NewSchema("S", []string{"a"}), []string{"b", "a"})
	require.Equal(t, []string{"a", "b"}, got.Columns)
	require.Equal(t, csf.Unknown, csf.Extend(csf.Unknown, []string{"x"}))
}

func TestMembersAndHas(t *testing.T) {
	f := csf.NewInferred([]string{"a", "a", "b"}, "dup")
	members, ok := f.Members()
	require.True(t, ok)
	require.Len(t, members, 2)
	require.True(t, f.Has("a"))
	require.False(t, f.Has("z"))

	_, ok = csf.Unknown.Members()
	require.False(t, ok)
	require.False(t, csf.Unknown.Has("a"))
}

func TestUnionIntersect(t *testing.T) {
	a := csf.NewSchema("A", []string{"x", "y"})
	b := csf.NewSchema("B", []string{"y", "z"})

	u := csf.Union(a, b)
	require.ElementsMatch(t, []string{"x", "y", "z"}, u.Columns)

	i := csf.Intersect(a, b)
	require.Equal(t, []string{"y"}, i.Columns)

	require.Equal(t, csf.Unknown, csf.Union(a, csf.Unknown))
	require.Equal(t, csf.Error, csf.Intersect(a, csf.Error))
}

// TestDropRenameCommute: drop(rename(f, m), m.values()) is equivalent to
// drop(f, m.keys()) when no source name collides with a surviving target.
func TestDropRenameCommute(t *testing.T) {
	f := csf.NewSchema("S", []string{"foo", "bar", "baz"})
	m := map[string]string{"foo": "qux"}

	renamed := csf.Rename(f, m)
	lhs := csf.Drop(renamed, []string{"qux"})

	rhs := csf.Drop(f, []string{"foo"})

	require.ElementsMatch(t, rhs.Columns, lhs.Columns)
}
