// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package suggest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ariga.io/colcheck/internal/suggest"
)

func TestFor(t *testing.T) {
	for _, tt := range []struct {
		name       string
		candidates []string
		want       []string
	}{
		{"nmae", []string{"name", "other"}, []string{"name"}},
		{"col", []string{"cols", "coil"}, []string{"coil", "cols"}},
		{"zzzzzzzzzz", []string{"name"}, nil},
		{"", []string{}, nil},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := suggest.For(tt.name, tt.candidates)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestForTiesLexicographic(t *testing.T) {
	got := suggest.For("foo", []string{"goo", "boo"})
	require.Equal(t, []string{"boo", "goo"}, got)
}
