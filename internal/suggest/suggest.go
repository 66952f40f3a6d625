// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package suggest computes typo suggestions for an unknown column name:
// candidates within a Damerau-adjacent edit distance of 2, lowest
// distance first, ties broken lexicographically. Suggestion text is
// best-effort and the caller omits it entirely when no candidate clears
// the bar.
package suggest

import (
	"sort"

	"github.com/agext/levenshtein"
)

// For returns the lowest-distance candidates within the edit-distance
// bound, sorted lexicographically. An empty result means no suggestion
// should be rendered.
func For(name string, candidates []string) []string {
	best := -1
	var matches []string
	for _, c := range candidates {
		d := distance(name, c)
		if d > 2 {
			continue
		}
		switch {
		case best == -1 || d < best:
			best = d
			matches = []string{c}
		case d == best:
			matches = append(matches, c)
		}
	}
	sort.Strings(matches)
	return matches
}

// distance computes an edit distance that recognizes a single adjacent
// transposition as distance 1 (the "Damerau" half of Damerau–Levenshtein;
// agext/levenshtein itself only implements the Levenshtein half, so a
// swap like "nmae"/"name" would otherwise cost 2).
func distance(a, b string) int {
	if transposedNeighbor(a, b) {
		return 1
	}
	return levenshtein.Distance(a, b, nil)
}

func transposedNeighbor(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var diffs []int
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			diffs = append(diffs, i)
			if len(diffs) > 2 {
				return false
			}
		}
	}
	if len(diffs) != 2 {
		return false
	}
	i, j := diffs[0], diffs[1]
	return j == i+1 && a[i] == b[j] && a[j] == b[i]
}
