// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package interp

import "ariga.io/colcheck/internal/csf"

// scope is one lexical scope's binding table. Reads walk outward to
// parent scopes (closures can read an enclosing frame variable);
// assignment always binds in the current scope, matching the
// simplified, non-"global"/"nonlocal"-aware semantics this analyzer
// commits to (a single-pass, scope-structured walk, not a full Python
// name-resolution engine).
type scope struct {
	parent *scope
	vars   map[string]csf.Fact
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: map[string]csf.Fact{}}
}

func (s *scope) lookup(name string) (csf.Fact, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if f, ok := cur.vars[name]; ok {
			return f, true
		}
	}
	return csf.Fact{}, false
}

func (s *scope) bind(name string, f csf.Fact) {
	s.vars[name] = f
}
