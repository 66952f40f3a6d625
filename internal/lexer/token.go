// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package lexer

import "ariga.io/colcheck/internal/ast"

// Kind identifies a lexical token category.
type Kind int

const (
	EOF Kind = iota
	NEWLINE
	INDENT
	DEDENT
	IDENT
	KEYWORD
	STRING
	// FSTRING is a formatted string literal. Its interpolated text is
	// never a column-name source, so the parser maps it to an opaque
	// expression instead of a string literal.
	FSTRING
	NUMBER
	OP
	ILLEGAL
)

// Token is one lexical unit with its 1-based source position.
type Token struct {
	Kind     Kind
	Value    string
	Position ast.Position
}

// keywords recognized by the host language subset. Anything else lexes as
// IDENT, which keeps the lexer agnostic to identifiers that merely look
// like keywords in other contexts.
var keywords = map[string]bool{
	"def": true, "class": true, "import": true, "from": true, "as": true,
	"return": true, "if": true, "elif": true, "else": true, "for": true,
	"while": true, "with": true, "try": true, "except": true, "finally": true,
	"pass": true, "break": true, "continue": true, "lambda": true,
	"and": true, "or": true, "not": true, "in": true, "is": true,
	"True": true, "False": true, "None": true, "raise": true, "yield": true,
	"global": true, "nonlocal": true, "del": true, "assert": true,
}

// IsKeyword reports whether ident is a reserved word in the host subset.
func IsKeyword(ident string) bool { return keywords[ident] }
