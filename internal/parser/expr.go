// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package parser

import (
	"ariga.io/colcheck/internal/ast"
	"ariga.io/colcheck/internal/lexer"
)

// parseTest is the expression entry point (Python's grammar calls this
// level "test"); it implements a standard precedence-climbing chain down
// to atoms and trailers.
func (p *parser) parseTest() ast.Expr {
	if p.atKeyword("lambda") {
		pos := p.advance().Position
		for !p.atOp(":") {
			if p.cur().Kind == lexer.EOF || p.cur().Kind == lexer.NEWLINE {
				p.fail("malformed lambda")
			}
			p.advance()
		}
		p.advance()
		p.parseTest()
		return &ast.OpaqueExpr{Position: pos}
	}
	e := p.parseOrTest()
	// Conditional expression `a if cond else b`: the analyzer cannot tell
	// which branch a binding takes, so the whole expression is opaque.
	if p.atKeyword("if") {
		p.advance()
		p.parseOrTest()
		if p.atKeyword("else") {
			p.advance()
			p.parseTest()
		}
		return &ast.OpaqueExpr{Position: e.Pos()}
	}
	return e
}

func (p *parser) parseOrTest() ast.Expr {
	left := p.parseAndTest()
	if !p.atKeyword("or") {
		return left
	}
	pos := left.Pos()
	vals := []ast.Expr{left}
	for p.atKeyword("or") {
		p.advance()
		vals = append(vals, p.parseAndTest())
	}
	return &ast.BoolOpExpr{Op: "or", Values: vals, Position: pos}
}

func (p *parser) parseAndTest() ast.Expr {
	left := p.parseNotTest()
	if !p.atKeyword("and") {
		return left
	}
	pos := left.Pos()
	vals := []ast.Expr{left}
	for p.atKeyword("and") {
		p.advance()
		vals = append(vals, p.parseNotTest())
	}
	return &ast.BoolOpExpr{Op: "and", Values: vals, Position: pos}
}

func (p *parser) parseNotTest() ast.Expr {
	if p.atKeyword("not") {
		pos := p.advance().Position
		return &ast.UnaryOpExpr{Op: "not", Operand: p.parseNotTest(), Position: pos}
	}
	return p.parseComparison()
}

var compareOps = map[string]bool{"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true}

func (p *parser) parseComparison() ast.Expr {
	left := p.parseBitOr()
	var ops []string
	var comps []ast.Expr
	for {
		if p.cur().Kind == lexer.OP && compareOps[p.cur().Value] {
			ops = append(ops, p.advance().Value)
			comps = append(comps, p.parseBitOr())
			continue
		}
		if p.atKeyword("in") {
			p.advance()
			ops = append(ops, "in")
			comps = append(comps, p.parseBitOr())
			continue
		}
		if p.atKeyword("not") && p.peek(1).Kind == lexer.KEYWORD && p.peek(1).Value == "in" {
			p.advance()
			p.advance()
			ops = append(ops, "not in")
			comps = append(comps, p.parseBitOr())
			continue
		}
		if p.atKeyword("is") {
			p.advance()
			op := "is"
			if p.atKeyword("not") {
				p.advance()
				op = "is not"
			}
			ops = append(ops, op)
			comps = append(comps, p.parseBitOr())
			continue
		}
		break
	}
	if len(ops) == 0 {
		return left
	}
	return &ast.CompareExpr{Left: left, Ops: ops, Comparators: comps, Position: left.Pos()}
}

// parseBitOr handles `|`, the schema-algebra combinator (S1 | S2) as well
// as ordinary bitwise-or usage; the interpreter decides which it is by
// inspecting operand facts, not by syntax.
func (p *parser) parseBitOr() ast.Expr {
	left := p.parseBitAnd()
	for p.atOp("|") {
		pos := p.advance().Position
		right := p.parseBitAnd()
		left = &ast.BinOpExpr{Left: left, Right: right, Op: "|", Position: pos}
	}
	return left
}

func (p *parser) parseBitAnd() ast.Expr {
	left := p.parseArith()
	for p.atOp("&") {
		pos := p.advance().Position
		right := p.parseArith()
		left = &ast.BinOpExpr{Left: left, Right: right, Op: "&", Position: pos}
	}
	return left
}

func (p *parser) parseArith() ast.Expr {
	left := p.parseTerm()
	for p.atOp("+") || p.atOp("-") {
		op := p.cur().Value
		pos := p.advance().Position
		right := p.parseTerm()
		left = &ast.BinOpExpr{Left: left, Right: right, Op: op, Position: pos}
	}
	return left
}

func (p *parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	for p.atOp("*") || p.atOp("/") || p.atOp("//") || p.atOp("%") {
		op := p.cur().Value
		pos := p.advance().Position
		right := p.parseFactor()
		left = &ast.BinOpExpr{Left: left, Right: right, Op: op, Position: pos}
	}
	return left
}

func (p *parser) parseFactor() ast.Expr {
	if p.atOp("-") || p.atOp("+") || p.atOp("~") {
		op := p.cur().Value
		pos := p.advance().Position
		return &ast.UnaryOpExpr{Op: op, Operand: p.parseFactor(), Position: pos}
	}
	return p.parsePower()
}

func (p *parser) parsePower() ast.Expr {
	base := p.parseAtomTrailer()
	if p.atOp("**") {
		p.advance()
		exp := p.parseFactor()
		return &ast.BinOpExpr{Left: base, Right: exp, Op: "**", Position: base.Pos()}
	}
	return base
}

func (p *parser) parseAtomTrailer() ast.Expr {
	e := p.parseAtom()
	for {
		switch {
		case p.atOp("."):
			pos := p.advance().Position
			attr := p.expectKind(lexer.IDENT, "identifier").Value
			e = &ast.AttributeExpr{Value: e, Attr: attr, Position: pos}
		case p.atOp("("):
			e = p.parseCallTrailer(e)
		case p.atOp("["):
			e = p.parseSubscriptTrailer(e)
		default:
			return e
		}
	}
}

func (p *parser) parseCallTrailer(fn ast.Expr) ast.Expr {
	pos := p.expectOp("(")
	var args []ast.Expr
	var kws []ast.Keyword
	for !p.atOp(")") {
		switch {
		case p.atOp("*") || p.atOp("**"):
			double := p.cur().Value == "**"
			spos := p.advance().Position
			val := p.parseTest()
			if double {
				kws = append(kws, ast.Keyword{Name: "", Value: val, Position: spos})
			} else {
				args = append(args, &ast.StarExpr{Value: val, Double: false, Position: spos})
			}
		case p.cur().Kind == lexer.IDENT && p.peek(1).Kind == lexer.OP && p.peek(1).Value == "=":
			kpos := p.cur().Position
			name := p.advance().Value
			p.advance()
			kws = append(kws, ast.Keyword{Name: name, Value: p.parseTest(), Position: kpos})
		default:
			arg := p.parseTest()
			// tolerate a trailing generator-expression `for` clause by
			// consuming tokens up to the matching ')'.
			if p.atKeyword("for") {
				depth := 1
				for depth > 0 && p.cur().Kind != lexer.EOF {
					if p.atOp("(") {
						depth++
					}
					if p.atOp(")") {
						depth--
						if depth == 0 {
							break
						}
					}
					p.advance()
				}
			}
			args = append(args, arg)
		}
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectOp(")")
	return &ast.CallExpr{Func: fn, Args: args, Keywords: kws, Position: pos}
}

func (p *parser) parseSubscriptTrailer(base ast.Expr) ast.Expr {
	pos := p.expectOp("[")
	var slice ast.Expr
	if p.atOp(":") {
		slice = p.parseSliceFrom(nil)
	} else {
		first := p.parseTest()
		if p.atOp(":") {
			slice = p.parseSliceFrom(first)
		} else if p.atOp(",") {
			elts := []ast.Expr{first}
			for p.atOp(",") {
				p.advance()
				if p.atOp("]") {
					break
				}
				elts = append(elts, p.parseTest())
			}
			slice = &ast.TupleExpr{Elts: elts, Position: pos}
		} else {
			slice = first
		}
	}
	p.expectOp("]")
	return &ast.SubscriptExpr{Value: base, Slice: slice, Position: pos}
}

// parseSliceFrom consumes `[lo:hi:step]` forms (lo already parsed, may be
// nil); the result is opaque to the analyzer: like any other non-literal
// key, a slice key makes the subscript evaluate to Unknown.
func (p *parser) parseSliceFrom(lo ast.Expr) ast.Expr {
	pos := p.cur().Position
	if lo != nil {
		pos = lo.Pos()
	}
	for p.atOp(":") {
		p.advance()
		if !p.atOp(":") && !p.atOp("]") {
			p.parseTest()
		}
	}
	return &ast.OpaqueExpr{Position: pos}
}

func (p *parser) parseAtom() ast.Expr {
	t := p.cur()
	switch {
	case t.Kind == lexer.IDENT:
		p.advance()
		return &ast.NameExpr{Id: t.Value, Position: t.Position}
	case t.Kind == lexer.NUMBER:
		p.advance()
		return &ast.NumberLit{Value: t.Value, Position: t.Position}
	case t.Kind == lexer.STRING:
		p.advance()
		val := t.Value
		// Adjacent string literal concatenation, e.g. ("a" "b").
		for p.cur().Kind == lexer.STRING {
			val += p.advance().Value
		}
		return &ast.StringLit{Value: val, Position: t.Position}
	case t.Kind == lexer.FSTRING:
		p.advance()
		return &ast.OpaqueExpr{Position: t.Position}
	case t.Kind == lexer.KEYWORD && t.Value == "True":
		p.advance()
		return &ast.BoolLit{Value: true, Position: t.Position}
	case t.Kind == lexer.KEYWORD && t.Value == "False":
		p.advance()
		return &ast.BoolLit{Value: false, Position: t.Position}
	case t.Kind == lexer.KEYWORD && t.Value == "None":
		p.advance()
		return &ast.NoneLit{Position: t.Position}
	case t.Kind == lexer.OP && t.Value == "(":
		return p.parseParenOrTuple()
	case t.Kind == lexer.OP && t.Value == "[":
		return p.parseListLiteral()
	case t.Kind == lexer.OP && t.Value == "{":
		return p.parseDictOrSetLiteral()
	default:
		p.fail("unexpected token %q", t.Value)
		return nil
	}
}

func (p *parser) parseParenOrTuple() ast.Expr {
	pos := p.expectOp("(")
	if p.atOp(")") {
		p.advance()
		return &ast.TupleExpr{Position: pos}
	}
	first := p.parseTest()
	if p.atKeyword("for") {
		p.skipGeneratorTail()
		p.expectOp(")")
		return &ast.OpaqueExpr{Position: pos}
	}
	if !p.atOp(",") {
		p.expectOp(")")
		return first
	}
	elts := []ast.Expr{first}
	for p.atOp(",") {
		p.advance()
		if p.atOp(")") {
			break
		}
		elts = append(elts, p.parseTest())
	}
	p.expectOp(")")
	return &ast.TupleExpr{Elts: elts, Position: pos}
}

func (p *parser) parseListLiteral() ast.Expr {
	pos := p.expectOp("[")
	var elts []ast.Expr
	for !p.atOp("]") {
		elts = append(elts, p.parseTest())
		if p.atKeyword("for") {
			p.skipGeneratorTail()
			break
		}
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectOp("]")
	return &ast.ListExpr{Elts: elts, Position: pos}
}

func (p *parser) parseDictOrSetLiteral() ast.Expr {
	pos := p.expectOp("{")
	if p.atOp("}") {
		p.advance()
		return &ast.DictExpr{Position: pos}
	}
	var keys, vals []ast.Expr
	isDict := false
	first := true
	for !p.atOp("}") {
		if p.atOp("**") {
			p.advance()
			p.parseTest()
		} else {
			k := p.parseTest()
			if p.atOp(":") {
				isDict = true
				p.advance()
				v := p.parseTest()
				keys = append(keys, k)
				vals = append(vals, v)
			} else {
				keys = append(keys, k)
				vals = append(vals, nil)
			}
		}
		if first && p.atKeyword("for") {
			p.skipGeneratorTail()
			break
		}
		first = false
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectOp("}")
	if !isDict {
		return &ast.OpaqueExpr{Position: pos}
	}
	return &ast.DictExpr{Keys: keys, Values: vals, Position: pos}
}

// skipGeneratorTail consumes a trailing comprehension clause
// (`for x in y if z`) up to the closing bracket/paren/brace, which the
// caller consumes itself. The analyzer treats comprehensions as opaque.
func (p *parser) skipGeneratorTail() {
	for !p.atOp(")") && !p.atOp("]") && !p.atOp("}") && p.cur().Kind != lexer.EOF {
		p.advance()
	}
}
