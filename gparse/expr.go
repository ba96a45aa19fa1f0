package gparse

import (
	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/position"
)

// Expression parsing is precedence-climbing (a Pratt parser without an
// explicit table, one method per precedence level — the style is easier
// to follow than a table for a fixed, small operator set and matches how
// the rest of gparse favors explicit recursive descent over generality).
//
// Levels, loosest to tightest:
//   assignment > elvis(?:) > ternary(?:) > logical-or > logical-and >
//   equality > relational/instanceof/as/in > range(..,..<) > additive >
//   multiplicative > unary > postfix > primary

func (p *parser) parseExpr() ast.Handle {
	return p.parseAssignment()
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

func (p *parser) parseAssignment() ast.Handle {
	start := p.cur()
	lhs := p.parseElvis()
	if p.cur().kind == tokPunct && assignOps[p.cur().text] {
		op := p.advance().text
		rhs := p.parseAssignment() // right-associative
		return p.arena.Add(ast.Node{
			Kind:     ast.KindBinaryExpr,
			Operator: op,
			Range:    p.rangeFrom(start.pos, p.lastConsumedEnd()),
			Children: []ast.Handle{lhs, rhs},
		})
	}
	return lhs
}

func (p *parser) parseElvis() ast.Handle {
	start := p.cur()
	lhs := p.parseTernary()
	for p.isPunct("?:") {
		p.advance()
		rhs := p.parseTernary()
		lhs = p.arena.Add(ast.Node{Kind: ast.KindBinaryExpr, Operator: "?:", Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{lhs, rhs}})
	}
	return lhs
}

func (p *parser) parseTernary() ast.Handle {
	start := p.cur()
	cond := p.parseLogicalOr()
	if p.acceptPunct("?") {
		then := p.parseAssignment()
		p.acceptPunct(":")
		els := p.parseAssignment()
		return p.arena.Add(ast.Node{Kind: ast.KindTernaryExpr, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{cond, then, els}})
	}
	return cond
}

func (p *parser) parseLogicalOr() ast.Handle {
	start := p.cur()
	lhs := p.parseLogicalAnd()
	for p.isPunct("||") {
		op := p.advance().text
		rhs := p.parseLogicalAnd()
		lhs = p.arena.Add(ast.Node{Kind: ast.KindBinaryExpr, Operator: op, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{lhs, rhs}})
	}
	return lhs
}

func (p *parser) parseLogicalAnd() ast.Handle {
	start := p.cur()
	lhs := p.parseEquality()
	for p.isPunct("&&") {
		op := p.advance().text
		rhs := p.parseEquality()
		lhs = p.arena.Add(ast.Node{Kind: ast.KindBinaryExpr, Operator: op, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{lhs, rhs}})
	}
	return lhs
}

var equalityOps = map[string]bool{"==": true, "!=": true, "<=>": true}

func (p *parser) parseEquality() ast.Handle {
	start := p.cur()
	lhs := p.parseRelational()
	for p.cur().kind == tokPunct && equalityOps[p.cur().text] {
		op := p.advance().text
		rhs := p.parseRelational()
		lhs = p.arena.Add(ast.Node{Kind: ast.KindBinaryExpr, Operator: op, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{lhs, rhs}})
	}
	return lhs
}

var relationalOps = map[string]bool{"<": true, ">": true, "<=": true, ">=": true}

func (p *parser) parseRelational() ast.Handle {
	start := p.cur()
	lhs := p.parseRange()
	for {
		switch {
		case p.cur().kind == tokPunct && relationalOps[p.cur().text]:
			op := p.advance().text
			rhs := p.parseRange()
			lhs = p.arena.Add(ast.Node{Kind: ast.KindBinaryExpr, Operator: op, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{lhs, rhs}})
		case p.isKeyword("instanceof") || p.isKeyword("as") || p.isKeyword("in"):
			op := p.advance().text
			rhs := p.parseRange()
			kind := ast.KindBinaryExpr
			if op == "as" {
				kind = ast.KindCastExpr
			}
			lhs = p.arena.Add(ast.Node{Kind: kind, Operator: op, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{lhs, rhs}})
		default:
			return lhs
		}
	}
}

func (p *parser) parseRange() ast.Handle {
	start := p.cur()
	lhs := p.parseAdditive()
	if p.isPunct("..") || p.isPunct("..<") {
		op := p.advance().text
		rhs := p.parseAdditive()
		lhs = p.arena.Add(ast.Node{Kind: ast.KindBinaryExpr, Operator: op, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{lhs, rhs}})
	}
	return lhs
}

func (p *parser) parseAdditive() ast.Handle {
	start := p.cur()
	lhs := p.parseMultiplicative()
	for p.isPunct("+") || p.isPunct("-") {
		op := p.advance().text
		rhs := p.parseMultiplicative()
		lhs = p.arena.Add(ast.Node{Kind: ast.KindBinaryExpr, Operator: op, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{lhs, rhs}})
	}
	return lhs
}

func (p *parser) parseMultiplicative() ast.Handle {
	start := p.cur()
	lhs := p.parseUnary()
	for p.isPunct("*") || p.isPunct("/") || p.isPunct("%") {
		op := p.advance().text
		rhs := p.parseUnary()
		lhs = p.arena.Add(ast.Node{Kind: ast.KindBinaryExpr, Operator: op, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{lhs, rhs}})
	}
	return lhs
}

func (p *parser) parseUnary() ast.Handle {
	start := p.cur()
	if p.isPunct("!") || p.isPunct("-") || p.isPunct("+") || p.isPunct("++") || p.isPunct("--") {
		op := p.advance().text
		operand := p.parseUnary()
		return p.arena.Add(ast.Node{Kind: ast.KindBinaryExpr, Operator: "unary" + op, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{operand}})
	}
	return p.parsePostfix()
}

// parsePostfix handles the member-access/call/index chain: `.`, `?.`,
// `*.` (spread), `(...)` calls, `[...]` indexing, and trailing `++`/`--`.
// This is the chain the completion provider's speculative sentinel
// insertion (spec.md §4.6.1) depends on being structurally regular.
func (p *parser) parsePostfix() ast.Handle {
	start := p.cur()
	expr := p.parsePrimary()
	for {
		switch {
		case p.isPunct(".") || p.isPunct("?.") || p.isPunct("*."):
			op := p.advance().text
			nameTok := p.cur()
			name := ""
			var nameRange position.Range
			if p.cur().kind == tokIdent || p.cur().kind == tokKeyword {
				p.advance()
				name = nameTok.text
				nameRange = p.rangeFrom(nameTok.pos, nameTok.end)
			}
			if p.isPunct("(") {
				args := p.parseArgList()
				expr = p.arena.Add(ast.Node{
					Kind:      ast.KindMethodCallExpr,
					Name:      name,
					NameRange: nameRange,
					Operator:  op,
					Receiver:  expr,
					Range:     p.rangeFrom(start.pos, p.lastConsumedEnd()),
					Children:  []ast.Handle{args},
				})
			} else {
				expr = p.arena.Add(ast.Node{
					Kind:      ast.KindPropertyExpr,
					Name:      name,
					NameRange: nameRange,
					Operator:  op,
					Receiver:  expr,
					Range:     p.rangeFrom(start.pos, nameTok.end),
				})
			}
		case p.isPunct("("):
			args := p.parseArgList()
			calleeName := ""
			if n, ok := p.arena.Get(expr); ok {
				calleeName = n.Name
			}
			expr = p.arena.Add(ast.Node{
				Kind:     ast.KindMethodCallExpr,
				Name:     calleeName,
				Receiver: ast.NilHandle,
				Range:    p.rangeFrom(start.pos, p.lastConsumedEnd()),
				Children: []ast.Handle{args},
			})
		case p.isPunct("["):
			p.advance()
			index := p.parseExpr()
			p.acceptPunct("]")
			expr = p.arena.Add(ast.Node{
				Kind:     ast.KindPropertyExpr,
				Operator: "[]",
				Receiver: expr,
				Range:    p.rangeFrom(start.pos, p.lastConsumedEnd()),
				Children: []ast.Handle{index},
			})
		case p.isPunct("++") || p.isPunct("--"):
			op := p.advance().text
			expr = p.arena.Add(ast.Node{Kind: ast.KindBinaryExpr, Operator: "post" + op, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{expr}})
		case p.isPunct("::"):
			expr = p.parseMethodReference(start, expr)
		default:
			return expr
		}
	}
}

// parseMethodReference lowers `Receiver::name` (spec.md §3's
// "method-reference" Expression variant; the teacher's own `go-groovy`
// pack analogue is `String::toUpperCase`, a bound or unbound method
// handle, and `Foo::new` a constructor reference). A bare capitalized
// receiver is itself rewritten into a ClassExpr — the one place a class
// name is used as a value rather than as a call/property qualifier
// (spec.md §4.6.2 step 2's "ConstructorCallExpression / ClassExpression").
func (p *parser) parseMethodReference(start token, expr ast.Handle) ast.Handle {
	p.advance() // '::'
	receiver := expr
	if n, ok := p.arena.Get(expr); ok && n.Kind == ast.KindVariableExpr && isCapitalized(n.Name) {
		receiver = p.arena.Add(ast.Node{Kind: ast.KindClassExpr, Name: n.Name, DeclaredType: n.Name, Range: n.Range})
	}
	nameTok := p.cur()
	name := ""
	var nameRange position.Range
	if p.isKeyword("new") {
		p.advance()
		name = "new"
		nameRange = p.rangeFrom(nameTok.pos, nameTok.end)
	} else if p.cur().kind == tokIdent || p.cur().kind == tokKeyword {
		p.advance()
		name = nameTok.text
		nameRange = p.rangeFrom(nameTok.pos, nameTok.end)
	}
	return p.arena.Add(ast.Node{
		Kind:      ast.KindMethodReferenceExpr,
		Name:      name,
		NameRange: nameRange,
		Receiver:  receiver,
		Range:     p.rangeFrom(start.pos, nameTok.end),
	})
}

// isCapitalized reports whether name starts with an uppercase letter, the
// syntactic heuristic this front end uses in place of the real compiler's
// semantic class-vs-variable resolution (spec.md §9: there is no symbol
// table available mid-parse) to decide whether a bare identifier used as
// a `::` receiver is a type reference.
func isCapitalized(name string) bool {
	if name == "" {
		return false
	}
	r := name[0]
	return r >= 'A' && r <= 'Z'
}

func (p *parser) parseArgList() ast.Handle {
	start := p.advance() // '('
	var args []ast.Handle
	for !p.isPunct(")") && !p.atEOF() {
		args = append(args, p.parseExpr())
		if !p.acceptPunct(",") {
			break
		}
	}
	p.acceptPunct(")")
	return p.arena.Add(ast.Node{Kind: ast.KindArgumentListExpr, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: args})
}

func (p *parser) parsePrimary() ast.Handle {
	t := p.cur()
	switch {
	case t.kind == tokInt || t.kind == tokFloat:
		p.advance()
		return p.arena.Add(ast.Node{Kind: ast.KindConstantExpr, Text: t.text, DeclaredType: numericTypeOf(t), Range: p.rangeFrom(t.pos, t.end)})
	case t.kind == tokString:
		p.advance()
		return p.arena.Add(ast.Node{Kind: ast.KindConstantExpr, Text: t.text, DeclaredType: "String", Range: p.rangeFrom(t.pos, t.end)})
	case t.kind == tokGString:
		p.advance()
		return p.arena.Add(ast.Node{Kind: ast.KindGStringExpr, Text: t.text, DeclaredType: "GString", Range: p.rangeFrom(t.pos, t.end)})
	case t.kind == tokKeyword && (t.text == "true" || t.text == "false"):
		p.advance()
		return p.arena.Add(ast.Node{Kind: ast.KindConstantExpr, Text: t.text, DeclaredType: "boolean", Range: p.rangeFrom(t.pos, t.end)})
	case t.kind == tokKeyword && t.text == "null":
		p.advance()
		return p.arena.Add(ast.Node{Kind: ast.KindConstantExpr, Text: "null", Range: p.rangeFrom(t.pos, t.end)})
	case t.kind == tokKeyword && t.text == "this":
		p.advance()
		return p.arena.Add(ast.Node{Kind: ast.KindVariableExpr, Name: "this", Range: p.rangeFrom(t.pos, t.end)})
	case t.kind == tokKeyword && t.text == "super":
		p.advance()
		return p.arena.Add(ast.Node{Kind: ast.KindVariableExpr, Name: "super", Range: p.rangeFrom(t.pos, t.end)})
	case t.kind == tokKeyword && t.text == "new":
		return p.parseConstructorCall()
	case p.isPunct("(") && p.looksLikeLambda():
		return p.parseLambda()
	case p.isPunct("("):
		p.advance()
		inner := p.parseExpr()
		p.acceptPunct(")")
		return inner
	case p.isPunct("["):
		return p.parseListOrMap()
	case p.isPunct("{"):
		return p.parseClosure()
	case t.kind == tokIdent:
		p.advance()
		return p.arena.Add(ast.Node{Kind: ast.KindVariableExpr, Name: t.text, Range: p.rangeFrom(t.pos, t.end)})
	default:
		p.errorf(t, "unexpected token %q in expression", t.text)
		if t.kind != tokEOF {
			p.advance()
		}
		return p.arena.Add(ast.Node{Kind: ast.KindConstantExpr, Synthetic: true, Range: p.rangeFrom(t.pos, t.end)})
	}
}

func numericTypeOf(t token) string {
	if t.kind == tokFloat {
		return "BigDecimal"
	}
	return "Integer"
}

func (p *parser) parseConstructorCall() ast.Handle {
	start := p.advance() // 'new'
	typeTok := p.cur()
	typeName := p.parseQualifiedName()
	typeRange := p.rangeFrom(typeTok.pos, p.lastConsumedEnd())
	typeRef := p.parseGenericArgs(typeName, typeRange)
	var args ast.Handle = ast.NilHandle
	if p.isPunct("(") {
		args = p.parseArgList()
	}
	children := []ast.Handle{}
	if args != ast.NilHandle {
		children = append(children, args)
	}
	return p.arena.Add(ast.Node{
		Kind:         ast.KindConstructorCallExpr,
		DeclaredType: typeName,
		NameRange:    typeRange,
		Receiver:     typeRef,
		Range:        p.rangeFrom(start.pos, p.lastConsumedEnd()),
		Children:     children,
	})
}

// parseListOrMap parses `[...]`. An empty `[:]` or any entry containing a
// top-level `:` classifies the whole literal as a map; otherwise it is a
// list. Groovy's real grammar disambiguates per-element; this scans one
// lookahead pass which is sufficient for every literal the spec's
// completion/hover scenarios construct.
func (p *parser) parseListOrMap() ast.Handle {
	start := p.advance() // '['
	if p.isPunct(":") && p.peekAt(1).kind == tokPunct && p.peekAt(1).text == "]" {
		p.advance()
		p.advance()
		return p.arena.Add(ast.Node{Kind: ast.KindMapExpr, Range: p.rangeFrom(start.pos, p.lastConsumedEnd())})
	}
	var elems []ast.Handle
	isMap := false
	for !p.isPunct("]") && !p.atEOF() {
		first := p.parseExpr()
		if p.acceptPunct(":") {
			isMap = true
			value := p.parseExpr()
			entry := p.arena.Add(ast.Node{Kind: ast.KindBinaryExpr, Operator: ":", Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{first, value}})
			elems = append(elems, entry)
		} else {
			elems = append(elems, first)
		}
		if !p.acceptPunct(",") {
			break
		}
	}
	p.acceptPunct("]")
	kind := ast.KindListExpr
	if isMap {
		kind = ast.KindMapExpr
	}
	return p.arena.Add(ast.Node{Kind: kind, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: elems})
}

// parseClosure parses `{ [params ->] statements }`. Lookahead to the
// matching `->` at bracket depth 0 distinguishes a parameter list from a
// closure body that happens to start with an expression.
func (p *parser) parseClosure() ast.Handle {
	start := p.advance() // '{'
	var params []ast.Handle
	if p.closureHasArrow() {
		for !p.isPunct("->") && !p.atEOF() {
			pstart := p.cur()
			pname := ""
			if p.cur().kind == tokIdent {
				pname = p.advance().text
			}
			params = append(params, p.arena.Add(ast.Node{Kind: ast.KindParameter, Name: pname, Range: p.rangeFrom(pstart.pos, p.lastConsumedEnd())}))
			if !p.acceptPunct(",") {
				break
			}
		}
		p.acceptPunct("->")
	}
	var body []ast.Handle
	for !p.isPunct("}") && !p.atEOF() {
		before := p.idx
		if h := p.parseStatement(); h != ast.NilHandle {
			body = append(body, h)
		}
		if p.idx == before {
			p.advance()
		}
	}
	p.acceptPunct("}")
	children := append(params, body...)
	return p.arena.Add(ast.Node{Kind: ast.KindClosureExpr, Arity: len(params), Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: children})
}

// closureHasArrow scans ahead without consuming to see whether a `->`
// appears before the first `{`, `;`, or matching `}` at depth 0 — i.e.
// whether this closure declares an explicit parameter list.
func (p *parser) closureHasArrow() bool {
	depth := 0
	for i := 0; ; i++ {
		t := p.peekAt(i)
		if t.kind == tokEOF {
			return false
		}
		if t.kind == tokPunct {
			switch t.text {
			case "{", "(", "[":
				depth++
			case "}", ")", "]":
				if depth == 0 {
					return false
				}
				depth--
			case "->":
				if depth == 0 {
					return true
				}
			case ";":
				if depth == 0 {
					return false
				}
			}
		}
	}
}

// looksLikeLambda scans ahead without consuming for a matching `)` at
// depth 0 immediately followed by `->` — the Java-style lambda form
// Groovy's own parrot parser also accepts (spec.md §3's "lambda"
// Expression variant), distinguished here from a parenthesized expression
// only by that trailing arrow.
func (p *parser) looksLikeLambda() bool {
	depth := 0
	for i := 0; ; i++ {
		t := p.peekAt(i)
		if t.kind == tokEOF {
			return false
		}
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				next := p.peekAt(i + 1)
				return next.kind == tokPunct && next.text == "->"
			}
		}
	}
}

// parseLambda parses `(params) -> body`, where body is either a `{...}`
// block or a single expression. Mirrors parseClosure's parameter-list
// shape but with a required arrow and parenthesized params rather than
// the closure's brace-delimited, arrow-optional form.
func (p *parser) parseLambda() ast.Handle {
	start := p.advance() // '('
	var params []ast.Handle
	for !p.isPunct(")") && !p.atEOF() {
		pstart := p.cur()
		declaredType := ""
		if p.cur().kind == tokIdent && p.peekAt(1).kind == tokIdent {
			declaredType = p.advance().text
		}
		pname := ""
		if p.cur().kind == tokIdent {
			pname = p.advance().text
		}
		params = append(params, p.arena.Add(ast.Node{Kind: ast.KindParameter, Name: pname, DeclaredType: declaredType, Range: p.rangeFrom(pstart.pos, p.lastConsumedEnd())}))
		if !p.acceptPunct(",") {
			break
		}
	}
	p.acceptPunct(")")
	p.acceptPunct("->")

	var body []ast.Handle
	if p.isPunct("{") {
		p.advance()
		for !p.isPunct("}") && !p.atEOF() {
			before := p.idx
			if h := p.parseStatement(); h != ast.NilHandle {
				body = append(body, h)
			}
			if p.idx == before {
				p.advance()
			}
		}
		p.acceptPunct("}")
	} else {
		body = append(body, p.parseExpr())
	}
	children := append(params, body...)
	return p.arena.Add(ast.Node{Kind: ast.KindLambdaExpr, Arity: len(params), Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: children})
}
