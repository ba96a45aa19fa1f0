package gparse

import (
	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/position"
)

// parseStatement parses one statement. A token that starts no block,
// control-flow statement or declaration is parsed as an expression
// statement; a lone `;` is consumed and yields a nil handle.
func (p *parser) parseStatement() ast.Handle {
	switch {
	case p.isPunct("{"):
		return p.parseBlock()
	case p.isKeyword("if"):
		return p.parseIf()
	case p.isKeyword("for"):
		return p.parseFor()
	case p.isKeyword("while"):
		return p.parseWhile()
	case p.isKeyword("try"):
		return p.parseTry()
	case p.isKeyword("return"):
		return p.parseReturn()
	case p.isKeyword("throw"):
		return p.parseThrow()
	case p.isKeyword("switch"):
		return p.parseSwitch()
	case p.isKeyword("break") || p.isKeyword("continue"):
		start := p.advance()
		p.acceptPunct(";")
		return p.arena.Add(ast.Node{Kind: ast.KindExpressionStmt, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Text: start.text})
	case p.isKeyword("def") || p.isDeclarationStart():
		return p.parseLocalVarDecl()
	case p.isPunct(";"):
		p.advance()
		return ast.NilHandle
	default:
		return p.parseExprStatement()
	}
}

// isDeclarationStart looks ahead for a `Type name = ...` shape, the
// explicitly-typed local variable declaration form. Requiring the
// initializer's '=' (rather than also accepting a bare `Type name;`)
// keeps this from swallowing a paren-less command call like
// `println greeting` as a bogus "declaration" of type println — the
// ambiguity Groovy itself resolves with statement-start heuristics this
// hand-written parser does not attempt to replicate in full.
func (p *parser) isDeclarationStart() bool {
	if p.cur().kind != tokIdent {
		return false
	}
	idx := 1
	if p.peekAt(1).kind == tokPunct && p.peekAt(1).text == "<" {
		depth := 1
		idx = 2
		for depth > 0 {
			t := p.peekAt(idx)
			if t.kind == tokEOF {
				return false
			}
			if t.kind == tokPunct && t.text == "<" {
				depth++
			} else if t.kind == tokPunct && t.text == ">" {
				depth--
			}
			idx++
		}
	}
	for p.peekAt(idx).kind == tokPunct && p.peekAt(idx).text == "[" &&
		p.peekAt(idx+1).kind == tokPunct && p.peekAt(idx+1).text == "]" {
		idx += 2
	}
	if p.peekAt(idx).kind != tokIdent {
		return false
	}
	n2 := p.peekAt(idx + 1)
	return n2.kind == tokPunct && n2.text == "="
}

func (p *parser) parseLocalVarDecl() ast.Handle {
	start := p.cur()
	declaredType := ""
	var typeRef ast.Handle = ast.NilHandle
	if p.acceptKeyword("def") {
		// untyped
	} else if p.cur().kind == tokIdent {
		typeTok := p.cur()
		declaredType = p.advance().text
		typeRef = p.parseTypeRef(declaredType, typeTok)
	}
	name := ""
	var nameRange position.Range
	if p.cur().kind == tokIdent {
		nameTok := p.advance()
		name = nameTok.text
		nameRange = p.rangeFrom(nameTok.pos, nameTok.end)
	}
	var initHandle ast.Handle = ast.NilHandle
	if p.acceptPunct("=") {
		initHandle = p.parseExpr()
	}
	end := p.lastConsumedEnd()
	p.acceptPunct(";")
	var children []ast.Handle
	if initHandle != ast.NilHandle {
		children = append(children, initHandle)
	}
	return p.arena.Add(ast.Node{
		Kind:         ast.KindLocalVarDecl,
		Name:         name,
		NameRange:    nameRange,
		DeclaredType: declaredType,
		Receiver:     typeRef,
		Range:        p.rangeFrom(start.pos, end),
		Children:     children,
	})
}

func (p *parser) parseBlock() ast.Handle {
	start := p.advance() // '{'
	var children []ast.Handle
	for !p.isPunct("}") && !p.atEOF() {
		before := p.idx
		if h := p.parseStatement(); h != ast.NilHandle {
			children = append(children, h)
		}
		if p.idx == before {
			p.errorf(p.cur(), "unexpected token %q in block", p.cur().text)
			p.advance()
		}
	}
	end := p.cur()
	p.acceptPunct("}")
	return p.arena.Add(ast.Node{Kind: ast.KindBlockStmt, Range: p.rangeFrom(start.pos, end.end), Children: children})
}

func (p *parser) parseIf() ast.Handle {
	start := p.advance() // 'if'
	p.acceptPunct("(")
	cond := p.parseExpr()
	p.acceptPunct(")")
	then := p.parseStatement()
	children := []ast.Handle{cond, then}
	if p.acceptKeyword("else") {
		children = append(children, p.parseStatement())
	}
	return p.arena.Add(ast.Node{Kind: ast.KindIfStmt, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: children})
}

func (p *parser) parseWhile() ast.Handle {
	start := p.advance() // 'while'
	p.acceptPunct("(")
	cond := p.parseExpr()
	p.acceptPunct(")")
	body := p.parseStatement()
	return p.arena.Add(ast.Node{Kind: ast.KindWhileStmt, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{cond, body}})
}

// parseFor handles both the classic C-style `for (init; cond; update)` and
// the Groovy `for (x in collection)` form. Both lower to KindForStmt: the
// for-in form has three children (loop variable, iterable, body), the
// C-style form its present init/cond/update clauses followed by the body,
// so child count alone does not tell the two apart.
func (p *parser) parseFor() ast.Handle {
	start := p.advance() // 'for'
	p.acceptPunct("(")

	if p.isForInStart() {
		p.acceptKeyword("def")
		if p.cur().kind == tokIdent && p.peekAt(1).kind == tokIdent {
			p.advance() // declared type
		}
		varStart := p.cur()
		varName := ""
		var varNameRange position.Range
		if p.cur().kind == tokIdent {
			varTok := p.advance()
			varName = varTok.text
			varNameRange = p.rangeFrom(varTok.pos, varTok.end)
		}
		loopVar := p.arena.Add(ast.Node{Kind: ast.KindLocalVarDecl, Name: varName, NameRange: varNameRange, Range: p.rangeFrom(varStart.pos, p.lastConsumedEnd())})
		p.acceptKeyword("in")
		iterable := p.parseExpr()
		p.acceptPunct(")")
		body := p.parseStatement()
		return p.arena.Add(ast.Node{Kind: ast.KindForStmt, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: []ast.Handle{loopVar, iterable, body}})
	}

	var init, cond, update ast.Handle = ast.NilHandle, ast.NilHandle, ast.NilHandle
	if !p.isPunct(";") {
		if p.isKeyword("def") || p.isDeclarationStart() {
			init = p.parseLocalVarDeclNoSemi()
		} else {
			init = p.parseExpr()
		}
	}
	p.acceptPunct(";")
	if !p.isPunct(";") {
		cond = p.parseExpr()
	}
	p.acceptPunct(";")
	if !p.isPunct(")") {
		update = p.parseExpr()
	}
	p.acceptPunct(")")
	body := p.parseStatement()
	children := []ast.Handle{}
	for _, h := range []ast.Handle{init, cond, update, body} {
		if h != ast.NilHandle {
			children = append(children, h)
		}
	}
	return p.arena.Add(ast.Node{Kind: ast.KindForStmt, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: children})
}

// isForInStart detects `[def] [Type] name in ...` without consuming.
func (p *parser) isForInStart() bool {
	i := 0
	if p.peekAt(i).kind == tokKeyword && p.peekAt(i).text == "def" {
		i++
	}
	if p.peekAt(i).kind != tokIdent {
		return false
	}
	if p.peekAt(i+1).kind == tokIdent {
		i++ // declared type consumed, `name` is next
	}
	if p.peekAt(i+1).kind != tokKeyword || p.peekAt(i+1).text != "in" {
		return false
	}
	return true
}

func (p *parser) parseLocalVarDeclNoSemi() ast.Handle {
	start := p.cur()
	declaredType := ""
	if p.acceptKeyword("def") {
	} else if p.cur().kind == tokIdent && p.peekAt(1).kind == tokIdent {
		declaredType = p.advance().text
	}
	name := ""
	if p.cur().kind == tokIdent {
		name = p.advance().text
	}
	var initHandle ast.Handle = ast.NilHandle
	if p.acceptPunct("=") {
		initHandle = p.parseExpr()
	}
	var children []ast.Handle
	if initHandle != ast.NilHandle {
		children = append(children, initHandle)
	}
	return p.arena.Add(ast.Node{Kind: ast.KindLocalVarDecl, Name: name, DeclaredType: declaredType, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: children})
}

func (p *parser) parseTry() ast.Handle {
	start := p.advance() // 'try'
	body := p.parseBlock()
	children := []ast.Handle{body}
	for p.isKeyword("catch") {
		cstart := p.advance()
		p.acceptPunct("(")
		exType := ""
		if p.cur().kind == tokIdent {
			exType = p.advance().text
		}
		exName := ""
		if p.cur().kind == tokIdent {
			exName = p.advance().text
		}
		p.acceptPunct(")")
		catchBody := p.parseBlock()
		catchVar := p.arena.Add(ast.Node{Kind: ast.KindParameter, Name: exName, DeclaredType: exType, Range: p.rangeFrom(cstart.pos, cstart.end)})
		children = append(children, catchVar, catchBody)
	}
	if p.acceptKeyword("finally") {
		children = append(children, p.parseBlock())
	}
	return p.arena.Add(ast.Node{Kind: ast.KindTryCatchStmt, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: children})
}

func (p *parser) parseReturn() ast.Handle {
	start := p.advance() // 'return'
	var children []ast.Handle
	if !p.isPunct(";") && !p.isPunct("}") && !p.atEOF() {
		children = append(children, p.parseExpr())
	}
	end := p.lastConsumedEnd()
	p.acceptPunct(";")
	return p.arena.Add(ast.Node{Kind: ast.KindReturnStmt, Range: p.rangeFrom(start.pos, end), Children: children})
}

func (p *parser) parseThrow() ast.Handle {
	start := p.advance() // 'throw'
	expr := p.parseExpr()
	end := p.lastConsumedEnd()
	p.acceptPunct(";")
	return p.arena.Add(ast.Node{Kind: ast.KindThrowStmt, Range: p.rangeFrom(start.pos, end), Children: []ast.Handle{expr}})
}

func (p *parser) parseSwitch() ast.Handle {
	start := p.advance() // 'switch'
	p.acceptPunct("(")
	subject := p.parseExpr()
	p.acceptPunct(")")
	children := []ast.Handle{subject}
	p.acceptPunct("{")
	for (p.isKeyword("case") || p.isKeyword("default")) && !p.atEOF() {
		if p.acceptKeyword("case") {
			children = append(children, p.parseExpr())
		} else {
			p.acceptKeyword("default")
		}
		p.acceptPunct(":")
		for !p.isKeyword("case") && !p.isKeyword("default") && !p.isPunct("}") && !p.atEOF() {
			before := p.idx
			if h := p.parseStatement(); h != ast.NilHandle {
				children = append(children, h)
			}
			if p.idx == before {
				p.advance()
			}
		}
	}
	p.acceptPunct("}")
	return p.arena.Add(ast.Node{Kind: ast.KindSwitchStmt, Range: p.rangeFrom(start.pos, p.lastConsumedEnd()), Children: children})
}

// parseExprStatement also recognizes Groovy's paren-less "command
// expression" calls (`println greeting`, spec.md §8 S1): an identifier
// followed by something that can only start an argument, not an operator,
// is lowered the same as `identifier(arg)`.
func (p *parser) parseExprStatement() ast.Handle {
	start := p.cur()
	expr := p.parseExpr()

	if p.canStartArgument() {
		// bare-name command call already consumed as `expr`; reinterpret
		// it as the callee of a paren-less invocation.
		if n, ok := p.arena.Get(expr); ok && n.Kind == ast.KindVariableExpr {
			var args []ast.Handle
			args = append(args, p.parseExpr())
			for p.acceptPunct(",") {
				args = append(args, p.parseExpr())
			}
			argList := p.arena.Add(ast.Node{Kind: ast.KindArgumentListExpr, Children: args, Range: p.rangeFrom(start.pos, p.lastConsumedEnd())})
			expr = p.arena.Add(ast.Node{
				Kind:     ast.KindMethodCallExpr,
				Name:     n.Name,
				Range:    p.rangeFrom(start.pos, p.lastConsumedEnd()),
				Children: []ast.Handle{argList},
			})
		}
	}

	end := p.lastConsumedEnd()
	p.acceptPunct(";")
	return p.arena.Add(ast.Node{Kind: ast.KindExpressionStmt, Range: p.rangeFrom(start.pos, end), Children: []ast.Handle{expr}})
}

func (p *parser) canStartArgument() bool {
	t := p.cur()
	if t.kind == tokIdent || t.kind == tokInt || t.kind == tokFloat || t.kind == tokString || t.kind == tokGString {
		return true
	}
	if t.kind == tokKeyword && (t.text == "true" || t.text == "false" || t.text == "null" || t.text == "new" || t.text == "this") {
		return true
	}
	if t.kind == tokPunct && (t.text == "[" || t.text == "{") {
		return true
	}
	return false
}
