package gparse

import (
	"fmt"

	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/position"
)

// parser is a hand-written recursive-descent parser over the Groovy token
// stream. It never panics on malformed input: parseModule recovers from
// any internal panic and degrades to a synthetic Internal diagnostic, and
// every construct-level parse function resyncs locally on unexpected
// tokens rather than aborting the whole parse (spec.md §4.2).
type parser struct {
	toks  []token
	idx   int
	arena *ast.Arena
	diags []Diagnostic
}

func newParser(src string) *parser {
	lx := newLexer(src)
	var toks []token
	for {
		t := lx.next()
		toks = append(toks, t)
		if t.kind == tokEOF {
			break
		}
	}
	return &parser{toks: toks, arena: ast.NewArena()}
}

func (p *parser) cur() token  { return p.toks[p.idx] }
func (p *parser) peekAt(n int) token {
	if p.idx+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.idx+n]
}
func (p *parser) atEOF() bool { return p.cur().kind == tokEOF }

func (p *parser) advance() token {
	t := p.cur()
	if t.kind != tokEOF {
		p.idx++
	}
	return t
}

func (p *parser) isPunct(text string) bool {
	t := p.cur()
	return t.kind == tokPunct && t.text == text
}

func (p *parser) isKeyword(text string) bool {
	t := p.cur()
	return t.kind == tokKeyword && t.text == text
}

func (p *parser) acceptPunct(text string) bool {
	if p.isPunct(text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) acceptKeyword(text string) bool {
	if p.isKeyword(text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) errorf(tok token, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{
		Range:    position.ToEditorRange(position.CompilerRange{Start: tok.pos, End: tok.end}),
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Source:   "groovy-parser",
		Code:     "parse-error",
	})
}

// resyncTo advances until one of the given punctuation tokens (or EOF) is
// the current token, without consuming it. Used to recover locally from a
// malformed statement/member instead of aborting the whole parse.
func (p *parser) resyncTo(stopPunct ...string) {
	for !p.atEOF() {
		for _, s := range stopPunct {
			if p.isPunct(s) {
				return
			}
		}
		p.advance()
	}
}

func (p *parser) rangeFrom(start position.CompilerPos, end position.CompilerPos) position.Range {
	return position.ToEditorRange(position.CompilerRange{Start: start, End: end})
}

// parseModule parses the whole document into a KindModule root node and
// returns its handle together with any diagnostics collected. A panic
// anywhere below (a bug, not a user syntax error) is converted into the
// single synthetic Internal-fault diagnostic spec.md §4.2 describes,
// exactly as gparse.Parse's outer contract promises.
func (p *parser) parseModule() (root ast.Handle, diags []Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			diags = []Diagnostic{{
				Range:    position.Range{},
				Severity: SeverityError,
				Message:  fmt.Sprintf("internal compiler fault: %v", r),
				Source:   "groovy-parser",
				Code:     "internal-fault",
			}}
			root = ast.NilHandle
		}
	}()

	startTok := p.cur()
	var children []ast.Handle

	for !p.atEOF() {
		before := p.idx
		if h, ok := p.parseTopLevel(); ok {
			children = append(children, h)
		}
		if p.idx == before {
			// Guarantee forward progress even on constructs we can't
			// classify at all.
			p.errorf(p.cur(), "unexpected token %q", p.cur().text)
			p.advance()
		}
	}

	endTok := p.toks[len(p.toks)-1]
	h := p.arena.Add(ast.Node{
		Kind:     ast.KindModule,
		Range:    p.rangeFrom(startTok.pos, endTok.end),
		Children: children,
	})
	p.arena.SetRoot(h)
	return h, p.diags
}

func (p *parser) parseTopLevel() (ast.Handle, bool) {
	switch {
	case p.isKeyword("package"):
		return p.parsePackage(), true
	case p.isKeyword("import"):
		return p.parseImport(), true
	case p.isClassLikeStart():
		return p.parseClassLike(), true
	default:
		return p.parseStatement(), true
	}
}

func (p *parser) isClassLikeStart() bool {
	i := 0
	for {
		t := p.peekAt(i)
		if t.kind == tokKeyword && isModifierKeyword(t.text) {
			i++
			continue
		}
		break
	}
	t := p.peekAt(i)
	return t.kind == tokKeyword && (t.text == "class" || t.text == "interface" || t.text == "enum" || t.text == "trait")
}

func isModifierKeyword(s string) bool {
	switch s {
	case "public", "private", "protected", "static", "final", "abstract", "synchronized":
		return true
	}
	return false
}

func (p *parser) parseModifiers() []string {
	var mods []string
	for p.cur().kind == tokKeyword && isModifierKeyword(p.cur().text) {
		mods = append(mods, p.advance().text)
	}
	return mods
}

func (p *parser) parsePackage() ast.Handle {
	start := p.advance() // 'package'
	name := p.parseQualifiedName()
	p.acceptPunct(";")
	return p.arena.Add(ast.Node{
		Kind:  ast.KindPackage,
		Range: p.rangeFrom(start.pos, p.lastConsumedEnd()),
		Name:  name,
	})
}

func (p *parser) parseImport() ast.Handle {
	start := p.advance() // 'import'
	p.acceptKeyword("static")
	name := p.parseQualifiedName()
	if p.acceptKeyword("as") {
		// alias; keep the original name as Name, alias recorded in Text.
		alias := ""
		if p.cur().kind == tokIdent {
			alias = p.advance().text
		}
		h := p.lastConsumedEnd()
		p.acceptPunct(";")
		return p.arena.Add(ast.Node{
			Kind:  ast.KindImport,
			Range: p.rangeFrom(start.pos, h),
			Name:  name,
			Text:  alias,
		})
	}
	end := p.lastConsumedEnd()
	p.acceptPunct(";")
	return p.arena.Add(ast.Node{
		Kind:  ast.KindImport,
		Range: p.rangeFrom(start.pos, end),
		Name:  name,
	})
}

func (p *parser) parseQualifiedName() string {
	name := ""
	for {
		if p.cur().kind != tokIdent && p.cur().kind != tokKeyword {
			break
		}
		if name != "" {
			name += "."
		}
		name += p.advance().text
		if p.isPunct(".") {
			p.advance()
			if p.isPunct("*") {
				name += ".*"
				p.advance()
				break
			}
			continue
		}
		break
	}
	return name
}

func (p *parser) lastConsumedEnd() position.CompilerPos {
	if p.idx == 0 {
		return p.toks[0].pos
	}
	return p.toks[p.idx-1].end
}

// parseClassLike parses a class/interface/enum/trait declaration. Groovy
// traits are modeled as classes; the distinction does not affect any
// query the providers in providers/ need to make.
func (p *parser) parseClassLike() ast.Handle {
	_ = p.parseModifiers()
	start := p.cur()
	var kind ast.Kind
	switch p.advance().text {
	case "interface":
		kind = ast.KindInterface
	case "enum":
		kind = ast.KindEnum
	default:
		kind = ast.KindClass
	}
	name := ""
	var nameRange position.Range
	if p.cur().kind == tokIdent {
		nameTok := p.advance()
		name = nameTok.text
		nameRange = p.rangeFrom(nameTok.pos, nameTok.end)
	}
	// Generics, extends, implements — consumed without structural effect.
	if p.acceptPunct("<") {
		depth := 1
		for depth > 0 && !p.atEOF() {
			if p.isPunct("<") {
				depth++
			} else if p.isPunct(">") {
				depth--
			}
			p.advance()
		}
	}
	if p.acceptKeyword("extends") {
		p.parseQualifiedName()
	}
	if p.acceptKeyword("implements") {
		p.parseQualifiedName()
		for p.acceptPunct(",") {
			p.parseQualifiedName()
		}
	}

	var children []ast.Handle
	if p.acceptPunct("{") {
		for !p.isPunct("}") && !p.atEOF() {
			before := p.idx
			if h, ok := p.parseMember(); ok {
				children = append(children, h)
			}
			if p.idx == before {
				p.errorf(p.cur(), "unexpected token %q in class body", p.cur().text)
				p.advance()
			}
		}
		if !p.acceptPunct("}") {
			p.errorf(p.cur(), "unterminated class body, expected '}'")
		}
	} else {
		p.errorf(p.cur(), "expected '{' to open class body")
		p.resyncTo(";")
	}

	return p.arena.Add(ast.Node{
		Kind:      kind,
		Name:      name,
		NameRange: nameRange,
		Range:     p.rangeFrom(start.pos, p.lastConsumedEnd()),
		Children:  children,
	})
}

// parseMember parses one class-body member: an inner class, a method, a
// field, or a property (Groovy's implicit getter/setter-bearing `def`/typed
// field without visibility modifiers — the spec does not distinguish
// Field from Property structurally beyond this convention, §3 & §4.6.6).
func (p *parser) parseMember() (ast.Handle, bool) {
	if p.isPunct(";") {
		p.advance()
		return ast.NilHandle, false
	}
	if p.isClassLikeStart() {
		return p.parseClassLike(), true
	}
	if p.isPunct("@") {
		return p.parseAnnotation(), true
	}

	mods := p.parseModifiers()
	start := p.cur()

	declaredType := ""
	var typeRef ast.Handle = ast.NilHandle
	if p.acceptKeyword("def") {
		declaredType = ""
	} else if p.cur().kind == tokIdent || (p.cur().kind == tokKeyword && p.cur().text == "void") {
		// Could be a bare type (Type name...) or the member name itself
		// (implicit def, Groovy allows `x = 1` at class scope — rare but
		// legal). Disambiguate by lookahead: type name is followed by
		// another identifier before '(' or '='.
		if p.peekAt(1).kind == tokIdent {
			typeTok := p.cur()
			declaredType = p.advance().text
			typeRef = p.parseTypeRef(declaredType, typeTok)
		}
	}

	if p.cur().kind != tokIdent {
		p.errorf(p.cur(), "expected member name")
		p.resyncTo(";", "}")
		p.acceptPunct(";")
		return ast.NilHandle, false
	}
	nameTok := p.advance()
	name := nameTok.text
	nameRange := p.rangeFrom(nameTok.pos, nameTok.end)

	if p.isPunct("(") {
		return p.parseMethodRest(mods, declaredType, typeRef, name, nameRange, start), true
	}

	// Field/property with optional initializer.
	var initHandle ast.Handle = ast.NilHandle
	if p.acceptPunct("=") {
		initHandle = p.parseExpr()
	}
	end := p.lastConsumedEnd()
	p.acceptPunct(";")

	kind := ast.KindProperty
	if declaredType == "" && !containsMod(mods, "public") && !containsMod(mods, "private") && !containsMod(mods, "protected") {
		kind = ast.KindProperty
	} else if containsMod(mods, "public") || containsMod(mods, "private") || containsMod(mods, "protected") {
		kind = ast.KindField
	}
	var children []ast.Handle
	if initHandle != ast.NilHandle {
		children = append(children, initHandle)
	}
	return p.arena.Add(ast.Node{
		Kind:         kind,
		Name:         name,
		NameRange:    nameRange,
		DeclaredType: declaredType,
		Modifiers:    mods,
		Receiver:     typeRef,
		Range:        p.rangeFrom(start.pos, end),
		Children:     children,
	}), true
}

func containsMod(mods []string, m string) bool {
	for _, x := range mods {
		if x == m {
			return true
		}
	}
	return false
}

// parseTypeRef constructs a ClassExpr node for a type reference whose base
// name token (baseTok) has already been consumed. A generic argument list,
// if present, is parsed recursively into child ClassExpr nodes — the shape
// type-parameter completion's sentinel detection walks (providers/completion.go)
// — rather than discarded the way a plain token-skipping suffix parser
// would. An array suffix (`[]`, repeatable) is still just consumed.
func (p *parser) parseTypeRef(baseName string, baseTok token) ast.Handle {
	return p.parseGenericArgs(baseName, p.rangeFrom(baseTok.pos, baseTok.end))
}

// parseGenericArgs is parseTypeRef's name-range-taking core, reusable by
// callers (parseConstructorCall) whose base name already spans more than a
// single token (a dotted, qualified class name).
func (p *parser) parseGenericArgs(baseName string, nameRange position.Range) ast.Handle {
	var children []ast.Handle
	if p.acceptPunct("<") {
		for !p.isPunct(">") && !p.atEOF() {
			if p.cur().kind != tokIdent {
				p.advance()
				continue
			}
			argTok := p.advance()
			children = append(children, p.parseTypeRef(argTok.text, argTok))
			if !p.acceptPunct(",") {
				break
			}
		}
		p.acceptPunct(">")
	}
	for p.acceptPunct("[") {
		p.acceptPunct("]")
	}
	return p.arena.Add(ast.Node{
		Kind:      ast.KindClassExpr,
		Name:      baseName,
		NameRange: nameRange,
		Range:     p.rangeFrom(position.ToCompiler(nameRange.Start), p.lastConsumedEnd()),
		Children:  children,
	})
}

func (p *parser) parseAnnotation() ast.Handle {
	start := p.advance() // '@'
	name := ""
	if p.cur().kind == tokIdent {
		name = p.advance().text
	}
	if p.acceptPunct("(") {
		depth := 1
		for depth > 0 && !p.atEOF() {
			if p.isPunct("(") {
				depth++
			} else if p.isPunct(")") {
				depth--
			}
			p.advance()
		}
	}
	return p.arena.Add(ast.Node{
		Kind:  ast.KindAnnotation,
		Name:  name,
		Range: p.rangeFrom(start.pos, p.lastConsumedEnd()),
	})
}

func (p *parser) parseMethodRest(mods []string, declaredType string, typeRef ast.Handle, name string, nameRange position.Range, start token) ast.Handle {
	params := p.parseParamList()
	// Optional throws clause.
	if p.acceptKeyword("throws") {
		p.parseQualifiedName()
		for p.acceptPunct(",") {
			p.parseQualifiedName()
		}
	}
	var body ast.Handle = ast.NilHandle
	if p.isPunct("{") {
		body = p.parseBlock()
	} else {
		p.acceptPunct(";") // abstract/interface method
	}
	children := append([]ast.Handle{}, params...)
	if body != ast.NilHandle {
		children = append(children, body)
	}
	return p.arena.Add(ast.Node{
		Kind:         ast.KindMethod,
		Name:         name,
		NameRange:    nameRange,
		DeclaredType: declaredType,
		Modifiers:    mods,
		Receiver:     typeRef,
		Arity:        len(params),
		Range:        p.rangeFrom(start.pos, p.lastConsumedEnd()),
		Children:     children,
	})
}

func (p *parser) parseParamList() []ast.Handle {
	p.acceptPunct("(")
	var params []ast.Handle
	for !p.isPunct(")") && !p.atEOF() {
		pstart := p.cur()
		declaredType := ""
		var typeRef ast.Handle = ast.NilHandle
		if p.acceptKeyword("def") {
			// untyped
		} else if p.cur().kind == tokIdent && p.peekAt(1).kind == tokIdent {
			typeTok := p.cur()
			declaredType = p.advance().text
			typeRef = p.parseTypeRef(declaredType, typeTok)
		}
		pname := ""
		var pnameRange position.Range
		if p.cur().kind == tokIdent {
			pnameTok := p.advance()
			pname = pnameTok.text
			pnameRange = p.rangeFrom(pnameTok.pos, pnameTok.end)
		}
		var initHandle ast.Handle = ast.NilHandle
		if p.acceptPunct("=") {
			initHandle = p.parseExpr()
		}
		var children []ast.Handle
		if initHandle != ast.NilHandle {
			children = append(children, initHandle)
		}
		params = append(params, p.arena.Add(ast.Node{
			Kind:         ast.KindParameter,
			Name:         pname,
			NameRange:    pnameRange,
			DeclaredType: declaredType,
			Receiver:     typeRef,
			Range:        p.rangeFrom(pstart.pos, p.lastConsumedEnd()),
			Children:     children,
		}))
		if !p.acceptPunct(",") {
			break
		}
	}
	p.acceptPunct(")")
	return params
}
