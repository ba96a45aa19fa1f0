package gparse

import (
	"strings"
	"unicode/utf8"

	"github.com/groovylang/lsp-core/position"
)

// lexer turns Groovy source text into a token stream, tracking compiler
// (1-based) line/column positions as it scans. It never fails: a byte
// that starts no identifier, number, string or known operator becomes a
// single-character tokPunct token, so the parser can recover and keep
// producing a best-effort tree (spec.md §4.2 failure semantics).
type lexer struct {
	src   string
	pos   int // byte offset
	line  int // 1-based
	col   int // 1-based, UTF-16-agnostic (compiler coordinates are plain columns)
}

func newLexer(src string) *lexer {
	return &lexer{src: src, pos: 0, line: 1, col: 1}
}

func (l *lexer) here() position.CompilerPos {
	return position.CompilerPos{Line: l.line, Column: l.col}
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

func (l *lexer) skipTrivia() {
	for !l.eof() {
		b := l.peekByte()
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			l.advance()
		case b == '/' && l.peekByteAt(1) == '/':
			for !l.eof() && l.peekByte() != '\n' {
				l.advance()
			}
		case b == '/' && l.peekByteAt(1) == '*':
			l.advance()
			l.advance()
			for !l.eof() && !(l.peekByte() == '*' && l.peekByteAt(1) == '/') {
				l.advance()
			}
			if !l.eof() {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= utf8.RuneSelf
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// next scans and returns the next token, advancing the lexer.
func (l *lexer) next() token {
	l.skipTrivia()
	start := l.here()
	if l.eof() {
		return token{kind: tokEOF, pos: start, end: start}
	}

	b := l.peekByte()

	switch {
	case isIdentStart(b):
		return l.scanIdent(start)
	case isDigit(b):
		return l.scanNumber(start)
	case b == '"':
		return l.scanDoubleQuoted(start)
	case b == '\'':
		return l.scanSingleQuoted(start)
	default:
		return l.scanPunct(start)
	}
}

func (l *lexer) scanIdent(start position.CompilerPos) token {
	begin := l.pos
	for !l.eof() && isIdentPart(l.peekByte()) {
		l.advance()
	}
	text := l.src[begin:l.pos]
	end := position.CompilerPos{Line: l.line, Column: l.col - 1}
	kind := tokIdent
	if keywords[text] {
		kind = tokKeyword
	}
	return token{kind: kind, text: text, pos: start, end: end}
}

func (l *lexer) scanNumber(start position.CompilerPos) token {
	begin := l.pos
	isFloat := false
	for !l.eof() && isDigit(l.peekByte()) {
		l.advance()
	}
	if !l.eof() && l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		isFloat = true
		l.advance()
		for !l.eof() && isDigit(l.peekByte()) {
			l.advance()
		}
	}
	// Consume trailing type suffixes (L, G, D, F, i) without semantic meaning.
	for !l.eof() && strings.ContainsRune("LlGgDdFfIi", rune(l.peekByte())) {
		l.advance()
	}
	text := l.src[begin:l.pos]
	end := position.CompilerPos{Line: l.line, Column: l.col - 1}
	kind := tokInt
	if isFloat {
		kind = tokFloat
	}
	return token{kind: kind, text: text, pos: start, end: end}
}

func (l *lexer) scanSingleQuoted(start position.CompilerPos) token {
	begin := l.pos
	l.advance() // opening '
	for !l.eof() && l.peekByte() != '\'' {
		if l.peekByte() == '\\' {
			l.advance()
		}
		if !l.eof() {
			l.advance()
		}
	}
	if !l.eof() {
		l.advance() // closing '
	}
	text := l.src[begin:l.pos]
	end := position.CompilerPos{Line: l.line, Column: l.col - 1}
	return token{kind: tokString, text: text, pos: start, end: end}
}

// scanDoubleQuoted scans a double-quoted or triple-quoted ("""...""")
// string as one token: tokGString if an unescaped `$` occurs in it,
// tokString otherwise.
func (l *lexer) scanDoubleQuoted(start position.CompilerPos) token {
	begin := l.pos
	triple := l.peekByteAt(1) == '"' && l.peekByteAt(2) == '"'
	if triple {
		l.advance()
		l.advance()
		l.advance()
	} else {
		l.advance()
	}
	interpolated := false
	for !l.eof() {
		if triple {
			if l.peekByte() == '"' && l.peekByteAt(1) == '"' && l.peekByteAt(2) == '"' {
				l.advance()
				l.advance()
				l.advance()
				break
			}
		} else if l.peekByte() == '"' {
			l.advance()
			break
		}
		if l.peekByte() == '\\' {
			l.advance()
			if !l.eof() {
				l.advance()
			}
			continue
		}
		if l.peekByte() == '$' {
			interpolated = true
		}
		l.advance()
	}
	text := l.src[begin:l.pos]
	end := position.CompilerPos{Line: l.line, Column: l.col - 1}
	kind := tokString
	if interpolated {
		kind = tokGString
	}
	return token{kind: kind, text: text, pos: start, end: end}
}

// multiChar operators, longest first so greedy matching picks the right one.
var multiCharOps = []string{
	"<=>", "*.", "?.", "?:", "..<", "...", "..", "->", "==", "!=", "<=", ">=",
	"&&", "||", "++", "--", "+=", "-=", "*=", "/=", "%=", "<<", ">>", "::",
}

func (l *lexer) scanPunct(start position.CompilerPos) token {
	for _, op := range multiCharOps {
		if strings.HasPrefix(l.src[l.pos:], op) {
			for range op {
				l.advance()
			}
			end := position.CompilerPos{Line: l.line, Column: l.col - 1}
			return token{kind: tokPunct, text: op, pos: start, end: end}
		}
	}
	b := l.advance()
	end := position.CompilerPos{Line: l.line, Column: l.col - 1}
	return token{kind: tokPunct, text: string(b), pos: start, end: end}
}
