// Package gparse is the Parser Facade (spec.md §4.2): it turns Groovy
// source text into a position-accurate ast.Arena plus a diagnostic list,
// and never panics — a malformed document degrades to partial structure
// and diagnostics rather than aborting compilation of the rest of the
// workspace.
//
// There is no tree-sitter/ANTLR front end underneath it (see SPEC_FULL.md
// §2, "Dropped teacher dependencies"): no bundled grammar in the reachable
// ecosystem targets Groovy, and the nearest relative (Java) rejects
// shapes this module's own worked scenarios depend on. gparse is instead
// a hand-written lexer (lexer.go) and recursive-descent/Pratt parser
// (parser.go, statement.go, expr.go) that lowers directly into ast.Arena,
// following the same "always return a result, never throw" contract the
// rest of this module observes at its boundaries.
package gparse

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/position"
)

// Request is one compile request: a URI identifying the document and its
// full source text. gparse is stateless between requests — callers own
// caching (cache.Cache wraps this), this package only ever parses what it
// is handed.
type Request struct {
	URI    string
	Source string
}

// ParseResult is the output of one parse: the node arena backing every
// handle the rest of the engine deals in, the root handle, and whatever
// diagnostics the scan/parse produced. A ParseResult with a non-zero
// Diagnostics slice is still usable — partial structure is always
// returned, matching spec.md §4.2's degrade-gracefully contract.
type ParseResult struct {
	URI         string
	Source      string
	Arena       *ast.Arena
	Root        ast.Handle
	Diagnostics []Diagnostic
}

// Parse lexes and parses req.Source, never panicking: any internal fault
// is caught by parser.parseModule's own recover and surfaces as a single
// synthetic Internal diagnostic rather than propagating, per spec.md §4.2
// and §7's failure-isolation requirement ("a compile failure for one
// document must never corrupt or block another document's state").
func Parse(req Request) ParseResult {
	p := newParser(req.Source)
	root, diags := p.parseModule()
	return ParseResult{
		URI:         req.URI,
		Source:      req.Source,
		Arena:       p.arena,
		Root:        root,
		Diagnostics: diags,
	}
}

// sentinelPrefix marks the synthetic identifier InsertSentinel injects.
// It is an ordinary Groovy identifier, unlikely to collide with a user
// name, so the lexer tokenizes it like any other identifier — the whole
// point is that the parser cannot tell it apart from user input (spec.md
// §4.6.1).
const sentinelPrefix = "zzGlspSentinel"

// InsertSentinel implements the speculative-insertion strategy spec.md
// §4.6.1 describes for completion: at an incomplete or mid-token cursor
// position, splice a unique placeholder identifier into the source at pos
// so the surrounding expression parses as a complete, ordinary AST instead
// of trailing off into a parse error. It returns the patched source and
// the generated identifier so the completion provider can find the node
// it introduced and strip it back out of any result text.
func InsertSentinel(source string, pos position.Pos, counter uint32) (patched string, identifier string) {
	identifier = fmt.Sprintf("%s%d", sentinelPrefix, counter)
	offset := byteOffsetForPosition(source, pos)
	return source[:offset] + identifier + source[offset:], identifier
}

// InsertSentinelAsDecl is InsertSentinel's retry form (spec.md §4.6.1 step
// 1): it splices `def <identifier>` instead of a bare identifier, so a
// cursor sitting at the start of a not-yet-typed declaration (`class X {
// fo| }`) parses as a complete field/local declaration instead of a bare
// expression statement, reaching class-body completion context.
func InsertSentinelAsDecl(source string, pos position.Pos, counter uint32) (patched string, identifier string) {
	identifier = fmt.Sprintf("%s%d", sentinelPrefix, counter)
	offset := byteOffsetForPosition(source, pos)
	return source[:offset] + "def " + identifier + source[offset:], identifier
}

// IsCleanCursor reports whether pos is a "clean" insertion point for the
// sentinel retry (spec.md §4.6.1 step 1): not already in the middle of a
// dot-qualified member-access continuation. A cursor right after `.`,
// `?.`, or `*.` is mid-member-access and retrying with a `def `-prefixed
// sentinel there would only corrupt that expression further, so only a
// cursor NOT immediately preceded by one of those qualifies for retry.
func IsCleanCursor(source string, pos position.Pos) bool {
	offset := byteOffsetForPosition(source, pos)
	before := source[:offset]
	before = strings.TrimRight(before, " \t")
	return !strings.HasSuffix(before, ".") && !strings.HasSuffix(before, "?.") && !strings.HasSuffix(before, "*.")
}

// byteOffsetForPosition converts a 0-based (line, UTF-16 code unit)
// editor position into a byte offset into source, matching the position
// model's editor-coordinate contract (position.Pos, spec.md §4.1). A
// position past the end of the document or its line clamps to the
// nearest valid offset rather than panicking.
func byteOffsetForPosition(source string, pos position.Pos) int {
	lines := strings.SplitAfter(source, "\n")
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(lines) {
		return len(source)
	}
	offset := 0
	for i := 0; i < pos.Line; i++ {
		offset += len(lines[i])
	}
	line := lines[pos.Line]
	units := utf16.Encode([]rune(line))
	if pos.Character >= len(units) {
		return offset + len(line)
	}
	// Walk runes counting UTF-16 units consumed until Character is
	// reached, converting back to a byte offset within the line.
	consumedUnits, byteOff := 0, 0
	for _, r := range line {
		if consumedUnits >= pos.Character {
			break
		}
		consumedUnits += len(utf16.Encode([]rune{r}))
		byteOff += utf8.RuneLen(r)
	}
	return offset + byteOff
}
