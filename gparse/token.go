package gparse

import "github.com/groovylang/lsp-core/position"

// tokenKind enumerates the lexical categories the hand-written Groovy
// scanner recognizes. Groovy's real front end tokenizes far more than
// this; gparse covers what the request providers in providers/ need to
// classify declarations, calls, and property access (spec.md §4.2, §4.6).
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokKeyword
	tokInt
	tokFloat
	tokString  // plain 'single' or "double" quoted, no interpolation
	tokGString // "double quoted" containing $ or ${...} interpolation
	tokPunct   // any single/multi-char operator or punctuation
	tokError   // a span the scanner could not classify; recovery marker
)

var keywords = map[string]bool{
	"def": true, "class": true, "interface": true, "enum": true, "trait": true,
	"package": true, "import": true, "extends": true, "implements": true,
	"public": true, "private": true, "protected": true, "static": true,
	"final": true, "abstract": true, "synchronized": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"try": true, "catch": true, "finally": true, "throw": true, "throws": true,
	"return": true, "break": true, "continue": true, "switch": true, "case": true, "default": true,
	"new": true, "this": true, "super": true, "null": true, "true": true, "false": true,
	"void": true, "in": true, "instanceof": true, "as": true, "assert": true,
}

type token struct {
	kind tokenKind
	text string
	pos  position.CompilerPos // position of the first character
	end  position.CompilerPos // position of the last character (inclusive)
}
