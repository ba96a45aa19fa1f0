// Package providers implements the nine request providers spec.md §4.6
// describes — completion, definition, references, rename, hover,
// document symbols, workspace symbols, diagnostics, and code actions —
// each built the way the teacher's MCP tools are: a narrow handler over
// shared, dependency-injected state, context-cancellation aware, never
// reaching for a package-level global (spec.md §9).
package providers

import (
	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/cache"
	"github.com/groovylang/lsp-core/internal/config"
	"github.com/groovylang/lsp-core/internal/gdk"
	"github.com/groovylang/lsp-core/position"
	"github.com/groovylang/lsp-core/symbols"
	"github.com/groovylang/lsp-core/visitor"
	"github.com/groovylang/lsp-core/workspace"
)

// Deps is the dependency set every provider is constructed with — the
// compilation cache, relationship tracker, symbol index, workspace
// metadata, GDK/Jenkins catalogs, and configuration. Providers never
// reach for ambient/global state; everything they need comes through
// here (spec.md §9's "no global singletons" design note).
type Deps struct {
	Cache     *cache.Cache
	Tracker   *visitor.Tracker
	Symbols   *symbols.Index
	Workspace *workspace.Workspace
	Methods   gdk.MethodCatalog
	Jenkins   gdk.JenkinsCatalog
	Config    config.CoreConfig
}

// Location identifies a range within a specific document.
type Location struct {
	URI   string
	Range position.Range
}

// TextEdit is one replacement within a single document.
type TextEdit struct {
	Range   position.Range
	NewText string
}

// WorkspaceEdit groups TextEdits by URI plus an optional file rename,
// the shape the rename provider (spec.md §4.6.4) and code actions
// (§4.6.9) both produce.
type WorkspaceEdit struct {
	Changes    map[string][]TextEdit
	RenameFile *FileRename
}

// FileRename accompanies a WorkspaceEdit when renaming a public top-level
// class also requires renaming the file that declares it (spec.md
// §4.6.4's file-rename edge case).
type FileRename struct {
	OldURI string
	NewURI string
}

// SymbolInformation is one entry in a document- or workspace-symbols
// result (spec.md §4.6.6, §4.6.7). Location covers the declaration's full
// extent; SelectionRange is the identifier alone, matching spec.md
// §4.6.6's "ranges use the declaration's full extent; selection ranges
// use the identifier alone."
type SymbolInformation struct {
	Name           string
	Kind           string
	Location       Location
	SelectionRange position.Range
	ContainerName  string
	Children       []SymbolInformation
}

// CompletionItem is one completion candidate (spec.md §4.6.1).
type CompletionItem struct {
	Label      string
	Kind       string
	Detail     string
	Doc        string
	InsertText string
}

// CodeAction is one applicable fix or refactor (spec.md §4.6.9).
type CodeAction struct {
	Title string
	Kind  string
	Edit  *WorkspaceEdit
}

// identifierRange is a node's identifying-token range, not its full
// extent: a local/field/parameter/property-access/method-call's Range
// spans the whole declaration or qualified expression, so rename and
// go-to-definition must target NameRange alone or the edit/location would
// cover the type, initializer, or receiver qualifier too (spec.md §8 S1).
// Falls back to Range for node kinds that never populate NameRange (a
// bare VariableExpr's Range is already just the identifier).
func identifierRange(n *ast.Node) position.Range {
	var zero position.Range
	if n.NameRange != zero {
		return n.NameRange
	}
	return n.Range
}

func addChange(edit *WorkspaceEdit, uri string, te TextEdit) {
	if edit.Changes == nil {
		edit.Changes = make(map[string][]TextEdit)
	}
	edit.Changes[uri] = append(edit.Changes[uri], te)
}

// resolveReceiverType resolves the static/inferred type a member access
// (MethodCallExpr/PropertyExpr) node n is performed against — spec.md
// §4.4/§4.6.2's "(enclosing class, name, arity)" design starts from this.
// An implicit or `this` receiver resolves to n's own enclosing class;
// `super` is refused outright, since supertype chains are never recorded
// (spec.md §4.4's class model has no extends/implements edges); a typed
// variable receiver resolves to its declared/inferred type; a bare
// capitalized name matching a known class is treated as a static
// receiver.
func (d Deps) resolveReceiverType(ref visitor.NodeRef, n *ast.Node) (string, bool) {
	return d.Symbols.ReceiverType(d.Tracker, ref, n)
}

// argCountOf counts a MethodCallExpr's argument list — the arity
// coordinate spec.md §4.4/§4.6.2 resolve a method call by alongside
// receiver class and name. Delegates to symbols.ArgCount so the query-time
// provider path and the reference-indexing pass share one implementation.
func (d Deps) argCountOf(ref visitor.NodeRef, n *ast.Node) int {
	return symbols.ArgCount(d.Tracker, ref, n)
}
