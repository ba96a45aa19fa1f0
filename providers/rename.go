package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/position"
)

// RenameRequest asks to rename the symbol at a cursor position.
type RenameRequest struct {
	URI     string
	Pos     position.Pos
	NewName string
}

// groovyReservedWords mirrors gparse's keyword set for validation
// purposes only — renaming a symbol to a reserved word would produce code
// that no longer parses, so it is rejected before any edit is built
// (spec.md §4.6.4's validation rules).
var groovyReservedWords = map[string]bool{
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

func isValidGroovyIdentifier(name string) bool {
	if name == "" || groovyReservedWords[name] {
		return false
	}
	for i, r := range name {
		isLetter := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}

// Rename implements spec.md §4.6.4: validate the new name, resolve the
// symbol under the cursor to its declaration, and build a WorkspaceEdit
// covering the declaration plus every recorded usage across the
// workspace. Renaming a top-level class also renames the file that
// declares it, matching the convention Groovy/Java tooling both enforce
// (a public class must live in a same-named file).
func Rename(ctx context.Context, d Deps, req RenameRequest) (*WorkspaceEdit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !isValidGroovyIdentifier(req.NewName) {
		return nil, fmt.Errorf("%q is not a valid Groovy identifier", req.NewName)
	}

	ref, ok := d.Tracker.NodeAt(req.URI, req.Pos)
	if !ok {
		return nil, fmt.Errorf("no symbol at the given position")
	}
	n, ok := d.Tracker.Node(ref)
	if !ok {
		return nil, fmt.Errorf("no symbol at the given position")
	}

	declRef := ref
	switch n.Kind {
	case ast.KindVariableExpr, ast.KindPropertyExpr, ast.KindMethodCallExpr:
		if resolved, ok := d.Symbols.ResolvedDecl(ref); ok {
			declRef = resolved
		}
	}
	declNode, ok := d.Tracker.Node(declRef)
	if !ok {
		return nil, fmt.Errorf("could not resolve declaration")
	}
	if d.Workspace != nil && !d.Workspace.IsWorkspaceOwned(declRef.URI) {
		return nil, fmt.Errorf("cannot rename a declaration outside the workspace (%s)", declRef.URI)
	}

	edit := &WorkspaceEdit{Changes: make(map[string][]TextEdit)}
	addChange(edit, declRef.URI, TextEdit{Range: identifierRange(declNode), NewText: req.NewName})
	for _, usageRef := range d.Symbols.UsagesOf(declRef) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		usageNode, ok := d.Tracker.Node(usageRef)
		if !ok {
			continue
		}
		addChange(edit, usageRef.URI, TextEdit{Range: identifierRange(usageNode), NewText: req.NewName})
	}

	if declNode.Kind == ast.KindClass && strings.HasSuffix(declRef.URI, "/"+declNode.Name+".groovy") {
		newURI := strings.TrimSuffix(declRef.URI, declNode.Name+".groovy") + req.NewName + ".groovy"
		edit.RenameFile = &FileRename{OldURI: declRef.URI, NewURI: newURI}
	}

	return edit, nil
}
