package providers

import (
	"context"
	"fmt"

	"github.com/groovylang/lsp-core/gparse"
	"github.com/groovylang/lsp-core/position"
)

// CodeActionsRequest asks for quick fixes applicable to a range and the
// diagnostics already reported for it.
type CodeActionsRequest struct {
	URI         string
	Range       position.Range
	Diagnostics []gparse.Diagnostic
}

// fixHandler produces the single code action a rule's quick fix would
// offer for one diagnostic in the named document, or false if no fix
// applies (spec.md §4.6.9: "handlers returning a single text edit or
// nothing").
type fixHandler func(d Deps, uri string, diag gparse.Diagnostic) (CodeAction, bool)

// ruleRegistry maps a diagnostic code to its fix rule. The provider never
// invents a fix for a code with no registered handler here — that is the
// whole point of a registry rather than a switch with a catch-all branch.
var ruleRegistry = map[string]fixHandler{
	"unresolved-reference": missingImportFix,
}

// CodeActions implements spec.md §4.6.9: for each diagnostic in the
// request whose code has a registered fix rule, run that rule's handler
// and collect whatever action it returns. Diagnostics with no matching
// rule are silently skipped, never guessed at.
func CodeActions(ctx context.Context, d Deps, req CodeActionsRequest) ([]CodeAction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var actions []CodeAction
	for _, diag := range req.Diagnostics {
		if err := ctx.Err(); err != nil {
			return actions, err
		}
		handler, ok := ruleRegistry[diag.Code]
		if !ok {
			continue
		}
		action, ok := handler(d, req.URI, diag)
		if !ok {
			continue
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// missingImportFix offers to import the one workspace class whose simple
// name matches the unresolved reference's name, exactly as spec.md §4.6.9
// requires: "at most one action per diagnostic, only when exactly one
// candidate exists across the workspace's declarations". Zero matches
// means nothing to import; more than one is an ambiguous fix this
// provider refuses to guess at.
func missingImportFix(d Deps, uri string, diag gparse.Diagnostic) (CodeAction, bool) {
	name := unresolvedReferenceName(diag.Message)
	if name == "" {
		return CodeAction{}, false
	}

	matches := 0
	for _, decl := range d.Symbols.ByName(name) {
		if decl.Kind.String() == "class" {
			matches++
		}
	}
	if matches != 1 {
		return CodeAction{}, false
	}

	insertAt := position.Pos{Line: 0, Character: 0}
	edit := &WorkspaceEdit{Changes: make(map[string][]TextEdit)}
	addChange(edit, uri, TextEdit{
		Range:   position.Range{Start: insertAt, End: insertAt},
		NewText: fmt.Sprintf("import %s\n", name),
	})
	return CodeAction{
		Title: fmt.Sprintf("Import %s", name),
		Kind:  "quickfix",
		Edit:  edit,
	}, true
}

func unresolvedReferenceName(message string) string {
	const prefix = "unresolved reference: "
	if len(message) <= len(prefix) || message[:len(prefix)] != prefix {
		return ""
	}
	return message[len(prefix):]
}
