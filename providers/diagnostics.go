package providers

import (
	"context"

	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/gparse"
	"github.com/groovylang/lsp-core/visitor"
)

// DiagnosticsRequest asks for the merged diagnostic set for one document's
// current content.
type DiagnosticsRequest struct {
	URI     string
	Content string
}

// parserProvider and unresolvedReferenceProvider name the built-in
// diagnostic sources the allowlist/denylist in internal/config.CoreConfig
// can target individually: "parser" for syntax errors and
// "unresolved_reference" for unbound names.
const (
	parserProvider              = "parser"
	unresolvedReferenceProvider = "unresolved_reference"
)

// Diagnostics implements spec.md §4.6.8's merge layer: diagnostics from
// the compile itself (syntax errors gparse already attaches editor-space
// ranges to) are combined with diagnostics this core derives from the
// symbol index (unresolved variable references), each source filtered
// independently through CoreConfig.DiagnosticEnabled so a denylisted
// provider's findings never reach the caller regardless of how many other
// sources would have reported the same range.
func Diagnostics(ctx context.Context, d Deps, req DiagnosticsRequest) ([]gparse.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := d.Cache.GetOrCompile(req.URI, req.Content)

	var merged []gparse.Diagnostic
	if d.Config.DiagnosticEnabled(parserProvider) {
		merged = append(merged, result.Diagnostics...)
	}

	if d.Config.DiagnosticEnabled(unresolvedReferenceProvider) {
		tr := visitor.New()
		tr.Walk(result.URI, result.Arena, result.Root)
		merged = append(merged, unresolvedReferenceDiagnostics(tr, req.URI)...)
	}

	return merged, nil
}

// unresolvedReferenceDiagnostics flags a VariableExpr usage that no
// declaration in the document resolves to as a warning, the one
// symbol-index-derived diagnostic source spec.md §4.6.8 names alongside
// raw parse errors. A name counts as bound if any local variable,
// parameter (closure parameters included), field, property, class,
// interface, enum or method in the document declares it, wherever that
// declaration sits; `this`, `super` and `it` are never flagged. The check
// is by name over the walked document rather than through the full symbol
// index, so it stays cheap enough to run on every keystroke.
func unresolvedReferenceDiagnostics(tr *visitor.Tracker, uri string) []gparse.Diagnostic {
	declared := make(map[string]bool)
	for _, ref := range tr.NodesByURI(uri) {
		n, ok := tr.Node(ref)
		if !ok {
			continue
		}
		switch n.Kind {
		case ast.KindLocalVarDecl, ast.KindParameter, ast.KindField, ast.KindProperty, ast.KindClass, ast.KindInterface, ast.KindEnum, ast.KindMethod:
			declared[n.Name] = true
		}
	}

	var diags []gparse.Diagnostic
	for _, ref := range tr.NodesByURI(uri) {
		n, ok := tr.Node(ref)
		if !ok || n.Kind != ast.KindVariableExpr || n.Name == "" {
			continue
		}
		if n.Name == "this" || n.Name == "super" || n.Name == "it" {
			continue
		}
		if declared[n.Name] {
			continue
		}
		diags = append(diags, gparse.Diagnostic{
			Range:    n.Range,
			Severity: gparse.SeverityWarning,
			Message:  "unresolved reference: " + n.Name,
			Source:   unresolvedReferenceProvider,
			Code:     "unresolved-reference",
		})
	}
	return diags
}
