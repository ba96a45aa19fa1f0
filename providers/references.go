package providers

import (
	"context"

	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/position"
)

// ReferencesRequest locates every reference to the declaration at a
// cursor position.
type ReferencesRequest struct {
	URI                string
	Pos                position.Pos
	IncludeDeclaration bool
}

// References implements spec.md §4.6.3: resolve the node at pos to its
// declaration (or treat it as already being the declaration), then return
// every usage recorded anywhere in the workspace — cross-file by
// construction, since symbols.Index tracks usages by declaration
// reference regardless of which document either side lives in. ctx is
// checked before the (usually cheap) index walk so a rapid-fire request
// stream can still be cancelled promptly (spec.md §5).
func References(ctx context.Context, d Deps, req ReferencesRequest) ([]Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref, ok := d.Tracker.NodeAt(req.URI, req.Pos)
	if !ok {
		return nil, nil
	}
	n, ok := d.Tracker.Node(ref)
	if !ok {
		return nil, nil
	}

	declRef := ref
	switch n.Kind {
	case ast.KindVariableExpr, ast.KindPropertyExpr, ast.KindMethodCallExpr:
		if resolved, ok := d.Symbols.ResolvedDecl(ref); ok {
			declRef = resolved
		}
	}

	var locations []Location
	if req.IncludeDeclaration {
		locations = append(locations, d.locationOfRef(declRef))
	}
	for _, usageRef := range d.Symbols.UsagesOf(declRef) {
		if err := ctx.Err(); err != nil {
			return locations, err
		}
		locations = append(locations, d.locationOfRef(usageRef))
	}
	return locations, nil
}
