package providers

import (
	"context"
	"sort"

	"github.com/groovylang/lsp-core/position"
	"github.com/groovylang/lsp-core/symbols"
	"github.com/groovylang/lsp-core/visitor"
)

// DocumentSymbolsRequest asks for the symbol outline of a single document.
type DocumentSymbolsRequest struct {
	URI string
}

// DocumentSymbols implements spec.md §4.6.6: every declaration recorded
// for the document, nested under its owning class so a client can render
// a file outline (top-level classes, each with its fields/properties/
// methods as children). Declarations with no owner — top-level classes,
// imports, script-body locals — are returned at the top level.
func DocumentSymbols(ctx context.Context, d Deps, req DocumentSymbolsRequest) ([]SymbolInformation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decls := d.Symbols.All(req.URI)
	byOwner := make(map[visitor.NodeRef][]symbols.Decl)
	var roots []symbols.Decl
	for _, decl := range decls {
		if decl.HasOwner {
			byOwner[decl.Owner] = append(byOwner[decl.Owner], decl)
			continue
		}
		roots = append(roots, decl)
	}

	result := make([]SymbolInformation, 0, len(roots))
	for _, decl := range roots {
		result = append(result, d.toSymbolInformation(decl, byOwner))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Location.Range.Start.Less(result[j].Location.Range.Start)
	})
	return result, nil
}

func (d Deps) toSymbolInformation(decl symbols.Decl, byOwner map[visitor.NodeRef][]symbols.Decl) SymbolInformation {
	si := SymbolInformation{
		Name:           decl.Name,
		Kind:           decl.Kind.String(),
		Location:       Location{URI: decl.Ref.URI, Range: d.rangeOfDecl(decl)},
		SelectionRange: d.selectionRangeOfDecl(decl),
	}
	children := byOwner[decl.Ref]
	sort.SliceStable(children, func(i, j int) bool {
		return d.rangeOfDecl(children[i]).Start.Less(d.rangeOfDecl(children[j]).Start)
	})
	for _, child := range children {
		si.Children = append(si.Children, d.toSymbolInformation(child, byOwner))
	}
	return si
}

func (d Deps) rangeOfDecl(decl symbols.Decl) position.Range {
	n, ok := d.Tracker.Node(decl.Ref)
	if !ok {
		return position.Range{}
	}
	return n.Range
}

func (d Deps) selectionRangeOfDecl(decl symbols.Decl) position.Range {
	n, ok := d.Tracker.Node(decl.Ref)
	if !ok {
		return position.Range{}
	}
	return identifierRange(n)
}
