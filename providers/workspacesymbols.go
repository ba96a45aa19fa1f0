package providers

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// WorkspaceSymbolsRequest is a workspace-wide symbol search.
type WorkspaceSymbolsRequest struct {
	Query string
	Limit int
}

// defaultWorkspaceSymbolLimit bounds the result set when the caller does
// not supply one, matching spec.md §4.6.7's "capped" requirement.
const defaultWorkspaceSymbolLimit = 200

// workspaceSymbolCaser folds query and candidate names the same way
// before comparing; cases.Fold is locale-agnostic and safe for identifier
// matching in a way strings.ToLower alone is not for all scripts.
var workspaceSymbolCaser = cases.Fold()

// WorkspaceSymbols implements spec.md §4.6.7: case-insensitive substring
// search over every declared name across the whole workspace's symbol
// index, capped and sorted for stable, deterministic client rendering.
func WorkspaceSymbols(ctx context.Context, d Deps, req WorkspaceSymbolsRequest) ([]SymbolInformation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultWorkspaceSymbolLimit
	}

	needle := workspaceSymbolCaser.String(req.Query)
	var results []SymbolInformation
	for _, name := range d.Symbols.AllNames() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if needle != "" && !strings.Contains(workspaceSymbolCaser.String(name), needle) {
			continue
		}
		for _, decl := range d.Symbols.ByName(name) {
			results = append(results, SymbolInformation{
				Name:           decl.Name,
				Kind:           decl.Kind.String(),
				Location:       Location{URI: decl.Ref.URI, Range: d.rangeOfDecl(decl)},
				SelectionRange: d.selectionRangeOfDecl(decl),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].Location.URI < results[j].Location.URI
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
