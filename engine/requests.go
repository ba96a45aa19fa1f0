package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/groovylang/lsp-core/gparse"
	"github.com/groovylang/lsp-core/position"
	"github.com/groovylang/lsp-core/providers"
)

// asCoreError classifies a provider error into the spec.md §7 taxonomy:
// a cancelled context becomes the dedicated Cancelled sentinel, anything
// else becomes an Internal error carrying the original cause. Providers
// never return InvalidRequest or UnresolvedSymbol themselves — those are
// represented as ordinary (ok=false, err=nil) results or validated by the
// engine before the provider call runs (e.g. Rename's identifier check).
//
// An Internal classification invalidates uri's cache entry (spec.md §7's
// "affected document's cache entry is invalidated"): whatever the
// provider saw to fail on is no longer trustworthy, so the next request
// against uri forces a fresh compile rather than reusing it. The Internal
// error is logged at Error level with uri and its stack-carrying cause.
func (e *Engine) asCoreError(uri string, err error) *CoreError {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return cancelledError()
	}
	if uri != "" {
		e.cache.Invalidate(uri)
	}
	cerr := internalError("provider call failed", err)
	e.log.Error("provider call failed", zap.String("uri", uri), zap.Error(cerr.Cause))
	return cerr
}

// panicError marks an error produced by guardProvider recovering a
// provider panic, distinct from an ordinary provider-returned error, so a
// caller like Rename — which otherwise remaps provider errors into
// InvalidRequest — can still route a panic into the Internal category.
type panicError struct{ cause error }

func (p *panicError) Error() string { return p.cause.Error() }
func (p *panicError) Unwrap() error { return p.cause }

// guardProvider recovers a panic raised out of a provider call, the only
// way a provider can actually produce the Internal category in practice
// (spec.md §7, CodeInternal) since every provider-returned error here is
// either a cancelled context or an (ok=false, err=nil) non-error result.
// A panicking provider still leaves uri's cached compile result
// unaffected, but whatever state the panic interrupted mid-computation
// might not be, so the entry is invalidated the same as any other
// Internal error.
func (e *Engine) guardProvider(uri string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if uri != "" {
				e.cache.Invalidate(uri)
			}
			err = &panicError{cause: fmt.Errorf("provider panic: %v", r)}
		}
	}()
	return fn()
}

// Completion implements spec.md §6 "completion(uri, position) →
// list<item>".
func (e *Engine) Completion(ctx context.Context, uri string, pos position.Pos) ([]providers.CompletionItem, *CoreError) {
	e.mu.RLock()
	doc, ok := e.documents[uri]
	e.mu.RUnlock()
	if !ok {
		return nil, invalidRequestError("unknown document: "+uri, nil)
	}
	var items []providers.CompletionItem
	err := e.guardProvider(uri, func() (err error) {
		items, err = providers.Completion(ctx, e.deps(), providers.CompletionRequest{URI: uri, Content: doc.text, Pos: pos})
		return err
	})
	if err != nil {
		return nil, e.asCoreError(uri, err)
	}
	return items, nil
}

// Definition implements spec.md §6 "definition(uri, position) →
// list<location>". The interface names a list; this hand-written core
// resolves to at most one canonical declaration per position, so a
// result is always zero or one element, never an ambiguous set.
func (e *Engine) Definition(ctx context.Context, uri string, pos position.Pos) ([]providers.Location, *CoreError) {
	var loc providers.Location
	var ok bool
	err := e.guardProvider(uri, func() (err error) {
		loc, ok, err = providers.Definition(ctx, e.deps(), providers.DefinitionRequest{URI: uri, Pos: pos})
		return err
	})
	if err != nil {
		return nil, e.asCoreError(uri, err)
	}
	if !ok {
		return nil, nil
	}
	return []providers.Location{loc}, nil
}

// References implements spec.md §6 "references(uri, position,
// include_decl) → list<location>".
func (e *Engine) References(ctx context.Context, uri string, pos position.Pos, includeDecl bool) ([]providers.Location, *CoreError) {
	var locs []providers.Location
	err := e.guardProvider(uri, func() (err error) {
		locs, err = providers.References(ctx, e.deps(), providers.ReferencesRequest{URI: uri, Pos: pos, IncludeDeclaration: includeDecl})
		return err
	})
	if err != nil {
		return nil, e.asCoreError(uri, err)
	}
	return locs, nil
}

// Rename implements spec.md §6 "rename(uri, position, new_name) →
// workspace_edit | error". An invalid new name or an unresolvable
// position surfaces as InvalidRequest, matching spec.md §7's "rename
// target in a dependency, invalid new name" InvalidRequest examples.
func (e *Engine) Rename(ctx context.Context, uri string, pos position.Pos, newName string) (*providers.WorkspaceEdit, *CoreError) {
	var edit *providers.WorkspaceEdit
	err := e.guardProvider(uri, func() (err error) {
		edit, err = providers.Rename(ctx, e.deps(), providers.RenameRequest{URI: uri, Pos: pos, NewName: newName})
		return err
	})
	if err != nil {
		var pe *panicError
		if errors.As(err, &pe) {
			return nil, e.asCoreError(uri, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, e.asCoreError(uri, ctxErr)
		}
		return nil, invalidRequestError(err.Error(), err)
	}
	return edit, nil
}

// Hover implements spec.md §6 "hover(uri, position) → markdown | null".
func (e *Engine) Hover(ctx context.Context, uri string, pos position.Pos) (*providers.Hover, *CoreError) {
	var hov *providers.Hover
	var ok bool
	err := e.guardProvider(uri, func() (err error) {
		hov, ok, err = providers.Hover(ctx, e.deps(), providers.HoverRequest{URI: uri, Pos: pos})
		return err
	})
	if err != nil {
		return nil, e.asCoreError(uri, err)
	}
	if !ok {
		return nil, nil
	}
	return hov, nil
}

// DocumentSymbols implements spec.md §6 "document_symbols(uri) →
// tree<symbol>".
func (e *Engine) DocumentSymbols(ctx context.Context, uri string) ([]providers.SymbolInformation, *CoreError) {
	var syms []providers.SymbolInformation
	err := e.guardProvider(uri, func() (err error) {
		syms, err = providers.DocumentSymbols(ctx, e.deps(), providers.DocumentSymbolsRequest{URI: uri})
		return err
	})
	if err != nil {
		return nil, e.asCoreError(uri, err)
	}
	return syms, nil
}

// WorkspaceSymbols implements spec.md §6 "workspace_symbols(query) →
// list<symbol>". The query spans the whole workspace rather than one
// document, so a failure here has no single uri to invalidate.
func (e *Engine) WorkspaceSymbols(ctx context.Context, query string, limit int) ([]providers.SymbolInformation, *CoreError) {
	var syms []providers.SymbolInformation
	err := e.guardProvider("", func() (err error) {
		syms, err = providers.WorkspaceSymbols(ctx, e.deps(), providers.WorkspaceSymbolsRequest{Query: query, Limit: limit})
		return err
	})
	if err != nil {
		return nil, e.asCoreError("", err)
	}
	return syms, nil
}

// Diagnostics returns the diagnostics from the most recent compile of
// uri without forcing a recompile, the pull-style complement to Subscribe
// for a caller that just wants the current set spec.md §6's
// "diagnostics(uri) → list<diagnostic>" names — the push side ("emitted
// on every successful parse") is Subscribe.
func (e *Engine) Diagnostics(uri string) ([]gparse.Diagnostic, *CoreError) {
	e.mu.RLock()
	doc, ok := e.documents[uri]
	e.mu.RUnlock()
	if !ok {
		return nil, invalidRequestError("unknown document: "+uri, nil)
	}
	return e.cache.GetOrCompile(uri, doc.text).Diagnostics, nil
}

// CodeActions implements spec.md §6 "code_actions(uri, range,
// diagnostics) → list<action>".
func (e *Engine) CodeActions(ctx context.Context, uri string, rng position.Range, diags []gparse.Diagnostic) ([]providers.CodeAction, *CoreError) {
	var actions []providers.CodeAction
	err := e.guardProvider(uri, func() (err error) {
		actions, err = providers.CodeActions(ctx, e.deps(), providers.CodeActionsRequest{URI: uri, Range: rng, Diagnostics: diags})
		return err
	})
	if err != nil {
		return nil, e.asCoreError(uri, err)
	}
	return actions, nil
}
