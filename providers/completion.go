package providers

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/gparse"
	"github.com/groovylang/lsp-core/position"
	"github.com/groovylang/lsp-core/symbols"
	"github.com/groovylang/lsp-core/visitor"
)

// sentinelCounter gives every speculative compile a distinct placeholder
// identifier, so concurrent completion requests against different
// documents never collide on the same synthetic name (spec.md §4.6.1).
var sentinelCounter uint64

// CompletionRequest is one completion invocation.
type CompletionRequest struct {
	URI     string
	Content string
	Pos     position.Pos
}

// Completion implements spec.md §4.6.1's speculative-insertion strategy:
// splice a sentinel identifier at the cursor, compile the patched source
// transiently (never touching the real cache), locate the node the
// sentinel produced, and classify the surrounding context — member access
// after a receiver, or general scope — to decide which candidates to
// offer. If the cursor is clean (not already mid member-access) and that
// first speculative parse still carries diagnostics, a second attempt
// retries with the sentinel prefixed by `def `, reaching declaration
// context (`class X { fo| }`) a bare identifier splice cannot. Whichever
// speculative result is used, it is only trusted if it parses at least as
// cleanly as the real (baseline) document — a speculative insertion that
// makes things measurably worse falls back to the baseline's own general
// scope completions instead. ctx cancellation is honored before the
// (potentially nontrivial) transient compiles.
func Completion(ctx context.Context, d Deps, req CompletionRequest) ([]CompletionItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	baseline := d.Cache.GetOrCompile(req.URI, req.Content)

	counter := atomic.AddUint64(&sentinelCounter, 1)
	patched, sentinel := gparse.InsertSentinel(req.Content, req.Pos, uint32(counter))
	result := d.Cache.CompileTransient(req.URI, patched)

	if len(result.Diagnostics) > 0 && gparse.IsCleanCursor(req.Content, req.Pos) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		counter = atomic.AddUint64(&sentinelCounter, 1)
		declPatched, declSentinel := gparse.InsertSentinelAsDecl(req.Content, req.Pos, uint32(counter))
		declResult := d.Cache.CompileTransient(req.URI, declPatched)
		if len(declResult.Diagnostics) <= len(result.Diagnostics) {
			result, sentinel = declResult, declSentinel
		}
	}

	if len(result.Diagnostics) > len(baseline.Diagnostics) {
		return d.generalScopeCompletions(req.URI), nil
	}

	tr := visitor.New()
	tr.Walk(result.URI, result.Arena, result.Root)

	sentinelRef, prefix, ok := findSentinel(tr, result.URI, sentinel)
	if !ok {
		return d.generalScopeCompletions(req.URI), nil
	}

	if receiverType, ok := d.speculativeReceiverType(tr, sentinelRef); ok {
		return d.memberCompletions(receiverType), nil
	}
	if ok := d.isTypeParameterContext(tr, sentinelRef); ok {
		return d.typeParameterCompletions(prefix), nil
	}
	return d.generalScopeCompletions(req.URI), nil
}

// findSentinel locates the node the spliced sentinel identifier produced.
// A cursor sitting mid-identifier (e.g. `Str|` before the rest of `String`
// is typed) merges the sentinel onto whatever prefix text already preceded
// it into one token, so an exact-name match is tried first and a
// suffix match second — the latter's leading remainder is the prefix the
// caller filters candidates by.
func findSentinel(tr *visitor.Tracker, uri, sentinel string) (visitor.NodeRef, string, bool) {
	for _, ref := range tr.NodesByURI(uri) {
		n, ok := tr.Node(ref)
		if !ok {
			continue
		}
		if n.Name == sentinel {
			return ref, "", true
		}
		if strings.HasSuffix(n.Name, sentinel) {
			return ref, strings.TrimSuffix(n.Name, sentinel), true
		}
	}
	return visitor.NodeRef{}, "", false
}

// isTypeParameterContext reports whether the sentinel landed in a
// type-reference position (spec.md §4.6.1 step 4): either directly as a
// ClassExpr — a declared type's name or a generic argument nested inside
// one (`List<Sent|>`, `Sent|` as a field/local/parameter type) — or as a
// bare VariableExpr wrapped in a `<`-operator BinaryExpr, the shape a
// still-ambiguous `Foo<Sent` parses as outside any declaration-type
// position the hand-written parser's lookahead recognizes.
func (d Deps) isTypeParameterContext(tr *visitor.Tracker, ref visitor.NodeRef) bool {
	n, ok := tr.Node(ref)
	if !ok {
		return false
	}
	if n.Kind == ast.KindClassExpr {
		return true
	}
	if n.Kind != ast.KindVariableExpr {
		return false
	}
	parentRef, ok := tr.Parent(ref)
	if !ok {
		return false
	}
	parent, ok := tr.Node(parentRef)
	return ok && parent.Kind == ast.KindBinaryExpr && parent.Operator == "<"
}

// typeParameterCompletions returns every declared class/interface/enum
// whose name starts with prefix, capped at Config.Completion.TypeParameterLimit
// — spec.md §8 step 4's "type-parameter: classes matching the prefix,
// capped at a fixed result limit" candidate rule.
func (d Deps) typeParameterCompletions(prefix string) []CompletionItem {
	var items []CompletionItem
	for _, name := range d.Symbols.AllNames() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if _, ok := d.Symbols.ClassDeclByName(name); !ok {
			continue
		}
		items = append(items, CompletionItem{Label: name, Kind: "class", InsertText: name})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	limit := d.Config.Completion.TypeParameterLimit
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// speculativeReceiverType reports the static/inferred type of the
// expression the sentinel is a property/method access on, if the
// sentinel landed as a PropertyExpr receiver chain — i.e. the cursor sat
// right after a `.` (spec.md §4.6.1 step 3's "member access" branch). tr
// is the transient tree built from the speculative compile; a variable
// receiver is resolved by bridging back to the real, scope-aware
// d.Tracker/d.Symbols via the receiver's source range, which is identical
// between the speculative and real parse since the sentinel is spliced
// at or after the cursor and never disturbs text before it.
func (d Deps) speculativeReceiverType(tr *visitor.Tracker, ref visitor.NodeRef) (string, bool) {
	n, ok := tr.Node(ref)
	if !ok || n.Kind != ast.KindPropertyExpr || n.Receiver == ast.NilHandle {
		return "", false
	}
	receiverRef := visitor.NodeRef{URI: ref.URI, Handle: n.Receiver}
	receiver, ok := tr.Node(receiverRef)
	if !ok || receiver.Kind != ast.KindVariableExpr {
		return "", false
	}

	switch receiver.Name {
	case "this":
		return enclosingClassNameInTree(tr, ref)
	case "super":
		return "", false
	}

	if realRef, ok := d.Tracker.NodeAt(ref.URI, receiver.Range.Start); ok {
		if realNode, ok := d.Tracker.Node(realRef); ok && realNode.Kind == ast.KindVariableExpr {
			if declRef, ok := d.Symbols.ResolvedDecl(realRef); ok {
				if decl, ok := d.Symbols.DeclAt(declRef); ok {
					if decl.InferredType != "" {
						return decl.InferredType, true
					}
					if decl.DeclaredType != "" {
						return decl.DeclaredType, true
					}
				}
			}
		}
	}

	if d.Symbols.HasClass(receiver.Name) {
		return receiver.Name, true
	}
	return "", false
}

func enclosingClassNameInTree(tr *visitor.Tracker, ref visitor.NodeRef) (string, bool) {
	owner, ok := tr.EnclosingOfKind(ref, ast.KindClass, 0)
	if !ok {
		return "", false
	}
	ownerNode, ok := tr.Node(owner)
	if !ok {
		return "", false
	}
	return ownerNode.Name, true
}

// memberCompletions returns GDK extension methods for receiverType plus
// any user-declared members of a same-named class in the symbol index,
// capped at Config.Completion.TypeParameterLimit candidates. It never
// includes keyword candidates — member-access position never expects a
// Groovy keyword (spec.md §8 S2's worked scenario: `list.` offers `each`,
// `collect`, `find`, `size`, never a keyword).
func (d Deps) memberCompletions(receiverType string) []CompletionItem {
	var items []CompletionItem
	baseType := strings.TrimSuffix(receiverType, ">")
	if i := strings.Index(baseType, "<"); i >= 0 {
		baseType = baseType[:i]
	}
	for _, decl := range d.Symbols.MembersOf(baseType) {
		if decl.Kind != symbols.MethodDecl && decl.Kind != symbols.FieldDecl && decl.Kind != symbols.PropertyDecl {
			continue
		}
		items = append(items, CompletionItem{Label: decl.Name, Kind: decl.Kind.String(), Detail: decl.InferredType, InsertText: decl.Name})
	}
	for _, m := range d.Methods.MethodsFor(baseType) {
		items = append(items, CompletionItem{Label: m.Name, Kind: "method", Detail: m.Signature, Doc: m.Doc, InsertText: m.Name})
	}
	// Collection/Map types all get the same GDK iteration surface on top
	// of whatever Object already contributes.
	if baseType == "ArrayList" || baseType == "LinkedHashMap" || baseType == "List" {
		for _, m := range d.Methods.MethodsFor("Collection") {
			items = append(items, CompletionItem{Label: m.Name, Kind: "method", Detail: m.Signature, Doc: m.Doc, InsertText: m.Name})
		}
	}
	for _, m := range d.Methods.MethodsFor("Object") {
		items = append(items, CompletionItem{Label: m.Name, Kind: "method", Detail: m.Signature, Doc: m.Doc, InsertText: m.Name})
	}

	limit := d.Config.Completion.TypeParameterLimit
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// generalScopeCompletions offers every declared name in the document,
// Groovy keywords (spec.md §4.6.1 step 4, and the literal S5 scenario's
// `def`/`static`/`final` for a class-body cursor), and Jenkins pipeline
// globals when the document classifies as a Jenkinsfile (spec.md §8 S2),
// sorted for deterministic ordering.
func (d Deps) generalScopeCompletions(uri string) []CompletionItem {
	var items []CompletionItem
	for _, decl := range d.Symbols.All(uri) {
		items = append(items, CompletionItem{
			Label:      decl.Name,
			Kind:       decl.Kind.String(),
			Detail:     decl.InferredType,
			InsertText: decl.Name,
		})
	}
	for _, kw := range groovyKeywords() {
		items = append(items, CompletionItem{Label: kw, Kind: "keyword", InsertText: kw})
	}
	if d.Workspace != nil && d.Workspace.IsJenkinsfile(uri) {
		for _, v := range d.Jenkins.GlobalVariables() {
			items = append(items, CompletionItem{Label: v.Name, Kind: "jenkins_global", Detail: v.Type, Doc: v.Doc, InsertText: v.Name})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

// groovyKeywords returns groovyReservedWords (rename.go's identifier
// validation table) as a sorted slice, reused here as the keyword
// candidate source general-scope completion offers.
func groovyKeywords() []string {
	kws := make([]string, 0, len(groovyReservedWords))
	for kw := range groovyReservedWords {
		kws = append(kws, kw)
	}
	sort.Strings(kws)
	return kws
}
