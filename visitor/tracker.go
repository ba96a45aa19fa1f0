// Package visitor builds the relationship data spec.md §3/§4.3 calls the
// NodeRelationshipTracker: per-document parent links, URI ownership, and
// class-node indices, derived by a single explicit-stack DFS over each
// document's ast.Arena rather than recursion, so a pathologically deep
// nesting (generated code, minified scripts) cannot blow the Go call
// stack the way a recursive walker would.
package visitor

import (
	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/position"
)

// NodeRef identifies a node across documents: ast.Handle alone is only
// unique within the arena that produced it, so every cross-document
// relationship in this package is keyed on (URI, Handle) pairs.
type NodeRef struct {
	URI    string
	Handle ast.Handle
}

// Tracker holds the relationships derived from walking one or more
// documents' arenas. It owns no parse state of its own — Walk is called
// once per (re)compiled document and replaces that document's prior
// entries wholesale, matching the compilation cache's per-URI invalidation
// granularity (spec.md §4.5).
type Tracker struct {
	arenas   map[string]*ast.Arena
	nodes    map[string][]NodeRef // traversal order, synthetic nodes excluded
	parent   map[NodeRef]NodeRef
	classes  map[string][]NodeRef
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		arenas:  make(map[string]*ast.Arena),
		nodes:   make(map[string][]NodeRef),
		parent:  make(map[NodeRef]NodeRef),
		classes: make(map[string][]NodeRef),
	}
}

// Forget drops every relationship recorded for uri, e.g. before Walk is
// called again for a recompiled document.
func (t *Tracker) Forget(uri string) {
	delete(t.arenas, uri)
	delete(t.nodes, uri)
	delete(t.classes, uri)
	for ref, parentRef := range t.parent {
		if ref.URI == uri || parentRef.URI == uri {
			delete(t.parent, ref)
		}
	}
}

// Node resolves a NodeRef back to its ast.Node payload.
func (t *Tracker) Node(ref NodeRef) (*ast.Node, bool) {
	arena, ok := t.arenas[ref.URI]
	if !ok {
		return nil, false
	}
	return arena.Get(ref.Handle)
}

// Parent returns the nearest non-synthetic ancestor of ref, if any.
func (t *Tracker) Parent(ref NodeRef) (NodeRef, bool) {
	p, ok := t.parent[ref]
	return p, ok
}

// NodesByURI returns every non-synthetic node recorded for uri, in
// traversal (document) order.
func (t *Tracker) NodesByURI(uri string) []NodeRef {
	return t.nodes[uri]
}

// ClassNodesByURI returns every class/interface/enum declaration node
// recorded for uri, the index spec.md §4.3 names class_nodes_by_uri.
func (t *Tracker) ClassNodesByURI(uri string) []NodeRef {
	return t.classes[uri]
}

// ModuleRoot returns uri's root node, the scope a top-level (script-body)
// declaration falls back to when it has no enclosing method or class.
// Walk always records the root first, so it is the first entry of
// NodesByURI whenever uri has been walked at all.
func (t *Tracker) ModuleRoot(uri string) (NodeRef, bool) {
	nodes := t.nodes[uri]
	if len(nodes) == 0 {
		return NodeRef{}, false
	}
	return nodes[0], true
}

// stackFrame is one explicit-DFS work item: a node to visit and the
// nearest non-synthetic ancestor it should be recorded under.
type stackFrame struct {
	handle       ast.Handle
	nearestAncestor NodeRef
	hasAncestor  bool
}

// Walk records uri's relationships from root downward using an explicit
// stack (spec.md §9 "no recursive AST walk" design note — a generated or
// minified document can nest far deeper than the default goroutine stack
// comfortably grows). Synthetic nodes (ast.Node.Synthetic, e.g. an
// implicit default constructor) are traversed for their children's sake
// but never themselves recorded, so node_at and enclosing-of-kind queries
// only ever land on source-backed nodes — the "skip-synthetic-node rule"
// spec.md §4.3 names.
func (t *Tracker) Walk(uri string, arena *ast.Arena, root ast.Handle) {
	t.Forget(uri)
	t.arenas[uri] = arena
	if root == ast.NilHandle {
		return
	}

	stack := []stackFrame{{handle: root}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, ok := arena.Get(frame.handle)
		if !ok {
			continue
		}

		ancestor := frame.nearestAncestor
		hasAncestor := frame.hasAncestor

		if !n.Synthetic {
			ref := NodeRef{URI: uri, Handle: frame.handle}
			t.nodes[uri] = append(t.nodes[uri], ref)
			if hasAncestor {
				t.parent[ref] = ancestor
			}
			if n.Kind == ast.KindClass || n.Kind == ast.KindInterface || n.Kind == ast.KindEnum {
				t.classes[uri] = append(t.classes[uri], ref)
			}
			ancestor = ref
			hasAncestor = true
		}

		// Push children in reverse so traversal order (pop order) matches
		// source order, which node_at's stable-ordering tie-break and
		// document-symbol listing both depend on. A node's Receiver (a
		// member access's qualifier, or a declaration's type ClassExpr)
		// precedes its children in the source, so it is pushed last.
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, stackFrame{handle: n.Children[i], nearestAncestor: ancestor, hasAncestor: hasAncestor})
		}
		if n.Receiver != ast.NilHandle {
			stack = append(stack, stackFrame{handle: n.Receiver, nearestAncestor: ancestor, hasAncestor: hasAncestor})
		}
	}
}

// blockWrapperKinds are the node kinds position.Range.Contains treats as
// closed at their end position, so a cursor sitting on the closing brace
// still resolves inside the enclosing construct (spec.md §4.1).
var blockWrapperKinds = map[ast.Kind]bool{
	ast.KindModule:    true,
	ast.KindClass:     true,
	ast.KindInterface: true,
	ast.KindEnum:      true,
	ast.KindMethod:    true,
	ast.KindBlockStmt: true,
}

// NodeAt resolves the most specific node at pos within uri, breaking ties
// between overlapping candidates first by smallest range (spec.md §4.1
// "innermost enclosing range wins") and then by ast.Kind.PositionPriority
// when two candidates share an identical range (spec.md §4.1's
// ConstantExpression > VariableExpression > ... > ModuleNode table).
func (t *Tracker) NodeAt(uri string, pos position.Pos) (NodeRef, bool) {
	var best NodeRef
	var bestNode *ast.Node
	found := false

	for _, ref := range t.nodes[uri] {
		n, ok := t.Node(ref)
		if !ok {
			continue
		}
		if n.Range.Start.Line < 0 || n.Range.Start.Character < 0 || n.Range.End.Line < 0 || n.Range.End.Character < 0 {
			continue // synthetic/zero-range node, excluded per spec.md §4.1
		}
		if !n.Range.Contains(pos, blockWrapperKinds[n.Kind]) {
			continue
		}
		if !found {
			best, bestNode, found = ref, n, true
			continue
		}
		switch {
		case n.Range.SmallerThan(bestNode.Range):
			best, bestNode = ref, n
		case bestNode.Range.SmallerThan(n.Range):
			// current best strictly smaller, keep it
		case n.Kind.PositionPriority() > bestNode.Kind.PositionPriority():
			best, bestNode = ref, n
		}
	}
	return best, found
}

// defaultMaxDepth bounds EnclosingOfKind's ancestor walk so a malformed or
// cyclic parent chain (which should never occur, but Walk's invariants are
// not proven to the type system) cannot loop indefinitely.
const defaultMaxDepth = 256

// EnclosingOfKind walks ref's ancestor chain looking for the nearest node
// of kind, stopping after maxDepth hops (spec.md §4.3; maxDepth <= 0 uses
// defaultMaxDepth).
func (t *Tracker) EnclosingOfKind(ref NodeRef, kind ast.Kind, maxDepth int) (NodeRef, bool) {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	cur := ref
	for depth := 0; depth < maxDepth; depth++ {
		parentRef, ok := t.parent[cur]
		if !ok {
			return NodeRef{}, false
		}
		n, ok := t.Node(parentRef)
		if !ok {
			return NodeRef{}, false
		}
		if n.Kind == kind {
			return parentRef, true
		}
		cur = parentRef
	}
	return NodeRef{}, false
}
