package ast

import "github.com/groovylang/lsp-core/position"

// Handle is an opaque, stable identity for a Node within one ParseResult's
// arena. spec.md §3 ("Ownership"): the symbol index stores handles, not
// node pointers, so cross-URI edges survive a single URI's ParseResult
// being replaced as long as both sides are recompiled before the query
// that reads them runs.
type Handle uint32

// NilHandle marks the absence of a node (e.g. a declaration with no
// resolvable parent on the arena's root).
const NilHandle Handle = 0

// Node is one entry in a ParseResult's node arena. It is a flat,
// tagged-union value: Kind selects which of the payload fields are
// meaningful, matching spec.md §9's "tagged sum type" design note. Nodes
// never alias pointers that outlive the arena; children and parents are
// referenced by Handle and resolved through the owning Arena.
type Node struct {
	Self      Handle
	Kind      Kind
	Range     position.Range
	Synthetic bool // compiler-generated; the visitor skips recording these

	Name string // identifier, method/class/field name, property name, etc.

	// NameRange is the range of the identifier token alone, distinct from
	// Range (the declaration's full extent) for every declaration kind that
	// has one — classes, methods, fields, properties, locals, and
	// parameters. Zero value (the unpopulated default) for node kinds with
	// no single identifying token. Used wherever a query needs the
	// identifier's own span rather than the whole declaration (rename's
	// declaration-site edit, document symbols' selection range — spec.md
	// §4.6.4, §4.6.6).
	NameRange position.Range

	Children []Handle

	// Declaration-only fields; zero value when not applicable.
	DeclaredType string // textual type, "" if untyped/inferred
	Modifiers    []string
	Arity        int // parameter count, meaningful for KindMethod

	// VariableExpr-only: Handle of the declaration this reference resolves
	// to, mirroring the compiler's `accessedVariable` back-pointer
	// (spec.md §4.4). NilHandle when unresolved.
	AccessedVariable Handle

	// MethodCallExpr / PropertyExpr / ConstructorCallExpr: the receiver
	// sub-expression, NilHandle for an implicit `this` receiver.
	//
	// LocalVarDecl / Field / Property / Parameter / Method /
	// ConstructorCallExpr also reuse this field for their declared-type
	// clause's ClassExpr node (generic type arguments, if any, as that
	// node's Children) — every reader of Receiver already branches on Kind
	// first, so the two uses never collide.
	Receiver Handle

	// BinaryExpr-only.
	Operator string

	// Raw source text of this node's extent, used by hover/completion
	// context classification (spec.md §4.6.1).
	Text string
}

// Arena owns every Node produced by a single parse. Node identity within
// an arena is its Handle; Node values are stored by value in a slice so
// that pointers never escape the arena's lifetime (spec.md §9 "Cyclic
// ownership").
type Arena struct {
	nodes []Node
	root  Handle
}

// NewArena creates an empty arena. Handle 0 is reserved as NilHandle, so
// the first real node gets Handle 1.
func NewArena() *Arena {
	return &Arena{nodes: make([]Node, 1, 64)}
}

// SetRoot records the module root handle. Parsers build nodes bottom-up
// (children before parents), so the root is ordinarily the *last* handle
// added, not the first — callers must call this explicitly rather than
// assume Handle 1.
func (a *Arena) SetRoot(h Handle) {
	a.root = h
}

// Add appends a node to the arena and returns its Handle, overwriting the
// node's Self field with the assigned handle.
func (a *Arena) Add(n Node) Handle {
	h := Handle(len(a.nodes))
	n.Self = h
	a.nodes = append(a.nodes, n)
	return h
}

// Get dereferences a Handle. Returns false for NilHandle or an
// out-of-range handle (defensive — should not occur for handles this
// arena produced).
func (a *Arena) Get(h Handle) (*Node, bool) {
	if h == NilHandle || int(h) >= len(a.nodes) {
		return nil, false
	}
	return &a.nodes[h], true
}

// Len reports how many real nodes (excluding the NilHandle sentinel) the
// arena holds.
func (a *Arena) Len() int {
	return len(a.nodes) - 1
}

// All iterates every real node in insertion (traversal) order.
func (a *Arena) All() []Node {
	return a.nodes[1:]
}

// Root returns the module root recorded by SetRoot. False if the arena is
// empty or SetRoot was never called.
func (a *Arena) Root() (Handle, bool) {
	if a.root == NilHandle {
		return NilHandle, false
	}
	return a.root, true
}
