// Package symbols builds the SymbolIndex spec.md §3/§4.4 describes: a
// declaration table plus the inverted by-name and by-class indices the
// workspace-symbols, rename, and definition providers all query, built on
// top of the relationship data visitor.Tracker already derived.
package symbols

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/visitor"
)

// DeclKind discriminates the declaration shapes spec.md §3 names.
type DeclKind int

const (
	ClassDecl DeclKind = iota
	MethodDecl
	FieldDecl
	PropertyDecl
	ParamDecl
	LocalVarDecl
	ImportDecl
)

func (k DeclKind) String() string {
	switch k {
	case ClassDecl:
		return "class"
	case MethodDecl:
		return "method"
	case FieldDecl:
		return "field"
	case PropertyDecl:
		return "property"
	case ParamDecl:
		return "param"
	case LocalVarDecl:
		return "local_var"
	case ImportDecl:
		return "import"
	default:
		return "unknown"
	}
}

// Decl is one recorded declaration: its node, classification, and the
// owning class if it has one (fields/methods/properties/params; classes
// and imports have no owner).
type Decl struct {
	Ref          visitor.NodeRef
	Kind         DeclKind
	Name         string
	DeclaredType string
	InferredType string
	Owner        visitor.NodeRef
	HasOwner     bool

	// Arity is the declared parameter count, meaningful for MethodDecl
	// only — the third coordinate spec.md §4.4 resolves a method call by,
	// alongside enclosing class and name.
	Arity int

	// Scope is the nearest enclosing method (or, for a script-level
	// declaration, the module root) a local/param declaration is visible
	// within. Class/field/property/method/import declarations leave this
	// as their zero value and are looked up by name/owner instead.
	Scope visitor.NodeRef
}

// Index is the per-workspace SymbolIndex: every Decl recorded across all
// compiled documents, plus the inverted lookups providers query by name or
// by owning class. Handles referenced here remain valid only as long as
// the ParseResult/Tracker state they were built from is current — a
// recompiled document's Decls are replaced wholesale by Rebuild.
type Index struct {
	byURI      map[string][]Decl
	byName     map[string][]Decl
	byClass    map[visitor.NodeRef][]Decl
	declByRef  map[visitor.NodeRef]Decl
	refToDecl  map[visitor.NodeRef]visitor.NodeRef
	usagesOf   map[visitor.NodeRef][]visitor.NodeRef

	// classRefByName resolves a declared class/interface/enum's simple
	// name back to its node, the lookup receiver-type resolution uses
	// when a receiver expression is itself a class name (static member
	// access) rather than a typed variable.
	classRefByName map[string]visitor.NodeRef
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		byURI:          make(map[string][]Decl),
		byName:         make(map[string][]Decl),
		byClass:        make(map[visitor.NodeRef][]Decl),
		declByRef:      make(map[visitor.NodeRef]Decl),
		refToDecl:      make(map[visitor.NodeRef]visitor.NodeRef),
		usagesOf:       make(map[visitor.NodeRef][]visitor.NodeRef),
		classRefByName: make(map[string]visitor.NodeRef),
	}
}

// Forget drops every Decl and reference edge recorded for uri.
func (idx *Index) Forget(uri string) {
	old := idx.byURI[uri]
	delete(idx.byURI, uri)
	for _, d := range old {
		idx.byName[d.Name] = removeDecl(idx.byName[d.Name], d.Ref)
		if d.HasOwner {
			idx.byClass[d.Owner] = removeDecl(idx.byClass[d.Owner], d.Ref)
		}
		delete(idx.usagesOf, d.Ref)
		delete(idx.declByRef, d.Ref)
		if d.Kind == ClassDecl && idx.classRefByName[d.Name] == d.Ref {
			delete(idx.classRefByName, d.Name)
		}
	}
	for ref, declRef := range idx.refToDecl {
		if ref.URI == uri {
			delete(idx.refToDecl, ref)
			idx.usagesOf[declRef] = removeRef(idx.usagesOf[declRef], ref)
		}
	}
}

func removeRef(refs []visitor.NodeRef, target visitor.NodeRef) []visitor.NodeRef {
	out := refs[:0]
	for _, r := range refs {
		if r != target {
			out = append(out, r)
		}
	}
	return out
}

func removeDecl(decls []Decl, ref visitor.NodeRef) []Decl {
	out := decls[:0]
	for _, d := range decls {
		if d.Ref != ref {
			out = append(out, d)
		}
	}
	return out
}

// Rebuild derives every Decl for uri from tr and records reference edges
// for variable usages the declarations they resolve to, replacing
// whatever was previously recorded for that URI. Resolution is
// scope-aware (spec.md §4.4): a VariableExpr usage resolves to the
// nearest enclosing method's local/param declaration of that name first,
// then a field/property of the enclosing class, then a module-level
// (script-body) declaration — never to an unrelated method's local that
// merely shares a name.
func (idx *Index) Rebuild(tr *visitor.Tracker, uri string) {
	idx.Forget(uri)

	moduleRoot, hasModuleRoot := tr.ModuleRoot(uri)

	for _, ref := range tr.NodesByURI(uri) {
		n, ok := tr.Node(ref)
		if !ok {
			continue
		}
		d, isDecl := classifyDecl(tr, uri, ref, n)
		if !isDecl {
			continue
		}
		if d.Kind == LocalVarDecl || d.Kind == ParamDecl {
			if scope, ok := tr.EnclosingOfKind(ref, ast.KindMethod, 0); ok {
				d.Scope = scope
			} else if hasModuleRoot {
				d.Scope = moduleRoot
			}
		}
		idx.add(uri, d)
		if d.Kind == ClassDecl {
			idx.classRefByName[d.Name] = d.Ref
		}
	}

	for _, ref := range tr.NodesByURI(uri) {
		n, ok := tr.Node(ref)
		if !ok || n.Kind != ast.KindVariableExpr || n.Name == "" {
			continue
		}
		declRef, ok := idx.resolveVariableRef(tr, ref, n.Name, moduleRoot, hasModuleRoot)
		if !ok {
			continue
		}
		idx.refToDecl[ref] = declRef
		idx.usagesOf[declRef] = append(idx.usagesOf[declRef], ref)
		// mirror the resolution onto the node itself, the compiler
		// back-pointer this index is otherwise a parallel structure to.
		if node, ok := tr.Node(ref); ok {
			node.AccessedVariable = declRef.Handle
		}
	}

	// Second pass: member access through a qualified receiver
	// (`Receiver.name`, `Receiver.name(...)` — e.g. a static
	// `ClassName.field` or a typed variable's `.method()`) is a usage too
	// — spec.md §8 S6 requires a field's references to include
	// cross-class qualified accesses, not just bare-name access inside its
	// own class; the same reverse-edge machinery extends naturally to
	// method calls. Run after the first pass so receiver VariableExprs are
	// already resolved.
	for _, ref := range tr.NodesByURI(uri) {
		n, ok := tr.Node(ref)
		if !ok || n.Name == "" {
			continue
		}
		switch n.Kind {
		case ast.KindPropertyExpr:
			receiverType, ok := idx.ReceiverType(tr, ref, n)
			if !ok {
				continue
			}
			decl, ok := idx.MemberOf(receiverType, n.Name, -1)
			if !ok || (decl.Kind != FieldDecl && decl.Kind != PropertyDecl) {
				continue
			}
			idx.refToDecl[ref] = decl.Ref
			idx.usagesOf[decl.Ref] = append(idx.usagesOf[decl.Ref], ref)
		case ast.KindMethodCallExpr:
			receiverType, ok := idx.ReceiverType(tr, ref, n)
			if !ok {
				continue
			}
			decl, ok := idx.MemberOf(receiverType, n.Name, ArgCount(tr, ref, n))
			if !ok || decl.Kind != MethodDecl {
				continue
			}
			idx.refToDecl[ref] = decl.Ref
			idx.usagesOf[decl.Ref] = append(idx.usagesOf[decl.Ref], ref)
		}
	}
}

// ArgCount counts a MethodCallExpr's argument list, the arity coordinate
// member resolution matches on alongside receiver class and name (spec.md
// §4.4). A MethodCallExpr's sole child is always its ArgumentListExpr
// node; that node's own children are the arguments. Exported so
// providers share the same counting logic rather than reimplementing it.
func ArgCount(tr *visitor.Tracker, ref visitor.NodeRef, n *ast.Node) int {
	if len(n.Children) == 0 {
		return 0
	}
	argList, ok := tr.Node(visitor.NodeRef{URI: ref.URI, Handle: n.Children[0]})
	if !ok {
		return 0
	}
	return len(argList.Children)
}

// ReceiverType resolves the static/inferred class name a member-access
// node (PropertyExpr/MethodCallExpr) n is performed against: an implicit
// or `this` receiver resolves to n's own enclosing class, `super` is
// refused (no supertype chain is recorded, spec.md §4.4), a bare
// capitalized name matching a known class is a static receiver, and a
// typed/inferred variable receiver resolves to its declared or inferred
// type. Shared by the reference-indexing pass above and by the
// definition/hover providers so receiver resolution has one
// implementation (spec.md §4.4/§4.6.2).
func (idx *Index) ReceiverType(tr *visitor.Tracker, ref visitor.NodeRef, n *ast.Node) (string, bool) {
	if n.Receiver == ast.NilHandle {
		if owner, ok := tr.EnclosingOfKind(ref, ast.KindClass, 0); ok {
			if ownerNode, ok := tr.Node(owner); ok {
				return ownerNode.Name, true
			}
		}
		return "", false
	}
	recRef := visitor.NodeRef{URI: ref.URI, Handle: n.Receiver}
	rec, ok := tr.Node(recRef)
	if !ok || rec.Kind != ast.KindVariableExpr {
		return "", false
	}
	switch rec.Name {
	case "this":
		if owner, ok := tr.EnclosingOfKind(ref, ast.KindClass, 0); ok {
			if ownerNode, ok := tr.Node(owner); ok {
				return ownerNode.Name, true
			}
		}
		return "", false
	case "super":
		return "", false
	}
	if idx.HasClass(rec.Name) {
		return rec.Name, true
	}
	if declRef, ok := idx.refToDecl[recRef]; ok {
		if decl, ok := idx.declByRef[declRef]; ok {
			if decl.InferredType != "" {
				return decl.InferredType, true
			}
			if decl.DeclaredType != "" {
				return decl.DeclaredType, true
			}
		}
	}
	return "", false
}

// resolveVariableRef implements the innermost-scope-first lookup order
// described above. A name with several candidates at the same level
// resolves to the textually last one recorded (a later redeclaration of
// the same name shadows an earlier one in the same scope), never to a
// candidate from a different scope.
func (idx *Index) resolveVariableRef(tr *visitor.Tracker, ref visitor.NodeRef, name string, moduleRoot visitor.NodeRef, hasModuleRoot bool) (visitor.NodeRef, bool) {
	candidates := idx.byName[name]

	if scope, ok := tr.EnclosingOfKind(ref, ast.KindMethod, 0); ok {
		if declRef, ok := lastDeclInScope(candidates, scope); ok {
			return declRef, true
		}
	} else if hasModuleRoot {
		if declRef, ok := lastDeclInScope(candidates, moduleRoot); ok {
			return declRef, true
		}
	}

	if owner, ok := tr.EnclosingOfKind(ref, ast.KindClass, 0); ok {
		if declRef, ok := lastFieldOrProperty(idx.byClass[owner], name); ok {
			return declRef, true
		}
	}

	if hasModuleRoot {
		if declRef, ok := lastDeclInScope(candidates, moduleRoot); ok {
			return declRef, true
		}
	}

	return visitor.NodeRef{}, false
}

func lastDeclInScope(candidates []Decl, scope visitor.NodeRef) (visitor.NodeRef, bool) {
	var found visitor.NodeRef
	ok := false
	for _, d := range candidates {
		if (d.Kind == LocalVarDecl || d.Kind == ParamDecl) && d.Scope == scope {
			found, ok = d.Ref, true
		}
	}
	return found, ok
}

func lastFieldOrProperty(candidates []Decl, name string) (visitor.NodeRef, bool) {
	var found visitor.NodeRef
	ok := false
	for _, d := range candidates {
		if d.Name == name && (d.Kind == FieldDecl || d.Kind == PropertyDecl) {
			found, ok = d.Ref, true
		}
	}
	return found, ok
}

// UsagesOf returns every recorded usage resolving to declRef, the
// reverse of ResolvedDecl — the edge the references provider (spec.md
// §4.6.3) walks.
func (idx *Index) UsagesOf(declRef visitor.NodeRef) []visitor.NodeRef {
	return idx.usagesOf[declRef]
}

func (idx *Index) add(uri string, d Decl) {
	idx.byURI[uri] = append(idx.byURI[uri], d)
	idx.byName[d.Name] = append(idx.byName[d.Name], d)
	idx.declByRef[d.Ref] = d
	if d.HasOwner {
		idx.byClass[d.Owner] = append(idx.byClass[d.Owner], d)
	}
}

// classifyDecl maps one tracked node to a Decl, or reports false if the
// node is not a declaration at all (an expression, statement, etc).
func classifyDecl(tr *visitor.Tracker, uri string, ref visitor.NodeRef, n *ast.Node) (Decl, bool) {
	var kind DeclKind
	switch n.Kind {
	case ast.KindClass, ast.KindInterface, ast.KindEnum:
		kind = ClassDecl
	case ast.KindMethod:
		kind = MethodDecl
	case ast.KindField:
		kind = FieldDecl
	case ast.KindProperty:
		kind = PropertyDecl
	case ast.KindParameter:
		kind = ParamDecl
	case ast.KindLocalVarDecl:
		kind = LocalVarDecl
	case ast.KindImport:
		kind = ImportDecl
	default:
		return Decl{}, false
	}

	d := Decl{
		Ref:          ref,
		Kind:         kind,
		Name:         n.Name,
		DeclaredType: n.DeclaredType,
	}
	if kind == MethodDecl {
		d.Arity = n.Arity
	}
	d.InferredType = inferType(tr, uri, n)

	if owner, ok := tr.EnclosingOfKind(ref, ast.KindClass, 0); ok {
		d.Owner, d.HasOwner = owner, true
	}
	return d, true
}

// ResolvedDecl returns the declaration a VariableExpr usage ref resolves
// to, mirroring the compiler's accessedVariable back-pointer (spec.md
// §4.4). Unresolved references (no matching declaration seen) return
// false, not a guess.
func (idx *Index) ResolvedDecl(ref visitor.NodeRef) (visitor.NodeRef, bool) {
	d, ok := idx.refToDecl[ref]
	return d, ok
}

// ByName returns every declaration with the given name across all
// compiled documents, the inverted index workspace symbols searches
// (spec.md §4.6.7).
func (idx *Index) ByName(name string) []Decl {
	return idx.byName[name]
}

// ByClass returns every member declaration owned by the class at owner
// (spec.md §4.6.6's document-symbols nesting, §4.6.4's rename-target
// discovery).
func (idx *Index) ByClass(owner visitor.NodeRef) []Decl {
	return idx.byClass[owner]
}

// All returns every declaration recorded for uri, in traversal order —
// the shape document-symbols (§4.6.6) renders directly.
func (idx *Index) All(uri string) []Decl {
	return idx.byURI[uri]
}

// AllNames returns every distinct declared name across the whole
// workspace, sorted, the candidate set workspace-symbol substring search
// narrows (spec.md §4.6.7).
func (idx *Index) AllNames() []string {
	names := maps.Keys(idx.byName)
	slices.Sort(names)
	return names
}

// DeclAt returns the Decl recorded at ref, if ref is itself a declaration
// node (as opposed to a usage of one).
func (idx *Index) DeclAt(ref visitor.NodeRef) (Decl, bool) {
	d, ok := idx.declByRef[ref]
	return d, ok
}

// HasClass reports whether name is a declared class/interface/enum
// anywhere in the workspace, the check receiver-type resolution uses to
// tell a static/class-qualified receiver from an unresolvable one.
func (idx *Index) HasClass(name string) bool {
	_, ok := idx.classRefByName[name]
	return ok
}

// ClassDeclByName resolves a declared class/interface/enum's simple name
// to its Decl (node reference and location), the lookup go-to-definition
// needs for a ConstructorCallExpression/ClassExpression target (spec.md
// §4.6.2 step 2) — HasClass's plain bool isn't enough once a caller needs
// to locate the declaration itself rather than merely confirm it exists.
func (idx *Index) ClassDeclByName(name string) (Decl, bool) {
	ref, ok := idx.classRefByName[name]
	if !ok {
		return Decl{}, false
	}
	d, ok := idx.declByRef[ref]
	return d, ok
}

// MembersOf returns every method/field/property declared directly on the
// class named receiverType (spec.md §4.6.1's member-completion list), in
// declaration order. An unknown receiverType yields no members.
func (idx *Index) MembersOf(receiverType string) []Decl {
	classRef, ok := idx.classRefByName[receiverType]
	if !ok {
		return nil
	}
	return idx.byClass[classRef]
}

// MemberOf resolves a method/property access by (receiver class, name,
// arity) — spec.md §4.4's "resolved by (enclosing class, name, arity)"
// design, replacing a flat whole-workspace name lookup. arity < 0 skips
// the arity check (property/field access, where it is meaningless).
// Methods are preferred over same-named fields/properties when arity is
// given, since a call site's shape (`x.foo(1)`) can only ever mean a
// method.
func (idx *Index) MemberOf(receiverType, name string, arity int) (Decl, bool) {
	var fallback Decl
	hasFallback := false
	for _, d := range idx.MembersOf(receiverType) {
		if d.Name != name {
			continue
		}
		if d.Kind == MethodDecl {
			if arity < 0 || d.Arity == arity {
				return d, true
			}
			continue
		}
		if arity < 0 {
			fallback, hasFallback = d, true
		}
	}
	return fallback, hasFallback
}
