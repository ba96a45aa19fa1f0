package providers

import (
	"context"

	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/position"
	"github.com/groovylang/lsp-core/symbols"
	"github.com/groovylang/lsp-core/visitor"
)

// DefinitionRequest locates the declaration a cursor position references.
type DefinitionRequest struct {
	URI string
	Pos position.Pos
}

// Definition implements spec.md §4.6.2: resolve the node at pos to its
// declaration. A variable reference follows the accessedVariable-style
// edge the symbol index recorded at build time; a property/method access
// resolves by (receiver class, name, arity) rather than a flat
// whole-workspace name lookup, so two unrelated classes declaring the
// same member name never collide. A declaration that resolves into a
// compiled dependency rather than workspace source yields an empty
// result (§4.6.2 step 3), not an error.
func Definition(ctx context.Context, d Deps, req DefinitionRequest) (Location, bool, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, false, err
	}

	ref, ok := d.Tracker.NodeAt(req.URI, req.Pos)
	if !ok {
		return Location{}, false, nil
	}
	n, ok := d.Tracker.Node(ref)
	if !ok {
		return Location{}, false, nil
	}

	var declRef visitor.NodeRef
	switch n.Kind {
	case ast.KindVariableExpr:
		declRef, ok = d.Symbols.ResolvedDecl(ref)
		if !ok {
			// A bare class-name receiver (`Foo.someStaticMethod()`'s `Foo`)
			// is parsed as a VariableExpr too, since gparse's hand-written
			// front end has no symbol table to distinguish it from a local
			// mid-parse (spec.md §9) — fall back to a class lookup before
			// giving up (spec.md §4.6.2 step 2's ClassExpression case).
			decl, cok := d.Symbols.ClassDeclByName(n.Name)
			if !cok {
				return Location{}, false, nil
			}
			declRef = decl.Ref
		}
	case ast.KindPropertyExpr, ast.KindMethodCallExpr:
		if n.Name == "" {
			return Location{}, false, nil
		}
		receiverType, rok := d.resolveReceiverType(ref, n)
		if !rok {
			return Location{}, false, nil
		}
		arity := -1
		if n.Kind == ast.KindMethodCallExpr {
			arity = d.argCountOf(ref, n)
		}
		var decl symbols.Decl
		decl, ok = d.Symbols.MemberOf(receiverType, n.Name, arity)
		if !ok {
			return Location{}, false, nil
		}
		declRef = decl.Ref
	case ast.KindConstructorCallExpr:
		// spec.md §4.6.2 step 2: ConstructorCallExpression resolves to the
		// ClassNode it constructs, e.g. `new Foo()`'s `Foo`.
		decl, cok := d.Symbols.ClassDeclByName(n.DeclaredType)
		if !cok {
			return Location{}, false, nil
		}
		declRef = decl.Ref
	case ast.KindClassExpr:
		// spec.md §4.6.2 step 2: ClassExpression resolves to the ClassNode
		// it names, e.g. the `Foo` type in `Foo x = ...` or `Foo::bar`.
		decl, cok := d.Symbols.ClassDeclByName(n.Name)
		if !cok {
			return Location{}, false, nil
		}
		declRef = decl.Ref
	default:
		return Location{}, false, nil
	}

	if d.Workspace != nil && !d.Workspace.IsWorkspaceOwned(declRef.URI) {
		return Location{}, false, nil
	}
	return d.locationOfRef(declRef), true, nil
}

func (d Deps) locationOfRef(ref visitor.NodeRef) Location {
	n, ok := d.Tracker.Node(ref)
	if !ok {
		return Location{URI: ref.URI}
	}
	return Location{URI: ref.URI, Range: identifierRange(n)}
}
