package providers

import (
	"context"
	"fmt"

	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/position"
	"github.com/groovylang/lsp-core/visitor"
)

// HoverRequest asks for documentation about the symbol at a position.
type HoverRequest struct {
	URI string
	Pos position.Pos
}

// Hover is the rendered result: Contents is a short plain-text signature
// plus doc string, the way the teacher's tool results render text.
type Hover struct {
	Contents string
	Range    position.Range
}

// Hover implements spec.md §4.6.5's priority-ordered documentation
// pipeline: a Jenkins global's curated doc wins first (most specific to
// the file kind), then a recognized GDK extension method's signature and
// doc, then a user-declared member of the receiver's class rendered as a
// one-line signature, then the symbol's own declaration rendered the same
// way, then nothing.
func Hover(ctx context.Context, d Deps, req HoverRequest) (*Hover, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	ref, ok := d.Tracker.NodeAt(req.URI, req.Pos)
	if !ok {
		return nil, false, nil
	}
	n, ok := d.Tracker.Node(ref)
	if !ok {
		return nil, false, nil
	}

	if d.Workspace != nil && d.Workspace.IsJenkinsfile(req.URI) && d.Jenkins != nil {
		for _, v := range d.Jenkins.GlobalVariables() {
			if v.Name == n.Name {
				return &Hover{Contents: fmt.Sprintf("%s: %s\n\n%s", v.Name, v.Type, v.Doc), Range: n.Range}, true, nil
			}
		}
	}

	if (n.Kind == ast.KindMethodCallExpr || n.Kind == ast.KindPropertyExpr) && n.Name != "" && d.Methods != nil {
		if receiverType, ok := d.resolveReceiverType(ref, n); ok {
			for _, m := range d.Methods.MethodsFor(receiverType) {
				if m.Name == n.Name {
					return &Hover{Contents: fmt.Sprintf("%s\n\n%s", m.Signature, m.Doc), Range: n.Range}, true, nil
				}
			}
		}
	}

	if (n.Kind == ast.KindMethodCallExpr || n.Kind == ast.KindPropertyExpr) && n.Name != "" {
		if receiverType, ok := d.resolveReceiverType(ref, n); ok {
			arity := -1
			if n.Kind == ast.KindMethodCallExpr {
				arity = d.argCountOf(ref, n)
			}
			if decl, ok := d.Symbols.MemberOf(receiverType, n.Name, arity); ok {
				if declNode, ok := d.Tracker.Node(decl.Ref); ok {
					if text, ok := renderDeclHover(declNode); ok {
						return &Hover{Contents: text, Range: n.Range}, true, nil
					}
				}
			}
		}
	}

	if declText, ok := d.declarationHover(ref, n); ok {
		return &Hover{Contents: declText, Range: n.Range}, true, nil
	}

	return nil, false, nil
}

// declarationHover renders a one-line signature for n itself, or for the
// declaration a VariableExpr usage resolves to.
func (d Deps) declarationHover(ref visitor.NodeRef, n *ast.Node) (string, bool) {
	target := n
	if n.Kind == ast.KindVariableExpr {
		declRef, ok := d.Symbols.ResolvedDecl(ref)
		if !ok {
			return "", false
		}
		declNode, ok := d.Tracker.Node(declRef)
		if !ok {
			return "", false
		}
		target = declNode
	}
	return renderDeclHover(target)
}

// renderDeclHover renders a one-line signature for a declaration node,
// shared by declarationHover (resolving a usage to its own declaration)
// and Hover's user-declared-member lookup (resolving a method/property
// access to another class's member declaration).
func renderDeclHover(target *ast.Node) (string, bool) {
	switch target.Kind {
	case ast.KindLocalVarDecl, ast.KindField, ast.KindProperty, ast.KindParameter:
		typeName := target.DeclaredType
		if typeName == "" {
			typeName = "Object"
		}
		return fmt.Sprintf("%s %s", typeName, target.Name), true
	case ast.KindMethod:
		return fmt.Sprintf("def %s(%d params)", target.Name, target.Arity), true
	case ast.KindClass, ast.KindInterface, ast.KindEnum:
		return fmt.Sprintf("%s %s", target.Kind.String(), target.Name), true
	default:
		return "", false
	}
}
