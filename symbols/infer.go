package symbols

import (
	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/visitor"
)

// inferType implements the minimal, deterministic type inference spec.md
// §4.4.1 describes for an untyped (`def`) declaration: look at its
// initializer's shape, not its value, and fall back to "Object" rather
// than attempting anything resembling real Groovy type inference.
func inferType(tr *visitor.Tracker, uri string, n *ast.Node) string {
	if n.DeclaredType != "" {
		return n.DeclaredType
	}
	if len(n.Children) == 0 {
		return "Object"
	}
	initRef := visitor.NodeRef{URI: uri, Handle: n.Children[len(n.Children)-1]}
	init, ok := tr.Node(initRef)
	if !ok {
		return "Object"
	}
	return inferFromExpr(tr, uri, init)
}

func inferFromExpr(tr *visitor.Tracker, uri string, n *ast.Node) string {
	switch n.Kind {
	case ast.KindConstantExpr:
		if n.DeclaredType != "" {
			return n.DeclaredType
		}
		return "Object"
	case ast.KindGStringExpr:
		return "GString"
	case ast.KindListExpr:
		return inferListType(tr, uri, n)
	case ast.KindMapExpr:
		return "LinkedHashMap"
	case ast.KindConstructorCallExpr:
		if n.DeclaredType != "" {
			return n.DeclaredType
		}
		return "Object"
	case ast.KindClosureExpr:
		return "Closure"
	default:
		return "Object"
	}
}

// inferListType implements the homogeneous/heterogeneous split: every
// element a ConstantExpr of the same declared type yields
// "ArrayList<E>"; anything else (mixed types, non-literal elements,
// empty list) yields "ArrayList<Object>".
func inferListType(tr *visitor.Tracker, uri string, listNode *ast.Node) string {
	elemType := ""
	for _, childHandle := range listNode.Children {
		child, ok := tr.Node(visitor.NodeRef{URI: uri, Handle: childHandle})
		if !ok || child.Kind != ast.KindConstantExpr || child.DeclaredType == "" {
			return "ArrayList<Object>"
		}
		if elemType == "" {
			elemType = child.DeclaredType
		} else if elemType != child.DeclaredType {
			return "ArrayList<Object>"
		}
	}
	if elemType == "" {
		return "ArrayList<Object>"
	}
	return "ArrayList<" + elemType + ">"
}
