package gparse

import (
	"testing"

	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleClassWithMethod(t *testing.T) {
	src := `package com.example

class Greeter {
    String name

    def greet() {
        println "hello " + name
    }
}
`
	result := Parse(Request{URI: "file:///Greeter.groovy", Source: src})
	require.NotNil(t, result.Arena)
	assert.Empty(t, result.Diagnostics)

	root, ok := result.Arena.Get(result.Root)
	require.True(t, ok)
	assert.Equal(t, ast.KindModule, root.Kind)

	var classNode *ast.Node
	for _, h := range root.Children {
		if n, ok := result.Arena.Get(h); ok && n.Kind == ast.KindClass {
			classNode = n
		}
	}
	require.NotNil(t, classNode)
	assert.Equal(t, "Greeter", classNode.Name)
}

// S1 from the worked scenarios: a paren-less "command expression" call
// (`println greeting`) must parse as an ordinary method call, not trail
// off into a parse error, because the Java tree-sitter grammar this
// module deliberately avoids would reject it outright.
func TestParenlessCommandCallParses(t *testing.T) {
	src := `def greeting = "hi"
println greeting
`
	result := Parse(Request{URI: "file:///script.groovy", Source: src})
	assert.Empty(t, result.Diagnostics)

	var foundCall bool
	for _, n := range result.Arena.All() {
		if n.Kind == ast.KindMethodCallExpr && n.Name == "println" {
			foundCall = true
		}
	}
	assert.True(t, foundCall, "expected a println method call node")
}

func TestGStringInterpolationTokenized(t *testing.T) {
	src := "def x = \"value: ${1 + 2}\"\n"
	result := Parse(Request{URI: "file:///g.groovy", Source: src})
	var foundGString bool
	for _, n := range result.Arena.All() {
		if n.Kind == ast.KindGStringExpr {
			foundGString = true
		}
	}
	assert.True(t, foundGString)
}

func TestClosureWithParametersParses(t *testing.T) {
	src := `def adder = { a, b -> a + b }
`
	result := Parse(Request{URI: "file:///c.groovy", Source: src})
	assert.Empty(t, result.Diagnostics)
	var closure *ast.Node
	for _, n := range result.Arena.All() {
		if n.Kind == ast.KindClosureExpr {
			closure = &n
		}
	}
	require.NotNil(t, closure)
	assert.Equal(t, 2, closure.Arity)
}

func TestMalformedInputRecoversWithoutPanic(t *testing.T) {
	src := `class Broken {
    def m( {
`
	assert.NotPanics(t, func() {
		result := Parse(Request{URI: "file:///broken.groovy", Source: src})
		assert.NotNil(t, result.Arena)
	})
}

func TestInsertSentinelSplicesIdentifierAtPosition(t *testing.T) {
	src := "def x = foo.\n"
	patched, ident := InsertSentinel(src, position.Pos{Line: 0, Character: 12}, 1)
	assert.Contains(t, patched, ident)
	assert.Contains(t, patched, "foo."+ident)
}

// A bound method reference (spec.md §3's "method-reference" Expression
// variant) must parse without a spurious error, with a ClassExpr receiver
// since String is a type name used as a value, not a call qualifier.
func TestBoundMethodReferenceParses(t *testing.T) {
	src := `def upper = list.each(String::toUpperCase)
`
	result := Parse(Request{URI: "file:///mr.groovy", Source: src})
	assert.Empty(t, result.Diagnostics)

	var ref *ast.Node
	for _, n := range result.Arena.All() {
		if n.Kind == ast.KindMethodReferenceExpr {
			nn := n
			ref = &nn
		}
	}
	require.NotNil(t, ref)
	assert.Equal(t, "toUpperCase", ref.Name)

	receiver, ok := result.Arena.Get(ref.Receiver)
	require.True(t, ok)
	assert.Equal(t, ast.KindClassExpr, receiver.Kind)
	assert.Equal(t, "String", receiver.Name)
}

// A constructor reference (`Foo::new`) names "new" rather than an ordinary
// method name.
func TestConstructorMethodReferenceParses(t *testing.T) {
	src := `def supplier = Foo::new
`
	result := Parse(Request{URI: "file:///ctorref.groovy", Source: src})
	assert.Empty(t, result.Diagnostics)

	var ref *ast.Node
	for _, n := range result.Arena.All() {
		if n.Kind == ast.KindMethodReferenceExpr {
			nn := n
			ref = &nn
		}
	}
	require.NotNil(t, ref)
	assert.Equal(t, "new", ref.Name)
}

// A Java-style lambda (spec.md §3's "lambda" Expression variant, distinct
// from a Groovy closure) parses into a KindLambdaExpr with the right arity,
// and is not confused with a plain parenthesized expression.
func TestJavaStyleLambdaParses(t *testing.T) {
	src := `def adder = (a, b) -> a + b
`
	result := Parse(Request{URI: "file:///lambda.groovy", Source: src})
	assert.Empty(t, result.Diagnostics)

	var lambda *ast.Node
	for _, n := range result.Arena.All() {
		if n.Kind == ast.KindLambdaExpr {
			nn := n
			lambda = &nn
		}
	}
	require.NotNil(t, lambda)
	assert.Equal(t, 2, lambda.Arity)
}

// A block-bodied lambda's statements become the node's trailing children,
// after its parameters.
func TestJavaStyleLambdaWithBlockBodyParses(t *testing.T) {
	src := `def greet = (name) -> { return "hi " + name }
`
	result := Parse(Request{URI: "file:///lambda2.groovy", Source: src})
	assert.Empty(t, result.Diagnostics)

	var lambda *ast.Node
	for _, n := range result.Arena.All() {
		if n.Kind == ast.KindLambdaExpr {
			nn := n
			lambda = &nn
		}
	}
	require.NotNil(t, lambda)
	assert.Equal(t, 1, lambda.Arity)
	assert.Greater(t, len(lambda.Children), 1, "expected params plus at least one body statement")
}

// A parenthesized grouping expression (no trailing `->`) must still parse
// as a plain expression, not be swallowed by the lambda lookahead.
func TestParenthesizedExpressionIsNotMistakenForLambda(t *testing.T) {
	src := `def x = (1 + 2) * 3
`
	result := Parse(Request{URI: "file:///paren.groovy", Source: src})
	assert.Empty(t, result.Diagnostics)
	for _, n := range result.Arena.All() {
		assert.NotEqual(t, ast.KindLambdaExpr, n.Kind)
	}
}

// A generic type argument in a declared local variable's type becomes a
// real ClassExpr child, not discarded tokens — the shape type-parameter
// completion depends on (providers/completion.go).
func TestGenericLocalVarDeclConstructsClassExprArgument(t *testing.T) {
	src := `List<String> names = []
`
	result := Parse(Request{URI: "file:///generics.groovy", Source: src})
	assert.Empty(t, result.Diagnostics)

	var decl *ast.Node
	for _, n := range result.Arena.All() {
		if n.Kind == ast.KindLocalVarDecl {
			nn := n
			decl = &nn
		}
	}
	require.NotNil(t, decl)
	assert.Equal(t, "List", decl.DeclaredType)

	typeRef, ok := result.Arena.Get(decl.Receiver)
	require.True(t, ok)
	assert.Equal(t, ast.KindClassExpr, typeRef.Kind)
	assert.Equal(t, "List", typeRef.Name)
	require.Len(t, typeRef.Children, 1)

	arg, ok := result.Arena.Get(typeRef.Children[0])
	require.True(t, ok)
	assert.Equal(t, ast.KindClassExpr, arg.Kind)
	assert.Equal(t, "String", arg.Name)
}
