package visitor

import (
	"testing"

	"github.com/groovylang/lsp-core/ast"
	"github.com/groovylang/lsp-core/gparse"
	"github.com/groovylang/lsp-core/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `package com.example

class Greeter {
    String name

    def greet() {
        println "hello " + name
    }
}
`

func TestWalkRecordsClassAndParentLinks(t *testing.T) {
	result := gparse.Parse(gparse.Request{URI: "file:///Greeter.groovy", Source: sampleSource})
	tr := New()
	tr.Walk(result.URI, result.Arena, result.Root)

	classes := tr.ClassNodesByURI(result.URI)
	require.Len(t, classes, 1)

	classNode, ok := tr.Node(classes[0])
	require.True(t, ok)
	assert.Equal(t, "Greeter", classNode.Name)

	nodes := tr.NodesByURI(result.URI)
	assert.NotEmpty(t, nodes)

	// Every non-root node must have a recorded parent.
	for _, ref := range nodes {
		if ref == nodes[0] {
			continue // the module root has no parent
		}
		_, hasParent := tr.Parent(ref)
		assert.True(t, hasParent, "expected a parent for %v", ref)
	}
}

func TestNodeAtResolvesInnermostNode(t *testing.T) {
	result := gparse.Parse(gparse.Request{URI: "file:///Greeter.groovy", Source: sampleSource})
	tr := New()
	tr.Walk(result.URI, result.Arena, result.Root)

	// Position inside "name" on the field declaration line.
	ref, ok := tr.NodeAt(result.URI, position.Pos{Line: 3, Character: 12})
	require.True(t, ok)
	n, ok := tr.Node(ref)
	require.True(t, ok)
	assert.Equal(t, "name", n.Name)
}

func TestEnclosingOfKindFindsOwningClass(t *testing.T) {
	result := gparse.Parse(gparse.Request{URI: "file:///Greeter.groovy", Source: sampleSource})
	tr := New()
	tr.Walk(result.URI, result.Arena, result.Root)

	classes := tr.ClassNodesByURI(result.URI)
	require.Len(t, classes, 1)

	// The method node is a child of the class; find it by name and walk up.
	var methodRef NodeRef
	for _, ref := range tr.NodesByURI(result.URI) {
		if n, _ := tr.Node(ref); n != nil && n.Name == "greet" {
			methodRef = ref
		}
	}
	require.NotZero(t, methodRef.Handle)

	enclosing, ok := tr.EnclosingOfKind(methodRef, ast.KindClass, 0)
	require.True(t, ok)
	assert.Equal(t, classes[0], enclosing)
}
