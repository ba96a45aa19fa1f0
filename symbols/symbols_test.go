package symbols

import (
	"testing"

	"github.com/groovylang/lsp-core/gparse"
	"github.com/groovylang/lsp-core/visitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `package com.example

class Greeter {
    String name

    def greet() {
        def parts = ["a", "b", "c"]
        println "hello " + name
    }
}
`

func indexFor(t *testing.T, source string) (*Index, *visitor.Tracker, string) {
	t.Helper()
	result := gparse.Parse(gparse.Request{URI: "file:///Greeter.groovy", Source: source})
	tr := visitor.New()
	tr.Walk(result.URI, result.Arena, result.Root)
	idx := NewIndex()
	idx.Rebuild(tr, result.URI)
	return idx, tr, result.URI
}

func TestRebuildRecordsClassAndMembers(t *testing.T) {
	idx, _, uri := indexFor(t, sampleSource)

	classes := idx.ByName("Greeter")
	require.Len(t, classes, 1)
	assert.Equal(t, ClassDecl, classes[0].Kind)

	all := idx.All(uri)
	var sawField, sawMethod bool
	for _, d := range all {
		if d.Kind == FieldDecl || d.Kind == PropertyDecl {
			sawField = d.Name == "name"
		}
		if d.Kind == MethodDecl && d.Name == "greet" {
			sawMethod = true
		}
	}
	assert.True(t, sawField)
	assert.True(t, sawMethod)
}

func TestHomogeneousListInfersElementType(t *testing.T) {
	idx, _, uri := indexFor(t, sampleSource)
	var partsDecl *Decl
	for _, d := range idx.All(uri) {
		if d.Name == "parts" {
			dd := d
			partsDecl = &dd
		}
	}
	require.NotNil(t, partsDecl)
	assert.Equal(t, "ArrayList<String>", partsDecl.InferredType)
}

func TestFieldWithDeclaredTypeSkipsInference(t *testing.T) {
	idx, _, uri := indexFor(t, sampleSource)
	var nameDecl *Decl
	for _, d := range idx.All(uri) {
		if d.Name == "name" {
			dd := d
			nameDecl = &dd
		}
	}
	require.NotNil(t, nameDecl)
	assert.Equal(t, "String", nameDecl.InferredType)
}

func TestForgetRemovesPriorDecls(t *testing.T) {
	idx, tr, uri := indexFor(t, sampleSource)
	idx.Forget(uri)
	assert.Empty(t, idx.All(uri))
	assert.Empty(t, idx.ByName("Greeter"))
	_ = tr
}
