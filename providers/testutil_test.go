package providers

import (
	"testing"

	"github.com/groovylang/lsp-core/cache"
	"github.com/groovylang/lsp-core/internal/config"
	"github.com/groovylang/lsp-core/internal/gdk"
	"github.com/groovylang/lsp-core/symbols"
	"github.com/groovylang/lsp-core/visitor"
	"github.com/groovylang/lsp-core/workspace"
)

const testSource = `package com.example

class Greeter {
    String name

    def greet() {
        def parts = ["a", "b", "c"]
        println "hello " + name
        return name
    }
}
`

// depsFor compiles source through the real cache, walks it, and rebuilds
// the symbol index, returning a Deps ready for a provider call — the same
// wiring the engine does on every document open/edit.
func depsFor(t *testing.T, uri, source string) Deps {
	t.Helper()
	c := cache.New(10, nil)
	result := c.GetOrCompile(uri, source)

	tr := visitor.New()
	tr.Walk(result.URI, result.Arena, result.Root)

	idx := symbols.NewIndex()
	idx.Rebuild(tr, result.URI)

	return Deps{
		Cache:     c,
		Tracker:   tr,
		Symbols:   idx,
		Workspace: workspace.New(nil, nil, []string{"Jenkinsfile", "**/*.Jenkinsfile"}),
		Methods:   gdk.DefaultCatalog(),
		Jenkins:   gdk.DefaultJenkinsCatalog(),
		Config:    config.Default(),
	}
}

// depsForFiles compiles multiple documents into one shared tracker/index,
// in the order given — declaration files must precede files that
// reference them, matching spec.md §8's worked cross-file scenarios
// (S3, S6), since cross-file member resolution only sees classes already
// indexed by an earlier Rebuild call.
func depsForFiles(t *testing.T, sources map[string]string, order []string) Deps {
	t.Helper()
	c := cache.New(10, nil)
	tr := visitor.New()
	idx := symbols.NewIndex()
	for _, uri := range order {
		result := c.GetOrCompile(uri, sources[uri])
		tr.Walk(result.URI, result.Arena, result.Root)
		idx.Rebuild(tr, result.URI)
	}
	return Deps{
		Cache:     c,
		Tracker:   tr,
		Symbols:   idx,
		Workspace: workspace.New(nil, nil, []string{"Jenkinsfile", "**/*.Jenkinsfile"}),
		Methods:   gdk.DefaultCatalog(),
		Jenkins:   gdk.DefaultJenkinsCatalog(),
		Config:    config.Default(),
	}
}
