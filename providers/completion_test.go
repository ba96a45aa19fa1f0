package providers

import (
	"context"
	"testing"

	"github.com/groovylang/lsp-core/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionGeneralScopeOffersDeclaredNames(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	items, err := Completion(context.Background(), d, CompletionRequest{
		URI:     uri,
		Content: testSource,
		Pos:     position.Pos{Line: 9, Character: 4}, // blank-ish context, not after a '.'
	})
	require.NoError(t, err)

	var sawGreeter bool
	for _, it := range items {
		if it.Label == "Greeter" {
			sawGreeter = true
		}
	}
	assert.True(t, sawGreeter)
}

func TestCompletionJenkinsfileOffersPipelineGlobals(t *testing.T) {
	uri := "file:///Jenkinsfile"
	d := depsFor(t, uri, "pipeline {\n    agent any\n}\n")

	items, err := Completion(context.Background(), d, CompletionRequest{
		URI:     uri,
		Content: "pipeline {\n    agent any\n}\n",
		Pos:     position.Pos{Line: 2, Character: 0},
	})
	require.NoError(t, err)

	var sawEnv bool
	for _, it := range items {
		if it.Label == "env" {
			sawEnv = true
		}
	}
	assert.True(t, sawEnv)
}

func TestCompletionHonorsCancellation(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Completion(ctx, d, CompletionRequest{URI: uri, Content: testSource, Pos: position.Pos{Line: 0, Character: 0}})
	assert.Error(t, err)
}

func TestCompletionMemberAccessOffersCollectionMethodsNeverKeywords(t *testing.T) {
	uri := "file:///Greeter.groovy"
	source := "class Greeter {\n    def greet() {\n        def list = [1, 2, 3]\n        list.\n    }\n}\n"
	d := depsFor(t, uri, source)

	items, err := Completion(context.Background(), d, CompletionRequest{
		URI:     uri,
		Content: source,
		Pos:     position.Pos{Line: 3, Character: 13}, // right after "list."
	})
	require.NoError(t, err)

	labels := map[string]bool{}
	for _, it := range items {
		labels[it.Label] = true
	}
	assert.True(t, labels["each"])
	assert.True(t, labels["collect"])
	assert.True(t, labels["find"])
	assert.True(t, labels["size"])
	for _, kw := range groovyKeywords() {
		assert.Falsef(t, labels[kw], "member access offered keyword %q", kw)
	}
}

func TestCompletionGenericArgumentOffersMatchingClassNames(t *testing.T) {
	uri := "file:///Greeter.groovy"
	source := "class StringHelper {\n}\n\nclass Greeter {\n    def greet() {\n        def list = new ArrayList<Str>()\n    }\n}\n"
	d := depsFor(t, uri, source)

	items, err := Completion(context.Background(), d, CompletionRequest{
		URI:     uri,
		Content: source,
		Pos:     position.Pos{Line: 5, Character: 36}, // right after "Str", before '>'
	})
	require.NoError(t, err)

	var sawStringHelper, sawGreeter bool
	for _, it := range items {
		if it.Label == "StringHelper" {
			sawStringHelper = true
		}
		if it.Label == "Greeter" {
			sawGreeter = true
		}
	}
	assert.True(t, sawStringHelper, "expected StringHelper among type-parameter candidates")
	assert.False(t, sawGreeter, "Greeter does not match the \"Str\" prefix")
}

func TestCompletionRelationalAmbiguousGenericOffersMatchingClassNames(t *testing.T) {
	uri := "file:///Greeter.groovy"
	source := "class StringHelper {\n}\n\nclass Greeter {\n    def greet() {\n        List<Str\n    }\n}\n"
	d := depsFor(t, uri, source)

	items, err := Completion(context.Background(), d, CompletionRequest{
		URI:     uri,
		Content: source,
		Pos:     position.Pos{Line: 5, Character: 16}, // right after "Str"
	})
	require.NoError(t, err)

	var sawStringHelper bool
	for _, it := range items {
		if it.Label == "StringHelper" {
			sawStringHelper = true
		}
	}
	assert.True(t, sawStringHelper, "expected StringHelper among the ambiguous `<`-chain's type-parameter candidates")
}
