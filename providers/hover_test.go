package providers

import (
	"context"
	"testing"

	"github.com/groovylang/lsp-core/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoverOnUsageShowsDeclarationSignature(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	hov, ok, err := Hover(context.Background(), d, HoverRequest{
		URI: uri,
		Pos: position.Pos{Line: 8, Character: 15}, // usage of `name`
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "String name", hov.Contents)
}

func TestHoverOnJenkinsGlobalShowsCuratedDoc(t *testing.T) {
	uri := "file:///Jenkinsfile"
	source := "pipeline {\n    agent any\n    echo env\n}\n"
	d := depsFor(t, uri, source)

	hov, ok, err := Hover(context.Background(), d, HoverRequest{
		URI: uri,
		Pos: position.Pos{Line: 2, Character: 9}, // `env` in `echo env`
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, hov.Contents, "Environment variables")
}

func TestHoverReturnsFalseWhenNothingApplies(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	_, ok, err := Hover(context.Background(), d, HoverRequest{
		URI: uri,
		Pos: position.Pos{Line: 1, Character: 0},
	})
	require.NoError(t, err)
	assert.False(t, ok)
}
