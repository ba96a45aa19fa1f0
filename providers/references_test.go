package providers

import (
	"context"
	"testing"

	"github.com/groovylang/lsp-core/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferencesFindsEveryUsageOfField(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	locs, err := References(context.Background(), d, ReferencesRequest{
		URI:                uri,
		Pos:                position.Pos{Line: 8, Character: 15}, // usage of `name`
		IncludeDeclaration: false,
	})
	require.NoError(t, err)
	// both the `println ... + name` and `return name` usages resolve to the
	// same field declaration.
	assert.Len(t, locs, 2)
	for _, loc := range locs {
		assert.Equal(t, uri, loc.URI)
	}
}

func TestReferencesIncludesDeclarationWhenRequested(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	locs, err := References(context.Background(), d, ReferencesRequest{
		URI:                uri,
		Pos:                position.Pos{Line: 8, Character: 15},
		IncludeDeclaration: true,
	})
	require.NoError(t, err)
	assert.Len(t, locs, 3)
	assert.Equal(t, 3, locs[0].Range.Start.Line)
}
