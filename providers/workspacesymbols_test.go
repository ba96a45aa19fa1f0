package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceSymbolsMatchesCaseInsensitiveSubstring(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	syms, err := WorkspaceSymbols(context.Background(), d, WorkspaceSymbolsRequest{Query: "greet"})
	require.NoError(t, err)

	var names []string
	for _, s := range syms {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Greeter")
	assert.Contains(t, names, "greet")
}

func TestWorkspaceSymbolsEmptyQueryReturnsEverything(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	syms, err := WorkspaceSymbols(context.Background(), d, WorkspaceSymbolsRequest{Query: ""})
	require.NoError(t, err)
	assert.NotEmpty(t, syms)
}

func TestWorkspaceSymbolsRespectsLimit(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	syms, err := WorkspaceSymbols(context.Background(), d, WorkspaceSymbolsRequest{Query: "", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, syms, 1)
}
