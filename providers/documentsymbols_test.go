package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSymbolsNestsMembersUnderClass(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	syms, err := DocumentSymbols(context.Background(), d, DocumentSymbolsRequest{URI: uri})
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.Equal(t, "Greeter", syms[0].Name)
	assert.Equal(t, "class", syms[0].Kind)

	var names []string
	for _, child := range syms[0].Children {
		names = append(names, child.Name)
	}
	assert.Contains(t, names, "name")
	assert.Contains(t, names, "greet")
}

func TestDocumentSymbolsSelectionRangeIsIdentifierOnly(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	syms, err := DocumentSymbols(context.Background(), d, DocumentSymbolsRequest{URI: uri})
	require.NoError(t, err)
	require.Len(t, syms, 1)

	class := syms[0]
	// the declaration's Location spans the whole class body; SelectionRange
	// must cover only the `Greeter` identifier token (spec.md §4.6.6).
	assert.True(t, class.SelectionRange.Start.Less(class.Location.Range.End))
	assert.Equal(t, class.SelectionRange.Start.Line, class.SelectionRange.End.Line)
	assert.Equal(t, 7, class.SelectionRange.End.Character-class.SelectionRange.Start.Character)
	assert.True(t, class.Location.Range.End.Line > class.SelectionRange.End.Line)
}
