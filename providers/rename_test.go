package providers

import (
	"context"
	"testing"

	"github.com/groovylang/lsp-core/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenameProducesEditForDeclarationAndUsages(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	edit, err := Rename(context.Background(), d, RenameRequest{
		URI:     uri,
		Pos:     position.Pos{Line: 8, Character: 15},
		NewName: "fullName",
	})
	require.NoError(t, err)
	require.NotNil(t, edit)
	edits := edit.Changes[uri]
	assert.Len(t, edits, 3) // declaration + 2 usages
	for _, te := range edits {
		assert.Equal(t, "fullName", te.NewText)
	}
}

func TestRenameRejectsReservedWord(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	_, err := Rename(context.Background(), d, RenameRequest{
		URI:     uri,
		Pos:     position.Pos{Line: 8, Character: 15},
		NewName: "class",
	})
	assert.Error(t, err)
}

func TestRenameRejectsInvalidIdentifier(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	_, err := Rename(context.Background(), d, RenameRequest{
		URI:     uri,
		Pos:     position.Pos{Line: 8, Character: 15},
		NewName: "1bad",
	})
	assert.Error(t, err)
}
