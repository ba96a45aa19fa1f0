package providers

import (
	"context"
	"testing"

	"github.com/groovylang/lsp-core/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crossFileFieldSources reproduces spec.md §8 S6 literally: a static field
// declared in one file, accessed through a qualified `ClassName.field`
// expression from two others. Declaration order matters — m.groovy must be
// indexed before the files that reference it.
func crossFileFieldSources() (map[string]string, []string) {
	const mURI = "file:///m.groovy"
	const u1URI = "file:///u1.groovy"
	const u2URI = "file:///u2.groovy"
	sources := map[string]string{
		mURI:  "class M {\n    static val = 1\n}\n",
		u1URI: "println M.val\n",
		u2URI: "def x = M.val + 1\n",
	}
	return sources, []string{mURI, u1URI, u2URI}
}

func TestReferencesFindsCrossFileQualifiedFieldAccess(t *testing.T) {
	sources, order := crossFileFieldSources()
	d := depsForFiles(t, sources, order)

	locs, err := References(context.Background(), d, ReferencesRequest{
		URI:                order[0],
		Pos:                position.Pos{Line: 1, Character: 12}, // `val` in its declaration
		IncludeDeclaration: true,
	})
	require.NoError(t, err)
	assert.Len(t, locs, 3)

	seen := map[string]int{}
	for _, loc := range locs {
		seen[loc.URI]++
	}
	assert.Equal(t, 1, seen[order[0]])
	assert.Equal(t, 1, seen[order[1]])
	assert.Equal(t, 1, seen[order[2]])
}

func TestReferencesFromQualifiedUsageResolvesBackToDeclaration(t *testing.T) {
	sources, order := crossFileFieldSources()
	d := depsForFiles(t, sources, order)

	locs, err := References(context.Background(), d, ReferencesRequest{
		URI:                order[1],
		Pos:                position.Pos{Line: 0, Character: 11}, // `val` in `M.val`
		IncludeDeclaration: true,
	})
	require.NoError(t, err)
	assert.Len(t, locs, 3)
}

func TestRenameCrossFileQualifiedFieldEditsIdentifierOnly(t *testing.T) {
	sources, order := crossFileFieldSources()
	d := depsForFiles(t, sources, order)

	edit, err := Rename(context.Background(), d, RenameRequest{
		URI:     order[0],
		Pos:     position.Pos{Line: 1, Character: 12},
		NewName: "amount",
	})
	require.NoError(t, err)
	require.NotNil(t, edit)
	require.Len(t, edit.Changes, 3)

	for uri, edits := range edit.Changes {
		require.Len(t, edits, 1, "uri %s", uri)
		te := edits[0]
		assert.Equal(t, "amount", te.NewText)
		// the edit must cover only the `val` token (3 columns), never the
		// whole declaration or the `M.` receiver qualifier.
		assert.Equal(t, te.Range.Start.Line, te.Range.End.Line)
		assert.Equal(t, 3, te.Range.End.Character-te.Range.Start.Character)
	}
}
