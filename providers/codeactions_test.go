package providers

import (
	"context"
	"testing"

	"github.com/groovylang/lsp-core/gparse"
	"github.com/groovylang/lsp-core/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeActionsOffersImportForUniqueCandidate(t *testing.T) {
	uri := "file:///Bad.groovy"
	source := "class Bad {\n    def run() {\n        println Helper\n    }\n}\n"
	d := depsFor(t, uri, source)

	otherURI := "file:///Helper.groovy"
	otherResult := d.Cache.GetOrCompile(otherURI, "class Helper {}\n")
	d.Tracker.Walk(otherResult.URI, otherResult.Arena, otherResult.Root)
	d.Symbols.Rebuild(d.Tracker, otherURI)

	diags, err := Diagnostics(context.Background(), d, DiagnosticsRequest{URI: uri, Content: source})
	require.NoError(t, err)

	actions, err := CodeActions(context.Background(), d, CodeActionsRequest{
		URI:         uri,
		Range:       position.Range{},
		Diagnostics: diags,
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "Import Helper", actions[0].Title)
	assert.Equal(t, "import Helper\n", actions[0].Edit.Changes[uri][0].NewText)
}

func TestCodeActionsSkipsDiagnosticsWithNoRegisteredRule(t *testing.T) {
	d := depsFor(t, "file:///X.groovy", "class X {}\n")

	actions, err := CodeActions(context.Background(), d, CodeActionsRequest{
		URI: "file:///X.groovy",
		Diagnostics: []gparse.Diagnostic{
			{Code: "some-unregistered-code", Message: "whatever"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, actions)
}
