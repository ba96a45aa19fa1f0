package providers

import (
	"context"
	"testing"

	"github.com/groovylang/lsp-core/gparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsFlagsUnresolvedReference(t *testing.T) {
	uri := "file:///Bad.groovy"
	source := "class Bad {\n    def run() {\n        println missingThing\n    }\n}\n"
	d := depsFor(t, uri, source)

	diags, err := Diagnostics(context.Background(), d, DiagnosticsRequest{URI: uri, Content: source})
	require.NoError(t, err)

	var sawIt bool
	for _, diag := range diags {
		if diag.Code == "unresolved-reference" {
			sawIt = true
			assert.Equal(t, gparse.SeverityWarning, diag.Severity)
		}
	}
	assert.True(t, sawIt)
}

func TestDiagnosticsDenylistSuppressesProvider(t *testing.T) {
	uri := "file:///Bad.groovy"
	source := "class Bad {\n    def run() {\n        println missingThing\n    }\n}\n"
	d := depsFor(t, uri, source)
	d.Config.DiagnosticProviders.Denylist = []string{"unresolved_reference"}

	diags, err := Diagnostics(context.Background(), d, DiagnosticsRequest{URI: uri, Content: source})
	require.NoError(t, err)
	for _, diag := range diags {
		assert.NotEqual(t, "unresolved-reference", diag.Code)
	}
}

func TestDiagnosticsNoIssuesOnCleanSource(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	diags, err := Diagnostics(context.Background(), d, DiagnosticsRequest{URI: uri, Content: testSource})
	require.NoError(t, err)
	assert.Empty(t, diags)
}
