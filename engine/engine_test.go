package engine

import (
	"context"
	"testing"
	"time"

	"github.com/groovylang/lsp-core/internal/config"
	"github.com/groovylang/lsp-core/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `class Greeter {
    String name

    def greet() {
        return name
    }
}
`

func newTestEngine() *Engine {
	return New(config.Default(), nil, nil, nil)
}

func TestOpenPublishesDiagnosticsToSubscriber(t *testing.T) {
	e := newTestEngine()
	ch, unsubscribe := e.Subscribe("file:///Greeter.groovy")
	defer unsubscribe()

	diags := e.Open("file:///Greeter.groovy", sampleSource, 1)
	assert.Empty(t, diags)

	select {
	case got := <-ch:
		assert.Empty(t, got)
	case <-time.After(time.Second):
		t.Fatal("expected a diagnostics batch to be published")
	}
}

func TestDefinitionRoundTripsThroughEngine(t *testing.T) {
	e := newTestEngine()
	e.Open("file:///Greeter.groovy", sampleSource, 1)

	locs, cerr := e.Definition(context.Background(), "file:///Greeter.groovy", position.Pos{Line: 4, Character: 15})
	require.Nil(t, cerr)
	require.Len(t, locs, 1)
	assert.Equal(t, 1, locs[0].Range.Start.Line)
}

func TestDefinitionUnknownURIIsNotAnEngineConcern(t *testing.T) {
	e := newTestEngine()
	locs, cerr := e.Definition(context.Background(), "file:///Nope.groovy", position.Pos{})
	require.Nil(t, cerr)
	assert.Empty(t, locs)
}

func TestCompletionUnknownDocumentIsInvalidRequest(t *testing.T) {
	e := newTestEngine()
	_, cerr := e.Completion(context.Background(), "file:///Nope.groovy", position.Pos{})
	require.NotNil(t, cerr)
	assert.Equal(t, CodeInvalidRequest, cerr.Code)
}

func TestCloseForgetsDocument(t *testing.T) {
	e := newTestEngine()
	e.Open("file:///Greeter.groovy", sampleSource, 1)
	e.Close("file:///Greeter.groovy")

	_, cerr := e.Completion(context.Background(), "file:///Greeter.groovy", position.Pos{})
	require.NotNil(t, cerr)
	assert.Equal(t, CodeInvalidRequest, cerr.Code)
}

func TestCancelRequestCancelsContext(t *testing.T) {
	e := newTestEngine()
	id, ctx, done := e.NewRequest(context.Background())
	defer done()

	ok := e.CancelRequest(id)
	assert.True(t, ok)

	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected context to be cancelled")
	}
}

func TestCancelRequestUnknownIDReturnsFalse(t *testing.T) {
	e := newTestEngine()
	assert.False(t, e.CancelRequest("does-not-exist"))
}

func TestRenameRejectsInvalidIdentifierAsInvalidRequest(t *testing.T) {
	e := newTestEngine()
	e.Open("file:///Greeter.groovy", sampleSource, 1)

	_, cerr := e.Rename(context.Background(), "file:///Greeter.groovy", position.Pos{Line: 4, Character: 15}, "1bad")
	require.NotNil(t, cerr)
	assert.Equal(t, CodeInvalidRequest, cerr.Code)
}

// spec.md §7: CodeInternal is reserved for an unexpected failure, and
// invalidates the affected document's cache entry. A provider never
// returns such an error in practice — the only path that produces one is
// a provider panic, which guardProvider recovers and asCoreError then
// classifies.
func TestGuardProviderRecoversPanicAsInternalErrorAndInvalidatesCache(t *testing.T) {
	e := newTestEngine()
	uri := "file:///Greeter.groovy"
	e.Open(uri, sampleSource, 1)
	e.cache.GetOrCompile(uri, sampleSource)
	_, cached := e.cache.Get(uri)
	require.True(t, cached, "expected the document to be cached before the panic")

	err := e.guardProvider(uri, func() error {
		panic("boom")
	})
	require.Error(t, err)

	cerr := e.asCoreError(uri, err)
	require.NotNil(t, cerr)
	assert.Equal(t, CodeInternal, cerr.Code)

	_, stillCached := e.cache.Get(uri)
	assert.False(t, stillCached, "expected the panic to invalidate the document's cache entry")
}

func TestGuardProviderWrapsPanicInPanicError(t *testing.T) {
	e := newTestEngine()
	uri := "file:///Greeter.groovy"
	e.Open(uri, sampleSource, 1)

	err := e.guardProvider(uri, func() error {
		panic("boom")
	})
	var pe *panicError
	require.ErrorAs(t, err, &pe)
}

func TestRecompileWarmsOpenDocuments(t *testing.T) {
	e := newTestEngine()
	e.Open("file:///Greeter.groovy", sampleSource, 1)

	err := e.Recompile(context.Background(), []string{"file:///Greeter.groovy"})
	require.NoError(t, err)

	syms, cerr := e.DocumentSymbols(context.Background(), "file:///Greeter.groovy")
	require.Nil(t, cerr)
	assert.NotEmpty(t, syms)
}
