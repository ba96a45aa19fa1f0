package providers

import (
	"context"
	"testing"

	"github.com/groovylang/lsp-core/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionResolvesFieldUsageToDeclaration(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	loc, ok, err := Definition(context.Background(), d, DefinitionRequest{
		URI: uri,
		Pos: position.Pos{Line: 8, Character: 15}, // "name" in `return name`
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uri, loc.URI)
	assert.Equal(t, 3, loc.Range.Start.Line) // `String name` field declaration
}

func TestDefinitionNoSymbolAtPositionReturnsFalse(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	_, ok, err := Definition(context.Background(), d, DefinitionRequest{
		URI: uri,
		Pos: position.Pos{Line: 1, Character: 0}, // blank line
	})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefinitionHonorsCancellation(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, testSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Definition(ctx, d, DefinitionRequest{URI: uri, Pos: position.Pos{Line: 8, Character: 15}})
	assert.Error(t, err)
}

const constructorCallSource = `class Greeter {
    String name

    def greet() {
        def g = new Greeter()
        Greeter.greet()
        return name
    }
}
`

// spec.md §4.6.2 step 2: a ConstructorCallExpression resolves to the
// ClassNode it constructs.
func TestDefinitionResolvesConstructorCallToClassDeclaration(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, constructorCallSource)

	loc, ok, err := Definition(context.Background(), d, DefinitionRequest{
		URI: uri,
		Pos: position.Pos{Line: 4, Character: 22}, // "Greeter" in `new Greeter()`
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uri, loc.URI)
	assert.Equal(t, 0, loc.Range.Start.Line) // `class Greeter {` declaration
}

// spec.md §4.6.2 step 2: a bare class-name receiver used for static access
// (`Foo.someStaticMethod()`'s `Foo`) resolves to the ClassNode it names,
// even though the hand-written front end parses it as an ordinary
// VariableExpr (no mid-parse symbol table to tell it from a local).
func TestDefinitionResolvesStaticReceiverToClassDeclaration(t *testing.T) {
	uri := "file:///Greeter.groovy"
	d := depsFor(t, uri, constructorCallSource)

	loc, ok, err := Definition(context.Background(), d, DefinitionRequest{
		URI: uri,
		Pos: position.Pos{Line: 5, Character: 10}, // "Greeter" in `Greeter.greet()`
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uri, loc.URI)
	assert.Equal(t, 0, loc.Range.Start.Line)
}
