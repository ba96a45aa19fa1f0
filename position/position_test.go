package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTripCompilerToEditor(t *testing.T) {
	for line := 1; line <= 5; line++ {
		for col := 1; col <= 5; col++ {
			cp := CompilerPos{Line: line, Column: col}
			got := ToCompiler(ToEditor(cp))
			assert.Equal(t, cp, got)
		}
	}
}

func TestRoundTripEditorToCompiler(t *testing.T) {
	for line := 0; line <= 5; line++ {
		for char := 0; char <= 5; char++ {
			p := Pos{Line: line, Character: char}
			got := ToEditor(ToCompiler(p))
			assert.Equal(t, p, got)
		}
	}
}

func TestRangeContainsHalfOpen(t *testing.T) {
	r := Range{Start: Pos{0, 4}, End: Pos{0, 12}}
	assert.True(t, r.Contains(Pos{0, 4}, false))
	assert.True(t, r.Contains(Pos{0, 11}, false))
	assert.False(t, r.Contains(Pos{0, 12}, false))
	assert.True(t, r.Contains(Pos{0, 12}, true))
}

func TestSmallerThanPrefersNarrowerRange(t *testing.T) {
	small := Range{Start: Pos{0, 0}, End: Pos{0, 2}}
	big := Range{Start: Pos{0, 0}, End: Pos{0, 10}}
	assert.True(t, small.SmallerThan(big))
	assert.False(t, big.SmallerThan(small))
}

func TestInvalidCompilerPosition(t *testing.T) {
	assert.False(t, CompilerPos{Line: 0, Column: 1}.Valid())
	assert.False(t, CompilerPos{Line: 1, Column: 0}.Valid())
	assert.True(t, CompilerPos{Line: 1, Column: 1}.Valid())
}
