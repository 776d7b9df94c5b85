package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StartsWithNullSymbol(t *testing.T) {
	tab := New()
	require.Equal(t, 1, tab.Len())
	null := tab.All()[0]
	assert.Equal(t, "", null.Name)
	assert.Equal(t, 0, null.Section)
	assert.EqualValues(t, 0, null.Offset)
}

func TestInsertAndLookup(t *testing.T) {
	tab := New()
	idx := tab.Insert("main", 1, 0x10)
	assert.Equal(t, 1, idx)

	sym, foundIdx, ok := tab.Lookup("main")
	require.True(t, ok)
	assert.Equal(t, 1, foundIdx)
	assert.Equal(t, "main", sym.Name)
	assert.Equal(t, 1, sym.Section)
	assert.EqualValues(t, 0x10, sym.Offset)
}

func TestLookup_FirstDefinitionWins(t *testing.T) {
	tab := New()
	tab.Insert("loop", 1, 0)
	tab.Insert("loop", 1, 4)

	sym, idx, ok := tab.Lookup("loop")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.EqualValues(t, 0, sym.Offset)
}

func TestLookup_MissingSymbol(t *testing.T) {
	tab := New()
	_, _, ok := tab.Lookup("nope")
	assert.False(t, ok)
}
