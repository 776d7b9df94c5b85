package objfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mipsas/mipsas/internal/assemble"
)

func TestWrite_RoundTripsThroughRead(t *testing.T) {
	src := `
.text
main:
	ADD $t0, $t1, $t2
	NOP
.data
value:
	.word 42
`
	result, err := assemble.Assemble(strings.NewReader(src))
	require.NoError(t, err)

	raw, err := Write(result.Sections, result.Symbols)
	require.NoError(t, err)

	// §8 property 6.
	assert.Equal(t, byte(0x7f), raw[0])
	assert.Equal(t, byte('E'), raw[1])
	assert.Equal(t, byte('L'), raw[2])
	assert.Equal(t, byte('F'), raw[3])
	assert.Equal(t, byte(elfClass32), raw[4])
	assert.Equal(t, byte(elfDataLSB), raw[5])

	summary, err := Read(raw)
	require.NoError(t, err)
	assert.EqualValues(t, 9, summary.Header.Shnum)
	assert.EqualValues(t, ehdrSize, summary.Header.Ehsize)
	assert.EqualValues(t, emMIPS, summary.Header.Machine)
	assert.EqualValues(t, etREL, summary.Header.Type)

	var totalSize uint32
	for _, s := range summary.Sections {
		totalSize += s.Size
	}
	assert.EqualValues(t, ehdrSize+totalSize, summary.Header.Shoff)

	var foundMain, foundValue bool
	for _, sym := range summary.Symbols {
		if sym.Name == "main" {
			foundMain = true
			assert.EqualValues(t, 0, sym.Value)
		}
		if sym.Name == "value" {
			foundValue = true
		}
	}
	assert.True(t, foundMain)
	assert.True(t, foundValue)
}

func TestWrite_MissingSectionFails(t *testing.T) {
	_, err := Write(nil, nil)
	assert.Error(t, err)
}

func TestWrite_RoundTripsRelocations(t *testing.T) {
	src := `
.text
	LA $t0, buffer
.data
buffer:
	.word 0
`
	result, err := assemble.Assemble(strings.NewReader(src))
	require.NoError(t, err)

	raw, err := Write(result.Sections, result.Symbols)
	require.NoError(t, err)

	summary, err := Read(raw)
	require.NoError(t, err)

	require.Len(t, summary.Relocations, 2)
	for _, rel := range summary.Relocations {
		assert.Equal(t, ".rel.text", rel.RelSectionName)
		require.Less(t, int(rel.SymbolIndex), len(summary.Symbols))
		assert.Equal(t, "buffer", summary.Symbols[rel.SymbolIndex].Name)
	}
	assert.EqualValues(t, 0, summary.Relocations[0].Offset)
	assert.EqualValues(t, 4, summary.Relocations[1].Offset)
}
