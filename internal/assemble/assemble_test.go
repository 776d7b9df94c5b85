package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mipsas/mipsas/internal/macro"
	"github.com/mipsas/mipsas/internal/parser"
	"github.com/mipsas/mipsas/internal/section"
	"github.com/mipsas/mipsas/internal/symtab"
)

func TestAssemble_SimpleProgram(t *testing.T) {
	src := `
.text
main:
	ADD $t0, $t1, $t2
	NOP
`
	result, err := Assemble(strings.NewReader(src))
	require.NoError(t, err)

	text := result.Sections[section.IdxText]
	assert.EqualValues(t, 8, text.Size)
	require.Len(t, text.Entities, 2)
	for _, e := range text.Entities {
		assert.Len(t, e.Bytes, 4) // §8 property 1
	}

	sym, _, ok := result.Symbols.Lookup("main")
	require.True(t, ok)
	assert.EqualValues(t, 0, sym.Offset)
	assert.Equal(t, section.IdxText, sym.Section)
}

func TestAssemble_SectionSwitching(t *testing.T) {
	src := `
.data
.word 1, 2
.text
start:
	NOP
`
	result, err := Assemble(strings.NewReader(src))
	require.NoError(t, err)

	assert.EqualValues(t, 8, result.Sections[section.IdxData].Size)
	assert.EqualValues(t, 4, result.Sections[section.IdxText].Size)

	sym, _, ok := result.Symbols.Lookup("start")
	require.True(t, ok)
	assert.Equal(t, section.IdxText, sym.Section)
}

func TestAssemble_LAProducesTwoRelocationsAtConsecutiveOffsets(t *testing.T) {
	// §8 property 4.
	src := `
.text
	LA $t0, buffer
.data
buffer:
	.word 0
`
	result, err := Assemble(strings.NewReader(src))
	require.NoError(t, err)

	text := result.Sections[section.IdxText]
	require.Len(t, text.Entities, 2)
	assert.Len(t, text.Entities[0].Relocations, 1)
	assert.Len(t, text.Entities[1].Relocations, 1)
	assert.Equal(t, section.RelHi16, text.Entities[0].Relocations[0].Type)
	assert.Equal(t, section.RelLo16, text.Entities[1].Relocations[0].Type)
	assert.EqualValues(t, 0, text.Entities[0].Relocations[0].Offset)
	assert.EqualValues(t, 4, text.Entities[1].Relocations[0].Offset)
}

func TestAssemble_BranchHasDelaySlotNOP(t *testing.T) {
	// §8 property 5.
	src := `
.text
	BEQ $t0, $t1, done
	ADD $t2, $t3, $t4
done:
	NOP
`
	result, err := Assemble(strings.NewReader(src))
	require.NoError(t, err)
	text := result.Sections[section.IdxText]
	require.Len(t, text.Entities, 4) // BEQ, NOP(delay slot), ADD, NOP(label)
}

func TestAssemble_UndefinedSymbolFails(t *testing.T) {
	src := `
.text
	J nowhere
`
	_, err := Assemble(strings.NewReader(src))
	assert.Error(t, err)
}

func TestStatementSize_MatchesPass1ProgramCounter(t *testing.T) {
	src := `
.text
a: ADD $t0, $t1, $t2
.data
.byte 1, 2, 3
`
	statements, err := parser.Parse(strings.NewReader(src))
	require.NoError(t, err)
	expanded, err := macro.Expand(statements)
	require.NoError(t, err)

	sections := section.NewList()
	require.NoError(t, pass1(expanded, sections, symtab.New()))
	require.NoError(t, assertSectionSizesMatch(expanded, sections))
}
