package encode

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mipsas/mipsas/internal/section"
	"github.com/mipsas/mipsas/internal/symtab"
)

func TestPopulateRelocations_AppendsRecordToSiblingRelSection(t *testing.T) {
	sections := section.NewList()
	symbols := symtab.New()
	symbols.Insert("target", section.IdxText, 0x100)

	sections[section.IdxText].Append(section.Entity{
		Bytes:       []byte{0, 0, 0, 0},
		Relocations: []section.RelocationRequest{{SymbolName: "target", Offset: 0, Type: section.RelPC16}},
	})

	err := PopulateRelocations(sections, symbols)
	require.NoError(t, err)

	rel := sections[section.IdxRelText]
	require.Len(t, rel.Entities, 1)
	require.Len(t, rel.Entities[0].Bytes, 8)

	rOffset := binary.LittleEndian.Uint32(rel.Entities[0].Bytes[0:4])
	rInfo := binary.LittleEndian.Uint32(rel.Entities[0].Bytes[4:8])
	assert.EqualValues(t, 0, rOffset)
	symIndex, _ := symbols.IndexOf("target")
	assert.EqualValues(t, (uint32(symIndex)<<8)|uint32(section.RelPC16), rInfo)
}

func TestPopulateRelocations_MissingSymbolFails(t *testing.T) {
	sections := section.NewList()
	symbols := symtab.New()

	sections[section.IdxText].Append(section.Entity{
		Bytes:       []byte{0, 0, 0, 0},
		Relocations: []section.RelocationRequest{{SymbolName: "nope", Offset: 0, Type: section.RelPC16}},
	})

	err := PopulateRelocations(sections, symbols)
	assert.Error(t, err)
}
