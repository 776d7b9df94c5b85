package encode

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mipsas/mipsas/internal/isa"
	"github.com/mipsas/mipsas/internal/section"
	"github.com/mipsas/mipsas/internal/statement"
	"github.com/mipsas/mipsas/internal/symtab"
)

func TestInstruction_FormR_ADD(t *testing.T) {
	s := statement.Instr(1, isa.ADD, []statement.Operand{statement.Reg("$t0"), statement.Reg("$t1"), statement.Reg("$t2")})
	entity, err := Instruction(s, symtab.New(), 0)
	require.NoError(t, err)
	require.Len(t, entity.Bytes, 4)

	word := binary.LittleEndian.Uint32(entity.Bytes)
	assert.Equal(t, uint32(0), word>>26)         // opcode
	assert.Equal(t, uint32(9), (word>>21)&0x1F)  // rs = $t1
	assert.Equal(t, uint32(10), (word>>16)&0x1F) // rt = $t2
	assert.Equal(t, uint32(8), (word>>11)&0x1F)  // rd = $t0
	assert.Equal(t, uint32(0x20), word&0x3F)     // func
}

func TestInstruction_FormR_SLLUsesOperandShiftAmount(t *testing.T) {
	s := statement.Instr(1, isa.SLL, []statement.Operand{statement.Reg("$t0"), statement.Reg("$t1"), statement.Imm(4)})
	entity, err := Instruction(s, symtab.New(), 0)
	require.NoError(t, err)
	word := binary.LittleEndian.Uint32(entity.Bytes)
	assert.Equal(t, uint32(4), (word>>6)&0x1F)
}

func TestInstruction_FormI_ADDIOperandOrderIsRtRsImm(t *testing.T) {
	// spec §9: ADDI rt, rs, imm (MIPS reference order), not rs, rt, imm.
	s := statement.Instr(1, isa.ADDI, []statement.Operand{statement.Reg("$t0"), statement.Reg("$t1"), statement.Imm(5)})
	entity, err := Instruction(s, symtab.New(), 0)
	require.NoError(t, err)
	word := binary.LittleEndian.Uint32(entity.Bytes)
	assert.Equal(t, uint32(0x08), word>>26)
	assert.Equal(t, uint32(9), (word>>21)&0x1F) // rs = $t1
	assert.Equal(t, uint32(8), (word>>16)&0x1F) // rt = $t0
	assert.Equal(t, uint32(5), word&0xFFFF)
}

func TestInstruction_FormI_SymbolOperandRecordsPC16Relocation(t *testing.T) {
	symbols := symtab.New()
	symbols.Insert("target", section.IdxText, 0x40)

	s := statement.Instr(1, isa.BEQ, []statement.Operand{statement.Reg("$t0"), statement.Reg("$t1"), statement.Sym("target")})
	entity, err := Instruction(s, symbols, 0x10)
	require.NoError(t, err)
	require.Len(t, entity.Relocations, 1)
	assert.Equal(t, section.RelPC16, entity.Relocations[0].Type)
	assert.EqualValues(t, 0x10, entity.Relocations[0].Offset)
	assert.Equal(t, "target", entity.Relocations[0].SymbolName)
}

func TestInstruction_FormI_MaskSelectsHiLoRelocation(t *testing.T) {
	symbols := symtab.New()
	symbols.Insert("buf", section.IdxData, 0x100)

	hi := statement.Instr(1, isa.LUI, []statement.Operand{statement.Reg("$t0"), statement.Sym("buf").WithMask(statement.MaskHigh)})
	entity, err := Instruction(hi, symbols, 0)
	require.NoError(t, err)
	require.Len(t, entity.Relocations, 1)
	assert.Equal(t, section.RelHi16, entity.Relocations[0].Type)

	lo := statement.Instr(1, isa.ORI, []statement.Operand{statement.Reg("$t0"), statement.Reg("$t0"), statement.Sym("buf").WithMask(statement.MaskLow)})
	entity, err = Instruction(lo, symbols, 4)
	require.NoError(t, err)
	require.Len(t, entity.Relocations, 1)
	assert.Equal(t, section.RelLo16, entity.Relocations[0].Type)
}

func TestInstruction_FormI_MissingSymbolFails(t *testing.T) {
	s := statement.Instr(1, isa.BEQ, []statement.Operand{statement.Reg("$t0"), statement.Reg("$t1"), statement.Sym("nope")})
	_, err := Instruction(s, symtab.New(), 0)
	assert.Error(t, err)
}

func TestInstruction_FormJ_SymbolTargetRecordsR_MIPS_26(t *testing.T) {
	symbols := symtab.New()
	symbols.Insert("main", section.IdxText, 0x20)

	s := statement.Instr(1, isa.JAL, []statement.Operand{statement.Sym("main")})
	entity, err := Instruction(s, symbols, 0)
	require.NoError(t, err)
	require.Len(t, entity.Relocations, 1)
	assert.Equal(t, section.Rel26, entity.Relocations[0].Type)

	word := binary.LittleEndian.Uint32(entity.Bytes)
	assert.Equal(t, uint32(0x03), word>>26)
	assert.Equal(t, uint32(0x20)>>2, word&0x03FFFFFF)
}

func TestInstruction_FormOffset_LW(t *testing.T) {
	s := statement.Instr(1, isa.LW, []statement.Operand{
		statement.Reg("$t0"),
		statement.Reg("$sp").WithOffsetBase(4),
	})
	entity, err := Instruction(s, symtab.New(), 0)
	require.NoError(t, err)
	word := binary.LittleEndian.Uint32(entity.Bytes)
	assert.Equal(t, uint32(0x23), word>>26)
	assert.Equal(t, uint32(29), (word>>21)&0x1F) // base = $sp
	assert.Equal(t, uint32(8), (word>>16)&0x1F)  // rt = $t0
	assert.Equal(t, uint32(4), word&0xFFFF)
}

func TestInstruction_FormOffset_RejectsSymbolOffset(t *testing.T) {
	s := statement.Instr(1, isa.LW, []statement.Operand{
		statement.Reg("$t0"),
		statement.Sym("buf"),
	})
	_, err := Instruction(s, symtab.New(), 0)
	assert.Error(t, err)
}

func TestInstruction_JALRDefaultsRDToRA(t *testing.T) {
	s := statement.Instr(1, isa.JALR, []statement.Operand{statement.Reg("$t0")})
	entity, err := Instruction(s, symtab.New(), 0)
	require.NoError(t, err)
	word := binary.LittleEndian.Uint32(entity.Bytes)
	assert.Equal(t, uint32(0x1F), (word>>11)&0x1F)
	assert.Equal(t, uint32(8), (word>>21)&0x1F)
}

func TestInstruction_DeprecatedOpcodeFails(t *testing.T) {
	s := statement.Instr(1, isa.MULT, []statement.Operand{statement.Reg("$t0"), statement.Reg("$t1")})
	_, err := Instruction(s, symtab.New(), 0)
	assert.Error(t, err)
}

func TestInstruction_UnencodableOpcodeFails(t *testing.T) {
	s := statement.Instr(1, isa.BEQZ, []statement.Operand{statement.Reg("$t0"), statement.Sym("label")})
	_, err := Instruction(s, symtab.New(), 0)
	assert.Error(t, err)
}
