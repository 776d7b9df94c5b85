package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mipsas/mipsas/internal/isa"
	"github.com/mipsas/mipsas/internal/statement"
)

func TestExpand_LAWithSymbolBecomesLUIThenORI(t *testing.T) {
	in := []statement.Statement{
		statement.Instr(1, isa.LA, []statement.Operand{statement.Reg("$t0"), statement.Sym("buf")}),
	}
	out, err := Expand(in)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, isa.LUI, out[0].Instruction.Opcode)
	assert.Equal(t, statement.MaskHigh, out[0].Instruction.Operands[1].Flags.Mask)

	assert.Equal(t, isa.ORI, out[1].Instruction.Opcode)
	assert.Equal(t, statement.MaskLow, out[1].Instruction.Operands[2].Flags.Mask)
}

func TestExpand_LIWithSmallLiteralBecomesADDIU(t *testing.T) {
	in := []statement.Statement{
		statement.Instr(1, isa.LI, []statement.Operand{statement.Reg("$t0"), statement.Imm(5)}),
	}
	out, err := Expand(in)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, isa.ADDIU, out[0].Instruction.Opcode)
	require.Len(t, out[0].Instruction.Operands, 3)
	assert.Equal(t, "$zero", out[0].Instruction.Operands[1].Register)
}

func TestExpand_LIWithLargeLiteralBecomesLUIThenORI(t *testing.T) {
	in := []statement.Statement{
		statement.Instr(1, isa.LI, []statement.Operand{statement.Reg("$t0"), statement.Imm(0x12345678)}),
	}
	out, err := Expand(in)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, isa.LUI, out[0].Instruction.Opcode)
	assert.EqualValues(t, 0x1234, out[0].Instruction.Operands[1].Numeric)
	assert.Equal(t, isa.ORI, out[1].Instruction.Opcode)
	assert.EqualValues(t, 0x5678, out[1].Instruction.Operands[2].Numeric)
}

func TestExpand_MoveBecomesAddWithZero(t *testing.T) {
	in := []statement.Statement{
		statement.Instr(1, isa.MOVE, []statement.Operand{statement.Reg("$t0"), statement.Reg("$t1")}),
	}
	out, err := Expand(in)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, isa.ADD, out[0].Instruction.Opcode)
	assert.Equal(t, "$zero", out[0].Instruction.Operands[2].Register)
}

func TestExpand_BranchesGetADelaySlotNOP(t *testing.T) {
	for _, op := range []isa.Opcode{isa.BAL, isa.BEQ, isa.BEQZ, isa.BGEZ, isa.BLEZ, isa.BNE, isa.JAL, isa.JR} {
		in := []statement.Statement{statement.Instr(1, op, []statement.Operand{statement.Reg("$t0")})}
		out, err := Expand(in)
		require.NoError(t, err)
		require.Len(t, out, 2, "opcode %s", op)
		assert.Equal(t, isa.NOP, out[1].Instruction.Opcode, "opcode %s", op)
	}
}

func TestExpand_LAWithBadOperandTypeFails(t *testing.T) {
	in := []statement.Statement{
		statement.Instr(1, isa.LA, []statement.Operand{statement.Reg("$t0"), statement.Str([]byte("oops"))}),
	}
	_, err := Expand(in)
	assert.Error(t, err)
}
