package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mipsas/mipsas/internal/isa"
	"github.com/mipsas/mipsas/internal/statement"
)

func TestParse_LabelsCommentsAndInstruction(t *testing.T) {
	src := `
main: # entry point
	ADD $t0, $t1, $t2
`
	statements, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, statements, 1)

	s := statements[0]
	assert.Equal(t, []string{"main"}, s.Labels)
	assert.Equal(t, statement.KindInstruction, s.Kind)
	assert.Equal(t, isa.ADD, s.Instruction.Opcode)
	require.Len(t, s.Instruction.Operands, 3)
	assert.Equal(t, "$t0", s.Instruction.Operands[0].Register)
}

func TestParse_Directive(t *testing.T) {
	statements, err := Parse(strings.NewReader(`.word 1, 2, 3`))
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, statement.DirWord, statements[0].Directive.Tag)
	assert.Len(t, statements[0].Directive.Operands, 3)
}

func TestParse_BaseOffsetOperand(t *testing.T) {
	statements, err := Parse(strings.NewReader(`LW $t0, 4($sp)`))
	require.NoError(t, err)
	require.Len(t, statements, 1)
	ops := statements[0].Instruction.Operands
	require.Len(t, ops, 2)
	assert.True(t, ops[1].HasOffset)
	assert.EqualValues(t, 4, ops[1].Offset)
	assert.Equal(t, "$sp", ops[1].Register)
}

func TestParse_StringLiteralHidesCommentHash(t *testing.T) {
	statements, err := Parse(strings.NewReader(`.ascii "not # a comment"`))
	require.NoError(t, err)
	require.Len(t, statements, 1)
	require.Len(t, statements[0].Directive.Operands, 1)
	assert.Equal(t, "not # a comment", string(statements[0].Directive.Operands[0].Text))
}

func TestParse_BlankAndCommentOnlyLinesBecomeEmptyOrNothing(t *testing.T) {
	statements, err := Parse(strings.NewReader("\n# just a comment\n"))
	require.NoError(t, err)
	assert.Len(t, statements, 0)
}

func TestParse_UnknownMnemonicFails(t *testing.T) {
	_, err := Parse(strings.NewReader(`FROBNICATE $t0`))
	assert.Error(t, err)
}

func TestParse_SymbolOperand(t *testing.T) {
	statements, err := Parse(strings.NewReader(`J somewhere`))
	require.NoError(t, err)
	require.Len(t, statements, 1)
	op := statements[0].Instruction.Operands[0]
	assert.Equal(t, statement.OperandSymbol, op.Kind)
	assert.Equal(t, "somewhere", op.Symbol)
}
