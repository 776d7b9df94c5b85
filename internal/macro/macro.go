// Package macro implements the §4.1 macro expander: pseudo-instruction
// rewriting and branch-delay-slot NOP insertion, run once over the
// parsed statement stream before layout.
//
// The host toolchain keeps this as its own translation unit
// (arch/mips/macro.c / as/arch/mips/macro.c) specifically because it
// must run before anything else touches the stream; this package
// mirrors that separation as its own Go package rather than folding it
// into the parser or the assembler driver.
package macro

import (
	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/isa"
	"github.com/mipsas/mipsas/internal/statement"
)

// Expand walks in, producing the rewritten statement stream §4.1
// mandates pass 1 must see. It returns a new slice rather than mutating
// in place — spec §9 notes both approaches are equally acceptable, and
// a fresh slice is the simpler of the two to reason about when a
// rewrite also inserts statements.
func Expand(in []statement.Statement) ([]statement.Statement, error) {
	out := make([]statement.Statement, 0, len(in))

	for _, s := range in {
		if s.Kind != statement.KindInstruction {
			out = append(out, s)
			continue
		}

		expanded, err := expandInstruction(s)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}

	return out, nil
}

func expandInstruction(s statement.Statement) ([]statement.Statement, error) {
	op := s.Instruction.Opcode
	operands := s.Instruction.Operands

	var rewritten []statement.Statement

	switch op {
	case isa.LA, isa.LI:
		expanded, err := expandLoad(s, operands)
		if err != nil {
			return nil, err
		}
		rewritten = expanded

	case isa.MOVE:
		if len(operands) != 2 {
			return nil, diag.MakeError(diag.ErrOperandCountMismatch, "line %d: MOVE takes 2 operands, got %d", s.Line, len(operands))
		}
		add := statement.Instr(s.Line, isa.ADD, []statement.Operand{operands[0], operands[1], statement.Reg("$zero")}, s.Labels...)
		rewritten = []statement.Statement{add}

	default:
		rewritten = []statement.Statement{s}
	}

	if op.IsBranchWithDelaySlot() {
		nop := statement.Instr(s.Line, isa.NOP, nil)
		rewritten = append(rewritten, nop)
	}

	return rewritten, nil
}

// expandLoad implements the LA/LI rewriting rules (§4.1): a symbol
// operand becomes a HI16/LO16 pair, a numeric literal above 0xFFFF
// becomes the same pair with immediate halves, and a literal at or
// below 0xFFFF collapses to a single ADDIU.
func expandLoad(s statement.Statement, operands []statement.Operand) ([]statement.Statement, error) {
	if len(operands) != 2 {
		return nil, diag.MakeError(diag.ErrOperandCountMismatch, "line %d: %s takes 2 operands, got %d", s.Line, s.Instruction.Opcode, len(operands))
	}
	dest := operands[0]
	src := operands[1]

	switch src.Kind {
	case statement.OperandSymbol:
		lui := statement.Instr(s.Line, isa.LUI, []statement.Operand{dest, src.WithMask(statement.MaskHigh)}, s.Labels...)
		ori := statement.Instr(s.Line, isa.ORI, []statement.Operand{dest, dest, src.WithMask(statement.MaskLow)})
		return []statement.Statement{lui, ori}, nil

	case statement.OperandNumericLiteral:
		if src.Numeric > 0xFFFF {
			hi := statement.Imm((src.Numeric >> 16) & 0xFFFF)
			lo := statement.Imm(src.Numeric & 0xFFFF)
			lui := statement.Instr(s.Line, isa.LUI, []statement.Operand{dest, hi}, s.Labels...)
			ori := statement.Instr(s.Line, isa.ORI, []statement.Operand{dest, dest, lo})
			return []statement.Statement{lui, ori}, nil
		}
		addiu := statement.Instr(s.Line, isa.ADDIU, []statement.Operand{dest, statement.Reg("$zero"), src}, s.Labels...)
		return []statement.Statement{addiu}, nil

	default:
		return nil, diag.MakeError(diag.ErrBadOperandType, "line %d: %s second operand must be a symbol or numeric literal", s.Line, s.Instruction.Opcode)
	}
}
