// Package encode implements the §4.4 instruction encoder and §4.5
// directive encoder: pure functions turning a statement plus a symbol
// table into an encoded entity (bytes plus relocation requests).
//
// Field packing is expressed with xslice.BitView the same way the host
// toolchain's own bit-packing helper (the teacher repo's
// pkg/utils/bits.go BitView) is used by its instruction-set descriptor
// tables (pkg/hw/cpu/mc/instructions), generalized here from one flat
// encoding to MIPS's four fixed forms.
package encode

import (
	"encoding/binary"

	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/isa"
	"github.com/mipsas/mipsas/internal/section"
	"github.com/mipsas/mipsas/internal/statement"
	"github.com/mipsas/mipsas/internal/symtab"
	"github.com/mipsas/mipsas/internal/xslice"
)

// Instruction encodes one instruction statement at programCounter
// (the instruction's own section-relative offset, needed for PC16
// relocations) into a 4-byte little-endian entity plus zero or one
// relocation requests (§4.4).
func Instruction(s statement.Statement, symbols *symtab.Table, programCounter uint32) (section.Entity, error) {
	inst := s.Instruction
	d, ok := isa.Describe(inst.Opcode)
	if !ok {
		return section.Entity{}, diag.MakeError(diag.ErrBadOpcode, "line %d: %s is not an encodable opcode", s.Line, inst.Opcode)
	}
	if d.Deprecated {
		return section.Entity{}, diag.MakeError(diag.ErrDeprecatedOpcode, "line %d: %s is deprecated in MIPS32r6", s.Line, d.Mnemonic)
	}

	var word uint32
	view := bitViewOf(&word)
	var reloc *section.RelocationRequest
	var err error

	switch d.Form {
	case isa.FormR:
		err = encodeFormR(view, d, inst, s.Line)
	case isa.FormI:
		reloc, err = encodeFormI(view, d, inst, s.Line, programCounter, symbols)
	case isa.FormJ:
		reloc, err = encodeFormJ(view, d, inst, s.Line, programCounter, symbols)
	case isa.FormOffset:
		err = encodeFormOffset(view, d, inst, s.Line)
	}
	if err != nil {
		return section.Entity{}, err
	}

	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, word)

	entity := section.Entity{Address: programCounter, Bytes: buf}
	if reloc != nil {
		entity.Relocations = []section.RelocationRequest{*reloc}
	}
	return entity, nil
}

func bitViewOf(word *uint32) bitView32 {
	return bitView32{view: xslice.CreateBitView(word)}
}

// bitView32 is §4.4's field-packing view over the one 32-bit word an
// in-scope instruction encodes to.
type bitView32 struct{ view xslice.BitView[uint32] }

func (b bitView32) write(value uint32, bit, width int) {
	b.view.Write(value, bit, width)
}

func encodeFormR(view bitView32, d *isa.Descriptor, inst statement.Instruction, line int) error {
	rd, rs, rt, sa := uint32(0), uint32(0), uint32(0), d.Sa

	switch d.Mnemonic {
	case "NOP":
		// all fields zero

	case "SYSCALL":
		// all fields zero

	case "JR":
		r, err := operandRegister(inst, 0, line, "JR")
		if err != nil {
			return err
		}
		rs = r

	case "JALR":
		switch len(inst.Operands) {
		case 1:
			rd = 0x1F
			r, err := operandRegister(inst, 0, line, "JALR")
			if err != nil {
				return err
			}
			rs = r
		case 2:
			rdOp, err := operandRegister(inst, 0, line, "JALR")
			if err != nil {
				return err
			}
			rsOp, err := operandRegister(inst, 1, line, "JALR")
			if err != nil {
				return err
			}
			rd, rs = rdOp, rsOp
		default:
			return diag.MakeError(diag.ErrOperandCountMismatch, "line %d: JALR takes 1 or 2 operands, got %d", line, len(inst.Operands))
		}

	case "SLL":
		if len(inst.Operands) != 3 {
			return diag.MakeError(diag.ErrOperandCountMismatch, "line %d: SLL takes 3 operands, got %d", line, len(inst.Operands))
		}
		rdOp, err := operandRegister(inst, 0, line, "SLL")
		if err != nil {
			return err
		}
		rtOp, err := operandRegister(inst, 1, line, "SLL")
		if err != nil {
			return err
		}
		shiftOp := inst.Operands[2]
		if shiftOp.Kind != statement.OperandNumericLiteral {
			return diag.MakeError(diag.ErrBadOperandType, "line %d: SLL shift amount must be a numeric literal", line)
		}
		rd, rt, sa = rdOp, rtOp, shiftOp.Numeric&0x1F

	default: // ADD, ADDU, SUB, SUBU, AND, OR, MUL, MUH, MULU, MUHU: rd, rs, rt
		if len(inst.Operands) != 3 {
			return diag.MakeError(diag.ErrOperandCountMismatch, "line %d: %s takes 3 operands, got %d", line, d.Mnemonic, len(inst.Operands))
		}
		rdOp, err := operandRegister(inst, 0, line, d.Mnemonic)
		if err != nil {
			return err
		}
		rsOp, err := operandRegister(inst, 1, line, d.Mnemonic)
		if err != nil {
			return err
		}
		rtOp, err := operandRegister(inst, 2, line, d.Mnemonic)
		if err != nil {
			return err
		}
		rd, rs, rt = rdOp, rsOp, rtOp
	}

	view.write(0, 26, 6)
	view.write(rs, 21, 5)
	view.write(rt, 16, 5)
	view.write(rd, 11, 5)
	view.write(sa&0x1F, 6, 5)
	view.write(d.FuncBits, 0, 6)
	return nil
}

func encodeFormI(view bitView32, d *isa.Descriptor, inst statement.Instruction, line int, pc uint32, symbols *symtab.Table) (*section.RelocationRequest, error) {
	var rs, rt uint32
	var immOperand statement.Operand

	switch d.Mnemonic {
	case "BGEZ":
		r, err := operandRegister(inst, 0, line, "BGEZ")
		if err != nil {
			return nil, err
		}
		if len(inst.Operands) != 2 {
			return nil, diag.MakeError(diag.ErrOperandCountMismatch, "line %d: BGEZ takes 2 operands, got %d", line, len(inst.Operands))
		}
		rs, rt = r, 0x01
		immOperand = inst.Operands[1]

	case "BAL":
		// spec §9: the host source indexes the wrong operand for BAL; the
		// corrected behavior uses operand 0 with rs=0, rt=0x11.
		if len(inst.Operands) != 1 {
			return nil, diag.MakeError(diag.ErrOperandCountMismatch, "line %d: BAL takes 1 operand, got %d", line, len(inst.Operands))
		}
		rs, rt = 0, 0x11
		immOperand = inst.Operands[0]

	case "LUI":
		if len(inst.Operands) != 2 {
			return nil, diag.MakeError(diag.ErrOperandCountMismatch, "line %d: LUI takes 2 operands, got %d", line, len(inst.Operands))
		}
		r, err := operandRegister(inst, 0, line, "LUI")
		if err != nil {
			return nil, err
		}
		rs, rt = 0, r
		immOperand = inst.Operands[1]

	case "BEQ", "BNE":
		if len(inst.Operands) != 3 {
			return nil, diag.MakeError(diag.ErrOperandCountMismatch, "line %d: %s takes 3 operands, got %d", line, d.Mnemonic, len(inst.Operands))
		}
		rsOp, err := operandRegister(inst, 0, line, d.Mnemonic)
		if err != nil {
			return nil, err
		}
		rtOp, err := operandRegister(inst, 1, line, d.Mnemonic)
		if err != nil {
			return nil, err
		}
		rs, rt = rsOp, rtOp
		immOperand = inst.Operands[2]

	default: // ADDI, ADDIU, ANDI, ORI: rt, rs, imm (MIPS reference order, §9)
		if len(inst.Operands) != 3 {
			return nil, diag.MakeError(diag.ErrOperandCountMismatch, "line %d: %s takes 3 operands, got %d", line, d.Mnemonic, len(inst.Operands))
		}
		rtOp, err := operandRegister(inst, 0, line, d.Mnemonic)
		if err != nil {
			return nil, err
		}
		rsOp, err := operandRegister(inst, 1, line, d.Mnemonic)
		if err != nil {
			return nil, err
		}
		rt, rs = rtOp, rsOp
		immOperand = inst.Operands[2]
	}

	imm, reloc, err := resolveImmediate16(immOperand, line, pc, symbols)
	if err != nil {
		return nil, err
	}

	view.write(d.OpcodeBits, 26, 6)
	view.write(rs, 21, 5)
	view.write(rt, 16, 5)
	view.write(imm, 0, 16)
	return reloc, nil
}

func encodeFormJ(view bitView32, d *isa.Descriptor, inst statement.Instruction, line int, pc uint32, symbols *symtab.Table) (*section.RelocationRequest, error) {
	if len(inst.Operands) != 1 {
		return nil, diag.MakeError(diag.ErrOperandCountMismatch, "line %d: %s takes 1 operand, got %d", line, d.Mnemonic, len(inst.Operands))
	}

	operand := inst.Operands[0]
	var target uint32
	var reloc *section.RelocationRequest

	switch operand.Kind {
	case statement.OperandNumericLiteral:
		target = operand.Numeric
	case statement.OperandSymbol:
		sym, _, ok := symbols.Lookup(operand.Symbol)
		if !ok {
			return nil, diag.MakeError(diag.ErrMissingSymbol, "line %d: undefined symbol %q", line, operand.Symbol)
		}
		target = sym.Offset
		reloc = &section.RelocationRequest{SymbolName: operand.Symbol, Offset: pc, Type: section.Rel26}
	default:
		return nil, diag.MakeError(diag.ErrBadOperandType, "line %d: %s target must be a numeric literal or symbol", line, d.Mnemonic)
	}

	view.write(d.OpcodeBits, 26, 6)
	view.write((target&0x0FFFFFFF)>>2, 0, 26)
	return reloc, nil
}

// encodeFormOffset implements "rt, offset(base)" (§4.4 Form offset):
// operand 0 is the plain rt register, operand 1 is the base+offset
// memory operand. Symbols are not accepted as the offset operand.
func encodeFormOffset(view bitView32, d *isa.Descriptor, inst statement.Instruction, line int) error {
	if len(inst.Operands) != 2 {
		return diag.MakeError(diag.ErrOperandCountMismatch, "line %d: %s takes 2 operands, got %d", line, d.Mnemonic, len(inst.Operands))
	}

	rt, err := operandRegister(inst, 0, line, d.Mnemonic)
	if err != nil {
		return err
	}

	mem := inst.Operands[1]
	if mem.Kind != statement.OperandRegister {
		return diag.MakeError(diag.ErrBadOperandType, "line %d: %s operand must be a base register with an offset", line, d.Mnemonic)
	}
	if !mem.HasOffset {
		return diag.MakeError(diag.ErrBadOperandType, "line %d: %s operand must carry an offset, e.g. 4($sp)", line, d.Mnemonic)
	}

	base, err := isa.ParseRegister(mem.Register)
	if err != nil {
		return diag.MakeError(diag.ErrBadOperandType, "line %d: %v", line, err)
	}

	view.write(d.OpcodeBits, 26, 6)
	view.write(base, 21, 5)
	view.write(rt, 16, 5)
	view.write(uint32(uint16(mem.Offset)), 0, 16)
	return nil
}

func operandRegister(inst statement.Instruction, idx, line int, mnemonic string) (uint32, error) {
	if idx >= len(inst.Operands) {
		return 0, diag.MakeError(diag.ErrOperandCountMismatch, "line %d: %s missing operand %d", line, mnemonic, idx)
	}
	op := inst.Operands[idx]
	if op.Kind != statement.OperandRegister {
		return 0, diag.MakeError(diag.ErrBadOperandType, "line %d: %s operand %d must be a register", line, mnemonic, idx)
	}
	return isa.ParseRegister(op.Register)
}

// resolveImmediate16 derives the 16-bit immediate field and, for symbol
// operands, a relocation request (§4.4 Form I). The relocation type
// depends on the operand's mask: high/low route to the LA/LI half
// relocations macro expansion set up; none is the default branch/PC16
// case.
func resolveImmediate16(op statement.Operand, line int, pc uint32, symbols *symtab.Table) (uint32, *section.RelocationRequest, error) {
	switch op.Kind {
	case statement.OperandNumericLiteral:
		return op.Numeric & 0xFFFF, nil, nil
	case statement.OperandSymbol:
		sym, _, ok := symbols.Lookup(op.Symbol)
		if !ok {
			return 0, nil, diag.MakeError(diag.ErrMissingSymbol, "line %d: undefined symbol %q", line, op.Symbol)
		}
		relType := section.RelPC16
		switch op.Flags.Mask {
		case statement.MaskHigh:
			relType = section.RelHi16
		case statement.MaskLow:
			relType = section.RelLo16
		}
		reloc := &section.RelocationRequest{SymbolName: op.Symbol, Offset: pc, Type: relType}
		return sym.Offset & 0xFFFF, reloc, nil
	default:
		return 0, nil, diag.MakeError(diag.ErrBadOperandType, "line %d: immediate operand must be a numeric literal or symbol", line)
	}
}
