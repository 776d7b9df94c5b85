package isa

import "fmt"

// Form identifies which of the four MIPS32r6 instruction encodings
// (§4.4) a descriptor uses.
type Form uint

const (
	FormR Form = iota
	FormI
	FormJ
	FormOffset
)

func (f Form) String() string {
	switch f {
	case FormR:
		return "R"
	case FormI:
		return "I"
	case FormJ:
		return "J"
	case FormOffset:
		return "offset"
	}
	panic("unreachable")
}

// Descriptor carries the fixed binary field values for one opcode, taken
// directly from the §4.4 opcode table. Operand-to-field mapping for each
// Form is fixed by the ISA, not by this table, and lives in
// internal/encode; this table only supplies the constants that vary per
// mnemonic (opcode/func/sa, or "deprecated").
type Descriptor struct {
	Opcode     Opcode
	Mnemonic   string
	Form       Form
	OpcodeBits uint32 // primary 6-bit opcode field
	FuncBits   uint32 // R-type function field
	Sa         uint32 // fixed shift amount (MUL/MUH/MULU/MUHU); 0 otherwise
	FixedSa    bool   // true when Sa is a fixed constant rather than operand-supplied (SLL)
	Deprecated bool   // true for MULT/MULTU: recognized mnemonic, encoding always fails
}

var descriptors map[Opcode]*Descriptor

func reg(op Opcode, mnemonic string, funcBits uint32, sa uint32, fixedSa bool) *Descriptor {
	return &Descriptor{Opcode: op, Mnemonic: mnemonic, Form: FormR, OpcodeBits: 0, FuncBits: funcBits, Sa: sa, FixedSa: fixedSa}
}

func imm(op Opcode, mnemonic string, opcodeBits uint32) *Descriptor {
	return &Descriptor{Opcode: op, Mnemonic: mnemonic, Form: FormI, OpcodeBits: opcodeBits}
}

func offset(op Opcode, mnemonic string, opcodeBits uint32) *Descriptor {
	return &Descriptor{Opcode: op, Mnemonic: mnemonic, Form: FormOffset, OpcodeBits: opcodeBits}
}

func jump(op Opcode, mnemonic string, opcodeBits uint32) *Descriptor {
	return &Descriptor{Opcode: op, Mnemonic: mnemonic, Form: FormJ, OpcodeBits: opcodeBits}
}

func deprecated(op Opcode, mnemonic string) *Descriptor {
	return &Descriptor{Opcode: op, Mnemonic: mnemonic, Deprecated: true}
}

func init() {
	table := []*Descriptor{
		reg(ADD, "ADD", 0x20, 0, true),
		reg(ADDU, "ADDU", 0x21, 0, true),
		reg(SUB, "SUB", 0x22, 0, true),
		reg(SUBU, "SUBU", 0x23, 0, true),
		reg(AND, "AND", 0x24, 0, true),
		reg(OR, "OR", 0x25, 0, true),
		reg(MUL, "MUL", 0x18, 2, true),
		reg(MUH, "MUH", 0x18, 3, true),
		reg(MULU, "MULU", 0x19, 2, true),
		reg(MUHU, "MUHU", 0x19, 3, true),
		reg(SLL, "SLL", 0x00, 0, false), // sa comes from the operand
		reg(NOP, "NOP", 0x00, 0, true),
		reg(JR, "JR", 0x09, 0, true),
		reg(JALR, "JALR", 0x09, 0, true),
		reg(SYSCALL, "SYSCALL", 0x0C, 0, true),

		imm(ADDI, "ADDI", 0x08),
		imm(ADDIU, "ADDIU", 0x09),
		imm(ANDI, "ANDI", 0x0C),
		imm(ORI, "ORI", 0x0D),
		imm(BEQ, "BEQ", 0x04),
		imm(BNE, "BNE", 0x05),
		imm(BGEZ, "BGEZ", 0x01),
		imm(BAL, "BAL", 0x01),
		imm(LUI, "LUI", 0x0F),

		offset(LB, "LB", 0x20),
		offset(LBU, "LBU", 0x24),
		offset(LW, "LW", 0x23),
		offset(SB, "SB", 0x28),
		offset(SH, "SH", 0x29),
		offset(SW, "SW", 0x2B),

		jump(J, "J", 0x02),
		jump(JAL, "JAL", 0x03),

		deprecated(MULT, "MULT"),
		deprecated(MULTU, "MULTU"),
	}

	descriptors = make(map[Opcode]*Descriptor, len(table))
	for _, d := range table {
		descriptors[d.Opcode] = d
	}
}

// Describe returns the binary-encoding descriptor for op, or false if op
// is a pseudo-instruction that macro expansion rewrites away (LA, LI,
// MOVE), a branch-only mnemonic with no encoding (BEQZ, BLEZ; encoding
// one fails), or otherwise unknown.
func Describe(op Opcode) (*Descriptor, bool) {
	d, ok := descriptors[op]
	return d, ok
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s (form %v, opcode 0x%02x)", d.Mnemonic, d.Form, d.OpcodeBits)
}
