// Package isa describes the MIPS32r6 instruction subset this assembler
// targets: opcode identities, the four instruction encoding forms, the
// register file, and the descriptor table tying mnemonics to their
// binary field values. It is the machine-specific counterpart of the
// host toolchain's own pkg/hw/cpu/mc/instructions descriptor tables,
// generalized from a single flat bit-packed encoding to MIPS's four
// fixed instruction layouts (R, I, J, offset).
package isa

import (
	"fmt"

	"github.com/mipsas/mipsas/internal/xslice"
)

// Opcode identifies an instruction mnemonic. Pseudo-instructions that
// macro expansion always rewrites away before layout (LA, LI, MOVE) are
// included here so the parser and macro expander can name them; they
// never reach the encoder. BEQZ and BLEZ are likewise recognized for
// §4.1's branch-delay-slot handling but are not members of the encodable
// subset in §6 — encoding one fails with ErrBadOpcode, matching the
// spec's closed opcode table.
type Opcode uint

const (
	ADD Opcode = iota
	ADDU
	SUB
	SUBU
	AND
	OR
	MUL
	MUH
	MULU
	MUHU
	SLL
	NOP
	JR
	JALR
	SYSCALL
	ADDI
	ADDIU
	ANDI
	ORI
	BEQ
	BNE
	BGEZ
	BAL
	LUI
	LB
	LBU
	LW
	SB
	SH
	SW
	J
	JAL
	MULT
	MULTU

	// Pseudo-instructions, expanded away by internal/macro before pass 1.
	LA
	LI
	MOVE

	// Branch mnemonics recognized only for delay-slot insertion; absent
	// from the §6 encodable subset.
	BEQZ
	BLEZ

	totalOpcodes
)

var mnemonics = map[Opcode]string{
	ADD: "ADD", ADDU: "ADDU", SUB: "SUB", SUBU: "SUBU", AND: "AND", OR: "OR",
	MUL: "MUL", MUH: "MUH", MULU: "MULU", MUHU: "MUHU", SLL: "SLL", NOP: "NOP",
	JR: "JR", JALR: "JALR", SYSCALL: "SYSCALL",
	ADDI: "ADDI", ADDIU: "ADDIU", ANDI: "ANDI", ORI: "ORI",
	BEQ: "BEQ", BNE: "BNE", BGEZ: "BGEZ", BAL: "BAL", LUI: "LUI",
	LB: "LB", LBU: "LBU", LW: "LW", SB: "SB", SH: "SH", SW: "SW",
	J: "J", JAL: "JAL", MULT: "MULT", MULTU: "MULTU",
	LA: "LA", LI: "LI", MOVE: "MOVE",
	BEQZ: "BEQZ", BLEZ: "BLEZ",
}

// mnemonicToOpcode is built by inverting mnemonics, the same way the
// host toolchain's own pkg/hw/cpu/mc/opcodes.go builds its reverse
// lookup with utils.InvertedMap(mnemonics) rather than a hand-rolled
// loop.
var mnemonicToOpcode = xslice.InvertedMap(mnemonics)

func init() {
	for op := Opcode(0); op < totalOpcodes; op++ {
		if _, ok := mnemonics[op]; !ok {
			panic(fmt.Sprintf("isa: missing mnemonic entry for opcode %d", op))
		}
	}
}

// String returns the instruction's canonical mnemonic.
func (op Opcode) String() string {
	if m, ok := mnemonics[op]; ok {
		return m
	}
	return fmt.Sprintf("Opcode(%d)", uint(op))
}

// ParseMnemonic resolves an upper-case mnemonic to its Opcode; the match
// is exact, so "add" does not resolve. The parser upper-cases tokens
// before calling this, matching §6's "operand and directive tokens are
// case-insensitive".
func ParseMnemonic(mnemonic string) (Opcode, bool) {
	op, ok := mnemonicToOpcode[mnemonic]
	return op, ok
}

// IsBranchWithDelaySlot reports whether a NOP must be inserted
// immediately after this opcode during macro expansion (§4.1).
func (op Opcode) IsBranchWithDelaySlot() bool {
	switch op {
	case BAL, BEQ, BEQZ, BGEZ, BLEZ, BNE, JAL, JR:
		return true
	}
	return false
}
