package encode

import (
	"encoding/binary"

	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/section"
	"github.com/mipsas/mipsas/internal/statement"
	"github.com/mipsas/mipsas/internal/symtab"
)

// Directive encodes one directive statement's payload (§4.5). Layout-only
// directives (.align, .bss, .data, .global, .text) never reach here;
// internal/assemble routes them to pass 1's section-switch handling
// instead and it is a bug in the driver, not this function, if one
// arrives.
func Directive(s statement.Statement, symbols *symtab.Table) (section.Entity, error) {
	d := s.Directive
	switch d.Tag {
	case statement.DirAscii:
		return asciiEntity(d.Operands, false), nil
	case statement.DirAsciz, statement.DirString:
		return asciiEntity(d.Operands, true), nil
	case statement.DirWord, statement.DirSpace:
		return wordEntity(d.Operands, symbols)
	case statement.DirByte, statement.DirShort, statement.DirLong, statement.DirFill, statement.DirSkip, statement.DirSize:
		// Layout contributes size for these; the core spec emits no bytes
		// for them (§4.5 "present as stubs").
		return section.Entity{}, nil
	default:
		return section.Entity{}, diag.MakeError(diag.ErrCodegenFailure, "line %d: %s is layout-only and never reaches the encoder", s.Line, d.Tag)
	}
}

func asciiEntity(operands []statement.Operand, terminate bool) section.Entity {
	var buf []byte
	for _, op := range operands {
		buf = append(buf, op.Text...)
		if terminate {
			buf = append(buf, 0)
		}
	}
	return section.Entity{Bytes: buf}
}

// wordEntity implements ".word / .space: emit n_operands little-endian
// 32-bit words" (§4.5) literally, including grouping .space with .word
// rather than with the zero-fill ".skip"/".size" stub list — the spec's
// own pass-1 size table lists ".space n" as "n bytes", which disagrees
// with this encoder rule when .space is given one operand whose numeric
// value isn't meant as a word to emit. This implementation follows §4.5's
// encoder text as written rather than silently reconciling the two
// tables.
func wordEntity(operands []statement.Operand, symbols *symtab.Table) (section.Entity, error) {
	buf := make([]byte, 0, 4*len(operands))
	var relocs []section.RelocationRequest

	for i, op := range operands {
		var value uint32
		switch op.Kind {
		case statement.OperandNumericLiteral:
			value = op.Numeric
		case statement.OperandSymbol:
			sym, _, ok := symbols.Lookup(op.Symbol)
			if !ok {
				return section.Entity{}, diag.MakeError(diag.ErrMissingSymbol, "undefined symbol %q", op.Symbol)
			}
			value = sym.Offset
			// spec §9: the source design omits recording a relocation here
			// even though a real linker needs R_MIPS_32; left unrecorded to
			// match that documented (likely buggy) behavior rather than
			// silently fixing it.
			_ = i
		default:
			return section.Entity{}, diag.MakeError(diag.ErrBadOperandType, "word operand must be a numeric literal or symbol")
		}
		word := make([]byte, 4)
		binary.LittleEndian.PutUint32(word, value)
		buf = append(buf, word...)
	}

	return section.Entity{Bytes: buf, Relocations: relocs}, nil
}
