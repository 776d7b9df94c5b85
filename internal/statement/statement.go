// Package statement implements the data model shared by every stage of
// the pipeline: the statement stream produced by the parser, rewritten
// by macro expansion, and consumed twice more by layout and encoding.
//
// The source this assembler is grounded on modeled a statement as an
// untagged union plus a separate tag field, and threaded the stream
// together with intrusive next pointers. Here a statement is a tagged
// sum type (Kind plus exactly one of Instruction/Directive) and the
// stream is an ordinary slice: appending for macro expansion is just a
// slice insert, and nothing needs a destructor.
package statement

import "github.com/mipsas/mipsas/internal/isa"

// Kind tags which payload, if any, a Statement carries.
type Kind uint

const (
	KindEmpty Kind = iota
	KindDirective
	KindInstruction
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindDirective:
		return "directive"
	case KindInstruction:
		return "instruction"
	}
	panic("unreachable")
}

// DirectiveTag is the closed set of assembler directives this pipeline
// understands (§4.2's statement size table, §4.5's directive encoder).
type DirectiveTag uint

const (
	DirAlign DirectiveTag = iota
	DirAscii
	DirAsciz
	DirString
	DirByte
	DirShort
	DirLong
	DirWord
	DirFill
	DirSkip
	DirSpace
	DirSize
	DirGlobal
	DirText
	DirData
	DirBss
)

func (d DirectiveTag) String() string {
	switch d {
	case DirAlign:
		return ".align"
	case DirAscii:
		return ".ascii"
	case DirAsciz:
		return ".asciz"
	case DirString:
		return ".string"
	case DirByte:
		return ".byte"
	case DirShort:
		return ".short"
	case DirLong:
		return ".long"
	case DirWord:
		return ".word"
	case DirFill:
		return ".fill"
	case DirSkip:
		return ".skip"
	case DirSpace:
		return ".space"
	case DirSize:
		return ".size"
	case DirGlobal:
		return ".global"
	case DirText:
		return ".text"
	case DirData:
		return ".data"
	case DirBss:
		return ".bss"
	}
	panic("unreachable")
}

// IsSectionSelector reports whether the directive switches the current
// section (§4.2 step 2): .text, .data, .bss.
func (d DirectiveTag) IsSectionSelector() bool {
	return d == DirText || d == DirData || d == DirBss
}

// OperandKind tags the variant of an Operand (§3).
type OperandKind uint

const (
	OperandRegister OperandKind = iota
	OperandNumericLiteral
	OperandStringLiteral
	OperandSymbol
)

func (k OperandKind) String() string {
	switch k {
	case OperandRegister:
		return "Register"
	case OperandNumericLiteral:
		return "NumericLiteral"
	case OperandStringLiteral:
		return "StringLiteral"
	case OperandSymbol:
		return "Symbol"
	}
	panic("unreachable")
}

// Mask directs the I-type encoder to emit a half-relocation instead of
// the default relocation type for the instruction's class. It is set
// only by macro expansion (§3 GLOSSARY).
type Mask uint

const (
	MaskNone Mask = iota
	MaskHigh
	MaskLow
)

func (m Mask) String() string {
	switch m {
	case MaskNone:
		return "none"
	case MaskHigh:
		return "high"
	case MaskLow:
		return "low"
	}
	panic("unreachable")
}

// OperandFlags carries the optional shift count and half-relocation mask
// an operand may be annotated with. The encoder reads only Mask; SLL
// takes its sa field from its third, numeric-literal operand.
type OperandFlags struct {
	Shift    uint8
	HasShift bool
	Mask     Mask
}

// Operand is the tagged variant described in spec §3.
type Operand struct {
	Kind OperandKind

	// Register holds the canonical register name (e.g. "$t0") when
	// Kind == OperandRegister.
	Register string

	// Numeric holds the literal value when Kind == OperandNumericLiteral.
	Numeric uint32

	// Text holds the raw bytes of a string literal when
	// Kind == OperandStringLiteral.
	Text []byte

	// Symbol holds the referenced name when Kind == OperandSymbol.
	Symbol string

	// HasOffset/Offset encode a base+offset memory operand, e.g.
	// 4($sp): Offset is the 16-bit immediate, Register is the base.
	HasOffset bool
	Offset    int16

	Flags OperandFlags
}

// Reg builds a register operand.
func Reg(name string) Operand { return Operand{Kind: OperandRegister, Register: name} }

// Imm builds a numeric-literal operand.
func Imm(value uint32) Operand { return Operand{Kind: OperandNumericLiteral, Numeric: value} }

// Str builds a string-literal operand.
func Str(text []byte) Operand { return Operand{Kind: OperandStringLiteral, Text: text} }

// Sym builds a symbol operand.
func Sym(name string) Operand { return Operand{Kind: OperandSymbol, Symbol: name} }

// WithMask returns a copy of the operand with its half-relocation mask
// set; used exclusively by macro expansion (§4.1).
func (o Operand) WithMask(m Mask) Operand {
	o.Flags.Mask = m
	return o
}

// WithOffsetBase returns a copy of a register operand turned into a
// base+offset memory operand, e.g. Reg("$sp").WithOffsetBase(4).
func (o Operand) WithOffsetBase(offset int16) Operand {
	o.HasOffset = true
	o.Offset = offset
	return o
}

// Instruction is an opcode tag plus its operand sequence (§3).
type Instruction struct {
	Opcode   isa.Opcode
	Operands []Operand
}

// Directive is a directive tag plus its operand sequence (§3).
type Directive struct {
	Tag      DirectiveTag
	Operands []Operand
}

// Statement is one element of the stream described in §3: zero or more
// labels, a kind tag, and a kind-specific payload.
type Statement struct {
	Labels []string
	Kind   Kind

	Instruction Instruction
	Directive   Directive

	Line int
}

// Empty builds a label-only or blank statement.
func Empty(line int, labels ...string) Statement {
	return Statement{Kind: KindEmpty, Labels: labels, Line: line}
}

// Instr builds an instruction statement.
func Instr(line int, op isa.Opcode, operands []Operand, labels ...string) Statement {
	return Statement{
		Kind:        KindInstruction,
		Labels:      labels,
		Line:        line,
		Instruction: Instruction{Opcode: op, Operands: operands},
	}
}

// Direct builds a directive statement.
func Direct(line int, tag DirectiveTag, operands []Operand, labels ...string) Statement {
	return Statement{
		Kind:      KindDirective,
		Labels:    labels,
		Line:      line,
		Directive: Directive{Tag: tag, Operands: operands},
	}
}
