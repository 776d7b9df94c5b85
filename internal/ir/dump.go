// Package ir serializes the macro-expanded statement stream to YAML for
// the dump-ir debugging subcommand (SPEC_FULL.md ambient stack),
// grounded on the teacher repo's own debug-dump tooling
// (pkg/hw/cpu/mc/programfiledump.go) which exists purely to let a
// developer eyeball an intermediate representation before handing it to
// the next stage.
package ir

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mipsas/mipsas/internal/statement"
	"github.com/mipsas/mipsas/internal/xslice"
)

// statementView is a YAML-friendly projection of statement.Statement:
// the isa.Opcode/DirectiveTag enums are rendered as their mnemonic
// strings instead of raw integers.
type statementView struct {
	Line        int          `yaml:"line"`
	Labels      []string     `yaml:"labels,omitempty"`
	Kind        string       `yaml:"kind"`
	Opcode      string       `yaml:"opcode,omitempty"`
	Directive   string       `yaml:"directive,omitempty"`
	Operands    []string     `yaml:"operands,omitempty"`
}

// Dump renders the expanded statement stream as YAML.
func Dump(statements []statement.Statement) ([]byte, error) {
	views := make([]statementView, 0, len(statements))
	for _, s := range statements {
		v := statementView{Line: s.Line, Labels: s.Labels, Kind: s.Kind.String()}
		switch s.Kind {
		case statement.KindInstruction:
			v.Opcode = s.Instruction.Opcode.String()
			v.Operands = renderOperands(s.Instruction.Operands)
		case statement.KindDirective:
			v.Directive = s.Directive.Tag.String()
			v.Operands = renderOperands(s.Directive.Operands)
		}
		views = append(views, v)
	}
	return yaml.Marshal(views)
}

func renderOperands(operands []statement.Operand) []string {
	return xslice.Map(operands, renderOperand)
}

func renderOperand(op statement.Operand) string {
	switch op.Kind {
	case statement.OperandRegister:
		if op.HasOffset {
			return strconv.Itoa(int(op.Offset)) + "(" + op.Register + ")"
		}
		return op.Register
	case statement.OperandNumericLiteral:
		return "0x" + strconv.FormatUint(uint64(op.Numeric), 16)
	case statement.OperandStringLiteral:
		return string(op.Text)
	case statement.OperandSymbol:
		suffix := ""
		switch op.Flags.Mask {
		case statement.MaskHigh:
			suffix = "@hi"
		case statement.MaskLow:
			suffix = "@lo"
		}
		return op.Symbol + suffix
	}
	return "?"
}
