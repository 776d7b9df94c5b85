package assemble

import (
	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/statement"
)

// statementSize implements §4.2's statement size table. Section-selector
// directives and any statement layout assigns zero bytes return 0, not
// an error. It fails only for an unrecognized statement kind or
// directive, or for .fill/.skip/.space operands of the wrong count or
// kind.
func statementSize(s statement.Statement) (uint32, error) {
	switch s.Kind {
	case statement.KindEmpty:
		return 0, nil
	case statement.KindInstruction:
		return 4, nil
	case statement.KindDirective:
		return directiveSize(s)
	}
	return 0, diag.MakeError(diag.ErrStatementSizeFailure, "line %d: unrecognized statement kind", s.Line)
}

func directiveSize(s statement.Statement) (uint32, error) {
	d := s.Directive
	switch d.Tag {
	case statement.DirAlign, statement.DirData, statement.DirBss, statement.DirText, statement.DirSize, statement.DirGlobal:
		return 0, nil

	case statement.DirByte:
		return uint32(len(d.Operands)), nil
	case statement.DirShort:
		return uint32(len(d.Operands)) * 2, nil
	case statement.DirLong, statement.DirWord:
		return uint32(len(d.Operands)) * 4, nil

	case statement.DirAscii:
		var total uint32
		for _, op := range d.Operands {
			total += uint32(len(op.Text))
		}
		return total, nil

	case statement.DirAsciz, statement.DirString:
		var total uint32
		for _, op := range d.Operands {
			total += uint32(len(op.Text)) + 1
		}
		return total, nil

	case statement.DirFill:
		return fillSize(s)

	case statement.DirSkip, statement.DirSpace:
		return spaceSize(s)
	}

	return 0, diag.MakeError(diag.ErrStatementSizeFailure, "line %d: unrecognized directive %s", s.Line, d.Tag)
}

// fillSize implements ".fill count, size" (size capped at 8).
func fillSize(s statement.Statement) (uint32, error) {
	ops := s.Directive.Operands
	if len(ops) != 2 || ops[0].Kind != statement.OperandNumericLiteral || ops[1].Kind != statement.OperandNumericLiteral {
		return 0, diag.MakeError(diag.ErrOperandCountMismatch, "line %d: .fill requires 2 numeric operands (count, size)", s.Line)
	}
	count := ops[0].Numeric
	size := ops[1].Numeric
	if size > 8 {
		size = 8
	}
	return count * size, nil
}

// spaceSize implements ".skip n" / ".space n".
func spaceSize(s statement.Statement) (uint32, error) {
	ops := s.Directive.Operands
	if len(ops) != 1 || ops[0].Kind != statement.OperandNumericLiteral {
		return 0, diag.MakeError(diag.ErrOperandCountMismatch, "line %d: %s requires a single numeric operand", s.Line, s.Directive.Tag)
	}
	return ops[0].Numeric, nil
}
