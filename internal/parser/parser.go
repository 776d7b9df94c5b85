// Package parser turns assembly source text into the statement stream
// described in spec §3. The grammar itself sits outside this system's
// specified core (the host ajxs-elf-as toolchain's own input.c /
// arch/mips/statement.c treat lexing as a thin line-oriented front end
// feeding the real assembler); this is a from-scratch, line-oriented
// hand-written scanner in that same spirit, not a generalization of any
// teacher file.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/isa"
	"github.com/mipsas/mipsas/internal/statement"
)

// Parse reads every line from r and returns the statement stream (§6
// "Input format"). Each line yields at most one statement; the macro
// expander (internal/macro) is solely responsible for the
// one-line-to-many-statements expansion §6 mentions.
func Parse(r io.Reader) ([]statement.Statement, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var statements []statement.Statement
	var pendingLabels []string
	line := 0
	for scanner.Scan() {
		line++
		raw := stripComment(scanner.Text())
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		labels, rest := splitLabels(raw)
		pendingLabels = append(pendingLabels, labels...)
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}

		stmt, err := parseStatement(line, pendingLabels, rest)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
		pendingLabels = nil
	}
	if len(pendingLabels) > 0 {
		statements = append(statements, statement.Empty(line, pendingLabels...))
	}
	if err := scanner.Err(); err != nil {
		return nil, diag.MakeError(diag.ErrBadInput, "reading line %d: %v", line, err)
	}
	return statements, nil
}

// stripComment removes a trailing '#' comment, honoring string literals
// so a '#' inside "..." is not treated as the start of a comment.
func stripComment(line string) string {
	inString := false
	for i, r := range line {
		switch r {
		case '"':
			inString = !inString
		case '#':
			if !inString {
				return line[:i]
			}
		}
	}
	return line
}

// splitLabels peels off zero or more leading "name:" labels and returns
// the remaining text.
func splitLabels(line string) ([]string, string) {
	var labels []string
	for {
		line = strings.TrimSpace(line)
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			break
		}
		candidate := strings.TrimSpace(line[:idx])
		if candidate == "" || strings.ContainsAny(candidate, " \t\"") {
			break
		}
		labels = append(labels, candidate)
		line = line[idx+1:]
	}
	return labels, line
}

func parseStatement(line int, labels []string, rest string) (statement.Statement, error) {
	mnemonic, operandText := splitMnemonic(rest)
	operands, err := parseOperands(operandText)
	if err != nil {
		return statement.Statement{}, diag.MakeError(diag.ErrBadInput, "line %d: %v", line, err)
	}

	if strings.HasPrefix(mnemonic, ".") {
		tag, ok := parseDirectiveTag(strings.ToUpper(mnemonic[1:]))
		if !ok {
			return statement.Statement{}, diag.MakeError(diag.ErrBadInput, "line %d: unknown directive %q", line, mnemonic)
		}
		return statement.Direct(line, tag, operands, labels...), nil
	}

	op, ok := isa.ParseMnemonic(strings.ToUpper(mnemonic))
	if !ok {
		return statement.Statement{}, diag.MakeError(diag.ErrBadOpcode, "line %d: unknown mnemonic %q", line, mnemonic)
	}
	return statement.Instr(line, op, operands, labels...), nil
}

func splitMnemonic(text string) (string, string) {
	text = strings.TrimSpace(text)
	idx := strings.IndexAny(text, " \t")
	if idx < 0 {
		return text, ""
	}
	return text[:idx], text[idx+1:]
}

var directiveNames = map[string]statement.DirectiveTag{
	"ALIGN":  statement.DirAlign,
	"ASCII":  statement.DirAscii,
	"ASCIZ":  statement.DirAsciz,
	"STRING": statement.DirString,
	"BYTE":   statement.DirByte,
	"SHORT":  statement.DirShort,
	"LONG":   statement.DirLong,
	"WORD":   statement.DirWord,
	"FILL":   statement.DirFill,
	"SKIP":   statement.DirSkip,
	"SPACE":  statement.DirSpace,
	"SIZE":   statement.DirSize,
	"GLOBAL": statement.DirGlobal,
	"TEXT":   statement.DirText,
	"DATA":   statement.DirData,
	"BSS":    statement.DirBss,
}

func parseDirectiveTag(name string) (statement.DirectiveTag, bool) {
	tag, ok := directiveNames[name]
	return tag, ok
}

// parseOperands splits a comma-separated operand list, honoring string
// literals and base+offset memory operands like "4($sp)".
func parseOperands(text string) ([]statement.Operand, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	fields := splitOperandFields(text)
	operands := make([]statement.Operand, 0, len(fields))
	for _, f := range fields {
		op, err := parseOperand(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		operands = append(operands, op)
	}
	return operands, nil
}

func splitOperandFields(text string) []string {
	var fields []string
	depth := 0
	inString := false
	start := 0
	for i, r := range text {
		switch r {
		case '"':
			inString = !inString
		case '(':
			if !inString {
				depth++
			}
		case ')':
			if !inString {
				depth--
			}
		case ',':
			if !inString && depth == 0 {
				fields = append(fields, text[start:i])
				start = i + 1
			}
		}
	}
	fields = append(fields, text[start:])
	return fields
}

func parseOperand(text string) (statement.Operand, error) {
	if text == "" {
		return statement.Operand{}, fmt.Errorf("empty operand")
	}

	if strings.HasPrefix(text, "\"") {
		return statement.Str([]byte(strings.Trim(text, "\""))), nil
	}

	if strings.HasPrefix(text, "$") {
		return statement.Reg(text), nil
	}

	if idx := strings.IndexByte(text, '('); idx >= 0 && strings.HasSuffix(text, ")") {
		offsetText := strings.TrimSpace(text[:idx])
		baseText := strings.TrimSpace(text[idx+1 : len(text)-1])
		base, err := parseOperand(baseText)
		if err != nil {
			return statement.Operand{}, err
		}
		var offset int64
		if offsetText != "" {
			offset, err = strconv.ParseInt(offsetText, 0, 16)
			if err != nil {
				return statement.Operand{}, fmt.Errorf("bad offset %q: %w", offsetText, err)
			}
		}
		return base.WithOffsetBase(int16(offset)), nil
	}

	if n, err := strconv.ParseUint(text, 0, 32); err == nil {
		return statement.Imm(uint32(n)), nil
	}
	if n, err := strconv.ParseInt(text, 0, 32); err == nil {
		return statement.Imm(uint32(n)), nil
	}

	return statement.Sym(text), nil
}
