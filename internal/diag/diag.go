// Package diag implements the uniform result taxonomy threaded through
// every stage of the assembler pipeline (§7): a closed set of sentinel
// errors, a wrapping helper that attaches the offending construct to one
// of them, and a boundary printer that emits the single diagnostic line
// the driver is allowed to show the user before unwinding.
package diag

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// These sentinels are the closed error taxonomy from spec §7. Every
// fallible function in this repository returns an error wrapping one of
// these sentinels via MakeError, so callers can branch with errors.Is
// instead of string-matching messages.
var (
	ErrBadInput              = errors.New("bad input")
	ErrBadAllocation         = errors.New("bad allocation")
	ErrBadOperandType        = errors.New("bad operand type")
	ErrOperandCountMismatch  = errors.New("operand count mismatch")
	ErrBadOpcode             = errors.New("bad opcode")
	ErrDeprecatedOpcode      = errors.New("deprecated opcode")
	ErrMissingSection        = errors.New("missing section")
	ErrMissingSymbol         = errors.New("missing symbol")
	ErrCodegenFailure        = errors.New("codegen failure")
	ErrFileFailure           = errors.New("file failure")
	ErrMacroExpansionFailure = errors.New("macro expansion failure")
	ErrPreprocessingFailure  = errors.New("preprocessing failure")
	ErrSectionEntityFailure  = errors.New("section entity failure")
	ErrSymbolEntityFailure   = errors.New("symbol entity failure")
	ErrStatementSizeFailure  = errors.New("statement size failure")
	ErrBadFunctionArgs       = errors.New("bad function args")
)

// MakeError wraps one taxonomy sentinel with a formatted detail message,
// in the same shape as the host toolchain's own MakeError/makeError
// helpers: the sentinel stays reachable through errors.Is/errors.As via
// %w, and the detail carries whatever construct (mnemonic, symbol name,
// line number) made this particular call fail.
func MakeError(kind error, detail string, args ...any) error {
	return fmt.Errorf("%w: "+detail, append([]any{kind}, args...)...)
}

// colorEnabled mirrors SPEC_FULL.md's Diagnostic coloring section:
// color defaults on, but is suppressed by --no-color or a "color:
// false" config entry regardless of whether stderr is a terminal. The
// CLI layer calls SetColorEnabled once during cobra's OnInitialize,
// before any Emit call.
var colorEnabled = true

// SetColorEnabled records the CLI's resolved --no-color/config "color"
// decision. Emit still additionally suppresses color when w is not a
// terminal, so this only ever narrows, never widens, when color shows.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// Emit prints the single boundary diagnostic line §7 mandates: one line
// naming the offending construct, colorized red when w is a terminal
// and color has not been suppressed by --no-color/config. It never
// wraps or repeats the error; callers have already attached every
// detail worth showing via MakeError.
func Emit(w io.Writer, stage string, err error) {
	line := fmt.Sprintf("as-mips: %s: %v", stage, err)

	c := color.New(color.FgRed)
	c.EnableColor()
	if !colorEnabled {
		c.DisableColor()
	}
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		c.DisableColor()
	}
	c.Fprintln(w, line)
}
