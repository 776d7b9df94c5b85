package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/ir"
	"github.com/mipsas/mipsas/internal/macro"
	"github.com/mipsas/mipsas/internal/parser"
)

var dumpIRCmd = &cobra.Command{
	Use:   "dump-ir <input>",
	Short: "Print the macro-expanded statement stream as YAML",
	Long: `dump-ir runs only the parser and macro expander, then prints the
resulting statement stream as YAML. It is a debugging aid: it never
runs layout, encoding, or serialization, and never writes an object
file.`,
	Args: cobra.ExactArgs(1),
	RunE: runDumpIR,
}

func runDumpIR(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return diag.MakeError(diag.ErrFileFailure, "opening %q: %v", args[0], err)
	}
	defer f.Close()

	statements, err := parser.Parse(f)
	if err != nil {
		return err
	}

	expanded, err := macro.Expand(statements)
	if err != nil {
		return diag.MakeError(diag.ErrMacroExpansionFailure, "%v", err)
	}

	out, err := ir.Dump(expanded)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
