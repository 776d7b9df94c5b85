// Package cmd wires the cobra CLI described in spec §6: a root command
// implementing the "as-mips <input> [-o|--output FILE] [-v|--verbose]"
// contract, plus the ambient subcommands SPEC_FULL.md adds (version,
// inspect, repl, dump-ir). Config loading follows the teacher repo's own
// cmd/root.go initConfig pattern almost verbatim, retargeted at
// ".as-mips.yaml" via internal/config.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mipsas/mipsas/internal/assemble"
	"github.com/mipsas/mipsas/internal/config"
	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/logging"
	"github.com/mipsas/mipsas/internal/objfile"
)

var (
	cfgFile     string
	outputPath  string
	verboseFlag bool
	noColorFlag bool
	logFilePath string
	cfg         config.Config
)

// RootCmd is "as-mips <input>": parse, macro-expand, assemble, and
// serialize an ELF32 relocatable object file.
var RootCmd = &cobra.Command{
	Use:   "as-mips <input>",
	Short: "A two-pass assembler for the MIPS32r6 instruction subset",
	Long: `as-mips assembles a single MIPS32r6 source file into a relocatable,
32-bit little-endian ELF object file (EM_MIPS), suitable for linking by
a standard ELF-aware linker.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.as-mips.yaml or $HOME/.as-mips.yaml)")
	RootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output object file path (default ./out.elf, or config's default_output)")
	RootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose diagnostics")
	RootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colorized diagnostics")
	RootCmd.PersistentFlags().StringVar(&logFilePath, "log-file", "", "also write detailed JSON-formatted logs to this file")
	RootCmd.AddCommand(versionCmd, inspectCmd, replCmd, dumpIRCmd)
}

// initConfig loads ".as-mips.yaml" the way the teacher's own
// cmd/root.go initConfig does, then lets it supply defaults for any
// flag the user didn't explicitly set — flags always win over config,
// config always wins over the built-in fallback (§6's CLI contract).
func initConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		diag.Emit(os.Stderr, "config", err)
		return
	}
	cfg = loaded

	if !RootCmd.Flags().Changed("output") {
		if cfg.DefaultOutput != "" {
			outputPath = cfg.DefaultOutput
		} else {
			outputPath = "./out.elf"
		}
	}
	if !RootCmd.PersistentFlags().Changed("verbose") && cfg.Verbose {
		verboseFlag = true
	}

	colorEnabled := cfg.Color && !noColorFlag
	diag.SetColorEnabled(colorEnabled)
}

// Execute runs the root command, exiting nonzero on any error per §6
// ("Exit code 0 on success, nonzero on any error").
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAssemble(cmd *cobra.Command, args []string) error {
	var extra io.Writer
	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			diag.Emit(os.Stderr, "log-file", err)
			return diag.MakeError(diag.ErrFileFailure, "opening log file %q: %v", logFilePath, err)
		}
		defer f.Close()
		extra = f
	}
	logger := logging.New(verboseFlag, extra)

	input := args[0]
	f, err := os.Open(input)
	if err != nil {
		diag.Emit(os.Stderr, "open", err)
		return diag.MakeError(diag.ErrFileFailure, "opening %q: %v", input, err)
	}
	defer f.Close()

	result, err := assemble.Assemble(f)
	if err != nil {
		diag.Emit(os.Stderr, "assemble", err)
		return err
	}
	logger.Debug("assembled", "sections", len(result.Sections), "symbols", result.Symbols.Len())

	bytes, err := objfile.Write(result.Sections, result.Symbols)
	if err != nil {
		diag.Emit(os.Stderr, "serialize", err)
		return err
	}

	if err := os.WriteFile(outputPath, bytes, 0o644); err != nil {
		diag.Emit(os.Stderr, "write", err)
		return diag.MakeError(diag.ErrFileFailure, "writing %q: %v", outputPath, err)
	}

	if verboseFlag {
		fmt.Fprintf(os.Stderr, "as-mips: wrote %s (%d bytes)\n", outputPath, len(bytes))
	}
	return nil
}
