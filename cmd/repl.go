package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/mipsas/mipsas/internal/encode"
	"github.com/mipsas/mipsas/internal/macro"
	"github.com/mipsas/mipsas/internal/parser"
	"github.com/mipsas/mipsas/internal/statement"
	"github.com/mipsas/mipsas/internal/symtab"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively encode one instruction at a time",
	Long: `repl reads one line of MIPS32r6 assembly at a time, expands any
pseudo-instruction, encodes it in isolation (program counter 0, an
empty symbol table), and prints the resulting bytes as hex. It is a
convenience for checking an encoding by hand; it never produces an
object file.`,
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	rl, err := readline.New("as-mips> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	symbols := symtab.New()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if err := replEncodeLine(rl, symbols, line); err != nil {
			fmt.Fprintln(rl.Stderr(), err)
		}
	}
}

func replEncodeLine(rl *readline.Instance, symbols *symtab.Table, line string) error {
	statements, err := parser.Parse(strings.NewReader(line))
	if err != nil {
		return err
	}

	expanded, err := macro.Expand(statements)
	if err != nil {
		return err
	}

	for _, s := range expanded {
		if s.Kind != statement.KindInstruction {
			continue
		}
		entity, err := encode.Instruction(s, symbols, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(rl.Stdout(), "%s  %s\n", s.Instruction.Opcode, hex.EncodeToString(entity.Bytes))
	}
	return nil
}
