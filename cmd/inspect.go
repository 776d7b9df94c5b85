package cmd

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"

	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/objfile"
	"github.com/mipsas/mipsas/internal/section"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <object-file>",
	Short: "Browse an assembled object file's sections and symbols",
	Long: `inspect opens an already-assembled ELF object file and presents its
section headers, symbol table and relocations in a terminal browser:
selecting a section on the left lists the symbols defined in it and the
relocations targeting it on the right.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return diag.MakeError(diag.ErrFileFailure, "opening %q: %v", args[0], err)
	}

	summary, err := objfile.Read(raw)
	if err != nil {
		return diag.MakeError(diag.ErrFileFailure, "reading %q: %v", args[0], err)
	}

	app := tview.NewApplication()

	sections := tview.NewList().ShowSecondaryText(false)
	for _, s := range summary.Sections {
		name := s.Name
		if name == "" {
			name = "(null)"
		}
		sections.AddItem(fmt.Sprintf("%-12s size=%-6d off=0x%x", name, s.Size, s.Offset), "", 0, nil)
	}

	symbols := tview.NewTextView().SetDynamicColors(true)
	symbols.SetBorder(true).SetTitle("symbols")
	sections.SetBorder(true).SetTitle("sections")

	relocations := tview.NewTextView().SetDynamicColors(true)
	relocations.SetBorder(true).SetTitle("relocations")

	refreshDetails := func(sectionIndex int) {
		symbols.Clear()
		for _, sym := range summary.Symbols {
			if int(sym.Shndx) != sectionIndex {
				continue
			}
			fmt.Fprintf(symbols, "[yellow]%s[-] = 0x%x\n", sym.Name, sym.Value)
		}

		relocations.Clear()
		for _, rel := range summary.Relocations {
			if int(rel.TargetSectionIdx) != sectionIndex {
				continue
			}
			symName := "?"
			if int(rel.SymbolIndex) < len(summary.Symbols) {
				symName = summary.Symbols[rel.SymbolIndex].Name
			}
			fmt.Fprintf(relocations, "[yellow]0x%04x[-] %-13s sym=%s (%s)\n",
				rel.Offset, section.RelocType(rel.Type), symName, rel.RelSectionName)
		}
	}
	sections.SetChangedFunc(func(index int, _ string, _ string, _ rune) {
		refreshDetails(index)
	})
	if len(summary.Sections) > 0 {
		refreshDetails(0)
	}

	details := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(symbols, 0, 1, false).
		AddItem(relocations, 0, 1, false)

	flex := tview.NewFlex().
		AddItem(sections, 0, 1, true).
		AddItem(details, 0, 2, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	return app.SetRoot(flex, true).Run()
}
