package assemble

import (
	"io"

	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/macro"
	"github.com/mipsas/mipsas/internal/parser"
	"github.com/mipsas/mipsas/internal/section"
	"github.com/mipsas/mipsas/internal/statement"
	"github.com/mipsas/mipsas/internal/symtab"
)

// Result bundles everything the ELF serializer needs: the finished
// section list (with entities and relocations appended) and the
// populated symbol table.
type Result struct {
	Sections []*section.Section
	Symbols  *symtab.Table
	// Statements is the final, macro-expanded stream — kept only for
	// diagnostics since §5 considers it dead once pass 2 completes
	// (dump-ir does not use it: it runs the parser and macro expander
	// itself).
	Statements []statement.Statement
}

// Assemble runs the full pipeline described in §2: parse, expand,
// layout, encode, populate relocations. It owns section and symbol
// table construction, matching §5's single-threaded, run-to-completion
// scheduling model — every stage finishes before the next starts, and
// the first error aborts the remaining stages.
func Assemble(source io.Reader) (*Result, error) {
	statements, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	expanded, err := macro.Expand(statements)
	if err != nil {
		return nil, diag.MakeError(diag.ErrMacroExpansionFailure, "%v", err)
	}

	sections := section.NewList()
	symbols := symtab.New()

	if err := pass1(expanded, sections, symbols); err != nil {
		return nil, err
	}

	if err := pass2(expanded, sections, symbols); err != nil {
		return nil, err
	}

	return &Result{Sections: sections, Symbols: symbols, Statements: expanded}, nil
}
