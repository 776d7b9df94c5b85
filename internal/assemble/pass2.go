package assemble

import (
	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/encode"
	"github.com/mipsas/mipsas/internal/section"
	"github.com/mipsas/mipsas/internal/statement"
	"github.com/mipsas/mipsas/internal/symtab"
)

// pass2 resets every section's program counter to 0, then walks the
// statement stream again, encoding and appending entities exactly as
// §4.3 describes, finally invoking the relocation populator.
func pass2(statements []statement.Statement, sections []*section.Section, symbols *symtab.Table) error {
	for _, s := range sections {
		s.ResetPC()
	}

	current := section.IdxText

	for _, s := range statements {
		switch s.Kind {
		case statement.KindEmpty:
			continue

		case statement.KindDirective:
			if s.Directive.Tag.IsSectionSelector() {
				current = sectionSelectorIndex(s.Directive.Tag)
				continue
			}
			if s.Directive.Tag == statement.DirAlign || s.Directive.Tag == statement.DirGlobal {
				continue // layout-only, never encoded
			}
			entity, err := encode.Directive(s, symbols)
			if err != nil {
				return err
			}
			if entity.Size() > 0 {
				sections[current].Append(entity)
			}

		case statement.KindInstruction:
			entity, err := encode.Instruction(s, symbols, sections[current].PC)
			if err != nil {
				return err
			}
			sections[current].Append(entity)

		default:
			return diag.MakeError(diag.ErrSectionEntityFailure, "line %d: unrecognized statement kind during pass 2", s.Line)
		}
	}

	return encode.PopulateRelocations(sections, symbols)
}
