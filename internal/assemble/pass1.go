// Package assemble implements the §4.2/§4.3 two-pass driver: layout,
// encoding, relocation population, tying together internal/statement,
// internal/section, internal/symtab, and internal/encode exactly the
// way the host toolchain's own as.c orchestrates its two assembler
// passes around a single statement list.
package assemble

import (
	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/section"
	"github.com/mipsas/mipsas/internal/statement"
	"github.com/mipsas/mipsas/internal/symtab"
)

// pass1 walks statements once, populating symbols and each section's
// program counter, per §4.2's numbered contract.
func pass1(statements []statement.Statement, sections []*section.Section, symbols *symtab.Table) error {
	current := section.IdxText

	for _, s := range statements {
		for _, label := range s.Labels {
			symbols.Insert(label, current, sections[current].PC)
		}

		if s.Kind == statement.KindDirective && s.Directive.Tag.IsSectionSelector() {
			current = sectionSelectorIndex(s.Directive.Tag)
			continue
		}

		size, err := statementSize(s)
		if err != nil {
			return err
		}
		sections[current].PC += size
	}

	return nil
}

func sectionSelectorIndex(tag statement.DirectiveTag) int {
	switch tag {
	case statement.DirText:
		return section.IdxText
	case statement.DirData:
		return section.IdxData
	case statement.DirBss:
		return section.IdxBss
	}
	panic("sectionSelectorIndex called with a non-selector tag")
}

// assertSectionSizesMatch is the §8 property-2 check exposed for tests:
// after pass 1, every section's program counter must equal the sum of
// statementSize over the statements assigned to it.
func assertSectionSizesMatch(statements []statement.Statement, sections []*section.Section) error {
	sums := make(map[int]uint32, len(sections))
	current := section.IdxText
	for _, s := range statements {
		if s.Kind == statement.KindDirective && s.Directive.Tag.IsSectionSelector() {
			current = sectionSelectorIndex(s.Directive.Tag)
			continue
		}
		size, err := statementSize(s)
		if err != nil {
			return err
		}
		sums[current] += size
	}
	for idx, want := range sums {
		if sections[idx].PC != want {
			return diag.MakeError(diag.ErrStatementSizeFailure, "section %q: program counter %d does not match statement size sum %d", sections[idx].Name, sections[idx].PC, want)
		}
	}
	return nil
}
