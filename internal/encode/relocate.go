package encode

import (
	"encoding/binary"

	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/section"
	"github.com/mipsas/mipsas/internal/symtab"
	"github.com/mipsas/mipsas/internal/xslice"
)

// PopulateRelocations implements §4.6: after pass 2, walk every
// section's entities, and for each recorded relocation request append a
// fresh 8-byte Elf32_Rel-shaped entity to that section's sibling
// ".rel"+name section.
func PopulateRelocations(sections []*section.Section, symbols *symtab.Table) error {
	for _, s := range sections {
		withRelocations := xslice.Filter(s.Entities, func(e section.Entity) bool {
			return len(e.Relocations) > 0
		})
		if len(withRelocations) == 0 {
			continue
		}

		relSectionIdx, ok := section.ByName(sections, ".rel"+s.Name)
		if !ok {
			return diag.MakeError(diag.ErrMissingSection, "section %q has relocations but no sibling .rel section", s.Name)
		}
		relSection := sections[relSectionIdx]

		for _, e := range withRelocations {
			for _, req := range e.Relocations {
				symIndex, ok := symbols.IndexOf(req.SymbolName)
				if !ok {
					return diag.MakeError(diag.ErrMissingSymbol, "relocation references undefined symbol %q", req.SymbolName)
				}
				record := make([]byte, 8)
				binary.LittleEndian.PutUint32(record[0:4], req.Offset)
				rInfo := (uint32(symIndex) << 8) | uint32(req.Type)
				binary.LittleEndian.PutUint32(record[4:8], rInfo)
				relSection.Append(section.Entity{Bytes: record})
			}
		}
	}
	return nil
}
