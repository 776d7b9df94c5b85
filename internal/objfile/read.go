package objfile

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mipsas/mipsas/internal/section"
)

// SectionSummary is a read-back view of one ELF section header, used by
// the inspect subcommand's TUI and by round-trip tests validating §8
// property 6.
type SectionSummary struct {
	Name   string
	Type   uint32
	Flags  uint32
	Offset uint32
	Size   uint32
	Link   uint32
	Info   uint32
}

// SymbolSummary is a read-back view of one ELF symbol table entry.
type SymbolSummary struct {
	Name  string
	Value uint32
	Shndx uint16
}

// RelocationSummary is a read-back view of one Elf32_Rel entry (§4.6):
// the section it was found in (e.g. ".rel.text"), the section it
// patches (sh_info of the owning ".rel"+name section), the byte offset
// within that target section, the symbol table index, and the
// relocation type (R_MIPS_26/HI16/LO16/PC16, §3).
type RelocationSummary struct {
	RelSectionName   string
	TargetSectionIdx uint32
	Offset           uint32
	SymbolIndex      uint32
	Type             uint32
}

// Summary is everything the inspect subcommand needs to browse an
// assembled object file without re-running the assembler.
type Summary struct {
	Header      header32
	Sections    []SectionSummary
	Symbols     []SymbolSummary
	Relocations []RelocationSummary
}

// Read parses raw into a Summary. It is the read-side counterpart of
// Write, kept in the same package since both sides agree on the exact
// same struct layouts.
func Read(raw []byte) (*Summary, error) {
	r := bytes.NewReader(raw)

	var hdr header32
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("reading ELF header: %w", err)
	}
	if hdr.Ident[0] != 0x7f || hdr.Ident[1] != 'E' || hdr.Ident[2] != 'L' || hdr.Ident[3] != 'F' {
		return nil, fmt.Errorf("not an ELF file")
	}

	shdrs := make([]shdr32, hdr.Shnum)
	for i := range shdrs {
		offset := int64(hdr.Shoff) + int64(i)*int64(hdr.Shentsize)
		if _, err := r.Seek(offset, 0); err != nil {
			return nil, fmt.Errorf("seeking to section header %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &shdrs[i]); err != nil {
			return nil, fmt.Errorf("reading section header %d: %w", i, err)
		}
	}

	shstrtab := readBytesAt(raw, shdrs[hdr.Shstrndx].Offset, shdrs[hdr.Shstrndx].Size)

	summary := &Summary{Header: hdr}
	var symtabShdr, strtabShdr *shdr32
	type relSection struct {
		name string
		shdr *shdr32
	}
	var relSections []relSection
	for i := range shdrs {
		s := &shdrs[i]
		name := cString(shstrtab, s.Name)
		summary.Sections = append(summary.Sections, SectionSummary{
			Name: name, Type: s.Type, Flags: s.Flags, Offset: s.Offset, Size: s.Size, Link: s.Link, Info: s.Info,
		})
		if name == ".symtab" {
			symtabShdr = s
		}
		if name == ".strtab" {
			strtabShdr = s
		}
		if s.Type == uint32(section.TypeRel) {
			relSections = append(relSections, relSection{name: name, shdr: s})
		}
	}

	for _, rs := range relSections {
		relBytes := readBytesAt(raw, rs.shdr.Offset, rs.shdr.Size)
		count := len(relBytes) / relSize
		for i := 0; i < count; i++ {
			rec := relBytes[i*relSize : (i+1)*relSize]
			offset := binary.LittleEndian.Uint32(rec[0:4])
			info := binary.LittleEndian.Uint32(rec[4:8])
			summary.Relocations = append(summary.Relocations, RelocationSummary{
				RelSectionName:   rs.name,
				TargetSectionIdx: rs.shdr.Info,
				Offset:           offset,
				SymbolIndex:      info >> 8,
				Type:             info & 0xFF,
			})
		}
	}

	if symtabShdr != nil && strtabShdr != nil {
		strtab := readBytesAt(raw, strtabShdr.Offset, strtabShdr.Size)
		symBytes := readBytesAt(raw, symtabShdr.Offset, symtabShdr.Size)
		count := len(symBytes) / symSize
		for i := 0; i < count; i++ {
			var sym sym32
			sr := bytes.NewReader(symBytes[i*symSize : (i+1)*symSize])
			if err := binary.Read(sr, binary.LittleEndian, &sym); err != nil {
				return nil, fmt.Errorf("reading symbol %d: %w", i, err)
			}
			summary.Symbols = append(summary.Symbols, SymbolSummary{
				Name: cString(strtab, sym.Name), Value: sym.Value, Shndx: sym.Shndx,
			})
		}
	}

	return summary, nil
}

func readBytesAt(raw []byte, offset, size uint32) []byte {
	if int(offset+size) > len(raw) {
		return nil
	}
	return raw[offset : offset+size]
}

func cString(buf []byte, offset uint32) string {
	if int(offset) >= len(buf) {
		return ""
	}
	end := offset
	for end < uint32(len(buf)) && buf[end] != 0 {
		end++
	}
	return string(buf[offset:end])
}
