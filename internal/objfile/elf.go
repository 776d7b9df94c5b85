// Package objfile implements the §4.7 ELF serializer: it turns a
// finished section list and symbol table into the bytes of a
// relocatable, 32-bit, little-endian ELF object file (EM_MIPS).
//
// Grounded on the host's own encoder (original_source's as/elf.c /
// arch/mips/elf.c, which fill one Elf32_Shdr per in-memory section) and
// on the pack's own from-scratch ELF writers (xyproto-flapc's
// elf_complete.go, which streams a header then section/segment bytes
// through encoding/binary into a bytes.Buffer); this package follows
// that same build-then-stream shape, specialized to ELFCLASS32/ET_REL.
package objfile

import (
	"bytes"
	"encoding/binary"

	"github.com/mipsas/mipsas/internal/diag"
	"github.com/mipsas/mipsas/internal/section"
	"github.com/mipsas/mipsas/internal/symtab"
)

const (
	elfClass32  = 1
	elfDataLSB  = 2
	elfVersion  = 1
	elfOSABISYSV = 0
	etREL       = 1
	emMIPS      = 8
	elfFlagsMIPS = 0x90000400

	ehdrSize = 52
	shdrSize = 40
	symSize  = 16
	relSize  = 8
)

// header32 mirrors Elf32_Ehdr field-for-field.
type header32 struct {
	Ident     [16]byte
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint32
	Phoff     uint32
	Shoff     uint32
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

// shdr32 mirrors Elf32_Shdr field-for-field.
type shdr32 struct {
	Name      uint32
	Type      uint32
	Flags     uint32
	Addr      uint32
	Offset    uint32
	Size      uint32
	Link      uint32
	Info      uint32
	AddrAlign uint32
	EntSize   uint32
}

// sym32 mirrors Elf32_Sym field-for-field.
type sym32 struct {
	Name  uint32
	Value uint32
	Size  uint32
	Info  uint8
	Other uint8
	Shndx uint16
}

// Write serializes sections and symbols into an ELF32 relocatable
// object file, following §4.7's five numbered steps in order.
func Write(sections []*section.Section, symbols *symtab.Table) ([]byte, error) {
	shstrtab, ok := section.ByName(sections, ".shstrtab")
	if !ok {
		return nil, diag.MakeError(diag.ErrMissingSection, "no .shstrtab section")
	}
	strtabIdx, ok := section.ByName(sections, ".strtab")
	if !ok {
		return nil, diag.MakeError(diag.ErrMissingSection, "no .strtab section")
	}
	symtabIdx, ok := section.ByName(sections, ".symtab")
	if !ok {
		return nil, diag.MakeError(diag.ErrMissingSection, "no .symtab section")
	}

	populateShstrtab(sections, shstrtab)
	populateSymtab(symbols, sections[symtabIdx], sections[strtabIdx])

	var totalSize uint32
	for _, s := range sections {
		totalSize += s.Size
	}
	shoff := uint32(ehdrSize) + totalSize

	var out bytes.Buffer

	hdr := header32{
		Type:      etREL,
		Machine:   emMIPS,
		Version:   elfVersion,
		Shoff:     shoff,
		Flags:     elfFlagsMIPS,
		Ehsize:    ehdrSize,
		Shentsize: shdrSize,
		Shnum:     uint16(len(sections)),
		Shstrndx:  uint16(shstrtab),
	}
	hdr.Ident[0] = 0x7f
	hdr.Ident[1] = 'E'
	hdr.Ident[2] = 'L'
	hdr.Ident[3] = 'F'
	hdr.Ident[4] = elfClass32
	hdr.Ident[5] = elfDataLSB
	hdr.Ident[6] = elfVersion
	hdr.Ident[7] = elfOSABISYSV

	if err := binary.Write(&out, binary.LittleEndian, &hdr); err != nil {
		return nil, diag.MakeError(diag.ErrFileFailure, "writing ELF header: %v", err)
	}

	offset := uint32(ehdrSize)
	for _, s := range sections {
		s.FileOffset = offset
		if s.Type == section.TypeNobits {
			continue
		}
		for _, e := range s.Entities {
			out.Write(e.Bytes)
		}
		offset += s.Size
	}

	for _, s := range sections {
		entSize := uint32(0)
		switch s.Type {
		case section.TypeSymtab:
			entSize = symSize
		case section.TypeRel:
			entSize = relSize
		}
		shdr := shdr32{
			Name:      s.NameOffset,
			Type:      uint32(s.Type),
			Flags:     uint32(s.Flags),
			Offset:    s.FileOffset,
			Size:      s.Size,
			Link:      uint32(s.Link),
			Info:      uint32(s.Info),
			EntSize:   entSize,
		}
		if err := binary.Write(&out, binary.LittleEndian, &shdr); err != nil {
			return nil, diag.MakeError(diag.ErrFileFailure, "writing section header for %q: %v", s.Name, err)
		}
	}

	return out.Bytes(), nil
}

// populateShstrtab implements §4.7 step 2: append each section's name,
// NUL-terminated, in section-list order, recording each section's
// resulting name_strtab_offset.
func populateShstrtab(sections []*section.Section, shstrtabIdx int) {
	shstrtab := sections[shstrtabIdx]
	var buf []byte
	buf = append(buf, 0) // conventional leading NUL, matching .strtab's own
	for _, s := range sections {
		s.NameOffset = uint32(len(buf))
		buf = append(buf, []byte(s.Name)...)
		buf = append(buf, 0)
	}
	shstrtab.Entities = nil
	shstrtab.Append(section.Entity{Bytes: buf})
}

// populateSymtab implements §4.7 step 3.
func populateSymtab(symbols *symtab.Table, symtabSection, strtabSection *section.Section) {
	strtabSection.Entities = nil
	symtabSection.Entities = nil

	strtab := []byte{0}
	var symtabBuf bytes.Buffer

	for _, sym := range symbols.All() {
		nameOffset := uint32(len(strtab))
		shndx := uint16(0)
		if sym.Section != 0 {
			shndx = uint16(sym.Section)
		}
		rec := sym32{Name: nameOffset, Value: sym.Offset, Shndx: shndx}
		binary.Write(&symtabBuf, binary.LittleEndian, &rec)

		strtab = append(strtab, []byte(sym.Name)...)
		strtab = append(strtab, 0)
	}

	symtabSection.Append(section.Entity{Bytes: symtabBuf.Bytes()})
	strtabSection.Append(section.Entity{Bytes: strtab})
}
