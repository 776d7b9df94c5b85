// Package section implements the section model from spec §3: the fixed
// initial section list, each section's running program counter and
// accumulated size, and the encoded-entity list a section owns.
//
// The host toolchain's own program writer (pkg/hw/cpu/mc/programfile.go,
// programfilewriter.go) models output as an ordered list of named
// containers (functions, globals) each owning an ordered list of
// children (instructions, data); this package generalizes that shape
// from "named container of text-form assembly lines" to "named ELF
// section owning a byte-producing entity list", the same owning
// relationship with the same append-only discipline during pass 2.
package section

// Type mirrors the ELF32 sh_type values this repository's sections can
// take (§3); encoding them as the literal ELF constant means the
// serializer (internal/objfile) never needs a translation table.
type Type uint32

const (
	TypeNull     Type = 0
	TypeProgbits Type = 1
	TypeSymtab   Type = 2
	TypeStrtab   Type = 3
	TypeNobits   Type = 8
	TypeRel      Type = 9
)

// Flags mirrors the ELF32 sh_flags bits sections in this model use.
type Flags uint32

const (
	FlagWrite     Flags = 0x1
	FlagAlloc     Flags = 0x2
	FlagExecInstr Flags = 0x4
	FlagInfoLink  Flags = 0x40
)

// RelocationRequest is the in-memory precursor to an Elf32_Rel record
// (§3 GLOSSARY): recorded by the instruction encoder, resolved to a
// concrete symbol index by the relocation populator (§4.6).
type RelocationRequest struct {
	SymbolName string
	Offset     uint32 // offset within the owning section
	Type       RelocType
}

// RelocType is the closed set of relocation types this assembler emits
// (§3, §6).
type RelocType uint32

const (
	RelNone  RelocType = 0
	Rel26    RelocType = 4  // R_MIPS_26
	RelHi16  RelocType = 5  // R_MIPS_HI16
	RelLo16  RelocType = 6  // R_MIPS_LO16
	RelPC16  RelocType = 10 // R_MIPS_PC16
	Rel32    RelocType = 2  // R_MIPS_32, used only by the §9 open question about .word symbol operands
)

func (t RelocType) String() string {
	switch t {
	case RelNone:
		return "R_MIPS_NONE"
	case Rel32:
		return "R_MIPS_32"
	case Rel26:
		return "R_MIPS_26"
	case RelHi16:
		return "R_MIPS_HI16"
	case RelLo16:
		return "R_MIPS_LO16"
	case RelPC16:
		return "R_MIPS_PC16"
	}
	return "R_MIPS_UNKNOWN"
}

// Entity is an immutable bag of bytes with optional relocation requests,
// appended to a section during pass 2 or the serializer (§3 GLOSSARY
// "Encoded entity").
type Entity struct {
	Address      uint32
	Bytes        []byte
	Relocations  []RelocationRequest
}

// Size returns the entity's byte length.
func (e Entity) Size() int { return len(e.Bytes) }

// Section is one element of the fixed initial section list (§3).
type Section struct {
	Index int
	Name  string
	Type  Type
	Flags Flags

	// PC is the running program counter: the byte offset of the next
	// encoded entity within the section. Pass 1 advances it from 0;
	// pass 2 resets it and advances it again through Append (§4.2, §4.3).
	PC uint32

	// Size is the accumulated content size, advanced identically to PC
	// by Append; kept distinct per spec §3. Pass 1 advances only PC, so
	// the two track the same value once pass 2 completes.
	Size uint32

	Link int
	Info int

	Entities []Entity

	// FileOffset is set by the serializer (§4.7 step 5) once section
	// bytes have been written to the output stream.
	FileOffset uint32
	// NameOffset is this section's offset into .shstrtab, set by the
	// serializer (§4.7 step 2).
	NameOffset uint32
}

// Append adds an encoded entity to the section, advancing PC and Size by
// its byte length (§3 "Lifecycles").
func (s *Section) Append(e Entity) {
	s.Entities = append(s.Entities, e)
	s.PC += uint32(e.Size())
	s.Size += uint32(e.Size())
}

// ResetPC zeroes the program counter at the start of pass 2 (§4.3 step
// 1), leaving Size alone — pass 1 advances only PC, so Size is still 0
// when pass 2 starts appending entities.
func (s *Section) ResetPC() {
	s.PC = 0
}

// Names of the fixed initial sections (§3 table), also doubling as the
// canonical index into NewList's returned slice.
const (
	IdxNull = iota
	IdxText
	IdxRelText
	IdxData
	IdxRelData
	IdxBss
	IdxSymtab
	IdxShstrtab
	IdxStrtab

	NumSections
)

// NewList constructs the fixed initial section list from §3's table,
// with the cross-links (.symtab.link, .rel.text.info, etc.) set exactly
// once, immediately after construction, as the spec requires.
func NewList() []*Section {
	sections := make([]*Section, NumSections)

	sections[IdxNull] = &Section{Index: IdxNull, Name: "", Type: TypeNull}
	sections[IdxText] = &Section{Index: IdxText, Name: ".text", Type: TypeProgbits, Flags: FlagAlloc | FlagExecInstr}
	sections[IdxRelText] = &Section{Index: IdxRelText, Name: ".rel.text", Type: TypeRel, Flags: FlagInfoLink}
	sections[IdxData] = &Section{Index: IdxData, Name: ".data", Type: TypeProgbits, Flags: FlagAlloc | FlagWrite}
	sections[IdxRelData] = &Section{Index: IdxRelData, Name: ".rel.data", Type: TypeRel, Flags: FlagInfoLink}
	sections[IdxBss] = &Section{Index: IdxBss, Name: ".bss", Type: TypeNobits, Flags: FlagAlloc | FlagWrite}
	sections[IdxSymtab] = &Section{Index: IdxSymtab, Name: ".symtab", Type: TypeSymtab, Flags: FlagAlloc}
	sections[IdxShstrtab] = &Section{Index: IdxShstrtab, Name: ".shstrtab", Type: TypeStrtab, Flags: FlagAlloc}
	sections[IdxStrtab] = &Section{Index: IdxStrtab, Name: ".strtab", Type: TypeStrtab}

	sections[IdxSymtab].Link = IdxStrtab
	sections[IdxRelText].Info = IdxText
	sections[IdxRelData].Info = IdxData
	sections[IdxRelText].Link = IdxSymtab
	sections[IdxRelData].Link = IdxSymtab

	return sections
}

// ByName returns the index of the section with the given name, and
// whether it was found. Used to resolve "the sibling .rel section" in
// §4.6's relocation populator.
func ByName(sections []*Section, name string) (int, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s.Index, true
		}
	}
	return 0, false
}
