// Package symtab implements the ordered, index-addressed symbol table
// described in spec §3: entry 0 is always the mandatory null symbol, and
// lookups are first-match-wins rather than deduplicated — duplicate
// labels are a documented open question (§9) this implementation
// resolves as "first definition wins", the same way the teacher
// toolchain's own symbol resolver (pkg/hw/cpu/mc/symbolresolver.go)
// leaves the first map insertion standing rather than rejecting the
// later one.
package symtab

// Symbol is {name, section-reference, offset-within-section}. Section 0
// doubles as "no section" because section list index 0 is always the
// reserved NULL section (§3), so a Symbol's zero value is exactly the
// null symbol spec §3 mandates at table index 0.
type Symbol struct {
	Name    string
	Section int
	Offset  uint32
}

// Table is the ordered symbol sequence. Index 0 is always the null
// symbol; callers never construct a Table directly.
type Table struct {
	symbols []Symbol
}

// New returns a table pre-populated with the mandatory null symbol.
func New() *Table {
	return &Table{symbols: []Symbol{{}}}
}

// Insert appends a new symbol and returns its index. It never
// deduplicates against an existing name — see the package doc comment.
func (t *Table) Insert(name string, section int, offset uint32) int {
	t.symbols = append(t.symbols, Symbol{Name: name, Section: section, Offset: offset})
	return len(t.symbols) - 1
}

// Lookup returns the first symbol with the given name, its index, and
// whether it was found.
func (t *Table) Lookup(name string) (Symbol, int, bool) {
	for i, s := range t.symbols {
		if s.Name == name {
			return s, i, true
		}
	}
	return Symbol{}, 0, false
}

// IndexOf returns the index of the first symbol with the given name.
func (t *Table) IndexOf(name string) (int, bool) {
	_, i, ok := t.Lookup(name)
	return i, ok
}

// All returns the full ordered symbol sequence, including the null
// symbol at index 0.
func (t *Table) All() []Symbol {
	return t.symbols
}

// Len returns the total number of symbols, including the null symbol.
func (t *Table) Len() int {
	return len(t.symbols)
}
