package vm

// SelectorTable interns selector names to numeric IDs for fast lookup.
//
// Selectors are message names like "plus:", "asString", "ifTrue:ifFalse:".
// Interning them when primitives and user methods are installed lets VTable
// lookup index a slice instead of hashing strings on every send.
//
// The table is owned by one VM and is not safe for concurrent writers.
type SelectorTable struct {
	byName map[string]int
	byID   []string
}

// NewSelectorTable creates a new empty selector table.
func NewSelectorTable() *SelectorTable {
	return &SelectorTable{
		byName: make(map[string]int),
		byID:   make([]string, 0, 64),
	}
}

// Intern returns the ID for a selector name, creating a new ID if needed.
func (st *SelectorTable) Intern(name string) int {
	if id, ok := st.byName[name]; ok {
		return id
	}
	id := len(st.byID)
	st.byName[name] = id
	st.byID = append(st.byID, name)
	return id
}

// Lookup returns the ID for a selector name, or -1 if it was never interned.
// A selector nobody interned cannot have a method anywhere.
func (st *SelectorTable) Lookup(name string) int {
	if id, ok := st.byName[name]; ok {
		return id
	}
	return -1
}

// Name returns the selector name for an ID, or "" if invalid.
func (st *SelectorTable) Name(id int) string {
	if id < 0 || id >= len(st.byID) {
		return ""
	}
	return st.byID[id]
}

// Len returns the number of interned selectors.
func (st *SelectorTable) Len() int {
	return len(st.byID)
}
