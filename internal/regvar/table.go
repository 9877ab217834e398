// Package regvar implements the `.regvar` symbol table the core assembler
// consults. The driver populates it as `.regvar name:s:N` / `:v:N`
// directives are encountered; the core only ever reads it.
package regvar

import "github.com/halvard/gcnasm/architecture/gcn"

// Table is a concrete, map-backed gcn.RegVarTable.
type Table struct {
	vars map[string]gcn.RegVarDescriptor
}

// New returns an empty register-variable table.
func New() *Table {
	return &Table{vars: make(map[string]gcn.RegVarDescriptor)}
}

// Define declares name as a register variable of the given kind and size.
// Redeclaring a name overwrites its previous descriptor; `.regvar` is a
// rebindable directive within a single pass.
func (t *Table) Define(name string, kind gcn.RegVarKind, size int) {
	t.vars[name] = gcn.RegVarDescriptor{Kind: kind, Size: size}
}

// Lookup implements gcn.RegVarTable.
func (t *Table) Lookup(name string) (gcn.RegVarDescriptor, bool) {
	d, ok := t.vars[name]
	return d, ok
}
