// Package section implements the output-section collaborator the core
// assembler (architecture/gcn) writes into: an append-only byte buffer, a
// register-usage log, and a fixup list, one instance per assembled
// section.
package section

import "github.com/halvard/gcnasm/architecture/gcn"

// Section is the concrete, in-memory gcn.Section used by the CLI driver.
// Bytes, usage records, and fixups are appended in source order and never
// rewritten, matching the core's "append-only" ownership contract.
type Section struct {
	name   string
	bytes  []byte
	usages []gcn.RegVarUsage
	fixups []gcn.Fixup
}

// New returns an empty section with the given name (used only for
// diagnostics and multi-section output; the core never inspects it).
func New(name string) *Section {
	return &Section{name: name}
}

// Name returns the section's name, e.g. ".text".
func (s *Section) Name() string { return s.name }

// Offset returns the byte offset the next instruction will land at.
func (s *Section) Offset() int { return len(s.bytes) }

// AppendBytes appends an instruction's encoded bytes.
func (s *Section) AppendBytes(b []byte) {
	s.bytes = append(s.bytes, b...)
}

// RecordUsage appends one register-usage entry.
func (s *Section) RecordUsage(u gcn.RegVarUsage) {
	s.usages = append(s.usages, u)
}

// RecordFixup appends one deferred bit-field patch descriptor.
func (s *Section) RecordFixup(f gcn.Fixup) {
	s.fixups = append(s.fixups, f)
}

// Bytes returns the section's emitted byte stream so far. The caller must
// not mutate the returned slice.
func (s *Section) Bytes() []byte { return s.bytes }

// Usages returns the section's usage log in emission order, which is
// ascending offset order by construction.
func (s *Section) Usages() []gcn.RegVarUsage { return s.usages }

// Fixups returns the section's deferred-resolution descriptors, for the
// out-of-scope expression-resolution pass to consume.
func (s *Section) Fixups() []gcn.Fixup { return s.fixups }

// PadTo appends zero bytes until the section reaches offset n, modelling
// a `.space`/`.align` directive advancing the offset without encoding an
// instruction.
func (s *Section) PadTo(n int) {
	for len(s.bytes) < n {
		s.bytes = append(s.bytes, 0)
	}
}
