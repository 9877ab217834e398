package gcn

// Section is the external collaborator that owns the emitted byte buffer,
// the usage log, and the fixup list for the current output section. The
// core only ever appends to it.
type Section interface {
	// Offset returns the section-relative byte offset the next instruction
	// will be written at.
	Offset() int
	// AppendBytes appends an instruction's encoded bytes, in little-endian
	// order, at the section's current offset.
	AppendBytes(b []byte)
	// RecordUsage appends one register-usage entry.
	RecordUsage(u RegVarUsage)
	// RecordFixup appends one deferred-resolution descriptor.
	RecordFixup(f Fixup)
}
