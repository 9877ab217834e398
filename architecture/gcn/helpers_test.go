package gcn_test

import (
	"encoding/binary"

	"github.com/halvard/gcnasm/architecture/gcn"
)

// fakeSection is a minimal in-memory gcn.Section for exercising the
// dispatchers without a real output-section implementation.
type fakeSection struct {
	bytes  []byte
	usages []gcn.RegVarUsage
	fixups []gcn.Fixup
}

func (s *fakeSection) Offset() int { return len(s.bytes) }

func (s *fakeSection) AppendBytes(b []byte) {
	s.bytes = append(s.bytes, b...)
}

func (s *fakeSection) RecordUsage(u gcn.RegVarUsage) {
	s.usages = append(s.usages, u)
}

func (s *fakeSection) RecordFixup(f gcn.Fixup) {
	s.fixups = append(s.fixups, f)
}

func (s *fakeSection) word(i int) uint32 {
	return binary.LittleEndian.Uint32(s.bytes[i*4 : i*4+4])
}

// fakeVars is a map-backed gcn.RegVarTable for `.regvar`-style lookups.
type fakeVars map[string]gcn.RegVarDescriptor

func (v fakeVars) Lookup(name string) (gcn.RegVarDescriptor, bool) {
	d, ok := v[name]
	return d, ok
}

// fakeSink collects diagnostics so tests can assert on ErrorKind without
// caring how a real driver renders them.
type fakeSink struct {
	errors   []*gcn.Error
	warnings []string
}

func (s *fakeSink) Error(cur *gcn.Cursor, err *gcn.Error) {
	s.errors = append(s.errors, err)
}

func (s *fakeSink) Warning(cur *gcn.Cursor, msg string) {
	s.warnings = append(s.warnings, msg)
}

func (s *fakeSink) lastKind() gcn.ErrorKind {
	if len(s.errors) == 0 {
		return 0
	}
	return s.errors[len(s.errors)-1].Kind
}
