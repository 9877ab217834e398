// Package errsink implements the caller-supplied diagnostic collector the
// core calls into. It never panics and never aborts the pass itself; the
// driver decides what an accumulated error count means for the overall
// run, and the cmd layer decides how diagnostics get printed.
package errsink

import (
	"fmt"

	"github.com/halvard/gcnasm/architecture/gcn"
)

// Diagnostic is one recorded error or warning, carrying enough to print a
// source-anchored message (line + column) without the core needing to know
// how the driver renders it.
type Diagnostic struct {
	Line    int
	Column  int
	Kind    gcn.ErrorKind
	Message string
	Warning bool
}

func (d Diagnostic) String() string {
	severity := "error"
	if d.Warning {
		severity = "warning"
	}
	if d.Kind != 0 {
		return fmt.Sprintf("line %d:%d: %s: %s: %s", d.Line, d.Column, severity, d.Kind, d.Message)
	}
	return fmt.Sprintf("line %d:%d: %s: %s", d.Line, d.Column, severity, d.Message)
}

// Sink collects diagnostics for the current line, which the driver attaches
// the current line number to before appending. It is the in-process
// gcn.ErrorSink implementation the CLI driver supplies to gcn.Assembler.
type Sink struct {
	line  int
	diags []Diagnostic
}

// New returns an empty sink.
func New() *Sink {
	return &Sink{}
}

// SetLine tells the sink which source line subsequent Error/Warning calls
// belong to. The driver calls this once per line before dispatching.
func (s *Sink) SetLine(line int) {
	s.line = line
}

// Error implements gcn.ErrorSink.
func (s *Sink) Error(cur *gcn.Cursor, err *gcn.Error) {
	s.diags = append(s.diags, Diagnostic{
		Line:    s.line,
		Column:  cur.Pos + 1,
		Kind:    err.Kind,
		Message: err.Msg,
	})
}

// Warning implements gcn.ErrorSink.
func (s *Sink) Warning(cur *gcn.Cursor, msg string) {
	s.diags = append(s.diags, Diagnostic{
		Line:    s.line,
		Column:  cur.Pos + 1,
		Message: msg,
		Warning: true,
	})
}

// Diagnostics returns every diagnostic recorded so far, in emission order.
func (s *Sink) Diagnostics() []Diagnostic { return s.diags }

// HasErrors reports whether any non-warning diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if !d.Warning {
			return true
		}
	}
	return false
}
