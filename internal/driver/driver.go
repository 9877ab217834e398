// Package driver implements the single-pass line driver that ties the
// lexical helpers (internal/asm), the register-variable table
// (internal/regvar), the output section (internal/section), and the core
// encoder (architecture/gcn) together for the CLI.
//
// Per instruction line: classify -> resolve mnemonic -> dispatch -> append
// to the current section. `.regvar`/`.gpu`/`.space` directives and labels
// are handled here, not in architecture/gcn, which never interprets
// directives.
package driver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/halvard/gcnasm/architecture/gcn"
	"github.com/halvard/gcnasm/internal/asm"
	"github.com/halvard/gcnasm/internal/errsink"
	"github.com/halvard/gcnasm/internal/regvar"
	"github.com/halvard/gcnasm/internal/section"
)

// Driver assembles one pre-processed source file into a single section.
type Driver struct {
	Family    gcn.GPUFamily
	Mnemonics gcn.MnemonicTable
	Vars      *regvar.Table
	Sink      *errsink.Sink
	Section   *section.Section

	asm *gcn.Assembler
}

// New returns a Driver defaulting to fam and the given mnemonic table,
// with fresh register-variable table, error sink, and output section.
func New(fam gcn.GPUFamily, mnemonics gcn.MnemonicTable) *Driver {
	vars := regvar.New()
	sink := errsink.New()
	sec := section.New(".text")
	d := &Driver{
		Family:    fam,
		Mnemonics: mnemonics,
		Vars:      vars,
		Sink:      sink,
		Section:   sec,
	}
	d.asm = &gcn.Assembler{Family: fam, Mnemonics: mnemonics, Vars: vars, Sink: sink}
	return d
}

// AssembleSource runs every line of source through the driver in order,
// after the comment-stripping and whitespace-trimming pre-processing
// passes (both keep every line in place, so diagnostics carry original
// line numbers). It never returns early on a per-line error: diagnostics
// accumulate in d.Sink, and the caller checks d.Sink.HasErrors() once the
// whole file has been processed. A line whose parse failed emits no bytes
// and no usage records, but later lines still assemble.
func (d *Driver) AssembleSource(source string) {
	source = asm.PreProcessingRemoveComments(source)
	source = asm.PreProcessingTrimWhitespace(source)
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		d.Sink.SetLine(i + 1)
		d.assembleLine(line)
	}
}

func (d *Driver) assembleLine(text string) {
	chars := asm.LineAnalyze(text)
	if chars.IsEmpty {
		return
	}

	if asm.IsLabel(text) {
		// Label offsets belong to the expression-resolution pass; the core
		// records only the Fixup side of a branch target, so a bare label
		// line is a no-op here.
		return
	}

	if chars.IsDirective {
		d.handleDirective(text)
		return
	}

	cur := gcn.NewCursor(text)
	mnemonic := cur.PeekIdent()
	if mnemonic == "" {
		return
	}
	cur.Pos += len(mnemonic)
	d.asm.AssembleInstruction(mnemonic, cur, d.Section)
}

// handleDirective recognises the directives the driver itself interprets:
// `.gpu <name>` switches the active architecture family, `.regvar
// name:kind:size[, ...]` populates the symbol table, and `.space <n>`
// advances the offset. Anything else is a no-op here; macro, include, and
// section directives belong to the outer tooling.
func (d *Driver) handleDirective(text string) {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, ".gpu"):
		name := strings.TrimSpace(trimmed[len(".gpu"):])
		d.Family = gcn.ParseGPUName(name)
		d.asm.Family = d.Family
	case strings.HasPrefix(trimmed, ".regvar"):
		d.handleRegVarDirective(trimmed[len(".regvar"):])
	case strings.HasPrefix(trimmed, ".space"):
		d.handleSpaceDirective(trimmed[len(".space"):])
	}
}

// handleRegVarDirective parses `name:s:N` / `name:v:N` declarations,
// comma-separated, e.g. ".regvar rax:s, rbx:s" (width defaults to 1) or
// ".regvar rax4:s:6, rbx5:s:8" (explicit width).
func (d *Driver) handleRegVarDirective(rest string) {
	for _, decl := range strings.Split(rest, ",") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.Split(decl, ":")
		if len(parts) < 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		kindTok := strings.TrimSpace(parts[1])
		size := 1
		if len(parts) >= 3 {
			if n, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
				size = n
			}
		}
		kind := gcn.VarScalar
		if kindTok == "v" {
			kind = gcn.VarVector
		}
		d.Vars.Define(name, kind, size)
	}
}

// handleSpaceDirective advances the section's offset by n bytes without
// encoding an instruction.
func (d *Driver) handleSpaceDirective(rest string) {
	rest = strings.TrimSpace(rest)
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return
	}
	d.Section.PadTo(d.Section.Offset() + n)
}

// Report renders every accumulated diagnostic, one per line.
func (d *Driver) Report() string {
	var b strings.Builder
	for _, diag := range d.Sink.Diagnostics() {
		fmt.Fprintln(&b, diag.String())
	}
	return b.String()
}
