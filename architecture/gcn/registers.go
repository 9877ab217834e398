package gcn

import "strconv"

// RegKind distinguishes an absent range from a physical one from a
// variable-relative one, so that "no register" needs no magic start/end
// sentinel.
type RegKind int

const (
	RegNone RegKind = iota
	RegPhysical
	RegVirtual
	// RegInlineConst marks a synthetic range whose Start is an inline-
	// constant selector rather than a register index.
	RegInlineConst
)

const (
	vectorBase  = 256
	specialBase = 512
)

// RegRange is the result of parsing a register operand: a half-open
// [Start, End) interval, optionally relative to a named variable's own
// allocation rather than the physical register file.
type RegRange struct {
	Kind  RegKind
	Start uint16
	End   uint16
	Var   *RegVarRef
}

// Empty reports whether the range carries no register at all.
func (r RegRange) Empty() bool {
	return r.Kind == RegNone
}

// Width returns End-Start, the number of registers spanned.
func (r RegRange) Width() int {
	return int(r.End) - int(r.Start)
}

type specialReg struct {
	start, end uint16
}

// specialRegisters maps the singleton names shared across every encoding
// family to fixed offsets above the vector pool. One table for all
// dispatchers; none of them hardcodes a singleton.
var specialRegisters = map[string]specialReg{
	"vcc":             {specialBase, specialBase + 2},
	"vcc_lo":          {specialBase, specialBase + 1},
	"vcc_hi":          {specialBase + 1, specialBase + 2},
	"exec":            {specialBase + 2, specialBase + 4},
	"exec_lo":         {specialBase + 2, specialBase + 3},
	"exec_hi":         {specialBase + 3, specialBase + 4},
	"m0":              {specialBase + 4, specialBase + 5},
	"scc":             {specialBase + 5, specialBase + 6},
	"flat_scratch":    {specialBase + 6, specialBase + 8},
	"flat_scratch_lo": {specialBase + 6, specialBase + 7},
	"flat_scratch_hi": {specialBase + 7, specialBase + 8},
}

func parseDecimal(cur *Cursor) (int, bool) {
	start := cur.Pos
	for !cur.AtEnd() && cur.Peek() >= '0' && cur.Peek() <= '9' {
		cur.Pos++
	}
	if cur.Pos == start {
		return 0, false
	}
	n, err := strconv.Atoi(cur.Line[start:cur.Pos])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseBracketRange parses "[a:b]" at the cursor, returning start,end with
// end exclusive (the source notation "a:b" is inclusive on both ends).
func parseBracketRange(cur *Cursor) (start, end int, ok bool) {
	save := cur.Pos
	if !cur.SkipCharAndSpaces('[') {
		return 0, 0, false
	}
	a, aok := parseDecimal(cur)
	if !aok {
		cur.Pos = save
		return 0, 0, false
	}
	cur.SkipSpaces()
	if !cur.SkipCharAndSpaces(':') {
		cur.Pos = save
		return 0, 0, false
	}
	b, bok := parseDecimal(cur)
	if !bok {
		cur.Pos = save
		return 0, 0, false
	}
	cur.SkipSpaces()
	if !cur.SkipCharAndSpaces(']') {
		cur.Pos = save
		return 0, 0, false
	}
	return a, b + 1, true
}

func checkWidth(cur *Cursor, sink ErrorSink, width, regsNum int) bool {
	if regsNum != 0 && width != regsNum {
		if sink != nil {
			sink.Error(cur, newError(cur, WidthMismatch, "register range width does not match slot"))
		}
		return false
	}
	return true
}

func checkAlignment(cur *Cursor, sink ErrorSink, start, width int) bool {
	if width > 1 && start%width != 0 {
		if sink != nil {
			sink.Error(cur, newError(cur, MisalignedRegister, "register range start is misaligned for its width"))
		}
		return false
	}
	return true
}

// ParseRegRange parses a register operand at the cursor: a plain physical
// register, a bracketed physical range, a special singleton, or a named
// register-variable reference with an optional sub-range.
//
// regsNum is the width the calling slot requires (0 means "any width").
// When required is false and the cursor does not look like a register at
// all, ParseRegRange returns an empty range with ok=true and does not
// touch the error sink; the caller falls through to literal parsing.
func ParseRegRange(cur *Cursor, fam GPUFamily, regsNum int, required bool, vars RegVarTable, sink ErrorSink) (RegRange, bool) {
	save := cur.Pos
	cur.SkipSpaces()

	if special, ok := parseSpecialRegister(cur); ok {
		width := int(special.end - special.start)
		if !checkWidth(cur, sink, width, regsNum) {
			return RegRange{}, false
		}
		return RegRange{Kind: RegPhysical, Start: special.start, End: special.end}, true
	}

	if rng, ok, matched := parsePhysicalRegister(cur, fam, regsNum, sink); matched {
		return rng, ok
	}

	if rng, ok, matched := parseRegVarReference(cur, vars, regsNum, sink); matched {
		return rng, ok
	}

	cur.Pos = save
	if required {
		reportMissingRegister(cur, vars, sink)
		return RegRange{}, false
	}
	return RegRange{}, true
}

// reportMissingRegister classifies why a required register slot could not
// be filled: an identifier that names neither a register nor a declared
// variable gets UnknownRegVar (or UnknownRegister when no variable table
// is in play, so it cannot be a variable reference); anything else is a
// plain missing-token error.
func reportMissingRegister(cur *Cursor, vars RegVarTable, sink ErrorSink) {
	if sink == nil {
		return
	}
	probe := *cur
	probe.SkipSpaces()
	if ident := probe.PeekIdent(); ident != "" {
		if vars != nil {
			sink.Error(cur, newError(cur, UnknownRegVar, "undefined register variable: "+ident))
		} else {
			sink.Error(cur, newError(cur, UnknownRegister, "unknown register: "+ident))
		}
		return
	}
	sink.Error(cur, newError(cur, ExpectedToken, "expected a register"))
}

func parseSpecialRegister(cur *Cursor) (specialReg, bool) {
	save := cur.Pos
	ident := cur.PeekIdent()
	if ident == "" {
		return specialReg{}, false
	}
	if sp, ok := specialRegisters[ident]; ok {
		cur.Pos += len(ident)
		return sp, true
	}
	cur.Pos = save
	return specialReg{}, false
}

// parsePhysicalRegister handles `sN`, `s[a:b]`, `vN`, `v[a:b]`. matched
// reports whether the cursor looked like this form at all (so the caller
// knows whether to keep trying other forms on failure).
func parsePhysicalRegister(cur *Cursor, fam GPUFamily, regsNum int, sink ErrorSink) (RegRange, bool, bool) {
	save := cur.Pos
	if cur.AtEnd() {
		return RegRange{}, false, false
	}
	kind := cur.Peek()
	if kind != 's' && kind != 'v' {
		return RegRange{}, false, false
	}
	cur.Pos++

	var start, end int
	if a, b, ok := parseBracketRange(cur); ok {
		start, end = a, b
	} else if n, ok := parseDecimal(cur); ok {
		start, end = n, n+1
	} else {
		cur.Pos = save
		return RegRange{}, false, false
	}

	width := end - start
	if end <= start {
		sink.Error(cur, newError(cur, WidthMismatch, "register range is inverted or empty"))
		return RegRange{}, false, true
	}
	if !checkWidth(cur, sink, width, regsNum) {
		return RegRange{}, false, true
	}
	if !checkAlignment(cur, sink, start, width) {
		return RegRange{}, false, true
	}

	if kind == 's' {
		max := ConstraintsFor(fam).MaxScalarIndex
		if end-1 > max {
			sink.Error(cur, newError(cur, OutOfPool, "scalar register index exceeds architecture's pool"))
			return RegRange{}, false, true
		}
		return RegRange{Kind: RegPhysical, Start: uint16(start), End: uint16(end)}, true, true
	}

	return RegRange{Kind: RegPhysical, Start: uint16(vectorBase + start), End: uint16(vectorBase + end)}, true, true
}

// parseRegVarReference handles a named register-variable reference, with an
// optional sub-range applied to the variable's own allocation.
func parseRegVarReference(cur *Cursor, vars RegVarTable, regsNum int, sink ErrorSink) (RegRange, bool, bool) {
	save := cur.Pos
	ident := cur.PeekIdent()
	if ident == "" {
		return RegRange{}, false, false
	}

	if vars == nil {
		cur.Pos = save
		return RegRange{}, false, false
	}
	desc, ok := vars.Lookup(ident)
	if !ok {
		return RegRange{}, false, false
	}
	cur.Pos += len(ident)

	start, end := 0, desc.Size
	if a, b, ok := parseBracketRange(cur); ok {
		start, end = a, b
	}

	width := end - start
	if end <= start || end > desc.Size {
		sink.Error(cur, newError(cur, WidthMismatch, "register variable sub-range is inverted or out of bounds"))
		return RegRange{}, false, true
	}
	if !checkWidth(cur, sink, width, regsNum) {
		return RegRange{}, false, true
	}

	kind := VarScalar
	if desc.Kind == VarVector {
		kind = VarVector
	}
	return RegRange{
		Kind:  RegVirtual,
		Start: uint16(start),
		End:   uint16(end),
		Var:   &RegVarRef{Name: ident, Kind: kind, Size: desc.Size},
	}, true, true
}
