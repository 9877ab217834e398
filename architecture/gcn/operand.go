package gcn

import "strings"

// OperandMask restricts which operand forms are legal in a given slot.
type OperandMask uint32

const (
	OpScalarReg OperandMask = 1 << iota
	OpScalarSource
	OpVectorReg
	OpLDS
	OpVOP3SrcMods
	OpVOP3Neg
	OpOnlyInlineConsts
	OpFloat16
	OpAllowLiteral
)

// Operand is a parsed positional operand: exactly one of Range (a
// register, inline constant, or LDS token) or a true literal value.
type Operand struct {
	Range         RegRange
	LiteralValue  uint32
	IsTrueLiteral bool
	Mods          ModBits
}

// parseUnaryMods consumes the leading modifier-wrapper grammar: a leading
// '-', then any nesting of abs(/neg(/sext(. Returns the accumulated
// ModBits and how many closing parens must still be consumed.
func parseUnaryMods(cur *Cursor, mask OperandMask) (ModBits, int) {
	var mods ModBits
	if cur.Peek() == '-' && mask&OpVOP3Neg != 0 {
		cur.Pos++
		mods.Neg = !mods.Neg
	}

	opens := 0
	for {
		rest := cur.Rest()
		switch {
		case strings.HasPrefix(rest, "abs("):
			cur.Pos += 4
			mods.Abs = !mods.Abs
			opens++
		case strings.HasPrefix(rest, "neg("):
			cur.Pos += 4
			mods.Neg = !mods.Neg
			opens++
		case strings.HasPrefix(rest, "sext("):
			cur.Pos += 5
			mods.Sext = !mods.Sext
			opens++
		default:
			return mods, opens
		}
	}
}

func closeWrappers(cur *Cursor, opens int, sink ErrorSink) bool {
	for i := 0; i < opens; i++ {
		cur.SkipSpaces()
		if !cur.SkipCharAndSpaces(')') {
			if sink != nil {
				sink.Error(cur, newError(cur, ExpectedToken, "expected closing ')'"))
			}
			return false
		}
	}
	return true
}

func isVectorRange(r RegRange) bool {
	if r.Kind == RegVirtual {
		return r.Var.Kind == VarVector
	}
	return r.Kind == RegPhysical && r.Start >= vectorBase && r.Start < specialBase
}

// ParseOperand composes a register-range or immediate parse with the
// modifier-wrapper grammar, enforcing the slot's OperandMask. It never
// consumes characters past the operand on error.
func ParseOperand(cur *Cursor, fam GPUFamily, regsNum int, mask OperandMask, vars RegVarTable, sink ErrorSink) (Operand, bool) {
	save := cur.Pos
	mods, opens := parseUnaryMods(cur, mask)

	if mask&(OpScalarReg|OpScalarSource|OpVectorReg) != 0 {
		rng, ok := ParseRegRange(cur, fam, regsNum, false, vars, sink)
		if !ok {
			return Operand{}, false
		}
		if !rng.Empty() {
			vector := isVectorRange(rng)
			if vector && mask&OpVectorReg == 0 {
				if sink != nil {
					sink.Error(cur, newError(cur, WidthMismatch, "vector register not permitted in this slot"))
				}
				return Operand{}, false
			}
			if !vector && mask&(OpScalarReg|OpScalarSource) == 0 {
				if sink != nil {
					sink.Error(cur, newError(cur, WidthMismatch, "scalar register not permitted in this slot"))
				}
				return Operand{}, false
			}
			if !closeWrappers(cur, opens, sink) {
				return Operand{}, false
			}
			return Operand{Range: rng, Mods: mods}, true
		}
	}

	if mask&OpScalarSource == 0 && mask&OpAllowLiteral == 0 {
		cur.Pos = save
		reportMissingRegister(cur, vars, sink)
		return Operand{}, false
	}

	inlineOnly := mask&OpOnlyInlineConsts != 0
	lit, ok := ParseLiteralImm(cur, fam, mask&OpFloat16 != 0, inlineOnly, sink)
	if !ok {
		return Operand{}, false
	}
	if !closeWrappers(cur, opens, sink) {
		return Operand{}, false
	}

	if lit.Inline {
		sel := uint16(lit.Selector)
		return Operand{Range: RegRange{Kind: RegInlineConst, Start: sel, End: sel + 1}, Mods: mods}, true
	}
	return Operand{LiteralValue: lit.Bits, IsTrueLiteral: true, Mods: mods}, true
}
