package gcn

import (
	"math"
	"strconv"
)

// SignMode controls whether ParseImm requires a value to fit a signed,
// unsigned, or either interpretation of its bit width.
type SignMode int

const (
	SignEither SignMode = iota
	SignSigned
	SignUnsigned
)

// Literal is a parsed immediate: either a true 32-bit literal destined for
// the trailing literal word, or an inline constant whose Selector already
// encodes it in a source operand's 9-bit field.
type Literal struct {
	Bits     uint32
	IsFloat  bool
	Inline   bool
	Selector int
}

// classifyInlineInt maps the -16..64 integer inline-constant range to its
// selector: 0..64 encode as 128..192, -1..-16 as 193..208.
func classifyInlineInt(v int64) (int, bool) {
	if v >= 0 && v <= 64 {
		return 128 + int(v), true
	}
	if v >= -16 && v <= -1 {
		return 193 + int(-v-1), true
	}
	return 0, false
}

// classifyInlineFloat maps the fixed float inline-constant set (±0.5,
// ±1.0, ±2.0, ±4.0) plus the later generations' 1/(2*pi) addition to its
// selector.
func classifyInlineFloat(f float64, fam GPUFamily) (int, bool) {
	switch f {
	case 0.5:
		return 240, true
	case -0.5:
		return 241, true
	case 1.0:
		return 242, true
	case -1.0:
		return 243, true
	case 2.0:
		return 244, true
	case -2.0:
		return 245, true
	case 4.0:
		return 246, true
	case -4.0:
		return 247, true
	}
	if ConstraintsFor(fam).ExtendedInlineConsts {
		const invTwoPi = 0.15915494309189535
		if f == invTwoPi {
			return 248, true
		}
	}
	return 0, false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// parseIntToken consumes a C-style integer literal (decimal, 0x hex) or a
// single-quoted character literal at the cursor and returns its value.
func parseIntToken(cur *Cursor) (int64, bool) {
	if v, ok := parseCharToken(cur); ok {
		return v, true
	}
	start := cur.Pos
	neg := false
	if cur.Peek() == '-' {
		neg = true
		cur.Pos++
	}
	base := 10
	numStart := cur.Pos
	if cur.Peek() == '0' && (cur.PeekAt(1) == 'x' || cur.PeekAt(1) == 'X') {
		cur.Pos += 2
		base = 16
		numStart = cur.Pos
		for !cur.AtEnd() && isHexDigit(cur.Peek()) {
			cur.Pos++
		}
	} else {
		for !cur.AtEnd() && isDigit(cur.Peek()) {
			cur.Pos++
		}
	}
	if cur.Pos == numStart {
		cur.Pos = start
		return 0, false
	}
	v, err := strconv.ParseInt(cur.Line[numStart:cur.Pos], base, 64)
	if err != nil {
		cur.Pos = start
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// parseCharToken consumes a 'c'-style character literal, including the
// usual backslash escapes.
func parseCharToken(cur *Cursor) (int64, bool) {
	if cur.Peek() != '\'' {
		return 0, false
	}
	save := cur.Pos
	cur.Pos++
	if cur.AtEnd() {
		cur.Pos = save
		return 0, false
	}
	var v int64
	c := cur.Peek()
	cur.Pos++
	if c == '\\' {
		if cur.AtEnd() {
			cur.Pos = save
			return 0, false
		}
		esc := cur.Peek()
		cur.Pos++
		switch esc {
		case 'n':
			v = '\n'
		case 't':
			v = '\t'
		case 'r':
			v = '\r'
		case '0':
			v = 0
		case '\\', '\'':
			v = int64(esc)
		default:
			cur.Pos = save
			return 0, false
		}
	} else {
		v = int64(c)
	}
	if cur.Peek() != '\'' {
		cur.Pos = save
		return 0, false
	}
	cur.Pos++
	return v, true
}

// parseFloatToken consumes a floating-point literal (requires a decimal
// point to disambiguate from an integer; an optional exponent may follow)
// at the cursor.
func parseFloatToken(cur *Cursor) (float64, bool) {
	start := cur.Pos
	p := cur.Pos
	if p < len(cur.Line) && cur.Line[p] == '-' {
		p++
	}
	digitsStart := p
	for p < len(cur.Line) && isDigit(cur.Line[p]) {
		p++
	}
	sawDot := false
	if p < len(cur.Line) && cur.Line[p] == '.' {
		sawDot = true
		p++
		for p < len(cur.Line) && isDigit(cur.Line[p]) {
			p++
		}
	}
	if !sawDot || p == digitsStart {
		return 0, false
	}
	if p < len(cur.Line) && (cur.Line[p] == 'e' || cur.Line[p] == 'E') {
		q := p + 1
		if q < len(cur.Line) && (cur.Line[q] == '+' || cur.Line[q] == '-') {
			q++
		}
		expStart := q
		for q < len(cur.Line) && isDigit(cur.Line[q]) {
			q++
		}
		if q > expStart {
			p = q
		}
	}
	v, err := strconv.ParseFloat(cur.Line[start:p], 64)
	if err != nil {
		return 0, false
	}
	cur.Pos = p
	return v, true
}

func fitsBits(v int64, bits int, mode SignMode) bool {
	if bits <= 0 || bits >= 64 {
		return true
	}
	switch mode {
	case SignSigned:
		min := -(int64(1) << uint(bits-1))
		max := (int64(1) << uint(bits-1)) - 1
		return v >= min && v <= max
	case SignUnsigned:
		max := (int64(1) << uint(bits)) - 1
		return v >= 0 && v <= max
	default:
		uMax := (int64(1) << uint(bits)) - 1
		sMin := -(int64(1) << uint(bits-1))
		sMax := (int64(1) << uint(bits-1)) - 1
		return (v >= 0 && v <= uMax) || (v >= sMin && v <= sMax)
	}
}

// ParseImm parses an integer, character, or floating-point literal at the
// cursor, narrowed to bits and signedness mode. Floats are only attempted
// when asFloat is true (the slot is typed float). On overflow in every
// interpretation requested it reports ExpressionOutOfRange.
func ParseImm(cur *Cursor, bits int, mode SignMode, asFloat bool, sink ErrorSink) (Literal, bool) {
	if asFloat {
		if f, ok := parseFloatToken(cur); ok {
			var bitsVal uint32
			if bits == 16 {
				bitsVal = uint32(float32ToHalf(float32(f)))
			} else {
				bitsVal = math.Float32bits(float32(f))
			}
			return Literal{Bits: bitsVal, IsFloat: true}, true
		}
	}

	v, ok := parseIntToken(cur)
	if !ok {
		if sink != nil {
			sink.Error(cur, newError(cur, ExpectedToken, "expected an immediate"))
		}
		return Literal{}, false
	}
	if !fitsBits(v, bits, mode) {
		if sink != nil {
			sink.Error(cur, newError(cur, ExpressionOutOfRange, "immediate does not fit the requested width"))
		}
		return Literal{}, false
	}
	return Literal{Bits: uint32(v)}, true
}

// float32ToHalf is a minimal IEEE-754 binary16 encoder, used only for
// half-precision immediates in 16-bit-typed slots.
func float32ToHalf(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xff) - 127 + 15
	mant := bits & 0x7fffff

	switch {
	case exp <= 0:
		return sign
	case exp >= 0x1f:
		return sign | 0x7c00
	default:
		return sign | uint16(exp)<<10 | uint16(mant>>13)
	}
}

// ParseLiteralImm classifies a literal against the slot's encoding policy:
// an inline-representable value yields its selector; anything else is a
// true literal, rejected with NotInlineConst when the slot only accepts
// inline constants.
func ParseLiteralImm(cur *Cursor, fam GPUFamily, asFloat, inlineOnly bool, sink ErrorSink) (Literal, bool) {
	if asFloat {
		if f, ok := parseFloatToken(cur); ok {
			if sel, ok := classifyInlineFloat(f, fam); ok {
				return Literal{Bits: math.Float32bits(float32(f)), IsFloat: true, Inline: true, Selector: sel}, true
			}
			if inlineOnly {
				if sink != nil {
					sink.Error(cur, newError(cur, NotInlineConst, "literal is not representable as an inline constant"))
				}
				return Literal{}, false
			}
			return Literal{Bits: math.Float32bits(float32(f)), IsFloat: true}, true
		}
	}

	v, ok := parseIntToken(cur)
	if !ok {
		if sink != nil {
			sink.Error(cur, newError(cur, ExpectedToken, "expected an immediate"))
		}
		return Literal{}, false
	}
	if sel, ok := classifyInlineInt(v); ok {
		return Literal{Bits: uint32(v), Inline: true, Selector: sel}, true
	}
	if inlineOnly {
		if sink != nil {
			sink.Error(cur, newError(cur, NotInlineConst, "literal is not representable as an inline constant"))
		}
		return Literal{}, false
	}
	return Literal{Bits: uint32(v)}, true
}
