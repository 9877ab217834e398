package gcn

import (
	"strconv"
	"strings"
)

// vintrpSelectors maps the parameter-select names to their encoded source
// values. v_interp_mov_f32 reads one of these instead of a register; the
// lookup is case-insensitive, matching how the names appear in vendor
// listings (P0) and in hand-written source (p0).
var vintrpSelectors = map[string]int{"p10": 0, "p20": 1, "p0": 2}

func encodeVINTRP(opcode, vdst, vsrc uint32, attrNum, chan_ int) uint32 {
	return (0x32 << 26) | (vdst << 18) | (opcode << 16) | (uint32(attrNum) << 10) | (uint32(chan_) << 8) | vsrc
}

var attrChannel = map[byte]int{'x': 0, 'y': 1, 'z': 2, 'w': 3}

// parseAttrToken parses "attr<N>.<x|y|z|w>" at the cursor.
func parseAttrToken(cur *Cursor, sink ErrorSink) (num, chan_ int, ok bool) {
	cur.SkipSpaces()
	start := cur.Pos
	ident := cur.TakeWhile(func(b byte) bool { return isIdentByte(b) || b == '.' })
	if len(ident) < 5 || ident[:4] != "attr" {
		cur.Pos = start
		if sink != nil {
			sink.Error(cur, newError(cur, ExpectedToken, "expected an attribute descriptor (attrN.x)"))
		}
		return 0, 0, false
	}
	dot := -1
	for i, c := range ident {
		if c == '.' {
			dot = i
			break
		}
	}
	if dot < 0 || dot+2 > len(ident) {
		cur.Pos = start
		if sink != nil {
			sink.Error(cur, newError(cur, ExpectedToken, "malformed attribute descriptor"))
		}
		return 0, 0, false
	}
	n, err := strconv.Atoi(ident[4:dot])
	if err != nil {
		cur.Pos = start
		if sink != nil {
			sink.Error(cur, newError(cur, ExpectedToken, "malformed attribute number"))
		}
		return 0, 0, false
	}
	ch, ok := attrChannel[ident[dot+1]]
	if !ok {
		cur.Pos = start
		if sink != nil {
			sink.Error(cur, newError(cur, ExpectedToken, "unknown attribute channel"))
		}
		return 0, 0, false
	}
	return n, ch, true
}

// dispatchVINTRP handles the interpolation encoding: a destination, one
// source (a vector register holding the barycentric coordinate, or a
// P0/P10/P20 parameter selector), and an attribute descriptor.
func dispatchVINTRP(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()

	vdst, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}

	cur.SkipSpaces()
	var srcField uint32
	var srcRange RegRange
	haveSrcReg := false

	rng, ok := ParseRegRange(cur, a.Family, 1, false, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !rng.Empty() {
		if !isVectorRange(rng) {
			a.error(cur, WidthMismatch, "the interpolation source must be a vector register")
			return false
		}
		srcField = rangeField(rng) - vectorBase
		srcRange = rng
		haveSrcReg = true
	} else {
		selName := cur.TakeWhile(func(b byte) bool { return b != ',' && b != ' ' && b != '\t' })
		sel, ok := vintrpSelectors[strings.ToLower(selName)]
		if !ok {
			a.error(cur, ExpectedToken, "expected a vector register or P0, P10, P20")
			return false
		}
		srcField = uint32(sel)
	}
	if !a.expectComma(cur) {
		return false
	}

	attrNum, chanNum, ok := parseAttrToken(cur, a.Sink)
	if !ok {
		return false
	}

	if _, ok := ParseModifierTail(cur, a.Sink); !ok {
		return false
	}

	buf := make([]byte, 4)
	putU32LE(buf, encodeVINTRP(desc.Opcode, rangeField(vdst.Range)-vectorBase, srcField, attrNum, chanNum))
	sec.AppendBytes(buf)

	if u, ok := usageFor(offset, vdst.Range, FieldVIntrpVDst, Write); ok {
		sec.RecordUsage(u)
	}
	if haveSrcReg {
		if u, ok := usageFor(offset, srcRange, FieldVIntrpSrc, Read); ok {
			sec.RecordUsage(u)
		}
	}
	return true
}
