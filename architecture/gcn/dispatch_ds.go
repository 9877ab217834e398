package gcn

import "strings"

func encodeDS(opcode uint32, off0, off1 uint8, gds bool, vdst, addr, data0, data1 uint32) (uint32, uint32) {
	gdsBit := uint32(0)
	if gds {
		gdsBit = 1
	}
	word0 := uint32(off0) | (uint32(off1) << 8) | (gdsBit << 17) | (opcode << 18)
	word1 := addr | (data0 << 8) | (data1 << 16) | (vdst << 24)
	return word0, word1
}

// parseDSTail consumes the offset0:/offset1:/offset:/gds tail tokens DS
// instructions accept after their register operands.
func parseDSTail(cur *Cursor) (off0, off1 uint8, gds bool) {
	for {
		cur.SkipSpaces()
		if cur.AtEnd() {
			return
		}
		save := cur.Pos
		token := cur.TakeWhile(func(b byte) bool { return b != ' ' && b != '\t' })
		if token == "" {
			return
		}
		name, arg, hasArg := strings.Cut(token, ":")
		switch {
		case token == "gds":
			gds = true
		case name == "offset0" && hasArg:
			off0 = uint8(parseHexOrDec(arg))
		case name == "offset1" && hasArg:
			off1 = uint8(parseHexOrDec(arg))
		case name == "offset" && hasArg:
			v := parseHexOrDec(arg)
			off0, off1 = uint8(v), uint8(v>>8)
		default:
			cur.Pos = save
			return
		}
	}
}

// dispatchDS handles LDS/GDS memory instructions: two 8-bit offsets, up
// to three vector operands, one vector destination. The gds tail token
// selects the global data share.
func dispatchDS(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()
	sourceOnly := desc.Flags.has(FlagSourceOnly)

	var vdst Operand
	haveDst := false
	if !sourceOnly {
		op, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
		if !ok {
			return false
		}
		vdst, haveDst = op, true
		if !a.expectComma(cur) {
			return false
		}
	}

	addr, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
	if !ok {
		return false
	}

	var data0, data1 Operand
	haveData0, haveData1 := false, false
	cur.SkipSpaces()
	if cur.Peek() == ',' {
		cur.Pos++
		cur.SkipSpaces()
		op, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
		if !ok {
			return false
		}
		data0, haveData0 = op, true

		cur.SkipSpaces()
		if cur.Peek() == ',' {
			cur.Pos++
			cur.SkipSpaces()
			op, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
			if !ok {
				return false
			}
			data1, haveData1 = op, true
		}
	}

	off0, off1, gds := parseDSTail(cur)

	vdstField, addrField, data0Field, data1Field := uint32(0), vgprField(addr.Range), uint32(0), uint32(0)
	if haveDst {
		vdstField = vgprField(vdst.Range)
	}
	if haveData0 {
		data0Field = vgprField(data0.Range)
	}
	if haveData1 {
		data1Field = vgprField(data1.Range)
	}

	word0, word1 := encodeDS(desc.Opcode, off0, off1, gds, vdstField, addrField, data0Field, data1Field)
	buf := make([]byte, 8)
	putU32LE(buf[0:4], word0)
	putU32LE(buf[4:8], word1)
	sec.AppendBytes(buf)

	if haveDst {
		if u, ok := usageFor(offset, vdst.Range, FieldDSVDst, Write); ok {
			sec.RecordUsage(u)
		}
	}
	if u, ok := usageFor(offset, addr.Range, FieldDSAddr, Read); ok {
		sec.RecordUsage(u)
	}
	if haveData0 {
		if u, ok := usageFor(offset, data0.Range, FieldDSData0, Read); ok {
			sec.RecordUsage(u)
		}
	}
	if haveData1 {
		if u, ok := usageFor(offset, data1.Range, FieldDSData1, Read); ok {
			sec.RecordUsage(u)
		}
	}
	return true
}
