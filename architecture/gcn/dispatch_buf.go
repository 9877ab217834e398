package gcn

import "strings"

func encodeBufWord0(opcode uint32, offsetImm int, offen, idxen, glc bool) uint32 {
	v := uint32(offsetImm & 0xFFF)
	if offen {
		v |= 1 << 12
	}
	if idxen {
		v |= 1 << 13
	}
	if glc {
		v |= 1 << 14
	}
	return (0x38 << 26) | (opcode << 18) | v
}

// encodeBufWord1 packs the register operands and the remaining cache/
// fault flags. The resource descriptor is 4-aligned, so its field carries
// the index divided by four.
func encodeBufWord1(vaddr, vdata, srsrc, soffset uint32, slc, tfe bool) uint32 {
	v := vaddr | (vdata << 8) | ((srsrc >> 2) << 16) | (soffset << 24)
	if slc {
		v |= 1 << 22
	}
	if tfe {
		v |= 1 << 23
	}
	return v
}

// parseBufTail consumes the offen/idxen/glc/slc/tfe flag tokens and
// offset:N / format:[...] modifiers MUBUF/MTBUF accept after their
// register operands.
func parseBufTail(cur *Cursor) (offen, idxen, glc, slc, tfe bool, offsetImm int) {
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
		case token == "offen":
			offen = true
		case token == "idxen":
			idxen = true
		case token == "glc":
			glc = true
		case token == "slc":
			slc = true
		case token == "tfe":
			tfe = true
		case name == "offset" && hasArg:
			offsetImm = parseHexOrDec(arg)
		case name == "format" && hasArg:
			// format:[...] is accepted and ignored here; the data-format
			// table lives with the binary container writer.
		default:
			cur.Pos = save
			return
		}
	}
}

// dispatchMUBUF handles buffer memory instructions: a 4-register SRSRC,
// VADDR, VDATA, SOFFSET, plus the offen/idxen/glc/slc/tfe/offset/format
// modifiers. MTBUF shares this dispatcher; its extra typed-format fields
// are parsed and dropped by parseBufTail along with format:[...].
func dispatchMUBUF(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()
	sourceOnly := desc.Flags.has(FlagSourceOnly)

	vdata, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	vaddr, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	srsrc, ok := ParseOperand(cur, a.Family, 4, OpScalarReg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	soffset, ok := ParseOperand(cur, a.Family, 1, OpScalarReg|OpAllowLiteral, a.Vars, a.Sink)
	if !ok {
		return false
	}

	offen, idxen, glc, slc, tfe, offsetImm := parseBufTail(cur)

	buf := make([]byte, 8)
	putU32LE(buf[0:4], encodeBufWord0(desc.Opcode, offsetImm, offen, idxen, glc))
	putU32LE(buf[4:8], encodeBufWord1(vgprField(vaddr.Range), vgprField(vdata.Range), rangeField(srsrc.Range), operandField(soffset), slc, tfe))
	sec.AppendBytes(buf)

	dataRW := Write
	if sourceOnly {
		dataRW = Read
	}
	if u, ok := usageFor(offset, vdata.Range, FieldBufVData, dataRW); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, vaddr.Range, FieldBufVAddr, Read); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, srsrc.Range, FieldBufSRsrc, Read); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, soffset.Range, FieldBufSOffset, Read); ok {
		sec.RecordUsage(u)
	}
	return true
}
