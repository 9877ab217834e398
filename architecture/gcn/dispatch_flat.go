package gcn

func encodeFlatWord0(opcode uint32, glc, slc bool) uint32 {
	v := uint32(0)
	if glc {
		v |= 1 << 16
	}
	if slc {
		v |= 1 << 17
	}
	return (0x37 << 26) | (opcode << 18) | v
}

func encodeFlatWord1(addr, data, vdst uint32, tfe bool) uint32 {
	v := addr | (data << 8) | (vdst << 24)
	if tfe {
		v |= 1 << 23
	}
	return v
}

func parseFlatTail(cur *Cursor) (glc, slc, tfe bool) {
	for {
		cur.SkipSpaces()
		if cur.AtEnd() {
			return
		}
		save := cur.Pos
		token := cur.TakeWhile(func(b byte) bool { return b != ' ' && b != '\t' })
		switch token {
		case "glc":
			glc = true
		case "slc":
			slc = true
		case "tfe":
			tfe = true
		default:
			cur.Pos = save
			return
		}
	}
}

// dispatchFLAT handles flat memory instructions: a 2-register VADDR, no
// SRSRC, plus glc/slc/tfe. SADDR, the scalar base alternative the later
// generations added, is not modeled: nothing in the sample mnemonic table
// exercises it, and it does not change the register-usage shape of the
// VADDR path.
func dispatchFLAT(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
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

	vaddr, ok := ParseOperand(cur, a.Family, 2, OpVectorReg, a.Vars, a.Sink)
	if !ok {
		return false
	}

	var vdata Operand
	haveData := false
	if sourceOnly {
		if !a.expectComma(cur) {
			return false
		}
		op, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
		if !ok {
			return false
		}
		vdata, haveData = op, true
	}

	glc, slc, tfe := parseFlatTail(cur)

	vdstField, dataField := uint32(0), uint32(0)
	if haveDst {
		vdstField = vgprField(vdst.Range)
	}
	if haveData {
		dataField = vgprField(vdata.Range)
	}

	buf := make([]byte, 8)
	putU32LE(buf[0:4], encodeFlatWord0(desc.Opcode, glc, slc))
	putU32LE(buf[4:8], encodeFlatWord1(vgprField(vaddr.Range), dataField, vdstField, tfe))
	sec.AppendBytes(buf)

	if haveDst {
		if u, ok := usageFor(offset, vdst.Range, FieldFlatVDst, Write); ok {
			sec.RecordUsage(u)
		}
	}
	if u, ok := usageFor(offset, vaddr.Range, FieldFlatAddr, Read); ok {
		sec.RecordUsage(u)
	}
	if haveData {
		if u, ok := usageFor(offset, vdata.Range, FieldFlatData, Read); ok {
			sec.RecordUsage(u)
		}
	}
	return true
}
