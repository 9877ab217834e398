package gcn

import "strings"

func encodeMimgWord0(opcode uint32, dmask int, unorm, glc, slc, tfe, lwe, da bool) uint32 {
	v := uint32(dmask & 0xF)
	if unorm {
		v |= 1 << 4
	}
	if glc {
		v |= 1 << 5
	}
	if slc {
		v |= 1 << 6
	}
	if tfe {
		v |= 1 << 7
	}
	if lwe {
		v |= 1 << 8
	}
	if da {
		v |= 1 << 9
	}
	return (0x3C << 26) | (opcode << 18) | v
}

// encodeMimgWord1 packs the register operands. The resource and sampler
// descriptors are 4-aligned, so their fields carry the index divided by
// four.
func encodeMimgWord1(vaddr, vdata, srsrc, ssamp uint32) uint32 {
	return vaddr | (vdata << 8) | ((srsrc >> 2) << 16) | ((ssamp >> 2) << 21)
}

func parseMimgTail(cur *Cursor) (dmask int, unorm, glc, slc, tfe, lwe, da bool) {
	dmask = 0xF
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
		case name == "dmask" && hasArg:
			dmask = parseHexOrDec(arg)
		case token == "unorm":
			unorm = true
		case token == "glc":
			glc = true
		case token == "slc":
			slc = true
		case token == "tfe":
			tfe = true
		case token == "lwe":
			lwe = true
		case token == "da":
			da = true
		default:
			cur.Pos = save
			return
		}
	}
}

// dispatchMIMG handles image instructions: a 4- or 8-register SRSRC, a
// 4-register SSAMP for sampled forms, and VADDR/VDATA widths that depend
// on dim/da/dmask. VADDR and VDATA are accepted at whatever width the
// operand parser resolves; width enforcement against dmask/dim belongs to
// the architecture-data layer that supplies dim/da per mnemonic.
func dispatchMIMG(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()
	sampled := !desc.Flags.has(FlagSourceOnly)

	vdata, ok := ParseOperand(cur, a.Family, 0, OpVectorReg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	vaddr, ok := ParseOperand(cur, a.Family, 0, OpVectorReg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	srsrcWidth := 4
	if desc.Flags.has(FlagSBase4Reg) {
		srsrcWidth = 8
	}
	srsrc, ok := ParseOperand(cur, a.Family, srsrcWidth, OpScalarReg, a.Vars, a.Sink)
	if !ok {
		return false
	}

	var ssamp Operand
	haveSsamp := false
	if sampled {
		if !a.expectComma(cur) {
			return false
		}
		op, ok := ParseOperand(cur, a.Family, 4, OpScalarReg, a.Vars, a.Sink)
		if !ok {
			return false
		}
		ssamp, haveSsamp = op, true
	}

	dmask, unorm, glc, slc, tfe, lwe, da := parseMimgTail(cur)

	ssampField := uint32(0)
	if haveSsamp {
		ssampField = rangeField(ssamp.Range)
	}

	buf := make([]byte, 8)
	putU32LE(buf[0:4], encodeMimgWord0(desc.Opcode, dmask, unorm, glc, slc, tfe, lwe, da))
	putU32LE(buf[4:8], encodeMimgWord1(vgprField(vaddr.Range), vgprField(vdata.Range), rangeField(srsrc.Range), ssampField))
	sec.AppendBytes(buf)

	if u, ok := usageFor(offset, vdata.Range, FieldImgVData, Write); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, vaddr.Range, FieldImgVAddr, Read); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, srsrc.Range, FieldImgSRsrc, Read); ok {
		sec.RecordUsage(u)
	}
	if haveSsamp {
		if u, ok := usageFor(offset, ssamp.Range, FieldImgSSamp, Read); ok {
			sec.RecordUsage(u)
		}
	}
	return true
}
