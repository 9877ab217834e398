package gcn

// encodeSMEMWord0 lays out the first word of the 8-byte SMEM form; the
// second word carries the offset operand.
func encodeSMEMWord0(opcode, sdst, sbase uint32) uint32 {
	return (0x3A << 26) | (opcode << 18) | (sdst << 9) | sbase
}

func encodeSMRDWord(opcode, sdst, sbase, offset uint32) uint32 {
	return (0x18 << 27) | (opcode << 22) | (sdst << 15) | (sbase << 8) | (offset & 0xFF)
}

// dispatchSMEM handles scalar memory loads/stores. Architecture alone
// picks the concrete form: SMEM (8 bytes) on families where it replaces
// SMRD, SMRD (4 bytes) otherwise; the source syntax is identical either
// way.
func dispatchSMEM(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()

	dstWidth := 1
	if desc.Flags.has(FlagDest64) {
		dstWidth = 2
	}
	sbaseWidth := 2
	if desc.Flags.has(FlagSBase4Reg) {
		sbaseWidth = 4
	}

	dst, ok := ParseOperand(cur, a.Family, dstWidth, OpScalarReg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	sbase, ok := ParseOperand(cur, a.Family, sbaseWidth, OpScalarReg, a.Vars, a.Sink)
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

	if _, ok := ParseModifierTail(cur, a.Sink); !ok {
		return false
	}

	var buf []byte
	if ConstraintsFor(a.Family).SMEMReplacesSMRD {
		buf = make([]byte, 8)
		putU32LE(buf[0:4], encodeSMEMWord0(desc.Opcode, rangeField(dst.Range), rangeField(sbase.Range)))
		putU32LE(buf[4:8], operandField(soffset))
	} else {
		buf = make([]byte, 4)
		putU32LE(buf, encodeSMRDWord(desc.Opcode, rangeField(dst.Range), rangeField(sbase.Range), operandField(soffset)))
	}
	sec.AppendBytes(buf)

	dstRW := Write
	if desc.Flags.has(FlagSourceOnly) {
		dstRW = Read
	}
	if u, ok := usageFor(offset, dst.Range, FieldSDST, dstRW); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, sbase.Range, FieldSMRDSBase, Read); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, soffset.Range, FieldSMRDOffset, Read); ok {
		sec.RecordUsage(u)
	}
	return true
}
