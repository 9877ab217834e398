package gcn

// encodeSOP1/2/K/C/P lay out the five scalar instruction words: a fixed
// encoding tag in the top bits, the opcode below it, then the destination
// and source fields.
func encodeSOP1(opcode, sdst, ssrc0 uint32) uint32 {
	return 0xBE800000 | (sdst << 16) | (opcode << 8) | ssrc0
}

func encodeSOP2(opcode, sdst, ssrc0, ssrc1 uint32) uint32 {
	return (2 << 30) | (opcode << 23) | (sdst << 16) | (ssrc1 << 8) | ssrc0
}

func encodeSOPK(opcode, sdst uint32, simm16 uint16) uint32 {
	return (0xB << 28) | (opcode << 23) | (sdst << 16) | uint32(simm16)
}

func encodeSOPC(opcode, ssrc0, ssrc1 uint32) uint32 {
	return (0x17E << 23) | (opcode << 16) | (ssrc1 << 8) | ssrc0
}

func encodeSOPP(opcode uint32, simm16 uint16) uint32 {
	return (0x17F << 23) | (opcode << 16) | uint32(simm16)
}

// dispatchSOP1 handles the {sdst, ssrc0} scalar move/extension family.
// FlagSourceOnly/FlagDestOnly narrow it to one operand.
func dispatchSOP1(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	width := 1
	if desc.Flags.has(FlagDest64) {
		width = 2
	}
	offset := sec.Offset()

	var dst, src Operand
	haveDst, haveSrc := false, false

	if !desc.Flags.has(FlagSourceOnly) {
		op, ok := ParseOperand(cur, a.Family, width, OpScalarReg, a.Vars, a.Sink)
		if !ok {
			return false
		}
		dst, haveDst = op, true
	}
	if !desc.Flags.has(FlagDestOnly) {
		if haveDst && !a.expectComma(cur) {
			return false
		}
		op, ok := ParseOperand(cur, a.Family, width, OpScalarReg|OpScalarSource|OpAllowLiteral, a.Vars, a.Sink)
		if !ok {
			return false
		}
		src, haveSrc = op, true
	}

	if _, ok := ParseModifierTail(cur, a.Sink); !ok {
		return false
	}

	size := 4
	hasLiteral := haveSrc && src.IsTrueLiteral
	if hasLiteral {
		size = 8
	}

	sdstField := uint32(0)
	if haveDst {
		sdstField = rangeField(dst.Range)
	}
	ssrc0Field := uint32(0)
	if haveSrc {
		ssrc0Field = operandField(src)
	}

	buf := make([]byte, size)
	putU32LE(buf[0:4], encodeSOP1(desc.Opcode, sdstField, ssrc0Field))
	if hasLiteral {
		putU32LE(buf[4:8], src.LiteralValue)
	}
	sec.AppendBytes(buf)

	if haveDst {
		if u, ok := usageFor(offset, dst.Range, FieldSDST, Write); ok {
			sec.RecordUsage(u)
		}
	}
	if haveSrc {
		if u, ok := usageFor(offset, src.Range, FieldSSRC0, Read); ok {
			sec.RecordUsage(u)
		}
	}
	return true
}

// dispatchSOP2 handles the {sdst, ssrc0, ssrc1} scalar ALU family. At
// most one of ssrc0/ssrc1 may be a true literal (TooManyLiterals
// otherwise); s_cbranch_g_fork is the two-source, no-dest variant.
func dispatchSOP2(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()
	noDest := desc.Flags.has(FlagTwoSourceNoDest)

	var dst Operand
	if !noDest {
		op, ok := ParseOperand(cur, a.Family, 1, OpScalarReg, a.Vars, a.Sink)
		if !ok {
			return false
		}
		dst = op
		if !a.expectComma(cur) {
			return false
		}
	}

	src0, ok := ParseOperand(cur, a.Family, 1, OpScalarReg|OpScalarSource|OpAllowLiteral, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	src1, ok := ParseOperand(cur, a.Family, 1, OpScalarReg|OpScalarSource|OpAllowLiteral, a.Vars, a.Sink)
	if !ok {
		return false
	}

	if src0.IsTrueLiteral && src1.IsTrueLiteral {
		a.error(cur, TooManyLiterals, "at most one true literal operand is allowed per instruction")
		return false
	}

	if _, ok := ParseModifierTail(cur, a.Sink); !ok {
		return false
	}

	size := 4
	var literalValue uint32
	hasLiteral := false
	if src0.IsTrueLiteral {
		hasLiteral, literalValue, size = true, src0.LiteralValue, 8
	} else if src1.IsTrueLiteral {
		hasLiteral, literalValue, size = true, src1.LiteralValue, 8
	}

	sdstField := uint32(0)
	if !noDest {
		sdstField = rangeField(dst.Range)
	}

	buf := make([]byte, size)
	putU32LE(buf[0:4], encodeSOP2(desc.Opcode, sdstField, operandField(src0), operandField(src1)))
	if hasLiteral {
		putU32LE(buf[4:8], literalValue)
	}
	sec.AppendBytes(buf)

	if !noDest {
		if u, ok := usageFor(offset, dst.Range, FieldSDST, Write); ok {
			sec.RecordUsage(u)
		}
	}
	if u, ok := usageFor(offset, src0.Range, FieldSSRC0, Read); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, src1.Range, FieldSSRC1, Read); ok {
		sec.RecordUsage(u)
	}
	return true
}

// dispatchSOPK handles the 16-bit-immediate-plus-one-scalar family.
// Whether the scalar operand is read or written depends on the mnemonic
// (compares read, arithmetic-k writes); both directions use field tag
// SDST.
func dispatchSOPK(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()

	op, ok := ParseOperand(cur, a.Family, 1, OpScalarReg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	imm, ok := ParseImm(cur, 16, SignEither, false, a.Sink)
	if !ok {
		return false
	}

	if _, ok := ParseModifierTail(cur, a.Sink); !ok {
		return false
	}

	buf := make([]byte, 4)
	putU32LE(buf, encodeSOPK(desc.Opcode, rangeField(op.Range), uint16(imm.Bits)))
	sec.AppendBytes(buf)

	rw := Write
	if isCompareMnemonic(desc.Mnemonic) {
		rw = Read
	}
	if u, ok := usageFor(offset, op.Range, FieldSDST, rw); ok {
		sec.RecordUsage(u)
	}
	return true
}

func isCompareMnemonic(mnemonic string) bool {
	return len(mnemonic) > 6 && mnemonic[:6] == "s_cmpk"
}

// dispatchSOPC handles the two-scalar-source compare family: two reads,
// no destination.
func dispatchSOPC(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()

	src0, ok := ParseOperand(cur, a.Family, 1, OpScalarReg|OpScalarSource|OpAllowLiteral, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	src1, ok := ParseOperand(cur, a.Family, 1, OpScalarReg|OpScalarSource|OpAllowLiteral, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if src0.IsTrueLiteral && src1.IsTrueLiteral {
		a.error(cur, TooManyLiterals, "at most one true literal operand is allowed per instruction")
		return false
	}

	if _, ok := ParseModifierTail(cur, a.Sink); !ok {
		return false
	}

	size := 4
	var literalValue uint32
	hasLiteral := false
	if src0.IsTrueLiteral {
		hasLiteral, literalValue, size = true, src0.LiteralValue, 8
	} else if src1.IsTrueLiteral {
		hasLiteral, literalValue, size = true, src1.LiteralValue, 8
	}

	buf := make([]byte, size)
	putU32LE(buf[0:4], encodeSOPC(desc.Opcode, operandField(src0), operandField(src1)))
	if hasLiteral {
		putU32LE(buf[4:8], literalValue)
	}
	sec.AppendBytes(buf)

	if u, ok := usageFor(offset, src0.Range, FieldSSRC0, Read); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, src1.Range, FieldSSRC1, Read); ok {
		sec.RecordUsage(u)
	}
	return true
}

// dispatchSOPP handles program-control instructions: a reserved 16-bit
// immediate, or, for branches, a label whose delta-encoded word offset is
// resolved by a later pass. An unresolved target is recorded as a Fixup
// rather than failing the line.
func dispatchSOPP(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()

	var simm16 uint16
	var fixup *Fixup

	if desc.Flags.has(FlagIsBranch) {
		cur.SkipSpaces()
		label := cur.PeekIdent()
		if label != "" {
			cur.Pos += len(label)
			fixup = &Fixup{
				TargetOffset:     offset,
				BitOffset:        0,
				BitWidth:         16,
				Signed:           true,
				ExpressionHandle: label,
			}
		} else {
			imm, ok := ParseImm(cur, 16, SignSigned, false, a.Sink)
			if !ok {
				return false
			}
			simm16 = uint16(imm.Bits)
		}
	}

	if _, ok := ParseModifierTail(cur, a.Sink); !ok {
		return false
	}

	buf := make([]byte, 4)
	putU32LE(buf, encodeSOPP(desc.Opcode, simm16))
	sec.AppendBytes(buf)

	if fixup != nil {
		sec.RecordFixup(*fixup)
	}
	return true
}
