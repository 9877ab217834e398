package gcn

// Source-field selectors for the trailing-word forms: a short-form VOP
// instruction whose src0 field holds one of these carries an SDWA or DPP
// control word instead of a literal.
const (
	sdwaFieldSelector = 0xF9
	dppFieldSelector  = 0xFA
)

func encodeVOP1(opcode, vdst, src0 uint32) uint32 {
	return (0x3F << 25) | (vdst << 17) | (opcode << 9) | src0
}

func encodeVOP2(opcode, vdst, src0, vsrc1 uint32) uint32 {
	return (opcode << 25) | (vsrc1 << 17) | (vdst << 9) | src0
}

func encodeVOPC(opcode, src0, vsrc1 uint32) uint32 {
	return (0x3E << 25) | (opcode << 17) | (vsrc1 << 9) | src0
}

func encodeVOP3Word0(opcode, dst uint32, mods VOPModifiers) uint32 {
	clamp := uint32(0)
	if mods.Clamp {
		clamp = 1
	}
	abs := uint32(0)
	for i := 0; i < 3; i++ {
		if mods.SrcAbs[i] {
			abs |= 1 << uint(i)
		}
	}
	return (0x34 << 26) | (opcode << 17) | (abs << 12) | (clamp << 11) | (uint32(mods.OMod) << 8) | dst
}

// encodeVOP3Word0WithSDst1 lays out the two-destination form: the scalar
// carry-out occupies the field abs/omod/clamp would otherwise use, so the
// carry-carrying instructions have no per-source abs.
func encodeVOP3Word0WithSDst1(opcode, vdst, sdst1 uint32) uint32 {
	return (0x34 << 26) | (opcode << 17) | (sdst1 << 8) | vdst
}

func encodeVOP3Word1(src0, src1, src2 uint32, mods VOPModifiers) uint32 {
	neg := uint32(0)
	for i := 0; i < 3; i++ {
		if mods.SrcNeg[i] {
			neg |= 1 << uint(i)
		}
	}
	return src0 | (src1 << 9) | (src2 << 18) | (neg << 27)
}

// sdwaWord packs the SDWA control word appended after the short-form VOP
// word: the source register in the low byte, then the dst/src byte-word
// selectors and the per-source sext/neg/abs bits.
func sdwaWord(src0 uint32, mods VOPModifiers) uint32 {
	v := src0 & 0xFF
	v |= uint32(mods.DstSel) << 8
	v |= uint32(mods.DstUnused) << 11
	if mods.Clamp {
		v |= 1 << 13
	}
	v |= uint32(mods.Src0Sel) << 16
	if mods.SrcSext[0] {
		v |= 1 << 19
	}
	if mods.SrcNeg[0] {
		v |= 1 << 20
	}
	if mods.SrcAbs[0] {
		v |= 1 << 21
	}
	v |= uint32(mods.Src1Sel) << 24
	if mods.SrcSext[1] {
		v |= 1 << 27
	}
	if mods.SrcNeg[1] {
		v |= 1 << 28
	}
	if mods.SrcAbs[1] {
		v |= 1 << 29
	}
	return v
}

// dppWord packs the DPP control word: source register, the 9-bit lane
// permutation selector, bound_ctrl, per-source neg/abs, and the bank/row
// enable masks.
func dppWord(src0 uint32, mods VOPModifiers) uint32 {
	v := src0 & 0xFF
	v |= uint32(mods.DppCtrl&0x1FF) << 8
	if mods.BoundCtrl {
		v |= 1 << 19
	}
	if mods.SrcNeg[0] {
		v |= 1 << 20
	}
	if mods.SrcAbs[0] {
		v |= 1 << 21
	}
	if mods.SrcNeg[1] {
		v |= 1 << 22
	}
	if mods.SrcAbs[1] {
		v |= 1 << 23
	}
	v |= uint32(mods.BankMask&0xF) << 24
	v |= uint32(mods.RowMask&0xF) << 28
	return v
}

func vccRegRange() RegRange {
	sp := specialRegisters["vcc"]
	return RegRange{Kind: RegPhysical, Start: sp.start, End: sp.end}
}

// sourceAnyMask is the operand mask for a VOP source slot: scalar or vector
// register, inline constant, or a true literal.
const sourceAnyMask = OpScalarReg | OpVectorReg | OpScalarSource | OpAllowLiteral

// mergeSrcMods folds each source operand's wrapper modifiers (abs(), neg(),
// sext(), leading '-') into the per-source tail lists, so the encode step
// reads a single place. A wrapper and a tail-list entry on the same source
// cancel out, the same way nested wrappers do.
func mergeSrcMods(mods *VOPModifiers, srcs ...Operand) {
	for i, s := range srcs {
		if i >= 3 {
			break
		}
		mods.SrcAbs[i] = mods.SrcAbs[i] != s.Mods.Abs
		mods.SrcNeg[i] = mods.SrcNeg[i] != s.Mods.Neg
		mods.SrcSext[i] = mods.SrcSext[i] != s.Mods.Sext
	}
}

// forcesVOP3 reports whether the accumulated modifiers require the long
// form: an explicit vop3 token, clamp, an output modifier, or any
// per-source abs/neg.
func forcesVOP3(mods VOPModifiers) bool {
	if mods.VOP3 || mods.Clamp || mods.OMod != OModNone {
		return true
	}
	for i := 0; i < 3; i++ {
		if mods.SrcAbs[i] || mods.SrcNeg[i] {
			return true
		}
	}
	return false
}

// checkSextScope rejects sext() outside SDWA: sign-extension of a sub-word
// source only exists in the SDWA control word.
func (a *Assembler) checkSextScope(cur *Cursor, mods VOPModifiers) bool {
	for i := 0; i < 3; i++ {
		if mods.SrcSext[i] {
			a.error(cur, IncompatibleModifiers, "sext is only available with SDWA")
			return false
		}
	}
	return true
}

// checkVOPExtra gates the SDWA/DPP trailing-word forms: both are
// generation-specific, and both address vector-register lanes, so src0 must
// be a plain vector register.
func (a *Assembler) checkVOPExtra(cur *Cursor, mods VOPModifiers, src0 Operand) bool {
	c := ConstraintsFor(a.Family)
	if mods.NeedSDWA && !c.HasSDWA {
		a.error(cur, UnsupportedOnArch, "SDWA is not available on the current architecture")
		return false
	}
	if mods.NeedDPP && !c.HasDPP {
		a.error(cur, UnsupportedOnArch, "DPP is not available on the current architecture")
		return false
	}
	if !isVectorRange(src0.Range) {
		a.error(cur, IncompatibleModifiers, "SDWA and DPP require a vector register source")
		return false
	}
	return true
}

// vopExtraWord builds the second dword of an SDWA/DPP instruction. The
// vector register's field value is its in-pool index, not the unified
// operand-space value.
func vopExtraWord(mods VOPModifiers, src0 Operand) uint32 {
	field := vgprField(src0.Range)
	if mods.NeedSDWA {
		return sdwaWord(field, mods)
	}
	return dppWord(field, mods)
}

// dispatchVOP1 handles the {vdst, src0} vector-ALU family. The vop3 tail
// modifier (or clamp/omod/abs/neg) promotes it to the 8-byte long form and
// retags its usage fields; SDWA/DPP instead append a control word after the
// 4-byte short word.
func dispatchVOP1(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()

	vdst, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	src0, ok := ParseOperand(cur, a.Family, 1, sourceAnyMask, a.Vars, a.Sink)
	if !ok {
		return false
	}

	mods, ok := ParseModifierTail(cur, a.Sink)
	if !ok {
		return false
	}
	mergeSrcMods(&mods, src0)

	if mods.NeedSDWA || mods.NeedDPP {
		if !a.checkVOPExtra(cur, mods, src0) {
			return false
		}
		selector := uint32(sdwaFieldSelector)
		if mods.NeedDPP {
			selector = dppFieldSelector
		}
		buf := make([]byte, 8)
		putU32LE(buf[0:4], encodeVOP1(desc.Opcode, vgprField(vdst.Range), selector))
		putU32LE(buf[4:8], vopExtraWord(mods, src0))
		sec.AppendBytes(buf)
		if u, ok := usageFor(offset, vdst.Range, FieldVOPVDst, Write); ok {
			sec.RecordUsage(u)
		}
		if u, ok := usageFor(offset, src0.Range, FieldVOPSrc0, Read); ok {
			sec.RecordUsage(u)
		}
		return true
	}

	if !a.checkSextScope(cur, mods) {
		return false
	}

	if forcesVOP3(mods) {
		if src0.IsTrueLiteral {
			a.error(cur, TooManyLiterals, "VOP3 form forbids literal operands")
			return false
		}
		buf := make([]byte, 8)
		putU32LE(buf[0:4], encodeVOP3Word0(desc.Opcode, vgprField(vdst.Range), mods))
		putU32LE(buf[4:8], encodeVOP3Word1(operandField(src0), 0, 0, mods))
		sec.AppendBytes(buf)
		if u, ok := usageFor(offset, vdst.Range, FieldVOP3VDst, Write); ok {
			sec.RecordUsage(u)
		}
		if u, ok := usageFor(offset, src0.Range, FieldVOP3Src0, Read); ok {
			sec.RecordUsage(u)
		}
		return true
	}

	size := 4
	hasLiteral := src0.IsTrueLiteral
	if hasLiteral {
		size = 8
	}
	buf := make([]byte, size)
	putU32LE(buf[0:4], encodeVOP1(desc.Opcode, vgprField(vdst.Range), operandField(src0)))
	if hasLiteral {
		putU32LE(buf[4:8], src0.LiteralValue)
	}
	sec.AppendBytes(buf)
	if u, ok := usageFor(offset, vdst.Range, FieldVOPVDst, Write); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, src0.Range, FieldVOPSrc0, Read); ok {
		sec.RecordUsage(u)
	}
	return true
}

// dispatchVOP2 handles the {vdst, src0, vsrc1} binary vector-ALU family.
// Carry-using variants (v_addc_u32, v_cndmask_b32) implicitly read/write
// vcc in the short form; their explicit long form takes two extra
// operands, a scalar carry-out destination after vdst and a scalar
// carry-in source last. A vsrc1 that is not a plain vector register
// cannot be expressed in
// the short encoding's 8-bit field and promotes the instruction to the
// long form on its own.
func dispatchVOP2(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()
	implicitVCC := desc.Flags.has(FlagImplicitVCC)

	vdst, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}

	var operands []Operand
	for {
		op, ok := ParseOperand(cur, a.Family, 0, sourceAnyMask, a.Vars, a.Sink)
		if !ok {
			return false
		}
		operands = append(operands, op)
		cur.SkipSpaces()
		if cur.Peek() != ',' {
			break
		}
		cur.Pos++
		cur.SkipSpaces()
	}

	mods, ok := ParseModifierTail(cur, a.Sink)
	if !ok {
		return false
	}

	if implicitVCC && len(operands) == 4 {
		return emitVOP3ExplicitCarry(a, desc, cur, sec, offset, mods, vdst, operands[0], operands[1], operands[2], operands[3])
	}
	if len(operands) != 2 {
		a.error(cur, ExpectedToken, "unexpected operand count for this instruction")
		return false
	}
	src0, vsrc1 := operands[0], operands[1]
	mergeSrcMods(&mods, src0, vsrc1)

	if mods.NeedSDWA || mods.NeedDPP {
		if !a.checkVOPExtra(cur, mods, src0) {
			return false
		}
		if !isVectorRange(vsrc1.Range) {
			a.error(cur, IncompatibleModifiers, "SDWA and DPP require a vector register second source")
			return false
		}
		selector := uint32(sdwaFieldSelector)
		if mods.NeedDPP {
			selector = dppFieldSelector
		}
		buf := make([]byte, 8)
		putU32LE(buf[0:4], encodeVOP2(desc.Opcode, vgprField(vdst.Range), selector, vgprField(vsrc1.Range)))
		putU32LE(buf[4:8], vopExtraWord(mods, src0))
		sec.AppendBytes(buf)
		if u, ok := usageFor(offset, vdst.Range, FieldVOPVDst, Write); ok {
			sec.RecordUsage(u)
		}
		if u, ok := usageFor(offset, src0.Range, FieldVOPSrc0, Read); ok {
			sec.RecordUsage(u)
		}
		if u, ok := usageFor(offset, vsrc1.Range, FieldVOPVSrc1, Read); ok {
			sec.RecordUsage(u)
		}
		return true
	}

	if !a.checkSextScope(cur, mods) {
		return false
	}

	if vsrc1.IsTrueLiteral {
		// The short encoding's second source is a register-only field, and
		// the long form the operand shape would otherwise promote to has no
		// literal slot.
		a.error(cur, TooManyLiterals, "a literal is not encodable in the second source")
		return false
	}
	needLong := forcesVOP3(mods) || !isVectorRange(vsrc1.Range)
	if needLong {
		if src0.IsTrueLiteral || vsrc1.IsTrueLiteral {
			a.error(cur, TooManyLiterals, "VOP3 form forbids literal operands")
			return false
		}
		buf := make([]byte, 8)
		putU32LE(buf[0:4], encodeVOP3Word0(desc.Opcode, vgprField(vdst.Range), mods))
		putU32LE(buf[4:8], encodeVOP3Word1(operandField(src0), operandField(vsrc1), 0, mods))
		sec.AppendBytes(buf)
		if u, ok := usageFor(offset, vdst.Range, FieldVOP3VDst, Write); ok {
			sec.RecordUsage(u)
		}
		if u, ok := usageFor(offset, src0.Range, FieldVOP3Src0, Read); ok {
			sec.RecordUsage(u)
		}
		if u, ok := usageFor(offset, vsrc1.Range, FieldVOP3Src1, Read); ok {
			sec.RecordUsage(u)
		}
		return true
	}

	hasLiteral := src0.IsTrueLiteral
	size := 4
	if hasLiteral {
		size = 8
	}
	buf := make([]byte, size)
	putU32LE(buf[0:4], encodeVOP2(desc.Opcode, vgprField(vdst.Range), operandField(src0), vgprField(vsrc1.Range)))
	if hasLiteral {
		putU32LE(buf[4:8], src0.LiteralValue)
	}
	sec.AppendBytes(buf)

	if u, ok := usageFor(offset, vdst.Range, FieldVOPVDst, Write); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, src0.Range, FieldVOPSrc0, Read); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, vsrc1.Range, FieldVOPVSrc1, Read); ok {
		sec.RecordUsage(u)
	}
	if implicitVCC {
		vcc := vccRegRange()
		if u, ok := usageFor(offset, vcc, FieldVOPVCC, Read); ok {
			sec.RecordUsage(u)
		}
		if u, ok := usageFor(offset, vcc, FieldVOPVCC, Write); ok {
			sec.RecordUsage(u)
		}
	}
	return true
}

func emitVOP3ExplicitCarry(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section, offset int, mods VOPModifiers, vdst, sdst1, src0, vsrc1, ssrc Operand) bool {
	if mods.NeedSDWA || mods.NeedDPP {
		a.error(cur, IncompatibleModifiers, "the explicit-carry form cannot combine with SDWA or DPP")
		return false
	}
	if src0.IsTrueLiteral || vsrc1.IsTrueLiteral || ssrc.IsTrueLiteral {
		a.error(cur, TooManyLiterals, "VOP3 form forbids literal operands")
		return false
	}
	mergeSrcMods(&mods, src0, vsrc1, ssrc)
	if !a.checkSextScope(cur, mods) {
		return false
	}
	buf := make([]byte, 8)
	putU32LE(buf[0:4], encodeVOP3Word0WithSDst1(desc.Opcode, vgprField(vdst.Range), rangeField(sdst1.Range)))
	putU32LE(buf[4:8], encodeVOP3Word1(operandField(src0), operandField(vsrc1), operandField(ssrc), mods))
	sec.AppendBytes(buf)

	if u, ok := usageFor(offset, vdst.Range, FieldVOP3VDst, Write); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, sdst1.Range, FieldVOP3SDst1, Write); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, src0.Range, FieldVOP3Src0, Read); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, vsrc1.Range, FieldVOP3Src1, Read); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, ssrc.Range, FieldVOP3SSrc, Read); ok {
		sec.RecordUsage(u)
	}
	return true
}

// dispatchVOPC handles the vector compare family: vcc is the implicit
// destination in the short form, an explicit scalar destination field in
// the long form.
func dispatchVOPC(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()

	src0, ok := ParseOperand(cur, a.Family, 1, sourceAnyMask, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	vsrc1, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
	if !ok {
		return false
	}

	mods, ok := ParseModifierTail(cur, a.Sink)
	if !ok {
		return false
	}
	mergeSrcMods(&mods, src0, vsrc1)

	if mods.NeedSDWA || mods.NeedDPP {
		if !a.checkVOPExtra(cur, mods, src0) {
			return false
		}
		selector := uint32(sdwaFieldSelector)
		if mods.NeedDPP {
			selector = dppFieldSelector
		}
		buf := make([]byte, 8)
		putU32LE(buf[0:4], encodeVOPC(desc.Opcode, selector, vgprField(vsrc1.Range)))
		putU32LE(buf[4:8], vopExtraWord(mods, src0))
		sec.AppendBytes(buf)
		vcc := vccRegRange()
		if u, ok := usageFor(offset, vcc, FieldSDST, Write); ok {
			sec.RecordUsage(u)
		}
		if u, ok := usageFor(offset, src0.Range, FieldVOPSrc0, Read); ok {
			sec.RecordUsage(u)
		}
		if u, ok := usageFor(offset, vsrc1.Range, FieldVOPVSrc1, Read); ok {
			sec.RecordUsage(u)
		}
		return true
	}

	if !a.checkSextScope(cur, mods) {
		return false
	}

	if forcesVOP3(mods) {
		if src0.IsTrueLiteral {
			a.error(cur, TooManyLiterals, "VOP3 form forbids literal operands")
			return false
		}
		vcc := vccRegRange()
		buf := make([]byte, 8)
		putU32LE(buf[0:4], encodeVOP3Word0(desc.Opcode, rangeField(vcc), mods))
		putU32LE(buf[4:8], encodeVOP3Word1(operandField(src0), rangeField(vsrc1.Range), 0, mods))
		sec.AppendBytes(buf)
		if u, ok := usageFor(offset, vcc, FieldVOP3SDst0, Write); ok {
			sec.RecordUsage(u)
		}
		if u, ok := usageFor(offset, src0.Range, FieldVOP3Src0, Read); ok {
			sec.RecordUsage(u)
		}
		if u, ok := usageFor(offset, vsrc1.Range, FieldVOP3Src1, Read); ok {
			sec.RecordUsage(u)
		}
		return true
	}

	hasLiteral := src0.IsTrueLiteral
	size := 4
	if hasLiteral {
		size = 8
	}
	buf := make([]byte, size)
	putU32LE(buf[0:4], encodeVOPC(desc.Opcode, operandField(src0), vgprField(vsrc1.Range)))
	if hasLiteral {
		putU32LE(buf[4:8], src0.LiteralValue)
	}
	sec.AppendBytes(buf)

	vcc := vccRegRange()
	if u, ok := usageFor(offset, vcc, FieldSDST, Write); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, src0.Range, FieldVOPSrc0, Read); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, vsrc1.Range, FieldVOPVSrc1, Read); ok {
		sec.RecordUsage(u)
	}
	return true
}

// dispatchVOP3 handles mnemonics that only ever exist in the long form
// (e.g. three-source FMA), taking up to three sources with per-source
// abs/neg, clamp, and an output modifier, and forbidding literals entirely.
func dispatchVOP3(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()

	vdst, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	src0, ok := ParseOperand(cur, a.Family, 1, sourceAnyMask|OpVOP3Neg, a.Vars, a.Sink)
	if !ok {
		return false
	}
	if !a.expectComma(cur) {
		return false
	}
	src1, ok := ParseOperand(cur, a.Family, 1, sourceAnyMask|OpVOP3Neg, a.Vars, a.Sink)
	if !ok {
		return false
	}

	var src2 Operand
	haveSrc2 := false
	cur.SkipSpaces()
	if cur.Peek() == ',' {
		cur.Pos++
		cur.SkipSpaces()
		op, ok := ParseOperand(cur, a.Family, 1, sourceAnyMask|OpVOP3Neg, a.Vars, a.Sink)
		if !ok {
			return false
		}
		src2, haveSrc2 = op, true
	}

	mods, ok := ParseModifierTail(cur, a.Sink)
	if !ok {
		return false
	}
	if mods.NeedSDWA || mods.NeedDPP {
		a.error(cur, IncompatibleModifiers, "a long-form-only instruction cannot combine with SDWA or DPP")
		return false
	}
	if haveSrc2 {
		mergeSrcMods(&mods, src0, src1, src2)
	} else {
		mergeSrcMods(&mods, src0, src1)
	}
	if !a.checkSextScope(cur, mods) {
		return false
	}

	if src0.IsTrueLiteral || src1.IsTrueLiteral || (haveSrc2 && src2.IsTrueLiteral) {
		a.error(cur, TooManyLiterals, "VOP3 forbids literal operands")
		return false
	}

	src2Field := uint32(0)
	if haveSrc2 {
		src2Field = operandField(src2)
	}

	buf := make([]byte, 8)
	putU32LE(buf[0:4], encodeVOP3Word0(desc.Opcode, vgprField(vdst.Range), mods))
	putU32LE(buf[4:8], encodeVOP3Word1(operandField(src0), operandField(src1), src2Field, mods))
	sec.AppendBytes(buf)

	if u, ok := usageFor(offset, vdst.Range, FieldVOP3VDst, Write); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, src0.Range, FieldVOP3Src0, Read); ok {
		sec.RecordUsage(u)
	}
	if u, ok := usageFor(offset, src1.Range, FieldVOP3Src1, Read); ok {
		sec.RecordUsage(u)
	}
	if haveSrc2 {
		if u, ok := usageFor(offset, src2.Range, FieldVOP3Src2, Read); ok {
			sec.RecordUsage(u)
		}
	}
	return true
}
