package gcn_test

import (
	"testing"

	"github.com/halvard/gcnasm/architecture/gcn"
)

func newAssembler() *gcn.Assembler {
	return &gcn.Assembler{
		Family:    gcn.FamilySI,
		Mnemonics: gcn.DefaultInstructions,
		Sink:      &fakeSink{},
	}
}

// TestDispatchDSReadWrite exercises the DS encoding's destination-plus-
// address load shape.
func TestDispatchDSReadWrite(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, v2")
	ok := a.AssembleInstruction("ds_read_b32", cur, sec)
	if !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if len(sec.bytes) != 8 {
		t.Fatalf("size = %d, want 8", len(sec.bytes))
	}
	if len(sec.usages) != 2 {
		t.Fatalf("usages = %d, want 2", len(sec.usages))
	}
	if sec.usages[0].Field != gcn.FieldDSVDst || sec.usages[0].RW != gcn.Write {
		t.Errorf("dst usage = %+v", sec.usages[0])
	}
	if sec.usages[1].Field != gcn.FieldDSAddr || sec.usages[1].RW != gcn.Read {
		t.Errorf("addr usage = %+v", sec.usages[1])
	}
}

// TestDispatchDSWriteSourceOnly exercises the source-only DS form with two
// data operands plus the offset0/offset1/gds tail.
func TestDispatchDSWriteSourceOnly(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, v2, v3 offset0:4 offset1:8 gds")
	ok := a.AssembleInstruction("ds_write_b32", cur, sec)
	if !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if len(sec.bytes) != 8 {
		t.Fatalf("size = %d, want 8", len(sec.bytes))
	}
	word0 := sec.word(0)
	if word0&0xFF != 4 {
		t.Errorf("offset0 = %d, want 4", word0&0xFF)
	}
	if (word0>>8)&0xFF != 8 {
		t.Errorf("offset1 = %d, want 8", (word0>>8)&0xFF)
	}
	if word0&(1<<17) == 0 {
		t.Errorf("expected the gds bit set")
	}
	fields := map[gcn.FieldTag]bool{}
	for _, u := range sec.usages {
		fields[u.Field] = true
	}
	if !fields[gcn.FieldDSAddr] || !fields[gcn.FieldDSData0] || !fields[gcn.FieldDSData1] {
		t.Errorf("usages = %+v, want addr/data0/data1", sec.usages)
	}
}

// TestDispatchMUBUFLoad exercises the buffer-load shape and its offen/glc
// tail.
func TestDispatchMUBUFLoad(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v5, v6, s[8:11], s12 offen offset:16 glc")
	ok := a.AssembleInstruction("buffer_load_dword", cur, sec)
	if !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if len(sec.bytes) != 8 {
		t.Fatalf("size = %d, want 8", len(sec.bytes))
	}
	word0 := sec.word(0)
	if word0&0xFFF != 16 {
		t.Errorf("offset = %d, want 16", word0&0xFFF)
	}
	if word0&(1<<12) == 0 {
		t.Errorf("expected the offen bit set")
	}
	if word0&(1<<14) == 0 {
		t.Errorf("expected the glc bit set")
	}
	var sawSRsrc, sawVData bool
	for _, u := range sec.usages {
		if u.Field == gcn.FieldBufSRsrc && u.RStart == 8 && u.REnd == 12 {
			sawSRsrc = true
		}
		if u.Field == gcn.FieldBufVData && u.RW == gcn.Write {
			sawVData = true
		}
	}
	if !sawSRsrc {
		t.Errorf("expected a BUF_SRSRC usage for s[8:11], got %+v", sec.usages)
	}
	if !sawVData {
		t.Errorf("expected a BUF_VDATA write usage, got %+v", sec.usages)
	}
}

// TestDispatchMIMGSample exercises the 4-register SRSRC + 4-register
// SSAMP sampled form.
func TestDispatchMIMGSample(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v0, v1, s[4:7], s[8:11] dmask:0xf unorm")
	ok := a.AssembleInstruction("image_sample", cur, sec)
	if !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if len(sec.bytes) != 8 {
		t.Fatalf("size = %d, want 8", len(sec.bytes))
	}
	var sawSRsrc, sawSSamp bool
	for _, u := range sec.usages {
		if u.Field == gcn.FieldImgSRsrc && u.RStart == 4 && u.REnd == 8 {
			sawSRsrc = true
		}
		if u.Field == gcn.FieldImgSSamp && u.RStart == 8 && u.REnd == 12 {
			sawSSamp = true
		}
	}
	if !sawSRsrc {
		t.Errorf("expected an IMG_SRSRC usage for s[4:7], got %+v", sec.usages)
	}
	if !sawSSamp {
		t.Errorf("expected an IMG_SSAMP usage for s[8:11], got %+v", sec.usages)
	}
}

// TestDispatchEXPMrtWithOffSlots exercises the export encoding's per-slot
// enable mask: an "off" source contributes no usage record.
func TestDispatchEXPMrtWithOffSlots(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("mrt0, v0, v1, off, off done")
	ok := a.AssembleInstruction("exp", cur, sec)
	if !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if len(sec.bytes) != 8 {
		t.Fatalf("size = %d, want 8", len(sec.bytes))
	}
	if len(sec.usages) != 2 {
		t.Fatalf("usages = %d, want 2 (off slots emit nothing), got %+v", len(sec.usages), sec.usages)
	}
	word0 := sec.word(0)
	if word0&0xF != 0x3 {
		t.Errorf("en mask = %#x, want 0x3", word0&0xF)
	}
	if word0&(1<<11) == 0 {
		t.Errorf("expected the done bit set")
	}
}

// TestDispatchFLATLoad exercises the 2-register VADDR flat-load shape.
func TestDispatchFLATLoad(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v3, v[4:5] glc")
	ok := a.AssembleInstruction("flat_load_dword", cur, sec)
	if !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if len(sec.bytes) != 8 {
		t.Fatalf("size = %d, want 8", len(sec.bytes))
	}
	word0 := sec.word(0)
	if word0&(1<<16) == 0 {
		t.Errorf("expected the glc bit set")
	}
	var sawAddr, sawDst bool
	for _, u := range sec.usages {
		if u.Field == gcn.FieldFlatAddr && u.RW == gcn.Read {
			sawAddr = true
		}
		if u.Field == gcn.FieldFlatVDst && u.RW == gcn.Write {
			sawDst = true
		}
	}
	if !sawAddr || !sawDst {
		t.Errorf("usages = %+v, want FLAT_ADDR read + FLAT_VDST write", sec.usages)
	}
}

// TestDispatchVINTRP exercises the interpolation encoding's P-selector
// and attribute-descriptor grammar.
func TestDispatchVINTRP(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v4, p10, attr3.y")
	ok := a.AssembleInstruction("v_interp_p1_f32", cur, sec)
	if !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if len(sec.bytes) != 4 {
		t.Fatalf("size = %d, want 4", len(sec.bytes))
	}
	if len(sec.usages) != 1 || sec.usages[0].Field != gcn.FieldVIntrpVDst || sec.usages[0].RW != gcn.Write {
		t.Errorf("usages = %+v, want a single VINTRP_VDST write", sec.usages)
	}
	word0 := sec.word(0)
	if (word0>>10)&0x3F != 3 {
		t.Errorf("attrNum = %d, want 3", (word0>>10)&0x3F)
	}
	if (word0>>8)&0x3 != 1 {
		t.Errorf("channel = %d, want 1 (y)", (word0>>8)&0x3)
	}
	if word0&0xFF != 0 {
		t.Errorf("vsrc = %d, want 0 (p10)", word0&0xFF)
	}
}

// TestDispatchVINTRPUnknownSelectorRejected exercises the error path for an
// unrecognised P-selector token.
func TestDispatchVINTRPUnknownSelectorRejected(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v4, p99, attr3.y")
	ok := a.AssembleInstruction("v_interp_p1_f32", cur, sec)
	if ok {
		t.Fatalf("expected dispatch to fail on an unrecognised P-selector")
	}
	if len(sec.bytes) != 0 {
		t.Errorf("expected no bytes emitted on a failed parse, got %d", len(sec.bytes))
	}
}

// TestDispatchVOPCShortAndVOP3Forms exercises VOPC's implicit-vcc short
// form against its explicit-destination long-form promotion.
func TestDispatchVOPCShortAndVOP3Forms(t *testing.T) {
	a := newAssembler()

	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, v2")
	if ok := a.AssembleInstruction("v_cmp_eq_f32", cur, sec); !ok {
		t.Fatalf("short form dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if len(sec.bytes) != 4 {
		t.Fatalf("short form size = %d, want 4", len(sec.bytes))
	}
	if sec.usages[0].Field != gcn.FieldSDST || sec.usages[0].RW != gcn.Write {
		t.Errorf("expected an implicit vcc write tagged SDST, got %+v", sec.usages[0])
	}

	a2 := newAssembler()
	sec2 := &fakeSection{}
	cur2 := gcn.NewCursor("v1, v2 vop3")
	if ok := a2.AssembleInstruction("v_cmp_eq_f32", cur2, sec2); !ok {
		t.Fatalf("vop3 form dispatch failed: %v", a2.Sink.(*fakeSink).errors)
	}
	if len(sec2.bytes) != 8 {
		t.Fatalf("vop3 form size = %d, want 8", len(sec2.bytes))
	}
	if sec2.usages[0].Field != gcn.FieldVOP3SDst0 {
		t.Errorf("expected VOP3_SDST0 for the explicit form, got %v", sec2.usages[0].Field)
	}
}

// TestDispatchSMEMStoreIsReadNotWrite exercises the scalar-store variant,
// whose data field is read rather than written.
func TestDispatchSMEMStoreIsReadNotWrite(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("s9, s[2:3], 0")
	if ok := a.AssembleInstruction("s_store_dword", cur, sec); !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if sec.usages[0].Field != gcn.FieldSDST || sec.usages[0].RW != gcn.Read {
		t.Errorf("expected a FieldSDST read for the stored value, got %+v", sec.usages[0])
	}
}

// TestAssembleInstructionArchGate exercises the architecture gate: a
// mnemonic restricted to FamilyVI/FamilyRX3x0 is rejected on FamilySI
// with UnsupportedOnArch and emits no bytes, but assembles cleanly once
// the Assembler's Family is switched.
func TestAssembleInstructionArchGate(t *testing.T) {
	mnemonics := gcn.StaticMnemonicTable{
		"s_dcache_inv": {Mnemonic: "s_dcache_inv", Encoding: gcn.SOPP, Opcode: 0x27, ArchMask: gcn.ArchVI | gcn.ArchRX3x0},
	}

	sink := &fakeSink{}
	a := &gcn.Assembler{Family: gcn.FamilySI, Mnemonics: mnemonics, Sink: sink}
	sec := &fakeSection{}
	cur := gcn.NewCursor("")
	if ok := a.AssembleInstruction("s_dcache_inv", cur, sec); ok {
		t.Fatalf("expected s_dcache_inv to be rejected on FamilySI")
	}
	if sink.lastKind() != gcn.UnsupportedOnArch {
		t.Errorf("kind = %v, want UnsupportedOnArch", sink.lastKind())
	}
	if len(sec.bytes) != 0 {
		t.Errorf("expected no bytes emitted for a rejected instruction, got %d", len(sec.bytes))
	}

	sink2 := &fakeSink{}
	a2 := &gcn.Assembler{Family: gcn.FamilyVI, Mnemonics: mnemonics, Sink: sink2}
	sec2 := &fakeSection{}
	cur2 := gcn.NewCursor("")
	if ok := a2.AssembleInstruction("s_dcache_inv", cur2, sec2); !ok {
		t.Fatalf("expected s_dcache_inv to assemble on FamilyVI: %v", sink2.errors)
	}
	if len(sec2.bytes) != 4 {
		t.Errorf("size = %d, want 4", len(sec2.bytes))
	}
}

// TestAssembleInstructionUnknownMnemonic exercises the unknown-mnemonic
// error path.
func TestAssembleInstructionUnknownMnemonic(t *testing.T) {
	sink := &fakeSink{}
	a := &gcn.Assembler{Family: gcn.FamilySI, Mnemonics: gcn.DefaultInstructions, Sink: sink}
	sec := &fakeSection{}
	cur := gcn.NewCursor("")
	if ok := a.AssembleInstruction("s_not_a_real_mnemonic", cur, sec); ok {
		t.Fatalf("expected an unknown mnemonic to be rejected")
	}
	if sink.lastKind() != gcn.ExpectedToken {
		t.Errorf("kind = %v, want ExpectedToken", sink.lastKind())
	}
}

// TestDispatchVOP3OnlyMnemonic exercises a mnemonic that only exists in the
// long form, with all three sources present.
func TestDispatchVOP3OnlyMnemonic(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, v2, v3, v4")
	if ok := a.AssembleInstruction("v_mad_f32", cur, sec); !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if len(sec.bytes) != 8 {
		t.Fatalf("size = %d, want 8", len(sec.bytes))
	}
	want := []gcn.FieldTag{gcn.FieldVOP3VDst, gcn.FieldVOP3Src0, gcn.FieldVOP3Src1, gcn.FieldVOP3Src2}
	if len(sec.usages) != len(want) {
		t.Fatalf("usages = %d, want %d", len(sec.usages), len(want))
	}
	for i, u := range sec.usages {
		if u.Field != want[i] {
			t.Errorf("usage %d field = %v, want %v", i, u.Field, want[i])
		}
	}
}

// TestDispatchVOP3SourceModifierBits checks that a leading '-' and an
// abs() wrapper land in the per-source neg/abs bit positions.
func TestDispatchVOP3SourceModifierBits(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, -v2, abs(v3), v4")
	if ok := a.AssembleInstruction("v_mad_f32", cur, sec); !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	word1 := sec.word(1)
	if word1&(1<<27) == 0 {
		t.Errorf("expected the src0 neg bit set, word1 = %#x", word1)
	}
	word0 := sec.word(0)
	if word0&(1<<13) == 0 {
		t.Errorf("expected the src1 abs bit set, word0 = %#x", word0)
	}
}

// TestDispatchVOP1AbsWrapperForcesLongForm checks that an abs() wrapper on
// a short-encoding source promotes the instruction the same way an
// explicit vop3 token does.
func TestDispatchVOP1AbsWrapperForcesLongForm(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, abs(v2)")
	if ok := a.AssembleInstruction("v_mov_b32", cur, sec); !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if len(sec.bytes) != 8 {
		t.Fatalf("size = %d, want 8", len(sec.bytes))
	}
	if sec.usages[0].Field != gcn.FieldVOP3VDst {
		t.Errorf("dst field = %v, want VOP3_VDST", sec.usages[0].Field)
	}
	if word0 := sec.word(0); word0&(1<<12) == 0 {
		t.Errorf("expected the src0 abs bit set, word0 = %#x", word0)
	}
}

// TestDispatchVOP2ScalarSecondSourcePromotes checks that a scalar second
// source, which the short encoding's register-only field cannot hold,
// promotes the instruction to the long form without any modifier.
func TestDispatchVOP2ScalarSecondSourcePromotes(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, v2, s3")
	if ok := a.AssembleInstruction("v_add_f32", cur, sec); !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if len(sec.bytes) != 8 {
		t.Fatalf("size = %d, want 8", len(sec.bytes))
	}
	if sec.usages[2].Field != gcn.FieldVOP3Src1 {
		t.Errorf("src1 field = %v, want VOP3_SRC1", sec.usages[2].Field)
	}
}

// TestDispatchVOP2LiteralSecondSourceRejected: a literal cannot ride in
// the second source's register-only field, and the long form it would
// otherwise promote to has no literal slot.
func TestDispatchVOP2LiteralSecondSourceRejected(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, v2, 12345")
	if ok := a.AssembleInstruction("v_add_f32", cur, sec); ok {
		t.Fatalf("expected a literal second source to be rejected")
	}
	if a.Sink.(*fakeSink).lastKind() != gcn.TooManyLiterals {
		t.Errorf("kind = %v, want TooManyLiterals", a.Sink.(*fakeSink).lastKind())
	}
	if len(sec.bytes) != 0 {
		t.Errorf("expected no bytes emitted, got %d", len(sec.bytes))
	}
}

// TestDispatchVOP2SDWA exercises the SDWA form: the src0 field becomes the
// SDWA selector and the control word follows the instruction word.
func TestDispatchVOP2SDWA(t *testing.T) {
	sink := &fakeSink{}
	a := &gcn.Assembler{Family: gcn.FamilyVI, Mnemonics: gcn.DefaultInstructions, Sink: sink}
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, v2, v3 dst_sel:WORD_0 src0_sel:BYTE_1")
	if ok := a.AssembleInstruction("v_add_f32", cur, sec); !ok {
		t.Fatalf("dispatch failed: %v", sink.errors)
	}
	if len(sec.bytes) != 8 {
		t.Fatalf("size = %d, want 8", len(sec.bytes))
	}
	if src0 := sec.word(0) & 0x1FF; src0 != 0xF9 {
		t.Errorf("src0 field = %#x, want the SDWA selector 0xf9", src0)
	}
	word1 := sec.word(1)
	if word1&0xFF != 2 {
		t.Errorf("SDWA src0 = %d, want 2", word1&0xFF)
	}
	if (word1>>8)&0x7 != 4 {
		t.Errorf("dst_sel = %d, want 4 (WORD_0)", (word1>>8)&0x7)
	}
	if (word1>>16)&0x7 != 1 {
		t.Errorf("src0_sel = %d, want 1 (BYTE_1)", (word1>>16)&0x7)
	}
	if sec.usages[0].Field != gcn.FieldVOPVDst {
		t.Errorf("dst field = %v, want VOP_VDST (SDWA keeps the short-form tags)", sec.usages[0].Field)
	}
}

// TestDispatchVOP1DPP exercises the DPP form's control word.
func TestDispatchVOP1DPP(t *testing.T) {
	sink := &fakeSink{}
	a := &gcn.Assembler{Family: gcn.FamilyVI, Mnemonics: gcn.DefaultInstructions, Sink: sink}
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, v2 dpp_ctrl:row_mirror row_mask:0xf bank_mask:0x3")
	if ok := a.AssembleInstruction("v_mov_b32", cur, sec); !ok {
		t.Fatalf("dispatch failed: %v", sink.errors)
	}
	if len(sec.bytes) != 8 {
		t.Fatalf("size = %d, want 8", len(sec.bytes))
	}
	if src0 := sec.word(0) & 0x1FF; src0 != 0xFA {
		t.Errorf("src0 field = %#x, want the DPP selector 0xfa", src0)
	}
	word1 := sec.word(1)
	if (word1>>8)&0x1FF != 0x140 {
		t.Errorf("dpp_ctrl = %#x, want 0x140 (row_mirror)", (word1>>8)&0x1FF)
	}
	if (word1>>28)&0xF != 0xF {
		t.Errorf("row_mask = %#x, want 0xf", (word1>>28)&0xF)
	}
	if (word1>>24)&0xF != 0x3 {
		t.Errorf("bank_mask = %#x, want 0x3", (word1>>24)&0xF)
	}
}

// TestDispatchSDWAGatedByArch: the SI-class families predate SDWA.
func TestDispatchSDWAGatedByArch(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, v2, v3 dst_sel:WORD_0")
	if ok := a.AssembleInstruction("v_add_f32", cur, sec); ok {
		t.Fatalf("expected SDWA to be rejected on an SI-class family")
	}
	if a.Sink.(*fakeSink).lastKind() != gcn.UnsupportedOnArch {
		t.Errorf("kind = %v, want UnsupportedOnArch", a.Sink.(*fakeSink).lastKind())
	}
	if len(sec.bytes) != 0 {
		t.Errorf("expected no bytes emitted, got %d", len(sec.bytes))
	}
}

// TestDispatchSDWAWithDPPRejected: the two trailing-word forms are
// mutually exclusive.
func TestDispatchSDWAWithDPPRejected(t *testing.T) {
	sink := &fakeSink{}
	a := &gcn.Assembler{Family: gcn.FamilyVI, Mnemonics: gcn.DefaultInstructions, Sink: sink}
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, v2 dst_sel:WORD_0 dpp_ctrl:row_mirror")
	if ok := a.AssembleInstruction("v_mov_b32", cur, sec); ok {
		t.Fatalf("expected SDWA+DPP to be rejected")
	}
	if sink.lastKind() != gcn.IncompatibleModifiers {
		t.Errorf("kind = %v, want IncompatibleModifiers", sink.lastKind())
	}
}

// TestDispatchSextOutsideSDWARejected: sext() has no home outside the SDWA
// control word.
func TestDispatchSextOutsideSDWARejected(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v1, sext(v2)")
	if ok := a.AssembleInstruction("v_mov_b32", cur, sec); ok {
		t.Fatalf("expected sext without SDWA to be rejected")
	}
	if a.Sink.(*fakeSink).lastKind() != gcn.IncompatibleModifiers {
		t.Errorf("kind = %v, want IncompatibleModifiers", a.Sink.(*fakeSink).lastKind())
	}
}

// TestDispatchVINTRPRegisterSource: the interpolation source may be a
// vector register instead of a parameter selector.
func TestDispatchVINTRPRegisterSource(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v4, v8, attr1.x")
	if ok := a.AssembleInstruction("v_interp_p1_f32", cur, sec); !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	if word0 := sec.word(0); word0&0xFF != 8 {
		t.Errorf("vsrc = %d, want 8", word0&0xFF)
	}
	if len(sec.usages) != 2 {
		t.Fatalf("usages = %d, want 2", len(sec.usages))
	}
	if sec.usages[1].Field != gcn.FieldVIntrpSrc || sec.usages[1].RW != gcn.Read {
		t.Errorf("src usage = %+v, want a VINTRP_SRC read", sec.usages[1])
	}
}

// TestDispatchMUBUFCacheFlags checks that slc and tfe land in their word1
// bit positions.
func TestDispatchMUBUFCacheFlags(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v5, v6, s[8:11], s12 slc tfe")
	if ok := a.AssembleInstruction("buffer_load_dword", cur, sec); !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	word1 := sec.word(1)
	if word1&(1<<22) == 0 {
		t.Errorf("expected the slc bit set, word1 = %#x", word1)
	}
	if word1&(1<<23) == 0 {
		t.Errorf("expected the tfe bit set, word1 = %#x", word1)
	}
	if (word1>>16)&0x1F != 2 {
		t.Errorf("srsrc field = %d, want 2 (s[8:11] / 4)", (word1>>16)&0x1F)
	}
}

// TestDispatchMIMGModifierFlags checks that slc/tfe/lwe/da reach the
// emitted word instead of being accepted and dropped.
func TestDispatchMIMGModifierFlags(t *testing.T) {
	a := newAssembler()
	sec := &fakeSection{}
	cur := gcn.NewCursor("v0, v1, s[4:7], s[8:11] dmask:0x3 slc tfe lwe da")
	if ok := a.AssembleInstruction("image_sample", cur, sec); !ok {
		t.Fatalf("dispatch failed: %v", a.Sink.(*fakeSink).errors)
	}
	word0 := sec.word(0)
	if word0&0xF != 0x3 {
		t.Errorf("dmask = %#x, want 0x3", word0&0xF)
	}
	if word0&(1<<6) == 0 {
		t.Errorf("expected the slc bit set, word0 = %#x", word0)
	}
	if word0&(1<<7) == 0 {
		t.Errorf("expected the tfe bit set, word0 = %#x", word0)
	}
	if word0&(1<<8) == 0 {
		t.Errorf("expected the lwe bit set, word0 = %#x", word0)
	}
	if word0&(1<<9) == 0 {
		t.Errorf("expected the da bit set, word0 = %#x", word0)
	}
}
