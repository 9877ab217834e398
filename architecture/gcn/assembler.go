package gcn

import "encoding/binary"

// literalFieldSelector is the encoded source-field value meaning "the
// trailing literal word", shared by every short-form encoding.
const literalFieldSelector = 0xFF

func putU32LE(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// operandField returns the value an operand contributes to its encoded
// source-field slot: the literal selector for a true literal, or the
// range's own encoded start (a physical index, a special-register offset,
// or an inline-constant selector) otherwise.
func operandField(op Operand) uint32 {
	if op.IsTrueLiteral {
		return literalFieldSelector
	}
	return rangeField(op.Range)
}

// specialFieldValues maps the singleton registers' unified-space indices to
// the numbers they encode as in a source-operand field. The unified space
// keeps the singletons above the vector pool so usage records can tell them
// apart at a glance; the wire format packs most of them into the scalar-side
// hole below the inline-constant selectors, and scc above them at 253.
var specialFieldValues = map[uint16]uint32{
	specialBase:     106, // vcc_lo
	specialBase + 1: 107, // vcc_hi
	specialBase + 2: 126, // exec_lo
	specialBase + 3: 127, // exec_hi
	specialBase + 4: 124, // m0
	specialBase + 5: 253, // scc
	specialBase + 6: 102, // flat_scratch_lo
	specialBase + 7: 103, // flat_scratch_hi
}

func rangeField(r RegRange) uint32 {
	if r.Empty() {
		return 0
	}
	if r.Kind == RegPhysical && r.Start >= specialBase {
		return specialFieldValues[r.Start]
	}
	return uint32(r.Start)
}

// vgprField returns the in-pool index a vector-register-only field encodes:
// the low byte of the unified-space value.
func vgprField(r RegRange) uint32 {
	return rangeField(r) - vectorBase
}

// Assembler is the core facade: given the current architecture, the
// external mnemonic table, register-variable table, and error sink, it
// dispatches one source line's instruction into a Section.
type Assembler struct {
	Family    GPUFamily
	Mnemonics MnemonicTable
	Vars      RegVarTable
	Sink      ErrorSink
}

type dispatchFunc func(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool

var dispatchTable = map[EncodingFamily]dispatchFunc{
	SOP1:   dispatchSOP1,
	SOP2:   dispatchSOP2,
	SOPK:   dispatchSOPK,
	SOPC:   dispatchSOPC,
	SOPP:   dispatchSOPP,
	SMEM:   dispatchSMEM,
	VOP1:   dispatchVOP1,
	VOP2:   dispatchVOP2,
	VOPC:   dispatchVOPC,
	VOP3:   dispatchVOP3,
	VINTRP: dispatchVINTRP,
	DS:     dispatchDS,
	MUBUF:  dispatchMUBUF,
	MTBUF:  dispatchMUBUF,
	MIMG:   dispatchMIMG,
	EXP:    dispatchEXP,
	FLAT:   dispatchFLAT,
}

func (a *Assembler) error(cur *Cursor, kind ErrorKind, msg string) {
	if a.Sink != nil {
		a.Sink.Error(cur, newError(cur, kind, msg))
	}
}

// expectComma consumes a ',' separator between positional operands,
// reporting ExpectedToken on mismatch.
func (a *Assembler) expectComma(cur *Cursor) bool {
	cur.SkipSpaces()
	if !cur.SkipCharAndSpaces(',') {
		a.error(cur, ExpectedToken, "expected ','")
		return false
	}
	return true
}

// AssembleInstruction dispatches mnemonic's operands (the remainder of the
// source line, at cur) into sec. It is the entry point a line driver calls
// once it has classified a line as an instruction and split off the
// mnemonic word.
func (a *Assembler) AssembleInstruction(mnemonic string, cur *Cursor, sec Section) bool {
	desc, ok := a.Mnemonics.Lookup(mnemonic)
	if !ok {
		a.error(cur, ExpectedToken, "unknown mnemonic: "+mnemonic)
		return false
	}
	if !desc.ArchMask.Supports(a.Family) {
		a.error(cur, UnsupportedOnArch, "mnemonic "+mnemonic+" is not supported on the current architecture")
		return false
	}
	fn, ok := dispatchTable[desc.Encoding]
	if !ok {
		a.error(cur, UnsupportedOnArch, "no dispatcher registered for this encoding family")
		return false
	}
	return fn(a, desc, cur, sec)
}
