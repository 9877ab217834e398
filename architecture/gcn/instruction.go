package gcn

// EncodingFamily identifies one of the ~14 instruction-word layouts GCN
// defines.
type EncodingFamily int

const (
	SOP1 EncodingFamily = iota
	SOP2
	SOPK
	SOPC
	SOPP
	SMEM // covers both the 4-byte SMRD and 8-byte SMEM layouts: the
	// architecture alone picks between them, so they share one family tag.
	VOP1
	VOP2
	VOPC
	VOP3
	VINTRP
	DS
	MUBUF
	MTBUF
	MIMG
	EXP
	FLAT
)

// InstrFlag encodes per-mnemonic quirks that don't fit the generic operand
// grammar: a 64-bit-wide destination, an implicit vcc operand, a wide
// memory-descriptor base, and so on.
type InstrFlag uint16

const (
	FlagDest64 InstrFlag = 1 << iota
	FlagImplicitVCC
	FlagSMRDOffsetScalar
	FlagSourceOnly
	FlagDestOnly
	FlagTwoSourceNoDest
	FlagIsBranch
	FlagSBase4Reg
)

func (f InstrFlag) has(bit InstrFlag) bool { return f&bit != 0 }

// InstructionDescriptor is the external mnemonic table's entry for one
// instruction.
type InstructionDescriptor struct {
	Mnemonic string
	Encoding EncodingFamily
	Opcode   uint32
	ArchMask ArchMask
	Flags    InstrFlag
}

// MnemonicTable is the external collaborator supplying instruction
// descriptors keyed by mnemonic text.
type MnemonicTable interface {
	Lookup(mnemonic string) (InstructionDescriptor, bool)
}

// StaticMnemonicTable is a plain map-backed MnemonicTable, suitable for the
// CLI driver and for tests: the mnemonic set itself is architecture data,
// not core logic, so it is a free-standing table rather than something the
// dispatchers hardcode.
type StaticMnemonicTable map[string]InstructionDescriptor

func (t StaticMnemonicTable) Lookup(mnemonic string) (InstructionDescriptor, bool) {
	d, ok := t[mnemonic]
	return d, ok
}

// DefaultInstructions is a representative slice of the mnemonic table,
// one or more entries per encoding family. A complete assembler would load
// this from a much larger architecture data file; nothing in the dispatch
// logic depends on its size.
var DefaultInstructions = StaticMnemonicTable{
	"s_mov_b32":      {Mnemonic: "s_mov_b32", Encoding: SOP1, Opcode: 0, ArchMask: ArchAll},
	"s_mov_b64":      {Mnemonic: "s_mov_b64", Encoding: SOP1, Opcode: 4, ArchMask: ArchAll, Flags: FlagDest64},
	"s_setpc_b64":    {Mnemonic: "s_setpc_b64", Encoding: SOP1, Opcode: 0x1c, ArchMask: ArchAll, Flags: FlagSourceOnly | FlagDest64},
	"s_getpc_b64":    {Mnemonic: "s_getpc_b64", Encoding: SOP1, Opcode: 0x1d, ArchMask: ArchAll, Flags: FlagDestOnly | FlagDest64},
	"s_cbranch_join": {Mnemonic: "s_cbranch_join", Encoding: SOP1, Opcode: 0x2d, ArchMask: ArchAll, Flags: FlagSourceOnly},

	"s_add_u32":        {Mnemonic: "s_add_u32", Encoding: SOP2, Opcode: 0, ArchMask: ArchAll},
	"s_cbranch_g_fork": {Mnemonic: "s_cbranch_g_fork", Encoding: SOP2, Opcode: 0x1c, ArchMask: ArchAll, Flags: FlagTwoSourceNoDest},

	"s_cmpk_eq_i32": {Mnemonic: "s_cmpk_eq_i32", Encoding: SOPK, Opcode: 3, ArchMask: ArchAll},
	"s_movk_i32":    {Mnemonic: "s_movk_i32", Encoding: SOPK, Opcode: 0, ArchMask: ArchAll},

	"s_cmp_eq_i32": {Mnemonic: "s_cmp_eq_i32", Encoding: SOPC, Opcode: 0, ArchMask: ArchAll, Flags: FlagTwoSourceNoDest},

	"s_branch":       {Mnemonic: "s_branch", Encoding: SOPP, Opcode: 2, ArchMask: ArchAll, Flags: FlagIsBranch},
	"s_cbranch_scc0": {Mnemonic: "s_cbranch_scc0", Encoding: SOPP, Opcode: 4, ArchMask: ArchAll, Flags: FlagIsBranch},
	"s_endpgm":       {Mnemonic: "s_endpgm", Encoding: SOPP, Opcode: 1, ArchMask: ArchAll},

	"s_load_dword":        {Mnemonic: "s_load_dword", Encoding: SMEM, Opcode: 0, ArchMask: ArchAll},
	"s_load_dwordx2":      {Mnemonic: "s_load_dwordx2", Encoding: SMEM, Opcode: 1, ArchMask: ArchAll, Flags: FlagDest64},
	"s_store_dword":       {Mnemonic: "s_store_dword", Encoding: SMEM, Opcode: 16, ArchMask: ArchAll, Flags: FlagSourceOnly},
	"s_buffer_load_dword": {Mnemonic: "s_buffer_load_dword", Encoding: SMEM, Opcode: 8, ArchMask: ArchAll, Flags: FlagSBase4Reg},

	"v_mov_b32": {Mnemonic: "v_mov_b32", Encoding: VOP1, Opcode: 1, ArchMask: ArchAll},

	"v_sub_f32":     {Mnemonic: "v_sub_f32", Encoding: VOP2, Opcode: 4, ArchMask: ArchAll},
	"v_add_f32":     {Mnemonic: "v_add_f32", Encoding: VOP2, Opcode: 3, ArchMask: ArchAll},
	"v_addc_u32":    {Mnemonic: "v_addc_u32", Encoding: VOP2, Opcode: 28, ArchMask: ArchAll, Flags: FlagImplicitVCC},
	"v_cndmask_b32": {Mnemonic: "v_cndmask_b32", Encoding: VOP2, Opcode: 0, ArchMask: ArchAll, Flags: FlagImplicitVCC},

	"v_cmp_eq_f32": {Mnemonic: "v_cmp_eq_f32", Encoding: VOPC, Opcode: 2, ArchMask: ArchAll},

	"v_mad_f32": {Mnemonic: "v_mad_f32", Encoding: VOP3, Opcode: 0x141, ArchMask: ArchAll},
	"v_fma_f32": {Mnemonic: "v_fma_f32", Encoding: VOP3, Opcode: 0x143, ArchMask: ArchAll},

	"v_interp_p1_f32": {Mnemonic: "v_interp_p1_f32", Encoding: VINTRP, Opcode: 0, ArchMask: ArchAll},

	"ds_write_b32": {Mnemonic: "ds_write_b32", Encoding: DS, Opcode: 13, ArchMask: ArchAll, Flags: FlagSourceOnly},
	"ds_read_b32":  {Mnemonic: "ds_read_b32", Encoding: DS, Opcode: 54, ArchMask: ArchAll},

	"buffer_load_dword": {Mnemonic: "buffer_load_dword", Encoding: MUBUF, Opcode: 4, ArchMask: ArchAll},

	"tbuffer_load_format_x": {Mnemonic: "tbuffer_load_format_x", Encoding: MTBUF, Opcode: 0, ArchMask: ArchAll},

	"image_sample": {Mnemonic: "image_sample", Encoding: MIMG, Opcode: 0, ArchMask: ArchAll},

	"exp": {Mnemonic: "exp", Encoding: EXP, Opcode: 0, ArchMask: ArchAll},

	"flat_load_dword": {Mnemonic: "flat_load_dword", Encoding: FLAT, Opcode: 8, ArchMask: ArchAll},
}
