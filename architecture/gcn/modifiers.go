package gcn

import "strings"

// Output-modifier field values. mul:2, mul:4, and div:2 share one two-bit
// field in the emitted instruction, which is why they are mutually
// exclusive.
const (
	OModNone = 0
	OModMul2 = 1
	OModMul4 = 2
	OModDiv2 = 3
)

// Instruction-level modifier flag bits, continuing the bit numbering the
// omod field starts.
const (
	FlagClamp     = 16
	FlagVOP3Form  = 32
	FlagBoundCtrl = 64
)

// Per-source modifier bits, shared by the long-form and SDWA encodings.
const (
	srcModAbs  = 1
	srcModNeg  = 2
	srcModSext = 4
)

// ModBits carries the source-side unary modifiers consumed by the operand
// parser's abs()/neg()/-/sext() wrapper grammar. Destination operands
// leave this zero.
type ModBits struct {
	Abs  bool
	Neg  bool
	Sext bool
}

func (m ModBits) bits() int {
	v := 0
	if m.Abs {
		v |= srcModAbs
	}
	if m.Neg {
		v |= srcModNeg
	}
	if m.Sext {
		v |= srcModSext
	}
	return v
}

// DstUnused is the SDWA dst_unused field: what happens to the destination
// bits the selected sub-word does not cover.
type DstUnused int

const (
	DstUnusedPad DstUnused = iota
	DstUnusedSext
	DstUnusedPreserve
)

// VOPModifiers is the accumulated tail-modifier record: SDWA selectors,
// DPP control fields, and the long-form tail (omod, clamp, per-source
// abs/neg/sext). At most one of NeedSDWA/NeedDPP may be set.
type VOPModifiers struct {
	DstSel    int
	DstUnused DstUnused
	Src0Sel   int
	Src1Sel   int
	BankMask  int
	RowMask   int
	DppCtrl   int
	BoundCtrl bool

	NeedSDWA bool
	NeedDPP  bool
	VOP3     bool
	Clamp    bool
	OMod     int

	SrcAbs  [3]bool
	SrcNeg  [3]bool
	SrcSext [3]bool
}

var selNames = map[string]int{
	"BYTE_0": 0, "BYTE_1": 1, "BYTE_2": 2, "BYTE_3": 3, "WORD_0": 4, "WORD_1": 5, "DWORD": 6,
}

var dstUnusedNames = map[string]DstUnused{
	"PAD": DstUnusedPad, "SEXT": DstUnusedSext, "PRESERVE": DstUnusedPreserve,
}

func parseBoolList(s string) [3]bool {
	var out [3]bool
	s = strings.Trim(s, "[]")
	parts := strings.Split(s, ",")
	for i := 0; i < 3 && i < len(parts); i++ {
		out[i] = strings.TrimSpace(parts[i]) == "1"
	}
	return out
}

// ParseModifierTail consumes the whitespace-separated tail modifier
// grammar after all positional operands. It reports IncompatibleModifiers
// if SDWA and DPP are both requested.
func ParseModifierTail(cur *Cursor, sink ErrorSink) (VOPModifiers, bool) {
	var mods VOPModifiers

	for {
		cur.SkipSpaces()
		if cur.AtEnd() {
			break
		}
		token := cur.TakeWhile(func(b byte) bool { return b != ' ' && b != '\t' })
		if token == "" {
			break
		}

		name, arg, hasArg := strings.Cut(token, ":")

		switch {
		case token == "clamp":
			mods.Clamp = true
		case token == "vop3":
			mods.VOP3 = true
		case token == "bound_ctrl":
			mods.BoundCtrl = true
			mods.NeedDPP = true
		case name == "mul" && hasArg:
			if arg == "4" {
				mods.OMod = OModMul4
			} else {
				mods.OMod = OModMul2
			}
			mods.VOP3 = true
		case name == "div" && hasArg:
			mods.OMod = OModDiv2
			mods.VOP3 = true
		case name == "abs" && hasArg:
			mods.SrcAbs = parseBoolList(arg)
			mods.VOP3 = true
		case name == "neg" && hasArg:
			mods.SrcNeg = parseBoolList(arg)
			mods.VOP3 = true
		case name == "sext" && hasArg:
			mods.SrcSext = parseBoolList(arg)
			mods.NeedSDWA = true
		case name == "dst_sel" && hasArg:
			mods.DstSel = selNames[arg]
			mods.NeedSDWA = true
		case name == "src0_sel" && hasArg:
			mods.Src0Sel = selNames[arg]
			mods.NeedSDWA = true
		case name == "src1_sel" && hasArg:
			mods.Src1Sel = selNames[arg]
			mods.NeedSDWA = true
		case name == "dst_unused" && hasArg:
			mods.DstUnused = dstUnusedNames[arg]
			mods.NeedSDWA = true
		case name == "dpp_ctrl" && hasArg:
			mods.DppCtrl = parseDppCtrl(arg)
			mods.NeedDPP = true
		case name == "row_mask" && hasArg:
			mods.RowMask = parseHexOrDec(arg)
			mods.NeedDPP = true
		case name == "bank_mask" && hasArg:
			mods.BankMask = parseHexOrDec(arg)
			mods.NeedDPP = true
		default:
			if sink != nil {
				sink.Error(cur, newError(cur, ExpectedToken, "unrecognised modifier: "+token))
			}
			return mods, false
		}
	}

	if mods.NeedSDWA && mods.NeedDPP {
		if sink != nil {
			sink.Error(cur, newError(cur, IncompatibleModifiers, "SDWA and DPP cannot both be requested"))
		}
		return mods, false
	}
	if mods.VOP3 && (mods.NeedSDWA || mods.NeedDPP) {
		if sink != nil {
			sink.Error(cur, newError(cur, IncompatibleModifiers, "vop3 cannot be forced together with SDWA or DPP"))
		}
		return mods, false
	}
	return mods, true
}

func parseHexOrDec(s string) int {
	c := &Cursor{Line: s}
	v, ok := parseIntToken(c)
	if !ok {
		return 0
	}
	return int(v)
}

// dppCtrlNames covers the common named forms; a plain numeric dpp_ctrl is
// passed through unchanged.
var dppCtrlNames = map[string]int{
	"row_mirror":      0x140,
	"row_half_mirror": 0x141,
	"row_shl:1":       0x101,
	"row_shr:1":       0x111,
	"row_ror:1":       0x121,
	"wave_shl:1":      0x130,
	"wave_rol:1":      0x134,
	"wave_shr:1":      0x138,
	"wave_ror:1":      0x13c,
}

func parseDppCtrl(s string) int {
	if v, ok := dppCtrlNames[s]; ok {
		return v
	}
	return parseHexOrDec(s)
}
