package gcn

import (
	"strconv"
	"strings"
)

func parseExpTarget(tok string) (int, bool) {
	switch {
	case tok == "null":
		return 9, true
	case strings.HasPrefix(tok, "mrt"):
		n, err := strconv.Atoi(tok[3:])
		if err != nil || n < 0 || n > 7 {
			return 0, false
		}
		return n, true
	case strings.HasPrefix(tok, "pos"):
		n, err := strconv.Atoi(tok[3:])
		if err != nil || n < 0 || n > 3 {
			return 0, false
		}
		return 12 + n, true
	case strings.HasPrefix(tok, "param"):
		n, err := strconv.Atoi(tok[5:])
		if err != nil || n < 0 || n > 31 {
			return 0, false
		}
		return 32 + n, true
	default:
		return 0, false
	}
}

func encodeExpWord0(target, enMask int, done, compr, vm bool) uint32 {
	v := uint32(enMask) | (uint32(target) << 4) | (uint32(compr2int(compr)) << 10)
	if done {
		v |= 1 << 11
	}
	if vm {
		v |= 1 << 12
	}
	return (0x3E << 26) | v
}

func compr2int(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeExpWord1(src0, src1, src2, src3 uint32) uint32 {
	return (src0 & 0xFF) | ((src1 & 0xFF) << 8) | ((src2 & 0xFF) << 16) | ((src3 & 0xFF) << 24)
}

// dispatchEXP handles export instructions: a target (mrtN/posN/paramN/
// null), four vector sources (any of which may be "off"), and the done/
// compr/vm flags.
func dispatchEXP(a *Assembler, desc InstructionDescriptor, cur *Cursor, sec Section) bool {
	offset := sec.Offset()

	cur.SkipSpaces()
	targetTok := cur.TakeWhile(func(b byte) bool { return isIdentByte(b) })
	target, ok := parseExpTarget(targetTok)
	if !ok {
		a.error(cur, ExpectedToken, "expected an export target (mrtN, posN, paramN, or null)")
		return false
	}

	var srcs [4]Operand
	enMask := 0
	for i := 0; i < 4; i++ {
		if !a.expectComma(cur) {
			return false
		}
		cur.SkipSpaces()
		if strings.HasPrefix(cur.Rest(), "off") {
			cur.Pos += 3
			continue
		}
		op, ok := ParseOperand(cur, a.Family, 1, OpVectorReg, a.Vars, a.Sink)
		if !ok {
			return false
		}
		srcs[i] = op
		enMask |= 1 << uint(i)
	}

	done, compr, vm := false, false, false
	for {
		cur.SkipSpaces()
		if cur.AtEnd() {
			break
		}
		save := cur.Pos
		token := cur.TakeWhile(func(b byte) bool { return b != ' ' && b != '\t' })
		switch token {
		case "done":
			done = true
		case "compr":
			compr = true
		case "vm":
			vm = true
		default:
			cur.Pos = save
			goto doneTail
		}
	}
doneTail:

	var fields [4]uint32
	for i, s := range srcs {
		if enMask&(1<<uint(i)) != 0 {
			fields[i] = vgprField(s.Range)
		}
	}

	buf := make([]byte, 8)
	putU32LE(buf[0:4], encodeExpWord0(target, enMask, done, compr, vm))
	putU32LE(buf[4:8], encodeExpWord1(fields[0], fields[1], fields[2], fields[3]))
	sec.AppendBytes(buf)

	for i, s := range srcs {
		if enMask&(1<<uint(i)) == 0 {
			continue
		}
		if u, ok := usageFor(offset, s.Range, FieldExpVSrc, Read); ok {
			sec.RecordUsage(u)
		}
	}
	return true
}
