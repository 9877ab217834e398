package asm

// Label represents a named position in an assembled section. Labels are
// targets for SOPP branch instructions (s_branch, s_cbranch_*); the
// dispatcher records the label name in a Fixup and leaves the 16-bit
// delta-encoded word offset for the out-of-scope expression-resolution
// pass to patch once every label's final offset is known.
type Label struct {
	Identifier string
	Offset     int
}

// IsLabel reports whether a line of assembly is a label definition: an
// identifier immediately followed by a colon, with nothing but
// whitespace or a comment afterwards, e.g. "loop_start:".
func IsLabel(line string) bool {
	line = trimComments(line)
	end := len(line)
	for end > 0 && isWhitespace(line[end-1]) {
		end--
	}
	if end == 0 || line[end-1] != ':' {
		return false
	}

	start := 0
	for start < end && isWhitespace(line[start]) {
		start++
	}
	ident := line[start : end-1]
	if ident == "" || !isIdentStart(ident[0]) {
		return false
	}
	for i := 1; i < len(ident); i++ {
		if !isIdentChar(ident[i]) {
			return false
		}
	}
	return true
}

// trimComments - removes any comments from a line of assembly code. In assembly language, comments are typically
// denoted by a semicolon (";"). This function checks if the line contains a semicolon and, if so, returns
// the portion of the line before the semicolon, effectively removing the comment. If there is no semicolon in the line,
// it returns the line unchanged.
func trimComments(line string) string {
	if idx := indexOf(line, ';'); idx != -1 {
		return line[:idx]
	}
	return line
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
