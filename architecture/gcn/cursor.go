package gcn

// Cursor walks the remainder of a source line: Pos advances as operands
// and modifiers are consumed, and never moves backwards past something
// already consumed.
type Cursor struct {
	Line string
	Pos  int
}

// NewCursor returns a cursor positioned at the start of line.
func NewCursor(line string) *Cursor {
	return &Cursor{Line: line}
}

// AtEnd reports whether the cursor has reached the end of the line.
func (c *Cursor) AtEnd() bool {
	return c.Pos >= len(c.Line)
}

// Peek returns the byte at the cursor without consuming it, or 0 at end.
func (c *Cursor) Peek() byte {
	if c.AtEnd() {
		return 0
	}
	return c.Line[c.Pos]
}

// PeekAt returns the byte offset bytes ahead of the cursor, or 0 past end.
func (c *Cursor) PeekAt(offset int) byte {
	p := c.Pos + offset
	if p < 0 || p >= len(c.Line) {
		return 0
	}
	return c.Line[p]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// SkipSpaces advances the cursor past any run of spaces/tabs.
func (c *Cursor) SkipSpaces() {
	for !c.AtEnd() && isSpace(c.Peek()) {
		c.Pos++
	}
}

// SkipSpacesToEnd advances past spaces/tabs and reports whether the cursor
// landed at end of line (i.e. there is nothing left on this line).
func (c *Cursor) SkipSpacesToEnd() bool {
	c.SkipSpaces()
	return c.AtEnd()
}

// SkipCharAndSpaces requires the current byte to equal ch, consumes it along
// with any following spaces, and reports success. On mismatch the cursor is
// left unmoved.
func (c *Cursor) SkipCharAndSpaces(ch byte) bool {
	if c.AtEnd() || c.Peek() != ch {
		return false
	}
	c.Pos++
	c.SkipSpaces()
	return true
}

// Rest returns everything from the cursor to the end of the line.
func (c *Cursor) Rest() string {
	if c.AtEnd() {
		return ""
	}
	return c.Line[c.Pos:]
}

// TakeWhile consumes and returns the longest run of bytes satisfying pred,
// starting at the cursor.
func (c *Cursor) TakeWhile(pred func(byte) bool) string {
	start := c.Pos
	for !c.AtEnd() && pred(c.Peek()) {
		c.Pos++
	}
	return c.Line[start:c.Pos]
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}

// PeekIdent returns the identifier starting at the cursor without consuming
// it, or "" if the cursor is not at an identifier start.
func (c *Cursor) PeekIdent() string {
	if c.AtEnd() || !isIdentStartByte(c.Peek()) {
		return ""
	}
	end := c.Pos
	for end < len(c.Line) && isIdentByte(c.Line[end]) {
		end++
	}
	return c.Line[c.Pos:end]
}
