package screen

import "github.com/javanhut/vtcore/charset"

// Charset index constants for Cursor.Logical (G0..G3).
const (
	G0 = iota
	G1
	G2
	G3
)

// Invocation index constants for Cursor.Active (GL, GR).
const (
	GL = iota
	GR
)

// Cursor holds everything that moves or is saved/restored as a unit:
// position, the attribute template for newly written cells, the four
// logical character-set designations and the two active invocation slots,
// plus the conceal and last_column flags.
type Cursor struct {
	Attrs Cell

	Logical [4]*charset.Set // G0..G3
	Active  [2]int          // GL, GR -- indices into Logical

	X, Y int

	Conceal    bool
	LastColumn bool
}

// defaultCursor returns the cursor state installed by reset()/resize():
// zeroed position, default attrs, G0=ASCII invoked into GL, G1=ASCII
// invoked into GR (8-bit GR is otherwise unused in 7-bit operation).
func defaultCursor() Cursor {
	var c Cursor
	c.Attrs = DefaultCell()
	c.Logical = [4]*charset.Set{charset.ASCII, charset.ASCII, charset.ASCII, charset.ASCII}
	c.Active = [2]int{G0, G1}
	return c
}

// GLCharset returns the character set currently invoked into GL, used by
// print() to translate the decoded code point.
func (c *Cursor) GLCharset() *charset.Set {
	return c.Logical[c.Active[GL]]
}
