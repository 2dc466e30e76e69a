// Package glyph is the read-only code-point-to-bitmap lookup the terminal
// core needs only for display width: a bitmap's first byte encodes its
// pixel-width class (1 = 8px, 2 = 16px), and a wide glyph consumes two grid
// columns. Actual bitmap data and font lookup are external collaborators
// (spec non-goal); this package only classifies width.
package glyph

import (
	"unicode"

	"golang.org/x/text/width"
)

// WidthClass mirrors the original's find_glyph() bitmap[0] contract: 1 for
// an 8-pixel-wide glyph, 2 for a 16-pixel-wide one.
type WidthClass byte

const (
	Narrow WidthClass = 1
	Wide   WidthClass = 2
)

// Find returns the width class for a code point, and false for code points
// with no glyph at all (as if no bitmap was found; RuneWidth then counts
// such a code point as width 1).
func Find(r rune) (WidthClass, bool) {
	if r == 0 {
		return 0, false
	}
	if !unicode.IsPrint(r) {
		return 0, false
	}
	if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) || unicode.Is(unicode.Mc, r) {
		return 0, false
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return Wide, true
	default:
		return Narrow, true
	}
}

// RuneWidth returns the display width in cells: 0, 1, or 2. A code point
// with no glyph is treated as width 1, matching §4.2 print() policy ("1 if
// no glyph").
func RuneWidth(r rune) int {
	class, ok := Find(r)
	if !ok {
		if r == 0 {
			return 0
		}
		return 1
	}
	return int(class)
}
