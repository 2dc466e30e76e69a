package screen

import "github.com/javanhut/vtcore/glyph"

// defaultRuneDisplayWidth is runeDisplayWidth's production implementation,
// delegating to the glyph package's font-aware width classification.
func defaultRuneDisplayWidth(ch rune) int {
	return glyph.RuneWidth(ch)
}
