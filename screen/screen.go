// Package screen holds the terminal's persistent state: the cell grid, the
// cursor (and its saved twin), tab stops, scroll region, mode bitset, and
// color palette, plus the editing operations that mutate them. It has no
// notion of escape sequences; parser feeds it decoded operations.
package screen

import "github.com/javanhut/vtcore/charset"

// Screen is the complete mutable state of one terminal instance. It is not
// safe for concurrent use: spec.md's concurrency model is a single
// cooperative goroutine driving parser+screen, so (unlike the teacher's
// grid.Grid) no mutex guards these fields.
type Screen struct {
	Lines    []*Line
	TabStops []bool

	ScrollTop, ScrollBottom int
	Width, Height           int

	Modes ModeSet

	Cursor      Cursor
	SavedCursor Cursor

	Palette [256]Color
}

// New allocates a screen of the given dimensions with all state at its
// post-RIS defaults.
func New(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	s.Reset()
	return s
}

// Resize reallocates the line buffer and tab stops for new dimensions,
// clearing all content, homing the cursor, and resetting the scroll region
// to the full screen. Modes, palette, and charset designations survive a
// resize (they are untouched here), matching resize()'s narrower scope in
// the reference implementation.
func (s *Screen) Resize(width, height int) {
	s.TabStops = make([]bool, width)
	for i := 8; i < width; i += 8 {
		s.TabStops[i] = true
	}

	lines := make([]*Line, height)
	for i := range lines {
		lines[i] = NewLine(width, s.Cursor.Attrs)
	}
	s.Lines = lines

	s.Width = width
	s.Height = height
	s.ScrollTop = 0
	s.ScrollBottom = height - 1
	s.Cursor.X = 0
	s.Cursor.Y = 0
	s.Cursor.LastColumn = false
}

// Reset performs RIS: restores the default palette, the documented initial
// mode set, a zeroed cursor with default attrs, default tab stops, a blank
// screen, and a full scroll region. The saved cursor is reset to match, and
// the current dimensions are preserved.
func (s *Screen) Reset() {
	s.Palette = DefaultPalette
	s.Modes = initialModes()

	s.Cursor = defaultCursor()

	for i := range s.TabStops {
		s.TabStops[i] = false
	}
	for i := 8; i < len(s.TabStops); i += 8 {
		s.TabStops[i] = true
	}

	for _, l := range s.Lines {
		l.Fill(s.Cursor.Attrs)
	}

	s.SavedCursor = s.Cursor
	s.ScrollTop = 0
	s.ScrollBottom = s.Height - 1
}

// WarpTo moves the cursor to an absolute position, clamping x to
// [0,width) and y to the current origin-mode-aware vertical bound: the
// scroll region when DECOM is set, the whole screen otherwise. It always
// clears the pending-wrap flag.
func (s *Screen) WarpTo(x, y int) {
	minY, maxY := 0, s.Height-1
	if s.Modes.Get(ModeDECOM) {
		minY, maxY = s.ScrollTop, s.ScrollBottom
	}

	if x < 0 {
		x = 0
	} else if x >= s.Width {
		x = s.Width - 1
	}
	if y < minY {
		y = minY
	} else if y > maxY {
		y = maxY
	}

	s.Cursor.X = x
	s.Cursor.Y = y
	s.Cursor.LastColumn = false
}

// Cursor movement directions, matching the final byte of a CUU/CUD/CUF/CUB
// CSI sequence.
const (
	DirUp    = 'A'
	DirDown  = 'B'
	DirRight = 'C'
	DirLeft  = 'D'
)

// MoveCursor applies a relative CUU/CUD/CUF/CUB move of amount cells in
// direction dir, via WarpTo (so it inherits origin-mode clamping).
func (s *Screen) MoveCursor(dir byte, amount int) {
	switch dir {
	case DirUp:
		s.WarpTo(s.Cursor.X, s.Cursor.Y-amount)
	case DirDown:
		s.WarpTo(s.Cursor.X, s.Cursor.Y+amount)
	case DirRight:
		s.WarpTo(s.Cursor.X+amount, s.Cursor.Y)
	case DirLeft:
		s.WarpTo(s.Cursor.X-amount, s.Cursor.Y)
	}
}

// ScrollUp shifts the scroll region's lines up by one, discarding the top
// line and introducing a freshly cleared line (using the current cursor
// attrs) at the bottom of the region. The line pointer freed from the top
// is reused for the new bottom line rather than reallocated.
func (s *Screen) ScrollUp() {
	freed := s.Lines[s.ScrollTop]
	freed.Fill(s.Cursor.Attrs)

	copy(s.Lines[s.ScrollTop:s.ScrollBottom], s.Lines[s.ScrollTop+1:s.ScrollBottom+1])
	s.Lines[s.ScrollBottom] = freed
}

// ScrollDown is ScrollUp's mirror: the bottom line of the region is
// discarded and a cleared line introduced at the top.
func (s *Screen) ScrollDown() {
	freed := s.Lines[s.ScrollBottom]
	freed.Fill(s.Cursor.Attrs)

	copy(s.Lines[s.ScrollTop+1:s.ScrollBottom+1], s.Lines[s.ScrollTop:s.ScrollBottom])
	s.Lines[s.ScrollTop] = freed
}

// InsertLine opens a blank line at the cursor's row, rotating the region
// from cursor.y to scroll_bottom down by one and discarding whatever was on
// scroll_bottom. Outside the scroll region this is a no-op, matching IL's
// defined behavior only within the margins.
func (s *Screen) InsertLine() {
	if s.Cursor.Y < s.ScrollTop || s.Cursor.Y > s.ScrollBottom {
		return
	}

	freed := s.Lines[s.ScrollBottom]
	copy(s.Lines[s.Cursor.Y+1:s.ScrollBottom+1], s.Lines[s.Cursor.Y:s.ScrollBottom])
	s.Lines[s.Cursor.Y] = freed
	freed.Fill(s.Cursor.Attrs)
}

// DeleteLine removes the cursor's row, rotating the region from cursor.y to
// scroll_bottom up by one and introducing a blank line at scroll_bottom.
func (s *Screen) DeleteLine() {
	if s.Cursor.Y < s.ScrollTop || s.Cursor.Y > s.ScrollBottom {
		return
	}

	freed := s.Lines[s.Cursor.Y]
	copy(s.Lines[s.Cursor.Y:s.ScrollBottom], s.Lines[s.Cursor.Y+1:s.ScrollBottom+1])
	s.Lines[s.ScrollBottom] = freed
	freed.Fill(s.Cursor.Attrs)
}

// EraseDisplay implements ED. param 0 erases from the cursor to the end of
// the display, 1 from the start of the display to the cursor, 2 the whole
// display. A line whose dimensions would otherwise survive the erase at the
// cursor's own row is reset to single-width exactly when the erase clears
// that row's only remaining content (mirroring the boundary check in the
// reference implementation: param 0 only when the cursor sits at column 0,
// param 1 only when it sits at the last column).
func (s *Screen) EraseDisplay(param int) {
	var y, n int

	switch param {
	case 0:
		if s.Cursor.X == 0 {
			s.Lines[s.Cursor.Y].Dimensions = SingleWidth
		}
		s.EraseLine(0)
		y, n = s.Cursor.Y+1, s.Height
	case 1:
		if s.Cursor.X == s.Width-1 {
			s.Lines[s.Cursor.Y].Dimensions = SingleWidth
		}
		s.EraseLine(1)
		y, n = 0, s.Cursor.Y
	case 2:
		y, n = 0, s.Height
	default:
		return
	}

	for ; y < n; y++ {
		s.Lines[y].Fill(s.Cursor.Attrs)
	}

	s.Cursor.LastColumn = false
}

// EraseLine implements EL. param 0 erases from the cursor to the end of the
// line, 1 from the start of the line through the cursor (inclusive), 2 the
// whole line.
func (s *Screen) EraseLine(param int) {
	var x, max int

	switch param {
	case 0:
		x, max = s.Cursor.X, s.Width
	case 1:
		x, max = 0, s.Cursor.X+1
	case 2:
		x, max = 0, s.Width
	default:
		return
	}

	line := s.Lines[s.Cursor.Y]
	for ; x < max; x++ {
		line.Cells[x] = s.Cursor.Attrs
	}

	s.Cursor.LastColumn = false
}

// Newline implements IND: advance the cursor one row, scrolling the region
// up when already on the bottom margin. It always clears the pending-wrap
// flag first.
func (s *Screen) Newline() {
	s.Cursor.LastColumn = false

	if s.Cursor.Y < s.ScrollBottom {
		s.Cursor.Y++
	} else {
		s.ScrollUp()
	}
}

// RevLine implements RI: move the cursor up one row, scrolling the region
// down when already on the top margin.
func (s *Screen) RevLine() {
	s.Cursor.LastColumn = false

	if s.Cursor.Y > s.ScrollTop {
		s.WarpTo(s.Cursor.X, s.Cursor.Y-1)
	} else {
		s.ScrollDown()
	}
}

// NextLine implements NEL: carriage return plus Newline.
func (s *Screen) NextLine() {
	s.Cursor.X = 0
	s.Newline()
}

// Tab implements HT: advance the cursor to the next tab stop, or to the
// last column if none remain.
func (s *Screen) Tab() {
	for x := s.Cursor.X + 1; x < s.Width; x++ {
		if s.TabStops[x] {
			s.Cursor.X = x
			return
		}
	}
	s.Cursor.X = s.Width - 1
}

// SetTab sets a tab stop at the cursor's column (HTS).
func (s *Screen) SetTab() {
	s.TabStops[s.Cursor.X] = true
}

// ClearTab clears tab stops: param 0 clears the stop at the cursor's
// column, param 3 clears all stops (TBC).
func (s *Screen) ClearTab(param int) {
	switch param {
	case 0:
		s.TabStops[s.Cursor.X] = false
	case 3:
		for i := range s.TabStops {
			s.TabStops[i] = false
		}
	}
}

// SaveCursor implements DECSC: snapshot the cursor (position, attrs,
// charset state, conceal) for a later RestoreCursor.
func (s *Screen) SaveCursor() {
	s.SavedCursor = s.Cursor
}

// RestoreCursor implements DECRC: reinstate the cursor snapshotted by the
// last SaveCursor (or the post-reset default if none was ever taken).
func (s *Screen) RestoreCursor() {
	s.Cursor = s.SavedCursor
}

// ScreenAlign implements DECALN: fill the entire display with 'E', reset
// all lines to single-width, and home the cursor, ignoring current
// attributes (the reference implementation uses it purely as a raster
// alignment pattern).
func (s *Screen) ScreenAlign() {
	fill := Cell{CodePoint: 'E', Foreground: Indexed(7), Background: Indexed(0)}
	for _, l := range s.Lines {
		for i := range l.Cells {
			l.Cells[i] = fill
		}
		l.Dimensions = SingleWidth
	}
	s.Cursor.X = 0
	s.Cursor.Y = 0
	s.Cursor.LastColumn = false
}

// Print writes one decoded code point at the cursor, applying the active
// GL charset translation (unless concealed), then advances the cursor by
// the glyph's display width, or sets the pending-wrap flag instead of
// advancing past the last column when DECAWM is set. On a double-width or
// double-height line the display width doubles, so wrapping still lands on
// the correct column of the doubled line. A pending wrap is resolved by
// moving to column 0 and calling Newline before the next Print, exactly
// mirroring putch()'s "wrap before print, not after".
func (s *Screen) Print(ch rune) {
	if s.Cursor.LastColumn {
		s.Cursor.X = 0
		s.Newline()
	}

	cell := &s.Lines[s.Cursor.Y].Cells[s.Cursor.X]
	*cell = s.Cursor.Attrs

	if !s.Cursor.Conceal {
		cell.CodePoint = s.Cursor.GLCharset().Translate(ch)
	}

	width := runeDisplayWidth(ch)
	if s.Lines[s.Cursor.Y].Dimensions != SingleWidth {
		width *= 2
	}

	if s.Cursor.X+width >= s.Width {
		if s.Modes.Get(ModeDECAWM) {
			s.Cursor.LastColumn = true
		}
	} else {
		s.Cursor.X += width
	}
}

// runeDisplayWidth is the indirection point for the glyph package, kept as
// a var so tests can substitute a fixed table without depending on an
// actual font lookup.
var runeDisplayWidth = defaultRuneDisplayWidth

// Designate sets logical charset register reg (G0..G3) to set, which may
// be nil for ASCII (charset.ASCII).
func (s *Screen) Designate(reg int, set *charset.Set) {
	s.Cursor.Logical[reg] = set
}

// Invoke sets invocation slot (GL or GR) to logical register reg,
// matching locking-shift (LS0..LS3, LS1R..LS3R) semantics.
func (s *Screen) Invoke(slot, reg int) {
	s.Cursor.Active[slot] = reg
}
