package parser

import "github.com/javanhut/vtcore/screen"

// vt52State is the VT52 legacy sub-automaton's position, active whenever
// ModeDECANM is clear. It is driven by vt52Interpret instead of interpret.
type vt52State int

const (
	vt52Ground vt52State = iota
	vt52Escape
	vt52DCA1
	vt52DCA2
	vt52SetFg
	vt52SetBg
)

// vt52Interpret drives one byte through the VT52 table. Direct Cursor
// Address (ESC Y) and the spec's foreground/background color extension
// (ESC b / ESC c) both consume two and one follow-up byte respectively via
// dedicated states, exactly mirroring vt52()'s STATE_DCA1/DCA2/SETFG/SETBG.
func (t *Terminal) vt52Interpret(b byte) {
	s := t.Screen

	switch t.vt52 {
	case vt52Ground:
		switch {
		case b == 0x1B:
			t.vt52 = vt52Escape
		case b <= 0x1F || b == 0x7F:
			t.execute(b)
		default:
			t.printByte(b)
		}

	case vt52DCA1:
		s.WarpTo(s.Cursor.X, int(b)-0x20)
		t.vt52 = vt52DCA2

	case vt52DCA2:
		s.WarpTo(int(b)-0x20, s.Cursor.Y)
		t.vt52 = vt52Ground

	case vt52SetFg:
		s.Cursor.Attrs.Foreground = screen.Indexed(b & 0xF)
		s.Cursor.Attrs.FgTruecolor = false
		t.vt52 = vt52Ground

	case vt52SetBg:
		s.Cursor.Attrs.Background = screen.Indexed(b & 0xF)
		s.Cursor.Attrs.BgTruecolor = false
		t.vt52 = vt52Ground

	case vt52Escape:
		t.vt52 = vt52Ground

		switch b {
		case '<': // Enter ANSI mode
			s.Modes.Set(screen.ModeVT52Gfx, false)
			s.Modes.Set(screen.ModeDECANM, true)
		case '=': // Enter alternate keypad mode
			s.Modes.Set(screen.ModeDECKPAM, true)
		case '>': // Exit alternate keypad mode
			s.Modes.Set(screen.ModeDECKPAM, false)
		case 'A', 'B', 'C', 'D':
			s.MoveCursor(b, 1)
		case 'E': // Erase and return to home
			s.Cursor.X, s.Cursor.Y = 0, 0
			s.EraseDisplay(2)
		case 'F': // Enter graphics mode
			s.Modes.Set(screen.ModeVT52Gfx, true)
		case 'G': // Exit graphics mode
			s.Modes.Set(screen.ModeVT52Gfx, false)
		case 'H': // Cursor to home
			s.Cursor.X, s.Cursor.Y = 0, 0
		case 'I': // Reverse index
			s.RevLine()
		case 'J': // Erase to end of screen
			s.EraseDisplay(0)
		case 'K': // Erase to end of line
			s.EraseLine(0)
		case 'L': // Insert line
			s.InsertLine()
		case 'M': // Delete line
			s.DeleteLine()
		case 'R': // Reset
			s.Reset()
			s.Modes.Set(screen.ModeDECANM, false)
		case 'T', 'p': // Enable reverse video
			s.Cursor.Attrs.Negative = true
		case 'U', 'q': // Disable reverse video
			s.Cursor.Attrs.Negative = false
		case 'Y': // Direct cursor address
			t.vt52 = vt52DCA1
		case 'Z': // Identify
			t.reply([]byte{0x1B, '/', 'Z'})
		case '^': // Enable auto-print mode
			s.Modes.Set(screen.ModeAutoprint, true)
		case '_': // Disable auto-print mode
			s.Modes.Set(screen.ModeAutoprint, false)
		case 'b': // Set foreground color
			t.vt52 = vt52SetFg
		case 'c': // Set background color
			t.vt52 = vt52SetBg
		case 'd': // Erase from upper-left to cursor
			s.EraseDisplay(1)
		case 'e': // Show cursor
			s.Modes.Set(screen.ModeDECTCEM, true)
		case 'f': // Hide cursor
			s.Modes.Set(screen.ModeDECTCEM, false)
		case 'j': // Save cursor position
			s.SavedCursor = s.Cursor
		case 'k': // Restore cursor position
			s.Cursor.X = s.SavedCursor.X
			s.Cursor.Y = s.SavedCursor.Y
			s.Cursor.LastColumn = s.SavedCursor.LastColumn
		case 'l': // Move cursor to start of line and erase line
			s.Cursor.X = 0
			s.EraseLine(0)
		case 'o': // Erase from start of line to cursor
			s.EraseLine(1)
		case 'v': // Enable autowrap
			s.Modes.Set(screen.ModeDECAWM, true)
		case 'w': // Disable autowrap
			s.Modes.Set(screen.ModeDECAWM, false)
		case 'P', 'S', 'W', 'X', '[', '\\', ']', '1', '2', 'N', 'Q', 'V':
			// Self-test, printer-controller, hold-screen, and graph
			// drawing mode are accepted but have no effect in this core.
		}
	}
}
