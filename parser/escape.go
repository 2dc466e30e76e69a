package parser

import (
	"github.com/javanhut/vtcore/charset"
	"github.com/javanhut/vtcore/screen"
)

// escDispatch resolves an ESCAPE/ESCAPE_INTERMEDIATE sequence given the up
// to two collected intermediates and the final byte (§4.4). It always
// returns to GROUND first, matching the reference's NEXT(GROUND) at entry.
func (t *Terminal) escDispatch(final byte) {
	t.st = stateGround
	s := t.Screen

	switch t.intermediate[0] {
	case 0:
		if t.intermediate[1] != 0 {
			return
		}
		switch final {
		case '7': // DECSC
			s.SaveCursor()
		case '8': // DECRC
			s.RestoreCursor()
		case '=': // DECKPAM
			s.Modes.Set(screen.ModeDECKPAM, true)
		case '>': // DECKPNM
			s.Modes.Set(screen.ModeDECKPAM, false)
		case 'D': // IND
			s.Newline()
		case 'E': // NEL
			s.NextLine()
		case 'F': // XTerm hpLowerleftBugCompat
			s.WarpTo(0, s.ScrollBottom)
		case 'H': // HTS
			s.SetTab()
		case 'M': // RI
			s.RevLine()
		case 'N': // SS2
			t.singleShift = screen.G2
		case 'O': // SS3
			t.singleShift = screen.G3
		case 'Z': // DECID
			t.reply(deviceAttrs)
		case '\\': // ST
			// no effect outside a control string
		case 'c': // RIS
			s.Reset()
		case 'n': // LS2
			s.Invoke(screen.GL, screen.G2)
		case 'o': // LS3
			s.Invoke(screen.GL, screen.G3)
		case '|': // LS3R
			s.Invoke(screen.GR, screen.G3)
		case '}': // LS2R
			s.Invoke(screen.GR, screen.G2)
		case '~': // LS1R
			s.Invoke(screen.GR, screen.G1)
		}

	case ' ':
		if t.intermediate[1] != 0 {
			return
		}
		switch final {
		case 'F': // S7C1T
			s.Modes.Set(screen.ModeS8C1T, false)
		case 'G': // S8C1T
			s.Modes.Set(screen.ModeS8C1T, true)
		}

	case '#':
		if t.intermediate[1] != 0 {
			return
		}
		switch final {
		case '3':
			s.Lines[s.Cursor.Y].Dimensions = screen.DoubleHeightTop
		case '4':
			s.Lines[s.Cursor.Y].Dimensions = screen.DoubleHeightBottom
		case '5':
			s.Lines[s.Cursor.Y].Dimensions = screen.SingleWidth
		case '6':
			s.Lines[s.Cursor.Y].Dimensions = screen.DoubleWidth
		case '8': // DECALN
			s.ScreenAlign()
		}

	case '%':
		switch t.intermediate[1] {
		case 0:
			switch final {
			case '@':
				s.Modes.Set(screen.ModeUTF8, false)
			case 'G':
				s.Modes.Set(screen.ModeUTF8, true)
			}
		}

	case '(':
		t.designate94(screen.G0, t.intermediate[1], final)
	case ')':
		t.designate94(screen.G1, t.intermediate[1], final)
	case '*':
		t.designate94(screen.G2, t.intermediate[1], final)
	case '+':
		t.designate94(screen.G3, t.intermediate[1], final)
	case '-':
		t.designate96(screen.G1, final)
	case '.':
		t.designate96(screen.G2, final)
	case '/':
		t.designate96(screen.G3, final)
	}
}

func (t *Terminal) designate94(reg int, intermediate, final byte) {
	if set, ok := charset.Designate94(intermediate, final); ok {
		t.Screen.Designate(reg, set)
	}
}

func (t *Terminal) designate96(reg int, final byte) {
	if set, ok := charset.Designate96(final); ok {
		t.Screen.Designate(reg, set)
	}
}
