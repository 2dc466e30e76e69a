package parser

import "github.com/javanhut/vtcore/screen"

// csiDispatch resolves a CSI sequence given the collected intermediate (at
// most one is meaningful here: the private-mode intro byte) and the final
// byte (§4.5). Sequences with two intermediates, or the too-many-
// intermediates sentinel, are unrecognized and dropped.
func (t *Terminal) csiDispatch(final byte) {
	t.st = stateGround

	if t.intermediate[0] == 0xFF || t.intermediate[1] != 0 {
		return
	}

	if t.intermediate[0] == '?' {
		t.csiDispatchPrivate(final)
		return
	}
	if t.intermediate[0] != 0 {
		return
	}

	if t.paramIndex == maxParameters {
		t.paramIndex = maxParameters - 1
	}

	s := t.Screen

	switch final {
	case screen.DirUp, screen.DirDown, screen.DirRight, screen.DirLeft:
		s.MoveCursor(final, t.p(0, 1))
	case 'H', 'f': // CUP / HVP
		row := t.p(0, 1) - 1
		if s.Modes.Get(screen.ModeDECOM) {
			row += s.ScrollTop
		}
		s.WarpTo(t.p(1, 1)-1, row)
	case 'J': // ED
		s.EraseDisplay(t.pRaw(0))
	case 'K': // EL
		s.EraseLine(t.pRaw(0))
	case 'P': // DCH
		t.deleteCharacter()
	case 'c': // DA
		if t.pRaw(0) == 0 {
			t.reply(deviceAttrs)
		}
	case 'g': // TBC
		p := t.pRaw(0)
		if p == 0 {
			s.ClearTab(0)
		} else if p == 3 {
			s.ClearTab(3)
		}
	case 'h': // SM
		t.setAnsiMode(true)
	case 'l': // RM
		t.setAnsiMode(false)
	case 'm': // SGR
		t.selectGraphicRendition()
	case 'n': // DSR
		t.deviceStatusReport()
	case 'r': // DECSTBM
		top := t.p(0, 1)
		bottom := t.pRaw(1)
		if bottom == 0 || bottom > s.Height {
			bottom = s.Height
		}
		if top < bottom {
			s.ScrollTop = top - 1
			s.ScrollBottom = bottom - 1
			y := 0
			if s.Modes.Get(screen.ModeDECOM) {
				y = s.ScrollTop
			}
			s.WarpTo(0, y)
		}
	}
}

// csiDispatchPrivate resolves a CSI sequence whose sole intermediate was
// '?' — DEC private mode set/reset.
func (t *Terminal) csiDispatchPrivate(final byte) {
	switch final {
	case 'h':
		t.setDecMode(true)
	case 'l':
		t.setDecMode(false)
	}
}

// deleteCharacter implements DCH: shift the remainder of the line left by
// P1 cells (default 1, clamped to what remains after the cursor), filling
// the vacated cells at the end of the line with cursor.attrs.
func (t *Terminal) deleteCharacter() {
	s := t.Screen
	n := t.p(0, 1)

	max := s.Width - s.Cursor.X - 1
	if n > max {
		n = max
	}
	if n <= 0 {
		s.Cursor.LastColumn = false
		return
	}

	line := s.Lines[s.Cursor.Y]
	copy(line.Cells[s.Cursor.X:s.Width-n], line.Cells[s.Cursor.X+n:s.Width])
	for i := s.Width - n; i < s.Width; i++ {
		line.Cells[i] = s.Cursor.Attrs
	}

	s.Cursor.LastColumn = false
}

// setAnsiMode implements non-private SM/RM: only LNM (ANSI mode 20) is
// recognized, matching §4.5.
func (t *Terminal) setAnsiMode(value bool) {
	for i := 0; i <= t.paramIndex; i++ {
		if t.pRaw(i) == 20 {
			t.Screen.Modes.Set(screen.ModeLNM, value)
		}
	}
}

// setDecMode implements DEC private SM/RM (CSI ? Pn h/l).
func (t *Terminal) setDecMode(value bool) {
	s := t.Screen
	for i := 0; i <= t.paramIndex; i++ {
		switch t.pRaw(i) {
		case 1:
			s.Modes.Set(screen.ModeDECCKM, value)
		case 2:
			s.Modes.Set(screen.ModeDECANM, value)
		case 3:
			if value {
				s.Resize(132, s.Height)
			} else {
				s.Resize(80, s.Height)
			}
		case 4:
			s.Modes.Set(screen.ModeDECSCLM, value)
		case 5:
			s.Modes.Set(screen.ModeDECSCNM, value)
		case 6:
			s.Modes.Set(screen.ModeDECOM, value)
			y := 0
			if value {
				y = s.ScrollTop
			}
			s.WarpTo(0, y)
		case 7:
			s.Modes.Set(screen.ModeDECAWM, value)
		case 8:
			s.Modes.Set(screen.ModeDECARM, value)
		case 9:
			s.Modes.Set(screen.ModeDECINLM, value)
		case 25:
			s.Modes.Set(screen.ModeDECTCEM, value)
		}
	}
}

// deviceStatusReport implements DSR: P1=5 reports terminal OK, P1=6 reports
// cursor position (1-origin, origin-mode aware).
func (t *Terminal) deviceStatusReport() {
	s := t.Screen
	switch t.pRaw(0) {
	case 5:
		t.reply([]byte{0x1B, 0x5B, 0x30, 0x6E})
	case 6:
		row := s.Cursor.Y
		if s.Modes.Get(screen.ModeDECOM) {
			row -= s.ScrollTop
		}
		t.reply(formatCPR(row+1, s.Cursor.X+1))
	}
}

func formatCPR(row, col int) []byte {
	out := []byte{0x1B, 0x5B}
	out = append(out, itoa(row)...)
	out = append(out, ';')
	out = append(out, itoa(col)...)
	out = append(out, 'R')
	return out
}

func itoa(n int) []byte {
	if n == 0 {
		return []byte{'0'}
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return buf[i:]
}
