// Package keymap translates host key events into the byte sequences a
// VT100/VT52 expects on its input side (§6), mode-aware where the standard
// requires it: DECCKM switches arrow keys between application and cursor
// sequences, and DECANM clear drops the emulator into VT52's single-ESC
// arrow encoding.
package keymap

import "github.com/javanhut/vtcore/screen"

// Key names the non-printable keys the host can report. Printable
// characters bypass this table entirely and are encoded as UTF-8 by the
// caller.
type Key int

const (
	KeyEnter Key = iota
	KeyShiftEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyHome
	KeyEnd
	KeyInsert
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyArrowUp
	KeyArrowDown
	KeyArrowRight
	KeyArrowLeft
)

// Encode returns the byte sequence a key event produces, given the
// screen's current DECCKM/DECANM/LNM modes.
func Encode(key Key, modes *screen.ModeSet) []byte {
	switch key {
	case KeyEnter:
		if modes.Get(screen.ModeLNM) {
			return []byte("\r\n")
		}
		return []byte("\r")
	case KeyShiftEnter:
		return []byte("\n")
	case KeyBackspace:
		return []byte{0x7F}
	case KeyTab:
		return []byte("\t")
	case KeyEscape:
		return []byte{0x1B}
	case KeyHome:
		return []byte("\x1B[1~")
	case KeyEnd:
		return []byte("\x1B[4~")
	case KeyInsert:
		return []byte("\x1B[2~")
	case KeyPageUp:
		return []byte("\x1B[5~")
	case KeyPageDown:
		return []byte("\x1B[6~")
	case KeyF1:
		return []byte("\x1BOP")
	case KeyF2:
		return []byte("\x1BOQ")
	case KeyF3:
		return []byte("\x1BOR")
	case KeyF4:
		return []byte("\x1BOS")
	case KeyArrowUp:
		return encodeArrow('A', modes)
	case KeyArrowDown:
		return encodeArrow('B', modes)
	case KeyArrowRight:
		return encodeArrow('C', modes)
	case KeyArrowLeft:
		return encodeArrow('D', modes)
	default:
		return nil
	}
}

// encodeArrow picks among the VT52 (ESC X), ANSI cursor-key (ESC [ X), and
// ANSI application-key (ESC O X) forms of an arrow key.
func encodeArrow(final byte, modes *screen.ModeSet) []byte {
	if !modes.Get(screen.ModeDECANM) {
		return []byte{0x1B, final}
	}
	if modes.Get(screen.ModeDECCKM) {
		return []byte{0x1B, 'O', final}
	}
	return []byte{0x1B, '[', final}
}
