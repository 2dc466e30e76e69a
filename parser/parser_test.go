package parser

import (
	"testing"

	"github.com/javanhut/vtcore/charset"
	"github.com/javanhut/vtcore/screen"
)

type fakeSink struct {
	replies [][]byte
}

func (f *fakeSink) QueueReply(p []byte) {
	cp := make([]byte, len(p))
	copy(cp, p)
	f.replies = append(f.replies, cp)
}

func cellRunes(s *screen.Screen, row int) []rune {
	out := make([]rune, len(s.Lines[row].Cells))
	for i, c := range s.Lines[row].Cells {
		out[i] = c.CodePoint
	}
	return out
}

func TestEraseDisplayThenHomeClearsEverything(t *testing.T) {
	s := screen.New(80, 24)
	sink := &fakeSink{}
	term := NewTerminal(s, sink)

	term.Write([]byte("hello"))
	term.Write([]byte("\x1b[2J\x1b[H"))

	for _, l := range s.Lines {
		for _, c := range l.Cells {
			if c != s.Cursor.Attrs {
				t.Fatalf("expected every cell to equal cursor.attrs, got %+v", c)
			}
		}
	}
	if s.Cursor.X != 0 || s.Cursor.Y != 0 {
		t.Fatalf("expected cursor at (0,0), got (%d,%d)", s.Cursor.X, s.Cursor.Y)
	}
}

func TestCursorPositionReportAppendsToOutboundBuffer(t *testing.T) {
	s := screen.New(80, 24)
	sink := &fakeSink{}
	term := NewTerminal(s, sink)

	term.Write([]byte("\x1b[5;10H\x1b[6n"))

	if len(sink.replies) != 1 {
		t.Fatalf("expected exactly one reply, got %d", len(sink.replies))
	}
	want := "\x1b[5;10R"
	if string(sink.replies[0]) != want {
		t.Fatalf("expected CPR %q, got %q", want, sink.replies[0])
	}
}

func TestOriginModeAndScrollRegionSetup(t *testing.T) {
	s := screen.New(80, 24)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("\x1b[?6h\x1b[2;5r\x1b[H"))

	if !s.Modes.Get(screen.ModeDECOM) {
		t.Fatal("expected DECOM set")
	}
	if s.ScrollTop != 1 || s.ScrollBottom != 4 {
		t.Fatalf("expected scroll region [1,4], got [%d,%d]", s.ScrollTop, s.ScrollBottom)
	}
	if s.Cursor.X != 0 || s.Cursor.Y != 1 {
		t.Fatalf("expected cursor at (0,1), got (%d,%d)", s.Cursor.X, s.Cursor.Y)
	}
}

func TestDeleteCharacterShiftsLineLeft(t *testing.T) {
	s := screen.New(80, 24)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("A"))
	if s.Cursor.X != 1 || s.Cursor.Y != 0 {
		t.Fatalf("expected cursor at (1,0) after 'A', got (%d,%d)", s.Cursor.X, s.Cursor.Y)
	}

	term.Write([]byte("\x1b[4D"))
	if s.Cursor.X != 0 || s.Cursor.Y != 0 {
		t.Fatalf("expected cursor clamped to (0,0), got (%d,%d)", s.Cursor.X, s.Cursor.Y)
	}

	term.Write([]byte("\x1b[P"))
	term.Write([]byte("Z"))

	runes := cellRunes(s, 0)
	if runes[0] != 'Z' {
		t.Fatalf("expected row 0 to start with Z, got %q", string(runes[0]))
	}
	if s.Cursor.X != 1 || s.Cursor.Y != 0 {
		t.Fatalf("expected cursor at (1,0) after Z, got (%d,%d)", s.Cursor.X, s.Cursor.Y)
	}
}

func TestDECALNFillsEWithSingleWidth(t *testing.T) {
	s := screen.New(80, 24)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("\x1b#8"))

	for _, l := range s.Lines {
		if l.Dimensions != screen.SingleWidth {
			t.Fatal("expected every line to remain single-width")
		}
		for _, c := range l.Cells {
			if c.CodePoint != 'E' {
				t.Fatalf("expected code point 'E', got %q", string(c.CodePoint))
			}
		}
	}
}

func TestShiftOutTranslatesViaG1(t *testing.T) {
	s := screen.New(80, 24)
	s.Designate(screen.G1, charset.DECSpecialGraphics)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte{0x0E, 0x60})

	got := s.Lines[0].Cells[0].CodePoint
	if got != 0x25C6 {
		t.Fatalf("expected diamond U+25C6, got %U", got)
	}
}

func TestWrapDisciplineWithAutowrap(t *testing.T) {
	s := screen.New(10, 24)
	s.Modes.Set(screen.ModeDECAWM, true)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("abcdefghij"))
	if s.Lines[0].Cells[9].CodePoint != 'j' || !s.Cursor.LastColumn {
		t.Fatal("expected column 9 to hold 'j' with last_column set")
	}

	term.Write([]byte("k"))
	if string(cellRunes(s, 0)) != "abcdefghij" {
		t.Fatalf("row 0 changed unexpectedly: %q", string(cellRunes(s, 0)))
	}
	if s.Lines[1].Cells[0].CodePoint != 'k' {
		t.Fatal("expected row 1 col 0 to hold 'k'")
	}
	if s.Cursor.X != 1 || s.Cursor.Y != 1 {
		t.Fatalf("expected cursor at (1,1), got (%d,%d)", s.Cursor.X, s.Cursor.Y)
	}
}

func TestNoWrapOverwritesLastCell(t *testing.T) {
	s := screen.New(10, 24)
	s.Modes.Set(screen.ModeDECAWM, false)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("abcdefghijk"))

	if string(cellRunes(s, 0)) != "abcdefghik" {
		t.Fatalf("expected last cell overwritten, got %q", string(cellRunes(s, 0)))
	}
	if s.Cursor.X != 9 || s.Cursor.Y != 0 {
		t.Fatalf("expected cursor at (9,0), got (%d,%d)", s.Cursor.X, s.Cursor.Y)
	}
}

func TestSGRZeroRestoresDefaultAttrs(t *testing.T) {
	s := screen.New(80, 24)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("\x1b[1;4;7m"))
	if s.Cursor.Attrs == screen.DefaultCell() {
		t.Fatal("expected attrs to differ from default before reset")
	}

	term.Write([]byte("\x1b[0m"))
	if s.Cursor.Attrs != screen.DefaultCell() {
		t.Fatalf("expected default attrs after SGR 0, got %+v", s.Cursor.Attrs)
	}
}

func TestSGRTruecolorRoundTrip(t *testing.T) {
	s := screen.New(80, 24)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("\x1b[38;2;10;20;30m X"))

	cell := s.Lines[0].Cells[1]
	if !cell.FgTruecolor {
		t.Fatal("expected truecolor flag set")
	}
	if cell.Foreground != (screen.Color{R: 10, G: 20, B: 30}) {
		t.Fatalf("expected (10,20,30), got %+v", cell.Foreground)
	}
}

func TestParameterClampingReportsWithinBounds(t *testing.T) {
	s := screen.New(80, 24)
	sink := &fakeSink{}
	term := NewTerminal(s, sink)

	term.Write([]byte("\x1b[999999;999999H\x1b[6n"))

	if len(sink.replies) != 1 {
		t.Fatalf("expected one reply, got %d", len(sink.replies))
	}
	want := "\x1b[24;80R"
	if string(sink.replies[0]) != want {
		t.Fatalf("expected %q, got %q", want, sink.replies[0])
	}
}

func TestResetIdempotence(t *testing.T) {
	s := screen.New(80, 24)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("hello\x1b[31m"))
	term.Write([]byte("\x1bc"))
	first := s.Cursor
	firstModes := s.Modes

	term.Write([]byte("\x1bc"))
	if s.Cursor != first || s.Modes != firstModes {
		t.Fatal("expected two consecutive resets to be equivalent to one")
	}
}

func TestANSIDeviceAttributesReply(t *testing.T) {
	s := screen.New(80, 24)
	sink := &fakeSink{}
	term := NewTerminal(s, sink)

	term.Write([]byte("\x1b[c"))

	if len(sink.replies) != 1 {
		t.Fatalf("expected one reply, got %d", len(sink.replies))
	}
	want := "\x1b[?1;7c"
	if string(sink.replies[0]) != want {
		t.Fatalf("expected %q, got %q", want, sink.replies[0])
	}
}

func TestVT52IdentifyReply(t *testing.T) {
	s := screen.New(80, 24)
	s.Modes.Set(screen.ModeDECANM, false)
	sink := &fakeSink{}
	term := NewTerminal(s, sink)

	term.Write([]byte("\x1bZ"))

	if len(sink.replies) != 1 {
		t.Fatalf("expected one reply, got %d", len(sink.replies))
	}
	if string(sink.replies[0]) != "\x1b/Z" {
		t.Fatalf("expected VT52 identify reply, got %q", sink.replies[0])
	}
}

func TestVT52CursorAddressing(t *testing.T) {
	s := screen.New(80, 24)
	s.Modes.Set(screen.ModeDECANM, false)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("\x1bY" + string([]byte{0x20 + 5, 0x20 + 10})))

	if s.Cursor.X != 10 || s.Cursor.Y != 5 {
		t.Fatalf("expected cursor at (10,5), got (%d,%d)", s.Cursor.X, s.Cursor.Y)
	}
}

func TestOSCWindowTitle(t *testing.T) {
	s := screen.New(80, 24)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("\x1b]2;my session\x07"))

	if term.Title != "my session" {
		t.Fatalf("expected title %q, got %q", "my session", term.Title)
	}
}

func TestOSCChangeColorHash(t *testing.T) {
	s := screen.New(80, 24)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("\x1b]4;5;#ff0080\x07"))

	want := screen.RGB(0xff, 0x00, 0x80)
	if s.Palette[5] != want {
		t.Fatalf("expected palette[5] = %+v, got %+v", want, s.Palette[5])
	}
}

func TestOSCChangeColorRgbSpec(t *testing.T) {
	s := screen.New(80, 24)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("\x1b]4;2;rgb:ff/80/00\x07"))

	want := screen.RGB(0xff, 0x80, 0x00)
	if s.Palette[2] != want {
		t.Fatalf("expected palette[2] = %+v, got %+v", want, s.Palette[2])
	}
}

func TestOSCChangeColorRgbiSpec(t *testing.T) {
	s := screen.New(80, 24)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("\x1b]4;3;rgbi:1/0/0.5\x07"))

	c := s.Palette[3]
	if c.R != 255 || c.G != 0 || c.B != 128 {
		t.Fatalf("expected (255,0,128), got %+v", c)
	}
}

func TestCANResetsToGroundAndPrintsReplacementChar(t *testing.T) {
	s := screen.New(80, 24)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte{0x1B, 0x5B, 0x18})
	term.Write([]byte("X"))

	if s.Lines[0].Cells[0].CodePoint != 0xFFFD {
		t.Fatalf("expected replacement char at col 0, got %U", s.Lines[0].Cells[0].CodePoint)
	}
	if s.Lines[0].Cells[1].CodePoint != 'X' {
		t.Fatal("expected parser to resume at GROUND after CAN")
	}
}

func TestUTF8MultibyteDecoding(t *testing.T) {
	s := screen.New(80, 24)
	s.Modes.Set(screen.ModeUTF8, true)
	term := NewTerminal(s, &fakeSink{})

	term.Write([]byte("\xe2\x98\x83")) // U+2603 SNOWMAN

	if s.Lines[0].Cells[0].CodePoint != 0x2603 {
		t.Fatalf("expected U+2603, got %U", s.Lines[0].Cells[0].CodePoint)
	}
}
