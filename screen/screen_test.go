package screen

import (
	"testing"

	"github.com/javanhut/vtcore/charset"
)

func TestNewHasDefaultModesAndPalette(t *testing.T) {
	s := New(80, 24)

	for _, m := range []Mode{ModeDECANM, ModeDECSCLM, ModeDECARM, ModeDECINLM, ModeDECTCEM} {
		if !s.Modes.Get(m) {
			t.Errorf("mode %d expected true after New", m)
		}
	}
	for _, m := range []Mode{ModeDECOM, ModeDECAWM, ModeDECCKM, ModeDECSCNM} {
		if s.Modes.Get(m) {
			t.Errorf("mode %d expected false after New", m)
		}
	}

	if s.Palette[1] != (Color{R: 0x80}) {
		t.Errorf("palette[1] = %+v, want default ANSI red", s.Palette[1])
	}
}

func TestResizePreservesTabStopSpacing(t *testing.T) {
	s := New(80, 24)
	s.Resize(40, 10)

	for x := 0; x < 40; x++ {
		want := x != 0 && x%8 == 0
		if s.TabStops[x] != want {
			t.Errorf("tabstop[%d] = %v, want %v", x, s.TabStops[x], want)
		}
	}
	if s.ScrollTop != 0 || s.ScrollBottom != 9 {
		t.Errorf("scroll region = [%d,%d], want [0,9]", s.ScrollTop, s.ScrollBottom)
	}
}

func TestWarpToClampsToScreenWhenNotOriginMode(t *testing.T) {
	s := New(80, 24)
	s.WarpTo(999, 999)
	if s.Cursor.X != 79 || s.Cursor.Y != 23 {
		t.Fatalf("cursor = (%d,%d), want (79,23)", s.Cursor.X, s.Cursor.Y)
	}
	s.WarpTo(-5, -5)
	if s.Cursor.X != 0 || s.Cursor.Y != 0 {
		t.Fatalf("cursor = (%d,%d), want (0,0)", s.Cursor.X, s.Cursor.Y)
	}
}

func TestWarpToClampsToScrollRegionUnderOriginMode(t *testing.T) {
	s := New(80, 24)
	s.ScrollTop, s.ScrollBottom = 4, 9
	s.Modes.Set(ModeDECOM, true)

	s.WarpTo(0, 0)
	if s.Cursor.Y != 4 {
		t.Fatalf("cursor.y = %d, want 4 (clamped to scroll_top)", s.Cursor.Y)
	}
	s.WarpTo(0, 999)
	if s.Cursor.Y != 9 {
		t.Fatalf("cursor.y = %d, want 9 (clamped to scroll_bottom)", s.Cursor.Y)
	}
}

func TestPrintAdvancesAndWritesCodePoint(t *testing.T) {
	s := New(80, 24)
	s.Print('A')
	if s.Lines[0].Cells[0].CodePoint != 'A' {
		t.Fatalf("cell(0,0) = %q, want A", s.Lines[0].Cells[0].CodePoint)
	}
	if s.Cursor.X != 1 {
		t.Fatalf("cursor.x = %d, want 1", s.Cursor.X)
	}
}

func TestWrapDisciplineWithAutowrap(t *testing.T) {
	s := New(10, 24)
	s.Modes.Set(ModeDECAWM, true)

	for _, r := range "abcdefghij" {
		s.Print(r)
	}
	if s.Lines[0].Cells[9].CodePoint != 'j' {
		t.Fatalf("cell(9,0) = %q, want j", s.Lines[0].Cells[9].CodePoint)
	}
	if !s.Cursor.LastColumn {
		t.Fatal("expected last_column=true after filling row with DECAWM set")
	}

	s.Print('k')
	if s.Lines[0].Cells[9].CodePoint != 'j' {
		t.Fatalf("row 0 col 9 changed to %q, want unchanged j", s.Lines[0].Cells[9].CodePoint)
	}
	if s.Lines[1].Cells[0].CodePoint != 'k' {
		t.Fatalf("row 1 col 0 = %q, want k", s.Lines[1].Cells[0].CodePoint)
	}
	if s.Cursor.X != 1 || s.Cursor.Y != 1 {
		t.Fatalf("cursor = (%d,%d), want (1,1)", s.Cursor.X, s.Cursor.Y)
	}
}

func TestNoWrapOverwritesLastCellWithoutAutowrap(t *testing.T) {
	s := New(10, 24)

	for _, r := range "abcdefghij" {
		s.Print(r)
	}
	s.Print('k')

	got := string(cellRunes(s.Lines[0]))
	if got != "abcdefghik" {
		t.Fatalf("row 0 = %q, want abcdefghik", got)
	}
	if s.Cursor.X != 9 || s.Cursor.Y != 0 {
		t.Fatalf("cursor = (%d,%d), want (9,0)", s.Cursor.X, s.Cursor.Y)
	}
}

func cellRunes(l *Line) []rune {
	out := make([]rune, len(l.Cells))
	for i, c := range l.Cells {
		out[i] = c.CodePoint
	}
	return out
}

func TestEraseDisplayFillsWithCursorAttrs(t *testing.T) {
	s := New(80, 24)
	s.Cursor.Attrs.Foreground = Indexed(3)
	s.WarpTo(40, 12)

	s.EraseDisplay(2)
	s.WarpTo(0, 0)

	for _, l := range s.Lines {
		for _, c := range l.Cells {
			if c.Foreground != Indexed(3) || c.CodePoint != 0 {
				t.Fatalf("cell = %+v, want blank with fg index 3", c)
			}
		}
	}
	if s.Cursor.X != 0 || s.Cursor.Y != 0 {
		t.Fatalf("cursor = (%d,%d), want (0,0)", s.Cursor.X, s.Cursor.Y)
	}
}

func TestInsertLineAndDeleteLineStayWithinScrollRegion(t *testing.T) {
	s := New(10, 5)
	for y := 0; y < 5; y++ {
		s.Lines[y].Cells[0].CodePoint = rune('0' + y)
	}
	s.Cursor.Y = 1

	s.InsertLine()
	if s.Lines[1].Cells[0].CodePoint != 0 {
		t.Fatalf("row 1 after insert = %q, want blank", s.Lines[1].Cells[0].CodePoint)
	}
	if s.Lines[2].Cells[0].CodePoint != '1' {
		t.Fatalf("row 2 after insert = %q, want '1'", s.Lines[2].Cells[0].CodePoint)
	}
	if s.Lines[4].Cells[0].CodePoint != '3' {
		t.Fatalf("row 4 after insert = %q, want '3' (old row 4 dropped)", s.Lines[4].Cells[0].CodePoint)
	}

	s.DeleteLine()
	if s.Lines[1].Cells[0].CodePoint != '1' {
		t.Fatalf("row 1 after delete = %q, want '1'", s.Lines[1].Cells[0].CodePoint)
	}
	if s.Lines[4].Cells[0].CodePoint != 0 {
		t.Fatalf("row 4 after delete = %q, want blank", s.Lines[4].Cells[0].CodePoint)
	}
}

func TestNewlineScrollsAtBottomMargin(t *testing.T) {
	s := New(10, 5)
	s.Lines[0].Cells[0].CodePoint = 'x'
	s.Cursor.Y = 4

	s.Newline()
	if s.Cursor.Y != 4 {
		t.Fatalf("cursor.y = %d, want 4 (stays at bottom margin)", s.Cursor.Y)
	}
	if s.Lines[0].Cells[0].CodePoint != 0 {
		t.Fatalf("row 0 survived a scroll: %q", s.Lines[0].Cells[0].CodePoint)
	}
}

func TestRevLineScrollsAtTopMargin(t *testing.T) {
	s := New(10, 5)
	s.Lines[4].Cells[0].CodePoint = 'x'
	s.Cursor.Y = 0

	s.RevLine()
	if s.Cursor.Y != 0 {
		t.Fatalf("cursor.y = %d, want 0 (stays at top margin)", s.Cursor.Y)
	}
	if s.Lines[4].Cells[0].CodePoint != 0 {
		t.Fatalf("row 4 survived a scroll: %q", s.Lines[4].Cells[0].CodePoint)
	}
}

func TestSaveRestoreCursorRoundTrip(t *testing.T) {
	s := New(80, 24)
	s.WarpTo(10, 5)
	s.Cursor.Attrs.Foreground = Indexed(2)
	s.SaveCursor()

	s.WarpTo(0, 0)
	s.Cursor.Attrs.Foreground = Indexed(9)
	s.RestoreCursor()

	if s.Cursor.X != 10 || s.Cursor.Y != 5 {
		t.Fatalf("cursor = (%d,%d), want (10,5)", s.Cursor.X, s.Cursor.Y)
	}
	if s.Cursor.Attrs.Foreground != Indexed(2) {
		t.Fatalf("fg = %+v, want index 2", s.Cursor.Attrs.Foreground)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	a := New(80, 24)
	a.WarpTo(5, 5)
	a.Reset()
	snapshotA := *a

	a.Reset()
	if a.Cursor != snapshotA.Cursor || a.Modes != snapshotA.Modes {
		t.Fatal("second reset() changed state relative to the first")
	}
}

func TestScreenAlignFillsEWithSingleWidth(t *testing.T) {
	s := New(10, 3)
	s.Lines[0].Dimensions = DoubleWidth
	s.WarpTo(5, 2)

	s.ScreenAlign()

	for _, l := range s.Lines {
		if l.Dimensions != SingleWidth {
			t.Fatalf("line dimensions = %d, want single-width", l.Dimensions)
		}
		for _, c := range l.Cells {
			if c.CodePoint != 'E' {
				t.Fatalf("cell = %q, want 'E'", c.CodePoint)
			}
		}
	}
	if s.Cursor.X != 0 || s.Cursor.Y != 0 {
		t.Fatalf("cursor = (%d,%d), want (0,0)", s.Cursor.X, s.Cursor.Y)
	}
}

func TestCharsetInvocationTranslatesPrintedCodePoint(t *testing.T) {
	s := New(80, 24)
	s.Designate(G1, charset.DECSpecialGraphics)
	s.Invoke(GL, G1)

	s.Print('`')

	if got := s.Lines[0].Cells[0].CodePoint; got != 0x25C6 {
		t.Fatalf("cell code point = %U, want diamond U+25C6", got)
	}
}
