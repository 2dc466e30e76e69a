package parser

import "github.com/javanhut/vtcore/screen"

// selectGraphicRendition implements SGR (§4.6): it builds a working copy
// of cursor.attrs, applies every accumulated parameter in order, and
// writes the result back only once, at the end.
func (t *Terminal) selectGraphicRendition() {
	s := t.Screen
	attrs := s.Cursor.Attrs

	for i := 0; i <= t.paramIndex; i++ {
		param := t.pRaw(i)

		switch {
		case param >= 10 && param <= 19:
			attrs.Font = param - 10
		case param >= 30 && param <= 37:
			attrs.Foreground = screen.Indexed(uint8(param - 30))
			attrs.FgTruecolor = false
		case param >= 40 && param <= 47:
			attrs.Background = screen.Indexed(uint8(param - 40))
			attrs.BgTruecolor = false
		case param >= 90 && param <= 97:
			attrs.Foreground = screen.Indexed(uint8(param - 90 + 8))
			attrs.FgTruecolor = false
		case param >= 100 && param <= 107:
			attrs.Background = screen.Indexed(uint8(param - 100 + 8))
			attrs.BgTruecolor = false
		default:
			switch param {
			case 0:
				attrs = screen.DefaultCell()
				s.Cursor.Conceal = false
			case 1:
				attrs.Intensity = screen.IntensityBold
			case 2:
				attrs.Intensity = screen.IntensityFaint
			case 3:
				attrs.Italic = true
			case 4:
				attrs.Underline = screen.UnderlineSingle
			case 5:
				attrs.Blink = screen.BlinkSlow
			case 6:
				attrs.Blink = screen.BlinkFast
			case 7:
				attrs.Negative = true
			case 8:
				s.Cursor.Conceal = true
			case 9:
				attrs.CrossedOut = true
			case 20:
				attrs.Fraktur = true
			case 21:
				attrs.Underline = screen.UnderlineDouble
			case 22:
				attrs.Intensity = screen.IntensityNormal
			case 23:
				attrs.Italic = false
				attrs.Fraktur = false
			case 24:
				attrs.Underline = screen.UnderlineNone
			case 25:
				attrs.Blink = screen.BlinkNone
			case 27:
				attrs.Negative = false
			case 28:
				s.Cursor.Conceal = false
			case 29:
				attrs.CrossedOut = false
			case 38, 48:
				var ok bool
				i, ok = t.applyExtendedColor(&attrs, param, i)
				if !ok {
					s.Cursor.Attrs = attrs
					return
				}
			case 39:
				def := screen.DefaultCell()
				attrs.Foreground = def.Foreground
				attrs.FgTruecolor = false
			case 49:
				def := screen.DefaultCell()
				attrs.Background = def.Background
				attrs.BgTruecolor = false
			case 51:
				attrs.Frame = screen.FrameFramed
			case 52:
				attrs.Frame = screen.FrameEncircled
			case 53:
				attrs.Overline = true
			case 54:
				attrs.Frame = screen.FrameNone
			case 55:
				attrs.Overline = false
			}
		}
	}

	s.Cursor.Attrs = attrs
}

// applyExtendedColor consumes the 38/48 sub-parameters starting at i+1:
// either "5;n" (palette index) or "2;r;g;b" (truecolor). It returns the
// new index to resume the outer loop at, and false if the sequence ended
// mid-consumption (per §4.6, processing then terminates without error).
func (t *Terminal) applyExtendedColor(attrs *screen.Cell, target, i int) (int, bool) {
	if i+1 > t.paramIndex {
		return i, false
	}
	i++

	switch t.pRaw(i) {
	case 2:
		if i+3 > t.paramIndex {
			return i, false
		}
		r := uint8(t.pRaw(i + 1))
		g := uint8(t.pRaw(i + 2))
		b := uint8(t.pRaw(i + 3))
		i += 3
		if target == 38 {
			attrs.Foreground = screen.RGB(r, g, b)
			attrs.FgTruecolor = true
		} else {
			attrs.Background = screen.RGB(r, g, b)
			attrs.BgTruecolor = true
		}
	case 5:
		if i+1 > t.paramIndex {
			return i, false
		}
		i++
		n := uint8(t.pRaw(i))
		if target == 38 {
			attrs.Foreground = screen.Indexed(n)
			attrs.FgTruecolor = false
		} else {
			attrs.Background = screen.Indexed(n)
			attrs.BgTruecolor = false
		}
	}

	return i, true
}
