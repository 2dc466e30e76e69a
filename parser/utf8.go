package parser

// utf8Decoder collapses a UTF-8 byte stream into a stream of code points,
// exactly mirroring the byte-synchronous decoder the original's print()
// function runs inline: one state variable for the expected sequence
// length, one accumulator, one index tracking which bits still need
// shifting in. feed returns (codePoint, complete, bad): bad means a
// malformed sequence was encountered and the caller should print U+FFFD;
// complete means a full code point is ready in the first return value.
type utf8Decoder struct {
	size  int // total sequence length expected (0 = idle), 2/3/4
	index int // continuation bytes consumed so far
	cp    rune
}

func (d *utf8Decoder) feed(b byte) (rune, bool, bool) {
	if d.size == 0 {
		d.index = 0
		d.cp = 0

		switch {
		case b&0x80 == 0:
			return rune(b), true, false
		case b&0xE0 == 0xC0:
			d.size = 2
			d.cp = rune(b&^0xE0) << 6
		case b&0xF0 == 0xE0:
			d.size = 3
			d.cp = rune(b&^0xF0) << 12
		case b&0xF8 == 0xF0:
			d.size = 4
			d.cp = rune(b&^0xF8) << 18
		default:
			return 0, false, true
		}
		return 0, false, false
	}

	if b&0xC0 != 0x80 {
		// Invalid continuation byte: reset and report bad, matching the
		// reference decoder's reset-on-violation behavior (§4.9).
		d.size = 0
		return 0, false, true
	}

	switch d.size {
	case 2:
		d.cp |= rune(b &^ 0xC0)
		d.size = 0
		return d.cp, true, false
	case 3:
		switch d.index {
		case 0:
			d.cp |= rune(b&^0xC0) << 6
			d.index++
			return 0, false, false
		default:
			d.cp |= rune(b &^ 0xC0)
			d.size = 0
			return d.cp, true, false
		}
	case 4:
		switch d.index {
		case 0:
			d.cp |= rune(b&^0xC0) << 12
			d.index++
			return 0, false, false
		case 1:
			d.cp |= rune(b&^0xC0) << 6
			d.index++
			return 0, false, false
		default:
			d.cp |= rune(b &^ 0xC0)
			d.size = 0
			return d.cp, true, false
		}
	}

	return 0, false, true
}
