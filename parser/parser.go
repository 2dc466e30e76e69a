// Package parser implements the byte-level ECMA-48/DEC VT100 state machine
// and its VT52 legacy sibling, dispatching decoded control functions against
// a screen.Screen. It owns no I/O: the pty pump feeds it bytes and it
// queues reply bytes (device attributes, status reports, answerback)
// through a ReplySink.
package parser

import (
	"sync"

	"github.com/javanhut/vtcore/charset"
	"github.com/javanhut/vtcore/screen"
)

// state is the VT100 parser's current position in the ECMA-48 table.
type state int

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCSIEntry
	stateCSIParam
	stateCSIIntermediate
	stateCSIIgnore
	stateDCSEntry
	stateDCSIgnore
	stateOSCString
	stateSOSString
	statePMString
	stateAPCString
)

const (
	maxParameters = 16
	parameterMax  = 16383
	oscBufferMax  = 512
)

// ReplySink receives bytes the interpreter writes back to the child process
// (device attribute replies, status reports, answerback). Implementations
// are expected to apply their own back-pressure/bounded-buffer policy
// (see ptypump.Pump), silently dropping a reply that would overflow it.
type ReplySink interface {
	QueueReply(p []byte)
}

// Terminal couples one screen.Screen to the VT100 and VT52 parsers that
// drive it. Write is guarded by a mutex, which serializes concurrent Write
// calls. The mutex is unexported and readers of Screen do not take it; the
// reference front end in cmd/vtcore renders the Screen on the same
// goroutine that drives the pump.
type Terminal struct {
	Screen *screen.Screen
	Reply  ReplySink

	// Answerback is returned verbatim in response to ENQ (0x05).
	Answerback string

	// Title and IconName track the most recent OSC 0/1/2/21/2L window and
	// icon name requests, for a host window to read on a render tick.
	Title    string
	IconName string

	mu sync.Mutex

	st           state
	intermediate [2]byte
	params       [maxParameters]int
	paramIndex   int

	osc       []byte
	oscOffset int // index where the payload starts, 0 until a ';' is seen

	singleShift int // -1, or screen.G2/screen.G3 for the next Print only

	vt52 vt52State
	utf8 utf8Decoder
}

// NewTerminal builds a Terminal over an already-sized Screen.
func NewTerminal(scr *screen.Screen, reply ReplySink) *Terminal {
	return &Terminal{
		Screen:      scr,
		Reply:       reply,
		singleShift: -1,
	}
}

// Write feeds a chunk of child-process output through the active parser,
// routing each byte to the VT52 sub-automaton when DECANM is clear and to
// the VT100 state machine otherwise, per §4.10 of the core's pump contract.
func (t *Terminal) Write(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, b := range data {
		if t.Screen.Modes.Get(screen.ModeDECANM) {
			t.interpret(b)
		} else {
			t.vt52Interpret(b)
		}
	}
}

func (t *Terminal) reply(p []byte) {
	if t.Reply != nil {
		t.Reply.QueueReply(p)
	}
}

// VT100 with Processor Option, Advanced Video Option, and Graphics Option.
var deviceAttrs = []byte{0x1B, 0x5B, 0x3F, 0x31, 0x3B, 0x37, 0x63}

// interpret drives one byte through the ECMA-48 state table. CAN/SUB and
// ESC are global rules that pre-empt the per-state dispatch.
func (t *Terminal) interpret(b byte) {
	if b == 0x18 || b == 0x1A {
		t.st = stateGround
		t.emit(0xFFFD)
		return
	}

	if b == 0x1B {
		if t.st == stateOSCString {
			t.oscEnd()
		}
		t.st = stateEscape
		return
	}

	switch t.st {
	case stateGround:
		if b <= 0x1F {
			t.execute(b)
			return
		}
		t.printByte(b)

	case stateEscape:
		t.intermediate = [2]byte{}
		t.paramIndex = 0
		t.params = [maxParameters]int{}

		switch {
		case b <= 0x1F:
			t.execute(b)
		case b <= 0x2F:
			t.collect(b)
			t.st = stateEscapeIntermediate
		case b == 0x50:
			t.st = stateDCSEntry
		case b == 0x58:
			t.st = stateSOSString
		case b == 0x5B:
			t.st = stateCSIEntry
		case b == 0x5D:
			t.oscStart()
			t.st = stateOSCString
		case b == 0x5E:
			t.st = statePMString
		case b == 0x5F:
			t.st = stateAPCString
		case b <= 0x7E:
			t.escDispatch(b)
		}

	case stateEscapeIntermediate:
		switch {
		case b <= 0x1F:
			t.execute(b)
		case b <= 0x2F:
			t.collect(b)
		case b <= 0x7E:
			t.escDispatch(b)
		}

	case stateCSIEntry:
		switch {
		case b <= 0x1F:
			t.execute(b)
		case b <= 0x2F:
			t.collect(b)
			t.st = stateCSIIntermediate
		case b == 0x3A:
			t.st = stateCSIIgnore
		case b <= 0x3B:
			t.param(b)
			t.st = stateCSIParam
		case b <= 0x3F:
			t.collect(b)
			t.st = stateCSIParam
		case b <= 0x7E:
			t.csiDispatch(b)
		}

	case stateCSIParam:
		switch {
		case b <= 0x1F:
			t.execute(b)
		case b <= 0x2F:
			t.collect(b)
			t.st = stateCSIIntermediate
		case b == 0x3A:
			t.st = stateCSIIgnore
		case b <= 0x3B:
			t.param(b)
		case b <= 0x3F:
			t.st = stateCSIIgnore
		case b <= 0x7E:
			t.csiDispatch(b)
		}

	case stateCSIIntermediate:
		switch {
		case b <= 0x1F:
			t.execute(b)
		case b <= 0x2F:
			t.collect(b)
		case b <= 0x3F:
			t.st = stateCSIIgnore
		case b <= 0x7E:
			t.csiDispatch(b)
		}

	case stateCSIIgnore:
		if b <= 0x1F {
			t.execute(b)
		} else if b >= 0x40 && b <= 0x7E {
			t.st = stateGround
		}

	case stateDCSEntry, stateDCSIgnore:
		// Device Control Strings have no defined effect in this core;
		// bytes are absorbed until the next ESC (string terminator).

	case stateOSCString:
		if b == 0x07 {
			t.oscEnd()
			t.st = stateGround
		} else if b >= 0x20 {
			t.oscPut(b)
		}

	case stateSOSString, statePMString, stateAPCString:
		// ignored entirely, per §4.3
	}
}

// printByte applies the UTF-8 decode layer (when ModeUTF8 is set) to
// ground-state bytes with the high bit set, matching the original's
// print() inline decoder: only the GROUND print path ever sees multi-byte
// UTF-8, since escape/CSI/OSC syntax is always 7-bit.
func (t *Terminal) printByte(b byte) {
	if !t.Screen.Modes.Get(screen.ModeUTF8) {
		t.emit(rune(b))
		return
	}

	if r, complete, bad := t.utf8.feed(b); bad {
		t.emit(0xFFFD)
	} else if complete {
		t.emit(r)
	}
}

// emit writes one decoded code point through any pending single shift, then
// through the screen's normal GL-invoked charset.
func (t *Terminal) emit(ch rune) {
	if t.singleShift >= 0 {
		saved := t.Screen.Cursor.Active[screen.GL]
		t.Screen.Cursor.Active[screen.GL] = t.singleShift
		t.Screen.Print(ch)
		t.Screen.Cursor.Active[screen.GL] = saved
		t.singleShift = -1
		return
	}
	t.Screen.Print(ch)
}

// execute runs a C0 control function, shared verbatim between the VT100
// and VT52 parsers per §4.8.
func (t *Terminal) execute(b byte) {
	s := t.Screen
	switch b {
	case 0x05: // ENQ
		t.reply([]byte(t.Answerback))
	case 0x07: // BEL
		// Bell is an external side effect (audible/visual); no screen state changes.
	case 0x08: // BS
		s.MoveCursor(screen.DirLeft, 1)
	case 0x09: // HT
		s.Tab()
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		s.Newline()
		if s.Modes.Get(screen.ModeLNM) {
			s.Cursor.X = 0
		}
	case 0x0D: // CR
		s.Cursor.X = 0
	case 0x0E: // SO
		s.Invoke(screen.GL, screen.G1)
	case 0x0F: // SI
		s.Invoke(screen.GL, screen.G0)
	case 0x11: // DC1 XON
		s.Modes.Set(screen.ModeXOFF, false)
	case 0x13: // DC3 XOFF
		s.Modes.Set(screen.ModeXOFF, true)
	}
}

func (t *Terminal) collect(b byte) {
	if t.intermediate[0] == 0 {
		t.intermediate[0] = b
	} else if t.intermediate[1] == 0 {
		t.intermediate[1] = b
	} else {
		t.intermediate[0] = 0xFF
	}
}

func (t *Terminal) param(b byte) {
	if t.paramIndex == maxParameters {
		return
	}
	if b == ';' {
		t.paramIndex++
		return
	}
	v := t.params[t.paramIndex]*10 + int(b-0x30)
	if v > parameterMax {
		v = parameterMax
	}
	t.params[t.paramIndex] = v
}

// p returns parameter i, or def if it was never supplied (the original
// terminix convention: a parameter that was never typed reads back as 0
// from the accumulator, but many functions substitute a different default
// for exactly that case).
func (t *Terminal) p(i, def int) int {
	if i > t.paramIndex || t.params[i] == 0 {
		return def
	}
	return t.params[i]
}

// pRaw returns parameter i's literal accumulated value (0 if never typed),
// for functions whose own default is 0.
func (t *Terminal) pRaw(i int) int {
	if i > t.paramIndex {
		return 0
	}
	return t.params[i]
}
