package keymap

import (
	"testing"

	"github.com/javanhut/vtcore/screen"
)

func TestArrowKeyModeSwitching(t *testing.T) {
	var modes screen.ModeSet
	modes.Set(screen.ModeDECANM, true)

	if got := string(Encode(KeyArrowUp, &modes)); got != "\x1B[A" {
		t.Fatalf("expected CSI arrow, got %q", got)
	}

	modes.Set(screen.ModeDECCKM, true)
	if got := string(Encode(KeyArrowUp, &modes)); got != "\x1BOA" {
		t.Fatalf("expected SS3 arrow under DECCKM, got %q", got)
	}

	modes.Set(screen.ModeDECANM, false)
	if got := string(Encode(KeyArrowUp, &modes)); got != "\x1BA" {
		t.Fatalf("expected VT52 arrow, got %q", got)
	}
}

func TestEnterRespectsLNM(t *testing.T) {
	var modes screen.ModeSet
	if got := string(Encode(KeyEnter, &modes)); got != "\r" {
		t.Fatalf("expected bare CR, got %q", got)
	}
	modes.Set(screen.ModeLNM, true)
	if got := string(Encode(KeyEnter, &modes)); got != "\r\n" {
		t.Fatalf("expected CRLF under LNM, got %q", got)
	}
}

func TestEditingKeys(t *testing.T) {
	var modes screen.ModeSet
	cases := map[Key]string{
		KeyHome:     "\x1B[1~",
		KeyEnd:      "\x1B[4~",
		KeyInsert:   "\x1B[2~",
		KeyPageUp:   "\x1B[5~",
		KeyPageDown: "\x1B[6~",
		KeyF1:       "\x1BOP",
		KeyF4:       "\x1BOS",
		KeyBackspace: "\x7F",
	}
	for key, want := range cases {
		if got := string(Encode(key, &modes)); got != want {
			t.Fatalf("key %d: expected %q, got %q", key, want, got)
		}
	}
}
