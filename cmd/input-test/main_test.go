package main

import (
	"testing"

	"github.com/lixenwraith/termwire/terminal"
	"github.com/lixenwraith/termwire/terminal/keys"
)

func TestQuit(t *testing.T) {
	tests := []struct {
		name string
		ev   terminal.Event
		want bool
	}{
		{"raw ctrl-c", terminal.Event{Type: terminal.EventText, Rune: 0x03}, true},
		{"plain q", terminal.Event{Type: terminal.EventText, Rune: 'q'}, true},
		{"other text", terminal.Event{Type: terminal.EventText, Rune: 'x'}, false},
		{"protocol ctrl-c", terminal.Event{Type: terminal.EventKey, Key: keys.Event{Type: keys.Down, Char: 'c', Modifiers: keys.ModCtrl}}, true},
		{"ctrl-c release", terminal.Event{Type: terminal.EventKey, Key: keys.Event{Type: keys.Up, Char: 'c', Modifiers: keys.ModCtrl}}, false},
		{"shift q", terminal.Event{Type: terminal.EventKey, Key: keys.Event{Type: keys.Down, Char: 'q', Modifiers: keys.ModShift}}, false},
		{"escape", terminal.Event{Type: terminal.EventKey, Key: keys.Event{Type: keys.Down, Key: keys.KeyEscape}}, false},
		{"resize", terminal.Event{Type: terminal.EventResize}, false},
		{"numlock ctrl-c", terminal.Event{Type: terminal.EventKey, Key: keys.Event{Type: keys.Down, Char: 'c', Modifiers: keys.ModCtrl | keys.ModNumLock}}, true},
		{"capslock q", terminal.Event{Type: terminal.EventKey, Key: keys.Event{Type: keys.Down, Char: 'q', Modifiers: keys.ModCapsLock}}, true},
		{"both locks ctrl-q", terminal.Event{Type: terminal.EventKey, Key: keys.Event{Type: keys.Down, Char: 'q', Modifiers: keys.ModCtrl | keys.ModCapsLock | keys.ModNumLock}}, true},
	}
	for _, tc := range tests {
		if got := quit(tc.ev, keys.KeyNone); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestQuit_ExtraKey(t *testing.T) {
	f10, err := keys.ParseKey("F10")
	if err != nil {
		t.Fatal(err)
	}
	down := func(k keys.Key, mods keys.Modifier) terminal.Event {
		return terminal.Event{Type: terminal.EventKey, Key: keys.Event{Type: keys.Down, Key: k, Modifiers: mods}}
	}

	if !quit(down(keys.KeyF10, keys.ModNone), f10) {
		t.Error("f10 did not quit")
	}
	if !quit(down(keys.KeyF10, keys.ModNumLock), f10) {
		t.Error("f10 with numlock did not quit")
	}
	if quit(down(keys.KeyF10, keys.ModCtrl), f10) {
		t.Error("ctrl+f10 quit")
	}
	if quit(down(keys.KeyF9, keys.ModNone), f10) {
		t.Error("f9 quit")
	}
	if quit(down(keys.KeyF10, keys.ModNone), keys.KeyNone) {
		t.Error("f10 quit with no extra key set")
	}
}
