package terminal

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termwire/terminal/keys"
	"github.com/lixenwraith/termwire/terminal/mouse"
)

func TestToTcell_Keys(t *testing.T) {
	tests := []struct {
		name string
		ev   keys.Event
		key  tcell.Key
		ch   rune
		mod  tcell.ModMask
	}{
		{"left", keys.Event{Type: keys.Down, Key: keys.KeyLeft}, tcell.KeyLeft, 0, tcell.ModNone},
		{"ctrl page down", keys.Event{Type: keys.Down, Key: keys.KeyPageDown, Modifiers: keys.ModCtrl}, tcell.KeyPgDn, 0, tcell.ModCtrl},
		{"f5 repeat", keys.Event{Type: keys.Repeat, Key: keys.KeyF5}, tcell.KeyF5, 0, tcell.ModNone},
		{"f24", keys.Event{Type: keys.Down, Key: keys.KeyF24}, tcell.KeyF24, 0, tcell.ModNone},
		{"alt x", keys.Event{Type: keys.Down, Char: 'x', Modifiers: keys.ModAlt}, tcell.KeyRune, 'x', tcell.ModAlt},
		{"shifted", keys.Event{Type: keys.Down, Char: 'a', Shifted: 'A', Modifiers: keys.ModShift}, tcell.KeyRune, 'A', tcell.ModNone},
		{"shift alt", keys.Event{Type: keys.Down, Char: 'a', Shifted: 'A', Modifiers: keys.ModShift | keys.ModAlt}, tcell.KeyRune, 'A', tcell.ModAlt},
		{"shift arrow", keys.Event{Type: keys.Down, Key: keys.KeyUp, Modifiers: keys.ModShift}, tcell.KeyUp, 0, tcell.ModShift},
		{"keypad digit", keys.Event{Type: keys.Down, Key: keys.KeyKP7}, tcell.KeyRune, '7', tcell.ModNone},
		{"keypad plus", keys.Event{Type: keys.Down, Key: keys.KeyKPAdd}, tcell.KeyRune, '+', tcell.ModNone},
	}

	for _, tc := range tests {
		got, ok := ToTcell(Event{Type: EventKey, Key: tc.ev})
		if !ok {
			t.Errorf("%s: not converted", tc.name)
			continue
		}
		kev, isKey := got.(*tcell.EventKey)
		if !isKey {
			t.Errorf("%s: got %T", tc.name, got)
			continue
		}
		if kev.Key() != tc.key || kev.Modifiers() != tc.mod {
			t.Errorf("%s: got key %v mod %v, want %v %v", tc.name, kev.Key(), kev.Modifiers(), tc.key, tc.mod)
		}
		if tc.key == tcell.KeyRune && kev.Rune() != tc.ch {
			t.Errorf("%s: rune %q, want %q", tc.name, kev.Rune(), tc.ch)
		}
	}
}

func TestToTcell_Unconverted(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
	}{
		{"key up", Event{Type: EventKey, Key: keys.Event{Type: keys.Up, Key: keys.KeyLeft}}},
		{"modifier key", Event{Type: EventKey, Key: keys.Event{Type: keys.Down, Key: keys.KeyLeftShift}}},
		{"closed", Event{Type: EventClosed}},
	}
	for _, tc := range tests {
		if _, ok := ToTcell(tc.ev); ok {
			t.Errorf("%s: converted", tc.name)
		}
	}
}

func TestToTcell_Mouse(t *testing.T) {
	tests := []struct {
		name    string
		ev      mouse.Event
		buttons tcell.ButtonMask
		mod     tcell.ModMask
	}{
		{"left press", mouse.Event{Type: mouse.Press, Buttons: mouse.ButtonLeft, X: 3, Y: 4}, tcell.Button1, tcell.ModNone},
		{"right press", mouse.Event{Type: mouse.Press, Buttons: mouse.ButtonRight, X: 3, Y: 4}, tcell.Button2, tcell.ModNone},
		{"middle ctrl", mouse.Event{Type: mouse.Press, Buttons: mouse.ButtonMiddle, Modifiers: mouse.ModCtrl, X: 3, Y: 4}, tcell.Button3, tcell.ModCtrl},
		{"wheel", mouse.Event{Type: mouse.Press, Buttons: mouse.WheelDown, X: 3, Y: 4}, tcell.WheelDown, tcell.ModNone},
		{"release", mouse.Event{Type: mouse.Release, Buttons: mouse.ButtonLeft, X: 3, Y: 4}, tcell.ButtonNone, tcell.ModNone},
		{"move", mouse.Event{Type: mouse.Move, Modifiers: mouse.ModMotion | mouse.ModShift, X: 3, Y: 4}, tcell.ButtonNone, tcell.ModShift},
	}

	for _, tc := range tests {
		got, ok := ToTcell(Event{Type: EventMouse, Mouse: tc.ev})
		if !ok {
			t.Fatalf("%s: not converted", tc.name)
		}
		mev := got.(*tcell.EventMouse)
		if mev.Buttons() != tc.buttons || mev.Modifiers() != tc.mod {
			t.Errorf("%s: got %v %v, want %v %v", tc.name, mev.Buttons(), mev.Modifiers(), tc.buttons, tc.mod)
		}
		if x, y := mev.Position(); x != 3 || y != 4 {
			t.Errorf("%s: position %d,%d", tc.name, x, y)
		}
	}
}

func TestToTcell_ResizeAndError(t *testing.T) {
	got, ok := ToTcell(Event{Type: EventResize, Size: Size{Cols: 120, Rows: 40}})
	if !ok {
		t.Fatal("resize not converted")
	}
	if w, h := got.(*tcell.EventResize).Size(); w != 120 || h != 40 {
		t.Errorf("resize %dx%d", w, h)
	}

	boom := errors.New("boom")
	got, ok = ToTcell(Event{Type: EventError, Err: boom})
	if !ok || got.(*tcell.EventError).Error() != "boom" {
		t.Errorf("error event %v %v", got, ok)
	}
}
