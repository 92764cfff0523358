package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termwire/terminal/keys"
	"github.com/lixenwraith/termwire/terminal/mouse"
)

// ToTcell converts an input event for code written against tcell
// Key releases, text and closed events have no tcell form and report false
func ToTcell(ev Event) (tcell.Event, bool) {
	switch ev.Type {
	case EventKey:
		if ev.Key.Type == keys.Up {
			return nil, false
		}
		k, ch := tcellKey(ev.Key)
		if k == tcell.KeyNUL && ch == 0 {
			return nil, false
		}
		mod := tcellKeyMod(ev.Key.Modifiers)
		if k == tcell.KeyRune {
			// Shift is carried by the rune itself
			mod &^= tcell.ModShift
		}
		return tcell.NewEventKey(k, ch, mod), true
	case EventText:
		return tcell.NewEventKey(tcell.KeyRune, ev.Rune, tcell.ModNone), true
	case EventMouse:
		m := ev.Mouse
		var btn tcell.ButtonMask
		if m.Type != mouse.Release {
			btn = tcellButtons(m.Buttons)
		}
		return tcell.NewEventMouse(m.X, m.Y, btn, tcellMouseMod(m.Modifiers)), true
	case EventResize:
		return tcell.NewEventResize(ev.Size.Cols, ev.Size.Rows), true
	case EventError:
		return tcell.NewEventError(ev.Err), true
	}
	return nil, false
}

var tcellKeys = map[keys.Key]tcell.Key{
	keys.KeyEscape:      tcell.KeyEscape,
	keys.KeyEnter:       tcell.KeyEnter,
	keys.KeyKPEnter:     tcell.KeyEnter,
	keys.KeyTab:         tcell.KeyTab,
	keys.KeyBackspace:   tcell.KeyBackspace2,
	keys.KeyInsert:      tcell.KeyInsert,
	keys.KeyDelete:      tcell.KeyDelete,
	keys.KeyLeft:        tcell.KeyLeft,
	keys.KeyRight:       tcell.KeyRight,
	keys.KeyUp:          tcell.KeyUp,
	keys.KeyDown:        tcell.KeyDown,
	keys.KeyPageUp:      tcell.KeyPgUp,
	keys.KeyPageDown:    tcell.KeyPgDn,
	keys.KeyHome:        tcell.KeyHome,
	keys.KeyEnd:         tcell.KeyEnd,
	keys.KeyPrintScreen: tcell.KeyPrint,
	keys.KeyPause:       tcell.KeyPause,
	keys.KeyKPBegin:     tcell.KeyCenter,
}

// tcellKey maps a key event to a tcell key and rune; KeyNUL with no rune means unmapped
func tcellKey(ev keys.Event) (tcell.Key, rune) {
	if ev.IsChar() {
		ch := ev.Char
		if ev.Modifiers.Has(keys.ModShift) && ev.Shifted != 0 {
			ch = ev.Shifted
		}
		return tcell.KeyRune, ch
	}
	if k, ok := tcellKeys[ev.Key]; ok {
		return k, 0
	}
	if ev.Key >= keys.KeyF1 && ev.Key <= keys.KeyF24 {
		return tcell.KeyF1 + tcell.Key(ev.Key-keys.KeyF1), 0
	}
	if ev.Key >= keys.KeyKP0 && ev.Key <= keys.KeyKP9 {
		return tcell.KeyRune, '0' + rune(ev.Key-keys.KeyKP0)
	}
	switch ev.Key {
	case keys.KeyKPDecimal:
		return tcell.KeyRune, '.'
	case keys.KeyKPDivide:
		return tcell.KeyRune, '/'
	case keys.KeyKPMultiply:
		return tcell.KeyRune, '*'
	case keys.KeyKPSubtract:
		return tcell.KeyRune, '-'
	case keys.KeyKPAdd:
		return tcell.KeyRune, '+'
	case keys.KeyKPSeparator:
		return tcell.KeyRune, ','
	}
	return tcell.KeyNUL, 0
}

func tcellKeyMod(m keys.Modifier) tcell.ModMask {
	var mod tcell.ModMask
	if m.Has(keys.ModShift) {
		mod |= tcell.ModShift
	}
	if m.Has(keys.ModAlt) {
		mod |= tcell.ModAlt
	}
	if m.Has(keys.ModCtrl) {
		mod |= tcell.ModCtrl
	}
	if m.Has(keys.ModSuper) || m.Has(keys.ModMeta) {
		mod |= tcell.ModMeta
	}
	return mod
}

func tcellMouseMod(m mouse.Modifier) tcell.ModMask {
	var mod tcell.ModMask
	if m.Has(mouse.ModShift) {
		mod |= tcell.ModShift
	}
	if m.Has(mouse.ModAlt) {
		mod |= tcell.ModAlt
	}
	if m.Has(mouse.ModCtrl) {
		mod |= tcell.ModCtrl
	}
	return mod
}

var tcellButtonBits = []struct {
	from mouse.Button
	to   tcell.ButtonMask
}{
	{mouse.ButtonLeft, tcell.Button1},
	{mouse.ButtonRight, tcell.Button2},
	{mouse.ButtonMiddle, tcell.Button3},
	{mouse.ButtonFourth, tcell.Button4},
	{mouse.ButtonFifth, tcell.Button5},
	{mouse.ButtonSixth, tcell.Button6},
	{mouse.ButtonSeventh, tcell.Button7},
	{mouse.WheelUp, tcell.WheelUp},
	{mouse.WheelDown, tcell.WheelDown},
	{mouse.WheelLeft, tcell.WheelLeft},
	{mouse.WheelRight, tcell.WheelRight},
}

func tcellButtons(b mouse.Button) tcell.ButtonMask {
	var mask tcell.ButtonMask
	for _, bit := range tcellButtonBits {
		if b.Has(bit.from) {
			mask |= bit.to
		}
	}
	return mask
}
