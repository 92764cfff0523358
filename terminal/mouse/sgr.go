// @focus: #input { mouse }
package mouse

import "strings"

// Descriptor layout of an SGR report
const (
	descButtonMask = 0x03
	descModMask    = 0x1c // Shift, Alt, Ctrl
	descMotion     = 0x20
	descWheel      = 0x40
	descExtended   = 0x80
)

var (
	basicButtons    = [3]Button{ButtonLeft, ButtonMiddle, ButtonRight}
	wheelButtons    = [4]Button{WheelUp, WheelDown, WheelLeft, WheelRight}
	extendedButtons = [4]Button{ButtonFourth, ButtonFifth, ButtonSixth, ButtonSeventh}
)

// FromCSI decodes a CSI body of the form <desc;x;yM or <desc;x;ym
func FromCSI(body string) (Event, bool) {
	if len(body) < 2 || body[0] != '<' {
		return Event{}, false
	}
	final := body[len(body)-1]
	if final != 'M' && final != 'm' {
		return Event{}, false
	}

	fields := strings.Split(body[1:len(body)-1], ";")
	if len(fields) != 3 {
		return Event{}, false
	}
	desc, ok := parseInt(fields[0])
	if !ok || desc < 0 {
		return Event{}, false
	}
	x, ok := parseInt(fields[1])
	if !ok {
		return Event{}, false
	}
	y, ok := parseInt(fields[2])
	if !ok {
		return Event{}, false
	}

	ev := Event{Type: Press, X: x, Y: y}
	switch {
	case final == 'm':
		ev.Type = Release
	case desc&descMotion != 0:
		ev.Type = Move
		ev.Modifiers |= ModMotion
	}

	idx := desc & descButtonMask
	switch {
	case desc >= descExtended:
		ev.Buttons = extendedButtons[idx]
	case desc >= descWheel:
		ev.Buttons = wheelButtons[idx]
	case idx < 3:
		ev.Buttons = basicButtons[idx]
	}

	ev.Modifiers |= Modifier(desc & descModMask)
	return ev, true
}

// parseInt accepts an optionally signed decimal bounded to 1<<24
func parseInt(s string) (int, bool) {
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n > 1<<24 {
			return 0, false
		}
	}
	if neg {
		n = -n
	}
	return n, true
}

// Descriptor encodes a button set and modifiers as an SGR press/move descriptor
func Descriptor(b Button, mods Modifier) int {
	d := int(mods) & (descModMask | descMotion)
	for i, w := range wheelButtons {
		if b&w != 0 {
			return d | descWheel | i
		}
	}
	for i, e := range extendedButtons {
		if b&e != 0 {
			return d | descExtended | i
		}
	}
	for i, bb := range basicButtons {
		if b&bb != 0 {
			return d | i
		}
	}
	return d | descButtonMask
}
