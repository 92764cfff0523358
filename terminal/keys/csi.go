package keys

import (
	"strconv"
	"strings"
)

// Trailers are the CSI final bytes that can carry a key report
const Trailers = "u~ABCDEHFPQRS"

// Functional key numbers of the keyboard protocol
const (
	fnEscape    = 57344
	fnEnter     = 57345
	fnTab       = 57346
	fnBackspace = 57347
	fnF1        = 57364
	fnF24       = 57387
	fnKP0       = 57399
	fnKP9       = 57408
	fnKPBegin   = 57427
)

// letterTrailers maps letter finals to legacy or functional numbers
var letterTrailers = map[byte]int{
	'A': 57352,
	'B': 57353,
	'C': 57351,
	'D': 57350,
	'E': fnKPBegin,
	'F': 8,
	'H': 7,
	'P': 11,
	'Q': 12,
	'S': 14,
}

// legacyToFunctional maps legacy VT numbers to functional key numbers
var legacyToFunctional = map[int]int{
	2:   57348,
	3:   57349,
	5:   57354,
	6:   57355,
	7:   57356,
	8:   57357,
	9:   fnTab,
	11:  fnF1,
	12:  57365,
	13:  fnEnter,
	14:  57367,
	15:  57368,
	17:  57369,
	18:  57370,
	19:  57371,
	20:  57372,
	21:  57373,
	23:  57374,
	24:  57375,
	27:  fnEscape,
	127: fnBackspace,
}

// functionalKeys maps functional key numbers outside the contiguous ranges
var functionalKeys = map[int]Key{
	fnEscape:    KeyEscape,
	fnEnter:     KeyEnter,
	fnTab:       KeyTab,
	fnBackspace: KeyBackspace,
	57348:       KeyInsert,
	57349:       KeyDelete,
	57350:       KeyLeft,
	57351:       KeyRight,
	57352:       KeyUp,
	57353:       KeyDown,
	57354:       KeyPageUp,
	57355:       KeyPageDown,
	57356:       KeyHome,
	57357:       KeyEnd,
	57358:       KeyCapsLock,
	57359:       KeyScrollLock,
	57360:       KeyNumLock,
	57361:       KeyPrintScreen,
	57362:       KeyPause,
	57363:       KeyMenu,

	57409: KeyKPDecimal,
	57410: KeyKPDivide,
	57411: KeyKPMultiply,
	57412: KeyKPSubtract,
	57413: KeyKPAdd,
	57414: KeyKPEnter,
	57416: KeyKPSeparator,
	57417: KeyLeft,
	57418: KeyRight,
	57419: KeyUp,
	57420: KeyDown,
	57421: KeyPageUp,
	57422: KeyPageDown,
	57423: KeyHome,
	57424: KeyEnd,
	57425: KeyInsert,
	57426: KeyDelete,

	fnKPBegin: KeyKPBegin,

	57428: KeyMediaPlay,
	57429: KeyMediaPause,
	57430: KeyMediaPlayPause,
	57432: KeyMediaStop,
	57435: KeyMediaNext,
	57436: KeyMediaPrev,
	57438: KeyVolumeDown,
	57439: KeyVolumeUp,
	57440: KeyVolumeMute,

	57441: KeyLeftShift,
	57442: KeyLeftCtrl,
	57443: KeyLeftAlt,
	57444: KeyLeftSuper,
	57445: KeyLeftSuper,
	57446: KeyLeftSuper,
	57447: KeyRightShift,
	57448: KeyRightCtrl,
	57449: KeyRightAlt,
	57450: KeyRightSuper,
	57451: KeyRightSuper,
	57452: KeyRightSuper,
}

// functionalKey resolves a functional key number
func functionalKey(n int) (Key, bool) {
	switch {
	case n >= fnF1 && n <= fnF24:
		return KeyF1 + Key(n-fnF1), true
	case n >= fnKP0 && n <= fnKP9:
		return KeyKP0 + Key(n-fnKP0), true
	}
	k, ok := functionalKeys[n]
	return k, ok
}

// subParams splits a section on ':' and parses each part as a non-negative integer
// Empty parts take the missing value
func subParams(section string, missing int) ([]int, bool) {
	parts := strings.Split(section, ":")
	out := make([]int, len(parts))
	for i, p := range parts {
		if p == "" {
			out[i] = missing
			continue
		}
		n, ok := parseUint(p)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// parseUint accepts decimal digits only, bounded to the Unicode range
func parseUint(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n > 0x10ffff {
			return 0, false
		}
	}
	return n, true
}

// FromCSI decodes a CSI body, final byte included, as a keyboard protocol report
// Returns false for bodies that are not key reports or fail numeric conversion
func FromCSI(body string) (Event, bool) {
	if body == "" {
		return Event{}, false
	}
	trailer := body[len(body)-1]
	params := body[:len(body)-1]

	if strings.IndexByte(Trailers, trailer) < 0 {
		return Event{}, false
	}
	// Bracketed paste markers share the ~ trailer
	if trailer == '~' && (params == "200" || params == "201") {
		return Event{}, false
	}

	var sections [3][]int
	if params != "" {
		split := strings.Split(params, ";")
		if len(split) > 3 {
			return Event{}, false
		}
		missing := [3]int{0, 1, 0}
		for i, s := range split {
			sub, ok := subParams(s, missing[i])
			if !ok {
				return Event{}, false
			}
			sections[i] = sub
		}
	}

	keynum, ok := letterTrailers[trailer]
	if !ok {
		if len(sections[0]) == 0 {
			return Event{}, false
		}
		keynum = sections[0][0]
	}

	ev := Event{Type: Down}
	if keynum == 13 {
		// 13 is Enter in the modern encoding, F3 in the legacy one
		if trailer == 'u' {
			ev.Key = KeyEnter
		} else {
			ev.Key = KeyF3
		}
	} else if keynum != 0 {
		if fn, ok := legacyToFunctional[keynum]; ok {
			keynum = fn
		}
		ev.Key, _ = functionalKey(keynum)
	}
	if ev.Key == KeyNone {
		ev.Char = rune(keynum)
	}

	keyCodes := sections[0]
	if len(keyCodes) > 1 {
		ev.Shifted = rune(keyCodes[1])
	}
	if len(keyCodes) > 2 {
		ev.Alternate = rune(keyCodes[2])
	}

	mods := sections[1]
	if len(mods) > 0 && mods[0] > 0 {
		ev.Modifiers = Modifier(mods[0] - 1)
	}
	if len(mods) > 1 {
		switch mods[1] {
		case int(Repeat):
			ev.Type = Repeat
		case int(Up):
			ev.Type = Up
		}
	}

	if text := sections[2]; len(text) > 0 {
		var b strings.Builder
		for _, cp := range text {
			if cp > 0 {
				b.WriteRune(rune(cp))
			}
		}
		ev.Text = b.String()
	}

	return ev, true
}

// EnableSequence returns the escape that pushes the given reporting flags
func EnableSequence(flags Flags) string {
	return "\x1b[>" + strconv.Itoa(int(flags)) + "u"
}

// DisableSequence pops the keyboard protocol flags
const DisableSequence = "\x1b[<u"
