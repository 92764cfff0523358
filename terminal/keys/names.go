package keys

import (
	"fmt"
	"strconv"
	"strings"
)

// keyToName maps Key constants to canonical config string names
var keyToName = map[Key]string{
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyInsert:    "insert",
	KeyDelete:    "delete",

	KeyLeft:     "left",
	KeyRight:    "right",
	KeyUp:       "up",
	KeyDown:     "down",
	KeyPageUp:   "page_up",
	KeyPageDown: "page_down",
	KeyHome:     "home",
	KeyEnd:      "end",

	KeyCapsLock:    "caps_lock",
	KeyScrollLock:  "scroll_lock",
	KeyNumLock:     "num_lock",
	KeyPrintScreen: "print_screen",
	KeyPause:       "pause",
	KeyMenu:        "menu",

	KeyKPDecimal:   "kp_decimal",
	KeyKPDivide:    "kp_divide",
	KeyKPMultiply:  "kp_multiply",
	KeyKPSubtract:  "kp_subtract",
	KeyKPAdd:       "kp_add",
	KeyKPEnter:     "kp_enter",
	KeyKPSeparator: "kp_separator",
	KeyKPBegin:     "kp_begin",

	KeyMediaPlay:      "media_play",
	KeyMediaPause:     "media_pause",
	KeyMediaPlayPause: "media_play_pause",
	KeyMediaStop:      "media_stop",
	KeyMediaNext:      "media_next",
	KeyMediaPrev:      "media_prev",
	KeyVolumeDown:     "volume_down",
	KeyVolumeUp:       "volume_up",
	KeyVolumeMute:     "volume_mute",

	KeyLeftShift:  "left_shift",
	KeyLeftCtrl:   "left_ctrl",
	KeyLeftAlt:    "left_alt",
	KeyLeftSuper:  "left_super",
	KeyRightShift: "right_shift",
	KeyRightCtrl:  "right_ctrl",
	KeyRightAlt:   "right_alt",
	KeyRightSuper: "right_super",
}

// nameToKey is the reverse of keyToName plus the generated ranges
var nameToKey = func() map[string]Key {
	m := make(map[string]Key, len(keyToName)+34)
	for k, name := range keyToName {
		m[name] = k
	}
	for i := 0; i < 24; i++ {
		m["f"+strconv.Itoa(i+1)] = KeyF1 + Key(i)
	}
	for i := 0; i < 10; i++ {
		m["kp_"+strconv.Itoa(i)] = KeyKP0 + Key(i)
	}
	return m
}()

func (k Key) String() string {
	switch {
	case k == KeyNone:
		return "none"
	case k >= KeyF1 && k <= KeyF24:
		return "f" + strconv.Itoa(int(k-KeyF1)+1)
	case k >= KeyKP0 && k <= KeyKP9:
		return "kp_" + strconv.Itoa(int(k-KeyKP0))
	}
	if name, ok := keyToName[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", uint16(k))
}

// ParseKey resolves a config key name, case-insensitive
func ParseKey(name string) (Key, error) {
	k, ok := nameToKey[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KeyNone, fmt.Errorf("unknown key name %q", name)
	}
	return k, nil
}

func (e Event) String() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	b.WriteByte(' ')
	if e.Modifiers != ModNone {
		b.WriteString(e.Modifiers.String())
		b.WriteByte('+')
	}
	if e.Key != KeyNone {
		b.WriteString(e.Key.String())
	} else {
		b.WriteString(strconv.QuoteRune(e.Char))
	}
	if e.Shifted != 0 {
		b.WriteString(" shifted=")
		b.WriteString(strconv.QuoteRune(e.Shifted))
	}
	if e.Alternate != 0 {
		b.WriteString(" alt=")
		b.WriteString(strconv.QuoteRune(e.Alternate))
	}
	if e.Text != "" {
		b.WriteString(" text=")
		b.WriteString(strconv.Quote(e.Text))
	}
	return b.String()
}

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagDisambiguate, "disambiguate"},
	{FlagEventTypes, "event_types"},
	{FlagAlternateKeys, "alternate_keys"},
	{FlagAllKeysAsEscapes, "all_keys_as_escapes"},
	{FlagAssociatedText, "associated_text"},
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseFlags resolves config flag names; "all" selects every flag and "none" clears them
func ParseFlags(names []string) (Flags, error) {
	var f Flags
outer:
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "", "none":
			continue
		case "all":
			f |= FlagsAll
			continue
		}
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				continue outer
			}
		}
		return 0, fmt.Errorf("unknown keyboard flag %q", name)
	}
	return f, nil
}
