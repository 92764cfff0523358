// @focus: #sys { io } #input { keys }
package keys

// Key identifies a non-text key reported by the keyboard protocol
type Key uint16

// Key constants; KeyNone means the event carries a character in Event.Char
const (
	KeyNone Key = iota

	// Control keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete

	// Navigation
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd

	// Locks and system
	KeyCapsLock
	KeyScrollLock
	KeyNumLock
	KeyPrintScreen
	KeyPause
	KeyMenu

	// Function keys, contiguous F1..F24
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24

	// Keypad, contiguous KP0..KP9
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPDecimal
	KeyKPDivide
	KeyKPMultiply
	KeyKPSubtract
	KeyKPAdd
	KeyKPEnter
	KeyKPSeparator
	KeyKPBegin

	// Media
	KeyMediaPlay
	KeyMediaPause
	KeyMediaPlayPause
	KeyMediaStop
	KeyMediaNext
	KeyMediaPrev
	KeyVolumeDown
	KeyVolumeUp
	KeyVolumeMute

	// Modifier keys
	KeyLeftShift
	KeyLeftCtrl
	KeyLeftAlt
	KeyLeftSuper
	KeyRightShift
	KeyRightCtrl
	KeyRightAlt
	KeyRightSuper
)

// Modifier is the zero-based modifier bitmask of a key report
type Modifier uint8

const (
	ModNone     Modifier = 0
	ModShift    Modifier = 1 << 0
	ModAlt      Modifier = 1 << 1
	ModCtrl     Modifier = 1 << 2
	ModSuper    Modifier = 1 << 3
	ModHyper    Modifier = 1 << 4
	ModMeta     Modifier = 1 << 5
	ModCapsLock Modifier = 1 << 6
	ModNumLock  Modifier = 1 << 7
)

var modifierNames = [...]string{"Shift", "Alt", "Ctrl", "Super", "Hyper", "Meta", "CapsLock", "NumLock"}

// Has reports whether all bits of m are set
func (mod Modifier) Has(m Modifier) bool {
	return mod&m == m
}

func (mod Modifier) String() string {
	if mod == ModNone {
		return "None"
	}
	s := ""
	for i, name := range modifierNames {
		if mod&(1<<i) != 0 {
			if s != "" {
				s += "+"
			}
			s += name
		}
	}
	return s
}

// Type is the key event type
type Type uint8

const (
	Down Type = iota + 1
	Repeat
	Up
)

func (t Type) String() string {
	switch t {
	case Repeat:
		return "Repeat"
	case Up:
		return "Up"
	default:
		return "Down"
	}
}

// Flags select keyboard protocol reporting features
type Flags uint8

const (
	FlagDisambiguate     Flags = 1 << 0
	FlagEventTypes       Flags = 1 << 1
	FlagAlternateKeys    Flags = 1 << 2
	FlagAllKeysAsEscapes Flags = 1 << 3
	FlagAssociatedText   Flags = 1 << 4
	FlagsAll                   = FlagDisambiguate | FlagEventTypes | FlagAlternateKeys | FlagAllKeysAsEscapes | FlagAssociatedText
)

// Event is a decoded key report
// Exactly one of Key and Char is meaningful: Char is used when Key is KeyNone
type Event struct {
	Type      Type
	Key       Key
	Char      rune   // Unshifted codepoint
	Shifted   rune   // Shifted codepoint, zero if not reported
	Alternate rune   // Base-layout codepoint, zero if not reported
	Modifiers Modifier
	Text      string // Associated text, if reported
}

// IsChar reports whether the event carries a character instead of a named key
func (e Event) IsChar() bool {
	return e.Key == KeyNone
}
