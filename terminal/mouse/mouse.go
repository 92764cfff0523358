package mouse

import "strings"

// Button is a bitmask of mouse buttons
type Button uint16

const (
	ButtonNone    Button = 0
	ButtonLeft    Button = 1 << 0
	ButtonMiddle  Button = 1 << 1
	ButtonRight   Button = 1 << 2
	ButtonFourth  Button = 1 << 3
	ButtonFifth   Button = 1 << 4
	ButtonSixth   Button = 1 << 5
	ButtonSeventh Button = 1 << 6
	WheelUp       Button = 1 << 7
	WheelDown     Button = 1 << 8
	WheelLeft     Button = 1 << 9
	WheelRight    Button = 1 << 10
)

var buttonNames = [...]string{
	"Left", "Middle", "Right", "Fourth", "Fifth", "Sixth", "Seventh",
	"WheelUp", "WheelDown", "WheelLeft", "WheelRight",
}

// Has reports whether all bits of m are set
func (b Button) Has(m Button) bool {
	return b&m == m
}

// IsWheel reports whether any wheel direction is set
func (b Button) IsWheel() bool {
	return b&(WheelUp|WheelDown|WheelLeft|WheelRight) != 0
}

func (b Button) String() string {
	if b == ButtonNone {
		return "None"
	}
	return joinBits(uint16(b), buttonNames[:])
}

// Modifier is a bitmask using the SGR descriptor's own bit positions
type Modifier uint8

const (
	ModNone   Modifier = 0
	ModShift  Modifier = 0x04
	ModAlt    Modifier = 0x08
	ModCtrl   Modifier = 0x10
	ModMotion Modifier = 0x20
)

// Has reports whether all bits of m are set
func (m Modifier) Has(o Modifier) bool {
	return m&o == o
}

func (m Modifier) String() string {
	if m == ModNone {
		return "None"
	}
	var parts []string
	if m&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if m&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if m&ModMotion != 0 {
		parts = append(parts, "Motion")
	}
	return strings.Join(parts, "+")
}

// Type is the mouse event type
type Type uint8

const (
	Press Type = iota
	Release
	Move
)

func (t Type) String() string {
	switch t {
	case Release:
		return "Release"
	case Move:
		return "Move"
	default:
		return "Press"
	}
}

// Event is a decoded SGR mouse report
// X and Y are in the units the terminal reports, pixels in SGR-pixel mode
type Event struct {
	Type      Type
	Buttons   Button
	Modifiers Modifier
	X, Y      int
}

// Cell converts pixel coordinates to a 0-indexed cell given the cell size in pixels
// Returns the raw coordinates when the cell size is unknown
func (e Event) Cell(cellW, cellH int) (col, row int) {
	if cellW <= 0 || cellH <= 0 {
		return e.X, e.Y
	}
	col, row = e.X/cellW, e.Y/cellH
	if col < 0 {
		col = 0
	}
	if row < 0 {
		row = 0
	}
	return col, row
}

func joinBits(v uint16, names []string) string {
	var parts []string
	for i, name := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "+")
}
