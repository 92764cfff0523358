package escape

// Result is the outcome of feeding one byte to a Decoder
type Result uint8

const (
	Incomplete Result = iota // More bytes needed
	Accept                   // Codepoint complete
	Reject                   // Byte not allowed at this position
)

func (r Result) String() string {
	switch r {
	case Accept:
		return "Accept"
	case Reject:
		return "Reject"
	default:
		return "Incomplete"
	}
}

// DFA states, multiples of 12 so state+class indexes the transition table
const (
	utf8Accept = 0
	utf8Reject = 12
)

// utf8Classes maps each byte to its character class
var utf8Classes = buildClasses()

// utf8Transitions is indexed by state+class
var utf8Transitions = [108]uint8{
	0, 12, 24, 36, 60, 96, 84, 12, 12, 12, 48, 72,
	12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12,
	12, 0, 12, 12, 12, 12, 12, 0, 12, 0, 12, 12,
	12, 24, 12, 12, 12, 12, 12, 24, 12, 24, 12, 12,
	12, 12, 12, 12, 12, 12, 12, 24, 12, 12, 12, 12,
	12, 24, 12, 12, 12, 12, 12, 12, 12, 24, 12, 12,
	12, 12, 12, 12, 12, 12, 12, 36, 12, 36, 12, 12,
	12, 36, 12, 12, 12, 12, 12, 36, 12, 36, 12, 12,
	12, 36, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12,
}

func buildClasses() [256]uint8 {
	var c [256]uint8
	fill := func(lo, hi int, class uint8) {
		for b := lo; b <= hi; b++ {
			c[b] = class
		}
	}
	fill(0x80, 0x8f, 1)
	fill(0x90, 0x9f, 9)
	fill(0xa0, 0xbf, 7)
	fill(0xc0, 0xc1, 8)
	fill(0xc2, 0xdf, 2)
	fill(0xe0, 0xe0, 10)
	fill(0xe1, 0xec, 3)
	fill(0xed, 0xed, 4)
	fill(0xee, 0xef, 3)
	fill(0xf0, 0xf0, 11)
	fill(0xf1, 0xf3, 6)
	fill(0xf4, 0xf4, 5)
	fill(0xf5, 0xff, 8)
	return c
}

// Decoder is a bytewise UTF-8 validating decoder
// Zero value is ready to use
type Decoder struct {
	state uint8
	cp    rune
}

// Decode advances the automaton by one byte
// On Reject the decoder is already reset; if Initial() was false before the call,
// the same byte should be offered again
func (d *Decoder) Decode(b byte) (rune, Result) {
	class := utf8Classes[b]
	if d.state != utf8Accept {
		d.cp = rune(b&0x3f) | d.cp<<6
	} else {
		d.cp = rune(0xff>>class) & rune(b)
	}
	d.state = utf8Transitions[int(d.state)+int(class)]

	switch d.state {
	case utf8Accept:
		return d.cp, Accept
	case utf8Reject:
		d.Reset()
		return 0, Reject
	default:
		return 0, Incomplete
	}
}

// Initial reports whether the decoder is between codepoints
func (d *Decoder) Initial() bool {
	return d.state == utf8Accept
}

// Reset discards any partial codepoint
func (d *Decoder) Reset() {
	d.state = utf8Accept
	d.cp = 0
}
