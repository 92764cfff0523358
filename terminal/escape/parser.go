// @focus: #terminal { escape }
package escape

// Kind identifies the sequence family of a dispatched item
type Kind uint8

const (
	KindNone Kind = iota // Plain codepoint, see Sequence.Rune
	KindCSI
	KindOSC
	KindDCS
	KindPM
	KindSOS
	KindAPC
)

var kindNames = [...]string{"None", "CSI", "OSC", "DCS", "PM", "SOS", "APC"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// State is the active parser state
type State uint8

const (
	StateNormal      State = iota
	StateEscape            // ESC seen, waiting for introducer
	StateCSI               // Parameter* Intermediate* Final
	StateString            // DCS, PM, SOS, APC body
	StateStringOrBEL       // OSC body, BEL also terminates
	StateStringESC         // ESC inside a string body
	StateStringC1          // 0xC2 inside a string body
)

var stateNames = [...]string{"Normal", "Escape", "CSI", "String", "StringOrBEL", "StringESC", "StringC1"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// DefaultMaxBody bounds a buffered sequence body
const DefaultMaxBody = 64 << 10

// Sequence is one item produced by the parser
type Sequence struct {
	Kind Kind
	Rune rune   // KindNone only
	Body string // CSI body includes the final byte
}

// Handlers receive dispatched items; a nil func accepts and ignores the item
// A body handler returning false stops Parse after the current byte
type Handlers struct {
	Data func(r rune)
	CSI  func(body string) bool
	OSC  func(body string) bool
	DCS  func(body string) bool
	PM   func(body string) bool
	SOS  func(body string) bool
	APC  func(body string) bool
}

// csi byte classes
const (
	csiUnknown = iota
	csiParameter
	csiIntermediate
	csiFinal
)

func csiClass(b byte) int {
	switch {
	case (b >= 0x30 && b <= 0x3f) || b == '-':
		return csiParameter
	case b >= 0x40 && b <= 0x7e:
		return csiFinal
	case b >= 0x20 && b <= 0x2f:
		return csiIntermediate
	}
	return csiUnknown
}

// Parser is an incremental escape-sequence state machine
// Not safe for concurrent use; one goroutine owns an instance
type Parser struct {
	Handlers Handlers

	// MaxBody bounds the body buffer; zero means DefaultMaxBody
	MaxBody int

	// OnDiscard, if set, is told about input dropped during recovery
	OnDiscard func(Discard)

	dec   Decoder
	state State
	kind  Kind
	body  State // string state to return to after StringESC/StringC1
	inter bool  // CSI has entered the intermediate phase
	buf   []byte
	utf8  []byte // lead and continuation bytes of an incomplete codepoint
}

// NewParser creates a parser dispatching to h
func NewParser(h Handlers) *Parser {
	return &Parser{Handlers: h}
}

// State returns the active state
func (p *Parser) State() State {
	return p.state
}

// Pending reports whether partial input is buffered
func (p *Parser) Pending() bool {
	return p.state != StateNormal || !p.dec.Initial()
}

// Reset abandons any partial sequence or codepoint
func (p *Parser) Reset() {
	p.dec.Reset()
	p.state = StateNormal
	p.kind = KindNone
	p.body = StateNormal
	p.inter = false
	p.buf = p.buf[:0]
	p.utf8 = p.utf8[:0]
}

// Parse feeds data and dispatches complete items to Handlers
// Returns the number of bytes consumed, less than len(data) only if a handler returned false
func (p *Parser) Parse(data []byte) int {
	for i, b := range data {
		seq, ok := p.Feed(b)
		if ok && !p.dispatch(seq) {
			return i + 1
		}
	}
	return len(data)
}

func (p *Parser) dispatch(seq Sequence) bool {
	h := &p.Handlers
	var fn func(string) bool
	switch seq.Kind {
	case KindNone:
		if h.Data != nil {
			h.Data(seq.Rune)
		}
		return true
	case KindCSI:
		fn = h.CSI
	case KindOSC:
		fn = h.OSC
	case KindDCS:
		fn = h.DCS
	case KindPM:
		fn = h.PM
	case KindSOS:
		fn = h.SOS
	case KindAPC:
		fn = h.APC
	}
	if fn == nil {
		return true
	}
	return fn(seq.Body)
}

// Feed advances the machine by one byte, returning at most one item
func (p *Parser) Feed(b byte) (Sequence, bool) {
	// A byte may need a second pass after recovery; never more than two
	for {
		switch p.state {
		case StateNormal:
			wasInitial := p.dec.Initial()
			cp, res := p.dec.Decode(b)
			switch res {
			case Incomplete:
				p.utf8 = append(p.utf8, b)
				return Sequence{}, false
			case Reject:
				if wasInitial {
					p.discard(DiscardInvalidUTF8, []byte{b})
					return Sequence{}, false
				}
				// Truncated prefix is lost; the byte gets a fresh decoder
				p.discard(DiscardInvalidUTF8, p.utf8)
				p.utf8 = p.utf8[:0]
				continue
			}
			p.utf8 = p.utf8[:0]
			switch cp {
			case 0x1b:
				p.state = StateEscape
			case 0x90:
				p.begin(KindDCS, StateString)
			case 0x9b:
				p.begin(KindCSI, StateCSI)
			case 0x9d:
				p.begin(KindOSC, StateStringOrBEL)
			case 0x98:
				p.begin(KindSOS, StateString)
			case 0x9e:
				p.begin(KindPM, StateString)
			case 0x9f:
				p.begin(KindAPC, StateString)
			default:
				return Sequence{Kind: KindNone, Rune: cp}, true
			}
			return Sequence{}, false

		case StateEscape:
			switch b {
			case 'P':
				p.begin(KindDCS, StateString)
			case '[':
				p.begin(KindCSI, StateCSI)
			case ']':
				p.begin(KindOSC, StateStringOrBEL)
			case '^':
				p.begin(KindPM, StateString)
			case '_':
				p.begin(KindAPC, StateString)
			default:
				// Stray ESC is dropped, byte is re-read from Normal
				p.discard(DiscardStrayEscape, []byte{0x1b})
				p.Reset()
				continue
			}
			return Sequence{}, false

		case StateCSI:
			if !p.push(b) {
				return Sequence{}, false
			}
			switch csiClass(b) {
			case csiParameter:
				if p.inter {
					p.fail(DiscardMalformedCSI)
				}
			case csiIntermediate:
				p.inter = true
			case csiFinal:
				return p.complete(), true
			default:
				p.fail(DiscardMalformedCSI)
			}
			return Sequence{}, false

		case StateString, StateStringOrBEL:
			switch {
			case b == 0x07 && p.state == StateStringOrBEL:
				return p.complete(), true
			case b == 0x1b:
				p.state = StateStringESC
			case b == 0xc2:
				p.state = StateStringC1
			default:
				p.push(b)
			}
			return Sequence{}, false

		case StateStringESC:
			if b == '\\' {
				return p.complete(), true
			}
			if !p.push(0x1b) {
				return Sequence{}, false
			}
			// A second ESC is dropped; only the first is kept in the body
			if b == 0x1b || p.push(b) {
				p.state = p.body
			}
			return Sequence{}, false

		case StateStringC1:
			if b == 0x9c {
				return p.complete(), true
			}
			if p.push(0xc2) && p.push(b) {
				p.state = p.body
			}
			return Sequence{}, false

		default:
			p.Reset()
			return Sequence{}, false
		}
	}
}

func (p *Parser) begin(k Kind, s State) {
	p.kind = k
	p.state = s
	p.inter = false
	if s != StateCSI {
		p.body = s
	}
	p.buf = p.buf[:0]
}

// push appends to the body, resetting on overflow
func (p *Parser) push(b byte) bool {
	limit := p.MaxBody
	if limit <= 0 {
		limit = DefaultMaxBody
	}
	if len(p.buf) >= limit {
		p.fail(DiscardOverflow)
		return false
	}
	p.buf = append(p.buf, b)
	return true
}

// complete builds the dispatched item and returns to Normal
func (p *Parser) complete() Sequence {
	seq := Sequence{Kind: p.kind, Body: string(p.buf)}
	p.Reset()
	return seq
}

func (p *Parser) fail(reason Reason) {
	p.discard(reason, p.buf)
	p.Reset()
}

func (p *Parser) discard(reason Reason, data []byte) {
	if p.OnDiscard == nil {
		return
	}
	p.OnDiscard(Discard{Reason: reason, Kind: p.kind, Data: string(data)})
}
