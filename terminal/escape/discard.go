package escape

// Reason classifies input dropped by the parser
type Reason uint8

const (
	DiscardInvalidUTF8  Reason = iota + 1 // Byte rejected by the UTF-8 decoder
	DiscardStrayEscape                    // ESC not followed by a known introducer
	DiscardMalformedCSI                   // Illegal CSI byte-class progression
	DiscardOverflow                       // Body exceeded MaxBody
)

func (r Reason) String() string {
	switch r {
	case DiscardInvalidUTF8:
		return "invalid utf-8"
	case DiscardStrayEscape:
		return "stray escape"
	case DiscardMalformedCSI:
		return "malformed csi"
	case DiscardOverflow:
		return "body overflow"
	default:
		return "unknown"
	}
}

// Discard describes dropped input; it never changes what the parser emits
type Discard struct {
	Reason Reason
	Kind   Kind   // Sequence in progress, KindNone outside a sequence
	Data   string // Dropped bytes, body so far for sequence failures
}
