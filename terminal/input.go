package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/lixenwraith/termwire/terminal/escape"
	"github.com/lixenwraith/termwire/terminal/keys"
	"github.com/lixenwraith/termwire/terminal/mouse"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey    EventType = iota
	EventMouse            // SGR mouse report
	EventText             // Plain codepoint outside any sequence
	EventResize           // Window size change
	EventError            // Read error or reader crash
	EventClosed           // Input closed
)

func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventMouse:
		return "mouse"
	case EventText:
		return "text"
	case EventResize:
		return "resize"
	case EventError:
		return "error"
	case EventClosed:
		return "closed"
	}
	return "unknown"
}

// Event represents a terminal input event
type Event struct {
	Type  EventType
	Key   keys.Event  // EventKey
	Mouse mouse.Event // EventMouse
	Rune  rune        // EventText
	Size  Size        // EventResize
	Err   error       // EventError
}

func (e Event) String() string {
	switch e.Type {
	case EventKey:
		return "key " + e.Key.String()
	case EventMouse:
		m := e.Mouse
		return fmt.Sprintf("mouse %v %v mods=%v at %d,%d", m.Type, m.Buttons, m.Modifiers, m.X, m.Y)
	case EventText:
		return fmt.Sprintf("text %q", e.Rune)
	case EventResize:
		return fmt.Sprintf("resize %dx%d (%dx%d px)", e.Size.Cols, e.Size.Rows, e.Size.XPixel, e.Size.YPixel)
	case EventError:
		return fmt.Sprintf("error %v", e.Err)
	}
	return e.Type.String()
}

// Diagnostic reports input that produced no event; it never alters event output
type Diagnostic struct {
	Source string // "parser", "unclaimed", "malformed", "graphics"
	Kind   escape.Kind
	Detail string
	Data   string
}

func (d Diagnostic) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s %v %q", d.Source, d.Kind, d.Data)
	}
	return fmt.Sprintf("%s %v %s %q", d.Source, d.Kind, d.Detail, d.Data)
}

// InputDecoder turns raw terminal bytes into events
// It is an io.Writer; chunk boundaries do not affect the events produced
// Not safe for concurrent use
type InputDecoder struct {
	parser *escape.Parser
	emit   func(Event)
	diag   func(Diagnostic)
}

// NewInputDecoder creates a decoder calling emit for each event in input order
// diag may be nil; maxBody <= 0 selects the parser default
func NewInputDecoder(emit func(Event), diag func(Diagnostic), maxBody int) *InputDecoder {
	d := &InputDecoder{emit: emit, diag: diag}
	d.parser = escape.NewParser(escape.Handlers{
		Data: d.handleData,
		CSI:  d.handleCSI,
		APC:  d.handleAPC,
	})
	d.parser.MaxBody = maxBody
	if diag != nil {
		d.parser.OnDiscard = func(x escape.Discard) {
			diag(Diagnostic{Source: "parser", Kind: x.Kind, Detail: x.Reason.String(), Data: x.Data})
		}
	}
	return d
}

// Write feeds p to the parser; it never fails
func (d *InputDecoder) Write(p []byte) (int, error) {
	d.parser.Parse(p)
	return len(p), nil
}

// Reset drops any partially received sequence
func (d *InputDecoder) Reset() {
	d.parser.Reset()
}

// Pending reports whether a partial sequence or codepoint is buffered
func (d *InputDecoder) Pending() bool {
	return d.parser.Pending()
}

func (d *InputDecoder) handleData(r rune) {
	d.emit(Event{Type: EventText, Rune: r})
}

// handleCSI offers the body to the key decoder, then the mouse decoder
// Always succeeds: unclaimed sequences are ignored
func (d *InputDecoder) handleCSI(body string) bool {
	if ev, ok := keys.FromCSI(body); ok {
		d.emit(Event{Type: EventKey, Key: ev})
		return true
	}
	if ev, ok := mouse.FromCSI(body); ok {
		d.emit(Event{Type: EventMouse, Mouse: ev})
		return true
	}
	if d.diag != nil {
		source := "unclaimed"
		if looksLikeKey(body) || looksLikeMouse(body) {
			source = "malformed"
		}
		d.diag(Diagnostic{Source: source, Kind: escape.KindCSI, Data: body})
	}
	return true
}

// handleAPC surfaces graphics protocol replies, e.g. "Gi=1;ENOENT:..."
func (d *InputDecoder) handleAPC(body string) bool {
	if d.diag != nil && strings.HasPrefix(body, "G") {
		d.diag(Diagnostic{Source: "graphics", Kind: escape.KindAPC, Data: body})
	}
	return true
}

// looksLikeKey reports a body framed as a key report but rejected by the decoder
func looksLikeKey(body string) bool {
	if body == "" {
		return false
	}
	params := body[:len(body)-1]
	if body[len(body)-1] == '~' && (params == "200" || params == "201") {
		return false
	}
	return strings.IndexByte(keys.Trailers, body[len(body)-1]) >= 0
}

func looksLikeMouse(body string) bool {
	if len(body) < 2 || body[0] != '<' {
		return false
	}
	final := body[len(body)-1]
	return final == 'M' || final == 'm'
}

// inputReader pumps backend reads into an InputDecoder
type inputReader struct {
	backend Backend
	decoder *InputDecoder
	errOut  io.Writer
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

// newInputReader creates a new input reader
func newInputReader(backend Backend, diag func(Diagnostic), maxBody int) *inputReader {
	r := &inputReader{
		backend: backend,
		errOut:  os.Stderr,
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	r.decoder = NewInputDecoder(r.sendEvent, diag, maxBody)
	return r
}

// start begins reading input in a goroutine
func (r *inputReader) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.readLoop()
}

// stop signals the reader to stop
func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	// Wait with timeout - don't block forever if read is stuck
	select {
	case <-r.doneCh:
	case <-time.After(250 * time.Millisecond):
	}
}

// events returns the event channel
func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

// readLoop is the main input reading goroutine
// Cancellation is checked once per read cycle; decoding a chunk always runs to completion
func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	defer func() {
		if p := recover(); p != nil {
			EmergencyReset(r.backend)
			fmt.Fprintf(r.errOut, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", p)
			fmt.Fprintf(r.errOut, "Stack Trace:\r\n%s\r\n", debug.Stack())
			r.sendEvent(Event{Type: EventError, Err: fmt.Errorf("input reader panic: %v", p)})
		}
	}()

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.sendEvent(Event{Type: EventClosed})
			} else {
				r.sendEvent(Event{Type: EventError, Err: err})
			}
			return
		}

		if len(data) == 0 {
			select {
			case <-r.stopCh:
				r.sendEvent(Event{Type: EventClosed})
				return
			default:
				continue
			}
		}

		r.decoder.Write(data)
	}
}

// sendEvent delivers in order; blocks until consumed or stopped
func (r *inputReader) sendEvent(ev Event) {
	select {
	case r.eventCh <- ev:
	case <-r.stopCh:
		// Best effort after stop, never block shutdown
		select {
		case r.eventCh <- ev:
		default:
		}
	}
}
