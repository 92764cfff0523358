package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/termwire/terminal/keys"
	"github.com/lixenwraith/termwire/terminal/mouse"
	"github.com/lixenwraith/termwire/terminal/shm"
)

var (
	ErrNotTerminal = errors.New("terminal: input is not a terminal")
	ErrClosed      = errors.New("terminal: session closed")
)

// Options configure a Session; the zero value is usable
type Options struct {
	In  *os.File // Defaults to os.Stdin
	Out *os.File // Defaults to os.Stdout

	PollTimeout time.Duration // Input wait per cycle, default 20ms
	ReadBuffer  int           // Bytes per read, default 4096
	MaxBody     int           // Sequence body limit, default 64KiB

	Keyboard keys.Flags // Keyboard protocol flags pushed at Init; zero leaves the protocol off
	Mouse    bool       // Enable SGR-pixel mouse reporting at Init
	Title    string     // Window title set at Init, if non-empty

	Medium    shm.Medium // Frame transfer medium, default shared memory
	ShmPrefix string     // Resource name prefix
	Store     shm.Store  // Overrides Medium/ShmPrefix when set

	SyncPaint bool // Wrap each paint in a synchronized update

	Diagnostic func(Diagnostic) // Optional; called from the input goroutine
}

// Session is one terminal session: raw mode, saved modes, input loop and encoder
// It is the explicit handle passed to whatever paints or consumes events
type Session struct {
	opts    Options
	backend Backend

	encoder     *Encoder
	input       *inputReader
	resizeCh    chan Size
	syntheticCh chan Event

	mu          sync.Mutex
	initialized bool
	finalized   bool
	mouseOn     bool
	keyboardOn  bool
}

// Open creates a session on the process terminal
func Open(opts Options) *Session {
	return NewSession(newBackend(opts.In, opts.Out, opts.PollTimeout, opts.ReadBuffer), opts)
}

// NewSession creates a session on an arbitrary backend
func NewSession(b Backend, opts Options) *Session {
	store := opts.Store
	if store == nil {
		medium := opts.Medium
		if medium == 0 {
			medium = shm.SharedMemory
		}
		store = shm.New(medium, opts.ShmPrefix)
	}

	encoder := NewEncoder(b, store)
	encoder.SyncPaint = opts.SyncPaint

	return &Session{
		opts:        opts,
		backend:     b,
		encoder:     encoder,
		syntheticCh: make(chan Event, 16),
		resizeCh:    make(chan Size, 1),
	}
}

// Init enters raw mode, saves terminal state and starts the input loop
func (s *Session) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrClosed
	}
	if s.initialized {
		return nil
	}

	if err := s.backend.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}

	if err := Setup(s.backend); err != nil {
		s.backend.Fini()
		return fmt.Errorf("terminal setup: %w", err)
	}
	// From here on Close must run Cleanup
	s.initialized = true

	if s.opts.Keyboard != 0 {
		if err := EnableKeyboard(s.backend, s.opts.Keyboard); err != nil {
			return fmt.Errorf("keyboard protocol: %w", err)
		}
		s.keyboardOn = true
	}
	if s.opts.Mouse {
		if err := EnableMouse(s.backend); err != nil {
			return fmt.Errorf("mouse reporting: %w", err)
		}
		s.mouseOn = true
	}
	if s.opts.Title != "" {
		if err := s.encoder.SetTitle(s.opts.Title); err != nil {
			return fmt.Errorf("title: %w", err)
		}
	}

	s.backend.SetResizeHandler(func(sz Size) {
		// Keep only the latest size pending
		select {
		case s.resizeCh <- sz:
		default:
			select {
			case <-s.resizeCh:
			default:
			}
			select {
			case s.resizeCh <- sz:
			default:
			}
		}
	})

	s.input = newInputReader(s.backend, s.opts.Diagnostic, s.opts.MaxBody)
	s.input.start()
	return nil
}

// Close restores the terminal; safe to call more than once and from any goroutine
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.finalized {
		return nil
	}
	s.finalized = true

	if s.input != nil {
		s.input.stop()
	}

	var errs []error
	errs = append(errs, s.encoder.DeleteImages())
	if s.mouseOn {
		errs = append(errs, DisableMouse(s.backend))
		s.mouseOn = false
	}
	if s.keyboardOn {
		errs = append(errs, DisableKeyboard(s.backend))
		s.keyboardOn = false
	}
	errs = append(errs, Cleanup(s.backend))

	s.backend.Fini()
	return errors.Join(errs...)
}

// Size returns current window dimensions
func (s *Session) Size() Size {
	return s.backend.Size()
}

// CellAt maps a pixel mouse position to a 0-indexed cell using the current window size
func (s *Session) CellAt(ev mouse.Event) (col, row int) {
	w, h := s.Size().CellSize()
	return ev.Cell(w, h)
}

// ResizeChan returns the resize event channel
func (s *Session) ResizeChan() <-chan Size {
	return s.resizeCh
}

// PollEvent blocks until next input event
func (s *Session) PollEvent() Event {
	select {
	case ev := <-s.syntheticCh:
		return ev
	default:
	}

	var inputCh <-chan Event
	if s.input != nil {
		inputCh = s.input.events()
	}

	select {
	case ev := <-s.syntheticCh:
		return ev
	case ev := <-inputCh:
		return ev
	case sz := <-s.resizeCh:
		return Event{Type: EventResize, Size: sz}
	}
}

// PostEvent injects a synthetic event
func (s *Session) PostEvent(ev Event) {
	select {
	case s.syntheticCh <- ev:
	default:
		// Channel full, drop
	}
}

// live reports whether output is allowed; caller holds mu
func (s *Session) live() error {
	if !s.initialized || s.finalized {
		return ErrClosed
	}
	return nil
}

// Paint publishes an RGBA frame and displays it at the origin
// A frame that cannot be published is skipped: nothing is written and the error is returned
func (s *Session) Paint(pixels []byte, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.live(); err != nil {
		return err
	}
	return s.encoder.PaintImage(pixels, width, height)
}

// PlaceCursor moves the cursor (0-indexed)
func (s *Session) PlaceCursor(p Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.live(); err != nil {
		return err
	}
	return s.encoder.PlaceCursor(p)
}

// PutText writes a line of text at p (0-indexed)
func (s *Session) PutText(p Point, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.live(); err != nil {
		return err
	}
	return s.encoder.PutText(p, text)
}

// SetTitle sets the window title
func (s *Session) SetTitle(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.live(); err != nil {
		return err
	}
	return s.encoder.SetTitle(title)
}

// SetMouse enables or disables mouse reporting
func (s *Session) SetMouse(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.live(); err != nil {
		return err
	}
	if on == s.mouseOn {
		return nil
	}
	var err error
	if on {
		err = EnableMouse(s.backend)
	} else {
		err = DisableMouse(s.backend)
	}
	if err == nil {
		s.mouseOn = on
	}
	return err
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Close cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiMouseOff)
	w.Write(csiKeyboardPop)
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
