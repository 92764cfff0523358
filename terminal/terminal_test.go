package terminal

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/termwire/terminal/keys"
	"github.com/lixenwraith/termwire/terminal/mouse"
	"github.com/lixenwraith/termwire/terminal/shm"
)

// fakeBackend is an in-memory terminal: input chunks arrive on in, output is recorded
type fakeBackend struct {
	mu      sync.Mutex
	out     bytes.Buffer
	in      chan []byte
	size    Size
	initErr error
	inits   int
	finis   int
	resize  func(Size)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		in:   make(chan []byte, 16),
		size: Size{Cols: 80, Rows: 24, XPixel: 800, YPixel: 480},
	}
}

func (b *fakeBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inits++
	return b.initErr
}

func (b *fakeBackend) Fini() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finis++
}

func (b *fakeBackend) Size() Size { return b.size }

func (b *fakeBackend) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out.Write(p)
}

func (b *fakeBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case data, ok := <-b.in:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	case <-stopCh:
		return nil, nil
	case <-time.After(5 * time.Millisecond):
		return nil, nil
	}
}

func (b *fakeBackend) SetResizeHandler(h func(Size)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resize = h
}

// take returns and clears recorded output
func (b *fakeBackend) take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.out.String()
	b.out.Reset()
	return s
}

func pollWithin(t *testing.T, s *Session, d time.Duration) Event {
	t.Helper()
	ch := make(chan Event, 1)
	go func() { ch <- s.PollEvent() }()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(d):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestSession_InitClose(t *testing.T) {
	b := newFakeBackend()
	s := NewSession(b, Options{
		Keyboard: keys.FlagsAll,
		Mouse:    true,
		Title:    "demo",
		Store:    &fakeStore{medium: shm.SharedMemory},
	})

	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	want := wantSetup + "\x1b[>31u" + "\x1b[?1016h\x1b[?1003h" + "\x1b]2;demo\x07"
	if got := b.take(); got != want {
		t.Errorf("Init wrote %q, want %q", got, want)
	}

	// Second Init is a no-op
	if err := s.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if got := b.take(); got != "" {
		t.Errorf("second Init wrote %q", got)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want = "\x1b_Ga=d\x1b\\" + "\x1b[?1016l\x1b[?1003l" + "\x1b[<u" + wantCleanup
	if got := b.take(); got != want {
		t.Errorf("Close wrote %q, want %q", got, want)
	}
	if b.finis != 1 {
		t.Errorf("Fini called %d times", b.finis)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if got := b.take(); got != "" {
		t.Errorf("second Close wrote %q", got)
	}
	if !errors.Is(s.Init(), ErrClosed) {
		t.Error("Init after Close should fail")
	}
}

func TestSession_MinimalOptions(t *testing.T) {
	b := newFakeBackend()
	s := NewSession(b, Options{})
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := b.take(); got != wantSetup {
		t.Errorf("Init wrote %q", got)
	}
	s.Close()
	if got := b.take(); got != "\x1b_Ga=d\x1b\\"+wantCleanup {
		t.Errorf("Close wrote %q", got)
	}
}

func TestSession_InitFailure(t *testing.T) {
	b := newFakeBackend()
	b.initErr = ErrNotTerminal
	s := NewSession(b, Options{})

	if err := s.Init(); !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("got %v, want ErrNotTerminal", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close after failed Init: %v", err)
	}
	if got := b.take(); got != "" {
		t.Errorf("failed session wrote %q", got)
	}
}

func TestSession_OutputAfterClose(t *testing.T) {
	b := newFakeBackend()
	s := NewSession(b, Options{Store: &fakeStore{medium: shm.SharedMemory}})

	if err := s.PlaceCursor(Point{}); !errors.Is(err, ErrClosed) {
		t.Errorf("PlaceCursor before Init: %v", err)
	}
	s.Init()
	s.Close()
	b.take()

	if err := s.Paint(make([]byte, 4), 1, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Paint after Close: %v", err)
	}
	if err := s.SetTitle("x"); !errors.Is(err, ErrClosed) {
		t.Errorf("SetTitle after Close: %v", err)
	}
	if err := s.SetMouse(true); !errors.Is(err, ErrClosed) {
		t.Errorf("SetMouse after Close: %v", err)
	}
	if got := b.take(); got != "" {
		t.Errorf("closed session wrote %q", got)
	}
}

func TestSession_Output(t *testing.T) {
	b := newFakeBackend()
	store := &fakeStore{medium: shm.SharedMemory, names: []string{"/f"}}
	s := NewSession(b, Options{Store: store, SyncPaint: true})
	s.Init()
	defer s.Close()
	b.take()

	if err := s.PlaceCursor(Point{X: 2, Y: 3}); err != nil {
		t.Fatal(err)
	}
	if got := b.take(); got != "\x1b[4;3H" {
		t.Errorf("PlaceCursor wrote %q", got)
	}

	if err := s.Paint(make([]byte, 4), 1, 1); err != nil {
		t.Fatal(err)
	}
	got := b.take()
	if !strings.HasPrefix(got, "\x1b[?2026h\x1b[1;1H\x1b_G") || !strings.HasSuffix(got, "\x1b\\\x1b[?2026l") {
		t.Errorf("Paint wrote %q", got)
	}

	if err := s.SetMouse(true); err != nil {
		t.Fatal(err)
	}
	if err := s.SetMouse(true); err != nil {
		t.Fatal(err)
	}
	if got := b.take(); got != "\x1b[?1016h\x1b[?1003h" {
		t.Errorf("SetMouse wrote %q", got)
	}
}

func TestSession_SyncPaintFailure(t *testing.T) {
	b := newFakeBackend()
	store := &fakeStore{medium: shm.SharedMemory, err: shm.ErrSizeMismatch}
	s := NewSession(b, Options{Store: store, SyncPaint: true})
	s.Init()
	defer s.Close()
	b.take()

	if err := s.Paint(make([]byte, 3), 1, 1); !errors.Is(err, shm.ErrSizeMismatch) {
		t.Fatalf("got %v, want ErrSizeMismatch", err)
	}
	if got := b.take(); got != "" {
		t.Errorf("dropped frame wrote %q", got)
	}
}

func TestSession_Events(t *testing.T) {
	b := newFakeBackend()
	s := NewSession(b, Options{})
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	b.in <- []byte("\x1b[")
	b.in <- []byte("D")
	ev := pollWithin(t, s, time.Second)
	if ev.Type != EventKey || ev.Key.Key != keys.KeyLeft {
		t.Errorf("got %v", ev)
	}

	b.in <- []byte("\x1b[<35;474;141M")
	ev = pollWithin(t, s, time.Second)
	if ev.Type != EventMouse || ev.Mouse.X != 474 || ev.Mouse.Y != 141 {
		t.Errorf("got %v", ev)
	}

	b.mu.Lock()
	resize := b.resize
	b.mu.Unlock()
	resize(Size{Cols: 100, Rows: 30})
	ev = pollWithin(t, s, time.Second)
	if ev.Type != EventResize || ev.Size.Cols != 100 {
		t.Errorf("got %v", ev)
	}

	s.PostEvent(Event{Type: EventText, Rune: 'z'})
	ev = pollWithin(t, s, time.Second)
	if ev.Type != EventText || ev.Rune != 'z' {
		t.Errorf("got %v", ev)
	}

	close(b.in)
	ev = pollWithin(t, s, time.Second)
	if ev.Type != EventClosed {
		t.Errorf("got %v, want closed", ev)
	}
}

func TestOpen_NotTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	s := Open(Options{In: r, Out: w})
	if err := s.Init(); !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("got %v, want ErrNotTerminal", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSize_CellSize(t *testing.T) {
	w, h := Size{Cols: 80, Rows: 24, XPixel: 800, YPixel: 480}.CellSize()
	if w != 10 || h != 20 {
		t.Errorf("got %dx%d", w, h)
	}
	if w, h := (Size{}).CellSize(); w != 0 || h != 0 {
		t.Errorf("zero size gave %dx%d", w, h)
	}
}

func TestSession_CellAt(t *testing.T) {
	s := NewSession(newFakeBackend(), Options{})
	col, row := s.CellAt(mouse.Event{X: 474, Y: 141})
	if col != 47 || row != 7 {
		t.Errorf("got %d,%d, want 47,7", col, row)
	}
}
