package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"
)

// TerminalService manages session lifecycle, input polling and signal-driven cleanup
type TerminalService struct {
	session *Session
	opts    Options
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	sigCh   chan os.Signal
	mu      sync.Mutex
	running bool

	// OnSignal runs after the terminal is restored for SIGINT, SIGTERM or SIGHUP
	OnSignal func(os.Signal)
}

// NewService creates a new terminal service
func NewService() *TerminalService {
	return &TerminalService{
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		sigCh:   make(chan os.Signal, 1),
	}
}

// Name implements Service
func (s *TerminalService) Name() string {
	return "terminal"
}

// Dependencies implements Service
func (s *TerminalService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: Options (optional); args[1]: Backend (optional, defaults to the process terminal)
func (s *TerminalService) Init(args ...any) error {
	if len(args) > 0 {
		if o, ok := args[0].(Options); ok {
			s.opts = o
		}
	}
	if len(args) > 1 {
		if b, ok := args[1].(Backend); ok {
			s.session = NewSession(b, s.opts)
		}
	}
	if s.session == nil {
		s.session = Open(s.opts)
	}

	if err := s.session.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	return nil
}

// Start implements Service - launches input polling and signal watching
func (s *TerminalService) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	signal.Notify(s.sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go s.signalLoop()
	go s.pollLoop()
	return nil
}

// signalLoop restores the terminal on termination signals
func (s *TerminalService) signalLoop() {
	select {
	case <-s.stopCh:
		return
	case sig := <-s.sigCh:
		s.Stop()
		if s.OnSignal != nil {
			s.OnSignal(sig)
		}
	}
}

// pollLoop reads input events until stop signal; closes the event channel on exit
func (s *TerminalService) pollLoop() {
	defer close(s.doneCh)
	defer close(s.eventCh)

	defer func() {
		if r := recover(); r != nil {
			EmergencyReset(os.Stdout)
			os.Stdout.Sync()
			os.Stderr.Sync()
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mTERMINAL POLL CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Stderr.Sync()
			os.Exit(1)
		}
	}()

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		ev := s.session.PollEvent()
		if ev.Type == EventClosed {
			return
		}

		select {
		case s.eventCh <- ev:
		case <-s.stopCh:
			return
		}

		if ev.Type == EventError {
			return
		}
	}
}

// Stop implements Service - signals stop and restores terminal
func (s *TerminalService) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		// Init without Start still owns a session
		if s.session != nil {
			return s.session.Close()
		}
		return nil
	}
	s.running = false
	s.mu.Unlock()

	signal.Stop(s.sigCh)
	close(s.stopCh)

	// Post synthetic close event to unblock PollEvent
	s.session.PostEvent(Event{Type: EventClosed})

	<-s.doneCh

	return s.session.Close()
}

// Session returns the wrapped session
func (s *TerminalService) Session() *Session {
	return s.session
}

// Events returns the input event channel; closed when polling ends
func (s *TerminalService) Events() <-chan Event {
	return s.eventCh
}
