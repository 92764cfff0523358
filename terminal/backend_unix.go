//go:build unix

package terminal

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Defaults for the read cycle
const (
	DefaultPollTimeout = 20 * time.Millisecond
	DefaultReadBuffer  = 4096
)

type unixBackend struct {
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State

	pollMs int
	buf    []byte

	resizeStopCh chan struct{}
	resizeDoneCh chan struct{}
}

func newBackend(in, out *os.File, pollTimeout time.Duration, readBuffer int) Backend {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	if readBuffer <= 0 {
		readBuffer = DefaultReadBuffer
	}
	return &unixBackend{
		in:     in,
		out:    out,
		inFd:   int(in.Fd()),
		outFd:  int(out.Fd()),
		pollMs: int(pollTimeout / time.Millisecond),
		buf:    make([]byte, readBuffer),
	}
}

func (b *unixBackend) Init() error {
	if !term.IsTerminal(b.inFd) {
		return ErrNotTerminal
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return err
	}
	b.oldTerm = old
	return nil
}

func (b *unixBackend) Fini() {
	if b.resizeStopCh != nil {
		close(b.resizeStopCh)
		<-b.resizeDoneCh
		b.resizeStopCh = nil
	}
	if b.oldTerm != nil {
		term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
}

func (b *unixBackend) Size() Size {
	return getTerminalSize(b.outFd)
}

func (b *unixBackend) Write(p []byte) (int, error) {
	return b.out.Write(p)
}

// Read waits up to the poll timeout for input, then reads one available chunk
func (b *unixBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	for {
		select {
		case <-stopCh:
			return nil, nil
		default:
		}

		fds := []unix.PollFd{
			{Fd: int32(b.inFd), Events: unix.POLLIN},
		}

		n, err := unix.Poll(fds, b.pollMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, err
		}

		if n == 0 {
			return nil, nil // Timeout, caller checks cancellation
		}
		if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 && fds[0].Revents&unix.POLLIN == 0 {
			return nil, io.EOF
		}

		rn, err := unix.Read(b.inFd, b.buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return nil, err
		}

		if rn == 0 {
			return nil, io.EOF
		}

		// Return copy of data
		ret := make([]byte, rn)
		copy(ret, b.buf[:rn])
		return ret, nil
	}
}

func (b *unixBackend) SetResizeHandler(handler func(Size)) {
	b.resizeStopCh = make(chan struct{})
	b.resizeDoneCh = make(chan struct{})

	go func() {
		defer close(b.resizeDoneCh)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-b.resizeStopCh:
				return
			case <-sigCh:
				handler(b.Size())
			}
		}
	}()
}

// getTerminalSize returns the terminal size for a given fd, pixels included when known
func getTerminalSize(fd int) Size {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return Size{Cols: 80, Rows: 24} // Fallback
	}
	return Size{
		Cols:   int(ws.Col),
		Rows:   int(ws.Row),
		XPixel: int(ws.Xpixel),
		YPixel: int(ws.Ypixel),
	}
}
