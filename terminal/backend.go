package terminal

// Size is the window size in cells and, when the terminal reports it, pixels
type Size struct {
	Cols, Rows     int
	XPixel, YPixel int
}

// CellSize returns the pixel size of one cell, zero if unknown
func (s Size) CellSize() (w, h int) {
	if s.Cols <= 0 || s.Rows <= 0 {
		return 0, 0
	}
	return s.XPixel / s.Cols, s.YPixel / s.Rows
}

// Backend abstracts platform-specific terminal operations.
// The session owns one backend; tests substitute an in-memory one.
type Backend interface {
	// Lifecycle
	Init() error
	Fini()

	// Capabilities
	Size() Size

	// I/O
	// Write writes raw bytes to the terminal output.
	Write(p []byte) (int, error)

	// Read blocks until input is available, the stop channel is closed, or an error occurs.
	// A nil slice with nil error means the wait timed out or stop was requested.
	// End of input is reported as io.EOF.
	Read(stopCh <-chan struct{}) ([]byte, error)

	// Callbacks
	// SetResizeHandler registers a callback for terminal resize events.
	SetResizeHandler(handler func(Size))
}
