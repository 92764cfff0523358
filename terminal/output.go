// @lixen: #focus{sys[term,io,output]}
// @lixen: #interact{trigger[output,ansi]}
package terminal

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/lixenwraith/termwire/terminal/shm"
)

// Point is a 0-indexed cell position
type Point struct {
	X, Y int
}

// Encoder emits cursor, title and image escapes to a terminal
// Each call flushes, so output order matches call order
type Encoder struct {
	writer *bufio.Writer
	store  shm.Store

	// SyncPaint wraps each painted frame in a synchronized update
	SyncPaint bool
}

// NewEncoder creates an encoder writing to w; store may be nil if images are never painted
func NewEncoder(w io.Writer, store shm.Store) *Encoder {
	return &Encoder{
		writer: bufio.NewWriterSize(w, 4096),
		store:  store,
	}
}

// PlaceCursor moves the cursor; the escape carries 1-based row;col
func (e *Encoder) PlaceCursor(p Point) error {
	writeCursorPos(e.writer, p.X, p.Y)
	return e.writer.Flush()
}

// PutText writes text at p and erases the rest of the line
// Control characters are dropped; the caller fits text to the window
func (e *Encoder) PutText(p Point, text string) error {
	writeCursorPos(e.writer, p.X, p.Y)
	e.writer.WriteString(stripControls(text))
	e.writer.Write(csiEraseLine)
	return e.writer.Flush()
}

// SetTitle sets the window title with an OSC 2 sequence terminated by BEL
// Control characters are dropped so the title cannot end the sequence early
func (e *Encoder) SetTitle(title string) error {
	e.writer.Write(oscTitle)
	e.writer.WriteString(stripControls(title))
	e.writer.WriteByte(0x07)
	return e.writer.Flush()
}

func stripControls(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return -1
		}
		return r
	}, s)
}

// PaintImage publishes an RGBA frame and places it at the origin
// If the frame cannot be published nothing is written and the error is returned;
// the next call is unaffected
func (e *Encoder) PaintImage(pixels []byte, width, height int) error {
	if e.store == nil {
		return fmt.Errorf("paint: no frame store configured")
	}
	name, err := e.store.Publish(pixels, width, height)
	if err != nil {
		return fmt.Errorf("paint: %w", err)
	}

	w := e.writer
	if e.SyncPaint {
		writeMode(w, ModePendingUpdate, true)
	}
	writeCursorPos(w, 0, 0)
	writeGraphics(w, name, width, height, e.store.Medium(), Point{})
	if e.SyncPaint {
		writeMode(w, ModePendingUpdate, false)
	}
	if err := w.Flush(); err != nil {
		// The terminal never saw the command, so it will not unlink the resource
		if r, ok := e.store.(interface{ Remove(string) error }); ok {
			r.Remove(name)
		}
		return err
	}
	return nil
}

// writeGraphics writes a transmit-and-display graphics command for a published frame
// Form: ESC _G f=32,a=T,s=W,v=H,t=M,x=X,y=Y,C=1;<base64 name> ESC \
func writeGraphics(w *bufio.Writer, name string, width, height int, medium shm.Medium, at Point) {
	w.Write(apcGraphics)
	w.WriteString("f=32,a=T,s=")
	writeInt(w, width)
	w.WriteString(",v=")
	writeInt(w, height)
	w.WriteString(",t=")
	w.WriteByte(byte(medium))
	w.WriteString(",x=")
	writeInt(w, at.X)
	w.WriteString(",y=")
	writeInt(w, at.Y)
	w.WriteString(",C=1;")
	w.WriteString(base64.StdEncoding.EncodeToString([]byte(name)))
	w.Write(escST)
}

// DeleteImages removes all images placed on the visible screen
func (e *Encoder) DeleteImages() error {
	e.writer.Write(apcGraphics)
	e.writer.WriteString("a=d")
	e.writer.Write(escST)
	return e.writer.Flush()
}
