// @focus: #terminal { ansi }
package terminal

import (
	"bufio"
)

// Pre-allocated ANSI sequence fragments
var (
	csiPrivate   = []byte("\x1b[?") // followed by N h|l
	csiClear     = []byte("\x1b[H\x1b[2J")
	csiEraseLine = []byte("\x1b[K")
	csiRIS       = []byte("\x1bc") // Reset to Initial State (emergency)
	csiSGR0      = []byte("\x1b[0m")

	// State save/restore
	escS7C1T         = []byte("\x1b F") // 7-bit controls in replies
	escSaveCursor    = []byte("\x1b7")
	escRestoreCursor = []byte("\x1b8")
	csiSaveModes     = []byte("\x1b[?s")
	csiRestoreModes  = []byte("\x1b[?r")
	csiSaveColors    = []byte("\x1b[#P")
	csiRestoreColors = []byte("\x1b[#Q")
	csiDefaultRegion = []byte("\x1b[*x") // DECSACE default region select
	csiResetIRM      = []byte("\x1b[4l")

	// Cursor control
	csiCursorShow = []byte("\x1b[?25h")
	csiCursorPos  = []byte("\x1b[") // followed by row;colH

	// Screen modes
	csiAltScreenExit = []byte("\x1b[?1049l")
	csiAutoWrapOn    = []byte("\x1b[?7h")

	// Mouse tracking off, used in emergency paths
	csiMouseOff = []byte("\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l\x1b[?1016l")

	// Keyboard protocol
	csiKeyboardPush = []byte("\x1b[>") // followed by flags u
	csiKeyboardPop  = []byte("\x1b[<u")

	// OSC / APC framing
	oscTitle    = []byte("\x1b]2;")
	apcGraphics = []byte("\x1b_G")
	escST       = []byte("\x1b\\")
)

// writeInt writes an integer without allocation
// Optimized for terminal values (0-255 common, 0-9999 typical max)
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		w.WriteByte('-')
		n = -n
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	if n < 1000 {
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	// Fallback for >999
	var buf [20]byte
	i := len(buf) - 1
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		n /= 10
		i--
	}
	w.Write(buf[i+1:])
}

// writeCursorPos writes cursor positioning sequence (0-indexed input)
func writeCursorPos(w *bufio.Writer, x, y int) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	w.Write(csiCursorPos)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// writeMode writes a DEC private mode set or reset
func writeMode(w *bufio.Writer, m Mode, on bool) {
	w.Write(csiPrivate)
	writeInt(w, int(m))
	if on {
		w.WriteByte('h')
	} else {
		w.WriteByte('l')
	}
}
