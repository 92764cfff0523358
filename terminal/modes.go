// @focus: #terminal { modes }
package terminal

import (
	"bufio"
	"io"
	"strconv"

	"github.com/lixenwraith/termwire/terminal/keys"
)

// Mode is a DEC private mode number
type Mode int

const (
	ModeCursorKeys     Mode = 1    // DECCKM application cursor keys
	ModeReverseVideo   Mode = 5    // DECSCNM
	ModeAutoWrap       Mode = 7    // DECAWM
	ModeAutoRepeat     Mode = 8    // DECARM
	ModeTextCursor     Mode = 25   // DECTCEM cursor visible
	ModeMouseButton    Mode = 1000 // Press/release tracking
	ModeMouseMotion    Mode = 1002 // Button-held motion tracking
	ModeMouseMove      Mode = 1003 // Any motion tracking
	ModeFocus          Mode = 1004 // Focus in/out reports
	ModeMouseUTF8      Mode = 1005
	ModeMouseSGR       Mode = 1006
	ModeMouseSGRPixel  Mode = 1016
	ModeAltScreen      Mode = 1049 // Alternate screen with cursor save
	ModeBracketedPaste Mode = 2004
	ModePendingUpdate  Mode = 2026 // Synchronized output
)

func (m Mode) String() string {
	switch m {
	case ModeCursorKeys:
		return "cursor_keys"
	case ModeReverseVideo:
		return "reverse_video"
	case ModeAutoWrap:
		return "auto_wrap"
	case ModeAutoRepeat:
		return "auto_repeat"
	case ModeTextCursor:
		return "text_cursor"
	case ModeMouseButton:
		return "mouse_button"
	case ModeMouseMotion:
		return "mouse_motion"
	case ModeMouseMove:
		return "mouse_move"
	case ModeFocus:
		return "focus"
	case ModeMouseUTF8:
		return "mouse_utf8"
	case ModeMouseSGR:
		return "mouse_sgr"
	case ModeMouseSGRPixel:
		return "mouse_sgr_pixel"
	case ModeAltScreen:
		return "alt_screen"
	case ModeBracketedPaste:
		return "bracketed_paste"
	case ModePendingUpdate:
		return "pending_update"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// Modes disabled by Setup, in emission order
var setupDisabled = []Mode{
	ModeTextCursor,
	ModeCursorKeys,
	ModeReverseVideo,
	ModeBracketedPaste,
	ModeFocus,
	ModeMouseButton,
	ModeMouseMotion,
	ModeMouseMove,
	ModeMouseUTF8,
	ModeMouseSGR,
}

// Modes enabled by Setup, in emission order
var setupEnabled = []Mode{
	ModeAutoRepeat,
	ModeAutoWrap,
	ModeAltScreen,
}

// Modes reset by Cleanup; mouse modes cover anything EnableMouse turned on
var cleanupDisabled = []Mode{
	ModeAltScreen,
	ModeMouseMove,
	ModeMouseSGRPixel,
}

// Modes set by Cleanup
var cleanupEnabled = []Mode{
	ModeTextCursor,
}

// mouseModes are the modes EnableMouse sets
var mouseModes = []Mode{ModeMouseSGRPixel, ModeMouseMove}

// modeWriter wraps w in a bufio.Writer unless it already is one
func modeWriter(w io.Writer) *bufio.Writer {
	if bw, ok := w.(*bufio.Writer); ok {
		return bw
	}
	return bufio.NewWriterSize(w, 256)
}

// AppendModes writes set or reset sequences for each mode without flushing
func AppendModes(w *bufio.Writer, on bool, modes ...Mode) {
	for _, m := range modes {
		writeMode(w, m, on)
	}
}

// SetModes writes set or reset sequences for each mode
func SetModes(w io.Writer, on bool, modes ...Mode) error {
	bw := modeWriter(w)
	AppendModes(bw, on, modes...)
	return bw.Flush()
}

// Setup saves terminal state and enters the session mode set
// Stateless: calling it twice emits the same bytes twice
func Setup(w io.Writer) error {
	bw := modeWriter(w)
	bw.Write(escS7C1T)
	bw.Write(escSaveCursor)
	bw.Write(csiSaveModes)
	bw.Write(csiSaveColors)
	bw.Write(csiDefaultRegion)
	bw.Write(csiResetIRM)
	AppendModes(bw, false, setupDisabled...)
	AppendModes(bw, true, setupEnabled...)
	bw.Write(csiClear)
	return bw.Flush()
}

// Cleanup mirrors Setup: leaves the alternate screen, stops mouse reports,
// shows the cursor and restores saved state
// Safe after a partial or missing Setup
func Cleanup(w io.Writer) error {
	bw := modeWriter(w)
	bw.Write(csiClear)
	AppendModes(bw, false, cleanupDisabled...)
	AppendModes(bw, true, cleanupEnabled...)
	bw.Write(csiRestoreModes)
	bw.Write(escRestoreCursor)
	bw.Write(csiRestoreColors)
	return bw.Flush()
}

// EnableKeyboard pushes the keyboard protocol with the requested reporting flags
func EnableKeyboard(w io.Writer, flags keys.Flags) error {
	bw := modeWriter(w)
	bw.Write(csiKeyboardPush)
	writeInt(bw, int(flags))
	bw.WriteByte('u')
	return bw.Flush()
}

// DisableKeyboard pops the keyboard protocol flags
func DisableKeyboard(w io.Writer) error {
	bw := modeWriter(w)
	bw.Write(csiKeyboardPop)
	return bw.Flush()
}

// EnableMouse turns on SGR-pixel any-motion reporting
func EnableMouse(w io.Writer) error {
	return SetModes(w, true, mouseModes...)
}

// DisableMouse turns off what EnableMouse turned on
func DisableMouse(w io.Writer) error {
	return SetModes(w, false, mouseModes...)
}

// SyncBegin starts a synchronized update; the terminal holds rendering until SyncEnd
func SyncBegin(w io.Writer) error {
	return SetModes(w, true, ModePendingUpdate)
}

// SyncEnd ends a synchronized update
func SyncEnd(w io.Writer) error {
	return SetModes(w, false, ModePendingUpdate)
}
