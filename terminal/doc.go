// @focus: #sys { term }
// Package terminal drives an xterm-compatible terminal over raw escape sequences.
//
// Features:
//   - Raw stdin decoding: UTF-8, CSI/OSC/DCS/PM/SOS/APC framing (package escape)
//   - Progressive keyboard enhancement reports (package keys)
//   - SGR-pixel mouse reports (package mouse)
//   - Mode save/restore around an alternate-screen session
//   - Cursor, title and graphics output with frames passed through shared memory or temp files (package shm)
//   - SIGWINCH resize detection and clean restoration on exit, signal or panic
//
// This package bypasses terminfo/termcap entirely.
// Target environments: Linux, macOS, BSDs.
package terminal
