//go:build unix

package terminal

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// Capabilities is a best guess at what the attached terminal understands
type Capabilities struct {
	Interactive      bool   // stdin and stdout are terminals
	Emulator         string // Detected emulator name, empty if unknown
	KeyboardProtocol bool   // Progressive keyboard enhancement
	Graphics         bool   // Graphics transfer escapes
	SharedMemory     bool   // Graphics may use POSIX shared memory
}

// DetectCapabilities inspects the environment; the protocols degrade silently when absent
func DetectCapabilities() Capabilities {
	c := Capabilities{
		Interactive: isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd()),
	}

	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "":
		c.Emulator = "kitty"
		c.KeyboardProtocol, c.Graphics = true, true
	case os.Getenv("WEZTERM_PANE") != "":
		c.Emulator = "wezterm"
		c.KeyboardProtocol, c.Graphics = true, true
	case os.Getenv("GHOSTTY_RESOURCES_DIR") != "":
		c.Emulator = "ghostty"
		c.KeyboardProtocol, c.Graphics = true, true
	case os.Getenv("ALACRITTY_WINDOW_ID") != "" || os.Getenv("ALACRITTY_LOG") != "":
		c.Emulator = "alacritty"
		c.KeyboardProtocol = true
	case os.Getenv("KONSOLE_VERSION") != "":
		c.Emulator = "konsole"
		c.Graphics = true
	case os.Getenv("ITERM_SESSION_ID") != "":
		c.Emulator = "iterm2"
	}

	if c.Emulator == "" {
		term := os.Getenv("TERM")
		switch {
		case strings.Contains(term, "kitty"):
			c.Emulator = "kitty"
			c.KeyboardProtocol, c.Graphics = true, true
		case strings.Contains(term, "ghostty"):
			c.Emulator = "ghostty"
			c.KeyboardProtocol, c.Graphics = true, true
		case strings.Contains(term, "foot"):
			c.Emulator = "foot"
			c.KeyboardProtocol = true
		}
	}

	// Remote sessions cannot see local shared memory
	if os.Getenv("SSH_TTY") == "" && os.Getenv("SSH_CONNECTION") == "" {
		if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
			c.SharedMemory = true
		}
	}
	return c
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// resetTerminalMode attempts to restore terminal to cooked mode
// Best-effort for crash recovery; errors ignored
func resetTerminalMode() {
	// Try to restore via /dev/tty (works even if stdin redirected)
	if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		defer tty.Close()
		fd := int(tty.Fd())
		// Get current termios, enable ECHO and ICANON
		if termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios); err == nil {
			termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
			termios.Iflag |= unix.ICRNL
			unix.IoctlSetTermios(fd, ioctlSetTermios, termios)
		}
	}
}
