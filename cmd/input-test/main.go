package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/termwire/config"
	"github.com/lixenwraith/termwire/logging"
	"github.com/lixenwraith/termwire/terminal"
	"github.com/lixenwraith/termwire/terminal/keys"
	"github.com/lixenwraith/termwire/terminal/mouse"
)

func main() {
	fs := flag.NewFlagSet("input-test", flag.ExitOnError)
	quitName := fs.String("quit", "", "extra key that quits, e.g. escape or f10")
	cfg, err := config.Resolve(fs, os.Args[1:], os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	quitKey := keys.KeyNone
	if *quitName != "" {
		if quitKey, err = keys.ParseKey(*quitName); err != nil {
			fmt.Fprintf(os.Stderr, "quit: %v\n", err)
			os.Exit(2)
		}
	}
	if logFile := logging.Setup(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if opts.Title == "" {
		opts.Title = "termwire input test"
	}
	opts.Diagnostic = func(d terminal.Diagnostic) {
		log.Printf("diagnostic: %v", d)
	}

	caps := terminal.DetectCapabilities()
	log.Printf("capabilities: %+v", caps)
	if !caps.Interactive {
		fmt.Fprintln(os.Stderr, "input-test needs an interactive terminal")
		os.Exit(1)
	}

	// Panic Recovery: Ensure terminal is reset even if the loop crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mINPUT TEST CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	svc := terminal.NewService()
	svc.OnSignal = func(sig os.Signal) {
		log.Printf("terminated by %v", sig)
		os.Exit(1)
	}
	if err := svc.Init(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer svc.Stop()
	svc.Start()

	s := svc.Session()
	view := &eventView{session: s, size: s.Size(), caps: caps}
	view.render()

	for ev := range svc.Events() {
		log.Printf("event: %v", ev)
		if quit(ev, quitKey) {
			return
		}

		switch ev.Type {
		case terminal.EventResize:
			view.size = ev.Size
		case terminal.EventMouse:
			col, row := s.CellAt(ev.Mouse)
			// Hover motion updates the status line instead of flooding the log
			if ev.Mouse.Type == mouse.Move && ev.Mouse.Buttons == mouse.ButtonNone {
				view.pointer = fmt.Sprintf("pointer %d,%d", col, row)
				view.render()
				continue
			}
			view.add(fmt.Sprintf("%v -> cell %d,%d", ev, col, row))
			continue
		}
		view.add(ev.String())
	}
}

// lockMods are reported with every key while active and never change its meaning here
const lockMods = keys.ModCapsLock | keys.ModNumLock

// quit reports Ctrl+C, Ctrl+Q, a plain q or the extra key, whether or not the keyboard protocol is on
func quit(ev terminal.Event, extra keys.Key) bool {
	switch ev.Type {
	case terminal.EventText:
		return ev.Rune == 0x03 || ev.Rune == 0x11 || ev.Rune == 'q'
	case terminal.EventKey:
		k := ev.Key
		if k.Type == keys.Up {
			return false
		}
		mods := k.Modifiers &^ lockMods
		if !k.IsChar() {
			return extra != keys.KeyNone && k.Key == extra && mods == keys.ModNone
		}
		if mods == keys.ModCtrl {
			return k.Char == 'c' || k.Char == 'q'
		}
		return mods == keys.ModNone && k.Char == 'q'
	}
	return false
}

// eventView shows the most recent events below a status line
type eventView struct {
	session *terminal.Session
	size    terminal.Size
	caps    terminal.Capabilities
	pointer string
	lines   []string
}

func (v *eventView) add(line string) {
	limit := v.size.Rows - 2
	if limit < 1 {
		limit = 1
	}
	v.lines = append(v.lines, line)
	if len(v.lines) > limit {
		v.lines = v.lines[len(v.lines)-limit:]
	}
	v.render()
}

func (v *eventView) render() {
	width := v.size.Cols
	cw, ch := v.size.CellSize()
	status := fmt.Sprintf("%dx%d cells, %dx%d px/cell | %s keyboard=%v graphics=%v | %s | q or Ctrl+C quits",
		v.size.Cols, v.size.Rows, cw, ch, emulatorName(v.caps), v.caps.KeyboardProtocol, v.caps.Graphics, v.pointer)
	v.put(0, runewidth.Truncate(status, width, "…"))
	v.put(1, runewidth.Truncate(strings.Repeat("─", width), width, ""))

	for i := 0; i < v.size.Rows-2; i++ {
		line := ""
		if i < len(v.lines) {
			line = runewidth.Truncate(v.lines[i], width, "…")
		}
		v.put(2+i, line)
	}
	v.session.PlaceCursor(terminal.Point{X: 0, Y: v.size.Rows - 1})
}

func (v *eventView) put(row int, text string) {
	if err := v.session.PutText(terminal.Point{Y: row}, text); err != nil {
		log.Printf("render row %d: %v", row, err)
	}
}

func emulatorName(c terminal.Capabilities) string {
	if c.Emulator == "" {
		return "unknown terminal,"
	}
	return c.Emulator + ","
}
