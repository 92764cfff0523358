package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/termwire/config"
	"github.com/lixenwraith/termwire/logging"
	"github.com/lixenwraith/termwire/terminal"
	"github.com/lixenwraith/termwire/terminal/keys"
	"github.com/lixenwraith/termwire/terminal/shm"
)

// Frame size when the terminal does not report pixel dimensions
const (
	fallbackWidth  = 320
	fallbackHeight = 200
)

func main() {
	fs := flag.NewFlagSet("graphics-test", flag.ExitOnError)
	cfg, err := config.Resolve(fs, os.Args[1:], os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
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
		opts.Title = "termwire graphics test"
	}
	opts.Diagnostic = func(d terminal.Diagnostic) {
		if d.Source == "graphics" {
			log.Printf("terminal reply: %s", d.Data)
		}
	}

	caps := terminal.DetectCapabilities()
	log.Printf("capabilities: %+v", caps)
	if opts.Medium == shm.SharedMemory && !caps.SharedMemory {
		log.Printf("shared memory unavailable here, using temp files")
		opts.Medium = shm.TempFile
	}

	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mGRAPHICS TEST CRASHED: %v\x1b[0m\n", r)
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
	size := s.Size()
	current := patternGradient

	paint := func() {
		w, h := frameSize(size)
		pixels := render(current, w, h)
		if err := s.Paint(pixels, w, h); err != nil {
			// A lost frame is skipped; the next event repaints
			log.Printf("paint %s %dx%d: %v", current, w, h, err)
			return
		}
		log.Printf("painted %s %dx%d via %v", current, w, h, opts.Medium)
	}
	paint()

	for ev := range svc.Events() {
		switch ev.Type {
		case terminal.EventResize:
			size = ev.Size
		case terminal.EventText:
			if ev.Rune == 0x03 || ev.Rune == 'q' {
				return
			}
			if ev.Rune == ' ' {
				current = current.next()
			}
		case terminal.EventKey:
			k := ev.Key
			if k.Type == keys.Up {
				continue
			}
			if quitKey(k) {
				return
			}
			if k.Key == keys.KeyEnter || (k.IsChar() && k.Char == ' ') {
				current = current.next()
			}
		default:
			continue
		}
		paint()
	}
}

// quitKey reports q or Ctrl+C; lock modifiers are ignored
func quitKey(k keys.Event) bool {
	if !k.IsChar() {
		return false
	}
	mods := k.Modifiers &^ (keys.ModCapsLock | keys.ModNumLock)
	return (k.Char == 'q' && mods == keys.ModNone) || (k.Char == 'c' && mods == keys.ModCtrl)
}

// frameSize covers the window in pixels, or a fixed size when pixels are unknown
func frameSize(sz terminal.Size) (int, int) {
	if sz.XPixel > 0 && sz.YPixel > 0 {
		return sz.XPixel, sz.YPixel
	}
	return fallbackWidth, fallbackHeight
}
