package main

import (
	"testing"

	"github.com/lixenwraith/termwire/terminal"
	"github.com/lixenwraith/termwire/terminal/keys"
)

func pixelAt(pixels []byte, w, x, y int) [4]byte {
	i := (y*w + x) * 4
	return [4]byte{pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]}
}

func TestRender_Size(t *testing.T) {
	for p := pattern(0); p < patternCount; p++ {
		pixels := render(p, 7, 3)
		if len(pixels) != 7*3*4 {
			t.Errorf("%v: %d bytes", p, len(pixels))
		}
		for i := 3; i < len(pixels); i += 4 {
			if pixels[i] != 255 {
				t.Fatalf("%v: pixel %d not opaque", p, i/4)
			}
		}
	}
}

func TestRender_Gradient(t *testing.T) {
	pixels := render(patternGradient, 10, 10)
	if got := pixelAt(pixels, 10, 0, 0); got != [4]byte{0, 0, 128, 255} {
		t.Errorf("top-left %v", got)
	}
	if got := pixelAt(pixels, 10, 9, 9); got != [4]byte{255, 255, 128, 255} {
		t.Errorf("bottom-right %v", got)
	}

	// Single pixel does not divide by zero
	if got := pixelAt(render(patternGradient, 1, 1), 1, 0, 0); got != [4]byte{0, 0, 128, 255} {
		t.Errorf("1x1 %v", got)
	}
}

func TestRender_Checker(t *testing.T) {
	pixels := render(patternChecker, 64, 64)
	a := pixelAt(pixels, 64, 0, 0)
	b := pixelAt(pixels, 64, checkerCell, 0)
	c := pixelAt(pixels, 64, checkerCell, checkerCell)
	if a == b || a != c {
		t.Errorf("checker cells %v %v %v", a, b, c)
	}
}

func TestPattern_Next(t *testing.T) {
	p := patternGradient
	seen := map[pattern]bool{}
	for i := 0; i < int(patternCount); i++ {
		seen[p] = true
		p = p.next()
	}
	if p != patternGradient || len(seen) != int(patternCount) {
		t.Errorf("cycle ended at %v after %d patterns", p, len(seen))
	}
}

func TestFrameSize(t *testing.T) {
	if w, h := frameSize(terminal.Size{Cols: 80, Rows: 24, XPixel: 800, YPixel: 480}); w != 800 || h != 480 {
		t.Errorf("got %dx%d", w, h)
	}
	if w, h := frameSize(terminal.Size{Cols: 80, Rows: 24}); w != fallbackWidth || h != fallbackHeight {
		t.Errorf("fallback %dx%d", w, h)
	}
}

func TestQuitKey(t *testing.T) {
	tests := []struct {
		ev   keys.Event
		want bool
	}{
		{keys.Event{Char: 'q'}, true},
		{keys.Event{Char: 'q', Modifiers: keys.ModNumLock}, true},
		{keys.Event{Char: 'c', Modifiers: keys.ModCtrl | keys.ModCapsLock}, true},
		{keys.Event{Char: 'c'}, false},
		{keys.Event{Char: 'q', Modifiers: keys.ModAlt}, false},
		{keys.Event{Key: keys.KeyEscape}, false},
	}
	for _, tc := range tests {
		if got := quitKey(tc.ev); got != tc.want {
			t.Errorf("%v: got %v, want %v", tc.ev, got, tc.want)
		}
	}
}
