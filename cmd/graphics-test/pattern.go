package main

import "github.com/lixenwraith/termwire/terminal/shm"

// pattern selects a generated test image
type pattern uint8

const (
	patternGradient pattern = iota
	patternChecker
	patternBars
	patternCount
)

func (p pattern) String() string {
	switch p {
	case patternGradient:
		return "gradient"
	case patternChecker:
		return "checker"
	case patternBars:
		return "bars"
	}
	return "unknown"
}

func (p pattern) next() pattern {
	return (p + 1) % patternCount
}

// colorBars are the classic 75% bars
var colorBars = [...][3]byte{
	{191, 191, 191},
	{191, 191, 0},
	{0, 191, 191},
	{0, 191, 0},
	{191, 0, 191},
	{191, 0, 0},
	{0, 0, 191},
}

const checkerCell = 16

// render fills a w*h RGBA frame
func render(p pattern, w, h int) []byte {
	pixels := make([]byte, w*h*shm.BytesPerPixel)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b byte
			switch p {
			case patternGradient:
				r = byte(x * 255 / max(w-1, 1))
				g = byte(y * 255 / max(h-1, 1))
				b = 128
			case patternChecker:
				if (x/checkerCell+y/checkerCell)%2 == 0 {
					r, g, b = 240, 240, 240
				} else {
					r, g, b = 32, 32, 48
				}
			case patternBars:
				c := colorBars[x*len(colorBars)/w]
				r, g, b = c[0], c[1], c[2]
			}
			i := (y*w + x) * shm.BytesPerPixel
			pixels[i] = r
			pixels[i+1] = g
			pixels[i+2] = b
			pixels[i+3] = 255
		}
	}
	return pixels
}
