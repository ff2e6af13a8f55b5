package main

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// checkerPixels returns a size x size RGBA checkerboard with cells of cell pixels
func checkerPixels(size, cell int) []byte {
	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := byte(0x40)
			if (x/cell+y/cell)%2 == 0 {
				v = 0xd0
			}
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 0xff
		}
	}
	return pix
}

// noisePixels returns base with per-pixel brightness jitter
func noisePixels(size int, base mgl32.Vec3, rng *rand.Rand) []byte {
	pix := make([]byte, size*size*4)
	for i := 0; i < size*size; i++ {
		k := 0.85 + 0.3*rng.Float32()
		for c := 0; c < 3; c++ {
			pix[i*4+c] = byte(mgl32.Clamp(base[c]*k, 0, 1) * 255)
		}
		pix[i*4+3] = 0xff
	}
	return pix
}

// blendMapPixels paints a dirt ring (red), rock at the edges (green) and a
// sand centre (blue) over the grass background.
func blendMapPixels(size int) []byte {
	pix := make([]byte, size*size*4)
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r := math.Hypot(float64(x)-c, float64(y)-c) / c
			var red, green, blue float64
			switch {
			case r < 0.15:
				blue = 1
			case r > 0.35 && r < 0.45:
				red = 1
			case r > 0.9:
				green = math.Min((r-0.9)*10, 1)
			}
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = byte(red*255), byte(green*255), byte(blue*255), 0xff
		}
	}
	return pix
}
