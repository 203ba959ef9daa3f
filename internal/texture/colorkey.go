package texture

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorKeyMatch reports whether an RGB colour lies within tolerance of key.
// Distance is Euclidean in normalized RGB, so 0 means an exact match and
// sqrt(3) matches everything.
func ColorKeyMatch(r, g, b uint8, key [3]uint8, tolerance float64) bool {
	if tolerance <= 0 {
		return r == key[0] && g == key[1] && b == key[2]
	}
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	k := colorful.Color{R: float64(key[0]) / 255, G: float64(key[1]) / 255, B: float64(key[2]) / 255}
	return c.DistanceRgb(k) <= tolerance
}

// ApplyColorKey makes every pixel matching key transparent black, in place.
// Clearing RGB as well as alpha keeps the key colour from bleeding in when the
// image is filtered. It returns the number of pixels masked.
func ApplyColorKey(img *image.NRGBA, key [3]uint8, tolerance float64) int {
	masked := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+4 : i+4]
			if ColorKeyMatch(px[0], px[1], px[2], key, tolerance) {
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
				masked++
			}
		}
	}
	return masked
}

// KeyFromInts clamps a parsed colour-key triple into bytes.
func KeyFromInts(c [3]int) [3]uint8 {
	var k [3]uint8
	for i, v := range c {
		switch {
		case v < 0:
			k[i] = 0
		case v > 255:
			k[i] = 255
		default:
			k[i] = uint8(v)
		}
	}
	return k
}
