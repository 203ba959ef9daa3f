package texture

import (
	"image"

	"golang.org/x/image/draw"
)

func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

// GenerateMipMaps returns the mip chain of img, level 0 being a copy of img
// and each following level halving both sides (never below 1) until 1x1.
// Images whose sides are not powers of two have no chain and report false.
func GenerateMipMaps(img *image.NRGBA) ([]*image.NRGBA, bool) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if !isPowerOfTwo(w) || !isPowerOfTwo(h) {
		return nil, false
	}

	levels := []*image.NRGBA{cloneNRGBA(img)}
	for w > 1 || h > 1 {
		w, h = max(w/2, 1), max(h/2, 1)
		prev := levels[len(levels)-1]
		next := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(next, next.Bounds(), prev, prev.Bounds(), draw.Src, nil)
		levels = append(levels, next)
	}
	return levels, true
}

func cloneNRGBA(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
