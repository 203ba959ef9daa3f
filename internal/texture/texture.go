// Package texture converts engine images to standard Go images and writes them as PNG.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/Faultbox/sherman/pkg/formats"
)

// FromRSB decodes the direct-colour plane of an RSB image.
func FromRSB(img *formats.RSB) (*image.NRGBA, error) {
	pix, err := img.DirectColor()
	if err != nil {
		return nil, err
	}
	return fromPlane(int(img.Width), int(img.Height), pix), nil
}

// FromRSBPalette resolves the palette plane of an RSB image.
// It reports false when the image has no palette.
func FromRSBPalette(img *formats.RSB) (*image.NRGBA, bool) {
	pix, ok := img.PaletteImage()
	if !ok {
		return nil, false
	}
	return fromPlane(int(img.Width), int(img.Height), pix), true
}

// fromPlane wraps a tightly packed RGBA byte plane. Decoded channels are not
// premultiplied, so the plane maps directly onto NRGBA.
func fromPlane(w, h int, pix []byte) *image.NRGBA {
	return &image.NRGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
}

// ToNRGBA converts any image to *image.NRGBA anchored at the origin.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Decode reads a BMP, TGA, PNG or RSB image, chosen by ext.
func Decode(r io.Reader, ext string) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(ext) {
	case ".rsb":
		data, rerr := io.ReadAll(r)
		if rerr != nil {
			return nil, rerr
		}
		rsb, _, perr := formats.ParseRSB(data)
		if perr != nil {
			return nil, perr
		}
		return FromRSB(rsb)
	case ".bmp":
		img, err = bmp.Decode(r)
	case ".tga":
		img, err = tga.Decode(r)
	case ".png":
		img, err = png.Decode(r)
	default:
		return nil, fmt.Errorf("unsupported image type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ext, err)
	}
	return ToNRGBA(img), nil
}

// DecodeFile reads an image file, choosing the decoder by extension.
func DecodeFile(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(bytes.NewReader(data), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WritePNG writes img to path as PNG, replacing any existing file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
