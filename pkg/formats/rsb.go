// Package formats provides parsers for Sherman and Rommel engine file formats.
package formats

import (
	"fmt"
	"os"

	"github.com/Faultbox/sherman/pkg/colorcodec"
)

const (
	// RSBMaxVersion is the newest image version the parser understands.
	RSBMaxVersion = 9

	// NoDXT is the DXT selector value of an uncompressed image.
	NoDXT uint32 = 0xFFFFFFFF

	paletteSize = 256
)

// RSB is a parsed raster image.
type RSB struct {
	Version         uint32               `json:"version"`
	Width           uint32               `json:"width"`
	Height          uint32               `json:"height"`
	ContainsPalette uint32               `json:"containsPalette"`
	HeaderExtras    []uint32             `json:"headerExtras,omitempty"`
	BitDepths       colorcodec.BitDepths `json:"bitDepths"`
	DXTType         uint32               `json:"dxtType"`
	BytesPerPixel   int                  `json:"bytesPerPixel"`

	// Palette entries are RGBA; PaletteIndices holds one byte per pixel.
	Palette        [][4]uint8 `json:"palette,omitempty"`
	PaletteIndices []byte     `json:"paletteIndices,omitempty"`

	// Pixels is the direct-colour plane as stored, or the raw DXT payload.
	Pixels []byte `json:"pixels"`
}

// IsDXT reports whether the pixel plane is DXT compressed.
func (r *RSB) IsDXT() bool { return r.DXTType != NoDXT }

// HasPalette reports whether the image carries a palette-indexed plane.
func (r *RSB) HasPalette() bool { return r.Version == 0 && r.ContainsPalette == 1 }

// PixelCount returns width*height.
func (r *RSB) PixelCount() int { return int(r.Width) * int(r.Height) }

// ParseRSB parses an image from raw bytes.
func ParseRSB(data []byte) (*RSB, []Warning, error) {
	p := newParser(data)
	img := &RSB{DXTType: NoDXT}

	leave := p.enter("Header")
	img.Version = p.u32()
	img.Width = p.u32()
	img.Height = p.u32()
	if p.ok() && img.Version > RSBMaxVersion {
		p.fail(&VersionError{Kind: "RSB", Version: img.Version})
	}
	if img.Version == 0 {
		img.ContainsPalette = p.u32()
	}
	if img.Version > 7 {
		img.HeaderExtras = []uint32{p.u32(), p.u32(), p.u32()}
	}
	pixels := uint64(img.Width) * uint64(img.Height)
	if p.ok() && pixels > uint64(p.r.Remaining()) {
		p.failf(ErrInvalidImageHeader, "%dx%d image larger than file", img.Width, img.Height)
	}
	if img.Version != 0 {
		img.BitDepths = readBitDepths(p)
		if img.Version >= 9 {
			img.DXTType = p.u32()
		}
	}
	leave()

	if img.HasPalette() {
		leave = p.enter("Palette")
		img.Palette = make([][4]uint8, 0, paletteSize)
		for i := 0; i < paletteSize && p.ok(); i++ {
			c, err := p.r.ReadBGRA8()
			if err != nil {
				p.fail(err)
				break
			}
			img.Palette = append(img.Palette, c)
		}
		leave()

		leave = p.enter("PaletteIndices")
		img.PaletteIndices = p.bytes(int(pixels))
		leave()
	}

	if img.Version == 0 {
		leave = p.enter("Bitmask")
		img.BitDepths = readBitDepths(p)
		leave()
	}

	leave = p.enter("Pixels")
	img.BytesPerPixel = rsbBytesPerPixel(p, img)
	if p.ok() {
		size := pixels * uint64(img.BytesPerPixel)
		if size > uint64(p.r.Remaining()) {
			p.failf(ErrUnexpectedEOF, "pixel plane needs %d bytes, %d remain", size, p.r.Remaining())
		} else {
			img.Pixels = p.bytes(int(size))
		}
	}
	leave()
	p.finish()

	if p.err != nil {
		return nil, nil, p.err
	}
	return img, p.warnings, nil
}

// ParseRSBFile parses an image file from disk.
func ParseRSBFile(path string) (*RSB, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading RSB file: %w", err)
	}
	return ParseRSB(data)
}

func readBitDepths(p *parser) colorcodec.BitDepths {
	return colorcodec.BitDepths{R: p.u32(), G: p.u32(), B: p.u32(), A: p.u32()}
}

// rsbBytesPerPixel validates the channel depths and returns the record size.
// The size is the depth sum divided by eight, rounded down, so depths summing
// to less than 8 yield 0 and an image DirectColor cannot decode.
func rsbBytesPerPixel(p *parser, img *RSB) int {
	if !p.ok() {
		return 0
	}
	if img.IsDXT() {
		if img.DXTType == 0 {
			return 1
		}
		return 2
	}
	total := img.BitDepths.Total()
	if total < 1 || total > 32 {
		p.failf(ErrInvalidImageHeader, "channel depths %d/%d/%d/%d sum to %d",
			img.BitDepths.R, img.BitDepths.G, img.BitDepths.B, img.BitDepths.A, total)
		return 0
	}
	return img.BitDepths.BytesPerPixel()
}

// DirectColor decodes the direct-colour plane into RGBA bytes, four per pixel.
func (r *RSB) DirectColor() ([]byte, error) {
	if r.IsDXT() {
		return nil, fmt.Errorf("%w: DXT type %d payload is not decoded", ErrUnsupportedVersion, r.DXTType)
	}
	bpp := r.BytesPerPixel
	n := r.PixelCount()
	if bpp < 1 || bpp > 4 || len(r.Pixels) < n*bpp {
		return nil, fmt.Errorf("%w: %d bytes per pixel over %d bytes", ErrInvalidImageHeader, bpp, len(r.Pixels))
	}

	format, useLUT := colorcodec.FormatFor(r.BitDepths)
	useLUT = useLUT && bpp == 2

	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		rec := r.Pixels[i*bpp : i*bpp+bpp]
		var packed uint32
		for b := bpp - 1; b >= 0; b-- {
			packed = packed<<8 | uint32(rec[b])
		}
		var c [4]uint8
		if useLUT {
			c[0], c[1], c[2], c[3] = colorcodec.DecodeARGBLUT(uint16(packed), format)
		} else {
			c = colorcodec.Decode(packed, r.BitDepths)
		}
		copy(out[i*4:], c[:])
	}
	return out, nil
}

// PaletteImage resolves the palette-indexed plane into RGBA bytes.
// It reports false when the image has no palette.
func (r *RSB) PaletteImage() ([]byte, bool) {
	if !r.HasPalette() || len(r.Palette) == 0 {
		return nil, false
	}
	n := r.PixelCount()
	if len(r.PaletteIndices) < n {
		return nil, false
	}
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		idx := int(r.PaletteIndices[i])
		if idx < len(r.Palette) {
			copy(out[i*4:], r.Palette[idx][:])
		}
	}
	return out, true
}
