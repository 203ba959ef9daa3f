package colorcodec

import (
	"fmt"
	"sync"
)

// Format identifies a 16-bit pixel layout with a precomputed lookup table.
type Format int

const (
	ARGB4444 Format = iota // 4 bits per channel including alpha
	ARGB0565               // 5-6-5 colour, no alpha
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case ARGB4444:
		return "ARGB_4444"
	case ARGB0565:
		return "ARGB_0565"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// Depths returns the channel depths described by the format.
func (f Format) Depths() BitDepths {
	switch f {
	case ARGB4444:
		return BitDepths{R: 4, G: 4, B: 4, A: 4}
	case ARGB0565:
		return BitDepths{R: 5, G: 6, B: 5, A: 0}
	default:
		return BitDepths{}
	}
}

// FormatFor returns the LUT format matching the given depths, if any.
func FormatFor(d BitDepths) (Format, bool) {
	switch d {
	case ARGB4444.Depths():
		return ARGB4444, true
	case ARGB0565.Depths():
		return ARGB0565, true
	default:
		return 0, false
	}
}

type lookupTables struct {
	// expanded[bd][v] maps a bd-bit channel value onto 0..255.
	expanded map[uint32][]uint8
	argb4444 [65536][4]uint8
	argb0565 [65536][4]uint8
}

// loadTables returns the process-wide tables, built on first use and
// read-only afterwards.
var loadTables = sync.OnceValue(func() *lookupTables {
	t := &lookupTables{expanded: make(map[uint32][]uint8, 3)}
	for _, bd := range []uint32{4, 5, 6} {
		n := uint32(1) << bd
		conv := make([]uint8, n)
		for v := uint32(0); v < n; v++ {
			conv[v] = expand(v, bd)
		}
		t.expanded[bd] = conv
	}

	c4, c5, c6 := t.expanded[4], t.expanded[5], t.expanded[6]
	for i := 0; i < 65536; i++ {
		p := uint32(i)
		t.argb4444[i] = [4]uint8{c4[(p>>8)&0xF], c4[(p>>4)&0xF], c4[p&0xF], c4[(p>>12)&0xF]}
		t.argb0565[i] = [4]uint8{c5[(p>>11)&0x1F], c6[(p>>5)&0x3F], c5[p&0x1F], 255}
	}
	return t
})

// DecodeARGBLUT decodes a 16-bit pixel through the precomputed table for format.
func DecodeARGBLUT(packed uint16, format Format) (r, g, b, a uint8) {
	t := loadTables()
	var c [4]uint8
	switch format {
	case ARGB4444:
		c = t.argb4444[packed]
	case ARGB0565:
		c = t.argb0565[packed]
	default:
		d := format.Depths()
		return DecodeARGB(uint32(packed), d.R, d.G, d.B, d.A)
	}
	return c[0], c[1], c[2], c[3]
}
