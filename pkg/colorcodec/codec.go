// Package colorcodec decodes ARGB pixels packed with arbitrary per-channel bit depths.
//
// Channels are packed most significant first as A|R|G|B, so blue always
// occupies the lowest bits of the packed word.
package colorcodec

// BitDepths holds the number of bits used by each channel.
type BitDepths struct {
	R, G, B, A uint32
}

// Total returns the sum of all channel depths.
func (d BitDepths) Total() uint32 {
	return d.R + d.G + d.B + d.A
}

// BytesPerPixel returns the packed record size in bytes.
func (d BitDepths) BytesPerPixel() int {
	return int(d.Total() / 8)
}

// channelMask returns a mask of bd low bits.
func channelMask(bd uint32) uint32 {
	if bd >= 32 {
		return 0xFFFFFFFF
	}
	return (1 << bd) - 1
}

// expand maps a channel value with bd bits onto 0..255.
func expand(v, bd uint32) uint8 {
	if bd == 0 {
		return 0
	}
	maxVal := uint64(channelMask(bd))
	return uint8(uint64(v) * 255 / maxVal)
}

// DecodeARGB unpacks a pixel into 8-bit R, G, B, A. This is the reference
// path; the lookup tables must agree with it for every input.
func DecodeARGB(packed uint32, bdR, bdG, bdB, bdA uint32) (r, g, b, a uint8) {
	shift := uint32(0)
	bv := (packed >> shift) & channelMask(bdB)
	shift += bdB
	gv := (packed >> shift) & channelMask(bdG)
	shift += bdG
	rv := (packed >> shift) & channelMask(bdR)
	shift += bdR
	var av uint32
	if shift < 32 {
		av = (packed >> shift) & channelMask(bdA)
	}

	r = expand(rv, bdR)
	g = expand(gv, bdG)
	b = expand(bv, bdB)
	if bdA == 0 {
		a = 255
	} else {
		a = expand(av, bdA)
	}
	return r, g, b, a
}

// Decode is DecodeARGB taking a BitDepths value.
func Decode(packed uint32, d BitDepths) [4]uint8 {
	r, g, b, a := DecodeARGB(packed, d.R, d.G, d.B, d.A)
	return [4]uint8{r, g, b, a}
}

// EncodeARGB packs 8-bit channels into a word with the given depths,
// truncating each channel to its most significant bits.
func EncodeARGB(r, g, b, a uint8, bdR, bdG, bdB, bdA uint32) uint32 {
	quantize := func(v uint8, bd uint32) uint32 {
		if bd == 0 {
			return 0
		}
		if bd >= 8 {
			return uint32(v) << (bd - 8)
		}
		return uint32(v) >> (8 - bd)
	}
	packed := quantize(b, bdB)
	packed |= quantize(g, bdG) << bdB
	packed |= quantize(r, bdR) << (bdB + bdG)
	if bdA > 0 {
		packed |= quantize(a, bdA) << (bdB + bdG + bdR)
	}
	return packed
}
