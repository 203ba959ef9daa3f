// Package stream provides a bounds-checked little-endian cursor over a byte buffer.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/sherman/pkg/encoding"
)

// ErrUnexpectedEOF is returned when a read needs more bytes than remain.
var ErrUnexpectedEOF = errors.New("unexpected end of data")

// Reader is a cursor over an immutable byte buffer.
// It is not safe for concurrent use.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current cursor offset.
func (r *Reader) Position() int { return r.pos }

// Length returns the size of the underlying buffer.
func (r *Reader) Length() int { return len(r.data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// need checks that n more bytes can be read.
func (r *Reader) need(n int) error {
	if n < 0 || r.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrUnexpectedEOF, n, r.pos, r.Remaining())
	}
	return nil
}

// ReadU8 reads one byte.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadI16 reads a little-endian int16.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadI32 reads a little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadF32 reads a little-endian IEEE 754 float32.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadVecF reads n float32 values.
func (r *Reader) ReadVecF(n int) ([]float32, error) {
	if err := r.need(n * 4); err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.pos:]))
		r.pos += 4
	}
	return out, nil
}

// ReadVecU32 reads n uint32 values.
func (r *Reader) ReadVecU32(n int) ([]uint32, error) {
	if err := r.need(n * 4); err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(r.data[r.pos:])
		r.pos += 4
	}
	return out, nil
}

// ReadVecU16 reads n uint16 values.
func (r *Reader) ReadVecU16(n int) ([]uint16, error) {
	if err := r.need(n * 2); err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(r.data[r.pos:])
		r.pos += 2
	}
	return out, nil
}

// ReadVec3 reads three float32 values.
func (r *Reader) ReadVec3() ([3]float32, error) {
	var v [3]float32
	if err := r.need(12); err != nil {
		return v, err
	}
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.pos:]))
		r.pos += 4
	}
	return v, nil
}

// ReadBGRA8 reads four bytes stored as B, G, R, A and returns them as RGBA.
func (r *Reader) ReadBGRA8() ([4]uint8, error) {
	if err := r.need(4); err != nil {
		return [4]uint8{}, err
	}
	b := r.data[r.pos : r.pos+4]
	r.pos += 4
	return [4]uint8{b[2], b[1], b[0], b[3]}, nil
}

// SizedCString is the engine's string encoding: a u32 length that includes
// the NUL terminator, followed by that many bytes.
type SizedCString struct {
	Length uint32 `json:"length"`
	Raw    []byte `json:"-"`
	String string `json:"string"`
}

// ReadSizedCString reads a sized C-string. Invalid UTF-8 is replaced, not rejected.
func (r *Reader) ReadSizedCString() (SizedCString, error) {
	start := r.pos
	n, err := r.ReadU32()
	if err != nil {
		return SizedCString{}, err
	}
	raw, err := r.ReadBytes(int(n))
	if err != nil {
		r.pos = start
		return SizedCString{}, err
	}
	s := SizedCString{Length: n, Raw: raw}
	if n > 0 {
		s.String = encoding.DecodeCString(raw[:n-1])
	}
	return s, nil
}

// PeekSizedCString reads a sized C-string without moving the cursor.
func (r *Reader) PeekSizedCString() (SizedCString, error) {
	start := r.pos
	s, err := r.ReadSizedCString()
	r.pos = start
	return s, err
}

// NewSizedCString builds the encoded form of s.
func NewSizedCString(s string) SizedCString {
	raw := append([]byte(s), 0)
	return SizedCString{Length: uint32(len(raw)), Raw: raw, String: s}
}
