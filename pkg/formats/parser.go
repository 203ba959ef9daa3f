package formats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/sherman/pkg/stream"
)

// parser wraps a stream.Reader with a section path and a sticky first error.
// Once an error is recorded every read returns a zero value, so structure
// readers can read a run of fields and check the error once.
type parser struct {
	r        *stream.Reader
	path     []string
	err      error
	warnings []Warning
}

func newParser(data []byte) *parser {
	return &parser{r: stream.NewReader(data)}
}

// enter pushes a path segment; call the returned function to pop it.
func (p *parser) enter(segment string) func() {
	p.path = append(p.path, segment)
	n := len(p.path)
	return func() { p.path = p.path[:n-1] }
}

func (p *parser) enterIndex(name string, i int) func() {
	return p.enter(fmt.Sprintf("%s[%d]", name, i))
}

func (p *parser) pathString() string {
	return strings.Join(p.path, "/")
}

// fail records err at the current path and offset unless an error is already set.
func (p *parser) fail(err error) {
	if p.err != nil {
		return
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		p.err = err
		return
	}
	p.err = &ParseError{Path: p.pathString(), Offset: p.r.Position(), Err: err}
}

func (p *parser) failf(kind error, format string, args ...any) {
	p.fail(fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...)))
}

func (p *parser) warn(format string, args ...any) {
	p.warnings = append(p.warnings, Warning{
		Path:    p.pathString(),
		Offset:  p.r.Position(),
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *parser) ok() bool { return p.err == nil }

func (p *parser) u8() uint8 {
	if p.err != nil {
		return 0
	}
	v, err := p.r.ReadU8()
	if err != nil {
		p.fail(err)
	}
	return v
}

func (p *parser) u16() uint16 {
	if p.err != nil {
		return 0
	}
	v, err := p.r.ReadU16()
	if err != nil {
		p.fail(err)
	}
	return v
}

func (p *parser) u32() uint32 {
	if p.err != nil {
		return 0
	}
	v, err := p.r.ReadU32()
	if err != nil {
		p.fail(err)
	}
	return v
}

func (p *parser) f32() float32 {
	if p.err != nil {
		return 0
	}
	v, err := p.r.ReadF32()
	if err != nil {
		p.fail(err)
	}
	return v
}

func (p *parser) vec2() [2]float32 {
	return [2]float32{p.f32(), p.f32()}
}

func (p *parser) vec3() [3]float32 {
	return [3]float32{p.f32(), p.f32(), p.f32()}
}

func (p *parser) vec4() [4]float32 {
	return [4]float32{p.f32(), p.f32(), p.f32(), p.f32()}
}

func (p *parser) u32x3() [3]uint32 {
	return [3]uint32{p.u32(), p.u32(), p.u32()}
}

func (p *parser) u16x3() [3]uint16 {
	return [3]uint16{p.u16(), p.u16(), p.u16()}
}

func (p *parser) floats(n int) []float32 {
	if p.err != nil {
		return nil
	}
	v, err := p.r.ReadVecF(n)
	if err != nil {
		p.fail(err)
	}
	return v
}

func (p *parser) bytes(n int) []byte {
	if p.err != nil {
		return nil
	}
	v, err := p.r.ReadBytes(n)
	if err != nil {
		p.fail(err)
	}
	return v
}

func (p *parser) str() SizedCString {
	if p.err != nil {
		return SizedCString{}
	}
	s, err := p.r.ReadSizedCString()
	if err != nil {
		p.fail(err)
	}
	return s
}

// count reads a u32 element count and rejects counts that could not fit in
// the remaining bytes given a minimum element size.
func (p *parser) count(minElemSize int) int {
	n := p.u32()
	if p.err != nil {
		return 0
	}
	if minElemSize < 1 {
		minElemSize = 1
	}
	if uint64(n)*uint64(minElemSize) > uint64(p.r.Remaining()) {
		p.failf(ErrUnexpectedEOF, "count %d needs at least %d bytes, %d remain", n, uint64(n)*uint64(minElemSize), p.r.Remaining())
		return 0
	}
	return int(n)
}

// expect reads a sized C-string and fails unless it equals sentinel.
func (p *parser) expect(sentinel string) SizedCString {
	s := p.str()
	if p.err == nil && s.String != sentinel {
		p.fail(&SentinelError{Expected: sentinel, Got: s.String})
	}
	return s
}

func (p *parser) checkIndex(which string, idx, bound uint64) {
	if p.err == nil && idx >= bound {
		p.fail(&IndexError{Which: which, Index: idx, Bound: bound})
	}
}

// finish reports trailing bytes after the footer as a warning.
func (p *parser) finish() {
	if p.err == nil && p.r.Remaining() > 0 {
		p.warn("%d trailing bytes after footer", p.r.Remaining())
	}
}

// readList reads n elements, each under the path segment name[i].
func readList[T any](p *parser, name string, n int, read func(*parser) T) []T {
	out := make([]T, 0, n)
	for i := 0; i < n && p.ok(); i++ {
		leave := p.enterIndex(name, i)
		v := read(p)
		leave()
		out = append(out, v)
	}
	return out
}
