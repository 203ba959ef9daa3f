package formats

import (
	"errors"
	"fmt"

	"github.com/Faultbox/sherman/pkg/stream"
)

// Error kinds. Every error returned by a parser matches exactly one of these with errors.Is.
var (
	ErrUnexpectedEOF      = stream.ErrUnexpectedEOF
	ErrBadSentinel        = errors.New("bad sentinel")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrInvalidImageHeader = errors.New("invalid image header")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrMalformedText      = errors.New("malformed text")
	ErrEncoding           = errors.New("encoding error")
	ErrInvalidValue       = errors.New("invalid value")
)

// ParseError locates a binary parse failure by section path and byte offset.
type ParseError struct {
	Path   string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("@0x%x: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("%s @0x%x: %v", e.Path, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SentinelError reports a section marker that did not match.
type SentinelError struct {
	Expected string
	Got      string
}

func (e *SentinelError) Error() string {
	return fmt.Sprintf("%v: expected %q, got %q", ErrBadSentinel, e.Expected, e.Got)
}

func (e *SentinelError) Unwrap() error { return ErrBadSentinel }

// VersionError reports a version discriminant the parser does not know.
type VersionError struct {
	Kind    string
	Version uint32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%v: %s %d", ErrUnsupportedVersion, e.Kind, e.Version)
}

func (e *VersionError) Unwrap() error { return ErrUnsupportedVersion }

// IndexError reports a reference past the end of the list it points into.
type IndexError struct {
	Which string
	Index uint64
	Bound uint64
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: %s %d >= %d", ErrIndexOutOfRange, e.Which, e.Index, e.Bound)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// TextError reports a problem in a tokenized text file.
type TextError struct {
	Line   int
	Token  string
	Reason string
}

func (e *TextError) Error() string {
	return fmt.Sprintf("%v: line %d near %q: %s", ErrMalformedText, e.Line, e.Token, e.Reason)
}

func (e *TextError) Unwrap() error { return ErrMalformedText }

// Warning is a non-fatal condition found while parsing.
type Warning struct {
	Path    string `json:"path,omitempty"`
	Offset  int    `json:"offset"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	switch {
	case w.Line > 0:
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	case w.Path != "":
		return fmt.Sprintf("%s @0x%x: %s", w.Path, w.Offset, w.Message)
	default:
		return fmt.Sprintf("@0x%x: %s", w.Offset, w.Message)
	}
}
