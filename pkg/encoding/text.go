// Package encoding provides text decoding utilities for Sherman and Rommel file formats.
package encoding

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeCString converts the payload of a sized C-string (terminator already
// removed) to a UTF-8 string. Invalid sequences become U+FFFD.
func DecodeCString(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	result, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(result)
}

// DecodeText converts the contents of a text sidecar file (CXP, MIS) to UTF-8.
// The shipping files are Windows-1252; valid UTF-8 input is returned as-is.
func DecodeText(data []byte) string {
	data = TrimNullBytes(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	if utf8.Valid(data) {
		return string(data)
	}
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return DecodeCString(data)
	}
	return string(result)
}

// TrimNullBytes removes trailing null bytes from a byte slice.
func TrimNullBytes(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

// NormalizeSlashes converts the backslash separators used in game files to forward slashes.
func NormalizeSlashes(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// NormalizePath normalizes a game path for case-insensitive lookup.
func NormalizePath(path string) string {
	return strings.ToLower(NormalizeSlashes(path))
}
