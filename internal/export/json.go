// Package export writes parsed assets and renderables to interchange formats.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// EncodeJSON writes v to w as JSON followed by a newline.
// Output is deterministic: struct fields keep declaration order and map keys are sorted.
func EncodeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteJSON writes v to path, replacing any existing file.
func WriteJSON(path string, v any, indent bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := EncodeJSON(w, v, indent); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
