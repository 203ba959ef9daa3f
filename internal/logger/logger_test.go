package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/sherman/pkg/formats"
)

// capture routes the global logger to a buffer for the rest of the test.
func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := Setup(Options{Level: level, Console: &buf}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(Nop)
	return &buf
}

func TestWarnings(t *testing.T) {
	buf := capture(t, "info")
	Warnings("M01.MAP", []formats.Warning{
		{Path: "MapFile/RoomList/Room[2]", Offset: 0x1f4, Message: "portal room index 9 out of range"},
		{Line: 12, Message: "skipping record: unknown keyword"},
	})
	Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
	for _, want := range []string{"WARN", "portal room index 9", `"file": "M01.MAP"`, `"path": "MapFile/RoomList/Room[2]"`, `"offset": "0x1f4"`} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("binary warning missing %q: %s", want, lines[0])
		}
	}
	if !strings.Contains(lines[1], `"line": 12`) || strings.Contains(lines[1], "offset") {
		t.Errorf("text warning should carry a line and no offset: %s", lines[1])
	}
}

func TestWarningFields(t *testing.T) {
	tests := []struct {
		name string
		w    formats.Warning
		keys []string
	}{
		{"text", formats.Warning{Line: 3}, []string{"file", "line"}},
		{"binary", formats.Warning{Path: "SOB", Offset: 8}, []string{"file", "path", "offset"}},
		{"trailing", formats.Warning{Offset: 64}, []string{"file", "offset"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := WarningFields("x", tt.w)
			if len(fields) != len(tt.keys) {
				t.Fatalf("got %d fields, want %v", len(fields), tt.keys)
			}
			for i, k := range tt.keys {
				if fields[i].Key != k {
					t.Errorf("field %d = %s, want %s", i, fields[i].Key, k)
				}
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, "warn")
	Debug("resolving texture")
	Info("wrote", zap.String("file", "a.PNG"))
	Warn("trailing bytes")
	Error("parse failed")
	Sync()

	out := buf.String()
	if strings.Contains(out, "resolving texture") || strings.Contains(out, "wrote") {
		t.Errorf("messages below warn were logged: %s", out)
	}
	if !strings.Contains(out, "trailing bytes") || !strings.Contains(out, "parse failed") {
		t.Errorf("warn and error messages missing: %s", out)
	}
}

func TestSetup_BadLevel(t *testing.T) {
	if err := Setup(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInit_ConsoleIsStderr(t *testing.T) {
	// Command output owns stdout, so console logging must go to stderr.
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	saved := os.Stderr
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = saved })

	if err := Init("info", ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(Nop)
	Info("building PNG cache")
	Sync()
	w.Close()

	var got bytes.Buffer
	if _, err := got.ReadFrom(r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got.String(), "building PNG cache") {
		t.Errorf("stderr = %q", got.String())
	}
}

func TestInit_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rstool.log")
	if err := Setup(Options{Level: "debug", File: FileConfig{Path: path, MaxSizeMB: 1}}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(Nop)

	With(zap.String("file", "Key.RSB")).Debug("cached texture")
	Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	for _, want := range []string{"DEBUG", "cached texture", `"file": "Key.RSB"`} {
		if !bytes.Contains(content, []byte(want)) {
			t.Errorf("log file missing %q: %s", want, content)
		}
	}
}

func TestNop(t *testing.T) {
	Nop()
	Info("discarded")
	Warnings("x", []formats.Warning{{Message: "discarded"}})
	Sync()
}
