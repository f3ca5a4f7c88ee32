package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseLevel(tc.input); got != tc.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WARN" || Level(42).String() != "UNKNOWN" {
		t.Error("unexpected level names")
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn)
	l.SetOutput(&buf)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below level leaked: %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "warn 3") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "ERROR") || !strings.Contains(out, "error 4") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelError)
	l.SetOutput(&buf)

	l.Info("hidden")
	l.SetLevel(LevelDebug)
	l.Debug("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at error level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("debug not logged after SetLevel: %q", out)
	}
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo)
	l.SetOutput(&buf)

	child := l.Named("ephem")
	child.Debug("quiet")
	l.SetLevel(LevelDebug)
	child.Debug("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Errorf("child level not shared: %q", out)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ls-natal.log")
	l := NewFile(LevelInfo, path)
	l.Info("rendered %s", "chart")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "rendered chart") {
		t.Errorf("log file missing line: %q", data)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing %v", "here")
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
