package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{" error ", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	l.Debug("debug message")
	l.Info("info message")
	if buf.Len() != 0 {
		t.Errorf("messages below level should be dropped, got %q", buf.String())
	}

	l.Warn("warn %d", 42)
	out := buf.String()
	if !strings.Contains(out, "[WARN] test: warn 42") {
		t.Errorf("unexpected output %q", out)
	}

	buf.Reset()
	l.Error("boom")
	if !strings.Contains(buf.String(), "[ERROR] test: boom") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestLoggerFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf})

	l.WithComponent("highlight").WithField("lang", "python").WithField("a", 1).Info("hello")

	out := buf.String()
	if !strings.Contains(out, "{a=1, component=highlight, lang=python}") {
		t.Errorf("fields not sorted or missing: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("log line should end with newline")
	}
}

func TestLoggerWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Config{Level: LevelDebug, Output: &buf})
	_ = parent.WithField("child", true)

	parent.Info("plain")
	if strings.Contains(buf.String(), "child") {
		t.Errorf("parent logger picked up child field: %q", buf.String())
	}
}

func TestLoggerDisableEnable(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf})

	l.Disable()
	l.Error("hidden")
	if buf.Len() != 0 {
		t.Error("disabled logger should not write")
	}

	l.Enable()
	l.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("enabled logger should write")
	}
}

func TestLoggerSetLevelAndOutput(t *testing.T) {
	var first, second bytes.Buffer
	l := New(Config{Level: LevelError, Output: &first})

	l.SetLevel(LevelDebug)
	if l.Level() != LevelDebug {
		t.Errorf("Level() = %v, want DEBUG", l.Level())
	}
	l.SetOutput(&second)
	l.Debug("moved")

	if first.Len() != 0 {
		t.Error("old output should not receive messages")
	}
	if !strings.Contains(second.String(), "moved") {
		t.Error("new output should receive messages")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	l.WithComponent("x").Warn("still nothing")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != LevelInfo {
		t.Errorf("default level = %v, want INFO", cfg.Level)
	}
	if cfg.Prefix != "hilite" {
		t.Errorf("default prefix = %q, want hilite", cfg.Prefix)
	}
}
