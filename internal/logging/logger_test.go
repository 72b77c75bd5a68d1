package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("lower levels should be filtered: %s", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") || !strings.Contains(out, "[ERROR] error 4") {
		t.Fatalf("missing expected lines: %s", out)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	child := l.With("api")
	l.SetLevel(LevelDebug)

	if got := l.GetLevel(); got != LevelDebug {
		t.Fatalf("GetLevel = %v, want %v", got, LevelDebug)
	}
	if got := child.GetLevel(); got != LevelInfo {
		t.Fatalf("child level should stay %v, got %v", LevelInfo, got)
	}
	l.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("debug line missing after SetLevel: %s", buf.String())
	}
}

func TestLogger_WithPrefix(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, LevelDebug).With("importer")
	l.Info("rows=%d", 3)

	if !strings.Contains(buf.String(), "[INFO] [importer] rows=3") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]Level{"ERROR": LevelError, "warning": LevelWarn, "": LevelInfo, " debug ": LevelDebug}
	for in, want := range tests {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v %v, want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseLevel("verbose"); ok {
		t.Fatalf("unknown level should fail")
	}
}
