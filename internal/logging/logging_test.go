package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewJSONWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSON(&buf)
	l.Info("channel rejected", "reason", "banned_name", "id", "abc")
	out := buf.String()
	if !strings.Contains(out, "channel rejected") {
		t.Fatalf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "banned_name") {
		t.Fatalf("expected kv field in output, got %q", out)
	}
}

func TestNopDoesNotPanic(t *testing.T) {
	var l Logger = Nop{}
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	l.Fatal("x")
}
