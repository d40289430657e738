package errs

import (
	"errors"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := Network("validate", "probe failed", cause)
	if !errors.Is(e, cause) {
		t.Fatalf("expected Is to find cause")
	}
	if e.Error() == "" {
		t.Fatalf("expected non-empty message")
	}
}

func TestKindFatal(t *testing.T) {
	cases := map[Kind]bool{
		KindConfiguration: true,
		KindFilesystem:    true,
		KindInvariant:     true,
		KindSource:        false,
		KindParse:         false,
		KindNetwork:       false,
	}
	for k, want := range cases {
		if got := k.Fatal(); got != want {
			t.Errorf("%s.Fatal() = %v, want %v", k, got, want)
		}
	}
}
