package httpsconv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
)

func TestRunDisabledLeavesURLsUntouched(t *testing.T) {
	v := config.Default()
	v.ConvertHTTPSToHTTP = false
	c := New(v, nil)
	in := []catalog.Channel{{ID: "1", StreamURL: "https://example.com/a"}}
	out := c.Run(context.Background(), in)
	if out[0].StreamURL != "https://example.com/a" {
		t.Fatalf("expected untouched URL, got %q", out[0].StreamURL)
	}
}

func TestRunWithoutValidationRewritesUnconditionally(t *testing.T) {
	v := config.Default()
	v.ConvertHTTPSToHTTP = true
	v.ValidateHTTPConversion = false
	c := New(v, nil)
	in := []catalog.Channel{{ID: "1", StreamURL: "https://example.com/a"}}
	out := c.Run(context.Background(), in)
	if out[0].StreamURL != "http://example.com/a" {
		t.Fatalf("expected rewritten URL, got %q", out[0].StreamURL)
	}
}

func TestRunWithValidationKeepsOriginalOnProbeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := config.Default()
	v.ConvertHTTPSToHTTP = true
	v.ValidateHTTPConversion = true
	c := New(v, srv.Client())
	in := []catalog.Channel{{ID: "1", StreamURL: "https://" + srv.Listener.Addr().String() + "/x"}}
	out := c.Run(context.Background(), in)
	if out[0].StreamURL != in[0].StreamURL {
		t.Fatalf("expected original URL retained on probe failure, got %q", out[0].StreamURL)
	}
}

func TestRunDoesNotTouchHTTPChannels(t *testing.T) {
	v := config.Default()
	v.ConvertHTTPSToHTTP = true
	c := New(v, nil)
	in := []catalog.Channel{{ID: "1", StreamURL: "http://example.com/a"}}
	out := c.Run(context.Background(), in)
	if out[0].StreamURL != "http://example.com/a" {
		t.Fatalf("expected http URL unchanged, got %q", out[0].StreamURL)
	}
}
