package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
)

func TestRunMarksReachableOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := config.Default()
	val := New(v, srv.Client(), nil)
	channels := []catalog.Channel{{ID: "1", StreamURL: srv.URL}}
	results, reachable := val.Run(context.Background(), channels)

	if !results["1"].Reachable() {
		t.Fatalf("expected reachable, got %+v", results["1"])
	}
	if !reachable[strings.ToLower(srv.URL)] {
		t.Fatalf("expected reachability map entry for normalized URL")
	}
}

func TestRunMarksUnreachableOn404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := config.Default()
	val := New(v, srv.Client(), nil)
	channels := []catalog.Channel{{ID: "1", StreamURL: srv.URL}}
	results, _ := val.Run(context.Background(), channels)
	if results["1"].Reachable() {
		t.Fatalf("expected unreachable result for a 404 response, got %+v", results["1"])
	}
}

func TestRunMarksUnreachableOnConnectionRefused(t *testing.T) {
	v := config.Default()
	val := New(v, nil, nil)
	channels := []catalog.Channel{{ID: "1", StreamURL: "http://127.0.0.1:1/nope"}}
	results, _ := val.Run(context.Background(), channels)
	if results["1"].Reachable() {
		t.Fatalf("expected unreachable result, got %+v", results["1"])
	}
}

func TestCacheHitSkipsReprobe(t *testing.T) {
	c, err := NewCache(0, 0, "")
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	c.Put("http://x", Result{Status: StatusReachable}, time.Now())
	r, ok := c.Get("http://x")
	if !ok || !r.Reachable() {
		t.Fatalf("expected cached reachable result")
	}
}
