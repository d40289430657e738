package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivycast/curator/internal/config"
)

func TestHybridRepositoryMergesAndSkipsFailures(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("#EXTM3U\n#EXTINF:-1,Remote\nhttp://remote/stream\n"))
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	dir := t.TempDir()
	localPath := filepath.Join(dir, "local.m3u")
	os.WriteFile(localPath, []byte("#EXTM3U\n#EXTINF:-1,Local\nhttp://local/stream\n"), 0o644)

	v := &config.View{
		PlaylistURLs:       []string{ok.URL, bad.URL},
		LocalPlaylistFiles: []string{localPath},
		BaseDir:            ".",
		ProjectRoot:        ".",
	}
	repo := newHybrid(v, nil, http.DefaultClient)
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	chs, _ := repo.Channels(context.Background())
	if len(chs) != 2 {
		t.Fatalf("expected 2 channels (1 remote ok + 1 local), got %d: %+v", len(chs), chs)
	}
}

func TestHybridRepositoryFailsWhenAllSourcesFail(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	v := &config.View{PlaylistURLs: []string{bad.URL}, BaseDir: ".", ProjectRoot: "."}
	repo := newHybrid(v, nil, http.DefaultClient)
	if err := repo.Initialize(context.Background()); err == nil {
		t.Fatal("expected error when all sources fail")
	}
}
