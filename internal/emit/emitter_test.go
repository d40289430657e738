package emit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
)

func sampleChannels() []catalog.Channel {
	return []catalog.Channel{
		{ID: "1", Name: "CNN", StreamURL: "http://x/a", Genre: "News", Type: catalog.TypeLive, IsActive: true},
		{ID: "2", Name: "CNN", StreamURL: "http://x/b", Genre: "News", Type: catalog.TypeLive, IsActive: true},
	}
}

func TestRunWritesAllThreeArtifacts(t *testing.T) {
	dir := t.TempDir()
	v := config.Default()
	v.ValidatedCatalogPath = filepath.Join(dir, "tv.csv")
	v.PlaylistOutputPath = filepath.Join(dir, "channels.m3u")
	v.PerChannelPlaylistDir = filepath.Join(dir, "m3u8")

	e := New(v)
	if err := e.Run(sampleChannels()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, p := range []string{v.ValidatedCatalogPath, v.PlaylistOutputPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
	}
	entries, err := os.ReadDir(v.PerChannelPlaylistDir)
	if err != nil {
		t.Fatalf("ReadDir fragments: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 fragment files, got %d", len(entries))
	}
}

func TestWriteFragmentsUniquifiesCollidingNames(t *testing.T) {
	dir := t.TempDir()
	v := config.Default()
	v.ValidatedCatalogPath = filepath.Join(dir, "tv.csv")
	v.PlaylistOutputPath = filepath.Join(dir, "channels.m3u")
	v.PerChannelPlaylistDir = filepath.Join(dir, "m3u8")

	e := New(v)
	channels := []catalog.Channel{
		{ID: "1", Name: "CNN", StreamURL: "http://x/a"},
		{ID: "1", Name: "CNN", StreamURL: "http://x/b"},
	}
	if err := e.writeFragments(channels); err != nil {
		t.Fatalf("writeFragments: %v", err)
	}
	entries, err := os.ReadDir(v.PerChannelPlaylistDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 uniquified files, got %d: %v", len(entries), entries)
	}
}

func TestWriteFragmentsWipesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	v := config.Default()
	v.PerChannelPlaylistDir = filepath.Join(dir, "m3u8")
	if err := os.MkdirAll(v.PerChannelPlaylistDir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(v.PerChannelPlaylistDir, "stale.m3u8")
	if err := os.WriteFile(stale, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(v)
	if err := e.writeFragments(nil); err != nil {
		t.Fatalf("writeFragments: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale fragment to be wiped, stat err = %v", err)
	}
}
