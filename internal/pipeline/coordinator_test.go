package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivycast/curator/internal/config"
)

func writeTabularSource(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	f.WriteString("id,name,streamUrl,logo,genre,country,language,quality,type,isActive\n")
	for _, r := range rows {
		for i, v := range r {
			if i > 0 {
				f.WriteString(",")
			}
			f.WriteString(v)
		}
		f.WriteString("\n")
	}
}

func TestRunEndToEndProducesArtifacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "channels.csv")
	writeTabularSource(t, sourcePath, [][]string{
		{"", "CNN HD", srv.URL + "/a", "", "", "", "", "", "", "true"},
		{"", "ESPN", srv.URL + "/b", "", "", "", "", "", "", "true"},
	})

	v := config.Default()
	v.ChannelsSource = config.SourceTabular
	v.ChannelsFile = sourcePath
	v.ValidatedCatalogPath = filepath.Join(dir, "tv.csv")
	v.PlaylistOutputPath = filepath.Join(dir, "channels.m3u")
	v.PerChannelPlaylistDir = filepath.Join(dir, "m3u8")
	v.EnableStreamValidation = true

	c := New(v, nil, nil)
	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FinalCount != 2 {
		t.Fatalf("FinalCount = %d, want 2", summary.FinalCount)
	}
	if _, err := os.Stat(v.ValidatedCatalogPath); err != nil {
		t.Errorf("expected catalog file: %v", err)
	}
	if _, err := os.Stat(v.PlaylistOutputPath); err != nil {
		t.Errorf("expected playlist file: %v", err)
	}
}

func TestRunAbortsOnMissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	v := config.Default()
	v.ChannelsSource = config.SourceTabular
	v.ChannelsFile = filepath.Join(dir, "does-not-exist.csv")
	v.ValidatedCatalogPath = filepath.Join(dir, "tv.csv")
	v.PlaylistOutputPath = filepath.Join(dir, "channels.m3u")
	v.PerChannelPlaylistDir = filepath.Join(dir, "m3u8")

	c := New(v, nil, nil)
	_, err := c.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for missing source file")
	}
}

func TestRunDedupesIdenticalStreamURLs(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "channels.csv")
	writeTabularSource(t, sourcePath, [][]string{
		{"", "CNN", "http://example.com/a", "", "", "", "", "", "", "true"},
		{"", "CNN", "http://example.com/a", "", "", "", "", "", "", "true"},
	})

	v := config.Default()
	v.ChannelsSource = config.SourceTabular
	v.ChannelsFile = sourcePath
	v.ValidatedCatalogPath = filepath.Join(dir, "tv.csv")
	v.PlaylistOutputPath = filepath.Join(dir, "channels.m3u")
	v.PerChannelPlaylistDir = filepath.Join(dir, "m3u8")
	v.EnableStreamValidation = false

	c := New(v, nil, nil)
	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FinalCount != 1 {
		t.Fatalf("FinalCount = %d, want 1 after dedup", summary.FinalCount)
	}
}

// TestHDUpgradeMergeKeepsHigherQuality models "ESPN HD" and "ESPN"
// arriving on the same stream URL: the HD-upgrade tie-break must keep
// the higher-quality record, with Quality inferred from the name since
// neither row carries an explicit quality column.
func TestHDUpgradeMergeKeepsHigherQuality(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "channels.csv")
	writeTabularSource(t, sourcePath, [][]string{
		{"", "ESPN", "http://example.com/espn", "", "", "", "", "", "", "true"},
		{"", "ESPN HD", "http://example.com/espn", "", "", "", "", "", "", "true"},
	})

	v := config.Default()
	v.ChannelsSource = config.SourceTabular
	v.ChannelsFile = sourcePath
	v.ValidatedCatalogPath = filepath.Join(dir, "tv.csv")
	v.PlaylistOutputPath = filepath.Join(dir, "channels.m3u")
	v.PerChannelPlaylistDir = filepath.Join(dir, "m3u8")
	v.EnableStreamValidation = false

	c := New(v, nil, nil)
	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FinalCount != 1 {
		t.Fatalf("FinalCount = %d, want 1 after dedup", summary.FinalCount)
	}
	out, err := os.ReadFile(v.ValidatedCatalogPath)
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	if !strings.Contains(string(out), "HD") {
		t.Fatalf("expected merged record to carry HD quality, got: %s", out)
	}
}

// TestIgnoreFileChannelSurvivesBannedNameEndToEnd runs the pipeline with
// a banned-name rule and an ignore-for-filtering file covering one of
// the two otherwise-banned channels, confirming the exemption holds
// through the full run, not just at the FilterEngine unit level.
func TestIgnoreFileChannelSurvivesBannedNameEndToEnd(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "channels.csv")
	writeTabularSource(t, sourcePath, [][]string{
		{"", "CHANNEL amagi", "http://example.com/a", "", "", "", "", "", "", "true"},
		{"", "amagi extra", "http://example.com/b", "", "", "", "", "", "", "true"},
	})
	ignorePath := filepath.Join(dir, "ignore.csv")
	writeTabularSource(t, ignorePath, [][]string{
		{"", "CHANNEL amagi", "http://example.com/a", "", "", "", "", "", "", "true"},
	})

	v := config.Default()
	v.ChannelsSource = config.SourceTabular
	v.ChannelsFile = sourcePath
	v.ValidatedCatalogPath = filepath.Join(dir, "tv.csv")
	v.PlaylistOutputPath = filepath.Join(dir, "channels.m3u")
	v.PerChannelPlaylistDir = filepath.Join(dir, "m3u8")
	v.EnableStreamValidation = false
	v.BannedNames = []string{"amagi"}
	v.IgnoreFiles = []string{ignorePath}

	c := New(v, nil, nil)
	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FinalCount != 1 {
		t.Fatalf("FinalCount = %d, want 1 (only the ignore-listed channel survives)", summary.FinalCount)
	}
	if summary.RejectedCount != 1 {
		t.Fatalf("RejectedCount = %d, want 1", summary.RejectedCount)
	}
}

// TestHTTPSToHTTPConversionRewritesReachableURL confirms an https://
// stream is rewritten to its http:// equivalent once the rewrite is
// probed and found reachable.
func TestHTTPSToHTTPConversionRewritesReachableURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	httpsURL := "https://" + strings.TrimPrefix(srv.URL, "http://")

	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "channels.csv")
	writeTabularSource(t, sourcePath, [][]string{
		{"", "CNN", httpsURL, "", "", "", "", "", "", "true"},
	})

	v := config.Default()
	v.ChannelsSource = config.SourceTabular
	v.ChannelsFile = sourcePath
	v.ValidatedCatalogPath = filepath.Join(dir, "tv.csv")
	v.PlaylistOutputPath = filepath.Join(dir, "channels.m3u")
	v.PerChannelPlaylistDir = filepath.Join(dir, "m3u8")
	v.EnableStreamValidation = false
	v.ConvertHTTPSToHTTP = true
	v.ValidateHTTPConversion = true

	c := New(v, nil, nil)
	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := os.ReadFile(v.ValidatedCatalogPath)
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	if strings.Contains(string(out), "https://") {
		t.Fatalf("expected https:// URL rewritten to http://, got: %s", out)
	}
	if !strings.Contains(string(out), srv.URL) {
		t.Fatalf("expected rewritten http:// URL %s present, got: %s", srv.URL, out)
	}
}

// TestSourceAutomaticDetectsTabularFromExtension confirms
// channelsSource=automatic infers a variant from ChannelsFile's shape
// rather than failing with an unknown-source-type error.
func TestSourceAutomaticDetectsTabularFromExtension(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "channels.csv")
	writeTabularSource(t, sourcePath, [][]string{
		{"", "CNN", "http://example.com/a", "", "", "", "", "", "", "true"},
	})

	v := config.Default()
	v.ChannelsSource = config.SourceAutomatic
	v.ChannelsFile = sourcePath
	v.ValidatedCatalogPath = filepath.Join(dir, "tv.csv")
	v.PlaylistOutputPath = filepath.Join(dir, "channels.m3u")
	v.PerChannelPlaylistDir = filepath.Join(dir, "m3u8")
	v.EnableStreamValidation = false

	c := New(v, nil, nil)
	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FinalCount != 1 {
		t.Fatalf("FinalCount = %d, want 1", summary.FinalCount)
	}
}
