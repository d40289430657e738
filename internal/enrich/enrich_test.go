package enrich

import (
	"os"
	"testing"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
)

func TestCleanNameStripsQualityTokens(t *testing.T) {
	got := cleanName("CNN HD [Backup]")
	if got != "CNN" {
		t.Fatalf("cleanName = %q, want CNN", got)
	}
}

func TestCleanNameKeepsOriginalWhenResultEmpty(t *testing.T) {
	got := cleanName("HD")
	if got != "HD" {
		t.Fatalf("cleanName = %q, want original HD kept", got)
	}
}

func TestInferQualityFindsNameToken(t *testing.T) {
	cases := map[string]catalog.Quality{
		"ESPN HD":     catalog.QualityHD,
		"ESPN FHD":    catalog.QualityFHD,
		"ESPN UHD":    catalog.QualityUHD,
		"ESPN 4K":     catalog.Quality4K,
		"ESPN SD":     catalog.QualitySD,
		"ESPN":        catalog.QualityUnknown,
		"HEADLINE TV": catalog.QualityUnknown,
	}
	for name, want := range cases {
		if got := InferQuality(name); got != want {
			t.Errorf("InferQuality(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestClassifyGenreRecognizesSports(t *testing.T) {
	if g := classifyGenre("ESPN USA", ""); g != "Sports" {
		t.Errorf("classifyGenre = %q, want Sports", g)
	}
}

func TestClassifyGenreFallsBackToGeneral(t *testing.T) {
	if g := classifyGenre("Local Channel 4", ""); g != "General" {
		t.Errorf("classifyGenre = %q, want General", g)
	}
}

func TestRunSetsOriginalNameAndGenre(t *testing.T) {
	v := config.Default()
	p := New(v)
	in := []catalog.Channel{{ID: "1", Name: "ESPN HD"}}
	out := p.Run(in)
	if out[0].OriginalName != "ESPN HD" {
		t.Errorf("OriginalName = %q, want ESPN HD", out[0].OriginalName)
	}
	if out[0].Name != "ESPN" {
		t.Errorf("Name = %q, want ESPN", out[0].Name)
	}
	if out[0].Genre != "Sports" {
		t.Errorf("Genre = %q, want Sports", out[0].Genre)
	}
}

func TestRunGeneratesArtworkWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	v := config.Default()
	v.GenerateArtwork = true
	v.ArtworkDir = dir
	p := New(v)
	in := []catalog.Channel{{ID: "1", Name: "Sample Channel"}}
	out := p.Run(in)
	if out[0].Logo == "" {
		t.Fatal("expected Logo path to be set")
	}
	if _, err := os.Stat(out[0].Logo); err != nil {
		t.Fatalf("expected artwork file to exist: %v", err)
	}
}
