package dedup

import (
	"testing"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
)

func TestNormalizeNameDropsRedundantTokens(t *testing.T) {
	got := NormalizeName("CNN HD [Backup]")
	if got != "cnn" {
		t.Fatalf("NormalizeName = %q, want cnn", got)
	}
}

func TestRunIdenticalURLDuplicatesCollapse(t *testing.T) {
	v := config.Default()
	e := New(v, nil)
	channels := []catalog.Channel{
		{ID: "1", Name: "CNN", StreamURL: "http://x/stream", OriginalIndex: 0},
		{ID: "2", Name: "CNN", StreamURL: "HTTP://X/STREAM", OriginalIndex: 1},
	}
	retained, groups, metrics := e.Run(channels)
	if len(retained) != 1 {
		t.Fatalf("expected 1 retained, got %d", len(retained))
	}
	if metrics.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", metrics.DuplicatesRemoved)
	}
	if len(groups) != 1 || len(groups[0].Rejected) != 1 {
		t.Fatalf("expected 1 group with 1 rejected member: %+v", groups)
	}
}

func TestRunMonotonicity(t *testing.T) {
	v := config.Default()
	e := New(v, nil)
	channels := []catalog.Channel{
		{ID: "1", Name: "CNN", StreamURL: "http://a", OriginalIndex: 0},
		{ID: "2", Name: "ESPN", StreamURL: "http://b", OriginalIndex: 1},
	}
	retained, _, _ := e.Run(channels)
	if len(retained) > len(channels) {
		t.Fatalf("retained count must never exceed input: %d > %d", len(retained), len(channels))
	}
}

func TestRepresentativeSelectionHDUpgrade(t *testing.T) {
	v := config.Default()
	v.EnableHDUpgrade = true
	e := New(v, nil)
	channels := []catalog.Channel{
		{ID: "1", Name: "CNN", StreamURL: "http://x/a", Quality: catalog.QualitySD, OriginalIndex: 0},
		{ID: "2", Name: "CNN", StreamURL: "http://x/a", Quality: catalog.QualityHD, OriginalIndex: 1},
	}
	retained, _, _ := e.Run(channels)
	if len(retained) != 1 || retained[0].Quality != catalog.QualityHD {
		t.Fatalf("expected HD representative kept: %+v", retained)
	}
}
