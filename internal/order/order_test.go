package order

import (
	"testing"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
)

func TestRunPlacesPriorityChannelsFirst(t *testing.T) {
	v := config.Default()
	v.PriorityChannels = []string{"ESPN"}
	s := New(v)
	channels := []catalog.Channel{
		{Name: "CNN", OriginalIndex: 0},
		{Name: "ESPN", OriginalIndex: 1},
		{Name: "BBC", OriginalIndex: 2},
	}
	out := s.Run(channels)
	if out[0].Name != "ESPN" {
		t.Fatalf("expected ESPN first, got %q", out[0].Name)
	}
	if len(out) != 3 {
		t.Fatalf("expected all channels retained, got %d", len(out))
	}
}

func TestRunPlacesAtMostTwoPriorityMatches(t *testing.T) {
	v := config.Default()
	v.PriorityChannels = []string{"ESPN"}
	s := New(v)
	channels := []catalog.Channel{
		{Name: "ESPN", OriginalIndex: 0},
		{Name: "ESPN", OriginalIndex: 1},
		{Name: "ESPN", OriginalIndex: 2},
	}
	out := s.Run(channels)
	priorityCount := 0
	for _, c := range out[:2] {
		if c.Name == "ESPN" {
			priorityCount++
		}
	}
	if priorityCount != 2 {
		t.Fatalf("expected exactly 2 priority placements, got %d among first 2", priorityCount)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 channels total, got %d", len(out))
	}
}

func TestRunSortsByCategoryOrderThenAlphabeticalThenOriginalIndex(t *testing.T) {
	v := config.Default()
	v.CategoryOrder = []string{"news", "sports"}
	s := New(v)
	channels := []catalog.Channel{
		{Name: "A", Genre: "Kids", OriginalIndex: 0},
		{Name: "B", Genre: "Sports", OriginalIndex: 1},
		{Name: "C", Genre: "News", OriginalIndex: 2},
		{Name: "D", Genre: "Animals", OriginalIndex: 3},
	}
	out := s.Run(channels)
	var order []string
	for _, c := range out {
		order = append(order, c.Name)
	}
	want := []string{"C", "B", "D", "A"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRunIsStableWithinCategory(t *testing.T) {
	v := config.Default()
	s := New(v)
	channels := []catalog.Channel{
		{Name: "A", Genre: "News", OriginalIndex: 5},
		{Name: "B", Genre: "News", OriginalIndex: 2},
	}
	out := s.Run(channels)
	if out[0].Name != "B" || out[1].Name != "A" {
		t.Fatalf("expected OriginalIndex order within category (B then A), got %v, %v", out[0].Name, out[1].Name)
	}
}
