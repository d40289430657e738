// Package dedup implements the DeduplicationEngine: groups channels
// that are likely the same feed, then keeps one representative per
// group using a four-level tie-break.
package dedup

import (
	"sort"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
)

// Group is a cluster of channels judged to be the same feed, plus the
// chosen representative and why the others were rejected.
type Group struct {
	Representative catalog.Channel
	Members        []catalog.Channel // includes the representative
	Rejected       []Rejected
}

// Rejected records one eliminated member of a group and why.
type Rejected struct {
	Channel catalog.Channel
	Reason  string
}

// Metrics summarizes one Run call. The coordinator copies
// DuplicatesRemoved into its Summary; the other fields are not exported
// anywhere by the coordinator.
type Metrics struct {
	ClusterCount     int
	DuplicatesRemoved int
	Efficiency       float64 // retained / input
}

// Engine clusters and reduces a channel set. Reachable is an optional,
// pre-computed map of normalized stream URL -> reachable, produced by an
// early-validation pass; when strategy is
// prioritize_working and Reachable is non-nil, it drives tie-break rule
// 1. A nil map means no early-validation data is available, and rule 1
// is skipped for every group.
type Engine struct {
	v         *config.View
	Reachable map[string]bool
}

func New(v *config.View, reachable map[string]bool) *Engine {
	return &Engine{v: v, Reachable: reachable}
}

// Run groups channels and returns the reduced set plus metrics. Order of
// the retained set follows OriginalIndex of each group's representative.
func (e *Engine) Run(channels []catalog.Channel) ([]catalog.Channel, []Group, Metrics) {
	groups := e.cluster(channels)
	var retained []catalog.Channel
	for i := range groups {
		g := &groups[i]
		g.Representative = e.pickRepresentative(g.Members)
		for _, m := range g.Members {
			if m.ID != g.Representative.ID || m.OriginalIndex != g.Representative.OriginalIndex {
				g.Rejected = append(g.Rejected, Rejected{Channel: m, Reason: "duplicate_of:" + g.Representative.ID})
			}
		}
		retained = append(retained, g.Representative)
	}
	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].OriginalIndex < retained[j].OriginalIndex
	})
	metrics := Metrics{ClusterCount: len(groups)}
	if len(channels) > 0 {
		metrics.DuplicatesRemoved = len(channels) - len(retained)
		metrics.Efficiency = float64(len(retained)) / float64(len(channels))
	}
	return retained, groups, metrics
}

// cluster partitions channels using union-find over two candidacy
// rules: identical normalized stream URL, or high name+URL similarity.
func (e *Engine) cluster(channels []catalog.Channel) []Group {
	n := len(channels)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	normNames := make([]string, n)
	normURLs := make([]string, n)
	for i, c := range channels {
		normNames[i] = NormalizeName(c.Name)
		normURLs[i] = NormalizeURL(c.StreamURL)
	}
	urlIndex := make(map[string][]int, n)
	for i, u := range normURLs {
		urlIndex[u] = append(urlIndex[u], i)
	}
	for _, idxs := range urlIndex {
		for k := 1; k < len(idxs); k++ {
			union(idxs[0], idxs[k])
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if find(i) == find(j) {
				continue
			}
			if JaccardSimilarity(normNames[i], normNames[j]) >= e.v.NameSimilarityThreshold &&
				NGramSimilarity(normURLs[i], normURLs[j], 3) >= e.v.URLSimilarityThreshold {
				union(i, j)
			}
		}
	}

	byRoot := make(map[int][]int)
	for i := 0; i < n; i++ {
		r := find(i)
		byRoot[r] = append(byRoot[r], i)
	}
	groups := make([]Group, 0, len(byRoot))
	for _, idxs := range byRoot {
		members := make([]catalog.Channel, len(idxs))
		for k, idx := range idxs {
			members[k] = channels[idx]
		}
		groups = append(groups, Group{Members: members})
	}
	return groups
}

// pickRepresentative applies the four-level tie-break rule.
func (e *Engine) pickRepresentative(members []catalog.Channel) catalog.Channel {
	best := members[0]
	for _, c := range members[1:] {
		if e.better(c, best) {
			best = c
		}
	}
	return best
}

func (e *Engine) better(a, b catalog.Channel) bool {
	if e.v.DedupStrategy == config.StrategyPrioritizeWorking && e.Reachable != nil {
		ra, rb := e.Reachable[NormalizeURL(a.StreamURL)], e.Reachable[NormalizeURL(b.StreamURL)]
		if ra != rb {
			return ra
		}
	}
	if e.v.EnableHDUpgrade {
		qa, qb := catalog.QualityRank(a.Quality), catalog.QualityRank(b.Quality)
		if qa != qb {
			return qa > qb
		}
	}
	if e.v.PreserveSourcePriority {
		pa, pb := sourceRank(e.v.SourcePriorityOrder, a.Source), sourceRank(e.v.SourcePriorityOrder, b.Source)
		if pa != pb {
			return pa < pb
		}
	}
	return a.OriginalIndex < b.OriginalIndex
}

// sourceRank returns the configured priority rank of a source tag, or
// len(order) (lowest priority) when it is not listed.
func sourceRank(order []string, source string) int {
	for i, s := range order {
		if s == source {
			return i
		}
	}
	return len(order)
}
