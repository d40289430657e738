// Package order implements the OrderingService: places priority
// channels first, then sorts the remainder by category.
package order

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
)

var punctuation = regexp.MustCompile(`[^\w\s]+`)

// normalize lowercases and strips punctuation for whole-word priority
// name matching.
func normalize(s string) string {
	s = punctuation.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Service sequences a channel set into final emission order.
type Service struct {
	v *config.View
}

func New(v *config.View) *Service {
	return &Service{v: v}
}

// Run returns channels in final emission order.
func (s *Service) Run(channels []catalog.Channel) []catalog.Channel {
	placed := make(map[int]bool, len(channels))
	var out []catalog.Channel

	for _, name := range s.v.PriorityChannels {
		want := normalize(name)
		if want == "" {
			continue
		}
		count := 0
		for i := range channels {
			if count >= 2 {
				break
			}
			if placed[i] {
				continue
			}
			if normalize(channels[i].Name) == want {
				out = append(out, channels[i])
				placed[i] = true
				count++
			}
		}
	}

	remaining := make([]catalog.Channel, 0, len(channels)-len(out))
	for i, c := range channels {
		if !placed[i] {
			remaining = append(remaining, c)
		}
	}

	rank := make(map[string]int, len(s.v.CategoryOrder))
	for i, cat := range s.v.CategoryOrder {
		rank[strings.ToLower(cat)] = i
	}
	unlisted := len(s.v.CategoryOrder)

	sort.SliceStable(remaining, func(i, j int) bool {
		ci, cj := strings.ToLower(remaining[i].Genre), strings.ToLower(remaining[j].Genre)
		ri, riOK := rank[ci]
		rj, rjOK := rank[cj]
		if !riOK {
			ri = unlisted
		}
		if !rjOK {
			rj = unlisted
		}
		if ri != rj {
			return ri < rj
		}
		if !riOK && !rjOK && ci != cj {
			return ci < cj
		}
		return remaining[i].OriginalIndex < remaining[j].OriginalIndex
	})

	return append(out, remaining...)
}
