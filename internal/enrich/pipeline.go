// Package enrich implements the EnrichmentPipeline: name cleaning,
// genre inference, and optional artwork synthesis, processed in
// bounded concurrent chunks.
package enrich

import (
	"sync"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
)

// Pipeline enriches a channel set in place (on a cloned copy).
type Pipeline struct {
	v *config.View
}

func New(v *config.View) *Pipeline {
	return &Pipeline{v: v}
}

// Run processes channels in ChunkSize batches across MaxConcurrency
// workers, following the bounded-concurrency, per-index-slot merge
// pattern used for source fetching (internal/source.HybridRepository):
// each worker only ever writes its own indices, so no locking is needed
// on the result slice itself.
func (p *Pipeline) Run(channels []catalog.Channel) []catalog.Channel {
	out := catalog.CloneAll(channels)
	chunkSize := p.v.ChunkSize
	if chunkSize <= 0 {
		chunkSize = len(out)
	}
	if chunkSize == 0 {
		return out
	}
	concurrency := p.v.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	type chunk struct{ start, end int }
	var chunks []chunk
	for start := 0; start < len(out); start += chunkSize {
		end := start + chunkSize
		if end > len(out) {
			end = len(out)
		}
		chunks = append(chunks, chunk{start, end})
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for _, c := range chunks {
		c := c
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			for i := c.start; i < c.end; i++ {
				p.enrichOne(&out[i])
			}
		}()
	}
	wg.Wait()
	return out
}

func (p *Pipeline) enrichOne(ch *catalog.Channel) {
	if ch.OriginalName == "" {
		ch.OriginalName = ch.Name
	}
	ch.Name = cleanName(ch.OriginalName)
	if ch.Genre == "" {
		ch.Genre = classifyGenre(ch.Name, ch.Genre)
	}
	if len(ch.Categories) == 0 && ch.Genre != "" {
		ch.Categories = []string{ch.Genre}
	}
	if !p.v.GenerateArtwork {
		return
	}
	paths, err := synthesizeArtwork(p.v.ArtworkDir, ch.Name, p.v.ArtworkAspectRatios)
	if err != nil {
		return
	}
	if logo, ok := paths[defaultRatio(p.v.ArtworkAspectRatios)]; ok {
		ch.Logo = logo
	}
}

func defaultRatio(ratios []string) string {
	if len(ratios) == 0 {
		return "1x1"
	}
	return ratios[0]
}
