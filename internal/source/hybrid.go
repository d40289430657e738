package source

import (
	"context"
	"net/http"
	"sync"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
	"github.com/ivycast/curator/internal/errs"
	"github.com/ivycast/curator/internal/logging"
)

// HybridRepository aggregates zero or more playlist URLs, zero or more
// local playlist files, and one optional tabular file. Remote URLs are
// fetched concurrently; everything is concatenated in declared order
// (URLs first, then local files, then the tabular file). A partial URL
// failure is logged and skipped; the whole repository only fails if
// every configured source failed.
type HybridRepository struct {
	v      *config.View
	log    logging.Logger
	client *http.Client

	channels []catalog.Channel
}

func newHybrid(v *config.View, log logging.Logger, client *http.Client) *HybridRepository {
	return &HybridRepository{v: v, log: log, client: client}
}

type sourceResult struct {
	order    int
	channels []catalog.Channel
	err      error
	label    string
}

func (r *HybridRepository) Initialize(ctx context.Context) error {
	urls := r.v.PlaylistURLs
	if len(r.v.SourcePriorityGroups) > 0 {
		urls = resolvePriorityGroups(ctx, r.v.SourcePriorityGroups, urls, r.client)
	}

	jobs := make([]func() sourceResult, 0, len(urls)+len(r.v.LocalPlaylistFiles)+1)
	order := 0
	for _, u := range urls {
		u := u
		n := order
		order++
		jobs = append(jobs, func() sourceResult {
			repo := &RemotePlaylistRepository{url: u, client: r.client, log: r.log}
			if err := repo.Initialize(ctx); err != nil {
				return sourceResult{order: n, err: err, label: u}
			}
			chs, _ := repo.Channels(ctx)
			return sourceResult{order: n, channels: chs, label: u}
		})
	}
	for _, f := range r.v.LocalPlaylistFiles {
		f := resolvePath(r.v, f)
		n := order
		order++
		jobs = append(jobs, func() sourceResult {
			repo := &LocalPlaylistRepository{path: f, log: r.log}
			if err := repo.Initialize(ctx); err != nil {
				return sourceResult{order: n, err: err, label: f}
			}
			chs, _ := repo.Channels(ctx)
			return sourceResult{order: n, channels: chs, label: f}
		})
	}
	if r.v.ChannelsFile != "" {
		f := resolvePath(r.v, r.v.ChannelsFile)
		n := order
		order++
		jobs = append(jobs, func() sourceResult {
			repo := &TabularRepository{path: f, log: r.log}
			if err := repo.Initialize(ctx); err != nil {
				return sourceResult{order: n, err: err, label: f}
			}
			chs, _ := repo.Channels(ctx)
			return sourceResult{order: n, channels: chs, label: f}
		})
	}

	results := make([]sourceResult, len(jobs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, 8)
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job func() sourceResult) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = job()
		}(i, job)
	}
	wg.Wait()

	succeeded := 0
	var merged []catalog.Channel
	idx := 0
	for _, res := range results {
		if res.err != nil {
			if r.log != nil {
				r.log.Warn("hybrid source failed, skipping", "source", res.label, "error", res.err.Error())
			}
			continue
		}
		succeeded++
		for _, ch := range res.channels {
			ch.OriginalIndex = idx
			idx++
			merged = append(merged, ch)
		}
	}
	if len(jobs) > 0 && succeeded == 0 {
		return errs.Source("data-loading", "all hybrid sources failed", nil)
	}
	r.channels = merged
	return nil
}

// resolvePriorityGroups replaces each group of equivalent URLs with the
// single fastest responder, leaving ungrouped URLs untouched.
func resolvePriorityGroups(ctx context.Context, groups [][]string, all []string, client *http.Client) []string {
	grouped := make(map[string]bool)
	for _, g := range groups {
		for _, u := range g {
			grouped[u] = true
		}
	}
	out := make([]string, 0, len(all))
	for _, u := range all {
		if !grouped[u] {
			out = append(out, u)
		}
	}
	for _, g := range groups {
		if best := bestOf(ctx, g, client); best != "" {
			out = append(out, best)
		}
	}
	return out
}

func (r *HybridRepository) Channels(ctx context.Context) ([]catalog.Channel, error) {
	return catalog.CloneAll(r.channels), nil
}

func (r *HybridRepository) Count() int { return len(r.channels) }
