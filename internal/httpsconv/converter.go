// Package httpsconv implements the HttpsToHttpConverter: for every
// https:// channel, optionally probe an http:// rewrite and swap it in
// if reachable. A conversion never drops a channel on its own; failure
// leaves the original URL intact.
package httpsconv

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
	"github.com/ivycast/curator/internal/httpclient"
)

// Converter rewrites https:// stream URLs to http:// when enabled.
type Converter struct {
	v      *config.View
	client *http.Client
}

func New(v *config.View, client *http.Client) *Converter {
	if client == nil {
		client = httpclient.Default()
	}
	return &Converter{v: v, client: client}
}

// Run returns a channel set with https:// URLs rewritten to http://
// where the rewrite is enabled and, if ValidateHTTPConversion is set,
// confirmed reachable.
func (c *Converter) Run(ctx context.Context, channels []catalog.Channel) []catalog.Channel {
	if !c.v.ConvertHTTPSToHTTP {
		return catalog.CloneAll(channels)
	}
	out := catalog.CloneAll(channels)
	limit := c.v.HTTPConversionMaxRetries
	if limit <= 0 {
		limit = 4
	}
	sem := semaphore.NewWeighted(int64(limit))
	var wg sync.WaitGroup
	for i := range out {
		if !strings.HasPrefix(out[i].StreamURL, "https://") {
			continue
		}
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)
			candidate := "http://" + strings.TrimPrefix(out[i].StreamURL, "https://")
			if !c.v.ValidateHTTPConversion {
				out[i].StreamURL = candidate
				return
			}
			if c.probe(ctx, candidate) {
				out[i].StreamURL = candidate
			}
		}()
	}
	wg.Wait()
	return out
}

// probe issues a GET and reports whether the candidate answered with a
// 2xx/3xx status; the body is not inspected.
func (c *Converter) probe(ctx context.Context, url string) bool {
	timeout := c.v.HTTPConversionTimeout
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", "curator/1.0")
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
