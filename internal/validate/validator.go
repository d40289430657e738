// Package validate implements the StreamValidator: probes each
// channel's stream URL for reachability, with a TTL'd cache and a
// failure taxonomy finer than a bare boolean.
package validate

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
	"github.com/ivycast/curator/internal/dedup"
	"github.com/ivycast/curator/internal/httpclient"
	"github.com/ivycast/curator/internal/probe"
)

// Status is the outcome taxonomy for one validation attempt.
type Status string

const (
	StatusReachable   Status = "reachable"
	StatusUnreachable Status = "unreachable"
	StatusTimeout     Status = "timeout"
	StatusDNSFailure  Status = "dns_failure"
	StatusTLSFailure  Status = "tls_failure"
)

// Result is one channel's validation verdict.
type Result struct {
	Status     Status
	StreamType probe.StreamType
}

func (r Result) Reachable() bool { return r.Status == StatusReachable }

// Validator probes stream URLs, consulting and updating a Cache.
type Validator struct {
	v      *config.View
	client *http.Client
	cache  *Cache
}

func New(v *config.View, client *http.Client, cache *Cache) *Validator {
	if client == nil {
		client = httpclient.Default()
		client.Timeout = v.StreamValidationTimeout
	}
	return &Validator{v: v, client: client, cache: cache}
}

// Run validates every channel's stream URL, bounded by
// ValidationConcurrency and processed in ValidationBatchSize batches (a
// batch boundary only matters for logging/backpressure here, since each
// channel is independent). It returns a verdict per channel ID and a
// normalized-URL reachability map suitable for dedup.Engine's early-
// validation tie-break input.
func (v *Validator) Run(ctx context.Context, channels []catalog.Channel) (map[string]Result, map[string]bool) {
	results := make(map[string]Result, len(channels))
	reachable := make(map[string]bool, len(channels))
	var mu sync.Mutex

	concurrency := v.v.ValidationConcurrency
	if concurrency <= 0 {
		concurrency = 15
	}
	batchSize := v.v.ValidationBatchSize
	if batchSize <= 0 {
		batchSize = len(channels)
	}

	for start := 0; start < len(channels); start += batchSize {
		end := start + batchSize
		if end > len(channels) {
			end = len(channels)
		}
		batch := channels[start:end]

		sem := make(chan struct{}, concurrency)
		var wg sync.WaitGroup
		for _, ch := range batch {
			ch := ch
			wg.Add(1)
			sem <- struct{}{}
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				r := v.validateOne(ctx, ch.StreamURL)
				mu.Lock()
				results[ch.ID] = r
				reachable[dedup.NormalizeURL(ch.StreamURL)] = r.Reachable()
				mu.Unlock()
			}()
		}
		wg.Wait()
	}
	return results, reachable
}

func (v *Validator) validateOne(ctx context.Context, url string) Result {
	if v.cache != nil {
		if r, ok := v.cache.Get(url); ok {
			return r
		}
	}
	r := v.probe(ctx, url)
	if v.cache != nil {
		v.cache.Put(url, r, time.Now())
	}
	return r
}

func (v *Validator) probe(ctx context.Context, url string) Result {
	timeout := v.v.StreamValidationTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		st, code, err := probe.Probe(url, v.client)
		if err != nil {
			done <- Result{Status: classify(err)}
			return
		}
		if code < 200 || code >= 400 {
			done <- Result{Status: StatusUnreachable, StreamType: st}
			return
		}
		done <- Result{Status: StatusReachable, StreamType: st}
	}()

	select {
	case <-reqCtx.Done():
		return Result{Status: StatusTimeout}
	case r := <-done:
		return r
	}
}

// classify maps a probe error to the failure taxonomy.
func classify(err error) Status {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return StatusDNSFailure
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return StatusTimeout
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "tls") || strings.Contains(msg, "x509") || strings.Contains(msg, "certificate") {
		return StatusTLSFailure
	}
	return StatusUnreachable
}
