package source

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// probeStatus classifies the outcome of probing a candidate playlist URL.
type probeStatus string

const (
	probeOK      probeStatus = "ok"
	probeBad     probeStatus = "bad_status"
	probeTimeout probeStatus = "timeout"
	probeError   probeStatus = "error"
)

type probeResult struct {
	URL       string
	Status    probeStatus
	LatencyMs int64
}

// probeOne fetches url with a short timeout and classifies the result.
func probeOne(ctx context.Context, url string, client *http.Client) probeResult {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return probeResult{URL: url, Status: probeError, LatencyMs: time.Since(start).Milliseconds()}
	}
	req.Header.Set("User-Agent", "curator/1.0")
	resp, err := client.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		if ctx.Err() != nil {
			return probeResult{URL: url, Status: probeTimeout, LatencyMs: latency}
		}
		return probeResult{URL: url, Status: probeError, LatencyMs: latency}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return probeResult{URL: url, Status: probeBad, LatencyMs: latency}
	}
	return probeResult{URL: url, Status: probeOK, LatencyMs: latency}
}

// bestOf probes every URL in a priority group and returns the fastest
// OK responder, or "" if none responded OK.
func bestOf(ctx context.Context, urls []string, client *http.Client) string {
	results := make([]probeResult, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		results = append(results, probeOne(ctx, u, client))
	}
	sort.Slice(results, func(i, j int) bool {
		okI, okJ := results[i].Status == probeOK, results[j].Status == probeOK
		if okI != okJ {
			return okI
		}
		return results[i].LatencyMs < results[j].LatencyMs
	})
	if len(results) > 0 && results[0].Status == probeOK {
		return results[0].URL
	}
	return ""
}
