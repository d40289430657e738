package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/ivycast/curator/internal/httpclient"
)

// getResult carries the response body from a successful conditional GET.
// ETag/LastModified are surfaced for callers that want to cache them
// across runs; this engine's sources do not persist them between runs
// (no cross-run diffing concept exists in this domain, see DESIGN.md),
// but the resilient-fetch plumbing itself is directly reused.
type getResult struct {
	Body        []byte
	ETag        string
	LastModified string
	ContentHash string
}

// conditionalGet issues a bounded-retry GET. Returns a CF-detection
// error when a non-2xx response looks Cloudflare-proxied.
func conditionalGet(ctx context.Context, client *http.Client, url string) (*getResult, error) {
	if client == nil {
		client = httpclient.Default()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("condget: build request: %w", err)
	}
	req.Header.Set("User-Agent", "curator/1.0")

	resp, err := httpclient.DoWithRetry(ctx, client, req, httpclient.ProviderRetryPolicy)
	if err != nil {
		return nil, fmt.Errorf("condget %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if isCloudflareResponse(resp) {
			return nil, &ErrCloudflareDetected{URL: url}
		}
		return nil, fmt.Errorf("condget %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("condget %s: read body: %w", url, err)
	}
	return &getResult{
		Body:         body,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		ContentHash:  contentHash(body),
	}, nil
}

func contentHash(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:16])
}
