package source

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrCloudflareDetected is returned by conditionalGet, in place of the
// generic status error, when a non-200 response from a remote source
// carries Cloudflare headers (challenge pages, rate limits). The check
// is always on; a 200 response is accepted whatever its headers.
type ErrCloudflareDetected struct {
	URL    string
	Header string
	Value  string
}

func (e *ErrCloudflareDetected) Error() string {
	return fmt.Sprintf("cloudflare detected on %s: refusing source", e.URL)
}

var cfResponseHeaders = []string{"CF-RAY", "CF-Cache-Status", "CF-Request-ID", "CF-Worker"}

func isCloudflareResponse(resp *http.Response) bool {
	for _, h := range cfResponseHeaders {
		if resp.Header.Get(h) != "" {
			return true
		}
	}
	return strings.Contains(strings.ToLower(resp.Header.Get("Server")), "cloudflare")
}
