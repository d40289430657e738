package httpclient

import (
	"net/http"
	"time"
)

// Default returns an HTTP client with timeouts so that a dead upstream
// doesn't hang a fetch or probe forever.
func Default() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			ResponseHeaderTimeout: 15 * time.Second,
			ExpectContinueTimeout: 5 * time.Second,
			IdleConnTimeout:       30 * time.Second,
		},
	}
}

// ForStreaming returns a client with no overall timeout (stream may be long-lived) but
// ResponseHeaderTimeout so that failover can happen when the upstream never responds.
func ForStreaming() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			ResponseHeaderTimeout: 15 * time.Second,
			ExpectContinueTimeout: 5 * time.Second,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}
