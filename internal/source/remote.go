package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/errs"
	"github.com/ivycast/curator/internal/logging"
	"github.com/ivycast/curator/internal/playlist"
)

// remoteFetchTimeout is the bounded timeout for a remote playlist fetch.
const remoteFetchTimeout = 180 * time.Second

// RemotePlaylistRepository fetches a playlist over HTTP(S) within a
// bounded timeout, reads the whole body, then hands it to the parser.
type RemotePlaylistRepository struct {
	url    string
	client *http.Client
	log    logging.Logger

	channels []catalog.Channel
}

func (r *RemotePlaylistRepository) Initialize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, remoteFetchTimeout)
	defer cancel()

	res, err := conditionalGet(ctx, r.client, r.url)
	if err != nil {
		return errs.Source("data-loading", fmt.Sprintf("fetch remote playlist %s", r.url), err)
	}
	parsed := playlist.Parse(bytes.NewReader(res.Body), r.url)
	for _, w := range parsed.Warnings {
		if r.log != nil {
			r.log.Warn("skipped playlist line", "source", r.url, "line", w.Line, "reason", w.Message)
		}
	}
	r.channels = parsed.Channels
	return nil
}

func (r *RemotePlaylistRepository) Channels(ctx context.Context) ([]catalog.Channel, error) {
	return catalog.CloneAll(r.channels), nil
}

func (r *RemotePlaylistRepository) Count() int { return len(r.channels) }
