package source

import (
	"context"
	"fmt"
	"os"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/errs"
	"github.com/ivycast/curator/internal/logging"
	"github.com/ivycast/curator/internal/playlist"
)

// LocalPlaylistRepository reads a playlist from a local text file.
type LocalPlaylistRepository struct {
	path string
	log  logging.Logger

	channels []catalog.Channel
}

func (r *LocalPlaylistRepository) Initialize(ctx context.Context) error {
	f, err := os.Open(r.path)
	if err != nil {
		return errs.Source("data-loading", fmt.Sprintf("open local playlist %s", r.path), err)
	}
	defer f.Close()

	parsed := playlist.Parse(f, r.path)
	for _, w := range parsed.Warnings {
		if r.log != nil {
			r.log.Warn("skipped playlist line", "source", r.path, "line", w.Line, "reason", w.Message)
		}
	}
	r.channels = parsed.Channels
	return nil
}

func (r *LocalPlaylistRepository) Channels(ctx context.Context) ([]catalog.Channel, error) {
	return catalog.CloneAll(r.channels), nil
}

func (r *LocalPlaylistRepository) Count() int { return len(r.channels) }
