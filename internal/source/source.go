// Package source implements the SourceRepository family: a
// tagged-variant factory returning one of Tabular/RemotePlaylist/
// LocalPlaylist/Hybrid/DirectURL repositories behind a single Repository
// interface, using a composition-root idiom (no base class).
package source

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
	"github.com/ivycast/curator/internal/errs"
	"github.com/ivycast/curator/internal/httpclient"
	"github.com/ivycast/curator/internal/logging"
)

// Repository is the capability every SourceRepository variant exposes.
type Repository interface {
	Initialize(ctx context.Context) error
	Channels(ctx context.Context) ([]catalog.Channel, error)
	Count() int
}

// New selects a Repository variant from v.ChannelsSource, or infers one
// from ChannelsFile's shape when ChannelsSource is empty or "automatic".
func New(v *config.View, log logging.Logger, client *http.Client) (Repository, error) {
	if client == nil {
		client = httpclient.Default()
	}
	sourceType := v.ChannelsSource
	if sourceType == "" || sourceType == config.SourceAutomatic {
		sourceType = detectSourceType(v.ChannelsFile)
	}
	switch sourceType {
	case config.SourceTabular:
		return &TabularRepository{path: resolvePath(v, v.ChannelsFile), log: log}, nil
	case config.SourceRemotePlaylist:
		return &RemotePlaylistRepository{url: v.ChannelsFile, client: client, log: log}, nil
	case config.SourceDirectURL:
		return &RemotePlaylistRepository{url: v.ChannelsFile, client: client, log: log}, nil
	case config.SourceLocalPlaylist:
		return &LocalPlaylistRepository{path: resolvePath(v, v.ChannelsFile), log: log}, nil
	case config.SourceHybrid:
		return newHybrid(v, log, client), nil
	default:
		return nil, errs.Configuration("service-init", fmt.Sprintf("unknown source type %q", sourceType), nil)
	}
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// detectSourceType infers a SourceType from ChannelsFile's shape: an
// http(s) URL is a direct stream, .m3u/.m3u8 is a local playlist, and
// anything else (notably .csv/.tsv) is treated as tabular, the
// historical default for a bare local path.
func detectSourceType(channelsFile string) config.SourceType {
	if looksLikeURL(channelsFile) {
		return config.SourceDirectURL
	}
	switch strings.ToLower(filepath.Ext(channelsFile)) {
	case ".m3u", ".m3u8":
		return config.SourceLocalPlaylist
	default:
		return config.SourceTabular
	}
}

// resolvePath resolves a configured source path against BaseDir, except
// paths beginning "data/" which resolve against ProjectRoot instead.
func resolvePath(v *config.View, path string) string {
	if path == "" {
		return path
	}
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "data/") {
		return filepath.Join(v.ProjectRoot, path)
	}
	return filepath.Join(v.BaseDir, path)
}
