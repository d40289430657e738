// Package emit implements the Emitter: writes the tabular catalog, the
// aggregated playlist, and per-channel playlist fragments.
package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
	"github.com/ivycast/curator/internal/playlist"
)

// Emitter writes final artifacts, grounded on catalog.go's atomic
// temp-file-then-rename Save for the CSV and aggregated playlist.
type Emitter struct {
	v *config.View
}

func New(v *config.View) *Emitter {
	return &Emitter{v: v}
}

// Run writes the CSV, the aggregated playlist, then the fragments, and
// stops at the first error, returning it; artifacts after the failing
// one are not written.
func (e *Emitter) Run(channels []catalog.Channel) error {
	if err := e.writeCSV(channels); err != nil {
		return fmt.Errorf("emit: csv: %w", err)
	}
	if err := e.writeAggregatePlaylist(channels); err != nil {
		return fmt.Errorf("emit: aggregate playlist: %w", err)
	}
	if err := e.writeFragments(channels); err != nil {
		return fmt.Errorf("emit: fragments: %w", err)
	}
	return nil
}

func (e *Emitter) writeCSV(channels []catalog.Channel) error {
	path := e.v.ValidatedCatalogPath
	if e.v.EnableBackup {
		backupExisting(path)
	}
	body, err := renderCSV(channels)
	if err != nil {
		return err
	}
	return catalog.WriteFileAtomic(path, body, "tv-*.csv.tmp")
}

func (e *Emitter) writeAggregatePlaylist(channels []catalog.Channel) error {
	path := e.v.PlaylistOutputPath
	if e.v.EnableBackup {
		backupExisting(path)
	}
	body := playlist.WriteAggregate(channels)
	return catalog.WriteFileAtomic(path, body, "channels-*.m3u.tmp")
}

// writeFragments wipes the fragment directory then writes one file per
// channel; the directory is wiped before emission rather than
// reconciled file-by-file (not satisfied by an atomic directory swap).
func (e *Emitter) writeFragments(channels []catalog.Channel) error {
	dir := e.v.PerChannelPlaylistDir
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	used := make(map[string]int, len(channels))
	for _, ch := range channels {
		base := slug(ch.Name) + "_" + slug(ch.ID)
		name := uniquify(used, base)
		path := filepath.Join(dir, name+".m3u8")
		body := playlist.WriteFragment(ch)
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func uniquify(used map[string]int, base string) string {
	n := used[base]
	used[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n+1)
}

// backupExisting renames an existing file aside with a timestamp
// suffix before it gets overwritten. Errors are ignored: a missing
// prior file is the common case, not a failure.
func backupExisting(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().UTC().Format("20060102T150405Z"))
	os.Rename(path, backup)
}
