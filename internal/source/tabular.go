package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/errs"
	"github.com/ivycast/curator/internal/logging"
)

// TabularRepository reads a delimited file with a header row, tolerant of
// quoted fields containing the delimiter.
type TabularRepository struct {
	path     string
	log      logging.Logger
	channels []catalog.Channel
}

// columnAliases maps normalized header names to the canonical field they
// populate; stream_url/streamUrl are both accepted.
var columnAliases = map[string]string{
	"id":        "id",
	"name":      "name",
	"streamurl": "streamUrl",
	"stream_url": "streamUrl",
	"logo":      "logo",
	"genre":     "genre",
	"country":   "country",
	"language":  "language",
	"quality":   "quality",
	"type":      "type",
	"isactive":  "isActive",
	"is_active": "isActive",
}

func normalizeColumn(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

func (r *TabularRepository) Initialize(ctx context.Context) error {
	out, err := ParseTabularFile(r.path)
	if err != nil {
		return err
	}
	r.channels = out
	return nil
}

// ParseTabularFile reads a delimited file with a header row into channel
// records, using the same column-alias table and row-parsing logic as
// TabularRepository. Exported so other components (the ignore-file
// loader, in particular) can read the same file shape without opening a
// full Repository.
func ParseTabularFile(path string) ([]catalog.Channel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Source("data-loading", fmt.Sprintf("open tabular source %s", path), err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errs.Source("data-loading", fmt.Sprintf("parse tabular source %s", path), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := rows[0]
	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = columnAliases[normalizeColumn(h)]
	}

	var out []catalog.Channel
	for idx, row := range rows[1:] {
		ch := catalog.Channel{
			Type:          catalog.TypeLive,
			IsActive:      true,
			Source:        "tabular",
			OriginalIndex: idx,
			Quality:       catalog.QualityUnknown,
			Metadata:      map[string]string{},
		}
		for i, val := range row {
			if i >= len(fields) || fields[i] == "" {
				continue
			}
			applyField(&ch, fields[i], val)
		}
		ch.OriginalName = ch.Name
		if ch.StreamURL == "" {
			continue
		}
		out = append(out, ch)
	}
	return out, nil
}

func applyField(ch *catalog.Channel, field, val string) {
	switch field {
	case "id":
		ch.ID = val
	case "name":
		ch.Name = val
	case "streamUrl":
		ch.StreamURL = strings.TrimSpace(val)
	case "logo":
		ch.Logo = val
	case "genre":
		ch.Genre = val
	case "country":
		ch.Country = val
	case "language":
		ch.Language = val
	case "quality":
		ch.Quality = catalog.Quality(val)
	case "type":
		// the engine only ever emits "live"; tolerate other values on read.
	case "isActive":
		if b, err := strconv.ParseBool(val); err == nil {
			ch.IsActive = b
		}
	}
}

func (r *TabularRepository) Channels(ctx context.Context) ([]catalog.Channel, error) {
	return catalog.CloneAll(r.channels), nil
}

func (r *TabularRepository) Count() int { return len(r.channels) }
