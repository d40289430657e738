package emit

import (
	"bytes"
	"encoding/csv"

	"github.com/ivycast/curator/internal/catalog"
)

var csvHeader = []string{
	"id", "name", "streamUrl", "logo", "genre", "country", "language",
	"quality", "type", "isActive",
}

// renderCSV writes the tabular catalog body.
func renderCSV(channels []catalog.Channel) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, ch := range channels {
		record := []string{
			ch.ID, ch.Name, ch.StreamURL, ch.Logo, ch.Genre, ch.Country,
			ch.Language, string(ch.Quality), ch.Type, boolString(ch.IsActive),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
