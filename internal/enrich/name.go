package enrich

import (
	"regexp"
	"strings"

	"github.com/ivycast/curator/internal/catalog"
)

// redundantNameTokens mirrors dedup's quality/format markers; cleaning
// strips them from the display name while leaving the original name
// intact for comparison/debugging.
var redundantNameTokens = regexp.MustCompile(`(?i)\s*[\[(]?\b(hd|fhd|uhd|4k|sd|free|vip|backup|raw)\b[\])]?\s*`)
var multiSpace = regexp.MustCompile(`\s+`)

// qualityToken finds the first recognized quality marker in a name, case
// insensitive, independent of cleanName's stripping.
var qualityToken = regexp.MustCompile(`(?i)\b(fhd|uhd|4k|hd|sd)\b`)

// nameQuality maps the tokens qualityToken can capture to a catalog
// Quality, highest-resolution spelling first.
var nameQuality = map[string]catalog.Quality{
	"4k":  catalog.Quality4K,
	"uhd": catalog.QualityUHD,
	"fhd": catalog.QualityFHD,
	"hd":  catalog.QualityHD,
	"sd":  catalog.QualitySD,
}

// InferQuality extracts an HD/FHD/UHD/4K/SD marker from a channel name.
// Playlist sources carry no explicit quality column, so without this the
// dedup engine's HD-upgrade tie-break has no signal to act on for any
// non-tabular input.
func InferQuality(name string) catalog.Quality {
	m := qualityToken.FindStringSubmatch(name)
	if m == nil {
		return catalog.QualityUnknown
	}
	return nameQuality[strings.ToLower(m[1])]
}

// cleanName strips redundant quality/format tokens and collapses
// whitespace. If cleaning would leave nothing, the original name is
// kept: an enrichment pass must never produce an empty display name.
func cleanName(name string) string {
	cleaned := redundantNameTokens.ReplaceAllString(name, " ")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return name
	}
	return cleaned
}
