package playlist

import (
	"regexp"
	"strings"

	"github.com/ivycast/curator/internal/catalog"
)

// titleSafe keeps word characters, spaces, and a small set of
// punctuation allowed in a playlist title.
var titleSafe = regexp.MustCompile(`[^\w\s\-./()\[\]]`)

// SanitizeTitle strips characters the playlist title grammar disallows.
func SanitizeTitle(name string) string {
	return strings.TrimSpace(titleSafe.ReplaceAllString(name, ""))
}

// ExtInfLine renders the #EXTINF line for one channel, with attributes
// in the documented order: group-title, tvg-logo, tvg-id, tvg-language,
// tvg-country.
func ExtInfLine(ch catalog.Channel) string {
	var b strings.Builder
	b.WriteString("#EXTINF:-1")
	if len(ch.Categories) > 0 {
		writeAttr(&b, "group-title", ch.Categories[0])
	}
	if ch.Logo != "" {
		writeAttr(&b, "tvg-logo", ch.Logo)
	}
	if id := ch.Metadata["tvg-id"]; id != "" {
		writeAttr(&b, "tvg-id", id)
	}
	if ch.Language != "" {
		writeAttr(&b, "tvg-language", ch.Language)
	}
	if ch.Country != "" {
		writeAttr(&b, "tvg-country", ch.Country)
	}
	b.WriteString(", ")
	b.WriteString(SanitizeTitle(ch.Name))
	return b.String()
}

func writeAttr(b *strings.Builder, key, val string) {
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString("=\"")
	b.WriteString(val)
	b.WriteString("\"")
}

// WriteAggregate renders the full #EXTM3U playlist body for channels.
func WriteAggregate(channels []catalog.Channel) []byte {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, ch := range channels {
		b.WriteString(ExtInfLine(ch))
		b.WriteString("\n")
		b.WriteString(ch.StreamURL)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// WriteFragment renders a single-channel playlist fragment: #EXTM3U,
// the EXTINF line, and the lowercased whitespace-stripped URL.
func WriteFragment(ch catalog.Channel) []byte {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString(ExtInfLine(ch))
	b.WriteString("\n")
	b.WriteString(strings.ToLower(strings.Join(strings.Fields(ch.StreamURL), "")))
	b.WriteString("\n")
	return []byte(b.String())
}
