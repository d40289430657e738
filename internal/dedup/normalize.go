package dedup

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// redundantTokens are quality/format markers and bracketed annotations
// stripped before name comparison.
var redundantTokens = []string{
	"hd", "fhd", "uhd", "4k", "sd", "free", "vip", "backup", "raw",
}

var bracketed = regexp.MustCompile(`[\[(][^\])]*[\])]`)
var whitespace = regexp.MustCompile(`\s+`)
var brandSuffix = regexp.MustCompile(`\s*[-|]\s*(tv|channel|network)$`)

// NormalizeName lowercases, strips accents, removes bracketed
// annotations and trailing brand suffixes, drops redundant quality/
// format tokens, and collapses whitespace.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = stripAccents(s)
	s = bracketed.ReplaceAllString(s, " ")
	s = brandSuffix.ReplaceAllString(s, "")
	tokens := strings.Fields(s)
	out := tokens[:0]
	for _, t := range tokens {
		if containsToken(redundantTokens, t) {
			continue
		}
		out = append(out, t)
	}
	s = strings.Join(out, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func containsToken(set []string, tok string) bool {
	for _, s := range set {
		if s == tok {
			return true
		}
	}
	return false
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeURL lowercases and trims a stream URL for identity comparison,
// and Punycode-normalizes the host so the same domain written with
// different Unicode encodings still compares equal.
func NormalizeURL(u string) string {
	s := strings.ToLower(strings.TrimSpace(u))
	parsed, err := url.Parse(s)
	if err != nil || parsed.Host == "" {
		return s
	}
	port := parsed.Port()
	if ascii, err := idna.Lookup.ToASCII(parsed.Hostname()); err == nil {
		if port != "" {
			parsed.Host = ascii + ":" + port
		} else {
			parsed.Host = ascii
		}
		return parsed.String()
	}
	return s
}
