package emit

import (
	"regexp"
	"strings"
)

var slugDisallowed = regexp.MustCompile(`[^a-z0-9]+`)

// slug lowercases s and collapses runs of non-alphanumeric characters
// to a single hyphen, trimming leading/trailing hyphens.
func slug(s string) string {
	s = strings.ToLower(s)
	s = slugDisallowed.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
