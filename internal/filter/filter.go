// Package filter implements the FilterEngine: rejects channels matching
// banned-name/URL/IP/CIDR/regex rules or content-class keyword lists,
// unless exempted, with a lazy, once-built RuleSet rather than
// process-wide mutable config.
package filter

import (
	"net"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
)

// Reason names why a channel was rejected.
type Reason string

const (
	ReasonBannedName    Reason = "banned_name"
	ReasonBannedURL     Reason = "banned_url"
	ReasonBannedIP      Reason = "banned_ip"
	ReasonBannedPattern Reason = "banned_pattern"
	ReasonContentClass  Reason = "content_class"
	ReasonNotAllowed    Reason = "not_allowed"
)

// Rejection records one filtered-out channel and why.
type Rejection struct {
	Channel catalog.Channel
	Reason  Reason
	Detail  string
}

// RuleSet is built once by the coordinator and passed by reference into
// the engine; no rule state is re-read from configuration after
// construction (DESIGN NOTES §9).
type RuleSet struct {
	v *config.View

	once sync.Once

	bannedNames    []string
	bannedURLs     []string
	bannedIPs      map[string]bool
	bannedRanges   []netip.Prefix
	bannedPatterns []*regexp.Regexp

	allowNames map[string]bool
	allowIPs   map[string]bool

	ignoreNames map[string]bool
	ignoreIPs   map[string]bool
	ignoreURLs  map[string]bool

	// ignoreFileChannels are records loaded from the configured
	// ignore-for-filtering files: any channel matching one by stream URL
	// or name bypasses all banning, regardless of the per-category
	// ignore lists above.
	ignoreFileChannels []catalog.Channel
	ignoreFileURLs     map[string]bool
	ignoreFileNames    map[string]bool

	religious []string
	adult     []string
	political []string

	built bool
}

// NewRuleSet returns a RuleSet that compiles its rules on first use.
// ignoreFileChannels is the already-loaded content of the configured
// ignore-for-filtering files (config.View.IgnoreFiles): the coordinator
// reads those files once at service-init and passes the resulting
// records in here, rather than the RuleSet re-entering a repository
// itself (DESIGN NOTES §9's dependency inversion for this cycle).
func NewRuleSet(v *config.View, ignoreFileChannels []catalog.Channel) *RuleSet {
	return &RuleSet{v: v, ignoreFileChannels: ignoreFileChannels}
}

// NeedsReload reports whether the underlying View has changed since the
// RuleSet was built. This engine's
// View is immutable for the duration of a run, so it always reports
// false once built; the hook exists so a long-lived host process could
// invalidate and rebuild between runs.
func (rs *RuleSet) NeedsReload() bool { return false }

func (rs *RuleSet) ensureBuilt() {
	rs.once.Do(func() {
		rs.bannedNames = lowerAll(rs.v.BannedNames)
		rs.bannedURLs = lowerAll(rs.v.BannedURLs)
		rs.bannedIPs = toSet(rs.v.BannedIPs)
		for _, cidr := range rs.v.BannedIPRanges {
			if p, err := netip.ParsePrefix(cidr); err == nil {
				rs.bannedRanges = append(rs.bannedRanges, p)
			}
		}
		for _, pat := range rs.v.BannedRegexes {
			if re, err := regexp.Compile(pat); err == nil {
				rs.bannedPatterns = append(rs.bannedPatterns, re)
			}
		}
		rs.allowNames = toSet(lowerAll(rs.v.AllowedChannels))
		rs.allowIPs = toSet(rs.v.AllowedIPs)
		rs.ignoreNames = toSet(lowerAll(rs.v.IgnoreNamesForFiltering))
		rs.ignoreIPs = toSet(rs.v.IgnoreIPsForFiltering)
		rs.ignoreURLs = toSet(rs.v.IgnoreURLsForFiltering)
		rs.ignoreFileURLs = make(map[string]bool, len(rs.ignoreFileChannels))
		rs.ignoreFileNames = make(map[string]bool, len(rs.ignoreFileChannels))
		for _, ch := range rs.ignoreFileChannels {
			if ch.StreamURL != "" {
				rs.ignoreFileURLs[strings.ToLower(ch.StreamURL)] = true
			}
			if ch.Name != "" {
				rs.ignoreFileNames[strings.ToLower(ch.Name)] = true
			}
		}
		rs.religious = lowerAll(rs.v.ReligiousKeywords)
		rs.adult = lowerAll(rs.v.AdultKeywords)
		rs.political = lowerAll(rs.v.PoliticalKeywords)
		rs.built = true
	})
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func toSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, s := range in {
		out[strings.ToLower(s)] = true
	}
	return out
}

// Engine applies a RuleSet to a channel list.
type Engine struct {
	rules *RuleSet
}

func New(rules *RuleSet) *Engine {
	return &Engine{rules: rules}
}

// Apply partitions channels into those retained and those rejected.
func (e *Engine) Apply(channels []catalog.Channel) (kept []catalog.Channel, rejected []Rejection) {
	e.rules.ensureBuilt()
	for _, ch := range channels {
		if reason, detail, ok := e.rules.matches(ch); ok {
			rejected = append(rejected, Rejection{Channel: ch, Reason: reason, Detail: detail})
			continue
		}
		kept = append(kept, ch)
	}
	return kept, rejected
}

// matches reports whether ch should be rejected, and why.
func (rs *RuleSet) matches(ch catalog.Channel) (Reason, string, bool) {
	nameLower := strings.ToLower(ch.Name)
	host := hostOf(ch.StreamURL)

	if rs.v.AllowListMode && !rs.allowNames[nameLower] && !rs.allowIPs[host] {
		return ReasonNotAllowed, "not in allow-list", true
	}

	urlLower := strings.ToLower(ch.StreamURL)
	exemptName := rs.ignoreNames[nameLower]
	exemptURL := rs.ignoreURLs[urlLower]
	exemptIP := rs.ignoreIPs[host]
	ignoreFileExempt := rs.ignoreFileURLs[urlLower] || rs.ignoreFileNames[nameLower]
	fullyExempt := (exemptName && exemptURL && exemptIP) || ignoreFileExempt

	if !fullyExempt {
		if !exemptName {
			for _, b := range rs.bannedNames {
				if strings.Contains(nameLower, b) {
					return ReasonBannedName, b, true
				}
			}
			for _, re := range rs.bannedPatterns {
				if re.MatchString(ch.Name) {
					return ReasonBannedPattern, re.String(), true
				}
			}
		}
		if !exemptURL {
			for _, b := range rs.bannedURLs {
				if strings.Contains(urlLower, b) {
					return ReasonBannedURL, b, true
				}
			}
		}
		if !exemptIP && host != "" {
			if rs.bannedIPs[host] {
				return ReasonBannedIP, host, true
			}
			if addr, err := netip.ParseAddr(host); err == nil {
				for _, p := range rs.bannedRanges {
					if p.Contains(addr) {
						return ReasonBannedIP, p.String(), true
					}
				}
			}
		}
	}

	if !exemptName && !ignoreFileExempt {
		all := " " + nameLower + " "
		if rs.v.FilterReligiousContent && containsAny(all, rs.religious) {
			return ReasonContentClass, "religious", true
		}
		if rs.v.FilterAdultContent && containsAny(all, rs.adult) {
			return ReasonContentClass, "adult", true
		}
		if rs.v.FilterPoliticalContent && containsAny(all, rs.political) {
			return ReasonContentClass, "political", true
		}
	}
	return "", "", false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	h := u.Hostname()
	if ip := net.ParseIP(h); ip != nil {
		return ip.String()
	}
	return h
}
