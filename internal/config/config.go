// Package config defines the ConfigView external collaborator: a plain
// value object carrying every tunable the pipeline reads. Loading it
// from the environment is an ambient, out-of-scope concern
// the CLI layer owns (see cmd/curator); this package only defines the
// shape and the env-loading helpers the CLI uses to build one.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// SourceType names a SourceRepository variant. The canonical spelling is
// RemotePlaylist; remote_m3u/remote_m3U are accepted as deprecated
// aliases and normalized by NormalizeSourceType.
type SourceType string

const (
	SourceTabular        SourceType = "tabular"
	SourceRemotePlaylist SourceType = "remote_playlist"
	SourceLocalPlaylist  SourceType = "local_playlist"
	SourceHybrid         SourceType = "hybrid"
	SourceDirectURL      SourceType = "direct_url"
	// SourceAutomatic defers the variant choice to the repository
	// factory, which inspects ChannelsFile's shape (URL vs. path) the
	// same way an empty ChannelsSource already does.
	SourceAutomatic SourceType = "automatic"
)

// NormalizeSourceType canonicalizes deprecated aliases.
func NormalizeSourceType(s string) SourceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remote_m3u", "remote_m3u8":
		return SourceRemotePlaylist
	case string(SourceTabular):
		return SourceTabular
	case string(SourceLocalPlaylist):
		return SourceLocalPlaylist
	case string(SourceHybrid):
		return SourceHybrid
	case string(SourceDirectURL):
		return SourceDirectURL
	case string(SourceAutomatic):
		return SourceAutomatic
	default:
		return SourceType(strings.ToLower(strings.TrimSpace(s)))
	}
}

// DedupStrategy selects the DeduplicationEngine's representative
// selection behavior.
type DedupStrategy string

const (
	StrategyPrioritizeWorking DedupStrategy = "prioritize_working"
	StrategyFirstSeen         DedupStrategy = "first_seen"
)

// View is the pipeline's configuration object.
type View struct {
	// Sources
	ChannelsSource       SourceType
	ChannelsFile         string
	PlaylistURLs         []string
	LocalPlaylistFiles   []string
	BaseDir              string
	ProjectRoot          string
	SourcePriorityGroups [][]string // declared per-source priority groups
	SourcePriorityOrder  []string   // declared source tags, earliest = highest priority

	// Outputs
	ValidatedCatalogPath  string
	PlaylistOutputPath    string
	PerChannelPlaylistDir string
	EnableBackup          bool

	// Ordering
	PriorityChannels []string
	CategoryOrder    []string

	// Filtering
	BannedNames             []string
	BannedURLs               []string
	BannedIPs                []string
	BannedIPRanges           []string
	BannedRegexes            []string
	AllowedChannels          []string
	AllowedIPs               []string
	AllowListMode            bool
	IgnoreNamesForFiltering  []string
	IgnoreIPsForFiltering    []string
	IgnoreURLsForFiltering   []string
	IgnoreFiles              []string
	FilterReligiousContent   bool
	FilterAdultContent       bool
	FilterPoliticalContent   bool
	ReligiousKeywords        []string
	AdultKeywords            []string
	PoliticalKeywords        []string

	// Validation
	EnableStreamValidation   bool
	RemoveInvalidStreams     bool
	StreamValidationTimeout  time.Duration
	ValidationConcurrency    int
	ValidationBatchSize      int
	ValidationRetries        int
	ValidationRetryDelay     time.Duration
	ReachabilityCacheSize    int
	ReachabilityCacheTTL     time.Duration
	ReachabilityCachePath    string // supplemented: sqlite-backed persistence

	// HTTPS->HTTP conversion
	ConvertHTTPSToHTTP      bool
	ValidateHTTPConversion  bool
	HTTPConversionTimeout   time.Duration
	HTTPConversionMaxRetries int

	// Deduplication
	NameSimilarityThreshold float64
	URLSimilarityThreshold  float64
	EnableHDUpgrade         bool
	PreserveSourcePriority  bool
	DedupStrategy           DedupStrategy

	// Enrichment
	ChunkSize            int
	MaxConcurrency       int
	ArtworkDir           string
	GenerateArtwork      bool       // synthesize placeholder artwork for every channel; it replaces any existing Logo
	ArtworkAspectRatios  []string   // supplemented, e.g. "1x1","16x9"

	// Ambient / supplemented
	MetricsEnabled bool
}

// Default returns a View populated with the documented defaults.
func Default() *View {
	return &View{
		ChannelsSource:          SourceTabular,
		ValidatedCatalogPath:    "data/tv.csv",
		PlaylistOutputPath:      "data/channels.m3u",
		PerChannelPlaylistDir:   "data/m3u8",
		EnableStreamValidation:  true,
		RemoveInvalidStreams:    false,
		StreamValidationTimeout: 45 * time.Second,
		ValidationConcurrency:   15,
		ValidationBatchSize:     30,
		ValidationRetries:       0,
		ValidationRetryDelay:    2 * time.Second,
		ReachabilityCacheSize:   1000,
		ReachabilityCacheTTL:    time.Hour,
		ConvertHTTPSToHTTP:      false,
		ValidateHTTPConversion: false,
		HTTPConversionTimeout:    20 * time.Second,
		HTTPConversionMaxRetries: 4,
		NameSimilarityThreshold:  0.95,
		URLSimilarityThreshold:   0.98,
		EnableHDUpgrade:          true,
		PreserveSourcePriority:   true,
		DedupStrategy:            StrategyPrioritizeWorking,
		ChunkSize:                15,
		MaxConcurrency:           4,
		ArtworkDir:               "data/artwork",
		GenerateArtwork:          false,
		ArtworkAspectRatios:      []string{"1x1"},
	}
}

// Load builds a View from environment variables, layered on top of
// Default(), using the getEnv/getEnvInt/getEnvBool/getEnvDuration
// idiom: a plain env-loading shim rather than a config framework.
func Load() *View {
	v := Default()
	v.ChannelsSource = NormalizeSourceType(getEnv("CURATOR_SOURCE_TYPE", string(v.ChannelsSource)))
	v.ChannelsFile = getEnv("CURATOR_CHANNELS_FILE", v.ChannelsFile)
	v.PlaylistURLs = getEnvList("CURATOR_PLAYLIST_URLS", nil)
	v.LocalPlaylistFiles = getEnvList("CURATOR_LOCAL_PLAYLIST_FILES", nil)
	v.BaseDir = getEnv("CURATOR_BASE_DIR", ".")
	v.ProjectRoot = getEnv("CURATOR_PROJECT_ROOT", ".")

	v.ValidatedCatalogPath = getEnv("CURATOR_CATALOG_PATH", v.ValidatedCatalogPath)
	v.PlaylistOutputPath = getEnv("CURATOR_PLAYLIST_PATH", v.PlaylistOutputPath)
	v.PerChannelPlaylistDir = getEnv("CURATOR_FRAGMENT_DIR", v.PerChannelPlaylistDir)
	v.EnableBackup = getEnvBool("CURATOR_ENABLE_BACKUP", v.EnableBackup)

	v.PriorityChannels = getEnvList("CURATOR_PRIORITY_CHANNELS", nil)
	v.CategoryOrder = getEnvList("CURATOR_CATEGORY_ORDER", nil)

	v.BannedNames = getEnvList("CURATOR_BANNED_NAMES", nil)
	v.BannedURLs = getEnvList("CURATOR_BANNED_URLS", nil)
	v.BannedIPs = getEnvList("CURATOR_BANNED_IPS", nil)
	v.BannedIPRanges = getEnvList("CURATOR_BANNED_IP_RANGES", nil)
	v.BannedRegexes = getEnvList("CURATOR_BANNED_REGEXES", nil)
	v.AllowedChannels = getEnvList("CURATOR_ALLOWED_CHANNELS", nil)
	v.AllowedIPs = getEnvList("CURATOR_ALLOWED_IPS", nil)
	v.AllowListMode = getEnvBool("CURATOR_ALLOW_LIST_MODE", false)
	v.IgnoreNamesForFiltering = getEnvList("CURATOR_IGNORE_NAMES", nil)
	v.IgnoreIPsForFiltering = getEnvList("CURATOR_IGNORE_IPS", nil)
	v.IgnoreURLsForFiltering = getEnvList("CURATOR_IGNORE_URLS", nil)
	v.IgnoreFiles = getEnvList("CURATOR_IGNORE_FILES", nil)
	v.FilterReligiousContent = getEnvBool("CURATOR_FILTER_RELIGIOUS", false)
	v.FilterAdultContent = getEnvBool("CURATOR_FILTER_ADULT", false)
	v.FilterPoliticalContent = getEnvBool("CURATOR_FILTER_POLITICAL", false)

	v.EnableStreamValidation = getEnvBool("CURATOR_ENABLE_VALIDATION", v.EnableStreamValidation)
	v.RemoveInvalidStreams = getEnvBool("CURATOR_REMOVE_INVALID", v.RemoveInvalidStreams)
	v.StreamValidationTimeout = getEnvDuration("CURATOR_VALIDATION_TIMEOUT", v.StreamValidationTimeout)
	v.ValidationConcurrency = getEnvInt("CURATOR_VALIDATION_CONCURRENCY", v.ValidationConcurrency)
	v.ValidationBatchSize = getEnvInt("CURATOR_VALIDATION_BATCH_SIZE", v.ValidationBatchSize)
	v.ReachabilityCacheSize = getEnvInt("CURATOR_REACHABILITY_CACHE_SIZE", v.ReachabilityCacheSize)
	v.ReachabilityCacheTTL = getEnvDuration("CURATOR_REACHABILITY_CACHE_TTL", v.ReachabilityCacheTTL)
	v.ReachabilityCachePath = getEnv("CURATOR_REACHABILITY_CACHE_PATH", "")

	v.ConvertHTTPSToHTTP = getEnvBool("CURATOR_CONVERT_HTTPS", v.ConvertHTTPSToHTTP)
	v.ValidateHTTPConversion = getEnvBool("CURATOR_VALIDATE_HTTPS_CONVERSION", v.ValidateHTTPConversion)
	v.HTTPConversionTimeout = getEnvDuration("CURATOR_HTTPS_CONVERSION_TIMEOUT", v.HTTPConversionTimeout)
	v.HTTPConversionMaxRetries = getEnvInt("CURATOR_HTTPS_CONVERSION_MAX_RETRIES", v.HTTPConversionMaxRetries)

	v.NameSimilarityThreshold = getEnvFloat("CURATOR_NAME_SIMILARITY_THRESHOLD", v.NameSimilarityThreshold)
	v.URLSimilarityThreshold = getEnvFloat("CURATOR_URL_SIMILARITY_THRESHOLD", v.URLSimilarityThreshold)
	v.EnableHDUpgrade = getEnvBool("CURATOR_ENABLE_HD_UPGRADE", v.EnableHDUpgrade)
	v.PreserveSourcePriority = getEnvBool("CURATOR_PRESERVE_SOURCE_PRIORITY", v.PreserveSourcePriority)

	v.ChunkSize = getEnvInt("CURATOR_CHUNK_SIZE", v.ChunkSize)
	v.MaxConcurrency = getEnvInt("CURATOR_MAX_CONCURRENCY", v.MaxConcurrency)
	v.ArtworkDir = getEnv("CURATOR_ARTWORK_DIR", v.ArtworkDir)
	v.GenerateArtwork = getEnvBool("CURATOR_GENERATE_ARTWORK", v.GenerateArtwork)
	v.ArtworkAspectRatios = getEnvList("CURATOR_ARTWORK_ASPECT_RATIOS", v.ArtworkAspectRatios)

	v.MetricsEnabled = getEnvBool("CURATOR_METRICS_ENABLED", false)
	return v
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
