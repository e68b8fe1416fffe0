package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/ref"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Expansion defaults.
	AllowYAML   bool
	MaxRefDepth int

	// Fetched document cache, shared by every tool call.
	DocCacheTTL time.Duration
	DocCacheMax int

	// Expanded result cache.
	CacheEnabled bool
	CacheMaxSize int
	CacheTTL     time.Duration

	// Limits and network policy.
	MaxInlineSize   int64
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASREF_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		AllowYAML:       envBool("OASREF_ALLOW_YAML", true),
		MaxRefDepth:     envInt("OASREF_MAX_REF_DEPTH", parser.DefaultMaxRefDepth),
		DocCacheTTL:     envDuration("OASREF_DOC_CACHE_TTL", time.Minute),
		DocCacheMax:     envInt("OASREF_DOC_CACHE_MAX", ref.MaxCachedDocuments),
		CacheEnabled:    envBool("OASREF_CACHE_ENABLED", true),
		CacheMaxSize:    envInt("OASREF_CACHE_MAX_SIZE", 10),
		CacheTTL:        envDuration("OASREF_CACHE_TTL", 5*time.Minute),
		MaxInlineSize:   envInt64("OASREF_MAX_INLINE_SIZE", ref.MaxFileSize),
		AllowPrivateIPs: envBool("OASREF_ALLOW_PRIVATE_IPS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
