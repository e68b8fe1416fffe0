package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/erraggy/oasref/internal/options"
	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/ref"
)

// specInput represents the three ways an OAS document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"     jsonschema:"Path to an OAS file on disk"`
	URL     string `json:"url,omitempty"      jsonschema:"URL to fetch an OAS document from"`
	Content string `json:"content,omitempty"  jsonschema:"Inline OAS document content (JSON, or YAML unless OASREF_ALLOW_YAML=false)"`
	BaseURI string `json:"base_uri,omitempty" jsonschema:"URI that relative refs in inline content resolve against (default: the server's working directory)"`
}

// expandSettings are the per-call knobs that change an expansion's output.
type expandSettings struct {
	ResolveExternalRefs bool
	MaxRefDepth         int
	Strictness          parser.Strictness
}

func defaultSettings() expandSettings {
	return expandSettings{
		ResolveExternalRefs: true,
		MaxRefDepth:         cfg.MaxRefDepth,
		Strictness:          parser.StrictnessStrict,
	}
}

func (s expandSettings) key() string {
	return fmt.Sprintf("ext=%t;depth=%d;strict=%s", s.ResolveExternalRefs, s.MaxRefDepth, s.Strictness)
}

func (s expandSettings) options() []parser.Option {
	return []parser.Option{
		parser.WithResolveExternalRefs(s.ResolveExternalRefs),
		parser.WithMaxRefDepth(s.MaxRefDepth),
		parser.WithStrictness(s.Strictness),
	}
}

// specCache holds expanded results per session, evicting the least recently
// used entry at capacity and anything older than cfg.CacheTTL.
var specCache = expirable.NewLRU[string, *parser.ParseResult](cfg.CacheMaxSize, nil, cfg.CacheTTL)

// docFetcher is shared by every tool call so that documents referenced from
// several specs are fetched once per cfg.DocCacheTTL.
var docFetcher = sync.OnceValue(func() *ref.CachingFetcher {
	f := &ref.DefaultFetcher{
		AllowYAML: cfg.AllowYAML,
		Logger:    ref.NewSlogAdapter(slog.Default()),
	}
	if !cfg.AllowPrivateIPs {
		f.HTTPClient = newSafeHTTPClient()
	}
	return ref.NewCachingFetcher(f, cfg.DocCacheTTL, cfg.DocCacheMax)
})

// makeCacheKey creates a cache key for the given spec input and settings.
// File inputs are keyed by (absolutePath, modTime), content inputs by a
// SHA-256 hash, and URL inputs by URL string. Returns "" when the input
// cannot be keyed.
func makeCacheKey(s specInput, settings expandSettings) string {
	var input string
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		input = fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		input = fmt.Sprintf("content:%s:%s", hex.EncodeToString(h[:]), s.BaseURI)
	case s.URL != "":
		input = fmt.Sprintf("url:%s", s.URL)
	default:
		return ""
	}
	return input + "|" + settings.key()
}

// inlineSourceName guesses a file name for inline content so the decoder can
// pick JSON or YAML.
func inlineSourceName(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return "inline.json"
	}
	return "inline.yaml"
}

// resolve loads and expands the spec from whichever input was provided,
// using the cache for file, URL, and content inputs.
func (s specInput) resolve(ctx context.Context, settings expandSettings) (*parser.ParseResult, error) {
	if err := options.ValidateSingleInputSource(
		"exactly one of file, url, or content must be provided (got none)",
		"exactly one of file, url, or content must be provided",
		s.File != "", s.URL != "", s.Content != "",
	); err != nil {
		return nil, err
	}

	// Enforce inline content size limit.
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASREF_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	if cfg.CacheEnabled {
		key = makeCacheKey(s, settings)
	}
	if key != "" {
		if cached, ok := specCache.Get(key); ok {
			return cached, nil
		}
	}

	opts := []parser.Option{
		parser.WithFetcher(docFetcher()),
		parser.WithAllowYAML(cfg.AllowYAML),
		parser.WithLogger(ref.NewSlogAdapter(slog.Default())),
	}
	switch {
	case s.File != "":
		opts = append(opts, parser.WithFilePath(s.File))
	case s.URL != "":
		opts = append(opts, parser.WithFilePath(s.URL))
	case s.Content != "":
		opts = append(opts,
			parser.WithBytes([]byte(s.Content)),
			parser.WithSourceName(inlineSourceName(s.Content)),
		)
		if s.BaseURI != "" {
			opts = append(opts, parser.WithBaseURI(s.BaseURI))
		}
	}
	opts = append(opts, settings.options()...)

	result, err := parser.ParseWithOptionsContext(ctx, opts...)
	if err != nil {
		return nil, err
	}

	if key != "" {
		specCache.Add(key, result)
	}
	return result, nil
}
