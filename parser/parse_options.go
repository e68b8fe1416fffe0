package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/erraggy/oasref"
	"github.com/erraggy/oasref/internal/options"
	"github.com/erraggy/oasref/oaserrors"
	"github.com/erraggy/oasref/ref"
	"github.com/erraggy/oasref/uri"
)

// defaultSourceName names documents given as bytes or a reader when
// WithSourceName is not used. Relative refs in such documents resolve
// against the working directory.
const defaultSourceName = "inline.json"

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	sourceName *string
	baseURI    string

	// Expansion
	parseOpts    ParseOptions
	maxWalkDepth int
	factory      NodeFactory
	logger       ref.Logger

	// Fetching
	fetcher            ref.Fetcher
	cache              ref.Cache
	httpClient         *http.Client
	userAgent          string
	allowYAML          bool
	insecureSkipVerify bool
	maxFileSize        int64
	rootDir            string
	docCacheTTL        time.Duration
	docCacheMax        int
	docCacheEnabled    bool
}

// ParseWithOptions loads an OpenAPI document and expands all of its refs,
// using functional options for input selection and configuration.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("openapi.json"),
//	    parser.WithResolveExternalRefs(false),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	return ParseWithOptionsContext(context.Background(), opts...)
}

// ParseWithOptionsContext is ParseWithOptions bounded by ctx. Cancelling ctx
// aborts pending fetches.
func ParseWithOptionsContext(ctx context.Context, opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	fetcher := cfg.buildFetcher()
	logger := ref.LoggerOrNop(cfg.logger)
	cache := cfg.cache
	if cache == nil {
		cache = ref.NewMemoryCache()
	}
	resolver := ref.NewResolver(fetcher, cache,
		ref.WithMaxDepth(cfg.parseOpts.MaxRefDepth),
		ref.WithLogger(logger),
	)
	p := New(resolver, cfg.factory)
	p.Logger = logger
	if cfg.maxWalkDepth > 0 {
		p.MaxWalkDepth = cfg.maxWalkDepth
	}

	loadStart := time.Now()
	raw, source, base, err := cfg.load(ctx, fetcher)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(loadStart)

	expandStart := time.Now()
	data, stats, err := p.ParseWithStats(ctx, raw, base, cfg.parseOpts)
	if err != nil {
		return nil, fmt.Errorf("parser: expanding %s: %w", source, err)
	}

	return &ParseResult{
		SourcePath: source,
		BaseURI:    uri.Absolute(base),
		Version:    DetectVersion(raw),
		Data:       data,
		Stats:      stats,
		Document:   GetDocumentStats(data),
		LoadTime:   loadTime,
		ExpandTime: time.Since(expandStart),
	}, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		parseOpts: DefaultParseOptions(),
		userAgent: oasref.UserAgent(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// Validate exactly one input source is specified
	if err := options.ValidateSingleInputSource(
		"parser: must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"parser: must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}

	if err := cfg.parseOpts.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildFetcher returns the configured fetcher, or a DefaultFetcher built from
// the fetch options, wrapped in a document cache when one was requested.
func (cfg *parseConfig) buildFetcher() ref.Fetcher {
	fetcher := cfg.fetcher
	if fetcher == nil {
		fetcher = &ref.DefaultFetcher{
			HTTPClient:         cfg.httpClient,
			UserAgent:          cfg.userAgent,
			InsecureSkipVerify: cfg.insecureSkipVerify,
			AllowYAML:          cfg.allowYAML,
			MaxFileSize:        cfg.maxFileSize,
			RootDir:            cfg.rootDir,
			Logger:             cfg.logger,
		}
	}
	if cfg.docCacheEnabled {
		fetcher = ref.NewCachingFetcher(fetcher, cfg.docCacheTTL, cfg.docCacheMax)
	}
	return fetcher
}

// load reads and decodes the root document, returning it with its source
// name and the base URI its refs resolve against.
func (cfg *parseConfig) load(ctx context.Context, fetcher ref.Fetcher) (doc any, source, base string, err error) {
	switch {
	case cfg.filePath != nil:
		source = *cfg.filePath
		target := uri.Absolute(source)
		doc, err = fetcher.Fetch(ctx, target, "")
		if err != nil {
			return nil, source, "", fmt.Errorf("parser: loading %s: %w", source, err)
		}
		base = target
	case cfg.reader != nil:
		data, readErr := io.ReadAll(cfg.reader)
		if readErr != nil {
			return nil, "", "", fmt.Errorf("parser: failed to read input: %w", readErr)
		}
		doc, source, base, err = cfg.decodeInline(data)
	case cfg.bytes != nil:
		doc, source, base, err = cfg.decodeInline(cfg.bytes)
	}
	if err != nil {
		return nil, source, "", err
	}

	if cfg.sourceName != nil {
		source = *cfg.sourceName
	}
	if cfg.baseURI != "" {
		base = cfg.baseURI
	}
	return doc, source, base, nil
}

func (cfg *parseConfig) decodeInline(data []byte) (any, string, string, error) {
	source := defaultSourceName
	if cfg.sourceName != nil {
		source = *cfg.sourceName
	}
	limit := cfg.maxFileSize
	if limit <= 0 {
		limit = ref.MaxFileSize
	}
	if int64(len(data)) > limit {
		return nil, source, "", &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        limit,
			Actual:       int64(len(data)),
			Message:      source,
		}
	}
	doc, err := ref.Decode(data, source, ref.DetectFormat(source, ""), cfg.allowYAML)
	if err != nil {
		return nil, source, "", fmt.Errorf("parser: %w", err)
	}
	return doc, source, uri.Absolute(source), nil
}

// WithFilePath specifies a file path or URL as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		cfg.bytes = data
		return nil
	}
}

// WithSourceName names a reader or byte input. The name picks the decoder by
// extension and, unless WithBaseURI is used, becomes the base for relative refs.
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		cfg.sourceName = &name
		return nil
	}
}

// WithBaseURI overrides the URI relative refs in the root document resolve against
func WithBaseURI(base string) Option {
	return func(cfg *parseConfig) error {
		cfg.baseURI = base
		return nil
	}
}

// WithResolveExternalRefs enables or disables refs into other documents
// Default: true
func WithResolveExternalRefs(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.parseOpts = cfg.parseOpts.WithResolveExternalRefs(enabled)
		return nil
	}
}

// WithMaxRefDepth sets the maximum length of a $ref chain
// Default: 64
func WithMaxRefDepth(depth int) Option {
	return func(cfg *parseConfig) error {
		if err := options.NonNegative("MaxRefDepth", depth); err != nil {
			return err
		}
		cfg.parseOpts = cfg.parseOpts.WithMaxRefDepth(depth)
		return nil
	}
}

// WithMaxWalkDepth sets how deep the expansion may nest
// Default: 8192
func WithMaxWalkDepth(depth int) Option {
	return func(cfg *parseConfig) error {
		if err := options.NonNegative("MaxWalkDepth", depth); err != nil {
			return err
		}
		cfg.maxWalkDepth = depth
		return nil
	}
}

// WithStrictness sets the strictness passed to the NodeFactory
func WithStrictness(s Strictness) Option {
	return func(cfg *parseConfig) error {
		cfg.parseOpts = cfg.parseOpts.WithStrictness(s)
		return nil
	}
}

// WithNodeFactory sets the factory applied to the expanded document
func WithNodeFactory(f NodeFactory) Option {
	return func(cfg *parseConfig) error {
		cfg.factory = f
		return nil
	}
}

// WithLogger sets a structured logger for the parse operation
func WithLogger(l ref.Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithFetcher replaces the default fetcher. The fetch options below are
// ignored when a custom fetcher is set.
func WithFetcher(f ref.Fetcher) Option {
	return func(cfg *parseConfig) error {
		cfg.fetcher = f
		return nil
	}
}

// WithCache sets the resolution cache. Reusing a cache across parses skips
// repeated lookups of the same targets.
func WithCache(c ref.Cache) Option {
	return func(cfg *parseConfig) error {
		cfg.cache = c
		return nil
	}
}

// WithDocumentCache caches fetched documents for ttl, keeping at most max
// of them. A zero ttl never expires entries.
func WithDocumentCache(ttl time.Duration, maxDocuments int) Option {
	return func(cfg *parseConfig) error {
		if err := options.NonNegative("MaxCachedDocuments", maxDocuments); err != nil {
			return err
		}
		cfg.docCacheEnabled = true
		cfg.docCacheTTL = ttl
		cfg.docCacheMax = maxDocuments
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for fetching remote documents
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *parseConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
// Default: "oasref/<version>"
func WithUserAgent(ua string) Option {
	return func(cfg *parseConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithAllowYAML enables decoding of YAML documents
// Default: false
func WithAllowYAML(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.allowYAML = enabled
		return nil
	}
}

// WithInsecureSkipVerify disables TLS certificate verification for HTTPS fetches
// Default: false
func WithInsecureSkipVerify(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.insecureSkipVerify = enabled
		return nil
	}
}

// WithMaxFileSize limits the size of a single document in bytes
// Default: 10MB
func WithMaxFileSize(size int64) Option {
	return func(cfg *parseConfig) error {
		if err := options.NonNegative("MaxFileSize", size); err != nil {
			return err
		}
		cfg.maxFileSize = size
		return nil
	}
}

// WithRootDir confines local file reads to dir
func WithRootDir(dir string) Option {
	return func(cfg *parseConfig) error {
		cfg.rootDir = dir
		return nil
	}
}
