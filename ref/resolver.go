package ref

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/erraggy/oasref/oaserrors"
	"github.com/erraggy/oasref/uri"
)

// DefaultMaxDepth is the default maximum length of a reference chain.
const DefaultMaxDepth = 64

// Resolver resolves individual $ref strings to their target nodes.
//
// A Resolver is as safe for concurrent use as its Fetcher and Cache.
type Resolver struct {
	fetcher  Fetcher
	cache    Cache
	maxDepth int
	logger   Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMaxDepth sets the maximum chain length accepted by Resolve.
// Non-positive values keep the default.
func WithMaxDepth(depth int) ResolverOption {
	return func(r *Resolver) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithLogger sets the resolver's logger.
func WithLogger(l Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = LoggerOrNop(l)
	}
}

// NewResolver builds a Resolver. A nil fetcher defaults to a DefaultFetcher
// and a nil cache to a fresh MemoryCache.
func NewResolver(fetcher Fetcher, cache Cache, opts ...ResolverOption) *Resolver {
	if fetcher == nil {
		fetcher = &DefaultFetcher{}
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	r := &Resolver{
		fetcher:  fetcher,
		cache:    cache,
		maxDepth: DefaultMaxDepth,
		logger:   NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetcher returns the fetcher used for external documents.
func (r *Resolver) Fetcher() Fetcher { return r.fetcher }

// Cache returns the resolution cache.
func (r *Resolver) Cache() Cache { return r.cache }

// MaxDepth returns the maximum chain length.
func (r *Resolver) MaxDepth() int { return r.maxDepth }

// Resolve resolves ref against baseURI.
//
// rootDoc is the decoded document located at baseURI; when it is non-nil,
// fragments addressing baseURI are looked up in it without fetching. stack
// holds the chain keys of the refs currently being expanded and is never
// modified.
//
// A cached resolution is returned before any cycle or depth check. Otherwise
// a stack at or beyond the maximum depth, or one already containing the
// target, fails with a circular [oaserrors.ReferenceError]. A target that is
// missing or not an object or list fails with a not-found ReferenceError.
func (r *Resolver) Resolve(ctx context.Context, ref, baseURI string, rootDoc any, stack []string) (*Resolution, error) {
	return r.ResolveWithin(ctx, ref, baseURI, rootDoc, stack, r.maxDepth)
}

// ResolveWithin is Resolve with maxDepth in place of the resolver's own
// limit. A maxDepth <= 0 falls back to MaxDepth.
func (r *Resolver) ResolveWithin(ctx context.Context, ref, baseURI string, rootDoc any, stack []string, maxDepth int) (*Resolution, error) {
	if maxDepth <= 0 {
		maxDepth = r.maxDepth
	}
	target, pointer := uri.SplitRef(baseURI, ref)
	key := uri.ChainKey(target, pointer)

	if cached, ok := r.cache.Get(key); ok {
		r.logger.Debug("ref cache hit", "ref", ref, "key", key)
		return cached, nil
	}

	refType := refTypeOf(target, baseURI)
	if len(stack) >= maxDepth {
		return nil, &oaserrors.ReferenceError{
			Ref:        ref,
			BaseURI:    baseURI,
			RefType:    refType,
			Chain:      slices.Clone(stack),
			IsCircular: true,
			Message:    fmt.Sprintf("reference chain exceeds maximum depth %d", maxDepth),
		}
	}
	if slices.Contains(stack, key) {
		return nil, &oaserrors.ReferenceError{
			Ref:        ref,
			BaseURI:    baseURI,
			RefType:    refType,
			Chain:      append(slices.Clone(stack), key),
			IsCircular: true,
		}
	}

	var doc any
	if target == baseURI && rootDoc != nil {
		doc = rootDoc
	} else {
		r.logger.Debug("fetching ref target", "ref", ref, "uri", target)
		fetched, err := r.fetcher.Fetch(ctx, target, baseURI)
		if err != nil {
			return nil, fetchError(ref, baseURI, refType, err)
		}
		doc = fetched
	}

	node, ok := uri.GetByPointer(doc, pointer)
	if !ok || !IsContainer(node) {
		return nil, &oaserrors.ReferenceError{
			Ref:        ref,
			BaseURI:    baseURI,
			RefType:    refType,
			IsNotFound: true,
		}
	}

	res := NewResolution(ref, target, pointer, node, doc)
	r.cache.Put(key, res)
	return res, nil
}

// fetchError passes typed fetch failures through and marks anything else as
// an unreachable document.
func fetchError(ref, baseURI, refType string, err error) error {
	if errors.Is(err, oaserrors.ErrReference) ||
		errors.Is(err, oaserrors.ErrUnsupportedScheme) ||
		errors.Is(err, oaserrors.ErrUnsupportedFormat) ||
		errors.Is(err, oaserrors.ErrResourceLimit) {
		return err
	}
	return &oaserrors.ReferenceError{
		Ref:           ref,
		BaseURI:       baseURI,
		RefType:       refType,
		IsUnreachable: true,
		Cause:         err,
	}
}

func refTypeOf(target, baseURI string) string {
	switch {
	case target == baseURI:
		return "local"
	case uri.IsHTTP(target):
		return "http"
	default:
		return "file"
	}
}

// IsContainer reports whether v is an object or a list.
func IsContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}
