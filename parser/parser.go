package parser

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/erraggy/oasref/oaserrors"
	"github.com/erraggy/oasref/ref"
	"github.com/erraggy/oasref/uri"
)

// DefaultMaxWalkDepth bounds how deep the walk may descend through nested
// containers and expanded refs.
const DefaultMaxWalkDepth = 8192

// Parser expands every $ref in a decoded document, producing a tree with no
// reference nodes left in it.
//
// A Parser holds no per-parse state and may be reused. Concurrent Parse calls
// are safe when the resolver's Fetcher and Cache are.
type Parser struct {
	// MaxWalkDepth overrides DefaultMaxWalkDepth when positive.
	MaxWalkDepth int
	// Logger receives debug and warning messages. Nil discards them.
	Logger ref.Logger

	resolver *ref.Resolver
	factory  NodeFactory
}

// New creates a Parser. A nil resolver defaults to ref.NewResolver(nil, nil)
// and a nil factory to PassThroughFactory.
func New(resolver *ref.Resolver, factory NodeFactory) *Parser {
	if resolver == nil {
		resolver = ref.NewResolver(nil, nil)
	}
	if factory == nil {
		factory = PassThroughFactory{}
	}
	return &Parser{
		MaxWalkDepth: DefaultMaxWalkDepth,
		resolver:     resolver,
		factory:      factory,
	}
}

// Resolver returns the resolver used for $ref lookups.
func (p *Parser) Resolver() *ref.Resolver { return p.resolver }

// Stats counts what happened during one expansion.
type Stats struct {
	// RefsResolved is the number of reference nodes replaced by their targets.
	RefsResolved int
	// ExternalDocuments is the number of distinct documents other than the
	// root that supplied a target.
	ExternalDocuments int
	// SkippedExternalRefs is the number of external reference nodes left in
	// place because external resolution was disabled.
	SkippedExternalRefs int
}

// Parse expands raw, located at baseURI, and hands the result to the
// parser's NodeFactory. raw is not modified; every object and list in the
// result is newly allocated.
func (p *Parser) Parse(ctx context.Context, raw any, baseURI string, opts ParseOptions) (any, error) {
	out, _, err := p.ParseWithStats(ctx, raw, baseURI, opts)
	return out, err
}

// ParseWithStats is Parse, also reporting expansion statistics.
func (p *Parser) ParseWithStats(ctx context.Context, raw any, baseURI string, opts ParseOptions) (any, Stats, error) {
	if err := opts.Validate(); err != nil {
		return nil, Stats{}, err
	}

	root := RootContext(uri.Absolute(baseURI))
	w := &walker{
		ctx:      ctx,
		resolver: p.resolver,
		logger:   ref.LoggerOrNop(p.Logger),
		opts:     opts,
		maxDepth: p.maxWalkDepth(),
		rootBase: root.BaseURI(),
		docs:     make(map[string]struct{}),
	}

	expanded, err := w.walk(raw, root, 0, nil, raw)
	if err != nil {
		return nil, w.stats, err
	}
	w.stats.ExternalDocuments = len(w.docs)

	out, err := p.factory.Make(KindDocument, expanded, root, opts)
	if err != nil {
		return nil, w.stats, fmt.Errorf("parser: node factory: %w", err)
	}
	return out, w.stats, nil
}

// ExpandResolution expands the target of res in the context of the document
// holding it. Only the target subtree is walked, so broken refs elsewhere in
// that document do not matter. A ref inside the target leading back to it is
// reported as circular. The NodeFactory is not consulted.
func (p *Parser) ExpandResolution(ctx context.Context, res *ref.Resolution, opts ParseOptions) (any, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	pc := RootContext(res.BaseURI)
	for _, seg := range uri.SplitPointer(res.Pointer) {
		pc = pc.Push(seg)
	}
	w := &walker{
		ctx:      ctx,
		resolver: p.resolver,
		logger:   ref.LoggerOrNop(p.Logger),
		opts:     opts,
		maxDepth: p.maxWalkDepth(),
		rootBase: res.BaseURI,
		docs:     make(map[string]struct{}),
	}
	return w.walk(res.Data, pc, pc.Depth(), []string{res.CacheKey()}, res.Document)
}

func (p *Parser) maxWalkDepth() int {
	if p.MaxWalkDepth > 0 {
		return p.MaxWalkDepth
	}
	return DefaultMaxWalkDepth
}

// walker carries the state of a single expansion.
type walker struct {
	ctx      context.Context
	resolver *ref.Resolver
	logger   ref.Logger
	opts     ParseOptions
	maxDepth int
	rootBase string
	docs     map[string]struct{}
	stats    Stats
}

// walk expands node. chain holds the keys of the refs being expanded on the
// path to node; it is never modified, children get a copy. rootDoc is the
// decoded document located at pc.BaseURI().
func (w *walker) walk(node any, pc PathContext, depth int, chain []string, rootDoc any) (any, error) {
	if depth > w.maxDepth {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: oaserrors.ResourceTypeWalkDepth,
			Limit:        int64(w.maxDepth),
			Actual:       int64(depth),
			Pointer:      pc.Pointer(),
		}
	}

	switch n := node.(type) {
	case map[string]any:
		if refStr, ok := n["$ref"].(string); ok {
			return w.expandRef(n, refStr, pc, depth, chain, rootDoc)
		}
		return w.walkObject(n, pc, depth, chain, rootDoc)
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			v, err := w.walk(item, pc.Push(strconv.Itoa(i)), depth+1, chain, rootDoc)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		return node, nil
	}
}

// walkObject expands every value of obj in key order, so that errors and
// fetches happen deterministically.
func (w *walker) walkObject(obj map[string]any, pc PathContext, depth int, chain []string, rootDoc any) (map[string]any, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(obj))
	for _, k := range keys {
		v, err := w.walk(obj[k], pc.Push(k), depth+1, chain, rootDoc)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (w *walker) expandRef(node map[string]any, refStr string, pc PathContext, depth int, chain []string, rootDoc any) (any, error) {
	base := pc.BaseURI()
	target, pointer := uri.SplitRef(base, refStr)

	if !w.opts.ResolveExternalRefs && !uri.IsLocalRef(refStr) && target != base {
		w.stats.SkippedExternalRefs++
		w.logger.Debug("skipping external ref", "ref", refStr, "at", pc.String())
		return deepCopy(node), nil
	}

	key := uri.ChainKey(target, pointer)
	if slices.Contains(chain, key) {
		return nil, &oaserrors.ReferenceError{
			Ref:        refStr,
			BaseURI:    base,
			RefType:    refType(target, base),
			Chain:      append(slices.Clone(chain), key),
			IsCircular: true,
		}
	}
	if limit := w.opts.maxRefDepth(); len(chain) >= limit {
		return nil, &oaserrors.ReferenceError{
			Ref:        refStr,
			BaseURI:    base,
			RefType:    refType(target, base),
			Chain:      slices.Clone(chain),
			IsCircular: true,
			Message:    fmt.Sprintf("reference chain exceeds maximum depth %d", limit),
		}
	}

	res, err := w.resolver.ResolveWithin(w.ctx, refStr, base, rootDoc, chain, w.opts.maxRefDepth())
	if err != nil {
		return nil, err
	}
	w.stats.RefsResolved++
	if res.BaseURI != w.rootBase {
		w.docs[res.BaseURI] = struct{}{}
	}

	childChain := append(slices.Clone(chain), key)
	childPC, childRoot := pc, rootDoc
	if res.BaseURI != base {
		childPC = pc.WithBaseURI(res.BaseURI)
		childRoot = res.Document
	}

	expanded, err := w.walk(res.Data, childPC, depth+1, childChain, childRoot)
	if err != nil {
		return nil, err
	}

	if len(node) == 1 {
		return expanded, nil
	}
	obj, ok := expanded.(map[string]any)
	if !ok {
		w.logger.Warn("discarding $ref siblings: target is not an object",
			"ref", refStr, "at", pc.String())
		return expanded, nil
	}

	siblings := make(map[string]any, len(node)-1)
	for k, v := range node {
		if k != "$ref" {
			siblings[k] = v
		}
	}
	walked, err := w.walkObject(siblings, pc, depth, chain, rootDoc)
	if err != nil {
		return nil, err
	}
	return mergeObjects(obj, walked), nil
}

func refType(target, base string) string {
	switch {
	case target == base:
		return "local"
	case uri.IsHTTP(target):
		return "http"
	default:
		return "file"
	}
}
