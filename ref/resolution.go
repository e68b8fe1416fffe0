package ref

import "github.com/erraggy/oasref/uri"

// Resolution is the outcome of resolving one $ref. It is never modified after
// construction and may be shared through a Cache.
type Resolution struct {
	// OriginalRef is the $ref string exactly as written.
	OriginalRef string
	// BaseURI is the absolute URI of the document holding the target.
	BaseURI string
	// ResolvedURI is BaseURI plus "#" and the pointer when the pointer is non-empty.
	ResolvedURI string
	// Pointer is the JSON Pointer of the target inside BaseURI, "" or "/"-prefixed.
	Pointer string
	// Data is the target node. It is always a map[string]any or []any.
	Data any
	// Document is the root of the document holding the target, against which
	// local refs found inside Data resolve.
	Document any
}

// NewResolution builds a Resolution, deriving ResolvedURI.
func NewResolution(originalRef, baseURI, pointer string, data, document any) *Resolution {
	resolved := baseURI
	if pointer != "" {
		resolved += "#" + pointer
	}
	return &Resolution{
		OriginalRef: originalRef,
		BaseURI:     baseURI,
		ResolvedURI: resolved,
		Pointer:     pointer,
		Data:        data,
		Document:    document,
	}
}

// CacheKey returns the canonical key of the target. It equals
// uri.MakeCacheKey of the ref against the base it was resolved from.
func (r *Resolution) CacheKey() string {
	return uri.ChainKey(r.BaseURI, r.Pointer)
}
