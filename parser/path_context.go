package parser

import (
	"slices"

	"github.com/erraggy/oasref/uri"
)

// PathContext locates a node during a walk: the URI of the document it lives
// in and its unescaped path segments from that walk's root. Values are
// immutable; Push and WithBaseURI return new contexts.
type PathContext struct {
	baseURI  string
	segments []string
}

// RootContext returns the context of a document root.
func RootContext(baseURI string) PathContext {
	return PathContext{baseURI: baseURI}
}

// BaseURI returns the URI against which refs at this node resolve.
func (c PathContext) BaseURI() string { return c.baseURI }

// Segments returns a copy of the path segments.
func (c PathContext) Segments() []string { return slices.Clone(c.segments) }

// Depth returns the number of segments.
func (c PathContext) Depth() int { return len(c.segments) }

// Pointer renders the path as a JSON Pointer, "" at the root.
func (c PathContext) Pointer() string {
	return uri.JoinPointer(c.segments)
}

// Push returns a child context one segment deeper.
func (c PathContext) Push(segment string) PathContext {
	next := make([]string, len(c.segments)+1)
	copy(next, c.segments)
	next[len(c.segments)] = segment
	return PathContext{baseURI: c.baseURI, segments: next}
}

// WithBaseURI returns the same path located in another document.
func (c PathContext) WithBaseURI(baseURI string) PathContext {
	return PathContext{baseURI: baseURI, segments: c.segments}
}

// String renders the context as baseURI#pointer.
func (c PathContext) String() string {
	return c.baseURI + "#" + c.Pointer()
}
