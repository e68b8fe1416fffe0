package parser

import "time"

// ParseResult contains an expanded document along with metadata about how it
// was loaded and expanded.
type ParseResult struct {
	// SourcePath is the file path, URL, or source name the document came from.
	SourcePath string
	// BaseURI is the absolute URI relative refs were resolved against.
	BaseURI string
	// Version is the major.minor OpenAPI version, "" if undetected.
	Version string
	// Data is the expanded document as returned by the NodeFactory.
	Data any
	// Stats describes the expansion.
	Stats Stats
	// Document summarizes the expanded tree.
	Document DocumentStats
	// LoadTime is the time spent reading and decoding the root document.
	LoadTime time.Duration
	// ExpandTime is the time spent expanding refs.
	ExpandTime time.Duration
}
