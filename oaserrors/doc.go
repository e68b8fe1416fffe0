// Package oaserrors provides structured error types for the oasref library.
//
// Import path: github.com/erraggy/oasref/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between the ways a $ref can fail to resolve
// and the limits that bound document expansion.
//
// # Error Types
//
//   - [ReferenceError]: circular chains, missing targets, unreachable documents, path traversal
//   - [SchemeError]: a URI scheme the fetcher cannot load
//   - [FormatError]: fetched content that cannot be decoded
//   - [ResourceLimitError]: walk depth, file size, and cached document limits
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrRefNotFound]: Matches [ReferenceError] with IsNotFound or IsUnreachable set
//   - [ErrUnreachable]: Matches [ReferenceError] with IsUnreachable=true
//   - [ErrPathTraversal]: Matches [ReferenceError] with IsPathTraversal=true
//   - [ErrUnsupportedScheme]: Matches any [SchemeError]
//   - [ErrUnsupportedFormat]: Matches any [FormatError]
//   - [ErrTraversalDepthExceeded]: Matches [ResourceLimitError] with ResourceType "walk_depth"
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("api.json"))
//	if errors.Is(err, oaserrors.ErrCircularReference) {
//	    // the document cannot be fully expanded
//	}
//
//	var refErr *oaserrors.ReferenceError
//	if errors.As(err, &refErr) && refErr.IsUnreachable {
//	    fmt.Printf("could not load %s\n", refErr.Ref)
//	}
//
// # Error Chaining
//
// Error types carrying a Cause support [errors.Unwrap], so root causes such as
// [os.ErrNotExist] remain visible through the chain.
package oaserrors
