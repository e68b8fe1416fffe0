package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrReference indicates a reference resolution failure of any kind.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref chain, or a chain deeper
	// than the configured maximum reference depth.
	ErrCircularReference = errors.New("circular reference")

	// ErrRefNotFound indicates a $ref target could not be located.
	// Unreachable documents also match this sentinel.
	ErrRefNotFound = errors.New("reference not found")

	// ErrUnreachable indicates the document holding a $ref target could not be loaded.
	ErrUnreachable = errors.New("document unreachable")

	// ErrPathTraversal indicates a file reference escaped the configured root directory.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrUnsupportedScheme indicates a URI scheme other than http, https, file, or none.
	ErrUnsupportedScheme = errors.New("unsupported URI scheme")

	// ErrUnsupportedFormat indicates fetched content could not be decoded.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrTraversalDepthExceeded indicates the document walk nested deeper than allowed.
	ErrTraversalDepthExceeded = errors.New("traversal depth exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ResourceTypeWalkDepth is the ResourceLimitError.ResourceType reported when
// the recursive document walk exceeds its maximum depth.
const ResourceTypeWalkDepth = "walk_depth"

// ReferenceError represents a failure to resolve a $ref.
// This includes missing targets, unreachable documents, circular chains,
// and path traversal attempts.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// BaseURI is the URI the reference was resolved against
	BaseURI string
	// RefType indicates the reference type: "local", "file", or "http"
	RefType string
	// Chain holds the chain keys on the active descent path when a cycle was found
	Chain []string
	// IsCircular is true if this error is due to a circular reference or
	// an over-deep reference chain
	IsCircular bool
	// IsNotFound is true if the pointer did not resolve to a container
	IsNotFound bool
	// IsUnreachable is true if the target document could not be loaded
	IsUnreachable bool
	// IsPathTraversal is true if this error is due to a path traversal attempt
	IsPathTraversal bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	switch {
	case e.IsCircular:
		msg = "circular reference"
	case e.IsPathTraversal:
		msg = "path traversal detected"
	case e.IsUnreachable:
		msg = "document unreachable"
	case e.IsNotFound:
		msg = "reference not found"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.BaseURI != "" {
		msg += " (base: " + e.BaseURI + ")"
	}
	if len(e.Chain) > 0 {
		msg += ": chain " + strings.Join(e.Chain, " -> ")
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also the sentinel of each flag that is set.
// An unreachable document also matches ErrRefNotFound.
func (e *ReferenceError) Is(target error) bool {
	switch target {
	case ErrReference:
		return true
	case ErrCircularReference:
		return e.IsCircular
	case ErrRefNotFound:
		return e.IsNotFound || e.IsUnreachable
	case ErrUnreachable:
		return e.IsUnreachable
	case ErrPathTraversal:
		return e.IsPathTraversal
	}
	return false
}

// SchemeError represents a URI whose scheme cannot be fetched.
type SchemeError struct {
	// URI is the offending URI
	URI string
	// Scheme is the scheme that was found
	Scheme string
}

// Error returns a human-readable error message.
func (e *SchemeError) Error() string {
	msg := "unsupported URI scheme"
	if e.Scheme != "" {
		msg += " " + fmt.Sprintf("%q", e.Scheme)
	}
	if e.URI != "" {
		msg += " in " + e.URI
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *SchemeError) Is(target error) bool {
	return target == ErrUnsupportedScheme
}

// FormatError represents fetched content that could not be decoded.
type FormatError struct {
	// Source is the URI or path the content came from
	Source string
	// Format is the detected format ("json", "yaml", or "" if unknown)
	Format string
	// Message describes the decoding failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FormatError) Error() string {
	msg := "unsupported document format"
	if e.Format != "" {
		msg += " " + e.Format
	}
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FormatError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "walk_depth", "cached_documents", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Pointer is the JSON Pointer where the limit was hit, if known
	Pointer string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.ResourceType == ResourceTypeWalkDepth {
		msg += " at " + pointerOrRoot(e.Pointer)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
// A walk-depth limit also matches ErrTraversalDepthExceeded.
func (e *ResourceLimitError) Is(target error) bool {
	if target == ErrResourceLimit {
		return true
	}
	return target == ErrTraversalDepthExceeded && e.ResourceType == ResourceTypeWalkDepth
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func pointerOrRoot(p string) string {
	if p == "" {
		return "document root"
	}
	return p
}
