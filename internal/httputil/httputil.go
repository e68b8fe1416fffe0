// Package httputil provides HTTP helpers shared by the fetchers and the MCP server.
package httputil

import (
	"mime"
	"strings"
	"time"
)

// DefaultTimeout is the request timeout of HTTP clients built by oasref.
const DefaultTimeout = 30 * time.Second

// Media types recognized when deciding how to decode a fetched document.
var (
	jsonMediaTypes = map[string]bool{
		"application/json":                 true,
		"application/openapi+json":         true,
		"application/vnd.oai.openapi+json": true,
		"application/schema+json":          true,
	}
	yamlMediaTypes = map[string]bool{
		"application/yaml":            true,
		"application/x-yaml":          true,
		"text/yaml":                   true,
		"text/x-yaml":                 true,
		"application/openapi+yaml":    true,
		"application/vnd.oai.openapi": true,
	}
)

// MediaType returns the lowercased media type of a Content-Type header value,
// without parameters. It returns "" for an empty header.
func MediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// some servers send malformed parameters
		mt, _, _ = strings.Cut(contentType, ";")
		mt = strings.TrimSpace(mt)
	}
	return strings.ToLower(mt)
}

// IsJSONMediaType reports whether contentType names a JSON document.
func IsJSONMediaType(contentType string) bool {
	return jsonMediaTypes[MediaType(contentType)]
}

// IsYAMLMediaType reports whether contentType names a YAML document.
func IsYAMLMediaType(contentType string) bool {
	return yamlMediaTypes[MediaType(contentType)]
}
