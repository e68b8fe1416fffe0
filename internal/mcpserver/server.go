// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasref capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasref"
)

const serverInstructions = `oasref MCP server: expands $ref references in OpenAPI documents and resolves individual refs.

Configuration: All defaults are configurable via OASREF_* environment variables set in your MCP client config.

Key settings:
- OASREF_ALLOW_YAML (default: true) - accept YAML documents
- OASREF_MAX_REF_DEPTH (default: 64) - maximum $ref chain length
- OASREF_DOC_CACHE_TTL (default: 1m) - how long fetched documents are reused
- OASREF_DOC_CACHE_MAX (default: 100) - maximum number of cached fetched documents
- OASREF_CACHE_ENABLED (default: true) - cache expanded results per session
- OASREF_CACHE_TTL (default: 5m) - lifetime of a cached expansion
- OASREF_MAX_INLINE_SIZE (default: 10MiB) - maximum size of inline content
- OASREF_ALLOW_PRIVATE_IPS (default: false) - allow fetching from private and loopback addresses

Cycles in $ref chains are reported as errors, including self-recursive schemas.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasref", Version: oasref.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "expand",
		Description: "Expand an OpenAPI document by replacing every $ref with its target, following refs into other files and URLs. Keys next to a $ref override the target. Returns ref statistics, path/operation/schema counts, and the expanded document as JSON or YAML. Use summary_only=true for large specs, and no_external=true to keep refs into other documents untouched.",
	}, handleExpand)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_ref",
		Description: "Resolve a single $ref against an OpenAPI document. Returns the absolute URI of the target, its JSON Pointer, a hint of what kind of node it is (SchemaMap, Paths, ...), and the fully expanded target.",
	}, handleResolveRef)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
