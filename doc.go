// Package oasref expands OpenAPI documents by resolving every $ref they contain.
//
// The result of an expansion is a single self-contained tree: each reference
// node is replaced by the (recursively expanded) node it points to, sibling
// fields next to a $ref are merged over the target, and circular chains are
// reported instead of looping forever.
//
// # Overview
//
// The library is split into small packages:
//
//   - uri: resolve relative refs against base URIs, navigate JSON Pointers
//   - ref: fetch documents, resolve single refs, cache resolutions
//   - parser: walk a whole document and expand it
//   - oaserrors: typed errors for use with errors.Is and errors.As
//
// References may point inside the same document ("#/components/schemas/Pet"),
// into local files ("common.json#/Error"), or at http(s) URLs. External
// documents must be JSON unless YAML decoding is explicitly enabled.
//
// # Installation
//
//	go get github.com/erraggy/oasref
//
// # Quick Start
//
// Expand a document from disk:
//
//	import "github.com/erraggy/oasref/parser"
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("openapi.json"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Version: %s, refs resolved: %d\n", result.Version, result.Stats.RefsResolved)
//
// Expand an already decoded tree:
//
//	p := parser.New(ref.NewResolver(nil, nil), nil)
//	expanded, err := p.Parse(ctx, raw, "file:///specs/openapi.json", parser.DefaultParseOptions())
//
// Resolve a single reference:
//
//	r := ref.NewResolver(&ref.DefaultFetcher{}, ref.NewMemoryCache())
//	res, err := r.Resolve(ctx, "common.json#/Error", "/specs/openapi.json", nil, nil)
//
// # Command-Line Tool
//
// The oasref command wraps the library:
//
//	oasref expand openapi.json
//	oasref resolve openapi.json '#/components/schemas/Pet'
//	oasref mcp
//
// The mcp subcommand serves the expand and resolve_ref tools over the Model
// Context Protocol on stdio.
package oasref
