// Package parser expands OpenAPI documents by replacing every $ref with a copy
// of its target.
//
// The parser works on decoded JSON trees (map[string]any, []any, and scalars).
// Refs may point inside the same document, into other files, or at http(s)
// URLs. Relative refs inside a fetched document resolve against that
// document's own URI. Keys next to a $ref are merged over the expanded target,
// and the merged result wins on conflicts.
//
// # Quick Start
//
// Load and expand a file using functional options:
//
//	result, err := parser.ParseWithOptions(
//		parser.WithFilePath("openapi.json"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s: %d refs resolved\n", result.Version, result.Stats.RefsResolved)
//
// Or expand an already decoded document with a reusable Parser:
//
//	p := parser.New(ref.NewResolver(nil, nil), nil)
//	expanded, err := p.Parse(ctx, raw, "file:///specs/openapi.json", parser.DefaultParseOptions())
//
// # Failure modes
//
// Every failure aborts the whole expansion and returns no output. Cycles and
// chains longer than ParseOptions.MaxRefDepth fail with
// oaserrors.ErrCircularReference. Missing targets fail with
// oaserrors.ErrRefNotFound. Nesting deeper than Parser.MaxWalkDepth fails with
// oaserrors.ErrTraversalDepthExceeded, naming the pointer where it happened.
//
// With ParseOptions.ResolveExternalRefs set to false, refs into other
// documents are copied to the output unchanged and nothing is fetched.
//
// A $ref whose target is a list, with sibling keys next to it, expands to the
// list alone; the siblings are dropped and a warning is logged.
package parser
