package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/ref"
	"github.com/erraggy/oasref/uri"
)

type resolveRefInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The OAS document the ref appears in"`
	Ref    string    `json:"ref"              jsonschema:"The $ref to resolve, e.g. #/components/schemas/Pet or common.json#/Error"`
	Format string    `json:"format,omitempty" jsonschema:"Output format for the target: json (default) or yaml"`
}

type resolveRefOutput struct {
	Ref         string `json:"ref"`
	ResolvedURI string `json:"resolved_uri"`
	DocumentURI string `json:"document_uri"`
	Pointer     string `json:"pointer,omitempty"`
	Kind        string `json:"kind"`
	External    bool   `json:"external"`
	Data        string `json:"data"`
}

func handleResolveRef(ctx context.Context, _ *mcp.CallToolRequest, input resolveRefInput) (*mcp.CallToolResult, resolveRefOutput, error) {
	if input.Ref == "" {
		return errResult(errors.New("ref is required")), resolveRefOutput{}, nil
	}
	format := input.Format
	if format == "" {
		format = "json"
	}

	settings := defaultSettings()
	result, err := input.Spec.resolve(ctx, settings)
	if err != nil {
		return errResult(err), resolveRefOutput{}, nil
	}

	resolver := ref.NewResolver(docFetcher(), nil, ref.WithMaxDepth(settings.MaxRefDepth))
	res, err := resolver.Resolve(ctx, input.Ref, result.BaseURI, result.Data, nil)
	if err != nil {
		return errResult(err), resolveRefOutput{}, nil
	}

	// The target is expanded in the context of the document holding it.
	external := res.BaseURI != result.BaseURI
	p := parser.New(resolver, nil)
	target, err := p.ExpandResolution(ctx, res, parser.DefaultParseOptions().WithMaxRefDepth(settings.MaxRefDepth))
	if err != nil {
		return errResult(err), resolveRefOutput{}, nil
	}

	data, err := marshalDocument(target, format)
	if err != nil {
		return errResult(err), resolveRefOutput{}, nil
	}

	return nil, resolveRefOutput{
		Ref:         input.Ref,
		ResolvedURI: res.ResolvedURI,
		DocumentURI: res.BaseURI,
		Pointer:     res.Pointer,
		Kind:        string(parser.HintKindAt(uri.SplitPointer(res.Pointer))),
		External:    external,
		Data:        string(data),
	}, nil
}
