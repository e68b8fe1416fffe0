package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasref/parser"
)

type expandInput struct {
	Spec        specInput `json:"spec"                    jsonschema:"The OAS document to expand"`
	NoExternal  bool      `json:"no_external,omitempty"   jsonschema:"Leave refs into other documents untouched instead of fetching them"`
	MaxRefDepth int       `json:"max_ref_depth,omitempty" jsonschema:"Maximum length of a $ref chain (default: OASREF_MAX_REF_DEPTH or 64)"`
	Strictness  string    `json:"strictness,omitempty"    jsonschema:"strict (default) or lenient"`
	Format      string    `json:"format,omitempty"        jsonschema:"Output format for the expanded document: json (default) or yaml"`
	SummaryOnly bool      `json:"summary_only,omitempty"  jsonschema:"Return statistics only, without the expanded document"`
}

type expandOutput struct {
	Version             string `json:"version,omitempty"`
	BaseURI             string `json:"base_uri"`
	RefsResolved        int    `json:"refs_resolved"`
	ExternalDocuments   int    `json:"external_documents"`
	SkippedExternalRefs int    `json:"skipped_external_refs,omitempty"`
	PathCount           int    `json:"path_count"`
	OperationCount      int    `json:"operation_count"`
	SchemaCount         int    `json:"schema_count"`
	Format              string `json:"format,omitempty"`
	Document            string `json:"document,omitempty"`
}

// settings converts the tool arguments into expansion settings.
func (in expandInput) settings() (expandSettings, error) {
	s := defaultSettings()
	s.ResolveExternalRefs = !in.NoExternal
	if in.MaxRefDepth != 0 {
		s.MaxRefDepth = in.MaxRefDepth
	}
	if in.Strictness != "" {
		strictness, err := parser.ParseStrictness(in.Strictness)
		if err != nil {
			return s, err
		}
		s.Strictness = strictness
	}
	return s, nil
}

func handleExpand(ctx context.Context, _ *mcp.CallToolRequest, input expandInput) (*mcp.CallToolResult, expandOutput, error) {
	settings, err := input.settings()
	if err != nil {
		return errResult(err), expandOutput{}, nil
	}
	format := strings.ToLower(input.Format)
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "yaml" {
		return errResult(fmt.Errorf("invalid format %q; valid values: json, yaml", input.Format)), expandOutput{}, nil
	}

	result, err := input.Spec.resolve(ctx, settings)
	if err != nil {
		return errResult(err), expandOutput{}, nil
	}

	output := expandOutput{
		Version:             result.Version,
		BaseURI:             result.BaseURI,
		RefsResolved:        result.Stats.RefsResolved,
		ExternalDocuments:   result.Stats.ExternalDocuments,
		SkippedExternalRefs: result.Stats.SkippedExternalRefs,
		PathCount:           result.Document.PathCount,
		OperationCount:      result.Document.OperationCount,
		SchemaCount:         result.Document.SchemaCount,
	}
	if input.SummaryOnly {
		return nil, output, nil
	}

	data, err := marshalDocument(result.Data, format)
	if err != nil {
		return errResult(err), expandOutput{}, nil
	}
	output.Format = format
	output.Document = string(data)
	return nil, output, nil
}

// marshalDocument renders an expanded tree as indented JSON or YAML.
func marshalDocument(v any, format string) ([]byte, error) {
	if format == "yaml" {
		return yaml.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
