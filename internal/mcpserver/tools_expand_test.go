package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasref/internal/testutil"
)

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	require.NotEmpty(t, r.Content)
	text, ok := r.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestExpandTool_Content(t *testing.T) {
	res, output, err := handleExpand(context.Background(), &mcp.CallToolRequest{}, expandInput{
		Spec: specInput{Content: refSpecJSON},
	})
	require.NoError(t, err)
	require.Nil(t, res)

	assert.Equal(t, "3.0", output.Version)
	assert.Equal(t, 3, output.RefsResolved)
	assert.Equal(t, 1, output.PathCount)
	assert.Equal(t, 1, output.OperationCount)
	assert.Equal(t, 1, output.SchemaCount)
	assert.Equal(t, "json", output.Format)
	assert.NotContains(t, output.Document, "$ref")

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(output.Document), &doc))
	ok200 := doc["paths"].(map[string]any)["/pets"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)["200"].(map[string]any)
	assert.Equal(t, "pets", ok200["description"])
}

func TestExpandTool_YAMLAndSummary(t *testing.T) {
	_, output, err := handleExpand(context.Background(), &mcp.CallToolRequest{}, expandInput{
		Spec:   specInput{Content: refSpecJSON},
		Format: "YAML",
	})
	require.NoError(t, err)
	assert.Equal(t, "yaml", output.Format)
	assert.Contains(t, output.Document, "description: pets")

	_, output, err = handleExpand(context.Background(), &mcp.CallToolRequest{}, expandInput{
		Spec:        specInput{Content: refSpecJSON},
		SummaryOnly: true,
	})
	require.NoError(t, err)
	assert.Empty(t, output.Document)
	assert.Equal(t, 3, output.RefsResolved)
}

func TestExpandTool_ExternalFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "common.json", `{"Error": {"type": "object", "properties": {"code": {"$ref": "#/Code"}}}, "Code": {"type": "integer"}}`)
	root := testutil.WriteFile(t, dir, "api.json", `{"openapi": "3.1.0", "components": {"schemas": {"Error": {"$ref": "common.json#/Error"}}}}`)

	_, output, err := handleExpand(context.Background(), &mcp.CallToolRequest{}, expandInput{
		Spec: specInput{File: root},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.ExternalDocuments)
	assert.Contains(t, output.Document, `"integer"`)

	_, output, err = handleExpand(context.Background(), &mcp.CallToolRequest{}, expandInput{
		Spec:       specInput{File: root},
		NoExternal: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.SkippedExternalRefs)
	assert.Contains(t, output.Document, "common.json#/Error")
}

func TestExpandTool_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   expandInput
		message string
	}{
		{"no input", expandInput{}, "exactly one of file, url, or content"},
		{"bad strictness", expandInput{Spec: specInput{Content: "{}"}, Strictness: "loose"}, "strictness"},
		{"bad format", expandInput{Spec: specInput{Content: "{}"}, Format: "xml"}, "invalid format"},
		{"cycle", expandInput{Spec: specInput{Content: `{"a": {"$ref": "#/b"}, "b": {"$ref": "#/a"}}`}}, "circular"},
		{"missing target", expandInput{Spec: specInput{Content: `{"a": {"$ref": "#/nope"}}`}}, "not found"},
		{"private address", expandInput{Spec: specInput{URL: "http://127.0.0.1:1/api.json"}}, "blocked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := handleExpand(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.message)
		})
	}
}

func TestSanitizeError(t *testing.T) {
	assert.Equal(t, "", sanitizeError(nil))
	res := errResult(assert.AnError)
	assert.True(t, res.IsError)

	msg := sanitizeError(&testError{"open /home/alice/specs/api.json: no such file"})
	assert.Equal(t, "open <path>: no such file", msg)
}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
