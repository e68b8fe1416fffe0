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

func TestResolveRefTool_Local(t *testing.T) {
	res, output, err := handleResolveRef(context.Background(), &mcp.CallToolRequest{}, resolveRefInput{
		Spec: specInput{Content: refSpecJSON},
		Ref:  "#/components/responses/Pets",
	})
	require.NoError(t, err)
	require.Nil(t, res)

	assert.Equal(t, "/components/responses/Pets", output.Pointer)
	assert.Equal(t, "ResponseMap", output.Kind)
	assert.False(t, output.External)
	assert.Contains(t, output.ResolvedURI, "#/components/responses/Pets")

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(output.Data), &data))
	schema := data["content"].(map[string]any)["application/json"].(map[string]any)["schema"].(map[string]any)
	assert.Equal(t, "object", schema["items"].(map[string]any)["type"], "nested refs come back expanded")
}

func TestResolveRefTool_External(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "common.json", `{"Error": {"type": "object", "properties": {"code": {"$ref": "#/Code"}}}, "Code": {"type": "integer"}}`)
	root := testutil.WriteFile(t, dir, "api.json", `{"openapi": "3.1.0", "paths": {}}`)

	res, output, err := handleResolveRef(context.Background(), &mcp.CallToolRequest{}, resolveRefInput{
		Spec:   specInput{File: root},
		Ref:    "common.json#/Error",
		Format: "yaml",
	})
	require.NoError(t, err)
	require.Nil(t, res)

	assert.True(t, output.External)
	assert.Equal(t, "/Error", output.Pointer)
	assert.Contains(t, output.DocumentURI, "common.json")
	assert.Contains(t, output.Data, "type: integer")
	assert.NotContains(t, output.Data, "$ref")
}

func TestResolveRefTool_ExternalTargetOnly(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "common.json", `{"Error": {"$ref": "#/Code"}, "Code": {"type": "integer"}, "Broken": {"$ref": "#/nope"}}`)
	root := testutil.WriteFile(t, dir, "api.json", `{"openapi": "3.1.0", "paths": {}}`)

	res, output, err := handleResolveRef(context.Background(), &mcp.CallToolRequest{}, resolveRefInput{
		Spec: specInput{File: root},
		Ref:  "common.json#/Error",
	})
	require.NoError(t, err)
	require.Nil(t, res)
	assert.JSONEq(t, `{"type": "integer"}`, output.Data)
}

func TestResolveRefTool_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   resolveRefInput
		message string
	}{
		{"empty ref", resolveRefInput{Spec: specInput{Content: refSpecJSON}}, "ref is required"},
		{"missing target", resolveRefInput{Spec: specInput{Content: refSpecJSON}, Ref: "#/components/schemas/Nope"}, "not found"},
		{"scalar target", resolveRefInput{Spec: specInput{Content: refSpecJSON}, Ref: "#/openapi"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := handleResolveRef(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.message)
		})
	}
}
