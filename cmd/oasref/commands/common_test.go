package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/ref"
)

// testStreams returns Streams over in-memory buffers with stdin set to in.
func testStreams(in string) (Streams, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return Streams{In: strings.NewReader(in), Out: &out, Err: &errOut}, &out, &errOut
}

func TestValidateOutputFormat(t *testing.T) {
	assert.NoError(t, ValidateOutputFormat(FormatJSON))
	assert.NoError(t, ValidateOutputFormat(FormatYAML))
	err := ValidateOutputFormat("text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format 'text'")
}

func TestMarshalDocument(t *testing.T) {
	doc := map[string]any{"type": "integer"}

	data, err := MarshalDocument(doc, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"type\": \"integer\"\n}\n", string(data))

	data, err = MarshalDocument(doc, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "type: integer\n", string(data))

	_, err = MarshalDocument(doc, "xml")
	assert.Error(t, err)
}

func TestFormatSpecPath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatSpecPath(StdinFilePath))
	assert.Equal(t, "api.json", FormatSpecPath("api.json"))
}

func TestStdinSourceName(t *testing.T) {
	assert.Equal(t, "stdin.json", stdinSourceName([]byte("  {\"a\": 1}")))
	assert.Equal(t, "stdin.json", stdinSourceName([]byte("[1]")))
	assert.Equal(t, "stdin.json", stdinSourceName(nil))
	assert.Equal(t, "stdin.yaml", stdinSourceName([]byte("openapi: 3.0.0")))
}

func TestInputOption(t *testing.T) {
	opts, err := inputOption("api.json", nil)
	require.NoError(t, err)
	assert.Len(t, opts, 1)

	opts, err = inputOption(StdinFilePath, strings.NewReader(`{"openapi": "3.0.0"}`))
	require.NoError(t, err)
	result, err := parser.ParseWithOptions(opts...)
	require.NoError(t, err)
	assert.Equal(t, "stdin.json", result.SourcePath)
	assert.Equal(t, "3.0", result.Version)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, ref.NopLogger{}, newLogger(false, &buf))

	newLogger(true, &buf).Debug("fetched document", "uri", "file:///a.json")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "uri=file:///a.json")
}

func TestOutputSpecHeader(t *testing.T) {
	var buf bytes.Buffer
	OutputSpecHeader(&buf, StdinFilePath, "")
	assert.Contains(t, buf.String(), "<stdin>")
	assert.Contains(t, buf.String(), "unknown")
}
