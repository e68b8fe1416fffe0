package ref

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasref/internal/httputil"
	"github.com/erraggy/oasref/oaserrors"
)

// Format identifies the serialization of a fetched document.
type Format string

const (
	// FormatUnknown means neither the source name nor its media type decided the format.
	FormatUnknown Format = ""
	// FormatJSON is a JSON document.
	FormatJSON Format = "json"
	// FormatYAML is a YAML document.
	FormatYAML Format = "yaml"
)

// DetectFormat guesses the format of a document from its source URI or path,
// falling back to the Content-Type of an HTTP response.
func DetectFormat(source, contentType string) Format {
	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	switch {
	case httputil.IsJSONMediaType(contentType):
		return FormatJSON
	case httputil.IsYAMLMediaType(contentType):
		return FormatYAML
	}
	return FormatUnknown
}

// Decode turns raw document bytes into a tree of map[string]any, []any, and
// scalars.
//
// YAML sources are rejected unless allowYAML is set. With allowYAML, sources of
// unknown format are decoded as YAML, which also accepts JSON.
func Decode(data []byte, source string, format Format, allowYAML bool) (any, error) {
	if format == FormatYAML && !allowYAML {
		return nil, &oaserrors.FormatError{
			Source:  source,
			Format:  string(FormatYAML),
			Message: "only JSON supported, convert YAML to JSON first",
		}
	}
	if format == FormatYAML || (format == FormatUnknown && allowYAML) {
		return decodeYAML(data, source)
	}
	return decodeJSON(data, source)
}

func decodeJSON(data []byte, source string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &oaserrors.FormatError{Source: source, Format: string(FormatJSON), Message: "invalid JSON", Cause: err}
	}
	if dec.More() {
		return nil, &oaserrors.FormatError{Source: source, Format: string(FormatJSON), Message: "trailing data after JSON document"}
	}
	return doc, nil
}

func decodeYAML(data []byte, source string) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &oaserrors.FormatError{Source: source, Format: string(FormatYAML), Message: "invalid YAML", Cause: err}
	}
	return normalizeKeys(doc), nil
}

// normalizeKeys converts YAML mappings with non-string keys into
// map[string]any so that every object in the tree has the same Go type.
func normalizeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalizeKeys(child)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = normalizeKeys(child)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = normalizeKeys(child)
		}
		return t
	default:
		return v
	}
}
