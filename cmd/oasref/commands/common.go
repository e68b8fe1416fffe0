// Package commands provides CLI command handlers for oasref.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasref"
	"github.com/erraggy/oasref/internal/cliutil"
	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/ref"
)

// Output format constants
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// DefaultStreams returns the process's stdin, stdout and stderr.
func DefaultStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", format, FormatJSON, FormatYAML)
	}
	return nil
}

// MarshalDocument marshals a tree in the given format. JSON is indented
// and both formats end with a newline.
func MarshalDocument(doc any, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling to %s: %w", format, err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshaling to %s: %w", format, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("invalid format for structured output: %s", format)
	}
}

// FormatSpecPath returns "<stdin>" for StdinFilePath and the path otherwise.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// stdinSourceName picks the name stdin content is decoded under, which in
// turn selects the decoder.
func stdinSourceName(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != '[' {
		return "stdin.yaml"
	}
	return "stdin.json"
}

// inputOption selects the input source for specPath, reading stdin fully
// when specPath is StdinFilePath.
func inputOption(specPath string, in io.Reader) ([]parser.Option, error) {
	if specPath != StdinFilePath {
		return []parser.Option{parser.WithFilePath(specPath)}, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return []parser.Option{parser.WithBytes(data), parser.WithSourceName(stdinSourceName(data))}, nil
}

// newLogger returns a debug-level text logger on w when verbose is set and
// a discarding logger otherwise.
func newLogger(verbose bool, w io.Writer) ref.Logger {
	if !verbose {
		return ref.NopLogger{}
	}
	return ref.NewSlogAdapter(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// OutputSpecHeader writes the common header: oasref version, document
// path and OAS version.
func OutputSpecHeader(w io.Writer, specPath, version string) {
	if version == "" {
		version = "unknown"
	}
	cliutil.KeyValue(w, "oasref version", oasref.Version())
	cliutil.KeyValue(w, "Specification", FormatSpecPath(specPath))
	cliutil.KeyValue(w, "OAS Version", version)
}

// OutputExpandStats writes expansion and document statistics.
func OutputExpandStats(w io.Writer, result *parser.ParseResult) {
	cliutil.KeyValue(w, "Base URI", result.BaseURI)
	cliutil.KeyValue(w, "Refs resolved", result.Stats.RefsResolved)
	cliutil.KeyValue(w, "External documents", result.Stats.ExternalDocuments)
	if result.Stats.SkippedExternalRefs > 0 {
		cliutil.KeyValue(w, "Skipped external refs", result.Stats.SkippedExternalRefs)
	}
	cliutil.KeyValue(w, "Paths", result.Document.PathCount)
	cliutil.KeyValue(w, "Operations", result.Document.OperationCount)
	cliutil.KeyValue(w, "Schemas", result.Document.SchemaCount)
	cliutil.KeyValue(w, "Load Time", result.LoadTime.Round(time.Microsecond))
	cliutil.KeyValue(w, "Expand Time", result.ExpandTime.Round(time.Microsecond))
}
