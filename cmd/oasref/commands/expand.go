package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/oasref/internal/cliutil"
	"github.com/erraggy/oasref/internal/fileutil"
	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/ref"
)

// ExpandFlags contains flags for the expand command
type ExpandFlags struct {
	NoExternal  bool
	MaxRefDepth int
	CacheSize   int
	AllowYAML   bool
	Format      string
	Output      string
	Strictness  string
	Insecure    bool
	Quiet       bool
	Verbose     bool
}

// SetupExpandFlags creates and configures a FlagSet for the expand command.
// Returns the FlagSet and an ExpandFlags struct with bound flag variables.
func SetupExpandFlags() (*flag.FlagSet, *ExpandFlags) {
	fs := flag.NewFlagSet("expand", flag.ContinueOnError)
	flags := &ExpandFlags{}

	fs.BoolVar(&flags.NoExternal, "no-external", false, "leave refs to other documents in place instead of fetching them")
	fs.IntVar(&flags.MaxRefDepth, "max-ref-depth", parser.DefaultMaxRefDepth, "maximum length of a $ref chain")
	fs.IntVar(&flags.CacheSize, "cache-size", ref.DefaultLRUSize, "number of resolved refs kept in the LRU cache")
	fs.BoolVar(&flags.AllowYAML, "allow-yaml", false, "accept YAML documents")
	fs.StringVar(&flags.Format, "format", FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.Output, "o", "", "write the expanded document to this file instead of stdout")
	fs.StringVar(&flags.Output, "output", "", "write the expanded document to this file instead of stdout")
	fs.StringVar(&flags.Strictness, "strictness", string(parser.StrictnessStrict), "parse strictness: strict or lenient")
	fs.BoolVar(&flags.Insecure, "insecure", false, "disable TLS certificate verification for HTTPS documents")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log resolution steps to stderr")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: oasref expand [flags] <file|url|->\n\n")
		cliutil.Writef(output, "Replace every $ref in an OpenAPI document with the value it points to.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  oasref expand openapi.json\n")
		cliutil.Writef(output, "  oasref expand --allow-yaml --format yaml openapi.yaml\n")
		cliutil.Writef(output, "  oasref expand --no-external -o expanded.json openapi.json\n")
		cliutil.Writef(output, "  oasref expand https://example.com/api/openapi.json\n")
		cliutil.Writef(output, "  cat openapi.json | oasref expand -q -\n")
		cliutil.Writef(output, "\nSibling keys next to a $ref override the matching keys of the target.\n")
		cliutil.Writef(output, "Circular references are reported as errors.\n")
		cliutil.Writef(output, "\nPipelining:\n")
		cliutil.Writef(output, "  - Use '-' as the file path to read from stdin\n")
		cliutil.Writef(output, "  - Use --quiet/-q to suppress diagnostic output for pipelining\n")
		cliutil.Writef(output, "\nExit Codes:\n")
		cliutil.Writef(output, "  0    Expansion successful\n")
		cliutil.Writef(output, "  1    Expansion failed (missing target, cycle, limit exceeded, bad input)\n")
	}

	return fs, flags
}

// options translates the flags into parser options.
func (f *ExpandFlags) options(s Streams) ([]parser.Option, error) {
	if err := ValidateOutputFormat(f.Format); err != nil {
		return nil, err
	}
	strictness, err := parser.ParseStrictness(f.Strictness)
	if err != nil {
		return nil, err
	}
	cache, err := ref.NewLRUCache(f.CacheSize)
	if err != nil {
		return nil, err
	}
	return []parser.Option{
		parser.WithCache(cache),
		parser.WithResolveExternalRefs(!f.NoExternal),
		parser.WithMaxRefDepth(f.MaxRefDepth),
		parser.WithAllowYAML(f.AllowYAML),
		parser.WithStrictness(strictness),
		parser.WithInsecureSkipVerify(f.Insecure),
		parser.WithLogger(newLogger(f.Verbose, s.Err)),
	}, nil
}

// HandleExpand executes the expand command
func HandleExpand(ctx context.Context, args []string, s Streams) error {
	fs, flags := SetupExpandFlags()
	fs.SetOutput(s.Err)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expand command requires exactly one file path, URL, or '-' for stdin")
	}
	specPath := fs.Arg(0)

	if flags.Output != "" && specPath != StdinFilePath && fileutil.SameFile(flags.Output, specPath) {
		return fmt.Errorf("output file %s would overwrite input file %s", flags.Output, specPath)
	}

	opts, err := flags.options(s)
	if err != nil {
		return err
	}
	input, err := inputOption(specPath, s.In)
	if err != nil {
		return err
	}

	result, err := parser.ParseWithOptionsContext(ctx, append(input, opts...)...)
	if err != nil {
		return err
	}

	data, err := MarshalDocument(result.Data, flags.Format)
	if err != nil {
		return err
	}

	if flags.Output != "" {
		written, err := fileutil.WriteOutput(flags.Output, data)
		if err != nil {
			return err
		}
		if !flags.Quiet {
			cliutil.KeyValue(s.Err, "Output", written)
		}
	} else if _, err := s.Out.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	// Diagnostics go to stderr to keep stdout clean for the document
	if !flags.Quiet {
		OutputSpecHeader(s.Err, specPath, result.Version)
		OutputExpandStats(s.Err, result)
		cliutil.Successf(s.Err, "Expansion completed successfully!")
	}
	return nil
}
