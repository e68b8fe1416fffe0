package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/oasref/internal/cliutil"
	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/ref"
	"github.com/erraggy/oasref/uri"
)

// ResolveFlags contains flags for the resolve command
type ResolveFlags struct {
	Base        string
	MaxRefDepth int
	CacheSize   int
	AllowYAML   bool
	Format      string
	Insecure    bool
	Quiet       bool
	Verbose     bool
}

// SetupResolveFlags creates and configures a FlagSet for the resolve command.
// Returns the FlagSet and a ResolveFlags struct with bound flag variables.
func SetupResolveFlags() (*flag.FlagSet, *ResolveFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	flags := &ResolveFlags{}

	fs.StringVar(&flags.Base, "base", "", "base URI relative refs resolve against (defaults to the document location)")
	fs.IntVar(&flags.MaxRefDepth, "max-ref-depth", parser.DefaultMaxRefDepth, "maximum length of a $ref chain")
	fs.IntVar(&flags.CacheSize, "cache-size", ref.DefaultLRUSize, "number of resolved refs kept in the LRU cache")
	fs.BoolVar(&flags.AllowYAML, "allow-yaml", false, "accept YAML documents")
	fs.StringVar(&flags.Format, "format", FormatJSON, "output format: json or yaml")
	fs.BoolVar(&flags.Insecure, "insecure", false, "disable TLS certificate verification for HTTPS documents")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the target, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the target, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log resolution steps to stderr")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: oasref resolve [flags] <file|url|-> <ref>\n\n")
		cliutil.Writef(output, "Resolve one $ref against a document and print its fully expanded target.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  oasref resolve openapi.json '#/components/schemas/Pet'\n")
		cliutil.Writef(output, "  oasref resolve openapi.json 'common.json#/Error'\n")
		cliutil.Writef(output, "  cat openapi.json | oasref resolve --base https://example.com/api/ - '#/paths/~1pets'\n")
		cliutil.Writef(output, "\nExit Codes:\n")
		cliutil.Writef(output, "  0    Reference resolved\n")
		cliutil.Writef(output, "  1    Reference could not be resolved\n")
	}

	return fs, flags
}

// HandleResolve executes the resolve command
func HandleResolve(ctx context.Context, args []string, s Streams) error {
	fs, flags := SetupResolveFlags()
	fs.SetOutput(s.Err)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("resolve command requires a document and a ref")
	}
	specPath, refStr := fs.Arg(0), fs.Arg(1)
	if refStr == "" {
		return fmt.Errorf("ref must not be empty")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	logger := newLogger(flags.Verbose, s.Err)
	// One fetcher serves the document load, the ref hop and the target's
	// own expansion, so each document is read once.
	fetcher := ref.NewCachingFetcher(&ref.DefaultFetcher{
		InsecureSkipVerify: flags.Insecure,
		AllowYAML:          flags.AllowYAML,
		Logger:             logger,
	}, 0, 0)

	input, err := inputOption(specPath, s.In)
	if err != nil {
		return err
	}
	opts := append(input,
		parser.WithFetcher(fetcher),
		parser.WithMaxRefDepth(flags.MaxRefDepth),
		parser.WithAllowYAML(flags.AllowYAML),
		parser.WithLogger(logger),
	)
	if flags.Base != "" {
		opts = append(opts, parser.WithBaseURI(flags.Base))
	}
	result, err := parser.ParseWithOptionsContext(ctx, opts...)
	if err != nil {
		return err
	}

	cache, err := ref.NewLRUCache(flags.CacheSize)
	if err != nil {
		return err
	}
	resolver := ref.NewResolver(fetcher, cache, ref.WithMaxDepth(flags.MaxRefDepth), ref.WithLogger(logger))
	res, err := resolver.Resolve(ctx, refStr, result.BaseURI, result.Data, nil)
	if err != nil {
		return err
	}
	external := res.BaseURI != result.BaseURI

	p := parser.New(resolver, nil)
	p.Logger = logger
	target, err := p.ExpandResolution(ctx, res, parser.DefaultParseOptions().WithMaxRefDepth(flags.MaxRefDepth))
	if err != nil {
		return err
	}

	data, err := MarshalDocument(target, flags.Format)
	if err != nil {
		return err
	}
	if _, err := s.Out.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !flags.Quiet {
		cliutil.KeyValue(s.Err, "Ref", refStr)
		cliutil.KeyValue(s.Err, "Resolved URI", res.ResolvedURI)
		cliutil.KeyValue(s.Err, "Document", res.BaseURI)
		cliutil.KeyValue(s.Err, "Kind", parser.HintKindAt(uri.SplitPointer(res.Pointer)))
		cliutil.KeyValue(s.Err, "External", external)
	}
	return nil
}
