package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oasref"
	"github.com/erraggy/oasref/cmd/oasref/commands"
	"github.com/erraggy/oasref/internal/cliutil"
	"github.com/erraggy/oasref/internal/mcpserver"
)

// validCommands lists the commands suggestCommand may propose.
var validCommands = []string{"expand", "resolve", "mcp", "version", "help"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], commands.DefaultStreams())
	stop()
	os.Exit(code)
}

// run dispatches args to a command and returns the process exit code.
func run(ctx context.Context, args []string, s commands.Streams) int {
	if len(args) < 1 {
		printUsage(s)
		return 1
	}

	var err error
	switch command := args[0]; command {
	case "version", "-v", "--version":
		cliutil.Writef(s.Out, "oasref %s\n", oasref.Version())
		if len(args) > 1 && (args[1] == "-v" || args[1] == "--verbose") {
			cliutil.Writef(s.Out, "%s\n", oasref.BuildInfo())
		}
		return 0
	case "help", "-h", "--help":
		printUsage(s)
		return 0
	case "expand":
		err = commands.HandleExpand(ctx, args[1:], s)
	case "resolve":
		err = commands.HandleResolve(ctx, args[1:], s)
	case "mcp":
		err = mcpserver.Run(ctx)
	default:
		cliutil.Errorf(s.Err, "unknown command: %s", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			cliutil.Writef(s.Err, "Did you mean '%s'?\n", suggestion)
		}
		cliutil.Writef(s.Err, "\n")
		printUsage(s)
		return 1
	}

	if err != nil {
		cliutil.Errorf(s.Err, "%v", err)
		return 1
	}
	return 0
}

func printUsage(s commands.Streams) {
	cliutil.Writef(s.Err, `oasref - OpenAPI $ref resolution and document expansion

Usage:
  oasref <command> [flags] [arguments]

Commands:
  expand     Replace every $ref in a document with its target
  resolve    Resolve a single $ref and print its expanded target
  mcp        Run the MCP server over stdio
  version    Print version information (add -v for build details)
  help       Show this help

Run 'oasref <command> --help' for details on a command.
`)
}

// suggestCommand returns the closest valid command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, cmd := range validCommands {
		if d := levenshtein(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
