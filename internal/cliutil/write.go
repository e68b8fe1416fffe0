// Package cliutil provides output helpers shared by the oasref commands.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningLabel = color.New(color.FgYellow, color.Bold).SprintFunc()
	successText  = color.New(color.FgGreen).SprintfFunc()
	keyText      = color.CyanString
)

// SetColor forces colored output on or off. By default color is enabled
// only when stdout is a terminal and NO_COLOR is unset.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Errorf writes an "Error:" line.
func Errorf(w io.Writer, format string, args ...any) {
	Writef(w, "%s %s\n", errorLabel("Error:"), fmt.Sprintf(format, args...))
}

// Warnf writes a "Warning:" line.
func Warnf(w io.Writer, format string, args ...any) {
	Writef(w, "%s %s\n", warningLabel("Warning:"), fmt.Sprintf(format, args...))
}

// Successf writes a line in the success color.
func Successf(w io.Writer, format string, args ...any) {
	Writef(w, "%s\n", successText(format, args...))
}

// KeyValue writes an aligned "key: value" summary line.
func KeyValue(w io.Writer, key string, value any) {
	Writef(w, "%s %v\n", keyText("%-22s", key+":"), value)
}
