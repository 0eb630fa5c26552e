// Package cli holds the process entrypoint used by kfetch's main package and
// its in-process tests.
package cli

import (
	"fmt"
	"io"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
)

// Handler executes kfetch with args (without the program name) and returns
// the exit code. The main package sets it in init so tests can drive the
// whole command tree without building a binary.
var Handler func(args []string, stdout, stderr io.Writer) int

// Run dispatches to Handler. Failures are reported on stderr as a single
// "error: ..." line.
func Run(args []string, stdout, stderr io.Writer) int {
	if Handler == nil {
		fmt.Fprintln(stderr, "error: internal: cli handler not configured")
		return ExitError
	}
	return Handler(args, stdout, stderr)
}

// Fail writes err to stderr in the form Run documents and returns ExitError.
func Fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "error: %v\n", err)
	return ExitError
}
