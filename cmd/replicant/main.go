// Replicant - inspect a module's source, then run it on confirmation.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/kannan/replicant/internal/cli"
)

func main() {
	// The interactive UI is launched when there are no arguments and both
	// stdin and stdout are terminals.
	if shouldRunUI() {
		if err := runUI(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cli.Execute()
}

// shouldRunUI determines if interactive UI should be launched.
func shouldRunUI() bool {
	if len(os.Args) > 1 {
		return false
	}
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
