//go:build !windows

package console

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

func setTitle(title string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return
	}
	writeTitle(os.Stdout, title)
}

// writeTitle emits the OSC 0 sequence terminals use for the window title.
func writeTitle(w io.Writer, title string) {
	fmt.Fprintf(w, "\x1b]0;%s\x07", title)
}
