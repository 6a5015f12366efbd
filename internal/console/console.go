// Package console provides cross-platform console utilities.
package console

// SetTitle sets the console window title.
// On Windows this uses the console API; elsewhere it writes the xterm
// title escape sequence to stdout.
func SetTitle(title string) {
	setTitle(title)
}
