package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// StdinIsPiped reports whether stdin carries data from a pipe or file.
func StdinIsPiped() bool {
	return !IsTerminal(os.Stdin)
}

// OpenTTY opens the controlling terminal for reading keys while stdin is
// busy with piped data. The caller closes the returned file.
func OpenTTY() (*os.File, error) {
	return os.Open("/dev/tty")
}
