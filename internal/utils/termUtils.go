package utils

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// DetectTerminalWidth tries to get the terminal width, falling back to a default if necessary.
func DetectTerminalWidth(fallback int) int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		w, _, err := term.GetSize(int(fd))
		if err == nil && w >= 40 {
			return w
		}
	}
	return fallback
}

// IsInteractive reports whether stdout is a terminal.
func IsInteractive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// MaxColumnWidth returns the room left for a variable column after the fixed
// columns and borders, never less than 10.
func MaxColumnWidth(termWidth, fixed, borders int) int {
	return max(termWidth-(fixed+borders), 10)
}

// TruncateDisplay cuts s to at most width terminal cells, adding an ellipsis
// when something was removed.
func TruncateDisplay(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
