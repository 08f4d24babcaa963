package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	listMarkerRegex = regexp.MustCompile(`^(\s*)([-*+]|\d+\.)\s`)
	indentRegex     = regexp.MustCompile(`^(\s*)`)
	emptyListRegex  = regexp.MustCompile(`^\s*[-*+]\s*$`)
)

// column is the cursor offset within the logical line, across soft wraps.
func column(ta *textarea.Model) int {
	li := ta.LineInfo()
	return li.StartColumn + li.ColumnOffset
}

// moveCursor moves to line, then to column within it.
func moveCursor(ta *textarea.Model, line, col int) {
	current := ta.Line()
	for current < line && current < ta.LineCount()-1 {
		ta.CursorDown()
		current++
	}
	for current > line && current > 0 {
		ta.CursorUp()
		current--
	}
	ta.SetCursor(col)
}

// lineIndentAndPrefix returns the leading whitespace of the cursor line and
// its list marker, if any.
func lineIndentAndPrefix(ta *textarea.Model) (string, string) {
	lines := strings.Split(ta.Value(), "\n")
	n := ta.Line()
	if n >= len(lines) {
		return "", ""
	}

	if m := listMarkerRegex.FindStringSubmatch(lines[n]); len(m) >= 3 {
		return m[1], m[2] + " "
	}
	return indentRegex.FindString(lines[n]), ""
}

// insertNewLine breaks the line, carrying indentation and list markers over.
// Enter on an empty list item ends the list instead.
func insertNewLine(ta *textarea.Model) tea.Cmd {
	lines := strings.Split(ta.Value(), "\n")
	n := ta.Line()

	if n < len(lines) && emptyListRegex.MatchString(lines[n]) {
		lines[n] = ""
		ta.SetValue(strings.Join(lines, "\n"))
		moveCursor(ta, n, 0)
		return nil
	}

	indent, prefix := lineIndentAndPrefix(ta)

	var cmd tea.Cmd
	*ta, cmd = ta.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if indent+prefix != "" {
		ta.InsertString(indent + prefix)
	}
	return cmd
}

// indentLine prefixes the cursor line with two spaces.
func indentLine(ta *textarea.Model) {
	lines := strings.Split(ta.Value(), "\n")
	n, col := ta.Line(), column(ta)
	if n >= len(lines) {
		return
	}

	lines[n] = "  " + lines[n]
	ta.SetValue(strings.Join(lines, "\n"))
	moveCursor(ta, n, col+2)
}

// unindentLine removes up to two leading spaces, or one tab, from the cursor
// line.
func unindentLine(ta *textarea.Model) {
	lines := strings.Split(ta.Value(), "\n")
	n, col := ta.Line(), column(ta)
	if n >= len(lines) {
		return
	}

	line := lines[n]
	removed := 0
	switch {
	case strings.HasPrefix(line, "  "):
		removed = 2
	case strings.HasPrefix(line, " "), strings.HasPrefix(line, "\t"):
		removed = 1
	default:
		return
	}

	lines[n] = line[removed:]
	ta.SetValue(strings.Join(lines, "\n"))
	moveCursor(ta, n, max(col-removed, 0))
}
