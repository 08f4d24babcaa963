package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/redjax/notetabs/internal/notes"
	"github.com/redjax/notetabs/internal/utils"
)

// maxTabLabel is the widest a tab label may be, in cells.
const maxTabLabel = 18

// renderTabs draws the tab strip in note order. When the strip is wider than
// width, tabs are dropped from the ends so the active tab stays visible.
func renderTabs(list []notes.Note, activeID string, width int) string {
	if len(list) == 0 {
		return ""
	}

	tabs := make([]string, len(list))
	active := 0
	for i, n := range list {
		label := fmt.Sprintf("%d %s", i+1, utils.TruncateDisplay(n.DisplayTitle(), maxTabLabel))
		bg, fg := n.DisplayColors()

		style := tabStyle
		if n.ID == activeID {
			style = activeTabStyle
			active = i
		}
		tabs[i] = swatch(style, bg, fg).Render(label)
	}

	start, end := 0, len(tabs)
	if width > 0 {
		for start < end && stripWidth(tabs[start:end]) > width {
			if start < active {
				start++
			} else if end-1 > active {
				end--
			} else {
				break
			}
		}
	}

	strip := lipgloss.JoinHorizontal(lipgloss.Top, interleave(tabs[start:end], " ")...)
	var b strings.Builder
	if start > 0 {
		b.WriteString("‹ ")
	}
	b.WriteString(strip)
	if end < len(tabs) {
		b.WriteString(" ›")
	}
	return b.String()
}

func stripWidth(tabs []string) int {
	w := 0
	for _, t := range tabs {
		w += lipgloss.Width(t)
	}
	// separators plus room for the overflow markers
	return w + len(tabs) - 1 + 4
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, len(items)*2)
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}
