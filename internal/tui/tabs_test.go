package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/redjax/notetabs/internal/notes"
)

func TestRenderTabs(t *testing.T) {
	list := []notes.Note{
		{ID: "a", Title: "Groceries", Color: notes.ColorYellow},
		{ID: "b", Title: ""},
		{ID: "c", Title: "A fairly long title here", Color: notes.ColorCustom, CustomBg: "#000000"},
	}

	out := renderTabs(list, "b", 0)
	assert.Contains(t, out, "1 Groceries")
	assert.Contains(t, out, "2 New Note")
	assert.Contains(t, out, "3 A fairly long tit…")
	assert.Less(t, strings.Index(out, "Groceries"), strings.Index(out, "New Note"))
}

func TestRenderTabsKeepsActiveVisible(t *testing.T) {
	var list []notes.Note
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		list = append(list, notes.Note{ID: id, Title: "Title " + id})
	}

	out := renderTabs(list, "h", 40)
	assert.Contains(t, out, "Title h")
	assert.NotContains(t, out, "Title a")
	assert.True(t, strings.HasPrefix(out, "‹ "))
	assert.LessOrEqual(t, lipgloss.Width(out), 40)

	out = renderTabs(list, "a", 40)
	assert.Contains(t, out, "Title a")
	assert.True(t, strings.HasSuffix(out, " ›"))
}
