package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/redjax/notetabs/internal/notes"
)

// ColorChosenMsg is sent when the picker confirms a color. Bg is set only for
// notes.ColorCustom.
type ColorChosenMsg struct {
	Color notes.Color
	Bg    string
}

// ColorPickerClosedMsg is sent when the picker is dismissed without a choice.
type ColorPickerClosedMsg struct{}

// ColorPickerModel lets the user pick a palette color or type a custom hex
// background.
type ColorPickerModel struct {
	cursor     int
	input      textinput.Model
	editingHex bool
	err        string
}

func NewColorPicker(current notes.Note) ColorPickerModel {
	ti := textinput.New()
	ti.Placeholder = "#rrggbb"
	ti.CharLimit = 7
	ti.Width = 10
	ti.Prompt = "hex: "

	m := ColorPickerModel{input: ti}
	for i, c := range notes.Palette {
		if c == current.Color {
			m.cursor = i
		}
	}
	if current.Color == notes.ColorCustom {
		m.input.SetValue(current.CustomBg)
	}
	return m
}

func (m ColorPickerModel) Update(msg tea.Msg) (ColorPickerModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editingHex {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.editingHex {
		switch key.String() {
		case "esc":
			m.editingHex = false
			m.err = ""
			m.input.Blur()
			return m, nil

		case "enter":
			hex := normalizeHex(m.input.Value())
			if _, err := notes.RelativeLuminance(hex); err != nil {
				m.err = "invalid hex color"
				return m, nil
			}
			return m, func() tea.Msg {
				return ColorChosenMsg{Color: notes.ColorCustom, Bg: hex}
			}
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.err = ""
		return m, cmd
	}

	switch key.String() {
	case "esc", "q", "ctrl+k":
		return m, func() tea.Msg { return ColorPickerClosedMsg{} }

	case "left", "h", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}

	case "right", "l", "tab":
		if m.cursor < len(notes.Palette)-1 {
			m.cursor++
		}

	case "enter", " ":
		chosen := notes.Palette[m.cursor]
		if chosen == notes.ColorCustom {
			m.editingHex = true
			cmd := m.input.Focus()
			return m, cmd
		}
		return m, func() tea.Msg { return ColorChosenMsg{Color: chosen} }
	}

	return m, nil
}

func (m ColorPickerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Note color"))
	b.WriteString("\n\n")

	swatches := make([]string, 0, len(notes.Palette))
	for i, c := range notes.Palette {
		bg, fg := (notes.Note{Color: c, CustomBg: normalizeHex(m.input.Value())}).DisplayColors()
		style := swatch(tabStyle, bg, fg)
		if i == m.cursor {
			style = style.Bold(true).Underline(true)
		}
		swatches = append(swatches, style.Render(string(c)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, interleave(swatches, " ")...))
	b.WriteString("\n")

	if m.editingHex {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		if m.err != "" {
			b.WriteString("  ")
			b.WriteString(saveFailedStyle.Render(m.err))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: apply • esc: back"))
	} else {
		b.WriteString(helpStyle.Render("←/→: choose • enter: apply • esc: cancel"))
	}

	return b.String()
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return strings.ToLower(s)
}
