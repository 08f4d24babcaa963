package tui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/redjax/notetabs/internal/notes"
	"github.com/redjax/notetabs/internal/utils"
)

// Clipboard is the system clipboard as seen by the editor.
type Clipboard interface {
	WriteText(text string) error
	ReadText() (string, error)
}

// SaveStatusMsg carries a store save status change into the program.
type SaveStatusMsg struct {
	Status notes.SaveStatus
	Err    error
}

// NotesSavedMsg reports the result of an explicit save.
type NotesSavedMsg struct {
	Err error
}

// ClearFlashMsg clears the flash message it was scheduled for.
type ClearFlashMsg struct {
	id int
}

type clipboardCopiedMsg struct {
	err error
}

type clipboardPasteMsg struct {
	text string
	err  error
}

var countPrinter = message.NewPrinter(language.English)

// AppModel is the tabbed notes editor.
type AppModel struct {
	ctx       context.Context
	store     *notes.Store
	status    *StatusBridge
	clipboard Clipboard

	textarea    textarea.Model
	lastContent string

	picker            ColorPickerModel
	showPicker        bool
	showDeleteConfirm bool

	saveStatus notes.SaveStatus
	saveErr    error
	dirty      bool
	flash      string
	flashID    int

	width    int
	height   int
	quitting bool
}

// NewAppModel builds the editor over an initialized store. status and
// clipboard may be nil.
func NewAppModel(ctx context.Context, store *notes.Store, status *StatusBridge, clipboard Clipboard) AppModel {
	ta := textarea.New()
	ta.Placeholder = "Start typing..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()

	m := AppModel{
		ctx:       ctx,
		store:     store,
		status:    status,
		clipboard: clipboard,
		textarea:  ta,
	}
	m.loadActive()
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.status.wait())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case SaveStatusMsg:
		m.saveStatus = msg.Status
		m.saveErr = msg.Err
		m.dirty = m.store.Dirty()
		return m, m.status.wait()

	case NotesSavedMsg:
		m.dirty = m.store.Dirty()
		if msg.Err != nil {
			return m, m.setFlash(fmt.Sprintf("Save failed: %v", msg.Err))
		}
		return m, m.setFlash("✓ Saved")

	case ClearFlashMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
		return m, nil

	case clipboardCopiedMsg:
		if msg.err != nil {
			return m, m.setFlash(fmt.Sprintf("Copy failed: %v", msg.err))
		}
		return m, m.setFlash("Copied to clipboard")

	case clipboardPasteMsg:
		if msg.err != nil {
			return m, m.setFlash(fmt.Sprintf("Paste failed: %v", msg.err))
		}
		m.insert(msg.text)
		return m, nil

	case ColorChosenMsg:
		m.showPicker = false
		if err := m.store.SetColor(m.ctx, msg.Color, msg.Bg, ""); err != nil {
			return m, m.setFlash(fmt.Sprintf("Color not applied: %v", err))
		}
		m.dirty = m.store.Dirty()
		return m, nil

	case ColorPickerClosedMsg:
		m.showPicker = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.showPicker {
		m.picker, cmd = m.picker.Update(msg)
	} else {
		m.textarea, cmd = m.textarea.Update(msg)
	}
	return m, cmd
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showPicker {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			m.showDeleteConfirm = false
			m.deleteActive()
		case "n", "N", "esc":
			m.showDeleteConfirm = false
		}
		return m, nil
	}

	// Bracketed pastes are inserted as plain text.
	if msg.Paste {
		m.insert(string(msg.Runes))
		return m, nil
	}

	if n, ok := tabShortcut(msg); ok {
		m.switchToIndex(n)
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		// Errors surface through the status handler.
		_ = m.store.Flush(m.ctx)
		return m, tea.Quit

	case "ctrl+s":
		return m, m.saveCmd()

	case "ctrl+n":
		m.store.CreateNote(m.ctx)
		m.loadActive()
		return m, nil

	case "ctrl+w":
		// Closing loses text unless the only note is already empty.
		if m.store.Len() > 1 || m.lastContent != "" {
			m.showDeleteConfirm = true
			return m, nil
		}
		m.deleteActive()
		return m, nil

	case "ctrl+right":
		m.switchBy(1)
		return m, nil

	case "ctrl+left":
		m.switchBy(-1)
		return m, nil

	case "ctrl+k":
		active, _ := m.store.Active()
		m.picker = NewColorPicker(active)
		m.showPicker = true
		return m, nil

	case "alt+c":
		return m, m.copyCmd()

	case "ctrl+v":
		return m, m.pasteCmd()

	case "tab":
		indentLine(&m.textarea)
		m.afterEdit()
		return m, nil

	case "shift+tab":
		unindentLine(&m.textarea)
		m.afterEdit()
		return m, nil

	case "enter":
		cmd := insertNewLine(&m.textarea)
		m.afterEdit()
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.afterEdit()
	return m, cmd
}

// tabShortcut maps alt+1..alt+9 to a zero-based tab index.
func tabShortcut(msg tea.KeyMsg) (int, bool) {
	if !msg.Alt || msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}

// loadActive puts the active note's content in the editor. It follows every
// structural change, so the unsaved marker is refreshed here too.
func (m *AppModel) loadActive() {
	active, _ := m.store.Active()
	m.textarea.SetValue(active.Content)
	m.lastContent = active.Content
	m.dirty = m.store.Dirty()
}

// afterEdit hands the content to the store when the editor content changed.
func (m *AppModel) afterEdit() {
	value := m.textarea.Value()
	if value == m.lastContent {
		return
	}

	m.lastContent = value
	m.store.Edit(value)
	m.dirty = true
}

func (m *AppModel) insert(text string) {
	text = utils.PlainText(text)
	if text == "" {
		return
	}
	m.textarea.InsertString(text)
	m.afterEdit()
}

func (m *AppModel) switchBy(delta int) {
	list := m.store.Notes()
	if len(list) < 2 {
		return
	}
	idx := m.store.ActiveIndex()
	m.switchToIndex((idx + delta + len(list)) % len(list))
}

func (m *AppModel) switchToIndex(i int) {
	list := m.store.Notes()
	if i < 0 || i >= len(list) {
		return
	}
	if err := m.store.SwitchTo(m.ctx, list[i].ID); err != nil {
		return
	}
	m.loadActive()
}

func (m *AppModel) deleteActive() {
	m.store.DeleteActive(m.ctx)
	m.loadActive()
}

func (m *AppModel) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.textarea.SetWidth(max(m.width-4, 10))
	m.textarea.SetHeight(max(m.height-8, 3))
}

func (m *AppModel) setFlash(text string) tea.Cmd {
	m.flashID++
	m.flash = text
	id := m.flashID
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return ClearFlashMsg{id: id}
	})
}

func (m AppModel) saveCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return NotesSavedMsg{Err: store.Save(ctx)}
	}
}

func (m AppModel) copyCmd() tea.Cmd {
	clip, text := m.clipboard, m.textarea.Value()
	return func() tea.Msg {
		if clip == nil {
			return clipboardCopiedMsg{err: fmt.Errorf("clipboard unavailable")}
		}
		return clipboardCopiedMsg{err: clip.WriteText(text)}
	}
}

func (m AppModel) pasteCmd() tea.Cmd {
	clip := m.clipboard
	return func() tea.Msg {
		if clip == nil {
			return clipboardPasteMsg{err: fmt.Errorf("clipboard unavailable")}
		}
		text, err := clip.ReadText()
		return clipboardPasteMsg{text: text, err: err}
	}
}

func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	if m.showPicker {
		return m.frame(m.picker.View())
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("📝 notetabs"))
	b.WriteString("  ")
	b.WriteString(renderTabs(m.store.Notes(), m.store.ActiveID(), max(m.width-14, 0)))
	b.WriteString("\n")

	active, _ := m.store.Active()
	border := editorStyle
	if bg, _ := active.DisplayColors(); bg != "" {
		border = border.BorderForeground(lipgloss.Color(bg))
	}
	b.WriteString(border.Render(m.textarea.View()))
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.showDeleteConfirm {
		prompt := fmt.Sprintf("⚠ Close %q? Its content will be lost. (y/n)", active.DisplayTitle())
		if m.store.Len() == 1 {
			prompt = fmt.Sprintf("⚠ Clear %q? It is the only note. (y/n)", active.DisplayTitle())
		}
		b.WriteString(confirmStyle.Render(prompt))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("ctrl+n: new • ctrl+w: close • ctrl+←/→: switch • alt+1-9: jump • ctrl+k: color • alt+c: copy • ctrl+s: save • esc: quit"))

	return m.frame(b.String())
}

func (m AppModel) statusLine() string {
	parts := []string{
		helpStyle.Render(countPrinter.Sprintf("%d chars", utf8.RuneCountInString(m.lastContent))),
	}

	switch m.saveStatus {
	case notes.StatusSaving:
		parts = append(parts, savingStyle.Render(m.saveStatus.String()))
	case notes.StatusSaved:
		parts = append(parts, saveSuccessStyle.Render(m.saveStatus.String()))
	case notes.StatusFailed:
		text := m.saveStatus.String()
		if m.saveErr != nil {
			text = fmt.Sprintf("%s: %v", text, m.saveErr)
		}
		parts = append(parts, saveFailedStyle.Render(text))
	}

	if m.dirty {
		parts = append(parts, savingStyle.Render("● unsaved"))
	}

	if m.flash != "" {
		if strings.HasPrefix(m.flash, "✓") {
			parts = append(parts, saveSuccessStyle.Render(m.flash))
		} else {
			parts = append(parts, helpStyle.Render(m.flash))
		}
	}

	return strings.Join(parts, helpStyle.Render(" • "))
}

func (m AppModel) frame(content string) string {
	if m.width > 0 && m.height > 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Render(content)
	}
	return content
}
