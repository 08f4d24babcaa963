package notes

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redjax/notetabs/internal/storage"
)

// Storage keys. The legacy keys are only ever read.
const (
	NotesKey      = "notetabs_notes"
	ActiveNoteKey = "notetabs_active_note"

	LegacyNotesKey      = "notes"
	LegacyActiveNoteKey = "activeNote"
	LegacyContentKey    = "notepadContent"
)

// Keys lists every key read during initialization.
var Keys = []string{
	NotesKey,
	ActiveNoteKey,
	LegacyNotesKey,
	LegacyActiveNoteKey,
	LegacyContentKey,
}

// Document is the persisted state: the ordered notes and the active pointer.
type Document struct {
	Notes    []Note `json:"notes"`
	ActiveID string `json:"activeNoteId,omitempty"`
}

// Empty reports whether the document holds no notes.
func (d Document) Empty() bool {
	return len(d.Notes) == 0
}

// Values returns the document keyed for storage under the current keys.
// An empty active pointer is stored as null.
func (d Document) Values() map[string]any {
	notes := d.Notes
	if notes == nil {
		notes = []Note{}
	}

	var active any
	if d.ActiveID != "" {
		active = d.ActiveID
	}

	return map[string]any{
		NotesKey:      notes,
		ActiveNoteKey: active,
	}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := Document{ActiveID: d.ActiveID}
	if d.Notes != nil {
		out.Notes = make([]Note, len(d.Notes))
		copy(out.Notes, d.Notes)
	}
	return out
}

// decodeDocument reads a document stored under notesKey/activeKey. Missing
// keys decode to an empty document. Notes are decoded one by one; those that
// fail are skipped and counted. Only a notes value that is not an array is an
// error.
func decodeDocument(values map[string]json.RawMessage, notesKey, activeKey string) (Document, int, error) {
	var doc Document
	skipped := 0

	if raw, ok := values[notesKey]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return Document{}, 0, fmt.Errorf("%w: %s: %w", storage.ErrMalformed, notesKey, err)
		}

		for _, item := range items {
			var n Note
			if err := json.Unmarshal(item, &n); err != nil {
				skipped++
				continue
			}
			doc.Notes = append(doc.Notes, n)
		}
	}

	if raw, ok := values[activeKey]; ok {
		if err := json.Unmarshal(raw, &doc.ActiveID); err != nil {
			// A bad pointer is recoverable; sanitize picks the first note.
			doc.ActiveID = ""
		}
	}

	return doc, skipped, nil
}

// decodeLegacyContent reads the single-note legacy value.
func decodeLegacyContent(values map[string]json.RawMessage) (string, error) {
	raw, ok := values[LegacyContentKey]
	if !ok {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("%w: %s: %w", storage.ErrMalformed, LegacyContentKey, err)
	}
	return text, nil
}

// sanitize drops notes without an id and repeated ids, resets unknown colors
// and points ActiveID at an existing note.
func (d Document) sanitize() (Document, int) {
	seen := make(map[string]bool, len(d.Notes))
	out := Document{ActiveID: d.ActiveID}
	dropped := 0

	for _, n := range d.Notes {
		if n.ID == "" || seen[n.ID] {
			dropped++
			continue
		}
		seen[n.ID] = true

		if n.Color == "" || !n.Color.Valid() {
			n.Color = ColorDefault
		}
		if n.Color != ColorCustom {
			n.CustomBg, n.CustomFg = "", ""
		}
		out.Notes = append(out.Notes, n)
	}

	if !seen[out.ActiveID] {
		out.ActiveID = ""
		if len(out.Notes) > 0 {
			out.ActiveID = out.Notes[0].ID
		}
	}

	return out, dropped
}

// MigrationSource names where Migrate took its state from.
type MigrationSource int

const (
	SourceNone MigrationSource = iota
	SourceLegacyTabs
	SourceLegacySingle
)

func (s MigrationSource) String() string {
	switch s {
	case SourceLegacyTabs:
		return "legacy-tabs"
	case SourceLegacySingle:
		return "legacy-single"
	default:
		return "none"
	}
}

// Migrate decides which state to adopt. Current data always wins. Without
// it, multi-note legacy data is adopted, and without that a non-blank legacy
// single-note text becomes one note built by mint. The returned source is
// SourceNone when nothing was adopted, in which case current is returned
// unchanged.
func Migrate(current, legacy Document, legacyText string, mint func() Note) (Document, MigrationSource) {
	if !current.Empty() {
		return current, SourceNone
	}

	if !legacy.Empty() {
		return legacy.Clone(), SourceLegacyTabs
	}

	if strings.TrimSpace(legacyText) != "" && mint != nil {
		n := mint()
		n.Content = legacyText
		n.Title = DeriveTitle(legacyText, n.Title)
		return Document{Notes: []Note{n}, ActiveID: n.ID}, SourceLegacySingle
	}

	return current, SourceNone
}
