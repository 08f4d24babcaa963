package notes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MaxTitleLength is the number of runes kept from the first line of content.
const MaxTitleLength = 20

// Note is a single user-authored text document.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Title     string    `json:"title"`
	Color     Color     `json:"color"`
	CustomBg  string    `json:"customBg,omitempty"`
	CustomFg  string    `json:"customFg,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultTitle is the label given to the n-th note at creation.
func DefaultTitle(n int) string {
	return fmt.Sprintf("Note %d", n)
}

// DeriveTitle returns the title for content: the first line, trimmed and
// cut to MaxTitleLength runes. If that line is blank, prev is kept.
func DeriveTitle(content, prev string) string {
	firstLine, _, _ := strings.Cut(content, "\n")
	firstLine = strings.TrimSpace(firstLine)
	if firstLine == "" {
		return prev
	}

	runes := []rune(firstLine)
	if len(runes) > MaxTitleLength {
		return string(runes[:MaxTitleLength])
	}
	return firstLine
}

// DisplayTitle is the label shown on a tab.
func (n Note) DisplayTitle() string {
	if n.Title == "" {
		return "New Note"
	}
	return n.Title
}

// UnmarshalJSON accepts timestamps either as RFC 3339 strings or as
// millisecond epoch numbers, which is how older stores wrote them.
func (n *Note) UnmarshalJSON(data []byte) error {
	type alias Note
	aux := struct {
		*alias
		CreatedAt json.RawMessage `json:"createdAt"`
		UpdatedAt json.RawMessage `json:"updatedAt"`
	}{alias: (*alias)(n)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if n.CreatedAt, err = parseTimestamp(aux.CreatedAt); err != nil {
		return fmt.Errorf("createdAt: %w", err)
	}
	if n.UpdatedAt, err = parseTimestamp(aux.UpdatedAt); err != nil {
		return fmt.Errorf("updatedAt: %w", err)
	}
	return nil
}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}

	if raw[0] == '"' {
		var t time.Time
		err := json.Unmarshal(raw, &t)
		return t, err
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}
