package notes

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		prev    string
		want    string
	}{
		{"First Line", "Hello\nworld", "Note 1", "Hello"},
		{"Blank First Line Keeps Previous", "  \nSecond", "Hello", "Hello"},
		{"Empty Content Keeps Previous", "", "Note 3", "Note 3"},
		{"Trims Whitespace", "   padded  \nrest", "x", "padded"},
		{"Truncates To Twenty", "abcdefghijklmnopqrstuvwxyz0123", "x", "abcdefghijklmnopqrst"},
		{"Exactly Twenty", "abcdefghijklmnopqrst", "x", "abcdefghijklmnopqrst"},
		{"Counts Runes Not Bytes", "äöüäöüäöüäöüäöüäöüäöüäöü", "x", "äöüäöüäöüäöüäöüäöüäö"},
		{"Carriage Return", "Windows\r\nline", "x", "Windows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTitle(tt.content, tt.prev))
		})
	}
}

func TestDefaultTitle(t *testing.T) {
	assert.Equal(t, "Note 1", DefaultTitle(1))
	assert.Equal(t, "Note 12", DefaultTitle(12))
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "New Note", Note{}.DisplayTitle())
	assert.Equal(t, "Groceries", Note{Title: "Groceries"}.DisplayTitle())
}

func TestNoteJSON(t *testing.T) {
	t.Run("Omits Custom Fields For Palette Colors", func(t *testing.T) {
		data, err := json.Marshal(Note{ID: "a", Color: ColorBlue})
		require.NoError(t, err)
		assert.NotContains(t, string(data), "customBg")
		assert.NotContains(t, string(data), "customFg")
	})

	t.Run("Reads RFC3339 Timestamps", func(t *testing.T) {
		var n Note
		require.NoError(t, json.Unmarshal([]byte(`{"id":"a","createdAt":"2026-03-04T05:06:07Z"}`), &n))
		assert.Equal(t, time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC), n.CreatedAt)
		assert.True(t, n.UpdatedAt.IsZero())
	})

	t.Run("Reads Millisecond Timestamps", func(t *testing.T) {
		var n Note
		require.NoError(t, json.Unmarshal([]byte(`{"id":"a","createdAt":1700000000000,"updatedAt":null}`), &n))
		assert.Equal(t, int64(1700000000000), n.CreatedAt.UnixMilli())
		assert.True(t, n.UpdatedAt.IsZero())
	})

	t.Run("Rejects Other Timestamp Shapes", func(t *testing.T) {
		var n Note
		assert.Error(t, json.Unmarshal([]byte(`{"id":"a","createdAt":{}}`), &n))
	})
}
