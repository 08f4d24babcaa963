package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "test.json")

		if err := writeFileAtomic(filename, []byte("hello atomic"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != "hello atomic" {
			t.Errorf("Expected content 'hello atomic', got '%s'", string(got))
		}
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "test.json")

		require.NoError(t, os.WriteFile(filename, []byte("initial"), 0644))
		require.NoError(t, writeFileAtomic(filename, []byte("overwritten"), 0644))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), TempFilePrefix), "leftover temp file %s", e.Name())
		}
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing", "test.json")
		assert.Error(t, writeFileAtomic(filename, []byte("x"), 0644))
	})
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing File Reads Empty", func(t *testing.T) {
		b := NewFileBackend(filepath.Join(t.TempDir(), "nope.json"))

		got, err := b.Get(ctx, []string{"a"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Set Merges Keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "notes.json")
		b := NewFileBackend(path)

		require.NoError(t, b.Set(ctx, map[string][]byte{"a": []byte(`1`)}))
		require.NoError(t, b.Set(ctx, map[string][]byte{"b": []byte(`"two"`)}))

		got, err := b.Get(ctx, []string{"a", "b", "c"})
		require.NoError(t, err)
		assert.Equal(t, "1", string(got["a"]))
		assert.Equal(t, `"two"`, string(got["b"]))
		assert.NotContains(t, got, "c")

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.False(t, info.IsDir())
	})

	t.Run("Null Document Reads Empty And Accepts Writes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.json")
		require.NoError(t, os.WriteFile(path, []byte("null\n"), 0600))
		b := NewFileBackend(path)

		got, err := b.Get(ctx, []string{"k"})
		require.NoError(t, err)
		assert.Empty(t, got)

		require.NoError(t, b.Set(ctx, map[string][]byte{"k": []byte(`1`)}))

		got, err = b.Get(ctx, []string{"k"})
		require.NoError(t, err)
		assert.Equal(t, "1", string(got["k"]))
	})

	t.Run("Corrupt File Is Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.json")
		require.NoError(t, os.WriteFile(path, []byte("{oops"), 0600))

		a := NewAdapter(NewFileBackend(path), nil)
		_, err := a.Load(ctx, "a")
		assert.ErrorIs(t, err, ErrMalformed)
		assert.NotErrorIs(t, err, ErrUnavailable)
	})

	t.Run("Unreadable Path Is Unavailable", func(t *testing.T) {
		dir := t.TempDir()
		// A directory where the file should be makes every read fail.
		path := filepath.Join(dir, "notes.json")
		require.NoError(t, os.Mkdir(path, 0755))

		a := NewAdapter(NewFileBackend(path), nil)
		_, err := a.Load(ctx, "a")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
