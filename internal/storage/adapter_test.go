package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenBackend struct {
	err error
}

func (b brokenBackend) Get(context.Context, []string) (map[string][]byte, error) {
	return nil, b.err
}

func (b brokenBackend) Set(context.Context, map[string][]byte) error {
	return b.err
}

func (b brokenBackend) Close() error { return nil }

func TestAdapterLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Keys Are Absent", func(t *testing.T) {
		a := NewAdapter(NewMemoryBackend(), nil)

		got, err := a.Load(ctx, "a", "b")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Null And Empty Values Are Absent", func(t *testing.T) {
		backend := NewMemoryBackend()
		require.NoError(t, backend.Set(ctx, map[string][]byte{
			"null":  []byte("null"),
			"empty": []byte("  "),
			"value": []byte(`"x"`),
		}))

		got, err := NewAdapter(backend, nil).Load(ctx, "null", "empty", "value")
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.JSONEq(t, `"x"`, string(got["value"]))
	})

	t.Run("Invalid JSON Is Dropped", func(t *testing.T) {
		backend := NewMemoryBackend()
		require.NoError(t, backend.Set(ctx, map[string][]byte{
			"bad":  []byte("{not json"),
			"good": []byte(`[1,2]`),
		}))

		got, err := NewAdapter(backend, nil).Load(ctx, "bad", "good")
		require.NoError(t, err)
		assert.NotContains(t, got, "bad")
		assert.Contains(t, got, "good")
	})

	t.Run("Backend Failure Is Unavailable", func(t *testing.T) {
		a := NewAdapter(brokenBackend{err: errors.New("disk on fire")}, nil)

		_, err := a.Load(ctx, "a")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestAdapterSave(t *testing.T) {
	ctx := context.Background()

	t.Run("Round Trip", func(t *testing.T) {
		a := NewAdapter(NewMemoryBackend(), nil)

		type doc struct {
			Name string `json:"name"`
		}

		require.NoError(t, a.Save(ctx, map[string]any{
			"doc":  []doc{{Name: "one"}, {Name: "two"}},
			"text": "hello",
		}))

		got, err := a.Load(ctx, "doc", "text")
		require.NoError(t, err)

		var docs []doc
		require.NoError(t, json.Unmarshal(got["doc"], &docs))
		assert.Equal(t, []doc{{Name: "one"}, {Name: "two"}}, docs)
		assert.JSONEq(t, `"hello"`, string(got["text"]))
	})

	t.Run("Nil Value Is Stored As Absent", func(t *testing.T) {
		a := NewAdapter(NewMemoryBackend(), nil)

		require.NoError(t, a.Save(ctx, map[string]any{"active": nil}))

		got, err := a.Load(ctx, "active")
		require.NoError(t, err)
		assert.NotContains(t, got, "active")
	})

	t.Run("Unencodable Value Is Malformed", func(t *testing.T) {
		a := NewAdapter(NewMemoryBackend(), nil)

		err := a.Save(ctx, map[string]any{"ch": make(chan int)})
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Backend Failure Is Unavailable", func(t *testing.T) {
		a := NewAdapter(brokenBackend{err: errors.New("read-only filesystem")}, nil)

		err := a.Save(ctx, map[string]any{"a": 1})
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	b, err := Open(KindFile, dir+"/notes.json")
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	b, err = Open(KindMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	b, err = Open(KindSQLite, dir+"/notes.db")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteBackend{}, b)
	require.NoError(t, b.Close())

	_, err = Open("redis", "")
	assert.Error(t, err)
}
