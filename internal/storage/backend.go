package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Backend is a key-value store holding one JSON document per key.
type Backend interface {
	// Get returns the raw values for the keys that exist. Missing keys are
	// simply absent from the result.
	Get(ctx context.Context, keys []string) (map[string][]byte, error)
	// Set writes every item or none of them.
	Set(ctx context.Context, items map[string][]byte) error
	Close() error
}

// Kind selects a Backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// Open creates the backend named by kind. path is ignored for KindMemory.
func Open(kind Kind, path string) (Backend, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindFile, "":
		return NewFileBackend(path), nil
	case KindSQLite:
		return NewSQLiteBackend(path)
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (valid options: file, sqlite, memory)", kind)
	}
}

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(ctx context.Context, keys []string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if v, ok := m.data[key]; ok {
			out[key] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (m *MemoryBackend) Set(ctx context.Context, items map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, v := range items {
		m.data[key] = append([]byte(nil), v...)
	}
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
