package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Adapter loads and saves small JSON documents through a Backend.
// It does not retry or batch.
type Adapter struct {
	backend Backend
	logger  *slog.Logger
}

func NewAdapter(backend Backend, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{backend: backend, logger: logger}
}

// Backend returns the underlying backend.
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Load reads the given keys. Keys that are missing, empty or hold JSON null
// are absent from the result. Values that are not valid JSON are dropped
// with a warning.
func (a *Adapter) Load(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	raw, err := a.backend.Get(ctx, keys)
	if err != nil {
		return nil, wrapBackendErr("load "+strings.Join(keys, ","), err)
	}

	out := make(map[string]json.RawMessage, len(raw))
	for key, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 || bytes.Equal(value, []byte("null")) {
			continue
		}
		if !json.Valid(value) {
			a.logger.Warn("dropping malformed stored value", "key", key)
			continue
		}
		out[key] = json.RawMessage(value)
	}

	a.logger.Debug("loaded keys", "requested", len(keys), "found", len(out))
	return out, nil
}

// Save encodes every value and writes them in a single backend call.
func (a *Adapter) Save(ctx context.Context, values map[string]any) error {
	items := make(map[string][]byte, len(values))
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrMalformed, key, err)
		}
		items[key] = data
	}

	if err := a.backend.Set(ctx, items); err != nil {
		return wrapBackendErr("save", err)
	}

	a.logger.Debug("saved keys", "count", len(items))
	return nil
}

// Close releases the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}

func wrapBackendErr(op string, err error) error {
	if errors.Is(err, ErrMalformed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
