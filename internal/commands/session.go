package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/redjax/notetabs/internal/config"
	"github.com/redjax/notetabs/internal/notes"
	"github.com/redjax/notetabs/internal/storage"
	"github.com/redjax/notetabs/internal/utils"
)

// session is an initialized store over the configured backend.
type session struct {
	store   *notes.Store
	adapter *storage.Adapter
	source  notes.MigrationSource
	loadErr error
}

// openSession opens the configured backend and initializes a store over it.
// A load failure is kept in loadErr rather than returned; the store is still
// usable with a fresh note.
func openSession(ctx context.Context, cfg *config.Config, opts ...notes.Option) (*session, error) {
	logger := slog.Default()

	kind := storage.Kind(strings.ToLower(cfg.StorageBackend))
	path := cfg.ResolvedStoragePath()
	if kind != storage.KindMemory {
		if err := utils.EnsureDirs(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("error creating data directory: %w", err)
		}
	}

	backend, err := storage.Open(kind, path)
	if err != nil {
		return nil, err
	}

	adapter := storage.NewAdapter(backend, logger.With("component", "storage"))
	storeOpts := append([]notes.Option{
		notes.WithDebounce(cfg.Debounce),
		notes.WithLogger(logger.With("component", "notes")),
	}, opts...)
	store := notes.NewStore(adapter, storeOpts...)

	source, loadErr := store.Initialize(ctx)
	logger.Debug("opened notes", "backend", kind, "path", path, "notes", store.Len(), "migration", source.String())

	return &session{
		store:   store,
		adapter: adapter,
		source:  source,
		loadErr: loadErr,
	}, nil
}

// Close writes any pending edit and releases the backend.
func (s *session) Close(ctx context.Context) error {
	return errors.Join(s.store.Flush(ctx), s.adapter.Close())
}

// resolveNote finds a note by 1-based tab position or by id. An empty ref
// means the active note.
func resolveNote(store *notes.Store, ref string) (notes.Note, error) {
	if ref == "" {
		if n, ok := store.Active(); ok {
			return n, nil
		}
		return notes.Note{}, notes.ErrNoteNotFound
	}

	if i, err := strconv.Atoi(ref); err == nil {
		list := store.Notes()
		if i < 1 || i > len(list) {
			return notes.Note{}, fmt.Errorf("%w: no tab %d (have %d)", notes.ErrNoteNotFound, i, len(list))
		}
		return list[i-1], nil
	}

	return store.Get(ref)
}
