package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// DefaultDebounce is the quiet period after the last edit before an
// automatic save.
const DefaultDebounce = 500 * time.Millisecond

// Persister loads and saves JSON documents by key. *storage.Adapter
// implements it.
type Persister interface {
	Load(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	Save(ctx context.Context, values map[string]any) error
}

// SaveStatus describes the most recent persist attempt.
type SaveStatus int

const (
	StatusIdle SaveStatus = iota
	StatusSaving
	StatusSaved
	StatusFailed
)

func (s SaveStatus) String() string {
	switch s {
	case StatusSaving:
		return "Saving..."
	case StatusSaved:
		return "Auto-saved"
	case StatusFailed:
		return "Save failed"
	default:
		return ""
	}
}

// StatusHandler receives save status changes. It is called from whichever
// goroutine performs the save and must not call back into Persist or Save.
type StatusHandler func(status SaveStatus, err error)

// Store holds the ordered notes and the active pointer.
//
// After Initialize the store always holds at least one note and the active
// pointer always names one of them.
type Store struct {
	persister Persister
	scheduler Scheduler
	now       func() time.Time
	newID     func() string
	debounce  time.Duration
	logger    *slog.Logger
	onStatus  StatusHandler
	saveBlank bool

	mu       sync.Mutex
	notes    []Note
	activeID string
	pending  Task
	gen      uint64
	saved    uint64
	hasSaved bool

	// saveMu orders writes so the newest snapshot is always written last.
	saveMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

func WithScheduler(s Scheduler) Option {
	return func(st *Store) { st.scheduler = s }
}

func WithClock(now func() time.Time) Option {
	return func(st *Store) { st.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(st *Store) { st.newID = newID }
}

// WithDebounce sets the auto-save quiet period. Non-positive values keep the
// default.
func WithDebounce(d time.Duration) Option {
	return func(st *Store) {
		if d > 0 {
			st.debounce = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(st *Store) { st.logger = logger }
}

func WithStatusHandler(h StatusHandler) Option {
	return func(st *Store) { st.onStatus = h }
}

// WithoutBlankSave keeps the note Initialize creates for empty storage in
// memory until something else is persisted.
func WithoutBlankSave() Option {
	return func(st *Store) { st.saveBlank = false }
}

// NewStore creates an empty store backed by p. Call Initialize before use.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		scheduler: TimerScheduler{},
		now:       time.Now,
		newID:     uuid.NewString,
		debounce:  DefaultDebounce,
		saveBlank: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	return s
}

// Initialize loads persisted notes, adopting legacy data if the current keys
// are empty, and creates a blank note if nothing was found. Load failures are
// logged and returned, but the store is usable either way. After a load
// failure nothing is written, so unreadable data stays in place until the
// next change.
func (s *Store) Initialize(ctx context.Context) (MigrationSource, error) {
	current, legacy, legacyText, loadErr := s.load(ctx)

	doc, source := Migrate(current, legacy, legacyText, func() Note { return s.newNote(1) })

	s.mu.Lock()
	s.notes = doc.Notes
	s.activeID = doc.ActiveID
	created := false
	if len(s.notes) == 0 {
		n := s.newNote(1)
		s.notes = []Note{n}
		s.activeID = n.ID
		created = true
	}
	s.mu.Unlock()

	if source != SourceNone {
		s.logger.Info("migrated notes from legacy storage", "source", source.String(), "notes", len(doc.Notes))
	}

	switch {
	case loadErr != nil:
	case source != SourceNone || (created && s.saveBlank):
		s.persistQuietly(ctx)
	case !created:
		s.markSaved(s.Snapshot())
	}

	return source, loadErr
}

func (s *Store) load(ctx context.Context) (current, legacy Document, legacyText string, err error) {
	values, err := s.persister.Load(ctx, Keys...)
	if err != nil {
		s.logger.Error("failed to load notes", "error", err)
		return Document{}, Document{}, "", err
	}

	var errs []error

	current, skipped, cerr := decodeDocument(values, NotesKey, ActiveNoteKey)
	if cerr != nil {
		s.logger.Error("ignoring stored notes", "error", cerr)
		errs = append(errs, cerr)
	}
	current, dropped := current.sanitize()
	if dropped += skipped; dropped > 0 {
		s.logger.Warn("dropped invalid notes from storage", "count", dropped)
	}

	legacy, _, lerr := decodeDocument(values, LegacyNotesKey, LegacyActiveNoteKey)
	if lerr != nil {
		s.logger.Warn("ignoring legacy notes", "error", lerr)
		errs = append(errs, lerr)
	}
	legacy, _ = legacy.sanitize()

	legacyText, terr := decodeLegacyContent(values)
	if terr != nil {
		s.logger.Warn("ignoring legacy note content", "error", terr)
		errs = append(errs, terr)
	}

	return current, legacy, legacyText, errors.Join(errs...)
}

// newNote builds a blank note titled for position n. It touches no store
// state.
func (s *Store) newNote(n int) Note {
	now := s.now()
	return Note{
		ID:        s.newID(),
		Title:     DefaultTitle(n),
		Color:     ColorDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateNote appends a blank note, makes it active and persists.
func (s *Store) CreateNote(ctx context.Context) Note {
	s.mu.Lock()
	n := s.newNote(len(s.notes) + 1)
	for s.indexLocked(n.ID) >= 0 {
		n.ID = s.newID()
	}
	s.notes = append(s.notes, n)
	s.activeID = n.ID
	s.cancelPendingLocked()
	s.mu.Unlock()

	s.logger.Debug("created note", "id", n.ID)
	s.persistQuietly(ctx)
	return n
}

// SwitchTo makes id the active note. Edits reach memory as they are made, so
// the only pending work is the debounced write, which is folded into the
// persist that records the new pointer. Switching to the active note is a
// no-op.
func (s *Store) SwitchTo(ctx context.Context, id string) error {
	s.mu.Lock()
	if id == s.activeID {
		s.mu.Unlock()
		return nil
	}
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	s.cancelPendingLocked()
	s.activeID = id
	s.mu.Unlock()

	s.persistQuietly(ctx)
	return nil
}

// UpdateContent writes text into the active note and re-derives its title.
// It does not persist.
func (s *Store) UpdateContent(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateContentLocked(text)
}

// Edit applies text like UpdateContent and schedules a save after the
// debounce window, replacing any save already scheduled.
func (s *Store) Edit(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateContentLocked(text)
	s.scheduleLocked()
}

func (s *Store) updateContentLocked(text string) {
	i := s.indexLocked(s.activeID)
	if i < 0 {
		return
	}
	n := &s.notes[i]
	n.Content = text
	n.Title = DeriveTitle(text, n.Title)
	n.UpdatedAt = s.now()
}

// DeleteActive removes the active note and selects its predecessor (or the
// new first note). When it is the only note, its content is cleared instead
// and it stays active. The note that is active afterwards is returned.
func (s *Store) DeleteActive(ctx context.Context) Note {
	s.mu.Lock()
	if len(s.notes) == 0 {
		s.mu.Unlock()
		return Note{}
	}
	i := max(s.indexLocked(s.activeID), 0)

	if len(s.notes) == 1 {
		s.activeID = s.notes[0].ID
		s.updateContentLocked("")
	} else {
		removed := s.notes[i].ID
		s.notes = slices.Delete(s.notes, i, i+1)
		s.activeID = s.notes[max(0, i-1)].ID
		s.logger.Debug("deleted note", "id", removed)
	}

	s.cancelPendingLocked()
	active := s.notes[s.indexLocked(s.activeID)]
	s.mu.Unlock()

	s.persistQuietly(ctx)
	return active
}

// SetColor tags the active note. For ColorCustom, bg and fg are stored as
// given; an empty fg is computed from bg for contrast. Hex values are not
// validated.
func (s *Store) SetColor(ctx context.Context, color Color, bg, fg string) error {
	if !color.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownColor, color)
	}

	if color == ColorCustom && fg == "" && bg != "" {
		computed, err := ContrastForeground(bg)
		if err != nil {
			s.logger.Warn("cannot compute foreground for custom color", "bg", bg, "error", err)
			computed = LightForeground
		}
		fg = computed
	}

	s.mu.Lock()
	i := s.indexLocked(s.activeID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: no active note", ErrNoteNotFound)
	}
	n := &s.notes[i]
	n.Color = color
	if color == ColorCustom {
		n.CustomBg, n.CustomFg = bg, fg
	} else {
		n.CustomBg, n.CustomFg = "", ""
	}
	n.UpdatedAt = s.now()
	s.cancelPendingLocked()
	s.mu.Unlock()

	s.persistQuietly(ctx)
	return nil
}

// Persist writes every note and the active pointer. Failures are logged and
// reported as StatusFailed; in-memory state is untouched either way.
func (s *Store) Persist(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	doc := s.Snapshot()
	s.report(StatusSaving, nil)

	if err := s.persister.Save(ctx, doc.Values()); err != nil {
		s.logger.Error("failed to save notes", "error", err)
		s.report(StatusFailed, err)
		return err
	}

	s.markSaved(doc)
	s.logger.Debug("saved notes", "count", len(doc.Notes))
	s.report(StatusSaved, nil)
	return nil
}

// Save cancels any scheduled auto-save and persists immediately.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	s.cancelPendingLocked()
	s.mu.Unlock()

	return s.Persist(ctx)
}

// Flush persists only if an auto-save is scheduled.
func (s *Store) Flush(ctx context.Context) error {
	if !s.Pending() {
		return nil
	}
	return s.Save(ctx)
}

// Pending reports whether an auto-save is scheduled.
func (s *Store) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Dirty reports whether memory differs from what was last persisted.
func (s *Store) Dirty() bool {
	doc := s.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.hasSaved || documentHash(doc) != s.saved
}

func (s *Store) persistQuietly(ctx context.Context) {
	_ = s.Persist(ctx)
}

func (s *Store) scheduleLocked() {
	s.cancelPendingLocked()
	gen := s.gen
	s.pending = s.scheduler.Schedule(s.debounce, func() { s.fire(gen) })
}

// fire runs a scheduled save unless it was superseded after being scheduled.
func (s *Store) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()

	s.persistQuietly(context.Background())
}

// cancelPendingLocked stops the scheduled save and invalidates any firing
// already in flight.
func (s *Store) cancelPendingLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.gen++
}

func (s *Store) markSaved(doc Document) {
	h := documentHash(doc)

	s.mu.Lock()
	s.saved = h
	s.hasSaved = true
	s.mu.Unlock()
}

func (s *Store) report(status SaveStatus, err error) {
	if s.onStatus != nil {
		s.onStatus(status, err)
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.notes, func(n Note) bool { return n.ID == id })
}

// Snapshot returns a copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Document{Notes: s.notes, ActiveID: s.activeID}.Clone()
}

// Notes returns a copy of the notes in tab order.
func (s *Store) Notes() []Note {
	return s.Snapshot().Notes
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// ActiveID returns the id of the active note.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// ActiveIndex returns the tab position of the active note, or -1.
func (s *Store) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(s.activeID)
}

// Active returns the active note.
func (s *Store) Active() (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(s.activeID)
	if i < 0 {
		return Note{}, false
	}
	return s.notes[i], true
}

// Get returns the note with the given id.
func (s *Store) Get(id string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	return s.notes[i], nil
}

func documentHash(doc Document) uint64 {
	data, err := json.Marshal(doc.Values())
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
