package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redjax/notetabs/internal/storage"
	"github.com/stretchr/testify/require"
)

// recordingPersister wraps a memory-backed adapter and records every save.
type recordingPersister struct {
	inner *storage.Adapter

	mu      sync.Mutex
	saves   [][]byte
	loadErr error
	saveErr error
}

func newRecordingPersister() *recordingPersister {
	return &recordingPersister{inner: storage.NewAdapter(storage.NewMemoryBackend(), nil)}
}

func (p *recordingPersister) Load(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	p.mu.Lock()
	err := p.loadErr
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return p.inner.Load(ctx, keys...)
}

func (p *recordingPersister) Save(ctx context.Context, values map[string]any) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.saves = append(p.saves, data)
	saveErr := p.saveErr
	p.mu.Unlock()

	if saveErr != nil {
		return saveErr
	}
	return p.inner.Save(ctx, values)
}

func (p *recordingPersister) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

func (p *recordingPersister) lastSave() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.saves) == 0 {
		return nil
	}
	return p.saves[len(p.saves)-1]
}

func (p *recordingPersister) seed(t *testing.T, values map[string]any) {
	t.Helper()
	require.NoError(t, p.inner.Save(context.Background(), values))
}

// manualScheduler only runs tasks when told to.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	fn      func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) Schedule(d time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{fn: fn, delay: d}
	s.tasks = append(s.tasks, t)
	return t
}

// live returns the tasks that are neither stopped nor fired.
func (s *manualScheduler) live() []*manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*manualTask
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// elapse fires every live task, as if the quiet period had passed.
func (s *manualScheduler) elapse() int {
	tasks := s.live()
	for _, t := range tasks {
		t.fired = true
		t.fn()
	}
	return len(tasks)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("n%d", n)
	}
}

type statusRecorder struct {
	mu       sync.Mutex
	statuses []SaveStatus
	errs     []error
}

func (r *statusRecorder) handle(status SaveStatus, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
	if err != nil {
		r.errs = append(r.errs, err)
	}
}

func (r *statusRecorder) last() SaveStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return StatusIdle
	}
	return r.statuses[len(r.statuses)-1]
}

type fixture struct {
	store     *Store
	persister *recordingPersister
	scheduler *manualScheduler
	clock     *testClock
	status    *statusRecorder
}

func newFixture(t *testing.T, p *recordingPersister, opts ...Option) *fixture {
	t.Helper()
	if p == nil {
		p = newRecordingPersister()
	}
	f := &fixture{
		persister: p,
		scheduler: &manualScheduler{},
		clock:     newTestClock(),
		status:    &statusRecorder{},
	}
	f.store = NewStore(p,
		WithScheduler(f.scheduler),
		WithClock(f.clock.Now),
		WithIDGenerator(sequentialIDs()),
		WithStatusHandler(f.status.handle),
	)
	for _, opt := range opts {
		opt(f.store)
	}
	return f
}

// initialized returns a fixture whose store has been initialized and holds
// count notes, with the first one active.
func initialized(t *testing.T, count int) *fixture {
	t.Helper()
	f := newFixture(t, nil)
	_, err := f.store.Initialize(context.Background())
	require.NoError(t, err)
	for i := 1; i < count; i++ {
		f.store.CreateNote(context.Background())
	}
	if count > 1 {
		require.NoError(t, f.store.SwitchTo(context.Background(), "n1"))
	}
	return f
}

func noteIDs(notes []Note) []string {
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	return ids
}

func requireInvariant(t require.TestingT, s *Store) {
	notes := s.Notes()
	require.NotEmpty(t, notes, "store must never be empty")

	seen := make(map[string]bool)
	for _, n := range notes {
		require.NotEmpty(t, n.ID)
		require.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
	require.True(t, seen[s.ActiveID()], "active id %q is not a note", s.ActiveID())
}
