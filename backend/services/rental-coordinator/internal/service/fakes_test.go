package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

// Shared in-memory fakes with real compare-and-set semantics. Reads can be
// pinned to stale values to simulate racing instances.

type fakeSessionStore struct {
	mu sync.Mutex

	sessions  map[int64]*models.Session
	staleAcc  map[int64]int64 // when set, AccumulatedDeducted returns this instead of the live value
	accReads  int
	casCalls  int
	completed map[int64]time.Time
}

func newFakeSessionStore(sessions ...models.Session) *fakeSessionStore {
	f := &fakeSessionStore{
		sessions:  make(map[int64]*models.Session),
		staleAcc:  make(map[int64]int64),
		completed: make(map[int64]time.Time),
	}
	for i := range sessions {
		s := sessions[i]
		f.sessions[s.ID] = &s
	}
	return f
}

func (f *fakeSessionStore) ListActive(ctx context.Context) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Session
	for _, s := range f.sessions {
		if s.Status == models.SessionStatusActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) AccumulatedDeducted(ctx context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accReads++
	if v, ok := f.staleAcc[id]; ok {
		return v, nil
	}
	s, ok := f.sessions[id]
	if !ok {
		return 0, errors.New("session not found")
	}
	return s.AccumulatedDeducted, nil
}

func (f *fakeSessionStore) CASAccumulatedDeducted(ctx context.Context, id int64, observed, next int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.casCalls++
	s, ok := f.sessions[id]
	if !ok {
		return false, errors.New("session not found")
	}
	if s.AccumulatedDeducted != observed {
		return false, nil
	}
	s.AccumulatedDeducted = next
	return true, nil
}

func (f *fakeSessionStore) Complete(ctx context.Context, id int64, endTime time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return false, errors.New("session not found")
	}
	if s.Status != models.SessionStatusActive {
		return false, nil
	}
	s.Status = models.SessionStatusCompleted
	s.EndTime = &endTime
	f.completed[id] = endTime
	return true, nil
}

func (f *fakeSessionStore) acc(id int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id].AccumulatedDeducted
}

func (f *fakeSessionStore) status(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id].Status
}

type fakeMemberStore struct {
	mu sync.Mutex

	members  map[string]*models.Member
	staleBal map[string]int64 // when set, Get reports this balance instead of the live value
	getCalls int
	casCalls int
}

func newFakeMemberStore(members ...models.Member) *fakeMemberStore {
	f := &fakeMemberStore{
		members:  make(map[string]*models.Member),
		staleBal: make(map[string]int64),
	}
	for i := range members {
		m := members[i]
		f.members[m.UID] = &m
	}
	return f
}

func (f *fakeMemberStore) Get(ctx context.Context, uid string) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	m, ok := f.members[uid]
	if !ok {
		return nil, errors.New("member not found")
	}
	copied := *m
	if v, ok := f.staleBal[uid]; ok {
		copied.BalancePoints = v
	}
	return &copied, nil
}

func (f *fakeMemberStore) CASBalance(ctx context.Context, uid string, observed, next int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.casCalls++
	m, ok := f.members[uid]
	if !ok {
		return false, errors.New("member not found")
	}
	if m.BalancePoints != observed {
		return false, nil
	}
	m.BalancePoints = next
	return true, nil
}

func (f *fakeMemberStore) balance(uid string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[uid].BalancePoints
}

type fakeConsoleStore struct {
	mu sync.Mutex

	consoles      map[string]*models.Console
	activeOn      map[string]int // active sessions per console, drives the release guard
	minCalls      int
	released      []string
	releaseDenied []string
}

func newFakeConsoleStore(consoles ...models.Console) *fakeConsoleStore {
	f := &fakeConsoleStore{
		consoles: make(map[string]*models.Console),
		activeOn: make(map[string]int),
	}
	for i := range consoles {
		c := consoles[i]
		f.consoles[c.ID] = &c
	}
	return f
}

func (f *fakeConsoleStore) Get(ctx context.Context, id string) (*models.Console, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.consoles[id]
	if !ok {
		return nil, errors.New("console not found")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeConsoleStore) MinBillableMinutes(ctx context.Context, ids []string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minCalls++
	out := make(map[string]int)
	for _, id := range ids {
		if c, ok := f.consoles[id]; ok {
			out[id] = c.MinBillableMinutes
		}
	}
	return out, nil
}

func (f *fakeConsoleStore) ListAutoShutdown(ctx context.Context) ([]models.Console, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Console
	for _, c := range f.consoles {
		if c.AutoShutdown && c.Status != models.ConsoleStatusRented {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConsoleStore) ReleaseIfUnused(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeOn[id] > 0 {
		f.releaseDenied = append(f.releaseDenied, id)
		return false, nil
	}
	if c, ok := f.consoles[id]; ok {
		c.Status = models.ConsoleStatusAvailable
	}
	f.released = append(f.released, id)
	return true, nil
}

type fakeLedgerStore struct {
	mu      sync.Mutex
	entries []models.LedgerEntry
	err     error
}

func (f *fakeLedgerStore) Insert(ctx context.Context, entry *models.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	entry.ID = int64(len(f.entries) + 1)
	entry.CreatedAt = time.Now().UTC()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLedgerStore) all() []models.LedgerEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.LedgerEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

type fakeItemStore struct {
	mu        sync.Mutex
	finalized []int64
	err       error
}

func (f *fakeItemStore) FinalizePending(ctx context.Context, sessionID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.finalized = append(f.finalized, sessionID)
	return nil
}

type fakeCommander struct {
	mu          sync.Mutex
	powered     map[string]bool
	statusErr   map[string]error
	powerOffErr map[string]error
	powerOffs   []string
	dispatches  []string
}

func newFakeCommander() *fakeCommander {
	return &fakeCommander{
		powered:     make(map[string]bool),
		statusErr:   make(map[string]error),
		powerOffErr: make(map[string]error),
	}
}

func (f *fakeCommander) PowerOff(ctx context.Context, console models.Console) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.powerOffErr[console.ID]; err != nil {
		return err
	}
	f.powered[console.ID] = false
	f.powerOffs = append(f.powerOffs, console.ID)
	return nil
}

func (f *fakeCommander) PowerStatus(ctx context.Context, console models.Console) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.statusErr[console.ID]; err != nil {
		return false, err
	}
	return f.powered[console.ID], nil
}

func (f *fakeCommander) DispatchPowerOff(console models.Console) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatches = append(f.dispatches, console.ID)
}

func (f *fakeCommander) dispatched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.dispatches))
	copy(out, f.dispatches)
	return out
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) Publish(ctx context.Context, event string, sessionID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fakeSettings struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[string]string)}
}

func (f *fakeSettings) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	return f.values[key], nil
}

func (f *fakeSettings) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if value == "" {
		delete(f.values, key)
		return nil
	}
	f.values[key] = value
	return nil
}

type staticIdentity string

func (s staticIdentity) DeviceID() string { return string(s) }

type staticSnapshot []models.Session

func (s staticSnapshot) Snapshot() []models.Session { return s }

func testLogger() *zap.Logger { return zap.NewNop() }

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }
