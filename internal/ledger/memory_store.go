package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory entry/calendar store for demo and development
// mode (no DATABASE_URL configured).
type MemoryStore struct {
	mu        sync.RWMutex
	entries   []Entry
	byID      map[string]struct{}
	calendars map[string]EntityCalendar
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:      make(map[string]struct{}),
		calendars: make(map[string]EntityCalendar),
	}
}

func (m *MemoryStore) InsertEntries(ctx context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if _, dup := m.byID[e.EntryID]; dup {
			return fmt.Errorf("%w: duplicate entry_id %q", ErrInvalidEntry, e.EntryID)
		}
	}
	for _, e := range entries {
		m.byID[e.EntryID] = struct{}{}
		m.entries = append(m.entries, e)
	}
	return nil
}

func (m *MemoryStore) ListEntries(ctx context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemoryStore) CountEntries(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *MemoryStore) UpsertCalendar(ctx context.Context, cal EntityCalendar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calendars[cal.Entity] = cal
	return nil
}

func (m *MemoryStore) ListCalendars(ctx context.Context) ([]EntityCalendar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]EntityCalendar, 0, len(m.calendars))
	for _, cal := range m.calendars {
		out = append(out, cal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entity < out[j].Entity })
	return out, nil
}
