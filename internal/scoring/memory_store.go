package scoring

import (
	"context"
	"sync"
)

// MemoryRunStore is an in-memory run store for demo/development mode.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
	ids  []string // insertion order, newest last
}

// NewMemoryRunStore creates an empty in-memory run store.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{runs: make(map[string]*Run)}
}

func (m *MemoryRunStore) SaveRun(ctx context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *run
	if _, exists := m.runs[run.ID]; !exists {
		m.ids = append(m.ids, run.ID)
	}
	m.runs[run.ID] = &cp
	return nil
}

func (m *MemoryRunStore) GetRun(ctx context.Context, id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

func (m *MemoryRunStore) ListRuns(ctx context.Context, limit int, opts ...ListOption) ([]*Run, error) {
	o := applyListOpts(opts)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = len(m.ids)
	}
	out := make([]*Run, 0, limit)
	for i := len(m.ids) - 1; i >= 0 && len(out) < limit; i-- {
		run := m.runs[m.ids[i]]
		if o.cursor != nil {
			// Skip runs at or after the cursor position.
			if run.StartedAt.After(o.cursor.StartedAt) {
				continue
			}
			if run.StartedAt.Equal(o.cursor.StartedAt) && run.ID >= o.cursor.ID {
				continue
			}
		}
		cp := *run
		out = append(out, &cp)
	}
	return out, nil
}
