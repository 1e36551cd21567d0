package rank

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. Results are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	best map[string]float64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{best: make(map[string]float64)}
}

func (m *MemoryStore) Record(_ context.Context, username string, lvl int, won bool) error {
	s := score(lvl, won)
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.best[username]; !ok || s > old {
		m.best[username] = s
	}
	return nil
}

func (m *MemoryStore) Top(_ context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	entries := make([]Entry, 0, len(m.best))
	for name, s := range m.best {
		lvl, won := unscore(s)
		entries = append(entries, Entry{Username: name, Level: lvl, Won: won})
	}
	m.mu.RUnlock()

	sortEntries(entries)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
