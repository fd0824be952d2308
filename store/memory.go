package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/yoanbernabeu/keycount/keywords"
)

// MemoryStore keeps records in memory. Data is lost on exit.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]keywords.Counts
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]keywords.Counts)}
}

// Location returns "memory:" followed by the record name.
func (m *MemoryStore) Location(name string) string {
	return "memory:" + name
}

func (m *MemoryStore) Exists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[name]
	return ok, nil
}

func (m *MemoryStore) Read(_ context.Context, name string) (keywords.Counts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, m.Location(name))
	}
	out := make(keywords.Counts, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) Create(_ context.Context, name string, vocab keywords.Vocabulary, counts keywords.Counts) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[name]; ok {
		return fmt.Errorf("%w: %s", ErrExists, m.Location(name))
	}
	rec := keywords.Counts{}
	for _, kw := range vocab.Words() {
		if n := counts[kw]; n != 0 {
			rec[kw] = n
		}
	}
	m.records[name] = rec
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[name]; !ok {
		return false, nil
	}
	delete(m.records, name)
	return true, nil
}

func (m *MemoryStore) Close() error { return nil }
