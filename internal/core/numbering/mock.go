package numbering

import (
	"context"
	"strings"
	"sync"
)

// MockStore is an in-memory RecordStore for unit tests.
// Safe for concurrent use.
type MockStore struct {
	mu       sync.Mutex
	records  map[string][]string // table.field -> values
	counters map[string]int64

	// Err, when set, is returned by every store call (error-path testing).
	Err error
}

// Ensure compile-time interface compliance.
var _ RecordStore = (*MockStore)(nil)

// NewMockStore returns an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		records:  make(map[string][]string),
		counters: make(map[string]int64),
	}
}

// Add registers existing field values for table.field.
func (m *MockStore) Add(table, field string, values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := table + "." + field
	m.records[k] = append(m.records[k], values...)
}

// FindLatestByPrefix implements RecordStore.
func (m *MockStore) FindLatestByPrefix(ctx context.Context, table, field, prefix string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}

	var latest string
	var found bool
	for _, v := range m.records[table+"."+field] {
		if !strings.HasPrefix(v, prefix) {
			continue
		}
		if !found || v > latest {
			latest = v
			found = true
		}
	}
	return latest, found, nil
}

// Exists implements RecordStore.
func (m *MockStore) Exists(ctx context.Context, table, field, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, v := range m.records[table+"."+field] {
		if v == value {
			return true, nil
		}
	}
	return false, nil
}

// NextCounter implements RecordStore.
func (m *MockStore) NextCounter(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.counters[key]++
	return m.counters[key], nil
}

// SetCounter implements RecordStore.
func (m *MockStore) SetCounter(ctx context.Context, key string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.counters[key] = value
	return nil
}
