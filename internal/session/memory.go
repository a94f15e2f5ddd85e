package session

import (
	"sync"
	"time"
)

// MemoryStore keeps values in process memory. Used by tests and tooling.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memEntry
}

type memEntry struct {
	value   string
	expires time.Time // zero for session values
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, entries: map[string]memEntry{}}
}

// WithClock replaces the time source.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Get(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[name]
	if !ok || e.value == "" {
		return "", false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, name)
		return "", false
	}
	return e.value, true
}

func (m *MemoryStore) Set(name, value string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[name] = e
}

func (m *MemoryStore) Clear(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
}

// Expiry returns the expiry of a stored value; ok is false for absent or
// session values.
func (m *MemoryStore) Expiry(name string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[name]
	if !ok || e.expires.IsZero() {
		return time.Time{}, false
	}
	return e.expires, true
}
