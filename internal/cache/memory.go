package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	set       map[string]struct{}
	counter   int64
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Memory is a process-local KV used when no Redis address is configured. Sessions kept here
// do not survive a restart.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

var _ KV = (*Memory)(nil)

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{entries: map[string]*memoryEntry{}, now: time.Now}
}

// WithClock replaces the time source, used to exercise expiry.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) live(key string) *memoryEntry {
	e, ok := m.entries[key]
	if !ok {
		return nil
	}
	if e.expired(m.now()) {
		delete(m.entries, key)
		return nil
	}
	return e
}

func (m *Memory) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

// Get returns value or nil if missing.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(key)
	if e == nil || e.value == nil {
		return nil, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores value with TTL. KeepTTL overwrites an existing key and keeps its expiry.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)

	if ttl == KeepTTL {
		if e := m.live(key); e != nil {
			e.value = stored
		}
		return nil
	}
	m.entries[key] = &memoryEntry{value: stored, expiresAt: m.expiry(ttl)}
	return nil
}

// Delete removes keys.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// SAdd adds member to the set at key and extends the set's lifetime to ttl.
func (m *Memory) SAdd(_ context.Context, key, member string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(key)
	if e == nil {
		e = &memoryEntry{set: map[string]struct{}{}}
		m.entries[key] = e
	}
	if e.set == nil {
		e.set = map[string]struct{}{}
	}
	e.set[member] = struct{}{}
	if ttl > 0 {
		e.expiresAt = m.expiry(ttl)
	}
	return nil
}

// SMembers lists the set at key in sorted order.
func (m *Memory) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(key)
	if e == nil {
		return []string{}, nil
	}
	members := make([]string, 0, len(e.set))
	for member := range e.set {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

// SRem removes member from the set at key.
func (m *Memory) SRem(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.live(key); e != nil {
		delete(e.set, member)
		if len(e.set) == 0 {
			delete(m.entries, key)
		}
	}
	return nil
}

// Incr counts hits on key inside a fixed window starting at the first hit.
func (m *Memory) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(key)
	if e == nil {
		e = &memoryEntry{expiresAt: m.expiry(window)}
		m.entries[key] = e
	}
	e.counter++
	return e.counter, nil
}
