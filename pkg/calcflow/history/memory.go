package history

import (
	"sync"
	"time"
)

// MemoryStore is an in-memory history store.
// Data is lost when the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
	opts     storeOptions
	closed   bool
}

type memorySession struct {
	entries []Entry
	nextSeq int
}

// NewMemoryStore creates a new in-memory history store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		opts:     buildOptions(opts),
	}
}

// Append implements Store.
func (m *MemoryStore) Append(session, expression string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	s, ok := m.sessions[session]
	if !ok {
		s = &memorySession{}
		m.sessions[session] = s
	}
	s.nextSeq++
	s.entries = append(s.entries, Entry{
		Session:    session,
		Sequence:   s.nextSeq,
		Expression: expression,
		Timestamp:  time.Now().UTC(),
	})

	if limit := m.opts.maxEntries; limit > 0 && len(s.entries) > limit {
		s.entries = append([]Entry(nil), s.entries[len(s.entries)-limit:]...)
	}
	return nil
}

// List implements Store.
func (m *MemoryStore) List(session string) ([]string, error) {
	entries, err := m.ListEntries(session)
	if err != nil {
		return nil, err
	}
	return expressions(entries), nil
}

// ListEntries implements Store.
func (m *MemoryStore) ListEntries(session string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	s, ok := m.sessions[session]
	if !ok {
		return []Entry{}, nil
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.sessions, session)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.sessions = nil
	return nil
}

// Len returns the total number of entries across all sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, s := range m.sessions {
		count += len(s.entries)
	}
	return count
}
