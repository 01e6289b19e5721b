package devpay

import (
	"context"
	"maps"
	"sync"

	"swissshield/pkg/platform/sentinel"
)

// MemoryStore keeps dev sessions for the life of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]StoredSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]StoredSession)}
}

func (m *MemoryStore) Save(_ context.Context, s *StoredSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.Metadata = maps.Clone(s.Metadata)
	m.sessions[s.ID] = cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*StoredSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	s.Metadata = maps.Clone(s.Metadata)
	return &s, nil
}
