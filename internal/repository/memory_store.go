package repository

import (
	"context"
	"sync"
)

// MemoryBackend keeps every session in process memory.  It is the default
// backend and the one used by tests.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: make(map[string]map[string]string)}
}

func (b *MemoryBackend) Scope(sessionID string) Store {
	return &memoryStore{b: b, sid: sessionID}
}

func (b *MemoryBackend) Close() error { return nil }

type memoryStore struct {
	b   *MemoryBackend
	sid string
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	v, ok := s.b.sessions[s.sid][key]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	m := s.b.sessions[s.sid]
	if m == nil {
		m = make(map[string]string)
		s.b.sessions[s.sid] = m
	}
	m[key] = value
	return nil
}

func (s *memoryStore) Remove(_ context.Context, key string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if m := s.b.sessions[s.sid]; m != nil {
		delete(m, key)
		if len(m) == 0 {
			delete(s.b.sessions, s.sid)
		}
	}
	return nil
}
