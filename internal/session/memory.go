package session

import (
	"context"
	"sync"
)

var _ Storage = (*MemoryStorage)(nil)

// MemoryStorage is a process-local Storage for development and tests.
// It has no transactional write; Store falls back to write-then-clear.
type MemoryStorage struct {
	mutex   sync.RWMutex
	clients map[string]map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		clients: map[string]map[string][]byte{},
	}
}

func (s *MemoryStorage) Get(_ context.Context, clientID, slot string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.clients[clientID][slot]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryStorage) Set(_ context.Context, clientID, slot string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	slots, ok := s.clients[clientID]
	if !ok {
		slots = map[string][]byte{}
		s.clients[clientID] = slots
	}
	slots[slot] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStorage) Remove(_ context.Context, clientID, slot string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	slots, ok := s.clients[clientID]
	if !ok {
		return nil
	}
	delete(slots, slot)
	if len(slots) == 0 {
		delete(s.clients, clientID)
	}
	return nil
}
