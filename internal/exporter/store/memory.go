package store

import (
	"context"
	"sync"
	"time"
)

// ============================================================
// In-memory Store
// ============================================================

// MemoryStore держит живые документы в памяти. Read отдаёт сами документы,
// а не копии, как и настоящее хранилище совместного редактирования.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document)}
}

func (s *MemoryStore) Read(_ context.Context, room string, fn func(doc *Document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[room]
	if !ok {
		return ErrRoomNotFound
	}
	return fn(doc)
}

func (s *MemoryStore) Save(_ context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	s.docs[doc.Room] = doc
	return nil
}

// Update применяет изменение к живому документу комнаты.
func (s *MemoryStore) Update(room string, fn func(doc *Document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[room]
	if !ok {
		return ErrRoomNotFound
	}
	fn(doc)
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
