package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

// MemoryLogStore is an in-memory implementation of LogStore
type MemoryLogStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.LogEntry
}

// NewMemoryLogStore creates a new in-memory log store
func NewMemoryLogStore() *MemoryLogStore {
	return &MemoryLogStore{
		entries: make(map[string]*domain.LogEntry),
	}
}

// Append persists a new log entry
func (s *MemoryLogStore) Append(ctx context.Context, entry *domain.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *entry
	s.entries[entry.ID] = &copied
	return nil
}

// ListUnprocessed returns up to limit undelivered entries, oldest first
func (s *MemoryLogStore) ListUnprocessed(ctx context.Context, limit int) ([]*domain.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]*domain.LogEntry, 0)
	for _, entry := range s.entries {
		if !entry.Processed {
			copied := *entry
			pending = append(pending, &copied)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// MarkProcessed flags an entry as delivered
func (s *MemoryLogStore) MarkProcessed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return ErrLogEntryNotFound
	}
	entry.Processed = true
	return nil
}

// Count returns the number of stored entries (for testing)
func (s *MemoryLogStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
