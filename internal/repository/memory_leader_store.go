package repository

import (
	"context"
	"sort"
	"sync"
)

// MemoryLeaderStore is an in-memory implementation of LeaderStore
type MemoryLeaderStore struct {
	mu    sync.RWMutex
	roles map[string]map[string]bool // guildID -> roleID set
}

// NewMemoryLeaderStore creates a new in-memory leader store
func NewMemoryLeaderStore() *MemoryLeaderStore {
	return &MemoryLeaderStore{
		roles: make(map[string]map[string]bool),
	}
}

// Grant marks a role as a leader role for the guild
func (s *MemoryLeaderStore) Grant(ctx context.Context, guildID, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.roles[guildID]
	if !ok {
		set = make(map[string]bool)
		s.roles[guildID] = set
	}
	set[roleID] = true
	return nil
}

// Revoke removes a leader role from the guild
func (s *MemoryLeaderStore) Revoke(ctx context.Context, guildID, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.roles[guildID]
	if !ok || !set[roleID] {
		return ErrLeaderRoleNotFound
	}
	delete(set, roleID)
	return nil
}

// List returns the guild's leader role IDs in stable order
func (s *MemoryLeaderStore) List(ctx context.Context, guildID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.roles[guildID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// IsLeader reports whether any of the member's roles is a leader role
func (s *MemoryLeaderStore) IsLeader(ctx context.Context, guildID string, memberRoles []string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.roles[guildID]
	for _, id := range memberRoles {
		if set[id] {
			return true, nil
		}
	}
	return false, nil
}
