package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

// MemoryRosterStore is an in-memory implementation of RosterStore for
// testing and local development. Mutations serialize per event, mirroring
// the row lock the postgres store takes.
type MemoryRosterStore struct {
	mu     sync.RWMutex
	events map[eventKey]*memoryEvent
}

type eventKey struct {
	guildID string
	name    string
}

type memoryEvent struct {
	mu      sync.Mutex
	event   domain.Event
	signups []*domain.Signup // ordered by position
	deleted bool
}

// NewMemoryRosterStore creates a new in-memory roster store
func NewMemoryRosterStore() *MemoryRosterStore {
	return &MemoryRosterStore{
		events: make(map[eventKey]*memoryEvent),
	}
}

func (s *MemoryRosterStore) get(guildID, name string) (*memoryEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.events[eventKey{guildID, name}]
	return entry, ok
}

// CreateEvent persists a new event
func (s *MemoryRosterStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := eventKey{event.GuildID, event.Name}
	if _, exists := s.events[key]; exists {
		return ErrEventExists
	}

	s.events[key] = &memoryEvent{
		event:   *event,
		signups: make([]*domain.Signup, 0),
	}
	return nil
}

// GetEvent retrieves an event by guild and name
func (s *MemoryRosterStore) GetEvent(ctx context.Context, guildID, name string) (*domain.Event, error) {
	entry, ok := s.get(guildID, name)
	if !ok {
		return nil, ErrEventNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return nil, ErrEventNotFound
	}
	copied := entry.event
	return &copied, nil
}

// ListEvents retrieves all events for a guild, newest first
func (s *MemoryRosterStore) ListEvents(ctx context.Context, guildID string) ([]*domain.Event, error) {
	s.mu.RLock()
	entries := make([]*memoryEvent, 0)
	for key, entry := range s.events {
		if key.guildID == guildID {
			entries = append(entries, entry)
		}
	}
	s.mu.RUnlock()

	events := make([]*domain.Event, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		if !entry.deleted {
			copied := entry.event
			events = append(events, &copied)
		}
		entry.mu.Unlock()
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

// CloseEvent flips an open event to closed
func (s *MemoryRosterStore) CloseEvent(ctx context.Context, guildID, name string) error {
	entry, ok := s.get(guildID, name)
	if !ok {
		return ErrEventNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return ErrEventNotFound
	}
	if entry.event.Frozen {
		return ErrEventFrozen
	}
	if !entry.event.IsOpen {
		return ErrAlreadyClosed
	}
	entry.event.IsOpen = false
	return nil
}

// DeleteEvent removes the event and all its signups
func (s *MemoryRosterStore) DeleteEvent(ctx context.Context, guildID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := eventKey{guildID, name}
	entry, ok := s.events[key]
	if !ok {
		return ErrEventNotFound
	}

	entry.mu.Lock()
	entry.deleted = true
	entry.signups = nil
	entry.mu.Unlock()

	delete(s.events, key)
	return nil
}

// AddSignup inserts a signup at position count+1 and bumps the count
func (s *MemoryRosterStore) AddSignup(ctx context.Context, guildID, eventName string, signup *domain.Signup) (int, error) {
	entry, ok := s.get(guildID, eventName)
	if !ok {
		return 0, ErrEventNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return 0, ErrEventNotFound
	}
	if entry.event.Frozen {
		return 0, ErrEventFrozen
	}
	if !entry.event.IsOpen {
		return 0, ErrEventClosed
	}
	for _, existing := range entry.signups {
		if existing.PlayerTag == signup.PlayerTag {
			return 0, ErrDuplicateSignup
		}
	}

	copied := *signup
	copied.EventID = entry.event.ID
	copied.Position = entry.event.SignupCount + 1
	entry.signups = append(entry.signups, &copied)
	entry.event.SignupCount++

	signup.EventID = copied.EventID
	signup.Position = copied.Position
	return copied.Position, nil
}

// RemoveSignup deletes the signup and compacts the positions above it
func (s *MemoryRosterStore) RemoveSignup(ctx context.Context, guildID, eventName, playerTag string) (*domain.Signup, error) {
	entry, ok := s.get(guildID, eventName)
	if !ok {
		return nil, ErrEventNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return nil, ErrEventNotFound
	}
	if entry.event.Frozen {
		return nil, ErrEventFrozen
	}

	idx := -1
	for i, existing := range entry.signups {
		if existing.PlayerTag == playerTag {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrSignupNotFound
	}

	removed := *entry.signups[idx]
	entry.signups = append(entry.signups[:idx], entry.signups[idx+1:]...)
	for _, survivor := range entry.signups {
		if survivor.Position > removed.Position {
			survivor.Position--
		}
	}
	entry.event.SignupCount--

	if err := verifyContiguous(entry.signups, entry.event.SignupCount); err != nil {
		// Halt writes to this event; repair is manual
		entry.event.Frozen = true
		return nil, err
	}
	return &removed, nil
}

// verifyContiguous checks that positions are exactly {1..count}
func verifyContiguous(signups []*domain.Signup, count int) error {
	if len(signups) != count {
		return ErrInconsistent
	}
	seen := make(map[int]bool, len(signups))
	for _, s := range signups {
		if s.Position < 1 || s.Position > count || seen[s.Position] {
			return ErrInconsistent
		}
		seen[s.Position] = true
	}
	return nil
}

// GetSignup retrieves one signup by player tag
func (s *MemoryRosterStore) GetSignup(ctx context.Context, guildID, eventName, playerTag string) (*domain.Signup, error) {
	entry, ok := s.get(guildID, eventName)
	if !ok {
		return nil, ErrEventNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return nil, ErrEventNotFound
	}
	for _, existing := range entry.signups {
		if existing.PlayerTag == playerTag {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, ErrSignupNotFound
}

// ListSignups retrieves the roster ordered by position ascending
func (s *MemoryRosterStore) ListSignups(ctx context.Context, guildID, eventName string) ([]*domain.Signup, error) {
	entry, ok := s.get(guildID, eventName)
	if !ok {
		return nil, ErrEventNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return nil, ErrEventNotFound
	}

	signups := make([]*domain.Signup, len(entry.signups))
	for i, existing := range entry.signups {
		copied := *existing
		signups[i] = &copied
	}
	sort.Slice(signups, func(i, j int) bool {
		return signups[i].Position < signups[j].Position
	})
	return signups, nil
}

// UpdateMessageRef binds the summary message handle to the event
func (s *MemoryRosterStore) UpdateMessageRef(ctx context.Context, guildID, name string, ref domain.MessageRef) error {
	entry, ok := s.get(guildID, name)
	if !ok {
		return ErrEventNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return ErrEventNotFound
	}
	entry.event.MessageID = ref.MessageID
	entry.event.ChannelID = ref.ChannelID
	entry.event.SummaryState = domain.SummaryBound
	return nil
}

// SetSummaryState persists the summary sync state
func (s *MemoryRosterStore) SetSummaryState(ctx context.Context, guildID, name string, state domain.SummaryState) error {
	entry, ok := s.get(guildID, name)
	if !ok {
		return ErrEventNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return ErrEventNotFound
	}
	entry.event.SummaryState = state
	return nil
}

// Count returns the number of stored events (for testing)
func (s *MemoryRosterStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
