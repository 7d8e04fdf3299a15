package repository

import (
	"context"
	"errors"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

var (
	// ErrEventNotFound is returned when no event matches (guild, name)
	ErrEventNotFound = errors.New("event not found")
	// ErrEventExists is returned when an event name is already taken for a guild
	ErrEventExists = errors.New("event already exists")
	// ErrEventClosed is returned when adding a signup to a closed event
	ErrEventClosed = errors.New("registration is closed")
	// ErrAlreadyClosed is returned when closing an event twice
	ErrAlreadyClosed = errors.New("event is already closed")
	// ErrSignupNotFound is returned when no signup matches the player tag
	ErrSignupNotFound = errors.New("signup not found")
	// ErrDuplicateSignup is returned when the player already has a signup in the event
	ErrDuplicateSignup = errors.New("player already signed up")
	// ErrEventFrozen is returned for writes to an event halted after an
	// inconsistency was observed; repair is manual
	ErrEventFrozen = errors.New("event is frozen pending manual repair")
	// ErrInconsistent is returned when the contiguous-position invariant was
	// found violated after a renumbering batch
	ErrInconsistent = errors.New("roster positions are inconsistent")
	// ErrLeaderRoleNotFound is returned when revoking a role that is not a leader role
	ErrLeaderRoleNotFound = errors.New("role is not a leader role")
	// ErrLogEntryNotFound is returned when marking an unknown log entry processed
	ErrLogEntryNotFound = errors.New("log entry not found")
)

// RosterStore is the durable store for events and their ordered signups.
// It exclusively owns position assignment and renumbering: positions within
// one event are always {1..N} between operations, and AddSignup/RemoveSignup
// serialize per event.
type RosterStore interface {
	// CreateEvent persists a new event; ErrEventExists if the name is taken
	CreateEvent(ctx context.Context, event *domain.Event) error
	// GetEvent retrieves an event by guild and name
	GetEvent(ctx context.Context, guildID, name string) (*domain.Event, error)
	// ListEvents retrieves all events for a guild, newest first
	ListEvents(ctx context.Context, guildID string) ([]*domain.Event, error)
	// CloseEvent flips an open event to closed; closing twice is ErrAlreadyClosed
	CloseEvent(ctx context.Context, guildID, name string) error
	// DeleteEvent removes the event and all its signups; readers never see a
	// partially deleted roster
	DeleteEvent(ctx context.Context, guildID, name string) error
	// AddSignup inserts a signup at position count+1 and bumps the count,
	// atomically; returns the assigned position
	AddSignup(ctx context.Context, guildID, eventName string, signup *domain.Signup) (int, error)
	// RemoveSignup deletes the signup, shifts every higher position down by
	// one and decrements the count as one atomic batch; returns the removed record
	RemoveSignup(ctx context.Context, guildID, eventName, playerTag string) (*domain.Signup, error)
	// GetSignup retrieves one signup by player tag
	GetSignup(ctx context.Context, guildID, eventName, playerTag string) (*domain.Signup, error)
	// ListSignups retrieves the roster ordered by position ascending
	ListSignups(ctx context.Context, guildID, eventName string) ([]*domain.Signup, error)
	// UpdateMessageRef binds the summary message handle to the event
	UpdateMessageRef(ctx context.Context, guildID, name string, ref domain.MessageRef) error
	// SetSummaryState persists the summary sync state
	SetSummaryState(ctx context.Context, guildID, name string, state domain.SummaryState) error
}

// LeaderStore is the per-guild registry of roles empowered to act as leaders
type LeaderStore interface {
	// Grant adds a role to the leader set; granting twice is a no-op
	Grant(ctx context.Context, guildID, roleID string) error
	// Revoke removes a role from the leader set
	Revoke(ctx context.Context, guildID, roleID string) error
	// List returns all leader role IDs for a guild
	List(ctx context.Context, guildID string) ([]string, error)
	// IsLeader reports whether any of the given roles is a leader role
	IsLeader(ctx context.Context, guildID string, roleIDs []string) (bool, error)
}

// LogStore is the outbox for action log entries
type LogStore interface {
	// Append persists a new log entry
	Append(ctx context.Context, entry *domain.LogEntry) error
	// ListUnprocessed returns up to limit undelivered entries, oldest first
	ListUnprocessed(ctx context.Context, limit int) ([]*domain.LogEntry, error)
	// MarkProcessed flags an entry as delivered
	MarkProcessed(ctx context.Context, id string) error
}
