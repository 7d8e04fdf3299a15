package domain

import (
	"time"
)

// SummaryState tracks the lifecycle of an event's summary message
type SummaryState string

const (
	// SummaryNoMessage means no summary message has been recorded yet
	SummaryNoMessage SummaryState = "no_message"
	// SummaryBound means a summary message handle is known and refreshable
	SummaryBound SummaryState = "bound"
	// SummaryStale means the summary message went missing; refreshes are skipped
	SummaryStale SummaryState = "stale"
)

// Event represents a recurring community event with a signup roster.
// Name is unique within a guild.
type Event struct {
	ID           string       `json:"id"`
	GuildID      string       `json:"guild_id"`
	Name         string       `json:"name"`
	IsOpen       bool         `json:"is_open"`
	Frozen       bool         `json:"frozen"`
	SignupCount  int          `json:"signup_count"`
	RoleID       string       `json:"role_id,omitempty"`
	LogChannelID string       `json:"log_channel_id,omitempty"`
	MessageID    string       `json:"message_id,omitempty"`
	ChannelID    string       `json:"channel_id,omitempty"`
	SummaryState SummaryState `json:"summary_state"`
	CreatedAt    time.Time    `json:"created_at"`
}

// MessageRef identifies the summary message rendered for an event
type MessageRef struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// HasMessage reports whether a summary message handle is recorded
func (e *Event) HasMessage() bool {
	return e.MessageID != "" && e.ChannelID != ""
}
