package domain

import (
	"time"
)

// LogAction is the kind of mutating action being recorded
type LogAction string

const (
	LogActionCreate LogAction = "create"
	LogActionClose  LogAction = "close"
	LogActionDelete LogAction = "delete"
	LogActionSignup LogAction = "signup"
	LogActionRemove LogAction = "remove"
	LogActionExport LogAction = "export"
)

// LogEntry is an append-only record of a mutating action. Entries are
// written inline with the request and delivered later by the log worker
// (at-least-once; entries are marked processed even when delivery fails).
type LogEntry struct {
	ID             string                 `json:"id"`
	GuildID        string                 `json:"guild_id"`
	EventName      string                 `json:"event_name"`
	Action         LogAction              `json:"action"`
	ActorName      string                 `json:"actor_name"`
	ActorAvatarURL string                 `json:"actor_avatar_url,omitempty"`
	Success        bool                   `json:"success"`
	Details        string                 `json:"details,omitempty"`
	ErrorReason    string                 `json:"error_reason,omitempty"`
	Payload        map[string]interface{} `json:"payload,omitempty"`
	Processed      bool                   `json:"processed"`
	CreatedAt      time.Time              `json:"created_at"`
}
