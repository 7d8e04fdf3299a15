package dto

import (
	"time"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

// CreateEventRequest represents the request to create a new event
type CreateEventRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	RoleID       string `json:"role_id"`
	LogChannelID string `json:"log_channel_id"`
	Actor        Actor  `json:"actor" binding:"required"`
}

// Validate validates the CreateEventRequest
func (r *CreateEventRequest) Validate() (bool, string) {
	if r.Name == "" {
		return false, "Event name is required"
	}
	if len(r.Name) > 100 {
		return false, "Event name must be at most 100 characters"
	}
	return r.Actor.Validate()
}

// CloseEventRequest represents the request to close registration
type CloseEventRequest struct {
	Actor Actor `json:"actor" binding:"required"`
}

// DeleteEventRequest represents the request to delete an event
type DeleteEventRequest struct {
	Actor Actor `json:"actor" binding:"required"`
}

// BindMessageRequest binds the summary message handle to an event
type BindMessageRequest struct {
	ChannelID string `json:"channel_id" binding:"required"`
	MessageID string `json:"message_id" binding:"required"`
}

// Validate validates the BindMessageRequest
func (r *BindMessageRequest) Validate() (bool, string) {
	if r.ChannelID == "" {
		return false, "Channel ID is required"
	}
	if r.MessageID == "" {
		return false, "Message ID is required"
	}
	return true, ""
}

// EventResponse represents the response for an event
type EventResponse struct {
	ID           string `json:"id"`
	GuildID      string `json:"guild_id"`
	Name         string `json:"name"`
	IsOpen       bool   `json:"is_open"`
	Frozen       bool   `json:"frozen"`
	SignupCount  int    `json:"signup_count"`
	RoleID       string `json:"role_id,omitempty"`
	LogChannelID string `json:"log_channel_id,omitempty"`
	ChannelID    string `json:"channel_id,omitempty"`
	MessageID    string `json:"message_id,omitempty"`
	SummaryState string `json:"summary_state"`
	CreatedAt    string `json:"created_at"`
}

// NewEventResponse converts a domain event to its response shape
func NewEventResponse(event *domain.Event) *EventResponse {
	return &EventResponse{
		ID:           event.ID,
		GuildID:      event.GuildID,
		Name:         event.Name,
		IsOpen:       event.IsOpen,
		Frozen:       event.Frozen,
		SignupCount:  event.SignupCount,
		RoleID:       event.RoleID,
		LogChannelID: event.LogChannelID,
		ChannelID:    event.ChannelID,
		MessageID:    event.MessageID,
		SummaryState: string(event.SummaryState),
		CreatedAt:    event.CreatedAt.Format(time.RFC3339),
	}
}

// EventListResponse represents a list of events
type EventListResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int              `json:"total"`
}

// TownHallCount is one histogram bucket, keyed by town hall level
type TownHallCount struct {
	TownHall int `json:"town_hall"`
	Count    int `json:"count"`
}

// EventDetailResponse is an event together with its roster and histogram
type EventDetailResponse struct {
	Event     *EventResponse    `json:"event"`
	Signups   []*SignupResponse `json:"signups"`
	Histogram []TownHallCount   `json:"histogram"`
}
