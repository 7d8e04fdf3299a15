package dto

import (
	"time"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

// SignupRequest represents the request to add a player to the roster.
// Player name and town hall level come from the player directory, not the
// caller.
type SignupRequest struct {
	PlayerTag string `json:"player_tag" binding:"required"`
	Actor     Actor  `json:"actor" binding:"required"`
}

// Validate validates the SignupRequest
func (r *SignupRequest) Validate() (bool, string) {
	if r.PlayerTag == "" {
		return false, "Player tag is required"
	}
	return r.Actor.Validate()
}

// RemovalRequest represents the request to remove a signup
type RemovalRequest struct {
	PlayerTag string `json:"player_tag" binding:"required"`
	Actor     Actor  `json:"actor" binding:"required"`
}

// Validate validates the RemovalRequest
func (r *RemovalRequest) Validate() (bool, string) {
	if r.PlayerTag == "" {
		return false, "Player tag is required"
	}
	return r.Actor.Validate()
}

// CheckRequest represents the request to check a player's signup status
type CheckRequest struct {
	PlayerTag string `json:"player_tag" binding:"required"`
}

// Validate validates the CheckRequest
func (r *CheckRequest) Validate() (bool, string) {
	if r.PlayerTag == "" {
		return false, "Player tag is required"
	}
	return true, ""
}

// SignupResponse represents the response for a signup
type SignupResponse struct {
	ID            string `json:"id"`
	PlayerTag     string `json:"player_tag"`
	PlayerName    string `json:"player_name"`
	TownHall      int    `json:"town_hall"`
	DiscordName   string `json:"discord_name"`
	DiscordUserID string `json:"discord_user_id"`
	Position      int    `json:"position"`
	CreatedAt     string `json:"created_at"`
}

// NewSignupResponse converts a domain signup to its response shape
func NewSignupResponse(signup *domain.Signup) *SignupResponse {
	return &SignupResponse{
		ID:            signup.ID,
		PlayerTag:     signup.PlayerTag,
		PlayerName:    signup.PlayerName,
		TownHall:      signup.TownHall,
		DiscordName:   signup.DiscordName,
		DiscordUserID: signup.DiscordUserID,
		Position:      signup.Position,
		CreatedAt:     signup.CreatedAt.Format(time.RFC3339),
	}
}

// NewSignupListResponse converts a roster to its response shape
func NewSignupListResponse(signups []*domain.Signup) []*SignupResponse {
	out := make([]*SignupResponse, len(signups))
	for i, s := range signups {
		out[i] = NewSignupResponse(s)
	}
	return out
}

// SignupResultResponse is returned after a successful signup. RoleID tells
// the command surface which role to assign, when the event has one.
type SignupResultResponse struct {
	Signup *SignupResponse `json:"signup"`
	RoleID string          `json:"role_id,omitempty"`
}

// RemovalResultResponse is returned after a successful removal. The command
// surface uses RoleID and IsSelfRemoval to decide role cleanup and messaging.
type RemovalResultResponse struct {
	Removed       *SignupResponse `json:"removed"`
	RoleID        string          `json:"role_id,omitempty"`
	IsSelfRemoval bool            `json:"is_self_removal"`
}

// CheckResponse reports whether a player is on the roster. Absence is a
// normal answer, not an error.
type CheckResponse struct {
	SignedUp bool            `json:"signed_up"`
	Signup   *SignupResponse `json:"signup,omitempty"`
}
