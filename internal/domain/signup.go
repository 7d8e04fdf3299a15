package domain

import (
	"strings"
	"time"
)

// Signup represents one roster entry in an event.
// Position is the 1-based ordinal assigned at submission time; within an
// event the live positions are always exactly {1..N} with N = signup count.
type Signup struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	PlayerTag     string    `json:"player_tag"`
	PlayerName    string    `json:"player_name"`
	TownHall      int       `json:"town_hall"`
	DiscordName   string    `json:"discord_name"`
	DiscordUserID string    `json:"discord_user_id"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
}

// NormalizeTag canonicalizes a player tag: trimmed, uppercased, leading '#'.
func NormalizeTag(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if tag == "" {
		return tag
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag
}

// TownHallHistogram counts signups per town-hall level
type TownHallHistogram map[int]int

// BuildHistogram derives the town-hall composition from a roster
func BuildHistogram(signups []*Signup) TownHallHistogram {
	hist := make(TownHallHistogram, len(signups))
	for _, s := range signups {
		hist[s.TownHall]++
	}
	return hist
}
