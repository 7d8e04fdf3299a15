package summary

import (
	"sort"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

// Bucket is one town-hall line of the composition table
type Bucket struct {
	TownHall int
	Count    int
}

// Payload is everything a messenger needs to render the summary message
type Payload struct {
	EventName string
	IsOpen    bool
	Total     int
	Buckets   []Bucket // sorted by town hall descending
	RoleID    string   // optional role to mention
}

// BuildPayload derives the summary payload from an event and its roster
func BuildPayload(event *domain.Event, signups []*domain.Signup) *Payload {
	hist := domain.BuildHistogram(signups)
	buckets := make([]Bucket, 0, len(hist))
	for th, count := range hist {
		buckets = append(buckets, Bucket{TownHall: th, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].TownHall > buckets[j].TownHall
	})

	// SignupCount is the count source of truth, not the roster row count
	return &Payload{
		EventName: event.Name,
		IsOpen:    event.IsOpen,
		Total:     event.SignupCount,
		Buckets:   buckets,
		RoleID:    event.RoleID,
	}
}
