package summary

import (
	"testing"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

func TestSummaryStateIsValid(t *testing.T) {
	tests := []struct {
		state    domain.SummaryState
		expected bool
	}{
		{domain.SummaryNoMessage, true},
		{domain.SummaryBound, true},
		{domain.SummaryStale, true},
		{domain.SummaryState("invalid"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := IsValidState(tt.state); got != tt.expected {
				t.Errorf("IsValidState() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSummaryStateCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     domain.SummaryState
		to       domain.SummaryState
		expected bool
	}{
		{"no_message -> bound", domain.SummaryNoMessage, domain.SummaryBound, true},
		{"no_message -> stale", domain.SummaryNoMessage, domain.SummaryStale, false},

		{"bound -> stale", domain.SummaryBound, domain.SummaryStale, true},
		{"bound -> no_message", domain.SummaryBound, domain.SummaryNoMessage, false},

		// Only an explicit re-bind leaves stale
		{"stale -> bound", domain.SummaryStale, domain.SummaryBound, true},
		{"stale -> no_message", domain.SummaryStale, domain.SummaryNoMessage, false},
		{"stale -> stale", domain.SummaryStale, domain.SummaryStale, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("CanTransition() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRefreshable(t *testing.T) {
	tests := []struct {
		state    domain.SummaryState
		expected bool
	}{
		{domain.SummaryNoMessage, false},
		{domain.SummaryBound, true},
		{domain.SummaryStale, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := Refreshable(tt.state); got != tt.expected {
				t.Errorf("Refreshable() = %v, want %v", got, tt.expected)
			}
		})
	}
}
