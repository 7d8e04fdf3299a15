package summary

import (
	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

// validTransitions defines the summary message lifecycle. Stale is
// soft-terminal: an explicit re-bind returns it to Bound, nothing else does.
var validTransitions = map[domain.SummaryState][]domain.SummaryState{
	domain.SummaryNoMessage: {domain.SummaryBound},
	domain.SummaryBound:     {domain.SummaryStale},
	domain.SummaryStale:     {domain.SummaryBound},
}

// IsValidState reports whether the state is a known summary state
func IsValidState(s domain.SummaryState) bool {
	switch s {
	case domain.SummaryNoMessage, domain.SummaryBound, domain.SummaryStale:
		return true
	}
	return false
}

// CanTransition reports whether the summary lifecycle permits from -> to
func CanTransition(from, to domain.SummaryState) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Refreshable reports whether a refresh should push the payload to the
// messenger. NoMessage has nothing to update; Stale is skipped until re-bound.
func Refreshable(s domain.SummaryState) bool {
	return s == domain.SummaryBound
}
