package summary

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/repository"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
)

// ErrMessageNotFound is returned by a Messenger when the summary message no
// longer exists at the recorded handle.
var ErrMessageNotFound = errors.New("summary message not found")

// Messenger renders summary payloads into chat messages
type Messenger interface {
	// CreateSummaryMessage posts a new summary and returns its message ID
	CreateSummaryMessage(ctx context.Context, channelID string, payload *Payload) (string, error)
	// UpdateSummaryMessage edits the message at ref in place
	UpdateSummaryMessage(ctx context.Context, ref domain.MessageRef, payload *Payload) error
	// DeleteSummaryMessage removes the message at ref
	DeleteSummaryMessage(ctx context.Context, ref domain.MessageRef) error
}

// Syncer keeps an event's summary message in step with its roster
type Syncer struct {
	store     repository.RosterStore
	messenger Messenger
	log       *logger.Logger
}

// NewSyncer creates a new summary syncer
func NewSyncer(store repository.RosterStore, messenger Messenger, log *logger.Logger) *Syncer {
	return &Syncer{
		store:     store,
		messenger: messenger,
		log:       log,
	}
}

// Refresh re-renders the summary message for an event. A missing message
// transitions the event to Stale; refreshes on a Stale event are skipped
// until an explicit re-bind.
func (s *Syncer) Refresh(ctx context.Context, guildID, name string) error {
	event, err := s.store.GetEvent(ctx, guildID, name)
	if err != nil {
		return fmt.Errorf("failed to load event for summary refresh: %w", err)
	}

	if !Refreshable(event.SummaryState) {
		if event.SummaryState == domain.SummaryStale {
			s.log.Warn("skipping summary refresh for stale event",
				zap.String("guild_id", guildID),
				zap.String("event", name),
			)
		}
		return nil
	}
	if !event.HasMessage() {
		return nil
	}

	signups, err := s.store.ListSignups(ctx, guildID, name)
	if err != nil {
		return fmt.Errorf("failed to load roster for summary refresh: %w", err)
	}

	payload := BuildPayload(event, signups)
	ref := domain.MessageRef{ChannelID: event.ChannelID, MessageID: event.MessageID}

	err = s.messenger.UpdateSummaryMessage(ctx, ref, payload)
	if errors.Is(err, ErrMessageNotFound) {
		s.log.Warn("summary message gone, marking event stale",
			zap.String("guild_id", guildID),
			zap.String("event", name),
			zap.String("message_id", event.MessageID),
		)
		if stateErr := s.store.SetSummaryState(ctx, guildID, name, domain.SummaryStale); stateErr != nil {
			return fmt.Errorf("failed to mark event stale: %w", stateErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update summary message: %w", err)
	}
	return nil
}

// Bind records the summary message handle for an event, returning a Stale or
// NoMessage event to Bound.
func (s *Syncer) Bind(ctx context.Context, guildID, name string, ref domain.MessageRef) error {
	if err := s.store.UpdateMessageRef(ctx, guildID, name, ref); err != nil {
		return fmt.Errorf("failed to bind summary message: %w", err)
	}
	return s.Refresh(ctx, guildID, name)
}

// Teardown deletes the summary message, best effort. Used when the event is
// deleted.
func (s *Syncer) Teardown(ctx context.Context, event *domain.Event) {
	if !event.HasMessage() || event.SummaryState != domain.SummaryBound {
		return
	}
	ref := domain.MessageRef{ChannelID: event.ChannelID, MessageID: event.MessageID}
	if err := s.messenger.DeleteSummaryMessage(ctx, ref); err != nil && !errors.Is(err, ErrMessageNotFound) {
		s.log.Warn("failed to delete summary message",
			zap.String("guild_id", event.GuildID),
			zap.String("event", event.Name),
			zap.Error(err),
		)
	}
}
