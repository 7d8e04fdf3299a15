package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/repository"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
)

const (
	colorSuccess = 0x3498DB
	colorFailure = 0x95A5A6
)

// LogSink posts action log entries to the owning event's log channel
type LogSink struct {
	client *Client
	store  repository.RosterStore
	log    *logger.Logger
}

// NewLogSink creates a Discord-backed log sink
func NewLogSink(client *Client, store repository.RosterStore, log *logger.Logger) *LogSink {
	return &LogSink{
		client: client,
		store:  store,
		log:    log,
	}
}

// Deliver posts the entry as an embed. Entries for events without a log
// channel, or whose event is already gone, are dropped quietly.
func (s *LogSink) Deliver(ctx context.Context, entry *domain.LogEntry) error {
	event, err := s.store.GetEvent(ctx, entry.GuildID, entry.EventName)
	if errors.Is(err, repository.ErrEventNotFound) {
		s.log.Debug("skipping log delivery for deleted event",
			zap.String("guild_id", entry.GuildID),
			zap.String("event", entry.EventName),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve log channel: %w", err)
	}
	if event.LogChannelID == "" {
		return nil
	}

	_, err = s.client.CreateMessage(ctx, event.LogChannelID, "", renderLogEntry(entry))
	if errors.Is(err, ErrNotFound) {
		s.log.Warn("log channel gone, dropping entry",
			zap.String("guild_id", entry.GuildID),
			zap.String("channel_id", event.LogChannelID),
		)
		return nil
	}
	return err
}

func renderLogEntry(entry *domain.LogEntry) Embed {
	color := colorSuccess
	outcome := "succeeded"
	if !entry.Success {
		color = colorFailure
		outcome = "failed"
	}

	embed := Embed{
		Title: fmt.Sprintf("%s %s", entry.Action, outcome),
		Color: color,
		Fields: []EmbedField{
			{Name: "Event", Value: entry.EventName, Inline: true},
			{Name: "Actor", Value: entry.ActorName, Inline: true},
		},
		Footer:    &EmbedFooter{Text: entry.ActorName, IconURL: entry.ActorAvatarURL},
		Timestamp: entry.CreatedAt.UTC().Format(time.RFC3339),
	}
	if entry.Details != "" {
		embed.Description = entry.Details
	}
	if entry.ErrorReason != "" {
		embed.Fields = append(embed.Fields, EmbedField{Name: "Reason", Value: entry.ErrorReason})
	}
	return embed
}
