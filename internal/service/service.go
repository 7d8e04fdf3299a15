package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/dto"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/repository"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
)

// Service errors
var (
	// ErrForbidden is returned when the requester lacks leader membership for
	// a leader-only action.
	ErrForbidden = errors.New("requester is not allowed to perform this action")
	// ErrValidation is returned for malformed requests
	ErrValidation = errors.New("invalid request")
)

// actionRecorder appends action log entries to the outbox. Failures are
// logged and swallowed; logging never fails a mutation.
type actionRecorder struct {
	logs repository.LogStore
	log  *logger.Logger
}

func newActionRecorder(logs repository.LogStore, log *logger.Logger) *actionRecorder {
	return &actionRecorder{logs: logs, log: log}
}

type actionOutcome struct {
	success     bool
	details     string
	errorReason string
	payload     map[string]interface{}
}

func (r *actionRecorder) record(ctx context.Context, guildID, eventName string, action domain.LogAction, actor dto.Actor, outcome actionOutcome) {
	entry := &domain.LogEntry{
		ID:             uuid.New().String(),
		GuildID:        guildID,
		EventName:      eventName,
		Action:         action,
		ActorName:      actor.Name,
		ActorAvatarURL: actor.AvatarURL,
		Success:        outcome.success,
		Details:        outcome.details,
		ErrorReason:    outcome.errorReason,
		Payload:        outcome.payload,
		CreatedAt:      time.Now(),
	}
	if err := r.logs.Append(ctx, entry); err != nil {
		r.log.Error("failed to append action log entry",
			zap.String("guild_id", guildID),
			zap.String("event", eventName),
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}
}

// refreshSummary pushes the summary best-effort after a mutation
func refreshSummary(ctx context.Context, syncer SummaryRefresher, log *logger.Logger, guildID, eventName string) {
	if syncer == nil {
		return
	}
	if err := syncer.Refresh(ctx, guildID, eventName); err != nil {
		log.Warn("summary refresh failed",
			zap.String("guild_id", guildID),
			zap.String("event", eventName),
			zap.Error(err),
		)
	}
}

// SummaryRefresher is the slice of the summary syncer the services use
type SummaryRefresher interface {
	Refresh(ctx context.Context, guildID, name string) error
	Bind(ctx context.Context, guildID, name string, ref domain.MessageRef) error
	Teardown(ctx context.Context, event *domain.Event)
}
