package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/dto"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/repository"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
)

// EventService manages event lifecycle and the leader role registry
type EventService interface {
	Create(ctx context.Context, guildID string, req *dto.CreateEventRequest) (*domain.Event, error)
	Get(ctx context.Context, guildID, name string) (*domain.Event, []*domain.Signup, error)
	List(ctx context.Context, guildID string) ([]*domain.Event, error)
	Close(ctx context.Context, guildID, name string, actor dto.Actor) error
	Delete(ctx context.Context, guildID, name string, actor dto.Actor) error
	BindMessage(ctx context.Context, guildID, name string, ref domain.MessageRef) error
	Export(ctx context.Context, guildID, name string, actor dto.Actor) (*domain.Event, []*domain.Signup, error)

	GrantLeaderRole(ctx context.Context, guildID, roleID string) error
	RevokeLeaderRole(ctx context.Context, guildID, roleID string) error
	ListLeaderRoles(ctx context.Context, guildID string) ([]string, error)
	IsLeader(ctx context.Context, guildID string, roles []string) (bool, error)
}

type eventService struct {
	store    repository.RosterStore
	leaders  repository.LeaderStore
	recorder *actionRecorder
	syncer   SummaryRefresher
	log      *logger.Logger
}

// NewEventService creates a new EventService
func NewEventService(store repository.RosterStore, leaders repository.LeaderStore, logs repository.LogStore, syncer SummaryRefresher, log *logger.Logger) EventService {
	return &eventService{
		store:    store,
		leaders:  leaders,
		recorder: newActionRecorder(logs, log),
		syncer:   syncer,
		log:      log,
	}
}

// Create registers a new event with an empty, open roster
func (s *eventService) Create(ctx context.Context, guildID string, req *dto.CreateEventRequest) (*domain.Event, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", ErrValidation, msg)
	}

	event := &domain.Event{
		ID:           uuid.New().String(),
		GuildID:      guildID,
		Name:         req.Name,
		IsOpen:       true,
		RoleID:       req.RoleID,
		LogChannelID: req.LogChannelID,
		SummaryState: domain.SummaryNoMessage,
		CreatedAt:    time.Now(),
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		s.recorder.record(ctx, guildID, req.Name, domain.LogActionCreate, req.Actor, actionOutcome{
			errorReason: err.Error(),
		})
		return nil, err
	}

	s.recorder.record(ctx, guildID, req.Name, domain.LogActionCreate, req.Actor, actionOutcome{
		success: true,
		details: "event created",
	})
	s.log.InfoContext(ctx, "event created",
		zap.String("guild_id", guildID),
		zap.String("event", event.Name),
	)
	return event, nil
}

// Get returns the event with its full roster
func (s *eventService) Get(ctx context.Context, guildID, name string) (*domain.Event, []*domain.Signup, error) {
	event, err := s.store.GetEvent(ctx, guildID, name)
	if err != nil {
		return nil, nil, err
	}
	signups, err := s.store.ListSignups(ctx, guildID, name)
	if err != nil {
		return nil, nil, err
	}
	return event, signups, nil
}

// List returns the guild's events, newest first
func (s *eventService) List(ctx context.Context, guildID string) ([]*domain.Event, error) {
	return s.store.ListEvents(ctx, guildID)
}

// Close shuts registration for an event. Leader only; removals remain
// possible afterwards.
func (s *eventService) Close(ctx context.Context, guildID, name string, actor dto.Actor) error {
	if err := s.requireLeader(ctx, guildID, actor); err != nil {
		s.recorder.record(ctx, guildID, name, domain.LogActionClose, actor, actionOutcome{
			errorReason: "not a leader",
		})
		return err
	}

	if err := s.store.CloseEvent(ctx, guildID, name); err != nil {
		s.recorder.record(ctx, guildID, name, domain.LogActionClose, actor, actionOutcome{
			errorReason: err.Error(),
		})
		return err
	}

	s.recorder.record(ctx, guildID, name, domain.LogActionClose, actor, actionOutcome{
		success: true,
		details: "registration closed",
	})
	refreshSummary(ctx, s.syncer, s.log, guildID, name)
	return nil
}

// Delete removes the event, its roster, and its summary message. Leader only.
func (s *eventService) Delete(ctx context.Context, guildID, name string, actor dto.Actor) error {
	if err := s.requireLeader(ctx, guildID, actor); err != nil {
		s.recorder.record(ctx, guildID, name, domain.LogActionDelete, actor, actionOutcome{
			errorReason: "not a leader",
		})
		return err
	}

	// Capture the message handle before the cascade wipes it
	event, err := s.store.GetEvent(ctx, guildID, name)
	if err != nil {
		return err
	}

	if err := s.store.DeleteEvent(ctx, guildID, name); err != nil {
		s.recorder.record(ctx, guildID, name, domain.LogActionDelete, actor, actionOutcome{
			errorReason: err.Error(),
		})
		return err
	}

	if s.syncer != nil {
		s.syncer.Teardown(ctx, event)
	}
	s.recorder.record(ctx, guildID, name, domain.LogActionDelete, actor, actionOutcome{
		success: true,
		details: fmt.Sprintf("event deleted with %d signups", event.SignupCount),
	})
	s.log.InfoContext(ctx, "event deleted",
		zap.String("guild_id", guildID),
		zap.String("event", name),
	)
	return nil
}

// Export returns the event with its roster for a spreadsheet download and
// records the export in the action log
func (s *eventService) Export(ctx context.Context, guildID, name string, actor dto.Actor) (*domain.Event, []*domain.Signup, error) {
	event, signups, err := s.Get(ctx, guildID, name)
	if err != nil {
		s.recorder.record(ctx, guildID, name, domain.LogActionExport, actor, actionOutcome{
			errorReason: err.Error(),
		})
		return nil, nil, err
	}

	s.recorder.record(ctx, guildID, name, domain.LogActionExport, actor, actionOutcome{
		success: true,
		details: fmt.Sprintf("roster exported with %d signups", event.SignupCount),
		payload: map[string]interface{}{"signup_count": event.SignupCount},
	})
	return event, signups, nil
}

// BindMessage records the summary message handle and refreshes it
func (s *eventService) BindMessage(ctx context.Context, guildID, name string, ref domain.MessageRef) error {
	if s.syncer != nil {
		return s.syncer.Bind(ctx, guildID, name, ref)
	}
	return s.store.UpdateMessageRef(ctx, guildID, name, ref)
}

// GrantLeaderRole marks a role as a leader role
func (s *eventService) GrantLeaderRole(ctx context.Context, guildID, roleID string) error {
	return s.leaders.Grant(ctx, guildID, roleID)
}

// RevokeLeaderRole removes a role from the leader set
func (s *eventService) RevokeLeaderRole(ctx context.Context, guildID, roleID string) error {
	return s.leaders.Revoke(ctx, guildID, roleID)
}

// ListLeaderRoles returns the guild's leader role IDs
func (s *eventService) ListLeaderRoles(ctx context.Context, guildID string) ([]string, error) {
	return s.leaders.List(ctx, guildID)
}

// IsLeader reports whether any of the roles is a leader role
func (s *eventService) IsLeader(ctx context.Context, guildID string, roles []string) (bool, error) {
	return s.leaders.IsLeader(ctx, guildID, roles)
}

func (s *eventService) requireLeader(ctx context.Context, guildID string, actor dto.Actor) error {
	isLeader, err := s.leaders.IsLeader(ctx, guildID, actor.Roles)
	if err != nil {
		return fmt.Errorf("failed to check leader roles: %w", err)
	}
	if !isLeader {
		return ErrForbidden
	}
	return nil
}

// IsNotFound reports whether the error means the event does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrEventNotFound) || errors.Is(err, repository.ErrSignupNotFound)
}
