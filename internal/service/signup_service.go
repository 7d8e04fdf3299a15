package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/directory"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/dto"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/repository"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/telemetry"
)

// SignupResult is returned after a successful signup. RoleID tells the
// command surface which role to assign, when the event has one.
type SignupResult struct {
	Signup *domain.Signup
	RoleID string
}

// RemovalResult is returned after a successful removal
type RemovalResult struct {
	Removed       *domain.Signup
	RoleID        string
	IsSelfRemoval bool
}

// CheckResult reports roster membership; absence is a normal answer
type CheckResult struct {
	SignedUp bool
	Signup   *domain.Signup
}

// SignupService manages roster membership
type SignupService interface {
	Signup(ctx context.Context, guildID, eventName string, req *dto.SignupRequest) (*SignupResult, error)
	Remove(ctx context.Context, guildID, eventName string, req *dto.RemovalRequest) (*RemovalResult, error)
	Check(ctx context.Context, guildID, eventName, playerTag string) (*CheckResult, error)
	ListSignups(ctx context.Context, guildID, eventName string) ([]*domain.Signup, error)
}

type signupService struct {
	store     repository.RosterStore
	leaders   repository.LeaderStore
	directory directory.Directory
	recorder  *actionRecorder
	syncer    SummaryRefresher
	log       *logger.Logger

	signupCounter  *telemetry.Counter
	removalCounter *telemetry.Counter
}

// NewSignupService creates a new SignupService
func NewSignupService(store repository.RosterStore, leaders repository.LeaderStore, logs repository.LogStore, dir directory.Directory, syncer SummaryRefresher, log *logger.Logger) SignupService {
	s := &signupService{
		store:     store,
		leaders:   leaders,
		directory: dir,
		recorder:  newActionRecorder(logs, log),
		syncer:    syncer,
		log:       log,
	}
	if c, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "roster.signups",
		Description: "Signups added",
	}); err == nil {
		s.signupCounter = c
	}
	if c, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "roster.removals",
		Description: "Signups removed",
	}); err == nil {
		s.removalCounter = c
	}
	return s
}

// Signup resolves the player against the directory and appends them to the
// roster at the next position.
func (s *signupService) Signup(ctx context.Context, guildID, eventName string, req *dto.SignupRequest) (*SignupResult, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", ErrValidation, msg)
	}
	tag := domain.NormalizeTag(req.PlayerTag)

	// Fail fast before the upstream lookup; AddSignup re-checks under the
	// event lock.
	event, err := s.store.GetEvent(ctx, guildID, eventName)
	if err != nil {
		return nil, err
	}
	if event.Frozen {
		return nil, repository.ErrEventFrozen
	}
	if !event.IsOpen {
		s.recorder.record(ctx, guildID, eventName, domain.LogActionSignup, req.Actor, actionOutcome{
			errorReason: "registration closed",
			payload:     map[string]interface{}{"player_tag": tag},
		})
		return nil, repository.ErrEventClosed
	}

	player, err := s.directory.Lookup(ctx, tag)
	if err != nil {
		s.recorder.record(ctx, guildID, eventName, domain.LogActionSignup, req.Actor, actionOutcome{
			errorReason: fmt.Sprintf("player lookup failed: %v", err),
			payload:     map[string]interface{}{"player_tag": tag},
		})
		return nil, err
	}

	signup := &domain.Signup{
		ID:            uuid.New().String(),
		PlayerTag:     tag,
		PlayerName:    player.Name,
		TownHall:      player.TownHall,
		DiscordName:   req.Actor.Name,
		DiscordUserID: req.Actor.UserID,
		CreatedAt:     time.Now(),
	}

	position, err := s.store.AddSignup(ctx, guildID, eventName, signup)
	if err != nil {
		s.recorder.record(ctx, guildID, eventName, domain.LogActionSignup, req.Actor, actionOutcome{
			errorReason: err.Error(),
			payload:     map[string]interface{}{"player_tag": tag},
		})
		return nil, err
	}

	if s.signupCounter != nil {
		s.signupCounter.Inc(ctx)
	}
	s.recorder.record(ctx, guildID, eventName, domain.LogActionSignup, req.Actor, actionOutcome{
		success: true,
		details: fmt.Sprintf("%s (%s) signed up at position %d", player.Name, tag, position),
		payload: map[string]interface{}{
			"player_tag":  tag,
			"player_name": player.Name,
			"town_hall":   player.TownHall,
			"position":    position,
		},
	})
	s.log.InfoContext(ctx, "signup added",
		zap.String("guild_id", guildID),
		zap.String("event", eventName),
		zap.String("player_tag", tag),
		zap.Int("position", position),
	)
	refreshSummary(ctx, s.syncer, s.log, guildID, eventName)

	return &SignupResult{Signup: signup, RoleID: event.RoleID}, nil
}

// Remove takes a player off the roster. The submitter may remove their own
// signup; anyone else must hold a leader role. Removal works on closed
// events.
func (s *signupService) Remove(ctx context.Context, guildID, eventName string, req *dto.RemovalRequest) (*RemovalResult, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", ErrValidation, msg)
	}
	tag := domain.NormalizeTag(req.PlayerTag)

	event, err := s.store.GetEvent(ctx, guildID, eventName)
	if err != nil {
		return nil, err
	}

	signup, err := s.store.GetSignup(ctx, guildID, eventName, tag)
	if err != nil {
		return nil, err
	}

	isSelf := signup.DiscordUserID == req.Actor.UserID
	if !isSelf {
		isLeader, err := s.leaders.IsLeader(ctx, guildID, req.Actor.Roles)
		if err != nil {
			return nil, fmt.Errorf("failed to check leader roles: %w", err)
		}
		if !isLeader {
			s.recorder.record(ctx, guildID, eventName, domain.LogActionRemove, req.Actor, actionOutcome{
				errorReason: "not the submitter and not a leader",
				payload:     map[string]interface{}{"player_tag": tag},
			})
			return nil, ErrForbidden
		}
	}

	removed, err := s.store.RemoveSignup(ctx, guildID, eventName, tag)
	if err != nil {
		outcome := actionOutcome{
			errorReason: err.Error(),
			payload:     map[string]interface{}{"player_tag": tag},
		}
		if errors.Is(err, repository.ErrInconsistent) {
			s.log.ErrorContext(ctx, "roster positions inconsistent, event frozen",
				zap.String("guild_id", guildID),
				zap.String("event", eventName),
			)
		}
		s.recorder.record(ctx, guildID, eventName, domain.LogActionRemove, req.Actor, outcome)
		return nil, err
	}

	if s.removalCounter != nil {
		s.removalCounter.Inc(ctx)
	}
	s.recorder.record(ctx, guildID, eventName, domain.LogActionRemove, req.Actor, actionOutcome{
		success: true,
		details: fmt.Sprintf("%s (%s) removed from position %d", removed.PlayerName, tag, removed.Position),
		payload: map[string]interface{}{
			"player_tag":   tag,
			"position":     removed.Position,
			"self_removal": isSelf,
		},
	})
	s.log.InfoContext(ctx, "signup removed",
		zap.String("guild_id", guildID),
		zap.String("event", eventName),
		zap.String("player_tag", tag),
		zap.Bool("self_removal", isSelf),
	)
	refreshSummary(ctx, s.syncer, s.log, guildID, eventName)

	return &RemovalResult{Removed: removed, RoleID: event.RoleID, IsSelfRemoval: isSelf}, nil
}

// Check reports whether a player is on the roster
func (s *signupService) Check(ctx context.Context, guildID, eventName, playerTag string) (*CheckResult, error) {
	tag := domain.NormalizeTag(playerTag)

	signup, err := s.store.GetSignup(ctx, guildID, eventName, tag)
	if errors.Is(err, repository.ErrSignupNotFound) {
		return &CheckResult{SignedUp: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &CheckResult{SignedUp: true, Signup: signup}, nil
}

// ListSignups returns the roster ordered by position
func (s *signupService) ListSignups(ctx context.Context, guildID, eventName string) ([]*domain.Signup, error) {
	return s.store.ListSignups(ctx, guildID, eventName)
}
