package discord

import (
	"context"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/summary"
)

// NoopMessenger satisfies the messenger contract without a bot token.
// Summaries stay bound but render nowhere; useful for tests and API-only
// deployments.
type NoopMessenger struct{}

// NewNoopMessenger creates a messenger that does nothing
func NewNoopMessenger() *NoopMessenger {
	return &NoopMessenger{}
}

func (NoopMessenger) CreateSummaryMessage(ctx context.Context, channelID string, payload *summary.Payload) (string, error) {
	return "", nil
}

func (NoopMessenger) UpdateSummaryMessage(ctx context.Context, ref domain.MessageRef, payload *summary.Payload) error {
	return nil
}

func (NoopMessenger) DeleteSummaryMessage(ctx context.Context, ref domain.MessageRef) error {
	return nil
}

// NoopSink drops log entries, used when Discord delivery is disabled
type NoopSink struct{}

// NewNoopSink creates a sink that does nothing
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (NoopSink) Deliver(ctx context.Context, entry *domain.LogEntry) error {
	return nil
}
