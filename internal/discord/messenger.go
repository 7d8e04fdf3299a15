package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/summary"
)

const (
	colorOpen   = 0x2ECC71
	colorClosed = 0xE74C3C
)

// Messenger renders summary payloads as Discord embeds
type Messenger struct {
	client *Client
}

// NewMessenger creates a summary messenger backed by the Discord REST API
func NewMessenger(client *Client) *Messenger {
	return &Messenger{client: client}
}

// CreateSummaryMessage posts a fresh summary message and returns its ID
func (m *Messenger) CreateSummaryMessage(ctx context.Context, channelID string, payload *summary.Payload) (string, error) {
	content, embed := renderSummary(payload)
	id, err := m.client.CreateMessage(ctx, channelID, content, embed)
	if errors.Is(err, ErrNotFound) {
		return "", summary.ErrMessageNotFound
	}
	return id, err
}

// UpdateSummaryMessage edits the summary message in place
func (m *Messenger) UpdateSummaryMessage(ctx context.Context, ref domain.MessageRef, payload *summary.Payload) error {
	content, embed := renderSummary(payload)
	err := m.client.EditMessage(ctx, ref.ChannelID, ref.MessageID, content, embed)
	if errors.Is(err, ErrNotFound) {
		return summary.ErrMessageNotFound
	}
	return err
}

// DeleteSummaryMessage removes the summary message
func (m *Messenger) DeleteSummaryMessage(ctx context.Context, ref domain.MessageRef) error {
	err := m.client.DeleteMessage(ctx, ref.ChannelID, ref.MessageID)
	if errors.Is(err, ErrNotFound) {
		return summary.ErrMessageNotFound
	}
	return err
}

func renderSummary(payload *summary.Payload) (string, Embed) {
	var content string
	if payload.RoleID != "" {
		content = fmt.Sprintf("<@&%s>", payload.RoleID)
	}

	banner := "Registration open"
	color := colorOpen
	if !payload.IsOpen {
		banner = "Registration closed"
		color = colorClosed
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", banner)
	fmt.Fprintf(&b, "Signed up: **%d**\n", payload.Total)
	if len(payload.Buckets) > 0 {
		b.WriteString("\n")
		for _, bucket := range payload.Buckets {
			fmt.Fprintf(&b, "TH%d: %d\n", bucket.TownHall, bucket.Count)
		}
	}

	embed := Embed{
		Title:       payload.EventName,
		Description: b.String(),
		Color:       color,
	}
	return content, embed
}
