package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAPIBase = "https://discord.com/api/v10"

// ErrNotFound is returned when the channel or message no longer exists
var ErrNotFound = errors.New("discord resource not found")

// Embed is the subset of the Discord embed object the service renders
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField is one name/value pair in an embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter is the embed footer line
type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

// messageBody is the create/edit message payload
type messageBody struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type messageResponse struct {
	ID string `json:"id"`
}

// ClientConfig holds Discord REST settings
type ClientConfig struct {
	BotToken string
	APIBase  string
	Timeout  time.Duration
}

// Client is a minimal Discord REST client for channel messages
type Client struct {
	apiBase string
	token   string
	http    *http.Client
}

// NewClient creates a new Discord REST client
func NewClient(cfg ClientConfig) *Client {
	apiBase := strings.TrimRight(cfg.APIBase, "/")
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiBase: apiBase,
		token:   cfg.BotToken,
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateMessage posts a message and returns its ID
func (c *Client) CreateMessage(ctx context.Context, channelID, content string, embeds ...Embed) (string, error) {
	endpoint := fmt.Sprintf("%s/channels/%s/messages", c.apiBase, channelID)
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, endpoint, &messageBody{Content: content, Embeds: embeds}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// EditMessage replaces a message's content and embeds in place
func (c *Client) EditMessage(ctx context.Context, channelID, messageID, content string, embeds ...Embed) error {
	endpoint := fmt.Sprintf("%s/channels/%s/messages/%s", c.apiBase, channelID, messageID)
	return c.do(ctx, http.MethodPatch, endpoint, &messageBody{Content: content, Embeds: embeds}, nil)
}

// DeleteMessage removes a message
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	endpoint := fmt.Sprintf("%s/channels/%s/messages/%s", c.apiBase, channelID, messageID)
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode discord payload: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build discord request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("discord request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode discord response: %w", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return nil
}
