package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

// ErrPlayerNotFound is returned when the upstream knows no player with the
// given tag.
var ErrPlayerNotFound = errors.New("player not found")

// ErrLookupFailed is returned for any other upstream failure (network,
// non-2xx, malformed body).
var ErrLookupFailed = errors.New("player lookup failed")

// Player is the subset of the upstream player record the roster needs
type Player struct {
	Tag      string `json:"tag"`
	Name     string `json:"name"`
	TownHall int    `json:"townHallLevel"`
}

// Directory resolves a player tag to the player's name and town hall level
type Directory interface {
	Lookup(ctx context.Context, tag string) (*Player, error)
}

// ClientConfig holds settings for the Clash API client
type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client looks players up against the Clash of Clans API (or a proxy)
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a new directory client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup fetches a player record by normalized tag
func (c *Client) Lookup(ctx context.Context, tag string) (*Player, error) {
	tag = domain.NormalizeTag(tag)
	endpoint := fmt.Sprintf("%s/v1/players/%s", c.baseURL, url.PathEscape(tag))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrPlayerNotFound
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: upstream returned %d", ErrLookupFailed, resp.StatusCode)
	}

	var player Player
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if player.Name == "" {
		return nil, fmt.Errorf("%w: empty player record", ErrLookupFailed)
	}
	if player.Tag == "" {
		player.Tag = tag
	}
	return &player, nil
}
