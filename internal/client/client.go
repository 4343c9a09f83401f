// Package client is a typed HTTP client for the skillhub API, used by the
// terminal settings screen.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/intelliking/skillhub/internal/skill"
)

// Settings is the client-side view of a user's settings record.
type Settings struct {
	UserID              string   `json:"user_id"`
	DisabledMicroagents []string `json:"disabled_microagents"`
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	DisabledMicroagents *[]string `json:"disabled_microagents,omitempty"`
}

// Client talks to a skillhub server.
type Client struct {
	baseURL string
	userID  string
	http    *http.Client
}

// New creates a Client for the given server base URL, identifying as userID.
func New(baseURL, userID string) *Client {
	return &Client{
		baseURL: baseURL,
		userID:  userID,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type skillListResponse struct {
	Skills []*skill.Skill `json:"skills"`
}

// GetSkills fetches the skill catalog.
func (c *Client) GetSkills(ctx context.Context) ([]*skill.Skill, error) {
	var body skillListResponse
	if err := c.do(ctx, http.MethodGet, "/api/skills", nil, &body); err != nil {
		return nil, err
	}
	return body.Skills, nil
}

// GetSettings fetches the user's saved settings.
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	var s Settings
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &s); err != nil {
		return nil, err
	}
	if s.DisabledMicroagents == nil {
		s.DisabledMicroagents = []string{}
	}
	return &s, nil
}

// UpdateSettings submits a partial settings update and returns the stored
// record.
func (c *Client) UpdateSettings(ctx context.Context, patch *SettingsPatch) (*Settings, error) {
	var s Settings
	if err := c.do(ctx, http.MethodPost, "/api/settings", patch, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	var reader io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRequestError(resp)
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}
