package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrSettingsNotFound is returned when a user has no settings row yet.
var ErrSettingsNotFound = errors.New("settings not found")

// UserSettings is a user's persisted settings record.
type UserSettings struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	DisabledMicroagents []string  `json:"disabled_microagents"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	DisabledMicroagents *[]string `json:"disabled_microagents,omitempty"`
}

// GetSettings returns the settings row for a user, or ErrSettingsNotFound.
func (s *Store) GetSettings(ctx context.Context, userID string) (*UserSettings, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, user_id, disabled_microagents, created_at, updated_at
		 FROM user_settings WHERE user_id=$1`, userID)

	var us UserSettings
	var disabledJSON []byte
	err := row.Scan(&us.ID, &us.UserID, &disabledJSON, &us.CreatedAt, &us.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	_ = json.Unmarshal(disabledJSON, &us.DisabledMicroagents)
	if us.DisabledMicroagents == nil {
		us.DisabledMicroagents = []string{}
	}
	return &us, nil
}

// UpdateSettings applies a partial update to a user's settings, creating the
// row if it doesn't exist. Returns the stored record.
func (s *Store) UpdateSettings(ctx context.Context, userID string, patch *SettingsPatch) (*UserSettings, error) {
	current, err := s.GetSettings(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrSettingsNotFound) {
			return nil, err
		}
		current = &UserSettings{
			ID:                  uuid.NewString(),
			UserID:              userID,
			DisabledMicroagents: []string{},
		}
	}

	if patch.DisabledMicroagents != nil {
		current.DisabledMicroagents = *patch.DisabledMicroagents
	}
	if current.DisabledMicroagents == nil {
		current.DisabledMicroagents = []string{}
	}

	disabledJSON, _ := json.Marshal(current.DisabledMicroagents)
	row := s.db.QueryRow(ctx,
		`INSERT INTO user_settings (id, user_id, disabled_microagents)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE
		 SET disabled_microagents=EXCLUDED.disabled_microagents, updated_at=NOW()
		 RETURNING id, user_id, disabled_microagents, created_at, updated_at`,
		current.ID, userID, disabledJSON)

	var us UserSettings
	var storedJSON []byte
	if err := row.Scan(&us.ID, &us.UserID, &storedJSON, &us.CreatedAt, &us.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert settings: %w", err)
	}
	_ = json.Unmarshal(storedJSON, &us.DisabledMicroagents)
	if us.DisabledMicroagents == nil {
		us.DisabledMicroagents = []string{}
	}
	return &us, nil
}
