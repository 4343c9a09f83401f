package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory settings store used when PostgreSQL is
// unavailable and in tests. Contents are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]*UserSettings
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]*UserSettings)}
}

// GetSettings returns the settings for a user, or ErrSettingsNotFound.
func (m *MemoryStore) GetSettings(_ context.Context, userID string) (*UserSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	us, ok := m.rows[userID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	cp := *us
	cp.DisabledMicroagents = append([]string(nil), us.DisabledMicroagents...)
	return &cp, nil
}

// UpdateSettings applies a partial update, creating the row if needed.
func (m *MemoryStore) UpdateSettings(_ context.Context, userID string, patch *SettingsPatch) (*UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	us, ok := m.rows[userID]
	if !ok {
		now := time.Now()
		us = &UserSettings{
			ID:                  uuid.NewString(),
			UserID:              userID,
			DisabledMicroagents: []string{},
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		m.rows[userID] = us
	}
	if patch.DisabledMicroagents != nil {
		us.DisabledMicroagents = append([]string(nil), (*patch.DisabledMicroagents)...)
	}
	if us.DisabledMicroagents == nil {
		us.DisabledMicroagents = []string{}
	}
	us.UpdatedAt = time.Now()

	cp := *us
	cp.DisabledMicroagents = append([]string(nil), us.DisabledMicroagents...)
	return &cp, nil
}
