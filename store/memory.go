package store

import (
	"context"
	"fmt"
	"sync"

	"genie/assistant"
)

// Memory is an in-process Store for the chat command and tests.
type Memory struct {
	mu         sync.RWMutex
	accounts   map[string]assistant.AccountSnapshot
	activities map[string][]assistant.Activity
}

func NewMemory() *Memory {
	return &Memory{
		accounts:   make(map[string]assistant.AccountSnapshot),
		activities: make(map[string][]assistant.Activity),
	}
}

func (m *Memory) GetAccount(_ context.Context, userID string) (*assistant.AccountSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, userID)
	}
	return &a, nil
}

func (m *Memory) GetRecentActivities(_ context.Context, userID string, limit int) ([]assistant.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acts := m.activities[userID]
	if limit < 0 {
		limit = 0
	}
	if len(acts) > limit {
		acts = acts[:limit]
	}
	out := make([]assistant.Activity, len(acts))
	copy(out, acts)
	return out, nil
}

func (m *Memory) PutAccount(_ context.Context, userID string, a assistant.AccountSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[userID] = a
	return nil
}

func (m *Memory) PushActivity(_ context.Context, userID string, a assistant.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acts := append([]assistant.Activity{a}, m.activities[userID]...)
	if len(acts) > maxActivities {
		acts = acts[:maxActivities]
	}
	m.activities[userID] = acts
	return nil
}
