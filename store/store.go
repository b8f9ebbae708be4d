// Package store reads the account snapshot and recent activities the
// assistant answers from.
package store

import (
	"context"
	"errors"

	"genie/assistant"
)

var ErrAccountNotFound = errors.New("store: account not found")

// DefaultActivityLimit is how many activities a context carries.
const DefaultActivityLimit = 10

// AccountStore returns a point-in-time read of a user's money.
type AccountStore interface {
	GetAccount(ctx context.Context, userID string) (*assistant.AccountSnapshot, error)
}

// ActivityLedger returns up to limit activities, most recent first. An
// unknown user has no activities, not an error.
type ActivityLedger interface {
	GetRecentActivities(ctx context.Context, userID string, limit int) ([]assistant.Activity, error)
}

// Store is both collaborators plus the writes used for seeding.
type Store interface {
	AccountStore
	ActivityLedger
	PutAccount(ctx context.Context, userID string, a assistant.AccountSnapshot) error
	PushActivity(ctx context.Context, userID string, a assistant.Activity) error
}

// LoadContext assembles the assistant context for one turn.
func LoadContext(ctx context.Context, s interface {
	AccountStore
	ActivityLedger
}, userID string, limit int) (assistant.Context, error) {
	acct, err := s.GetAccount(ctx, userID)
	if err != nil {
		return assistant.Context{}, err
	}
	acts, err := s.GetRecentActivities(ctx, userID, limit)
	if err != nil {
		return assistant.Context{}, err
	}
	return assistant.Context{Account: acct, Activities: acts}, nil
}
