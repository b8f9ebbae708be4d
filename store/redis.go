package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"genie/assistant"
)

const (
	accountPrefix  = "account:"
	activityPrefix = "activities:"
	maxActivities  = 200
)

const (
	fieldBalance         = "balance"
	fieldPortfolioValue  = "portfolio_value"
	fieldSavings         = "savings"
	fieldMonthlyExpenses = "monthly_expenses"
)

// Redis keeps accounts in the hash account:<user> and activities in the list
// activities:<user>, newest at the head.
type Redis struct {
	rdb redis.Cmdable
}

func NewRedis(rdb redis.Cmdable) *Redis {
	return &Redis{rdb: rdb}
}

func (s *Redis) GetAccount(ctx context.Context, userID string) (*assistant.AccountSnapshot, error) {
	fields, err := s.rdb.HGetAll(ctx, accountPrefix+userID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, userID)
	}
	return parseAccount(fields)
}

func parseAccount(fields map[string]string) (*assistant.AccountSnapshot, error) {
	var a assistant.AccountSnapshot
	for name, dst := range map[string]*float64{
		fieldBalance:         &a.Balance,
		fieldPortfolioValue:  &a.PortfolioValue,
		fieldSavings:         &a.Savings,
		fieldMonthlyExpenses: &a.MonthlyExpenses,
	} {
		raw, ok := fields[name]
		if !ok || raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		*dst = d.InexactFloat64()
	}
	return &a, nil
}

func (s *Redis) GetRecentActivities(ctx context.Context, userID string, limit int) ([]assistant.Activity, error) {
	if limit <= 0 {
		return []assistant.Activity{}, nil
	}
	items, err := s.rdb.LRange(ctx, activityPrefix+userID, 0, int64(limit-1)).Result()
	if err == redis.Nil {
		return []assistant.Activity{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	out := make([]assistant.Activity, 0, len(items))
	for _, item := range items {
		var a assistant.Activity
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal activity: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Redis) PutAccount(ctx context.Context, userID string, a assistant.AccountSnapshot) error {
	err := s.rdb.HSet(ctx, accountPrefix+userID,
		fieldBalance, decimal.NewFromFloat(a.Balance).String(),
		fieldPortfolioValue, decimal.NewFromFloat(a.PortfolioValue).String(),
		fieldSavings, decimal.NewFromFloat(a.Savings).String(),
		fieldMonthlyExpenses, decimal.NewFromFloat(a.MonthlyExpenses).String(),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (s *Redis) PushActivity(ctx context.Context, userID string, a assistant.Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}
	key := activityPrefix + userID
	if err := s.rdb.LPush(ctx, key, string(data)).Err(); err != nil {
		return fmt.Errorf("failed to push activity: %w", err)
	}
	if err := s.rdb.LTrim(ctx, key, 0, maxActivities-1).Err(); err != nil {
		return fmt.Errorf("failed to trim activities: %w", err)
	}
	return nil
}
