package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"genie/models"
	"genie/observability"
	"genie/router"
)

// Bus connects the socket to the router: inbound envelopes go onto the
// stream, outbound events come back per session.
type Bus interface {
	Enqueue(ctx context.Context, env models.MessageEnvelope) error
	Subscribe(ctx context.Context, sessionID string) (<-chan models.WSResponse, func() error, error)
}

// RedisBus appends to the inbound stream and subscribes to response:<session>.
type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

func (b *RedisBus) Enqueue(ctx context.Context, env models.MessageEnvelope) error {
	envelopeJSON, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err := b.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: router.StreamKey,
		Values: map[string]interface{}{
			"envelope": string(envelopeJSON),
		},
	}).Err(); err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, sessionID string) (<-chan models.WSResponse, func() error, error) {
	pubsub := b.rdb.Subscribe(ctx, router.ResponseChannel(sessionID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan models.WSResponse)
	go func() {
		defer close(out)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var resp models.WSResponse
				if err := json.Unmarshal([]byte(msg.Payload), &resp); err != nil {
					observability.Logger().Warn("failed to unmarshal response", "session_id", sessionID, "error", err)
					continue
				}
				select {
				case out <- resp:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, pubsub.Close, nil
}
