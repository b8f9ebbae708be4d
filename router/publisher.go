package router

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"genie/assistant"
	"genie/models"
	"genie/observability"
)

const (
	responsePrefix = "response:"
	publishTimeout = 5 * time.Second
)

// Events delivers client events for a session.
type Events interface {
	Publish(ctx context.Context, sessionID string, resp models.WSResponse) error
}

// RedisEvents publishes JSON events on response:<session_id>.
type RedisEvents struct {
	rdb redis.Cmdable
}

func NewRedisEvents(rdb redis.Cmdable) *RedisEvents {
	return &RedisEvents{rdb: rdb}
}

// ResponseChannel is the pub/sub channel for a session's events.
func ResponseChannel(sessionID string) string {
	return fmt.Sprintf("%s%s", responsePrefix, sessionID)
}

func (e *RedisEvents) Publish(ctx context.Context, sessionID string, resp models.WSResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	if err := e.rdb.Publish(ctx, ResponseChannel(sessionID), string(data)).Err(); err != nil {
		return fmt.Errorf("failed to publish response: %w", err)
	}
	return nil
}

// SessionListener forwards a conversation's effects to its session channel.
type SessionListener struct {
	events    Events
	sessionID string
}

func NewSessionListener(events Events, sessionID string) *SessionListener {
	return &SessionListener{events: events, sessionID: sessionID}
}

func (l *SessionListener) OnMessage(m models.Message) {
	l.publish(models.MessageEvent(l.sessionID, m))
}

func (l *SessionListener) OnTyping() {
	l.publish(models.WSResponse{Type: models.EventTyping, SessionID: l.sessionID})
}

func (l *SessionListener) OnNavigate(screen assistant.Screen) {
	l.publish(models.WSResponse{Type: models.EventNavigate, SessionID: l.sessionID, Screen: string(screen)})
}

func (l *SessionListener) publish(resp models.WSResponse) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := l.events.Publish(ctx, l.sessionID, resp); err != nil {
		observability.Logger().Error("publish failed", "session_id", l.sessionID, "type", resp.Type, "error", err)
	}
}
