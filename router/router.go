package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"genie/assistant"
	"genie/conversation"
	"genie/locale"
	"genie/models"
	"genie/observability"
	"genie/session"
	"genie/store"
)

const (
	StreamKey     = "msg:inbound"
	consumerGroup = "genie-group"
	consumerName  = "genie-1"
)

// Collaborators is what the router reads a turn's context from.
type Collaborators interface {
	store.AccountStore
	store.ActivityLedger
}

type Router struct {
	rdb           *redis.Client
	events        Events
	sessions      *session.Manager
	collab        Collaborators
	activityLimit int
}

func New(rdb *redis.Client, events Events, sessions *session.Manager, collab Collaborators, activityLimit int) *Router {
	if activityLimit <= 0 {
		activityLimit = store.DefaultActivityLimit
	}
	return &Router{
		rdb:           rdb,
		events:        events,
		sessions:      sessions,
		collab:        collab,
		activityLimit: activityLimit,
	}
}

func (r *Router) EnsureConsumerGroup(ctx context.Context) error {
	err := r.rdb.XGroupCreateMkStream(ctx, StreamKey, consumerGroup, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

func (r *Router) ConsumeLoop(ctx context.Context) {
	log := observability.WithFields("stream", StreamKey, "group", consumerGroup)
	log.Info("starting consumer loop")
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		streams, err := r.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    consumerGroup,
			Consumer: consumerName,
			Streams:  []string{StreamKey, ">"},
			Count:    1,
			Block:    5 * time.Second,
		}).Result()

		if err == redis.Nil || err != nil && ctx.Err() != nil {
			continue
		}
		if err != nil {
			log.Error("error reading stream", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				r.handleMessage(ctx, msg)
			}
		}
	}
}

func (r *Router) handleMessage(ctx context.Context, msg redis.XMessage) {
	defer r.rdb.XAck(ctx, StreamKey, consumerGroup, msg.ID)

	envelopeJSON, ok := msg.Values["envelope"].(string)
	if !ok {
		observability.Logger().Warn("invalid message format, missing envelope field", "id", msg.ID)
		return
	}

	var envelope models.MessageEnvelope
	if err := json.Unmarshal([]byte(envelopeJSON), &envelope); err != nil {
		observability.Logger().Warn("failed to unmarshal envelope", "id", msg.ID, "error", err)
		return
	}
	r.HandleEnvelope(ctx, envelope)
}

// HandleEnvelope routes one normalized inbound message: an end envelope tears
// the session down, a text envelope becomes a conversation turn.
func (r *Router) HandleEnvelope(ctx context.Context, envelope models.MessageEnvelope) {
	sessionID := envelope.SessionID
	ctx = observability.WithSession(ctx, sessionID)
	log := observability.LoggerFromContext(ctx)

	if envelope.Content.Type == models.ContentEnd {
		r.sessions.Remove(sessionID)
		return
	}
	log.Info("processing message", "message_id", envelope.MessageID, "channel", envelope.Channel)

	actx, err := store.LoadContext(ctx, r.collab, envelope.UserID, r.activityLimit)
	if err != nil {
		log.Error("failed to load context", "user_id", envelope.UserID, "error", err)
		r.publishError(ctx, sessionID, envelope.Metadata.Language, err)
		return
	}
	actx.Language = envelope.Metadata.Language
	if s := assistant.Screen(envelope.Metadata.Screen); s.Valid() {
		actx.Screen = s
	} else if s != "" {
		log.Warn("ignoring unknown screen", "screen", s)
	}

	conv := r.sessions.GetOrCreate(sessionID)
	if _, err := conv.Submit(ctx, envelope.Content.Text, actx); err != nil {
		if errors.Is(err, conversation.ErrEmptyInput) {
			return
		}
		log.Error("submit failed", "error", err)
		r.publishError(ctx, sessionID, envelope.Metadata.Language, err)
	}
}

func (r *Router) publishError(ctx context.Context, sessionID, lang string, cause error) {
	resp := models.WSResponse{
		Type:      models.EventError,
		SessionID: sessionID,
		Text:      errorText(locale.Resolve(lang), cause),
	}
	if err := r.events.Publish(ctx, sessionID, resp); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to publish error", "error", err)
	}
}

func errorText(lang locale.Tag, cause error) string {
	notFound := errors.Is(cause, store.ErrAccountNotFound)
	if lang == locale.French {
		if notFound {
			return "Je ne trouve pas votre compte. Reconnectez-vous puis réessayez."
		}
		return "Désolé, je n'arrive pas à répondre pour le moment. Veuillez réessayer."
	}
	if notFound {
		return "I couldn't find your account. Please sign in again and retry."
	}
	return "Sorry, I'm having trouble responding right now. Please try again."
}
