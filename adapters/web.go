package adapters

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"genie/models"
)

const (
	ChannelWeb    = "web"
	AnonymousUser = "anonymous"
)

// NormalizeWebMessage converts a WebSocket frame into a MessageEnvelope.
// userID is fixed when the connection opens; frames cannot change it.
func NormalizeWebMessage(sessionID, userID string, in models.WSIncoming) models.MessageEnvelope {
	if userID == "" {
		userID = AnonymousUser
	}
	return models.MessageEnvelope{
		MessageID: uuid.New().String(),
		SessionID: sessionID,
		Channel:   ChannelWeb,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Content: models.MessageContent{
			Type: models.ContentText,
			Text: strings.TrimSpace(in.Text),
		},
		Metadata: models.MessageMetadata{
			Language: strings.TrimSpace(in.Language),
			Screen:   strings.TrimSpace(in.Screen),
		},
	}
}

// EndOfSession is appended when the socket closes so the conversation is
// torn down.
func EndOfSession(sessionID, userID string) models.MessageEnvelope {
	if userID == "" {
		userID = AnonymousUser
	}
	return models.MessageEnvelope{
		MessageID: uuid.New().String(),
		SessionID: sessionID,
		Channel:   ChannelWeb,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Content:   models.MessageContent{Type: models.ContentEnd},
	}
}
