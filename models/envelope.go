package models

import "time"

// Content types carried by an envelope.
const (
	ContentText = "text"
	ContentEnd  = "end"
)

type MessageContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type MessageMetadata struct {
	Language string `json:"language"`
	Screen   string `json:"screen,omitempty"`
}

type MessageEnvelope struct {
	MessageID string          `json:"message_id"`
	SessionID string          `json:"session_id"`
	Channel   string          `json:"channel"`
	UserID    string          `json:"user_id"`
	Timestamp time.Time       `json:"timestamp"`
	Content   MessageContent  `json:"content"`
	Metadata  MessageMetadata `json:"metadata"`
}

// WSIncoming is a frame sent by the app. Selecting a quick reply sends its
// text like any other message. The user is taken from the connection, never
// from a frame.
type WSIncoming struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	Screen   string `json:"screen,omitempty"`
}

// Event types published to the client.
const (
	EventConnected = "connected"
	EventTyping    = "typing"
	EventMessage   = "message"
	EventNavigate  = "navigate"
	EventError     = "error"
)

type WSResponse struct {
	Type        string     `json:"type"`
	Text        string     `json:"text,omitempty"`
	SessionID   string     `json:"session_id,omitempty"`
	MessageID   string     `json:"message_id,omitempty"`
	Seq         uint64     `json:"seq,omitempty"`
	Sender      Sender     `json:"sender,omitempty"`
	Suggestions []string   `json:"suggestions,omitempty"`
	Screen      string     `json:"screen,omitempty"`
	Intent      string     `json:"intent,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}
