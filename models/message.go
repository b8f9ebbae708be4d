package models

import "time"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one transcript entry. It is never modified after it is appended.
type Message struct {
	ID          string    `json:"id"`
	Seq         uint64    `json:"seq"`
	Text        string    `json:"text"`
	Sender      Sender    `json:"sender"`
	Timestamp   time.Time `json:"timestamp"`
	Suggestions []string  `json:"suggestions,omitempty"`

	// Intent and ReplyTo are only set on assistant messages.
	Intent  string `json:"intent,omitempty"`
	ReplyTo uint64 `json:"reply_to,omitempty"`
}

// MessageEvent converts a transcript message into the event pushed to clients.
func MessageEvent(sessionID string, m Message) WSResponse {
	ts := m.Timestamp
	return WSResponse{
		Type:        EventMessage,
		Text:        m.Text,
		SessionID:   sessionID,
		MessageID:   m.ID,
		Seq:         m.Seq,
		Sender:      m.Sender,
		Suggestions: m.Suggestions,
		Intent:      m.Intent,
		Timestamp:   &ts,
	}
}
