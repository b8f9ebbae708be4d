// Package transcript holds one conversation's append-only message list.
package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"genie/models"
)

// State is the per-turn reply state.
type State int

const (
	Idle State = iota
	AwaitingReply
)

func (s State) String() string {
	if s == AwaitingReply {
		return "awaiting_reply"
	}
	return "idle"
}

// Transcript is safe for concurrent use. Messages are never edited,
// reordered or removed once appended.
type Transcript struct {
	mu       sync.Mutex
	messages []models.Message
	nextSeq  uint64
	pending  int
	now      func() time.Time
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{now: time.Now}
}

// AppendUser records a user turn and marks a reply as pending.
func (t *Transcript) AppendUser(text string) models.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := t.appendLocked(models.Message{Text: text, Sender: models.SenderUser})
	t.pending++
	return m
}

// AppendReply records the assistant reply to the user message with seq
// replyTo and clears one pending reply.
func (t *Transcript) AppendReply(text string, suggestions []string, intent string, replyTo uint64) models.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sugg []string
	if len(suggestions) > 0 {
		sugg = make([]string, len(suggestions))
		copy(sugg, suggestions)
	}
	m := t.appendLocked(models.Message{
		Text:        text,
		Sender:      models.SenderAssistant,
		Suggestions: sugg,
		Intent:      intent,
		ReplyTo:     replyTo,
	})
	if t.pending > 0 {
		t.pending--
	}
	return m
}

func (t *Transcript) appendLocked(m models.Message) models.Message {
	t.nextSeq++
	m.ID = uuid.New().String()
	m.Seq = t.nextSeq
	m.Timestamp = t.now().UTC()
	if n := len(t.messages); n > 0 && m.Timestamp.Before(t.messages[n-1].Timestamp) {
		m.Timestamp = t.messages[n-1].Timestamp
	}
	t.messages = append(t.messages, m)
	return m
}

// State reports AwaitingReply while any user turn is unanswered.
func (t *Transcript) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending > 0 {
		return AwaitingReply
	}
	return Idle
}

// Pending returns the number of unanswered user turns.
func (t *Transcript) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Messages returns a copy in display order.
func (t *Transcript) Messages() []models.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Last returns the newest message, if any.
func (t *Transcript) Last() (models.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.messages) == 0 {
		return models.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
