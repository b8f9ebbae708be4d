// Package conversation runs the per-turn flow: append the user's message,
// show a typing indicator, append the synthesized reply after a delay and
// navigate after another.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"genie/assistant"
	"genie/metrics"
	"genie/models"
	"genie/observability"
	"genie/scheduler"
	"genie/transcript"
)

var (
	ErrEmptyInput = errors.New("conversation: empty input")
	ErrClosed     = errors.New("conversation: closed")
)

const (
	DefaultTypingDelay     = 700 * time.Millisecond
	DefaultNavigationDelay = 1500 * time.Millisecond
)

// Listener receives every visible effect of a conversation. Calls are
// serialized and arrive in transcript order. A listener must not call back
// into the conversation.
type Listener interface {
	OnMessage(m models.Message)
	OnTyping()
	OnNavigate(screen assistant.Screen)
}

// Responder classifies input and builds a reply. *assistant.Engine is the
// production implementation.
type Responder interface {
	Respond(input string, ctx assistant.Context) (assistant.Reply, error)
}

type Options struct {
	TypingDelay     time.Duration
	NavigationDelay time.Duration
}

// DefaultOptions returns the stock delays.
func DefaultOptions() Options {
	return Options{
		TypingDelay:     DefaultTypingDelay,
		NavigationDelay: DefaultNavigationDelay,
	}
}

type Conversation struct {
	id         string
	responder  Responder
	listener   Listener
	transcript *transcript.Transcript
	sched      *scheduler.Scheduler
	opts       Options

	emitMu     sync.Mutex
	closed     atomic.Bool
	lastActive atomic.Int64
}

// New starts a conversation. Its deferred tasks live until Close.
func New(id string, responder Responder, listener Listener, opts Options) *Conversation {
	c := &Conversation{
		id:         id,
		responder:  responder,
		listener:   listener,
		transcript: transcript.New(),
		sched:      scheduler.New(context.Background()),
		opts:       opts,
	}
	c.touch()
	return c
}

func (c *Conversation) ID() string {
	return c.id
}

// Submit handles one user turn. Classification is synchronous; the reply is
// appended after TypingDelay and any navigation fires NavigationDelay after
// that. A later turn never cancels an earlier turn's deferred effects.
func (c *Conversation) Submit(ctx context.Context, text string, actx assistant.Context) (models.Message, error) {
	if c.closed.Load() {
		return models.Message{}, ErrClosed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, ErrEmptyInput
	}

	reply, err := c.responder.Respond(text, actx)
	if err != nil {
		return models.Message{}, fmt.Errorf("conversation %s: %w", c.id, err)
	}
	c.touch()

	log := observability.LoggerFromContext(ctx)
	log.Debug("intent matched", "intent", reply.Intent, "level", reply.Level.String(), "language", reply.Language)
	metrics.IntentMatches.WithLabelValues(string(reply.Intent)).Inc()

	// Replies are queued under the same lock as their user message so
	// concurrent submits keep reply order equal to transcript order.
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	user := c.transcript.AppendUser(text)
	c.listener.OnMessage(user)
	c.listener.OnTyping()

	if _, err := c.sched.Schedule(c.opts.TypingDelay, func(context.Context) {
		c.deliver(user, reply)
	}); err != nil {
		return user, ErrClosed
	}
	return user, nil
}

func (c *Conversation) deliver(user models.Message, reply assistant.Reply) {
	c.emitMu.Lock()
	m := c.transcript.AppendReply(reply.Body, reply.Suggestions, string(reply.Intent), user.Seq)
	c.listener.OnMessage(m)
	c.emitMu.Unlock()
	metrics.Replies.WithLabelValues(string(reply.Language)).Inc()

	if reply.NavigateTo == "" {
		return
	}
	screen := reply.NavigateTo
	if _, err := c.sched.Schedule(c.opts.NavigationDelay, func(context.Context) {
		c.emitMu.Lock()
		defer c.emitMu.Unlock()
		metrics.Navigations.WithLabelValues(string(screen)).Inc()
		c.listener.OnNavigate(screen)
	}); err != nil {
		observability.Logger().Debug("navigation dropped", "session_id", c.id, "screen", screen)
	}
}

// Messages returns the transcript in display order.
func (c *Conversation) Messages() []models.Message {
	return c.transcript.Messages()
}

// State reports whether a reply is still pending.
func (c *Conversation) State() transcript.State {
	return c.transcript.State()
}

// LastActive is the time of the last accepted submit.
func (c *Conversation) LastActive() time.Time {
	return time.Unix(0, c.lastActive.Load())
}

func (c *Conversation) touch() {
	c.lastActive.Store(time.Now().UnixNano())
}

// Close cancels every pending reply and navigation. It is idempotent and
// must not be called from a Listener callback.
func (c *Conversation) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.sched.Close()
}
