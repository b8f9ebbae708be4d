package conversation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genie/assistant"
	"genie/locale"
	"genie/models"
	"genie/transcript"
)

type event struct {
	kind   string
	seq    uint64
	screen assistant.Screen
}

type fakeListener struct {
	mu     sync.Mutex
	events []event
}

func (l *fakeListener) OnMessage(m models.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event{kind: "message", seq: m.Seq})
}

func (l *fakeListener) OnTyping() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event{kind: "typing"})
}

func (l *fakeListener) OnNavigate(s assistant.Screen) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event{kind: "navigate", screen: s})
}

func (l *fakeListener) snapshot() []event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]event, len(l.events))
	copy(out, l.events)
	return out
}

func (l *fakeListener) navigations() []assistant.Screen {
	var out []assistant.Screen
	for _, e := range l.snapshot() {
		if e.kind == "navigate" {
			out = append(out, e.screen)
		}
	}
	return out
}

var fastOptions = Options{TypingDelay: 10 * time.Millisecond, NavigationDelay: 20 * time.Millisecond}

func newConversation(t *testing.T, opts Options) (*Conversation, *fakeListener) {
	t.Helper()
	f, err := locale.NewCurrencyFormatter("USD")
	require.NoError(t, err)
	engine, err := assistant.NewEngine(f)
	require.NoError(t, err)

	l := &fakeListener{}
	c := New("sess-1", engine, l, opts)
	t.Cleanup(c.Close)
	return c, l
}

func accountContext(balance, savings float64) assistant.Context {
	return assistant.Context{
		Account:  &assistant.AccountSnapshot{Balance: balance, Savings: savings},
		Language: "en",
	}
}

func TestSubmitAppendsUserMessageSynchronously(t *testing.T) {
	c, l := newConversation(t, Options{TypingDelay: time.Hour, NavigationDelay: time.Hour})

	m, err := c.Submit(context.Background(), "  what is my balance  ", accountContext(125000, 0))
	require.NoError(t, err)
	assert.Equal(t, "what is my balance", m.Text)
	assert.Equal(t, models.SenderUser, m.Sender)

	require.Len(t, c.Messages(), 1)
	assert.Equal(t, transcript.AwaitingReply, c.State())
	assert.Equal(t, []event{{kind: "message", seq: 1}, {kind: "typing"}}, l.snapshot())
}

func TestNSubmitsProduceTwoNMessages(t *testing.T) {
	c, _ := newConversation(t, fastOptions)
	const n = 5
	for i := 0; i < n; i++ {
		_, err := c.Submit(context.Background(), fmt.Sprintf("message %d", i), accountContext(1000, 500))
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool { return len(c.Messages()) == 2*n }, time.Second, 5*time.Millisecond)
	msgs := c.Messages()
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].Timestamp.Before(msgs[i-1].Timestamp))
		assert.Equal(t, msgs[i-1].Seq+1, msgs[i].Seq)
	}

	var users, replies []models.Message
	for _, m := range msgs {
		if m.Sender == models.SenderUser {
			users = append(users, m)
		} else {
			replies = append(replies, m)
		}
	}
	require.Len(t, replies, n)
	for i := range replies {
		assert.Equal(t, users[i].Seq, replies[i].ReplyTo)
	}
	require.Eventually(t, func() bool { return c.State() == transcript.Idle }, time.Second, 5*time.Millisecond)
}

func TestRapidDoubleSubmitKeepsSubmissionOrder(t *testing.T) {
	c, _ := newConversation(t, fastOptions)

	_, err := c.Submit(context.Background(), "what is my balance", accountContext(100000, 30000))
	require.NoError(t, err)
	_, err = c.Submit(context.Background(), "should i invest", accountContext(100000, 30000))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(c.Messages()) == 4 }, time.Second, 5*time.Millisecond)
	msgs := c.Messages()
	assert.Equal(t, models.SenderUser, msgs[0].Sender)
	assert.Equal(t, models.SenderUser, msgs[1].Sender)
	assert.Equal(t, string(assistant.IntentBalance), msgs[2].Intent)
	assert.Equal(t, string(assistant.IntentShouldInvest), msgs[3].Intent)
	assert.Equal(t, msgs[0].Seq, msgs[2].ReplyTo)
	assert.Equal(t, msgs[1].Seq, msgs[3].ReplyTo)
}

func TestNavigationFiresAfterReply(t *testing.T) {
	c, l := newConversation(t, fastOptions)

	_, err := c.Submit(context.Background(), "what is my balance", accountContext(125000, 0))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(l.navigations()) == 1 }, time.Second, 5*time.Millisecond)
	events := l.snapshot()
	require.Len(t, events, 4)
	assert.Equal(t, event{kind: "message", seq: 2}, events[2])
	assert.Equal(t, event{kind: "navigate", screen: assistant.ScreenWallet}, events[3])

	reply := c.Messages()[1]
	assert.Contains(t, reply.Text, "$125,000")
	assert.NotEmpty(t, reply.Suggestions)
}

func TestBelowThresholdNeverNavigatesToInvest(t *testing.T) {
	c, l := newConversation(t, fastOptions)

	_, err := c.Submit(context.Background(), "should i invest", accountContext(100000, 10000))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(l.navigations()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []assistant.Screen{assistant.ScreenSavings}, l.navigations())
}

func TestNewTurnDoesNotCancelEarlierNavigation(t *testing.T) {
	c, l := newConversation(t, Options{TypingDelay: 5 * time.Millisecond, NavigationDelay: 40 * time.Millisecond})

	_, err := c.Submit(context.Background(), "what is my balance", accountContext(1000, 500))
	require.NoError(t, err)
	_, err = c.Submit(context.Background(), "show my portfolio", accountContext(1000, 500))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(l.navigations()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []assistant.Screen{assistant.ScreenWallet, assistant.ScreenPortfolio}, l.navigations())
}

func TestSubmitRejectsEmptyInput(t *testing.T) {
	c, l := newConversation(t, fastOptions)
	_, err := c.Submit(context.Background(), "   ", accountContext(1, 1))
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, c.Messages())
	assert.Empty(t, l.snapshot())
}

func TestSubmitRejectsInvalidContext(t *testing.T) {
	c, _ := newConversation(t, fastOptions)
	_, err := c.Submit(context.Background(), "what is my balance", assistant.Context{})
	assert.ErrorIs(t, err, assistant.ErrMissingAccount)
	assert.Empty(t, c.Messages())
}

func TestCloseCancelsPendingReplies(t *testing.T) {
	c, l := newConversation(t, Options{TypingDelay: time.Hour, NavigationDelay: time.Hour})

	_, err := c.Submit(context.Background(), "hello", accountContext(1, 1))
	require.NoError(t, err)
	c.Close()
	c.Close()

	assert.Len(t, c.Messages(), 1)
	assert.Len(t, l.snapshot(), 2)

	_, err = c.Submit(context.Background(), "hello", accountContext(1, 1))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestLastActiveAdvancesOnSubmit(t *testing.T) {
	c, _ := newConversation(t, fastOptions)
	before := c.LastActive()
	time.Sleep(2 * time.Millisecond)
	_, err := c.Submit(context.Background(), "hello", accountContext(1, 1))
	require.NoError(t, err)
	assert.True(t, c.LastActive().After(before))
	assert.Equal(t, "sess-1", c.ID())
}

func TestConcurrentSubmitsReplyInTranscriptOrder(t *testing.T) {
	c, _ := newConversation(t, Options{TypingDelay: 5 * time.Millisecond, NavigationDelay: time.Hour})
	const n = 32

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Submit(context.Background(), fmt.Sprintf("hello %d", i), accountContext(1000, 500))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Eventually(t, func() bool { return len(c.Messages()) == 2*n }, 2*time.Second, 5*time.Millisecond)
	var lastReplyTo uint64
	for _, m := range c.Messages() {
		if m.Sender != models.SenderAssistant {
			continue
		}
		assert.Greater(t, m.ReplyTo, lastReplyTo, "reply to %d arrived after reply to %d", m.ReplyTo, lastReplyTo)
		lastReplyTo = m.ReplyTo
	}
}
