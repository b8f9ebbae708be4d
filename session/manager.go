package session

import (
	"context"
	"sync"
	"time"

	"genie/conversation"
	"genie/metrics"
	"genie/observability"
)

const (
	DefaultIdleTTL = 30 * time.Minute
	sweepInterval  = time.Minute
)

// Factory builds the conversation for a new session id.
type Factory func(sessionID string) *conversation.Conversation

// Manager owns one conversation per session. Conversations are never
// persisted: removing or evicting a session discards its transcript.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*conversation.Conversation
	factory  Factory
	idleTTL  time.Duration
}

func NewManager(factory Factory, idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Manager{
		sessions: make(map[string]*conversation.Conversation),
		factory:  factory,
		idleTTL:  idleTTL,
	}
}

// Get returns the live conversation for id.
func (m *Manager) Get(sessionID string) (*conversation.Conversation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.sessions[sessionID]
	return c, ok
}

// GetOrCreate returns the conversation for id, starting one if needed.
func (m *Manager) GetOrCreate(sessionID string) *conversation.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.sessions[sessionID]; ok {
		return c
	}
	c := m.factory(sessionID)
	m.sessions[sessionID] = c
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	observability.Logger().Info("session started", "session_id", sessionID)
	return c
}

// Remove closes and forgets a session. It reports whether one existed.
func (m *Manager) Remove(sessionID string) bool {
	m.mu.Lock()
	c, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	if ok {
		c.Close()
		observability.Logger().Info("session ended", "session_id", sessionID)
	}
	return ok
}

// EvictIdle closes every session whose last submit is older than the idle TTL
// at now, returning how many were evicted.
func (m *Manager) EvictIdle(now time.Time) int {
	var stale []*conversation.Conversation
	m.mu.Lock()
	for id, c := range m.sessions {
		if now.Sub(c.LastActive()) > m.idleTTL {
			stale = append(stale, c)
			delete(m.sessions, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	for _, c := range stale {
		c.Close()
		observability.Logger().Info("session evicted", "session_id", c.ID())
	}
	return len(stale)
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	interval := sweepInterval
	if m.idleTTL < interval {
		interval = m.idleTTL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.EvictIdle(now)
		}
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close ends every session.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*conversation.Conversation)
	metrics.ActiveSessions.Set(0)
	m.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
}
