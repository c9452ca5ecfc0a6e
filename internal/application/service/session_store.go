package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/rohitpai/travel-desk/internal/application/port"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
)

// ErrSessionBusy is returned when a second turn arrives for a session whose
// previous turn is still in flight. Turns within one session never
// interleave.
var ErrSessionBusy = errors.New("a previous message for this session is still being processed")

// Session holds one conversation's state. The bound indent is a cached
// snapshot, never authoritative.
type Session struct {
	ID           string
	History      []port.ChatMessage
	Indent       *entity.TravelIndent
	CreatedAt    time.Time
	LastActivity time.Time

	turn sync.Mutex
}

// BeginTurn claims the session for a single orchestration turn. Returns
// ErrSessionBusy when another turn holds the claim.
func (s *Session) BeginTurn() error {
	if !s.turn.TryLock() {
		return ErrSessionBusy
	}
	return nil
}

// EndTurn releases the turn claim
func (s *Session) EndTurn() {
	s.turn.Unlock()
}

// HistorySnapshot copies the transcript under the turn lock, so readers
// never observe a turn's appends mid-flight.
func (s *Session) HistorySnapshot() []port.ChatMessage {
	s.turn.Lock()
	defer s.turn.Unlock()
	out := make([]port.ChatMessage, len(s.History))
	copy(out, s.History)
	return out
}

// SessionStore is a keyed, time-expiring store of conversation state.
// Expired sessions purge lazily on the next Sweep, there is no background
// timer.
type SessionStore struct {
	mu           sync.Mutex
	sessions     map[string]*Session
	timeout      time.Duration
	systemPrompt string
	now          func() time.Time
}

// NewSessionStore creates a session store with the given inactivity timeout.
// New sessions start with the system prompt as their first history entry.
func NewSessionStore(timeout time.Duration, systemPrompt string) *SessionStore {
	return &SessionStore{
		sessions:     make(map[string]*Session),
		timeout:      timeout,
		systemPrompt: systemPrompt,
		now:          time.Now,
	}
}

// GetOrCreate returns the existing session and bumps its activity, or
// creates a fresh one when the id is empty or unknown.
func (st *SessionStore) GetOrCreate(sessionID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if sessionID != "" {
		if session, ok := st.sessions[sessionID]; ok {
			session.LastActivity = st.now()
			return session
		}
	}

	now := st.now()
	session := &Session{
		ID:           newSessionID(),
		CreatedAt:    now,
		LastActivity: now,
	}
	if st.systemPrompt != "" {
		session.History = append(session.History, port.ChatMessage{
			Role:    port.RoleSystem,
			Content: st.systemPrompt,
		})
	}
	st.sessions[session.ID] = session
	return session
}

// Get returns the session or nil
func (st *SessionStore) Get(sessionID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[sessionID]
}

// Delete removes the session, reporting whether it existed
func (st *SessionStore) Delete(sessionID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[sessionID]; !ok {
		return false
	}
	delete(st.sessions, sessionID)
	return true
}

// Sweep purges sessions idle past the timeout and returns how many were
// removed
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.now().Add(-st.timeout)
	removed := 0
	for id, session := range st.sessions {
		if session.LastActivity.Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions
func (st *SessionStore) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func newSessionID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
