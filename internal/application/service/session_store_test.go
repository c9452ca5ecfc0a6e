package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitpai/travel-desk/internal/application/port"
)

func TestSessionStore_GetOrCreate(t *testing.T) {
	store := NewSessionStore(time.Hour, "You are the HR travel desk assistant.")

	first := store.GetOrCreate("")
	require.NotNil(t, first)
	require.NotEmpty(t, first.ID)
	require.Len(t, first.History, 1)
	assert.Equal(t, port.RoleSystem, first.History[0].Role)

	// Same id returns the same session.
	again := store.GetOrCreate(first.ID)
	assert.Same(t, first, again)
	assert.Equal(t, 1, store.Count())

	// Unknown id creates a fresh session rather than failing.
	fresh := store.GetOrCreate("no-such-session")
	assert.NotEqual(t, first.ID, fresh.ID)
	assert.Equal(t, 2, store.Count())
}

func TestSessionStore_HistoryIsolation(t *testing.T) {
	store := NewSessionStore(time.Hour, "")

	a := store.GetOrCreate("")
	b := store.GetOrCreate("")
	require.NotEqual(t, a.ID, b.ID)

	a.History = append(a.History, port.ChatMessage{Role: port.RoleUser, Content: "book my flight"})
	assert.Len(t, store.Get(a.ID).History, 1)
	assert.Empty(t, store.Get(b.ID).History)
}

func TestSessionStore_Sweep(t *testing.T) {
	store := NewSessionStore(time.Hour, "")
	current := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	stale := store.GetOrCreate("")
	current = current.Add(30 * time.Minute)
	live := store.GetOrCreate("")

	// Neither has crossed the timeout yet.
	current = current.Add(29 * time.Minute)
	assert.Equal(t, 0, store.Sweep())

	// Only the first session is past one hour idle.
	current = current.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Nil(t, store.Get(stale.ID))
	assert.NotNil(t, store.Get(live.ID))
}

func TestSessionStore_ActivityBumpDefersExpiry(t *testing.T) {
	store := NewSessionStore(time.Hour, "")
	current := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	session := store.GetOrCreate("")

	current = current.Add(59 * time.Minute)
	store.GetOrCreate(session.ID)

	current = current.Add(59 * time.Minute)
	assert.Equal(t, 0, store.Sweep())
	assert.NotNil(t, store.Get(session.ID))
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(time.Hour, "")
	session := store.GetOrCreate("")

	assert.True(t, store.Delete(session.ID))
	assert.False(t, store.Delete(session.ID))
	assert.Nil(t, store.Get(session.ID))
}

func TestSession_HistorySnapshot(t *testing.T) {
	store := NewSessionStore(time.Hour, "You are the HR travel desk assistant.")
	session := store.GetOrCreate("")

	// A turn in flight appends to History; the snapshot must wait for the
	// turn to finish and then return an independent copy.
	require.NoError(t, session.BeginTurn())
	session.History = append(session.History, port.ChatMessage{Role: port.RoleUser, Content: "book my flight"})

	done := make(chan []port.ChatMessage)
	go func() { done <- session.HistorySnapshot() }()

	select {
	case <-done:
		t.Fatal("snapshot returned while a turn held the session")
	case <-time.After(20 * time.Millisecond):
	}

	session.History = append(session.History, port.ChatMessage{Role: port.RoleAssistant, Content: "Booked."})
	session.EndTurn()

	snapshot := <-done
	require.Len(t, snapshot, 3)
	assert.Equal(t, port.RoleSystem, snapshot[0].Role)

	// Later appends do not show through the copy.
	require.NoError(t, session.BeginTurn())
	session.History = append(session.History, port.ChatMessage{Role: port.RoleUser, Content: "now a hotel"})
	session.EndTurn()
	assert.Len(t, snapshot, 3)
}

func TestSession_BeginTurnRejectsConcurrent(t *testing.T) {
	session := &Session{ID: "s1"}

	require.NoError(t, session.BeginTurn())
	assert.ErrorIs(t, session.BeginTurn(), ErrSessionBusy)

	session.EndTurn()
	assert.NoError(t, session.BeginTurn())
	session.EndTurn()
}
