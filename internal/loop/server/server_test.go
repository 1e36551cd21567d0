package server

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tomz197/archers/internal/game"
	"github.com/tomz197/archers/internal/level"
	"github.com/tomz197/archers/internal/object"
	"github.com/tomz197/archers/internal/rank"
	"github.com/tomz197/archers/internal/rank/mocks"
)

func flatLevels(n int) []level.Level {
	levels := make([]level.Level, n)
	for i := range levels {
		levels[i] = level.Level{ID: i + 1, AIVariance: 10, PlayerY: 300, AIY: 300}
	}
	return levels
}

func noObstacles(level.Level, *rand.Rand) []object.Obstacle { return nil }

func newTestServer(opts ...Option) *Server {
	base := []Option{
		WithSeed(7),
		WithGameOptions(game.WithLevels(flatLevels(3)), game.WithField(noObstacles)),
	}
	return NewServer(append(base, opts...)...)
}

// drainEvents returns the events queued for h without blocking.
func drainEvents(h *ClientHandle) []ClientEvent {
	var events []ClientEvent
	for {
		select {
		case ev := <-h.EventsCh:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestRegisterPublishesSnapshot(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("alice")

	assert.Equal(t, game.StateStart, h.Snapshot().State)
	assert.NotEmpty(t, h.SessionID)
	assert.Equal(t, 1, s.Players())

	other := s.RegisterClient("bob")
	assert.NotEqual(t, h.ID, other.ID)
	assert.NotEqual(t, h.SessionID, other.SessionID)
}

func TestConfirmStartsAndAimMoves(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("alice")
	s.tick(0)

	s.SendCommand(h.ID, Command{Confirm: true})
	s.tick(0)
	require.Equal(t, game.StatePlaying, h.Snapshot().State)

	s.SendCommand(h.ID, Command{Aim: -5})
	s.tick(0)
	assert.InDelta(t, game.StartAim-5, h.Snapshot().Aim, 1e-9)

	events := drainEvents(h)
	require.Len(t, events, 1)
	assert.Equal(t, ClientEvent{Type: EventStateChange, From: game.StateStart, To: game.StatePlaying}, events[0])
}

func TestChargeAndReleaseSendsShot(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("alice")
	s.tick(0)
	s.SendCommand(h.ID, Command{Confirm: true})
	s.tick(0)

	s.SendCommand(h.ID, Command{ToggleCharge: true})
	s.tick(0)
	assert.True(t, h.Snapshot().Charging)

	s.SendCommand(h.ID, Command{ToggleCharge: true})
	s.tick(0)
	snap := h.Snapshot()
	assert.Equal(t, game.TurnAnimating, snap.Turn)
	assert.True(t, snap.Arrow.Active)

	var shot bool
	for _, ev := range drainEvents(h) {
		shot = shot || ev.Type == EventShot
	}
	assert.True(t, shot)
}

func TestTimeoutRecordsResult(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("alice")
	s.tick(0)
	s.SendCommand(h.ID, Command{Confirm: true})
	s.tick(0)

	for range level.TimeLimit(1) {
		s.tick(time.Second)
	}
	require.Equal(t, game.StateGameOver, h.Snapshot().State)

	events := drainEvents(h)
	require.NotEmpty(t, events)
	assert.Equal(t, ClientEvent{Type: EventStateChange, From: game.StatePlaying, To: game.StateGameOver}, events[len(events)-1])

	select {
	case r := <-s.recordCh:
		assert.Equal(t, record{username: "alice", level: 1}, r)
	default:
		t.Fatal("no leaderboard record queued")
	}
}

func TestRecordLoopUpdatesTopScores(t *testing.T) {
	s := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.recordLoop(ctx)

	s.enqueueRecord(record{username: "alice", level: 12})
	s.enqueueRecord(record{username: "bob", level: 100, won: true})

	require.Eventually(t, func() bool { return len(s.TopScores()) == 2 }, time.Second, 5*time.Millisecond)
	top := s.TopScores()
	assert.Equal(t, rank.Entry{Rank: 1, Username: "bob", Level: 100, Won: true}, top[0])
	assert.Equal(t, "alice", top[1].Username)
}

func TestRecordFailureIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	called := make(chan struct{})
	store.EXPECT().Top(gomock.Any(), 10).Return(nil, nil).Times(1)
	store.EXPECT().Record(gomock.Any(), "carol", 3, false).DoAndReturn(
		func(context.Context, string, int, bool) error {
			close(called)
			return errors.New("connection refused")
		})

	s := newTestServer(WithStore(store))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.recordLoop(ctx)

	s.enqueueRecord(record{username: "carol", level: 3})
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("store was never called")
	}
	assert.Empty(t, s.TopScores())
}

func TestUnregisterClosesEvents(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("alice")
	s.tick(0)

	s.UnregisterClient(h.ID)
	s.tick(0)

	_, ok := <-h.EventsCh
	assert.False(t, ok)
	assert.Zero(t, s.Players())

	s.SendCommand(h.ID, Command{Confirm: true})
	s.tick(0)
}

func TestRegisterAndUnregisterInSameTick(t *testing.T) {
	for range 200 {
		s := newTestServer()
		h := s.RegisterClient("alice")
		s.UnregisterClient(h.ID)
		s.tick(0)
		s.tick(0)

		require.Empty(t, s.clients)
		require.Zero(t, s.Players())
		_, ok := <-h.EventsCh
		require.False(t, ok)
	}
}

func TestLateSessionsDoNotBlockAfterStop(t *testing.T) {
	s := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 2 * cap(s.registerCh) {
			h := s.RegisterClient("late")
			_, ok := <-h.EventsCh
			assert.False(t, ok)
			s.UnregisterClient(h.ID)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("registering after the server stopped blocked")
	}
	assert.Zero(t, s.Players())
}

func TestStopClosesQueuedSessions(t *testing.T) {
	s := newTestServer()
	registered := s.RegisterClient("registered")
	s.tick(0)
	queued := s.RegisterClient("queued")
	s.stop()

	for _, h := range []*ClientHandle{registered, queued} {
		for range h.EventsCh {
		}
	}
	assert.Empty(t, s.clients)
	assert.Zero(t, s.Players())
}

func TestSendCommandNeverBlocks(t *testing.T) {
	s := newTestServer()
	for range 2 * cap(s.commandCh) {
		s.SendCommand(1, Command{Aim: 1})
	}
	assert.Len(t, s.commandCh, cap(s.commandCh))

	s = newTestServer()
	s.SendCommand(1, Command{})
	assert.Empty(t, s.commandCh, "empty commands are not queued")
}

func TestShutdownWaitsForClients(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("alice")
	s.tick(0)

	done := make(chan struct{})
	go func() {
		s.Shutdown(5 * time.Second)
		close(done)
	}()

	select {
	case ev := <-h.EventsCh:
		assert.Equal(t, EventServerShutdown, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("no shutdown event")
	}

	s.UnregisterClient(h.ID)
	s.tick(0)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return after the last client left")
	}
}

func TestSeededSessionsMatch(t *testing.T) {
	a := NewServer(WithSeed(99)).RegisterClient("x")
	b := NewServer(WithSeed(99)).RegisterClient("x")
	assert.Equal(t, a.Snapshot().Level, b.Snapshot().Level)
	assert.Equal(t, a.Snapshot().Obstacles, b.Snapshot().Obstacles)
}

func TestSanitizeUsername(t *testing.T) {
	cases := map[string]string{
		"alice":                     "alice",
		"  bob  ":                   "bob",
		"":                          defaultUsername,
		"\x1b[31mred":               "[31mred",
		"a-very-long-username-here": "a-very-long-user",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeUsername(in), "input %q", in)
	}
}
