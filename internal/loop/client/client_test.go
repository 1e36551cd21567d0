package client

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/archers/internal/game"
	"github.com/tomz197/archers/internal/input"
	"github.com/tomz197/archers/internal/level"
	"github.com/tomz197/archers/internal/loop/config"
	"github.com/tomz197/archers/internal/loop/server"
	"github.com/tomz197/archers/internal/object"
	"github.com/tomz197/archers/internal/physics"
	"github.com/tomz197/archers/internal/rank"
)

// recordingServer is a real server that also remembers every command.
type recordingServer struct {
	*server.Server
	mu       sync.Mutex
	commands []server.Command
}

func (r *recordingServer) SendCommand(id int, cmd server.Command) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()
	r.Server.SendCommand(id, cmd)
}

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(t *testing.T, keys string) (*Client, *recordingServer, *bytes.Buffer) {
	t.Helper()
	gs := &recordingServer{Server: server.NewServer(server.WithSeed(3))}
	var out bytes.Buffer
	c := NewClient(gs, bufio.NewReader(strings.NewReader(keys)), &out, ClientOptions{
		TermSizeFunc: fixedSize(120, 40),
		Username:     "tester",
		Renderer:     lipgloss.NewRenderer(&out),
	})
	return c, gs, &out
}

func TestCommandFor(t *testing.T) {
	cases := []struct {
		name  string
		keys  string
		state game.State
		want  server.Command
	}{
		{"enter starts", "\r", game.StateStart, server.Command{Confirm: true}},
		{"space starts", " ", game.StateStart, server.Command{Confirm: true}},
		{"aim ignored on menus", "aa", game.StateLevelWin, server.Command{}},
		{"space draws while playing", " ", game.StatePlaying, server.Command{ToggleCharge: true}},
		{"enter ignored while playing", "\r", game.StatePlaying, server.Command{}},
		{"aim up", "\x1b[D\x1b[D", game.StatePlaying, server.Command{Aim: -2 * config.AimStep}},
		{"aim down", "d", game.StatePlaying, server.Command{Aim: config.AimStep}},
		{"retry", "\n", game.StateGameOver, server.Command{Confirm: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, commandFor(input.Parse([]byte(tc.keys)), tc.state))
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "0:30", formatTime(30))
	assert.Equal(t, "5:00", formatTime(300))
	assert.Equal(t, "1:05", formatTime(65))
	assert.Equal(t, "0:00", formatTime(-3))
	assert.Equal(t, "∞", formatTime(level.Unlimited))
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(100, 30)
	assert.Equal(t, []int{100, 30, 0, 0}, []int{w, h, col, row})

	w, h, col, row = clampTermSize(config.MaxTermWidth+20, config.MaxTermHeight+10)
	assert.Equal(t, []int{config.MaxTermWidth, config.MaxTermHeight, 10, 5}, []int{w, h, col, row})
}

func TestStartScreenRenders(t *testing.T) {
	c, _, out := newTestClient(t, "")
	require.NoError(t, c.drawFrame())

	s := out.String()
	assert.Contains(t, s, "A turn-based archery duel over SSH")
	assert.Contains(t, s, "Controls")
	assert.Contains(t, s, "Playing as tester")
}

func TestStartScreenShowsLeaderboard(t *testing.T) {
	store := rank.NewMemoryStore()
	require.NoError(t, store.Record(context.Background(), "robin", 42, false))

	s := server.NewServer(server.WithStore(store))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	require.Eventually(t, func() bool { return len(s.TopScores()) == 1 }, time.Second, 5*time.Millisecond)

	var out bytes.Buffer
	c := NewClient(s, bufio.NewReader(strings.NewReader("")), &out, ClientOptions{
		TermSizeFunc: fixedSize(140, 40),
		Username:     "robin",
		Renderer:     lipgloss.NewRenderer(&out),
	})
	require.NoError(t, c.drawFrame())
	assert.Contains(t, out.String(), "Hall of Honor")
	assert.Contains(t, out.String(), "robin")
	assert.Contains(t, out.String(), level.HonorFor(42, false).Title)
}

func TestTooSmallTerminal(t *testing.T) {
	c, _, out := newTestClient(t, "")
	c.termSizeFunc = fixedSize(40, 10)
	c.updateScreen()
	require.NoError(t, c.drawFrame())
	assert.Contains(t, out.String(), "Terminal too small")
}

func TestInputBecomesCommands(t *testing.T) {
	c, gs, _ := newTestClient(t, "\r")
	require.Eventually(t, func() bool {
		c.processInput()
		gs.mu.Lock()
		defer gs.mu.Unlock()
		return len(gs.commands) > 0
	}, time.Second, 5*time.Millisecond)

	gs.mu.Lock()
	defer gs.mu.Unlock()
	assert.Equal(t, server.Command{Confirm: true}, gs.commands[0])
}

func TestHitEventSpawnsEffects(t *testing.T) {
	c, _, _ := newTestClient(t, "")
	c.handleEvent(server.ClientEvent{Type: server.EventHit, Target: object.SideAI, Damage: 42})

	assert.Len(t, c.state.particles, config.HitParticles)
	require.Len(t, c.state.popups, 1)
	assert.Equal(t, "-42", c.state.popups[0].text)
	assert.Equal(t, object.SideAI, c.state.popups[0].target)

	c.state.updateEffects(popupSeconds + config.HitLifetime*2)
	assert.Empty(t, c.state.particles)
	assert.Empty(t, c.state.popups)
}

func TestBounceEventSpawnsBurst(t *testing.T) {
	c, _, _ := newTestClient(t, "")
	c.handleEvent(server.ClientEvent{Type: server.EventBounce, Pos: physics.V(600, 580)})
	assert.Len(t, c.state.particles, config.BounceParticles)
	for _, p := range c.state.particles {
		assert.Equal(t, physics.V(600, 580), p.Pos)
	}
}

func TestParticlesAreCapped(t *testing.T) {
	c, _, _ := newTestClient(t, "")
	for range config.MaxParticles/config.HitParticles + 2 {
		c.handleEvent(server.ClientEvent{Type: server.EventHit, Target: object.SidePlayer, Damage: 1})
	}
	assert.Len(t, c.state.particles, config.MaxParticles)
}

func TestShutdownEventCountsDown(t *testing.T) {
	c, _, out := newTestClient(t, "")
	c.handleEvent(server.ClientEvent{Type: server.EventServerShutdown})
	require.True(t, c.state.shuttingDown)

	require.NoError(t, c.drawFrame())
	assert.Contains(t, out.String(), "SERVER SHUTTING DOWN")

	c.state.delta = time.Duration(config.ShutdownDisplaySeconds+1) * time.Second
	c.update()
	assert.False(t, c.state.Running)
}

func TestLastShotText(t *testing.T) {
	snap := game.Snapshot{LastShooter: object.SidePlayer, LastImpact: object.Impact{Kind: object.ImpactHit, Target: object.SideAI, Damage: 31}}
	assert.Equal(t, "Your arrow hit for 31", lastShotText(snap))

	snap = game.Snapshot{LastShooter: object.SideAI, LastImpact: object.Impact{Kind: object.ImpactOutOfBounds}}
	assert.Equal(t, "AI arrow flew off the field", lastShotText(snap))

	assert.Empty(t, lastShotText(game.Snapshot{}))
}

func TestRunQuits(t *testing.T) {
	c, _, _ := newTestClient(t, "q")
	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not quit")
	}
}
