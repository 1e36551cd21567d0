// Package server hosts one archer duel per connected client and advances all
// of them on a single fixed-rate tick.
package server

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/archers/internal/game"
	"github.com/tomz197/archers/internal/loop/config"
	"github.com/tomz197/archers/internal/rank"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples the Client from the concrete Server implementation, enabling
// testing and potential network-based server implementations.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SendCommand(clientID int, cmd Command)
	TopScores() []rank.Entry
	Players() int
}

// maxTickDelta caps the game time advanced by one tick after a stall, so a
// slow frame cannot skip a whole AI turn.
const maxTickDelta = 4 * config.ServerTickTime

// Server owns every running duel and processes inputs from all clients.
type Server struct {
	clients      map[int]*ClientHandle
	nextClientID int
	commandCh    chan ClientCommand
	registerCh   chan *ClientHandle
	unregisterCh chan int
	done         chan struct{}
	stopOnce     sync.Once
	mu           sync.RWMutex
	players      atomic.Int32

	store    rank.Store
	recordCh chan record
	top      atomic.Pointer[[]rank.Entry]
	topSize  int

	logger   *log.Logger
	seed     int64
	gameOpts []game.Option
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the process logger. Sessions log through children of it.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets where level results are recorded.
func WithStore(st rank.Store) Option {
	return func(s *Server) {
		if st != nil {
			s.store = st
		}
	}
}

// WithSeed makes every session reproducible. Session n uses seed+n.
func WithSeed(seed int64) Option {
	return func(s *Server) {
		s.seed = seed
	}
}

// WithLeaderboardSize sets how many top entries are cached.
func WithLeaderboardSize(n int) Option {
	return func(s *Server) {
		s.topSize = n
	}
}

// WithGameOptions adds options to every session's game.
func WithGameOptions(opts ...game.Option) Option {
	return func(s *Server) {
		s.gameOpts = append(s.gameOpts, opts...)
	}
}

// NewServer creates a new game server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		commandCh:    make(chan ClientCommand, 256),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		done:         make(chan struct{}),
		recordCh:     make(chan record, config.LeaderboardQueue),
		topSize:      config.LeaderboardSize,
		logger:       log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = rank.NewMemoryStore()
	}
	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	defer s.stop()
	go s.recordLoop(ctx)

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		delta := min(frameStart.Sub(lastTime), maxTickDelta)
		lastTime = frameStart

		s.tick(delta)

		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// stop marks the server finished so late registrations fail fast, and closes
// the events of every session it still knows, registered or queued.
func (s *Server) stop() {
	s.stopOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		for id, handle := range s.clients {
			close(handle.EventsCh)
			delete(s.clients, id)
			s.players.Add(-1)
		}
		s.mu.Unlock()

		for {
			select {
			case handle := <-s.registerCh:
				close(handle.EventsCh)
				s.players.Add(-1)
			default:
				return
			}
		}
	})
}

// tick runs one server frame.
func (s *Server) tick(delta time.Duration) {
	s.processRegistrations()
	s.collectCommands()
	s.updateGames(delta)
	s.publishSnapshots()
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		handle.send(ClientEvent{Type: EventServerShutdown})
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "remaining", s.Players())
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient creates a duel for a new client and returns its handle. The
// handle has a snapshot immediately; the server starts ticking it on its
// next frame.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:        id,
		SessionID: uuid.NewString(),
		Username:  SanitizeUsername(username),
		EventsCh:  make(chan ClientEvent, 32),
	}
	handle.Logger = s.logger.With("session", handle.SessionID, "user", handle.Username)

	opts := []game.Option{
		game.WithRand(s.sessionRand(id)),
		game.WithHooks(sessionHooks{server: s, handle: handle}),
	}
	handle.game = game.New(append(opts, s.gameOpts...)...)
	handle.publish()

	select {
	case <-s.done:
		close(handle.EventsCh)
		handle.Logger.Warn("server stopped, session not registered", "client", id)
		return handle
	default:
	}

	s.players.Add(1)
	select {
	case s.registerCh <- handle:
	case <-s.done:
		s.players.Add(-1)
		close(handle.EventsCh)
		handle.Logger.Warn("server stopped, session not registered", "client", id)
		return handle
	}
	handle.Logger.Info("session registered", "client", id)
	return handle
}

func (s *Server) sessionRand(id int) *rand.Rand {
	if s.seed == 0 {
		return rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	}
	return rand.New(rand.NewSource(s.seed + int64(id)))
}

// UnregisterClient removes a client from the server. After the server has
// stopped there is nothing left to remove.
func (s *Server) UnregisterClient(clientID int) {
	select {
	case s.unregisterCh <- clientID:
	case <-s.done:
	}
}

// SendCommand queues a command for the next tick. Commands are dropped when
// the queue is full.
func (s *Server) SendCommand(clientID int, cmd Command) {
	if cmd.Empty() {
		return
	}
	select {
	case s.commandCh <- ClientCommand{ClientID: clientID, Command: cmd}:
	default:
	}
}

// Players returns the number of registered clients.
func (s *Server) Players() int {
	return int(s.players.Load())
}

// processRegistrations handles pending client registrations, then
// unregistrations. A client's register is always queued before its
// unregister, so draining registrations first never misses one.
func (s *Server) processRegistrations() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for registering := true; registering; {
		select {
		case handle := <-s.registerCh:
			s.clients[handle.ID] = handle
		default:
			registering = false
		}
	}

	for {
		select {
		case clientID := <-s.unregisterCh:
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.players.Add(-1)
				handle.Logger.Info("session unregistered", "level", handle.game.Level().ID)
			}
		default:
			return
		}
	}
}

// collectCommands applies all pending commands to their games.
func (s *Server) collectCommands() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		select {
		case cc := <-s.commandCh:
			if handle, ok := s.clients[cc.ClientID]; ok {
				apply(handle.game, cc.Command)
			}
		default:
			return
		}
	}
}

// apply maps a command onto the game operations valid for its state.
func apply(g *game.Game, cmd Command) {
	if cmd.Aim != 0 {
		g.Aim(cmd.Aim)
	}
	if cmd.ToggleCharge {
		g.ToggleCharge()
	}
	if cmd.Confirm {
		switch g.State() {
		case game.StateStart, game.StateGameOver:
			g.Start()
		case game.StateLevelWin:
			g.Next()
		case game.StateGameWin:
			g.Restart()
		}
	}
}

func (s *Server) updateGames(delta time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.clients {
		handle.game.Tick(delta)
	}
}

func (s *Server) publishSnapshots() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.clients {
		handle.publish()
	}
}
