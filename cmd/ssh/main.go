package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/archers/internal/config"
	"github.com/tomz197/archers/internal/draw"
	"github.com/tomz197/archers/internal/game"
	"github.com/tomz197/archers/internal/loop/client"
	"github.com/tomz197/archers/internal/loop/server"
	"github.com/tomz197/archers/internal/rank"
)

const (
	playerShutdownTimeout = 15 * time.Second
	sshShutdownTimeout    = 5 * time.Second
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "ssh"})

	settings, err := config.Load(config.Path())
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	if lvl, err := log.ParseLevel(settings.Log.Level); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level, using info", "level", settings.Log.Level)
	}

	if err := run(logger, settings); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func run(logger *log.Logger, settings config.Settings) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := rank.Open(ctx, settings.Leaderboard)
	if err != nil {
		return fmt.Errorf("open leaderboard: %w", err)
	}
	defer store.Close()
	logger.Info("leaderboard ready", "backend", settings.Leaderboard.Backend)

	var gameOpts []game.Option
	if settings.Game.StartLevel > 1 {
		gameOpts = append(gameOpts, game.WithStartLevel(settings.Game.StartLevel))
	}
	gameServer := server.NewServer(
		server.WithLogger(logger.WithPrefix("game")),
		server.WithStore(store),
		server.WithSeed(settings.Game.Seed),
		server.WithLeaderboardSize(settings.Leaderboard.Size),
		server.WithGameOptions(gameOpts...),
	)

	opts := []ssh.Option{
		wish.WithAddress(settings.SSH.Addr()),
		wish.WithMiddleware(
			gameMiddleware(gameServer, logger),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if settings.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(settings.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	serverCtx, cancelServer := context.WithCancel(context.Background())
	defer cancelServer()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gameServer.Run(serverCtx)
		return nil
	})
	g.Go(func() error {
		logger.Info("starting ssh server", "addr", settings.SSH.Addr())
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down, notifying players", "players", gameServer.Players())

		// Players get the countdown screen before the listener goes away.
		gameServer.Shutdown(playerShutdownTimeout)
		cancelServer()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), sshShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown ssh: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// gameMiddleware handles SSH sessions and runs the game client.
func gameMiddleware(gs server.GameServer, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				wish.Fatalln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			sessLog := logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
			sessLog.Info("session started", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			c := client.NewClient(gs, bufio.NewReader(sess), sess, client.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Username:     sess.User(),
				Renderer:     lipgloss.NewRenderer(sess),
			})
			if err := c.Run(); err != nil {
				sessLog.Error("game error", "err", err)
			}

			sessLog.Info("session ended", "player", c.Username())
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
