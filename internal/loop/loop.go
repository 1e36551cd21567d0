// Package loop runs a duel in the local terminal: an in-process server with a
// single client attached.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/archers/internal/draw"
	"github.com/tomz197/archers/internal/game"
	"github.com/tomz197/archers/internal/loop/client"
	"github.com/tomz197/archers/internal/loop/server"
	"github.com/tomz197/archers/internal/rank"
)

// Options configures a local run. The zero value plays with an in-memory
// leaderboard, no sound and a random seed.
type Options struct {
	Username     string
	Logger       *log.Logger
	Store        rank.Store
	Sound        game.Sound
	Seed         int64
	StartLevel   int
	TermSizeFunc draw.TermSizeFunc
}

// Run plays until the player quits.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	var gameOpts []game.Option
	if opts.Sound != nil {
		gameOpts = append(gameOpts, game.WithSound(opts.Sound))
	}
	if opts.StartLevel > 1 {
		gameOpts = append(gameOpts, game.WithStartLevel(opts.StartLevel))
	}

	s := server.NewServer(
		server.WithLogger(opts.Logger),
		server.WithStore(opts.Store),
		server.WithSeed(opts.Seed),
		server.WithGameOptions(gameOpts...),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	c := client.NewClient(s, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
	})
	if err := c.Run(); err != nil {
		return fmt.Errorf("run client: %w", err)
	}
	return nil
}
