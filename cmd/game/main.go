package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/archers/internal/audio"
	"github.com/tomz197/archers/internal/config"
	"github.com/tomz197/archers/internal/game"
	"github.com/tomz197/archers/internal/loop"
	"github.com/tomz197/archers/internal/rank"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load(config.Path())
	if err != nil {
		return err
	}

	// The terminal belongs to the game; log to a file only when asked.
	logger := log.New(os.Stderr)
	logger.SetLevel(log.FatalLevel)
	if path := settings.Log.File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "game"})
		if lvl, err := log.ParseLevel(settings.Log.Level); err == nil {
			logger.SetLevel(lvl)
		}
	}

	store, err := rank.Open(context.Background(), settings.Leaderboard)
	if err != nil {
		return fmt.Errorf("open leaderboard: %w", err)
	}
	defer store.Close()

	var sound game.Sound
	if settings.Sound.Enabled {
		player := audio.NewPlayer(settings.Sound.Volume)
		if err := player.Init(); err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			defer player.Close()
			sound = player
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	return loop.Run(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Username:   config.GetEnv("USER", ""),
		Logger:     logger,
		Store:      store,
		Sound:      sound,
		Seed:       settings.Game.Seed,
		StartLevel: settings.Game.StartLevel,
	})
}
