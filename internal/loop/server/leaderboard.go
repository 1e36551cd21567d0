package server

import (
	"context"
	"time"

	"github.com/tomz197/archers/internal/loop/config"
	"github.com/tomz197/archers/internal/rank"
)

// record is a finished level waiting to be stored.
type record struct {
	username string
	level    int
	won      bool
}

// enqueueRecord hands a result to the leaderboard worker without blocking
// the tick. Results are dropped if storage falls far behind.
func (s *Server) enqueueRecord(r record) {
	select {
	case s.recordCh <- r:
	default:
		s.logger.Warn("leaderboard queue full, dropping result", "user", r.username, "level", r.level)
	}
}

// TopScores returns the cached leaderboard, best first.
func (s *Server) TopScores() []rank.Entry {
	if top := s.top.Load(); top != nil {
		return *top
	}
	return nil
}

// recordLoop writes results to the store and keeps the cached top list
// fresh. Storage errors are logged; a duel never waits on them.
func (s *Server) recordLoop(ctx context.Context) {
	reload := time.NewTicker(config.LeaderboardReload)
	defer reload.Stop()

	s.refreshTop(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-s.recordCh:
			if s.storeRecord(ctx, r) {
				s.refreshTop(ctx)
			}
		case <-reload.C:
			s.refreshTop(ctx)
		}
	}
}

func (s *Server) storeRecord(ctx context.Context, r record) bool {
	ctx, cancel := context.WithTimeout(ctx, config.LeaderboardWrite)
	defer cancel()
	if err := s.store.Record(ctx, r.username, r.level, r.won); err != nil {
		s.logger.Error("record result", "user", r.username, "level", r.level, "err", err)
		return false
	}
	return true
}

func (s *Server) refreshTop(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, config.LeaderboardWrite)
	defer cancel()
	top, err := s.store.Top(ctx, s.topSize)
	if err != nil {
		s.logger.Error("load leaderboard", "err", err)
		return
	}
	s.top.Store(&top)
}
