// Package rank keeps the honor leaderboard: the best level each player reached.
package rank

import (
	"context"
	"math"
	"sort"

	"github.com/tomz197/archers/internal/level"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank     int // 1-based
	Username string
	Level    int  // highest level reached
	Won      bool // cleared the last level
}

// Honor returns the rank title earned by the entry.
func (e Entry) Honor() level.Honor {
	return level.HonorFor(e.Level, e.Won)
}

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=./mocks/store_mock.go -package=mocks . Store

// Store records results and lists the best players.
type Store interface {
	// Record keeps the better of the stored and the given result for username.
	Record(ctx context.Context, username string, lvl int, won bool) error
	// Top returns up to n entries, best first, ties by username.
	Top(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

// score packs a result into a single sortable number; a won game sorts above
// merely reaching the same level.
func score(lvl int, won bool) float64 {
	s := float64(lvl)
	if won {
		s += 0.5
	}
	return s
}

func unscore(s float64) (int, bool) {
	whole := math.Floor(s)
	return int(whole), s > whole
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		si, sj := score(entries[i].Level, entries[i].Won), score(entries[j].Level, entries[j].Won)
		if si != sj {
			return si > sj
		}
		return entries[i].Username < entries[j].Username
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
