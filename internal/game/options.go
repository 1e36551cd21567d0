package game

import (
	"math/rand"

	"github.com/tomz197/archers/internal/level"
	"github.com/tomz197/archers/internal/object"
)

// Option configures a Game.
type Option func(*Game)

// WithRand sets the random source for level generation, obstacle layouts and
// AI decisions. A seeded source makes a whole game reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithSound sets the tone player.
func WithSound(s Sound) Option {
	return func(g *Game) {
		if s != nil {
			g.sound = s
		}
	}
}

// WithHooks sets the feedback receiver.
func WithHooks(h Hooks) Option {
	return func(g *Game) {
		if h != nil {
			g.hooks = h
		}
	}
}

// WithLevels uses a fixed level table instead of generating one. Restart
// replays the same table.
func WithLevels(levels []level.Level) Option {
	fixed := append([]level.Level(nil), levels...)
	return func(g *Game) {
		if len(fixed) > 0 {
			g.generate = func(*rand.Rand) []level.Level { return fixed }
		}
	}
}

// WithLevelCount generates count levels instead of level.Count.
func WithLevelCount(count int) Option {
	return func(g *Game) {
		if count > 0 {
			g.generate = func(rng *rand.Rand) []level.Level { return level.Generate(count, rng) }
		}
	}
}

// WithStartLevel starts (and retries) at level id instead of the first one.
func WithStartLevel(id int) Option {
	return func(g *Game) {
		g.startID = id
	}
}

// WithGravity overrides the arrow gravity.
func WithGravity(gravity float64) Option {
	return func(g *Game) {
		g.gravity = gravity
	}
}

// WithField replaces the obstacle layout of every level.
func WithField(build func(level.Level, *rand.Rand) []object.Obstacle) Option {
	return func(g *Game) {
		if build != nil {
			g.field = build
		}
	}
}
