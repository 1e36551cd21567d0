// Package level generates the 100-level progression and the per-level policies
// derived from a level id.
package level

import (
	"math"
	"math/rand"
	"time"
)

// Count is the number of levels in a full game.
const Count = 100

// Archer heights are drawn from this band.
const (
	MinArcherY = 100.0
	MaxArcherY = 450.0
)

// Unlimited is the time limit of a level without a countdown.
const Unlimited = -1

// Level holds the static parameters of one duel.
type Level struct {
	ID                int
	AIAccuracy        float64 // 0.15 .. 0.9, display only
	AIVariance        float64 // degrees of aim error, 25 .. 0.5
	ObstacleCount     int
	MaxObstacleHeight float64
	PlayerY           float64
	AIY               float64
}

// Generate builds count levels with difficulty scaling linearly from the first to
// the last. Archer heights are random; pass a seeded rng for reproducible layouts.
func Generate(count int, rng *rand.Rand) []Level {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	levels := make([]Level, count)
	for i := range levels {
		progress := 0.0
		if count > 1 {
			progress = float64(i) / float64(count-1)
		}
		levels[i] = Level{
			ID:                i + 1,
			AIAccuracy:        0.15 + progress*0.75,
			AIVariance:        25 - progress*24.5,
			ObstacleCount:     int(math.Floor(4 + progress*12)),
			MaxObstacleHeight: 150 + progress*400,
			PlayerY:           MinArcherY + rng.Float64()*(MaxArcherY-MinArcherY),
			AIY:               MinArcherY + rng.Float64()*(MaxArcherY-MinArcherY),
		}
	}
	return levels
}

// TimeLimit returns the countdown for a level in seconds, or Unlimited.
func TimeLimit(id int) int {
	switch {
	case id == 100:
		return Unlimited
	case id >= 61:
		return 300
	case id >= 31:
		return 120
	case id >= 21:
		return 60
	case id >= 11:
		return 45
	default:
		return 30
	}
}
