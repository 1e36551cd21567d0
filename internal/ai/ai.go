// Package ai picks the computer archer's shot.
package ai

import (
	"math"
	"math/rand"

	"github.com/tomz197/archers/internal/level"
	"github.com/tomz197/archers/internal/object"
	"github.com/tomz197/archers/internal/physics"
)

// Timing of the AI turn, in milliseconds.
const (
	ThinkDelayMS = 600
	DrawMS       = 1000
)

const (
	minBaseAngle  = 195.0 // degrees, aiming back over the wall to the left
	baseAngleSpan = 65.0

	// FallbackPower is used when the range equation degenerates (sin(2a) ~ 0).
	FallbackPower = 45.0

	powerFudge   = 1.55
	heightBand   = 50.0
	powerJitter  = 3.0
	degenerateAt = 1e-6
)

// Shot is a decided AI shot. Angles are in degrees.
type Shot struct {
	BaseAngle float64 // drawn by the archer while charging
	Angle     float64 // actual release angle
	Power     float64
}

// Radians returns the release angle in radians.
func (s Shot) Radians() float64 {
	return physics.Radians(s.Angle)
}

// Decide picks an angle and a power for the AI of lv. The error in the angle
// shrinks with AIVariance; the power comes from the flat-ground range equation.
func Decide(lv level.Level, rng *rand.Rand) Shot {
	base := minBaseAngle + rng.Float64()*baseAngleSpan
	final := base + (rng.Float64()-0.5)*lv.AIVariance

	return Shot{
		BaseAngle: base,
		Angle:     final,
		Power:     solvePower(lv, final, rng.Float64()),
	}
}

func solvePower(lv level.Level, angleDeg, jitter float64) float64 {
	s := math.Abs(math.Sin(2 * physics.Radians(angleDeg)))
	if s < degenerateAt {
		return FallbackPower
	}

	dist := math.Abs(object.PlayerX - object.AIX)
	power := math.Sqrt(dist*object.Gravity/s) * powerFudge

	dy := lv.PlayerY - lv.AIY
	switch {
	case dy < -heightBand:
		power *= 1.1
	case dy > heightBand:
		power *= 0.9
	}

	return physics.Clamp(power+jitter*powerJitter, object.MinPower, object.MaxPower)
}
