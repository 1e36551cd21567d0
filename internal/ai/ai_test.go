package ai

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/tomz197/archers/internal/level"
	"github.com/tomz197/archers/internal/object"
)

func TestSolvePower(t *testing.T) {
	flat := level.Level{PlayerY: 300, AIY: 300}
	want := math.Sqrt(1000) * powerFudge

	assert.InDelta(t, want, solvePower(flat, 225, 0), 1e-9)
	assert.InDelta(t, want+powerJitter, solvePower(flat, 225, 1), 1e-9)

	below := level.Level{PlayerY: 200, AIY: 400}
	assert.InDelta(t, want*1.1, solvePower(below, 225, 0), 1e-9, "target higher up needs more power")

	above := level.Level{PlayerY: 400, AIY: 200}
	assert.InDelta(t, want*0.9, solvePower(above, 225, 0), 1e-9)

	near := level.Level{PlayerY: 340, AIY: 300}
	assert.InDelta(t, want, solvePower(near, 225, 0), 1e-9, "within the height band")
}

func TestSolvePowerDegenerateAngle(t *testing.T) {
	flat := level.Level{PlayerY: 300, AIY: 300}
	assert.Equal(t, FallbackPower, solvePower(flat, 180, 0))
	assert.Equal(t, FallbackPower, solvePower(flat, 270, 0))
	assert.Equal(t, object.MaxPower, solvePower(flat, 181, 0), "steep range equation is capped")
}

func TestDecideIsDeterministicWithSeed(t *testing.T) {
	lv := level.Level{ID: 5, AIVariance: 20, PlayerY: 250, AIY: 300}
	a := Decide(lv, rand.New(rand.NewSource(11)))
	b := Decide(lv, rand.New(rand.NewSource(11)))
	assert.Equal(t, a, b)
}

func TestDecideBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lv := level.Level{
			AIVariance: rapid.Float64Range(0.5, 25).Draw(t, "variance"),
			PlayerY:    rapid.Float64Range(level.MinArcherY, level.MaxArcherY).Draw(t, "playerY"),
			AIY:        rapid.Float64Range(level.MinArcherY, level.MaxArcherY).Draw(t, "aiY"),
		}
		shot := Decide(lv, rand.New(rand.NewSource(rapid.Int64().Draw(t, "seed"))))

		if shot.Power < object.MinPower || shot.Power > object.MaxPower {
			t.Fatalf("power = %v, want within [%v, %v]", shot.Power, object.MinPower, object.MaxPower)
		}
		if shot.BaseAngle < minBaseAngle || shot.BaseAngle >= minBaseAngle+baseAngleSpan {
			t.Fatalf("base angle = %v out of range", shot.BaseAngle)
		}
		if d := math.Abs(shot.Angle - shot.BaseAngle); d > lv.AIVariance/2 {
			t.Fatalf("angle error %v exceeds half the variance %v", d, lv.AIVariance)
		}
		if math.IsNaN(shot.Power) {
			t.Fatalf("power is NaN")
		}
	})
}
