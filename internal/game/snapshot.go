package game

import (
	"github.com/tomz197/archers/internal/level"
	"github.com/tomz197/archers/internal/object"
	"github.com/tomz197/archers/internal/physics"
)

// Snapshot is a read-only view of a game at one frame. It shares the level's
// obstacle slice, which is never modified after the level starts.
type Snapshot struct {
	State      State
	Turn       Turn
	Level      level.Level
	LevelCount int
	TimeLeft   int // seconds, or level.Unlimited

	PlayerHP int
	AIHP     int

	Obstacles    []object.Obstacle
	PlayerAnchor physics.Vec2
	AIAnchor     physics.Vec2
	Arrow        object.Arrow // Active is false when nothing is in flight

	Aim      float64 // degrees
	Charging bool
	Power    float64

	AIDrawing bool
	AIAim     float64 // degrees in the AI's mirrored frame: -30 points up and left
	AIPower   float64

	LastShooter object.Side
	LastImpact  object.Impact

	Best  int // highest level reached in this game
	Won   bool
	Honor level.Honor
}

// Snapshot copies the current state for rendering.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		State:      g.state,
		Turn:       g.turn,
		Level:      g.Level(),
		LevelCount: len(g.levels),
		TimeLeft:   g.timeLeft,

		PlayerHP: g.playerHP,
		AIHP:     g.aiHP,

		Obstacles:    g.world.Obstacles,
		PlayerAnchor: physics.V(object.PlayerX, g.Level().PlayerY),
		AIAnchor:     physics.V(object.AIX, g.Level().AIY),
		Arrow:        g.arrow,

		Aim:      g.aim,
		Charging: g.charging,
		Power:    g.power,

		AIDrawing: g.aiDrawing,
		AIAim:     aiRestAim,

		LastShooter: g.lastShooter,
		LastImpact:  g.lastImpact,

		Best:  g.best,
		Won:   g.won,
		Honor: level.HonorFor(max(g.best, g.Level().ID), g.won),
	}

	if g.aiDrawing {
		s.AIAim = 180 - g.aiShot.BaseAngle
		progress := float64(g.sched.Now()-g.aiDrawStart) / float64(DrawTime)
		s.AIPower = g.aiShot.Power * min(1, progress)
	}
	return s
}

// Preview returns the aiming preview of the player's bow, or nil when the
// player cannot shoot.
func (s Snapshot) Preview() []physics.Vec2 {
	if s.State != StatePlaying || s.Turn != TurnPlayer {
		return nil
	}
	power, steps := object.PreviewIdlePower, object.PreviewIdleSteps
	if s.Charging {
		power, steps = s.Power, object.PreviewChargeSteps
	}
	return object.PredictPath(s.PlayerAnchor, physics.Radians(s.Aim), power, steps, object.Floor)
}
