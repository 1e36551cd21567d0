package object

import (
	"math"

	"github.com/tomz197/archers/internal/level"
	"github.com/tomz197/archers/internal/physics"
)

// Field and flight tunables. Units are field pixels and ticks.
const (
	FieldWidth  = 1200.0
	FieldHeight = 600.0
	Floor       = FieldHeight - 20 // ground line the arrow bounces on

	Gravity         = 1.0
	SpeedMultiplier = 0.45 // power -> initial speed per tick
	Substeps        = 4

	MinPower = 5.0
	MaxPower = 85.0

	PlayerX = 100.0
	AIX     = 1100.0

	BaseDamage        = 10
	MaxBounces        = 3
	ObstacleDamping   = 0.8
	GroundDamping     = 0.6
	HitRadius         = 30.0
	OutOfBoundsMargin = 1000.0
)

// Aim preview lengths, in ticks.
const (
	PreviewIdlePower   = 25.0
	PreviewIdleSteps   = 6
	PreviewChargeSteps = 20
)

// Side identifies an archer.
type Side int

const (
	SideNone Side = iota
	SidePlayer
	SideAI
)

// Opponent returns the other archer.
func (s Side) Opponent() Side {
	switch s {
	case SidePlayer:
		return SideAI
	case SideAI:
		return SidePlayer
	default:
		return SideNone
	}
}

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideAI:
		return "ai"
	default:
		return "none"
	}
}

// World is everything an arrow collides with during one level.
type World struct {
	Obstacles    []Obstacle
	Gravity      float64
	Floor        float64
	PlayerAnchor physics.Vec2
	AIAnchor     physics.Vec2

	// OnBounce, if set, is called at the position of every bounce.
	OnBounce func(pos physics.Vec2)
}

// NewWorld returns the world of a level with the standard gravity and floor.
func NewWorld(lv level.Level, obstacles []Obstacle) World {
	return World{
		Obstacles:    obstacles,
		Gravity:      Gravity,
		Floor:        Floor,
		PlayerAnchor: physics.V(PlayerX, lv.PlayerY),
		AIAnchor:     physics.V(AIX, lv.AIY),
	}
}

// Anchor returns the position of an archer.
func (w World) Anchor(s Side) physics.Vec2 {
	if s == SideAI {
		return w.AIAnchor
	}
	return w.PlayerAnchor
}

func (w World) bounced(pos physics.Vec2) {
	if w.OnBounce != nil {
		w.OnBounce(pos)
	}
}

// ImpactKind tells how a flight ended.
type ImpactKind int

const (
	ImpactNone ImpactKind = iota
	ImpactHit
	ImpactTerrain
	ImpactOutOfBounds
)

func (k ImpactKind) String() string {
	switch k {
	case ImpactHit:
		return "hit"
	case ImpactTerrain:
		return "terrain"
	case ImpactOutOfBounds:
		return "out of bounds"
	default:
		return "none"
	}
}

// Impact is the result of one arrow step. Target and Damage are set for hits only.
type Impact struct {
	Kind   ImpactKind
	Target Side
	Damage int
}

// Arrow is a projectile in flight.
type Arrow struct {
	Pos     physics.Vec2
	Vel     physics.Vec2
	Angle   float64 // radians, follows the velocity
	Owner   Side
	Power   float64
	Peak    float64 // smallest y reached; lower is higher on screen
	Bounces int
	Active  bool
}

// Launch creates an arrow leaving from at angle (radians) with the given power,
// clamped to [MinPower, MaxPower].
func Launch(from physics.Vec2, angle, power float64, owner Side) Arrow {
	power = physics.Clamp(power, MinPower, MaxPower)
	return Arrow{
		Pos:    from,
		Vel:    physics.FromAngle(angle, power*SpeedMultiplier),
		Angle:  angle,
		Owner:  owner,
		Power:  power,
		Peak:   from.Y,
		Active: true,
	}
}

// Step advances the arrow by one tick. Any impact other than ImpactNone
// deactivates the arrow; stepping an inactive arrow is a no-op.
func (a *Arrow) Step(w World) Impact {
	if !a.Active {
		return Impact{}
	}

	for range Substeps {
		a.Pos = a.Pos.Add(a.Vel.Scale(1.0 / Substeps))
		a.Vel.Y += w.Gravity * SpeedMultiplier / Substeps
		a.Angle = a.Vel.Angle()
		a.Peak = math.Min(a.Peak, a.Pos.Y)

		if !a.collideObstacles(w) || !a.collideGround(w) {
			return a.land(Impact{Kind: ImpactTerrain})
		}

		target := a.Owner.Opponent()
		if target != SideNone && physics.PointInCircle(a.Pos, w.Anchor(target), HitRadius) {
			shooter := w.Anchor(a.Owner)
			return a.land(Impact{
				Kind:   ImpactHit,
				Target: target,
				Damage: Damage(shooter.Y, a.Peak, a.Power),
			})
		}
	}

	if a.Pos.X < -OutOfBoundsMargin || a.Pos.X > FieldWidth+OutOfBoundsMargin {
		return a.land(Impact{Kind: ImpactOutOfBounds})
	}
	return Impact{}
}

// collideObstacles bounces off the first obstacle containing the arrow. It
// returns false when the arrow has no bounces left and sticks.
func (a *Arrow) collideObstacles(w World) bool {
	for _, o := range w.Obstacles {
		if !o.Contains(a.Pos) {
			continue
		}
		if a.Bounces >= MaxBounces {
			return false
		}
		face := o.NearestFace(a.Pos)
		a.Vel = face.Reflect(a.Vel, ObstacleDamping)
		a.Pos = o.SnapToFace(a.Pos, face)
		a.Bounces++
		w.bounced(a.Pos)
		return true
	}
	return true
}

// collideGround bounces off the floor. It returns false when the arrow has no
// bounces left and sticks.
func (a *Arrow) collideGround(w World) bool {
	if a.Pos.Y <= w.Floor {
		return true
	}
	if a.Bounces >= MaxBounces {
		return false
	}
	a.Vel.Y = -math.Abs(a.Vel.Y) * GroundDamping
	a.Pos.Y = w.Floor
	a.Bounces++
	w.bounced(a.Pos)
	return true
}

func (a *Arrow) land(imp Impact) Impact {
	a.Active = false
	return imp
}

// Damage is the hit damage of an arrow shot from shooterY that peaked at peak.
// Higher arcs and stronger shots hurt more; the result is never below BaseDamage.
func Damage(shooterY, peak, power float64) int {
	height := math.Max(0, (shooterY-peak)/5)
	return int(math.Floor(BaseDamage + height + power/1.5))
}

// PredictPath returns the aiming preview: steps whole-tick positions from from,
// bouncing off the floor only.
func PredictPath(from physics.Vec2, angle, power float64, steps int, floor float64) []physics.Vec2 {
	pos := from
	vel := physics.FromAngle(angle, power*SpeedMultiplier)
	path := make([]physics.Vec2, 0, steps)
	for range steps {
		pos.X += vel.X
		vel.Y += Gravity * SpeedMultiplier
		pos.Y += vel.Y
		if pos.Y > floor {
			vel.Y = -math.Abs(vel.Y) * GroundDamping
			pos.Y = floor
		}
		path = append(path, pos)
	}
	return path
}
