// Package game runs one archer duel: the level progression, the turn state
// machine, the flying arrow and the timers around them. A Game is not safe for
// concurrent use; one goroutine drives it through Tick and the input methods
// and others read the values returned by Snapshot.
package game

import (
	"math/rand"
	"time"

	"github.com/tomz197/archers/internal/ai"
	"github.com/tomz197/archers/internal/level"
	"github.com/tomz197/archers/internal/object"
	"github.com/tomz197/archers/internal/physics"
)

// Player controls and timers.
const (
	MaxHP = 100

	MinAim   = -110.0 // degrees, 0 points right, negative is up
	MaxAim   = 20.0
	StartAim = -45.0

	// ChargeRate is the bow draw speed in power per second (0.5 every 16 ms).
	ChargeRate = 0.5 / 0.016

	HitDelay   = 1000 * time.Millisecond
	ThinkDelay = ai.ThinkDelayMS * time.Millisecond
	DrawTime   = ai.DrawMS * time.Millisecond

	// aiRestAim is the AI bow angle while it is not drawing, mirrored.
	aiRestAim = -30.0
)

// Game is a single-player duel against the AI.
type Game struct {
	levels  []level.Level
	idx     int
	startID int

	state    State
	turn     Turn
	playerHP int
	aiHP     int
	timeLeft int
	best     int
	won      bool

	world object.World
	arrow object.Arrow

	aim      float64
	charging bool
	power    float64

	aiDrawing   bool
	aiShot      ai.Shot
	aiDrawStart time.Duration

	// defeatPending is set between a killing hit and the end of HitDelay.
	defeatPending bool
	lastImpact    object.Impact
	lastShooter   object.Side

	sched    Scheduler
	rng      *rand.Rand
	sound    Sound
	hooks    Hooks
	gravity  float64
	generate func(*rand.Rand) []level.Level
	field    func(level.Level, *rand.Rand) []object.Obstacle
}

// New creates a game waiting on the start screen.
func New(opts ...Option) *Game {
	g := &Game{
		startID:  1,
		state:    StateStart,
		playerHP: MaxHP,
		aiHP:     MaxHP,
		aim:      StartAim,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sound:    NopSound{},
		hooks:    NopHooks{},
		gravity:  object.Gravity,
		generate: func(rng *rand.Rand) []level.Level { return level.Generate(level.Count, rng) },
		field:    object.BuildField,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.levels = g.generate(g.rng)
	g.idx = g.indexOf(g.startID)
	g.timeLeft = level.TimeLimit(g.Level().ID)
	return g
}

func (g *Game) indexOf(id int) int {
	for i, lv := range g.levels {
		if lv.ID == id {
			return i
		}
	}
	return 0
}

// Level returns the current level.
func (g *Game) Level() level.Level {
	return g.levels[g.idx]
}

func (g *Game) lastLevel() bool {
	return g.idx >= len(g.levels)-1
}

// Levels returns the number of levels in this game.
func (g *Game) Levels() int {
	return len(g.levels)
}

// State returns the session state.
func (g *Game) State() State {
	return g.state
}

// Turn returns whose turn it is.
func (g *Game) Turn() Turn {
	return g.turn
}

// Start begins the current level from the start screen, or retries it after
// a defeat. Ignored in any other state.
func (g *Game) Start() {
	if g.state != StateStart && g.state != StateGameOver {
		return
	}
	g.startLevel()
}

// Next advances to the following level after a won level.
func (g *Game) Next() {
	if g.state != StateLevelWin {
		return
	}
	if g.lastLevel() {
		g.won = true
		g.setState(StateGameWin)
		return
	}
	g.idx++
	g.startLevel()
}

// Restart begins a new game with fresh levels after the last one was won.
func (g *Game) Restart() {
	if g.state != StateGameWin {
		return
	}
	g.levels = g.generate(g.rng)
	g.idx = g.indexOf(g.startID)
	g.best = 0
	g.won = false
	g.startLevel()
}

// Aim turns the player's bow by delta degrees, within [MinAim, MaxAim].
func (g *Game) Aim(delta float64) {
	if !g.playerCanAct() {
		return
	}
	g.aim = physics.Clamp(g.aim+delta, MinAim, MaxAim)
}

// ToggleCharge starts drawing the bow, or releases the arrow if already drawing.
func (g *Game) ToggleCharge() {
	if g.charging {
		g.release()
		return
	}
	if !g.playerCanAct() {
		return
	}
	g.charging = true
	g.power = object.MinPower
	g.sound.Play(ToneDraw)
}

// Charging reports whether the player is drawing the bow.
func (g *Game) Charging() bool {
	return g.charging
}

func (g *Game) release() {
	power := g.power
	g.charging = false
	g.power = 0
	if !g.playerCanAct() {
		return
	}
	g.fire(object.SidePlayer, physics.Radians(g.aim), power)
}

func (g *Game) playerCanAct() bool {
	return g.state == StatePlaying && g.turn == TurnPlayer && !g.defeatPending
}

// Tick advances the game by one frame of length dt: timers and the countdown
// first, then the bow charge and one arrow step.
func (g *Game) Tick(dt time.Duration) {
	g.sched.Advance(dt)
	if g.state != StatePlaying {
		return
	}

	if g.charging {
		g.power = min(g.power+ChargeRate*dt.Seconds(), object.MaxPower)
	}

	if g.arrow.Active {
		if imp := g.arrow.Step(g.world); imp.Kind != object.ImpactNone {
			g.land(imp)
		}
	}
}

func (g *Game) startLevel() {
	g.sched.CancelAll()

	lv := g.Level()
	g.world = object.NewWorld(lv, g.field(lv, g.rng))
	g.world.Gravity = g.gravity
	g.world.OnBounce = g.bounced

	g.playerHP, g.aiHP = MaxHP, MaxHP
	g.arrow = object.Arrow{}
	g.turn = TurnPlayer
	g.aim = StartAim
	g.charging, g.power = false, 0
	g.aiDrawing = false
	g.defeatPending = false
	g.lastImpact, g.lastShooter = object.Impact{}, object.SideNone
	g.best = max(g.best, lv.ID)

	g.timeLeft = level.TimeLimit(lv.ID)
	g.setState(StatePlaying)
	if g.timeLeft != level.Unlimited {
		g.sched.Every(time.Second, g.countdown)
	}
}

func (g *Game) countdown() {
	if g.state != StatePlaying {
		return
	}
	if g.timeLeft <= 1 {
		g.timeLeft = 0
		g.setState(StateGameOver)
		return
	}
	g.timeLeft--
}

func (g *Game) setState(to State) {
	from := g.state
	if from == to {
		return
	}
	g.state = to
	if to != StatePlaying {
		g.sched.CancelAll()
		g.charging, g.power = false, 0
		g.aiDrawing = false
	}

	switch to {
	case StateLevelWin, StateGameWin:
		g.sound.Play(ToneWin)
	case StateGameOver:
		g.sound.Play(ToneLose)
	}
	g.hooks.OnStateChange(from, to)
}

// setTurn hands the turn over and starts the AI when it is its move.
func (g *Game) setTurn(t Turn) {
	g.turn = t
	if t == TurnAI && g.state == StatePlaying && !g.defeatPending {
		g.sched.After(ThinkDelay, g.aiThink)
	}
}

func (g *Game) aiThink() {
	if g.state != StatePlaying || g.turn != TurnAI {
		return
	}
	shot := ai.Decide(g.Level(), g.rng)
	g.aiShot = shot
	g.aiDrawing = true
	g.aiDrawStart = g.sched.Now()
	g.sched.After(DrawTime, func() {
		g.aiDrawing = false
		if g.state != StatePlaying || g.turn != TurnAI || g.defeatPending {
			return
		}
		g.fire(object.SideAI, shot.Radians(), shot.Power)
	})
}

func (g *Game) fire(side object.Side, angle, power float64) {
	g.arrow = object.Launch(g.world.Anchor(side), angle, power, side)
	g.lastShooter = side
	g.turn = TurnAnimating
	g.sound.Play(ToneRelease)
	g.hooks.OnShotFired(g.arrow.Pos, g.arrow.Vel)
}

func (g *Game) bounced(pos physics.Vec2) {
	g.sound.Play(ToneDamage)
	g.hooks.OnBounce(pos)
}

// land ends a flight and passes the turn to the side that did not shoot.
func (g *Game) land(imp object.Impact) {
	shooter := g.arrow.Owner
	g.lastImpact = imp

	switch imp.Kind {
	case object.ImpactHit:
		g.resolveHit(imp.Target, imp.Damage)
	case object.ImpactTerrain:
		g.sound.Play(ToneDamage)
	}

	if shooter == object.SidePlayer {
		g.setTurn(TurnAI)
	} else {
		g.setTurn(TurnPlayer)
	}
}
