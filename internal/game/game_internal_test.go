package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tomz197/archers/internal/level"
	"github.com/tomz197/archers/internal/object"
	"github.com/tomz197/archers/internal/physics"
)

const frame = time.Second / 60

// flatLevels puts both archers at the same height on every level.
func flatLevels(n int) []level.Level {
	levels := make([]level.Level, n)
	for i := range levels {
		levels[i] = level.Level{ID: i + 1, AIVariance: 10, PlayerY: 300, AIY: 300}
	}
	return levels
}

func emptyField(level.Level, *rand.Rand) []object.Obstacle { return nil }

func newFlatGame(opts ...Option) *Game {
	base := []Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithLevels(flatLevels(level.Count)),
		WithField(emptyField),
	}
	return New(append(base, opts...)...)
}

// flyOut ticks until the arrow in flight has landed.
func flyOut(t *testing.T, g *Game) {
	t.Helper()
	require.Equal(t, TurnAnimating, g.turn)
	for range 5000 {
		g.Tick(frame)
		if !g.arrow.Active {
			return
		}
	}
	t.Fatalf("arrow still flying at %v", g.arrow.Pos)
}

type bounceRecorder struct {
	NopHooks
	bounces []physics.Vec2
}

func (r *bounceRecorder) OnBounce(pos physics.Vec2) {
	r.bounces = append(r.bounces, pos)
}

func TestPlayerDirectHit(t *testing.T) {
	g := newFlatGame()
	g.Start()

	g.fire(object.SidePlayer, physics.Radians(-45), 47)
	flyOut(t, g)

	assert.Equal(t, object.ImpactHit, g.lastImpact.Kind)
	assert.GreaterOrEqual(t, g.lastImpact.Damage, object.BaseDamage)
	assert.Equal(t, MaxHP-91, g.aiHP)
	assert.Equal(t, MaxHP, g.playerHP)
	assert.Equal(t, TurnAI, g.turn)
	assert.Equal(t, StatePlaying, g.state)
}

func TestWallBouncesThenOutOfBounds(t *testing.T) {
	rec := &bounceRecorder{}
	walls := func(level.Level, *rand.Rand) []object.Obstacle {
		return []object.Obstacle{
			object.NewObstacle(400, 0, 20, 580, object.Wall),
			object.NewObstacle(900, 200, 20, 200, object.Wall),
		}
	}
	g := newFlatGame(WithGravity(0), WithField(walls), WithHooks(rec))
	g.Start()

	g.arrow = object.Arrow{
		Pos:    physics.V(700, 300),
		Vel:    physics.V(-8, -0.4),
		Owner:  object.SideAI,
		Power:  40,
		Peak:   300,
		Active: true,
	}
	g.turn = TurnAnimating
	flyOut(t, g)

	assert.Equal(t, object.ImpactOutOfBounds, g.lastImpact.Kind)
	assert.Greater(t, g.arrow.Pos.X, object.FieldWidth+object.OutOfBoundsMargin)
	assert.Equal(t, object.MaxBounces, g.arrow.Bounces)
	require.Len(t, rec.bounces, 3)
	assert.InDelta(t, 420, rec.bounces[0].X, 1e-9)
	assert.InDelta(t, 900, rec.bounces[1].X, 1e-9)
	assert.InDelta(t, 420, rec.bounces[2].X, 1e-9)

	assert.Equal(t, TurnPlayer, g.turn, "turn goes to the side that did not shoot")
	assert.Equal(t, MaxHP, g.playerHP)
	assert.Equal(t, MaxHP, g.aiHP)
	assert.Equal(t, StatePlaying, g.state)
}

func TestKillingHitOnLastLevelWinsTheGame(t *testing.T) {
	g := newFlatGame(WithStartLevel(level.Count))
	g.Start()
	require.Equal(t, level.Unlimited, g.timeLeft)

	g.aiHP = 5
	g.fire(object.SidePlayer, physics.Radians(-45), 47)
	flyOut(t, g)

	assert.Equal(t, 0, g.aiHP)
	assert.Equal(t, StatePlaying, g.state, "outcome waits for the hit delay")
	assert.True(t, g.defeatPending)
	assert.Equal(t, TurnAI, g.turn)
	assert.Equal(t, 1, g.sched.Pending(), "only the hit delay, the AI does not move")

	g.Tick(HitDelay - frame)
	assert.Equal(t, StatePlaying, g.state)
	assert.False(t, g.arrow.Active)

	g.Tick(frame)
	assert.Equal(t, StateGameWin, g.state)
	assert.Equal(t, 10, g.Snapshot().Honor.Tier)

	g.Next()
	assert.Equal(t, StateGameWin, g.state, "nothing after the last level")
}

func TestKillingHitAdvancesLevels(t *testing.T) {
	g := newFlatGame(WithLevels(flatLevels(2)))
	g.Start()

	g.aiHP = 1
	g.fire(object.SidePlayer, physics.Radians(-45), 47)
	flyOut(t, g)
	g.Tick(HitDelay)
	require.Equal(t, StateLevelWin, g.state)

	g.Next()
	assert.Equal(t, StatePlaying, g.state)
	assert.Equal(t, 2, g.Level().ID)
	assert.Equal(t, MaxHP, g.aiHP)
	assert.Equal(t, TurnPlayer, g.turn)

	g.aiHP = 1
	g.fire(object.SidePlayer, physics.Radians(-45), 47)
	flyOut(t, g)
	g.Tick(HitDelay)
	require.Equal(t, StateGameWin, g.state)

	g.Restart()
	assert.Equal(t, StatePlaying, g.state)
	assert.Equal(t, 1, g.Level().ID)
	assert.False(t, g.won)
}

func TestPlayerDefeatAndRetry(t *testing.T) {
	g := newFlatGame()
	g.Start()
	g.playerHP = 3
	g.turn = TurnAI

	g.fire(object.SideAI, physics.Radians(225), 47)
	flyOut(t, g)
	assert.Equal(t, 0, g.playerHP)
	assert.Equal(t, TurnPlayer, g.turn)

	g.ToggleCharge()
	assert.False(t, g.charging, "no input while the defeat is pending")

	g.Tick(HitDelay)
	require.Equal(t, StateGameOver, g.state)

	g.Start()
	assert.Equal(t, StatePlaying, g.state)
	assert.Equal(t, 1, g.Level().ID, "retry the same level")
	assert.Equal(t, MaxHP, g.playerHP)
	assert.Equal(t, level.TimeLimit(1), g.timeLeft)
}

func TestLevelResetCancelsAITimers(t *testing.T) {
	g := newFlatGame()
	g.Start()

	g.fire(object.SidePlayer, physics.Radians(-45), object.MaxPower)
	flyOut(t, g)
	require.Equal(t, object.ImpactOutOfBounds, g.lastImpact.Kind)
	require.Equal(t, TurnAI, g.turn)
	require.Equal(t, 2, g.sched.Pending(), "countdown and AI think")

	g.setState(StateGameOver)
	g.Start()
	assert.Equal(t, 1, g.sched.Pending(), "countdown only")

	g.Tick(3 * time.Second)
	assert.Equal(t, TurnPlayer, g.turn)
	assert.False(t, g.arrow.Active)
	assert.False(t, g.aiDrawing)
}

func TestAITurnThinksDrawsAndFires(t *testing.T) {
	g := newFlatGame()
	g.Start()
	g.setTurn(TurnAI)

	g.Tick(ThinkDelay - frame)
	assert.False(t, g.aiDrawing)

	g.Tick(frame)
	require.True(t, g.aiDrawing)
	snap := g.Snapshot()
	assert.Equal(t, 0.0, snap.AIPower)
	assert.InDelta(t, 180-g.aiShot.BaseAngle, snap.AIAim, 1e-9)

	g.Tick(DrawTime / 2)
	assert.InDelta(t, g.aiShot.Power/2, g.Snapshot().AIPower, 1e-6)

	g.Tick(DrawTime / 2)
	assert.False(t, g.aiDrawing)
	assert.Equal(t, TurnAnimating, g.turn)
	assert.Equal(t, object.SideAI, g.arrow.Owner)
	assert.InDelta(t, g.aiShot.Power, g.arrow.Power, 1e-9)

	g.Aim(10)
	assert.Equal(t, StartAim, g.aim, "player input rejected during the AI flight")
}

func TestTurnAlternationAndHPMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		g := New(
			WithRand(rand.New(rand.NewSource(seed))),
			WithStartLevel(rapid.IntRange(1, level.Count).Draw(t, "level")),
		)
		aim := rapid.Float64Range(MinAim, MaxAim).Draw(t, "aim")
		hold := rapid.IntRange(0, 160).Draw(t, "hold")
		g.Start()

		playerHP, aiHP := g.playerHP, g.aiHP
		held := 0
		for range 6000 {
			if g.state != StatePlaying {
				break
			}
			if g.turn == TurnPlayer {
				if !g.charging {
					g.Aim(aim - g.aim)
					g.ToggleCharge()
					held = 0
				} else if held >= hold {
					g.ToggleCharge()
				}
				held++
			}

			flying := g.turn == TurnAnimating
			shooter := g.arrow.Owner
			g.Tick(frame)

			if g.arrow.Bounces > object.MaxBounces {
				t.Fatalf("bounces = %d", g.arrow.Bounces)
			}
			if flying && !g.arrow.Active {
				want := TurnAI
				if shooter == object.SideAI {
					want = TurnPlayer
				}
				if g.turn != want {
					t.Fatalf("turn after %v shot = %v, want %v", shooter, g.turn, want)
				}
			}
			if g.playerHP > playerHP || g.aiHP > aiHP {
				t.Fatalf("hp went up: player %d->%d ai %d->%d", playerHP, g.playerHP, aiHP, g.aiHP)
			}
			if g.playerHP < 0 || g.aiHP < 0 {
				t.Fatalf("negative hp")
			}
			playerHP, aiHP = g.playerHP, g.aiHP
		}
	})
}
