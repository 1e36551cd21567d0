package game

import (
	"github.com/tomz197/archers/internal/object"
	"github.com/tomz197/archers/internal/physics"
)

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=./mocks/game_mock.go -package=mocks . Sound,Hooks

// Tone is one of the sound cues of a duel.
type Tone int

const (
	ToneDraw    Tone = iota // player starts charging
	ToneRelease             // any arrow leaves the bow
	ToneHit                 // an archer is hit
	ToneDamage              // an arrow bounces or sticks in terrain
	ToneWin
	ToneLose
)

func (t Tone) String() string {
	switch t {
	case ToneDraw:
		return "draw"
	case ToneRelease:
		return "release"
	case ToneHit:
		return "hit"
	case ToneDamage:
		return "damage"
	case ToneWin:
		return "win"
	case ToneLose:
		return "lose"
	default:
		return "unknown"
	}
}

// Sound plays tones. Implementations must not block the game loop.
type Sound interface {
	Play(tone Tone)
}

// NopSound discards every tone.
type NopSound struct{}

func (NopSound) Play(Tone) {}

// Hooks receive feedback events from a running game. They are called on the
// goroutine that calls Game.Tick and must return quickly.
type Hooks interface {
	OnHit(target object.Side, damage int)
	OnShotFired(pos, vel physics.Vec2)
	OnBounce(pos physics.Vec2)
	OnStateChange(from, to State)
}

// NopHooks ignores every event.
type NopHooks struct{}

func (NopHooks) OnHit(object.Side, int)                 {}
func (NopHooks) OnShotFired(physics.Vec2, physics.Vec2) {}
func (NopHooks) OnBounce(physics.Vec2)                  {}
func (NopHooks) OnStateChange(State, State)             {}
