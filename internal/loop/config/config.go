// Package config centralizes the tunable parameters of the terminal loop.
// Physics and rules live with the game itself.
package config

import "time"

// View resolution. The canvas maps the whole 1200x600 field onto this many
// logical units before scaling to the terminal.
const (
	ViewWidth  = 1200
	ViewHeight = 600
)

// Render area limits. Larger terminals get a centered, bordered field.
const (
	MinTermWidth  = 60
	MinTermHeight = 20
	MaxTermWidth  = 160
	MaxTermHeight = 48
)

// Player
const (
	AimStep           = 1.0 // degrees per aim keystroke, like one wheel notch
	MaxUsernameLength = 16
)

// Feedback effects
const (
	HitParticles    = 24
	HitSpeed        = 180.0 // logical units per second
	HitLifetime     = 0.8   // seconds
	BounceParticles = 8
	BounceSpeed     = 90.0
	BounceLifetime  = 0.4
	MaxParticles    = 256
)

// Leaderboard
const (
	LeaderboardSize   = 10
	LeaderboardQueue  = 64
	LeaderboardWrite  = 2 * time.Second // per-record storage timeout
	LeaderboardReload = 30 * time.Second
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
)
