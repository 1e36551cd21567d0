package client

import (
	"time"

	"github.com/tomz197/archers/internal/game"
	"github.com/tomz197/archers/internal/input"
	"github.com/tomz197/archers/internal/object"
)

// popup is a floating damage number above an archer.
type popup struct {
	target object.Side
	text   string
	ttl    float64 // seconds
}

// popupSeconds is how long a damage number stays up.
const popupSeconds = 1.2

// ClientState holds per-connection presentation state. The duel itself lives
// on the server; this is only what the terminal adds on top.
type ClientState struct {
	Input   input.Input
	Running bool

	particles []*object.Particle
	popups    []popup

	delta         time.Duration // Frame delta time (client-side)
	shuttingDown  bool
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool

	// Previous frame's screen, to clear the terminal on transitions.
	prevGameState game.State
	wasInactive   bool
	wasShutdown   bool
	tooSmall      bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running:       true,
		prevGameState: game.StateStart,
	}
}

// addParticles keeps at most limit particles, dropping the oldest.
func (s *ClientState) addParticles(ps []*object.Particle, limit int) {
	s.particles = append(s.particles, ps...)
	if over := len(s.particles) - limit; over > 0 {
		for _, p := range s.particles[:over] {
			p.Release()
		}
		s.particles = append(s.particles[:0], s.particles[over:]...)
	}
}

// updateEffects ages particles and popups by dt seconds.
func (s *ClientState) updateEffects(dt float64) {
	kept := s.particles[:0]
	for _, p := range s.particles {
		if p.Update(dt) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(s.particles[len(kept):])
	s.particles = kept

	popups := s.popups[:0]
	for _, p := range s.popups {
		p.ttl -= dt
		if p.ttl > 0 {
			popups = append(popups, p)
		}
	}
	s.popups = popups
}

// clearEffects releases everything, e.g. when a level ends.
func (s *ClientState) clearEffects() {
	for _, p := range s.particles {
		p.Release()
	}
	s.particles = s.particles[:0]
	s.popups = s.popups[:0]
}
