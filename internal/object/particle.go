package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/archers/internal/physics"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect in field coordinates.
type Particle struct {
	Pos         physics.Vec2
	Vel         physics.Vec2 // field pixels per second
	Lifetime    float64      // seconds remaining
	MaxLifetime float64
	Drag        float64 // velocity kept per 1/60 s (1.0 = no drag)
	Gravity     float64 // field pixels per second²
}

// NewParticle takes a particle from the pool.
func NewParticle(pos, vel physics.Vec2, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		Pos:         pos,
		Vel:         vel,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.95,
	}
	return p
}

// Release returns the particle to the pool. It must not be used afterwards.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Update moves the particle. Returns true once it has expired.
func (p *Particle) Update(dt float64) bool {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	drag := math.Pow(p.Drag, dt*60) // normalised to 60 fps
	p.Vel = p.Vel.Scale(drag)
	p.Vel.Y += p.Gravity * dt
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	return false
}

// Visible reports whether the particle is still bright enough to draw.
func (p *Particle) Visible() bool {
	return p.MaxLifetime <= 0 || p.Lifetime/p.MaxLifetime >= 0.25
}

// SpawnBurst creates count particles flying out of pos in all directions, like
// splinters off a bounce or a hit.
func SpawnBurst(pos physics.Vec2, count int, speed, lifetime float64, rng *rand.Rand) []*Particle {
	out := make([]*Particle, 0, count)
	for range count {
		angle := rng.Float64() * 2 * math.Pi
		spd := speed * (0.5 + rng.Float64())
		life := lifetime * (0.5 + rng.Float64()*0.5)

		p := NewParticle(pos, physics.FromAngle(angle, spd), life)
		p.Gravity = speed
		out = append(out, p)
	}
	return out
}

// SpawnTrail drops a couple of slow particles behind an arrow flying at angle.
func SpawnTrail(pos physics.Vec2, angle float64, rng *rand.Rand) []*Particle {
	count := 1 + rng.Intn(2)
	out := make([]*Particle, 0, count)
	for range count {
		back := angle + math.Pi + (rng.Float64()-0.5)*0.5
		p := NewParticle(pos, physics.FromAngle(back, 20+rng.Float64()*20), 0.1+rng.Float64()*0.15)
		p.Drag = 0.85
		out = append(out, p)
	}
	return out
}
