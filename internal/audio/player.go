package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/archers/internal/game"
)

// SampleRate is the speaker sample rate.
const SampleRate = beep.SampleRate(44100)

type note struct {
	freq     float64
	wave     Wave
	duration time.Duration
	volume   float64
	delay    time.Duration
}

// cues lists the notes of every game tone.
var cues = map[game.Tone][]note{
	game.ToneDraw: {
		{freq: 150, wave: Triangle, duration: 500 * time.Millisecond, volume: 0.05},
	},
	game.ToneRelease: {
		{freq: 400, wave: Sine, duration: 100 * time.Millisecond, volume: 0.2},
		{freq: 200, wave: Sawtooth, duration: 50 * time.Millisecond, volume: 0.1},
	},
	game.ToneHit: {
		{freq: 100, wave: Square, duration: 300 * time.Millisecond, volume: 0.3},
		{freq: 50, wave: Sawtooth, duration: 500 * time.Millisecond, volume: 0.2},
	},
	game.ToneDamage: {
		{freq: 220, wave: Sawtooth, duration: 200 * time.Millisecond, volume: 0.15},
	},
	game.ToneWin:  arpeggio([]float64{440, 554, 659, 880}, Sine, 400*time.Millisecond, 150*time.Millisecond),
	game.ToneLose: arpeggio([]float64{440, 349, 293, 220}, Sawtooth, 600*time.Millisecond, 200*time.Millisecond),
}

func arpeggio(freqs []float64, wave Wave, duration, step time.Duration) []note {
	notes := make([]note, len(freqs))
	for i, f := range freqs {
		notes[i] = note{freq: f, wave: wave, duration: duration, volume: 0.1, delay: time.Duration(i) * step}
	}
	return notes
}

// Streamer renders a tone cue at the given sample rate. Unknown tones are silent.
func Streamer(t game.Tone, rate beep.SampleRate) beep.Streamer {
	notes := cues[t]
	if len(notes) == 0 {
		return beep.Silence(0)
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		osc := newTone(n.freq, n.wave, n.duration, n.volume, rate)
		if n.delay > 0 {
			osc = beep.Seq(beep.Silence(rate.N(n.delay)), osc)
		}
		parts = append(parts, osc)
	}
	return beep.Mix(parts...)
}

// Player implements game.Sound on the system speaker. Tones overlap through
// a single mixer so Play never blocks.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	ready  bool
}

var _ game.Sound = (*Player)(nil)

// NewPlayer creates a player with master volume in [0, 1].
func NewPlayer(volume float64) *Player {
	return &Player{mixer: &beep.Mixer{}, volume: volume}
}

// Init opens the speaker. Until it succeeds Play does nothing.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.ready = true
	return nil
}

// Play queues a tone.
func (p *Player) Play(t game.Tone) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready || p.volume <= 0 {
		return
	}
	s := &effects.Volume{Streamer: Streamer(t, SampleRate), Base: 2, Volume: math.Log2(p.volume)}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.ready = false
}
