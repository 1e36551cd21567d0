// Package audio plays the duel's tone cues through the system speaker.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Wave is an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Sawtooth
	Triangle
)

// floorGain is where every tone's exponential fade ends.
const floorGain = 0.01

// tone is a single oscillator whose gain ramps exponentially from volume down
// to floorGain over its duration.
type tone struct {
	freq     float64
	wave     Wave
	volume   float64
	phase    float64
	position int
	total    int
	rate     beep.SampleRate
}

// newTone creates a streamer for one note.
func newTone(freq float64, wave Wave, duration time.Duration, volume float64, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:   freq,
		wave:   wave,
		volume: volume,
		total:  rate.N(duration),
		rate:   rate,
	}
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.total {
			return i, i > 0
		}

		val := o.sample() * o.gain()
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }

func (o *tone) sample() float64 {
	switch o.wave {
	case Square:
		if o.phase < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		return 2 * (o.phase - 0.5)
	case Triangle:
		return 1 - 4*math.Abs(o.phase-0.5)
	default:
		return math.Sin(2 * math.Pi * o.phase)
	}
}

func (o *tone) gain() float64 {
	if o.volume <= floorGain || o.total == 0 {
		return o.volume
	}
	t := float64(o.position) / float64(o.total)
	return o.volume * math.Pow(floorGain/o.volume, t)
}
