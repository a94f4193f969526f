package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveTriangle
)

// oscillator generates a raw wave, optionally sweeping linearly from
// freq to endFreq over its duration
type oscillator struct {
	freq     float64
	endFreq  float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a fixed-pitch oscillator
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator gliding from freq to endFreq
func NewSweep(freq, endFreq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		endFreq:  endFreq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveTriangle:
			val = 1 - 4*math.Abs(o.phase-0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq
		if o.endFreq != o.freq && o.duration > 0 {
			freq += (o.endFreq - o.freq) * float64(o.position) / float64(o.duration)
		}
		o.phase += freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope fades s in over attack and out over release
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = float64(remaining) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly by vol; math.Log2(0) is -Inf so 0 means silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
