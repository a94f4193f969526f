package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// SoundType names a game sound
type SoundType int

const (
	SoundStart SoundType = iota
	SoundEat
	SoundLevelUp
	SoundMove
	SoundPause
	SoundGameOver
	SoundWin
)

func (s SoundType) String() string {
	switch s {
	case SoundStart:
		return "start"
	case SoundEat:
		return "eat"
	case SoundLevelUp:
		return "levelUp"
	case SoundMove:
		return "move"
	case SoundPause:
		return "pause"
	case SoundGameOver:
		return "gameOver"
	case SoundWin:
		return "win"
	default:
		return "unknown"
	}
}

type tone struct {
	freq     float64
	endFreq  float64 // 0 keeps freq
	duration time.Duration
	wave     WaveType
	volume   float64
	release  time.Duration
}

const toneAttack = 5 * time.Millisecond

var tones = map[SoundType]tone{
	SoundStart:    {freq: 523, duration: 200 * time.Millisecond, wave: WaveSine, volume: 0.3, release: 60 * time.Millisecond},
	SoundEat:      {freq: 800, duration: 100 * time.Millisecond, wave: WaveSquare, volume: 0.3, release: 30 * time.Millisecond},
	SoundLevelUp:  {freq: 440, endFreq: 880, duration: 300 * time.Millisecond, wave: WaveSine, volume: 0.3, release: 90 * time.Millisecond},
	SoundMove:     {freq: 200, duration: 50 * time.Millisecond, wave: WaveSquare, volume: 0.1, release: 15 * time.Millisecond},
	SoundPause:    {freq: 600, duration: 200 * time.Millisecond, wave: WaveTriangle, volume: 0.2, release: 60 * time.Millisecond},
	SoundGameOver: {freq: 150, duration: 500 * time.Millisecond, wave: WaveSaw, volume: 0.4, release: 495 * time.Millisecond},
}

// CreateSound builds the streamer for one sound at the given master volume
func CreateSound(sound SoundType, rate beep.SampleRate, master float64) beep.Streamer {
	if sound == SoundWin {
		// C5 E5 G5 arpeggio
		notes := make([]beep.Streamer, 0, 3)
		for _, f := range []float64{523.25, 659.25, 783.99} {
			notes = append(notes, build(tone{freq: f, duration: 150 * time.Millisecond, wave: WaveSine, volume: 0.3, release: 50 * time.Millisecond}, rate, master))
		}
		return beep.Seq(notes...)
	}

	t, ok := tones[sound]
	if !ok {
		return nil
	}
	return build(t, rate, master)
}

func build(t tone, rate beep.SampleRate, master float64) beep.Streamer {
	end := t.endFreq
	if end == 0 {
		end = t.freq
	}
	osc := NewSweep(t.freq, end, t.duration, t.wave, rate)
	shaped := NewEnvelope(osc, t.duration, toneAttack, t.release, rate)
	return newVolume(shaped, t.volume*master)
}
