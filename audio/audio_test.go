package audio

import (
	"bytes"
	"log"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"gridsnake/game"
)

const testRate = beep.SampleRate(44100)

// drain streams s to completion and returns every left-channel sample
func drain(t *testing.T, s beep.Streamer) []float64 {
	t.Helper()
	var out []float64
	buf := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for j := 0; j < n; j++ {
			out = append(out, buf[j][0])
		}
		if !ok {
			return out
		}
	}
	t.Fatalf("stream never ended")
	return nil
}

func TestOscillatorWaves(t *testing.T) {
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveTriangle} {
		osc := NewOscillator(440, 50*time.Millisecond, wave, testRate)
		samples := drain(t, osc)
		if len(samples) != testRate.N(50*time.Millisecond) {
			t.Errorf("wave %d: expected %d samples, got %d", wave, testRate.N(50*time.Millisecond), len(samples))
		}
		for i, v := range samples {
			if v < -1.0 || v > 1.0 {
				t.Fatalf("wave %d: sample %d out of range: %f", wave, i, v)
			}
		}
		if osc.Err() != nil {
			t.Errorf("Expected no error, got: %v", osc.Err())
		}
	}
}

func TestSquareWaveIsBinary(t *testing.T) {
	for i, v := range drain(t, NewOscillator(220, 20*time.Millisecond, WaveSquare, testRate)) {
		if v != -1.0 && v != 1.0 {
			t.Fatalf("Square wave sample %d should be -1.0 or 1.0, got %f", i, v)
		}
	}
}

// zeroCrossings counts sign changes from negative to non-negative
func zeroCrossings(samples []float64) int {
	n := 0
	for i := 1; i < len(samples); i++ {
		if samples[i-1] < 0 && samples[i] >= 0 {
			n++
		}
	}
	return n
}

func TestSweepRisesInPitch(t *testing.T) {
	samples := drain(t, NewSweep(440, 880, 400*time.Millisecond, WaveSine, testRate))
	half := len(samples) / 2
	first := zeroCrossings(samples[:half])
	second := zeroCrossings(samples[half:])
	if second <= first {
		t.Errorf("Expected more cycles in the second half, got %d then %d", first, second)
	}
}

func TestEnvelopeShape(t *testing.T) {
	dur := 100 * time.Millisecond
	env := NewEnvelope(NewOscillator(440, dur, WaveSquare, testRate), dur, 10*time.Millisecond, 10*time.Millisecond, testRate)
	samples := drain(t, env)

	if samples[0] != 0 {
		t.Errorf("Expected silent first sample, got %f", samples[0])
	}
	mid := samples[len(samples)/2]
	if math.Abs(mid) != 1.0 {
		t.Errorf("Expected full level while sustaining, got %f", mid)
	}
	last := samples[len(samples)-1]
	if math.Abs(last) > 0.01 {
		t.Errorf("Expected release to fade out, got %f", last)
	}
}

func TestCreateSoundDurations(t *testing.T) {
	cases := map[SoundType]time.Duration{
		SoundStart:    200 * time.Millisecond,
		SoundEat:      100 * time.Millisecond,
		SoundLevelUp:  300 * time.Millisecond,
		SoundMove:     50 * time.Millisecond,
		SoundPause:    200 * time.Millisecond,
		SoundGameOver: 500 * time.Millisecond,
		SoundWin:      450 * time.Millisecond,
	}
	for sound, want := range cases {
		s := CreateSound(sound, testRate, 1)
		if s == nil {
			t.Fatalf("%v: no streamer", sound)
		}
		if got := len(drain(t, s)); got != testRate.N(want) {
			t.Errorf("%v: expected %d samples, got %d", sound, testRate.N(want), got)
		}
	}
	if CreateSound(SoundType(99), testRate, 1) != nil {
		t.Errorf("Expected nil for unknown sound")
	}
}

func TestMasterVolumeZeroIsSilent(t *testing.T) {
	for _, v := range drain(t, CreateSound(SoundEat, testRate, 0)) {
		if v != 0 {
			t.Fatalf("Expected silence, got %f", v)
		}
	}
}

// newTestPlayer returns a player that records sounds instead of using the
// speaker
func newTestPlayer() (*Player, *int) {
	p := NewPlayer(log.New(&bytes.Buffer{}, "", 0))
	p.initialized = true
	count := 0
	p.play = func(s ...beep.Streamer) { count += len(s) }
	return p, &count
}

func TestPlayerGating(t *testing.T) {
	p, count := newTestPlayer()

	p.Play(SoundEat)
	if *count != 1 {
		t.Fatalf("Expected 1 sound, got %d", *count)
	}

	p.Play(SoundMove)
	if *count != 1 {
		t.Errorf("Expected move sounds off by default")
	}
	p.SetMoveSounds(true)
	p.Play(SoundMove)
	if *count != 2 {
		t.Errorf("Expected move sound once enabled")
	}

	if p.Toggle() {
		t.Fatalf("Expected Toggle to disable sound")
	}
	p.Play(SoundEat)
	if *count != 2 {
		t.Errorf("Expected no sound while disabled")
	}

	p.SetEnabled(true)
	p.initialized = false
	p.Play(SoundEat)
	if *count != 2 {
		t.Errorf("Expected no sound before Init")
	}
}

func TestSetVolumeClamps(t *testing.T) {
	p, _ := newTestPlayer()
	p.SetVolume(3)
	if p.volume != 1 {
		t.Errorf("Expected volume clamped to 1, got %f", p.volume)
	}
	p.SetVolume(-1)
	if p.volume != 0 {
		t.Errorf("Expected volume clamped to 0, got %f", p.volume)
	}
}

func TestAttachFollowsGameEvents(t *testing.T) {
	p, count := newTestPlayer()
	cfg := game.DefaultConfig()
	cfg.Food.SpecialChance = 0
	g, err := game.New(cfg, game.WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	defer g.Close()

	subs := p.Attach(g)
	g.Start()
	if *count != 1 {
		t.Fatalf("Expected start sound, got %d sounds", *count)
	}
	g.TogglePause()
	if *count != 2 {
		t.Fatalf("Expected pause sound, got %d sounds", *count)
	}

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	g.TogglePause()
	if *count != 2 {
		t.Errorf("Expected no sounds after detaching, got %d", *count)
	}
}
