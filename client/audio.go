package main

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

const sampleRate = beep.SampleRate(44100)

// tone is a short sine cue
type tone struct {
	freq   float64
	length time.Duration
	volume float64 // log2 gain
}

var cueTones = map[game.EventKind]tone{
	game.EventHit:       {freq: 440, length: 50 * time.Millisecond, volume: -2},
	game.EventDestroyed: {freq: 110, length: 300 * time.Millisecond, volume: -1},
	game.EventPowerUp:   {freq: 880, length: 120 * time.Millisecond, volume: -2},
	game.EventLaser:     {freq: 220, length: 400 * time.Millisecond, volume: -1.5},
	game.EventRoundOver: {freq: 660, length: 200 * time.Millisecond, volume: -1.5},
	game.EventMatchOver: {freq: 523, length: 600 * time.Millisecond, volume: -1},
}

// Audio plays presentation cues through the speaker. It stays silent when
// muted or when no audio device is available.
type Audio struct {
	mu      sync.Mutex
	enabled bool
	played  int
}

// NewAudio initialises the speaker unless mute is set
func NewAudio(mute bool) *Audio {
	a := &Audio{}
	if mute {
		return a
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		// Non-fatal, the game runs without sound
		log.Warn("audio disabled", "error", err)
		return a
	}
	a.enabled = true
	return a
}

// Enabled reports whether cues reach the speaker
func (a *Audio) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// Cue plays the tone for e, if it has one
func (a *Audio) Cue(e game.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.enabled {
		return
	}
	s, ok := cueStreamer(e.Kind)
	if !ok {
		return
	}
	a.played++
	speaker.Play(s)
}

func cueStreamer(kind game.EventKind) (beep.Streamer, bool) {
	t, ok := cueTones[kind]
	if !ok {
		return nil, false
	}
	sine, err := generators.SineTone(sampleRate, t.freq)
	if err != nil {
		return nil, false
	}
	n := sampleRate.N(t.length)
	shaped := &fadeOut{Streamer: beep.Take(n, sine), total: n}
	return &effects.Volume{Streamer: shaped, Base: 2, Volume: t.volume}, true
}

// fadeOut ramps the volume linearly to zero over total samples
type fadeOut struct {
	beep.Streamer
	total int
	pos   int
}

func (f *fadeOut) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1 - float64(f.pos)/float64(f.total)
		if gain < 0 {
			gain = 0
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.pos++
	}
	return n, ok
}

// cues fans presentation events out to several sinks
type cues []game.CueSink

func (c cues) Cue(e game.Event) {
	for _, s := range c {
		if s != nil {
			s.Cue(e)
		}
	}
}

// cueLog records cues at debug level
type cueLog struct{}

func (cueLog) Cue(e game.Event) {
	log.Debug("cue", "kind", e.Kind, "team", e.Team, "message", e.Message)
}
