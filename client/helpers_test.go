package main

import (
	"encoding/json"
	"sync"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
	"github.com/nguyenphuquang1234567/Tank-Battle-Game/netsync"
	"github.com/nguyenphuquang1234567/Tank-Battle-Game/protocol"
)

// quietConfig disables random spawns so tests control every entity
func quietConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.PowerUpChance = 0
	cfg.MeteorChance = 0
	cfg.LaserChance = 0
	cfg.Seed = 1
	return cfg
}

// fakeTransport records what a participant sends
type fakeTransport struct {
	in     chan Inbound
	done   chan struct{}
	latest *netsync.Latest

	mu     sync.Mutex
	text   []protocol.Envelope
	binary [][]byte
	once   sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		in:     make(chan Inbound, 16),
		done:   make(chan struct{}),
		latest: netsync.NewLatest(),
	}
}

func (f *fakeTransport) SendJSON(t string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = append(f.text, protocol.Envelope{T: t, Data: data})
}

func (f *fakeTransport) SendBinary(frame []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.binary = append(f.binary, frame)
}

func (f *fakeTransport) Inbound() <-chan Inbound    { return f.in }
func (f *fakeTransport) Snapshots() *netsync.Latest { return f.latest }
func (f *fakeTransport) Done() <-chan struct{}      { return f.done }
func (f *fakeTransport) Close()                     { f.once.Do(func() { close(f.done) }) }

func (f *fakeTransport) sentText(t string) []protocol.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []protocol.Envelope
	for _, e := range f.text {
		if e.T == t {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeTransport) sentBinary() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.binary...)
}

// fakeUI counts frames and lets tests inject user actions
type fakeUI struct {
	events chan UIEvent
	draws  int
	last   HUD
}

func newFakeUI() *fakeUI {
	return &fakeUI{events: make(chan UIEvent, 16)}
}

func (u *fakeUI) Events() <-chan UIEvent { return u.events }
func (u *fakeUI) Close()                 {}

func (u *fakeUI) Draw(w *game.World, hud HUD) {
	u.draws++
	u.last = hud
}

// recorder collects cues
type recorder struct {
	events []game.Event
}

func (r *recorder) Cue(e game.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) count(kind game.EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// textIn builds an inbound text message as the relay would deliver it
func textIn(t string, data interface{}) Inbound {
	raw, _ := json.Marshal(data)
	return Inbound{Env: protocol.InEnvelope{T: t, D: raw}}
}
