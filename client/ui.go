package main

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

// UIEventKind is a user intent decoded from the terminal
type UIEventKind int

const (
	UIMove UIEventKind = iota // a movement key went down
	UIRelease                 // a movement key went up
	UIAim
	UIAck
	UIQuit
)

// UIEvent is one decoded user action. X and Y are playfield coordinates.
type UIEvent struct {
	Kind UIEventKind
	Dir  game.Direction
	X, Y float64
}

// HUD is everything drawn around the playfield
type HUD struct {
	Team        game.Team
	Role        string
	Ping        time.Duration
	Status      string
	Invite      string
	Journal     []RoundRecord
	Wins        [2]int
	PeerPointer game.Pointer
}

// UI renders the world and reports user actions
type UI interface {
	Events() <-chan UIEvent
	Draw(w *game.World, hud HUD)
	Close()
}

// applyKeys feeds a movement event into the keyboard record
func applyKeys(keys *game.InputState, ev UIEvent, now time.Time) {
	switch ev.Kind {
	case UIMove:
		keys.Press(ev.Dir, now)
	case UIRelease:
		keys.Set(ev.Dir, false)
	case UIAim:
		keys.SetPointer(ev.X, ev.Y)
	}
}

// Headless replaces the terminal with a periodic status line
type Headless struct {
	every  int
	frames int
	events chan UIEvent
}

// NewHeadless logs one status line every n draws
func NewHeadless(every int) *Headless {
	if every <= 0 {
		every = game.TickRate
	}
	return &Headless{every: every, events: make(chan UIEvent)}
}

func (h *Headless) Events() <-chan UIEvent { return h.events }
func (h *Headless) Close()                 {}

func (h *Headless) Draw(w *game.World, hud HUD) {
	h.frames++
	if h.frames%h.every != 0 {
		return
	}
	m := w.Match
	log.Info("status",
		"tick", w.Tick,
		"phase", m.Phase,
		"round", m.Round,
		"red", m.Lives[game.TeamRed],
		"blue", m.Lives[game.TeamBlue],
		"red_hp", w.Tanks[game.TeamRed].Health,
		"blue_hp", w.Tanks[game.TeamBlue].Health,
		"bullets", len(w.Bullets),
		"ping", hud.Ping,
		"status", hud.Status,
	)
}
