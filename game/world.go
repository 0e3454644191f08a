package game

import (
	"math"
	"math/rand"
	"time"
)

const (
	TickRate     = 60 // simulation ticks per second
	TickDuration = time.Second / TickRate
)

// Config tunes the simulation. A zero chance disables that spawn.
type Config struct {
	Width         float64
	Height        float64
	PowerUpChance float64
	MaxPowerUps   int
	MeteorChance  float64
	LaserChance   float64
	StartLives    int
	AutoFire      bool
	Seed          int64
}

// DefaultConfig returns the standard playfield and spawn rates
func DefaultConfig() Config {
	return Config{
		Width:         1280,
		Height:        720,
		PowerUpChance: 0.015,
		MaxPowerUps:   5,
		MeteorChance:  0.02,
		LaserChance:   0.004,
		StartLives:    StartLives,
		AutoFire:      true,
		Seed:          time.Now().UnixNano(),
	}
}

// World owns every entity collection of one match
type World struct {
	cfg Config
	rng *rand.Rand

	Tanks     [2]*Tank
	Bullets   []*Bullet
	PowerUps  []*PowerUp
	Meteors   []*Meteor
	Effects   []*BoomEffect
	MiniTanks []*MiniTank
	Lasers    []*LaserHazard
	Match     Match
	Tick      int

	ai     []*AIEngine
	events []Event
}

// NewWorld creates a world with both tanks at their round-start positions
func NewWorld(cfg Config, red, blue Control) *World {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		def := DefaultConfig()
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	w := &World{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		Match: NewMatch(cfg.StartLives),
	}
	w.Tanks[TeamRed] = NewTank(0, 0, 0, TeamRed, red)
	w.Tanks[TeamBlue] = NewTank(0, 0, 0, TeamBlue, blue)
	w.ResetRound()
	return w
}

// Config returns the configuration the world was created with
func (w *World) Config() Config {
	return w.cfg
}

// Tank returns the tank of team
func (w *World) Tank(team Team) *Tank {
	return w.Tanks[team]
}

// AttachAI registers an engine that is consulted at the start of each step
func (w *World) AttachAI(e *AIEngine) {
	w.ai = append(w.ai, e)
}

// StartPosition returns where team's tank begins each round
func (w *World) StartPosition(team Team) (x, y, angle float64) {
	if team == TeamRed {
		return w.cfg.Width * 0.25, w.cfg.Height * 0.5, math.Pi
	}
	return w.cfg.Width * 0.75, w.cfg.Height * 0.5, 0
}

// ResetRound restores both tanks and clears round-scoped entities.
// Lives and round number are kept.
func (w *World) ResetRound() {
	for _, team := range Teams {
		x, y, a := w.StartPosition(team)
		w.Tanks[team].Reset(x, y, a)
	}
	w.Bullets = nil
	w.PowerUps = nil
	w.MiniTanks = nil
	w.Lasers = nil
}

// ResetMatch restores lives and round number and starts a fresh round
func (w *World) ResetMatch() {
	w.Match.Reset()
	w.ResetRound()
}

// Acknowledge skips the round-over message, or ends the match-over
// screen by resetting the whole match
func (w *World) Acknowledge() {
	switch w.Match.Phase {
	case PhaseRoundOver:
		w.Match.StartCountdown()
	case PhaseMatchOver:
		w.ResetMatch()
	}
}

// DrainEvents returns and clears the events recorded since the last call
func (w *World) DrainEvents() []Event {
	ev := w.events
	w.events = nil
	return ev
}

func (w *World) emit(e Event) {
	w.events = append(w.events, e)
}

// Step advances the world one tick. While the match is paused only the
// round/match timers move.
func (w *World) Step() {
	w.Tick++
	if !w.Match.Running() {
		if w.Match.Advance() {
			w.ResetRound()
		}
		return
	}

	for _, e := range w.ai {
		e.Update(w)
	}

	w.spawn()

	w.PowerUps = prune(w.PowerUps, (*PowerUp).Update)

	for _, t := range w.Tanks {
		t.Update(w)
	}

	w.Bullets = prune(w.Bullets, func(b *Bullet) bool {
		return b.Update(w.cfg.Width, w.cfg.Height)
	})
	w.collideBulletsTanks()

	w.collectPowerUps()

	w.Meteors = prune(w.Meteors, func(m *Meteor) bool {
		return m.Update(w.cfg.Width, w.cfg.Height)
	})
	w.collideMeteors()

	w.Effects = prune(w.Effects, (*BoomEffect).Update)

	w.MiniTanks = prune(w.MiniTanks, func(m *MiniTank) bool {
		return m.Update(w)
	})
	w.collideBulletsMiniTanks()

	w.Lasers = prune(w.Lasers, func(l *LaserHazard) bool {
		alive, started := l.Update()
		if started {
			w.emit(Event{Kind: EventLaser, X: l.X})
		}
		return alive
	})
	w.fireLasers()
}

func (w *World) spawn() {
	c := w.cfg
	if c.PowerUpChance > 0 && w.rng.Float64() < c.PowerUpChance && len(w.PowerUps) < c.MaxPowerUps {
		kind := PowerUpKinds[w.rng.Intn(len(PowerUpKinds))]
		x := w.rng.Float64()*(c.Width-2*PowerUpMargin) + PowerUpMargin
		y := w.rng.Float64()*(c.Height-2*PowerUpMargin) + PowerUpMargin
		w.PowerUps = append(w.PowerUps, NewPowerUp(x, y, kind))
	}
	if c.MeteorChance > 0 && w.rng.Float64() < c.MeteorChance {
		x := w.rng.Float64()*(c.Width-2*MeteorMargin) + MeteorMargin
		speed := MeteorMinSpeed + w.rng.Float64()*(MeteorMaxSpeed-MeteorMinSpeed)
		radius := MeteorMinRadius + w.rng.Float64()*(MeteorMaxRadius-MeteorMinRadius)
		vx := MeteorMinDrift + w.rng.Float64()*(MeteorMaxDrift-MeteorMinDrift)
		w.Meteors = append(w.Meteors, NewMeteor(x, MeteorSpawnY, speed, vx, radius))
	}
	if c.LaserChance > 0 && w.rng.Float64() < c.LaserChance {
		x := w.rng.Float64()*(c.Width-2*LaserMargin) + LaserMargin
		w.Lasers = append(w.Lasers, NewLaser(x))
	}
}

// damage applies d to t and runs the destruction path when it crosses zero
func (w *World) damage(t *Tank, d int, boomColor string) {
	w.emit(Event{Kind: EventHit, Team: t.Team, X: t.X, Y: t.Y})
	if !t.TakeDamage(d) {
		return
	}
	w.Effects = append(w.Effects, NewBoom(t.X, t.Y, boomColor))
	w.emit(Event{Kind: EventDestroyed, Team: t.Team, X: t.X, Y: t.Y})
	if !w.Match.Running() {
		return
	}
	if w.Match.LoseLife(t.Team) {
		w.emit(Event{Kind: EventMatchOver, Team: w.Match.Winner(), Message: w.Match.Message})
	} else {
		w.emit(Event{Kind: EventRoundOver, Team: t.Team.Opponent(), Message: w.Match.Message})
	}
}

func (w *World) collideBulletsTanks() {
	w.Bullets = prune(w.Bullets, func(b *Bullet) bool {
		for _, t := range w.Tanks {
			if b.Team == t.Team {
				continue
			}
			if Overlaps(b.X, b.Y, b.Radius, t.X, t.Y, t.Radius) {
				w.damage(t, b.Damage, ColorBoom)
				return false
			}
		}
		return true
	})
}

func (w *World) collectPowerUps() {
	for _, t := range w.Tanks {
		w.PowerUps = prune(w.PowerUps, func(p *PowerUp) bool {
			if !Overlaps(t.X, t.Y, t.Radius, p.X, p.Y, p.Radius) {
				return true
			}
			if p.Kind == PowerUpMiniTank {
				w.spawnMiniTanks(t)
			} else {
				p.Apply(t)
			}
			w.emit(Event{Kind: EventPowerUp, Team: t.Team, X: p.X, Y: p.Y, Message: p.Kind.String()})
			return false
		})
	}
}

func (w *World) spawnMiniTanks(owner *Tank) {
	target := w.Tanks[owner.Team.Opponent()]
	for i := 0; i < MiniTankSquad; i++ {
		offset := float64(i-1) * MiniTankSpacing
		w.MiniTanks = append(w.MiniTanks, NewMiniTank(owner.X+offset, owner.Y, owner.Team, target))
	}
}

func (w *World) collideMeteors() {
	w.Meteors = prune(w.Meteors, func(m *Meteor) bool {
		for _, t := range w.Tanks {
			if Overlaps(m.X, m.Y, m.Radius, t.X, t.Y, t.Radius) {
				m.Active = false
				w.Effects = append(w.Effects, NewBoom(m.X, m.Y, ColorBoom))
				w.damage(t, m.Damage, ColorBoom)
				return false
			}
		}
		return true
	})
}

func (w *World) collideBulletsMiniTanks() {
	for _, m := range w.MiniTanks {
		w.Bullets = prune(w.Bullets, func(b *Bullet) bool {
			if b.Team == m.Owner || m.Expired() {
				return true
			}
			if !Overlaps(b.X, b.Y, b.Radius, m.X, m.Y, m.Radius) {
				return true
			}
			m.Hit(b.Damage)
			w.emit(Event{Kind: EventHit, Team: m.Owner, X: m.X, Y: m.Y})
			if m.Expired() {
				w.emit(Event{Kind: EventDestroyed, Team: m.Owner, X: m.X, Y: m.Y})
			}
			return false
		})
	}
	w.MiniTanks = prune(w.MiniTanks, func(m *MiniTank) bool { return !m.Expired() })
}

func (w *World) fireLasers() {
	for _, l := range w.Lasers {
		if l.State != LaserFiring {
			continue
		}
		for _, t := range w.Tanks {
			if !l.Covers(t.X) || !l.TryDamage(t.Team) {
				continue
			}
			w.Effects = append(w.Effects, NewBoom(t.X, t.Y, ColorLaser))
			w.damage(t, l.Damage, ColorLaser)
		}
	}
}

// prune keeps the items for which keep returns true, reusing the backing array
func prune[T any](items []T, keep func(T) bool) []T {
	n := 0
	for _, it := range items {
		if keep(it) {
			items[n] = it
			n++
		}
	}
	var zero T
	for i := n; i < len(items); i++ {
		items[i] = zero
	}
	return items[:n]
}
