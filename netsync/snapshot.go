// Package netsync carries the authoritative world to the viewer: snapshot
// capture and wire encoding, the viewer-side mirror, and the interpolation
// used to render it smoothly.
package netsync

import (
	"errors"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

// ErrCorruptSnapshot is returned for snapshots that fail to decode or validate
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Tuples encode as positional msgpack arrays. Field order is part of the
// wire contract.

type TankTuple struct {
	_msgpack   struct{} `msgpack:",as_array"`
	X          float64
	Y          float64
	Angle      float64
	Color      string
	Health     int
	MaxHealth  int
	SpeedBoost int
	RapidFire  int
	Shield     int
	Multishot  int
	FlashTimer int
}

type BulletTuple struct {
	_msgpack struct{} `msgpack:",as_array"`
	X        float64
	Y        float64
	VX       float64
	VY       float64
	Color    string
	Damage   int
}

type PowerUpTuple struct {
	_msgpack struct{} `msgpack:",as_array"`
	X        float64
	Y        float64
	Kind     string
	Life     int
}

type MeteorTuple struct {
	_msgpack struct{} `msgpack:",as_array"`
	X        float64
	Y        float64
	Speed    float64
	Radius   float64
	Damage   int
	Active   bool
}

type EffectTuple struct {
	_msgpack  struct{} `msgpack:",as_array"`
	X         float64
	Y         float64
	Radius    float64
	MaxRadius float64
	Alpha     float64
	Color     string
	Done      bool
}

type MiniTankTuple struct {
	_msgpack    struct{} `msgpack:",as_array"`
	X           float64
	Y           float64
	Angle       float64
	Color       string
	Health      int
	Lifetime    int
	TargetColor string
}

type MatchTuple struct {
	_msgpack       struct{} `msgpack:",as_array"`
	RedLives       int
	BlueLives      int
	Round          int
	Running        bool
	Message        string
	MessageTimer   int
	Countdown      bool
	CountdownValue int
	CountdownTimer int
}

type LaserTuple struct {
	_msgpack struct{} `msgpack:",as_array"`
	X        float64
	State    string
	Timer    int
}

// Snapshot is one full copy of the authoritative world
type Snapshot struct {
	T  []TankTuple     `msgpack:"t"`
	B  []BulletTuple   `msgpack:"b"`
	P  []PowerUpTuple  `msgpack:"p"`
	M  []MeteorTuple   `msgpack:"m"`
	E  []EffectTuple   `msgpack:"e"`
	MT []MiniTankTuple `msgpack:"mt"`
	L  MatchTuple      `msgpack:"l"`
	LH []LaserTuple    `msgpack:"lh"`
}

// MatchTupleOf flattens match state into its wire tuple
func MatchTupleOf(m game.Match) MatchTuple {
	return MatchTuple{
		RedLives:       m.Lives[game.TeamRed],
		BlueLives:      m.Lives[game.TeamBlue],
		Round:          m.Round,
		Running:        m.Phase == game.PhaseRunning,
		Message:        m.Message,
		MessageTimer:   m.MessageTimer,
		Countdown:      m.Phase == game.PhaseCountdown,
		CountdownValue: m.CountdownValue,
		CountdownTimer: m.CountdownTimer,
	}
}

// Match rebuilds match state from the tuple
func (l MatchTuple) Match() game.Match {
	return game.MatchFromFields(l.RedLives, l.BlueLives, l.Round, l.Running, l.Message,
		l.MessageTimer, l.Countdown, l.CountdownValue, l.CountdownTimer)
}

// Capture copies the world into a snapshot. Bullet trails and meteor drift
// are not carried.
func Capture(w *game.World) Snapshot {
	s := Snapshot{
		T:  make([]TankTuple, 0, len(w.Tanks)),
		B:  make([]BulletTuple, 0, len(w.Bullets)),
		P:  make([]PowerUpTuple, 0, len(w.PowerUps)),
		M:  make([]MeteorTuple, 0, len(w.Meteors)),
		E:  make([]EffectTuple, 0, len(w.Effects)),
		MT: make([]MiniTankTuple, 0, len(w.MiniTanks)),
		L:  MatchTupleOf(w.Match),
		LH: make([]LaserTuple, 0, len(w.Lasers)),
	}
	for _, t := range w.Tanks {
		s.T = append(s.T, TankTuple{
			X: t.X, Y: t.Y, Angle: t.Angle, Color: t.Color(),
			Health: t.Health, MaxHealth: t.MaxHealth,
			SpeedBoost: t.SpeedBoost, RapidFire: t.RapidFire, Shield: t.Shield, Multishot: t.Multishot,
			FlashTimer: t.FlashTimer,
		})
	}
	for _, b := range w.Bullets {
		s.B = append(s.B, BulletTuple{X: b.X, Y: b.Y, VX: b.VX, VY: b.VY, Color: b.Color, Damage: b.Damage})
	}
	for _, p := range w.PowerUps {
		s.P = append(s.P, PowerUpTuple{X: p.X, Y: p.Y, Kind: p.Kind.String(), Life: p.Life})
	}
	for _, m := range w.Meteors {
		s.M = append(s.M, MeteorTuple{X: m.X, Y: m.Y, Speed: m.Speed, Radius: m.Radius, Damage: m.Damage, Active: m.Active})
	}
	for _, e := range w.Effects {
		s.E = append(s.E, EffectTuple{X: e.X, Y: e.Y, Radius: e.Radius, MaxRadius: e.MaxRadius, Alpha: e.Alpha, Color: e.Color, Done: e.Done})
	}
	for _, m := range w.MiniTanks {
		target := ""
		if m.Target != nil {
			target = m.Target.Color()
		}
		s.MT = append(s.MT, MiniTankTuple{
			X: m.X, Y: m.Y, Angle: m.Angle, Color: m.Color,
			Health: m.Health, Lifetime: m.Lifetime, TargetColor: target,
		})
	}
	for _, l := range w.Lasers {
		s.LH = append(s.LH, LaserTuple{X: l.X, State: l.State.String(), Timer: l.Timer})
	}
	return s
}

// Encode serializes a snapshot
func Encode(s Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and validates a snapshot
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Validate rejects snapshots the mirror could not apply safely
func (s *Snapshot) Validate() error {
	if len(s.T) != len(game.Teams) {
		return fmt.Errorf("%w: %d tanks", ErrCorruptSnapshot, len(s.T))
	}
	for i, t := range s.T {
		if t.Color != game.Teams[i].Color() {
			return fmt.Errorf("%w: tank %d color %q", ErrCorruptSnapshot, i, t.Color)
		}
		if !finite(t.X, t.Y, t.Angle) || t.MaxHealth <= 0 {
			return fmt.Errorf("%w: tank %d pose", ErrCorruptSnapshot, i)
		}
	}
	for i, b := range s.B {
		if _, ok := game.TeamForColor(b.Color); !ok || !finite(b.X, b.Y, b.VX, b.VY) {
			return fmt.Errorf("%w: bullet %d", ErrCorruptSnapshot, i)
		}
	}
	for i, p := range s.P {
		if _, ok := game.ParsePowerUpKind(p.Kind); !ok || !finite(p.X, p.Y) {
			return fmt.Errorf("%w: power-up %d kind %q", ErrCorruptSnapshot, i, p.Kind)
		}
	}
	for i, m := range s.M {
		if !finite(m.X, m.Y, m.Speed, m.Radius) {
			return fmt.Errorf("%w: meteor %d", ErrCorruptSnapshot, i)
		}
	}
	for i, e := range s.E {
		if !finite(e.X, e.Y, e.Radius, e.MaxRadius, e.Alpha) {
			return fmt.Errorf("%w: effect %d", ErrCorruptSnapshot, i)
		}
	}
	for i, m := range s.MT {
		if _, ok := game.TeamForColor(m.Color); !ok || !finite(m.X, m.Y, m.Angle) {
			return fmt.Errorf("%w: mini-tank %d", ErrCorruptSnapshot, i)
		}
		if m.TargetColor != "" {
			if _, ok := game.TeamForColor(m.TargetColor); !ok {
				return fmt.Errorf("%w: mini-tank %d target %q", ErrCorruptSnapshot, i, m.TargetColor)
			}
		}
	}
	for i, l := range s.LH {
		if _, ok := game.ParseLaserState(l.State); !ok || !finite(l.X) {
			return fmt.Errorf("%w: laser %d state %q", ErrCorruptSnapshot, i, l.State)
		}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
