package netsync

import "github.com/nguyenphuquang1234567/Tank-Battle-Game/game"

// Mirror is the viewer's copy of the authoritative world. It is rebuilt
// from snapshots and never simulated.
type Mirror struct {
	World *game.World
	Local game.Team

	prev    Snapshot
	hasPrev bool
}

// NewMirror creates a mirror whose local tank reads ctl for prediction
func NewMirror(cfg game.Config, local game.Team, ctl game.Control) *Mirror {
	var red, blue game.Control
	if local == game.TeamRed {
		red = ctl
	} else {
		blue = ctl
	}
	return &Mirror{World: game.NewWorld(cfg, red, blue), Local: local}
}

// Ready reports whether at least one snapshot has been applied
func (m *Mirror) Ready() bool {
	return m.hasPrev
}

// Apply diffs s against the previous snapshot to produce presentation
// cues, then rebuilds the mirror from it. Tanks are updated in place with
// their authoritative pose stored as the interpolation target. All other
// collections are replaced.
func (m *Mirror) Apply(s Snapshot) []game.Event {
	var cues []game.Event
	if m.hasPrev {
		cues = diff(m.prev, s)
	}

	w := m.World
	for i, tt := range s.T {
		t := w.Tanks[i]
		t.TargetX, t.TargetY, t.TargetAngle = tt.X, tt.Y, tt.Angle
		if !t.HasTarget {
			t.X, t.Y, t.Angle = tt.X, tt.Y, tt.Angle
			t.HasTarget = true
		}
		t.Health = tt.Health
		t.MaxHealth = tt.MaxHealth
		t.SpeedBoost = tt.SpeedBoost
		t.RapidFire = tt.RapidFire
		t.Shield = tt.Shield
		t.Multishot = tt.Multishot
		t.FlashTimer = tt.FlashTimer
		if t.SpeedBoost > 0 {
			t.Speed = t.BaseSpeed * 2
		} else {
			t.Speed = t.BaseSpeed
		}
	}

	w.Bullets = make([]*game.Bullet, 0, len(s.B))
	for _, b := range s.B {
		team, _ := game.TeamForColor(b.Color)
		w.Bullets = append(w.Bullets, game.NewBullet(b.X, b.Y, b.VX, b.VY, team, b.Color, b.Damage))
	}

	w.PowerUps = make([]*game.PowerUp, 0, len(s.P))
	for _, p := range s.P {
		kind, _ := game.ParsePowerUpKind(p.Kind)
		pu := game.NewPowerUp(p.X, p.Y, kind)
		pu.Life = p.Life
		w.PowerUps = append(w.PowerUps, pu)
	}

	w.Meteors = make([]*game.Meteor, 0, len(s.M))
	for _, mt := range s.M {
		met := game.NewMeteor(mt.X, mt.Y, mt.Speed, 0, mt.Radius)
		met.Damage = mt.Damage
		met.Active = mt.Active
		w.Meteors = append(w.Meteors, met)
	}

	w.Effects = make([]*game.BoomEffect, 0, len(s.E))
	for _, e := range s.E {
		w.Effects = append(w.Effects, &game.BoomEffect{
			X: e.X, Y: e.Y, Radius: e.Radius, MaxRadius: e.MaxRadius,
			Alpha: e.Alpha, Color: e.Color, Done: e.Done,
		})
	}

	w.MiniTanks = make([]*game.MiniTank, 0, len(s.MT))
	for _, mt := range s.MT {
		owner, _ := game.TeamForColor(mt.Color)
		var target *game.Tank
		if team, ok := game.TeamForColor(mt.TargetColor); ok {
			target = w.Tanks[team]
		}
		u := game.NewMiniTank(mt.X, mt.Y, owner, target)
		u.Angle = mt.Angle
		u.Color = mt.Color
		u.Health = mt.Health
		u.Lifetime = mt.Lifetime
		w.MiniTanks = append(w.MiniTanks, u)
	}

	w.Lasers = make([]*game.LaserHazard, 0, len(s.LH))
	for _, lt := range s.LH {
		l := game.NewLaser(lt.X)
		l.State, _ = game.ParseLaserState(lt.State)
		l.Timer = lt.Timer
		w.Lasers = append(w.Lasers, l)
	}

	w.Match = s.L.Match()

	m.prev = s
	m.hasPrev = true
	return cues
}

// diff derives sound cues from two consecutive snapshots
func diff(prev, cur Snapshot) []game.Event {
	var cues []game.Event
	for i := range cur.T {
		if i >= len(prev.T) {
			break
		}
		team := game.Teams[i]
		was, now := prev.T[i].Health, cur.T[i].Health
		if now < was {
			cues = append(cues, game.Event{Kind: game.EventHit, Team: team, X: cur.T[i].X, Y: cur.T[i].Y})
		}
		if now <= 0 && was > 0 {
			cues = append(cues, game.Event{Kind: game.EventDestroyed, Team: team, X: cur.T[i].X, Y: cur.T[i].Y})
		}
	}
	if len(cur.P) < len(prev.P) {
		cues = append(cues, game.Event{Kind: game.EventPowerUp})
	}
	if firing(cur.LH) > firing(prev.LH) {
		cues = append(cues, game.Event{Kind: game.EventLaser})
	}
	if prev.L.Running && !cur.L.Running {
		kind := game.EventRoundOver
		if cur.L.Match().Phase == game.PhaseMatchOver {
			kind = game.EventMatchOver
		}
		winner := game.TeamRed
		if cur.L.RedLives < prev.L.RedLives {
			winner = game.TeamBlue
		}
		cues = append(cues, game.Event{Kind: kind, Team: winner, Message: cur.L.Message})
	}
	return cues
}

func firing(lasers []LaserTuple) int {
	n := 0
	for _, l := range lasers {
		if l.State == game.LaserFiring.String() {
			n++
		}
	}
	return n
}
