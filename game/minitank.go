package game

import "math"

const (
	MiniTankRadius      = 12.0
	MiniTankSpeed       = 3.5
	MiniTankHealth      = 200
	MiniTankLifetime    = 600 // ticks, informational
	MiniTankMinDistance = 60.0
	MiniTankCooldown    = 30 // ticks
	MiniTankDecayEvery  = 48 // ticks
	MiniTankDecay       = 5
	MiniBulletSpeed     = 10.0
	MiniBulletDamage    = 7
	MiniTankSquad       = 3
	MiniTankSpacing     = 40.0
)

// MiniTank is an autonomous unit that chases and shoots the opposing tank
type MiniTank struct {
	X, Y       float64
	Angle      float64
	Radius     float64
	Speed      float64
	Health     int
	Owner      Team
	Color      string
	Target     *Tank
	Lifetime   int
	DecayTimer int
	FlashTimer int
	LastShot   int
}

// NewMiniTank creates a unit owned by owner and chasing target
func NewMiniTank(x, y float64, owner Team, target *Tank) *MiniTank {
	return &MiniTank{
		X:        x,
		Y:        y,
		Radius:   MiniTankRadius,
		Speed:    MiniTankSpeed,
		Health:   MiniTankHealth,
		Owner:    owner,
		Color:    owner.MiniColor(),
		Target:   target,
		Lifetime: MiniTankLifetime,
		LastShot: neverShot,
	}
}

// Update chases the target, fires on cooldown, and decays health.
// The unit stays alive while its health is positive, whatever its lifetime.
func (m *MiniTank) Update(w *World) bool {
	if m.Target != nil {
		dx := m.Target.X - m.X
		dy := m.Target.Y - m.Y
		dist := math.Hypot(dx, dy)
		if dist > MiniTankMinDistance {
			m.X += dx / dist * m.Speed
			m.Y += dy / dist * m.Speed
		}
		m.Angle = math.Atan2(dy, dx)

		if w.Tick-m.LastShot > MiniTankCooldown {
			m.shoot(w)
			m.LastShot = w.Tick
		}
	}

	m.Lifetime--
	m.DecayTimer++
	if m.DecayTimer >= MiniTankDecayEvery {
		m.Health = max(m.Health-MiniTankDecay, 0)
		m.DecayTimer = 0
	}
	if m.FlashTimer > 0 {
		m.FlashTimer--
	}
	return !m.Expired()
}

func (m *MiniTank) shoot(w *World) {
	offset := m.Radius + 8
	w.Bullets = append(w.Bullets, NewBullet(
		m.X+math.Cos(m.Angle)*offset,
		m.Y+math.Sin(m.Angle)*offset,
		math.Cos(m.Angle)*MiniBulletSpeed,
		math.Sin(m.Angle)*MiniBulletSpeed,
		m.Owner,
		m.Color,
		MiniBulletDamage,
	))
}

// Hit subtracts bullet damage and starts the flash
func (m *MiniTank) Hit(damage int) {
	m.Health -= damage
	m.FlashTimer = FlashTicks
	if m.Health < 0 {
		m.Health = 0
	}
}

// Expired reports whether the unit should be removed
func (m *MiniTank) Expired() bool {
	return m.Health <= 0
}
