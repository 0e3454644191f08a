package game

import "math"

const (
	TankRadius       = 20.0
	TankMaxHealth    = 2400
	TankBaseSpeed    = 3.0  // units per tick
	TankBulletSpeed  = 12.0 // units per tick
	TankMuzzleOffset = 10.0 // beyond the hull radius
	ShootCooldown    = 12.0 // ticks (200 ms at 60 Hz)
	RapidCooldown    = 7.2  // ticks (120 ms at 60 Hz)
	PowerUpDuration  = 720  // ticks
	RegenInterval    = 240  // ticks
	RegenAmount      = 2
	FlashTicks       = 10
	ShieldFactor     = 0.3
	MultishotSpread  = 0.15 // radians between fan bullets
	speedBoostFactor = 2.0
	neverShot        = -1 << 30
)

// Tank is one of the two combatant units
type Tank struct {
	X, Y      float64
	Angle     float64
	Radius    float64
	Team      Team
	Health    int
	MaxHealth int
	BaseSpeed float64
	Speed     float64

	// Power-up timers, in ticks
	SpeedBoost int
	RapidFire  int
	Shield     int
	Multishot  int

	RegenTimer int
	FlashTimer int
	LastShot   int

	// Latest authoritative pose, used on the mirror side only
	TargetX, TargetY, TargetAngle float64
	HasTarget                     bool

	control Control
}

// NewTank creates a tank at full health bound to its control policy
func NewTank(x, y, angle float64, team Team, control Control) *Tank {
	return &Tank{
		X:         x,
		Y:         y,
		Angle:     angle,
		Radius:    TankRadius,
		Team:      team,
		Health:    TankMaxHealth,
		MaxHealth: TankMaxHealth,
		BaseSpeed: TankBaseSpeed,
		Speed:     TankBaseSpeed,
		LastShot:  neverShot,
		control:   control,
	}
}

// Control returns the policy bound at creation
func (t *Tank) Control() Control {
	return t.control
}

// Color returns the team color
func (t *Tank) Color() string {
	return t.Team.Color()
}

// Cooldown returns the current shoot cooldown in ticks
func (t *Tank) Cooldown() float64 {
	if t.RapidFire > 0 {
		return RapidCooldown
	}
	return ShootCooldown
}

// CanShoot reports whether the cooldown has elapsed at tick
func (t *Tank) CanShoot(tick int) bool {
	return float64(tick-t.LastShot) > t.Cooldown()
}

// Update advances the tank one tick on the authoritative side
func (t *Tank) Update(w *World) {
	t.tickTimers()

	var in Input
	var p Pointer
	if t.control != nil {
		in = t.control.Input()
		p = t.control.Pointer()
	}
	t.Move(in, w.cfg.Width, w.cfg.Height)
	t.Aim(p)

	if w.cfg.AutoFire || in.Fire {
		t.Shoot(w)
	}
	if t.FlashTimer > 0 {
		t.FlashTimer--
	}
}

func (t *Tank) tickTimers() {
	if t.SpeedBoost > 0 {
		t.SpeedBoost--
		t.Speed = t.BaseSpeed * speedBoostFactor
	} else {
		t.Speed = t.BaseSpeed
	}
	if t.RapidFire > 0 {
		t.RapidFire--
	}
	if t.Shield > 0 {
		t.Shield--
	}
	if t.Multishot > 0 {
		t.Multishot--
	}

	t.RegenTimer++
	if t.RegenTimer >= RegenInterval && t.Health < t.MaxHealth {
		t.Health += RegenAmount
		if t.Health > t.MaxHealth {
			t.Health = t.MaxHealth
		}
		t.RegenTimer = 0
	}
}

// Move applies one tick of movement and keeps the hull inside the playfield
func (t *Tank) Move(in Input, width, height float64) {
	if in.Up {
		t.Y -= t.Speed
	}
	if in.Down {
		t.Y += t.Speed
	}
	if in.Left {
		t.X -= t.Speed
	}
	if in.Right {
		t.X += t.Speed
	}
	t.X = Clamp(t.X, t.Radius, width-t.Radius)
	t.Y = Clamp(t.Y, t.Radius, height-t.Radius)
}

// Aim turns the barrel toward the pointer, if there is one
func (t *Tank) Aim(p Pointer) {
	if !p.Valid {
		return
	}
	t.Angle = math.Atan2(p.Y-t.Y, p.X-t.X)
}

// Shoot fires one bullet, or a three-bullet fan under multishot, if the
// cooldown allows. It returns the number of bullets spawned.
func (t *Tank) Shoot(w *World) int {
	if !t.CanShoot(w.Tick) {
		return 0
	}
	n := 0
	if t.Multishot > 0 {
		for i := -1; i <= 1; i++ {
			w.Bullets = append(w.Bullets, t.bullet(t.Angle+float64(i)*MultishotSpread))
			n++
		}
	} else {
		w.Bullets = append(w.Bullets, t.bullet(t.Angle))
		n++
	}
	t.LastShot = w.Tick
	return n
}

func (t *Tank) bullet(angle float64) *Bullet {
	offset := t.Radius + TankMuzzleOffset
	return NewBullet(
		t.X+math.Cos(angle)*offset,
		t.Y+math.Sin(angle)*offset,
		math.Cos(angle)*TankBulletSpeed,
		math.Sin(angle)*TankBulletSpeed,
		t.Team,
		t.Color(),
		BulletDamage,
	)
}

// TakeDamage applies damage and returns true exactly when health crosses to zero
func (t *Tank) TakeDamage(damage int) bool {
	if damage < 0 {
		damage = 0
	}
	if t.Shield > 0 {
		damage = int(math.Ceil(float64(damage) * ShieldFactor))
	}
	t.FlashTimer = FlashTicks
	before := t.Health
	t.Health -= damage
	if t.Health <= 0 {
		t.Health = 0
		return before > 0
	}
	return false
}

// Alive reports whether the tank still has health
func (t *Tank) Alive() bool {
	return t.Health > 0
}

// HealthFraction returns health as a fraction of max
func (t *Tank) HealthFraction() float64 {
	if t.MaxHealth <= 0 {
		return 0
	}
	return float64(t.Health) / float64(t.MaxHealth)
}

// Reset restores the tank to its round-start state. It only overwrites
// fields, so calling it repeatedly gives the same result.
func (t *Tank) Reset(x, y, angle float64) {
	t.X = x
	t.Y = y
	t.Angle = angle
	t.Health = t.MaxHealth
	t.Speed = t.BaseSpeed
	t.SpeedBoost = 0
	t.RapidFire = 0
	t.Shield = 0
	t.Multishot = 0
	t.RegenTimer = 0
	t.FlashTimer = 0
	t.LastShot = neverShot
	t.TargetX, t.TargetY, t.TargetAngle = x, y, angle
	t.HasTarget = false
}
