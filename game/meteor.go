package game

import "math"

const (
	MeteorSpawnY    = -20.0
	MeteorMargin    = 20.0
	MeteorMinSpeed  = 3.0
	MeteorMaxSpeed  = 6.0
	MeteorMinRadius = 15.0
	MeteorMaxRadius = 30.0
	MeteorMinDrift  = 0.6
	MeteorMaxDrift  = 1.8
)

// Meteor falls down and to the right across the playfield
type Meteor struct {
	X, Y   float64
	Speed  float64
	VX     float64
	Radius float64
	Damage int
	Active bool
}

// NewMeteor creates an active meteor. Damage scales with the radius.
func NewMeteor(x, y, speed, vx, radius float64) *Meteor {
	return &Meteor{
		X:      x,
		Y:      y,
		Speed:  speed,
		VX:     vx,
		Radius: radius,
		Damage: int(math.Floor(radius * 1.5)),
		Active: true,
	}
}

// Update moves the meteor and reports whether it is still on screen
func (m *Meteor) Update(width, height float64) bool {
	m.Y += m.Speed
	m.X += m.VX
	if m.Y-m.Radius > height || m.X-m.Radius > width {
		m.Active = false
	}
	return m.Active
}
