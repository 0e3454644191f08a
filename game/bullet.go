package game

const (
	BulletRadius   = 8.0
	BulletDamage   = 25
	BulletTrailLen = 5
)

// Point is a 2D position
type Point struct {
	X, Y float64
}

// Bullet is a projectile fired by a tank or a mini-tank
type Bullet struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Team   Team
	Color  string
	Damage int
	// Trail holds the most recent positions, oldest first. Cosmetic only.
	Trail []Point
}

// NewBullet creates a bullet owned by team
func NewBullet(x, y, vx, vy float64, team Team, color string, damage int) *Bullet {
	return &Bullet{
		X:      x,
		Y:      y,
		VX:     vx,
		VY:     vy,
		Radius: BulletRadius,
		Team:   team,
		Color:  color,
		Damage: damage,
	}
}

// Update moves the bullet one tick and reports whether it is still inside
// the playfield. Bullets have no lifetime of their own.
func (b *Bullet) Update(width, height float64) bool {
	b.Trail = append(b.Trail, Point{b.X, b.Y})
	if len(b.Trail) > BulletTrailLen {
		b.Trail = b.Trail[len(b.Trail)-BulletTrailLen:]
	}
	b.X += b.VX
	b.Y += b.VY
	return b.InBounds(width, height)
}

// InBounds reports whether the bullet center lies within the playfield
func (b *Bullet) InBounds(width, height float64) bool {
	return b.X >= 0 && b.X <= width && b.Y >= 0 && b.Y <= height
}
