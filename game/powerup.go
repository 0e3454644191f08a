package game

import "fmt"

const (
	PowerUpRadius = 15.0
	PowerUpLife   = 780 // ticks
	PowerUpMargin = 50.0
)

// PowerUpKind is the effect a power-up grants on pickup
type PowerUpKind int

const (
	PowerUpSpeed PowerUpKind = iota
	PowerUpRapid
	PowerUpShield
	PowerUpMultishot
	PowerUpMiniTank
)

var powerUpNames = [...]string{"speed", "rapid", "shield", "multishot", "minitank"}

// PowerUpKinds lists every kind in spawn order
var PowerUpKinds = [...]PowerUpKind{PowerUpSpeed, PowerUpRapid, PowerUpShield, PowerUpMultishot, PowerUpMiniTank}

// String returns the wire name
func (k PowerUpKind) String() string {
	if k < 0 || int(k) >= len(powerUpNames) {
		return fmt.Sprintf("PowerUpKind(%d)", int(k))
	}
	return powerUpNames[k]
}

// ParsePowerUpKind maps a wire name back to its kind
func ParsePowerUpKind(s string) (PowerUpKind, bool) {
	for i, name := range powerUpNames {
		if name == s {
			return PowerUpKind(i), true
		}
	}
	return 0, false
}

// PowerUp is a collectible that grants a timed effect
type PowerUp struct {
	X, Y   float64
	Radius float64
	Kind   PowerUpKind
	Life   int
}

// NewPowerUp creates a power-up with a full life counter
func NewPowerUp(x, y float64, kind PowerUpKind) *PowerUp {
	return &PowerUp{X: x, Y: y, Radius: PowerUpRadius, Kind: kind, Life: PowerUpLife}
}

// Update counts the life down and reports whether the power-up remains
func (p *PowerUp) Update() bool {
	p.Life--
	return p.Life > 0
}

// Apply grants the timed effect to t. Mini-tank pickups are resolved by
// the world since they spawn units.
func (p *PowerUp) Apply(t *Tank) {
	switch p.Kind {
	case PowerUpSpeed:
		t.SpeedBoost = PowerUpDuration
	case PowerUpRapid:
		t.RapidFire = PowerUpDuration
	case PowerUpShield:
		t.Shield = PowerUpDuration
	case PowerUpMultishot:
		t.Multishot = PowerUpDuration
	}
}
