package game

import "fmt"

const (
	LaserWidth        = 40.0
	LaserDamage       = 200
	LaserWarningTicks = 90
	LaserFiringTicks  = 60
	LaserCooldown     = 30
	LaserMargin       = 60.0
)

// LaserState is the phase of a laser hazard
type LaserState int

const (
	LaserWarning LaserState = iota
	LaserFiring
)

func (s LaserState) String() string {
	switch s {
	case LaserWarning:
		return "warning"
	case LaserFiring:
		return "firing"
	}
	return fmt.Sprintf("LaserState(%d)", int(s))
}

// ParseLaserState maps a wire name back to its state
func ParseLaserState(s string) (LaserState, bool) {
	switch s {
	case "warning":
		return LaserWarning, true
	case "firing":
		return LaserFiring, true
	}
	return 0, false
}

// LaserHazard is a vertical beam that warns, fires, then disappears
type LaserHazard struct {
	X      float64
	Width  float64
	Damage int
	State  LaserState
	Timer  int

	// firing-phase tick of the last damage per team
	lastDamage map[Team]int
}

// NewLaser creates a hazard in its warning phase
func NewLaser(x float64) *LaserHazard {
	return &LaserHazard{
		X:          x,
		Width:      LaserWidth,
		Damage:     LaserDamage,
		State:      LaserWarning,
		lastDamage: make(map[Team]int),
	}
}

// Update advances the phase timer and reports whether the hazard remains.
// It returns started=true on the tick the beam starts firing.
func (l *LaserHazard) Update() (alive, started bool) {
	l.Timer++
	switch l.State {
	case LaserWarning:
		if l.Timer >= LaserWarningTicks {
			l.State = LaserFiring
			l.Timer = 0
			return true, true
		}
	case LaserFiring:
		if l.Timer >= LaserFiringTicks {
			return false, false
		}
	}
	return true, false
}

// Covers reports whether x lies inside the beam
func (l *LaserHazard) Covers(x float64) bool {
	return x > l.X-l.Width/2 && x < l.X+l.Width/2
}

// TryDamage reports whether the beam may hit team now and, if so, records
// the hit. A team can be hit at most once per cooldown window.
func (l *LaserHazard) TryDamage(team Team) bool {
	if l.State != LaserFiring {
		return false
	}
	if l.lastDamage == nil {
		l.lastDamage = make(map[Team]int)
	}
	last, ok := l.lastDamage[team]
	if ok && l.Timer-last < LaserCooldown {
		return false
	}
	l.lastDamage[team] = l.Timer
	return true
}
