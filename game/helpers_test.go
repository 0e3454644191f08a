package game

// quietConfig disables random spawns and auto-fire so tests control every entity
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.PowerUpChance = 0
	cfg.MeteorChance = 0
	cfg.LaserChance = 0
	cfg.AutoFire = false
	cfg.Seed = 1
	return cfg
}

// fixedControl always reports the same signals
type fixedControl struct {
	in Input
	p  Pointer
}

func (c fixedControl) Input() Input     { return c.in }
func (c fixedControl) Pointer() Pointer { return c.p }

func countEvents(events []Event, kind EventKind, team Team) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind && e.Team == team {
			n++
		}
	}
	return n
}
