package game

// EventKind identifies a presentation event
type EventKind int

const (
	EventHit EventKind = iota
	EventDestroyed
	EventPowerUp
	EventLaser
	EventRoundOver
	EventMatchOver
)

func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventDestroyed:
		return "destroyed"
	case EventPowerUp:
		return "powerup"
	case EventLaser:
		return "laser"
	case EventRoundOver:
		return "round-over"
	case EventMatchOver:
		return "match-over"
	}
	return "unknown"
}

// Event is something the presentation layer may react to, such as a
// sound cue. Events never feed back into the simulation.
type Event struct {
	Kind    EventKind
	Team    Team
	X, Y    float64
	Message string
}

// CueSink consumes presentation events
type CueSink interface {
	Cue(e Event)
}
