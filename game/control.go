package game

import (
	"sync"
	"time"
)

// Input is the per-tick movement intent of one tank
type Input struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Fire  bool `json:"fire,omitempty"`
}

// Pointer is an aiming cursor position in playfield coordinates
type Pointer struct {
	X     float64
	Y     float64
	Valid bool
}

// Control resolves where a tank's intents come from
type Control interface {
	Input() Input
	Pointer() Pointer
}

// Direction names one movement key
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// KeyHold is how long a terminal key press counts as held when the
// terminal reports no release events. Auto-repeat refreshes it.
const KeyHold = 150 * time.Millisecond

// InputState is the locally tracked keyboard record
type InputState struct {
	mu      sync.Mutex
	held    [4]bool
	until   [4]time.Time
	pointer Pointer
	input   Input
}

// Set records an explicit key down/up transition
func (s *InputState) Set(dir Direction, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held[dir] = down
	s.until[dir] = time.Time{}
}

// Press records a key press without a matching release
func (s *InputState) Press(dir Direction, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.until[dir] = now.Add(KeyHold)
}

// SetPointer records the latest aim position
func (s *InputState) SetPointer(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer = Pointer{X: x, Y: y, Valid: true}
}

// Sample resolves held and recently pressed keys into the current record.
// It returns true when the record changed since the previous sample.
func (s *InputState) Sample(now time.Time) (Input, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys [4]bool
	for i := range keys {
		keys[i] = s.held[i] || now.Before(s.until[i])
	}
	in := Input{Up: keys[DirUp], Down: keys[DirDown], Left: keys[DirLeft], Right: keys[DirRight]}
	changed := in != s.input
	s.input = in
	return in, changed
}

// Input returns the most recently sampled record
func (s *InputState) Input() Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Pointer returns the latest aim position
func (s *InputState) Pointer() Pointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer
}

// RemoteInputs holds the latest input and pointer snapshot received per team
type RemoteInputs struct {
	mu       sync.Mutex
	inputs   [2]Input
	pointers [2]Pointer
}

// SetInput stores the latest input received for team
func (r *RemoteInputs) SetInput(team Team, in Input) {
	if !team.Valid() {
		return
	}
	r.mu.Lock()
	r.inputs[team] = in
	r.mu.Unlock()
}

// SetPointer stores the latest aim position received for team
func (r *RemoteInputs) SetPointer(team Team, x, y float64) {
	if !team.Valid() {
		return
	}
	r.mu.Lock()
	r.pointers[team] = Pointer{X: x, Y: y, Valid: true}
	r.mu.Unlock()
}

// Input returns the latest input received for team
func (r *RemoteInputs) Input(team Team) Input {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputs[team]
}

// Pointer returns the latest aim position received for team
func (r *RemoteInputs) Pointer(team Team) Pointer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pointers[team]
}

// LocalControl reads the participant's own keyboard record
type LocalControl struct {
	State *InputState
}

func (c LocalControl) Input() Input     { return c.State.Input() }
func (c LocalControl) Pointer() Pointer { return c.State.Pointer() }

// RemoteControl reads the latest peer snapshot for one team.
// Before anything arrives it reports no movement.
type RemoteControl struct {
	Team   Team
	Inputs *RemoteInputs
}

func (c RemoteControl) Input() Input     { return c.Inputs.Input(c.Team) }
func (c RemoteControl) Pointer() Pointer { return c.Inputs.Pointer(c.Team) }

// AIControl reads the decision engine's current output record
type AIControl struct {
	Engine *AIEngine
}

func (c AIControl) Input() Input     { return c.Engine.Output().Input }
func (c AIControl) Pointer() Pointer { return c.Engine.Output().Aim }

// Binding describes the participant a set of controls is built for
type Binding struct {
	Local  Team
	AIMode bool
	Keys   *InputState
	Remote *RemoteInputs
	Engine *AIEngine
}

// ControlFor selects the control policy for team. The result is fixed
// for the lifetime of the tank it is given to.
func ControlFor(team Team, b Binding) Control {
	if team == b.Local {
		return LocalControl{State: b.Keys}
	}
	if b.AIMode {
		return AIControl{Engine: b.Engine}
	}
	return RemoteControl{Team: team, Inputs: b.Remote}
}
