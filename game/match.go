package game

import "fmt"

// Phase is the round/match state
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseRoundOver
	PhaseCountdown
	PhaseMatchOver
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseRoundOver:
		return "round-over"
	case PhaseCountdown:
		return "countdown"
	case PhaseMatchOver:
		return "match-over"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

const (
	StartLives         = 7
	RoundOverTicks     = 120
	MatchOverTicks     = 180
	CountdownStart     = 4
	CountdownStepTicks = 60
)

// Match holds lives, round number and the transition timers
type Match struct {
	Lives          [2]int
	Round          int
	Phase          Phase
	Message        string
	MessageTimer   int
	CountdownValue int
	CountdownTimer int

	startLives int
}

// NewMatch creates a running match with full lives
func NewMatch(lives int) Match {
	if lives <= 0 {
		lives = StartLives
	}
	m := Match{startLives: lives}
	m.Reset()
	return m
}

// Reset restores lives and round to their initial values and resumes play
func (m *Match) Reset() {
	if m.startLives <= 0 {
		m.startLives = StartLives
	}
	m.Lives = [2]int{m.startLives, m.startLives}
	m.Round = 1
	m.Phase = PhaseRunning
	m.Message = ""
	m.MessageTimer = 0
	m.CountdownValue = CountdownStart
	m.CountdownTimer = 0
}

// Running reports whether the simulation should advance entities
func (m *Match) Running() bool {
	return m.Phase == PhaseRunning
}

// Over reports whether some team has run out of lives
func (m *Match) Over() bool {
	return m.Lives[TeamRed] <= 0 || m.Lives[TeamBlue] <= 0
}

// Winner returns the team that still has lives. Only meaningful after a
// round or match has ended.
func (m *Match) Winner() Team {
	if m.Lives[TeamRed] <= 0 {
		return TeamBlue
	}
	return TeamRed
}

// LoseLife takes a life from loser and ends the round or the match.
// It returns true when the match is over.
func (m *Match) LoseLife(loser Team) bool {
	if m.Phase != PhaseRunning {
		return m.Phase == PhaseMatchOver
	}
	m.Lives[loser]--
	if m.Over() {
		m.Phase = PhaseMatchOver
		m.Message = fmt.Sprintf("%s win", m.Winner())
		m.MessageTimer = MatchOverTicks
		return true
	}
	m.Phase = PhaseRoundOver
	m.Message = fmt.Sprintf("%s win", loser.Opponent())
	m.MessageTimer = RoundOverTicks
	m.Round++
	return false
}

// StartCountdown clears the round-over message and begins counting down
func (m *Match) StartCountdown() {
	m.Phase = PhaseCountdown
	m.CountdownValue = CountdownStart
	m.CountdownTimer = 0
	m.Message = ""
	m.MessageTimer = 0
}

// Advance moves the transition timers one tick while play is paused.
// It returns true on the tick the countdown completes and the next round
// should be reset.
func (m *Match) Advance() bool {
	switch m.Phase {
	case PhaseRoundOver:
		if m.MessageTimer > 0 {
			m.MessageTimer--
		}
		if m.MessageTimer <= 0 {
			m.StartCountdown()
		}
	case PhaseCountdown:
		m.CountdownTimer++
		if m.CountdownTimer >= CountdownStepTicks {
			m.CountdownValue--
			m.CountdownTimer = 0
			if m.CountdownValue <= 0 {
				m.Phase = PhaseRunning
				return true
			}
		}
	case PhaseMatchOver:
		if m.MessageTimer > 0 {
			m.MessageTimer--
		}
	}
	return false
}

// MatchFromFields rebuilds match state from its wire fields. The phase is
// derived since the wire form only carries the running and countdown flags.
func MatchFromFields(red, blue, round int, running bool, message string, messageTimer int, countdown bool, countdownValue, countdownTimer int) Match {
	m := Match{
		Lives:          [2]int{red, blue},
		Round:          round,
		Message:        message,
		MessageTimer:   messageTimer,
		CountdownValue: countdownValue,
		CountdownTimer: countdownTimer,
		startLives:     StartLives,
	}
	switch {
	case running:
		m.Phase = PhaseRunning
	case countdown:
		m.Phase = PhaseCountdown
	case m.Over():
		m.Phase = PhaseMatchOver
	default:
		m.Phase = PhaseRoundOver
	}
	return m
}
