package main

import (
	"github.com/charmbracelet/log"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

const journalShown = 3

// scoreboard caches the journal rows shown on the HUD
type scoreboard struct {
	journal *Journal
	recent  []RoundRecord
	wins    [2]int
}

// observe feeds the current match state to the journal and refreshes the
// cache when a round was recorded
func (s *scoreboard) observe(m game.Match) {
	recorded, err := s.journal.Observe(m)
	if err != nil {
		log.Error("journal", "error", err)
		return
	}
	if !recorded {
		return
	}
	if s.recent, err = s.journal.Recent(journalShown); err != nil {
		log.Error("journal", "error", err)
	}
	if s.wins, err = s.journal.Tally(); err != nil {
		log.Error("journal", "error", err)
	}
}

func (s *scoreboard) fill(hud *HUD) {
	hud.Journal = s.recent
	hud.Wins = s.wins
}
