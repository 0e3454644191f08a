package main

import (
	"testing"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal()
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRecordsRoundOver(t *testing.T) {
	j := openTestJournal(t)
	m := game.NewMatch(7)

	if ok, err := j.Observe(m); ok || err != nil {
		t.Fatalf("expected nothing recorded while running, got %v %v", ok, err)
	}

	m.LoseLife(game.TeamRed)
	ok, err := j.Observe(m)
	if err != nil || !ok {
		t.Fatalf("expected round recorded, got %v %v", ok, err)
	}
	if ok, _ := j.Observe(m); ok {
		t.Error("expected the same round-over to be recorded once")
	}

	recs, err := j.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Round != 1 {
		t.Errorf("expected round 1, got %d", r.Round)
	}
	if r.Winner != game.TeamBlue {
		t.Errorf("expected Blue, got %v", r.Winner)
	}
	if r.RedLives != 6 || r.BlueLives != 7 {
		t.Errorf("expected lives 6/7, got %d/%d", r.RedLives, r.BlueLives)
	}
	if r.MatchOver {
		t.Error("expected a plain round")
	}
	if r.At.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestJournalTracksSuccessiveRounds(t *testing.T) {
	j := openTestJournal(t)
	m := game.NewMatch(7)

	for i, loser := range []game.Team{game.TeamRed, game.TeamBlue, game.TeamBlue} {
		m.LoseLife(loser)
		if ok, _ := j.Observe(m); !ok {
			t.Fatalf("round %d not recorded", i+1)
		}
		m.StartCountdown()
		j.Observe(m)
		m.Phase = game.PhaseRunning
		j.Observe(m)
	}

	recs, _ := j.Recent(2)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Round != 3 || recs[1].Round != 2 {
		t.Errorf("expected newest first (3, 2), got (%d, %d)", recs[0].Round, recs[1].Round)
	}

	wins, err := j.Tally()
	if err != nil {
		t.Fatal(err)
	}
	if wins[game.TeamRed] != 2 || wins[game.TeamBlue] != 1 {
		t.Errorf("expected red 2 blue 1, got %v", wins)
	}
}

func TestJournalMatchOver(t *testing.T) {
	j := openTestJournal(t)
	m := game.NewMatch(1)

	m.LoseLife(game.TeamBlue)
	if ok, _ := j.Observe(m); !ok {
		t.Fatal("expected match-over recorded")
	}
	recs, _ := j.Recent(1)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if !recs[0].MatchOver || recs[0].Winner != game.TeamRed || recs[0].Round != 1 {
		t.Errorf("expected red match win in round 1, got %+v", recs[0])
	}
}

func TestJournalIgnoresStartMidRound(t *testing.T) {
	j := openTestJournal(t)
	m := game.NewMatch(7)
	m.LoseLife(game.TeamRed)
	m.StartCountdown()

	// First observation is already past the round-over
	if ok, _ := j.Observe(m); ok {
		t.Error("expected countdown not to be recorded")
	}
}

func TestNilJournal(t *testing.T) {
	var j *Journal
	m := game.NewMatch(1)
	m.LoseLife(game.TeamRed)
	if ok, err := j.Observe(m); ok || err != nil {
		t.Errorf("expected no-op, got %v %v", ok, err)
	}
	if recs, err := j.Recent(3); recs != nil || err != nil {
		t.Errorf("expected no records, got %v %v", recs, err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("expected nil close, got %v", err)
	}
}

func TestWinnerFallsBackToLives(t *testing.T) {
	m := game.NewMatch(1)
	m.Lives[game.TeamRed] = 0
	m.Message = ""
	if w := winnerOf(m); w != game.TeamBlue {
		t.Errorf("expected Blue, got %v", w)
	}
}
