package main

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

// RoundRecord is one finished round as seen by this participant
type RoundRecord struct {
	Round     int
	Winner    game.Team
	RedLives  int
	BlueLives int
	MatchOver bool
	At        time.Time
}

// Journal keeps round outcomes in an in-memory SQLite database for the
// life of the process. A nil Journal ignores everything.
type Journal struct {
	conn *sql.DB
	last game.Phase
}

// OpenJournal creates the in-memory journal
func OpenJournal() (*Journal, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is its own database
	conn.SetMaxOpenConns(1)

	j := &Journal{conn: conn, last: game.PhaseRunning}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		round INTEGER NOT NULL,
		winner INTEGER NOT NULL,
		red_lives INTEGER NOT NULL,
		blue_lives INTEGER NOT NULL,
		match_over INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);`
	_, err := j.conn.Exec(schema)
	return err
}

// Observe records a round when m has just left the running phase. It
// reports whether a row was written.
func (j *Journal) Observe(m game.Match) (bool, error) {
	if j == nil {
		return false, nil
	}
	prev := j.last
	j.last = m.Phase
	if prev != game.PhaseRunning {
		return false, nil
	}
	if m.Phase != game.PhaseRoundOver && m.Phase != game.PhaseMatchOver {
		return false, nil
	}

	rec := RoundRecord{
		Round:     m.Round,
		Winner:    winnerOf(m),
		RedLives:  m.Lives[game.TeamRed],
		BlueLives: m.Lives[game.TeamBlue],
		MatchOver: m.Phase == game.PhaseMatchOver,
		At:        time.Now().UTC(),
	}
	if m.Phase == game.PhaseRoundOver {
		// The round counter has already moved on
		rec.Round--
	}
	if err := j.insert(rec); err != nil {
		return false, err
	}
	log.Debug("round recorded", "round", rec.Round, "winner", rec.Winner, "match_over", rec.MatchOver)
	return true, nil
}

// winnerOf reads the winner from the result message, falling back to the
// remaining lives
func winnerOf(m game.Match) game.Team {
	if t, ok := game.ParseTeam(strings.TrimSuffix(m.Message, " win")); ok && m.Message != "" {
		return t
	}
	return m.Winner()
}

func (j *Journal) insert(r RoundRecord) error {
	matchOver := 0
	if r.MatchOver {
		matchOver = 1
	}
	_, err := j.conn.Exec(
		`INSERT INTO rounds (round, winner, red_lives, blue_lives, match_over, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.Round, int(r.Winner), r.RedLives, r.BlueLives, matchOver, r.At.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first
func (j *Journal) Recent(n int) ([]RoundRecord, error) {
	if j == nil {
		return nil, nil
	}
	rows, err := j.conn.Query(
		`SELECT round, winner, red_lives, blue_lives, match_over, created_at FROM rounds ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundRecord
	for rows.Next() {
		var r RoundRecord
		var winner, matchOver int
		var at string
		if err := rows.Scan(&r.Round, &winner, &r.RedLives, &r.BlueLives, &matchOver, &at); err != nil {
			return nil, err
		}
		r.Winner = game.Team(winner)
		r.MatchOver = matchOver != 0
		r.At, _ = time.Parse(time.RFC3339, at)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Tally returns rounds won per team
func (j *Journal) Tally() ([2]int, error) {
	var wins [2]int
	if j == nil {
		return wins, nil
	}
	rows, err := j.conn.Query(`SELECT winner, COUNT(*) FROM rounds GROUP BY winner`)
	if err != nil {
		return wins, err
	}
	defer rows.Close()
	for rows.Next() {
		var winner, n int
		if err := rows.Scan(&winner, &n); err != nil {
			return wins, err
		}
		if game.Team(winner).Valid() {
			wins[winner] = n
		}
	}
	return wins, rows.Err()
}
