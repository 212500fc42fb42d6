package postgres

import "time"

type battingRowTableModel struct {
	ID            int64     `db:"id"`
	MatchID       string    `db:"match_id"`
	InningsNumber int       `db:"innings_number"`
	PlayerID      string    `db:"player_id"`
	PlayerName    string    `db:"player_name"`
	TeamID        string    `db:"team_id"`
	Runs          int       `db:"runs"`
	Balls         int       `db:"balls"`
	Fours         int       `db:"fours"`
	Sixes         int       `db:"sixes"`
	StrikeRate    *float64  `db:"strike_rate"`
	Dismissal     string    `db:"dismissal"`
	IsOut         bool      `db:"is_out"`
	CreatedAt     time.Time `db:"created_at"`
}
