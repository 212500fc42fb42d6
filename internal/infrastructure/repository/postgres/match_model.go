package postgres

import "time"

type matchTableModel struct {
	ID          string    `db:"id"`
	SeriesID    string    `db:"series_id"`
	SeriesName  string    `db:"series_name"`
	MatchDate   time.Time `db:"match_date"`
	TeamOneID   string    `db:"team_one_id"`
	TeamOneName string    `db:"team_one_name"`
	TeamTwoID   string    `db:"team_two_id"`
	TeamTwoName string    `db:"team_two_name"`
	Format      string    `db:"format"`
	Result      string    `db:"result"`
	Priority    int       `db:"priority"`
	VenueID     string    `db:"venue_id"`
	VenueName   string    `db:"venue_name"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type matchInsertModel struct {
	ID          string    `db:"id"`
	SeriesID    string    `db:"series_id"`
	SeriesName  string    `db:"series_name"`
	MatchDate   time.Time `db:"match_date"`
	TeamOneID   string    `db:"team_one_id"`
	TeamOneName string    `db:"team_one_name"`
	TeamTwoID   string    `db:"team_two_id"`
	TeamTwoName string    `db:"team_two_name"`
	Format      string    `db:"format"`
	Result      string    `db:"result"`
	Priority    int       `db:"priority"`
	VenueID     string    `db:"venue_id"`
	VenueName   string    `db:"venue_name"`
}
