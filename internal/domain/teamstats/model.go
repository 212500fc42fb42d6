package teamstats

// InningsStat is one team's aggregate batting line for one match, the raw
// input to net-run-rate computation. Keyed by (match id, team id); a team
// batting twice in a match contributes a single summed row.
type InningsStat struct {
	MatchID      string
	TeamID       string
	SeriesID     string
	Runs         int
	Wickets      int
	BallsFaced   int
	AllotedBalls int
	AllOut       bool
}
