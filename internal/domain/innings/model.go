package innings

import "time"

// Innings is one team's batting turn as extracted from a scorecard. It is a
// transform-level value; persistence happens through the per-player rows and
// the per-team aggregates derived from it.
type Innings struct {
	Number        int
	BattingTeamID string
	Runs          int
	Wickets       int
	OversDisplay  string
	BallsFaced    int
	AllotedBalls  int
	AllOut        bool
}

// BattingRow is one batter's line in one innings, keyed by
// (match id, innings number, player id).
type BattingRow struct {
	MatchID       string
	InningsNumber int
	PlayerID      string
	PlayerName    string
	TeamID        string
	Runs          int
	Balls         int
	Fours         int
	Sixes         int
	StrikeRate    *float64
	Dismissal     string
	IsOut         bool
}

// BowlingRow is one bowler's line in one innings, same key shape as
// BattingRow.
type BowlingRow struct {
	MatchID       string
	InningsNumber int
	PlayerID      string
	PlayerName    string
	TeamID        string
	Overs         float64
	BallsBowled   int
	Maidens       int
	RunsConceded  int
	Wickets       int
	Economy       *float64
	Wides         int
	NoBalls       int
	DotBalls      int
	AverageSpeed  *float64
}

// StoredBattingRow carries the surrogate row id and creation time needed by
// duplicate cleanup.
type StoredBattingRow struct {
	RowID     int64
	CreatedAt time.Time
	BattingRow
}
