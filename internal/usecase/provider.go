package usecase

import (
	"context"
	"time"
)

// FeedProvider is the upstream cricket feed as the pipeline sees it. The
// concrete client lives in external/cricfeed.
type FeedProvider interface {
	ListMatches(ctx context.Context, from, to time.Time) ([]FeedMatch, error)
	// FetchScorecard returns (nil, nil) when the feed has no scorecard
	// document for the id.
	FetchScorecard(ctx context.Context, gameID string) (*FeedScorecard, error)
}

// FeedMatch is one match-list entry. String fields carry the feed's raw
// text; numeric interpretation happens in the transformer.
type FeedMatch struct {
	GameID           string
	SeriesID         string
	SeriesName       string
	ParentSeriesName string
	ChampionshipName string
	StartDate        string
	EndDate          string
	EventState       string
	Format           string
	Participants     []FeedParticipant
	VenueID          string
	VenueName        string
}

type FeedParticipant struct {
	ID   string
	Name string
}

// FeedScorecard is one match's full scorecard document.
type FeedScorecard struct {
	Innings []FeedInnings
	// Teams keys are team ids.
	Teams  map[string]FeedTeam
	Detail FeedMatchDetail
}

type FeedTeam struct {
	Name string
	// Players maps player id to full name.
	Players map[string]string
}

type FeedMatchDetail struct {
	MatchID    string
	Format     string
	Date       string
	SeriesID   string
	SeriesName string
	VenueID    string
	VenueName  string
	TeamHomeID string
	TeamAwayID string
	Status     string
	Result     string
}

type FeedInnings struct {
	Number       string
	BattingTeam  string
	Total        string
	Wickets      string
	Overs        string
	AllotedOvers string
	Batsmen      []FeedBatsman
	Bowlers      []FeedBowler
}

type FeedBatsman struct {
	PlayerID   string
	Runs       string
	Balls      string
	Fours      string
	Sixes      string
	Dismissal  string
	StrikeRate string
}

type FeedBowler struct {
	PlayerID     string
	Overs        string
	Maidens      string
	Runs         string
	Wickets      string
	EconomyRate  string
	Wides        string
	NoBalls      string
	DotBalls     string
	AverageSpeed string
}
