package usecase

import (
	"errors"
	"testing"

	"github.com/ovalline/cricsync/internal/domain/match"
)

func sampleScorecard() *FeedScorecard {
	return &FeedScorecard{
		Detail: FeedMatchDetail{
			MatchID:    "m100",
			Format:     "ODI",
			Date:       "9/14/2025",
			SeriesID:   "s9",
			SeriesName: "Asia Cup",
			VenueID:    "v3",
			VenueName:  "Dubai International Stadium",
			TeamHomeID: "t1",
			TeamAwayID: "t2",
			Status:     "India beat Pakistan by 5 wickets",
		},
		Teams: map[string]FeedTeam{
			"t1": {Name: "India", Players: map[string]string{"p1": "R Sharma", "p3": "J Bumrah"}},
			"t2": {Name: "Pakistan", Players: map[string]string{"p2": "B Azam", "p4": "S Afridi"}},
		},
		Innings: []FeedInnings{
			{
				Number:       "First",
				BattingTeam:  "t2",
				Total:        "241",
				Wickets:      "10",
				Overs:        "49.3",
				AllotedOvers: "50",
				Batsmen: []FeedBatsman{
					{PlayerID: "p2", Runs: "88", Balls: "96", Fours: "9", Sixes: "1", Dismissal: "c Sharma b Bumrah", StrikeRate: "91.67"},
					{PlayerID: "p9", Runs: "4", Balls: "11", Dismissal: "not out"},
				},
				Bowlers: []FeedBowler{
					{PlayerID: "p3", Overs: "9.3", Maidens: "1", Runs: "41", Wickets: "4", EconomyRate: "4.32", Wides: "2", DotBalls: "35", AverageSpeed: "138.2"},
				},
			},
			{
				Number:       "Second",
				BattingTeam:  "t1",
				Total:        "242",
				Wickets:      "5",
				Overs:        "45.1",
				AllotedOvers: "50",
				Batsmen: []FeedBatsman{
					{PlayerID: "p1", Runs: "120", Balls: "118", Dismissal: ""},
				},
				Bowlers: []FeedBowler{
					{PlayerID: "p4", Overs: "10", Maidens: "0", Runs: "55", Wickets: "2", EconomyRate: "5.50"},
				},
			},
		},
	}
}

func sampleSummary() FeedMatch {
	return FeedMatch{
		GameID:     "m100",
		SeriesID:   "s9",
		SeriesName: "Asia Cup",
		StartDate:  "9/14/2025",
		Format:     "ODI",
		Participants: []FeedParticipant{
			{ID: "t1", Name: "India"},
			{ID: "t2", Name: "Pakistan"},
		},
	}
}

func TestTransformScorecard(t *testing.T) {
	t.Parallel()

	got, err := TransformScorecard(sampleScorecard(), sampleSummary())
	if err != nil {
		t.Fatalf("TransformScorecard: %v", err)
	}

	if got.Match.ID != "m100" || got.Match.Format != match.FormatODI {
		t.Fatalf("match header = %+v", got.Match)
	}
	if got.Match.Priority != TierICCEvent {
		t.Fatalf("priority = %d, want %d", got.Match.Priority, TierICCEvent)
	}
	if got.Match.TeamOneName != "India" || got.Match.TeamTwoName != "Pakistan" {
		t.Fatalf("team names = %q / %q", got.Match.TeamOneName, got.Match.TeamTwoName)
	}
	if got.Match.MatchDate.IsZero() {
		t.Fatal("match date not parsed")
	}

	if len(got.Innings) != 2 {
		t.Fatalf("innings count = %d, want 2", len(got.Innings))
	}
	first := got.Innings[0]
	if first.Number != 1 || first.BallsFaced != 297 || first.AllotedBalls != 300 || !first.AllOut {
		t.Fatalf("first innings = %+v", first)
	}
	second := got.Innings[1]
	if second.AllOut {
		t.Fatalf("second innings flagged all out: %+v", second)
	}

	if len(got.Batting) != 3 {
		t.Fatalf("batting rows = %d, want 3", len(got.Batting))
	}
	azam := got.Batting[0]
	if azam.PlayerName != "B Azam" || !azam.IsOut || azam.StrikeRate == nil || *azam.StrikeRate != 91.67 {
		t.Fatalf("azam row = %+v", azam)
	}
	// p9 is not on any roster; gets a placeholder and stays not-out.
	unknown := got.Batting[1]
	if unknown.PlayerName != "Player p9" || unknown.IsOut {
		t.Fatalf("unknown batter row = %+v", unknown)
	}
	sharma := got.Batting[2]
	if sharma.IsOut {
		t.Fatalf("empty dismissal should not be out: %+v", sharma)
	}

	if len(got.Bowling) != 2 {
		t.Fatalf("bowling rows = %d, want 2", len(got.Bowling))
	}
	bumrah := got.Bowling[0]
	if bumrah.TeamID != "t1" || bumrah.BallsBowled != 57 || bumrah.PlayerName != "J Bumrah" {
		t.Fatalf("bumrah row = %+v", bumrah)
	}
	if bumrah.AverageSpeed == nil || *bumrah.AverageSpeed != 138.2 {
		t.Fatalf("bumrah average speed = %v, want 138.2", bumrah.AverageSpeed)
	}
	// The second bowler's line carries no speed reading.
	if got.Bowling[1].AverageSpeed != nil {
		t.Fatalf("missing speed should stay nil: %+v", got.Bowling[1])
	}

	if len(got.TeamStats) != 2 {
		t.Fatalf("team stats = %d, want 2", len(got.TeamStats))
	}
	pak := got.TeamStats[0]
	if pak.TeamID != "t2" || pak.Runs != 241 || pak.BallsFaced != 297 || !pak.AllOut {
		t.Fatalf("pakistan stat = %+v", pak)
	}
}

func TestTransformScorecardTestMatchSumsTeamInnings(t *testing.T) {
	t.Parallel()

	sc := sampleScorecard()
	sc.Detail.Format = "Test"
	sc.Innings = append(sc.Innings,
		FeedInnings{Number: "Third", BattingTeam: "t2", Total: "180", Wickets: "10", Overs: "60"},
		FeedInnings{Number: "Fourth", BattingTeam: "t1", Total: "77", Wickets: "2", Overs: "18.4"},
	)

	got, err := TransformScorecard(sc, sampleSummary())
	if err != nil {
		t.Fatalf("TransformScorecard: %v", err)
	}
	if len(got.TeamStats) != 2 {
		t.Fatalf("team stats = %d, want 2", len(got.TeamStats))
	}
	pak := got.TeamStats[0]
	if pak.Runs != 421 || pak.BallsFaced != 297+360 {
		t.Fatalf("summed pakistan stat = %+v", pak)
	}
	ind := got.TeamStats[1]
	if ind.Runs != 319 || ind.AllOut {
		t.Fatalf("summed india stat = %+v", ind)
	}
}

func TestTransformScorecardUnrecognizedInningsOrdinals(t *testing.T) {
	t.Parallel()

	sc := sampleScorecard()
	sc.Innings[0].Number = "1st"
	sc.Innings[1].Number = "2nd"

	got, err := TransformScorecard(sc, sampleSummary())
	if err != nil {
		t.Fatalf("TransformScorecard: %v", err)
	}
	// Odd ordinal labels default to innings 1 rather than dropping the
	// innings and voiding the whole scorecard.
	if len(got.Innings) != 2 || got.Innings[0].Number != 1 || got.Innings[1].Number != 1 {
		t.Fatalf("innings = %+v, want both kept as number 1", got.Innings)
	}
	if len(got.TeamStats) != 2 {
		t.Fatalf("team stats = %d, want 2", len(got.TeamStats))
	}
}

func TestParseInningsNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"First", 1},
		{" fourth ", 4},
		{"3", 3},
		{"1st", 1},
		{"0", 1},
		{"", 1},
	}
	for _, tc := range cases {
		if got := parseInningsNumber(tc.in); got != tc.want {
			t.Fatalf("parseInningsNumber(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTransformScorecardRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*FeedScorecard)
	}{
		{"nil scorecard", nil},
		{"no innings", func(sc *FeedScorecard) { sc.Innings = nil }},
		{"abandoned", func(sc *FeedScorecard) { sc.Detail.Status = "Match abandoned due to rain" }},
		{"no result", func(sc *FeedScorecard) { sc.Detail.Status = "No Result" }},
		{"rain stoppage", func(sc *FeedScorecard) { sc.Detail.Status = "Rain stoppage - play suspended" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sc := sampleScorecard()
			if tc.mutate == nil {
				sc = nil
			} else {
				tc.mutate(sc)
			}
			_, err := TransformScorecard(sc, sampleSummary())
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestOversToBalls(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"45.3", 273},
		{"50", 300},
		{"0.5", 5},
		{"", 0},
		{"junk", 0},
	}
	for _, tc := range cases {
		if got := oversToBalls(tc.in); got != tc.want {
			t.Fatalf("oversToBalls(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
