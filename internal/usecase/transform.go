package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ovalline/cricsync/internal/domain/innings"
	"github.com/ovalline/cricsync/internal/domain/match"
	"github.com/ovalline/cricsync/internal/domain/teamstats"
)

// TransformResult holds the persistable shape of one scorecard.
type TransformResult struct {
	Match     match.Match
	Innings   []innings.Innings
	Batting   []innings.BattingRow
	Bowling   []innings.BowlingRow
	TeamStats []teamstats.InningsStat
}

// voidedMarkers flag matches whose scorecard numbers are meaningless for
// standings: abandoned, washed out, or interrupted fixtures.
var voidedMarkers = []string{"abandoned", "no result", "rain stoppage"}

var inningsOrdinals = map[string]int{
	"first":  1,
	"second": 2,
	"third":  3,
	"fourth": 4,
}

var matchDateLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// TransformScorecard converts a raw scorecard into domain rows. The summary
// supplies fields the scorecard document omits (priority inputs, dates). A
// wrapped ErrInvalidInput means the match is not persistable yet and should
// be skipped, not retried.
func TransformScorecard(sc *FeedScorecard, summary FeedMatch) (*TransformResult, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: scorecard is required", ErrInvalidInput)
	}
	if len(sc.Innings) == 0 {
		return nil, fmt.Errorf("%w: scorecard has no innings", ErrInvalidInput)
	}

	matchID := firstNonEmpty(sc.Detail.MatchID, summary.GameID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: scorecard has no match id", ErrInvalidInput)
	}

	result := firstNonEmpty(sc.Detail.Status, sc.Detail.Result)
	if isVoidedResult(result) {
		return nil, fmt.Errorf("%w: match is voided: %s", ErrInvalidInput, result)
	}

	m := match.Match{
		ID:         matchID,
		SeriesID:   firstNonEmpty(sc.Detail.SeriesID, summary.SeriesID),
		SeriesName: firstNonEmpty(sc.Detail.SeriesName, summary.SeriesName),
		MatchDate:  parseMatchDate(sc.Detail.Date, summary.StartDate),
		Format:     match.NormalizeFormat(firstNonEmpty(sc.Detail.Format, summary.Format)),
		Result:     result,
		Priority:   ClassifyPriority(summary),
		VenueID:    firstNonEmpty(sc.Detail.VenueID, summary.VenueID),
		VenueName:  firstNonEmpty(sc.Detail.VenueName, summary.VenueName),
	}
	m.TeamOneID, m.TeamOneName, m.TeamTwoID, m.TeamTwoName = resolveTeams(sc, summary)

	out := &TransformResult{Match: m}
	for _, in := range sc.Innings {
		number := parseInningsNumber(in.Number)

		wickets := parseIntOr(in.Wickets, 0)
		allotedBalls := parseIntOr(in.AllotedOvers, 0) * 6
		inn := innings.Innings{
			Number:        number,
			BattingTeamID: in.BattingTeam,
			Runs:          parseIntOr(in.Total, 0),
			Wickets:       wickets,
			OversDisplay:  strings.TrimSpace(in.Overs),
			BallsFaced:    oversToBalls(in.Overs),
			AllotedBalls:  allotedBalls,
			AllOut:        wickets >= 10,
		}
		out.Innings = append(out.Innings, inn)

		fieldingTeam := otherTeamID(sc, in.BattingTeam)
		for _, b := range in.Batsmen {
			if strings.TrimSpace(b.PlayerID) == "" {
				continue
			}
			dismissal := strings.TrimSpace(b.Dismissal)
			out.Batting = append(out.Batting, innings.BattingRow{
				MatchID:       matchID,
				InningsNumber: number,
				PlayerID:      b.PlayerID,
				PlayerName:    resolvePlayerName(sc, in.BattingTeam, b.PlayerID),
				TeamID:        in.BattingTeam,
				Runs:          parseIntOr(b.Runs, 0),
				Balls:         parseIntOr(b.Balls, 0),
				Fours:         parseIntOr(b.Fours, 0),
				Sixes:         parseIntOr(b.Sixes, 0),
				StrikeRate:    parseFloatPtr(b.StrikeRate),
				Dismissal:     dismissal,
				IsOut:         isOut(dismissal),
			})
		}
		for _, b := range in.Bowlers {
			if strings.TrimSpace(b.PlayerID) == "" {
				continue
			}
			overs := parseFloatOr(b.Overs, 0)
			out.Bowling = append(out.Bowling, innings.BowlingRow{
				MatchID:       matchID,
				InningsNumber: number,
				PlayerID:      b.PlayerID,
				PlayerName:    resolvePlayerName(sc, fieldingTeam, b.PlayerID),
				TeamID:        fieldingTeam,
				Overs:         overs,
				BallsBowled:   oversToBalls(b.Overs),
				Maidens:       parseIntOr(b.Maidens, 0),
				RunsConceded:  parseIntOr(b.Runs, 0),
				Wickets:       parseIntOr(b.Wickets, 0),
				Economy:       parseFloatPtr(b.EconomyRate),
				Wides:         parseIntOr(b.Wides, 0),
				NoBalls:       parseIntOr(b.NoBalls, 0),
				DotBalls:      parseIntOr(b.DotBalls, 0),
				AverageSpeed:  parseFloatPtr(b.AverageSpeed),
			})
		}
	}

	out.TeamStats = aggregateTeamStats(matchID, m.SeriesID, out.Innings)
	return out, nil
}

// aggregateTeamStats folds per-innings lines into one row per team. A side
// batting twice (Tests) gets its runs and balls summed; the all-out flag is
// sticky across innings.
func aggregateTeamStats(matchID, seriesID string, inns []innings.Innings) []teamstats.InningsStat {
	order := make([]string, 0, 2)
	byTeam := make(map[string]*teamstats.InningsStat)

	for _, in := range inns {
		if in.BattingTeamID == "" {
			continue
		}
		stat, ok := byTeam[in.BattingTeamID]
		if !ok {
			stat = &teamstats.InningsStat{MatchID: matchID, TeamID: in.BattingTeamID, SeriesID: seriesID}
			byTeam[in.BattingTeamID] = stat
			order = append(order, in.BattingTeamID)
		}
		stat.Runs += in.Runs
		stat.Wickets += in.Wickets
		stat.BallsFaced += in.BallsFaced
		stat.AllotedBalls += in.AllotedBalls
		stat.AllOut = stat.AllOut || in.AllOut
	}

	out := make([]teamstats.InningsStat, 0, len(order))
	for _, teamID := range order {
		out = append(out, *byTeam[teamID])
	}
	return out
}

func isVoidedResult(result string) bool {
	text := strings.ToLower(result)
	for _, marker := range voidedMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func isOut(dismissal string) bool {
	if dismissal == "" {
		return false
	}
	lowered := strings.ToLower(dismissal)
	return lowered != "not out" && lowered != "batting"
}

func resolveTeams(sc *FeedScorecard, summary FeedMatch) (oneID, oneName, twoID, twoName string) {
	oneID = sc.Detail.TeamHomeID
	twoID = sc.Detail.TeamAwayID
	if oneID == "" && len(summary.Participants) > 0 {
		oneID = summary.Participants[0].ID
		oneName = summary.Participants[0].Name
	}
	if twoID == "" && len(summary.Participants) > 1 {
		twoID = summary.Participants[1].ID
		twoName = summary.Participants[1].Name
	}
	if team, ok := sc.Teams[oneID]; ok && team.Name != "" {
		oneName = team.Name
	}
	if team, ok := sc.Teams[twoID]; ok && team.Name != "" {
		twoName = team.Name
	}
	return oneID, oneName, twoID, twoName
}

// resolvePlayerName looks the player up on the given team, then across the
// whole roster. Missing players get a stable placeholder so rows still key
// correctly.
func resolvePlayerName(sc *FeedScorecard, teamID, playerID string) string {
	if team, ok := sc.Teams[teamID]; ok {
		if name := team.Players[playerID]; name != "" {
			return name
		}
	}
	for _, team := range sc.Teams {
		if name := team.Players[playerID]; name != "" {
			return name
		}
	}
	return "Player " + playerID
}

func otherTeamID(sc *FeedScorecard, battingTeam string) string {
	if sc.Detail.TeamHomeID != "" && sc.Detail.TeamAwayID != "" {
		if battingTeam == sc.Detail.TeamHomeID {
			return sc.Detail.TeamAwayID
		}
		return sc.Detail.TeamHomeID
	}
	for teamID := range sc.Teams {
		if teamID != battingTeam {
			return teamID
		}
	}
	return ""
}

// parseInningsNumber accepts the feed's ordinal words or a plain number.
// Anything unrecognized falls back to 1 so an odd label never drops the
// innings from the scorecard.
func parseInningsNumber(value string) int {
	trimmed := strings.TrimSpace(value)
	if n, ok := inningsOrdinals[strings.ToLower(trimmed)]; ok {
		return n
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// oversToBalls converts the feed's "45.3" overs notation to balls. The
// fractional digit counts balls, not tenths.
func oversToBalls(overs string) int {
	trimmed := strings.TrimSpace(overs)
	if trimmed == "" {
		return 0
	}
	whole, part, found := strings.Cut(trimmed, ".")
	balls := parseIntOr(whole, 0) * 6
	if found {
		balls += parseIntOr(part, 0)
	}
	return balls
}

func parseIntOr(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func parseFloatOr(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseFloatPtr(value string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseMatchDate(values ...string) time.Time {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		for _, layout := range matchDateLayouts {
			if ts, err := time.Parse(layout, trimmed); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
