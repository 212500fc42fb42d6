package cricfeed

import (
	"strings"

	"github.com/ovalline/cricsync/internal/usecase"
)

func mapMatchSummaries(items []MatchSummary) []usecase.FeedMatch {
	out := make([]usecase.FeedMatch, 0, len(items))
	for _, item := range items {
		participants := make([]usecase.FeedParticipant, 0, len(item.Participants))
		for _, p := range item.Participants {
			participants = append(participants, usecase.FeedParticipant{
				ID:   strings.TrimSpace(p.ID.String()),
				Name: strings.TrimSpace(p.Name.String()),
			})
		}
		out = append(out, usecase.FeedMatch{
			GameID:           strings.TrimSpace(item.GameID.String()),
			SeriesID:         strings.TrimSpace(item.SeriesID.String()),
			SeriesName:       strings.TrimSpace(item.SeriesName.String()),
			ParentSeriesName: strings.TrimSpace(item.ParentSeriesName.String()),
			ChampionshipName: strings.TrimSpace(item.ChampionshipName.String()),
			StartDate:        strings.TrimSpace(item.StartDate.String()),
			EndDate:          strings.TrimSpace(item.EndDate.String()),
			EventState:       strings.TrimSpace(item.EventState.String()),
			Format:           strings.TrimSpace(item.EventFormat.String()),
			Participants:     participants,
			VenueID:          strings.TrimSpace(item.Venue.ID.String()),
			VenueName:        strings.TrimSpace(item.Venue.Name.String()),
		})
	}
	return out
}

func mapScorecard(sc *Scorecard) *usecase.FeedScorecard {
	if sc == nil {
		return nil
	}

	innings := make([]usecase.FeedInnings, 0, len(sc.Innings))
	for _, in := range sc.Innings {
		batsmen := make([]usecase.FeedBatsman, 0, len(in.Batsmen))
		for _, b := range in.Batsmen {
			batsmen = append(batsmen, usecase.FeedBatsman{
				PlayerID:   strings.TrimSpace(b.Batsman.String()),
				Runs:       b.Runs.String(),
				Balls:      b.Balls.String(),
				Fours:      b.Fours.String(),
				Sixes:      b.Sixes.String(),
				Dismissal:  strings.TrimSpace(b.Dismissal.String()),
				StrikeRate: b.StrikeRate.String(),
			})
		}
		bowlers := make([]usecase.FeedBowler, 0, len(in.Bowlers))
		for _, b := range in.Bowlers {
			bowlers = append(bowlers, usecase.FeedBowler{
				PlayerID:     strings.TrimSpace(b.Bowler.String()),
				Overs:        b.Overs.String(),
				Maidens:      b.Maidens.String(),
				Runs:         b.Runs.String(),
				Wickets:      b.Wickets.String(),
				EconomyRate:  b.EconomyRate.String(),
				Wides:        b.Wides.String(),
				NoBalls:      b.NoBalls.String(),
				DotBalls:     b.DotBalls.String(),
				AverageSpeed: b.AverageSpeed.String(),
			})
		}
		innings = append(innings, usecase.FeedInnings{
			Number:       strings.TrimSpace(in.Number.String()),
			BattingTeam:  strings.TrimSpace(in.BattingTeam.String()),
			Total:        in.Total.String(),
			Wickets:      in.Wickets.String(),
			Overs:        in.Overs.String(),
			AllotedOvers: in.AllotedOvers.String(),
			Batsmen:      batsmen,
			Bowlers:      bowlers,
		})
	}

	teams := make(map[string]usecase.FeedTeam, len(sc.Teams))
	for teamID, team := range sc.Teams {
		players := make(map[string]string, len(team.Players))
		for playerID, player := range team.Players {
			players[playerID] = strings.TrimSpace(player.NameFull.String())
		}
		teams[teamID] = usecase.FeedTeam{
			Name:    strings.TrimSpace(team.NameFull.String()),
			Players: players,
		}
	}

	detail := sc.Matchdetail
	return &usecase.FeedScorecard{
		Innings: innings,
		Teams:   teams,
		Detail: usecase.FeedMatchDetail{
			MatchID:    strings.TrimSpace(detail.Match.ID.String()),
			Format:     strings.TrimSpace(detail.Match.Type.String()),
			Date:       strings.TrimSpace(detail.Match.Date.String()),
			SeriesID:   strings.TrimSpace(detail.Series.ID.String()),
			SeriesName: strings.TrimSpace(detail.Series.Name.String()),
			VenueID:    strings.TrimSpace(detail.Venue.ID.String()),
			VenueName:  strings.TrimSpace(detail.Venue.Name.String()),
			TeamHomeID: strings.TrimSpace(detail.TeamHome.String()),
			TeamAwayID: strings.TrimSpace(detail.TeamAway.String()),
			Status:     strings.TrimSpace(detail.Status.String()),
			Result:     strings.TrimSpace(detail.Result.String()),
		},
	}
}
