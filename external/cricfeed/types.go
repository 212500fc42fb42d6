package cricfeed

import (
	"bytes"

	sonic "github.com/bytedance/sonic"
)

// Text is a JSON scalar that the feed serves inconsistently as string,
// number, boolean, or null. It decodes to its textual form; numeric
// interpretation is deferred to the transform layer so every
// parse-with-fallback decision lives in one place.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Participant is one competing team in a match-list entry.
type Participant struct {
	ID        Text `json:"id"`
	Name      Text `json:"name"`
	ShortName Text `json:"short_name"`
}

// MatchSummary is one entry of the upstream match-list response.
type MatchSummary struct {
	GameID           Text          `json:"game_id"`
	SeriesID         Text          `json:"series_id"`
	SeriesName       Text          `json:"series_name"`
	ParentSeriesName Text          `json:"parent_series_name"`
	ChampionshipName Text          `json:"championship_name"`
	StartDate        Text          `json:"start_date"`
	EndDate          Text          `json:"end_date"`
	EventState       Text          `json:"event_state"`
	EventFormat      Text          `json:"event_format"`
	EventStatus      Text          `json:"event_status"`
	Participants     []Participant `json:"participants"`
	Venue            ListVenue     `json:"venue"`
}

type ListVenue struct {
	ID   Text `json:"id"`
	Name Text `json:"name"`
}

type matchListEnvelope struct {
	Matches []MatchSummary `json:"matches"`
}

// Scorecard is the full structured record of one match.
type Scorecard struct {
	Innings     []ScorecardInnings       `json:"Innings"`
	Teams       map[string]ScorecardTeam `json:"Teams"`
	Matchdetail Matchdetail              `json:"Matchdetail"`
}

type scorecardEnvelope struct {
	Data *Scorecard `json:"data"`
}

type ScorecardTeam struct {
	NameFull  Text                       `json:"Name_Full"`
	NameShort Text                       `json:"Name_Short"`
	Players   map[string]ScorecardPlayer `json:"Players"`
}

type ScorecardPlayer struct {
	NameFull Text `json:"Name_Full"`
}

type Matchdetail struct {
	Match    MatchInfo  `json:"Match"`
	Series   SeriesInfo `json:"Series"`
	Venue    VenueInfo  `json:"Venue"`
	TeamHome Text       `json:"Team_Home"`
	TeamAway Text       `json:"Team_Away"`
	Status   Text       `json:"Status"`
	Result   Text       `json:"Result"`
	Equation Text       `json:"Equation"`
}

type MatchInfo struct {
	ID       Text `json:"Id"`
	Code     Text `json:"Code"`
	League   Text `json:"League"`
	Type     Text `json:"Type"`
	Date     Text `json:"Date"`
	Time     Text `json:"Time"`
	Offset   Text `json:"Offset"`
	DayNight Text `json:"Daynight"`
}

type SeriesInfo struct {
	ID     Text `json:"Id"`
	Name   Text `json:"Name"`
	Status Text `json:"Status"`
}

type VenueInfo struct {
	ID   Text `json:"Id"`
	Name Text `json:"Name"`
}

type ScorecardInnings struct {
	Number       Text          `json:"Number"`
	BattingTeam  Text          `json:"Battingteam"`
	Total        Text          `json:"Total"`
	Wickets      Text          `json:"Wickets"`
	Overs        Text          `json:"Overs"`
	AllotedOvers Text          `json:"AllotedOvers"`
	Batsmen      []BatsmanLine `json:"Batsmen"`
	Bowlers      []BowlerLine  `json:"Bowlers"`
}

type BatsmanLine struct {
	Batsman    Text `json:"Batsman"`
	Runs       Text `json:"Runs"`
	Balls      Text `json:"Balls"`
	Fours      Text `json:"Fours"`
	Sixes      Text `json:"Sixes"`
	Dismissal  Text `json:"Dismissal"`
	StrikeRate Text `json:"Strikerate"`
}

type BowlerLine struct {
	Bowler       Text `json:"Bowler"`
	Overs        Text `json:"Overs"`
	Maidens      Text `json:"Maidens"`
	Runs         Text `json:"Runs"`
	Wickets      Text `json:"Wickets"`
	EconomyRate  Text `json:"Economyrate"`
	Wides        Text `json:"Wides"`
	NoBalls      Text `json:"Noballs"`
	DotBalls     Text `json:"Dotballs"`
	AverageSpeed Text `json:"Average_Speed"`
}
