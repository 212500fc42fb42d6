package usecase

import "strings"

// Priority tiers, lower is more important. TierDemoted intentionally sits
// between the named tiers and the domestic fallback: warm-up and qualifier
// fixtures must rank below every real tournament match but above noise.
const (
	TierWorldCup      = 1
	TierTopBilateral  = 2
	TierICCEvent      = 3
	TierPremierLeague = 5
	TierTopWomens     = 12
	TierDemoted       = 18
	TierDomestic      = 100
)

type priorityRule struct {
	tier     int
	keywords []string
}

// priorityRules is evaluated in order; the first matching rule wins. The
// demotion rule comes first so a "World Cup Warm-up" never classifies as a
// World Cup fixture.
var priorityRules = []priorityRule{
	{TierDemoted, []string{"warm-up", "warm up", "qualifier"}},
	{TierWorldCup, []string{
		"icc cricket world cup",
		"icc men's t20 world cup",
		"t20 world cup",
		"cricket world cup",
		"world test championship final",
	}},
	{TierICCEvent, []string{
		"champions trophy",
		"asia cup",
	}},
	{TierPremierLeague, []string{
		"indian premier league",
		"big bash league",
		"pakistan super league",
		"caribbean premier league",
		"lanka premier league",
		"major league cricket",
		"the hundred",
		"sa20",
		"vitality blast",
	}},
}

// topRankedTeams covers the ten highest-ranked men's international sides,
// by feed participant id and by name.
var topRankedTeamIDs = map[string]struct{}{
	"1": {}, "2": {}, "3": {}, "4": {}, "5": {},
	"6": {}, "7": {}, "8": {}, "9": {}, "13": {},
}

var topRankedTeamNames = map[string]struct{}{
	"india":        {},
	"australia":    {},
	"england":      {},
	"south africa": {},
	"new zealand":  {},
	"pakistan":     {},
	"sri lanka":    {},
	"bangladesh":   {},
	"afghanistan":  {},
	"west indies":  {},
}

var topWomensTeamNames = map[string]struct{}{
	"australia women":    {},
	"england women":      {},
	"india women":        {},
	"new zealand women":  {},
	"south africa women": {},
	"west indies women":  {},
}

// ClassifyPriority assigns the strict importance tier used by premium
// tournament filtering. Pure function of the match's name fields.
func ClassifyPriority(m FeedMatch) int {
	if tier, ok := matchPriorityRules(m); ok {
		return tier
	}
	return TierDomestic
}

// ClassifyDisplayPriority is the UI-facing variant: it additionally ranks
// top-10 bilateral internationals and top women's fixtures. Filtering keeps
// using ClassifyPriority.
func ClassifyDisplayPriority(m FeedMatch) int {
	tier, matched := matchPriorityRules(m)
	if matched && (tier == TierDemoted || tier == TierWorldCup) {
		return tier
	}
	if isTopRankedBilateral(m.Participants) {
		return TierTopBilateral
	}
	if matched {
		return tier
	}
	if hasTopWomensTeam(m.Participants) {
		return TierTopWomens
	}
	return TierDomestic
}

func matchPriorityRules(m FeedMatch) (int, bool) {
	text := strings.ToLower(m.SeriesName + " " + m.ParentSeriesName + " " + m.ChampionshipName)
	for _, rule := range priorityRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.tier, true
			}
		}
	}
	return 0, false
}

func isTopRankedBilateral(participants []FeedParticipant) bool {
	if len(participants) != 2 {
		return false
	}
	for _, p := range participants {
		if _, ok := topRankedTeamIDs[strings.TrimSpace(p.ID)]; ok {
			continue
		}
		if _, ok := topRankedTeamNames[strings.ToLower(strings.TrimSpace(p.Name))]; !ok {
			return false
		}
	}
	return true
}

func hasTopWomensTeam(participants []FeedParticipant) bool {
	for _, p := range participants {
		if _, ok := topWomensTeamNames[strings.ToLower(strings.TrimSpace(p.Name))]; ok {
			return true
		}
	}
	return false
}
