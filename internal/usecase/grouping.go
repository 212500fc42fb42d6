package usecase

// premiumMaxTier is the worst (highest) priority tier a series can carry and
// still be synced. premiumMinTeams keeps bilateral fixtures out: a premium
// tournament involves at least three distinct sides.
const (
	premiumMaxTier  = 15
	premiumMinTeams = 3
)

// SeriesGroup aggregates every match-list entry of one series.
type SeriesGroup struct {
	SeriesID   string
	SeriesName string
	BestTier   int
	TeamIDs    []string
	Matches    []FeedMatch
}

// GroupBySeries buckets matches by series id, preserving first-appearance
// order. BestTier is the best strict priority across the series' matches and
// TeamIDs the distinct participant ids seen.
func GroupBySeries(matches []FeedMatch) []SeriesGroup {
	groups := make([]SeriesGroup, 0)
	index := make(map[string]int)
	seenTeams := make(map[string]map[string]struct{})

	for _, m := range matches {
		// A match without a series id has no tournament to belong to.
		// Pooling such matches would let unrelated fixtures fake one.
		if m.SeriesID == "" {
			continue
		}

		i, ok := index[m.SeriesID]
		if !ok {
			i = len(groups)
			index[m.SeriesID] = i
			groups = append(groups, SeriesGroup{
				SeriesID:   m.SeriesID,
				SeriesName: m.SeriesName,
				BestTier:   TierDomestic,
			})
			seenTeams[m.SeriesID] = make(map[string]struct{})
		}

		if tier := ClassifyPriority(m); tier < groups[i].BestTier {
			groups[i].BestTier = tier
		}
		for _, p := range m.Participants {
			if p.ID == "" {
				continue
			}
			if _, dup := seenTeams[m.SeriesID][p.ID]; dup {
				continue
			}
			seenTeams[m.SeriesID][p.ID] = struct{}{}
			groups[i].TeamIDs = append(groups[i].TeamIDs, p.ID)
		}
		groups[i].Matches = append(groups[i].Matches, m)
	}
	return groups
}

// IsPremium reports whether a series group qualifies for syncing: more than
// two distinct teams and at least one match in a named tournament tier.
func (g SeriesGroup) IsPremium() bool {
	return len(g.TeamIDs) >= premiumMinTeams && g.BestTier <= premiumMaxTier
}

// FilterPremium returns the matches that belong to premium series, in the
// order the feed listed them.
func FilterPremium(matches []FeedMatch) []FeedMatch {
	premium := make(map[string]struct{})
	for _, g := range GroupBySeries(matches) {
		if g.IsPremium() {
			premium[g.SeriesID] = struct{}{}
		}
	}

	out := make([]FeedMatch, 0, len(matches))
	for _, m := range matches {
		if _, ok := premium[m.SeriesID]; ok {
			out = append(out, m)
		}
	}
	return out
}
