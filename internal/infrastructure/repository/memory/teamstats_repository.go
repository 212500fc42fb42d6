package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ovalline/cricsync/internal/domain/teamstats"
)

// TeamStatsRepository is an in-memory teamstats.Repository.
type TeamStatsRepository struct {
	mu    sync.RWMutex
	items map[string]teamstats.InningsStat
}

func NewTeamStatsRepository() *TeamStatsRepository {
	return &TeamStatsRepository{items: make(map[string]teamstats.InningsStat)}
}

var _ teamstats.Repository = (*TeamStatsRepository)(nil)

func statKey(matchID, teamID string) string {
	return matchID + "|" + teamID
}

func (r *TeamStatsRepository) UpsertStats(_ context.Context, items []teamstats.InningsStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[statKey(item.MatchID, item.TeamID)] = item
	}
	return nil
}

func (r *TeamStatsRepository) ReplaceForMatch(_ context.Context, matchID string, items []teamstats.InningsStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, item := range r.items {
		if item.MatchID == matchID {
			delete(r.items, key)
		}
	}
	for _, item := range items {
		r.items[statKey(item.MatchID, item.TeamID)] = item
	}
	return nil
}

func (r *TeamStatsRepository) DeleteByMatchIDs(_ context.Context, matchIDs []string) error {
	set := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		set[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for key, item := range r.items {
		if _, ok := set[item.MatchID]; ok {
			delete(r.items, key)
		}
	}
	return nil
}

func (r *TeamStatsRepository) ListByMatchID(_ context.Context, matchID string) ([]teamstats.InningsStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]teamstats.InningsStat, 0)
	for _, item := range r.items {
		if item.MatchID == matchID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

// Len reports the stored stat row count.
func (r *TeamStatsRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
