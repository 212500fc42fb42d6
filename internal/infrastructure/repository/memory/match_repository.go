package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ovalline/cricsync/internal/domain/match"
)

// MatchRepository is an in-memory match.Repository used in tests and local
// runs without a database.
type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[string]match.Match)}
}

var _ match.Repository = (*MatchRepository)(nil)

func (r *MatchRepository) FilterExistingIDs(_ context.Context, ids []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *MatchRepository) UpsertMatches(_ context.Context, items []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *MatchRepository) ListProvisional(_ context.Context, matchID string, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.items {
		if matchID != "" && item.ID != matchID {
			continue
		}
		if !match.IsProvisionalResult(item.Result) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].MatchDate.Before(out[j].MatchDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MatchRepository) UpdateResult(_ context.Context, id, result string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil
	}
	item.Result = result
	r.items[id] = item
	return nil
}

func (r *MatchRepository) ListIDs(_ context.Context, afterID string, limit int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// Get returns a stored match for test assertions.
func (r *MatchRepository) Get(id string) (match.Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok
}

// Len reports the stored match count.
func (r *MatchRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
