package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ovalline/cricsync/internal/domain/innings"
)

// InningsRepository is an in-memory innings.Repository. Batting rows carry
// surrogate ids and creation times so duplicate-cleanup logic can be tested
// against it.
type InningsRepository struct {
	mu      sync.RWMutex
	nextID  int64
	batting map[int64]innings.StoredBattingRow
	bowling map[string]innings.BowlingRow

	// Now is the clock for created_at stamps; tests override it.
	Now func() time.Time
}

func NewInningsRepository() *InningsRepository {
	return &InningsRepository{
		batting: make(map[int64]innings.StoredBattingRow),
		bowling: make(map[string]innings.BowlingRow),
		Now:     time.Now,
	}
}

var _ innings.Repository = (*InningsRepository)(nil)

func rowKey(matchID string, inningsNumber int, playerID string) string {
	return fmt.Sprintf("%s|%d|%s", matchID, inningsNumber, playerID)
}

func (r *InningsRepository) DeleteByMatchIDs(_ context.Context, matchIDs []string) error {
	set := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		set[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for rowID, row := range r.batting {
		if _, ok := set[row.MatchID]; ok {
			delete(r.batting, rowID)
		}
	}
	for key, row := range r.bowling {
		if _, ok := set[row.MatchID]; ok {
			delete(r.bowling, key)
		}
	}
	return nil
}

// UpsertBattingRows replaces rows sharing the natural key. InsertBattingRow
// exists separately so tests can create the duplicates upserts prevent.
func (r *InningsRepository) UpsertBattingRows(_ context.Context, rows []innings.BattingRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		key := rowKey(row.MatchID, row.InningsNumber, row.PlayerID)
		replaced := false
		for rowID, existing := range r.batting {
			if rowKey(existing.MatchID, existing.InningsNumber, existing.PlayerID) == key {
				r.batting[rowID] = innings.StoredBattingRow{
					RowID:      rowID,
					CreatedAt:  existing.CreatedAt,
					BattingRow: row,
				}
				replaced = true
				break
			}
		}
		if !replaced {
			r.insertLocked(row)
		}
	}
	return nil
}

// InsertBattingRow always creates a new stored row, even when one with the
// same natural key exists.
func (r *InningsRepository) InsertBattingRow(row innings.BattingRow) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insertLocked(row)
}

func (r *InningsRepository) insertLocked(row innings.BattingRow) int64 {
	r.nextID++
	r.batting[r.nextID] = innings.StoredBattingRow{
		RowID:      r.nextID,
		CreatedAt:  r.Now(),
		BattingRow: row,
	}
	return r.nextID
}

func (r *InningsRepository) UpsertBowlingRows(_ context.Context, rows []innings.BowlingRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		r.bowling[rowKey(row.MatchID, row.InningsNumber, row.PlayerID)] = row
	}
	return nil
}

func (r *InningsRepository) ListBattingRowsByMatchIDs(_ context.Context, matchIDs []string) ([]innings.StoredBattingRow, error) {
	set := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		set[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]innings.StoredBattingRow, 0)
	for _, row := range r.batting {
		if _, ok := set[row.MatchID]; ok {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RowID < out[j].RowID })
	return out, nil
}

func (r *InningsRepository) DeleteBattingRowsByRowIDs(_ context.Context, rowIDs []int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for _, rowID := range rowIDs {
		if _, ok := r.batting[rowID]; ok {
			delete(r.batting, rowID)
			deleted++
		}
	}
	return deleted, nil
}

// BattingRowCount reports the stored batting row count.
func (r *InningsRepository) BattingRowCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.batting)
}

// BowlingRowCount reports the stored bowling row count.
func (r *InningsRepository) BowlingRowCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.bowling)
}
