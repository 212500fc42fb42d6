package innings

import "context"

// Repository persists per-player innings rows. Rows for a match are always
// replaced wholesale, never patched.
type Repository interface {
	// DeleteByMatchIDs clears batting and bowling rows for the given
	// matches. A no-op for ids with no stored rows.
	DeleteByMatchIDs(ctx context.Context, matchIDs []string) error
	// UpsertBattingRows merges on (match_id, innings_number, player_id).
	UpsertBattingRows(ctx context.Context, rows []BattingRow) error
	// UpsertBowlingRows merges on (match_id, innings_number, player_id).
	UpsertBowlingRows(ctx context.Context, rows []BowlingRow) error
	ListBattingRowsByMatchIDs(ctx context.Context, matchIDs []string) ([]StoredBattingRow, error)
	// DeleteBattingRowsByRowIDs removes rows by surrogate id and returns
	// the number deleted.
	DeleteBattingRowsByRowIDs(ctx context.Context, rowIDs []int64) (int, error)
}
