package teamstats

import "context"

// Repository persists per-team innings aggregates.
type Repository interface {
	// UpsertStats merges on (match_id, team_id).
	UpsertStats(ctx context.Context, items []InningsStat) error
	// ReplaceForMatch deletes the match's rows and inserts the given set
	// inside one transaction, so a crash can never leave the match with
	// partial stats.
	ReplaceForMatch(ctx context.Context, matchID string, items []InningsStat) error
	DeleteByMatchIDs(ctx context.Context, matchIDs []string) error
	ListByMatchID(ctx context.Context, matchID string) ([]InningsStat, error)
}
