package match

import "context"

// Repository exposes match persistence. Upserts merge on the external
// match id.
type Repository interface {
	// FilterExistingIDs returns the subset of ids that already have a
	// stored match row.
	FilterExistingIDs(ctx context.Context, ids []string) ([]string, error)
	UpsertMatches(ctx context.Context, items []Match) error
	// ListProvisional returns matches whose result text still reads as
	// unfinished, oldest first. matchID narrows to one match; limit caps
	// the candidate count (0 means no cap).
	ListProvisional(ctx context.Context, matchID string, limit int) ([]Match, error)
	UpdateResult(ctx context.Context, id, result string) error
	// ListIDs pages through all stored match ids in id order, returning
	// up to limit ids strictly greater than afterID.
	ListIDs(ctx context.Context, afterID string, limit int) ([]string, error)
}
