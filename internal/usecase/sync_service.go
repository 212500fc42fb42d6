package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ovalline/cricsync/internal/domain/innings"
	"github.com/ovalline/cricsync/internal/domain/match"
	"github.com/ovalline/cricsync/internal/domain/teamstats"
	"github.com/ovalline/cricsync/internal/platform/cache"
	"github.com/ovalline/cricsync/internal/platform/logging"
	"github.com/ovalline/cricsync/internal/platform/pacing"
)

const (
	defaultLookbackDays = 7
	defaultRequestDelay = 200 * time.Millisecond
	defaultBatchSize    = 500

	existingMatchCachePrefix = "match:exists:"
)

// defaultCompletedStates are the feed event-state codes for finished matches.
var defaultCompletedStates = []string{"R", "C"}

type SyncConfig struct {
	LookbackDays    int
	RequestDelay    time.Duration
	BatchSize       int
	CompletedStates []string
}

func (c SyncConfig) normalize() SyncConfig {
	if c.LookbackDays <= 0 {
		c.LookbackDays = defaultLookbackDays
	}
	if c.RequestDelay <= 0 {
		c.RequestDelay = defaultRequestDelay
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if len(c.CompletedStates) == 0 {
		c.CompletedStates = defaultCompletedStates
	}
	return c
}

// SyncResult is one run's tally. Scanned counts completed feed entries,
// Premium the subset in premium series, New the ones without a stored match.
type SyncResult struct {
	Scanned int
	Premium int
	New     int
	Synced  int
	Skipped int
	Failed  int
}

// SyncService drives the ingestion pipeline: list recent matches, keep the
// premium completed ones, fetch and transform the scorecards of matches not
// yet stored, and persist the results in batches.
type SyncService struct {
	provider  FeedProvider
	matches   match.Repository
	innings   innings.Repository
	teamStats teamstats.Repository
	seen      *cache.Store
	pacer     *pacing.Pacer
	cfg       SyncConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewSyncService(
	provider FeedProvider,
	matches match.Repository,
	inningsRepo innings.Repository,
	teamStats teamstats.Repository,
	seen *cache.Store,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	cfg = cfg.normalize()
	return &SyncService{
		provider:  provider,
		matches:   matches,
		innings:   inningsRepo,
		teamStats: teamStats,
		seen:      seen,
		pacer:     pacing.NewPacer(cfg.RequestDelay),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one sync pass. Per-match failures are logged and tallied, not
// returned; the error return covers misconfiguration and context
// cancellation only.
func (s *SyncService) Run(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.Run")
	defer span.End()

	var result SyncResult
	if s.provider == nil || s.matches == nil || s.innings == nil || s.teamStats == nil {
		return result, fmt.Errorf("%w: sync service dependencies are not configured", ErrDependencyUnavailable)
	}

	to := s.now()
	from := to.AddDate(0, 0, -s.cfg.LookbackDays)
	listed, err := s.provider.ListMatches(ctx, from, to)
	if err != nil {
		// An unreachable feed ends the run quietly; the next scheduled run
		// covers the same window again.
		s.logger.ErrorContext(ctx, "match list fetch failed", "error", err)
		return result, nil
	}

	completed := make([]FeedMatch, 0, len(listed))
	for _, m := range listed {
		if s.isCompletedState(m.EventState) {
			completed = append(completed, m)
		}
	}
	result.Scanned = len(completed)

	premium := FilterPremium(completed)
	result.Premium = len(premium)

	fresh, err := s.filterNew(ctx, premium)
	if err != nil {
		s.logger.ErrorContext(ctx, "existing match lookup failed", "error", err)
		return result, nil
	}
	result.New = len(fresh)
	s.logger.InfoContext(ctx, "sync scan complete",
		"scanned", result.Scanned, "premium", result.Premium, "new", result.New)

	transformed := make([]*TransformResult, 0, len(fresh))
	for _, m := range fresh {
		if err := s.pacer.Wait(ctx); err != nil {
			return result, err
		}

		sc, err := s.provider.FetchScorecard(ctx, m.GameID)
		if err != nil {
			s.logger.WarnContext(ctx, "scorecard fetch failed", "game_id", m.GameID, "error", err)
			result.Failed++
			continue
		}
		if sc == nil {
			s.logger.InfoContext(ctx, "no scorecard for match", "game_id", m.GameID)
			result.Skipped++
			continue
		}

		tr, err := TransformScorecard(sc, m)
		if err != nil {
			s.logger.InfoContext(ctx, "scorecard not persistable", "game_id", m.GameID, "reason", err)
			result.Skipped++
			continue
		}
		transformed = append(transformed, tr)
	}

	if len(transformed) == 0 {
		return result, nil
	}
	synced, failed := s.persist(ctx, transformed)
	result.Synced = synced
	result.Failed += failed

	s.logger.InfoContext(ctx, "sync run complete",
		"synced", result.Synced, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func (s *SyncService) isCompletedState(state string) bool {
	for _, want := range s.cfg.CompletedStates {
		if state == want {
			return true
		}
	}
	return false
}

// filterNew drops matches already stored. A positive cache entry short-cuts
// the repository round trip for ids seen by a previous run; absence is never
// cached.
func (s *SyncService) filterNew(ctx context.Context, matches []FeedMatch) ([]FeedMatch, error) {
	unknown := make([]string, 0, len(matches))
	for _, m := range matches {
		if s.cachedExists(ctx, m.GameID) {
			continue
		}
		unknown = append(unknown, m.GameID)
	}
	if len(unknown) == 0 {
		return nil, nil
	}

	existing, err := s.matches.FilterExistingIDs(ctx, unknown)
	if err != nil {
		return nil, err
	}
	existingSet := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		existingSet[id] = struct{}{}
		s.markExists(ctx, id)
	}

	fresh := make([]FeedMatch, 0, len(matches))
	for _, m := range matches {
		if s.cachedExists(ctx, m.GameID) {
			continue
		}
		if _, ok := existingSet[m.GameID]; ok {
			continue
		}
		fresh = append(fresh, m)
	}
	return fresh, nil
}

func (s *SyncService) cachedExists(ctx context.Context, id string) bool {
	if s.seen == nil {
		return false
	}
	_, ok := s.seen.Get(ctx, existingMatchCachePrefix+id)
	return ok
}

func (s *SyncService) markExists(ctx context.Context, id string) {
	if s.seen == nil {
		return
	}
	s.seen.Set(ctx, existingMatchCachePrefix+id, true)
}

// persist clears any stale per-player rows for the processed matches, then
// writes everything in fixed-size batches. Returns synced and failed match
// counts.
func (s *SyncService) persist(ctx context.Context, transformed []*TransformResult) (int, int) {
	matchRows := make([]match.Match, 0, len(transformed))
	matchIDs := make([]string, 0, len(transformed))
	var batting []innings.BattingRow
	var bowling []innings.BowlingRow
	var stats []teamstats.InningsStat
	for _, tr := range transformed {
		matchRows = append(matchRows, tr.Match)
		matchIDs = append(matchIDs, tr.Match.ID)
		batting = append(batting, tr.Batting...)
		bowling = append(bowling, tr.Bowling...)
		stats = append(stats, tr.TeamStats...)
	}

	if err := s.innings.DeleteByMatchIDs(ctx, matchIDs); err != nil {
		s.logger.ErrorContext(ctx, "stale innings cleanup failed, aborting writes", "error", err)
		return 0, len(transformed)
	}

	failed := 0
	failed += forBatches(batting, s.cfg.BatchSize, func(batch []innings.BattingRow) error {
		return s.innings.UpsertBattingRows(ctx, batch)
	}, func(err error, size int) {
		s.logger.ErrorContext(ctx, "batting batch upsert failed", "rows", size, "error", err)
	})
	failed += forBatches(bowling, s.cfg.BatchSize, func(batch []innings.BowlingRow) error {
		return s.innings.UpsertBowlingRows(ctx, batch)
	}, func(err error, size int) {
		s.logger.ErrorContext(ctx, "bowling batch upsert failed", "rows", size, "error", err)
	})
	failed += forBatches(stats, s.cfg.BatchSize, func(batch []teamstats.InningsStat) error {
		return s.teamStats.UpsertStats(ctx, batch)
	}, func(err error, size int) {
		s.logger.ErrorContext(ctx, "team stats batch upsert failed", "rows", size, "error", err)
	})

	if failed > 0 {
		return 0, len(transformed)
	}

	// Match rows land last. A stored match id drops out of the next run's
	// diff, so it must not exist until every detail row is in place.
	failed = forBatches(matchRows, s.cfg.BatchSize, func(batch []match.Match) error {
		return s.matches.UpsertMatches(ctx, batch)
	}, func(err error, size int) {
		s.logger.ErrorContext(ctx, "match batch upsert failed", "rows", size, "error", err)
	})
	if failed > 0 {
		return 0, len(transformed)
	}

	for _, id := range matchIDs {
		s.markExists(ctx, id)
	}
	return len(transformed), 0
}

// forBatches applies fn to fixed-size chunks of items and returns the number
// of failed batches.
func forBatches[T any](items []T, size int, fn func([]T) error, onErr func(error, int)) int {
	failed := 0
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		if err := fn(items[start:end]); err != nil {
			onErr(err, end-start)
			failed++
		}
	}
	return failed
}
