package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/ovalline/cricsync/internal/domain/innings"
	"github.com/ovalline/cricsync/internal/domain/match"
	"github.com/ovalline/cricsync/internal/platform/logging"
)

const (
	defaultDedupeChunkSize  = 200
	defaultDedupeMaxWorkers = 4
)

type DedupeInput struct {
	// MatchID narrows the run to one match; empty means the whole table.
	MatchID string
	// Limit caps the number of matches examined, 0 means no cap.
	Limit int
	// DryRun counts removable rows without deleting.
	DryRun bool
}

type DedupeResult struct {
	// Matches examined, duplicate groups found, rows removed (or removable
	// under dry run), and chunks that errored.
	Matches int
	Groups  int
	Removed int
	Failed  int
}

// DedupeService removes duplicated batting rows left behind by historical
// non-keyed inserts. Rows group by (match id, player id); the newest row of
// each group survives.
type DedupeService struct {
	matches    match.Repository
	innings    innings.Repository
	chunkSize  int
	maxWorkers int
	logger     *logging.Logger
}

func NewDedupeService(matches match.Repository, inningsRepo innings.Repository, logger *logging.Logger) *DedupeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DedupeService{
		matches:    matches,
		innings:    inningsRepo,
		chunkSize:  defaultDedupeChunkSize,
		maxWorkers: defaultDedupeMaxWorkers,
		logger:     logger,
	}
}

func (s *DedupeService) Run(ctx context.Context, input DedupeInput) (DedupeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "DedupeService.Run")
	defer span.End()

	var result DedupeResult
	if s.matches == nil || s.innings == nil {
		return result, fmt.Errorf("%w: dedupe service dependencies are not configured", ErrDependencyUnavailable)
	}
	if input.Limit < 0 {
		return result, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}

	chunks, total, err := s.collectChunks(ctx, input)
	if err != nil {
		return result, err
	}
	result.Matches = total
	s.logger.InfoContext(ctx, "dedupe scan complete",
		"matches", total, "chunks", len(chunks), "dry_run", input.DryRun)

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var groups, removed, failed int64
	var wg sync.WaitGroup
	for _, chunk := range chunks {
		chunk := chunk
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			g, r, err := s.cleanChunk(ctx, chunk, input.DryRun)
			if err != nil {
				s.logger.ErrorContext(ctx, "dedupe chunk failed", "matches", len(chunk), "error", err)
				atomic.AddInt64(&failed, 1)
				return
			}
			atomic.AddInt64(&groups, int64(g))
			atomic.AddInt64(&removed, int64(r))
		})
		if submitErr != nil {
			wg.Done()
			atomic.AddInt64(&failed, 1)
		}
	}
	wg.Wait()

	result.Groups = int(groups)
	result.Removed = int(removed)
	result.Failed = int(failed)
	s.logger.InfoContext(ctx, "dedupe run complete",
		"groups", result.Groups, "removed", result.Removed, "failed", result.Failed)
	return result, nil
}

func (s *DedupeService) collectChunks(ctx context.Context, input DedupeInput) ([][]string, int, error) {
	if matchID := strings.TrimSpace(input.MatchID); matchID != "" {
		return [][]string{{matchID}}, 1, nil
	}

	var chunks [][]string
	total := 0
	afterID := ""
	for {
		pageSize := s.chunkSize
		if input.Limit > 0 && input.Limit-total < pageSize {
			pageSize = input.Limit - total
		}
		if pageSize <= 0 {
			break
		}

		ids, err := s.matches.ListIDs(ctx, afterID, pageSize)
		if err != nil {
			return nil, 0, fmt.Errorf("list match ids after %q: %w", afterID, err)
		}
		if len(ids) == 0 {
			break
		}
		chunks = append(chunks, ids)
		total += len(ids)
		afterID = ids[len(ids)-1]
	}
	return chunks, total, nil
}

func (s *DedupeService) cleanChunk(ctx context.Context, matchIDs []string, dryRun bool) (groups, removed int, err error) {
	rows, err := s.innings.ListBattingRowsByMatchIDs(ctx, matchIDs)
	if err != nil {
		return 0, 0, fmt.Errorf("list batting rows: %w", err)
	}

	byPlayer := make(map[string][]innings.StoredBattingRow)
	for _, row := range rows {
		key := row.MatchID + "|" + row.PlayerID
		byPlayer[key] = append(byPlayer[key], row)
	}

	var stale []int64
	for _, group := range byPlayer {
		if len(group) < 2 {
			continue
		}
		groups++
		// Newest row wins; row id breaks created-at ties.
		sort.Slice(group, func(i, j int) bool {
			if group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].RowID > group[j].RowID
			}
			return group[i].CreatedAt.After(group[j].CreatedAt)
		})
		for _, row := range group[1:] {
			stale = append(stale, row.RowID)
		}
	}

	if len(stale) == 0 {
		return groups, 0, nil
	}
	if dryRun {
		return groups, len(stale), nil
	}

	n, err := s.innings.DeleteBattingRowsByRowIDs(ctx, stale)
	if err != nil {
		return groups, 0, fmt.Errorf("delete stale rows: %w", err)
	}
	return groups, n, nil
}
