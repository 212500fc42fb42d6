package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ovalline/cricsync/internal/domain/match"
	"github.com/ovalline/cricsync/internal/domain/teamstats"
	"github.com/ovalline/cricsync/internal/platform/logging"
	"github.com/ovalline/cricsync/internal/platform/pacing"
)

// completionMarkers gate reconciliation: the fresh scorecard's status must
// read as a finished match before anything is overwritten.
var completionMarkers = []string{"ended", "won", "beat", "drawn", "tied"}

type ReconcileInput struct {
	// MatchID narrows the run to one match; empty means all provisional
	// matches.
	MatchID string
	// Limit caps the candidate count, 0 means no cap.
	Limit int
	// DryRun reports what would change without writing.
	DryRun bool
}

type ReconcileOutcome string

const (
	OutcomeRepaired    ReconcileOutcome = "repaired"
	OutcomeWouldRepair ReconcileOutcome = "would_repair"
	OutcomeSkipped     ReconcileOutcome = "skipped"
	OutcomeFailed      ReconcileOutcome = "failed"
)

type ReconcileRow struct {
	MatchID string
	Outcome ReconcileOutcome
	Reason  string
	Result  string
}

type ReconcileResult struct {
	Candidates int
	Repaired   int
	Skipped    int
	Failed     int
	Rows       []ReconcileRow
}

// ReconcileService repairs matches whose stored result was captured before
// the match finished. For each provisional match it refetches the scorecard
// and, once the match reads as complete, replaces the team aggregates
// atomically and updates the result text.
type ReconcileService struct {
	provider  FeedProvider
	matches   match.Repository
	teamStats teamstats.Repository
	pacer     *pacing.Pacer
	logger    *logging.Logger
}

func NewReconcileService(
	provider FeedProvider,
	matches match.Repository,
	teamStats teamstats.Repository,
	requestDelay time.Duration,
	logger *logging.Logger,
) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	if requestDelay <= 0 {
		requestDelay = defaultRequestDelay
	}
	return &ReconcileService{
		provider:  provider,
		matches:   matches,
		teamStats: teamStats,
		pacer:     pacing.NewPacer(requestDelay),
		logger:    logger,
	}
}

func (s *ReconcileService) Run(ctx context.Context, input ReconcileInput) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ReconcileService.Run")
	defer span.End()

	var result ReconcileResult
	if s.provider == nil || s.matches == nil || s.teamStats == nil {
		return result, fmt.Errorf("%w: reconcile service dependencies are not configured", ErrDependencyUnavailable)
	}
	if input.Limit < 0 {
		return result, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}

	candidates, err := s.matches.ListProvisional(ctx, strings.TrimSpace(input.MatchID), input.Limit)
	if err != nil {
		return result, fmt.Errorf("list provisional matches: %w", err)
	}
	result.Candidates = len(candidates)
	s.logger.InfoContext(ctx, "reconcile scan complete", "candidates", result.Candidates, "dry_run", input.DryRun)

	for _, m := range candidates {
		if err := s.pacer.Wait(ctx); err != nil {
			return result, err
		}
		row := s.reconcileOne(ctx, m, input.DryRun)
		result.Rows = append(result.Rows, row)
		switch row.Outcome {
		case OutcomeRepaired, OutcomeWouldRepair:
			result.Repaired++
		case OutcomeSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	s.logger.InfoContext(ctx, "reconcile run complete",
		"repaired", result.Repaired, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func (s *ReconcileService) reconcileOne(ctx context.Context, m match.Match, dryRun bool) ReconcileRow {
	row := ReconcileRow{MatchID: m.ID}

	sc, err := s.provider.FetchScorecard(ctx, m.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "reconcile scorecard fetch failed", "match_id", m.ID, "error", err)
		row.Outcome = OutcomeFailed
		row.Reason = "scorecard fetch failed"
		return row
	}
	if sc == nil || len(sc.Innings) == 0 {
		row.Outcome = OutcomeSkipped
		row.Reason = "no scorecard yet"
		return row
	}

	status := firstNonEmpty(sc.Detail.Status, sc.Detail.Result)
	if !isCompletedStatus(status) {
		row.Outcome = OutcomeSkipped
		row.Reason = "still in progress"
		return row
	}

	tr, err := TransformScorecard(sc, FeedMatch{
		GameID:     m.ID,
		SeriesID:   m.SeriesID,
		SeriesName: m.SeriesName,
	})
	if err != nil {
		row.Outcome = OutcomeSkipped
		row.Reason = "scorecard not persistable"
		return row
	}
	if len(tr.TeamStats) < 2 {
		// Both sides must have batted before aggregates are trustworthy.
		row.Outcome = OutcomeSkipped
		row.Reason = "incomplete innings data"
		return row
	}

	row.Result = status
	if dryRun {
		row.Outcome = OutcomeWouldRepair
		return row
	}

	if err := s.teamStats.ReplaceForMatch(ctx, m.ID, tr.TeamStats); err != nil {
		s.logger.ErrorContext(ctx, "team stats replace failed", "match_id", m.ID, "error", err)
		row.Outcome = OutcomeFailed
		row.Reason = "team stats replace failed"
		return row
	}
	if err := s.matches.UpdateResult(ctx, m.ID, status); err != nil {
		s.logger.ErrorContext(ctx, "result update failed", "match_id", m.ID, "error", err)
		row.Outcome = OutcomeFailed
		row.Reason = "result update failed"
		return row
	}

	s.logger.InfoContext(ctx, "match reconciled", "match_id", m.ID, "result", status)
	row.Outcome = OutcomeRepaired
	return row
}

func isCompletedStatus(status string) bool {
	text := strings.ToLower(status)
	for _, marker := range completionMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
