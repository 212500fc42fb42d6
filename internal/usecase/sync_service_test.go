package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ovalline/cricsync/internal/domain/innings"
	"github.com/ovalline/cricsync/internal/infrastructure/repository/memory"
	"github.com/ovalline/cricsync/internal/platform/cache"
	"github.com/ovalline/cricsync/internal/platform/logging"
	"github.com/ovalline/cricsync/internal/usecase"
)

type stubProvider struct {
	mu             sync.Mutex
	matches        []usecase.FeedMatch
	scorecards     map[string]*usecase.FeedScorecard
	listCalls      int
	scorecardCalls int
}

func (p *stubProvider) ListMatches(context.Context, time.Time, time.Time) ([]usecase.FeedMatch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listCalls++
	return p.matches, nil
}

func (p *stubProvider) FetchScorecard(_ context.Context, gameID string) (*usecase.FeedScorecard, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scorecardCalls++
	return p.scorecards[gameID], nil
}

func tournamentSummary(gameID string, teamA, teamB string) usecase.FeedMatch {
	return usecase.FeedMatch{
		GameID:     gameID,
		SeriesID:   "cup",
		SeriesName: "Asia Cup",
		EventState: "R",
		Format:     "ODI",
		StartDate:  "9/10/2025",
		Participants: []usecase.FeedParticipant{
			{ID: teamA, Name: "Team " + teamA},
			{ID: teamB, Name: "Team " + teamB},
		},
	}
}

func tournamentScorecard(gameID, teamA, teamB string) *usecase.FeedScorecard {
	return &usecase.FeedScorecard{
		Detail: usecase.FeedMatchDetail{
			MatchID:    gameID,
			Format:     "ODI",
			SeriesID:   "cup",
			SeriesName: "Asia Cup",
			TeamHomeID: teamA,
			TeamAwayID: teamB,
			Status:     "Team " + teamA + " won by 20 runs",
		},
		Teams: map[string]usecase.FeedTeam{
			teamA: {Name: "Team " + teamA, Players: map[string]string{teamA + "-p1": "Opener A"}},
			teamB: {Name: "Team " + teamB, Players: map[string]string{teamB + "-p1": "Opener B"}},
		},
		Innings: []usecase.FeedInnings{
			{
				Number: "First", BattingTeam: teamA, Total: "250", Wickets: "7", Overs: "50", AllotedOvers: "50",
				Batsmen: []usecase.FeedBatsman{{PlayerID: teamA + "-p1", Runs: "70", Balls: "65", Dismissal: "bowled"}},
				Bowlers: []usecase.FeedBowler{{PlayerID: teamB + "-p1", Overs: "10", Runs: "48", Wickets: "2"}},
			},
			{
				Number: "Second", BattingTeam: teamB, Total: "230", Wickets: "10", Overs: "48.2", AllotedOvers: "50",
				Batsmen: []usecase.FeedBatsman{{PlayerID: teamB + "-p1", Runs: "55", Balls: "60", Dismissal: "run out"}},
				Bowlers: []usecase.FeedBowler{{PlayerID: teamA + "-p1", Overs: "9", Runs: "40", Wickets: "3"}},
			},
		},
	}
}

func newSyncFixture(t *testing.T) (*usecase.SyncService, *stubProvider, *memory.MatchRepository, *memory.InningsRepository, *memory.TeamStatsRepository) {
	t.Helper()

	provider := &stubProvider{
		matches: []usecase.FeedMatch{
			tournamentSummary("g1", "t1", "t2"),
			tournamentSummary("g2", "t2", "t3"),
			// Still live, filtered by event state.
			func() usecase.FeedMatch {
				m := tournamentSummary("g3", "t1", "t3")
				m.EventState = "L"
				return m
			}(),
			// Bilateral series, filtered by premium grouping.
			{
				GameID: "g4", SeriesID: "bi", SeriesName: "Friendship Cup", EventState: "R",
				Participants: []usecase.FeedParticipant{{ID: "t8"}, {ID: "t9"}},
			},
		},
		scorecards: map[string]*usecase.FeedScorecard{
			"g1": tournamentScorecard("g1", "t1", "t2"),
			"g2": tournamentScorecard("g2", "t2", "t3"),
		},
	}

	matches := memory.NewMatchRepository()
	inningsRepo := memory.NewInningsRepository()
	teamStats := memory.NewTeamStatsRepository()
	svc := usecase.NewSyncService(
		provider, matches, inningsRepo, teamStats,
		cache.NewStore(time.Minute),
		usecase.SyncConfig{RequestDelay: time.Nanosecond},
		logging.NewNop(),
	)
	return svc, provider, matches, inningsRepo, teamStats
}

func TestSyncServiceRun(t *testing.T) {
	t.Parallel()

	svc, provider, matches, inningsRepo, teamStats := newSyncFixture(t)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Scanned != 3 || result.Premium != 2 || result.New != 2 {
		t.Fatalf("scan tallies = %+v", result)
	}
	if result.Synced != 2 || result.Skipped != 0 || result.Failed != 0 {
		t.Fatalf("write tallies = %+v", result)
	}
	if provider.scorecardCalls != 2 {
		t.Fatalf("scorecard calls = %d, want 2", provider.scorecardCalls)
	}

	if matches.Len() != 2 {
		t.Fatalf("stored matches = %d, want 2", matches.Len())
	}
	stored, ok := matches.Get("g1")
	if !ok || stored.Result != "Team t1 won by 20 runs" {
		t.Fatalf("stored g1 = %+v ok=%v", stored, ok)
	}
	if inningsRepo.BattingRowCount() != 4 || inningsRepo.BowlingRowCount() != 4 {
		t.Fatalf("row counts = %d batting / %d bowling, want 4/4",
			inningsRepo.BattingRowCount(), inningsRepo.BowlingRowCount())
	}
	if teamStats.Len() != 4 {
		t.Fatalf("team stat rows = %d, want 4", teamStats.Len())
	}
}

func TestSyncServiceRunIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, provider, matches, inningsRepo, teamStats := newSyncFixture(t)
	ctx := context.Background()

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	firstFetches := provider.scorecardCalls

	result, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if result.New != 0 || result.Synced != 0 {
		t.Fatalf("second run tallies = %+v, want no new work", result)
	}
	if provider.scorecardCalls != firstFetches {
		t.Fatalf("second run fetched scorecards: %d -> %d", firstFetches, provider.scorecardCalls)
	}
	if matches.Len() != 2 || inningsRepo.BattingRowCount() != 4 || teamStats.Len() != 4 {
		t.Fatalf("second run changed stored rows: matches=%d batting=%d stats=%d",
			matches.Len(), inningsRepo.BattingRowCount(), teamStats.Len())
	}
}

// flakyInningsRepository fails a configurable number of batting upserts
// before behaving normally.
type flakyInningsRepository struct {
	*memory.InningsRepository
	failures int
}

func (r *flakyInningsRepository) UpsertBattingRows(ctx context.Context, rows []innings.BattingRow) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset by peer")
	}
	return r.InningsRepository.UpsertBattingRows(ctx, rows)
}

func TestSyncServiceRetriesMatchesAfterBatchFailure(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		matches: []usecase.FeedMatch{
			tournamentSummary("g1", "t1", "t2"),
			tournamentSummary("g2", "t2", "t3"),
		},
		scorecards: map[string]*usecase.FeedScorecard{
			"g1": tournamentScorecard("g1", "t1", "t2"),
			"g2": tournamentScorecard("g2", "t2", "t3"),
		},
	}
	matches := memory.NewMatchRepository()
	flaky := &flakyInningsRepository{InningsRepository: memory.NewInningsRepository(), failures: 1}
	teamStats := memory.NewTeamStatsRepository()
	svc := usecase.NewSyncService(
		provider, matches, flaky, teamStats,
		cache.NewStore(time.Minute),
		usecase.SyncConfig{RequestDelay: time.Nanosecond},
		logging.NewNop(),
	)
	ctx := context.Background()

	result, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if result.Synced != 0 || result.Failed != 2 {
		t.Fatalf("first run tallies = %+v, want all failed", result)
	}
	// A stored match row would hide the match from the next run's diff, so
	// none may exist until its detail rows have landed.
	if matches.Len() != 0 {
		t.Fatalf("stored matches after failed run = %d, want 0", matches.Len())
	}

	result, err = svc.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if result.New != 2 || result.Synced != 2 || result.Failed != 0 {
		t.Fatalf("second run tallies = %+v, want full recovery", result)
	}
	if matches.Len() != 2 || flaky.BattingRowCount() != 4 {
		t.Fatalf("recovered rows: matches=%d batting=%d, want 2/4",
			matches.Len(), flaky.BattingRowCount())
	}
}

func TestSyncServiceSkipsUnpersistableScorecards(t *testing.T) {
	t.Parallel()

	svc, provider, matches, _, _ := newSyncFixture(t)
	abandoned := tournamentScorecard("g1", "t1", "t2")
	abandoned.Detail.Status = "Match abandoned due to rain"
	provider.scorecards["g1"] = abandoned
	delete(provider.scorecards, "g2")

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// g1 is voided, g2 has no scorecard document yet.
	if result.Skipped != 2 || result.Synced != 0 || result.Failed != 0 {
		t.Fatalf("tallies = %+v, want 2 skipped", result)
	}
	if matches.Len() != 0 {
		t.Fatalf("stored matches = %d, want 0", matches.Len())
	}
}
