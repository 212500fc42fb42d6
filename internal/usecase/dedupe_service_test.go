package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/ovalline/cricsync/internal/domain/innings"
	"github.com/ovalline/cricsync/internal/domain/match"
	"github.com/ovalline/cricsync/internal/infrastructure/repository/memory"
	"github.com/ovalline/cricsync/internal/platform/logging"
	"github.com/ovalline/cricsync/internal/usecase"
)

func seedDuplicateRows(t *testing.T, repo *memory.InningsRepository) (keepID int64) {
	t.Helper()

	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	repo.Now = func() time.Time { return clock }

	// Two stale copies, then the row that must survive.
	repo.InsertBattingRow(innings.BattingRow{MatchID: "m1", InningsNumber: 1, PlayerID: "p1", Runs: 10})
	clock = base.Add(time.Hour)
	repo.InsertBattingRow(innings.BattingRow{MatchID: "m1", InningsNumber: 1, PlayerID: "p1", Runs: 20})
	clock = base.Add(2 * time.Hour)
	keepID = repo.InsertBattingRow(innings.BattingRow{MatchID: "m1", InningsNumber: 1, PlayerID: "p1", Runs: 35})

	// Distinct players are never duplicates.
	repo.InsertBattingRow(innings.BattingRow{MatchID: "m1", InningsNumber: 1, PlayerID: "p2", Runs: 50})
	// Same player in another match is a separate group.
	repo.InsertBattingRow(innings.BattingRow{MatchID: "m2", InningsNumber: 1, PlayerID: "p1", Runs: 7})
	return keepID
}

func TestDedupeServiceRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := memory.NewMatchRepository()
	inningsRepo := memory.NewInningsRepository()
	if err := matches.UpsertMatches(ctx, []match.Match{{ID: "m1"}, {ID: "m2"}}); err != nil {
		t.Fatalf("seed matches: %v", err)
	}
	keepID := seedDuplicateRows(t, inningsRepo)

	svc := usecase.NewDedupeService(matches, inningsRepo, logging.NewNop())
	result, err := svc.Run(ctx, usecase.DedupeInput{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Matches != 2 || result.Groups != 1 || result.Removed != 2 || result.Failed != 0 {
		t.Fatalf("tallies = %+v", result)
	}

	rows, err := inningsRepo.ListBattingRowsByMatchIDs(ctx, []string{"m1", "m2"})
	if err != nil {
		t.Fatalf("ListBattingRowsByMatchIDs: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("surviving rows = %d, want 3", len(rows))
	}
	for _, row := range rows {
		if row.MatchID == "m1" && row.PlayerID == "p1" {
			if row.RowID != keepID || row.Runs != 35 {
				t.Fatalf("kept wrong row: %+v", row)
			}
		}
	}
}

func TestDedupeServiceDryRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := memory.NewMatchRepository()
	inningsRepo := memory.NewInningsRepository()
	if err := matches.UpsertMatches(ctx, []match.Match{{ID: "m1"}, {ID: "m2"}}); err != nil {
		t.Fatalf("seed matches: %v", err)
	}
	seedDuplicateRows(t, inningsRepo)
	before := inningsRepo.BattingRowCount()

	svc := usecase.NewDedupeService(matches, inningsRepo, logging.NewNop())
	result, err := svc.Run(ctx, usecase.DedupeInput{DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Removed != 2 {
		t.Fatalf("dry run removable = %d, want 2", result.Removed)
	}
	if inningsRepo.BattingRowCount() != before {
		t.Fatalf("dry run deleted rows: %d -> %d", before, inningsRepo.BattingRowCount())
	}
}

func TestDedupeServiceSingleMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := memory.NewMatchRepository()
	inningsRepo := memory.NewInningsRepository()
	seedDuplicateRows(t, inningsRepo)

	// Duplicates in m1 are out of scope when targeting m2.
	svc := usecase.NewDedupeService(matches, inningsRepo, logging.NewNop())
	result, err := svc.Run(ctx, usecase.DedupeInput{MatchID: "m2"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Matches != 1 || result.Groups != 0 || result.Removed != 0 {
		t.Fatalf("tallies = %+v", result)
	}
	if inningsRepo.BattingRowCount() != 5 {
		t.Fatalf("rows = %d, want 5 untouched", inningsRepo.BattingRowCount())
	}
}
