package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovalline/cricsync/internal/domain/teamstats"
	qb "github.com/ovalline/cricsync/internal/platform/querybuilder"
)

const teamStatsUpsertSuffix = `ON CONFLICT (match_id, team_id)
DO UPDATE SET
    series_id = EXCLUDED.series_id,
    runs = EXCLUDED.runs,
    wickets = EXCLUDED.wickets,
    balls_faced = EXCLUDED.balls_faced,
    alloted_balls = EXCLUDED.alloted_balls,
    all_out = EXCLUDED.all_out,
    updated_at = NOW()`

type TeamStatsRepository struct {
	db *sqlx.DB
}

func NewTeamStatsRepository(db *sqlx.DB) *TeamStatsRepository {
	return &TeamStatsRepository{db: db}
}

var _ teamstats.Repository = (*TeamStatsRepository)(nil)

func (r *TeamStatsRepository) UpsertStats(ctx context.Context, items []teamstats.InningsStat) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert team stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := upsertStatsTx(ctx, tx, items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert team stats tx: %w", err)
	}
	return nil
}

// ReplaceForMatch rewrites a match's aggregates wholesale. Delete and insert
// share one transaction so an interrupted run never leaves the match with
// partial stats.
func (r *TeamStatsRepository) ReplaceForMatch(ctx context.Context, matchID string, items []teamstats.InningsStat) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace team stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("team_innings_stats").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear team stats query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear team stats match=%s: %w", matchID, err)
	}

	if err := upsertStatsTx(ctx, tx, items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace team stats tx: %w", err)
	}
	return nil
}

func upsertStatsTx(ctx context.Context, tx *sqlx.Tx, items []teamstats.InningsStat) error {
	for _, item := range items {
		insertModel := teamStatInsertModel{
			MatchID:      item.MatchID,
			TeamID:       item.TeamID,
			SeriesID:     item.SeriesID,
			Runs:         item.Runs,
			Wickets:      item.Wickets,
			BallsFaced:   item.BallsFaced,
			AllotedBalls: item.AllotedBalls,
			AllOut:       item.AllOut,
		}
		query, args, err := qb.InsertModel("team_innings_stats", insertModel, teamStatsUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert team stat query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert team stat match=%s team=%s: %w", item.MatchID, item.TeamID, err)
		}
	}
	return nil
}

func (r *TeamStatsRepository) DeleteByMatchIDs(ctx context.Context, matchIDs []string) error {
	if len(matchIDs) == 0 {
		return nil
	}

	query, args, err := qb.DeleteFrom("team_innings_stats").
		Where(qb.In("match_id", anyValues(matchIDs))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete team stats rows: %w", err)
	}
	return nil
}

func (r *TeamStatsRepository) ListByMatchID(ctx context.Context, matchID string) ([]teamstats.InningsStat, error) {
	query, args, err := qb.Select(
		"match_id",
		"team_id",
		"series_id",
		"runs",
		"wickets",
		"balls_faced",
		"alloted_balls",
		"all_out",
	).From("team_innings_stats").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("team_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team stats query: %w", err)
	}

	var rows []teamStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team stats match=%s: %w", matchID, err)
	}

	out := make([]teamstats.InningsStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamstats.InningsStat{
			MatchID:      row.MatchID,
			TeamID:       row.TeamID,
			SeriesID:     row.SeriesID,
			Runs:         row.Runs,
			Wickets:      row.Wickets,
			BallsFaced:   row.BallsFaced,
			AllotedBalls: row.AllotedBalls,
			AllOut:       row.AllOut,
		})
	}
	return out, nil
}

type teamStatTableModel struct {
	MatchID      string `db:"match_id"`
	TeamID       string `db:"team_id"`
	SeriesID     string `db:"series_id"`
	Runs         int    `db:"runs"`
	Wickets      int    `db:"wickets"`
	BallsFaced   int    `db:"balls_faced"`
	AllotedBalls int    `db:"alloted_balls"`
	AllOut       bool   `db:"all_out"`
}

type teamStatInsertModel struct {
	MatchID      string `db:"match_id"`
	TeamID       string `db:"team_id"`
	SeriesID     string `db:"series_id"`
	Runs         int    `db:"runs"`
	Wickets      int    `db:"wickets"`
	BallsFaced   int    `db:"balls_faced"`
	AllotedBalls int    `db:"alloted_balls"`
	AllOut       bool   `db:"all_out"`
}
