package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovalline/cricsync/internal/domain/match"
	qb "github.com/ovalline/cricsync/internal/platform/querybuilder"
)

const matchUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    series_id = EXCLUDED.series_id,
    series_name = EXCLUDED.series_name,
    match_date = EXCLUDED.match_date,
    team_one_id = EXCLUDED.team_one_id,
    team_one_name = EXCLUDED.team_one_name,
    team_two_id = EXCLUDED.team_two_id,
    team_two_name = EXCLUDED.team_two_name,
    format = EXCLUDED.format,
    result = EXCLUDED.result,
    priority = EXCLUDED.priority,
    venue_id = EXCLUDED.venue_id,
    venue_name = EXCLUDED.venue_name,
    updated_at = NOW()`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

var _ match.Repository = (*MatchRepository)(nil)

func (r *MatchRepository) FilterExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("id").
		From("matches").
		Where(qb.In("id", anyValues(ids))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build filter existing match ids query: %w", err)
	}

	var existing []string
	if err := r.db.SelectContext(ctx, &existing, query, args...); err != nil {
		return nil, fmt.Errorf("filter existing match ids: %w", err)
	}
	return existing, nil
}

func (r *MatchRepository) UpsertMatches(ctx context.Context, items []match.Match) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := matchInsertModel{
			ID:          item.ID,
			SeriesID:    item.SeriesID,
			SeriesName:  item.SeriesName,
			MatchDate:   item.MatchDate,
			TeamOneID:   item.TeamOneID,
			TeamOneName: item.TeamOneName,
			TeamTwoID:   item.TeamTwoID,
			TeamTwoName: item.TeamTwoName,
			Format:      item.Format,
			Result:      item.Result,
			Priority:    item.Priority,
			VenueID:     item.VenueID,
			VenueName:   item.VenueName,
		}
		query, args, err := qb.InsertModel("matches", insertModel, matchUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert match id=%s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert matches tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) ListProvisional(ctx context.Context, matchID string, limit int) ([]match.Match, error) {
	conditions := []qb.Condition{
		qb.Or(
			qb.ILike("result", "%in progress%"),
			qb.ILike("result", "%yet to begin%"),
		),
	}
	if strings.TrimSpace(matchID) != "" {
		conditions = append(conditions, qb.Eq("id", matchID))
	}

	builder := qb.Select(
		"id",
		"series_id",
		"series_name",
		"match_date",
		"team_one_id",
		"team_one_name",
		"team_two_id",
		"team_two_name",
		"format",
		"result",
		"priority",
		"venue_id",
		"venue_name",
		"created_at",
		"updated_at",
	).From("matches").
		Where(conditions...).
		OrderBy("match_date ASC", "id ASC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list provisional matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list provisional matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Match{
			ID:          row.ID,
			SeriesID:    row.SeriesID,
			SeriesName:  row.SeriesName,
			MatchDate:   row.MatchDate,
			TeamOneID:   row.TeamOneID,
			TeamOneName: row.TeamOneName,
			TeamTwoID:   row.TeamTwoID,
			TeamTwoName: row.TeamTwoName,
			Format:      row.Format,
			Result:      row.Result,
			Priority:    row.Priority,
			VenueID:     row.VenueID,
			VenueName:   row.VenueName,
		})
	}
	return out, nil
}

func (r *MatchRepository) UpdateResult(ctx context.Context, id, result string) error {
	query, args, err := qb.Update("matches").
		Set("result", result).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match result query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match result id=%s: %w", id, err)
	}
	return nil
}

func (r *MatchRepository) ListIDs(ctx context.Context, afterID string, limit int) ([]string, error) {
	builder := qb.Select("id").
		From("matches").
		Where(qb.Expr("id > ?", afterID)).
		OrderBy("id ASC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match ids query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list match ids after %q: %w", afterID, err)
	}
	return ids, nil
}
