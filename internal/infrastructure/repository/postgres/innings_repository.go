package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovalline/cricsync/internal/domain/innings"
	qb "github.com/ovalline/cricsync/internal/platform/querybuilder"
)

const battingUpsertSuffix = `ON CONFLICT (match_id, innings_number, player_id)
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    team_id = EXCLUDED.team_id,
    runs = EXCLUDED.runs,
    balls = EXCLUDED.balls,
    fours = EXCLUDED.fours,
    sixes = EXCLUDED.sixes,
    strike_rate = EXCLUDED.strike_rate,
    dismissal = EXCLUDED.dismissal,
    is_out = EXCLUDED.is_out`

const bowlingUpsertSuffix = `ON CONFLICT (match_id, innings_number, player_id)
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    team_id = EXCLUDED.team_id,
    overs = EXCLUDED.overs,
    balls_bowled = EXCLUDED.balls_bowled,
    maidens = EXCLUDED.maidens,
    runs_conceded = EXCLUDED.runs_conceded,
    wickets = EXCLUDED.wickets,
    economy = EXCLUDED.economy,
    wides = EXCLUDED.wides,
    no_balls = EXCLUDED.no_balls,
    dot_balls = EXCLUDED.dot_balls,
    average_speed = EXCLUDED.average_speed`

type InningsRepository struct {
	db *sqlx.DB
}

func NewInningsRepository(db *sqlx.DB) *InningsRepository {
	return &InningsRepository{db: db}
}

var _ innings.Repository = (*InningsRepository)(nil)

func (r *InningsRepository) DeleteByMatchIDs(ctx context.Context, matchIDs []string) error {
	if len(matchIDs) == 0 {
		return nil
	}

	for _, table := range []string{"batting_innings", "bowling_innings"} {
		query, args, err := qb.DeleteFrom(table).
			Where(qb.In("match_id", anyValues(matchIDs))).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete %s query: %w", table, err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s rows: %w", table, err)
		}
	}
	return nil
}

func (r *InningsRepository) UpsertBattingRows(ctx context.Context, rows []innings.BattingRow) error {
	if len(rows) == 0 {
		return nil
	}

	builder := qb.InsertInto("batting_innings").Columns(
		"match_id",
		"innings_number",
		"player_id",
		"player_name",
		"team_id",
		"runs",
		"balls",
		"fours",
		"sixes",
		"strike_rate",
		"dismissal",
		"is_out",
	)
	for _, row := range rows {
		builder = builder.Values(
			row.MatchID,
			row.InningsNumber,
			row.PlayerID,
			row.PlayerName,
			row.TeamID,
			row.Runs,
			row.Balls,
			row.Fours,
			row.Sixes,
			row.StrikeRate,
			row.Dismissal,
			row.IsOut,
		)
	}

	query, args, err := builder.Suffix(battingUpsertSuffix).ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert batting rows query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert batting rows: %w", err)
	}
	return nil
}

func (r *InningsRepository) UpsertBowlingRows(ctx context.Context, rows []innings.BowlingRow) error {
	if len(rows) == 0 {
		return nil
	}

	builder := qb.InsertInto("bowling_innings").Columns(
		"match_id",
		"innings_number",
		"player_id",
		"player_name",
		"team_id",
		"overs",
		"balls_bowled",
		"maidens",
		"runs_conceded",
		"wickets",
		"economy",
		"wides",
		"no_balls",
		"dot_balls",
		"average_speed",
	)
	for _, row := range rows {
		builder = builder.Values(
			row.MatchID,
			row.InningsNumber,
			row.PlayerID,
			row.PlayerName,
			row.TeamID,
			row.Overs,
			row.BallsBowled,
			row.Maidens,
			row.RunsConceded,
			row.Wickets,
			row.Economy,
			row.Wides,
			row.NoBalls,
			row.DotBalls,
			row.AverageSpeed,
		)
	}

	query, args, err := builder.Suffix(bowlingUpsertSuffix).ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert bowling rows query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert bowling rows: %w", err)
	}
	return nil
}

func (r *InningsRepository) ListBattingRowsByMatchIDs(ctx context.Context, matchIDs []string) ([]innings.StoredBattingRow, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select(
		"id",
		"match_id",
		"innings_number",
		"player_id",
		"player_name",
		"team_id",
		"runs",
		"balls",
		"fours",
		"sixes",
		"strike_rate",
		"dismissal",
		"is_out",
		"created_at",
	).From("batting_innings").
		Where(qb.In("match_id", anyValues(matchIDs))).
		OrderBy("match_id ASC", "innings_number ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list batting rows query: %w", err)
	}

	var rows []battingRowTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list batting rows: %w", err)
	}

	out := make([]innings.StoredBattingRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, innings.StoredBattingRow{
			RowID:     row.ID,
			CreatedAt: row.CreatedAt,
			BattingRow: innings.BattingRow{
				MatchID:       row.MatchID,
				InningsNumber: row.InningsNumber,
				PlayerID:      row.PlayerID,
				PlayerName:    row.PlayerName,
				TeamID:        row.TeamID,
				Runs:          row.Runs,
				Balls:         row.Balls,
				Fours:         row.Fours,
				Sixes:         row.Sixes,
				StrikeRate:    row.StrikeRate,
				Dismissal:     row.Dismissal,
				IsOut:         row.IsOut,
			},
		})
	}
	return out, nil
}

func (r *InningsRepository) DeleteBattingRowsByRowIDs(ctx context.Context, rowIDs []int64) (int, error) {
	if len(rowIDs) == 0 {
		return 0, nil
	}

	query, args, err := qb.DeleteFrom("batting_innings").
		Where(qb.In("id", anyValues(rowIDs))).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete batting rows query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete batting rows: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted batting rows: %w", err)
	}
	return int(affected), nil
}
