package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectWithConditionsAndLimit(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id", "result").
		From("cricket_matches").
		Where(
			Eq("series_id", "S1"),
			ILike("result", "%in progress%"),
		).
		OrderBy("match_date DESC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "SELECT id, result FROM cricket_matches WHERE series_id = $1 AND result ILIKE $2 ORDER BY match_date DESC LIMIT 10"
	if query != want {
		t.Fatalf("query mismatch:\n got=%s\nwant=%s", query, want)
	}
	if !reflect.DeepEqual(args, []any{"S1", "%in progress%"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelectWithOrConditions(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").
		From("cricket_matches").
		Where(
			Or(
				ILike("result", "%in progress%"),
				ILike("result", "%yet to begin%"),
			),
			Eq("id", "M1"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "SELECT id FROM cricket_matches WHERE (result ILIKE $1 OR result ILIKE $2) AND id = $3"
	if query != want {
		t.Fatalf("query mismatch:\n got=%s\nwant=%s", query, want)
	}
	if !reflect.DeepEqual(args, []any{"%in progress%", "%yet to begin%", "M1"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInEmptyValuesNeverMatches(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").From("cricket_matches").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}
	if query != "SELECT id FROM cricket_matches WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestInsertMultiRowPlaceholders(t *testing.T) {
	t.Parallel()

	query, args, err := InsertInto("team_innings_stats").
		Columns("match_id", "team_id", "runs").
		Values("M1", "1", 183).
		Values("M1", "2", 178).
		Suffix("ON CONFLICT (match_id, team_id) DO UPDATE SET runs = EXCLUDED.runs").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "INSERT INTO team_innings_stats (match_id, team_id, runs) VALUES ($1, $2, $3), ($4, $5, $6) " +
		"ON CONFLICT (match_id, team_id) DO UPDATE SET runs = EXCLUDED.runs"
	if query != want {
		t.Fatalf("query mismatch:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %d", len(args))
	}
}

func TestInsertRowArityMismatch(t *testing.T) {
	t.Parallel()

	_, _, err := InsertInto("t").Columns("a", "b").Values(1).ToSQL()
	if err == nil {
		t.Fatal("expected arity error")
	}
}

func TestUpdateWithExprAndWhere(t *testing.T) {
	t.Parallel()

	query, args, err := Update("cricket_matches").
		Set("result", "India won by 5 wickets").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "M1")).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "UPDATE cricket_matches SET result = $1, updated_at = NOW() WHERE id = $2"
	if query != want {
		t.Fatalf("query mismatch:\n got=%s\nwant=%s", query, want)
	}
	if !reflect.DeepEqual(args, []any{"India won by 5 wickets", "M1"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestDeleteRequiresConditions(t *testing.T) {
	t.Parallel()

	if _, _, err := DeleteFrom("batting_innings").ToSQL(); err == nil {
		t.Fatal("expected error for unconditional delete")
	}

	query, args, err := DeleteFrom("batting_innings").
		Where(In("match_id", []any{"M1", "M2"})).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}
	if query != "DELETE FROM batting_innings WHERE match_id IN ($1, $2)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if !reflect.DeepEqual(args, []any{"M1", "M2"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertModelUsesDBTags(t *testing.T) {
	t.Parallel()

	row := struct {
		MatchID string `db:"match_id"`
		TeamID  string `db:"team_id"`
		Runs    int    `db:"runs"`
		skip    string
		Ignored string `db:"-"`
	}{MatchID: "M1", TeamID: "4", Runs: 183}
	_ = row.skip

	query, args, err := InsertModel("team_innings_stats", row, "")
	if err != nil {
		t.Fatalf("InsertModel error: %v", err)
	}
	if query != "INSERT INTO team_innings_stats (match_id, team_id, runs) VALUES ($1, $2, $3)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if !reflect.DeepEqual(args, []any{"M1", "4", 183}) {
		t.Fatalf("unexpected args: %v", args)
	}
}
