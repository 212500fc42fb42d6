package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("sql.ErrNoRows should be not-found")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatal("arbitrary error should not be not-found")
	}
	if isNotFound(nil) {
		t.Fatal("nil should not be not-found")
	}
}

func TestAnyValues(t *testing.T) {
	t.Parallel()

	got := anyValues([]string{"a", "b"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("anyValues = %v", got)
	}
	if out := anyValues([]int64(nil)); len(out) != 0 {
		t.Fatalf("anyValues(nil) = %v", out)
	}
}
