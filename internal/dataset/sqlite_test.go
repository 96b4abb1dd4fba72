package dataset

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/psychometrika/reportforge/internal/domain"
	_ "modernc.org/sqlite"
)

func seedScoresDB(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE scores (
			domain TEXT, instrument TEXT, subtest TEXT, rater TEXT,
			percentile REAL, raw REAL, scaled REAL, standard REAL,
			t_score REAL, z_score REAL, composite REAL
		)
	`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`
		INSERT INTO scores (domain, instrument, rater, t_score)
		VALUES ('Behavior', 'CBCL', 'parent', 67.0),
		       ('Behavior', 'TRF', 'teacher', NULL)
	`); err != nil {
		t.Fatal(err)
	}
}

func TestSQLiteLoader(t *testing.T) {
	dir := t.TempDir()
	seedScoresDB(t, filepath.Join(dir, "ratings.db"))

	rows, err := NewLoader(dir).Load("ratings.db")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Rater != domain.RaterParent || !rows[0].Scores.HasAny() {
		t.Errorf("row 0 = %+v, want parent row with t-score", rows[0])
	}
	if rows[1].Scores.HasAny() {
		t.Error("row 1 should have no measurement (NULL t-score)")
	}
}

func TestSQLiteLoader_Missing(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Load("absent.db")
	if err == nil {
		t.Fatal("expected error for missing database")
	}
}
