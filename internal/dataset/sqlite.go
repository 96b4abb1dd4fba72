package dataset

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/psychometrika/reportforge/internal/domain"
	_ "modernc.org/sqlite"
)

// sqliteLoader reads rows from a scores table in a SQLite export.
// Expected schema: scores(domain, instrument, subtest, rater,
// percentile, raw, scaled, standard, t_score, z_score, composite).
type sqliteLoader struct {
	dir string
}

func (l *sqliteLoader) Load(source string) ([]domain.Row, error) {
	path := filepath.Join(l.dir, source)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", source, domain.ErrMissingDataSource)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT domain, instrument, subtest, rater,
		       percentile, raw, scaled, standard, t_score, z_score, composite
		FROM scores
	`)
	if err != nil {
		return nil, fmt.Errorf("%s has no scores table: %w", source, domain.ErrMissingDataSource)
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var label, instrument, subtest, rater sql.NullString
		var pct, raw, scaled, standard, tScore, zScore, composite sql.NullFloat64

		if err := rows.Scan(&label, &instrument, &subtest, &rater,
			&pct, &raw, &scaled, &standard, &tScore, &zScore, &composite); err != nil {
			return nil, err
		}

		out = append(out, domain.Row{
			Label:      label.String,
			Instrument: instrument.String,
			Subtest:    subtest.String,
			Rater:      domain.ParseRaterTag(rater.String),
			Scores: domain.Scores{
				Percentile: nullable(pct),
				Raw:        nullable(raw),
				Scaled:     nullable(scaled),
				Standard:   nullable(standard),
				TScore:     nullable(tScore),
				ZScore:     nullable(zScore),
				Composite:  nullable(composite),
			},
		})
	}
	return out, rows.Err()
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
