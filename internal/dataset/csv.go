package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/psychometrika/reportforge/internal/domain"
)

// csvLoader reads score exports: a header row naming at least a "domain"
// column, then one measurement per row. Score columns are optional and
// empty cells mean missing.
type csvLoader struct {
	dir string
}

func (l *csvLoader) Load(source string) ([]domain.Row, error) {
	path := filepath.Join(l.dir, source)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", source, domain.ErrMissingDataSource)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := make(map[string]int)
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["domain"]; !ok {
		return nil, fmt.Errorf("%s has no domain column: %w", source, domain.ErrMissingDataSource)
	}

	rows := make([]domain.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := domain.Row{
			Label:      field(rec, cols, "domain"),
			Instrument: field(rec, cols, "instrument"),
			Subtest:    field(rec, cols, "subtest"),
			Rater:      domain.ParseRaterTag(field(rec, cols, "rater")),
		}
		row.Scores = domain.Scores{
			Percentile: num(rec, cols, "percentile"),
			Raw:        num(rec, cols, "raw"),
			Scaled:     num(rec, cols, "scaled"),
			Standard:   num(rec, cols, "standard"),
			TScore:     num(rec, cols, "t_score"),
			ZScore:     num(rec, cols, "z_score"),
			Composite:  num(rec, cols, "composite"),
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func num(rec []string, cols map[string]int, name string) *float64 {
	s := field(rec, cols, name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
