package dataset

import (
	"fmt"

	"github.com/psychometrika/reportforge/internal/domain"
)

type cacheEntry struct {
	rows []domain.Row
	err  error
}

// Checker answers the availability question for domain specs, loading
// each distinct data source at most once per run.
type Checker struct {
	loader Loader
	cache  map[string]cacheEntry
}

// NewChecker creates a per-run availability checker.
func NewChecker(loader Loader) *Checker {
	return &Checker{
		loader: loader,
		cache:  make(map[string]cacheEntry),
	}
}

func (c *Checker) load(source string) ([]domain.Row, error) {
	if e, ok := c.cache[source]; ok {
		return e.rows, e.err
	}
	rows, err := c.loader.Load(source)
	c.cache[source] = cacheEntry{rows: rows, err: err}
	return rows, err
}

// Rows returns the usable rows for a spec: rows whose label matches one
// of the spec's aliases and which carry at least one measurement.
// Returns ErrMissingDataSource when the source cannot be loaded and
// ErrNoUsableData when nothing measurable survives the filter.
func (c *Checker) Rows(spec domain.DomainSpec) ([]domain.Row, error) {
	all, err := c.load(spec.DataSource)
	if err != nil {
		return nil, err
	}

	var matched []domain.Row
	for _, row := range all {
		if spec.HasLabel(row.Label) {
			matched = append(matched, row)
		}
	}

	usable := false
	for _, row := range matched {
		if row.Scores.HasAny() {
			usable = true
			break
		}
	}
	if !usable {
		return nil, fmt.Errorf("%s: %w", spec.Key, domain.ErrNoUsableData)
	}
	return matched, nil
}

// HasData reports whether a spec has at least one usable row. Load
// failures count as unavailable, never as run errors.
func (c *Checker) HasData(spec domain.DomainSpec) bool {
	_, err := c.Rows(spec)
	return err == nil
}
